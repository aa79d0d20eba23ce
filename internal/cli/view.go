package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tilegrid/boardflow/pkg/anim"
	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/content"
	"github.com/tilegrid/boardflow/pkg/engine"
	"github.com/tilegrid/boardflow/pkg/geom"
	"github.com/tilegrid/boardflow/pkg/scroll"
	"github.com/tilegrid/boardflow/pkg/session"
	"github.com/tilegrid/boardflow/pkg/store"
)

// Viewer styles
var (
	viewSelectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewPanelStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	viewCollapsedStyle = lipgloss.NewStyle().Foreground(colorDim)
	viewStatusStyle    = lipgloss.NewStyle().Foreground(colorGray)
)

// Input deltas fed to the wheel pipeline per keypress.
const (
	viewPanStep  = 40.0
	viewZoomStep = 48.0
	viewFrameDur = 33 * time.Millisecond
)

// viewCommand creates the view command, an interactive board browser.
func (c *CLI) viewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <board.json>",
		Short: "Browse a board file interactively",
		Long: `Browse a board file interactively.

The view command loads a board file into the layout engine and renders
the canvas in the terminal. Pan, zoom, switch between canvas and linear
mode, collapse threads, and resize panels to watch the reflow animation.

Keys:
  ←↓↑→ / hjkl   pan
  +/-           zoom (canvas mode)
  z             toggle scroll/zoom wheel mode
  m             switch canvas/linear mode
  tab / n, p    select next/previous panel
  c             collapse/expand the selected panel's thread
  [ / ]         shrink/grow the selected panel
  f             fit all panels into view
  q             quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0])
		},
	}
	return cmd
}

// runView loads the board file into a fresh engine and runs the TUI.
func (c *CLI) runView(ctx context.Context, input string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	f, err := board.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load board %s: %w", input, err)
	}

	provider := content.NewMemoryProvider()
	provider.SetTurns(f.Conversation, turnsFromFile(f))

	sched := anim.NewManualScheduler()
	eng, err := engine.New(engine.Options{
		Environment:    headlessEnvironment(cfg),
		Content:        provider,
		Edges:          store.NewMemoryStore(),
		Params:         cfg.Layout,
		Scheduler:      sched,
		ReflowDuration: cfg.Engine.ReflowDuration(),
		Logger:         c.Logger,
	})
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer eng.Teardown(context.Background())

	if err := eng.LoadConversation(ctx, f.Conversation); err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}
	restoreFromFile(ctx, eng, f)

	// A viewer session from a previous run wins over the file's saved
	// mode and viewport.
	sessions, err := session.NewViewerStore()
	if err == nil {
		if saved, resumed, rerr := sessions.Resume(ctx, f.Conversation); rerr == nil && resumed {
			if saved.Mode != eng.Session().Mode {
				_ = eng.SetMode(ctx, saved.Mode)
			}
			eng.SetScrollSubMode(saved.SubMode)
			eng.RestoreViewport(saved.Viewport)
		}
	}

	m := newViewModel(eng, sched, f.Conversation)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()

	if sessions != nil {
		if serr := sessions.Save(context.Background(), eng.Session()); serr != nil {
			c.Logger.Warn("save viewer session", "err", serr)
		}
	}
	return err
}

// turnsFromFile reconstructs the content turns backing a saved board.
func turnsFromFile(f board.File) []board.Turn {
	turns := make([]board.Turn, 0, len(f.Panels))
	for _, p := range f.Panels {
		turns = append(turns, board.Turn{
			ID:         p.ID,
			PayloadRef: p.PayloadRef,
			Collapsed:  p.Collapsed,
			CreatedAt:  p.CreatedAt,
		})
	}
	return turns
}

// restoreFromFile replays the saved measurements, positions, edges, and
// mode onto a freshly loaded engine.
func restoreFromFile(ctx context.Context, eng *engine.Engine, f board.File) {
	for _, p := range f.Panels {
		if p.Measured {
			eng.PanelMeasured(ctx, p.ID, p.MeasuredHeight)
		}
	}
	for _, p := range f.Panels {
		_ = eng.DragTo(ctx, p.ID, p.Position)
	}
	eng.EndDrag(ctx)
	for _, e := range f.Edges {
		_, _ = eng.CreateEdge(ctx, e.Source, e.Target, e.Style)
	}
	if f.Mode != "" && f.Mode != board.ModeCanvas {
		_ = eng.SetMode(ctx, f.Mode)
	}
	eng.FitAll()
}

// tickMsg drives reflow animation frames.
type tickMsg time.Time

func frameTick() tea.Cmd {
	return tea.Tick(viewFrameDur, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// viewModel is the bubbletea model wrapping the layout engine.
type viewModel struct {
	eng          *engine.Engine
	sched        *anim.ManualScheduler
	conversation string

	cursor int
	width  int
	height int
	status string
}

func newViewModel(eng *engine.Engine, sched *anim.ManualScheduler, conversation string) viewModel {
	return viewModel{
		eng:          eng,
		sched:        sched,
		conversation: conversation,
		width:        80,
		height:       24,
	}
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.sched.Step(viewFrameDur)
		if m.eng.Reflowing() {
			return m, frameTick()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "left", "h":
			m.wheel(-viewPanStep, 0, false)
		case "right", "l":
			m.wheel(viewPanStep, 0, false)
		case "up", "k":
			m.wheel(0, -viewPanStep, false)
		case "down", "j":
			m.wheel(0, viewPanStep, false)

		case "+", "=":
			m.wheel(0, -viewZoomStep, true)
		case "-":
			m.wheel(0, viewZoomStep, true)

		case "z":
			if m.eng.Session().SubMode == scroll.SubModeZoom {
				m.eng.SetScrollSubMode(scroll.SubModeScroll)
				m.status = "wheel: scroll"
			} else {
				m.eng.SetScrollSubMode(scroll.SubModeZoom)
				m.status = "wheel: zoom"
			}

		case "m":
			next := board.ModeLinear
			if m.eng.Session().Mode == board.ModeLinear {
				next = board.ModeCanvas
			}
			if err := m.eng.SetMode(ctx, next); err != nil {
				m.status = err.Error()
			} else {
				m.status = "mode: " + next
			}

		case "tab", "n":
			m.moveCursor(1)
		case "shift+tab", "p":
			m.moveCursor(-1)

		case "c":
			if id, ok := m.selectedID(); ok {
				if changed, err := m.eng.ToggleComponent(ctx, id); err != nil {
					m.status = err.Error()
				} else {
					m.status = fmt.Sprintf("toggled %d panels", len(changed))
				}
			}

		case "[":
			return m.resizeSelected(ctx, -80)
		case "]":
			return m.resizeSelected(ctx, 80)

		case "f":
			m.eng.FitAll()
			m.status = "fit all"
		}
	}
	return m, nil
}

// wheel feeds a synthetic wheel event anchored at the canvas center.
func (m *viewModel) wheel(dx, dy float64, modifier bool) {
	canvas := m.eng.Geometry().Canvas
	m.eng.Wheel(scroll.Wheel{
		DeltaX:   dx,
		DeltaY:   dy,
		Cursor:   geom.Point{X: canvas.Width / 2, Y: canvas.Height / 2},
		Modifier: modifier,
	})
}

func (m *viewModel) moveCursor(delta int) {
	n := m.eng.Board().PanelCount()
	if n == 0 {
		return
	}
	m.cursor = ((m.cursor+delta)%n + n) % n
}

func (m *viewModel) selectedID() (string, bool) {
	panels := m.eng.Board().Panels()
	if m.cursor >= len(panels) {
		return "", false
	}
	return panels[m.cursor].ID, true
}

// resizeSelected changes the selected panel's measured height, which
// kicks off the reflow animation for the panels below it.
func (m viewModel) resizeSelected(ctx context.Context, delta float64) (tea.Model, tea.Cmd) {
	id, ok := m.selectedID()
	if !ok {
		return m, nil
	}
	p, _ := m.eng.Board().Panel(id)
	height := p.MeasuredHeight + delta
	if height < 40 {
		height = 40
	}
	m.eng.PanelMeasured(ctx, id, height)
	m.status = fmt.Sprintf("%s height %.0f", id, height)
	if m.eng.Reflowing() {
		return m, frameTick()
	}
	return m, nil
}

func (m viewModel) View() string {
	var b strings.Builder

	view := m.eng.Viewport()
	header := fmt.Sprintf("%s  %s  zoom %.2f", m.conversation, m.eng.Session().Mode, view.Zoom)
	b.WriteString(StyleTitle.Render(header))
	b.WriteString("\n")

	gridH := m.height - 4
	if gridH < 5 {
		gridH = 5
	}
	b.WriteString(m.renderCanvas(m.width, gridH))

	if m.status != "" {
		b.WriteString(viewStatusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←↓↑→ pan  +/- zoom  m mode  tab select  c collapse  [/] resize  f fit  q quit"))
	return b.String()
}

// renderCanvas projects every panel through the viewport onto a
// character grid. Terminal cells are roughly twice as tall as wide, so
// the vertical scale is halved to keep distances visually square.
func (m viewModel) renderCanvas(cols, rows int) string {
	canvas := m.eng.Geometry().Canvas
	view := m.eng.Viewport()

	grid := make([][]string, rows)
	for i := range grid {
		grid[i] = make([]string, cols)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}

	for i, p := range m.eng.Board().Panels() {
		pos, ok := m.eng.RenderPosition(p.ID)
		if !ok {
			continue
		}
		screen := view.ToScreen(pos)
		col := int(screen.X / canvas.Width * float64(cols))
		row := int(screen.Y / canvas.Height * float64(rows))
		if col < 0 || col >= cols || row < 0 || row >= rows {
			continue
		}

		style := viewPanelStyle
		marker := "▣"
		if p.Collapsed {
			style = viewCollapsedStyle
			marker = "▢"
		}
		if i == m.cursor {
			style = viewSelectedStyle
		}

		grid[row][col] = style.Render(marker)
		label := " " + p.ID
		for k := 0; k < len(label) && col+1+k < cols; k++ {
			grid[row][col+1+k] = style.Render(string(label[k]))
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(strings.Join(row, ""))
		b.WriteString("\n")
	}
	return b.String()
}
