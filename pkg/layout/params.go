package layout

// Params holds the tunable constants of the layout engine.
// Zero values are replaced by defaults via [Params.ApplyDefaults]; the
// CLI exposes them through its config file.
type Params struct {
	// Gap is the world-space distance between stacked panels.
	Gap float64 `toml:"gap"`

	// PanelWidth is the uniform world-space panel width.
	PanelWidth float64 `toml:"panel_width"`

	// EstimatedHeight stands in for a panel's height before its first
	// render measurement (placement above an anchor, multi-panel
	// stacking of unmeasured panels).
	EstimatedHeight float64 `toml:"estimated_height"`

	// MaxStackWidth caps the stack width the alignment policy reserves
	// for the floating input box.
	MaxStackWidth float64 `toml:"max_stack_width"`

	// CenterMargin is the fixed symmetric margin used when the stack is
	// centered in the available width.
	CenterMargin float64 `toml:"center_margin"`

	// DefaultVerticalStep is the per-panel vertical offset used when a
	// panel is created with no anchor available.
	DefaultVerticalStep float64 `toml:"default_vertical_step"`

	// OverviewCrowdThreshold is how close the input box's right edge may
	// come to the overview's default position before the overview
	// relocates vertically.
	OverviewCrowdThreshold float64 `toml:"overview_crowd_threshold"`

	// BottomMargin is the world-space margin reserved below the last
	// panel for the floating input box when clamping linear scrolling.
	BottomMargin float64 `toml:"bottom_margin"`
}

// DefaultParams returns the standard layout constants.
func DefaultParams() Params {
	return Params{
		Gap:                    50,
		PanelWidth:             420,
		EstimatedHeight:        320,
		MaxStackWidth:          760,
		CenterMargin:           32,
		DefaultVerticalStep:    120,
		OverviewCrowdThreshold: 48,
		BottomMargin:           160,
	}
}

// ApplyDefaults fills zero fields with their default values.
func (p *Params) ApplyDefaults() {
	def := DefaultParams()
	if p.Gap == 0 {
		p.Gap = def.Gap
	}
	if p.PanelWidth == 0 {
		p.PanelWidth = def.PanelWidth
	}
	if p.EstimatedHeight == 0 {
		p.EstimatedHeight = def.EstimatedHeight
	}
	if p.MaxStackWidth == 0 {
		p.MaxStackWidth = def.MaxStackWidth
	}
	if p.CenterMargin == 0 {
		p.CenterMargin = def.CenterMargin
	}
	if p.DefaultVerticalStep == 0 {
		p.DefaultVerticalStep = def.DefaultVerticalStep
	}
	if p.OverviewCrowdThreshold == 0 {
		p.OverviewCrowdThreshold = def.OverviewCrowdThreshold
	}
	if p.BottomMargin == 0 {
		p.BottomMargin = def.BottomMargin
	}
}
