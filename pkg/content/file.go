package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/errors"
)

// FileProvider serves conversation turns from a directory of JSON files,
// one file per conversation named <conversation>.json holding an array
// of turns. This is what the CLI uses: boards are driven from files on
// disk, and an external editor plus Refresh stands in for a live feed.
type FileProvider struct {
	dir  string
	subs *MemoryProvider
}

// NewFileProvider creates a provider rooted at dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{dir: dir, subs: NewMemoryProvider()}
}

// Path returns the file backing a conversation.
func (f *FileProvider) Path(conversation string) string {
	return filepath.Join(f.dir, conversation+".json")
}

// Turns reads the conversation's turn file. The snapshot is returned in
// creation order regardless of file order.
func (f *FileProvider) Turns(ctx context.Context, conversation string) ([]board.Turn, error) {
	data, err := os.ReadFile(f.Path(conversation))
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "conversation %s", conversation)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransientIO, err, "read conversation %s", conversation)
	}

	var turns []board.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse conversation %s", conversation)
	}
	sortTurns(turns)
	return turns, nil
}

// Subscribe registers for refresh notifications. The file system is not
// watched; notifications fire when Refresh is called.
func (f *FileProvider) Subscribe(conversation string, fn func()) func() {
	return f.subs.Subscribe(conversation, fn)
}

// Refresh notifies subscribers that the conversation's file changed.
func (f *FileProvider) Refresh(conversation string) {
	f.subs.notify(conversation)
}

// WriteTurns persists a turn snapshot, creating the directory if needed.
// Used by tooling that seeds or edits conversations.
func (f *FileProvider) WriteTurns(conversation string, turns []board.Turn) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", f.dir, err)
	}
	data, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal turns: %w", err)
	}
	if err := os.WriteFile(f.Path(conversation), data, 0o644); err != nil {
		return fmt.Errorf("write conversation %s: %w", conversation, err)
	}
	return nil
}

func sortTurns(turns []board.Turn) {
	sort.SliceStable(turns, func(i, j int) bool {
		if !turns[i].CreatedAt.Equal(turns[j].CreatedAt) {
			return turns[i].CreatedAt.Before(turns[j].CreatedAt)
		}
		return turns[i].ID < turns[j].ID
	})
}

var _ Provider = (*FileProvider)(nil)
