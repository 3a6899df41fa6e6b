package progress

import (
	"context"
	"encoding/json"
	"fmt"
)

// Export returns the current progress as indented JSON.
func (e *Engine) Export() ([]byte, error) {
	snap := e.Snapshot()
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}

// Import replaces the current progress with data. Returns an error
// wrapping ErrInvalidSnapshot if data is not a valid snapshot; the
// current progress is left untouched in that case.
func (e *Engine) Import(ctx context.Context, data []byte) error {
	snap, err := decodeSnapshot(data)
	if err != nil {
		return err
	}
	e.Replace(ctx, snap)
	return nil
}
