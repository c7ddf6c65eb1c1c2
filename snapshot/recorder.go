package snapshot

import (
	"context"
	"fmt"

	"github.com/hupe1980/teamwork/engine"
)

// Recorder is an engine.Observer saving every new tree version of a run.
type Recorder struct {
	store Store
	runID string
}

// NewRecorder creates a recorder writing to store under runID.
func NewRecorder(store Store, runID string) *Recorder {
	return &Recorder{store: store, runID: runID}
}

// RunID returns the key the recorder writes to.
func (r *Recorder) RunID() string { return r.runID }

// Observe implements engine.Observer.
func (r *Recorder) Observe(ctx context.Context, change engine.Change) error {
	if err := r.store.Save(ctx, r.runID, change.Next); err != nil {
		return fmt.Errorf("record snapshot %s: %w", r.runID, err)
	}
	return nil
}
