package snapshot

import (
	"context"
	"errors"

	"github.com/hupe1980/teamwork/core"
)

// ErrNotFound is returned by Load for unknown run IDs.
var ErrNotFound = errors.New("snapshot not found")

// Store persists the latest tree of each run.
type Store interface {
	// Save stores state as the latest version of runID.
	Save(ctx context.Context, runID string, state core.WorkflowState) error
	// Load returns the latest version of runID or ErrNotFound.
	Load(ctx context.Context, runID string) (core.WorkflowState, error)
	// Delete removes runID. Deleting an unknown run is not an error.
	Delete(ctx context.Context, runID string) error
	// List returns the stored run IDs.
	List(ctx context.Context) ([]string, error)
}
