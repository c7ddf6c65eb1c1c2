// Package teamwork is the embedding-application façade over the engine.
//
// The engine never executes tools: a run stops whenever agents are waiting
// for tool results. Team closes that loop. It drives the workflow, resolves
// every paused node with the tools of its owning agent and resumes until the
// root is finished:
//
//	team := teamwork.New(func(o *teamwork.Options) {
//		o.Logger = logger
//		o.Store = snapshot.NewInMemoryStore()
//	})
//
//	root, err := team.Run(ctx, wf, func(o *teamwork.RunOptions) { o.RunID = "run-1" })
//
// With a Store configured every tree version is persisted under the run ID,
// and a later Run with the same ID resumes from the last saved version.
package teamwork

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/teamwork/agent"
	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/engine"
	"github.com/hupe1980/teamwork/logging"
	"github.com/hupe1980/teamwork/snapshot"
	"github.com/hupe1980/teamwork/tool"
)

// DefaultMaxRounds bounds the number of drive/resolve rounds of a Run.
const DefaultMaxRounds = 100

var (
	// ErrStalled is returned when the tree is neither finished nor has any
	// paused node to resolve.
	ErrStalled = errors.New("workflow stalled")
	// ErrTooManyRounds is returned when a Run exceeds MaxRounds.
	ErrTooManyRounds = errors.New("too many tool rounds")
)

// Options configures a Team.
type Options struct {
	// Logger defaults to a no-op logger.
	Logger logging.Logger
	// Observers are passed to the engine.
	Observers []engine.Observer
	// Store persists every tree version when a run ID is given.
	Store snapshot.Store
	// MarkFailedOnError is passed to the engine.
	MarkFailedOnError bool
	// MaxRounds bounds drive/resolve rounds. Defaults to DefaultMaxRounds.
	MaxRounds int
}

// RunOptions configures a single Run.
type RunOptions struct {
	// RunID keys snapshots in the store. Empty disables persistence.
	RunID string
	// State resumes an explicit tree. It takes precedence over a stored one.
	State *core.WorkflowState
}

// Team runs workflows to completion, executing tools in between.
type Team struct {
	opts Options
}

// New creates a team runner.
func New(optFns ...func(o *Options)) *Team {
	opts := Options{
		MaxRounds: DefaultMaxRounds,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	return &Team{opts: opts}
}

// Run drives wf until the root is finished. Each round calls the engine
// with RunTools enabled and then resolves all paused nodes. All rounds
// share one step budget of wf.MaxIterations.
func (t *Team) Run(ctx context.Context, wf *agent.Workflow, optFns ...func(o *RunOptions)) (core.WorkflowState, error) {
	if wf == nil {
		return core.WorkflowState{}, engine.ErrNilWorkflow
	}

	if err := wf.Validate(); err != nil {
		return core.WorkflowState{}, fmt.Errorf("invalid workflow: %w", err)
	}

	opts := RunOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	root, err := t.initialState(ctx, wf, opts)
	if err != nil {
		return core.WorkflowState{}, err
	}

	observers := t.opts.Observers
	if t.opts.Store != nil && opts.RunID != "" {
		observers = append(append([]engine.Observer{}, observers...), snapshot.NewRecorder(t.opts.Store, opts.RunID))
	}

	eng := engine.New(func(o *engine.Options) {
		o.Logger = t.opts.Logger
		o.Observers = observers
		o.MarkFailedOnError = t.opts.MarkFailedOnError
	})

	budget := core.NewBudget(wf.MaxIterations)

	for round := 1; ; round++ {
		if round > t.opts.MaxRounds {
			return root, fmt.Errorf("%w: %d", ErrTooManyRounds, t.opts.MaxRounds)
		}

		root, err = eng.Teamwork(ctx, wf, func(o *engine.RunOptions) {
			o.State = &root
			o.RunTools = true
			o.Budget = budget
		})
		if err != nil {
			return root, err
		}

		if root.Status == core.StatusFinished {
			return root, nil
		}

		if len(root.PausedPaths()) == 0 {
			return root, ErrStalled
		}

		t.opts.Logger.Debug("team.tools.resolve", "round", round, "paused", len(root.PausedPaths()))

		root, err = ResolveTools(ctx, wf, root, t.opts.Logger)
		if err != nil {
			return root, err
		}

		t.save(ctx, opts.RunID, root)
	}
}

func (t *Team) initialState(ctx context.Context, wf *agent.Workflow, opts RunOptions) (core.WorkflowState, error) {
	if opts.State != nil {
		return *opts.State, nil
	}

	if t.opts.Store != nil && opts.RunID != "" {
		state, err := t.opts.Store.Load(ctx, opts.RunID)
		if err == nil {
			t.opts.Logger.Info("team.run.resume", "run_id", opts.RunID, "nodes", state.CountNodes())
			return state, nil
		}

		if !errors.Is(err, snapshot.ErrNotFound) {
			return core.WorkflowState{}, fmt.Errorf("load snapshot %s: %w", opts.RunID, err)
		}
	}

	return core.NewRootState(agent.SupervisorName, wf.Description), nil
}

// save persists tool resolutions, which the engine never observes.
func (t *Team) save(ctx context.Context, runID string, root core.WorkflowState) {
	if t.opts.Store == nil || runID == "" {
		return
	}

	if err := t.opts.Store.Save(ctx, runID, root); err != nil {
		t.opts.Logger.Warn("team.snapshot.error", "run_id", runID, "error", err)
	}
}

// ResolveTools executes the pending tool calls of every paused node with the
// tools of the node's agent and returns the resumed tree.
func ResolveTools(ctx context.Context, wf *agent.Workflow, root core.WorkflowState, logger logging.Logger) (core.WorkflowState, error) {
	for _, path := range root.PausedPaths() {
		node, err := root.At(path)
		if err != nil {
			return root, err
		}

		a, err := wf.Lookup(node.Agent)
		if err != nil {
			return root, err
		}

		resolved, err := tool.ResolveNode(ctx, node, a.Tools(), logger)
		if err != nil {
			return root, err
		}

		next, err := root.Replace(path, resolved)
		if err != nil {
			return root, err
		}

		root = next
	}

	return root, nil
}
