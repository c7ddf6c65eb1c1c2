package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/teamwork/agent"
	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/logging"
)

var (
	// ErrWorkflowFailed is returned when no node can advance because a node
	// of the tree has failed.
	ErrWorkflowFailed = errors.New("workflow failed")
	// ErrUnknownAgent is returned when a node names an agent that is neither a
	// team member nor a built-in.
	ErrUnknownAgent = agent.ErrUnknownAgent
	// ErrNilWorkflow is returned when no workflow is supplied.
	ErrNilWorkflow = errors.New("nil workflow")
)

// Options configures an Engine.
type Options struct {
	// Logger receives engine events. Defaults to a no-op logger.
	Logger logging.Logger
	// Observers are notified after every tree change, in order.
	Observers []Observer
	// MarkFailedOnError marks the active node failed when its step returns an
	// error. By default the tree is returned unchanged so the caller can retry
	// from the last good version.
	MarkFailedOnError bool
}

// RunOptions configures a single Teamwork call.
type RunOptions struct {
	// State resumes an existing tree. When nil a fresh root is created from
	// the workflow description and owned by the Supervisor.
	State *core.WorkflowState
	// RunTools keeps driving the tree while some nodes are paused, as long as
	// other work can advance. When false the call returns as soon as any node
	// is paused.
	RunTools bool
	// Budget continues a step budget spent by earlier calls. When nil the
	// call gets a fresh budget of wf.MaxIterations.
	Budget *core.Budget
}

// Engine drives WorkflowState trees one agent step at a time. An Engine
// holds no per-run state and may be shared between goroutines; each run owns
// its tree exclusively.
type Engine struct {
	logger            logging.Logger
	notifier          *notifier
	markFailedOnError bool
}

// New creates an engine.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{}

	for _, fn := range optFns {
		fn(&opts)
	}

	logger := logging.OrNoOp(opts.Logger)

	return &Engine{
		logger:            logger,
		notifier:          &notifier{observers: opts.Observers, logger: logger},
		markFailedOnError: opts.MarkFailedOnError,
	}
}

// Teamwork runs a workflow with a default engine.
func Teamwork(ctx context.Context, wf *agent.Workflow, optFns ...func(o *RunOptions)) (core.WorkflowState, error) {
	return New().Teamwork(ctx, wf, optFns...)
}

// Teamwork advances the tree until the root is finished, the tree is blocked
// on tool results, or an error occurs. The returned tree is always a
// complete, valid version: on error it is the last good one.
//
// Each call has its own step budget of wf.MaxIterations unless
// RunOptions.Budget carries one over. Once it is used up the Final-Boss
// replaces the root's owner and answers from whatever work has finished.
func (e *Engine) Teamwork(ctx context.Context, wf *agent.Workflow, optFns ...func(o *RunOptions)) (core.WorkflowState, error) {
	if wf == nil {
		return core.WorkflowState{}, ErrNilWorkflow
	}

	opts := RunOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	var root core.WorkflowState
	if opts.State != nil {
		root = *opts.State
	} else {
		root = core.NewRootState(agent.SupervisorName, wf.Description)
	}

	start := time.Now()
	budget := opts.Budget
	if budget == nil {
		budget = core.NewBudget(wf.MaxIterations)
	}

	e.logger.Info("engine.run.start", "root", root.ID, "resume", opts.State != nil,
		"run_tools", opts.RunTools, "max_iterations", wf.MaxIterations)

	next, err := e.run(ctx, wf, root, budget, opts.RunTools)

	if err != nil {
		e.logger.Error("engine.run.error", "root", next.ID, "steps", budget.Used(),
			"duration_ms", time.Since(start).Milliseconds(), "error", err)
	} else {
		e.logger.Info("engine.run.done", "root", next.ID, "steps", budget.Used(),
			"status", string(next.Status), "paused", len(next.PausedPaths()),
			"duration_ms", time.Since(start).Milliseconds())
	}

	return next, err
}

func (e *Engine) run(ctx context.Context, wf *agent.Workflow, root core.WorkflowState, budget *core.Budget, runTools bool) (core.WorkflowState, error) {
	for {
		if root.Status == core.StatusFinished {
			return root, nil
		}

		if err := ctx.Err(); err != nil {
			return root, err
		}

		if !runTools && root.HasStatus(core.StatusPaused) {
			return root, nil
		}

		if _, ok := core.ActiveNode(root); !ok {
			if root.HasStatus(core.StatusFailed) {
				return root, ErrWorkflowFailed
			}

			// blocked on tool results
			return root, nil
		}

		if err := budget.Spend(); err != nil {
			e.logger.Warn("engine.budget.exhausted", "root", root.ID, "steps", budget.Used())
			return e.Finalize(ctx, wf, root)
		}

		next, _, err := e.step(ctx, wf, root, budget.Used())
		if err != nil {
			return next, err
		}

		root = next
	}
}

// Step executes exactly one agent step on the active node and returns the
// next tree version. advanced is false when no node can be advanced. On
// error the input tree is returned unchanged, or with the active node failed
// when MarkFailedOnError is set.
func (e *Engine) Step(ctx context.Context, wf *agent.Workflow, root core.WorkflowState) (core.WorkflowState, bool, error) {
	if wf == nil {
		return root, false, ErrNilWorkflow
	}

	return e.step(ctx, wf, root, 1)
}

func (e *Engine) step(ctx context.Context, wf *agent.Workflow, root core.WorkflowState, n int) (core.WorkflowState, bool, error) {
	path, ok := core.ActiveNode(root)
	if !ok {
		return root, false, nil
	}

	node, err := root.At(path)
	if err != nil {
		return root, false, err
	}

	start := time.Now()

	e.logger.Debug("engine.step.start", "step", n, "agent", node.Agent, "path", path.String(),
		"status", string(node.Status))

	next, err := e.advance(ctx, wf, root, path, node)
	if err != nil {
		e.logger.Error("engine.step.error", "step", n, "agent", node.Agent, "path", path.String(),
			"duration_ms", time.Since(start).Milliseconds(), "error", err)

		return e.fail(ctx, wf, root, path, node, n, err)
	}

	updated, _ := next.At(path)

	e.logger.Debug("engine.step.done", "step", n, "agent", node.Agent, "path", path.String(),
		"status", string(updated.Status), "children", len(updated.Children),
		"duration_ms", time.Since(start).Milliseconds())

	e.notifier.notify(ctx, wf.Snapshot, Change{
		Kind:     ChangeStep,
		Prev:     root,
		Next:     next,
		Path:     path,
		Agent:    node.Agent,
		Status:   updated.Status,
		Step:     n,
		Duration: time.Since(start),
	})

	return next, true, nil
}

// advance runs the owning agent of node and folds its outcome into root.
func (e *Engine) advance(ctx context.Context, wf *agent.Workflow, root core.WorkflowState, path core.Path, node core.WorkflowState) (core.WorkflowState, error) {
	a, err := wf.Lookup(node.Agent)
	if err != nil {
		return root, err
	}

	provider, err := wf.ProviderFor(a)
	if err != nil {
		return root, fmt.Errorf("agent %s: %w", node.Agent, err)
	}

	ancestors, err := core.AncestorMessages(root, path)
	if err != nil {
		return root, err
	}

	running := core.Start(node)

	outcome, err := a.Step(ctx, &agent.StepContext{
		Workflow: wf,
		Provider: provider,
		Root:     root,
		Path:     path,
		Node:     running,
		Context:  ancestors,
		Logger:   e.logger,
	})
	if err != nil {
		return root, err
	}

	updated, err := core.ApplyOutcome(running, outcome)
	if err != nil {
		return root, fmt.Errorf("agent %s: %w", node.Agent, err)
	}

	return root.Replace(path, updated)
}

// fail handles a step error according to the engine options.
func (e *Engine) fail(ctx context.Context, wf *agent.Workflow, root core.WorkflowState, path core.Path, node core.WorkflowState, n int, cause error) (core.WorkflowState, bool, error) {
	if !e.markFailedOnError {
		return root, false, cause
	}

	failed, err := core.MarkFailed(root, path)
	if err != nil {
		return root, false, errors.Join(cause, err)
	}

	e.notifier.notify(ctx, wf.Snapshot, Change{
		Kind:   ChangeFailed,
		Prev:   root,
		Next:   failed,
		Path:   path,
		Agent:  node.Agent,
		Status: core.StatusFailed,
		Step:   n,
	})

	return failed, true, cause
}

// Finalize hands the root to the Final-Boss, which answers from the finished
// work of the tree. Unfinished descendants are pruned first so the root can
// complete. On success the root is always finished.
func (e *Engine) Finalize(ctx context.Context, wf *agent.Workflow, root core.WorkflowState) (core.WorkflowState, error) {
	if wf == nil {
		return root, ErrNilWorkflow
	}

	start := time.Now()

	node := core.PruneIncomplete(root)
	node.Agent = agent.FinalBossName
	node = core.Start(node)

	boss, err := wf.Lookup(agent.FinalBossName)
	if err != nil {
		return root, err
	}

	provider, err := wf.ProviderFor(boss)
	if err != nil {
		return root, fmt.Errorf("agent %s: %w", agent.FinalBossName, err)
	}

	e.logger.Info("engine.finalize.start", "root", root.ID, "pruned", root.CountNodes()-node.CountNodes())

	outcome, err := boss.Step(ctx, &agent.StepContext{
		Workflow: wf,
		Provider: provider,
		Root:     node,
		Path:     core.Path{},
		Node:     node,
		Logger:   e.logger,
	})
	if err != nil {
		e.logger.Error("engine.finalize.error", "root", root.ID, "error", err)
		return root, err
	}

	complete, ok := outcome.(core.Complete)
	if !ok {
		return root, fmt.Errorf("agent %s: unexpected outcome %T", agent.FinalBossName, outcome)
	}

	next, err := core.ApplyOutcome(node, complete)
	if err != nil {
		return root, err
	}

	e.logger.Info("engine.finalize.done", "root", root.ID, "duration_ms", time.Since(start).Milliseconds())

	e.notifier.notify(ctx, wf.Snapshot, Change{
		Kind:     ChangeFinalize,
		Prev:     root,
		Next:     next,
		Path:     core.Path{},
		Agent:    agent.FinalBossName,
		Status:   next.Status,
		Duration: time.Since(start),
	})

	return next, nil
}
