package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/i18n"
	"github.com/hupe1980/teamwork/logging"
	"github.com/hupe1980/teamwork/model"
	"github.com/hupe1980/teamwork/tool"
)

// Names of the built-in agents. They are resolved by Workflow.Lookup when
// the team does not override them.
const (
	SupervisorName      = "supervisor"
	ResourcePlannerName = "resourcePlanner"
	FinalBossName       = "finalBoss"
)

// DefaultMaxIterations is the step budget applied by NewWorkflow.
const DefaultMaxIterations = 50

var (
	// ErrUnknownAgent is returned when a node or a planner decision names an
	// agent that is neither a team member nor a built-in.
	ErrUnknownAgent = errors.New("unknown agent")
	// ErrNoProvider is returned when neither the agent nor the workflow
	// supplies a reasoning provider.
	ErrNoProvider = errors.New("no reasoning provider")
)

// ProviderError is the fatal outcome of a step whose reasoning call reported
// that it cannot complete the task. It is never retried.
type ProviderError struct {
	Agent  string
	Reason string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("agent %s: provider could not complete the task: %s", e.Agent, e.Reason)
}

// Agent is the capability every role in a team implements. Agents are
// stateless between steps: all state lives in the WorkflowState tree, so a
// single Agent value is shared by every node that names it.
type Agent interface {
	// Description tells the planner (and the provider) what the agent is for.
	Description() string

	// Tools returns the tools the agent may request, keyed by name.
	Tools() map[string]tool.Tool

	// Provider returns the agent's provider override, or nil to use the
	// workflow's provider.
	Provider() model.Provider

	// Step executes exactly one reasoning step for the node in sc and
	// reports how the node should change.
	Step(ctx context.Context, sc *StepContext) (core.Outcome, error)
}

// StepContext carries everything an agent sees during one step.
type StepContext struct {
	// Workflow is the static run configuration.
	Workflow *Workflow
	// Provider is the resolved provider (agent override or workflow default).
	Provider model.Provider
	// Root is the whole tree as it was before the step.
	Root core.WorkflowState
	// Path addresses Node inside Root.
	Path core.Path
	// Node is the node being advanced (already running).
	Node core.WorkflowState
	// Context holds the ancestor messages from the root down to the parent.
	Context []core.Message
	// Logger is never nil.
	Logger logging.Logger
}

// Agent returns the name of the agent owning the node.
func (sc *StepContext) Agent() string { return sc.Node.Agent }

// SnapshotFunc observes every tree change of a run. It must not mutate the
// states it receives.
type SnapshotFunc func(prev, next core.WorkflowState)

// Workflow is the immutable configuration of a run: the team, the objective
// and the budget. It is never mutated by the engine.
type Workflow struct {
	// Team maps agent names to agents. Built-in names may be used to override
	// the default Supervisor, ResourcePlanner or FinalBoss.
	Team map[string]Agent
	// Description is the objective; it seeds the root node.
	Description string
	// Output describes the shape of the expected answer.
	Output string
	// Knowledge is optional background information shared with every agent.
	Knowledge string
	// Provider is the default reasoning provider.
	Provider model.Provider
	// MaxIterations is the step budget per Teamwork call; 0 means unlimited.
	MaxIterations int
	// Temperature is passed to providers unless an agent overrides it.
	Temperature *float64
	// Snapshot is invoked after every tree change.
	Snapshot SnapshotFunc
	// Locale selects the language of prompts and primers (a BCP 47 tag such
	// as "pl" or "de-AT"). Empty means English.
	Locale string
	// Catalog supplies the localized texts. Nil means i18n.Default().
	Catalog *i18n.Catalog
}

// NewWorkflow creates a workflow with the default budget. Use optFns to add
// team members and override defaults.
func NewWorkflow(provider model.Provider, description string, optFns ...func(o *Workflow)) *Workflow {
	wf := &Workflow{
		Team:          map[string]Agent{},
		Description:   description,
		Provider:      provider,
		MaxIterations: DefaultMaxIterations,
	}

	for _, fn := range optFns {
		fn(wf)
	}

	return wf
}

// Texts returns the localizer matched for the workflow locale.
func (w *Workflow) Texts() i18n.Localizer {
	c := w.Catalog
	if c == nil {
		c = i18n.Default()
	}
	return c.Localizer(w.Locale)
}

// Lookup resolves an agent by name: team members first, then built-ins.
func (w *Workflow) Lookup(name string) (Agent, error) {
	if a, ok := w.Team[name]; ok && a != nil {
		return a, nil
	}

	switch name {
	case SupervisorName:
		return NewSupervisor(), nil
	case ResourcePlannerName:
		return NewResourcePlanner(), nil
	case FinalBossName:
		return NewFinalBoss(), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownAgent, name)
}

// Members returns the sorted names of team members that may receive
// delegated work (built-in roles excluded).
func (w *Workflow) Members() []string {
	names := make([]string, 0, len(w.Team))
	for name, a := range w.Team {
		if a == nil || IsBuiltin(name) {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ProviderFor returns the agent's own provider or the workflow default.
func (w *Workflow) ProviderFor(a Agent) (model.Provider, error) {
	if p := a.Provider(); p != nil {
		return p, nil
	}

	if w.Provider == nil {
		return nil, ErrNoProvider
	}

	return w.Provider, nil
}

// Validate checks the configuration before a run.
func (w *Workflow) Validate() error {
	if w.Description == "" {
		return errors.New("workflow description is required")
	}

	if len(w.Members()) == 0 {
		return errors.New("workflow team has no members")
	}

	if w.MaxIterations < 0 {
		return fmt.Errorf("max iterations must not be negative, got %d", w.MaxIterations)
	}

	for name, a := range w.Team {
		if a == nil {
			return fmt.Errorf("team member %q is nil", name)
		}

		if w.Provider == nil && a.Provider() == nil {
			return fmt.Errorf("team member %q: %w", name, ErrNoProvider)
		}
	}

	if w.Provider == nil {
		for _, name := range []string{SupervisorName, ResourcePlannerName, FinalBossName} {
			if _, ok := w.Team[name]; !ok {
				return fmt.Errorf("built-in %s: %w", name, ErrNoProvider)
			}
		}
	}

	return nil
}

// IsBuiltin reports whether name is one of the built-in roles.
func IsBuiltin(name string) bool {
	switch name {
	case SupervisorName, ResourcePlannerName, FinalBossName:
		return true
	}
	return false
}
