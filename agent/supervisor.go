package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/i18n"
	"github.com/hupe1980/teamwork/model"
)

// Supervisor owns the root node. Each step it looks at the request and the
// completed work and either hands out the next task (delegated to the
// resource planner) or, with an empty task, finishes the workflow.
type Supervisor struct {
	BaseAgent
}

// NewSupervisor creates the default supervisor.
func NewSupervisor() *Supervisor {
	return &Supervisor{
		BaseAgent: NewBaseAgent("Splits the request into tasks and decides when the work is complete.", nil, nil),
	}
}

// Step implements Agent.
func (s *Supervisor) Step(ctx context.Context, sc *StepContext) (core.Outcome, error) {
	if sc.Node.HasIncompleteChildren() {
		return nil, fmt.Errorf("agent %s: %w", sc.Agent(), core.ErrIncompleteChildren)
	}

	system := texts(sc).T(i18n.SupervisorSystem, map[string]any{"Team": teamView(sc.Workflow)})
	format := TaskFormat()

	resp, err := chat(ctx, sc, model.Request{
		Messages:       assemble(system, sc, core.UserMessage(requestText(sc))),
		ResponseFormat: format,
		Temperature:    s.temperatureFor(sc.Workflow),
	})
	if err != nil {
		return nil, err
	}

	var out taskResponse
	if err := decode(sc, resp, format.Schema, &out); err != nil {
		return nil, err
	}

	task := strings.TrimSpace(out.Task)
	if task == "" {
		sc.Logger.Info("agent.supervisor.done", "reasoning", out.Reasoning)

		return core.Complete{Result: finalResult(sc.Node, out.Reasoning)}, nil
	}

	sc.Logger.Info("agent.supervisor.delegate", "task", task, "reasoning", out.Reasoning)

	return core.Delegate{Tasks: []core.Delegation{{Agent: ResourcePlannerName, Task: task}}}, nil
}

// finalResult is the answer recorded on the root when the supervisor ends
// the workflow: the latest completed work below the node, or the reasoning
// when nothing was delegated.
func finalResult(node core.WorkflowState, reasoning string) string {
	if work := CompletedWork(node); len(work) > 0 {
		return work[len(work)-1].Result
	}
	return reasoning
}
