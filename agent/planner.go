package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/i18n"
	"github.com/hupe1980/teamwork/model"
)

// ResourcePlanner picks the one team member best suited for its task and
// delegates the task to it. Once that member finished, the planner
// completes with the member's result, handing it back to the supervisor.
type ResourcePlanner struct {
	BaseAgent
}

// NewResourcePlanner creates the default resource planner.
func NewResourcePlanner() *ResourcePlanner {
	return &ResourcePlanner{
		BaseAgent: NewBaseAgent("Chooses the team member best suited for a task.", nil, nil),
	}
}

// Step implements Agent.
func (p *ResourcePlanner) Step(ctx context.Context, sc *StepContext) (core.Outcome, error) {
	node := sc.Node

	if len(node.Children) > 0 {
		if node.HasIncompleteChildren() {
			return nil, fmt.Errorf("agent %s: %w", sc.Agent(), core.ErrIncompleteChildren)
		}

		result, _ := node.Children[len(node.Children)-1].Result()

		return core.Complete{Result: result}, nil
	}

	task := node.Request()
	members := sc.Workflow.Members()

	switch len(members) {
	case 0:
		return nil, fmt.Errorf("agent %s: %w: team has no members", sc.Agent(), ErrUnknownAgent)
	case 1:
		sc.Logger.Debug("agent.planner.select", "agent", members[0], "reasoning", "single member")

		return core.Delegate{Tasks: []core.Delegation{{Agent: members[0], Task: task}}}, nil
	}

	loc := texts(sc)

	resp, err := chat(ctx, sc, model.Request{
		Messages: []core.Message{
			core.SystemMessage(loc.T(i18n.PlannerSystem, map[string]any{"Team": teamView(sc.Workflow)})),
			core.UserMessage(loc.T(i18n.PlannerTask, map[string]any{"Task": task})),
			core.UserMessage(loc.T(i18n.PlannerInstruction, nil)),
		},
		ResponseFormat: SelectionFormat(members),
		Temperature:    p.temperatureFor(sc.Workflow),
	})
	if err != nil {
		return nil, err
	}

	// names outside the team are reported as ErrUnknownAgent, so the reply
	// is checked against the format without the member enum
	var out selectionResponse
	if err := decode(sc, resp, SelectionFormat(nil).Schema, &out); err != nil {
		return nil, err
	}

	choice := strings.TrimSpace(out.Agent)
	if !contains(members, choice) {
		return nil, fmt.Errorf("agent %s: %w: %q is not a team member", sc.Agent(), ErrUnknownAgent, choice)
	}

	sc.Logger.Debug("agent.planner.select", "agent", choice, "reasoning", out.Reasoning)

	return core.Delegate{Tasks: []core.Delegation{{Agent: choice, Task: task}}}, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
