package agent

import (
	"context"

	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/i18n"
	"github.com/hupe1980/teamwork/model"
)

// FinalBoss synthesizes a best-effort answer from everything the tree has
// accumulated. The engine runs it on the root once the step budget is used
// up; it always completes.
type FinalBoss struct {
	BaseAgent
}

// NewFinalBoss creates the default final boss.
func NewFinalBoss() *FinalBoss {
	return &FinalBoss{
		BaseAgent: NewBaseAgent("Summarizes all work into a final answer when the budget is exhausted.", nil, nil),
	}
}

// Step implements Agent.
func (f *FinalBoss) Step(ctx context.Context, sc *StepContext) (core.Outcome, error) {
	var output string
	if sc.Workflow != nil {
		output = sc.Workflow.Output
	}

	loc := texts(sc)
	system := loc.T(i18n.FinalBossSystem, map[string]any{"Output": output})
	format := FinalFormat()

	tail := []core.Message{core.UserMessage(requestText(sc))}
	tail = append(tail, withoutTurn(priorWork(sc.Node.Messages), core.UserMessage(sc.Node.Request()))...)
	tail = append(tail, core.UserMessage(loc.T(i18n.FinalBossInstruction, nil)))

	resp, err := chat(ctx, sc, model.Request{
		Messages:       assemble(system, sc, tail...),
		ResponseFormat: format,
		Temperature:    f.temperatureFor(sc.Workflow),
	})
	if err != nil {
		return nil, err
	}

	var out finalResponse
	if err := decode(sc, resp, format.Schema, &out); err != nil {
		return nil, err
	}

	return core.Complete{Result: out.Result}, nil
}
