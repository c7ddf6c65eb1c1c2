package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/i18n"
	"github.com/hupe1980/teamwork/model"
	"github.com/hupe1980/teamwork/tool"
)

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	// Instruction is appended to the generic system preamble.
	Instruction Instruction
	// Tools the agent may request, keyed by name.
	Tools map[string]tool.Tool
	// Provider overrides the workflow provider.
	Provider model.Provider
	// Temperature overrides the workflow temperature.
	Temperature *float64
}

// ModelAgent is the general-purpose team member. Each step it asks the
// provider for a structured step result and turns it into an outcome:
//
//	tool_call response            -> core.ToolRequest (node pauses)
//	kind "step", has_next_step    -> core.Continue
//	kind "step", no next step     -> core.Complete
//	kind "error" / error response -> *ProviderError (fatal)
//	anything else                 -> model.ErrMalformedResponse
type ModelAgent struct {
	BaseAgent
	instruction Instruction
}

// NewModelAgent creates a model-backed agent described by description.
func NewModelAgent(description string, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		Tools: make(map[string]tool.Tool),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	base := NewBaseAgent(description, opts.Tools, opts.Provider)
	base.temperature = opts.Temperature

	return &ModelAgent{
		BaseAgent:   base,
		instruction: opts.Instruction,
	}
}

// RegisterTool adds a tool to the agent's capability set.
func (a *ModelAgent) RegisterTool(t tool.Tool) {
	a.tools[t.Name()] = t
}

// HasTool checks if a tool is registered with the agent.
func (a *ModelAgent) HasTool(name string) bool {
	_, exists := a.tools[name]
	return exists
}

// Step implements Agent.
func (a *ModelAgent) Step(ctx context.Context, sc *StepContext) (core.Outcome, error) {
	req, err := a.buildRequest(sc)
	if err != nil {
		return nil, err
	}

	resp, err := chat(ctx, sc, req)
	if err != nil {
		return nil, err
	}

	if resp.Type == model.ResponseToolCall {
		if len(resp.ToolCalls) == 0 {
			return nil, fmt.Errorf("agent %s: %w: tool_call without calls", sc.Agent(), model.ErrMalformedResponse)
		}

		return core.ToolRequest{Content: resp.Content, Calls: resp.ToolCalls}, nil
	}

	var step stepResponse
	if err := decode(sc, resp, kindSchema(), &step); err != nil {
		return nil, err
	}

	switch step.Kind {
	case kindError:
		return nil, &ProviderError{Agent: sc.Agent(), Reason: step.Reasoning}
	case kindStep:
		if err := decode(sc, resp, StepFormat().Schema, &step); err != nil {
			return nil, err
		}

		if step.HasNextStep {
			return core.Continue{Result: step.Result, NextStep: step.NextStep}, nil
		}

		return core.Complete{Result: step.Result}, nil
	default:
		return nil, fmt.Errorf("agent %s: %w: unknown kind %q", sc.Agent(), model.ErrMalformedResponse, step.Kind)
	}
}

// buildRequest assembles the fixed context scaffolding followed by the
// node's own messages.
func (a *ModelAgent) buildRequest(sc *StepContext) (model.Request, error) {
	instruction := ""

	if !a.instruction.IsZero() {
		text, err := a.instruction.Resolve(sc)
		if err != nil {
			return model.Request{}, fmt.Errorf("agent %s: resolve instruction: %w", sc.Agent(), err)
		}

		instruction = text
	}

	system := texts(sc).T(i18n.AgentSystem, map[string]any{
		"Description": a.Description(),
		"Instruction": instruction,
	})

	return model.Request{
		Messages:       assemble(system, sc, sc.Node.Messages...),
		Tools:          tool.Definitions(a.tools),
		ResponseFormat: StepFormat(),
		Temperature:    a.temperatureFor(sc.Workflow),
	}, nil
}
