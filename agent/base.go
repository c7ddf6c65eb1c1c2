package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/teamwork/model"
	"github.com/hupe1980/teamwork/tool"
)

// BaseAgent bundles the static configuration shared by all agents: the
// description, the tool set and an optional provider override. Embed it in
// concrete agents and supply a Step method to satisfy Agent.
type BaseAgent struct {
	description string
	tools       map[string]tool.Tool
	provider    model.Provider
	temperature *float64
}

// NewBaseAgent constructs a BaseAgent. A nil tool map is replaced by an
// empty one.
func NewBaseAgent(description string, tools map[string]tool.Tool, provider model.Provider) BaseAgent {
	if tools == nil {
		tools = map[string]tool.Tool{}
	}

	return BaseAgent{
		description: description,
		tools:       tools,
		provider:    provider,
	}
}

// Description returns a detailed description of this agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// Tools returns the tools the agent may request.
func (b *BaseAgent) Tools() map[string]tool.Tool { return b.tools }

// Provider returns the provider override (nil means workflow default).
func (b *BaseAgent) Provider() model.Provider { return b.provider }

// temperatureFor prefers the agent temperature over the workflow one.
func (b *BaseAgent) temperatureFor(w *Workflow) *float64 {
	if b.temperature != nil || w == nil {
		return b.temperature
	}
	return w.Temperature
}

// chat performs one provider call and maps an error outcome onto a
// *ProviderError. Transport errors are returned wrapped but otherwise
// unchanged; the core never retries.
func chat(ctx context.Context, sc *StepContext, req model.Request) (model.Response, error) {
	if sc.Provider == nil {
		return model.Response{}, fmt.Errorf("agent %s: %w", sc.Agent(), ErrNoProvider)
	}

	start := time.Now()

	sc.Logger.Debug("agent.provider.call", "agent", sc.Agent(), "path", sc.Path.String(),
		"messages", len(req.Messages), "tools", len(req.Tools))

	resp, err := sc.Provider.Chat(ctx, req)
	if err != nil {
		sc.Logger.Error("agent.provider.error", "agent", sc.Agent(), "path", sc.Path.String(),
			"duration_ms", time.Since(start).Milliseconds(), "error", err)

		return model.Response{}, fmt.Errorf("agent %s: %w", sc.Agent(), err)
	}

	tokens := 0
	if resp.Usage != nil {
		tokens = resp.Usage.TotalTokens
	}

	sc.Logger.Debug("agent.provider.response", "agent", sc.Agent(), "type", string(resp.Type),
		"duration_ms", time.Since(start).Milliseconds(), "tokens", tokens)

	if resp.Type == model.ResponseError {
		return model.Response{}, &ProviderError{Agent: sc.Agent(), Reason: resp.Content}
	}

	return resp, nil
}

// decode validates a structured result against schema and parses it,
// attributing failures to the agent.
func decode(sc *StepContext, resp model.Response, schema map[string]any, v any) error {
	if err := model.DecodeSchema(resp, schema, v); err != nil {
		return fmt.Errorf("agent %s: %w", sc.Agent(), err)
	}
	return nil
}
