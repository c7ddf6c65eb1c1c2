// Package openai provides an implementation of model.Provider using the
// OpenAI Chat Completions API (structured JSON-schema output + function/tool
// calling). It adapts teamwork's normalized Request/Response structures into
// the SDK's message format and back.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/logging"
	"github.com/hupe1980/teamwork/model"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI provider adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	Logger              logging.Logger
}

// Provider wraps the OpenAI Chat Completions API behind the generic
// model.Provider interface.
type Provider struct {
	client *openai.Client
	opts   Options
}

// NewProvider creates a new OpenAI provider using the official client
// (configured from OPENAI_API_KEY and friends).
func NewProvider(optFns ...func(o *Options)) *Provider {
	client := openai.NewClient()
	return NewProviderFromClient(&client, optFns...)
}

// NewProviderFromClient creates a new OpenAI provider from an existing client.
func NewProviderFromClient(client *openai.Client, optFns ...func(o *Options)) *Provider {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return &Provider{client: client, opts: opts}
}

// Chat performs one non-streaming chat completion.
func (p *Provider) Chat(ctx context.Context, req model.Request) (model.Response, error) {
	params := p.buildParams(req)

	start := time.Now()
	p.opts.Logger.Debug("provider.chat.start", "provider", "openai", "model", p.opts.Model,
		"messages", len(req.Messages), "tools", len(req.Tools))

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		p.opts.Logger.Error("provider.chat.error", "provider", "openai", "model", p.opts.Model,
			"duration_ms", time.Since(start).Milliseconds(), "error", err)
		return model.Response{}, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.Response{}, errors.New("openai api error: no choices returned")
	}

	usage := &model.TokenUsage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
	p.opts.Logger.Debug("provider.chat.done", "provider", "openai", "model", p.opts.Model,
		"duration_ms", time.Since(start).Milliseconds(), "tokens", usage.TotalTokens,
		"finish_reason", resp.Choices[0].FinishReason)

	return toResponse(resp.Choices[0].Message, usage), nil
}

// toResponse maps the first choice onto the discriminated model.Response.
func toResponse(msg openai.ChatCompletionMessage, usage *model.TokenUsage) model.Response {
	if msg.Refusal != "" {
		return model.Response{Type: model.ResponseError, Content: msg.Refusal, Usage: usage}
	}
	if len(msg.ToolCalls) > 0 {
		calls := make([]core.ToolCall, 0, len(msg.ToolCalls))
		for _, tc := range msg.ToolCalls {
			calls = append(calls, core.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
		return model.Response{Type: model.ResponseToolCall, Content: msg.Content, ToolCalls: calls, Usage: usage}
	}
	return model.Response{Type: model.ResponseResult, Content: msg.Content, Usage: usage}
}

// buildMessages converts normalized messages into OpenAI chat messages.
// Tool-role messages map 1:1 onto tool messages since core messages already
// keep results right after the assistant call that requested them.
func buildMessages(msgs []core.Message) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case core.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case core.RoleUser:
			messages = append(messages, openai.UserMessage(m.Content))
		case core.RoleAssistant:
			if !m.HasToolCalls() {
				messages = append(messages, openai.AssistantMessage(m.Content))
				continue
			}
			assistant := openai.ChatCompletionAssistantMessageParam{
				ToolCalls: toToolCallParams(m.ToolCalls),
			}
			if m.Content != "" {
				assistant.Content.OfString = openai.String(m.Content)
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		case core.RoleTool:
			messages = append(messages, openai.ToolMessage(m.Content, m.ToolCallID))
		default:
			if m.Content != "" {
				messages = append(messages, openai.UserMessage(m.Content))
			}
		}
	}
	return messages
}

func toToolCallParams(calls []core.ToolCall) []openai.ChatCompletionMessageToolCallParam {
	out := make([]openai.ChatCompletionMessageToolCallParam, len(calls))
	for i, c := range calls {
		out[i] = openai.ChatCompletionMessageToolCallParam{
			ID: c.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      c.Name,
				Arguments: c.Arguments,
			},
		}
	}
	return out
}

// buildParams assembles the OpenAI request parameters including tool
// definitions and the strict JSON-schema response format.
func (p *Provider) buildParams(req model.Request) openai.ChatCompletionNewParams {
	temperature := p.opts.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req.Messages),
		Model:               p.opts.Model,
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(p.opts.MaxCompletionTokens),
	}
	if rf := req.ResponseFormat; rf != nil {
		schema := openai.ResponseFormatJSONSchemaJSONSchemaParam{
			Name:   rf.Name,
			Schema: rf.Schema,
			Strict: openai.Bool(true),
		}
		if rf.Description != "" {
			schema.Description = openai.String(rf.Description)
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schema},
		}
	}
	if len(req.Tools) == 0 {
		return params
	}
	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, tdef := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        tdef.Name,
				Description: openai.String(tdef.Description),
				Parameters:  tdef.Parameters,
			},
		}
	}
	params.Tools = tools
	return params
}

// Info returns metadata describing this OpenAI provider implementation.
func (p *Provider) Info() model.Info {
	return model.Info{
		Name:          p.opts.Model,
		Provider:      "openai",
		SupportsTools: true,
	}
}
