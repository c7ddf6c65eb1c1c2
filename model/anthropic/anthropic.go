// Package anthropic provides a model.Provider for the Anthropic Claude API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/internal/util"
	"github.com/hupe1980/teamwork/logging"
	"github.com/hupe1980/teamwork/model"
)

// Options configures the Anthropic provider adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
	Logger      logging.Logger
}

// Provider wraps the Anthropic Messages API behind the generic
// model.Provider interface.
type Provider struct {
	client *anthropic.Client
	opts   Options
}

func defaultOptions(optFns []func(o *Options)) Options {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return opts
}

// NewProvider creates a new Anthropic provider using the official client.
func NewProvider(optFns ...func(o *Options)) *Provider {
	opts := defaultOptions(optFns)

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Provider{
		client: &client,
		opts:   opts,
	}
}

// NewProviderFromClient creates a new Anthropic provider from an existing client.
func NewProviderFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Provider {
	return &Provider{
		client: client,
		opts:   defaultOptions(optFns),
	}
}

// Chat performs one Messages API call. Anthropic has no JSON response
// format, so the requested schema is appended to the system prompt and the
// text answer is handed back for model.Decode to parse.
func (p *Provider) Chat(ctx context.Context, req model.Request) (model.Response, error) {
	temperature := p.opts.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	params := anthropic.MessageNewParams{
		Model:       p.opts.Model,
		Messages:    buildMessages(req.Messages),
		MaxTokens:   p.opts.MaxTokens,
		Temperature: anthropic.Float(temperature),
	}

	if systemBlocks := buildSystem(req); len(systemBlocks) > 0 {
		params.System = systemBlocks
	}

	if len(req.Tools) > 0 {
		params.Tools = buildTools(req.Tools)
	}

	start := time.Now()
	p.opts.Logger.Debug("provider.chat.start", "provider", "anthropic", "model", string(p.opts.Model),
		"messages", len(req.Messages), "tools", len(req.Tools))

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		p.opts.Logger.Error("provider.chat.error", "provider", "anthropic", "model", string(p.opts.Model),
			"duration_ms", time.Since(start).Milliseconds(), "error", err)
		return model.Response{}, fmt.Errorf("anthropic api error: %w", err)
	}

	usage := &model.TokenUsage{
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
		TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
	}
	p.opts.Logger.Debug("provider.chat.done", "provider", "anthropic", "model", string(p.opts.Model),
		"duration_ms", time.Since(start).Milliseconds(), "tokens", usage.TotalTokens,
		"stop_reason", string(resp.StopReason))

	var (
		text  strings.Builder
		calls []core.ToolCall
	)

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.AsText().Text)
		case "tool_use":
			toolBlock := block.AsToolUse()
			args := ""
			if len(toolBlock.Input) > 0 {
				args = string(toolBlock.Input)
			}
			calls = append(calls, core.ToolCall{
				ID:        toolBlock.ID,
				Name:      toolBlock.Name,
				Arguments: args,
			})
		}
	}

	if len(calls) > 0 {
		return model.Response{Type: model.ResponseToolCall, Content: text.String(), ToolCalls: calls, Usage: usage}, nil
	}

	if resp.StopReason == "refusal" {
		return model.Response{Type: model.ResponseError, Content: "request refused by provider", Usage: usage}, nil
	}

	return model.Response{Type: model.ResponseResult, Content: text.String(), Usage: usage}, nil
}

// buildSystem collects system messages and appends the response schema
// instructions.
func buildSystem(req model.Request) []anthropic.TextBlockParam {
	var systemBlocks []anthropic.TextBlockParam

	for _, m := range req.Messages {
		if m.Role == core.RoleSystem && m.Content != "" {
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: m.Content})
		}
	}

	if rf := req.ResponseFormat; rf != nil {
		schema, err := json.Marshal(rf.Schema)
		if err == nil {
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: fmt.Sprintf(
				"Respond with a single JSON object named %q that validates against this JSON schema and nothing else:\n%s",
				rf.Name, schema,
			)})
		}
	}

	return systemBlocks
}

// buildMessages converts teamwork messages to Anthropic message format.
// Consecutive tool results are folded into one user message of tool_result
// blocks, as the API expects them right after the assistant tool_use turn.
func buildMessages(msgs []core.Message) []anthropic.MessageParam {
	var (
		messages    []anthropic.MessageParam
		toolResults []anthropic.ContentBlockParamUnion
	)

	flush := func() {
		if len(toolResults) > 0 {
			messages = append(messages, anthropic.NewUserMessage(toolResults...))
			toolResults = nil
		}
	}

	for _, m := range msgs {
		switch m.Role {
		case core.RoleSystem:
			continue // System messages handled separately
		case core.RoleTool:
			toolResults = append(toolResults, anthropic.NewToolResultBlock(m.ToolCallID, m.Content, isToolError(m.Content)))
			continue
		}

		flush()

		switch m.Role {
		case core.RoleAssistant:
			if content := buildAssistantContent(m); len(content) > 0 {
				messages = append(messages, anthropic.NewAssistantMessage(content...))
			}
		default:
			if m.Content != "" {
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
			}
		}
	}

	flush()

	// The Messages API expects the conversation to open with a user turn.
	if len(messages) > 0 && messages[0].Role == anthropic.MessageParamRoleAssistant {
		messages = append([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(conversationOpener)),
		}, messages...)
	}

	return messages
}

const conversationOpener = "Let us begin."

func isToolError(content string) bool { return strings.HasPrefix(content, "Error:") }

// buildAssistantContent builds content for assistant messages.
func buildAssistantContent(m core.Message) []anthropic.ContentBlockParamUnion {
	var content []anthropic.ContentBlockParamUnion

	if m.Content != "" {
		content = append(content, anthropic.NewTextBlock(m.Content))
	}

	for _, call := range m.ToolCalls {
		var input any = map[string]any{}
		if call.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &input); err != nil {
				input = call.Arguments // fallback to string
			}
		}

		content = append(content, anthropic.NewToolUseBlock(call.ID, input, call.Name))
	}

	return content
}

// buildTools converts tool definitions to Anthropic tool format.
func buildTools(tools []model.ToolDefinition) []anthropic.ToolUnionParam {
	anthropicTools := make([]anthropic.ToolUnionParam, len(tools))

	for i, tool := range tools {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
		}

		if params := tool.Parameters; params != nil {
			if properties, exists := params["properties"]; exists {
				inputSchema.Properties = properties
			}
			inputSchema.Required = util.RequiredFields(params)
		}

		u := anthropic.ToolUnionParamOfTool(inputSchema, tool.Name)
		if tool.Description != "" {
			u.OfTool.Description = anthropic.String(tool.Description)
		}

		anthropicTools[i] = u
	}

	return anthropicTools
}

// Info returns metadata describing this Anthropic provider implementation.
func (p *Provider) Info() model.Info {
	return model.Info{
		Name:          string(p.opts.Model),
		Provider:      "anthropic",
		SupportsTools: true,
	}
}
