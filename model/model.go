package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/internal/util"
)

var (
	// ErrMalformedResponse is returned when a result matches none of the
	// expected response shapes.
	ErrMalformedResponse = errors.New("malformed provider response")
	// ErrNoMoreResponses is returned by MockProvider once its script is drained.
	ErrNoMoreResponses = errors.New("mock provider has no more responses")
)

// ResponseType discriminates the outcome of a provider call.
type ResponseType string

const (
	// ResponseResult carries structured content matching the requested format.
	ResponseResult ResponseType = "result"
	// ResponseToolCall carries one or more tool invocation requests.
	ResponseToolCall ResponseType = "tool_call"
	// ResponseError signals that the provider cannot complete the request.
	ResponseError ResponseType = "error"
)

// ToolDefinition declaratively exposes a callable tool to the provider.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ResponseFormat names the JSON schema the provider must shape its result by.
type ResponseFormat struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Schema      map[string]any `json:"schema"`
}

// Request is the normalized provider input assembled by agents.
type Request struct {
	Messages       []core.Message   `json:"messages"`
	Tools          []ToolDefinition `json:"tools,omitempty"`
	ResponseFormat *ResponseFormat  `json:"response_format,omitempty"`
	Temperature    *float64         `json:"temperature,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the discriminated result of a provider call.
type Response struct {
	Type      ResponseType    `json:"type"`
	Content   string          `json:"content,omitempty"` // JSON document (result) or reason (error)
	ToolCalls []core.ToolCall `json:"tool_calls,omitempty"`
	Usage     *TokenUsage     `json:"usage,omitempty"`
}

// Info contains metadata about a provider implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Provider turns an ordered list of conversation turns into a structured
// response. Implementations own retry and timeout policy; the engine never
// retries a call.
type Provider interface {
	Chat(ctx context.Context, req Request) (Response, error)

	// Info returns information about the provider implementation.
	Info() Info
}

// Float returns a pointer to v, for optional request fields.
func Float(v float64) *float64 { return &v }

// Result builds a result response by marshalling v to JSON.
func Result(v any) Response {
	data, err := json.Marshal(v)
	if err != nil {
		return Response{Type: ResponseError, Content: err.Error()}
	}
	return Response{Type: ResponseResult, Content: string(data)}
}

// ResultText builds a result response from raw content.
func ResultText(content string) Response {
	return Response{Type: ResponseResult, Content: content}
}

// ToolCalls builds a tool-call response.
func ToolCalls(calls ...core.ToolCall) Response {
	return Response{Type: ResponseToolCall, ToolCalls: calls}
}

// ErrorResult builds an error-outcome response.
func ErrorResult(reason string) Response {
	return Response{Type: ResponseError, Content: reason}
}

// Decode parses a result response into v. Markdown code fences and prose
// surrounding the outermost JSON object are tolerated since some providers
// cannot be forced into pure JSON output.
func Decode(resp Response, v any) error {
	if resp.Type != ResponseResult {
		return fmt.Errorf("%w: expected %s, got %q", ErrMalformedResponse, ResponseResult, resp.Type)
	}
	raw := ExtractJSON(resp.Content)
	if raw == "" {
		return fmt.Errorf("%w: empty result", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// DecodeSchema parses a result response into v after checking the JSON
// object against schema: required fields must be present and typed values
// must match their declared type and enum. Missing fields are never
// defaulted to zero values.
func DecodeSchema(resp Response, schema map[string]any, v any) error {
	if resp.Type != ResponseResult {
		return fmt.Errorf("%w: expected %s, got %q", ErrMalformedResponse, ResponseResult, resp.Type)
	}
	raw := ExtractJSON(resp.Content)
	if raw == "" {
		return fmt.Errorf("%w: empty result", ErrMalformedResponse)
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := util.ValidateParameters(obj, schema); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// ExtractJSON returns the outermost JSON object contained in text.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}

// MockProvider is a lightweight scripted Provider useful for tests & examples.
// Each Chat call pops the next scripted step; requests are recorded.
type MockProvider struct {
	mu       sync.Mutex
	info     Info
	script   []mockStep
	requests []Request
}

type mockStep struct {
	resp Response
	err  error
}

// NewMockProvider constructs a MockProvider returning responses in order.
func NewMockProvider(responses ...Response) *MockProvider {
	m := &MockProvider{info: Info{Name: "mock", Provider: "mock", SupportsTools: true}}
	m.Push(responses...)
	return m
}

// Push appends responses to the script.
func (m *MockProvider) Push(responses ...Response) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range responses {
		m.script = append(m.script, mockStep{resp: r})
	}
	return m
}

// PushError appends a transport error to the script.
func (m *MockProvider) PushError(err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, mockStep{err: err})
	return m
}

// Chat implements Provider.
func (m *MockProvider) Chat(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if len(m.script) == 0 {
		return Response{}, ErrNoMoreResponses
	}
	step := m.script[0]
	m.script = m.script[1:]
	return step.resp, step.err
}

// Requests returns a copy of all requests received so far.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Remaining returns the number of scripted steps not yet consumed.
func (m *MockProvider) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.script)
}

// Info implements Provider.
func (m *MockProvider) Info() Info { return m.info }
