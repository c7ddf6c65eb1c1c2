package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/teamwork/internal/util"
	"github.com/hupe1980/teamwork/logging"
)

// Func is the signature of functions wrapped by FunctionTool. Strings are
// returned unchanged; any other result is JSON encoded.
type Func func(ctx context.Context, args map[string]any) (any, error)

// FunctionOptions configure a FunctionTool.
type FunctionOptions struct {
	Logger logging.Logger
}

// FunctionTool is a generic adapter that exposes a plain Go function as a teamwork tool.
//
// Responsibilities:
//   - Holds a lightweight JSON-Schema-like parameter specification (parameters)
//   - Validates provider supplied arguments against that schema before execution
//   - Normalizes error handling so callers receive *ToolError with consistent codes:
//     VALIDATION_ERROR  -> schema / argument mismatch
//     EXECUTION_ERROR   -> underlying function returned an error (non-ToolError)
//     (custom codes preserved if the function returns *ToolError directly)
//
// A FunctionTool has no internal mutable state after construction and is
// safe for concurrent use by multiple goroutines.
type FunctionTool struct {
	// Tool identifier (snake_case recommended)
	name string
	// Human-readable description shown to providers
	description string
	// JSON schema describing accepted arguments
	parameters map[string]any
	// User supplied implementation
	fn     Func
	logger logging.Logger
}

// NewFunctionTool constructs a FunctionTool from explicit schema and function.
//
// Example:
//
//	fetch := NewFunctionTool(
//	  "fetch",
//	  "Fetch the text content of a web page",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "url": map[string]any{"type": "string"},
//	    },
//	    "required": []string{"url"},
//	  },
//	  func(ctx context.Context, args map[string]any) (any, error) {
//	    return httpGet(ctx, args["url"].(string))
//	  },
//	)
func NewFunctionTool(
	name, description string,
	parameters map[string]any,
	fn Func,
	optFns ...func(o *FunctionOptions),
) *FunctionTool {
	opts := FunctionOptions{}
	for _, f := range optFns {
		f(&opts)
	}

	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
		logger:      logging.OrNoOp(opts.Logger),
	}
}

// NewFunctionToolFromStruct derives the parameter schema from a struct using reflection.
// It produces a schema equivalent to util.CreateSchema(structType).
//
// Example:
//
//	type FetchArgs struct {
//	  URL string `json:"url" description:"Page to fetch"`
//	}
//
//	fetch := NewFunctionToolFromStruct("fetch", "Fetch a web page", FetchArgs{}, fetchFn)
func NewFunctionToolFromStruct(
	name, description string,
	structType any,
	fn Func,
	optFns ...func(o *FunctionOptions),
) *FunctionTool {
	schema := util.CreateSchema(structType)
	return NewFunctionTool(name, description, schema, fn, optFns...)
}

// Name returns the unique tool name used in tool definitions and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to providers.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the (minimal) JSON schema describing expected arguments.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Execute validates the provided args against the declared schema then invokes the
// underlying function.
//
// Error Semantics:
//
//	*ToolError (returned directly)  -> forwarded unchanged
//	validation failure              -> *ToolError{Code: "VALIDATION_ERROR"}
//	other error                     -> *ToolError{Code: "EXECUTION_ERROR"}
func (t *FunctionTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	start := time.Now()

	t.logger.Debug("tool.call.start", "tool", t.name)

	if err := util.ValidateParameters(args, t.parameters); err != nil {
		t.logger.Warn("tool.call.validation_failed", "tool", t.name, "error", err.Error())

		return "", &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    CodeValidation,
			Details: err,
		}
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) { // Already a ToolError -> just log and forward
			t.logger.Error("tool.call.error", "tool", t.name, "error", toolErr.Message)

			return "", toolErr
		}

		t.logger.Error("tool.call.error", "tool", t.name, "error", err.Error())

		return "", &ToolError{
			Tool:    t.name,
			Message: err.Error(),
			Code:    CodeExecution,
		}
	}

	t.logger.Info("tool.call.success", "tool", t.name, "duration_ms", time.Since(start).Milliseconds())

	return stringify(result)
}

func stringify(v any) (string, error) {
	switch r := v.(type) {
	case nil:
		return "", nil
	case string:
		return r, nil
	case fmt.Stringer:
		return r.String(), nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode tool result: %w", err)
	}

	return string(data), nil
}
