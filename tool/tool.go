// Package tool implements the tool contract of teamwork: named, schema
// described capabilities (APIs, computations, user prompts) that an agent may
// request and the embedding application executes while a node is paused.
package tool

import (
	"context"
	"fmt"
	"sort"

	"github.com/hupe1980/teamwork/internal/util"
	"github.com/hupe1980/teamwork/model"
)

// Tool defines the interface for extending agent capabilities with external functions.
//
// Tools are registered on agents so the reasoning provider can request them.
// The engine never executes a tool: a request pauses the node and the
// embedding application runs Execute, appending the outcome as a tool-role
// message (see ResolveNode).
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for parameters
//   - Report failures as errors (ResolveNode turns them into message content)
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier for this tool.
	// Names should be descriptive and follow function naming conventions (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	// This description is provided to the provider to help it understand when and how to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected input format.
	// This schema is used for parameter validation and provider function calling.
	Parameters() map[string]any

	// Execute runs the tool with arguments decoded from the call's JSON payload.
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// Error codes carried by ToolError.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeArguments  = "INVALID_ARGUMENTS"
)

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// Definitions converts a tool set into provider tool definitions, sorted by
// name so requests are deterministic.
func Definitions(tools map[string]Tool) []model.ToolDefinition {
	if len(tools) == 0 {
		return nil
	}

	defs := make([]model.ToolDefinition, 0, len(tools))
	for name, t := range tools {
		defs = append(defs, model.ToolDefinition{
			Name:        name,
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	return defs
}

// Set builds a name-keyed tool map.
func Set(tools ...Tool) map[string]Tool {
	out := make(map[string]Tool, len(tools))
	for _, t := range tools {
		out[t.Name()] = t
	}
	return out
}
