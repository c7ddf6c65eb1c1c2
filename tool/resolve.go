package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/logging"
)

// ResolveNode executes every pending tool call of a paused node and appends
// the outcomes as tool-role messages. The returned node is running again.
//
// Tool failures never abort resolution: unknown tools, undecodable arguments
// and execution errors are recorded as "Error: ..." content so the owning
// agent can reason about them on its next step. Only context cancellation
// and a node that is not paused are reported as errors.
func ResolveNode(ctx context.Context, node core.WorkflowState, tools map[string]Tool, logger logging.Logger) (core.WorkflowState, error) {
	logger = logging.OrNoOp(logger)

	if node.Status != core.StatusPaused {
		return node, fmt.Errorf("resolve %s: %w", node.Agent, core.ErrNotPaused)
	}

	pending := core.PendingToolCalls(node)
	if len(pending) == 0 {
		return node.WithStatus(core.StatusRunning), nil
	}

	for _, call := range pending {
		if err := ctx.Err(); err != nil {
			return node, err
		}

		start := time.Now()
		content, err := execute(ctx, call, tools)
		if err != nil {
			logger.Warn("tool.resolve.error", "agent", node.Agent, "tool", call.Name, "call_id", call.ID,
				"duration_ms", time.Since(start).Milliseconds(), "error", err)
			content = "Error: " + err.Error()
		} else {
			logger.Debug("tool.resolve.done", "agent", node.Agent, "tool", call.Name, "call_id", call.ID,
				"duration_ms", time.Since(start).Milliseconds())
		}

		next, err := core.SupplyNodeToolResult(node, call.ID, content)
		if err != nil {
			return node, err
		}
		node = next
	}

	return node, nil
}

func execute(ctx context.Context, call core.ToolCall, tools map[string]Tool) (string, error) {
	t, ok := tools[call.Name]
	if !ok {
		return "", NewToolError(call.Name, "tool is not available to this agent", CodeNotFound)
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", &ToolError{
				Tool:    call.Name,
				Message: fmt.Sprintf("arguments are not a JSON object: %v", err),
				Code:    CodeArguments,
			}
		}
	}

	return t.Execute(ctx, args)
}
