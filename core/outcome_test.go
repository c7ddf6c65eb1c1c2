package core_test

import (
	"testing"

	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func running(agent, task string) core.WorkflowState {
	return core.Start(core.NewChildState(agent, task))
}

func TestStart(t *testing.T) {
	idle := core.NewRootState("supervisor", "x")
	assert.Equal(t, core.StatusRunning, core.Start(idle).Status)
	assert.Equal(t, core.StatusIdle, idle.Status)

	paused := idle.WithStatus(core.StatusPaused)
	assert.Equal(t, core.StatusPaused, core.Start(paused).Status)
}

func TestApplyOutcome_Continue(t *testing.T) {
	node := running("writer", "write")

	next, err := core.ApplyOutcome(node, core.Continue{Result: "outline", NextStep: "write intro"})
	require.NoError(t, err)

	assert.Equal(t, core.StatusRunning, next.Status)
	require.Len(t, next.Messages, 3)
	assert.Equal(t, core.AssistantMessage("outline"), next.Messages[1])
	assert.Equal(t, core.UserMessage("write intro"), next.Messages[2])
	assert.Len(t, node.Messages, 1)
}

func TestApplyOutcome_Complete(t *testing.T) {
	next, err := core.ApplyOutcome(running("writer", "write"), core.Complete{Result: "done"})
	require.NoError(t, err)

	assert.Equal(t, core.StatusFinished, next.Status)
	res, ok := next.Result()
	assert.True(t, ok)
	assert.Equal(t, "done", res)
}

func TestApplyOutcome_CompleteWithPendingChildren(t *testing.T) {
	node := running("supervisor", "x").WithChildren(core.NewChildState("a", "t"))

	_, err := core.ApplyOutcome(node, core.Complete{Result: "done"})
	assert.ErrorIs(t, err, core.ErrIncompleteChildren)
}

func TestApplyOutcome_ToolRequest(t *testing.T) {
	next, err := core.ApplyOutcome(running("writer", "x"), core.ToolRequest{
		Content: "need data",
		Calls:   []core.ToolCall{{Name: "fetch", Arguments: `{"url":"https://example.com"}`}, {ID: "given", Name: "fetch"}},
	})
	require.NoError(t, err)

	assert.Equal(t, core.StatusPaused, next.Status)
	last := next.Messages[len(next.Messages)-1]
	require.Len(t, last.ToolCalls, 2)
	assert.NotEmpty(t, last.ToolCalls[0].ID)
	assert.Equal(t, "given", last.ToolCalls[1].ID)
	assert.Equal(t, "need data", last.Content)

	_, err = core.ApplyOutcome(running("writer", "x"), core.ToolRequest{})
	assert.ErrorIs(t, err, core.ErrNoToolCalls)
}

func TestApplyOutcome_Delegate(t *testing.T) {
	node := running("supervisor", "x")

	next, err := core.ApplyOutcome(node, core.Delegate{Tasks: []core.Delegation{
		{Agent: "researcher", Task: "find"},
		{Agent: "writer", Task: "write"},
	}})
	require.NoError(t, err)

	assert.Equal(t, core.StatusRunning, next.Status)
	require.Len(t, next.Children, 2)
	assert.Equal(t, "researcher", next.Children[0].Agent)
	assert.Equal(t, "writer", next.Children[1].Agent)
	assert.Equal(t, core.StatusIdle, next.Children[1].Status)
	assert.Equal(t, "write", next.Children[1].Request())
	assert.Len(t, next.Messages, len(node.Messages), "delegation does not touch the log")

	_, err = core.ApplyOutcome(node, core.Delegate{})
	assert.ErrorIs(t, err, core.ErrEmptyDelegation)
}

func TestApplyOutcome_Nil(t *testing.T) {
	_, err := core.ApplyOutcome(running("a", "x"), nil)
	assert.Error(t, err)
}

func TestPendingToolCalls(t *testing.T) {
	node := testutil.NewStateBuilder("writer").
		User("x").
		ToolCall("old", "fetch", `{}`).
		ToolResult("old", "r").
		Build()
	node = node.WithMessages(core.ToolCallMessage("", core.ToolCall{ID: "c1", Name: "a"}, core.ToolCall{ID: "c2", Name: "b"}))
	node = node.WithMessages(core.ToolResultMessage("c1", "ok"))

	pending := core.PendingToolCalls(node)
	require.Len(t, pending, 1)
	assert.Equal(t, "c2", pending[0].ID)

	assert.Nil(t, core.PendingToolCalls(core.NewRootState("a", "x")))
}

func TestSupplyToolResult(t *testing.T) {
	child := testutil.NewStateBuilder("writer").
		User("x").
		Status(core.StatusPaused).
		Build().
		WithMessages(core.ToolCallMessage("", core.ToolCall{ID: "c1", Name: "a"}, core.ToolCall{ID: "c2", Name: "b"}))
	root := testutil.NewStateBuilder("supervisor").User("r").Status(core.StatusRunning).Build().WithChildren(child)

	first, err := core.SupplyToolResult(root, core.Path{0}, "c1", "one")
	require.NoError(t, err)
	n, _ := first.At(core.Path{0})
	assert.Equal(t, core.StatusPaused, n.Status, "still waiting for c2")

	second, err := core.SupplyToolResult(first, core.Path{0}, "c2", "two")
	require.NoError(t, err)
	n, _ = second.At(core.Path{0})
	assert.Equal(t, core.StatusRunning, n.Status)
	assert.Equal(t, core.ToolResultMessage("c2", "two"), n.Messages[len(n.Messages)-1])

	_, err = core.SupplyToolResult(first, core.Path{0}, "c1", "again")
	assert.ErrorIs(t, err, core.ErrUnknownToolCall)

	_, err = core.SupplyToolResult(second, core.Path{0}, "c2", "late")
	assert.ErrorIs(t, err, core.ErrNotPaused)

	_, err = core.SupplyNodeToolResult(child, "c1", "direct")
	assert.NoError(t, err)
}
