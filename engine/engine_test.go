package engine

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/teamwork/agent"
	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/internal/testutil"
	"github.com/hupe1980/teamwork/model"
	"github.com/hupe1980/teamwork/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(t string) model.Response {
	return model.Result(map[string]any{"task": t, "reasoning": "next"})
}

func stepDone(result string) model.Response {
	return model.Result(map[string]any{
		"kind": "step", "name": "member", "result": result,
		"reasoning": "", "next_step": "", "has_next_step": false,
	})
}

func stepContinue(result, next string) model.Response {
	return model.Result(map[string]any{
		"kind": "step", "name": "member", "result": result,
		"reasoning": "", "next_step": next, "has_next_step": true,
	})
}

func fetchTool() tool.Tool {
	type fetchArgs struct {
		URL string `json:"url" description:"Page to fetch"`
	}

	return tool.NewFunctionToolFromStruct("fetch", "Fetch a web page", fetchArgs{}, func(_ context.Context, args map[string]any) (any, error) {
		return "<html>Example Domain</html>", nil
	})
}

func websiteWorkflow(p model.Provider) *agent.Workflow {
	return agent.NewWorkflow(p, "summarize example.com", func(o *agent.Workflow) {
		o.Output = "A short summary"
		o.Team["websiteAnalyzer"] = agent.NewModelAgent("Analyzes websites", func(o *agent.ModelAgentOptions) {
			o.Tools = tool.Set(fetchTool())
		})
	})
}

func TestTeamwork_WebsiteScenario(t *testing.T) {
	p := model.NewMockProvider(
		task("summarize example.com"),
		model.ToolCalls(core.ToolCall{ID: "call-1", Name: "fetch", Arguments: `{"url":"https://example.com"}`}),
		stepDone("Example.com is a placeholder domain."),
		task(""),
	)
	wf := websiteWorkflow(p)

	var changes []Change
	eng := New(func(o *Options) {
		o.Observers = []Observer{ObserverFunc(func(_ context.Context, c Change) error {
			changes = append(changes, c)
			return nil
		})}
	})

	root, err := eng.Teamwork(context.Background(), wf)
	require.NoError(t, err)

	paused := root.PausedPaths()
	require.Len(t, paused, 1)
	assert.Equal(t, core.Path{0, 0}, paused[0])
	assert.Equal(t, core.StatusRunning, root.Status)
	require.Len(t, changes, 3)
	assert.Equal(t, "websiteAnalyzer", changes[2].Agent)
	assert.Equal(t, core.StatusPaused, changes[2].Status)

	node, err := root.At(paused[0])
	require.NoError(t, err)
	calls := core.PendingToolCalls(node)
	require.Len(t, calls, 1)
	assert.Equal(t, "fetch", calls[0].Name)

	root, err = core.SupplyToolResult(root, paused[0], "call-1", "<html>Example Domain</html>")
	require.NoError(t, err)

	root, err = eng.Teamwork(context.Background(), wf, func(o *RunOptions) { o.State = &root })
	require.NoError(t, err)

	assert.Equal(t, core.StatusFinished, root.Status)
	result, ok := root.Result()
	require.True(t, ok)
	assert.Equal(t, "Example.com is a placeholder domain.", result)
	assert.Zero(t, p.Remaining())
	assert.Len(t, changes, 6)

	analyzer, err := root.At(core.Path{0, 0})
	require.NoError(t, err)
	assert.Equal(t, core.StatusFinished, analyzer.Status)
}

func TestTeamwork_BudgetExhaustedFinalBoss(t *testing.T) {
	p := model.NewMockProvider(
		task("keep going"),
		model.Result(map[string]any{"result": "best effort answer"}),
	)
	wf := websiteWorkflow(p)
	wf.MaxIterations = 2

	root, err := Teamwork(context.Background(), wf)
	require.NoError(t, err)

	assert.Equal(t, core.StatusFinished, root.Status)
	assert.Equal(t, agent.FinalBossName, root.Agent)
	assert.Empty(t, root.Children)

	result, ok := root.Result()
	require.True(t, ok)
	assert.Equal(t, "best effort answer", result)

	assistants := 0
	for _, m := range root.Messages {
		if m.Role == core.RoleAssistant {
			assistants++
		}
	}
	assert.Equal(t, 1, assistants)
	assert.Zero(t, p.Remaining())
}

func TestTeamwork_ProviderErrorOnFirstCall(t *testing.T) {
	p := model.NewMockProvider(model.ErrorResult("cannot help"))
	wf := websiteWorkflow(p)

	snapshots := 0
	wf.Snapshot = func(prev, next core.WorkflowState) { snapshots++ }

	root, err := Teamwork(context.Background(), wf)

	var perr *agent.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, agent.SupervisorName, perr.Agent)
	assert.Equal(t, core.StatusIdle, root.Status)
	assert.Len(t, root.Messages, 1)
	assert.Empty(t, root.Children)
	assert.Zero(t, snapshots)
}

func TestTeamwork_MalformedReplyKeepsTree(t *testing.T) {
	tests := []struct {
		name string
		resp model.Response
	}{
		{"supervisor foreign key", model.ResultText(`{"next_task":"summarize example.com"}`)},
		{"supervisor prose", model.ResultText("Let me think about it.")},
		{"supervisor wrong type", model.ResultText(`{"task":true,"reasoning":"r"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := websiteWorkflow(model.NewMockProvider(tt.resp))

			root, err := Teamwork(context.Background(), wf)
			require.ErrorIs(t, err, model.ErrMalformedResponse)

			// the workflow is not finished by a reply missing its fields
			assert.Equal(t, core.StatusIdle, root.Status)
			assert.Empty(t, root.Children)
			assert.Len(t, root.Messages, 1)
		})
	}
}

func TestTeamwork_SharedBudget(t *testing.T) {
	p := model.NewMockProvider(
		task("summarize example.com"),
		model.ToolCalls(core.ToolCall{ID: "call-1", Name: "fetch", Arguments: `{"url":"https://example.com"}`}),
		model.Result(map[string]any{"result": "best effort answer"}),
	)
	wf := websiteWorkflow(p)
	wf.MaxIterations = 3

	budget := core.NewBudget(wf.MaxIterations)
	eng := New()

	root, err := eng.Teamwork(context.Background(), wf, func(o *RunOptions) { o.Budget = budget })
	require.NoError(t, err)
	require.Len(t, root.PausedPaths(), 1)
	assert.Equal(t, 3, budget.Used())

	root, err = core.SupplyToolResult(root, core.Path{0, 0}, "call-1", "<html>Example Domain</html>")
	require.NoError(t, err)

	// the carried budget is spent, so the resumed call finalizes at once
	root, err = eng.Teamwork(context.Background(), wf, func(o *RunOptions) {
		o.State = &root
		o.Budget = budget
	})
	require.NoError(t, err)

	assert.Equal(t, core.StatusFinished, root.Status)
	assert.Equal(t, agent.FinalBossName, root.Agent)
	assert.Zero(t, p.Remaining())
}

func TestTeamwork_MarkFailedOnError(t *testing.T) {
	p := model.NewMockProvider(model.ErrorResult("cannot help"))
	wf := websiteWorkflow(p)

	eng := New(func(o *Options) { o.MarkFailedOnError = true })

	root, err := eng.Teamwork(context.Background(), wf)
	require.Error(t, err)
	assert.Equal(t, core.StatusFailed, root.Status)

	_, err = eng.Teamwork(context.Background(), wf, func(o *RunOptions) { o.State = &root })
	assert.ErrorIs(t, err, ErrWorkflowFailed)
}

func TestTeamwork_UnknownAgent(t *testing.T) {
	wf := websiteWorkflow(model.NewMockProvider())
	root := core.NewRootState("ghost", "haunt the tree")

	next, err := Teamwork(context.Background(), wf, func(o *RunOptions) { o.State = &root })
	assert.ErrorIs(t, err, ErrUnknownAgent)
	assert.Equal(t, root.ID, next.ID)
	assert.Equal(t, core.StatusIdle, next.Status)
}

func TestTeamwork_TransportErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	p := model.NewMockProvider().PushError(boom)

	_, err := Teamwork(context.Background(), websiteWorkflow(p))
	assert.ErrorIs(t, err, boom)
}

func TestTeamwork_ContextCanceled(t *testing.T) {
	p := model.NewMockProvider(task("anything"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root, err := Teamwork(ctx, websiteWorkflow(p))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, core.StatusIdle, root.Status)
	assert.Equal(t, 1, p.Remaining())
}

func TestTeamwork_NilWorkflow(t *testing.T) {
	_, err := Teamwork(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilWorkflow)
}

func pausedSiblingTree() core.WorkflowState {
	return testutil.NewStateBuilder(agent.SupervisorName).
		User("summarize example.com").
		Status(core.StatusRunning).
		Child(testutil.NewStateBuilder("websiteAnalyzer").User("first page")).
		Child(testutil.NewStateBuilder("websiteAnalyzer").
			User("second page").
			ToolCall("call-9", "fetch", `{"url":"https://example.org"}`).
			Status(core.StatusPaused)).
		Build()
}

func TestTeamwork_RunToolsFalseReturnsOnPause(t *testing.T) {
	p := model.NewMockProvider(stepDone("first summary"))
	root := pausedSiblingTree()

	next, err := Teamwork(context.Background(), websiteWorkflow(p), func(o *RunOptions) { o.State = &root })
	require.NoError(t, err)

	assert.Empty(t, p.Requests())
	assert.Equal(t, core.StatusIdle, next.Children[0].Status)
}

func TestTeamwork_RunToolsTrueAdvancesOtherWork(t *testing.T) {
	p := model.NewMockProvider(stepDone("first summary"))
	root := pausedSiblingTree()

	next, err := Teamwork(context.Background(), websiteWorkflow(p), func(o *RunOptions) {
		o.State = &root
		o.RunTools = true
	})
	require.NoError(t, err)

	assert.Len(t, p.Requests(), 1)
	assert.Equal(t, core.StatusFinished, next.Children[0].Status)
	assert.Equal(t, core.StatusPaused, next.Children[1].Status)
	assert.Equal(t, core.StatusRunning, next.Status)
}

func TestStep(t *testing.T) {
	p := model.NewMockProvider(stepContinue("looked at the page", "summarize it"))
	wf := websiteWorkflow(p)
	root := testutil.NewStateBuilder("websiteAnalyzer").User("summarize example.com").Build()

	next, advanced, err := New().Step(context.Background(), wf, root)
	require.NoError(t, err)
	require.True(t, advanced)

	assert.Equal(t, core.StatusRunning, next.Status)
	require.Len(t, next.Messages, 3)
	assert.Equal(t, core.AssistantMessage("looked at the page"), next.Messages[1])
	assert.Equal(t, core.UserMessage("summarize it"), next.Messages[2])

	// input untouched
	assert.Equal(t, core.StatusIdle, root.Status)
	assert.Len(t, root.Messages, 1)
}

func TestStep_NothingToAdvance(t *testing.T) {
	root := testutil.Finished("websiteAnalyzer", "task", "done").Build()

	next, advanced, err := New().Step(context.Background(), websiteWorkflow(model.NewMockProvider()), root)
	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Equal(t, root, next)
}

func TestFinalize_PrunesUnfinishedWork(t *testing.T) {
	p := model.NewMockProvider(model.Result(map[string]any{"result": "summary from finished work"}))
	wf := websiteWorkflow(p)

	root := testutil.NewStateBuilder(agent.SupervisorName).
		User("summarize example.com").
		Status(core.StatusRunning).
		Child(testutil.Finished("websiteAnalyzer", "page one", "one is fine")).
		Child(testutil.NewStateBuilder(agent.ResourcePlannerName).User("page two").Status(core.StatusRunning)).
		Build()

	next, err := New().Finalize(context.Background(), wf, root)
	require.NoError(t, err)

	assert.Equal(t, core.StatusFinished, next.Status)
	require.Len(t, next.Children, 1)
	assert.Equal(t, "websiteAnalyzer", next.Children[0].Agent)
	assert.NoError(t, CheckFinishedParents(next))

	reqs := p.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "final_answer", reqs[0].ResponseFormat.Name)

	found := false
	for _, m := range reqs[0].Messages {
		if m.Role == core.RoleUser && strings.Contains(m.Content, "one is fine") {
			found = true
		}
	}
	assert.True(t, found, "finished work should be part of the final context")
}

// -------------------- Observers --------------------

func TestObservers_FailuresNeverAbort(t *testing.T) {
	p := model.NewMockProvider(task(""))
	wf := websiteWorkflow(p)

	var calls atomic.Int32
	eng := New(func(o *Options) {
		o.Observers = []Observer{
			ObserverFunc(func(context.Context, Change) error { panic("observer bug") }),
			ObserverFunc(func(context.Context, Change) error { return errors.New("sink down") }),
			ObserverFunc(func(context.Context, Change) error { calls.Add(1); return nil }),
		}
	})
	wf.Snapshot = func(prev, next core.WorkflowState) { panic("snapshot bug") }

	root, err := eng.Teamwork(context.Background(), wf)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFinished, root.Status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestObservers_ReceiveIndependentVersions(t *testing.T) {
	p := model.NewMockProvider(task("summarize example.com"))
	wf := websiteWorkflow(p)
	wf.MaxIterations = 1

	var seen []Change

	eng := New(func(o *Options) {
		o.Observers = []Observer{ObserverFunc(func(_ context.Context, c Change) error {
			seen = append(seen, c)
			return nil
		})}
	})

	p.Push(model.Result(map[string]any{"result": "partial"}))

	_, err := eng.Teamwork(context.Background(), wf)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, ChangeStep, seen[0].Kind)
	assert.Equal(t, core.StatusIdle, seen[0].Prev.Status)
	assert.Empty(t, seen[0].Prev.Children)
	assert.Len(t, seen[0].Next.Children, 1)
	assert.Equal(t, 1, seen[0].Step)

	assert.Equal(t, ChangeFinalize, seen[1].Kind)
	assert.Equal(t, agent.FinalBossName, seen[1].Agent)
	assert.Len(t, seen[1].Prev.Children, 1)
	assert.Empty(t, seen[1].Next.Children)
}

func TestInvariantObserver(t *testing.T) {
	bad := testutil.NewStateBuilder(agent.SupervisorName).
		User("x").
		Status(core.StatusFinished).
		Child(testutil.NewStateBuilder("websiteAnalyzer").User("y").Status(core.StatusRunning)).
		Build()

	shrunk := bad.WithStatus(core.StatusRunning)
	shrunk.Messages = nil

	var reported error
	obs := &InvariantObserver{OnViolation: func(err error) { reported = err }}

	err := obs.Observe(context.Background(), Change{Prev: bad, Next: bad})
	require.ErrorIs(t, err, ErrInvariantViolation)
	assert.Equal(t, err, reported)

	err = obs.Observe(context.Background(), Change{Prev: bad, Next: shrunk})
	require.ErrorIs(t, err, ErrInvariantViolation)
	assert.Contains(t, err.Error(), "shrank")

	ok := testutil.Finished("websiteAnalyzer", "a", "b").Build()
	assert.NoError(t, obs.Observe(context.Background(), Change{Prev: ok, Next: ok}))
}

func TestLoggingObserver(t *testing.T) {
	root := core.NewRootState(agent.SupervisorName, "x")
	assert.NoError(t, NewLoggingObserver(nil).Observe(context.Background(), Change{Prev: root, Next: root}))
}
