package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/teamwork/agent"
	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/engine"
	"github.com/hupe1980/teamwork/internal/testutil"
	"github.com/hupe1980/teamwork/model"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver_Step(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := New(reg)

	tree := testutil.NewStateBuilder(agent.SupervisorName).
		User("summarize example.com").
		Status(core.StatusRunning).
		Child(testutil.NewStateBuilder("websiteAnalyzer").
			User("fetch").
			ToolCall("c1", "fetch", `{}`).
			Status(core.StatusPaused)).
		Build()

	err := obs.Observe(context.Background(), engine.Change{
		Kind:     engine.ChangeStep,
		Next:     tree,
		Agent:    "websiteAnalyzer",
		Status:   core.StatusPaused,
		Duration: 250 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, promtest.ToFloat64(obs.stepsTotal.WithLabelValues("websiteAnalyzer", "paused")))
	assert.Equal(t, 2.0, promtest.ToFloat64(obs.treeNodes))
	assert.Equal(t, 1.0, promtest.ToFloat64(obs.pausedNodes))
	assert.Equal(t, 1, promtest.CollectAndCount(obs.stepDuration))
}

func TestObserver_FailedAndFinalize(t *testing.T) {
	obs := New(nil, func(o *Options) { o.Namespace = "custom" })
	root := core.NewRootState(agent.SupervisorName, "x")

	require.NoError(t, obs.Observe(context.Background(), engine.Change{Kind: engine.ChangeFailed, Agent: "a", Next: root}))
	require.NoError(t, obs.Observe(context.Background(), engine.Change{Kind: engine.ChangeFinalize, Agent: agent.FinalBossName, Next: root}))

	assert.Equal(t, 1.0, promtest.ToFloat64(obs.failuresTotal.WithLabelValues("a")))
	assert.Equal(t, 1.0, promtest.ToFloat64(obs.finalizations))
	assert.Equal(t, 0, promtest.CollectAndCount(obs.stepsTotal))
}

func TestObserver_WithEngine(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := New(reg)

	p := model.NewMockProvider(model.Result(map[string]any{"task": "", "reasoning": "nothing to do"}))
	wf := agent.NewWorkflow(p, "say hello", func(o *agent.Workflow) {
		o.Team["greeter"] = agent.NewModelAgent("Greets people")
	})

	eng := engine.New(func(o *engine.Options) { o.Observers = []engine.Observer{obs} })

	_, err := eng.Teamwork(context.Background(), wf)
	require.NoError(t, err)

	expected := `
# HELP teamwork_steps_total Total number of agent steps by agent and resulting node status
# TYPE teamwork_steps_total counter
teamwork_steps_total{agent="supervisor",status="finished"} 1
`
	require.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(expected), "teamwork_steps_total"))
	assert.Equal(t, 1.0, promtest.ToFloat64(obs.treeNodes))
}
