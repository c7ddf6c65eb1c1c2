// Package metrics exports Prometheus metrics for workflow runs.
//
// Observer plugs into the engine as an engine.Observer:
//
//	reg := prometheus.NewRegistry()
//	eng := engine.New(func(o *engine.Options) {
//		o.Observers = append(o.Observers, metrics.New(reg))
//	})
package metrics

import (
	"context"

	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Options configures an Observer.
type Options struct {
	// Namespace prefixes every metric name. Defaults to "teamwork".
	Namespace string
	// Buckets of the step duration histogram.
	Buckets []float64
}

// Observer records step counts, step latency and tree shape.
type Observer struct {
	stepsTotal    *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec
	failuresTotal *prometheus.CounterVec
	finalizations prometheus.Counter
	treeNodes     prometheus.Gauge
	pausedNodes   prometheus.Gauge
}

// New creates an observer and registers its collectors with reg. A nil reg
// leaves the collectors unregistered.
func New(reg prometheus.Registerer, optFns ...func(o *Options)) *Observer {
	opts := Options{
		Namespace: "teamwork",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	factory := promauto.With(reg)

	return &Observer{
		stepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "steps_total",
			Help:      "Total number of agent steps by agent and resulting node status",
		}, []string{"agent", "status"}),
		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Name:      "step_duration_seconds",
			Help:      "Agent step duration in seconds",
			Buckets:   opts.Buckets,
		}, []string{"agent"}),
		failuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "failures_total",
			Help:      "Total number of nodes marked failed by agent",
		}, []string{"agent"}),
		finalizations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "finalizations_total",
			Help:      "Total number of runs finalized after exhausting the step budget",
		}),
		treeNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: opts.Namespace,
			Name:      "tree_nodes",
			Help:      "Number of nodes in the most recently changed tree",
		}),
		pausedNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: opts.Namespace,
			Name:      "paused_nodes",
			Help:      "Number of nodes waiting for tool results in the most recently changed tree",
		}),
	}
}

// Observe implements engine.Observer.
func (o *Observer) Observe(_ context.Context, c engine.Change) error {
	switch c.Kind {
	case engine.ChangeStep:
		o.stepsTotal.WithLabelValues(c.Agent, string(c.Status)).Inc()
		o.stepDuration.WithLabelValues(c.Agent).Observe(c.Duration.Seconds())
	case engine.ChangeFailed:
		o.failuresTotal.WithLabelValues(c.Agent).Inc()
	case engine.ChangeFinalize:
		o.finalizations.Inc()
	}

	o.treeNodes.Set(float64(c.Next.CountNodes()))
	o.pausedNodes.Set(float64(len(c.Next.PathsWithStatus(core.StatusPaused))))

	return nil
}
