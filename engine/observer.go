package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/i18n"
	"github.com/hupe1980/teamwork/logging"
)

// ChangeKind identifies why the tree changed.
type ChangeKind string

const (
	// ChangeStep is a regular agent step on the active node.
	ChangeStep ChangeKind = "step"
	// ChangeFailed marks the active node failed after a step error.
	ChangeFailed ChangeKind = "failed"
	// ChangeFinalize is the final-boss substitution after budget exhaustion.
	ChangeFinalize ChangeKind = "finalize"
)

// Change describes one tree transition handed to observers. Prev and Next
// are complete, independent tree versions; observers must treat them as
// read-only.
type Change struct {
	Kind     ChangeKind
	Prev     core.WorkflowState
	Next     core.WorkflowState
	Path     core.Path     // Node advanced by the step
	Agent    string        // Agent that ran the step
	Status   core.Status   // Status of the node after the step
	Step     int           // 1-based step number within the Teamwork call
	Duration time.Duration // Wall time of the step
}

// Observer receives every tree change of a run. Errors and panics are
// logged by the engine and never abort the run.
type Observer interface {
	Observe(ctx context.Context, change Change) error
}

// ObserverFunc adapts an ordinary function to Observer.
type ObserverFunc func(ctx context.Context, change Change) error

// Observe implements Observer.
func (f ObserverFunc) Observe(ctx context.Context, change Change) error { return f(ctx, change) }

// notifier invokes observers sequentially in registration order.
type notifier struct {
	observers []Observer
	logger    logging.Logger
}

// notify runs the workflow snapshot hook and every observer. A failing or
// panicking observer is logged and skipped; the remaining observers still run.
func (n *notifier) notify(ctx context.Context, snapshot func(prev, next core.WorkflowState), change Change) {
	if snapshot != nil {
		n.safely("snapshot", func() error {
			snapshot(change.Prev, change.Next)
			return nil
		})
	}

	for i, o := range n.observers {
		n.safely(fmt.Sprintf("observer[%d]", i), func() error {
			return o.Observe(ctx, change)
		})
	}
}

func (n *notifier) safely(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("engine.observer.panic", "observer", name, "panic", fmt.Sprint(r))
		}
	}()

	if err := fn(); err != nil {
		n.logger.Warn("engine.observer.error", "observer", name, "error", err)
	}
}

// LoggingObserverOptions configures a LoggingObserver.
type LoggingObserverOptions struct {
	// Locale selects the language of status texts. Empty means English.
	Locale string
	// Catalog supplies the status texts. Nil means i18n.Default().
	Catalog *i18n.Catalog
}

// LoggingObserver logs every change at debug level and the readable status
// of the advanced node at info level.
type LoggingObserver struct {
	logger logging.Logger
	texts  i18n.Localizer
}

// NewLoggingObserver creates an observer writing to logger.
func NewLoggingObserver(logger logging.Logger, optFns ...func(o *LoggingObserverOptions)) *LoggingObserver {
	opts := LoggingObserverOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = i18n.Default()
	}

	return &LoggingObserver{
		logger: logging.OrNoOp(logger),
		texts:  catalog.Localizer(opts.Locale),
	}
}

// Observe implements Observer.
func (o *LoggingObserver) Observe(_ context.Context, c Change) error {
	o.logger.Debug("engine.tree.change",
		"kind", string(c.Kind),
		"step", c.Step,
		"agent", c.Agent,
		"path", c.Path.String(),
		"status", string(c.Status),
		"nodes", c.Next.CountNodes(),
	)

	node, err := c.Next.At(c.Path)
	if err != nil {
		return err
	}

	o.logger.Info("engine.node.status",
		"agent", node.Agent,
		"path", c.Path.String(),
		"text", StatusText(o.texts, node),
	)

	return nil
}

// ErrInvariantViolation is reported by InvariantObserver.
var ErrInvariantViolation = errors.New("tree invariant violated")

// InvariantObserver checks the structural invariants of every change:
// no finished node has an unfinished child, and no node's message log
// shrinks between versions. Violations are returned as errors (and thus
// logged) and optionally reported to OnViolation.
type InvariantObserver struct {
	OnViolation func(err error)
}

// Observe implements Observer.
func (o *InvariantObserver) Observe(_ context.Context, c Change) error {
	err := errors.Join(CheckFinishedParents(c.Next), CheckMonotonicMessages(c.Prev, c.Next))
	if err != nil && o.OnViolation != nil {
		o.OnViolation(err)
	}

	return err
}

// CheckFinishedParents reports finished nodes with unfinished children.
func CheckFinishedParents(root core.WorkflowState) error {
	var errs []error

	root.Walk(func(p core.Path, n core.WorkflowState) bool {
		if n.Status == core.StatusFinished && n.HasIncompleteChildren() {
			errs = append(errs, fmt.Errorf("%w: %s at %s is finished with incomplete children", ErrInvariantViolation, n.Agent, p))
		}
		return true
	})

	return errors.Join(errs...)
}

// CheckMonotonicMessages reports nodes (matched by ID) whose message log is
// shorter in next than in prev.
func CheckMonotonicMessages(prev, next core.WorkflowState) error {
	lengths := map[string]int{}

	prev.Walk(func(_ core.Path, n core.WorkflowState) bool {
		lengths[n.ID] = len(n.Messages)
		return true
	})

	var errs []error

	next.Walk(func(p core.Path, n core.WorkflowState) bool {
		if before, ok := lengths[n.ID]; ok && len(n.Messages) < before {
			errs = append(errs, fmt.Errorf("%w: %s at %s shrank from %d to %d messages", ErrInvariantViolation, n.Agent, p, before, len(n.Messages)))
		}
		return true
	})

	return errors.Join(errs...)
}
