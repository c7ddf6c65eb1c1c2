// Package engine drives a team of agents over a WorkflowState tree.
//
// The driver is a strict sequence of single steps. Each step selects the
// active node (see core.ActiveNode), resolves its owning agent, runs that
// agent once and folds the outcome back into a new tree version. Observers
// are notified after every change with both versions of the tree.
//
// A run ends when the root is finished, when the tree is blocked on tool
// results, or on the first error. Tool execution belongs to the caller:
//
//	eng := engine.New(func(o *engine.Options) {
//		o.Logger = logger
//		o.Observers = []engine.Observer{engine.NewLoggingObserver(logger)}
//	})
//
//	root, err := eng.Teamwork(ctx, wf)
//	for err == nil && root.Status != core.StatusFinished {
//		// supply results for every paused node, then resume
//		root, err = eng.Teamwork(ctx, wf, func(o *engine.RunOptions) { o.State = &root })
//	}
//
// When the step budget of a call is used up, the Final-Boss takes over the
// root and produces a best-effort answer. Pass RunOptions.Budget to share
// one budget between calls.
package engine
