package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath is returned when a Path does not address a node of the tree.
var ErrInvalidPath = errors.New("invalid tree path")

// Path addresses a node by the child indexes leading to it from the root.
// The empty path is the root itself.
type Path []int

// Child returns a new path extended by index i.
func (p Path) Child(i int) Path {
	c := make(Path, len(p), len(p)+1)
	copy(c, p)
	return append(c, i)
}

// String renders the path as "/0/2" ("/" for the root).
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, i := range p {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

// At returns the node addressed by path.
func (s WorkflowState) At(path Path) (WorkflowState, error) {
	node := s
	for depth, i := range path {
		if i < 0 || i >= len(node.Children) {
			return WorkflowState{}, fmt.Errorf("%w: %s (depth %d)", ErrInvalidPath, path, depth)
		}
		node = node.Children[i]
	}
	return node, nil
}

// Replace returns a new tree version where the node at path is replaced by
// node. Only the nodes along the path are copied; untouched subtrees are
// shared with the receiver, which is never modified.
func (s WorkflowState) Replace(path Path, node WorkflowState) (WorkflowState, error) {
	if len(path) == 0 {
		return node, nil
	}
	i := path[0]
	if i < 0 || i >= len(s.Children) {
		return WorkflowState{}, fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	child, err := s.Children[i].Replace(path[1:], node)
	if err != nil {
		return WorkflowState{}, err
	}
	children := make([]WorkflowState, len(s.Children))
	copy(children, s.Children)
	children[i] = child
	s.Children = children
	return s, nil
}

// Update applies fn to the node at path and replaces it with the result.
func (s WorkflowState) Update(path Path, fn func(WorkflowState) (WorkflowState, error)) (WorkflowState, error) {
	node, err := s.At(path)
	if err != nil {
		return WorkflowState{}, err
	}
	next, err := fn(node)
	if err != nil {
		return WorkflowState{}, err
	}
	return s.Replace(path, next)
}

// Walk visits every node depth-first in pre-order. Returning false from fn
// skips the node's subtree.
func (s WorkflowState) Walk(fn func(path Path, node WorkflowState) bool) {
	s.walk(Path{}, fn)
}

func (s WorkflowState) walk(path Path, fn func(Path, WorkflowState) bool) {
	if !fn(path, s) {
		return
	}
	for i, ch := range s.Children {
		ch.walk(path.Child(i), fn)
	}
}

// HasStatus reports whether any node of the tree has the given status.
func (s WorkflowState) HasStatus(status Status) bool {
	found := false
	s.Walk(func(_ Path, n WorkflowState) bool {
		if n.Status == status {
			found = true
		}
		return !found
	})
	return found
}

// PathsWithStatus lists the paths of all nodes with the given status in
// pre-order.
func (s WorkflowState) PathsWithStatus(status Status) []Path {
	var paths []Path
	s.Walk(func(p Path, n WorkflowState) bool {
		if n.Status == status {
			paths = append(paths, p)
		}
		return true
	})
	return paths
}

// PausedPaths lists nodes waiting for external tool results.
func (s WorkflowState) PausedPaths() []Path { return s.PathsWithStatus(StatusPaused) }

// CountNodes returns the number of nodes in the tree.
func (s WorkflowState) CountNodes() int {
	n := 0
	s.Walk(func(Path, WorkflowState) bool { n++; return true })
	return n
}

// AncestorMessages concatenates the messages of the nodes on the path from
// the root down to, but excluding, the node at path.
func AncestorMessages(root WorkflowState, path Path) ([]Message, error) {
	var msgs []Message
	node := root
	for depth, i := range path {
		msgs = append(msgs, node.Messages...)
		if i < 0 || i >= len(node.Children) {
			return nil, fmt.Errorf("%w: %s (depth %d)", ErrInvalidPath, path, depth)
		}
		node = node.Children[i]
	}
	return msgs, nil
}

// ActiveNode selects the node the driver advances next.
//
// Finished and failed nodes are never selected. A node with incomplete
// children delegates its fate to them: the last incomplete child is searched
// first, then earlier ones, so the most recently delegated work is driven to
// completion before its parent resumes. Paused nodes are skipped. A node with
// no incomplete children is selected when idle or running.
//
// ok is false when the tree is finished or blocked (every remaining piece of
// work is paused or failed). The function is pure: calling it twice on the
// same tree yields the same path.
func ActiveNode(root WorkflowState) (Path, bool) {
	return activeNode(root, Path{})
}

func activeNode(node WorkflowState, path Path) (Path, bool) {
	if node.Status.IsTerminal() {
		return nil, false
	}
	if node.HasIncompleteChildren() {
		for i := len(node.Children) - 1; i >= 0; i-- {
			if node.Children[i].Status == StatusFinished {
				continue
			}
			if p, ok := activeNode(node.Children[i], path.Child(i)); ok {
				return p, true
			}
		}
		return nil, false
	}
	if node.Status == StatusIdle || node.Status == StatusRunning {
		return path, true
	}
	return nil, false
}

// MarkFailed returns a new tree version with the node at path failed.
func MarkFailed(root WorkflowState, path Path) (WorkflowState, error) {
	return root.Update(path, func(n WorkflowState) (WorkflowState, error) {
		return n.WithStatus(StatusFailed), nil
	})
}

// PruneIncomplete returns a copy of s without descendants that are not
// finished. Finished subtrees are kept as they are.
func PruneIncomplete(s WorkflowState) WorkflowState {
	if len(s.Children) == 0 {
		return s
	}
	kept := make([]WorkflowState, 0, len(s.Children))
	for _, ch := range s.Children {
		if ch.Status == StatusFinished {
			kept = append(kept, PruneIncomplete(ch))
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	s.Children = kept
	return s
}
