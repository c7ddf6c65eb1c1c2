package agent

import (
	"strings"

	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/i18n"
)

// WorkItem is one piece of completed work recorded in the tree.
type WorkItem struct {
	Agent  string
	Task   string
	Result string
}

// CompletedWork lists the finished team-member nodes of the tree in
// pre-order. Built-in roles are skipped since their results only relay the
// work of their children.
func CompletedWork(root core.WorkflowState) []WorkItem {
	var items []WorkItem

	root.Walk(func(p core.Path, n core.WorkflowState) bool {
		if len(p) == 0 || n.Status != core.StatusFinished || IsBuiltin(n.Agent) {
			return true
		}

		if result, ok := n.Result(); ok {
			items = append(items, WorkItem{Agent: n.Agent, Task: n.Request(), Result: result})
		}

		return true
	})

	return items
}

// SummarizeWork renders completed work for prompts in the localizer's
// language.
func SummarizeWork(loc i18n.Localizer, items []WorkItem) string {
	if len(items) == 0 {
		return loc.T(i18n.PrimerNoWork, nil)
	}

	var b strings.Builder

	b.WriteString(loc.T(i18n.PrimerWorkIntro, nil))
	b.WriteString("\n")

	for _, it := range items {
		b.WriteString("\n")
		b.WriteString(loc.T(i18n.PrimerWorkItem, map[string]any{
			"Agent":  it.Agent,
			"Task":   it.Task,
			"Result": it.Result,
		}))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// requestText is the objective with its expected output shape.
func requestText(sc *StepContext) string {
	request := sc.Root.Request()
	if request == "" && sc.Workflow != nil {
		request = sc.Workflow.Description
	}

	if sc.Workflow != nil && sc.Workflow.Output != "" {
		request += "\n\n" + texts(sc).T(i18n.RequestOutput, map[string]any{"Output": sc.Workflow.Output})
	}

	return request
}

// priorWork keeps the conversational part of the ancestor context; tool
// traffic of other nodes is meaningless without its call/result pairing.
func priorWork(msgs []core.Message) []core.Message {
	out := make([]core.Message, 0, len(msgs))

	for _, m := range msgs {
		if m.IsConversational() {
			out = append(out, m)
		}
	}

	return out
}

// withoutTurn drops the last message of msgs equal to m in role and
// content.
func withoutTurn(msgs []core.Message, m core.Message) []core.Message {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == m.Role && msgs[i].Content == m.Content {
			out := make([]core.Message, 0, len(msgs)-1)
			out = append(out, msgs[:i]...)
			return append(out, msgs[i+1:]...)
		}
	}
	return msgs
}

// assemble builds the provider context in fixed order regardless of tree
// depth:
//
//	system preamble
//	"What has been done so far?"             completed work, ancestor turns
//	"Is there anything else I need to know?" workflow knowledge
//	"What is the request?"                   tail
//
// The root request turn of the ancestors carries the expected output. An
// ancestor turn repeating the first tail message (the delegating parent's
// copy of the task) is sent once.
func assemble(system string, sc *StepContext, tail ...core.Message) []core.Message {
	loc := texts(sc)

	prior := priorWork(sc.Context)
	if len(prior) > 0 && prior[0].Role == core.RoleUser && prior[0].Content == sc.Root.Request() {
		prior[0] = core.UserMessage(requestText(sc))
	}

	if len(tail) > 0 {
		prior = withoutTurn(prior, tail[0])
	}

	knowledge := loc.T(i18n.PrimerNoKnowledge, nil)
	if sc.Workflow != nil && sc.Workflow.Knowledge != "" {
		knowledge = loc.T(i18n.PrimerKnowledge, map[string]any{"Knowledge": sc.Workflow.Knowledge})
	}

	msgs := make([]core.Message, 0, 6+len(prior)+len(tail))
	msgs = append(msgs,
		core.SystemMessage(system),
		core.AssistantMessage(loc.T(i18n.PrimerWorkQuestion, nil)),
		core.UserMessage(SummarizeWork(loc, CompletedWork(sc.Root))),
	)
	msgs = append(msgs, prior...)
	msgs = append(msgs,
		core.AssistantMessage(loc.T(i18n.PrimerKnowledgeQuestion, nil)),
		core.UserMessage(knowledge),
		core.AssistantMessage(loc.T(i18n.PrimerRequestQuestion, nil)),
	)

	return append(msgs, tail...)
}
