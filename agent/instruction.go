package agent

import "github.com/hupe1980/teamwork/internal/util"

// InstructionProvider supplies dynamic instruction text at runtime.
// Implementations can derive instructions from the tree, the workflow, etc.
type InstructionProvider interface {
	Instruction(*StepContext) (string, error)
}

// InstructionFunc is a functional adapter to allow ordinary functions to be
// used as InstructionProviders.
type InstructionFunc func(*StepContext) (string, error)

// Instruction implements InstructionProvider.
func (f InstructionFunc) Instruction(sc *StepContext) (string, error) { return f(sc) }

// Instruction represents either a static instruction template or a dynamic provider.
// This mirrors a union of string | provider in a Go-idiomatic way.
type Instruction struct {
	text     string
	provider InstructionProvider
}

// NewInstructionFromText creates an Instruction from a static template. The
// template may reference {{.Description}}, {{.Output}}, {{.Knowledge}},
// {{.Agent}} and {{.Task}}.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p InstructionProvider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(*StepContext) (string, error)) Instruction {
	return Instruction{provider: InstructionFunc(f)}
}

// IsStatic returns true if the instruction is backed by a static template.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// IsZero reports whether no instruction was configured.
func (i Instruction) IsZero() bool { return i.provider == nil && i.text == "" }

// Resolve returns the instruction text, invoking the provider if needed.
func (i Instruction) Resolve(sc *StepContext) (string, error) {
	if i.provider != nil {
		return i.provider.Instruction(sc)
	}

	return util.RenderTemplate(i.text, templateData(sc))
}

// templateData exposes the step to prompt templates.
func templateData(sc *StepContext) map[string]any {
	data := map[string]any{
		"Agent": sc.Node.Agent,
		"Task":  sc.Node.Request(),
	}

	if w := sc.Workflow; w != nil {
		data["Description"] = w.Description
		data["Output"] = w.Output
		data["Knowledge"] = w.Knowledge
		data["Members"] = w.Members()
	}

	return data
}
