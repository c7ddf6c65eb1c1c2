package agent

import "github.com/hupe1980/teamwork/i18n"

type memberView struct {
	Name        string
	Description string
}

// teamView lists delegable members with their descriptions.
func teamView(w *Workflow) []memberView {
	names := w.Members()
	out := make([]memberView, 0, len(names))

	for _, name := range names {
		out = append(out, memberView{Name: name, Description: w.Team[name].Description()})
	}

	return out
}

// texts returns the localizer for the step's workflow.
func texts(sc *StepContext) i18n.Localizer {
	if sc.Workflow == nil {
		return i18n.For("")
	}
	return sc.Workflow.Texts()
}
