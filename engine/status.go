package engine

import (
	"strings"

	"github.com/hupe1980/teamwork/agent"
	"github.com/hupe1980/teamwork/core"
	"github.com/hupe1980/teamwork/i18n"
)

// StatusText describes what node is doing in the localizer's language,
// e.g. "Working on: summarize the page" or "Waiting for tools: fetch".
func StatusText(loc i18n.Localizer, node core.WorkflowState) string {
	switch node.Agent {
	case agent.SupervisorName:
		return loc.T(i18n.StatusSupervisor, nil)
	case agent.ResourcePlannerName:
		return loc.T(i18n.StatusPlanner, nil)
	}

	var last core.Message
	if n := len(node.Messages); n > 0 {
		last = node.Messages[n-1]
	}

	switch node.Status {
	case core.StatusPaused:
		if !last.HasToolCalls() {
			return loc.T(i18n.StatusPaused, nil)
		}

		names := make([]string, 0, len(last.ToolCalls))
		for _, call := range last.ToolCalls {
			names = append(names, call.Name)
		}

		return loc.T(i18n.StatusWaiting, map[string]any{"Tools": strings.Join(names, ", ")})
	case core.StatusFinished:
		return loc.T(i18n.StatusDone, nil)
	case core.StatusFailed:
		return loc.T(i18n.StatusFailed, nil)
	}

	if last.Role == core.RoleTool {
		return loc.T(i18n.StatusToolResponse, nil)
	}

	return loc.T(i18n.StatusWorking, map[string]any{"Content": last.Content})
}
