package agent

import (
	"github.com/hupe1980/teamwork/internal/util"
	"github.com/hupe1980/teamwork/model"
)

// Discriminator values of the step response.
const (
	kindStep  = "step"
	kindError = "error"
)

// stepResponse is the discriminated result of a ModelAgent step: either a
// step object or an error object (only "reasoning" is meaningful then).
type stepResponse struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Result      string `json:"result"`
	Reasoning   string `json:"reasoning"`
	NextStep    string `json:"next_step"`
	HasNextStep bool   `json:"has_next_step"`
}

type taskResponse struct {
	Task      string `json:"task"`
	Reasoning string `json:"reasoning"`
}

type selectionResponse struct {
	Agent     string `json:"agent"`
	Reasoning string `json:"reasoning"`
}

type finalResponse struct {
	Result string `json:"result"`
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

// StepFormat is the response format requested by ModelAgent.
func StepFormat() *model.ResponseFormat {
	return &model.ResponseFormat{
		Name:        "step_result",
		Description: "Outcome of one step: kind \"step\" with the result, or kind \"error\" with the reasoning.",
		Schema: util.StrictObject(map[string]any{
			"kind": map[string]any{
				"type":        "string",
				"enum":        []string{kindStep, kindError},
				"description": "step when the step produced a result, error when the task cannot be completed",
			},
			"name":          stringProp("Name of the agent answering"),
			"result":        stringProp("Outcome of this step"),
			"reasoning":     stringProp("Why this outcome was chosen"),
			"next_step":     stringProp("What to do next when has_next_step is true"),
			"has_next_step": map[string]any{"type": "boolean", "description": "Whether more steps are required"},
		}),
	}
}

// kindSchema checks the discriminator shared by both step response shapes.
// An error object needs nothing but its reasoning.
func kindSchema() map[string]any {
	return util.StrictObject(map[string]any{
		"kind":      map[string]any{"type": "string", "enum": []string{kindStep, kindError}},
		"reasoning": stringProp("Why this outcome was chosen"),
	})
}

// TaskFormat is the response format requested by the Supervisor.
func TaskFormat() *model.ResponseFormat {
	return &model.ResponseFormat{
		Name:        "supervisor_task",
		Description: "The next task to delegate, empty when the request is complete.",
		Schema: util.StrictObject(map[string]any{
			"task":      stringProp("The next task, or an empty string when done"),
			"reasoning": stringProp("Why this task is next"),
		}),
	}
}

// SelectionFormat is the response format requested by the ResourcePlanner.
func SelectionFormat(members []string) *model.ResponseFormat {
	agentProp := stringProp("Name of the chosen team member")
	if len(members) > 0 {
		agentProp["enum"] = members
	}

	return &model.ResponseFormat{
		Name:        "agent_selection",
		Description: "The team member chosen for the task.",
		Schema: util.StrictObject(map[string]any{
			"agent":     agentProp,
			"reasoning": stringProp("Why this member fits the task"),
		}),
	}
}

// FinalFormat is the response format requested by the FinalBoss.
func FinalFormat() *model.ResponseFormat {
	return &model.ResponseFormat{
		Name:        "final_answer",
		Description: "The synthesized final answer.",
		Schema: util.StrictObject(map[string]any{
			"result": stringProp("The final answer to the request"),
		}),
	}
}
