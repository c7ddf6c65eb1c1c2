// Package config loads declarative workflow definitions.
//
// A workflow file names the objective, the team and the reasoning provider:
//
//	description: Summarize https://example.com
//	output: A three sentence summary
//	max_iterations: 20
//	locale: de
//	provider:
//	  kind: openai
//	  model: gpt-4o-mini
//	team:
//	  websiteAnalyzer:
//	    description: Fetches and analyzes web pages
//	    tools: [fetch]
//
// Tools are referenced by name and bound to implementations by the caller
// when the workflow is built.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hupe1980/teamwork/agent"
	"github.com/hupe1980/teamwork/model"
	"github.com/hupe1980/teamwork/tool"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Provider kinds understood by the CLI.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid workflow file")

// ProviderConfig selects the reasoning provider.
type ProviderConfig struct {
	Kind        string   `yaml:"kind" json:"kind"`
	Model       string   `yaml:"model,omitempty" json:"model,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
}

// MemberConfig declares one team member.
type MemberConfig struct {
	Description string   `yaml:"description" json:"description"`
	Instruction string   `yaml:"instruction,omitempty" json:"instruction,omitempty"`
	Tools       []string `yaml:"tools,omitempty" json:"tools,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
}

// File is the on-disk workflow definition.
type File struct {
	Description   string                  `yaml:"description" json:"description"`
	Output        string                  `yaml:"output,omitempty" json:"output,omitempty"`
	Knowledge     string                  `yaml:"knowledge,omitempty" json:"knowledge,omitempty"`
	Locale        string                  `yaml:"locale,omitempty" json:"locale,omitempty"`
	MaxIterations *int                    `yaml:"max_iterations,omitempty" json:"max_iterations,omitempty"`
	Temperature   *float64                `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	Provider      ProviderConfig          `yaml:"provider" json:"provider"`
	Team          map[string]MemberConfig `yaml:"team" json:"team"`
}

// Load reads and validates a workflow file. The format is detected from the
// extension (.yaml, .yml or .json).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}

	var f *File

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err = Parse(data)
	case ".json":
		f, err = parseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}

	if err != nil {
		return nil, err
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f, nil
}

// Parse decodes a YAML workflow definition. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	var f File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &f, nil
}

func parseJSON(data []byte) (*File, error) {
	var f File

	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}

	return &f, nil
}

// Validate checks the definition without resolving tools.
func (f *File) Validate() error {
	var errs []error

	if strings.TrimSpace(f.Description) == "" {
		errs = append(errs, errors.New("description is required"))
	}

	if f.MaxIterations != nil && *f.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("max_iterations must not be negative, got %d", *f.MaxIterations))
	}

	if f.Locale != "" {
		if _, err := language.Parse(f.Locale); err != nil {
			errs = append(errs, fmt.Errorf("locale %q: %w", f.Locale, err))
		}
	}

	switch f.Provider.Kind {
	case "", ProviderOpenAI, ProviderAnthropic:
	default:
		errs = append(errs, fmt.Errorf("unknown provider kind %q", f.Provider.Kind))
	}

	if len(f.Team) == 0 {
		errs = append(errs, errors.New("team must have at least one member"))
	}

	for _, name := range f.MemberNames() {
		m := f.Team[name]

		if agent.IsBuiltin(name) {
			errs = append(errs, fmt.Errorf("team member %q: name is reserved", name))
		}

		if strings.TrimSpace(m.Description) == "" {
			errs = append(errs, fmt.Errorf("team member %q: description is required", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}

	return nil
}

// MemberNames returns the sorted team member names.
func (f *File) MemberNames() []string {
	names := make([]string, 0, len(f.Team))
	for name := range f.Team {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ToolNames returns the sorted, de-duplicated names of all referenced tools.
func (f *File) ToolNames() []string {
	seen := map[string]bool{}

	var names []string

	for _, m := range f.Team {
		for _, t := range m.Tools {
			if !seen[t] {
				seen[t] = true
				names = append(names, t)
			}
		}
	}

	sort.Strings(names)

	return names
}

// Build turns the definition into a workflow. Tool names are resolved
// against registry; an unknown name is an error.
func (f *File) Build(provider model.Provider, registry map[string]tool.Tool) (*agent.Workflow, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	team := make(map[string]agent.Agent, len(f.Team))

	for _, name := range f.MemberNames() {
		m := f.Team[name]

		tools := make(map[string]tool.Tool, len(m.Tools))

		for _, tn := range m.Tools {
			t, ok := registry[tn]
			if !ok {
				return nil, fmt.Errorf("%w: team member %q: unknown tool %q", ErrInvalid, name, tn)
			}

			tools[tn] = t
		}

		team[name] = agent.NewModelAgent(m.Description, func(o *agent.ModelAgentOptions) {
			o.Tools = tools
			o.Temperature = m.Temperature

			if m.Instruction != "" {
				o.Instruction = agent.NewInstructionFromText(m.Instruction)
			}
		})
	}

	return agent.NewWorkflow(provider, f.Description, func(o *agent.Workflow) {
		o.Team = team
		o.Output = f.Output
		o.Knowledge = f.Knowledge
		o.Locale = f.Locale
		o.Temperature = f.Temperature

		if f.Temperature == nil {
			o.Temperature = f.Provider.Temperature
		}

		if f.MaxIterations != nil {
			o.MaxIterations = *f.MaxIterations
		}
	}), nil
}
