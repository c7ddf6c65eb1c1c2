package main

import (
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/teamwork/config"
	"github.com/hupe1980/teamwork/logging"
	"github.com/hupe1980/teamwork/model"
	"github.com/hupe1980/teamwork/model/anthropic"
	"github.com/hupe1980/teamwork/model/openai"
)

// newProvider creates the reasoning provider. API keys are read by the
// official clients from OPENAI_API_KEY / ANTHROPIC_API_KEY.
func newProvider(pc config.ProviderConfig, logger logging.Logger) (model.Provider, error) {
	switch pc.Kind {
	case "", config.ProviderOpenAI:
		return openai.NewProvider(func(o *openai.Options) {
			o.Logger = logger
			if pc.Model != "" {
				o.Model = pc.Model
			}
			if pc.Temperature != nil {
				o.Temperature = *pc.Temperature
			}
		}), nil
	case config.ProviderAnthropic:
		return anthropic.NewProvider(func(o *anthropic.Options) {
			o.Logger = logger
			if pc.Model != "" {
				o.Model = anthropicsdk.Model(pc.Model)
			}
			if pc.Temperature != nil {
				o.Temperature = *pc.Temperature
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", pc.Kind)
	}
}
