package prompts

import (
	"strings"
	"time"
)

// Composer turns a base config and sampling settings into a GeneratedPrompt.
type Composer struct {
	// Now stamps the metadata; it is the only input that is not part of the config.
	Now func() time.Time
}

// NewComposer creates a composer that stamps results with the current UTC time.
func NewComposer() *Composer {
	return &Composer{Now: func() time.Time { return time.Now().UTC() }}
}

var defaultComposer = NewComposer()

// GenerateEnhancedPrompt composes with the default composer.
func GenerateEnhancedPrompt(base BasePromptConfig, vs VSEnhancement) GeneratedPrompt {
	return defaultComposer.Compose(base, vs)
}

// Compose renders the final prompt:
//  1. diversity-sampling instruction plus its format template (when enabled)
//  2. framework rendering around the base prompt, or plain concatenation
//  3. the target outcome clause (when set)
//
// Advanced enhancements are not applied here; see AttachEnhancements.
func (c *Composer) Compose(base BasePromptConfig, vs VSEnhancement) GeneratedPrompt {
	block := BuildSampling(vs).Block()

	var final string
	if base.Framework != "" {
		final = GenerateFrameworkPrompt(base.Framework, base.FrameworkConfig, base.BasePrompt, block)
	} else {
		final = appendBlock(base.BasePrompt, block)
	}

	if base.TargetOutcome != "" {
		final += TargetOutcomeLabel + base.TargetOutcome
	}

	domain := string(base.Domain)
	if domain == "" {
		domain = "General"
	}
	framework := string(base.Framework)
	if framework == "" {
		framework = "None"
	}

	return GeneratedPrompt{
		FinalPrompt:  strings.TrimSpace(final),
		SystemPrompt: SystemPrompt(base.Domain),
		Metadata: Metadata{
			Domain:    domain,
			Framework: framework,
			VSEnabled: vs.Enabled,
			Timestamp: c.now(),
		},
	}
}

func (c *Composer) now() time.Time {
	if c == nil || c.Now == nil {
		return time.Now().UTC()
	}
	return c.Now()
}

// AttachEnhancements places an advanced-enhancements block ahead of a composed
// prompt. Either side may be empty.
func AttachEnhancements(finalPrompt, enhancements string) string {
	switch {
	case enhancements == "":
		return finalPrompt
	case finalPrompt == "":
		return enhancements
	}
	return enhancements + "\n\n" + finalPrompt
}
