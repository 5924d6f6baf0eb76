package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/promptforge/internal/prompts"
)

// CheckRequest applies the request-layer limits: a non-empty base prompt no
// longer than prompts.MaxBasePromptLength and a well-formed sampling config.
func CheckRequest(req ComposeRequest) map[string]string {
	errs := map[string]string{}
	bp := req.BaseConfig.BasePrompt
	if strings.TrimSpace(bp) == "" {
		errs["basePrompt"] = "Base prompt is required"
	} else if utf8.RuneCountInString(bp) > prompts.MaxBasePromptLength {
		errs["basePrompt"] = fmt.Sprintf("Base prompt must be at most %d characters", prompts.MaxBasePromptLength)
	}
	for k, v := range prompts.ValidateSampling(req.VSEnhancement.ToCore()) {
		errs[k] = v
	}
	return errs
}

// ApplySamplingDefaults fills the response count and distribution of an
// enabled sampling config when the request leaves them unset.
func (r *ComposeRequest) ApplySamplingDefaults(numberOfResponses int, distributionType string) {
	vs := r.VSEnhancement
	if vs == nil || !vs.Enabled {
		return
	}
	if vs.NumberOfResponses == 0 {
		vs.NumberOfResponses = numberOfResponses
	}
	if vs.DistributionType == "" {
		vs.DistributionType = distributionType
	}
}
