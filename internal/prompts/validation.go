package prompts

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Length limits. The request layer accepts up to MaxBasePromptLength while
// ValidatePromptConfig flags anything above MaxValidatedPromptLength; the two
// are intentionally separate values.
const (
	MaxBasePromptLength      = 50000
	MaxValidatedPromptLength = 10000
)

// ValidatePromptConfig returns field-keyed messages for problems in base.
// An empty map means the config is valid.
func ValidatePromptConfig(base BasePromptConfig) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(base.BasePrompt) == "" {
		errs["basePrompt"] = "Base prompt is required"
	} else if utf8.RuneCountInString(base.BasePrompt) > MaxValidatedPromptLength {
		errs["basePrompt"] = "Base prompt must be less than 10,000 characters"
	}

	if base.Framework == FrameworkFewShot {
		c, _ := base.FrameworkConfig.(FewShotConfig)
		if len(c.Examples) == 0 {
			errs["examples"] = "At least one example is required for Few-Shot prompts"
		}
	}

	return errs
}

// ValidateSampling checks the numeric ranges of a sampling config. Disabled
// configs are always valid.
func ValidateSampling(vs VSEnhancement) map[string]string {
	errs := map[string]string{}
	if !vs.Enabled {
		return errs
	}
	if vs.NumberOfResponses < MinNumberOfResponses || vs.NumberOfResponses > MaxNumberOfResponses {
		errs["numberOfResponses"] = fmt.Sprintf("Number of responses must be between %d and %d", MinNumberOfResponses, MaxNumberOfResponses)
	}
	switch vs.DistributionType {
	case BroadSpectrum, BalancedCategories:
	case RarityHunt:
		ok := false
		for _, t := range ProbabilityThresholds {
			if vs.ProbabilityThreshold == t {
				ok = true
				break
			}
		}
		if !ok {
			errs["probabilityThreshold"] = "Probability threshold must be one of 0.15, 0.10 or 0.05"
		}
	default:
		errs["distributionType"] = fmt.Sprintf("Unknown distribution type %q", vs.DistributionType)
	}
	return errs
}

// QualityReport is the heuristic assessment of a prompt.
type QualityReport struct {
	Score     int      `json:"score"`
	Issues    []string `json:"issues"`
	Strengths []string `json:"strengths"`
}

// Quality heuristics
const (
	minQualityLength = 50
	maxQualityLength = 5000

	shortPenalty     = 20
	longPenalty      = 10
	directivePenalty = 10
	structurePenalty = 5
	maxQualityScore  = 100
	minQualityScore  = 0
)

var (
	directiveKeywords   = []string{"please", "should", "must", "ensure", "include"}
	requirementKeywords = []string{"format", "include", "avoid"}
	roleKeywords        = []string{"you are", "assume", "role"}
	structureMarkers    = []string{"\n", "- ", "* ", "• "}
)

// ValidatePromptQuality scores a prompt starting from 100.
func ValidatePromptQuality(prompt string) QualityReport {
	report := QualityReport{Score: maxQualityScore, Issues: []string{}, Strengths: []string{}}
	lower := strings.ToLower(prompt)
	n := utf8.RuneCountInString(prompt)

	switch {
	case n < minQualityLength:
		report.Issues = append(report.Issues, "Prompt is too short; add more context and detail")
		report.Score -= shortPenalty
	case n > maxQualityLength:
		report.Issues = append(report.Issues, "Prompt is very long; consider making it more concise")
		report.Score -= longPenalty
	}

	if containsAny(lower, directiveKeywords) {
		report.Strengths = append(report.Strengths, "Uses clear directive language")
	} else {
		report.Issues = append(report.Issues, "Consider using directive language such as 'must', 'should' or 'ensure'")
		report.Score -= directivePenalty
	}

	if containsAny(prompt, structureMarkers) {
		report.Strengths = append(report.Strengths, "Well structured with line breaks or bullet points")
	} else {
		report.Issues = append(report.Issues, "Consider adding structure with line breaks or bullet points")
		report.Score -= structurePenalty
	}

	if containsAny(lower, requirementKeywords) {
		report.Strengths = append(report.Strengths, "Specifies output requirements or constraints")
	}
	if containsAny(lower, roleKeywords) {
		report.Strengths = append(report.Strengths, "Defines a role or perspective")
	}

	if report.Score < minQualityScore {
		report.Score = minQualityScore
	}
	if report.Score > maxQualityScore {
		report.Score = maxQualityScore
	}
	return report
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
