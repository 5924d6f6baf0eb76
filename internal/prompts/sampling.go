package prompts

import (
	"fmt"
	"strings"
)

// SamplingInstructions pairs a diversity-sampling instruction with the format
// template that matches it. Both halves are always derived from the same config.
type SamplingInstructions struct {
	Instruction string `json:"instruction"`
	Format      string `json:"format"`
}

// BuildSampling renders the instruction and its format template together.
// A disabled config yields the zero value.
func BuildSampling(vs VSEnhancement) SamplingInstructions {
	if !vs.Enabled {
		return SamplingInstructions{}
	}
	return SamplingInstructions{
		Instruction: GenerateVSInstructions(vs),
		Format:      GetVSFormat(vs.DistributionType, vs.IncludeProbabilityReasoning),
	}
}

// Block returns the instruction followed by its format template, or "" when
// there is no instruction.
func (s SamplingInstructions) Block() string {
	if s.Instruction == "" {
		return ""
	}
	return s.Instruction + SamplingFormatHeader + s.Format
}

// GenerateVSInstructions renders the diversity-sampling instruction text.
func GenerateVSInstructions(vs VSEnhancement) string {
	if !vs.Enabled {
		return ""
	}

	var b strings.Builder
	switch vs.DistributionType {
	case RarityHunt:
		fmt.Fprintf(&b, RarityHuntInstruction, vs.NumberOfResponses, vs.ProbabilityThreshold)
	case BalancedCategories:
		// Probability follows the response count, not the number of categories.
		dims := make([]string, 0, len(vs.Dimensions)+len(vs.CustomDimensions))
		dims = append(dims, vs.Dimensions...)
		dims = append(dims, vs.CustomDimensions...)
		fmt.Fprintf(&b, BalancedCategoriesInstruction, vs.NumberOfResponses, equalProbability(vs.NumberOfResponses), strings.Join(dims, ", "))
	default:
		fmt.Fprintf(&b, BroadSpectrumInstruction, vs.NumberOfResponses)
	}

	if vs.IncludeProbabilityReasoning {
		b.WriteString(ProbabilityReasoningSentence)
	}
	if vs.AntiTypicalityEnabled {
		b.WriteString("\n\n")
		b.WriteString(AntiTypicalityParagraph)
	}
	if c := strings.TrimSpace(vs.CustomConstraints); c != "" {
		b.WriteString("\n\n")
		b.WriteString(CustomConstraintsLabel)
		b.WriteString(vs.CustomConstraints)
	}
	return b.String()
}

// GetVSFormat returns the per-response template for a distribution type.
func GetVSFormat(distributionType DistributionType, includeReasoning bool) string {
	if distributionType == BalancedCategories {
		if includeReasoning {
			return CategoryResponseFormatWithReasoning
		}
		return CategoryResponseFormat
	}
	if includeReasoning {
		return ResponseFormatWithReasoning
	}
	return ResponseFormat
}

func equalProbability(n int) float64 {
	if n <= 0 {
		return 0
	}
	return 1 / float64(n)
}
