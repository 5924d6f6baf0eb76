package prompts

import (
	"fmt"
	"strings"
)

// GenerateFrameworkPrompt wraps basePrompt in the phrasing of the selected
// framework. samplingBlock, when non-empty, is appended verbatim after the
// wrapped text. Settings that belong to a different framework are ignored.
// An unknown or empty framework concatenates basePrompt and samplingBlock.
func GenerateFrameworkPrompt(fw Framework, cfg FrameworkConfig, basePrompt, samplingBlock string) string {
	var body string
	switch fw {
	case FrameworkRoleBased:
		c, _ := cfg.(RoleBasedConfig)
		body = renderRoleBased(c, basePrompt)
	case FrameworkChainOfThought:
		c, _ := cfg.(ChainOfThoughtConfig)
		body = renderChainOfThought(c, basePrompt)
	case FrameworkFewShot:
		c, _ := cfg.(FewShotConfig)
		body = renderFewShot(c, basePrompt)
	case FrameworkTemplate:
		c, _ := cfg.(TemplateConfig)
		body = SubstituteVariables(basePrompt, c.Variables)
	case FrameworkConstraint:
		c, _ := cfg.(ConstraintConfig)
		body = renderBulletSection(basePrompt, ConstraintsHeader, c.Constraints)
	case FrameworkIterative:
		body = basePrompt + "\n\n" + IterativeInstructions
	case FrameworkComparative:
		c, _ := cfg.(ComparativeConfig)
		body = renderBulletSection(ComparativeIntro+"\n\n"+basePrompt, ComparisonCriteriaHeader, c.Criteria)
	case FrameworkGenerative:
		body = basePrompt + "\n\n" + GenerativeInstructions
	case FrameworkAnalytical:
		c, _ := cfg.(AnalyticalConfig)
		body = renderAnalytical(c, basePrompt)
	case FrameworkTransformation:
		c, _ := cfg.(TransformationConfig)
		body = renderTransformation(c, basePrompt)
	default:
		body = basePrompt
	}
	return appendBlock(body, samplingBlock)
}

func appendBlock(body, block string) string {
	if block == "" {
		return body
	}
	return body + "\n\n" + block
}

func renderRoleBased(c RoleBasedConfig, base string) string {
	role := strings.TrimSpace(c.Role)
	if role == "" {
		role = DefaultRole
	}
	return fmt.Sprintf("You are %s.\n\n%s", role, base)
}

func renderChainOfThought(c ChainOfThoughtConfig, base string) string {
	steps := LinearReasoningSteps
	switch c.ReasoningStructure {
	case "branching":
		steps = BranchingReasoningSteps
	case "recursive":
		steps = RecursiveReasoningSteps
	}
	return base + "\n\n" + ChainOfThoughtIntro + "\n" + steps
}

func renderFewShot(c FewShotConfig, base string) string {
	if len(c.Examples) == 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(FewShotIntro)
	for i, ex := range c.Examples {
		fmt.Fprintf(&b, "\n\nExample %d:\nInput: %s\nOutput: %s", i+1, ex.Input, ex.Output)
	}
	b.WriteString("\n\n")
	b.WriteString(FewShotLeadIn)
	b.WriteString("\n")
	b.WriteString(base)
	return b.String()
}

// renderBulletSection appends a labeled "- item" list, skipping blank items.
// With no items the text is returned unchanged.
func renderBulletSection(text, header string, items []string) string {
	var lines []string
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			continue
		}
		lines = append(lines, "- "+it)
	}
	if len(lines) == 0 {
		return text
	}
	return text + "\n\n" + header + "\n" + strings.Join(lines, "\n")
}

func renderAnalytical(c AnalyticalConfig, base string) string {
	depth := strings.TrimSpace(c.Depth)
	if depth == "" {
		depth = DefaultAnalysisDepth
	}
	return fmt.Sprintf("Perform a %s analysis of the following:\n\n%s\n\n%s", depth, base, AnalyticalInstructions)
}

func renderTransformation(c TransformationConfig, base string) string {
	src := strings.TrimSpace(c.SourceFormat)
	if src == "" {
		src = DefaultSourceFormat
	}
	dst := strings.TrimSpace(c.TargetFormat)
	if dst == "" {
		dst = DefaultTargetFormat
	}
	return fmt.Sprintf("Transform the following from %s to %s:\n\n%s", src, dst, base)
}
