package prompts

import (
	"fmt"
	"strings"
)

// GenerateAllAdvancedEnhancements renders the five enhancement modules in their
// fixed order (role, format, constraints, reasoning, conversation flow) and
// joins the non-empty results with a blank line.
func GenerateAllAdvancedEnhancements(e AdvancedEnhancements) string {
	return joinNonEmpty("\n\n",
		GenerateRoleEnhancement(e.Role),
		GenerateFormatEnhancement(e.Format),
		GenerateSmartConstraints(e.Constraints),
		GenerateReasoningScaffold(e.Reasoning),
		GenerateConversationFlow(e.Conversation),
	)
}

// GenerateRoleEnhancement renders the role framing. Each role type needs its
// own field; when that field is blank nothing is emitted.
func GenerateRoleEnhancement(r RoleEnhancement) string {
	if !r.Enabled {
		return ""
	}
	switch r.Type {
	case "expert":
		if v := strings.TrimSpace(r.Expertise); v != "" {
			return fmt.Sprintf(ExpertRoleTemplate, v)
		}
	case "persona":
		if v := strings.TrimSpace(r.CustomRole); v != "" {
			return fmt.Sprintf(PersonaRoleTemplate, v)
		}
	case "perspective":
		if v := strings.TrimSpace(r.Perspective); v != "" {
			return fmt.Sprintf(PerspectiveRoleTemplate, v)
		}
	}
	return ""
}

// GenerateFormatEnhancement renders output-format instructions.
func GenerateFormatEnhancement(f FormatEnhancement) string {
	if !f.Enabled {
		return ""
	}
	switch f.Type {
	case "structured":
		var name string
		switch strings.ToLower(f.StructuredFormat) {
		case "yaml":
			name = "YAML"
		case "xml":
			name = "XML"
		default:
			name = "JSON"
		}
		out := fmt.Sprintf(StructuredFormatTemplate, name)
		if f.IncludeExamples {
			out += StructuredExamplesSentence
		}
		return out
	case "markdown":
		return MarkdownFormatInstruction
	case "list":
		return ListFormatInstruction
	case "table":
		return TableFormatInstruction
	case "code":
		return CodeFormatInstruction
	case "custom":
		if v := strings.TrimSpace(f.CustomFormat); v != "" {
			return fmt.Sprintf(CustomFormatTemplate, v)
		}
	}
	return ""
}

// GenerateSmartConstraints renders the six constraint blocks in order:
// length, tone, audience, exclusions, requirements, complexity.
func GenerateSmartConstraints(c SmartConstraints) string {
	if !c.Enabled {
		return ""
	}
	return joinNonEmpty("\n\n",
		lengthBlock(c.Length),
		toneBlock(c.Tone),
		audienceBlock(c.Audience),
		listBlock(ExclusionsHeader, c.Exclusions),
		listBlock(RequirementsHeader, c.Requirements),
		complexityBlock(c.Complexity),
	)
}

func lengthBlock(l LengthConstraint) string {
	if !l.Enabled {
		return ""
	}
	unit := strings.TrimSpace(l.Unit)
	if unit == "" {
		unit = DefaultLengthUnit
	}
	switch {
	case l.Min != nil && l.Max != nil:
		return fmt.Sprintf(BothLengthTemplate, *l.Min, *l.Max, unit)
	case l.Min != nil:
		return fmt.Sprintf(MinLengthTemplate, *l.Min, unit)
	case l.Max != nil:
		return fmt.Sprintf(MaxLengthTemplate, *l.Max, unit)
	}
	return ""
}

func toneBlock(t ToneConstraint) string {
	if !t.Enabled || strings.TrimSpace(t.Tone) == "" {
		return ""
	}
	return fmt.Sprintf(ToneTemplate, strings.TrimSpace(t.Tone))
}

func audienceBlock(a AudienceConstraint) string {
	if !a.Enabled || strings.TrimSpace(a.Audience) == "" {
		return ""
	}
	return fmt.Sprintf(AudienceTemplate, strings.TrimSpace(a.Audience))
}

func listBlock(header string, l ListConstraint) string {
	if !l.Enabled {
		return ""
	}
	var b strings.Builder
	n := 0
	for _, it := range l.Items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if n == 0 {
			b.WriteString(header)
		}
		b.WriteString("\n- ")
		b.WriteString(it)
		n++
	}
	return b.String()
}

func complexityBlock(c ComplexityConstraint) string {
	if !c.Enabled || strings.TrimSpace(c.Level) == "" {
		return ""
	}
	return fmt.Sprintf(ComplexityTemplate, strings.TrimSpace(c.Level))
}

// GenerateReasoningScaffold renders the optional show-your-work sentence, the
// numbered framework for the reasoning type, and any custom framework text.
func GenerateReasoningScaffold(r ReasoningScaffold) string {
	if !r.Enabled {
		return ""
	}
	var parts []string
	if r.ShowWork {
		parts = append(parts, ShowWorkInstruction)
	}
	switch r.Type {
	case "analysis":
		parts = append(parts, AnalysisFramework)
	case "decision":
		parts = append(parts, DecisionFramework)
	case "problem_solving":
		parts = append(parts, ProblemSolvingFramework)
	case "critical_thinking":
		parts = append(parts, CriticalThinkingFramework)
	case "creative":
		parts = append(parts, CreativeFramework)
	}
	if v := strings.TrimSpace(r.CustomFramework); v != "" {
		parts = append(parts, CustomFrameworkHeader+v)
	}
	return strings.Join(parts, "\n\n")
}

// GenerateConversationFlow renders conversation framing. Single-turn flows
// and clarifying flows without permission to clarify emit nothing.
func GenerateConversationFlow(c ConversationFlow) string {
	if !c.Enabled {
		return ""
	}
	var out string
	switch c.Type {
	case "iterative":
		out = IterativeFlowInstruction
	case "clarifying":
		if c.AllowClarification {
			out = ClarifyingFlowInstruction
		}
	case "multi_step":
		out = MultiStepFlowInstruction
	case "collaborative":
		out = CollaborativeFlowInstruction
	}
	if out == "" {
		return ""
	}
	if v := strings.TrimSpace(c.Context); v != "" {
		out += ConversationContextLabel + v
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
