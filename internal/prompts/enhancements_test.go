package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestGenerateAllAdvancedEnhancements_ReasoningOnly(t *testing.T) {
	e := AdvancedEnhancements{
		Reasoning: ReasoningScaffold{Enabled: true, Type: "analysis", ShowWork: true},
		// Populated but disabled modules must stay silent.
		Role:         RoleEnhancement{Type: "expert", Expertise: "law"},
		Format:       FormatEnhancement{Type: "markdown"},
		Constraints:  SmartConstraints{Tone: ToneConstraint{Enabled: true, Tone: "formal"}},
		Conversation: ConversationFlow{Type: "iterative"},
	}
	out := GenerateAllAdvancedEnhancements(e)

	assert.Equal(t, ShowWorkInstruction+"\n\n"+AnalysisFramework, out)
	assert.Contains(t, out, "1. Break the problem down")
	assert.Contains(t, out, "4. Synthesize your findings")
	assert.NotContains(t, out, "expert")
	assert.NotContains(t, out, "Markdown")
	assert.NotContains(t, out, "tone")
	assert.NotContains(t, out, "conversation")
}

func TestGenerateAllAdvancedEnhancements_FixedOrder(t *testing.T) {
	e := AdvancedEnhancements{
		Role:         RoleEnhancement{Enabled: true, Type: "expert", Expertise: "astronomy"},
		Format:       FormatEnhancement{Enabled: true, Type: "list"},
		Constraints:  SmartConstraints{Enabled: true, Tone: ToneConstraint{Enabled: true, Tone: "friendly"}},
		Reasoning:    ReasoningScaffold{Enabled: true, Type: "creative"},
		Conversation: ConversationFlow{Enabled: true, Type: "collaborative"},
	}
	want := strings.Join([]string{
		fmt.Sprintf(ExpertRoleTemplate, "astronomy"),
		ListFormatInstruction,
		"Use a friendly tone.",
		CreativeFramework,
		CollaborativeFlowInstruction,
	}, "\n\n")
	assert.Equal(t, want, GenerateAllAdvancedEnhancements(e))
}

func TestGenerateAllAdvancedEnhancements_NothingEnabled(t *testing.T) {
	assert.Equal(t, "", GenerateAllAdvancedEnhancements(AdvancedEnhancements{}))
}

func TestGenerateRoleEnhancement(t *testing.T) {
	tests := []struct {
		name string
		in   RoleEnhancement
		want string
	}{
		{"disabled", RoleEnhancement{Type: "expert", Expertise: "law"}, ""},
		{"expert", RoleEnhancement{Enabled: true, Type: "expert", Expertise: "law"}, fmt.Sprintf(ExpertRoleTemplate, "law")},
		{"expert missing field", RoleEnhancement{Enabled: true, Type: "expert", CustomRole: "a pirate"}, ""},
		{"persona", RoleEnhancement{Enabled: true, Type: "persona", CustomRole: "a pirate"}, fmt.Sprintf(PersonaRoleTemplate, "a pirate")},
		{"persona missing field", RoleEnhancement{Enabled: true, Type: "persona", Expertise: "law"}, ""},
		{"perspective", RoleEnhancement{Enabled: true, Type: "perspective", Perspective: "a regulator"}, fmt.Sprintf(PerspectiveRoleTemplate, "a regulator")},
		{"perspective blank", RoleEnhancement{Enabled: true, Type: "perspective", Perspective: "  "}, ""},
		{"none", RoleEnhancement{Enabled: true, Type: "none", Expertise: "law"}, ""},
		{"unknown", RoleEnhancement{Enabled: true, Type: "mentor", Expertise: "law"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateRoleEnhancement(tt.in))
		})
	}
}

func TestGenerateFormatEnhancement(t *testing.T) {
	tests := []struct {
		name string
		in   FormatEnhancement
		want string
	}{
		{"disabled", FormatEnhancement{Type: "markdown"}, ""},
		{"structured default json", FormatEnhancement{Enabled: true, Type: "structured"}, fmt.Sprintf(StructuredFormatTemplate, "JSON")},
		{"structured yaml", FormatEnhancement{Enabled: true, Type: "structured", StructuredFormat: "yaml"}, fmt.Sprintf(StructuredFormatTemplate, "YAML")},
		{"structured xml with examples", FormatEnhancement{Enabled: true, Type: "structured", StructuredFormat: "xml", IncludeExamples: true},
			fmt.Sprintf(StructuredFormatTemplate, "XML") + StructuredExamplesSentence},
		{"structured unknown nested", FormatEnhancement{Enabled: true, Type: "structured", StructuredFormat: "toml"}, fmt.Sprintf(StructuredFormatTemplate, "JSON")},
		{"markdown", FormatEnhancement{Enabled: true, Type: "markdown"}, MarkdownFormatInstruction},
		{"list", FormatEnhancement{Enabled: true, Type: "list"}, ListFormatInstruction},
		{"table", FormatEnhancement{Enabled: true, Type: "table"}, TableFormatInstruction},
		{"code", FormatEnhancement{Enabled: true, Type: "code"}, CodeFormatInstruction},
		{"custom", FormatEnhancement{Enabled: true, Type: "custom", CustomFormat: "a haiku"}, fmt.Sprintf(CustomFormatTemplate, "a haiku")},
		{"custom missing", FormatEnhancement{Enabled: true, Type: "custom"}, ""},
		{"none", FormatEnhancement{Enabled: true, Type: "none"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateFormatEnhancement(tt.in))
		})
	}
}

func TestGenerateSmartConstraints_Length(t *testing.T) {
	enabled := func(l LengthConstraint) SmartConstraints {
		l.Enabled = true
		return SmartConstraints{Enabled: true, Length: l}
	}
	assert.Equal(t, "Your response must be at least 100 words long.", GenerateSmartConstraints(enabled(LengthConstraint{Min: intPtr(100)})))
	assert.Equal(t, "Keep your response under 3 paragraphs.", GenerateSmartConstraints(enabled(LengthConstraint{Max: intPtr(3), Unit: "paragraphs"})))
	assert.Equal(t, "Your response must be between 50 and 80 words long.", GenerateSmartConstraints(enabled(LengthConstraint{Min: intPtr(50), Max: intPtr(80)})))
	assert.Equal(t, "", GenerateSmartConstraints(enabled(LengthConstraint{Unit: "words"})))
}

func TestGenerateSmartConstraints_AllBlocksInOrder(t *testing.T) {
	c := SmartConstraints{
		Enabled:      true,
		Length:       LengthConstraint{Enabled: true, Max: intPtr(200)},
		Tone:         ToneConstraint{Enabled: true, Tone: "neutral"},
		Audience:     AudienceConstraint{Enabled: true, Audience: "new engineers"},
		Exclusions:   ListConstraint{Enabled: true, Items: []string{"marketing speak", ""}},
		Requirements: ListConstraint{Enabled: true, Items: []string{"a summary", "next steps"}},
		Complexity:   ComplexityConstraint{Enabled: true, Level: "intermediate"},
	}
	want := "Keep your response under 200 words." +
		"\n\nUse a neutral tone." +
		"\n\nTailor your response for new engineers." +
		"\n\n" + ExclusionsHeader + "\n- marketing speak" +
		"\n\n" + RequirementsHeader + "\n- a summary\n- next steps" +
		"\n\nPitch the complexity of your language at a intermediate level."
	assert.Equal(t, want, GenerateSmartConstraints(c))

	c.Enabled = false
	assert.Equal(t, "", GenerateSmartConstraints(c))
}

func TestGenerateSmartConstraints_EmptyListsAreSilent(t *testing.T) {
	c := SmartConstraints{
		Enabled:      true,
		Exclusions:   ListConstraint{Enabled: true},
		Requirements: ListConstraint{Enabled: true, Items: []string{" ", ""}},
		Tone:         ToneConstraint{Enabled: true},
	}
	assert.Equal(t, "", GenerateSmartConstraints(c))
}

func TestGenerateReasoningScaffold(t *testing.T) {
	assert.Equal(t, "", GenerateReasoningScaffold(ReasoningScaffold{Type: "analysis", ShowWork: true}))
	assert.Equal(t, DecisionFramework, GenerateReasoningScaffold(ReasoningScaffold{Enabled: true, Type: "decision"}))
	assert.Equal(t, ProblemSolvingFramework, GenerateReasoningScaffold(ReasoningScaffold{Enabled: true, Type: "problem_solving"}))
	assert.Equal(t, CriticalThinkingFramework, GenerateReasoningScaffold(ReasoningScaffold{Enabled: true, Type: "critical_thinking"}))
	assert.Equal(t, ShowWorkInstruction, GenerateReasoningScaffold(ReasoningScaffold{Enabled: true, Type: "intuition", ShowWork: true}))

	out := GenerateReasoningScaffold(ReasoningScaffold{Enabled: true, Type: "decision", CustomFramework: "Consider the budget first"})
	assert.Equal(t, DecisionFramework+"\n\n"+CustomFrameworkHeader+"Consider the budget first", out)
}

func TestGenerateConversationFlow(t *testing.T) {
	tests := []struct {
		name string
		in   ConversationFlow
		want string
	}{
		{"disabled", ConversationFlow{Type: "iterative"}, ""},
		{"single", ConversationFlow{Enabled: true, Type: "single", Context: "ongoing chat"}, ""},
		{"iterative", ConversationFlow{Enabled: true, Type: "iterative"}, IterativeFlowInstruction},
		{"iterative with context", ConversationFlow{Enabled: true, Type: "iterative", Context: "second draft"},
			IterativeFlowInstruction + ConversationContextLabel + "second draft"},
		{"clarifying allowed", ConversationFlow{Enabled: true, Type: "clarifying", AllowClarification: true}, ClarifyingFlowInstruction},
		{"clarifying not allowed", ConversationFlow{Enabled: true, Type: "clarifying", Context: "x"}, ""},
		{"multi step", ConversationFlow{Enabled: true, Type: "multi_step"}, MultiStepFlowInstruction},
		{"collaborative", ConversationFlow{Enabled: true, Type: "collaborative"}, CollaborativeFlowInstruction},
		{"unknown", ConversationFlow{Enabled: true, Type: "debate"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateConversationFlow(tt.in))
		})
	}
}
