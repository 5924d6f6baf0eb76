package prompts

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedComposer(t time.Time) *Composer {
	return &Composer{Now: func() time.Time { return t }}
}

func enabledSampling() VSEnhancement {
	vs := DefaultVSEnhancement()
	vs.Enabled = true
	return vs
}

func TestComposer_Compose_Deterministic(t *testing.T) {
	base := BasePromptConfig{
		Domain:          DomainCode,
		Framework:       FrameworkChainOfThought,
		BasePrompt:      "Design a rate limiter for a public API",
		TargetOutcome:   "A short design document",
		FrameworkConfig: ChainOfThoughtConfig{ReasoningStructure: "branching"},
	}
	vs := enabledSampling()
	vs.IncludeProbabilityReasoning = true

	first := NewComposer().Compose(base, vs)
	second := NewComposer().Compose(base, vs)

	// Timestamps differ between calls; everything else must not.
	first.Metadata.Timestamp = time.Time{}
	second.Metadata.Timestamp = time.Time{}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("compose not deterministic (-first +second):\n%s", diff)
	}
}

func TestComposer_Compose_Metadata(t *testing.T) {
	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := fixedComposer(stamp)

	got := c.Compose(BasePromptConfig{BasePrompt: "Summarize the article"}, VSEnhancement{})
	assert.Equal(t, Metadata{Domain: "General", Framework: "None", VSEnabled: false, Timestamp: stamp}, got.Metadata)
	assert.Equal(t, DefaultSystemPrompt, got.SystemPrompt)
	assert.Equal(t, "Summarize the article", got.FinalPrompt)

	got = c.Compose(BasePromptConfig{Domain: DomainWriting, Framework: FrameworkGenerative, BasePrompt: "x"}, enabledSampling())
	assert.Equal(t, "Writing & Content", got.Metadata.Domain)
	assert.Equal(t, "Generative", got.Metadata.Framework)
	assert.True(t, got.Metadata.VSEnabled)
	assert.Equal(t, SystemPrompt(DomainWriting), got.SystemPrompt)
}

func TestComposer_Compose_SamplingDisabledLeavesNoTrace(t *testing.T) {
	vs := VSEnhancement{
		Enabled:               false,
		NumberOfResponses:     7,
		DistributionType:      RarityHunt,
		ProbabilityThreshold:  0.05,
		AntiTypicalityEnabled: true,
		CustomConstraints:     "no emojis",
	}
	for _, fw := range append(Frameworks(), "") {
		got := GenerateEnhancedPrompt(BasePromptConfig{Framework: fw, BasePrompt: "Name a new coffee brand"}, vs)
		assert.False(t, got.Metadata.VSEnabled)
		assert.NotContains(t, got.FinalPrompt, "probability", "framework %q", fw)
		assert.NotContains(t, got.FinalPrompt, "Format each response as", "framework %q", fw)
		assert.NotContains(t, got.FinalPrompt, AntiTypicalityParagraph, "framework %q", fw)
		assert.NotContains(t, got.FinalPrompt, "no emojis", "framework %q", fw)
	}
}

func TestComposer_Compose_SamplingBlockAppendedWithFormat(t *testing.T) {
	vs := enabledSampling()
	got := GenerateEnhancedPrompt(BasePromptConfig{BasePrompt: "Suggest a team name"}, vs)

	sampling := BuildSampling(vs)
	assert.Equal(t, "Suggest a team name\n\n"+sampling.Instruction+"\n\nFormat each response as:\n"+sampling.Format, got.FinalPrompt)
}

func TestComposer_Compose_TargetOutcomeAndTrim(t *testing.T) {
	got := GenerateEnhancedPrompt(BasePromptConfig{
		BasePrompt:    "  Write a haiku about autumn\n",
		TargetOutcome: "Three lines, 5-7-5 syllables",
	}, VSEnhancement{})
	assert.Equal(t, "Write a haiku about autumn\n\n\nTarget outcome: Three lines, 5-7-5 syllables", got.FinalPrompt)

	got = GenerateEnhancedPrompt(BasePromptConfig{BasePrompt: "Write a haiku", TargetOutcome: ""}, VSEnhancement{})
	assert.NotContains(t, got.FinalPrompt, "Target outcome")
}

func TestComposer_Compose_TargetOutcomeFollowsSampling(t *testing.T) {
	got := GenerateEnhancedPrompt(BasePromptConfig{
		Framework:     FrameworkRoleBased,
		BasePrompt:    "Pitch a product",
		TargetOutcome: "A one-paragraph pitch",
	}, enabledSampling())

	formatAt := strings.Index(got.FinalPrompt, "Format each response as")
	outcomeAt := strings.Index(got.FinalPrompt, "Target outcome: A one-paragraph pitch")
	require.NotEqual(t, -1, formatAt)
	require.NotEqual(t, -1, outcomeAt)
	assert.Less(t, formatAt, outcomeAt)
	assert.True(t, strings.HasSuffix(got.FinalPrompt, "Target outcome: A one-paragraph pitch"))
}

func TestComposer_Compose_EmptyBasePromptDoesNotFail(t *testing.T) {
	got := GenerateEnhancedPrompt(BasePromptConfig{}, VSEnhancement{})
	assert.Equal(t, "", got.FinalPrompt)

	long := strings.Repeat("a", MaxBasePromptLength+10)
	got = GenerateEnhancedPrompt(BasePromptConfig{BasePrompt: long, Framework: FrameworkTemplate}, VSEnhancement{})
	assert.Equal(t, long, got.FinalPrompt)
}

func TestComposer_Compose_IgnoresAdvancedEnhancements(t *testing.T) {
	base := BasePromptConfig{Framework: FrameworkAnalytical, BasePrompt: "Quarterly sales dropped"}
	got := GenerateEnhancedPrompt(base, VSEnhancement{})
	assert.NotContains(t, got.FinalPrompt, "world-class expert")
	assert.NotContains(t, got.FinalPrompt, AnalysisFramework)
}

func TestAttachEnhancements(t *testing.T) {
	assert.Equal(t, "final", AttachEnhancements("final", ""))
	assert.Equal(t, "enh", AttachEnhancements("", "enh"))
	assert.Equal(t, "enh\n\nfinal", AttachEnhancements("final", "enh"))
}

func TestSystemPrompt_DomainTable(t *testing.T) {
	seen := map[string]Domain{}
	for _, d := range Domains() {
		sp := SystemPrompt(d)
		assert.NotEqual(t, DefaultSystemPrompt, sp, "domain %q", d)
		if prev, dup := seen[sp]; dup {
			t.Fatalf("domains %q and %q share a system prompt", prev, d)
		}
		seen[sp] = d
	}
	assert.Equal(t, DefaultSystemPrompt, SystemPrompt(""))
	assert.Equal(t, DefaultSystemPrompt, SystemPrompt("Underwater Basket Weaving"))
}
