package prompts

import "time"

// Core model types for prompt composition.

// Domain is the user-selected subject area. It only drives system prompt selection.
type Domain string

const (
	DomainWriting      Domain = "Writing & Content"
	DomainCode         Domain = "Code & Development"
	DomainBusiness     Domain = "Business & Strategy"
	DomainEducation    Domain = "Education & Learning"
	DomainCreative     Domain = "Creative Arts"
	DomainData         Domain = "Data & Analysis"
	DomainMarketing    Domain = "Marketing & Sales"
	DomainResearch     Domain = "Research & Science"
	DomainProductivity Domain = "Personal Productivity"
)

// Framework names a prompting pattern. The string values are the keys users
// select and the keys persisted with saved prompts.
type Framework string

const (
	FrameworkRoleBased      Framework = "Role-Based"
	FrameworkChainOfThought Framework = "Chain-of-Thought"
	FrameworkFewShot        Framework = "Few-Shot"
	FrameworkTemplate       Framework = "Template/Fill-in"
	FrameworkConstraint     Framework = "Constraint-Based"
	FrameworkIterative      Framework = "Iterative/Multi-Turn"
	FrameworkComparative    Framework = "Comparative"
	FrameworkGenerative     Framework = "Generative"
	FrameworkAnalytical     Framework = "Analytical"
	FrameworkTransformation Framework = "Transformation"
)

// Frameworks lists every supported framework in display order.
func Frameworks() []Framework {
	return []Framework{
		FrameworkRoleBased,
		FrameworkChainOfThought,
		FrameworkFewShot,
		FrameworkTemplate,
		FrameworkConstraint,
		FrameworkIterative,
		FrameworkComparative,
		FrameworkGenerative,
		FrameworkAnalytical,
		FrameworkTransformation,
	}
}

// BasePromptConfig is the user's foundational input.
type BasePromptConfig struct {
	Domain          Domain
	Framework       Framework // empty means no framework phrasing
	BasePrompt      string
	TargetOutcome   string
	FrameworkConfig FrameworkConfig // may be nil
}

// FrameworkConfig is a sealed union of per-framework settings. Each variant
// carries only the fields its framework reads.
type FrameworkConfig interface {
	framework() Framework
}

// RoleBasedConfig configures the Role-Based framework.
type RoleBasedConfig struct {
	Role string
}

// ChainOfThoughtConfig configures the Chain-of-Thought framework.
// ReasoningStructure is one of "linear" (default), "branching" or "recursive".
type ChainOfThoughtConfig struct {
	ReasoningStructure string
}

// FewShotExample is one input/output demonstration pair.
type FewShotExample struct {
	Input  string
	Output string
}

// FewShotConfig configures the Few-Shot framework.
type FewShotConfig struct {
	Examples []FewShotExample
}

// TemplateConfig configures the Template/Fill-in framework. Keys are placeholder
// names without the surrounding braces.
type TemplateConfig struct {
	Variables map[string]string
}

// ConstraintConfig configures the Constraint-Based framework.
type ConstraintConfig struct {
	Constraints []string
}

// IterativeConfig configures the Iterative/Multi-Turn framework. It has no settings.
type IterativeConfig struct{}

// ComparativeConfig configures the Comparative framework.
type ComparativeConfig struct {
	Criteria []string
}

// GenerativeConfig configures the Generative framework. It has no settings.
type GenerativeConfig struct{}

// AnalyticalConfig configures the Analytical framework.
type AnalyticalConfig struct {
	Depth string
}

// TransformationConfig configures the Transformation framework.
type TransformationConfig struct {
	SourceFormat string
	TargetFormat string
}

func (RoleBasedConfig) framework() Framework      { return FrameworkRoleBased }
func (ChainOfThoughtConfig) framework() Framework { return FrameworkChainOfThought }
func (FewShotConfig) framework() Framework        { return FrameworkFewShot }
func (TemplateConfig) framework() Framework       { return FrameworkTemplate }
func (ConstraintConfig) framework() Framework     { return FrameworkConstraint }
func (IterativeConfig) framework() Framework      { return FrameworkIterative }
func (ComparativeConfig) framework() Framework    { return FrameworkComparative }
func (GenerativeConfig) framework() Framework     { return FrameworkGenerative }
func (AnalyticalConfig) framework() Framework     { return FrameworkAnalytical }
func (TransformationConfig) framework() Framework { return FrameworkTransformation }

// FrameworkOf reports which framework a config variant belongs to. Nil yields "".
func FrameworkOf(cfg FrameworkConfig) Framework {
	if cfg == nil {
		return ""
	}
	return cfg.framework()
}

// DistributionType selects the diversity-sampling strategy.
type DistributionType string

const (
	BroadSpectrum      DistributionType = "broad_spectrum"
	RarityHunt         DistributionType = "rarity_hunt"
	BalancedCategories DistributionType = "balanced_categories"
)

// Sampling defaults used by callers that build a VSEnhancement from scratch.
const (
	DefaultNumberOfResponses = 5
	MinNumberOfResponses     = 1
	MaxNumberOfResponses     = 20
)

// ProbabilityThresholds are the thresholds offered for rarity hunting.
var ProbabilityThresholds = []float64{0.15, 0.10, 0.05}

// VSEnhancement configures verbalized (diversity) sampling.
type VSEnhancement struct {
	Enabled                     bool
	NumberOfResponses           int
	DistributionType            DistributionType
	ProbabilityThreshold        float64
	Dimensions                  []string
	CustomDimensions            []string
	IncludeProbabilityReasoning bool
	AntiTypicalityEnabled       bool
	CustomConstraints           string
}

// DefaultVSEnhancement returns a disabled config with the conventional defaults filled in.
func DefaultVSEnhancement() VSEnhancement {
	return VSEnhancement{
		NumberOfResponses:    DefaultNumberOfResponses,
		DistributionType:     BroadSpectrum,
		ProbabilityThreshold: 0.10,
	}
}

// AdvancedEnhancements groups the five independent enhancement modules.
type AdvancedEnhancements struct {
	Role         RoleEnhancement
	Format       FormatEnhancement
	Constraints  SmartConstraints
	Reasoning    ReasoningScaffold
	Conversation ConversationFlow
}

// RoleEnhancement frames the model as an expert, persona or perspective.
// Type is one of "expert", "persona", "perspective" or "none".
type RoleEnhancement struct {
	Enabled     bool
	Type        string
	Expertise   string
	CustomRole  string
	Perspective string
}

// FormatEnhancement controls the output format.
// Type is one of "structured", "markdown", "list", "table", "code", "custom" or "none".
type FormatEnhancement struct {
	Enabled          bool
	Type             string
	StructuredFormat string // json (default), yaml or xml
	IncludeExamples  bool
	CustomFormat     string
}

// SmartConstraints enumerates response constraints. Each block has its own gate.
type SmartConstraints struct {
	Enabled      bool
	Length       LengthConstraint
	Tone         ToneConstraint
	Audience     AudienceConstraint
	Exclusions   ListConstraint
	Requirements ListConstraint
	Complexity   ComplexityConstraint
}

// LengthConstraint bounds the response length. Nil bounds are absent.
type LengthConstraint struct {
	Enabled bool
	Min     *int
	Max     *int
	Unit    string // defaults to "words"
}

// ToneConstraint sets the response tone.
type ToneConstraint struct {
	Enabled bool
	Tone    string
}

// AudienceConstraint names the target audience.
type AudienceConstraint struct {
	Enabled  bool
	Audience string
}

// ListConstraint is a labeled bullet list (exclusions or requirements).
type ListConstraint struct {
	Enabled bool
	Items   []string
}

// ComplexityConstraint sets the language complexity.
type ComplexityConstraint struct {
	Enabled bool
	Level   string
}

// ReasoningScaffold adds a reasoning framework.
// Type is one of "analysis", "decision", "problem_solving", "critical_thinking",
// "creative" or "none".
type ReasoningScaffold struct {
	Enabled         bool
	Type            string
	ShowWork        bool
	CustomFramework string
}

// ConversationFlow frames the exchange.
// Type is one of "single", "iterative", "clarifying", "multi_step" or "collaborative".
type ConversationFlow struct {
	Enabled            bool
	Type               string
	AllowClarification bool
	Context            string
}

// GeneratedPrompt is the immutable composer output.
type GeneratedPrompt struct {
	FinalPrompt  string   `json:"finalPrompt"`
	SystemPrompt string   `json:"systemPrompt"`
	Metadata     Metadata `json:"metadata"`
}

// Metadata describes how a GeneratedPrompt was produced.
type Metadata struct {
	Domain    string    `json:"domain"`
	Framework string    `json:"framework"`
	VSEnabled bool      `json:"vsEnabled"`
	Timestamp time.Time `json:"timestamp"`
}
