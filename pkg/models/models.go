package models

import (
	"encoding/json"
	"time"

	"github.com/promptforge/internal/prompts"
)

// Compose request models. Field names follow the JSON the editor sends.

// FewShotExample is one input/output pair.
type FewShotExample struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// FrameworkConfig is the loose per-framework settings bag. Only the fields
// relevant to the selected framework survive conversion.
type FrameworkConfig struct {
	Role               string            `json:"role,omitempty"`
	ReasoningStructure string            `json:"reasoningStructure,omitempty"`
	FewShotExamples    []FewShotExample  `json:"fewShotExamples,omitempty"`
	TemplateVariables  map[string]string `json:"templateVariables,omitempty"`
	Constraints        []string          `json:"constraints,omitempty"`
	ComparisonCriteria []string          `json:"comparisonCriteria,omitempty"`
	SourceFormat       string            `json:"sourceFormat,omitempty"`
	TargetFormat       string            `json:"targetFormat,omitempty"`
	AnalysisDepth      string            `json:"analysisDepth,omitempty"`
}

// BasePromptConfig is the user's foundational input.
type BasePromptConfig struct {
	Domain          string           `json:"domain,omitempty"`
	Framework       string           `json:"framework,omitempty"`
	BasePrompt      string           `json:"basePrompt"`
	TargetOutcome   string           `json:"targetOutcome,omitempty"`
	FrameworkConfig *FrameworkConfig `json:"frameworkConfig,omitempty"`
}

// VSEnhancement is the diversity-sampling config.
type VSEnhancement struct {
	Enabled                     bool     `json:"enabled"`
	NumberOfResponses           int      `json:"numberOfResponses"`
	DistributionType            string   `json:"distributionType"`
	ProbabilityThreshold        float64  `json:"probabilityThreshold"`
	Dimensions                  []string `json:"dimensions,omitempty"`
	CustomDimensions            []string `json:"customDimensions,omitempty"`
	IncludeProbabilityReasoning bool     `json:"includeProbabilityReasoning"`
	AntiTypicalityEnabled       bool     `json:"antiTypicalityEnabled"`
	CustomConstraints           string   `json:"customConstraints,omitempty"`
}

type RoleEnhancement struct {
	Enabled     bool   `json:"enabled"`
	Type        string `json:"type"`
	Expertise   string `json:"expertise,omitempty"`
	CustomRole  string `json:"customRole,omitempty"`
	Perspective string `json:"perspective,omitempty"`
}

type FormatEnhancement struct {
	Enabled          bool   `json:"enabled"`
	Type             string `json:"type"`
	StructuredFormat string `json:"structuredFormat,omitempty"`
	IncludeExamples  bool   `json:"includeExamples"`
	CustomFormat     string `json:"customFormat,omitempty"`
}

type LengthConstraint struct {
	Enabled bool   `json:"enabled"`
	Min     *int   `json:"min,omitempty"`
	Max     *int   `json:"max,omitempty"`
	Unit    string `json:"unit,omitempty"`
}

type ToneConstraint struct {
	Enabled bool   `json:"enabled"`
	Tone    string `json:"tone,omitempty"`
}

type AudienceConstraint struct {
	Enabled  bool   `json:"enabled"`
	Audience string `json:"audience,omitempty"`
}

type ListConstraint struct {
	Enabled bool     `json:"enabled"`
	Items   []string `json:"items,omitempty"`
}

type ComplexityConstraint struct {
	Enabled bool   `json:"enabled"`
	Level   string `json:"level,omitempty"`
}

type SmartConstraints struct {
	Enabled      bool                 `json:"enabled"`
	Length       LengthConstraint     `json:"length"`
	Tone         ToneConstraint       `json:"tone"`
	Audience     AudienceConstraint   `json:"audience"`
	Exclusions   ListConstraint       `json:"exclusions"`
	Requirements ListConstraint       `json:"requirements"`
	Complexity   ComplexityConstraint `json:"complexity"`
}

type ReasoningScaffold struct {
	Enabled         bool   `json:"enabled"`
	Type            string `json:"type"`
	ShowWork        bool   `json:"showWork"`
	ShowWorking     bool   `json:"showWorking"`
	CustomFramework string `json:"customFramework,omitempty"`
}

type ConversationFlow struct {
	Enabled            bool   `json:"enabled"`
	Type               string `json:"type"`
	AllowClarification bool   `json:"allowClarification"`
	Context            string `json:"context,omitempty"`
}

// AdvancedEnhancements groups the five enhancement modules.
type AdvancedEnhancements struct {
	RoleEnhancement   RoleEnhancement   `json:"roleEnhancement"`
	FormatEnhancement FormatEnhancement `json:"formatEnhancement"`
	SmartConstraints  SmartConstraints  `json:"smartConstraints"`
	ReasoningScaffold ReasoningScaffold `json:"reasoningScaffold"`
	ConversationFlow  ConversationFlow  `json:"conversationFlow"`
}

// ComposeRequest is the body of the compose, validate and save endpoints.
type ComposeRequest struct {
	BaseConfig           BasePromptConfig      `json:"baseConfig"`
	VSEnhancement        *VSEnhancement        `json:"vsEnhancement,omitempty"`
	AdvancedEnhancements *AdvancedEnhancements `json:"advancedEnhancements,omitempty"`
}

// ComposeResponse carries the composer output plus the optional
// enhancements block and the combined preview text.
type ComposeResponse struct {
	Generated    prompts.GeneratedPrompt `json:"generated"`
	Enhancements string                  `json:"enhancements"`
	Preview      string                  `json:"preview"`
}

// Library models

// SavedPrompt is a composed prompt stored in the library.
type SavedPrompt struct {
	ID           string          `json:"id" db:"id"`
	OwnerID      string          `json:"ownerId" db:"owner_id"`
	Title        string          `json:"title" db:"title"`
	Domain       string          `json:"domain" db:"domain"`
	Framework    string          `json:"framework" db:"framework"`
	BasePrompt   string          `json:"basePrompt" db:"base_prompt"`
	FinalPrompt  string          `json:"finalPrompt" db:"final_prompt"`
	SystemPrompt string          `json:"systemPrompt" db:"system_prompt"`
	Config       json.RawMessage `json:"config" db:"config"`
	Tags         []string        `json:"tags" db:"tags"`
	Favorite     bool            `json:"favorite" db:"favorite"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// Run statuses
const (
	RunQueued    = "queued"
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// PromptRun is one inference execution of a saved prompt.
type PromptRun struct {
	ID          string     `json:"id" db:"id"`
	PromptID    string     `json:"promptId" db:"prompt_id"`
	Model       string     `json:"model" db:"model"`
	Status      string     `json:"status" db:"status"`
	Output      string     `json:"output" db:"output"`
	Error       string     `json:"error,omitempty" db:"error"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
}

// SavePromptRequest is the body of POST and PUT /prompts.
type SavePromptRequest struct {
	ComposeRequest
	Title    string   `json:"title"`
	Tags     []string `json:"tags,omitempty"`
	Favorite bool     `json:"favorite"`
}

// ImportResult summarises a library import.
type ImportResult struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Prompts  []SavedPrompt `json:"prompts"`
}
