package models

import "github.com/promptforge/internal/prompts"

// ToCore converts the wire config. The framework bag becomes the typed
// variant for the selected framework; other fields are dropped.
func (b BasePromptConfig) ToCore() prompts.BasePromptConfig {
	fw := prompts.Framework(b.Framework)
	return prompts.BasePromptConfig{
		Domain:          prompts.Domain(b.Domain),
		Framework:       fw,
		BasePrompt:      b.BasePrompt,
		TargetOutcome:   b.TargetOutcome,
		FrameworkConfig: b.FrameworkConfig.forFramework(fw),
	}
}

func (f *FrameworkConfig) forFramework(fw prompts.Framework) prompts.FrameworkConfig {
	if f == nil {
		return nil
	}
	switch fw {
	case prompts.FrameworkRoleBased:
		return prompts.RoleBasedConfig{Role: f.Role}
	case prompts.FrameworkChainOfThought:
		return prompts.ChainOfThoughtConfig{ReasoningStructure: f.ReasoningStructure}
	case prompts.FrameworkFewShot:
		examples := make([]prompts.FewShotExample, 0, len(f.FewShotExamples))
		for _, ex := range f.FewShotExamples {
			examples = append(examples, prompts.FewShotExample{Input: ex.Input, Output: ex.Output})
		}
		return prompts.FewShotConfig{Examples: examples}
	case prompts.FrameworkTemplate:
		return prompts.TemplateConfig{Variables: f.TemplateVariables}
	case prompts.FrameworkConstraint:
		return prompts.ConstraintConfig{Constraints: f.Constraints}
	case prompts.FrameworkIterative:
		return prompts.IterativeConfig{}
	case prompts.FrameworkComparative:
		return prompts.ComparativeConfig{Criteria: f.ComparisonCriteria}
	case prompts.FrameworkGenerative:
		return prompts.GenerativeConfig{}
	case prompts.FrameworkAnalytical:
		return prompts.AnalyticalConfig{Depth: f.AnalysisDepth}
	case prompts.FrameworkTransformation:
		return prompts.TransformationConfig{SourceFormat: f.SourceFormat, TargetFormat: f.TargetFormat}
	}
	return nil
}

// ToCore converts the sampling config. A nil receiver is disabled sampling.
func (v *VSEnhancement) ToCore() prompts.VSEnhancement {
	if v == nil {
		return prompts.DefaultVSEnhancement()
	}
	return prompts.VSEnhancement{
		Enabled:                     v.Enabled,
		NumberOfResponses:           v.NumberOfResponses,
		DistributionType:            prompts.DistributionType(v.DistributionType),
		ProbabilityThreshold:        v.ProbabilityThreshold,
		Dimensions:                  v.Dimensions,
		CustomDimensions:            v.CustomDimensions,
		IncludeProbabilityReasoning: v.IncludeProbabilityReasoning,
		AntiTypicalityEnabled:       v.AntiTypicalityEnabled,
		CustomConstraints:           v.CustomConstraints,
	}
}

// ToCore converts the enhancement settings. A nil receiver disables all five.
func (a *AdvancedEnhancements) ToCore() prompts.AdvancedEnhancements {
	if a == nil {
		return prompts.AdvancedEnhancements{}
	}
	sc := a.SmartConstraints
	return prompts.AdvancedEnhancements{
		Role:   prompts.RoleEnhancement(a.RoleEnhancement),
		Format: prompts.FormatEnhancement(a.FormatEnhancement),
		Constraints: prompts.SmartConstraints{
			Enabled:      sc.Enabled,
			Length:       prompts.LengthConstraint(sc.Length),
			Tone:         prompts.ToneConstraint(sc.Tone),
			Audience:     prompts.AudienceConstraint(sc.Audience),
			Exclusions:   prompts.ListConstraint(sc.Exclusions),
			Requirements: prompts.ListConstraint(sc.Requirements),
			Complexity:   prompts.ComplexityConstraint(sc.Complexity),
		},
		Reasoning:    a.ReasoningScaffold.toCore(),
		Conversation: prompts.ConversationFlow(a.ConversationFlow),
	}
}

// showWorking is accepted as an alias of showWork.
func (r ReasoningScaffold) toCore() prompts.ReasoningScaffold {
	return prompts.ReasoningScaffold{
		Enabled:         r.Enabled,
		Type:            r.Type,
		ShowWork:        r.ShowWork || r.ShowWorking,
		CustomFramework: r.CustomFramework,
	}
}

// Compose runs the composer and attaches the enhancements block.
func (r ComposeRequest) Compose(c *prompts.Composer) ComposeResponse {
	generated := c.Compose(r.BaseConfig.ToCore(), r.VSEnhancement.ToCore())
	enh := prompts.GenerateAllAdvancedEnhancements(r.AdvancedEnhancements.ToCore())
	return ComposeResponse{
		Generated:    generated,
		Enhancements: enh,
		Preview:      prompts.AttachEnhancements(generated.FinalPrompt, enh),
	}
}
