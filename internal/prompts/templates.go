package prompts

// Fixed instruction text used across the generators. Anything that callers or
// tests match against lives here so the wording has a single source.

// Diversity sampling templates
const (
	// BroadSpectrumInstruction takes the response count.
	BroadSpectrumInstruction = "Generate %d responses to the query, each with a corresponding numeric probability " +
		"representing how likely that response is within the full distribution of possible answers. " +
		"Sample across the whole probability spectrum, targeting probabilities between 0.01 and 0.40: " +
		"include both common responses (probability >= 0.15) and rare responses (probability <= 0.05). " +
		"Each response must represent a fundamentally different approach."

	// RarityHuntInstruction takes the response count and the threshold.
	RarityHuntInstruction = "Generate %d responses to the query, each with a corresponding numeric probability. " +
		"Sample only from the tails of the distribution: every response must have a probability below %.2f. " +
		"Avoid standard, obvious or commonly expected choices."

	// BalancedCategoriesInstruction takes the response count, the per-category
	// probability and the joined category list.
	BalancedCategoriesInstruction = "Generate %d responses to the query, one for each category below, each with a corresponding numeric probability. " +
		"Assign equal probability to every category (approximately %.2f each). " +
		"Categories: %s"

	// ProbabilityReasoningSentence is appended when a rationale is requested.
	ProbabilityReasoningSentence = " For each response, briefly explain why you assigned that probability."

	// AntiTypicalityParagraph discourages the most obvious answers.
	AntiTypicalityParagraph = "IMPORTANT: Actively avoid the most typical or predictable responses. " +
		"If a response feels like the first thing most people would say, replace it with something less obvious " +
		"that still answers the query well."

	// CustomConstraintsLabel prefixes free-text sampling constraints.
	CustomConstraintsLabel = "Additional constraints: "

	// SamplingFormatHeader joins the instruction and its format template.
	SamplingFormatHeader = "\n\nFormat each response as:\n"
)

// Diversity sampling format templates
const (
	ResponseFormat = "<response>\n" +
		"<text>[Your response]</text>\n" +
		"<probability>[0.00-1.00]</probability>\n" +
		"</response>"

	ResponseFormatWithReasoning = "<response>\n" +
		"<text>[Your response]</text>\n" +
		"<probability>[0.00-1.00]</probability>\n" +
		"<reasoning>[Why this probability]</reasoning>\n" +
		"</response>"

	CategoryResponseFormat = "<response>\n" +
		"<category>[Category name]</category>\n" +
		"<text>[Your response]</text>\n" +
		"<probability>[0.00-1.00]</probability>\n" +
		"</response>"

	CategoryResponseFormatWithReasoning = "<response>\n" +
		"<category>[Category name]</category>\n" +
		"<text>[Your response]</text>\n" +
		"<probability>[0.00-1.00]</probability>\n" +
		"<reasoning>[Why this probability]</reasoning>\n" +
		"</response>"
)

// Framework phrasing
const (
	DefaultRole = "an expert in this field"

	ChainOfThoughtIntro = "Let's think through this step by step."

	LinearReasoningSteps = `1. Identify the key components of the problem
2. Analyze each component systematically
3. Connect the insights to form a complete picture
4. Arrive at a well-reasoned conclusion`

	BranchingReasoningSteps = `1. Identify the different ways the problem could be approached
2. Follow each reasoning path separately
3. Compare where the paths agree and where they diverge
4. Select the strongest path and explain why`

	RecursiveReasoningSteps = `1. Break the problem into smaller sub-problems
2. Solve each sub-problem, decomposing further where needed
3. Combine the partial results into a full solution
4. Check the combined solution against the original problem`

	FewShotIntro = "Here are some examples:"

	FewShotLeadIn = "Now, complete the following task in the same way:"

	ConstraintsHeader = "Constraints:"

	IterativeInstructions = "Approach this iteratively: produce an initial version, critique it, and refine it " +
		"over successive passes. Briefly note what improved in each iteration."

	ComparativeIntro = "Compare and contrast the following:"

	ComparisonCriteriaHeader = "Evaluation criteria:"

	GenerativeInstructions = "Be creative and original. Explore unconventional ideas and generate novel, diverse possibilities " +
		"rather than settling on the first idea."

	DefaultAnalysisDepth = "comprehensive"

	AnalyticalInstructions = "Break down the key components, examine relationships and patterns, " +
		"and support every conclusion with evidence."

	DefaultSourceFormat = "its current form"
	DefaultTargetFormat = "the requested format"

	// TargetOutcomeLabel introduces the optional trailing outcome clause.
	TargetOutcomeLabel = "\n\nTarget outcome: "
)

// Advanced enhancement text
const (
	ExpertRoleTemplate = "You are a world-class expert in %s with deep theoretical knowledge and years of practical experience. " +
		"Draw on that expertise to give authoritative, precise answers."

	PersonaRoleTemplate = "Adopt the following persona: %s. Stay in character throughout your response."

	PerspectiveRoleTemplate = "Approach this from the perspective of %s. Frame your analysis and recommendations through that lens."

	StructuredFormatTemplate = "Format your response as valid %s with clearly named fields."

	StructuredExamplesSentence = " Include an example of the expected structure before the full response."

	MarkdownFormatInstruction = "Format your response in Markdown with clear headings, bullet points and emphasis where appropriate."

	ListFormatInstruction = "Present your response as a clear numbered or bulleted list."

	TableFormatInstruction = "Organize your response as a table with clearly labeled columns."

	CodeFormatInstruction = "Provide your response as well-commented code inside a fenced code block."

	CustomFormatTemplate = "Format your response as follows: %s"

	MinLengthTemplate  = "Your response must be at least %d %s long."
	MaxLengthTemplate  = "Keep your response under %d %s."
	BothLengthTemplate = "Your response must be between %d and %d %s long."
	DefaultLengthUnit  = "words"

	ToneTemplate       = "Use a %s tone."
	AudienceTemplate   = "Tailor your response for %s."
	ExclusionsHeader   = "Do not include:"
	RequirementsHeader = "Make sure to include:"
	ComplexityTemplate = "Pitch the complexity of your language at a %s level."

	ShowWorkInstruction = "Show your reasoning step by step before giving your final answer."

	AnalysisFramework = `Use this analytical framework:
1. Break the problem down into its core components
2. Examine each component and how they relate to each other
3. Identify patterns, causes and implications
4. Synthesize your findings into a clear conclusion`

	DecisionFramework = `Use this decision-making framework:
1. Define the decision and the criteria that matter
2. Identify the available options
3. Weigh each option against the criteria
4. Assess the risks and trade-offs
5. Recommend the best option and justify it`

	ProblemSolvingFramework = `Use this problem-solving framework:
1. Define the problem precisely
2. Identify the root causes
3. Generate possible solutions
4. Evaluate the solutions and choose the best one
5. Outline the steps to implement it`

	CriticalThinkingFramework = `Apply critical thinking:
1. Question the underlying assumptions
2. Evaluate the evidence and its sources
3. Consider alternative viewpoints
4. Identify biases and logical fallacies
5. Draw a well-supported conclusion`

	CreativeFramework = `Use this creative thinking process:
1. Explore the problem from unusual angles
2. Generate many ideas without judging them
3. Combine and build on the most promising ideas
4. Refine the best idea into a concrete result`

	CustomFrameworkHeader = "Custom reasoning framework:\n"

	IterativeFlowInstruction = "This is an iterative conversation. Provide an initial response, then invite feedback " +
		"and be ready to refine it in follow-up turns."

	ClarifyingFlowInstruction = "Before answering, ask clarifying questions about anything ambiguous or underspecified. " +
		"Only proceed once you have the information you need."

	MultiStepFlowInstruction = "Break this task into multiple steps. Complete one step at a time and confirm before moving on to the next."

	CollaborativeFlowInstruction = "Treat this as a collaborative session. Build on the user's ideas, suggest alternatives " +
		"and work toward the result together."

	ConversationContextLabel = "\n\nConversation context: "
)
