// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

// disinformation holds the risk-increasing patterns. Order matters: it drives the
// indicators_found ordering and the timeline's first-indicator-wins rule.
var disinformation = []Definition{
	{
		ID:           "emotional_amplification",
		Name:         "Emotional Amplification",
		Indicators:   []string{"!!!", "??!", "SHOCKING", "AMAZING", "HEARTBREAKING", "TERRIFYING"},
		Weight:       0.85,
		Description:  "Uses excessive emotional language to bypass critical thinking",
		Examples:     []string{`"SHOCKING revelation!"`, `"DEVASTATING consequences!"`, "Multiple exclamation marks (!!!)"},
		DetectionTip: "Look for clusters of emotional adjectives and excessive punctuation.",
	},
	{
		ID:           "urgency_creation",
		Name:         "False Urgency",
		Indicators:   []string{"BREAKING", "URGENT", "NOW", "IMMEDIATE", "ACT FAST", "LAST CHANCE"},
		Weight:       0.78,
		Description:  "Creates artificial time pressure to prevent fact-checking",
		Examples:     []string{`"BREAKING: Act NOW!"`, `"Limited time offer!"`, `"Share before deleted!"`},
		DetectionTip: "Check for time-sensitive language without actual time constraints.",
	},
	{
		ID:           "source_obfuscation",
		Name:         "Source Obfuscation",
		Indicators:   []string{"they say", "experts claim", "studies show", "many people"},
		Weight:       0.72,
		Description:  "Uses vague sources to avoid verification",
		Examples:     []string{`"Scientists confirm..."`, `"Research indicates..."`, `"They don't want you to know..."`},
		DetectionTip: `Ask "Which experts?" or "Which study?" to test specificity.`,
	},
	{
		ID:           "binary_narrative",
		Name:         "Binary Narrative",
		Indicators:   []string{"always", "never", "everyone", "no one", "100%", "complete"},
		Weight:       0.65,
		Description:  "Presents complex issues as simple good/bad dichotomies",
		Examples:     []string{`"100% effective"`, `"Everyone agrees"`, `"Complete solution"`},
		DetectionTip: "Watch for absolutes (always, never, everyone, no one).",
	},
	{
		ID:           "conspiracy_framing",
		Name:         "Conspiracy Framing",
		Indicators:   []string{"cover-up", "hidden truth", "they don't want you to know", "mainstream media"},
		Weight:       0.88,
		Description:  "Frames information as suppressed or hidden by authorities",
		Examples:     []string{`"The hidden truth about..."`, `"What the mainstream media won't tell you"`},
		DetectionTip: "Ask who benefits from the alleged secrecy and whether it is documented anywhere.",
	},
	{
		ID:           "miracle_solutions",
		Name:         "Miracle Solution",
		Indicators:   []string{"instant cure", "overnight success", "secret method", "guaranteed results"},
		Weight:       0.75,
		Description:  "Promises unrealistic, simple solutions to complex problems",
		Examples:     []string{`"This instant cure works for everything"`, `"Guaranteed results in 7 days"`},
		DetectionTip: "Be wary of single fixes for problems experts describe as complex.",
	},
	{
		ID:           "credibility_signaling",
		Name:         "Credibility Signaling",
		Indicators:   []string{"scientifically proven", "doctor approved", "official report", "verified"},
		Weight:       0.68,
		Description:  "Uses credibility markers without actual verification",
		Examples:     []string{`"Scientifically proven formula"`, `"Doctor approved"`},
		DetectionTip: "Check whether the claimed proof or approval is named and can be looked up.",
	},
	{
		ID:           "social_proof",
		Name:         "Artificial Social Proof",
		Indicators:   []string{"everyone is talking", "viral", "trending", "millions agree"},
		Weight:       0.70,
		Description:  "Creates illusion of widespread acceptance",
		Examples:     []string{`"Everyone is talking about this"`, `"Millions agree"`},
		DetectionTip: "Popularity is not evidence; look for the underlying source.",
	},
}

// authenticity holds the credibility-signalling patterns that dampen the risk score.
// The bracketed placeholders are kept verbatim from the reference catalog.
var authenticity = []Definition{
	{
		ID:           "source_transparency",
		Name:         "Source Transparency",
		Indicators:   []string{"according to [specific source]", "researchers at [institution]", "study published in"},
		Weight:       0.82,
		Description:  "Clearly identifies specific, verifiable sources",
		Examples:     []string{`"A study published in The Lancet"`},
		DetectionTip: "Named publications and institutions can be checked independently.",
	},
	{
		ID:           "data_specificity",
		Name:         "Data Specificity",
		Indicators:   []string{"data shows", "statistics indicate", "research conducted", "analysis of"},
		Weight:       0.79,
		Description:  "Provides specific data and statistics",
		Examples:     []string{`"Analysis of 5,000 households"`},
		DetectionTip: "Specific figures with a stated origin are easier to verify.",
	},
	{
		ID:           "context_provision",
		Name:         "Context Provision",
		Indicators:   []string{"however", "although", "in contrast", "it is important to note"},
		Weight:       0.76,
		Description:  "Provides balanced context and limitations",
		Examples:     []string{`"However, the authors caution..."`},
		DetectionTip: "Balanced writing acknowledges counterpoints and uncertainty.",
	},
	{
		ID:           "methodology_disclosure",
		Name:         "Methodology Disclosure",
		Indicators:   []string{"methodology", "study design", "sample size", "limitations"},
		Weight:       0.85,
		Description:  "Explains how information was gathered or verified",
		Examples:     []string{`"The methodology involved surveying..."`},
		DetectionTip: "Look for how the result was obtained, not only what it was.",
	},
	{
		ID:           "expert_attribution",
		Name:         "Expert Attribution",
		Indicators:   []string{"expert in", "professor of", "researcher specializing in", "according to Dr."},
		Weight:       0.80,
		Description:  "Attributes information to specific, qualified experts",
		Examples:     []string{`"Professor of epidemiology Jane Doe said..."`},
		DetectionTip: "A named expert with a stated field can be checked.",
	},
}
