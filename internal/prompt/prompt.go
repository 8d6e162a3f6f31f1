// Package prompt builds the deterministic prompts sent to the engagement
// service. Given the same consultation the builders always produce the
// same strings, so prompt content is testable without a live LLM.
package prompt

import (
	"fmt"
	"strings"

	"attrition-advisor/internal/models"
)

// Section headings the analysis response is asked to follow, in order.
var analysisSections = []string{
	"Risk Assessment",
	"Key Factors",
	"Recommended Actions",
	"Timeline",
	"Success Metrics",
}

// SystemPrompt is the persona set on every engagement request.
func SystemPrompt() string {
	return "You are an experienced HR retention advisor. You help managers " +
		"keep valued employees by turning attrition-risk assessments into " +
		"concrete, humane retention plans. Be specific and practical; never " +
		"invent facts about the employee beyond what you are given."
}

// AnalysisRequest renders the retention-strategy request for a scored
// employee: identity, probability, tier, the ranked contributing factors,
// and the fixed section structure the answer must follow.
func AnalysisRequest(c models.Consultation) string {
	parts := []string{
		fmt.Sprintf("Employee: %s", c.EmployeeName),
		fmt.Sprintf("Predicted attrition probability: %.1f%% (risk tier: %s)", c.Prediction.Probability*100, c.Tier),
		"",
		"Contributing factors, strongest first:",
	}
	for i, f := range c.Factors {
		parts = append(parts, fmt.Sprintf("%d. %s (%s risk)", i+1, f.Display, f.Direction))
	}
	parts = append(parts,
		"",
		"Write a retention strategy for this employee's manager. Structure the",
		"answer under exactly these headings, in this order:",
	)
	for _, section := range analysisSections {
		parts = append(parts, fmt.Sprintf("- %s", section))
	}
	return strings.Join(parts, "\n")
}

// GroundingFacts restates the assessment for follow-up chat turns. Every
// chat request resends these facts so answers cannot drift from the
// original prediction even though the engagement service keeps no state.
func GroundingFacts(c models.Consultation) string {
	parts := []string{
		"Context for this conversation:",
		fmt.Sprintf("- Employee: %s", c.EmployeeName),
		fmt.Sprintf("- Predicted attrition probability: %.1f%%", c.Prediction.Probability*100),
		fmt.Sprintf("- Risk tier: %s", c.Tier),
	}
	if len(c.Factors) > 0 {
		names := make([]string, len(c.Factors))
		for i, f := range c.Factors {
			names[i] = f.Display
		}
		parts = append(parts, fmt.Sprintf("- Key factors: %s", strings.Join(names, "; ")))
	}
	parts = append(parts, "Answer follow-up questions consistently with this assessment.")
	return strings.Join(parts, "\n")
}

// SuggestedQuestions returns follow-up questions appropriate to the risk
// band, shown to the user after the initial analysis.
func SuggestedQuestions(tier models.RiskTier) []string {
	switch tier {
	case models.RiskHigh:
		return []string{
			"What should the manager do in the next 48 hours?",
			"Which factor should we address first?",
			"How do we discuss this risk with the employee without alarming them?",
		}
	case models.RiskMedium:
		return []string{
			"What early-warning signs should the manager watch for?",
			"Which low-cost changes would have the most impact?",
			"When should we reassess this employee's risk?",
		}
	default:
		return []string{
			"How do we keep this employee engaged long term?",
			"What growth opportunities fit this profile?",
		}
	}
}
