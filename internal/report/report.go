// Package report renders consultation outcomes as markdown and persists
// them to Postgres for later review.
package report

import (
	"fmt"
	"strings"
	"time"

	"attrition-advisor/internal/models"
)

// Report is a rendered consultation ready for persistence.
type Report struct {
	ConsultationID string
	EmployeeName   string
	Probability    float64
	Tier           models.RiskTier
	Verdict        bool
	Markdown       string
	CreatedAt      time.Time
}

// Render builds the markdown summary for a finished (or partially
// finished) consultation. The analysis section is omitted when the
// engagement service never produced one; the prediction stands on its own.
func Render(c models.Consultation, now time.Time) Report {
	var b strings.Builder

	fmt.Fprintf(&b, "# Attrition Consultation: %s\n\n", c.EmployeeName)
	fmt.Fprintf(&b, "Generated: %s\n\n", now.UTC().Format(time.RFC3339))

	b.WriteString("## Prediction\n\n")
	fmt.Fprintf(&b, "| Attrition probability | %.1f%% |\n", c.Prediction.Probability*100)
	b.WriteString("|---|---|\n")
	fmt.Fprintf(&b, "| Risk tier | %s |\n", c.Tier)
	fmt.Fprintf(&b, "| Verdict (threshold %.2f) | %s |\n\n", c.Prediction.Threshold, verdictWord(c.Prediction.Verdict))

	if len(c.Factors) > 0 {
		b.WriteString("## Contributing Factors\n\n")
		for i, f := range c.Factors {
			fmt.Fprintf(&b, "%d. %s (%s risk)\n", i+1, f.Display, f.Direction)
		}
		b.WriteString("\n")
	}

	if analysis := firstAssistantTurn(c); analysis != "" {
		b.WriteString("## Retention Strategy\n\n")
		b.WriteString(analysis)
		b.WriteString("\n")
	}

	if qa := followUpTranscript(c); qa != "" {
		b.WriteString("\n## Follow-up Q&A\n\n")
		b.WriteString(qa)
	}

	return Report{
		ConsultationID: c.ID,
		EmployeeName:   c.EmployeeName,
		Probability:    c.Prediction.Probability,
		Tier:           c.Tier,
		Verdict:        c.Prediction.Verdict,
		Markdown:       b.String(),
		CreatedAt:      now.UTC(),
	}
}

func verdictWord(v bool) string {
	if v {
		return "likely to leave"
	}
	return "likely to stay"
}

// firstAssistantTurn is the initial retention strategy; later assistant
// turns are chat answers and belong in the transcript instead.
func firstAssistantTurn(c models.Consultation) string {
	for _, turn := range c.History {
		if turn.Role == models.RoleAssistant {
			return turn.Content
		}
	}
	return ""
}

func followUpTranscript(c models.Consultation) string {
	// Skip past the analysis exchange: the first user turn is the prompt
	// itself and the first assistant turn is the strategy.
	seenAssistant := false
	var b strings.Builder
	for _, turn := range c.History {
		if !seenAssistant {
			seenAssistant = turn.Role == models.RoleAssistant
			continue
		}
		switch turn.Role {
		case models.RoleUser:
			fmt.Fprintf(&b, "**Q:** %s\n\n", turn.Content)
		case models.RoleAssistant:
			fmt.Fprintf(&b, "**A:** %s\n\n", turn.Content)
		}
	}
	return b.String()
}
