package orchestrator

import (
	"fmt"
	"strings"

	"github.com/drumbeatlabs/creatormatch/internal/scoring"
)

// rationalePrompt builds the completion prompt summarizing the brief and the
// ranked shortlist (spec §4.7 step 8). The model is asked for a short
// narrative; completion.CannedFallback covers any failure.
func rationalePrompt(assignment scoring.Assignment, matches []scoring.Match) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Brief topic: %s\nKey takeaway: %s\n", assignment.Topic, assignment.KeyTakeaway)
	b.WriteString("Shortlisted creators:\n")
	for _, m := range matches {
		fmt.Fprintf(&b, "- %s (score %.2f, niches: %s)\n", m.Creator.Nickname, m.MatchScore, strings.Join(m.Creator.Analysis.PrimaryNiches, ", "))
	}
	b.WriteString("Write 2-3 sentences explaining why these creators fit the brief.")
	return b.String()
}
