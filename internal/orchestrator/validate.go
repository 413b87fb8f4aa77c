package orchestrator

import (
	"strings"

	domainerrors "github.com/drumbeatlabs/creatormatch/internal/errors"
	"github.com/drumbeatlabs/creatormatch/internal/scoring"
)

// maxFieldLength bounds the free-text assignment fields (spec §4.7 step 1:
// "lengths within bounds").
const maxFieldLength = 4000

// validateAssignment checks required fields and length bounds, returning a
// ValidationError enumerating every offending field at once.
func validateAssignment(a scoring.Assignment) error {
	var fields []string

	if strings.TrimSpace(a.Topic) == "" {
		fields = append(fields, "topic")
	}
	if strings.TrimSpace(a.KeyTakeaway) == "" {
		fields = append(fields, "keyTakeaway")
	}
	if strings.TrimSpace(a.AdditionalContext) == "" {
		fields = append(fields, "additionalContext")
	}

	if len(a.Topic) > maxFieldLength {
		fields = append(fields, "topic")
	}
	if len(a.KeyTakeaway) > maxFieldLength {
		fields = append(fields, "keyTakeaway")
	}
	if len(a.AdditionalContext) > maxFieldLength {
		fields = append(fields, "additionalContext")
	}

	if len(fields) > 0 {
		return domainerrors.Validation("assignment failed validation", fields...)
	}
	return nil
}

// composeBriefText concatenates the three required fields with single
// spaces (spec §4.7 step 2, and spec §9's resolved open question: structured
// filters are not folded into the embedding input by default).
func composeBriefText(a scoring.Assignment) string {
	return a.Topic + " " + a.KeyTakeaway + " " + a.AdditionalContext
}
