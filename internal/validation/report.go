package validation

import (
	"fmt"
	"strings"

	"circuitsight/apimodels"
)

// RenderReport formats a ValidationResult as human-readable markdown:
// overall status, then adjustment (if non-zero), then errors, warnings and
// suggestions (each only when non-empty).
func RenderReport(result apimodels.ValidationResult) string {
	var b strings.Builder
	b.WriteString("## Validation Report\n\n")

	if result.OverallValid {
		b.WriteString("**Overall Validation: PASSED**\n\n")
	} else {
		b.WriteString("**Overall Validation: FAILED**\n\n")
	}

	if result.ConfidenceAdjustment != 0 {
		fmt.Fprintf(&b, "**Confidence Adjustment:** %+.2f\n\n", result.ConfidenceAdjustment)
	}

	writeSection(&b, "Errors Found", result.Errors)
	writeSection(&b, "Warnings", result.Warnings)
	writeSection(&b, "Suggestions", result.Suggestions)

	return b.String()
}

func writeSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
