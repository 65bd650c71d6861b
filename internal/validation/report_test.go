package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"circuitsight/apimodels"
)

func TestRenderReportCleanResult(t *testing.T) {
	report := RenderReport(apimodels.ValidationResult{
		OverallValid: true,
	})

	assert.Contains(t, report, "Overall Validation: PASSED")
	assert.NotContains(t, report, "Confidence Adjustment")
	assert.NotContains(t, report, "Errors Found")
	assert.NotContains(t, report, "Warnings")
	assert.NotContains(t, report, "Suggestions")
}

func TestRenderReportWithFindings(t *testing.T) {
	report := RenderReport(apimodels.ValidationResult{
		OverallValid:         true,
		ConfidenceAdjustment: -0.3,
		Errors:               []string{"Division by zero detected: R = 10/0"},
		Warnings:             []string{"resistor value 2m seems unusually low"},
	})

	assert.Contains(t, report, "Overall Validation: PASSED")
	assert.Contains(t, report, "**Confidence Adjustment:** -0.30")
	assert.Contains(t, report, "### Errors Found:\n- Division by zero detected: R = 10/0")
	assert.Contains(t, report, "### Warnings:\n- resistor value 2m seems unusually low")
}

func TestRenderReportFailedStatus(t *testing.T) {
	report := RenderReport(apimodels.ValidationResult{OverallValid: false})

	assert.Contains(t, report, "Overall Validation: FAILED")
}
