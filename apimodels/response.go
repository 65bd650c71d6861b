package apimodels

// ValidationResult is the outcome of one validation pass. Lists keep check
// order and duplicates; Suggestions is reserved and currently always empty.
type ValidationResult struct {
	OverallValid bool `json:"overallValid"`

	// ConfidenceAdjustment is clamped to [-0.5, 0.2]
	ConfidenceAdjustment float64 `json:"confidenceAdjustment"`

	Warnings    []string `json:"warnings"`
	Errors      []string `json:"errors"`
	Suggestions []string `json:"suggestions"`
}

// EnhancementInfo describes what the image pre-enhancement step did.
type EnhancementInfo struct {
	BlurDetected        bool     `json:"blurDetected"`
	HandwrittenDetected bool     `json:"handwrittenDetected"`
	EnhancementsApplied []string `json:"enhancementsApplied"`

	// QualityScore is in [0,1]
	QualityScore float64 `json:"qualityScore"`

	// Error is set when enhancement failed internally and the original
	// bytes were passed through untouched
	Error string `json:"error,omitempty"`
}

type AnalysisResponse struct {
	// ID uniquely identifies this analysis run
	ID string `json:"id,omitempty"`

	Success bool `json:"success"`

	// Analysis is present only on success
	Analysis *CircuitAnalysis `json:"analysis,omitempty"`

	ErrorMessage string `json:"errorMessage,omitempty"`

	// ProcessingTime is elapsed wall-clock time in seconds
	ProcessingTime float64 `json:"processingTime"`

	EnhancementInfo *EnhancementInfo `json:"enhancementInfo,omitempty"`

	ValidationResults *ValidationResult `json:"validationResults,omitempty"`
}
