package apimodels

// Analysis depth levels accepted by the API.
const (
	DepthComprehensive = "comprehensive"
	DepthBasic         = "basic"
	DepthDetailed      = "detailed"
)

type AnalysisRequest struct {
	// ImageData is the raw circuit image (base64 when carried as JSON)
	ImageData []byte `json:"imageData"`

	// AdditionalContext carries a specific question or hint from the user
	AdditionalContext string `json:"additionalContext,omitempty"`

	// AnalysisDepth is one of "comprehensive", "basic" or "detailed"
	AnalysisDepth string `json:"analysisDepth,omitempty"`

	// Optional parameters to control model behavior
	Options AnalysisOptions `json:"options,omitempty"`
}

type AnalysisOptions struct {
	// Model overrides the configured model name
	Model string `json:"model,omitempty"`

	// MaxTokens limits the model response length
	MaxTokens int64 `json:"maxTokens,omitempty"`

	// Temperature controls randomness (0.0-1.0)
	Temperature float64 `json:"temperature,omitempty"`
}
