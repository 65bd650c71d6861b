package llm

import "context"

// Provider is the model collaborator: prompt text plus one image in, free
// text out. Implementations must treat an empty answer as a valid return;
// the orchestrator decides how to handle it.
type Provider interface {
	Analyze(ctx context.Context, prompt string, img Image, opts ...Option) (*Response, error)
}

// Image is the multimodal payload attached to a prompt.
type Image struct {
	Data     []byte
	MIMEType string
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
}

type Response struct {
	Content string
	Model   string
	Usage   Usage
}
