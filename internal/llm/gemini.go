package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"circuitsight/internal/config"
)

// Gemini client implementation. A failed call against the primary model is
// retried once against the configured fallback model; if that also fails the
// primary error is surfaced.
type Gemini struct {
	cfg *config.GeminiConfig
}

func NewGemini(cfg *config.GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini API key is empty")
	}
	return &Gemini{cfg: cfg}, nil
}

func (g *Gemini) Analyze(ctx context.Context, prompt string, img Image, opts ...Option) (*Response, error) {
	options := &Options{
		Model:       g.cfg.Model,
		Temperature: 0,
		MaxTokens:   2000,
	}
	for _, opt := range opts {
		opt(options)
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.cfg.APIKey))
	if err != nil {
		return nil, err
	}
	defer cl.Close()

	resp, err := g.generate(ctx, cl, options.Model, options, prompt, img)
	if err != nil && g.cfg.FallbackModel != "" && g.cfg.FallbackModel != options.Model {
		slog.Warn("primary model failed, retrying with fallback",
			"model", options.Model, "fallback", g.cfg.FallbackModel, "error", err)
		if fbResp, fbErr := g.generate(ctx, cl, g.cfg.FallbackModel, options, prompt, img); fbErr == nil {
			return fbResp, nil
		}
		return nil, err
	}
	return resp, err
}

func (g *Gemini) generate(ctx context.Context, cl *genai.Client, model string, options *Options, prompt string, img Image) (*Response, error) {
	m := cl.GenerativeModel(strings.TrimSpace(model))
	temp := float32(options.Temperature)
	maxTokens := int32(options.MaxTokens)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:     &temp,
		MaxOutputTokens: &maxTokens,
	}

	parts := []genai.Part{
		genai.Text(prompt),
		&genai.Blob{MIMEType: img.MIMEType, Data: img.Data},
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, err
	}

	response := &Response{
		Content: firstText(resp),
		Model:   model,
	}
	if resp.UsageMetadata != nil {
		response.Usage = Usage{
			PromptTokens:     int64(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int64(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return response, nil
}

// firstText collects the text parts of the first candidate.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
