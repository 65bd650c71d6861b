// Package analyzer sequences one circuit analysis: request guards, image
// enhancement, the model call, response parsing and validation. Every fault
// along the way degrades to a failure response; the analyzer never returns a
// raw error to its caller.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"circuitsight/apimodels"
	"circuitsight/internal/imageutil"
	"circuitsight/internal/llm"
	"circuitsight/internal/parser"
)

const analysisPrompt = `You are an expert electrical engineer analyzing a photograph of a circuit,
which may be blurry or hand-drawn.

For blurry images, use characteristic component shapes and typical circuit
configurations to identify elements, and state your confidence. For
handwritten circuits, interpret hand-drawn symbols, labels and informal
notation.

Structure your analysis as:
1. Circuit Identification: the type of circuit
2. Components: every component with its value or rating (estimate if unclear)
3. Calculations: the voltage/current/resistance work, step by step
4. Solution: a clear, direct answer in one concise sentence or paragraph

Use proper electrical engineering terminology and show all calculations. If
any part is unclear due to image quality, state your assumptions.`

const basicPromptSuffix = `

Keep the analysis brief: identify the circuit, list the main components, and
give the direct answer. Skip detailed step-by-step work.`

const detailedPromptSuffix = `

Be exhaustive: justify each identification, show every intermediate
calculation with units, and verify the result against Kirchhoff's laws where
applicable.`

// Enhancer is the image pre-enhancement collaborator. It never fails; an
// internal fault comes back as passthrough bytes plus an info record carrying
// the error.
type Enhancer interface {
	Enhance(data []byte) ([]byte, apimodels.EnhancementInfo)
}

// Validator produces a validation report for a parsed analysis.
type Validator interface {
	Validate(analysis apimodels.CircuitAnalysis) apimodels.ValidationResult
}

type Analyzer struct {
	enhancer     Enhancer
	llmProvider  llm.Provider
	validator    Validator
	maxImageSize int64
	maxDimension int
	llmTimeout   time.Duration
}

func New(enhancer Enhancer, llmProvider llm.Provider, validator Validator, maxImageSize int64, maxDimension int, llmTimeout time.Duration) *Analyzer {
	return &Analyzer{
		enhancer:     enhancer,
		llmProvider:  llmProvider,
		validator:    validator,
		maxImageSize: maxImageSize,
		maxDimension: maxDimension,
		llmTimeout:   llmTimeout,
	}
}

// Analyze runs the full workflow and always returns a response: failures are
// reported through Success/ErrorMessage, never as an error or panic.
func (a *Analyzer) Analyze(ctx context.Context, req apimodels.AnalysisRequest) (resp *apimodels.AnalysisResponse) {
	id := uuid.NewString()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("analysis panicked", "id", id, "panic", r)
			resp = failure(id, fmt.Sprintf("analysis failed: %v", r), time.Since(start))
		}
	}()

	slog.Info("starting analysis", "id", id, "depth", req.AnalysisDepth, "imageBytes", len(req.ImageData))

	// Step 1: request guards, rejected before any external call
	if len(req.ImageData) == 0 {
		return failure(id, "invalid request: image data is required", 0)
	}
	if a.maxImageSize > 0 && int64(len(req.ImageData)) > a.maxImageSize {
		return failure(id, fmt.Sprintf("invalid request: image exceeds maximum size of %d bytes", a.maxImageSize), 0)
	}
	if err := imageutil.ValidateFormat(req.ImageData); err != nil {
		return failure(id, fmt.Sprintf("invalid request: %v", err), 0)
	}

	// Step 2: enhancement (never fails)
	enhanced, enhancementInfo := a.enhancer.Enhance(req.ImageData)
	if enhancementInfo.Error != "" {
		slog.Warn("image enhancement failed, using original image", "id", id, "error", enhancementInfo.Error)
	}

	// Step 3: model call on the optimized image
	optimized := imageutil.Optimize(enhanced, a.maxDimension)
	answer, err := a.callModel(ctx, req, optimized)
	if err != nil {
		slog.Error("model call failed", "id", id, "error", err)
		return failureWithInfo(id, fmt.Sprintf("analysis failed: %v", err), time.Since(start), &enhancementInfo)
	}
	if answer == "" {
		return failureWithInfo(id, "no response generated by the model", time.Since(start), &enhancementInfo)
	}

	// Steps 4-5: parse, validate, adjust confidence
	analysis := parser.Parse(answer)
	validationResult := a.validator.Validate(analysis)

	analysis.ConfidenceLevel += validationResult.ConfidenceAdjustment
	analysis.ClampConfidence()

	slog.Info("analysis completed", "id", id,
		"circuitType", analysis.CircuitType,
		"confidence", analysis.ConfidenceLevel,
		"warnings", len(validationResult.Warnings),
		"errors", len(validationResult.Errors),
		"duration", time.Since(start))

	return &apimodels.AnalysisResponse{
		ID:                id,
		Success:           true,
		Analysis:          &analysis,
		ProcessingTime:    time.Since(start).Seconds(),
		EnhancementInfo:   &enhancementInfo,
		ValidationResults: &validationResult,
	}
}

func (a *Analyzer) callModel(ctx context.Context, req apimodels.AnalysisRequest, image []byte) (string, error) {
	if a.llmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.llmTimeout)
		defer cancel()
	}

	resp, err := a.llmProvider.Analyze(ctx, buildPrompt(req), llm.Image{
		Data:     image,
		MIMEType: imageutil.SniffMIME(image),
	}, llm.Option(func(o *llm.Options) {
		if req.Options.Model != "" {
			o.Model = req.Options.Model
		}
		if req.Options.MaxTokens != 0 {
			o.MaxTokens = req.Options.MaxTokens
		}
		if req.Options.Temperature != 0 {
			o.Temperature = req.Options.Temperature
		}
	}))
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// buildPrompt assembles the model prompt for the requested analysis depth and
// appends any user-supplied context.
func buildPrompt(req apimodels.AnalysisRequest) string {
	prompt := analysisPrompt
	switch req.AnalysisDepth {
	case apimodels.DepthBasic:
		prompt += basicPromptSuffix
	case apimodels.DepthDetailed:
		prompt += detailedPromptSuffix
	}
	if req.AdditionalContext != "" {
		prompt += "\n\nAdditional Context: " + req.AdditionalContext
	}
	return prompt
}

func failure(id, message string, elapsed time.Duration) *apimodels.AnalysisResponse {
	return failureWithInfo(id, message, elapsed, nil)
}

func failureWithInfo(id, message string, elapsed time.Duration, info *apimodels.EnhancementInfo) *apimodels.AnalysisResponse {
	return &apimodels.AnalysisResponse{
		ID:              id,
		Success:         false,
		ErrorMessage:    message,
		ProcessingTime:  elapsed.Seconds(),
		EnhancementInfo: info,
	}
}
