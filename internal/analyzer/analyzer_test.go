package analyzer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"circuitsight/apimodels"
	"circuitsight/internal/llm"
	"circuitsight/internal/validation"
)

type stubEnhancer struct {
	info apimodels.EnhancementInfo
}

func (s stubEnhancer) Enhance(data []byte) ([]byte, apimodels.EnhancementInfo) {
	return data, s.info
}

type panicEnhancer struct{}

func (panicEnhancer) Enhance(data []byte) ([]byte, apimodels.EnhancementInfo) {
	panic("enhancer exploded")
}

type stubProvider struct {
	content string
	err     error
}

func (s stubProvider) Analyze(ctx context.Context, prompt string, img llm.Image, opts ...llm.Option) (*llm.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Content: s.content}, nil
}

func testImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 150, 150))
	for y := 0; y < 150; y++ {
		for x := 0; x < 150; x++ {
			img.Set(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestAnalyzer(provider llm.Provider, enhancer Enhancer) *Analyzer {
	return New(enhancer, provider, validation.NewEngine(), 10*1024*1024, 1024, time.Minute)
}

func TestAnalyzeRejectsEmptyImage(t *testing.T) {
	a := newTestAnalyzer(stubProvider{}, stubEnhancer{})

	resp := a.Analyze(context.Background(), apimodels.AnalysisRequest{})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.ErrorMessage, "image data is required")
	assert.Zero(t, resp.ProcessingTime)
	assert.Nil(t, resp.Analysis)
}

func TestAnalyzeRejectsOversizedImage(t *testing.T) {
	a := New(stubEnhancer{}, stubProvider{}, validation.NewEngine(), 16, 1024, time.Minute)

	resp := a.Analyze(context.Background(), apimodels.AnalysisRequest{
		ImageData: testImage(t),
	})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.ErrorMessage, "exceeds maximum size")
	assert.Zero(t, resp.ProcessingTime)
}

func TestAnalyzeRejectsUndecodableImage(t *testing.T) {
	a := newTestAnalyzer(stubProvider{}, stubEnhancer{})

	resp := a.Analyze(context.Background(), apimodels.AnalysisRequest{
		ImageData: []byte("definitely not an image"),
	})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.ErrorMessage, "invalid request")
}

func TestAnalyzeModelFailure(t *testing.T) {
	a := newTestAnalyzer(stubProvider{err: errors.New("model unavailable")}, stubEnhancer{})

	resp := a.Analyze(context.Background(), apimodels.AnalysisRequest{
		ImageData: testImage(t),
	})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.ErrorMessage, "model unavailable")
	assert.NotNil(t, resp.EnhancementInfo, "enhancement already ran, its info is kept")
}

func TestAnalyzeEmptyModelAnswerIsAFailure(t *testing.T) {
	a := newTestAnalyzer(stubProvider{content: ""}, stubEnhancer{})

	resp := a.Analyze(context.Background(), apimodels.AnalysisRequest{
		ImageData: testImage(t),
	})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.ErrorMessage, "no response generated")
}

func TestAnalyzeSuccessAdjustsConfidence(t *testing.T) {
	answer := "Circuit Type: Voltage Divider\nFinal Answer: The output is 5V."
	a := newTestAnalyzer(stubProvider{content: answer}, stubEnhancer{})

	resp := a.Analyze(context.Background(), apimodels.AnalysisRequest{
		ImageData:     testImage(t),
		AnalysisDepth: apimodels.DepthComprehensive,
	})

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.ID)
	assert.NotNil(t, resp.Analysis)
	assert.NotNil(t, resp.ValidationResults)

	assert.Equal(t, "Voltage Divider", resp.Analysis.CircuitType)
	assert.Equal(t, "The output is 5V.", resp.Analysis.Solution)

	// the voltage-divider pattern matches with no components extracted:
	// three warnings, adjustment -0.3, confidence 0.8 - 0.3
	assert.Len(t, resp.ValidationResults.Warnings, 3)
	assert.InDelta(t, -0.3, resp.ValidationResults.ConfidenceAdjustment, 1e-9)
	assert.InDelta(t, 0.5, resp.Analysis.ConfidenceLevel, 1e-9)
}

func TestAnalyzeConfidenceStaysInRange(t *testing.T) {
	answers := []string{
		"Circuit Type: Voltage Divider\nCalculations:\nR = 10/0\nI = 5/0\nFinal Answer: broken",
		"Final Answer: all good",
	}

	for _, answer := range answers {
		a := newTestAnalyzer(stubProvider{content: answer}, stubEnhancer{})
		resp := a.Analyze(context.Background(), apimodels.AnalysisRequest{
			ImageData: testImage(t),
		})
		assert.True(t, resp.Success)
		assert.GreaterOrEqual(t, resp.Analysis.ConfidenceLevel, 0.0, "answer %q", answer)
		assert.LessOrEqual(t, resp.Analysis.ConfidenceLevel, 1.0, "answer %q", answer)
	}
}

func TestAnalyzeRecoversFromPanic(t *testing.T) {
	a := newTestAnalyzer(stubProvider{content: "x"}, panicEnhancer{})

	resp := a.Analyze(context.Background(), apimodels.AnalysisRequest{
		ImageData: testImage(t),
	})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.ErrorMessage, "enhancer exploded")
}

func TestBuildPrompt(t *testing.T) {
	base := buildPrompt(apimodels.AnalysisRequest{})
	basic := buildPrompt(apimodels.AnalysisRequest{AnalysisDepth: apimodels.DepthBasic})
	detailed := buildPrompt(apimodels.AnalysisRequest{AnalysisDepth: apimodels.DepthDetailed})
	withContext := buildPrompt(apimodels.AnalysisRequest{AdditionalContext: "find the Thevenin equivalent"})

	assert.Contains(t, base, "expert electrical engineer")
	assert.Contains(t, basic, "Keep the analysis brief")
	assert.Contains(t, detailed, "Be exhaustive")
	assert.Contains(t, withContext, "Additional Context: find the Thevenin equivalent")
	assert.NotContains(t, base, "Additional Context")
}
