// Package enhance cleans up circuit photos before analysis: it detects blur
// and handwriting characteristics and applies matching filter pipelines. The
// enhancer never fails; on any internal error the original bytes pass
// through with the error recorded in the info.
package enhance

import (
	"bytes"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"circuitsight/apimodels"
)

// Detection thresholds, tuned for phone photos of circuit diagrams.
const (
	blurThreshold       = 100.0
	handwritingEdgeMin  = 0.1
	handwritingSharpMax = 200.0
)

// Enhancement tags reported in EnhancementInfo.EnhancementsApplied.
const (
	tagBlurReduction = "blur_reduction"
	tagHandwritten   = "handwritten_enhancement"
)

type Enhancer struct{}

func New() *Enhancer {
	return &Enhancer{}
}

// Enhance inspects the image and applies the filter pipelines its defects
// call for. The returned info always has EnhancementsApplied non-nil.
func (e *Enhancer) Enhance(data []byte) ([]byte, apimodels.EnhancementInfo) {
	info := apimodels.EnhancementInfo{
		EnhancementsApplied: []string{},
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		info.Error = err.Error()
		return data, info
	}

	gray := imaging.Grayscale(img)
	sharpness := laplacianVariance(gray)
	density := edgeDensity(gray)

	if sharpness < blurThreshold {
		info.BlurDetected = true
		info.EnhancementsApplied = append(info.EnhancementsApplied, tagBlurReduction)
		if enhanced, err := sharpenPipeline(img); err == nil {
			data = enhanced
		}
	}

	// handwritten diagrams show dense, irregular edges at moderate sharpness
	if density > handwritingEdgeMin && sharpness < handwritingSharpMax {
		info.HandwrittenDetected = true
		info.EnhancementsApplied = append(info.EnhancementsApplied, tagHandwritten)
		src := img
		if info.BlurDetected {
			// chain onto the blur-corrected bytes, not the upload
			if chained, err := imaging.Decode(bytes.NewReader(data)); err == nil {
				src = chained
			}
		}
		if enhanced, err := handwritingPipeline(src); err == nil {
			data = enhanced
		}
	}

	info.QualityScore = qualityScore(data)
	return data, info
}

// sharpenPipeline counteracts blur: unsharp-style sharpening followed by a
// contrast lift, re-encoded at high JPEG quality.
func sharpenPipeline(img image.Image) ([]byte, error) {
	out := imaging.Sharpen(img, 2.0)
	out = imaging.AdjustContrast(out, 15)
	return encodeJPEG(out, 95)
}

// handwritingPipeline pushes a hand-drawn diagram toward clean line art:
// grayscale, strong contrast, slight brightening, then edge sharpening.
func handwritingPipeline(img image.Image) ([]byte, error) {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 50)
	out = imaging.AdjustBrightness(out, 10)
	out = imaging.Sharpen(out, 1.5)
	return encodeJPEG(out, 95)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// qualityScore combines sharpness and contrast of the (possibly enhanced)
// image into a single [0,1] score.
func qualityScore(data []byte) float64 {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return 0
	}
	gray := imaging.Grayscale(img)
	sharpness := laplacianVariance(gray)
	contrast := stddev(gray)
	return math.Min(1.0, (sharpness/500.0+contrast/100.0)/2.0)
}

// laplacianVariance measures sharpness: the variance of a 4-neighbor
// Laplacian over the luminance channel. Low variance means few edges, which
// reads as blur.
func laplacianVariance(img *image.NRGBA) float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	var sum, sumSq float64
	n := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			lap := 4*lum(img, x, y) - lum(img, x-1, y) - lum(img, x+1, y) -
				lum(img, x, y-1) - lum(img, x, y+1)
			sum += lap
			sumSq += lap * lap
			n++
		}
	}
	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}

// edgeDensity is the fraction of pixels whose gradient magnitude exceeds a
// fixed threshold.
func edgeDensity(img *image.NRGBA) float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 2 || h < 2 {
		return 0
	}

	const gradientThreshold = 50.0
	edges := 0
	total := 0
	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			gx := lum(img, x+1, y) - lum(img, x, y)
			gy := lum(img, x, y+1) - lum(img, x, y)
			if math.Hypot(gx, gy) > gradientThreshold {
				edges++
			}
			total++
		}
	}
	return float64(edges) / float64(total)
}

func stddev(img *image.NRGBA) float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	var sum, sumSq float64
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := lum(img, x, y)
			sum += v
			sumSq += v * v
			n++
		}
	}
	mean := sum / float64(n)
	return math.Sqrt(math.Max(0, sumSq/float64(n)-mean*mean))
}

// lum reads the grayscale luminance at (x, y) relative to the image origin.
func lum(img *image.NRGBA, x, y int) float64 {
	off := img.PixOffset(img.Rect.Min.X+x, img.Rect.Min.Y+y)
	// grayscale NRGBA keeps R == G == B
	return float64(img.Pix[off])
}
