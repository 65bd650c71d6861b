// Package imageutil holds the file-format guards applied to uploads before
// any model call is made.
package imageutil

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"

	// register decoders for the supported upload formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Dimension guards for uploaded circuit photos.
const (
	MinDimension = 100
	MaxDimension = 4000
)

// SniffMIME detects the image MIME type from magic bytes, falling back to
// stdlib content sniffing for the remaining supported formats.
func SniffMIME(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8 {
		return "image/jpeg"
	}
	if len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A {
		return "image/png"
	}
	if ct := http.DetectContentType(b); strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "application/octet-stream"
}

// ValidateFormat checks that the bytes decode as a supported image and that
// its dimensions fall inside the accepted window.
func ValidateFormat(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("unsupported or corrupt image: %w", err)
	}
	if cfg.Width < MinDimension || cfg.Height < MinDimension {
		return fmt.Errorf("image dimensions too small (%dx%d, minimum %dx%d)",
			cfg.Width, cfg.Height, MinDimension, MinDimension)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return fmt.Errorf("image dimensions too large (%dx%d, maximum %dx%d)",
			cfg.Width, cfg.Height, MaxDimension, MaxDimension)
	}
	return nil
}

// Optimize prepares the image for the model call: downscale to fit maxDim
// and re-encode as JPEG at quality 85. Every decodable image is re-encoded,
// resized or not, so the model always receives JPEG bytes regardless of the
// upload format. The original bytes come back unchanged only when the image
// cannot be decoded.
func Optimize(data []byte, maxDim int) []byte {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return data
	}
	return buf.Bytes()
}
