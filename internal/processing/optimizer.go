package processing

import (
	"bytes"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/greenlens/greenlens/internal/logger"
	"github.com/greenlens/greenlens/internal/storage"
)

const (
	// DefaultTargetKB is the transport budget for the image sent upstream.
	DefaultTargetKB = 4000

	maxLongerDim = 1920
	startQuality = 85
	qualityStep  = 10
	minQuality   = 40
)

// Optimizer re-encodes oversized images to stay under a transport budget
// with best-effort fidelity. It never fails: any decode or encode problem
// falls back to the original payload.
type Optimizer struct {
	targetKB int
}

func NewOptimizer(targetKB int) *Optimizer {
	if targetKB <= 0 {
		targetKB = DefaultTargetKB
	}
	return &Optimizer{targetKB: targetKB}
}

// Optimize returns a data URL at or under the budget when possible, or the
// input unchanged when it is already small enough or cannot be processed.
func (o *Optimizer) Optimize(dataURL string) string {
	budget := o.targetKB * 1024

	_, payload, err := storage.ParseDataURL(dataURL)
	if err != nil {
		return dataURL
	}
	if len(payload) <= budget {
		return dataURL
	}

	decoded, err := storage.DecodeDataURL(dataURL)
	if err != nil {
		logger.WithError(err).Warn("Image optimization skipped, using original")
		return dataURL
	}

	img := decoded.Image
	bounds := img.Bounds()
	if w, h := bounds.Dx(), bounds.Dy(); w > maxLongerDim || h > maxLongerDim {
		// Constrain the longer dimension, preserving aspect ratio. Never
		// upscales: this branch only runs when a dimension exceeds the cap.
		if w >= h {
			img = imaging.Resize(img, maxLongerDim, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxLongerDim, imaging.Lanczos)
		}
	}

	var encoded []byte
	for quality := startQuality; quality >= minQuality; quality -= qualityStep {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			logger.WithError(err).Warn("Image re-encode failed, using original")
			return dataURL
		}
		encoded = buf.Bytes()
		if len(encoded) <= budget {
			break
		}
	}

	// Accept the floor-quality result even if still over budget
	logger.WithFields(logrus.Fields{
		"original_bytes":  len(payload),
		"optimized_bytes": len(encoded),
		"budget_bytes":    budget,
	}).Debug("Image optimized")

	return storage.EncodeDataURL("image/jpeg", encoded)
}
