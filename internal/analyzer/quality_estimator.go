package analyzer

import (
	"image"

	"gonum.org/v1/gonum/stat"

	"github.com/greenlens/greenlens/pkg/models"
)

// Threshold constants for the statistical quality estimate.
const (
	minChannelMean   = 50.0
	minChannelStdDev = 20.0
	minDimension     = 200
	maxDimension     = 4000

	blurConfidence    = 50
	poorConfidenceCap = 60
	goodConfidence    = 90
	unknownConfidence = 75

	// Hard gate: blur below this confidence is rejected before the AI call
	rejectConfidenceFloor = 40

	// Upper bound on pixels sampled per channel; larger images are strided
	maxSamples = 1 << 18
)

const (
	blurWarning       = "Image appears blurry or out of focus - try taking a clearer photo"
	lowResWarning     = "Image resolution is low - analysis may be less accurate"
	largeImageWarning = "Large image will be compressed before analysis"
	unknownWarning    = "Could not analyze image quality"
)

// QualityEstimator produces an ImageQualityReport from decoded pixels.
type QualityEstimator interface {
	Estimate(img image.Image, format string) models.ImageQualityReport
}

type qualityEstimator struct{}

// NewQualityEstimator creates the statistical quality estimator.
//
// The estimate uses per-channel mean and standard deviation of pixel
// intensity. Low mean or low deviation is read as a dark or low-contrast
// capture consistent with an out-of-focus photo. This is an approximation,
// not true blur detection.
func NewQualityEstimator() QualityEstimator {
	return &qualityEstimator{}
}

func (e *qualityEstimator) Estimate(img image.Image, format string) models.ImageQualityReport {
	if img == nil {
		return UnknownQualityReport()
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return UnknownQualityReport()
	}

	r, g, b := sampleChannels(img)
	if len(r) == 0 {
		return UnknownQualityReport()
	}

	report := models.ImageQualityReport{
		Quality:    models.QualityGood,
		Confidence: goodConfidence,
		Metadata: &models.ImageMetadata{
			Width:  width,
			Height: height,
			Format: format,
		},
	}

	for _, channel := range [][]float64{r, g, b} {
		mean, stddev := stat.MeanStdDev(channel, nil)
		if mean < minChannelMean || stddev < minChannelStdDev {
			report.Quality = models.QualityBlur
			report.Confidence = blurConfidence
			report.Warnings = append(report.Warnings, blurWarning)
			break
		}
	}

	// Low resolution overrides good but not blur
	if width < minDimension || height < minDimension {
		if report.Quality != models.QualityBlur {
			report.Quality = models.QualityPoor
		}
		if report.Confidence > poorConfidenceCap {
			report.Confidence = poorConfidenceCap
		}
		report.Warnings = append(report.Warnings, lowResWarning)
	}

	// Informational only; tier and confidence stay as they are
	if width > maxDimension || height > maxDimension {
		report.Warnings = append(report.Warnings, largeImageWarning)
	}

	return report
}

// UnknownQualityReport is the soft-failure report used when the estimator
// cannot run at all. Downstream processing continues with defaults.
func UnknownQualityReport() models.ImageQualityReport {
	return models.ImageQualityReport{
		Quality:    models.QualityUnknown,
		Confidence: unknownConfidence,
		Warnings:   []string{unknownWarning},
	}
}

// ShouldRejectForQuality reports whether the image is too blurry to spend an
// external AI call on.
func ShouldRejectForQuality(report models.ImageQualityReport) bool {
	return report.Quality == models.QualityBlur && report.Confidence < rejectConfidenceFloor
}

// sampleChannels collects per-channel intensities on the 0-255 scale,
// striding over large images to keep the sample bounded.
func sampleChannels(img image.Image) (r, g, b []float64) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	stride := 1
	for (width/stride)*(height/stride) > maxSamples {
		stride++
	}

	n := (width/stride + 1) * (height/stride + 1)
	r = make([]float64, 0, n)
	g = make([]float64, 0, n)
	b = make([]float64, 0, n)

	for y := bounds.Min.Y; y < bounds.Max.Y; y += stride {
		for x := bounds.Min.X; x < bounds.Max.X; x += stride {
			rv, gv, bv, _ := img.At(x, y).RGBA()
			r = append(r, float64(rv>>8))
			g = append(g, float64(gv>>8))
			b = append(b, float64(bv>>8))
		}
	}
	return r, g, b
}
