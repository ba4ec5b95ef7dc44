package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/greenlens/greenlens/internal/analysis"
	"github.com/greenlens/greenlens/internal/analyzer"
	"github.com/greenlens/greenlens/internal/config"
	apperrors "github.com/greenlens/greenlens/internal/errors"
	"github.com/greenlens/greenlens/internal/logger"
	"github.com/greenlens/greenlens/internal/processing"
	"github.com/greenlens/greenlens/internal/storage"
	"github.com/greenlens/greenlens/internal/vision"
	"github.com/greenlens/greenlens/pkg/models"
)

// QualityRejectionError signals an image too blurry to analyze. Detected
// before any external AI call is made.
type QualityRejectionError struct {
	Report models.ImageQualityReport
}

func (e *QualityRejectionError) Error() string {
	return fmt.Sprintf("image quality too low for analysis (quality=%s, confidence=%d)",
		e.Report.Quality, e.Report.Confidence)
}

// GateError carries an unknown-product or low-confidence verdict. These are
// expected outcomes with user guidance, not system failures.
type GateError struct {
	Decision analysis.Decision
	Report   models.ImageQualityReport
}

func (e *GateError) Error() string {
	return fmt.Sprintf("analysis gated: %s", e.Decision.Outcome)
}

// AnalysisService runs the full pipeline for one request: validate ->
// quality estimate -> optimize -> compose -> external AI -> parse -> gate.
// Each request is independent; no state crosses requests.
type AnalysisService interface {
	AnalyzeImage(ctx context.Context, req models.AnalyzeRequest) (*models.AnalyzeResponse, error)
}

type analysisService struct {
	cfg       *config.Config
	vision    vision.Client
	estimator analyzer.QualityEstimator
	optimizer *processing.Optimizer
}

// NewAnalysisService creates the pipeline orchestrator.
func NewAnalysisService(
	cfg *config.Config,
	visionClient vision.Client,
	estimator analyzer.QualityEstimator,
	optimizer *processing.Optimizer,
) AnalysisService {
	return &analysisService{
		cfg:       cfg,
		vision:    visionClient,
		estimator: estimator,
		optimizer: optimizer,
	}
}

func (s *analysisService) AnalyzeImage(ctx context.Context, req models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	analysisID := uuid.NewString()
	started := time.Now()

	// Input validation happens before any decoding or external work
	if err := storage.ValidateDataURL(req.Image); err != nil {
		return nil, apperrors.NewValidationError(
			"Invalid image format, expected a base64 image data URL", err)
	}

	_, payload, err := storage.ParseDataURL(req.Image)
	if err != nil {
		return nil, apperrors.NewValidationError(
			"Invalid image format, expected a base64 image data URL", err)
	}
	if int64(len(payload)) > s.cfg.MaxImageBytes {
		return nil, apperrors.NewPayloadTooLargeError(
			"Image is too large, use an image under 5MB", nil)
	}

	report := s.estimateQuality(req.Image, analysisID)

	// Hard gate: too blurry to spend an external call on
	if s.cfg.EnableQualityCheck && analyzer.ShouldRejectForQuality(report) {
		return nil, &QualityRejectionError{Report: report}
	}

	imageURL := req.Image
	if s.cfg.EnableOptimization {
		imageURL = s.optimizer.Optimize(imageURL)
	}

	_, imageBytes, err := storage.ParseDataURL(imageURL)
	if err != nil {
		// Optimizer output is our own encoding; fall back to the original
		imageBytes = payload
	}

	prompt := vision.ComposeUserPrompt(req.Prompt)

	logger.WithFields(logrus.Fields{
		"analysis_id": analysisID,
		"image_bytes": len(imageBytes),
		"quality":     report.Quality,
	}).Info("Calling vision model")

	reply, err := s.vision.AnalyzeImage(ctx, prompt, imageBytes)
	if err != nil {
		return nil, err
	}

	productAnalysis, err := analysis.ParseProductAnalysis(reply, report)
	if err != nil {
		logger.WithError(err).WithField("analysis_id", analysisID).Error("Model reply was not interpretable")
		return nil, err
	}

	if decision := analysis.Evaluate(productAnalysis); decision.Outcome != analysis.OutcomeResult {
		return nil, &GateError{Decision: decision, Report: report}
	}

	logger.WithFields(logrus.Fields{
		"analysis_id":          analysisID,
		"product_name":         productAnalysis.ProductName,
		"sustainability_score": productAnalysis.SustainabilityScore,
		"confidence":           productAnalysis.Confidence,
		"processing_time_ms":   time.Since(started).Milliseconds(),
	}).Info("Analysis completed")

	resp := &models.AnalyzeResponse{
		Success:      true,
		AnalysisID:   analysisID,
		Analysis:     productAnalysis,
		ImageQuality: &report,
	}
	if s.cfg.DevMode {
		resp.RawReply = reply
	}
	return resp, nil
}

// estimateQuality never aborts the request: decode failures produce the
// soft-failure unknown report and the pipeline continues with defaults.
func (s *analysisService) estimateQuality(imageURL, analysisID string) models.ImageQualityReport {
	if !s.cfg.EnableQualityCheck {
		return models.ImageQualityReport{
			Quality:    models.QualityUnknown,
			Confidence: 75,
		}
	}

	decoded, err := storage.DecodeDataURL(imageURL)
	if err != nil {
		logger.WithError(err).WithField("analysis_id", analysisID).Warn("Quality estimate unavailable")
		return analyzer.UnknownQualityReport()
	}
	return s.estimator.Estimate(decoded.Image, decoded.Format)
}
