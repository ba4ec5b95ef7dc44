package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/greenlens/greenlens/internal/config"
	apperrors "github.com/greenlens/greenlens/internal/errors"
	"github.com/greenlens/greenlens/internal/logger"
	"github.com/greenlens/greenlens/internal/service"
	"github.com/greenlens/greenlens/pkg/models"
)

// NewHandler wires the HTTP surface: one analysis operation plus the
// informational status and health side channels.
func NewHandler(svc service.AnalysisService, cfg *config.Config) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
	)

	r.GET("/health", healthCheck)
	r.GET("/api/status", statusReport(cfg))
	r.POST("/api/analyze", analyzeImage(svc, cfg))

	return r
}

func analyzeImage(svc service.AnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()

		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithField("ip", c.ClientIP()).Error("Invalid request format")
			c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "Invalid request format, expected JSON with an image field",
			})
			return
		}

		logger.WithFields(logrus.Fields{
			"path": c.Request.URL.Path,
			"ip":   c.ClientIP(),
		}).Info("Processing analysis request")

		resp, err := svc.AnalyzeImage(c.Request.Context(), req)
		if err != nil {
			respondAnalysisError(c, cfg, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"analysis_id":        resp.AnalysisID,
			"processing_time_ms": time.Since(started).Milliseconds(),
		}).Info("Analysis request completed")

		c.JSON(http.StatusOK, resp)
	}
}

// respondAnalysisError maps pipeline failures onto the structured error
// envelope. Quality rejections attach the full report; gate verdicts carry
// remediation suggestions; everything else maps through the error taxonomy.
func respondAnalysisError(c *gin.Context, cfg *config.Config, err error) {
	var qualityErr *service.QualityRejectionError
	if errors.As(err, &qualityErr) {
		report := qualityErr.Report
		confidence := report.Confidence
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Error:        "Image quality is too low to analyze, please retake the photo",
			ImageQuality: &report,
			Confidence:   &confidence,
			Warnings:     report.Warnings,
		})
		return
	}

	var gateErr *service.GateError
	if errors.As(err, &gateErr) {
		report := gateErr.Report
		confidence := report.Confidence
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:        gateErr.Decision.Message,
			Details:      gateErr.Decision.Reason,
			Suggestions:  gateErr.Decision.Suggestions,
			ImageQuality: &report,
			Confidence:   &confidence,
		})
		return
	}

	status := apperrors.GetStatusCode(err)
	body := models.ErrorResponse{Error: "Analysis failed, please try again"}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body.Error = appErr.Message
		// Provider technical detail only leaves the server in dev mode
		if cfg.DevMode && appErr.Cause != nil {
			body.Details = appErr.Cause.Error()
		}
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": status,
		"path":        c.Request.URL.Path,
		"ip":          c.ClientIP(),
	}).Error("Analysis request failed")

	c.AbortWithStatusJSON(status, body)
}

func statusReport(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.StatusResponse{
			Status:          "available",
			ModelConfigured: cfg.ModelConfigured(),
			Model:           cfg.VisionModel,
			Features: models.StatusFeatures{
				QualityCheck: cfg.EnableQualityCheck,
				Optimization: cfg.EnableOptimization,
				Alternatives: cfg.EnableAlternatives,
			},
			Time: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
