package container

import (
	"fmt"
	"net/http"

	"github.com/greenlens/greenlens/internal/analyzer"
	"github.com/greenlens/greenlens/internal/config"
	"github.com/greenlens/greenlens/internal/processing"
	"github.com/greenlens/greenlens/internal/service"
	"github.com/greenlens/greenlens/internal/transport"
	"github.com/greenlens/greenlens/internal/vision"
)

// Container holds all application dependencies
type Container struct {
	config  *config.Config
	vision  vision.Client
	service service.AnalysisService
	handler http.Handler
}

// NewContainer builds the dependency graph from configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	visionClient, err := vision.NewOllamaClient(cfg.OllamaURL, cfg.VisionModel, cfg.AnalysisTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}

	estimator := analyzer.NewQualityEstimator()
	optimizer := processing.NewOptimizer(cfg.OptimizeTargetKB)
	analysisService := service.NewAnalysisService(cfg, visionClient, estimator, optimizer)
	handler := transport.NewHandler(analysisService, cfg)

	return &Container{
		config:  cfg,
		vision:  visionClient,
		service: analysisService,
		handler: handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}
