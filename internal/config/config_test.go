package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.AnalysisTimeout != 60*time.Second {
		t.Errorf("Expected 60s analysis timeout, got %s", cfg.AnalysisTimeout)
	}
	if cfg.MaxImageBytes != 5*1024*1024 {
		t.Errorf("Expected 5MB image limit, got %d", cfg.MaxImageBytes)
	}
	if cfg.OptimizeTargetKB != 4000 {
		t.Errorf("Expected 4000KB optimize target, got %d", cfg.OptimizeTargetKB)
	}
	if !cfg.EnableQualityCheck || !cfg.EnableOptimization || !cfg.EnableAlternatives {
		t.Error("Expected pipeline features enabled by default")
	}
	if cfg.DevMode {
		t.Error("Expected dev mode off by default")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ANALYSIS_TIMEOUT", "30s")
	t.Setenv("VISION_MODEL", "llava")
	t.Setenv("ENABLE_OPTIMIZATION", "false")
	t.Setenv("DEV_MODE", "true")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.AnalysisTimeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %s", cfg.AnalysisTimeout)
	}
	if cfg.EnableOptimization {
		t.Error("Expected optimization disabled")
	}
	if !cfg.DevMode {
		t.Error("Expected dev mode enabled")
	}
	if !cfg.ModelConfigured() {
		t.Error("Expected model configured with VISION_MODEL set")
	}
}

func TestLoadFromEnv_InvalidPort(t *testing.T) {
	for _, port := range []string{"0", "70000", "abc"} {
		t.Setenv("PORT", port)
		if _, err := LoadFromEnv(); err == nil {
			t.Errorf("Expected error for PORT=%q", port)
		}
	}
}

func TestLoadFromEnv_BadValuesFallBack(t *testing.T) {
	t.Setenv("ANALYSIS_TIMEOUT", "not a duration")
	t.Setenv("MAX_IMAGE_BYTES", "lots")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.AnalysisTimeout != 60*time.Second {
		t.Errorf("Expected fallback 60s timeout, got %s", cfg.AnalysisTimeout)
	}
	if cfg.MaxImageBytes != 5*1024*1024 {
		t.Errorf("Expected fallback 5MB limit, got %d", cfg.MaxImageBytes)
	}
}

func TestModelConfigured(t *testing.T) {
	cfg := &Config{OllamaURL: "http://localhost:11434", VisionModel: ""}
	if cfg.ModelConfigured() {
		t.Error("Expected unconfigured without a model name")
	}
	cfg.VisionModel = "llava"
	if !cfg.ModelConfigured() {
		t.Error("Expected configured with URL and model")
	}
}

func TestServerAddress(t *testing.T) {
	cfg := &Config{Host: " 0.0.0.0 ", Port: " 8080 "}
	if got := cfg.ServerAddress(); got != "0.0.0.0:8080" {
		t.Errorf("Expected 0.0.0.0:8080, got %s", got)
	}
}
