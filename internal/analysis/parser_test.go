package analysis

import (
	"reflect"
	"strings"
	"testing"

	apperrors "github.com/greenlens/greenlens/internal/errors"
	"github.com/greenlens/greenlens/pkg/models"
)

func goodQualityReport() models.ImageQualityReport {
	return models.ImageQualityReport{
		Quality:    models.QualityGood,
		Confidence: 90,
	}
}

func TestParseProductAnalysis_CleanReply(t *testing.T) {
	raw := `{
		"productName": "Bamboo Toothbrush",
		"sustainabilityScore": 85,
		"confidence": 92,
		"ecoLabels": ["FSC Certified"],
		"recyclability": "Fully compostable handle",
		"carbonFootprint": "Low manufacturing emissions",
		"waterFootprint": "Low water usage",
		"materialComposition": "Bamboo and nylon bristles",
		"lifespan": "About three months",
		"energyProduction": "Minimal energy required",
		"alternatives": [{"name": "Wooden Toothbrush", "description": "Similar but local", "score": 88}]
	}`

	analysis, err := ParseProductAnalysis(raw, goodQualityReport())
	if err != nil {
		t.Fatalf("Expected successful parse, got error: %v", err)
	}

	if analysis.ProductName != "Bamboo Toothbrush" {
		t.Errorf("Expected product name 'Bamboo Toothbrush', got %q", analysis.ProductName)
	}
	if analysis.SustainabilityScore != 85 {
		t.Errorf("Expected score 85, got %d", analysis.SustainabilityScore)
	}
	if analysis.Confidence != 92 {
		t.Errorf("Expected confidence 92, got %d", analysis.Confidence)
	}
	if len(analysis.EcoLabels) != 1 || analysis.EcoLabels[0] != "FSC Certified" {
		t.Errorf("Unexpected eco labels: %v", analysis.EcoLabels)
	}
	if len(analysis.Alternatives) != 1 {
		t.Fatalf("Expected 1 alternative, got %d", len(analysis.Alternatives))
	}
	alt := analysis.Alternatives[0]
	if alt.Name != "Wooden Toothbrush" || alt.Score == nil || *alt.Score != 88 {
		t.Errorf("Unexpected alternative: %+v", alt)
	}
	if len(alt.PlatformLinks) != 3 {
		t.Errorf("Expected 3 platform links, got %d", len(alt.PlatformLinks))
	}
}

func TestParseProductAnalysis_EmbeddedObject(t *testing.T) {
	raw := `Sure! Here is the result: {"productName":"Mug","sustainabilityScore":70,"confidence":80} Hope that helps!`

	analysis, err := ParseProductAnalysis(raw, goodQualityReport())
	if err != nil {
		t.Fatalf("Expected fallback extraction to succeed, got error: %v", err)
	}
	if analysis.ProductName != "Mug" {
		t.Errorf("Expected product name 'Mug', got %q", analysis.ProductName)
	}
	if analysis.SustainabilityScore != 70 {
		t.Errorf("Expected score 70, got %d", analysis.SustainabilityScore)
	}
}

func TestParseProductAnalysis_MarkdownFences(t *testing.T) {
	raw := "```json\n{\"productName\":\"Steel Bottle\",\"sustainabilityScore\":90}\n```"

	analysis, err := ParseProductAnalysis(raw, goodQualityReport())
	if err != nil {
		t.Fatalf("Expected fenced reply to parse, got error: %v", err)
	}
	if analysis.ProductName != "Steel Bottle" {
		t.Errorf("Expected product name 'Steel Bottle', got %q", analysis.ProductName)
	}
}

func TestParseProductAnalysis_Unparsable(t *testing.T) {
	for _, raw := range []string{
		"",
		"I cannot see any product in this image.",
		"{\"productName\": \"Mug\"", // never closed
	} {
		_, err := ParseProductAnalysis(raw, goodQualityReport())
		if err == nil {
			t.Errorf("Expected parse error for %q", raw)
			continue
		}
		if !apperrors.IsType(err, apperrors.ErrorTypeParse) {
			t.Errorf("Expected parse error type for %q, got %v", raw, err)
		}
	}
}

func TestParseProductAnalysis_DefaultsApplied(t *testing.T) {
	analysis, err := ParseProductAnalysis(`{}`, goodQualityReport())
	if err != nil {
		t.Fatalf("Field completion must not fail: %v", err)
	}

	if analysis.ProductName != DefaultProductName {
		t.Errorf("Expected default product name, got %q", analysis.ProductName)
	}
	if analysis.SustainabilityScore != DefaultSustainabilityScore {
		t.Errorf("Expected default score %d, got %d", DefaultSustainabilityScore, analysis.SustainabilityScore)
	}
	// Confidence inherits from the quality report when the model omits it
	if analysis.Confidence != 90 {
		t.Errorf("Expected confidence inherited from quality report (90), got %d", analysis.Confidence)
	}
	if analysis.EcoLabels == nil || len(analysis.EcoLabels) != 0 {
		t.Errorf("Expected empty non-nil eco labels, got %v", analysis.EcoLabels)
	}

	textFields := map[string]string{
		"recyclability":       analysis.Recyclability,
		"carbonFootprint":     analysis.CarbonFootprint,
		"waterFootprint":      analysis.WaterFootprint,
		"materialComposition": analysis.MaterialComposition,
		"lifespan":            analysis.Lifespan,
		"energyProduction":    analysis.EnergyProduction,
	}
	for field, got := range textFields {
		if got != FieldDefaults[field] {
			t.Errorf("Expected default for %s, got %q", field, got)
		}
	}
	if len(textFields) != len(FieldDefaults) {
		t.Errorf("Defaults table has %d entries, record exposes %d", len(FieldDefaults), len(textFields))
	}

	if len(analysis.Alternatives) != 3 {
		t.Errorf("Expected 3 fallback alternatives, got %d", len(analysis.Alternatives))
	}
}

func TestParseProductAnalysis_ScoreClamping(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		score      int
		confidence int
	}{
		{"above range", `{"sustainabilityScore": 150, "confidence": 120}`, 100, 100},
		{"below range", `{"sustainabilityScore": -5, "confidence": -1}`, 0, 0},
		{"at bounds", `{"sustainabilityScore": 100, "confidence": 0}`, 100, 0},
		{"quoted number", `{"sustainabilityScore": "85", "confidence": "77"}`, 85, 77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := ParseProductAnalysis(tt.raw, goodQualityReport())
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if analysis.SustainabilityScore != tt.score {
				t.Errorf("Expected score %d, got %d", tt.score, analysis.SustainabilityScore)
			}
			if analysis.Confidence != tt.confidence {
				t.Errorf("Expected confidence %d, got %d", tt.confidence, analysis.Confidence)
			}
		})
	}
}

func TestParseProductAnalysis_AlternativesNormalization(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		expectedCount int
		expectedFirst string
	}{
		{"absent", `{}`, 3, "Locally Manufactured Alternative"},
		{"empty list", `{"alternatives": []}`, 3, "Locally Manufactured Alternative"},
		{"wrong shape", `{"alternatives": "steel bottle"}`, 3, "Locally Manufactured Alternative"},
		{"bare strings", `{"alternatives": ["Steel Bottle", "Glass Jar"]}`, 2, "Steel Bottle"},
		{"objects", `{"alternatives": [{"name": "Cloth Bag", "score": 95}]}`, 1, "Cloth Bag"},
		{"mixed with junk", `{"alternatives": ["Steel Bottle", 42, {"description": "no name"}]}`, 1, "Steel Bottle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := ParseProductAnalysis(tt.raw, goodQualityReport())
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(analysis.Alternatives) != tt.expectedCount {
				t.Fatalf("Expected %d alternatives, got %d", tt.expectedCount, len(analysis.Alternatives))
			}
			if analysis.Alternatives[0].Name != tt.expectedFirst {
				t.Errorf("Expected first alternative %q, got %q", tt.expectedFirst, analysis.Alternatives[0].Name)
			}
			for _, alt := range analysis.Alternatives {
				if alt.Score == nil {
					t.Errorf("Alternative %q missing score", alt.Name)
				}
				if alt.Description == "" {
					t.Errorf("Alternative %q missing description", alt.Name)
				}
				if len(alt.PlatformLinks) != 3 {
					t.Errorf("Alternative %q has %d links, want 3", alt.Name, len(alt.PlatformLinks))
				}
			}
		})
	}
}

func TestParseProductAnalysis_ModelLinksDiscarded(t *testing.T) {
	raw := `{"productName": "Bottle", "confidence": 80, "alternatives": [
		{"name": "Steel Bottle", "link": "https://evil.example/buy", "platformLinks": [{"url": "https://evil.example/x"}]}
	]}`

	analysis, err := ParseProductAnalysis(raw, goodQualityReport())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, alt := range analysis.Alternatives {
		for _, link := range alt.PlatformLinks {
			if strings.Contains(link.URL, "evil.example") {
				t.Errorf("Model-supplied link survived normalization: %s", link.URL)
			}
		}
	}
}

func TestParseProductAnalysis_OutOfRangeScoreWithBareAlternative(t *testing.T) {
	// End-to-end shape: out-of-range score plus a single string alternative
	raw := `{"productName": "Plastic Bottle", "sustainabilityScore": 150, "confidence": 85, "alternatives": ["Steel Bottle"]}`

	analysis, err := ParseProductAnalysis(raw, goodQualityReport())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if analysis.SustainabilityScore != 100 {
		t.Errorf("Expected clamped score 100, got %d", analysis.SustainabilityScore)
	}
	if len(analysis.Alternatives) != 1 {
		t.Fatalf("Expected 1 alternative, got %d", len(analysis.Alternatives))
	}
	alt := analysis.Alternatives[0]
	if alt.Name != "Steel Bottle" {
		t.Errorf("Expected alternative 'Steel Bottle', got %q", alt.Name)
	}
	if alt.Score == nil || *alt.Score != DefaultAlternativeScore {
		t.Errorf("Expected deterministic default score %d, got %v", DefaultAlternativeScore, alt.Score)
	}
	if len(alt.PlatformLinks) != 3 {
		t.Errorf("Expected 3 generated platform links, got %d", len(alt.PlatformLinks))
	}
}

func TestParseProductAnalysis_WarningsCarriedFromQualityReport(t *testing.T) {
	report := models.ImageQualityReport{
		Quality:    models.QualityPoor,
		Confidence: 60,
		Warnings:   []string{"Image resolution is low - analysis may be less accurate"},
	}

	analysis, err := ParseProductAnalysis(`{"productName": "Mug", "confidence": 80}`, report)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(analysis.Warnings, report.Warnings) {
		t.Errorf("Expected warnings %v, got %v", report.Warnings, analysis.Warnings)
	}
}

func TestParseProductAnalysis_Deterministic(t *testing.T) {
	raw := `{"sustainabilityScore": 42, "alternatives": ["Steel Bottle", "Glass Jar"]}`
	report := goodQualityReport()

	first, err := ParseProductAnalysis(raw, report)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := ParseProductAnalysis(raw, report)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical output for identical input")
	}
}
