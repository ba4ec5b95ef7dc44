package analysis

import (
	"strings"

	"github.com/arbovm/levenshtein"

	"github.com/greenlens/greenlens/pkg/models"
)

// Outcome is the terminal state of the post-analysis gate.
type Outcome string

const (
	OutcomeResult         Outcome = "result"
	OutcomeUnknownProduct Outcome = "unknown_product"
	OutcomeLowConfidence  Outcome = "low_confidence"
)

// Confidence strictly below this routes to the low-confidence outcome.
const lowConfidenceThreshold = 50

// Sentinel product names the model uses for unidentifiable items. Matched
// exactly and with distance 1 to absorb the model's occasional misspelling.
var unknownSentinels = []string{"unidentified product", "unclear"}

const (
	unknownProductMessage = "Could not identify the product in the image"
	unknownDefaultReason  = "The product could not be identified from the photo"
	lowConfidenceMessage  = "Analysis confidence is too low to give a reliable result"
)

var unknownProductSuggestions = []string{
	"Take the photo in brighter, natural light",
	"Move closer so the product fills the frame",
	"Make sure the product label faces the camera",
	"Use a plain background without other objects",
}

var lowConfidenceSuggestions = []string{
	"Retake the photo with better lighting",
	"Hold the camera steady to avoid blur",
	"Capture the product from the front",
	"Avoid reflections and shadows on the product",
}

// Decision describes the gate's verdict. For non-Result outcomes it carries
// the user-facing message and remediation suggestions.
type Decision struct {
	Outcome     Outcome
	Message     string
	Reason      string
	Suggestions []string
}

// Evaluate reads the analysis and decides whether to surface it or to
// replace it with an error state. Unknown-product detection runs before the
// confidence check, so an unknown product with low confidence reports as
// unknown. The analysis itself is never mutated.
func Evaluate(analysis *models.ProductAnalysis) Decision {
	if isUnknownProduct(analysis.ProductName) {
		reason := strings.TrimSpace(analysis.Reason)
		if reason == "" {
			reason = unknownDefaultReason
		}
		return Decision{
			Outcome:     OutcomeUnknownProduct,
			Message:     unknownProductMessage,
			Reason:      reason,
			Suggestions: unknownProductSuggestions,
		}
	}

	if analysis.Confidence < lowConfidenceThreshold {
		return Decision{
			Outcome:     OutcomeLowConfidence,
			Message:     lowConfidenceMessage,
			Suggestions: lowConfidenceSuggestions,
		}
	}

	return Decision{Outcome: OutcomeResult}
}

func isUnknownProduct(name string) bool {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if strings.Contains(normalized, "unknown") {
		return true
	}
	for _, sentinel := range unknownSentinels {
		if normalized == sentinel || levenshtein.Distance(normalized, sentinel) <= 1 {
			return true
		}
	}
	return false
}
