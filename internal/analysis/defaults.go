package analysis

import "github.com/greenlens/greenlens/pkg/models"

// Sentinels and fixed fallbacks applied during field completion. Kept in one
// place so tests can enumerate them exhaustively.
const (
	DefaultProductName         = "Unknown Product"
	DefaultSustainabilityScore = 50

	// Fixed deterministic score for alternatives the model names without
	// scoring. Deliberately not randomized so identical replies always
	// produce identical records.
	DefaultAlternativeScore = 80

	DefaultAlternativeDescription = "A more sustainable option worth considering"
)

// FieldDefaults maps each free-text analysis field to its fallback sentence.
var FieldDefaults = map[string]string{
	"recyclability":       "Recyclability information not available",
	"carbonFootprint":     "Carbon footprint data not available",
	"waterFootprint":      "Water footprint data not available",
	"materialComposition": "Material composition not identified",
	"lifespan":            "Lifespan estimate not available",
	"energyProduction":    "Energy production impact not available",
}

// FallbackAlternatives is the fixed 3-item list substituted when the model
// supplies no usable alternatives.
func FallbackAlternatives() []models.Alternative {
	entries := []struct {
		name, description string
	}{
		{
			name:        "Locally Manufactured Alternative",
			description: "A similar product made closer to home, cutting transport emissions",
		},
		{
			name:        "Certified Organic Alternative",
			description: "A certified organic version with a lower chemical footprint",
		},
		{
			name:        "Refurbished or Second-Hand Option",
			description: "A refurbished or pre-owned equivalent that extends product life",
		},
	}

	alternatives := make([]models.Alternative, 0, len(entries))
	for _, e := range entries {
		score := DefaultAlternativeScore
		alternatives = append(alternatives, models.Alternative{
			Name:          e.name,
			Description:   e.description,
			Score:         &score,
			PlatformLinks: GeneratePlatformLinks(e.name),
		})
	}
	return alternatives
}
