package analysis

import (
	"net/url"
	"strings"

	"github.com/greenlens/greenlens/pkg/models"
)

// Search links always carry this qualifier alongside the product name.
const searchQualifier = "eco friendly sustainable"

// GeneratePlatformLinks derives marketplace search URLs from a product name.
// Pure and idempotent: the same name always yields the same three links, in
// a fixed order. Model-supplied purchase links are never used; this is the
// only source of shopping URLs in the system.
func GeneratePlatformLinks(name string) []models.PlatformLink {
	// Lower-case and collapse whitespace before applying each platform's
	// separator convention.
	terms := strings.Fields(strings.ToLower(name + " " + searchQualifier))
	query := url.QueryEscape(strings.Join(terms, " "))

	// QueryEscape uses "+" for spaces, which is Amazon's convention; the
	// others want literal percent-encoded spaces.
	spaced := strings.ReplaceAll(query, "+", "%20")

	return []models.PlatformLink{
		{
			Platform:    models.PlatformFlipkart,
			URL:         "https://www.flipkart.com/search?q=" + spaced,
			DisplayName: "Flipkart",
		},
		{
			Platform:    models.PlatformAmazon,
			URL:         "https://www.amazon.in/s?k=" + query,
			DisplayName: "Amazon",
		},
		{
			Platform:    models.PlatformMeesho,
			URL:         "https://www.meesho.com/search?q=" + spaced,
			DisplayName: "Meesho",
		},
	}
}
