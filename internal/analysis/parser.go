package analysis

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/greenlens/greenlens/internal/errors"
	"github.com/greenlens/greenlens/pkg/models"
)

// ParseProductAnalysis turns a raw model reply into a fully-populated
// ProductAnalysis. Given identical inputs the output is identical: every
// fallback is deterministic.
//
// Pipeline: sanitize -> strict parse -> balanced-object fallback -> field
// completion from the defaults table -> numeric clamps -> alternatives
// normalization -> quality/confidence reconciliation. Only the parse step
// can fail; field completion always yields a complete record.
func ParseProductAnalysis(raw string, quality models.ImageQualityReport) (*models.ProductAnalysis, error) {
	fields, err := parseReply(raw)
	if err != nil {
		return nil, err
	}

	confidence := float64(quality.Confidence)
	if v, ok := numberField(fields, "confidence"); ok {
		confidence = v
	}

	analysis := &models.ProductAnalysis{
		ProductName:         stringOr(fields, "productName", DefaultProductName),
		SustainabilityScore: clampScore(numberOr(fields, "sustainabilityScore", DefaultSustainabilityScore)),
		Confidence:          clampScore(confidence),
		EcoLabels:           stringList(fields, "ecoLabels"),
		Recyclability:       stringOr(fields, "recyclability", FieldDefaults["recyclability"]),
		CarbonFootprint:     stringOr(fields, "carbonFootprint", FieldDefaults["carbonFootprint"]),
		WaterFootprint:      stringOr(fields, "waterFootprint", FieldDefaults["waterFootprint"]),
		MaterialComposition: stringOr(fields, "materialComposition", FieldDefaults["materialComposition"]),
		Lifespan:            stringOr(fields, "lifespan", FieldDefaults["lifespan"]),
		EnergyProduction:    stringOr(fields, "energyProduction", FieldDefaults["energyProduction"]),
		Alternatives:        normalizeAlternatives(fields["alternatives"]),
		Reason:              stringOr(fields, "reason", ""),
	}

	if len(quality.Warnings) > 0 {
		analysis.Warnings = append([]string(nil), quality.Warnings...)
	}

	return analysis, nil
}

// parseReply attempts strict parsing of the sanitized reply, then falls back
// to the first balanced top-level object embedded in the text.
func parseReply(raw string) (map[string]json.RawMessage, error) {
	cleaned := sanitizeReply(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err == nil {
		return fields, nil
	}

	extracted, ok := firstBalancedObject(cleaned)
	if ok {
		if err := json.Unmarshal([]byte(extracted), &fields); err == nil {
			return fields, nil
		}
	}

	return nil, apperrors.NewParseError("AI response could not be interpreted", nil)
}

var (
	trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)
	blockCommentPattern  = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// sanitizeReply strips markdown fences, comments, and trailing commas that
// vision models habitually wrap around their JSON.
func sanitizeReply(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.Trim(strings.TrimSpace(raw), "`")

	raw = blockCommentPattern.ReplaceAllString(raw, "")
	raw = trailingCommaPattern.ReplaceAllString(raw, "$1")

	return strings.TrimSpace(raw)
}

// firstBalancedObject scans for the first top-level {...} substring with
// balanced braces, ignoring braces inside JSON strings.
func firstBalancedObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// rawAlternative accepts the object shape the instructions ask for, plus the
// link fields models invent anyway. Links are discarded unconditionally.
type rawAlternative struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Score       *float64 `json:"score"`
}

// normalizeAlternatives converts whatever the model sent, bare name strings
// or structured objects, into fully-populated Alternative records. Absent,
// empty, or unusable input yields the fixed fallback list.
func normalizeAlternatives(raw json.RawMessage) []models.Alternative {
	if raw == nil {
		return FallbackAlternatives()
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil || len(entries) == 0 {
		return FallbackAlternatives()
	}

	alternatives := make([]models.Alternative, 0, len(entries))
	for _, entry := range entries {
		var name, description string
		var score *float64

		var asString string
		if err := json.Unmarshal(entry, &asString); err == nil {
			name = asString
		} else {
			var asObject rawAlternative
			if err := json.Unmarshal(entry, &asObject); err != nil {
				continue
			}
			name = asObject.Name
			description = asObject.Description
			score = asObject.Score
		}

		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.TrimSpace(description) == "" {
			description = DefaultAlternativeDescription
		}

		value := DefaultAlternativeScore
		if score != nil {
			value = clampScore(*score)
		}

		alternatives = append(alternatives, models.Alternative{
			Name:          name,
			Description:   description,
			Score:         &value,
			PlatformLinks: GeneratePlatformLinks(name),
		})
	}

	if len(alternatives) == 0 {
		return FallbackAlternatives()
	}
	return alternatives
}

// clampScore pulls out-of-range values to the nearest bound of [0,100].
func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// stringOr reads a string field, tolerating numeric values, and substitutes
// the fallback for anything absent or wrong-shaped.
func stringOr(fields map[string]json.RawMessage, key, fallback string) string {
	raw, ok := fields[key]
	if !ok {
		return fallback
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
		return fallback
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fallback
}

// numberField reads a numeric field, tolerating numbers quoted as strings.
func numberField(fields map[string]json.RawMessage, key string) (float64, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func numberOr(fields map[string]json.RawMessage, key string, fallback float64) float64 {
	if v, ok := numberField(fields, key); ok {
		return v
	}
	return fallback
}

// stringList reads a list of strings, dropping non-string members. A missing
// or wrong-shaped field yields an empty, non-nil list.
func stringList(fields map[string]json.RawMessage, key string) []string {
	result := []string{}
	raw, ok := fields[key]
	if !ok {
		return result
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return result
	}
	for _, entry := range entries {
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				result = append(result, s)
			}
		}
	}
	return result
}
