package models

// QualityTier classifies an image by the heuristic quality estimator.
type QualityTier string

const (
	QualityGood    QualityTier = "good"
	QualityPoor    QualityTier = "poor"
	QualityBlur    QualityTier = "blur"
	QualityUnknown QualityTier = "unknown"
)

// ImageMetadata describes the decoded image attached to a quality report.
type ImageMetadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// ImageQualityReport is produced once per request by the quality estimator
// and is immutable afterward. The estimate is a cheap statistical
// approximation, not real blur detection.
type ImageQualityReport struct {
	Quality    QualityTier    `json:"quality"`
	Confidence int            `json:"confidence"`
	Warnings   []string       `json:"warnings,omitempty"`
	Metadata   *ImageMetadata `json:"metadata,omitempty"`
}

// Platform identifies a shopping platform for generated search links.
type Platform string

const (
	PlatformFlipkart Platform = "flipkart"
	PlatformAmazon   Platform = "amazon"
	PlatformMeesho   Platform = "meesho"
)

// PlatformLink is a deterministically generated marketplace search URL.
// Links are always derived from the product name by this system and never
// taken verbatim from the model.
type PlatformLink struct {
	Platform    Platform `json:"platform"`
	URL         string   `json:"url"`
	DisplayName string   `json:"displayName"`
}

// Alternative is a suggested greener substitute product category.
type Alternative struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Score         *int           `json:"score,omitempty"`
	PlatformLinks []PlatformLink `json:"platformLinks"`
}

// ProductAnalysis is the canonical output record of the analysis pipeline.
// It is produced exclusively by the response parser and never mutated
// afterward.
type ProductAnalysis struct {
	ProductName         string        `json:"productName"`
	SustainabilityScore int           `json:"sustainabilityScore"`
	Confidence          int           `json:"confidence"`
	EcoLabels           []string      `json:"ecoLabels"`
	Recyclability       string        `json:"recyclability"`
	CarbonFootprint     string        `json:"carbonFootprint"`
	WaterFootprint      string        `json:"waterFootprint"`
	MaterialComposition string        `json:"materialComposition"`
	Lifespan            string        `json:"lifespan"`
	EnergyProduction    string        `json:"energyProduction"`
	Alternatives        []Alternative `json:"alternatives"`
	Reason              string        `json:"reason,omitempty"`
	Warnings            []string      `json:"warnings,omitempty"`
}
