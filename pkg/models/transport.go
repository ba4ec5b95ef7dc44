package models

// AnalyzeRequest is the inbound payload for the analyze endpoint.
type AnalyzeRequest struct {
	Image  string `json:"image" binding:"required"`
	Prompt string `json:"prompt,omitempty"`
}

// AnalyzeResponse is the success envelope returned by the relay.
type AnalyzeResponse struct {
	Success      bool                `json:"success"`
	AnalysisID   string              `json:"analysisId,omitempty"`
	Analysis     *ProductAnalysis    `json:"analysis,omitempty"`
	ImageQuality *ImageQualityReport `json:"imageQuality,omitempty"`
	RawReply     string              `json:"rawReply,omitempty"`
}

// ErrorResponse is the structured error envelope. Provider technical detail
// only appears in Details when the server runs in development mode.
type ErrorResponse struct {
	Error        string              `json:"error"`
	Details      string              `json:"details,omitempty"`
	ImageQuality *ImageQualityReport `json:"imageQuality,omitempty"`
	Confidence   *int                `json:"confidence,omitempty"`
	Warnings     []string            `json:"warnings,omitempty"`
	Suggestions  []string            `json:"suggestions,omitempty"`
}

// StatusFeatures reports which optional pipeline stages are active.
type StatusFeatures struct {
	QualityCheck bool `json:"qualityCheck"`
	Optimization bool `json:"optimization"`
	Alternatives bool `json:"alternatives"`
}

// StatusResponse is the informational side-channel status payload.
type StatusResponse struct {
	Status          string         `json:"status"`
	ModelConfigured bool           `json:"modelConfigured"`
	Model           string         `json:"model,omitempty"`
	Features        StatusFeatures `json:"features"`
	Time            string         `json:"time"`
}
