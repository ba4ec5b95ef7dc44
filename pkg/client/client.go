// Package client implements the ingestion side of the analysis pipeline:
// encode a local image into a data URL, enforce the size ceilings, and
// submit it to the relay.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/greenlens/greenlens/pkg/models"
)

const (
	// MaxPickBytes is the ceiling for a locally selected file.
	MaxPickBytes = 10 * 1024 * 1024

	// MaxRequestBytes is the ceiling enforced before submission.
	MaxRequestBytes = 5 * 1024 * 1024
)

var supportedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// EncodeImageBytes turns raw image bytes into a data URL after checking the
// sniffed MIME type and the local size ceiling.
func EncodeImageBytes(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image is empty")
	}
	if len(data) > MaxPickBytes {
		return "", fmt.Errorf("image is %d bytes, must be under 10MB", len(data))
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("file is not an image (detected %s)", mime)
	}
	if !supportedMIMETypes[mime] {
		return "", fmt.Errorf("unsupported image type %s, use JPEG, PNG, GIF or WebP", mime)
	}

	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}

// Client talks to the analysis relay.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a relay client. The timeout covers the relay's own 60s bound
// on the external model call.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// AnalyzeFile encodes a local image file and submits it. Files over the
// request ceiling are rejected before any encoding or network activity.
func (c *Client) AnalyzeFile(ctx context.Context, path, prompt string) (*models.AnalyzeResponse, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read image: %w", err)
	}
	if info.Size() > MaxRequestBytes {
		return nil, fmt.Errorf("image is %d bytes, must be under 5MB", info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read image: %w", err)
	}
	dataURL, err := EncodeImageBytes(data)
	if err != nil {
		return nil, err
	}

	return c.Analyze(ctx, dataURL, prompt)
}

// Analyze submits an already-encoded image to the relay.
func (c *Client) Analyze(ctx context.Context, dataURL, prompt string) (*models.AnalyzeResponse, error) {
	if size := decodedPayloadSize(dataURL); size > MaxRequestBytes {
		return nil, fmt.Errorf("image is %d bytes, must be under 5MB", size)
	}

	body, err := json.Marshal(models.AnalyzeRequest{Image: dataURL, Prompt: prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return nil, &AnalysisError{
				StatusCode:  resp.StatusCode,
				Message:     errResp.Error,
				Details:     errResp.Details,
				Suggestions: errResp.Suggestions,
			}
		}
		return nil, fmt.Errorf("analysis failed with status %d", resp.StatusCode)
	}

	var result models.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("invalid relay response: %w", err)
	}
	return &result, nil
}

// Status fetches the relay's informational status report.
func (c *Client) Status(ctx context.Context) (*models.StatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var status models.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("invalid status response: %w", err)
	}
	return &status, nil
}

// AnalysisError is a structured failure reported by the relay, including
// any remediation suggestions it sent along.
type AnalysisError struct {
	StatusCode  int
	Message     string
	Details     string
	Suggestions []string
}

func (e *AnalysisError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// decodedPayloadSize estimates the raw byte size of a data URL's payload
// without decoding it.
func decodedPayloadSize(dataURL string) int {
	comma := strings.IndexByte(dataURL, ',')
	if comma < 0 {
		return len(dataURL)
	}
	return base64.StdEncoding.DecodedLen(len(dataURL) - comma - 1)
}
