package vision

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	apperrors "github.com/greenlens/greenlens/internal/errors"
)

// Client is the external multimodal AI capability: given an image and a
// prompt, return text believed to be JSON. One call per analysis request,
// no automatic retry.
type Client interface {
	AnalyzeImage(ctx context.Context, prompt string, imageData []byte) (string, error)
}

type ollamaClient struct {
	client  *api.Client
	model   string
	timeout time.Duration
}

// NewOllamaClient creates a vision client backed by an Ollama endpoint.
func NewOllamaClient(rawURL, model string, timeout time.Duration) (Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL: %w", err)
	}
	baseURL := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}

	return &ollamaClient{
		client:  api.NewClient(baseURL, http.DefaultClient),
		model:   model,
		timeout: timeout,
	}, nil
}

func (c *ollamaClient) AnalyzeImage(ctx context.Context, prompt string, imageData []byte) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{
				Role:    "system",
				Content: SystemInstructions,
			},
			{
				Role:    "user",
				Content: prompt,
				Images:  []api.ImageData{api.ImageData(imageData)},
			},
		},
		Stream: &stream,
	}

	var reply string
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply += resp.Message.Content
		return nil
	})
	if err != nil {
		return "", mapUpstreamError(err)
	}

	return reply, nil
}

// mapUpstreamError converts provider failures into the fixed set of
// user-facing error classes. Raw provider bodies never reach the client.
func mapUpstreamError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError("Analysis timed out, please try again", err)
	}

	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			// Credential details are never leaked
			return apperrors.NewInternalError("Server configuration error", err)
		case http.StatusTooManyRequests:
			return apperrors.NewRateLimitError("Too many requests, please try again shortly", err)
		case http.StatusRequestEntityTooLarge:
			return apperrors.NewPayloadTooLargeError("Image is too large, use an image under 5MB", err)
		case http.StatusBadRequest:
			return apperrors.NewValidationError("The image could not be processed, try a different image", err)
		}
		if statusErr.StatusCode >= 500 {
			return apperrors.NewUnavailableError("Analysis service is unavailable, please try again later", err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.NewTimeoutError("Analysis timed out, please try again", err)
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return apperrors.NewUnavailableError("Analysis service is unavailable, please try again later", err)
	}

	return apperrors.NewNetworkError("Failed to reach the analysis service", err)
}
