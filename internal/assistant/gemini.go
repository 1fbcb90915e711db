// Package assistant answers shopping questions by forwarding the
// conversation to the Gemini generative language API.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ashendes/bec-market/internal/metrics"
	"github.com/ashendes/bec-market/internal/models"
	"github.com/ashendes/bec-market/internal/patterns"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-3-flash-preview"

	temperature = 0.7
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("assistant API key is not configured")

// Catalog supplies the products the assistant may talk about.
type Catalog interface {
	Products(ctx context.Context) []models.Product
}

// Config holds the Gemini connection settings
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Guard   patterns.GuardOptions
}

// Client is the shopping assistant
type Client struct {
	apiKey  string
	model   string
	client  *resty.Client
	guard   *patterns.Guard
	catalog Catalog
}

// New creates an assistant grounded on products from cat.
func New(cfg Config, cat Catalog) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Guard.Timeout <= 0 {
		cfg.Guard.Timeout = patterns.SlowServiceTimeout
	}

	return &Client{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		client: resty.New().
			SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
			SetHeader("Content-Type", "application/json").
			SetTimeout(cfg.Guard.Timeout).
			SetRetryCount(0),
		guard:   patterns.NewGuard("gemini", "shop-service", cfg.Guard),
		catalog: cat,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateRequest struct {
	SystemInstruction content          `json:"systemInstruction"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// text joins the parts of the first candidate.
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

// Reply returns the assistant's next message for history. An empty model
// answer yields FallbackEmpty; transport failures are models.RemoteError.
func (c *Client) Reply(ctx context.Context, history []models.ChatMessage) (string, error) {
	if !c.Configured() {
		metrics.AssistantRequests.WithLabelValues("not_configured").Inc()
		log.Warn("Assistant API key is missing")
		return "", ErrNotConfigured
	}
	if len(history) == 0 {
		return "", models.NewValidationError("conversation is empty")
	}

	req := generateRequest{
		SystemInstruction: content{Parts: []part{{Text: SystemInstruction(c.catalog.Products(ctx))}}},
		Contents:          make([]content, 0, len(history)),
		GenerationConfig:  generationConfig{Temperature: temperature},
	}
	for _, msg := range history {
		role := string(models.ChatRoleModel)
		if msg.Role == models.ChatRoleUser {
			role = string(models.ChatRoleUser)
		}
		req.Contents = append(req.Contents, content{Role: role, Parts: []part{{Text: msg.Text}}})
	}

	var resp generateResponse
	err := c.guard.Do(ctx, func(ctx context.Context) error {
		r, err := c.client.R().
			SetContext(ctx).
			SetQueryParam("key", c.apiKey).
			SetBody(req).
			SetResult(&resp).
			SetError(&apiError{}).
			Post("/v1beta/models/" + c.model + ":generateContent")
		if err != nil {
			return fmt.Errorf("HTTP error: %w", err)
		}
		if r.StatusCode() != http.StatusOK {
			msg := r.String()
			if apiErr, ok := r.Error().(*apiError); ok && apiErr.Error.Message != "" {
				msg = apiErr.Error.Message
			}
			return fmt.Errorf("gemini returned status %d: %s", r.StatusCode(), msg)
		}
		return nil
	})
	if err != nil {
		metrics.AssistantRequests.WithLabelValues("failed").Inc()
		log.WithFields(log.Fields{
			"model": c.model,
			"error": err.Error(),
		}).Error("Assistant request failed")
		return "", err
	}

	reply := resp.text()
	if reply == "" {
		metrics.AssistantRequests.WithLabelValues("empty").Inc()
		return FallbackEmpty, nil
	}

	metrics.AssistantRequests.WithLabelValues("ok").Inc()
	return reply, nil
}

// State reports the breaker state of the Gemini guard.
func (c *Client) State() string {
	return c.guard.State()
}
