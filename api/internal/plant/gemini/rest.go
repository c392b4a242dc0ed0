package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"herbula/api/internal/plant"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultAPIVersion = "v1"
	DefaultModel      = "gemini-2.0-flash"
)

// Engine ходит в generateContent напрямую, ключ передаётся в query (?key=).
type Engine struct {
	APIKey     string
	Model      string
	BaseURL    string
	APIVersion string
	httpc      *http.Client
}

func New(key, model string) *Engine {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Engine{
		APIKey:     strings.TrimSpace(key),
		Model:      strings.TrimSpace(model),
		BaseURL:    DefaultBaseURL,
		APIVersion: DefaultAPIVersion,
		httpc:      &http.Client{Timeout: 60 * time.Second},
	}
}

// WithHTTPClient overrides the internal HTTP client (timeouts, static proxy).
func (e *Engine) WithHTTPClient(c *http.Client) *Engine {
	if c != nil {
		e.httpc = c
	}
	return e
}

func (e *Engine) WithBaseURL(baseURL, version string) *Engine {
	if b := strings.TrimRight(strings.TrimSpace(baseURL), "/"); b != "" {
		e.BaseURL = b
	}
	if v := strings.Trim(strings.TrimSpace(version), "/"); v != "" {
		e.APIVersion = v
	}
	return e
}

func (e *Engine) Name() string     { return "rest" }
func (e *Engine) GetModel() string { return e.Model }

// Endpoint is the generateContent URL without the key.
func (e *Engine) Endpoint() string {
	return fmt.Sprintf("%s/%s/models/%s:generateContent", e.BaseURL, e.APIVersion, e.Model)
}

func (e *Engine) Identify(ctx context.Context, images []string) (plant.Identification, error) {
	if e.APIKey == "" {
		return plant.Identification{}, errors.New("GEMINI_API_KEY is empty")
	}

	payload, err := json.Marshal(plant.BuildRequest(images))
	if err != nil {
		return plant.Identification{}, fmt.Errorf("gemini: marshal request: %w", err)
	}

	u := e.Endpoint() + "?key=" + url.QueryEscape(e.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return plant.Identification{}, fmt.Errorf("gemini: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpc.Do(req)
	if err != nil {
		// не отдаём ключ наружу вместе с URL
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = e.Endpoint()
		}
		return plant.Identification{}, fmt.Errorf("gemini: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return plant.Identification{}, fmt.Errorf("gemini: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return plant.Identification{}, fmt.Errorf("Gemini error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	text, err := plant.FirstText(body)
	if err != nil {
		return plant.Identification{}, err
	}
	p, raw, err := plant.DecodeReply(text)
	if err != nil {
		return plant.Identification{}, err
	}
	return plant.Identification{
		Engine: e.Name(),
		Model:  e.Model,
		Plant:  p,
		Raw:    raw,
	}, nil
}
