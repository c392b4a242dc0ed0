package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"herbula/api/internal/plant"
	"herbula/api/internal/util"
)

// SDKEngine делает тот же запрос через github.com/google/generative-ai-go.
type SDKEngine struct {
	APIKey string
	Model  string
	httpc  *http.Client
}

func NewSDK(key, model string) *SDKEngine {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &SDKEngine{
		APIKey: strings.TrimSpace(key),
		Model:  strings.TrimSpace(model),
	}
}

// WithHTTPClient routes the SDK through c. The key then travels in the
// x-goog-api-key header since the SDK stops injecting it for custom clients.
func (e *SDKEngine) WithHTTPClient(c *http.Client) *SDKEngine {
	if c != nil {
		e.httpc = c
	}
	return e
}

func (e *SDKEngine) Name() string     { return "sdk" }
func (e *SDKEngine) GetModel() string { return e.Model }

func (e *SDKEngine) Identify(ctx context.Context, images []string) (plant.Identification, error) {
	if e.APIKey == "" {
		return plant.Identification{}, errors.New("GEMINI_API_KEY is empty")
	}

	parts := []genai.Part{genai.Text(plant.Prompt)}
	for i, b64 := range images {
		data, _, err := util.DecodeBase64MaybeDataURL(b64)
		if err != nil {
			return plant.Identification{}, fmt.Errorf("gemini sdk: image %d: bad base64: %w", i+1, err)
		}
		parts = append(parts, &genai.Blob{MIMEType: plant.ImageMIME, Data: data})
	}

	cl, err := genai.NewClient(ctx, e.clientOptions()...)
	if err != nil {
		return plant.Identification{}, fmt.Errorf("gemini sdk: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return plant.Identification{}, fmt.Errorf("gemini sdk: %w", err)
	}

	text, err := firstText(resp)
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

func (e *SDKEngine) clientOptions() []option.ClientOption {
	opts := []option.ClientOption{option.WithAPIKey(e.APIKey)}
	if e.httpc != nil {
		hc := *e.httpc
		hc.Transport = &apiKeyTransport{key: e.APIKey, base: e.httpc.Transport}
		opts = append(opts, option.WithHTTPClient(&hc))
	}
	return opts
}

type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	r2 := r.Clone(r.Context())
	r2.Header.Set("x-goog-api-key", t.key)
	return base.RoundTrip(r2)
}

// firstText mirrors plant.FirstText for SDK responses: only candidate 0,
// only its first part.
func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", plant.ErrNoCandidates
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 {
		return "", plant.ErrNoText
	}
	t, ok := c.Content.Parts[0].(genai.Text)
	if !ok {
		return "", plant.ErrNoText
	}
	return string(t), nil
}
