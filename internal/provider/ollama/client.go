package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ModelInfo describes a locally available Ollama model.
type ModelInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
	Digest     string    `json:"digest"`
}

// Client is a thin HTTP client for the Ollama management endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new Ollama API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Version returns the Ollama server version via GET /api/version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var result struct {
		Version string `json:"version"`
	}
	if err := c.getJSON(ctx, "/api/version", &result); err != nil {
		return "", errors.Wrap(err, "checking version")
	}
	return result.Version, nil
}

// IsRunning probes the Ollama server with a 1-second timeout.
func (c *Client) IsRunning(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()
	_, err := c.Version(probeCtx)
	return err == nil
}

// ListModels returns locally available models via GET /api/tags.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var result struct {
		Models []ModelInfo `json:"models"`
	}
	if err := c.getJSON(ctx, "/api/tags", &result); err != nil {
		return nil, errors.Wrap(err, "listing models")
	}
	return result.Models, nil
}

// Preflight verifies the server is reachable and has model pulled. A model
// name without a tag matches any tag of that model.
func (c *Client) Preflight(ctx context.Context, model string) error {
	if !c.IsRunning(ctx) {
		return errors.WithHint(
			errors.Newf("ollama is not running at %s", c.baseURL),
			"start it with `ollama serve` or point provider.base_url at a running server",
		)
	}
	models, err := c.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, m := range models {
		if m.Name == model || strings.TrimSuffix(m.Name, ":latest") == model || strings.SplitN(m.Name, ":", 2)[0] == model {
			return nil
		}
	}
	return errors.WithHintf(
		errors.Newf("model %q is not available on %s", model, c.baseURL),
		"run `ollama pull %s`", model,
	)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}
