package model

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/actuallystonmai/movie-recommender/internal/config"
)

// Client calls a sentence-embedding server over HTTP:
//
//	POST {url}/embed {"model": "...", "inputs": ["..."]} -> {"embeddings": [[...]]}
type Client struct {
	baseURL    string
	model      string
	dimensions int
	httpClient *http.Client
}

type embedRequest struct {
	Model  string   `json:"model"`
	Inputs []string `json:"inputs"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

func NewClient(cfg config.EmbeddingConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Encode(ctx context.Context, text string) ([]float64, error) {
	vecs, err := c.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (c *Client) EncodeBatch(ctx context.Context, texts []string) ([][]float64, error) {
	body, err := json.Marshal(embedRequest{Model: c.model, Inputs: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ModelInferenceError{Msg: "embedding request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ModelInferenceError{
			Msg: fmt.Sprintf("embedding server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &ModelInferenceError{Msg: "decode embedding response", Err: err}
	}

	if len(out.Embeddings) != len(texts) {
		return nil, &ModelInferenceError{
			Msg: fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(out.Embeddings)),
		}
	}
	for i, vec := range out.Embeddings {
		if c.dimensions > 0 && len(vec) != c.dimensions {
			return nil, &ModelInferenceError{
				Msg: fmt.Sprintf("embedding %d has %d dimensions, want %d", i, len(vec), c.dimensions),
			}
		}
	}

	return out.Embeddings, nil
}
