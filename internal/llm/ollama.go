package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/axiomlogic/axiom/internal/model"
)

// OllamaProvider implements the Provider interface for local Ollama models
type OllamaProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Ollama API structures
type ollamaRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
	Options map[string]any  `json:"options,omitempty"`
	Format  json.RawMessage `json:"format,omitempty"`
}

type ollamaResponse struct {
	Model     string `json:"model"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
	EvalCount int    `json:"eval_count"`
}

// NewOllamaProvider creates a new Ollama provider. Ollama needs no API
// key; the base URL defaults to the local daemon.
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second // Local models can be slow
	}

	return &OllamaProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable checks if the Ollama daemon is reachable
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ollama API check failed: %v\n", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// ParseAssertion parses an assertion using the Ollama generate API
func (p *OllamaProvider) ParseAssertion(ctx context.Context, assertion string) (*model.ParsedAssertion, error) {
	raw, err := p.complete(ctx, buildAssertionPrompt(assertion))
	if err != nil {
		return nil, err
	}
	return decodeAssertion(raw)
}

// StructureScenario structures a hypothetical question using the Ollama
// generate API
func (p *OllamaProvider) StructureScenario(ctx context.Context, question string) (*model.ScenarioSpec, error) {
	raw, err := p.complete(ctx, buildScenarioPrompt(question))
	if err != nil {
		return nil, err
	}
	return decodeScenario(raw)
}

func (p *OllamaProvider) complete(ctx context.Context, prompt string) (string, error) {
	modelName := p.config.Model
	if modelName == "" {
		modelName = "llama3.2"
	}

	reqBody := ollamaRequest{
		Model:  modelName,
		Prompt: prompt,
		System: parserSystemPrompt,
		Stream: false,
		Format: json.RawMessage(`"json"`), // Constrain output to valid JSON
		Options: map[string]any{
			"temperature": 0.1,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Ollama API request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Ollama API error: status %d", httpResp.StatusCode)
	}

	var resp ollamaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if resp.Response == "" {
		return "", fmt.Errorf("no response from Ollama")
	}

	return resp.Response, nil
}
