// Package llm is the natural-language resolution helper: it turns free
// text (assertions, "what if" questions) into the structured forms the
// engine evaluates. The engine never depends on it for correctness —
// every caller has a deterministic heuristic fallback — and its failures
// surface as a single terminal error on the verification stream.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/axiomlogic/axiom/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// ParseAssertion converts a natural-language assertion into its
	// structured form
	ParseAssertion(ctx context.Context, assertion string) (*model.ParsedAssertion, error)

	// StructureScenario converts a user's "what if" question into a
	// scenario spec
	StructureScenario(ctx context.Context, question string) (*model.ScenarioSpec, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// RequestsPerSecond throttles calls per provider
	RequestsPerSecond float64

	// Burst allows short bursts above the sustained rate
	Burst int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:          "", // Disabled by default
		Timeout:           30,
		MaxTokens:         1000,
		RequestsPerSecond: 2,
		Burst:             4,
	}
}

const parserSystemPrompt = "You parse statements about legal contracts into structured JSON. Respond with JSON only, no prose."

// buildAssertionPrompt constructs the parse request for one assertion
func buildAssertionPrompt(assertion string) string {
	return fmt.Sprintf(`Parse this business assertion about a legal contract into structured components.

Assertion: %q

Extract:
1. Key entities (people, roles, assets, defined terms mentioned)
2. The qualifying condition, if any
3. The expected outcome/behavior
4. Assertion type (conditional, absolute, prohibition, requirement)

Return ONLY a JSON object:
{
  "subject": "Founder",
  "entities": ["Founder", "shares", "Good Reason"],
  "condition": "if Good Reason",
  "expected_outcome": "Founder keeps shares",
  "assertion_type": "conditional"
}`, assertion)
}

// buildScenarioPrompt constructs the structuring request for a user's
// hypothetical question
func buildScenarioPrompt(question string) string {
	return fmt.Sprintf(`Convert this user's scenario question about a legal contract into a structured test case.

User's question: %q

Return ONLY a JSON object:
{
  "name": "Brief name for this scenario",
  "description": "Detailed description of what happens",
  "trigger_event": "Specific event that occurs",
  "expected_behavior": "What should happen in a fair contract"
}

Example:
Question: "What if I get cancer and can't work for 6 months?"
→ {
    "name": "Medical leave due to cancer",
    "description": "Founder diagnosed with cancer, requires 6 months treatment and recovery",
    "trigger_event": "Unable to perform duties due to serious medical condition",
    "expected_behavior": "Should not be terminated or lose shares due to medical leave"
}`, question)
}

// cleanJSONResponse strips markdown code fences that models wrap around
// JSON despite instructions
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func decodeAssertion(raw string) (*model.ParsedAssertion, error) {
	var parsed model.ParsedAssertion
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("decode assertion response: %w", err)
	}
	if parsed.ExpectedOutcome == "" {
		return nil, fmt.Errorf("assertion response missing expected_outcome")
	}
	return &parsed, nil
}

func decodeScenario(raw string) (*model.ScenarioSpec, error) {
	var spec struct {
		Name             string `json:"name"`
		Description      string `json:"description"`
		TriggerEvent     string `json:"trigger_event"`
		ExpectedBehavior string `json:"expected_behavior"`
	}
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &spec); err != nil {
		return nil, fmt.Errorf("decode scenario response: %w", err)
	}
	if spec.TriggerEvent == "" {
		return nil, fmt.Errorf("scenario response missing trigger_event")
	}
	return &model.ScenarioSpec{
		Name:             spec.Name,
		Description:      spec.Description,
		TriggerEvent:     spec.TriggerEvent,
		ExpectedBehavior: spec.ExpectedBehavior,
		Source:           model.SourceUserCustom,
	}, nil
}
