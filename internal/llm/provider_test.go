package llm

import (
	"strings"
	"testing"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  \n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.in); got != tt.want {
				t.Errorf("cleanJSONResponse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeAssertion(t *testing.T) {
	raw := "```json\n" + `{
  "subject": "Founder",
  "entities": ["Founder", "Good Reason"],
  "condition": "if resignation is for Good Reason",
  "expected_outcome": "Founder keeps vested shares",
  "assertion_type": "conditional"
}` + "\n```"

	parsed, err := decodeAssertion(raw)
	if err != nil {
		t.Fatalf("decodeAssertion: %v", err)
	}
	if parsed.Subject != "Founder" {
		t.Errorf("subject = %q", parsed.Subject)
	}
	if len(parsed.Entities) != 2 {
		t.Errorf("entities = %v", parsed.Entities)
	}
	if parsed.AssertionType != "conditional" {
		t.Errorf("type = %q", parsed.AssertionType)
	}
}

func TestDecodeAssertionRejectsMissingOutcome(t *testing.T) {
	if _, err := decodeAssertion(`{"subject":"Founder"}`); err == nil {
		t.Error("expected error for response without expected_outcome")
	}
	if _, err := decodeAssertion("not json at all"); err == nil {
		t.Error("expected error for malformed response")
	}
}

func TestDecodeScenario(t *testing.T) {
	raw := `{
  "name": "Medical leave",
  "description": "Founder requires six months of treatment",
  "trigger_event": "Unable to perform duties due to serious medical condition",
  "expected_behavior": "Should not lose shares due to medical leave"
}`

	spec, err := decodeScenario(raw)
	if err != nil {
		t.Fatalf("decodeScenario: %v", err)
	}
	if spec.Name != "Medical leave" || spec.TriggerEvent == "" {
		t.Errorf("unexpected spec: %+v", spec)
	}
	if spec.Source != "user_custom" {
		t.Errorf("source = %q, want user_custom", spec.Source)
	}
}

func TestDecodeScenarioRejectsMissingTrigger(t *testing.T) {
	if _, err := decodeScenario(`{"name":"x"}`); err == nil {
		t.Error("expected error for response without trigger_event")
	}
}

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(Config{Provider: ""})
	if err != nil {
		t.Fatalf("empty provider should not error: %v", err)
	}
	if p != nil {
		t.Error("empty provider should return nil (LLM disabled)")
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "mystery"}); err == nil {
		t.Error("expected error for unknown provider name")
	}
}

func TestNewProviderRequiresAPIKey(t *testing.T) {
	for _, name := range []string{"openai", "anthropic"} {
		if _, err := NewProvider(Config{Provider: name}); err == nil {
			t.Errorf("%s without an API key should fail", name)
		}
	}
}

func TestNewProviderOllamaThrottled(t *testing.T) {
	p, err := NewProvider(Config{Provider: "ollama", RequestsPerSecond: 5, Burst: 2})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p == nil {
		t.Fatal("expected a provider")
	}
	if p.Name() != "ollama" {
		t.Errorf("name = %q, want ollama", p.Name())
	}
	if _, ok := p.(*throttledProvider); !ok {
		t.Error("providers should be wrapped with the rate limiter")
	}
}

func TestBuildPromptsEmbedInput(t *testing.T) {
	assertion := "Founder keeps vested shares if resignation is for Good Reason"
	if !strings.Contains(buildAssertionPrompt(assertion), assertion) {
		t.Error("assertion prompt should embed the assertion")
	}
	question := "What if the company is acquired?"
	if !strings.Contains(buildScenarioPrompt(question), question) {
		t.Error("scenario prompt should embed the question")
	}
}
