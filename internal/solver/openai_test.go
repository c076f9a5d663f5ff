package solver

import "testing"

func TestExtractAnswer(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     string
	}{
		{"plain", "analysis...\n**Answer: e2e4**", "e2e4"},
		{"last marker wins", "**Answer: d2d4** wait, actually **Answer: e2e4**", "e2e4"},
		{"lowercased", "**Answer: E2E4**", "e2e4"},
		{"no marker", "I think the best move is e2e4.", ""},
		{"empty response", "", ""},
		{"castling", "**Answer: e1g1**", "e1g1"},
		{"promotion", "**Answer: e7e8q**", "e7e8q"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractAnswer(tc.response); got != tc.want {
				t.Fatalf("ExtractAnswer(%q) = %q, want %q", tc.response, got, tc.want)
			}
		})
	}
}

func TestNewOpenAI_Validation(t *testing.T) {
	if _, err := NewOpenAI(OpenAIConfig{APIKey: "k", Model: "m"}); err == nil {
		t.Fatalf("missing base URL must be rejected")
	}
	if _, err := NewOpenAI(OpenAIConfig{BaseURL: "https://example.com/v1", Model: "m"}); err == nil {
		t.Fatalf("missing API key must be rejected")
	}
	if _, err := NewOpenAI(OpenAIConfig{BaseURL: "https://example.com/v1", APIKey: "k"}); err == nil {
		t.Fatalf("missing model must be rejected")
	}

	o, err := NewOpenAI(OpenAIConfig{BaseURL: "https://example.com/v1/", APIKey: "k", Model: "deepseek-chat"})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	if o.Name() != "OpenAI Solver (deepseek-chat)" {
		t.Fatalf("unexpected name: %q", o.Name())
	}
	if o.baseURL != "https://example.com/v1" {
		t.Fatalf("base URL not normalized: %q", o.baseURL)
	}
}
