package llm_test

import (
	"strings"
	"testing"

	"powerfulchat/internal/services/llm"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Keywords []string `json:"keywords"`
	}

	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{name: "direct object", content: `{"keywords": ["a", "b"]}`, want: 2},
		{name: "fenced block", content: "```json\n{\"keywords\": [\"a\"]}\n```", want: 1},
		{name: "fence without language", content: "```\n{\"keywords\": [\"a\"]}\n```", want: 1},
		{name: "prose around payload", content: `Sure! Here you go: {"keywords": ["a", "b", "c"]} Hope that helps.`, want: 3},
		{name: "leading whitespace", content: "\n\n  {\"keywords\": []}", want: 0},
		{name: "empty", content: "", wantErr: true},
		{name: "no json at all", content: "I cannot answer that.", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var target payload
			err := llm.DecodeJSON(tc.content, &target)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", target)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(target.Keywords) != tc.want {
				t.Errorf("keywords = %v, want %d", target.Keywords, tc.want)
			}
		})
	}
}

func TestDecodeJSONErrorIncludesSnippet(t *testing.T) {
	var target map[string]any
	err := llm.DecodeJSON("definitely \n not \t json", &target)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); !strings.Contains(got, "payload snippet") {
		t.Errorf("error = %q, want payload snippet", got)
	}
}
