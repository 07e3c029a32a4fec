package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/article-forge/pkg/types"
)

// claudeTextResponse wraps text in a Claude Messages API response body.
func claudeTextResponse(text string) string {
	body, _ := json.Marshal(map[string]any{
		"content": []map[string]string{{"type": "text", "text": text}},
	})
	return string(body)
}

func articleJSON(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(sampleContent("Attention"))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestClaudeBackendGenerate(t *testing.T) {
	var gotReq claudeRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("anthropic-version = %q", r.Header.Get("anthropic-version"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		fmt.Fprint(w, claudeTextResponse(articleJSON(t)))
	}))
	defer ts.Close()

	oldURL := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = oldURL }()

	backend := &ClaudeBackend{APIKey: "test-key", Model: "test-model"}
	content, err := backend.Generate(context.Background(), types.Topic{
		Name: "Attention Mechanisms",
		Tags: []string{"attention", "transformers"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if content.Title != "Attention: A Practical Introduction" {
		t.Errorf("Title = %q", content.Title)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("request model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(gotReq.Messages))
	}
	prompt := gotReq.Messages[0].Content
	if !strings.Contains(prompt, `"Attention Mechanisms"`) {
		t.Errorf("prompt missing topic:\n%s", prompt)
	}
	if !strings.Contains(prompt, "attention, transformers") {
		t.Errorf("prompt missing tags:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Return ONLY valid JSON") {
		t.Errorf("prompt missing JSON-only instruction:\n%s", prompt)
	}
}

func TestClaudeBackendFencedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fenced := "```json\n" + articleJSON(t) + "\n```"
		fmt.Fprint(w, claudeTextResponse(fenced))
	}))
	defer ts.Close()

	oldURL := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = oldURL }()

	backend := &ClaudeBackend{APIKey: "k", Model: "m"}
	content, err := backend.Generate(context.Background(), types.Topic{Name: "Attention"})
	if err != nil {
		t.Fatal(err)
	}
	if content.SummaryTitle != "Attention Basics" {
		t.Errorf("SummaryTitle = %q", content.SummaryTitle)
	}
}

func TestClaudeBackendErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		errMsg  string
	}{
		{
			name: "api error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error": "overloaded"}`, http.StatusServiceUnavailable)
			},
			errMsg: "Claude API returned 503",
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"content": []}`)
			},
			errMsg: "empty content",
		},
		{
			name: "non-JSON article",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, claudeTextResponse("Here is your article: ..."))
			},
			errMsg: "parsing article JSON",
		},
		{
			name: "no text block",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"content": [{"type": "tool_use", "text": ""}]}`)
			},
			errMsg: "no text content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			oldURL := claudeAPIURL
			claudeAPIURL = ts.URL
			defer func() { claudeAPIURL = oldURL }()

			backend := &ClaudeBackend{APIKey: "k", Model: "m"}
			_, err := backend.Generate(context.Background(), types.Topic{Name: "X"})
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Fatalf("err = %v, want mention of %q", err, tt.errMsg)
			}
		})
	}
}

func TestRenderPromptWithoutTags(t *testing.T) {
	prompt, err := renderPrompt(types.Topic{Name: "Dropout"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(prompt, "Tags:") {
		t.Errorf("tagless prompt should omit Tags line:\n%s", prompt)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading whitespace", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
		{"fence without newline", "```{}", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
