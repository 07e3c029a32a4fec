// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/pdiddy/article-forge/pkg/types"
)

// articlePromptTmpl is the prompt sent to the Claude API for each topic. It
// instructs the model to produce every article field as a single JSON object.
var articlePromptTmpl = template.Must(template.New("article").Parse(`You are an expert technical writer specializing in Machine Learning and AI.

Generate a comprehensive article about: "{{.Name}}"
{{if .Tags}}
Tags: {{.Tags}}
{{end}}
Provide a JSON response with the following fields:

1. "title": An engaging, SEO-friendly title (50-60 characters)
2. "content": A comprehensive technical article (1500-2500 words) that explains the concept in plain language, with mathematical equations where they help. Format as HTML:
   - Multiple sections with <h2> and <h3> headings
   - Paragraphs in <p> tags
   - Code examples in <pre><code> blocks if relevant
   - Lists using <ul>/<ol> and <li> tags
   - Key concepts emphasized with <strong> tags
   - Keep it concise and to the point; cover the main items without padding
3. "excerpt": A compelling 100-150 character preview that makes readers want to click
4. "summary": About 100 words explaining the core concept. Self-contained, covers key points and applications, and understandable without reading the full article
5. "summary_title": A short 2-5 word label for the concept (different from the main title)
6. "reading_time": Estimated reading time in minutes, based on content length

Make the content authoritative, well-researched, and valuable for ML practitioners.

Return ONLY valid JSON, no other text.`))

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend calls the Claude API to generate one article per topic.
type ClaudeBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate calls the Claude API with the article prompt for one topic and
// decodes the JSON article out of the first text block.
func (c *ClaudeBackend) Generate(ctx context.Context, topic types.Topic) (types.ArticleContent, error) {
	prompt, err := renderPrompt(topic)
	if err != nil {
		return types.ArticleContent{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := claudeRequest{
		Model:     c.Model,
		MaxTokens: 8192,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return types.ArticleContent{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return types.ArticleContent{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return types.ArticleContent{}, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return types.ArticleContent{}, fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return types.ArticleContent{}, fmt.Errorf("decoding Claude response: %w", err)
	}

	if len(cResp.Content) == 0 {
		return types.ArticleContent{}, fmt.Errorf("Claude API returned empty content")
	}

	for _, block := range cResp.Content {
		if block.Type != "text" {
			continue
		}
		var content types.ArticleContent
		if err := json.Unmarshal([]byte(stripCodeFence(block.Text)), &content); err != nil {
			return types.ArticleContent{}, fmt.Errorf("parsing article JSON: %w", err)
		}
		return content, nil
	}

	return types.ArticleContent{}, fmt.Errorf("no text content in Claude API response")
}

// renderPrompt executes the article prompt template for one topic.
func renderPrompt(topic types.Topic) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Name string
		Tags string
	}{
		Name: topic.Name,
		Tags: strings.Join(topic.Tags, ", "),
	}
	if err := articlePromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// stripCodeFence removes a Markdown code fence wrapping (```json ... ```)
// from a model response. Models occasionally ignore the "JSON only"
// instruction and fence the object anyway.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	// Drop the opening fence line (``` or ```json).
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	} else {
		return strings.TrimPrefix(trimmed, "```")
	}

	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
