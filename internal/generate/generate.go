// Package generate turns article topics into complete article records by
// calling a Generative AI backend once per topic.
package generate

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/article-forge/pkg/types"
)

// AIBackend abstracts the Generative AI API so tests can supply a mock.
// Each implementation handles a single topic and returns the decoded
// article content.
type AIBackend interface {
	Generate(ctx context.Context, topic types.Topic) (types.ArticleContent, error)
}

// ImageSource supplies a featured image URL for a topic. Implementations
// never fail; they fall back to a curated default list.
type ImageSource interface {
	FeaturedImage(ctx context.Context, topic string) string
}

// Archive records generated articles so later runs can skip finished
// topics and re-emit SQL without new API calls. A nil Archive disables
// both behaviors.
type Archive interface {
	Has(ctx context.Context, topic string) (bool, error)
	Save(ctx context.Context, article types.Article) error
}

// BatchSummary holds counts from a batch generation run.
type BatchSummary struct {
	Generated int
	Fallback  int
	Skipped   int
	Failed    int
}

// Total returns the number of topics processed.
func (s BatchSummary) Total() int {
	return s.Generated + s.Fallback + s.Skipped + s.Failed
}

// HasFailures reports whether any topics failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// wordsPerMinute is the reading speed used to recompute reading time when
// the model omits it.
const wordsPerMinute = 200

// GenerateAll walks the topic list in order, generating one article per
// topic. Topics already in the archive are skipped unless cfg.Force.
// Failed topics are recorded and the batch continues; with cfg.Fallback
// they produce placeholder content instead. Progress lines go to w.
func GenerateAll(ctx context.Context, backend AIBackend, images ImageSource, arch Archive, topicList []types.Topic, cfg types.GeneratorConfig, w io.Writer) ([]types.Article, BatchSummary, error) {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var (
		articles []types.Article
		summary  BatchSummary
	)

	for i, topic := range topicList {
		fmt.Fprintf(w, "[%d/%d] %s\n", i+1, len(topicList), topic.Name)

		if arch != nil && !cfg.Force {
			done, err := arch.Has(ctx, topic.Name)
			if err != nil {
				return nil, summary, fmt.Errorf("checking archive for %q: %w", topic.Name, err)
			}
			if done {
				fmt.Fprintf(w, "  skipped (already generated)\n")
				summary.Skipped++
				continue
			}
		}

		content, err := callWithRetry(ctx, backend, topic, maxRetries)
		if err == nil {
			err = validateContent(content)
		}

		usedFallback := false
		switch {
		case err == nil:
			// generated
		case cfg.Fallback:
			fmt.Fprintf(w, "  fallback: %v\n", err)
			content = fallbackContent(topic)
			usedFallback = true
		default:
			if ctx.Err() != nil {
				return nil, summary, ctx.Err()
			}
			fmt.Fprintf(w, "  failed: %v\n", err)
			summary.Failed++
			continue
		}

		if content.ReadingTime <= 0 {
			content.ReadingTime = estimateReadingTime(content.Content)
		}

		article := types.Article{
			ArticleContent: content,
			Topic:          topic.Name,
			Tags:           topic.Tags,
			FeaturedImage:  images.FeaturedImage(ctx, topic.Name),
			IsPremium:      topic.IsPremium,
			Views:          topic.Views,
			CreatedBy:      cfg.CreatedBy,
		}

		if arch != nil {
			if err := arch.Save(ctx, article); err != nil {
				fmt.Fprintf(w, "  failed: archive save: %v\n", err)
				summary.Failed++
				continue
			}
		}

		articles = append(articles, article)
		if usedFallback {
			summary.Fallback++
		} else {
			fmt.Fprintf(w, "  generated: %s\n", content.Title)
			summary.Generated++
		}
	}

	fmt.Fprintf(w, "\ngenerated: %d, fallback: %d, skipped: %d, failed: %d\n",
		summary.Generated, summary.Fallback, summary.Skipped, summary.Failed)

	return articles, summary, nil
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the AI backend with exponential backoff.
func callWithRetry(ctx context.Context, backend AIBackend, topic types.Topic, maxRetries int) (types.ArticleContent, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return types.ArticleContent{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		content, err := backend.Generate(ctx, topic)
		if err == nil {
			return content, nil
		}
		lastErr = err
	}
	return types.ArticleContent{}, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// validateContent checks that the model produced every required article field.
func validateContent(c types.ArticleContent) error {
	var missing []string
	if c.Title == "" {
		missing = append(missing, "title")
	}
	if c.Content == "" {
		missing = append(missing, "content")
	}
	if c.Excerpt == "" {
		missing = append(missing, "excerpt")
	}
	if c.Summary == "" {
		missing = append(missing, "summary")
	}
	if c.SummaryTitle == "" {
		missing = append(missing, "summary_title")
	}
	if len(missing) > 0 {
		return fmt.Errorf("response missing required fields: %s", strings.Join(missing, ", "))
	}
	if c.ReadingTime < 0 {
		return fmt.Errorf("negative reading_time %d", c.ReadingTime)
	}
	return nil
}

// estimateReadingTime computes minutes from word count at wordsPerMinute,
// with a floor of one minute.
func estimateReadingTime(content string) int {
	minutes := len(strings.Fields(content)) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// fallbackContent builds deterministic placeholder content for a topic
// whose generation failed. The record is still valid for SQL emission.
func fallbackContent(topic types.Topic) types.ArticleContent {
	name := topic.Name
	return types.ArticleContent{
		Title:        fmt.Sprintf("Understanding %s: A Comprehensive Guide", name),
		Content:      fmt.Sprintf("<p>This is a comprehensive guide about %s.</p>", name),
		Excerpt:      fmt.Sprintf("Learn about %s in machine learning.", name),
		Summary:      fmt.Sprintf("%s is an important concept in machine learning.", name),
		SummaryTitle: truncate(name, 30),
		ReadingTime:  10,
	}
}

// truncate shortens s to at most n bytes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
