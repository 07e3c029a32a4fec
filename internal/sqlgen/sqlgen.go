// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sqlgen serializes article records into a PostgreSQL INSERT
// statement and writes it to a timestamped .sql file.
package sqlgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/article-forge/pkg/types"
)

// insertHeader names the articles columns in tuple order.
const insertHeader = `INSERT INTO articles (title, content, excerpt, summary, summary_title, featured_image, reading_time, tags, is_premium, views, created_by)
VALUES
`

// filenameFmt is the time layout for output file names:
// articles_insert_20060102_150405.sql.
const filenameFmt = "20060102_150405"

// EscapeString doubles single quotes so text is safe inside a SQL string
// literal.
func EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// tagsArray renders tags as a PostgreSQL array literal. An empty list
// needs an explicit element type to be valid SQL.
func tagsArray(tags []string) string {
	if len(tags) == 0 {
		return "ARRAY[]::text[]"
	}
	quoted := make([]string, len(tags))
	for i, tag := range tags {
		quoted[i] = "'" + EscapeString(tag) + "'"
	}
	return "ARRAY[" + strings.Join(quoted, ", ") + "]"
}

// valuesTuple renders one article as a parenthesized VALUES tuple, indented
// to match the multi-row statement layout.
func valuesTuple(a types.Article) string {
	var b strings.Builder
	b.WriteString("  (\n")
	fmt.Fprintf(&b, "    '%s',\n", EscapeString(a.Title))
	fmt.Fprintf(&b, "    '%s',\n", EscapeString(a.Content))
	fmt.Fprintf(&b, "    '%s',\n", EscapeString(a.Excerpt))
	fmt.Fprintf(&b, "    '%s',\n", EscapeString(a.Summary))
	fmt.Fprintf(&b, "    '%s',\n", EscapeString(a.SummaryTitle))
	fmt.Fprintf(&b, "    '%s',\n", EscapeString(a.FeaturedImage))
	fmt.Fprintf(&b, "    %d,\n", a.ReadingTime)
	fmt.Fprintf(&b, "    %s,\n", tagsArray(a.Tags))
	fmt.Fprintf(&b, "    %t,\n", a.IsPremium)
	fmt.Fprintf(&b, "    %d,\n", a.Views)
	fmt.Fprintf(&b, "    '%s'\n", EscapeString(a.CreatedBy))
	b.WriteString("  )")
	return b.String()
}

// Statement builds one multi-row INSERT covering every article.
func Statement(articles []types.Article) (string, error) {
	if len(articles) == 0 {
		return "", fmt.Errorf("no articles to emit")
	}

	tuples := make([]string, len(articles))
	for i, a := range articles {
		tuples[i] = valuesTuple(a)
	}
	return insertHeader + strings.Join(tuples, ",\n") + ";\n", nil
}

// OutputFilename returns the timestamped .sql file name for a run.
func OutputFilename(now time.Time) string {
	return fmt.Sprintf("articles_insert_%s.sql", now.Format(filenameFmt))
}

// WriteFile emits the INSERT statement for articles into outputDir, creating
// the directory if needed, and returns the written path.
func WriteFile(outputDir string, articles []types.Article, now time.Time) (string, error) {
	stmt, err := Statement(articles)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(outputDir, OutputFilename(now))
	if err := os.WriteFile(path, []byte(stmt), 0o644); err != nil {
		return "", fmt.Errorf("writing SQL file: %w", err)
	}
	return path, nil
}
