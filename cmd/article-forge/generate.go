// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-forge/internal/archive"
	"github.com/pdiddy/article-forge/internal/generate"
	"github.com/pdiddy/article-forge/internal/images"
	"github.com/pdiddy/article-forge/internal/sqlgen"
	"github.com/pdiddy/article-forge/internal/topics"
	"github.com/pdiddy/article-forge/pkg/types"
)

const (
	defaultTopicsFile = "topics.json"
	defaultModel      = "claude-sonnet-4-20250514"
	defaultCreatedBy  = "c41b5bc1-d819-4b8a-ab04-cf1ae4692304"
	defaultOutputDir  = "output"
	defaultTimeout    = 120 * time.Second
	defaultUserAgent  = "article-forge/0.1"
)

var generateCmd = &cobra.Command{
	Use:   "generate [topics-file]",
	Short: "Generate articles for every topic and emit SQL inserts",
	Long: `Generate loads a topics file (JSON or YAML), calls the Claude API once
per topic to produce article content and metadata, and writes one multi-row
INSERT statement to output/articles_insert_<timestamp>.sql.

Topics already present in the archive are skipped; use --force to
regenerate them. Failed topics are reported and the batch continues.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("model", defaultModel, "AI model identifier")
	generateCmd.Flags().String("api-key", "", "Claude API key (default: .secrets/anthropic-api-key)")
	generateCmd.Flags().String("created-by", "", "author UUID for the created_by column")
	generateCmd.Flags().String("output-dir", defaultOutputDir, "directory for SQL output and the archive database")
	generateCmd.Flags().Int("max-retries", 3, "retry attempts for failed API calls")
	generateCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	generateCmd.Flags().Bool("fallback", false, "emit placeholder content for topics that fail after retries")
	generateCmd.Flags().Bool("force", false, "regenerate topics already in the archive")
	generateCmd.Flags().Bool("dry-run", false, "load and validate the topics file without calling the API")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topicsFile := defaultTopicsFile
	if len(args) > 0 {
		topicsFile = args[0]
	}

	topicList, err := topics.Load(topicsFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Loaded %d topic(s) from %s\n", len(topicList), topicsFile)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		return nil
	}

	cfg, err := generatorConfig(cmd)
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	store, err := archive.NewStore(types.ArchiveConfig{OutputDir: cfg.OutputDir})
	if err != nil {
		return err
	}
	defer store.Close()

	backend := &generate.ClaudeBackend{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		Client: &http.Client{Timeout: timeout},
	}

	picker := images.NewPicker(types.ImageConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		PexelsAPIKey: secretDefault("pexels-api-key", ""),
	})

	articles, summary, err := generate.GenerateAll(
		context.Background(), backend, picker, store, topicList, cfg, os.Stdout)
	if err != nil {
		return err
	}

	if len(articles) > 0 {
		path, err := sqlgen.WriteFile(cfg.OutputDir, articles, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "SQL output saved to %s\n", path)
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d topic(s) failed generation", summary.Failed)
	}
	return nil
}

func generatorConfig(cmd *cobra.Command) (types.GeneratorConfig, error) {
	model, _ := cmd.Flags().GetString("model")
	apiKey, _ := cmd.Flags().GetString("api-key")
	createdBy, _ := cmd.Flags().GetString("created-by")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	fallback, _ := cmd.Flags().GetBool("fallback")
	force, _ := cmd.Flags().GetBool("force")

	apiKey = secretDefault("anthropic-api-key", apiKey)
	if apiKey == "" {
		return types.GeneratorConfig{}, fmt.Errorf("no Claude API key: pass --api-key or create .secrets/anthropic-api-key")
	}

	createdBy = secretDefault("created-by-uuid", createdBy)
	if createdBy == "" {
		createdBy = defaultCreatedBy
	}

	return types.GeneratorConfig{
		AIConfig: types.AIConfig{
			Model:      model,
			APIKey:     apiKey,
			MaxRetries: maxRetries,
		},
		CreatedBy: createdBy,
		OutputDir: outputDir,
		Fallback:  fallback,
		Force:     force,
	}, nil
}
