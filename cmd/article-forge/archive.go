// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-forge/internal/archive"
	"github.com/pdiddy/article-forge/internal/sqlgen"
	"github.com/pdiddy/article-forge/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect the local archive of generated articles",
	Long: `Archive reads the local SQLite archive written during generation.
Use subcommands to list stored articles, search them with full-text
queries, or re-emit a SQL file without new API calls.`,
}

// --- list subcommand ---

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every archived article in generation order",
	RunE:  runArchiveList,
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatArchiveOutput(records, jsonOutput)
}

// --- search subcommand ---

var archiveSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over archived article titles and content",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runArchiveSearch,
}

func runArchiveSearch(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.Search(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatArchiveOutput(records, jsonOutput)
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Re-emit a SQL insert file from archived articles",
	Long: `Export writes a fresh articles_insert_<timestamp>.sql covering every
archived article, without calling the API.`,
	RunE: runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background())
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	path, err := sqlgen.WriteFile(outputDir, archive.Articles(records), time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Exported %d article(s) to %s\n", len(records), path)
	return nil
}

// --- shared helpers ---

func openArchive(cmd *cobra.Command) (*archive.Store, error) {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return archive.NewStore(types.ArchiveConfig{
		OutputDir:  outputDir,
		MaxResults: maxResults,
	})
}

func formatArchiveOutput(records []archive.Record, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No archived articles.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-30s  %-40s  %-5s  %s\n",
		"#", "Topic", "Title", "Min", "Generated")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for i, r := range records {
		topic := r.Topic
		if len(topic) > 30 {
			topic = topic[:27] + "..."
		}
		title := r.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-30s  %-40s  %-5d  %s\n",
			i+1, topic, title, r.ReadingTime, r.GeneratedAt.Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(os.Stdout, "\n%d article(s)\n", len(records))
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	archiveCmd.PersistentFlags().String("output-dir", defaultOutputDir, "directory containing the archive database")
	archiveCmd.PersistentFlags().Int("max-results", 20, "maximum number of search results")

	archiveListCmd.Flags().Bool("json", false, "output articles as JSON")
	archiveSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	archiveSearchCmd.Flags().Bool("json", false, "output articles as JSON")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveSearchCmd)
	archiveCmd.AddCommand(archiveExportCmd)

	rootCmd.AddCommand(archiveCmd)
}
