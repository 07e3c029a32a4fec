package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-forge/internal/topics"
)

var topicsCmd = &cobra.Command{
	Use:   "topics [topics-file]",
	Short: "Validate a topics file and list its entries",
	Long: `Topics loads a topics file (JSON or YAML), runs the same validation as
generate, and prints the topic list. Useful before spending API calls on
a malformed batch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTopics,
}

func init() {
	topicsCmd.Flags().Bool("json", false, "output the topic list as JSON")

	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, args []string) error {
	topicsFile := defaultTopicsFile
	if len(args) > 0 {
		topicsFile = args[0]
	}

	topicList, err := topics.Load(topicsFile)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(topicList)
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-40s  %-30s  %-7s  %s\n",
		"#", "Name", "Tags", "Premium", "Views")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 95))

	for i, t := range topicList {
		name := t.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		tags := strings.Join(t.Tags, ", ")
		if len(tags) > 30 {
			tags = tags[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-40s  %-30s  %-7t  %d\n",
			i+1, name, tags, t.IsPremium, t.Views)
	}

	fmt.Fprintf(os.Stdout, "\n%d topic(s), all valid\n", len(topicList))
	return nil
}
