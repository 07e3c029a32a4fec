// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topics loads and validates article topic lists from disk.
package topics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/article-forge/pkg/types"
)

// Load reads a topics file and returns the ordered topic list. The format
// is selected by extension: .yaml/.yml parses as YAML, everything else as
// JSON (the original topics.json format). The list is validated before
// being returned.
func Load(path string) ([]types.Topic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topics file %s: %w", path, err)
	}

	var tf types.TopicsFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &tf); err != nil {
			return nil, fmt.Errorf("parsing topics YAML %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &tf); err != nil {
			return nil, fmt.Errorf("parsing topics JSON %s: %w", path, err)
		}
	}

	if err := Validate(tf.Topics); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tf.Topics, nil
}

// Validate checks a topic list for emptiness, missing names, and
// duplicates. The returned error names the first offending entry.
func Validate(topics []types.Topic) error {
	if len(topics) == 0 {
		return fmt.Errorf("no topics: the topics list is empty")
	}

	seen := make(map[string]int, len(topics))
	for i, t := range topics {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return fmt.Errorf("topic %d: missing name", i)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("topic %d: duplicate name %q (first at %d)", i, name, prev)
		}
		seen[name] = i
		if t.Views < 0 {
			return fmt.Errorf("topic %d (%s): negative views %d", i, name, t.Views)
		}
	}
	return nil
}
