package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "article-forge/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for components that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-20250514").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// GeneratorConfig holds settings for the article generation batch.
type GeneratorConfig struct {
	AIConfig `yaml:",inline"`

	// CreatedBy is the author UUID written to each article's created_by column.
	CreatedBy string `json:"created_by" yaml:"created_by"`

	// OutputDir is the directory for SQL output files and the archive database.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Fallback emits deterministic placeholder content for topics whose
	// generation fails after retries, instead of recording a failure.
	Fallback bool `json:"fallback" yaml:"fallback"`

	// Force regenerates topics already present in the archive.
	Force bool `json:"force" yaml:"force"`
}

// ImageConfig holds settings for featured image selection.
type ImageConfig struct {
	HTTPConfig `yaml:",inline"`

	// PexelsAPIKey enables live Pexels photo search. When empty, images
	// come from the curated default list.
	PexelsAPIKey string `json:"pexels_api_key,omitempty" yaml:"pexels_api_key,omitempty"`
}

// ArchiveConfig holds settings for the local article archive.
type ArchiveConfig struct {
	// OutputDir is the directory containing the archive database (articles.db).
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
