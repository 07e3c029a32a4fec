// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Topic is one entry from a topics file: the subject of an article to
// generate plus the database columns the model does not produce.
type Topic struct {
	// Name is the article subject (e.g. "Gradient Descent Optimization").
	Name string `json:"name" yaml:"name"`

	// Tags label the article; emitted as a PostgreSQL text array.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// IsPremium marks the article as paywalled content.
	IsPremium bool `json:"is_premium,omitempty" yaml:"is_premium,omitempty"`

	// Views is the initial view counter.
	Views int `json:"views,omitempty" yaml:"views,omitempty"`
}

// TopicsFile is the on-disk topics list. JSON and YAML share the shape.
type TopicsFile struct {
	Topics []Topic `json:"topics" yaml:"topics"`
}

// ArticleContent is the model-produced portion of an article. Field names
// match the JSON keys the generation prompt demands.
type ArticleContent struct {
	// Title is the SEO-friendly article title (50-60 characters).
	Title string `json:"title" yaml:"title"`

	// Content is the HTML article body (1500-2500 words).
	Content string `json:"content" yaml:"content"`

	// Excerpt is a 100-150 character click-through preview.
	Excerpt string `json:"excerpt" yaml:"excerpt"`

	// Summary is a ~100 word standalone explanation of the concept.
	Summary string `json:"summary" yaml:"summary"`

	// SummaryTitle is a short 2-5 word label, distinct from Title.
	SummaryTitle string `json:"summary_title" yaml:"summary_title"`

	// ReadingTime is the estimated reading time in minutes.
	ReadingTime int `json:"reading_time" yaml:"reading_time"`
}

// Article is a fully assembled record, ready for SQL emission: model
// content plus topic metadata and operator-supplied fields.
type Article struct {
	ArticleContent `yaml:",inline"`

	// Topic is the topic name the article was generated from.
	Topic string `json:"topic" yaml:"topic"`

	// Tags are copied from the topic record.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// FeaturedImage is the header image URL.
	FeaturedImage string `json:"featured_image" yaml:"featured_image"`

	// IsPremium marks the article as paywalled content.
	IsPremium bool `json:"is_premium" yaml:"is_premium"`

	// Views is the initial view counter.
	Views int `json:"views" yaml:"views"`

	// CreatedBy is the author UUID recorded in the created_by column.
	CreatedBy string `json:"created_by" yaml:"created_by"`
}
