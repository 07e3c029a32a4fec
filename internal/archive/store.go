// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists generated articles in a local SQLite database
// so batches can resume without repeating API calls and past output can
// be searched and re-emitted.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/article-forge/pkg/types"
)

const dbFile = "articles.db"

// Store manages the article archive SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the archive database at outputDir/articles.db.
// It creates the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	dbPath := filepath.Join(cfg.OutputDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			excerpt TEXT,
			summary TEXT,
			summary_title TEXT,
			featured_image TEXT,
			reading_time INTEGER,
			tags TEXT,
			is_premium INTEGER,
			views INTEGER,
			created_by TEXT,
			generated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_generated_at ON articles(generated_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='articles_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE articles_fts USING fts5(title, content, content=articles, content_rowid=rowid)`,
			`CREATE TRIGGER articles_ai AFTER INSERT ON articles BEGIN
				INSERT INTO articles_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
			END`,
			`CREATE TRIGGER articles_ad AFTER DELETE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
			END`,
			`CREATE TRIGGER articles_au AFTER UPDATE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
				INSERT INTO articles_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Has reports whether an article for the topic has already been generated.
func (s *Store) Has(ctx context.Context, topic string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM articles WHERE topic = ?`, topic,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking topic %q: %w", topic, err)
	}
	return n > 0, nil
}

// Save upserts an article keyed by topic. Regenerating a topic replaces
// the stored record and refreshes generated_at.
func (s *Store) Save(ctx context.Context, a types.Article) error {
	tagsJSON, _ := json.Marshal(a.Tags)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (topic, title, content, excerpt, summary, summary_title,
			featured_image, reading_time, tags, is_premium, views, created_by, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(topic) DO UPDATE SET
			title=excluded.title, content=excluded.content, excerpt=excluded.excerpt,
			summary=excluded.summary, summary_title=excluded.summary_title,
			featured_image=excluded.featured_image, reading_time=excluded.reading_time,
			tags=excluded.tags, is_premium=excluded.is_premium, views=excluded.views,
			created_by=excluded.created_by, generated_at=excluded.generated_at`,
		a.Topic, a.Title, a.Content, a.Excerpt, a.Summary, a.SummaryTitle,
		a.FeaturedImage, a.ReadingTime, string(tagsJSON), a.IsPremium, a.Views,
		a.CreatedBy, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving article %q: %w", a.Topic, err)
	}
	return nil
}

// Record is a stored article with its generation timestamp.
type Record struct {
	types.Article `yaml:",inline"`

	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

const selectColumns = `topic, title, content, excerpt, summary, summary_title,
	featured_image, reading_time, tags, is_premium, views, created_by, generated_at`

// List returns every stored article in generation order.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM articles ORDER BY generated_at, topic`)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Search runs an FTS5 full-text query over article titles and content,
// ranked by relevance. A limit of zero uses the store default.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Record, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	// Columns are qualified because articles_fts also exposes title and content.
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.topic, a.title, a.content, a.excerpt, a.summary, a.summary_title,
			a.featured_image, a.reading_time, a.tags, a.is_premium, a.views,
			a.created_by, a.generated_at
		 FROM articles_fts
		 JOIN articles a ON a.rowid = articles_fts.rowid
		 WHERE articles_fts MATCH ?
		 ORDER BY articles_fts.rank
		 LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching archive: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var (
			r           Record
			tagsJSON    sql.NullString
			generatedAt string
		)
		if err := rows.Scan(
			&r.Topic, &r.Title, &r.Content, &r.Excerpt, &r.Summary, &r.SummaryTitle,
			&r.FeaturedImage, &r.ReadingTime, &tagsJSON, &r.IsPremium, &r.Views,
			&r.CreatedBy, &generatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning article row: %w", err)
		}
		if tagsJSON.Valid && tagsJSON.String != "" {
			if err := json.Unmarshal([]byte(tagsJSON.String), &r.Tags); err != nil {
				return nil, fmt.Errorf("parsing tags for %q: %w", r.Topic, err)
			}
		}
		if t, err := time.Parse(time.RFC3339Nano, generatedAt); err == nil {
			r.GeneratedAt = t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Articles strips generation timestamps so records can feed the SQL emitter.
func Articles(records []Record) []types.Article {
	articles := make([]types.Article, len(records))
	for i, r := range records {
		articles[i] = r.Article
	}
	return articles
}
