// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"strings"
	"testing"

	"github.com/pdiddy/article-forge/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.ArchiveConfig{
		OutputDir:  t.TempDir(),
		MaxResults: 20,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleArticle(topic string) types.Article {
	return types.Article{
		ArticleContent: types.ArticleContent{
			Title:        topic + " Explained",
			Content:      "<p>All about " + topic + " and why it matters.</p>",
			Excerpt:      "A short look at " + topic + ".",
			Summary:      topic + " summarized in a paragraph.",
			SummaryTitle: topic,
			ReadingTime:  6,
		},
		Topic:         topic,
		Tags:          []string{"ml", strings.ToLower(topic)},
		FeaturedImage: "https://images.pexels.com/photos/3861969/pexels-photo-3861969.jpeg",
		IsPremium:     true,
		Views:         3,
		CreatedBy:     "c41b5bc1-d819-4b8a-ab04-cf1ae4692304",
	}
}

func TestSaveAndHas(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	has, err := store.Has(ctx, "Backprop")
	if err != nil {
		t.Fatal(err)
	}
	if has {
		t.Fatal("empty store claims to have topic")
	}

	if err := store.Save(ctx, sampleArticle("Backprop")); err != nil {
		t.Fatal(err)
	}

	has, err = store.Has(ctx, "Backprop")
	if err != nil {
		t.Fatal(err)
	}
	if !has {
		t.Fatal("saved topic not found")
	}
}

func TestSaveUpsertsByTopic(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, sampleArticle("Attention")); err != nil {
		t.Fatal(err)
	}

	updated := sampleArticle("Attention")
	updated.Title = "Attention Revisited"
	updated.Views = 42
	if err := store.Save(ctx, updated); err != nil {
		t.Fatal(err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records after upsert, want 1", len(records))
	}
	if records[0].Title != "Attention Revisited" || records[0].Views != 42 {
		t.Errorf("record not replaced: %+v", records[0])
	}
}

func TestListRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for _, topic := range []string{"Backprop", "Attention", "Dropout"} {
		if err := store.Save(ctx, sampleArticle(topic)); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	r := records[0]
	want := sampleArticle(r.Topic)
	if r.Content != want.Content || r.Excerpt != want.Excerpt || r.SummaryTitle != want.SummaryTitle {
		t.Errorf("content fields not round-tripped: %+v", r)
	}
	if !r.IsPremium || r.Views != 3 || r.ReadingTime != 6 {
		t.Errorf("numeric fields not round-tripped: %+v", r)
	}
	if len(r.Tags) != 2 || r.Tags[0] != "ml" {
		t.Errorf("tags not round-tripped: %v", r.Tags)
	}
	if r.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not recorded")
	}
}

func TestSearch(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	backprop := sampleArticle("Backprop")
	backprop.Content = "<p>The chain rule drives backpropagation through layers.</p>"
	dropout := sampleArticle("Dropout")
	dropout.Content = "<p>Randomly silencing units regularizes the network.</p>"

	for _, a := range []types.Article{backprop, dropout} {
		if err := store.Save(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.Search(ctx, "chain rule", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Topic != "Backprop" {
		t.Fatalf("search results = %+v, want only Backprop", records)
	}
}

func TestSearchAfterUpdateFindsNewContent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	a := sampleArticle("Quantization")
	a.Content = "<p>Original wording about precision.</p>"
	if err := store.Save(ctx, a); err != nil {
		t.Fatal(err)
	}

	a.Content = "<p>Rewritten wording about integer arithmetic.</p>"
	if err := store.Save(ctx, a); err != nil {
		t.Fatal(err)
	}

	if records, err := store.Search(ctx, "precision", 0); err != nil {
		t.Fatal(err)
	} else if len(records) != 0 {
		t.Errorf("stale content still indexed: %+v", records)
	}

	records, err := store.Search(ctx, "integer", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("updated content not indexed: %+v", records)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	store := testStore(t)
	if _, err := store.Search(context.Background(), "  ", 0); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestArticles(t *testing.T) {
	records := []Record{
		{Article: sampleArticle("A")},
		{Article: sampleArticle("B")},
	}
	articles := Articles(records)
	if len(articles) != 2 || articles[1].Topic != "B" {
		t.Fatalf("Articles() = %+v", articles)
	}
}
