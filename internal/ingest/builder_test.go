package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/labsmc/wikigpt/internal/knowledge"
	"github.com/labsmc/wikigpt/internal/log"
	"github.com/labsmc/wikigpt/internal/testutil"
	"github.com/labsmc/wikigpt/internal/wiki"
)

// fakeWiki serves scripted pages in paginated batches.
type fakeWiki struct {
	pages   map[string]string
	order   []string
	failing map[string]bool
}

func (f *fakeWiki) ListPages(_ context.Context, after string, limit int) ([]string, string, error) {
	start := 0
	if after != "" {
		for i, title := range f.order {
			if title == after {
				start = i
				break
			}
		}
	}
	end := min(start+limit, len(f.order))
	titles := f.order[start:end]
	next := ""
	if end < len(f.order) {
		next = f.order[end]
	}
	return titles, next, nil
}

func (f *fakeWiki) PageText(_ context.Context, title string) (string, error) {
	if f.failing[title] {
		return "", errors.New("http 500")
	}
	return f.pages[title], nil
}

func TestBuilder_Build(t *testing.T) {
	source := &fakeWiki{
		order: []string{"Chemicals", "Ranks", "Towns"},
		pages: map[string]string{
			"Chemicals": "chemicals are made in a condenser",
			"Ranks":     "rank-up happens at spawn",
			"Towns":     "towns share storage",
		},
	}
	embedder := &testutil.FakeEmbedder{Dimension: 4}
	b := NewBuilder(source, embedder, Config{Dimension: 4, BatchSize: 2}, log.NewNop())

	faq := []wiki.FAQEntry{
		{Question: "How do I rank up?", Answer: "Collect tokens.", Date: "2026-06-01"},
	}

	ix, docs, result, err := b.Build(context.Background(), faq)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Each short page yields one chunk, plus one FAQ entry.
	if docs.Len() != 4 {
		t.Fatalf("store Len() = %d, want 4", docs.Len())
	}
	if ix.Len() != docs.Len() {
		t.Errorf("index Len() = %d, store Len() = %d, must match", ix.Len(), docs.Len())
	}
	if result.Pages != 3 || result.PagesFailed != 0 || result.FAQEntries != 1 {
		t.Errorf("result = %+v, want 3 pages, 0 failed, 1 FAQ entry", result)
	}

	// FAQ chunks land after all wiki chunks with their metadata intact.
	last, err := docs.Get(docs.Len() - 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if last.Source != knowledge.SourceHelpQA || last.Title != "How do I rank up?" || last.Date != "2026-06-01" {
		t.Errorf("FAQ chunk = %+v", last)
	}
}

func TestBuilder_SkipsFailingPages(t *testing.T) {
	source := &fakeWiki{
		order: []string{"Good", "Bad", "Fine"},
		pages: map[string]string{
			"Good": "first page text",
			"Fine": "third page text",
		},
		failing: map[string]bool{"Bad": true},
	}
	embedder := &testutil.FakeEmbedder{Dimension: 4}
	b := NewBuilder(source, embedder, Config{Dimension: 4, BatchSize: 10}, log.NewNop())

	ix, docs, result, err := b.Build(context.Background(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Pages != 2 || result.PagesFailed != 1 {
		t.Errorf("result = %+v, want 2 pages, 1 failed", result)
	}
	if docs.Len() != 2 || ix.Len() != 2 {
		t.Errorf("index/store lengths = %d/%d, want 2/2", ix.Len(), docs.Len())
	}
}

func TestBuilder_EmbeddingFailureAborts(t *testing.T) {
	source := &fakeWiki{
		order: []string{"Only"},
		pages: map[string]string{"Only": "some text"},
	}
	wantErr := errors.New("quota exhausted")
	embedder := &testutil.FakeEmbedder{Dimension: 4, Err: wantErr}
	b := NewBuilder(source, embedder, Config{Dimension: 4, BatchSize: 10}, log.NewNop())

	if _, _, _, err := b.Build(context.Background(), nil); !errors.Is(err, wantErr) {
		t.Fatalf("Build error = %v, want embedding failure", err)
	}
}

func TestBuilder_EmptyWiki(t *testing.T) {
	source := &fakeWiki{}
	embedder := &testutil.FakeEmbedder{Dimension: 4}
	b := NewBuilder(source, embedder, Config{Dimension: 4, BatchSize: 10}, log.NewNop())

	ix, docs, result, err := b.Build(context.Background(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ix.Len() != 0 || docs.Len() != 0 || result.Chunks != 0 {
		t.Errorf("empty wiki produced %d vectors, %d chunks", ix.Len(), docs.Len())
	}
}
