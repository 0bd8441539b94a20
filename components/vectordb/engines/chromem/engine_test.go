package chromem

import (
	"context"
	"testing"

	"github.com/bububa/kichat/components/embedder"
	"github.com/bububa/kichat/components/vectordb"
)

func TestPersistentRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	e, err := NewPersistent(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	ret, err := e.Search(ctx, []float64{1, 0}, vectordb.SearchWithCollection("notes"))
	if err != nil || ret != nil {
		t.Fatalf("Expect nil result for empty collection, but got %v, %v", ret, err)
	}
	records := []vectordb.Record{
		{ID: "a.pdf_0", Embedding: embedder.Embedding{Object: "Kehlkopf", Embedding: []float64{1, 0}, Meta: map[string]string{"source": "a.pdf", "chunk_id": "0"}}},
		{ID: "a.pdf_1", Embedding: embedder.Embedding{Object: "Zwerchfell", Embedding: []float64{0, 1}, Meta: map[string]string{"source": "a.pdf", "chunk_id": "1"}}},
	}
	if err := e.Insert(ctx, "notes", records...); err != nil {
		t.Fatal(err)
	}
	// reopen to read from disk
	e, err = NewPersistent(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	n, err := e.Count(ctx, "notes")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("Expect 2 documents, but got %d", n)
	}
	ret, err = e.Search(ctx, []float64{0.9, 0.1}, vectordb.SearchWithCollection("notes"), vectordb.SearchWithTopK(5))
	if err != nil {
		t.Fatal(err)
	}
	if len(ret) != 2 {
		t.Fatalf("Expect topK clamped to 2, but got %d", len(ret))
	}
	if ret[0].ID != "a.pdf_0" || ret[0].ChunkID() != 0 || ret[0].Source() != "a.pdf" {
		t.Errorf("unexpected first result %+v", ret[0])
	}
	if ret[0].Score <= ret[1].Score {
		t.Errorf("Expect descending scores, but got %f <= %f", ret[0].Score, ret[1].Score)
	}
}
