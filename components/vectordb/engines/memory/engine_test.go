package memory

import (
	"context"
	"testing"

	"github.com/bububa/kichat/components/embedder"
	"github.com/bububa/kichat/components/vectordb"
)

func record(id, text string, vec ...float64) vectordb.Record {
	return vectordb.Record{
		ID: id,
		Embedding: embedder.Embedding{
			Object:    text,
			Embedding: vec,
			Meta:      map[string]string{"source": "notes.pdf", "chunk_id": id},
		},
	}
}

func TestSearchOrdersBySimilarity(t *testing.T) {
	ctx := context.Background()
	e := New()
	if err := e.Insert(ctx, "col",
		record("0", "Kehlkopf", 1, 0),
		record("1", "Stimmlippen", 0.7, 0.7),
		record("2", "Zwerchfell", 0, 1),
	); err != nil {
		t.Fatal(err)
	}
	ret, err := e.Search(ctx, []float64{1, 0.1}, vectordb.SearchWithCollection("col"), vectordb.SearchWithTopK(2))
	if err != nil {
		t.Fatal(err)
	}
	if len(ret) != 2 {
		t.Fatalf("Expect 2 results, but got %d", len(ret))
	}
	if ret[0].ID != "0" || ret[1].ID != "1" {
		t.Errorf("Expect ids [0 1], but got [%s %s]", ret[0].ID, ret[1].ID)
	}
	if ret[0].Score < ret[1].Score {
		t.Errorf("Expect descending scores, but got %f < %f", ret[0].Score, ret[1].Score)
	}
	if ret[0].Source() != "notes.pdf" || ret[0].ChunkID() != 0 {
		t.Errorf("unexpected metadata %v", ret[0].Embedding.Meta)
	}
}

func TestInsertUpserts(t *testing.T) {
	ctx := context.Background()
	e := New()
	for range 2 {
		if err := e.Insert(ctx, "col", record("a", "eins", 1, 0), record("b", "zwei", 0, 1)); err != nil {
			t.Fatal(err)
		}
	}
	if err := e.Insert(ctx, "col", record("a", "neu", 1, 0)); err != nil {
		t.Fatal(err)
	}
	n, _ := e.Count(ctx, "col")
	if n != 2 {
		t.Errorf("Expect 2 records, but got %d", n)
	}
	ret, _ := e.Search(ctx, []float64{1, 0}, vectordb.SearchWithCollection("col"), vectordb.SearchWithTopK(1))
	if len(ret) != 1 || ret[0].Embedding.Object != "neu" {
		t.Errorf("Expect replaced record, but got %+v", ret)
	}
}

func TestSearchEmptyAndClamp(t *testing.T) {
	ctx := context.Background()
	e := New(vectordb.WithTopK(10))
	ret, err := e.Search(ctx, []float64{1}, vectordb.SearchWithCollection("empty"))
	if err != nil || ret != nil {
		t.Errorf("Expect nil result, but got %v, %v", ret, err)
	}
	_ = e.Insert(ctx, "col", record("a", "eins", 1))
	ret, _ = e.Search(ctx, []float64{1}, vectordb.SearchWithCollection("col"))
	if len(ret) != 1 {
		t.Errorf("Expect 1 result, but got %d", len(ret))
	}
}

func TestSearchFilters(t *testing.T) {
	ctx := context.Background()
	e := New()
	_ = e.Insert(ctx, "col",
		record("0", "Kehlkopf und Stimme", 1, 0),
		record("1", "Stimme allein", 1, 0),
		record("2", "Zwerchfell", 1, 0),
	)
	tests := []struct {
		name   string
		opts   []vectordb.SearchOption
		expect int
	}{
		{name: "include", opts: []vectordb.SearchOption{vectordb.SearchWithInclude("Stimme")}, expect: 2},
		{name: "exclude", opts: []vectordb.SearchOption{vectordb.SearchWithExclude("Stimme")}, expect: 1},
		{name: "meta", opts: []vectordb.SearchOption{vectordb.SearchWithMeta(map[string]string{"chunk_id": "2"})}, expect: 1},
		{name: "meta miss", opts: []vectordb.SearchOption{vectordb.SearchWithMeta(map[string]string{"source": "x"})}, expect: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]vectordb.SearchOption{vectordb.SearchWithCollection("col")}, tt.opts...)
			ret, err := e.Search(ctx, []float64{1, 0}, opts...)
			if err != nil {
				t.Fatal(err)
			}
			if len(ret) != tt.expect {
				t.Errorf("Expect %d results, but got %d", tt.expect, len(ret))
			}
		})
	}
}

func TestInsertFillsMissingID(t *testing.T) {
	ctx := context.Background()
	e := New()
	rec := record("", "ohne id", 1)
	_ = e.Insert(ctx, "col", rec, rec)
	n, _ := e.Count(ctx, "col")
	if n != 1 {
		t.Errorf("Expect identical records to share an id, but got %d records", n)
	}
}
