package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/bububa/kichat/components/embedder"
	"github.com/bububa/kichat/components/vectordb"
	"github.com/bububa/kichat/components/vectordb/engines/chromem"
	"github.com/bububa/kichat/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setEnv(t *testing.T, kv map[string]string) {
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestMissingAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")
	os.Unsetenv("API_KEY")
	out, err := execute(t, "search", "Kehlkopf")
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("Expect ErrMissingAPIKey, but got %v", err)
	}
	if !strings.Contains(out, "Fehler: API_KEY nicht gesetzt.") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestArguments(t *testing.T) {
	setEnv(t, map[string]string{"API_KEY": "test-key", "INGEST_ENGINE": "memory", "LOG_LEVEL": "error"})
	tests := []struct {
		args   []string
		err    error
		expect string
	}{
		{[]string{"process"}, errNoPDF, "Fehler: Keine PDF-Datei angegeben."},
		{[]string{"process", "noten.txt"}, errNoPDF, "Fehler: Keine PDF-Dateien gefunden."},
		{[]string{"search"}, errNoQuery, "Fehler: Kein Suchbegriff angegeben."},
	}
	for _, tt := range tests {
		out, err := execute(t, tt.args...)
		if !errors.Is(err, tt.err) {
			t.Errorf("%v: Expect %v, but got %v", tt.args, tt.err, err)
		}
		if !strings.Contains(out, tt.expect) || !strings.Contains(out, "Verwendung:") {
			t.Errorf("%v: unexpected output %q", tt.args, out)
		}
	}
}

func TestPrintResults(t *testing.T) {
	long := strings.Repeat("ä", 400)
	records := []vectordb.Record{
		{
			ID:    "lied.pdf_3",
			Score: 0.87654,
			Embedding: embedder.Embedding{
				Object: long,
				Meta:   map[string]string{"source": "lied.pdf", "chunk_id": "3"},
			},
		},
	}
	var buf bytes.Buffer
	printResults(&buf, "Stimmlippen", records)
	out := buf.String()
	for _, part := range []string{
		"🔍 Suchergebnisse für: Stimmlippen",
		"━━━ Ergebnis 1 ━━━",
		"Quelle: lied.pdf",
		"Chunk: 3",
		"Ähnlichkeit: 0.8765",
		"Text: " + strings.Repeat("ä", 300) + "...\n",
	} {
		if !strings.Contains(out, part) {
			t.Errorf("Expect %q in output", part)
		}
	}
	if strings.Contains(out, strings.Repeat("ä", 301)) {
		t.Error("Expect text cut to 300 characters")
	}
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   []map[string]any{{"object": "embedding", "index": 0, "embedding": []float32{1, 0}}},
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
	defer srv.Close()

	dir := t.TempDir()
	db, err := chromem.NewPersistent(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	err = db.Insert(context.Background(), "notenbuch_embeddings",
		vectordb.Record{ID: "lied.pdf_0", Embedding: embedder.Embedding{Object: "Die Stimmlippen schwingen.", Embedding: []float64{1, 0.1}, Meta: map[string]string{"source": "lied.pdf", "chunk_id": "0"}}},
		vectordb.Record{ID: "lied.pdf_1", Embedding: embedder.Embedding{Object: "Atemübungen zum Aufwärmen.", Embedding: []float64{0, 1}, Meta: map[string]string{"source": "lied.pdf", "chunk_id": "1"}}},
	)
	if err != nil {
		t.Fatal(err)
	}

	setEnv(t, map[string]string{
		"API_KEY":        "test-key",
		"API_BASE_URL":   srv.URL,
		"INGEST_DB_PATH": dir,
		"LOG_LEVEL":      "error",
	})
	out, err := execute(t, "search", "-n", "1", "Stimmlippen")
	if err != nil {
		t.Fatal(err)
	}
	for _, part := range []string{"━━━ Ergebnis 1 ━━━", "Quelle: lied.pdf", "Chunk: 0", "Text: Die Stimmlippen schwingen...."} {
		if !strings.Contains(out, part) {
			t.Errorf("Expect %q in output, but got %q", part, out)
		}
	}
	if strings.Contains(out, "Ergebnis 2") {
		t.Errorf("Expect a single result, but got %q", out)
	}
}
