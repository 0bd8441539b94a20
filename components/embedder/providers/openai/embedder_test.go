package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/kichat/components"
	"github.com/bububa/kichat/components/embedder"
)

func startEmbeddingServer(t *testing.T, requests *int) *httptest.Server {
	handler := func(w http.ResponseWriter, r *http.Request) {
		*requests++
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Model != embedder.DefaultModel {
			t.Errorf("Expect model %s, but got %s", embedder.DefaultModel, req.Model)
		}
		data := make([]map[string]any, 0, len(req.Input))
		// reversed on purpose, the client must restore input order
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float32{float32(len(req.Input[i])), 1},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  req.Model,
			"data":   data,
			"usage":  map[string]int{"prompt_tokens": len(req.Input), "total_tokens": len(req.Input)},
		})
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/embeddings", handler)
	return httptest.NewServer(mux)
}

func newClient(baseURL string) *openai.Client {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = baseURL
	return openai.NewClientWithConfig(cfg)
}

func TestBatchEmbed(t *testing.T) {
	var requests int
	srv := startEmbeddingServer(t, &requests)
	defer srv.Close()

	e := New(newClient(srv.URL), embedder.WithBatchSize(2))
	parts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	usage := new(components.Usage)
	ret, err := e.BatchEmbed(context.Background(), parts, usage)
	if err != nil {
		t.Fatal(err)
	}
	if requests != 3 {
		t.Errorf("Expect 3 requests, but got %d", requests)
	}
	if len(ret) != len(parts) {
		t.Fatalf("Expect %d embeddings, but got %d", len(parts), len(ret))
	}
	for i, v := range ret {
		if v.Index != i {
			t.Errorf("Expect index %d, but got %d", i, v.Index)
		}
		if v.Object != parts[i] {
			t.Errorf("Expect object %s, but got %s", parts[i], v.Object)
		}
		if int(v.Embedding[0]) != len(parts[i]) {
			t.Errorf("Expect embedding of %s, but got %v", parts[i], v.Embedding)
		}
	}
	if usage.InputTokens != int64(len(parts)) {
		t.Errorf("Expect %d input tokens, but got %d", len(parts), usage.InputTokens)
	}
}

func TestEmbed(t *testing.T) {
	var requests int
	srv := startEmbeddingServer(t, &requests)
	defer srv.Close()

	e := New(newClient(srv.URL))
	var got embedder.Embedding
	if err := e.Embed(context.Background(), "Kehlkopf", &got, nil); err != nil {
		t.Fatal(err)
	}
	if got.Object != "Kehlkopf" || len(got.Embedding) != 2 {
		t.Errorf("unexpected embedding %+v", got)
	}
}
