package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bububa/kichat/agents/chat"
	"github.com/bububa/kichat/agents/rag"
	"github.com/bububa/kichat/components/embedder"
	openaiembedder "github.com/bububa/kichat/components/embedder/providers/openai"
	"github.com/bububa/kichat/components/embedder/splitter"
	"github.com/bububa/kichat/components/vectordb"
	"github.com/bububa/kichat/components/vectordb/engines"
	"github.com/bububa/kichat/internal/config"
	"github.com/bububa/kichat/internal/logger"
)

const (
	textPreview = 300
	usage       = `Verwendung:
  notenvektor process <pdf_datei>
  notenvektor search "Suchbegriff"

Beispiele:
  notenvektor process EditionPetersUnterrichtslieder.pdf
  notenvektor search "Cricoarytenoid-Gelenk"
`
)

var (
	errNoPDF   = errors.New("no pdf file given")
	errNoQuery = errors.New("no search query given")
)

type app struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	a := new(app)
	cmd := &cobra.Command{
		Use:           "notenvektor",
		Short:         "Vectorize PDF songbooks with BGE-M3 embeddings of the JGU Mainz API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				fmt.Fprintf(out, "Fehler: %v\n", err)
				return err
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
			}
			logger.Init(cfg.LogLevel, cmd.ErrOrStderr())
			if err := cfg.RequireAPIKey(); err != nil {
				fmt.Fprintln(out, "Fehler: API_KEY nicht gesetzt. Bitte setzen Sie die Umgebungsvariable API_KEY.")
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file, overrides the environment")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.AddCommand(a.processCmd(), a.searchCmd())
	return cmd
}

func (a *app) pipeline(out io.Writer) (*rag.Pipeline, error) {
	tk, err := embedder.NewTikToken(a.cfg.Ingest.Encoding)
	if err != nil {
		return nil, err
	}
	chunker, err := embedder.NewWindowChunker(
		embedder.WithTokenizer(tk),
		embedder.WithMaxTokens(a.cfg.Ingest.MaxTokens),
		embedder.WithOverlap(a.cfg.Ingest.Overlap),
	)
	if err != nil {
		return nil, err
	}
	db, err := engines.New(
		vectordb.WithEngine(vectordb.EngineType(a.cfg.Ingest.Engine)),
		vectordb.WithPath(a.cfg.Ingest.DBPath),
		vectordb.WithCompress(a.cfg.Ingest.Compress),
	)
	if err != nil {
		return nil, err
	}
	emb := openaiembedder.New(
		chat.NewClient(a.cfg.APIKey, a.cfg.BaseURL),
		embedder.WithModel(a.cfg.Ingest.EmbeddingModel),
		embedder.WithBatchSize(a.cfg.Ingest.BatchSize),
	)
	return rag.New(
		rag.WithName("notenvektor"),
		rag.WithCollection(a.cfg.Ingest.Collection),
		rag.WithChunker(chunker),
		rag.WithEmbedder(emb),
		rag.WithVectorDB(db),
		rag.WithOnChunked(func(_ string, n int) {
			fmt.Fprintf(out, "Text in %d Chunks aufgeteilt.\n", n)
		}),
	)
}

func (a *app) processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <pdf...>",
		Short: "Extract, chunk, embed and store PDF files, glob patterns are expanded",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, "Fehler: Keine PDF-Datei angegeben.")
				fmt.Fprint(out, usage)
				return errNoPDF
			}
			paths := rag.PDFPaths(args)
			if len(paths) == 0 {
				fmt.Fprintln(out, "Fehler: Keine PDF-Dateien gefunden.")
				fmt.Fprint(out, usage)
				return errNoPDF
			}
			pipe, err := a.pipeline(out)
			if err != nil {
				fmt.Fprintf(out, "Fehler: %v\n", err)
				return err
			}
			var failed error
			for _, path := range paths {
				fmt.Fprintf(out, "Verarbeite %s...\n", path)
				n, err := pipe.Ingest(cmd.Context(), path)
				switch {
				case errors.Is(err, rag.ErrNoText):
					fmt.Fprintf(out, "Kein Text in %s gefunden.\n", path)
				case err != nil:
					fmt.Fprintf(out, "Fehler bei %s: %v\n", path, err)
					failed = err
				default:
					fmt.Fprintf(out, "✅ %d Embeddings für %s gespeichert.\n", n, path)
				}
			}
			return failed
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Print the stored chunks most similar to the query",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, "Fehler: Kein Suchbegriff angegeben.")
				fmt.Fprint(out, usage)
				return errNoQuery
			}
			if n <= 0 {
				n = a.cfg.Ingest.SearchResults
			}
			pipe, err := a.pipeline(out)
			if err != nil {
				fmt.Fprintf(out, "Fehler: %v\n", err)
				return err
			}
			query := strings.Join(args, " ")
			records, err := pipe.Search(cmd.Context(), query, n)
			if err != nil {
				fmt.Fprintf(out, "Fehler bei der Suche: %v\n", err)
				return err
			}
			printResults(out, query, records)
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "results", "n", 0, "number of results, 0 uses INGEST_SEARCH_RESULTS")
	return cmd
}

func printResults(out io.Writer, query string, records []vectordb.Record) {
	fmt.Fprintf(out, "\n🔍 Suchergebnisse für: %s\n\n", query)
	for i, r := range records {
		fmt.Fprintf(out, "━━━ Ergebnis %d ━━━\n", i+1)
		fmt.Fprintf(out, "Quelle: %s\n", r.Source())
		fmt.Fprintf(out, "Chunk: %d\n", r.ChunkID())
		fmt.Fprintf(out, "Ähnlichkeit: %.4f\n", r.Score)
		fmt.Fprintf(out, "Text: %s...\n\n", head(r.Embedding.Object, textPreview))
	}
}

func head(s string, n int) string {
	ret, _ := splitter.Truncate(s, n)
	return ret
}
