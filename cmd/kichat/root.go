package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bububa/kichat/agents/chat"
	"github.com/bububa/kichat/components"
	"github.com/bububa/kichat/components/systemprompt"
	"github.com/bububa/kichat/internal/config"
	"github.com/bububa/kichat/internal/console"
	"github.com/bububa/kichat/internal/logger"
	"github.com/bububa/kichat/tools"
	"github.com/bububa/kichat/tools/websearch"
	"github.com/bububa/kichat/tools/webscraper"
)

const missingKeyHint = `🔑 API-Schlüssel fehlt

Fehler: Kein API_KEY gefunden!

Bitte setzen Sie die Umgebungsvariable API_KEY:
export API_KEY='Ihr-API-Schlüssel'

Den Schlüssel erhalten Sie unter:
https://ki-chat.uni-mainz.de → Einstellungen → Konto

Ohne diesen Schlüssel kann die App nicht auf die KI-Chat-API der JGU Mainz zugreifen und startet daher nicht.
`

func newRootCmd() *cobra.Command {
	var (
		cfgFile  string
		model    string
		logLevel string
	)
	cmd := &cobra.Command{
		Use:           "kichat",
		Short:         "Terminal client for the JGU Mainz KI-Chat",
		Long:          "Chat with the models of ki-chat.uni-mainz.de with streamed answers and automatic web search.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.Load(cfgFile)
			if err != nil {
				fmt.Fprintf(out, "Fehler: %v\n", err)
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if model != "" {
				cfg.Chat.Model = model
			}
			logger.Init(cfg.LogLevel, cmd.ErrOrStderr())
			if err := cfg.RequireAPIKey(); err != nil {
				fmt.Fprint(out, missingKeyHint)
				return err
			}
			return run(cmd.Context(), cfg, cmd.InOrStdin(), out)
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "YAML config file, overrides the environment")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model to use, skips the model selection")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	return cmd
}

func toolOptions() []tools.Option {
	return []tools.Option{
		tools.WithErrorHook(func(ctx context.Context, t tools.ITool, input any, err error) {
			log.Debug().Err(err).Str("tool", t.Title()).Interface("input", input).Msg("tool failed")
		}),
	}
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := toolOptions()
	searcher := websearch.Default(cfg.TavilyAPIKey, cfg.SearxngURL, cfg.Chat.SearchResults, opts...)
	session, err := chat.New(
		chat.WithClient(chat.NewClient(cfg.APIKey, cfg.BaseURL)),
		chat.WithMemory(components.NewMemory(cfg.Chat.MaxMessages)),
		chat.WithSearcher(searcher),
		chat.WithScraper(webscraper.New(webscraper.WithToolOptions(opts...))),
		chat.WithModel(cfg.Chat.Model),
		chat.WithReasoningEffort(cfg.Chat.ReasoningEffort),
		chat.WithSystemPrompt(systemprompt.New(cfg.Chat.SystemPrompt, systemprompt.WithContextProviders(systemprompt.NewDate(nil)))),
	)
	if err != nil {
		return err
	}
	repl := console.New(session, in, out,
		console.WithTimeout(cfg.Chat.Timeout),
		console.WithSearchMethods(searcher.Providers()),
	)
	return repl.Run(ctx)
}
