// Package console is the interactive terminal front end of the chat client
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/bububa/kichat/agents/chat"
	"github.com/bububa/kichat/components"
	"github.com/bububa/kichat/components/embedder/splitter"
)

const (
	historyPreview = 200
	ruleWidth      = 70
)

// ErrNoModels is returned when the API lists no models
var ErrNoModels = errors.New("no models available")

type Option func(*REPL)

// WithTimeout bounds every chat request, 0 disables the bound
func WithTimeout(d time.Duration) Option {
	return func(r *REPL) {
		r.timeout = d
	}
}

// WithSearchMethods names the configured web search providers in priority order
func WithSearchMethods(methods []string) Option {
	return func(r *REPL) {
		r.searchMethods = methods
	}
}

// REPL reads questions and commands and prints streamed answers
type REPL struct {
	session       *chat.Session
	reader        *LineReader
	out           io.Writer
	timeout       time.Duration
	searchMethods []string
	lastAnswer    string
}

func New(session *chat.Session, in io.Reader, out io.Writer, opts ...Option) *REPL {
	r := &REPL{
		session: session,
		reader:  NewLineReader(in, out),
		out:     out,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loops until /exit, EOF or ctx is done. A preselected model skips the model selection.
func (r *REPL) Run(ctx context.Context) error {
	r.printHeader()
	if r.session.Model() == "" {
		if err := r.selectModel(ctx); err != nil {
			return r.stop(ctx, err)
		}
	}
	r.printReady()
	for {
		fmt.Fprintln(r.out)
		input, err := r.reader.ReadInput(ctx, r.prompt())
		if err != nil {
			return r.stop(ctx, err)
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		if cmd, arg, ok := ParseCommand(input); ok {
			done, err := r.handle(ctx, cmd, arg)
			if err != nil {
				return r.stop(ctx, err)
			}
			if done {
				return nil
			}
			continue
		}
		r.ask(ctx, input, false)
		if ctx.Err() != nil {
			return r.stop(ctx, ctx.Err())
		}
	}
}

// stop turns EOF and interrupts into a regular exit
func (r *REPL) stop(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		fmt.Fprintln(r.out, "\nUnterbrochen. Auf Wiedersehen! 👋")
		return nil
	}
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(r.out, "\nAuf Wiedersehen! 👋")
		return nil
	}
	return err
}

func (r *REPL) prompt() string {
	model := r.session.Model()
	if r.session.SupportsReasoning() {
		return fmt.Sprintf("👤 Du (%s | reasoning %s): ", model, r.session.ReasoningEffort())
	}
	return fmt.Sprintf("👤 Du (%s): ", model)
}

func (r *REPL) rule() {
	fmt.Fprintln(r.out, strings.Repeat("─", ruleWidth))
}

func (r *REPL) printHeader() {
	bar := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(r.out, "\n%s\n\n", bar)
	fmt.Fprintln(r.out, "            🎓  JGU Mainz KI-Chat Terminal Client")
	fmt.Fprintln(r.out, "                  Powered by ki-chat.uni-mainz.de")
	fmt.Fprintf(r.out, "\n%s\n\n", bar)
}

func (r *REPL) searchStatus() string {
	switch len(r.searchMethods) {
	case 0:
		return "🔍 Keine Websuche verfügbar"
	case 1:
		return "🔍 " + r.searchMethods[0]
	default:
		return fmt.Sprintf("🔍 %s (primär) + %s (Fallback)", r.searchMethods[0], strings.Join(r.searchMethods[1:], ", "))
	}
}

func (r *REPL) printReady() {
	fmt.Fprintln(r.out, "✅ Bereit")
	fmt.Fprintf(r.out, "Modell ausgewählt: %s\n", r.session.Model())
	fmt.Fprintf(r.out, "Websuche: %s\n\n", r.searchStatus())
	fmt.Fprintln(r.out, "Geben Sie /help ein für Hilfe.")
	fmt.Fprintln(r.out, "Geben Sie Ihre Frage ein und drücken Sie Enter.")
	fmt.Fprintln(r.out, "Tipp: Verwende /w <frage> für Websuche")
}

func (r *REPL) selectModel(ctx context.Context) error {
	fmt.Fprintln(r.out, "Lade verfügbare Modelle...")
	models, err := r.session.Models(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "Fehler beim Abrufen der Modelle: %v\n", err)
		return err
	}
	if len(models) == 0 {
		fmt.Fprintln(r.out, "Keine Modelle verfügbar.")
		return ErrNoModels
	}
	fmt.Fprintln(r.out, "\n🤖 Verfügbare Modelle:")
	fmt.Fprintln(r.out)
	for i, m := range models {
		fmt.Fprintf(r.out, "  [%d]  %s\n", i+1, m)
	}
	fmt.Fprintln(r.out)
	for {
		choice, err := r.reader.ReadLine(ctx, "Modell auswählen (Nummer oder Name) [1]: ")
		if err != nil {
			return err
		}
		model, err := chat.SelectModel(models, choice)
		if err != nil {
			fmt.Fprintln(r.out, "Ungültige Auswahl. Bitte erneut versuchen.")
			continue
		}
		r.session.SetModel(model)
		fmt.Fprintln(r.out)
		return nil
	}
}

// handle runs a command, done is true when the session ends
func (r *REPL) handle(ctx context.Context, cmd string, arg string) (done bool, err error) {
	switch cmd {
	case "exit", "quit", "q":
		fmt.Fprintln(r.out, "Auf Wiedersehen! 👋")
		return true, nil
	case "help":
		fmt.Fprint(r.out, helpText)
	case "model":
		if err := r.selectModel(ctx); err != nil && (ctx.Err() != nil || errors.Is(err, io.EOF)) {
			return false, err
		}
	case "reasoning":
		r.reasoning(arg)
	case "clear":
		r.session.Clear()
		r.lastAnswer = ""
		fmt.Fprintln(r.out, "Chatverlauf gelöscht.")
	case "history":
		r.showHistory()
	case "paste":
		return false, r.paste(ctx)
	case "code":
		r.showCode(arg)
	case "w":
		if arg == "" {
			fmt.Fprintln(r.out, "Verwendung: /w <frage>")
			return false, nil
		}
		r.ask(ctx, arg, true)
	case "url":
		if arg == "" {
			fmt.Fprintln(r.out, "Verwendung: /url <link> [frage]")
			return false, nil
		}
		link, question, _ := strings.Cut(arg, " ")
		r.askPage(ctx, link, strings.TrimSpace(question))
	default:
		fmt.Fprintf(r.out, "Unbekannter Befehl: %s. Geben Sie /help ein für Hilfe.\n", cmd)
	}
	return false, ctx.Err()
}

func (r *REPL) reasoning(arg string) {
	if arg != "" {
		if err := r.session.SetReasoningEffort(arg); err == nil {
			fmt.Fprintf(r.out, "Reasoning Effort auf '%s' gesetzt.\n", r.session.ReasoningEffort())
			return
		}
	}
	fmt.Fprintf(r.out, "Aktueller Reasoning Effort: %s\n", r.session.ReasoningEffort())
	fmt.Fprintln(r.out, "Optionen: low, medium, high")
	fmt.Fprintln(r.out, "Verwendung: /reasoning <level>")
}

func (r *REPL) paste(ctx context.Context) error {
	fmt.Fprintln(r.out, "\n📋 Paste-Modus aktiviert")
	fmt.Fprintln(r.out, "Füge deinen Text ein (mehrere Zeilen möglich).")
	fmt.Fprintf(r.out, "Beende die Eingabe mit einer Zeile die nur END enthält.\n\n")
	lines, err := r.reader.ReadPaste(ctx)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(r.out, "Keine Eingabe erfasst.")
		return nil
	}
	input := strings.Join(lines, "\n")
	fmt.Fprintf(r.out, "\n✓ %d Zeilen erfasst (%d Zeichen)\n", len(lines), utf8.RuneCountInString(input))
	r.ask(ctx, input, false)
	return nil
}

func (r *REPL) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

func (r *REPL) stream(delta string) {
	fmt.Fprint(r.out, delta)
}

func (r *REPL) ask(ctx context.Context, input string, forceSearch bool) {
	fmt.Fprintln(r.out)
	reqCtx, cancel := r.requestContext(ctx)
	defer cancel()
	reply, err := r.session.Send(reqCtx, input, forceSearch, r.stream)
	r.finish(reply, err)
}

func (r *REPL) askPage(ctx context.Context, link string, question string) {
	fmt.Fprintf(r.out, "\n🌐 Lade %s ...\n", link)
	reqCtx, cancel := r.requestContext(ctx)
	defer cancel()
	reply, err := r.session.SendPage(reqCtx, link, question, r.stream)
	r.finish(reply, err)
}

func (r *REPL) finish(reply *chat.Reply, err error) {
	if err != nil {
		log.Debug().Err(err).Msg("chat request")
		fmt.Fprintf(r.out, "\n[Fehler: %v]\n", err)
		return
	}
	fmt.Fprintln(r.out)
	if reply.Search != nil {
		fmt.Fprintf(r.out, "\n%s\n", reply.Search.String())
	}
	r.lastAnswer = reply.Content
	if blocks := chat.CodeBlocks(reply.Content); len(blocks) > 0 {
		names := make([]string, 0, len(blocks))
		for i, b := range blocks {
			names = append(names, fmt.Sprintf("[%d] %s", i+1, languageName(b.Language)))
		}
		fmt.Fprintf(r.out, "\n💻 Codeblöcke: %s (/code <n> zeigt einen Codeblock)\n", strings.Join(names, "  "))
	}
	r.rule()
}

func languageName(lang string) string {
	if lang == "" {
		return "text"
	}
	return lang
}

func (r *REPL) showCode(arg string) {
	blocks := chat.CodeBlocks(r.lastAnswer)
	if len(blocks) == 0 {
		fmt.Fprintln(r.out, "Keine Codeblöcke in der letzten Antwort.")
		return
	}
	if arg == "" {
		for i, b := range blocks {
			r.printCode(i+1, b)
		}
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(blocks) {
		fmt.Fprintf(r.out, "Ungültiger Codeblock: %s (1-%d)\n", arg, len(blocks))
		return
	}
	r.printCode(n, blocks[n-1])
}

func (r *REPL) printCode(n int, b chat.CodeBlock) {
	fmt.Fprintf(r.out, "💻 [%d] %s\n", n, strings.ToUpper(languageName(b.Language)))
	fmt.Fprint(r.out, b.Code)
	if !strings.HasSuffix(b.Code, "\n") {
		fmt.Fprintln(r.out)
	}
	r.rule()
}

func (r *REPL) showHistory() {
	history := r.session.History()
	if len(history) == 0 {
		fmt.Fprintln(r.out, "Noch kein Chatverlauf vorhanden.")
		return
	}
	for _, msg := range history {
		label := "🤖 KI:"
		if msg.Role() == components.UserRole {
			label = "👤 Du:"
		}
		fmt.Fprintf(r.out, "%s\n%s\n\n", label, Preview(msg.Content(), historyPreview))
	}
}

// Preview cuts s to n characters and marks the cut with ...
func Preview(s string, n int) string {
	return splitter.Ellipsis(s, n)
}

const helpText = `
📖 Hilfe

Verfügbare Befehle:

Websuche:
  /w <frage>           Frage mit Websuche beantworten
  /url <link> [frage]  Frage zu einer Webseite stellen

Chat:
  /model               Modell wechseln
  /reasoning <level>   Reasoning Effort setzen (low/medium/high, nur für GPT OSS 120B)
  /paste               Paste-Modus für lange, mehrzeilige Texte (beende mit END)
  /code [n]            Codeblöcke der letzten Antwort anzeigen
  /clear               Chatverlauf löschen
  /history             Chatverlauf anzeigen
  /help                Diese Hilfe anzeigen
  /exit oder /quit     Programm beenden

Tipps:
  • Verwende /w <frage> für Websuche (z.B.: /w Wetter Mainz)
  • Mehrzeilen-Eingabe: Starte mit """ und beende mit """ auf neuer Zeile
  • Die App führt automatisch Websuche durch bei Themen wie
    Wetter, Preise, Kurse, News oder Schlüsselwörtern wie "aktuell", "heute"
  • Der Chatverlauf wird zwischen Fragen beibehalten
  • Mit /clear kann ein neues Gespräch begonnen werden
  • Mit Ctrl+C beendest du das Programm jederzeit
`
