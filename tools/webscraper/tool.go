package webscraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/bububa/kichat/components/document"
	"github.com/bububa/kichat/components/embedder/splitter"
	"github.com/bububa/kichat/tools"
)

var (
	// ErrSkippedDomain is returned for domains on the skip list
	ErrSkippedDomain = errors.New("domain is skipped")
	// ErrTooShort is returned when a page has no more than MinChars of text
	ErrTooShort = errors.New("page text too short")
)

type Format = string

const (
	TextFormat     Format = "text"
	MarkdownFormat Format = "markdown"
)

// Input schema for the Webscraper.
type Input struct {
	// URL of the webpage to scrape.
	URL string `json:"url,omitempty" validate:"required,url"`
	// Format text for search context, markdown for reading a page
	Format Format `json:"format,omitempty" validate:"omitempty,oneof=text markdown"`
}

func NewInput(link string, format Format) *Input {
	return &Input{
		URL:    link,
		Format: format,
	}
}

// Metadata Schema for webpage metadata
type Metadata struct {
	// Title is the title of the webpage.
	Title string `json:"title,omitempty"`
	// Author is the author of the webpage content.
	Author string `json:"author,omitempty"`
	// Description is the meta description of the webpage.
	Description string `json:"description,omitempty"`
	// Keywords is the meta keywords of the webpage.
	Keywords string `json:"keywords,omitempty"`
	// SiteName is the name of the website.
	SiteName string `json:"sitename,omitempty"`
	// Domain is the domain name of the website.
	Domain string `json:"domain,omitempty"`
}

// Output Schema for the output of the Webscraper.
type Output struct {
	// Content The scraped content in the requested format.
	Content string `json:"content,omitempty"`
	// Metadata is metadata about the scraped webpage.
	Metadata *Metadata `json:"metadata,omitempty"`
}

type Config struct {
	tools.Config
	// userAgent User agent string to use for requests.
	userAgent string
	// timeout for HTTP requests
	timeout time.Duration
	// maxContentLength Maximum content length in bytes to process.
	maxContentLength int64
	// maxChars Maximum characters of the text format
	maxChars    int
	skipDomains []string
	httpClient  *http.Client
}

type Webscraper struct {
	Config
}

var _ tools.Tool[Input, Output] = (*Webscraper)(nil)

func New(opts ...Option) *Webscraper {
	ret := new(Webscraper)
	ret.skipDomains = DefaultSkipDomains
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("Webscraper")
	}
	if ret.userAgent == "" {
		ret.userAgent = DefaultUserAgent
	}
	if ret.timeout == 0 {
		ret.timeout = DefaultTimeout
	}
	if ret.maxContentLength == 0 {
		ret.maxContentLength = 1_000_000
	}
	if ret.maxChars == 0 {
		ret.maxChars = DefaultMaxChars
	}
	if ret.httpClient == nil {
		ret.httpClient = &http.Client{Timeout: ret.timeout}
	}
	return ret
}

// Skipped reports whether link belongs to a skipped domain
func (t *Webscraper) Skipped(link string) bool {
	lower := strings.ToLower(link)
	for _, domain := range t.skipDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}

func (t *Webscraper) Run(ctx context.Context, input *Input, output *Output) error {
	parsedURL, err := url.ParseRequestURI(input.URL)
	if err != nil {
		return err
	}
	if t.Skipped(input.URL) {
		return fmt.Errorf("%w: %s", ErrSkippedDomain, parsedURL.Host)
	}
	doc, err := t.fetch(ctx, input.URL)
	if err != nil {
		return err
	}
	meta := &Metadata{Domain: parsedURL.Host}
	extractMetadata(doc, meta)
	output.Metadata = meta
	if input.Format == MarkdownFormat {
		output.Content, err = FormatMarkdown(ctx, doc, fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host))
		return err
	}
	output.Content, err = FormatText(doc, t.maxChars)
	return err
}

// Text returns the plain text of a page for use as search context
func (t *Webscraper) Text(ctx context.Context, link string) (string, error) {
	var out Output
	if err := tools.Invoke(ctx, t, NewInput(link, TextFormat), &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

func (t *Webscraper) fetch(ctx context.Context, link string) (*goquery.Document, error) {
	src, err := document.NewHttp(
		document.WithHttpURL(link),
		document.WithHttpClient(t.httpClient),
		document.WithHttpHeader("User-Agent", t.userAgent),
		document.WithHttpHeader("Accept", DefaultAccept),
		document.WithMaxBytes(t.maxContentLength),
	)
	if err != nil {
		return nil, err
	}
	if err := src.ReadAll(ctx); err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(src.Reader())
}

// Extracts metadata from the webpage
func extractMetadata(doc *goquery.Document, meta *Metadata) {
	meta.Title = strings.TrimSpace(doc.Find("head title").Text())
	meta.Author, _ = doc.Find("meta[name='author']").Attr("content")
	meta.Description, _ = doc.Find("meta[name='description']").Attr("content")
	meta.Keywords, _ = doc.Find("meta[name='keywords']").Attr("content")
	meta.SiteName, _ = doc.Find("meta[property='og:site_name']").Attr("content")
}

var textNoise = []string{"script", "style", "nav", "footer", "header", "aside", "iframe", "noscript"}

// FormatText returns the visible text of doc with whitespace collapsed, cut to maxChars
// characters plus "...". Pages with MinChars characters or less fail with ErrTooShort.
func FormatText(doc *goquery.Document, maxChars int) (string, error) {
	for _, tag := range textNoise {
		doc.Find(tag).Remove()
	}
	var parts []string
	for _, n := range doc.Nodes {
		collectText(n, &parts)
	}
	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	if maxChars > 0 {
		text = splitter.Ellipsis(text, maxChars)
	}
	if splitter.Len(text) <= MinChars {
		return "", ErrTooShort
	}
	return text, nil
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if s := strings.TrimSpace(n.Data); s != "" {
			*parts = append(*parts, s)
		}
		return
	}
	if n.Type == html.CommentNode {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// FormatMarkdown converts the main content of doc to markdown, relative links resolve against domain
func FormatMarkdown(ctx context.Context, doc *goquery.Document, domain string) (string, error) {
	mainContent := extractMainContent(doc)
	parser := document.NewHTML2MDParser(domain)
	var sb strings.Builder
	if err := parser.Parse(ctx, bytes.NewReader([]byte(mainContent)), &sb); err != nil {
		return "", err
	}
	return cleanMarkdownContent(sb.String()), nil
}

// extractMainContent extracts the main content from the webpage using custom heuristics
func extractMainContent(doc *goquery.Document) string {
	for _, tag := range []string{"script", "style", "nav", "header", "footer"} {
		doc.Find(tag).Remove()
	}
	contentCandidates := []string{
		"main",
		"#content, #main",
		".content, .main",
		"article",
		"body",
	}
	for _, selector := range contentCandidates {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			if txt, err := goquery.OuterHtml(sel); err == nil {
				return txt
			}
		}
	}
	mainContent, _ := doc.Html()
	return mainContent
}

var blankLinesRegex = regexp.MustCompile(`(\r?\n){3,}`)

// Cleans up the markdown content by removing excessive whitespace and normalizing formatting
func cleanMarkdownContent(content string) string {
	// Remove multiple blank lines
	content = blankLinesRegex.ReplaceAllString(content, "\n\n")
	// Remove trailing whitespace
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = strings.Join(lines, "\n")
	// Ensure content ends with single newline
	return strings.TrimSpace(content) + "\n"
}
