package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/atomic"
)

// DefaultMaxBytes bounds the size of a downloaded document
const DefaultMaxBytes int64 = 10 << 20

// Http is a document fetched from a URL
type Http struct {
	status     *atomic.Int32
	statusCode *atomic.Int32
	client     *http.Client
	link       string
	method     string
	header     http.Header
	payload    []byte
	maxBytes   int64
	Document
}

var _ Source = (*Http)(nil)

type HttpConfig struct {
	client   *http.Client
	link     string
	method   string
	header   http.Header
	payload  []byte
	maxBytes int64
}

type HttpOption func(*HttpConfig)

func WithHttpMethod(method string) HttpOption {
	return func(h *HttpConfig) {
		h.method = method
	}
}

func WithHttpURL(link string) HttpOption {
	return func(h *HttpConfig) {
		h.link = link
	}
}

func WithPayload(payload []byte) HttpOption {
	return func(h *HttpConfig) {
		h.payload = payload
	}
}

func WithHttpHeader(key, value string) HttpOption {
	return func(h *HttpConfig) {
		if h.header == nil {
			h.header = make(http.Header)
		}
		h.header.Set(key, value)
	}
}

func WithHttpClient(client *http.Client) HttpOption {
	return func(h *HttpConfig) {
		h.client = client
	}
}

func WithMaxBytes(n int64) HttpOption {
	return func(h *HttpConfig) {
		h.maxBytes = n
	}
}

// NewHttp validates the URL. Content is loaded by ReadAll.
func NewHttp(opts ...HttpOption) (*Http, error) {
	var cfg HttpConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.method == "" {
		cfg.method = http.MethodGet
	}
	if cfg.client == nil {
		cfg.client = http.DefaultClient
	}
	if cfg.maxBytes <= 0 {
		cfg.maxBytes = DefaultMaxBytes
	}
	u, err := url.ParseRequestURI(cfg.link)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	return &Http{
		status:     atomic.NewInt32(Unread),
		statusCode: atomic.NewInt32(0),
		client:     cfg.client,
		link:       cfg.link,
		method:     cfg.method,
		header:     cfg.header,
		payload:    cfg.payload,
		maxBytes:   cfg.maxBytes,
		Document: Document{
			buffer: new(bytes.Buffer),
			meta: map[string]string{
				"source": cfg.link,
				"url":    cfg.link,
				"method": cfg.method,
				"host":   u.Host,
			},
		},
	}, nil
}

// URL returns the requested link
func (h *Http) URL() string {
	return h.link
}

func (h *Http) ReadStatus() ReadStatus {
	return h.status.Load()
}

// StatusCode returns the http status of the last response, 0 before the first request
func (h *Http) StatusCode() int {
	return int(h.statusCode.Load())
}

// ReadAll downloads the document, at most maxBytes are kept. Subsequent calls are no-ops.
func (h *Http) ReadAll(ctx context.Context) error {
	if h.ReadStatus() == ReadCompleted {
		return nil
	}
	if !h.status.CompareAndSwap(Unread, Reading) {
		return ErrReading
	}
	if err := h.read(ctx); err != nil {
		h.buffer.Reset()
		h.status.Store(Unread)
		return err
	}
	h.status.Store(ReadCompleted)
	return nil
}

func (h *Http) read(ctx context.Context) error {
	var body io.Reader
	if len(h.payload) > 0 {
		body = bytes.NewReader(h.payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, h.method, h.link, body)
	if err != nil {
		return err
	}
	for k, v := range h.header {
		httpReq.Header[k] = v
	}
	httpResp, err := h.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()
	h.statusCode.Store(int32(httpResp.StatusCode))
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d %s", ErrHttpStatus, httpResp.StatusCode, h.link)
	}
	h.buffer.Reset()
	_, err = io.Copy(h.buffer, io.LimitReader(httpResp.Body, h.maxBytes))
	return err
}
