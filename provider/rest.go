package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Default batch limits, matching a typical MT vendor's documented caps.
const (
	DefaultMaxBatchSize      = 128
	DefaultMaxCharsPerEntry  = 30000
	DefaultMaxRetries        = 5
	DefaultRequestTimeout    = 30 * time.Second
)

// RequestBuilder shapes one HTTP request for a chunk of texts. Implementers
// target a specific vendor's wire format; DefaultRequestBuilder follows the
// common "q []string, source, target, key" REST shape used by several
// translation vendors.
type RequestBuilder func(ctx context.Context, endpoint, apiKey string, texts []string, sourceLocale, targetLocale string) (*http.Request, error)

// ResponseParser extracts the ordered translated texts from a vendor's HTTP
// response.
type ResponseParser func(resp *http.Response) ([]string, error)

// RestProvider is a generic HTTP-JSON MT provider: it chunks input into
// vendor-sized batches, retries transient network failures with exponential
// backoff, and classifies configuration errors separately from remote ones.
type RestProvider struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client

	MaxBatchSize     int
	MaxCharsPerEntry int
	MaxRetries       int

	BuildRequest  RequestBuilder
	ParseResponse ResponseParser

	name string
}

// RestProviderOption configures a RestProvider at construction time.
type RestProviderOption func(*RestProvider)

func WithHTTPClient(c *http.Client) RestProviderOption {
	return func(p *RestProvider) { p.HTTPClient = c }
}

func WithBatchLimits(maxBatchSize, maxCharsPerEntry int) RestProviderOption {
	return func(p *RestProvider) {
		p.MaxBatchSize = maxBatchSize
		p.MaxCharsPerEntry = maxCharsPerEntry
	}
}

func WithMaxRetries(n int) RestProviderOption {
	return func(p *RestProvider) { p.MaxRetries = n }
}

func WithRequestBuilder(b RequestBuilder) RestProviderOption {
	return func(p *RestProvider) { p.BuildRequest = b }
}

func WithResponseParser(r ResponseParser) RestProviderOption {
	return func(p *RestProvider) { p.ParseResponse = r }
}

func WithName(name string) RestProviderOption {
	return func(p *RestProvider) { p.name = name }
}

// NewRestProvider builds a RestProvider targeting endpoint with apiKey. A
// missing credential is a fatal KindConfig error here, at provider
// construction — never at pipeline construction, per the module boundary.
func NewRestProvider(endpoint, apiKey string, opts ...RestProviderOption) (*RestProvider, error) {
	if apiKey == "" {
		return nil, newError(KindConfig, nil, "missing API credential")
	}
	if endpoint == "" {
		return nil, newError(KindConfig, nil, "missing endpoint")
	}
	p := &RestProvider{
		Endpoint:         endpoint,
		APIKey:           apiKey,
		HTTPClient:       &http.Client{Timeout: DefaultRequestTimeout},
		MaxBatchSize:     DefaultMaxBatchSize,
		MaxCharsPerEntry: DefaultMaxCharsPerEntry,
		MaxRetries:       DefaultMaxRetries,
		BuildRequest:     DefaultRequestBuilder,
		ParseResponse:    DefaultResponseParser,
		name:             "rest",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *RestProvider) Name() string { return p.name }

// TranslateBatch chunks texts to respect MaxBatchSize/MaxCharsPerEntry and
// translates each chunk with retry, preserving overall order.
func (p *RestProvider) TranslateBatch(ctx context.Context, texts []string, sourceLocale, targetLocale string) ([]string, error) {
	chunks := chunkTexts(texts, p.MaxBatchSize, p.MaxCharsPerEntry)
	out := make([]string, 0, len(texts))
	for _, chunk := range chunks {
		translated, err := p.translateChunkWithRetry(ctx, chunk, sourceLocale, targetLocale)
		if err != nil {
			return nil, err
		}
		if len(translated) != len(chunk) {
			return nil, newError(KindOther, nil, "provider returned %d translations for %d inputs", len(translated), len(chunk))
		}
		out = append(out, translated...)
	}
	return out, nil
}

func chunkTexts(texts []string, maxBatch, maxChars int) [][]string {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatchSize
	}
	var chunks [][]string
	var cur []string
	curChars := 0
	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, cur)
			cur = nil
			curChars = 0
		}
	}
	for _, t := range texts {
		tChars := len(t) // byte length stands in for the character count
		if maxChars > 0 && tChars > maxChars {
			flush()
			chunks = append(chunks, []string{t}) // oversized single entry, sent alone
			continue
		}
		if len(cur) >= maxBatch || (maxChars > 0 && curChars+tChars > maxChars) {
			flush()
		}
		cur = append(cur, t)
		curChars += tChars
	}
	flush()
	if len(chunks) == 0 {
		return [][]string{{}}
	}
	return chunks
}

func (p *RestProvider) translateChunkWithRetry(ctx context.Context, chunk []string, sourceLocale, targetLocale string) ([]string, error) {
	if len(chunk) == 0 {
		return nil, nil
	}
	var result []string
	operation := func() error {
		req, err := p.BuildRequest(ctx, p.Endpoint, p.APIKey, chunk, sourceLocale, targetLocale)
		if err != nil {
			return backoff.Permanent(newError(KindOther, err, "failed to build request"))
		}
		resp, err := p.HTTPClient.Do(req)
		if err != nil {
			// Transport-level failures (timeouts, connection refused, DNS)
			// are transient; let backoff retry them.
			return newError(KindNetwork, err, "request failed")
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return newError(KindRate, nil, "rate limited (HTTP 429)")
		}
		if resp.StatusCode >= 500 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return newError(KindNetwork, nil, "server error (HTTP %d): %s", resp.StatusCode, body)
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return backoff.Permanent(newError(KindConfig, nil, "authentication failed (HTTP %d): %s", resp.StatusCode, body))
		}
		if resp.StatusCode == http.StatusBadRequest {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return backoff.Permanent(newError(KindInvalidLocale, nil, "bad request (HTTP %d): %s", resp.StatusCode, body))
		}
		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return backoff.Permanent(newError(KindOther, nil, "unexpected HTTP %d: %s", resp.StatusCode, body))
		}

		translated, err := p.ParseResponse(resp)
		if err != nil {
			return backoff.Permanent(newError(KindOther, err, "failed to parse response"))
		}
		result = translated
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(maxRetries(p.MaxRetries))), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		if pe, ok := err.(*Error); ok {
			return nil, pe
		}
		return nil, newError(KindNetwork, err, "exhausted retries")
	}
	return result, nil
}

func maxRetries(n int) int {
	if n <= 0 {
		return DefaultMaxRetries
	}
	return n
}

// --- default Google-Cloud-Translation-style wire shape ---

type defaultRequestBody struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

type defaultResponseBody struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// DefaultRequestBuilder POSTs a JSON body of {q, source, target, format} to
// endpoint with the API key as a query parameter, following the common
// "translate" REST shape shared by several vendors.
func DefaultRequestBuilder(ctx context.Context, endpoint, apiKey string, texts []string, sourceLocale, targetLocale string) (*http.Request, error) {
	body, err := json.Marshal(defaultRequestBody{
		Q:      texts,
		Source: sourceLocale,
		Target: targetLocale,
		Format: "text",
	})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s?key=%s", endpoint, apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// DefaultResponseParser decodes the common {data:{translations:[...]}} shape.
func DefaultResponseParser(resp *http.Response) ([]string, error) {
	var body defaultResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	out := make([]string, len(body.Data.Translations))
	for i, t := range body.Data.Translations {
		out[i] = t.TranslatedText
	}
	return out, nil
}
