package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"Unhoster/internal/domain"
	"Unhoster/internal/ports"
)

const (
	// DefaultConcurrency is the number of downloads in flight at once.
	DefaultConcurrency = 15
	// DefaultTimeout bounds a single download, connect through body.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "Unhoster/1.0"

	// errorPageLimit caps how much of a failed response is inspected.
	errorPageLimit = 64 << 10
)

// Options configures HTTPFetcher. Zero values fall back to the defaults above.
type Options struct {
	Client      *http.Client
	Concurrency int
	Timeout     time.Duration
	UserAgent   string
	Logger      *slog.Logger
}

// HTTPFetcher downloads asset references with a bounded number of parallel GETs.
type HTTPFetcher struct {
	client      *http.Client
	concurrency int
	timeout     time.Duration
	userAgent   string
	logger      *slog.Logger
}

var _ ports.BatchFetcher = (*HTTPFetcher)(nil)

// New wires an HTTP client. The client should not carry its own timeout; each
// request is bounded by Options.Timeout through its context.
func New(opts Options) *HTTPFetcher {
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		client:      opts.Client,
		concurrency: opts.Concurrency,
		timeout:     opts.Timeout,
		userAgent:   opts.UserAgent,
		logger:      opts.Logger,
	}
}

// Concurrency returns the worker cap.
func (f *HTTPFetcher) Concurrency() int {
	return f.concurrency
}

// Stream starts fetching refs and returns a channel receiving one result per
// reference as each completes. The channel is closed after the last result.
// Individual failures never stop the batch; cancelling ctx makes every
// remaining fetch fail fast.
func (f *HTTPFetcher) Stream(ctx context.Context, refs []domain.AssetReference) <-chan domain.FetchResult {
	results := make(chan domain.FetchResult, len(refs))

	go func() {
		defer close(results)

		var g errgroup.Group
		g.SetLimit(f.concurrency)
		for _, ref := range refs {
			g.Go(func() error {
				results <- f.fetch(ctx, ref)
				return nil
			})
		}
		_ = g.Wait()
		f.debug("batch finished", "references", len(refs))
	}()

	return results
}

// FetchAll runs Stream to completion and returns the results in completion order.
func (f *HTTPFetcher) FetchAll(ctx context.Context, refs []domain.AssetReference) []domain.FetchResult {
	out := make([]domain.FetchResult, 0, len(refs))
	for res := range f.Stream(ctx, refs) {
		out = append(out, res)
	}
	return out
}

func (f *HTTPFetcher) fetch(ctx context.Context, ref domain.AssetReference) domain.FetchResult {
	start := time.Now()
	data, err := f.get(ctx, ref.SourceURL)
	res := domain.FetchResult{Reference: ref, Data: data, Err: err, Duration: time.Since(start)}
	if err != nil {
		res.Data = nil
		f.debug("fetch failed", "url", ref.SourceURL, "error", err)
	} else {
		f.debug("fetched", "url", ref.SourceURL, "bytes", len(data), "duration", res.Duration)
	}
	return res
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.FetchNetwork, URL: rawURL, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &domain.FetchError{
			Kind:       domain.FetchHTTPStatus,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Detail:     describeFailure(resp),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(rawURL, fmt.Errorf("read body: %w", err))
	}
	return data, nil
}

func classify(rawURL string, err error) *domain.FetchError {
	kind := domain.FetchNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = domain.FetchTimeout
	}
	return &domain.FetchError{Kind: kind, URL: rawURL, Err: err}
}

// describeFailure returns the title of an HTML error page, or the status text.
func describeFailure(resp *http.Response) string {
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "html") {
		if title := pageTitle(io.LimitReader(resp.Body, errorPageLimit)); title != "" {
			return title
		}
	}
	return http.StatusText(resp.StatusCode)
}

func (f *HTTPFetcher) debug(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
