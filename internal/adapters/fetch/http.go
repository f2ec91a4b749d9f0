package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"github.com/okian/ratingscope/pkg/logger"
	"github.com/okian/ratingscope/pkg/metrics"
)

// HTTPFetcher downloads profile pages from the rating authorities.
type HTTPFetcher struct {
	client       *resty.Client
	urls         map[Authority]string
	timeout      time.Duration
	retries      int
	maxBodyBytes int64
	userAgent    string
	logger       logger.Logger
}

// NewHTTPFetcher creates a fetcher with configuration options.
func NewHTTPFetcher(log logger.Logger, opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		urls: map[Authority]string{
			AuthorityFIDE: defaultFIDEURL,
			AuthorityUSCF: defaultUSCFURL,
		},
		timeout:      defaultTimeout,
		retries:      defaultRetries,
		maxBodyBytes: defaultMaxBodyBytes,
		userAgent:    defaultUserAgent,
		logger:       log,
	}

	for _, opt := range opts {
		opt(f)
	}

	f.client = resty.New().
		SetTimeout(f.timeout).
		SetRetryCount(f.retries).
		SetHeader("User-Agent", f.userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	instrument(f.client)

	return f
}

// Fetch downloads the profile page for id.
func (f *HTTPFetcher) Fetch(ctx context.Context, id string) (string, error) {
	authority, member, err := Route(id)
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf(f.urls[authority], member)

	start := time.Now()
	body, err := f.get(ctx, url)
	metrics.RecordFetch(string(authority), Kind(err), float64(time.Since(start).Milliseconds()))
	if err != nil {
		if f.logger != nil {
			f.logger.Debug(ctx, "profile fetch failed",
				logger.String("id", id),
				logger.String("url", url),
				logger.Error(err),
			)
		}
		return "", err
	}
	return body, nil
}

// get streams the body so that at most maxBodyBytes are read. The response
// is left unparsed by resty, which skips its after-response hooks, so the
// span is finished here.
func (f *HTTPFetcher) get(ctx context.Context, url string) (string, error) {
	res, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer finishSpan(res)
	body := res.RawBody()
	defer body.Close()

	switch status := res.StatusCode(); {
	case status == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrNotFound, url)
	case status < 200 || status >= 300:
		return "", fmt.Errorf("%w: %s returned %d", ErrUnavailable, url, status)
	}

	raw, err := io.ReadAll(io.LimitReader(body, f.maxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrUnavailable, url, err)
	}
	if int64(len(raw)) > f.maxBodyBytes {
		raw = trimPartialRune(raw[:f.maxBodyBytes])
	}
	return string(raw), nil
}

// trimPartialRune drops a multi-byte character cut off at the end of b.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}
