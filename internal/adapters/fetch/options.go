package fetch

import "time"

// Default HTTP fetcher configuration constants.
const (
	defaultTimeout      = 5 * time.Second
	defaultRetries      = 1
	defaultMaxBodyBytes = 2 << 20
	defaultUserAgent    = "Mozilla/5.0 (compatible; ratingscope/1.0)"
	defaultFIDEURL      = "https://ratings.fide.com/profile/%s"
	defaultUSCFURL      = "https://www.uschess.org/msa/MbrDtlMain.php?%s"
)

// Option applies a configuration option to the HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) Option {
	return func(f *HTTPFetcher) {
		if n >= 0 {
			f.retries = n
		}
	}
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithProfileURL sets the URL template for an authority. The template must
// contain one %s verb for the member number.
func WithProfileURL(a Authority, template string) Option {
	return func(f *HTTPFetcher) {
		if template != "" {
			f.urls[a] = template
		}
	}
}
