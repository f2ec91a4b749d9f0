package fetch

import "errors"

// Sentinel kinds for fetch errors.
var (
	ErrUnsupportedIdentifier = errors.New("unsupported player identifier")
	ErrNotFound              = errors.New("profile not found")
	ErrUnavailable           = errors.New("profile source unavailable")
)

// Kind returns a short label for err, used as a metrics dimension.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnsupportedIdentifier):
		return "unsupported"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "unavailable"
	}
}
