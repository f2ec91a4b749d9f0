// Package fetch retrieves raw rating-authority profile documents.
package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Authority identifies the rating body a player id belongs to.
type Authority string

// Supported authorities.
const (
	AuthorityFIDE Authority = "fide"
	AuthorityUSCF Authority = "uscf"
)

var (
	uscfIDRe = regexp.MustCompile(`^\d{6,8}$`)
	fideIDRe = regexp.MustCompile(`^(?i)fide[_:](\d{1,12})$`)
)

// Fetcher returns the raw document for a player id.
type Fetcher interface {
	// Fetch returns the document text, or an error when it cannot be retrieved.
	Fetch(ctx context.Context, id string) (string, error)
}

// Func adapts an ordinary function to the Fetcher interface.
type Func func(ctx context.Context, id string) (string, error)

// Fetch calls f(ctx, id).
func (f Func) Fetch(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}

// Route maps an id to its authority and the authority-local member number.
// Plain 6-8 digit ids are USCF members; "fide_<n>" and "fide:<n>" are FIDE.
func Route(id string) (Authority, string, error) {
	id = strings.TrimSpace(id)
	if m := fideIDRe.FindStringSubmatch(id); m != nil {
		return AuthorityFIDE, m[1], nil
	}
	if uscfIDRe.MatchString(id) {
		return AuthorityUSCF, id, nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnsupportedIdentifier, id)
}

// FileFetcher serves documents stored as <dir>/<id>.html.
type FileFetcher struct {
	dir string
}

// NewFileFetcher creates a fetcher rooted at dir.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{dir: dir}
}

// Fetch reads the stored document for id.
func (f *FileFetcher) Fetch(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedIdentifier, id)
	}
	raw, err := os.ReadFile(filepath.Join(f.dir, id+".html"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return string(raw), nil
}
