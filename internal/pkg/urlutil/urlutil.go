package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrNotHTTP marks URLs outside the http(s) schemes (mailto:, tel:,
	// javascript:, data: and friends).
	ErrNotHTTP = errors.New("url is not http(s)")
	// ErrMalformed marks URLs that cannot be parsed at all.
	ErrMalformed = errors.New("malformed url")
)

// NormalizationError reports why a raw URL could not be canonicalized.
type NormalizationError struct {
	Raw    string
	Reason error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("cannot normalize %q: %v", e.Raw, e.Reason)
}

func (e *NormalizationError) Unwrap() error { return e.Reason }

// Normalize canonicalizes a raw URL for dedup, resolving it against
// base when relative. Fragments are stripped, scheme and host are
// lowercased, default ports dropped, and trailing slashes trimmed
// on non-root paths. Path case and query strings are preserved
// (query strings are significant for pagination detection).
// Normalization is idempotent.
func Normalize(raw string, base *url.URL) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &NormalizationError{Raw: raw, Reason: ErrMalformed}
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", &NormalizationError{Raw: raw, Reason: ErrMalformed}
	}
	if base != nil {
		parsed = base.ResolveReference(parsed)
	}

	scheme := strings.ToLower(parsed.Scheme)
	switch scheme {
	case "http", "https":
	case "":
		// A bare host like "example.com/about" parses as a path.
		return "", &NormalizationError{Raw: raw, Reason: ErrMalformed}
	default:
		return "", &NormalizationError{Raw: raw, Reason: ErrNotHTTP}
	}

	host := strings.ToLower(parsed.Host)
	if h, ok := strings.CutSuffix(host, ":80"); ok && scheme == "http" {
		host = h
	}
	if h, ok := strings.CutSuffix(host, ":443"); ok && scheme == "https" {
		host = h
	}
	if host == "" {
		return "", &NormalizationError{Raw: raw, Reason: ErrMalformed}
	}

	path := parsed.EscapedPath()
	// All trailing slashes go, not just one, so "/a//" and "/a/" share
	// "/a" as their dedup key.
	path = strings.TrimRight(path, "/")
	if path == "" {
		path = "/"
	}

	canonical := scheme + "://" + host + path
	if parsed.RawQuery != "" {
		canonical += "?" + parsed.RawQuery
	}
	return canonical, nil
}

// MustParse parses a canonical URL previously produced by Normalize.
func MustParse(canonical string) *url.URL {
	parsed, err := url.Parse(canonical)
	if err != nil {
		panic(fmt.Sprintf("canonical url %q does not parse: %v", canonical, err))
	}
	return parsed
}

// SameOrigin reports whether the canonical URL shares the seed
// origin's host. The host must match exactly; subdomains do not cross.
func SameOrigin(canonical string, origin *url.URL) bool {
	parsed, err := url.Parse(canonical)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Host, origin.Host)
}

// Path returns the URL path of a canonical URL, lowercased for
// heuristic matching. Returns "/" when parsing fails.
func Path(canonical string) string {
	parsed, err := url.Parse(canonical)
	if err != nil || parsed.Path == "" {
		return "/"
	}
	return strings.ToLower(parsed.Path)
}

// LastSegment returns the final non-empty path segment of a canonical
// URL, or "" for the root.
func LastSegment(canonical string) string {
	path := Path(canonical)
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}
