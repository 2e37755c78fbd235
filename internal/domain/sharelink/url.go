package sharelink

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrNoOrigin is returned when no page origin is available.
	ErrNoOrigin = errors.New("page origin is not available")
	// ErrEmptySharePath is returned when a conversation has no share path.
	ErrEmptySharePath = errors.New("share path is empty")
)

// DeriveShareURL keeps only the scheme and host of origin and replaces the
// path with sharePath. Query, fragment, user info and the original path are dropped.
func DeriveShareURL(origin *url.URL, sharePath string) (string, error) {
	if origin == nil || origin.Scheme == "" || origin.Host == "" {
		return "", ErrNoOrigin
	}
	if sharePath == "" {
		return "", ErrEmptySharePath
	}

	path := sharePath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	decoded, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("invalid share path %q: %w", sharePath, err)
	}

	u := url.URL{
		Scheme: origin.Scheme,
		Host:   origin.Host,
		Path:   decoded,
	}
	if decoded != path {
		u.RawPath = path
	}
	return u.String(), nil
}
