// Package media turns opaque attachment/avatar references into fetchable
// URLs. The actual media service (upload, signing) is external; this is
// only the consuming side of its contract.
package media

import (
	"errors"
	"strings"
)

// Resolver resolves a stored media reference to a URL a client can fetch.
type Resolver interface {
	ResolveURL(ref string) (string, error)
}

var ErrNoBaseURL = errors.New("media base URL not configured")

// BaseURLResolver prefixes bare references with the media service's public
// base URL. References that are already absolute pass through untouched.
type BaseURLResolver struct {
	Base string
}

func (r BaseURLResolver) ResolveURL(ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref, nil
	}
	if r.Base == "" {
		return "", ErrNoBaseURL
	}
	return strings.TrimRight(r.Base, "/") + "/" + strings.TrimLeft(ref, "/"), nil
}
