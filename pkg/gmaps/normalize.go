// Package gmaps validates and canonicalizes Google Maps review links.
//
// Two URLs that point at the same place must normalize to the same string;
// the normalized form is used only for equality, never shown to users or
// followed as a redirect target.
package gmaps

import (
	"errors"
	"net/url"
	"sort"
	"strings"
)

var ErrInvalidURL = errors.New("not a recognizable Google Maps review link")

// query parameters that identify a place; everything else (hl, utm_*, entry,
// g_ep, ...) is tracking or presentation noise and is dropped
var significantParams = map[string]bool{
	"placeid":  true,
	"place_id": true,
	"cid":      true,
	"q":        true,
}

// IsValidReviewURL reports whether raw is plausibly a Google Maps review link
func IsValidReviewURL(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}

// Normalize returns the canonical form of a Google Maps review URL.
// Historical records stored these links with inconsistent schemes, www
// prefixes, trailing slashes and tracking parameters, so raw-string equality
// is unreliable; this canonical form is the authoritative equality test.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}

	// tolerate scheme-less input pasted from the Maps share sheet
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	path := strings.TrimRight(u.EscapedPath(), "/")

	if !isMapsHost(host, path) {
		return "", ErrInvalidURL
	}

	// short-link hosts carry the whole identity in the path
	canonical := host + path

	query := canonicalQuery(u.Query())
	if query != "" {
		canonical += "?" + query
	}

	if canonical == host {
		// bare domain with no place identity
		return "", ErrInvalidURL
	}

	return canonical, nil
}

func isMapsHost(host, path string) bool {
	switch host {
	case "maps.google.com", "g.page", "maps.app.goo.gl":
		return true
	case "google.com":
		return strings.HasPrefix(path, "/maps")
	case "goo.gl":
		return strings.HasPrefix(path, "/maps")
	case "search.google.com":
		return strings.HasPrefix(path, "/local/writereview")
	default:
		// country TLDs like google.co.uk/maps/...
		if strings.HasPrefix(host, "google.") && strings.HasPrefix(path, "/maps") {
			return true
		}
		return false
	}
}

func canonicalQuery(values url.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		if significantParams[strings.ToLower(key)] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, strings.ToLower(key)+"="+values.Get(key))
	}
	return strings.Join(parts, "&")
}
