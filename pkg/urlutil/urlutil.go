package urlutil

import (
	"net/url"
	"strings"
)

// Normalize applies a deterministic normalization to a URL, producing the
// canonical spelling used for cache keying.
//
// The normalization follows these rules:
//   - Scheme and host are lowercased
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
//   - Query and fragment are kept verbatim; two URLs that differ only in
//     query or fragment are distinct cache entries
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Idempotent: Normalize(Normalize(url)) == Normalize(url)
func Normalize(sourceUrl url.URL) url.URL {
	normalized := sourceUrl

	normalized.Scheme = lowerASCII(normalized.Scheme)
	normalized.Host = lowerASCII(normalized.Host)

	if host, port := normalized.Hostname(), normalized.Port(); port != "" {
		if (normalized.Scheme == "http" && port == "80") ||
			(normalized.Scheme == "https" && port == "443") {
			normalized.Host = host
		}
	}

	return normalized
}

// RepairDoubledOrigin undoes the doubled-origin artifact produced by
// prefixing an already-absolute link with its own origin, e.g.
// "https://en.wikipedia.orghttps://en.wikipedia.org/wiki/x".
// URLs that do not carry the artifact pass through unchanged.
func RepairDoubledOrigin(rawUrl string, origin string) string {
	if origin == "" {
		return rawUrl
	}
	doubled := origin + origin
	if strings.HasPrefix(rawUrl, doubled) {
		return origin + rawUrl[len(doubled):]
	}
	return rawUrl
}

// Absolute resolves href against base, returning the absolute URL string.
// The second return value is false when href cannot be parsed.
func Absolute(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if base == nil {
		return ref.String(), ref.IsAbs()
	}
	return base.ResolveReference(ref).String(), true
}

// lowerASCII converts ASCII characters to lowercase without allocating.
// This is faster than strings.ToLower for ASCII-only strings.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
