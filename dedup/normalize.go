package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// Query parameters that identify an article rather than track the click.
// Everything else is stripped when computing canonical identity.
var slugParams = map[string]bool{
	"id":      true,
	"p":       true,
	"slug":    true,
	"story":   true,
	"article": true,
	"post":    true,
}

// CanonicalURL reduces a raw URL to its canonical identity:
// lowercased scheme and host, fragment dropped, query parameters stripped
// unless they carry an article-identifying slug, trailing slash trimmed.
// Two URLs with the same canonical form refer to the same article.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		if !slugParams[strings.ToLower(k)] {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	out := u.String()
	return strings.TrimRight(out, "/")
}

// NormalizeTitle lowercases, strips punctuation, splits digit/letter
// runs ("50bps" -> "50 bps"), and collapses whitespace.
func NormalizeTitle(title string) string {
	var b strings.Builder
	prevDigit, prevLetter := false, false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z':
			if prevDigit {
				b.WriteRune(' ')
			}
			b.WriteRune(r)
			prevLetter, prevDigit = true, false
		case r >= '0' && r <= '9':
			if prevLetter {
				b.WriteRune(' ')
			}
			b.WriteRune(r)
			prevDigit, prevLetter = true, false
		default:
			b.WriteRune(' ')
			prevDigit, prevLetter = false, false
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// TitleTokens returns the normalized title's word set.
func TitleTokens(title string) map[string]bool {
	tokens := make(map[string]bool)
	for _, w := range strings.Fields(NormalizeTitle(title)) {
		tokens[w] = true
	}
	return tokens
}

// Jaccard computes word-set similarity in [0, 1]. Two empty sets are not
// similar: without tokens there is no evidence either way.
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// IdentityHash hashes the canonical URL for the bloom fast path.
func IdentityHash(rawURL string) string {
	h := sha256.Sum256([]byte(CanonicalURL(rawURL)))
	return hex.EncodeToString(h[:])
}
