package verification

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"veriscan.ai/verify-api-gateway/app/domain/common"
)

const (
	textKeyPrefix = "txt_"
	urlKeyPrefix  = "url_"
)

// NormalizeContent canonicalizes a submission into a cache key. For KindURL
// a malformed URL returns common.ErrInvalidInput; the orchestrator falls
// back to text normalization of the raw string. Pure function, safe for
// concurrent use.
func NormalizeContent(content string, kind ContentKind) (string, error) {
	if kind == KindURL {
		return NormalizeURL(content)
	}
	return NormalizeText(content), nil
}

// NormalizeText trims, collapses internal whitespace and lowercases before
// hashing, so whitespace or case differences never fragment the cache.
func NormalizeText(content string) string {
	canonical := strings.ToLower(strings.Join(strings.Fields(content), " "))
	return textKeyPrefix + hashKey(canonical)
}

// NormalizeURL keeps scheme, host and path and drops query string and
// fragment, so tracking parameters never fragment the cache across visits
// to the same article.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: parse url: %v", common.ErrInvalidInput, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: unsupported url scheme %q", common.ErrInvalidInput, u.Scheme)
	}
	host := strings.ToLower(u.Host)
	if host == "" {
		return "", fmt.Errorf("%w: url has no host", common.ErrInvalidInput)
	}
	if h, p, ok := strings.Cut(host, ":"); ok {
		if (scheme == "http" && p == "80") || (scheme == "https" && p == "443") {
			host = h
		}
	}

	canonical := scheme + "://" + host + u.EscapedPath()
	return urlKeyPrefix + hashKey(canonical), nil
}

func hashKey(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
