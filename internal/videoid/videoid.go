// Package videoid derives stable keys for source URLs so that repeated
// requests for the same media can be recognized.
package videoid

import (
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Well-known host aliases. Key: input host. Value: canonical domain.
var canonicalDomainByHost = map[string]string{
	"youtube.com":       "youtube.com",
	"www.youtube.com":   "youtube.com",
	"m.youtube.com":     "youtube.com",
	"music.youtube.com": "youtube.com",
	"youtu.be":          "youtube.com",

	"soundcloud.com":     "soundcloud.com",
	"www.soundcloud.com": "soundcloud.com",
	"m.soundcloud.com":   "soundcloud.com",

	"x.com":           "x.com",
	"www.x.com":       "x.com",
	"twitter.com":     "x.com",
	"www.twitter.com": "x.com",
}

// ResolveCanonicalDomain returns the canonical domain for host.
//
// host should be a hostname without port.
func ResolveCanonicalDomain(host string) string {
	h := normalizeHost(host)
	if h == "" {
		return ""
	}
	if c, ok := canonicalDomainByHost[h]; ok {
		return c
	}
	return h
}

// NamespaceUUIDForDomain returns a deterministic UUIDv5 namespace for a domain.
func NamespaceUUIDForDomain(domain string) uuid.UUID {
	d := strings.TrimSuffix(strings.TrimSpace(strings.ToLower(domain)), ".")
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(d))
}

// SourceUUID returns a deterministic UUIDv5 for a normalized URL, scoped by
// its canonical domain.
func SourceUUID(domain string, normalizedURL string) uuid.UUID {
	return uuid.NewSHA1(NamespaceUUIDForDomain(domain), []byte(strings.TrimSpace(normalizedURL)))
}

// Key is the identity of a conversion request.
type Key struct {
	// URL is the normalized source URL, or the trimmed raw input when it could
	// not be parsed.
	URL string
	ID  uuid.UUID
}

// KeyFor normalizes raw and derives its ID. It never fails: unparsable input
// is keyed by its trimmed text so it still dedupes with itself.
func KeyFor(raw string) Key {
	normalized, canon, err := NormalizeSourceURL(raw)
	if err != nil {
		normalized = strings.TrimSpace(raw)
		canon = ""
	}
	return Key{URL: normalized, ID: SourceUUID(canon, normalized)}
}

// NormalizeSourceURL canonicalizes the host and strips fragments and the
// query parameters that commonly vary between shares of the same media
// (timestamps, playlist context, tracking).
//
// For known sources:
//   - youtube.com: https://youtube.com/watch?v={id} (keeps only v=)
//   - soundcloud.com, x.com: all query params dropped
//
// For unknown hosts the query is preserved.
func NormalizeSourceURL(raw string) (string, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", errors.New("missing url")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme == "" {
		u, err = url.Parse("https://" + raw)
		if err != nil {
			return "", "", err
		}
	}

	u.Fragment = ""
	u.User = nil

	canon := ResolveCanonicalDomain(u.Host)

	// Shortlinks carry the ID in the path, so extract it before the host is
	// rewritten.
	youtubeID := ""
	if canon == "youtube.com" {
		youtubeID, _ = ExtractYouTubeVideoID(u.String())
	}

	if canon != "" {
		u.Host = canon
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		u.Scheme = "https"
	}
	u.Path = trimTrailingSlash(u.Path)

	switch canon {
	case "youtube.com":
		if youtubeID != "" {
			u.Path = "/watch"
			u.RawQuery = "v=" + url.QueryEscape(youtubeID)
		}
	case "soundcloud.com", "x.com":
		u.RawQuery = ""
	}

	return u.String(), canon, nil
}

// ExtractYouTubeVideoID extracts the YouTube video ID from a URL.
func ExtractYouTubeVideoID(urlStr string) (string, error) {
	urlStr = strings.TrimSpace(urlStr)
	if urlStr == "" {
		return "", errors.New("empty url")
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}

	host := normalizeHost(u.Host)
	if host == "youtu.be" {
		if id := firstPathSegment(u.Path); id != "" {
			return id, nil
		}
		return "", errors.New("not a youtube url or video id not found")
	}

	if ResolveCanonicalDomain(host) != "youtube.com" {
		return "", errors.New("not a youtube url or video id not found")
	}
	if q := strings.TrimSpace(u.Query().Get("v")); q != "" {
		return q, nil
	}
	for _, prefix := range []string{"/embed/", "/v/", "/shorts/", "/live/"} {
		if strings.HasPrefix(u.Path, prefix) {
			if id := firstPathSegment(strings.TrimPrefix(u.Path, prefix)); id != "" {
				return id, nil
			}
		}
	}
	return "", errors.New("not a youtube url or video id not found")
}

func normalizeHost(hostport string) string {
	h := strings.TrimSpace(strings.ToLower(hostport))
	if h == "" {
		return ""
	}
	// url.URL.Host may include port.
	if strings.Contains(h, ":") {
		if parsed, err := url.Parse("//" + h); err == nil && parsed.Hostname() != "" {
			h = parsed.Hostname()
		}
	}
	return strings.TrimSuffix(h, ".")
}

func trimTrailingSlash(p string) string {
	if p == "" || p == "/" {
		return p
	}
	return strings.TrimRight(p, "/")
}

func firstPathSegment(p string) string {
	p = strings.TrimPrefix(strings.TrimSpace(p), "/")
	seg, _, _ := strings.Cut(p, "/")
	return strings.TrimSpace(seg)
}
