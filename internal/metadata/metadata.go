// Package metadata picks the title, artist and album to tag a download with
// from the fields yt-dlp reports.
package metadata

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// combinedTitleRe splits "Artist - Title" at the first " - ".
var combinedTitleRe = regexp.MustCompile(`^(.*?) - (.*)`)

// Fields is a decoded yt-dlp info document.
type Fields map[string]any

// String returns the value of key and whether it is present as a string.
// Non-string values count as absent.
func (f Fields) String(key string) (string, bool) {
	v, ok := f[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (f Fields) get(key string) string {
	s, _ := f.String(key)
	return s
}

// Metadata is what ends up in the ID3 frames.
type Metadata struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	// Track is always empty; nothing in the extractor output is trusted as a
	// track number.
	Track  string `json:"track"`
}

// Resolve applies the fallback chain:
//
//	title:  track, title
//	artist: artist, creator, uploader
//	album:  album
//
// When no artist was found, a title of the form "Artist - Title" supplies it.
// The title is then shortened to the right half unless it came from track.
// Anything still empty gets its placeholder.
func Resolve(f Fields) Metadata {
	track := f.get("track")
	raw := f.get("title")
	title := firstNonEmpty(track, raw)
	artist := firstNonEmpty(f.get("artist"), f.get("creator"), f.get("uploader"))
	album := f.get("album")

	if artist == "" {
		if left, right, ok := SplitCombinedTitle(raw); ok {
			artist = left
			if track == "" {
				title = right
			}
		}
	}

	return Metadata{
		Title:  norm.NFC.String(firstNonEmpty(title, UnknownTitle)),
		Artist: norm.NFC.String(firstNonEmpty(artist, UnknownArtist)),
		Album:  norm.NFC.String(firstNonEmpty(album, UnknownAlbum)),
	}
}

// SplitCombinedTitle splits "Artist - Title" into its trimmed halves.
func SplitCombinedTitle(s string) (artist, title string, ok bool) {
	m := combinedTitleRe.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
