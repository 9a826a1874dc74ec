package youtube

import (
	"errors"
	"fmt"
	neturl "net/url"
	"regexp"
	"strings"
	"unicode"
)

// ErrNoMatch is returned by ParseReference when the input does not identify a video.
var ErrNoMatch = errors.New("youtube: no video id in reference")

const (
	embedURL = "https://www.youtube.com/embed/%s"
	watchURL = "https://www.youtube.com/watch?v=%s"
)

// Exactly 11 characters of [a-zA-Z0-9_-], anchored.
var videoIDRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Order matters: the trailing [&?]v= fallback also matches most watch URLs, and
// malformed inputs can match several shapes with different captures.
var referencePatterns = []*regexp.Regexp{
	// youtube.com/watch?v=ID or youtu.be/ID
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`),
	// youtube.com/embed/ID
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	// youtu.be/ID?t=123
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})(?:\?|$)`),
	// youtube.com/v/ID
	regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]{11})`),
	// m.youtube.com/watch?v=ID
	regexp.MustCompile(`m\.youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})`),
	// v= somewhere in the query, e.g. watch?feature=share&v=ID
	regexp.MustCompile(`[&?]v=([a-zA-Z0-9_-]{11})`),
}

var ytHostRe = regexp.MustCompile(`(?i)(^|\.)youtube\.com$`)

// ExtractVideoID returns the 11 character video ID a reference points at.
// The reference may be a raw ID or any of the usual watch, short, embed, /v/
// and mobile URL shapes. The second result is false when nothing matches.
func ExtractVideoID(reference string) (string, bool) {
	ref := trimReference(reference)
	if ref == "" {
		return "", false
	}

	if videoIDRe.MatchString(ref) {
		return ref, true
	}

	for _, re := range referencePatterns {
		m := re.FindStringSubmatch(ref)
		if len(m) < 2 {
			continue
		}
		if videoIDRe.MatchString(m[1]) {
			return m[1], true
		}
	}

	return "", false
}

// VideoIDFromValue is ExtractVideoID for loosely typed input such as decoded
// JSON. Anything that is not a string, *string or []byte is no match.
func VideoIDFromValue(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return ExtractVideoID(s)
	case *string:
		if s == nil {
			return "", false
		}
		return ExtractVideoID(*s)
	case []byte:
		return ExtractVideoID(string(s))
	default:
		return "", false
	}
}

// IsValidReference reports whether ExtractVideoID finds a video ID in reference.
func IsValidReference(reference string) bool {
	_, ok := ExtractVideoID(reference)
	return ok
}

// ParseReference wraps ExtractVideoID for callers that propagate errors.
func ParseReference(reference string) (string, error) {
	id, ok := ExtractVideoID(reference)
	if !ok {
		return "", ErrNoMatch
	}
	return id, nil
}

// EmbedURL builds the player URL for an already validated video ID.
func EmbedURL(id string, autoplay bool) string {
	u := fmt.Sprintf(embedURL, neturl.PathEscape(id))
	if autoplay {
		u += "?autoplay=1"
	}
	return u
}

func WatchURL(id string) string {
	return fmt.Sprintf(watchURL, neturl.QueryEscape(id))
}

// IsYouTubeURL reports whether u is hosted on youtube.com (any subdomain) or youtu.be.
func IsYouTubeURL(u string) bool {
	if strings.TrimSpace(u) == "" {
		return false
	}
	parsed, err := neturl.Parse(strings.TrimSpace(u))
	if err != nil {
		return false
	}
	h := strings.ToLower(parsed.Hostname())
	if h == "youtu.be" {
		return true
	}
	return ytHostRe.MatchString(h)
}

// trimReference strips surrounding whitespace and byte order marks.
func trimReference(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}
