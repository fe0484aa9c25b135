// Package videoid normalizes raw YouTube URLs and IDs into canonical
// 11-character video identifiers.
package videoid

import "regexp"

// idPattern matches a canonical video ID: exactly 11 characters of
// alphanumerics, hyphen and underscore.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// urlPatterns are tried in priority order. Each pattern's first capture
// group is the candidate video ID.
var urlPatterns = []*regexp.Regexp{
	// Standard watch URL, including mobile and extra query params.
	regexp.MustCompile(`(?:www\.|m\.)?youtube\.com/watch\?(?:[^#\s]*&)?v=([A-Za-z0-9_-]{11})`),
	// Short URL.
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	// Embedded player.
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
	// Shorts.
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
	// Live streams.
	regexp.MustCompile(`youtube\.com/live/([A-Za-z0-9_-]{11})`),
	// Legacy /v/ URLs.
	regexp.MustCompile(`youtube\.com/v/([A-Za-z0-9_-]{11})`),
}

// Extract resolves a raw URL or ID string to a canonical video ID.
// It returns ("", false) when nothing in the input looks like a video ID;
// callers must treat that as a client input error, not a pipeline failure.
func Extract(input string) (string, bool) {
	if Valid(input) {
		return input, true
	}

	for _, pattern := range urlPatterns {
		matches := pattern.FindStringSubmatch(input)
		if len(matches) > 1 && Valid(matches[1]) {
			return matches[1], true
		}
	}

	return "", false
}

// Valid reports whether id is a well-formed 11-character video ID.
func Valid(id string) bool {
	return idPattern.MatchString(id)
}
