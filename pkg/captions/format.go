package captions

import (
	"fmt"
	"regexp"
	"strings"

	"yt-transcripts/pkg/domain"
)

// bracketTagPattern matches bracketed non-speech markers like [Música].
var bracketTagPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// punctuationSpacing inserts a space after sentence punctuation that is
// followed directly by a word character.
var punctuationSpacing = regexp.MustCompile(`([.!?,])(\S)`)

// nonSpeechTags maps language-specific non-speech marker variants onto a
// fixed vocabulary. Keys are lowercased marker contents.
var nonSpeechTags = map[string]string{
	"music":      "Music",
	"música":     "Music",
	"musica":     "Music",
	"musik":      "Music",
	"musique":    "Music",
	"applause":   "Applause",
	"aplausos":   "Applause",
	"applaus":    "Applause",
	"laughter":   "Laughter",
	"laughing":   "Laughter",
	"risas":      "Laughter",
	"rires":      "Laughter",
	"lachen":     "Laughter",
}

// FlatText joins segment texts into natural-flowing prose: non-speech
// tags canonicalized, whitespace runs collapsed, punctuation spacing
// normalized. The function is idempotent on already-normalized text.
func FlatText(segments []domain.TranscriptSegment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment.Text != "" {
			parts = append(parts, segment.Text)
		}
	}
	return NormalizeText(strings.Join(parts, " "))
}

// TimestampedText renders segments with a [start - end] range prefix on
// each line, for callers that want timing context in the note.
func TimestampedText(segments []domain.TranscriptSegment) string {
	lines := make([]string, 0, len(segments))
	for _, segment := range segments {
		text := NormalizeText(segment.Text)
		if text == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%s - %s] %s",
			FormatTimestamp(segment.Start), FormatTimestamp(segment.End()), text))
	}
	return strings.Join(lines, "\n")
}

// NormalizeText canonicalizes non-speech tags, collapses whitespace and
// fixes punctuation spacing in a single pass over the text.
func NormalizeText(text string) string {
	text = canonicalizeTags(text)
	text = strings.Join(strings.Fields(text), " ")
	text = punctuationSpacing.ReplaceAllString(text, "$1 $2")
	return strings.TrimSpace(text)
}

func canonicalizeTags(text string) string {
	return bracketTagPattern.ReplaceAllStringFunc(text, func(match string) string {
		inner := strings.ToLower(strings.TrimSpace(match[1 : len(match)-1]))
		if canonical, ok := nonSpeechTags[inner]; ok {
			return "[" + canonical + "]"
		}
		return match
	})
}

// FormatTimestamp renders a seconds offset as MM:SS or HH:MM:SS.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// TotalDuration returns the end time of the last segment, in seconds.
func TotalDuration(segments []domain.TranscriptSegment) float64 {
	if len(segments) == 0 {
		return 0
	}
	return segments[len(segments)-1].End()
}
