// Package captions parses raw caption payloads in any of the formats
// YouTube-adjacent sources serve (WebVTT, XML/TTML, JSON3, plain text)
// into a single ordered segment representation.
package captions

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"yt-transcripts/pkg/domain"
)

// Format identifies the wire format of a caption payload.
type Format string

const (
	FormatWebVTT    Format = "webvtt"
	FormatXML       Format = "xml"
	FormatJSON3     Format = "json3"
	FormatPlainText Format = "text"
)

// defaultDuration is used when a source omits a segment duration.
const defaultDuration = 3.0

// DetectFormat inspects content for format signatures. Unrecognized
// content is treated as plain text so the pipeline still produces
// something rather than failing outright.
func DetectFormat(content string) Format {
	trimmed := strings.TrimSpace(content)

	if strings.HasPrefix(trimmed, "WEBVTT") {
		return FormatWebVTT
	}
	// XML before the bare "-->" marker: an XML comment would otherwise
	// route the payload to the WebVTT parser.
	if strings.Contains(trimmed, "<text") {
		return FormatXML
	}
	if strings.Contains(trimmed, "-->") {
		return FormatWebVTT
	}
	if (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) &&
		strings.Contains(trimmed, `"events"`) {
		return FormatJSON3
	}
	return FormatPlainText
}

// Parse detects the payload format and dispatches to the matching parser.
// An empty result means "no usable content"; it is never an error.
func Parse(content string) []domain.TranscriptSegment {
	switch DetectFormat(content) {
	case FormatWebVTT:
		return ParseWebVTT(content)
	case FormatXML:
		return ParseXML(content)
	case FormatJSON3:
		return ParseJSON3(content)
	default:
		return ParseSimpleText(content)
	}
}

// cueTimingPattern matches a WebVTT cue timing line. Hours are optional.
var cueTimingPattern = regexp.MustCompile(`^(?:(\d{1,2}):)?(\d{2}):(\d{2})[.,](\d{3})\s*-->\s*(?:(\d{1,2}):)?(\d{2}):(\d{2})[.,](\d{3})`)

// styleTagPattern strips embedded styling like <c.colorCCCCCC> and </c>.
var styleTagPattern = regexp.MustCompile(`<[^>]*>`)

// positioningPattern strips curly-brace positioning directives.
var positioningPattern = regexp.MustCompile(`\{[^}]*\}`)

// ParseWebVTT parses a WebVTT payload. Cues are emitted in file order,
// which is already chronological for WebVTT.
func ParseWebVTT(content string) []domain.TranscriptSegment {
	var segments []domain.TranscriptSegment
	var current *domain.TranscriptSegment
	var textParts []string

	flush := func() {
		if current == nil {
			return
		}
		text := cleanCueText(strings.Join(textParts, " "))
		if text != "" {
			current.Text = text
			segments = append(segments, *current)
		}
		current = nil
		textParts = nil
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "WEBVTT") || strings.HasPrefix(line, "NOTE") ||
			strings.HasPrefix(line, "Kind:") || strings.HasPrefix(line, "Language:") {
			continue
		}

		if m := cueTimingPattern.FindStringSubmatch(line); m != nil {
			flush()
			start := vttTimestampSeconds(m[1], m[2], m[3], m[4])
			end := vttTimestampSeconds(m[5], m[6], m[7], m[8])
			duration := end - start
			if duration < 0 {
				duration = defaultDuration
			}
			current = &domain.TranscriptSegment{Start: start, Duration: duration}
			continue
		}

		// Bare cue identifiers (sequence numbers) appear between cues.
		if current == nil {
			continue
		}
		textParts = append(textParts, line)
	}
	flush()

	return segments
}

func vttTimestampSeconds(hours, minutes, seconds, millis string) float64 {
	h := 0.0
	if hours != "" {
		h, _ = strconv.ParseFloat(hours, 64)
	}
	m, _ := strconv.ParseFloat(minutes, 64)
	s, _ := strconv.ParseFloat(seconds, 64)
	ms, _ := strconv.ParseFloat(millis, 64)
	return h*3600 + m*60 + s + ms/1000
}

func cleanCueText(text string) string {
	text = styleTagPattern.ReplaceAllString(text, "")
	text = positioningPattern.ReplaceAllString(text, "")
	text = decodeEntities(text)
	return strings.Join(strings.Fields(text), " ")
}

// textElementPattern matches <text start="S" dur="D">TEXT</text> elements.
// The dur attribute is optional; some tracks omit it.
var textElementPattern = regexp.MustCompile(`<text[^>]*start="([^"]*)"[^>]*?(?:dur="([^"]*)")?[^>]*>(.*?)</text>`)

// ParseXML parses a timedtext XML/TTML payload. The result is sorted by
// start ascending: XML caption tracks are not guaranteed to arrive ordered.
func ParseXML(content string) []domain.TranscriptSegment {
	var segments []domain.TranscriptSegment

	for _, m := range textElementPattern.FindAllStringSubmatch(content, -1) {
		start, err := strconv.ParseFloat(m[1], 64)
		if err != nil || start < 0 {
			continue
		}

		duration := defaultDuration
		if m[2] != "" {
			if d, err := strconv.ParseFloat(m[2], 64); err == nil && d >= 0 {
				duration = d
			}
		}

		text := cleanCueText(m[3])
		if text == "" {
			continue
		}

		segments = append(segments, domain.TranscriptSegment{
			Start:    start,
			Duration: duration,
			Text:     text,
		})
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})

	return segments
}

type json3Payload struct {
	Events []struct {
		StartMs    float64 `json:"tStartMs"`
		DurationMs float64 `json:"dDurationMs"`
		Segs       []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// ParseJSON3 parses YouTube's json3 caption payload: an events array where
// each event carries millisecond timing and a list of utf8 fragments.
func ParseJSON3(content string) []domain.TranscriptSegment {
	var payload json3Payload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil
	}

	var segments []domain.TranscriptSegment
	for _, event := range payload.Events {
		var parts []string
		for _, seg := range event.Segs {
			if seg.UTF8 != "" {
				parts = append(parts, seg.UTF8)
			}
		}

		text := cleanCueText(strings.Join(parts, ""))
		if text == "" {
			continue
		}

		duration := event.DurationMs / 1000
		if duration <= 0 {
			duration = defaultDuration
		}

		segments = append(segments, domain.TranscriptSegment{
			Start:    event.StartMs / 1000,
			Duration: duration,
			Text:     text,
		})
	}

	return segments
}

// ParseSimpleText is the last-resort parser for unrecognized content:
// each non-blank line becomes a synthetic 3-second segment.
func ParseSimpleText(content string) []domain.TranscriptSegment {
	var segments []domain.TranscriptSegment
	start := 0.0

	for _, line := range strings.Split(content, "\n") {
		text := cleanCueText(line)
		if text == "" {
			continue
		}
		segments = append(segments, domain.TranscriptSegment{
			Start:    start,
			Duration: defaultDuration,
			Text:     text,
		})
		start += defaultDuration
	}

	return segments
}

// entityReplacer handles the standard XML/HTML entities caption tracks use.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
)

func decodeEntities(text string) string {
	// &amp; may itself encode another entity (e.g. "&amp;#39;"), so decode twice.
	return entityReplacer.Replace(entityReplacer.Replace(text))
}
