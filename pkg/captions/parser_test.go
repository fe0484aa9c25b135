package captions

import "testing"

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    Format
	}{
		{"webvtt header", "WEBVTT\n\n00:00.000 --> 00:03.000\nHello", FormatWebVTT},
		{"cue arrow only", "00:00:01.000 --> 00:00:04.000\nHello", FormatWebVTT},
		{"xml", `<transcript><text start="0" dur="3">Hi</text></transcript>`, FormatXML},
		{"xml with comment arrow", "<transcript><!-- generated -->\n<text start=\"0\" dur=\"3\">Hi</text></transcript>", FormatXML},
		{"json3", `{"events":[{"tStartMs":0,"segs":[{"utf8":"Hi"}]}]}`, FormatJSON3},
		{"plain", "just some lines\nof text", FormatPlainText},
		{"json without events", `{"foo":"bar"}`, FormatPlainText},
	}

	for _, c := range cases {
		if got := DetectFormat(c.content); got != c.want {
			t.Errorf("%s: DetectFormat = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestParseWebVTT(t *testing.T) {
	content := "WEBVTT\n\n00:00.000 --> 00:03.000\nHello world\n\n00:03.000 --> 00:06.000\n[Music]"

	segments := ParseWebVTT(content)
	if len(segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(segments))
	}

	first := segments[0]
	if first.Start != 0 || first.Duration != 3 || first.Text != "Hello world" {
		t.Errorf("First segment = %+v, want {0 3 Hello world}", first)
	}

	second := segments[1]
	if second.Start != 3 || second.Duration != 3 || second.Text != "[Music]" {
		t.Errorf("Second segment = %+v, want {3 3 [Music]}", second)
	}
}

func TestParseWebVTT_SkipsMetadataAndStyling(t *testing.T) {
	content := `WEBVTT
Kind: captions
Language: en

NOTE this is a comment

00:00:01.000 --> 00:00:04.500
<c.colorCCCCCC>Styled</c> text {position:10%}

00:00:04.500 --> 00:00:06.000

`

	segments := ParseWebVTT(content)
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment (empty cue dropped), got %d", len(segments))
	}
	if segments[0].Text != "Styled text" {
		t.Errorf("Text = %q, want %q", segments[0].Text, "Styled text")
	}
	if segments[0].Start != 1 || segments[0].Duration != 3.5 {
		t.Errorf("Timing = %v/%v, want 1/3.5", segments[0].Start, segments[0].Duration)
	}
}

func TestParseXML_SortsByStart(t *testing.T) {
	content := `<transcript>
<text start="6.5" dur="2">Second</text>
<text start="1.2" dur="3">First</text>
</transcript>`

	segments := ParseXML(content)
	if len(segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "First" || segments[1].Text != "Second" {
		t.Errorf("Segments not sorted by start: %+v", segments)
	}
	for i := 1; i < len(segments); i++ {
		if segments[i].Start < segments[i-1].Start {
			t.Errorf("Start values decrease at index %d", i)
		}
	}
}

func TestParseXML_DefaultsAndEntities(t *testing.T) {
	content := `<text start="0">Tom &amp; Jerry &#39;live&#39;</text>`

	segments := ParseXML(content)
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
	if segments[0].Duration != 3 {
		t.Errorf("Duration = %v, want default 3", segments[0].Duration)
	}
	if segments[0].Text != "Tom & Jerry 'live'" {
		t.Errorf("Text = %q, want decoded entities", segments[0].Text)
	}
}

func TestParseJSON3(t *testing.T) {
	content := `{"events":[
		{"tStartMs":0,"dDurationMs":2500,"segs":[{"utf8":"Hello "},{"utf8":"there"}]},
		{"tStartMs":2500,"dDurationMs":1500,"segs":[{"utf8":"friend"}]},
		{"tStartMs":4000,"dDurationMs":1000}
	]}`

	segments := ParseJSON3(content)
	if len(segments) != 2 {
		t.Fatalf("Expected 2 segments (segless event dropped), got %d", len(segments))
	}
	if segments[0].Text != "Hello there" {
		t.Errorf("Text = %q, want %q", segments[0].Text, "Hello there")
	}
	if segments[0].Start != 0 || segments[0].Duration != 2.5 {
		t.Errorf("Timing = %v/%v, want 0/2.5", segments[0].Start, segments[0].Duration)
	}
	if segments[1].Start != 2.5 {
		t.Errorf("Second start = %v, want 2.5", segments[1].Start)
	}
}

func TestParseSimpleText(t *testing.T) {
	segments := ParseSimpleText("line one\n\nline two\n")
	if len(segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(segments))
	}
	if segments[0].Start != 0 || segments[1].Start != 3 {
		t.Errorf("Synthetic starts = %v/%v, want 0/3", segments[0].Start, segments[1].Start)
	}
}

func TestParse_NoEmptySegments(t *testing.T) {
	payloads := []string{
		"WEBVTT\n\n00:00.000 --> 00:03.000\nHello\n\n00:03.000 --> 00:06.000\n   ",
		`<text start="0" dur="1">Hi</text><text start="1" dur="1">   </text>`,
		`{"events":[{"tStartMs":0,"dDurationMs":1000,"segs":[{"utf8":"Hi"}]},{"tStartMs":1000,"dDurationMs":1000,"segs":[{"utf8":"  "}]}]}`,
	}

	for _, payload := range payloads {
		for _, segment := range Parse(payload) {
			if segment.Text == "" {
				t.Errorf("Parse emitted empty segment for payload %q", payload)
			}
		}
	}
}

func TestParse_XMLWithCommentArrow(t *testing.T) {
	content := "<transcript><!-- track exported -->\n<text start=\"0\" dur=\"3\">Hello world</text></transcript>"

	segments := Parse(content)
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
	if segments[0].Text != "Hello world" {
		t.Errorf("Text = %q", segments[0].Text)
	}
}

func TestParse_EmptyContent(t *testing.T) {
	if segments := Parse(""); len(segments) != 0 {
		t.Errorf("Parse(empty) = %d segments, want 0", len(segments))
	}
}
