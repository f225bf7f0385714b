package llm

import "testing"

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", "Here you go:\n```json\n{\"a\":1}\n```\nHope that helps!", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripFences(tc.in); got != tc.want {
				t.Fatalf("StripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	got, ok := ExtractJSON(`The result is {"score": 80, "note": "has } inside"} as requested.`)
	if !ok {
		t.Fatalf("expected extraction to succeed")
	}
	if got != `{"score": 80, "note": "has } inside"}` {
		t.Fatalf("unexpected extraction: %q", got)
	}

	if _, ok := ExtractJSON("no object here"); ok {
		t.Fatalf("expected extraction to fail on prose")
	}
	if _, ok := ExtractJSON(`{"unclosed": 1`); ok {
		t.Fatalf("expected extraction to fail on unbalanced braces")
	}
}

func TestParseObjectNeverErrors(t *testing.T) {
	inputs := []string{
		"",
		"plain prose with no json at all",
		"{",
		"}{",
		`{"broken": }`,
		"```json\nnot even close\n```",
	}
	for _, in := range inputs {
		if payload, ok := ParseObject(in); ok {
			t.Fatalf("ParseObject(%q) unexpectedly succeeded: %v", in, payload)
		}
	}
}

func TestParseObjectRepairsTrailingComma(t *testing.T) {
	payload, ok := ParseObject(`{"score": 75, "suggestions": ["a", "b",],}`)
	if !ok {
		t.Fatalf("expected repair to succeed")
	}
	if payload["score"] != float64(75) {
		t.Fatalf("unexpected score: %v", payload["score"])
	}
}

func TestParseObjectRepairsControlCharacters(t *testing.T) {
	payload, ok := ParseObject("{\"summary\": \"line one\nline two\"}")
	if !ok {
		t.Fatalf("expected repair to succeed")
	}
	if payload["summary"] != "line one\nline two" {
		t.Fatalf("unexpected summary: %q", payload["summary"])
	}
}

func TestParseObjectWithFencesAndProse(t *testing.T) {
	raw := "Sure! Here is the analysis:\n```json\n{\"score\": 42, \"summary\": \"ok\"}\n```"
	payload, ok := ParseObject(raw)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if payload["score"] != float64(42) || payload["summary"] != "ok" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}
