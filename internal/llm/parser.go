package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// StripFences removes markdown code fences around a completion, returning the
// inner content of the first fenced block when one exists.
func StripFences(text string) string {
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// ExtractJSON returns the first balanced JSON object embedded in text.
// Brace matching is string-aware so braces inside values do not confuse it.
func ExtractJSON(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// ParseObject extracts and decodes a JSON object from a raw model completion.
// It never returns an error: malformed input yields (nil, false). Repairs are
// attempted in order of increasing aggressiveness before giving up.
func ParseObject(text string) (map[string]any, bool) {
	candidate, ok := ExtractJSON(StripFences(text))
	if !ok {
		return nil, false
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(candidate), &payload); err == nil {
		return payload, true
	}

	repaired := repairJSON(candidate)
	if err := json.Unmarshal([]byte(repaired), &payload); err == nil {
		return payload, true
	}
	return nil, false
}

// repairJSON applies cheap fixes for the malformations models commonly emit:
// trailing commas and raw control characters inside the object.
func repairJSON(s string) string {
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			b.WriteByte(c)
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
			b.WriteByte(c)
		case c == '"':
			inString = !inString
			b.WriteByte(c)
		case inString && c == '\n':
			b.WriteString(`\n`)
		case inString && c == '\t':
			b.WriteString(`\t`)
		case inString && c == '\r':
			// dropped
		case c < 0x20 && !inString:
			b.WriteByte(c)
		case c < 0x20:
			// other control characters inside strings are dropped
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
