// internal/ai/jsonx/extract.go

// Package jsonx recovers JSON objects from LLM-generated text. Model output
// is supposed to be a single JSON object but routinely arrives wrapped in
// markdown fences, followed by commentary, or structurally damaged (trailing
// commas, unescaped inner quotes, truncated strings). Extract applies a
// fixed sequence of repairs, least invasive first, and stops at the first
// candidate that parses.
package jsonx

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/newsdesk/stardesk/internal/core"
)

// Extract recovers a JSON object from raw generated text. The returned bytes
// are guaranteed to unmarshal into a map. On failure the error is a
// *core.ExtractionError carrying the parse reason, the byte offset when the
// parser reported one, and a bounded snippet of the input.
//
// Attempt order:
//  1. strip a surrounding markdown code fence
//  2. parse the trimmed text directly
//  3. parse the first balanced {...} span (string-literal aware)
//  4. remove trailing commas before } and ] and re-parse
//  5. escape unescaped quotes inside "key": "value" segments and re-parse
//  6. close an unterminated string at end of input and re-parse
//
// Repairs accumulate: each step operates on the output of the previous one.
// Aggressive repairs come last because they can corrupt valid data.
func Extract(raw string) (json.RawMessage, error) {
	s := stripFences(strings.TrimSpace(raw))

	obj, firstErr := parseObject(s)
	if firstErr == nil {
		return obj, nil
	}

	candidate := s
	if span, ok := firstObjectSpan(s); ok {
		candidate = span
		if obj, err := parseObject(candidate); err == nil {
			return obj, nil
		}
	}

	candidate = removeTrailingCommas(candidate)
	if obj, err := parseObject(candidate); err == nil {
		return obj, nil
	}

	candidate = escapeInnerQuotes(candidate)
	if obj, err := parseObject(candidate); err == nil {
		return obj, nil
	}

	candidate = closeUnterminatedString(candidate)
	if obj, err := parseObject(candidate); err == nil {
		return obj, nil
	}

	return nil, core.NewExtractionError(firstErr.Error(), parseOffset(firstErr), raw)
}

// parseObject parses s as a single JSON object, rejecting non-objects and
// trailing content.
func parseObject(s string) (json.RawMessage, error) {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "{") {
		return nil, errors.New("no JSON object in text")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(t), &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("parsed value is not an object")
	}
	return json.RawMessage(t), nil
}

// parseOffset pulls the byte offset out of an encoding/json error, or -1.
func parseOffset(err error) int64 {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return syn.Offset
	}
	var typ *json.UnmarshalTypeError
	if errors.As(err, &typ) {
		return typ.Offset
	}
	return -1
}

var (
	fenceJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	fenceRe     = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")

	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// stripFences removes a ```json ... ``` or ``` ... ``` block, returning the
// inner text. Text without a fence passes through unchanged, minus any
// stray fence markers left at the edges.
func stripFences(s string) string {
	if m := fenceJSONRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	} else if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// firstObjectSpan returns the first balanced {...} span. The brace counter
// ignores braces inside string literals and honors backslash escapes, so a
// "}" inside a value does not close the scan early.
func firstObjectSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
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
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// removeTrailingCommas drops commas that directly precede a closing brace or
// bracket. Valid JSON never contains them; models emit them constantly.
func removeTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// escapeInnerQuotes repairs unescaped double quotes inside string values.
// A quote inside a value is assumed interior when the next non-space byte
// could not legally follow a closing quote.
func escapeInnerQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			b.WriteByte(c)
			escaped = true
			continue
		}
		if c != '"' {
			b.WriteByte(c)
			continue
		}
		if !inString {
			inString = true
			b.WriteByte(c)
			continue
		}
		// Closing candidate: peek at what follows.
		if legallyFollowsString(s[i+1:]) {
			inString = false
			b.WriteByte(c)
		} else {
			b.WriteString(`\"`)
		}
	}
	return b.String()
}

// legallyFollowsString reports whether rest could follow a closing quote in
// valid JSON.
func legallyFollowsString(rest string) bool {
	t := strings.TrimLeft(rest, " \t\r\n")
	if t == "" {
		return true
	}
	switch t[0] {
	case ',', '}', ']', ':':
		return true
	}
	return false
}

// closeUnterminatedString escapes raw newlines inside an open string literal
// and, when the input ends mid-string, appends the missing closing quote.
func closeUnterminatedString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 1)

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		switch c {
		case '\\':
			b.WriteByte(c)
			escaped = true
		case '"':
			inString = !inString
			b.WriteByte(c)
		case '\n':
			if inString {
				b.WriteString(`\n`)
			} else {
				b.WriteByte(c)
			}
		case '\r':
			if inString {
				b.WriteString(`\r`)
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	if inString {
		b.WriteByte('"')
	}
	return b.String()
}
