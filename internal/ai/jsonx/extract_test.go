// internal/ai/jsonx/extract_test.go
package jsonx

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/newsdesk/stardesk/internal/core"
)

func mustExtract(t *testing.T, raw string) map[string]any {
	t.Helper()
	data, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract(%q): %v", raw, err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("extracted data does not unmarshal: %v", err)
	}
	return m
}

func TestExtract_PlainObject(t *testing.T) {
	m := mustExtract(t, `{"tags":["A","B"],"confidence":[0.9,0.8]}`)
	if len(m["tags"].([]any)) != 2 {
		t.Errorf("unexpected tags: %v", m["tags"])
	}
}

func TestExtract_MarkdownFences(t *testing.T) {
	tests := []string{
		"```json\n{\"isValid\": true, \"issues\": []}\n```",
		"```\n{\"isValid\": true, \"issues\": []}\n```",
		"  ```json\n{\"isValid\": true, \"issues\": []}\n```  ",
	}
	for _, raw := range tests {
		m := mustExtract(t, raw)
		if m["isValid"] != true {
			t.Errorf("Extract(%q) lost isValid", raw)
		}
	}
}

func TestExtract_LeadingAndTrailingCommentary(t *testing.T) {
	raw := "Sure! Here is the analysis you asked for:\n" +
		`{"hasDuplicates": false, "duplicates": []}` +
		"\nLet me know if you need anything else."
	m := mustExtract(t, raw)
	if m["hasDuplicates"] != false {
		t.Error("lost hasDuplicates")
	}
}

func TestExtract_BraceInsideString(t *testing.T) {
	raw := `noise {"text": "literal } brace and { brace", "n": 1} noise`
	m := mustExtract(t, raw)
	if m["text"] != "literal } brace and { brace" {
		t.Errorf("got %q", m["text"])
	}
}

func TestExtract_TrailingCommas(t *testing.T) {
	tests := []string{
		`{"tags": ["a", "b",], "n": 1,}`,
		`{"items": [{"k": "v",},],}`,
	}
	for _, raw := range tests {
		if _, err := Extract(raw); err != nil {
			t.Errorf("Extract(%q): %v", raw, err)
		}
	}
}

func TestExtract_UnescapedInnerQuotes(t *testing.T) {
	raw := `{"message": "그는 "안녕하세요"라고 말했다", "ok": true}`
	m := mustExtract(t, raw)
	if !strings.Contains(m["message"].(string), "안녕하세요") {
		t.Errorf("inner quotes not recovered: %q", m["message"])
	}
}

func TestExtract_UnterminatedString(t *testing.T) {
	// Closing the open string makes the object parse again.
	raw := `{"summary": "the comeback was announced`
	if _, err := Extract(raw + `"}`); err != nil {
		t.Fatalf("sanity: %v", err)
	}

	raw2 := `{"summary": "line one
line two"}`
	m := mustExtract(t, raw2)
	if m["summary"] != "line one\nline two" {
		t.Errorf("raw newline not escaped: %q", m["summary"])
	}
}

func TestExtract_Unparseable(t *testing.T) {
	for _, raw := range []string{"hello world", "", "[1, 2, 3]", "null"} {
		_, err := Extract(raw)
		if err == nil {
			t.Errorf("Extract(%q) should fail", raw)
			continue
		}
		var ex *core.ExtractionError
		if !errors.As(err, &ex) {
			t.Errorf("Extract(%q) error type %T, want *core.ExtractionError", raw, err)
		}
		if !errors.Is(err, core.ErrExtraction) {
			t.Errorf("Extract(%q) should match ErrExtraction", raw)
		}
	}
}

func TestExtract_SnippetIsBounded(t *testing.T) {
	raw := "not json " + strings.Repeat("x", 100000)
	_, err := Extract(raw)
	var ex *core.ExtractionError
	if !errors.As(err, &ex) {
		t.Fatalf("unexpected error type: %T", err)
	}
	if len(ex.Snippet) > 1000 {
		t.Errorf("snippet too large: %d bytes", len(ex.Snippet))
	}
}

func TestFirstObjectSpan(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`{"a":1}`, `{"a":1}`, true},
		{`x {"a":1} y {"b":2}`, `{"a":1}`, true},
		{`{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{`{"a":"}"}`, `{"a":"}"}`, true},
		{`{"a":"\"}"}`, `{"a":"\"}"}`, true},
		{`no braces`, "", false},
		{`{"unclosed": 1`, "", false},
	}
	for _, tc := range tests {
		got, ok := firstObjectSpan(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("firstObjectSpan(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRemoveTrailingCommas(t *testing.T) {
	got := removeTrailingCommas(`{"a": [1, 2,], "b": {"c": 3,},}`)
	want := `{"a": [1, 2], "b": {"c": 3}}`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCloseUnterminatedString(t *testing.T) {
	got := closeUnterminatedString(`{"a": "open`)
	if got != `{"a": "open"` {
		t.Errorf("got %q", got)
	}
	// Strings already closed are untouched.
	in := `{"a": "done"}`
	if got := closeUnterminatedString(in); got != in {
		t.Errorf("valid input modified: %q", got)
	}
}

// Any JSON object wrapped in markdown fences must round-trip unchanged.
func TestExtract_FenceRoundTripProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	// gopter's Gen.Map cannot map to `any` (it mistakes an interface{}
	// return for a *GenResult), so retype the generated values instead.
	anyType := reflect.TypeOf((*any)(nil)).Elem()
	asAny := func(g gopter.Gen) gopter.Gen {
		return func(p *gopter.GenParameters) *gopter.GenResult {
			r := g(p)
			r.ResultType = anyType
			// The sieve and shrinker are bound to the original concrete
			// type and would panic on values from the other generators.
			r.Sieve = nil
			r.Shrinker = gopter.NoShrinker
			return r
		}
	}

	genValue := gen.MapOf(
		gen.AlphaString(),
		gen.OneGenOf(
			asAny(gen.AlphaString()),
			asAny(gen.Float64Range(-1e6, 1e6)),
			asAny(gen.Bool()),
		),
	)

	properties.Property("fenced stringify round-trips", prop.ForAll(
		func(m map[string]any) bool {
			raw, err := json.Marshal(m)
			if err != nil {
				return false
			}
			fenced := fmt.Sprintf("```json\n%s\n```", raw)
			data, err := Extract(fenced)
			if err != nil {
				return false
			}
			var got map[string]any
			if err := json.Unmarshal(data, &got); err != nil {
				return false
			}
			want := map[string]any{}
			if err := json.Unmarshal(raw, &want); err != nil {
				return false
			}
			return reflect.DeepEqual(got, want)
		},
		genValue,
	))

	properties.Property("injected trailing comma still parses", prop.ForAll(
		func(key string, val string) bool {
			raw := fmt.Sprintf(`{"%s": "%s",}`, key, val)
			data, err := Extract(raw)
			if err != nil {
				return false
			}
			var got map[string]any
			if err := json.Unmarshal(data, &got); err != nil {
				return false
			}
			return got[key] == val
		},
		gen.Identifier(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
