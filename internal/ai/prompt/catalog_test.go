// internal/ai/prompt/catalog_test.go
package prompt

import (
	"strings"
	"testing"
)

func TestDefault_CoversAllFeatures(t *testing.T) {
	catalog := Default()
	features := []string{
		"auto-tag", "fact-check", "style-unify", "duplicate-check",
		"summarize", "category-suggest", "sensitivity-check", "spell-check",
	}
	for _, name := range features {
		tpl, ok := catalog.Get(name)
		if !ok {
			t.Errorf("catalog missing %q", name)
			continue
		}
		if tpl.Name != name {
			t.Errorf("template name %q does not match key %q", tpl.Name, name)
		}
		if tpl.SystemPrompt == "" || tpl.UserPromptTemplate == "" {
			t.Errorf("%q has empty prompts", name)
		}
		if tpl.OutputFormat != "json" {
			t.Errorf("%q output format = %q, want json", name, tpl.OutputFormat)
		}
		if !strings.Contains(tpl.UserPromptTemplate, "{{content}}") {
			t.Errorf("%q template missing {{content}} placeholder", name)
		}
	}
	if got := len(catalog.Names()); got != len(features) {
		t.Errorf("catalog has %d templates, want %d", got, len(features))
	}
}

func TestGet_Unknown(t *testing.T) {
	if _, ok := Default().Get("rewrite"); ok {
		t.Error("unknown feature should not resolve")
	}
}

func TestFill(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     map[string]string
		want     string
	}{
		{
			"single var",
			"Check: {{content}}",
			map[string]string{"content": "기사 본문"},
			"Check: 기사 본문",
		},
		{
			"all occurrences replaced",
			"{{x}} and {{x}} again",
			map[string]string{"x": "val"},
			"val and val again",
		},
		{
			"multiple vars",
			"{{a}}-{{b}}",
			map[string]string{"a": "1", "b": "2"},
			"1-2",
		},
		{
			"missing var stays literal",
			"keep {{unknown}}",
			map[string]string{"other": "x"},
			"keep {{unknown}}",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Fill(tc.template, tc.vars); got != tc.want {
				t.Errorf("Fill() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFill_AutoTagPrompt(t *testing.T) {
	tpl, _ := Default().Get("auto-tag")
	got := Fill(tpl.UserPromptTemplate, map[string]string{
		"content": "뉴진스 컴백",
		"maxTags": "5",
	})
	if strings.Contains(got, "{{") {
		t.Errorf("unreplaced placeholder remains: %s", got)
	}
	if !strings.Contains(got, "뉴진스 컴백") || !strings.Contains(got, "최대 5개") {
		t.Error("variables not substituted into template")
	}
}
