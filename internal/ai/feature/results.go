// internal/ai/feature/results.go
package feature

// Typed response shapes, one per editorial feature. Provider output is
// decoded into these at the invoker boundary instead of being passed
// through untyped; a reply that does not fit the feature's shape is a
// failure, not data.

// AutoTag is the auto-tag feature response.
type AutoTag struct {
	Tags       []string  `json:"tags"`
	Confidence []float64 `json:"confidence"`
}

// FactCheck is the fact-check feature response.
type FactCheck struct {
	IsValid bool             `json:"isValid"`
	Issues  []FactCheckIssue `json:"issues"`
}

// FactCheckIssue flags one suspect statement.
type FactCheckIssue struct {
	Type       string `json:"type"`     // "date", "name", "fact", "schedule"
	Severity   string `json:"severity"` // "warning", "error"
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// StyleAnalysis is the style-unify feature response.
type StyleAnalysis struct {
	IsConsistent bool              `json:"isConsistent"`
	Suggestions  []StyleSuggestion `json:"suggestions"`
}

// StyleSuggestion proposes one sentence-level rewrite.
type StyleSuggestion struct {
	Original  string `json:"original"`
	Suggested string `json:"suggested"`
	Reason    string `json:"reason"`
}

// DuplicateCheck is the duplicate-check feature response.
type DuplicateCheck struct {
	HasDuplicates   bool             `json:"hasDuplicates"`
	Duplicates      []DuplicateItem  `json:"duplicates"`
	SimilarArticles []SimilarArticle `json:"similarArticles,omitempty"`
}

// DuplicateItem is one repeated span of text.
type DuplicateItem struct {
	Text        string `json:"text"`
	Occurrences int    `json:"occurrences"`
	Positions   []Span `json:"positions,omitempty"`
}

// Span is a half-open byte range into the article body.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SimilarArticle references a previously published near-duplicate.
type SimilarArticle struct {
	ArticleID  string  `json:"articleId"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"` // 0-100
}

// Sensitivity is the sensitivity-check feature response.
type Sensitivity struct {
	HasSensitiveContent bool              `json:"hasSensitiveContent"`
	Items               []SensitivityItem `json:"items"`
}

// SensitivityItem flags one risky expression.
type SensitivityItem struct {
	Type       string `json:"type"`     // "offensive", "controversial", "privacy", "defamation"
	Severity   string `json:"severity"` // "low", "medium", "high"
	Text       string `json:"text"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Summary is the summarize feature response.
type Summary struct {
	Summary    string   `json:"summary"`
	KeyPoints  []string `json:"keyPoints"`
	SNSVersion string   `json:"snsVersion,omitempty"`
	SEOVersion string   `json:"seoVersion,omitempty"`
}

// CategorySuggestion is the category-suggest feature response.
type CategorySuggestion struct {
	Category     string                `json:"category"`
	SubCategory  string                `json:"subCategory,omitempty"`
	Confidence   float64               `json:"confidence"`
	Alternatives []CategoryAlternative `json:"alternatives"`
}

// CategoryAlternative is a lower-confidence category candidate.
type CategoryAlternative struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// SpellCheck is the spell-check feature response.
type SpellCheck struct {
	HasErrors   bool              `json:"hasErrors"`
	Corrections []SpellCorrection `json:"corrections"`
}

// SpellCorrection is one spelling, spacing or grammar fix.
type SpellCorrection struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Type      string `json:"type"` // "spelling", "spacing", "grammar", "loanword"
	Reason    string `json:"reason,omitempty"`
}
