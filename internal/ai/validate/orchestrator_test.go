// internal/ai/validate/orchestrator_test.go
package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/newsdesk/stardesk/internal/ai/feature"
	"github.com/newsdesk/stardesk/internal/ai/prompt"
	"github.com/newsdesk/stardesk/internal/ai/registry"
	"github.com/newsdesk/stardesk/internal/config"
	"github.com/newsdesk/stardesk/internal/metrics"
)

// checkReplies maps a marker string found in the prompt to the JSON the
// fake provider answers with. The markers come from the template wording.
var checkReplies = map[string]string{
	"사실 관계를 검증해주세요":        `{"isValid":true,"issues":[]}`,
	"연예 뉴스 스타일로 통일해주세요":    `{"isConsistent":true,"suggestions":[]}`,
	"중복되는 정보나 문장을 찾아주세요":   `{"hasDuplicates":false,"duplicates":[]}`,
	"민감한 표현이나 부적절한 내용을 검사": `{"hasSensitiveContent":false,"items":[]}`,
}

func newOrchestrator(t *testing.T, handler http.HandlerFunc) *Orchestrator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.AIConfig{
		Provider: "base44",
		Base44: config.Base44Config{
			APIKey:    "test-key",
			ProjectID: "test-project",
			BaseURL:   srv.URL,
		},
	}
	reg := registry.New(cfg, zap.NewNop())
	reg.InitializeAll()
	inv := feature.NewInvoker(reg, prompt.Default(), zap.NewNop(), nil)
	return New(inv, zap.NewNop(), metrics.NewRegistry())
}

func routeReply(t *testing.T, w http.ResponseWriter, r *http.Request) bool {
	t.Helper()
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Errorf("decoding provider request: %v", err)
		return false
	}
	for marker, resp := range checkReplies {
		if strings.Contains(req.Prompt, marker) {
			fmt.Fprintf(w, `{"result":{"text":%q}}`, resp)
			return true
		}
	}
	return false
}

func TestRunFull_AllChecksSucceed(t *testing.T) {
	o := newOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		if !routeReply(t, w, r) {
			t.Error("request matched no known check")
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	report := o.RunFull(context.Background(), "제목", "부제목", "본문")

	if !report.FactCheck.Success || report.FactCheck.Data == nil || !report.FactCheck.Data.IsValid {
		t.Errorf("fact check = %+v", report.FactCheck)
	}
	if !report.StyleAnalysis.Success || !report.StyleAnalysis.Data.IsConsistent {
		t.Errorf("style analysis = %+v", report.StyleAnalysis)
	}
	if !report.DuplicateCheck.Success || report.DuplicateCheck.Data.HasDuplicates {
		t.Errorf("duplicate check = %+v", report.DuplicateCheck)
	}
	if !report.SensitivityCheck.Success || report.SensitivityCheck.Data.HasSensitiveContent {
		t.Errorf("sensitivity check = %+v", report.SensitivityCheck)
	}
}

func TestRunFull_OneCheckFails(t *testing.T) {
	o := newOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if strings.Contains(req.Prompt, "사실 관계를 검증해주세요") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		for marker, resp := range checkReplies {
			if strings.Contains(req.Prompt, marker) {
				fmt.Fprintf(w, `{"result":{"text":%q}}`, resp)
				return
			}
		}
		w.WriteHeader(http.StatusBadRequest)
	})

	report := o.RunFull(context.Background(), "제목", "", "본문")

	if report.FactCheck.Success {
		t.Error("fact check should have failed")
	}
	if report.FactCheck.Error == "" {
		t.Error("failed check should carry an error message")
	}
	if !report.StyleAnalysis.Success || !report.DuplicateCheck.Success || !report.SensitivityCheck.Success {
		t.Error("one failing check must not affect the others")
	}

	// The report serializes with all four keys regardless of outcome.
	b, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshaling report: %v", err)
	}
	for _, key := range []string{"factCheck", "styleAnalysis", "duplicateCheck", "sensitivityCheck"} {
		if !strings.Contains(string(b), key) {
			t.Errorf("report missing %q key", key)
		}
	}
}
