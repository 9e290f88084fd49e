// internal/ai/validate/orchestrator.go

// Package validate fans an article out to the pre-publication checks and
// collects their results into one report.
package validate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/newsdesk/stardesk/internal/ai/feature"
	"github.com/newsdesk/stardesk/internal/metrics"
)

// FullReport bundles the four pre-publication checks. Each field is an
// independent result; one check failing never hides the others.
type FullReport struct {
	FactCheck        feature.Result[feature.FactCheck]      `json:"factCheck"`
	StyleAnalysis    feature.Result[feature.StyleAnalysis]  `json:"styleAnalysis"`
	DuplicateCheck   feature.Result[feature.DuplicateCheck] `json:"duplicateCheck"`
	SensitivityCheck feature.Result[feature.Sensitivity]    `json:"sensitivityCheck"`
}

// Orchestrator runs the full validation suite.
type Orchestrator struct {
	invoker *feature.Invoker
	logger  *zap.Logger
	metrics *metrics.Registry
}

// New creates an orchestrator. metrics may be nil.
func New(inv *feature.Invoker, logger *zap.Logger, m *metrics.Registry) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{invoker: inv, logger: logger, metrics: m}
}

// RunFull executes fact-check, style, duplicate and sensitivity checks
// concurrently and waits for all four. Every check writes its own report
// field, so the report is complete even when some checks fail.
func (o *Orchestrator) RunFull(ctx context.Context, title, subtitle, content string) FullReport {
	start := time.Now()

	var report FullReport
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		report.FactCheck = o.invoker.CheckFacts(ctx, title, subtitle, content)
	}()
	go func() {
		defer wg.Done()
		report.StyleAnalysis = o.invoker.UnifyStyle(ctx, content)
	}()
	go func() {
		defer wg.Done()
		report.DuplicateCheck = o.invoker.CheckDuplicates(ctx, content)
	}()
	go func() {
		defer wg.Done()
		report.SensitivityCheck = o.invoker.CheckSensitivity(ctx, content)
	}()
	wg.Wait()

	if o.metrics != nil {
		o.metrics.RecordValidationRun()
	}
	o.logger.Info("full validation completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("fact_check_ok", report.FactCheck.Success),
		zap.Bool("style_ok", report.StyleAnalysis.Success),
		zap.Bool("duplicate_ok", report.DuplicateCheck.Success),
		zap.Bool("sensitivity_ok", report.SensitivityCheck.Success))
	return report
}
