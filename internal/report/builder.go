/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "context"
    "fmt"
    "math"
    "time"

    "github.com/rs/zerolog"

    "github.com/ricardofgarcia/jisa/internal/domain"
    "github.com/ricardofgarcia/jisa/internal/narrative"
    "github.com/ricardofgarcia/jisa/internal/sentiment"
)

// BuildError wraps failures in the aggregation stage so the caller can
// tell them apart from gather-stage failures.
type BuildError struct{ Err error }

func (e *BuildError) Error() string { return "report build: " + e.Err.Error() }
func (e *BuildError) Unwrap() error { return e.Err }

type Builder struct {
    scorer     *sentiment.Scorer
    windowDays int
    log        zerolog.Logger
}

func New(scorer *sentiment.Scorer, windowDays int, log zerolog.Logger) *Builder {
    return &Builder{scorer: scorer, windowDays: windowDays, log: log}
}

// Build scores every issue and folds the rows into the run report. The
// root issue leads the rows; the rest keep discovery order.
func (b *Builder) Build(ctx context.Context, root domain.IssueRecord, related []domain.IssueRecord, bundles map[string]narrative.Result) (domain.Report, error) {
    rep := domain.Report{
        RootKey:    root.Key,
        WindowDays: b.windowDays,
        Counts:     map[string]int{domain.LabelPositive: 0, domain.LabelNeutral: 0, domain.LabelNegative: 0},
    }
    all := append([]domain.IssueRecord{root}, related...)
    var sum float64
    for _, rec := range all {
        nr := bundles[rec.Key]
        sr, err := b.scorer.Score(ctx, nr.Bundle)
        if err != nil { return domain.Report{}, &BuildError{Err: fmt.Errorf("score %s: %w", rec.Key, err)} }
        row := domain.ReportRow{
            Key:            rec.Key,
            Summary:        rec.Summary,
            Status:         rec.StatusName,
            StatusCategory: rec.StatusCategory,
            Sentiment:      sr.Label,
            Score:          round3(sr.Compound),
            HasNarrative:   !nr.Bundle.Empty(),
            RiskFlag:       sr.RiskFlag,
            PositiveFlag:   sr.PositiveFlag,
            Skipped:        nr.Skipped,
        }
        if rec.Updated != nil { row.Updated = rec.Updated.UTC().Format(time.RFC3339) }
        rep.Rows = append(rep.Rows, row)
        rep.Counts[sr.Label]++
        sum += sr.Compound
        if sr.RiskFlag {
            rep.RiskCount++
            rep.RiskKeys = append(rep.RiskKeys, rec.Key)
        }
        if sr.PositiveFlag { rep.PositiveCount++ }
        if sr.Label == domain.LabelNegative {
            rep.WatchItems = append(rep.WatchItems, fmt.Sprintf("%s (%s)", rec.Key, rec.Summary))
        }
    }
    if len(all) > 0 { rep.OverallAvg = sum / float64(len(all)) }
    rep.OverallLabel = b.scorer.Label(rep.OverallAvg)
    rep.Trend = trend(rep.Counts)
    return rep, nil
}

// trend is majority vote across labels; ties lean toward the less
// alarming label so a split report reads neutral, not negative.
func trend(counts map[string]int) string {
    pos, neu, neg := counts[domain.LabelPositive], counts[domain.LabelNeutral], counts[domain.LabelNegative]
    if pos >= neu && pos >= neg { return domain.LabelPositive }
    if neu >= neg { return domain.LabelNeutral }
    return domain.LabelNegative
}

func round3(f float64) float64 { return math.Round(f*1000) / 1000 }
