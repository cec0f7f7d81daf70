/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package sentiment

import (
    "context"
    "strings"

    "github.com/ricardofgarcia/jisa/internal/domain"
)

// Scores is the polarity breakdown produced by an Analyzer.
type Scores struct {
    Negative float64 `json:"negative"`
    Neutral  float64 `json:"neutral"`
    Positive float64 `json:"positive"`
    Compound float64 `json:"compound"`
}

// Analyzer is the external text-polarity collaborator.
type Analyzer interface {
    PolarityScores(ctx context.Context, text string) (Scores, error)
}

// Thresholds bound the neutral band. Values on the boundary are neutral.
type Thresholds struct {
    Positive float64
    Negative float64
}

var DefaultThresholds = Thresholds{Positive: 0.05, Negative: -0.05}

// Status summary carries more weight than comment chatter when both exist.
const (
    statusWeight   = 0.6
    commentsWeight = 0.4
)

var riskMarkers = []string{
    "risk", "blocked", "blocker", "delay", "slip", "slipped", "regression",
    "dependency", "dependent", "qa issue", "qe issue", "concern", "problem", "issue",
}

var positiveMarkers = []string{
    "landed", "merged", "shipped", "completed", "done", "progress", "on track",
    "green", "good", "improved", "started", "work has started",
}

// Signals flags explicit risk/positive language by case-insensitive
// substring match, independent of the numeric polarity score.
func Signals(text string) (risk, positive bool) {
    t := strings.ToLower(text)
    for _, m := range riskMarkers {
        if strings.Contains(t, m) { risk = true; break }
    }
    for _, m := range positiveMarkers {
        if strings.Contains(t, m) { positive = true; break }
    }
    return risk, positive
}

type Scorer struct {
    analyzer Analyzer
    th       Thresholds
}

func NewScorer(a Analyzer, th Thresholds) *Scorer {
    return &Scorer{analyzer: a, th: th}
}

// Label maps a compound score onto {positive, neutral, negative}.
// Strictly above/below the thresholds flips the label; the band
// between them, boundaries included, is neutral.
func (s *Scorer) Label(compound float64) string {
    if compound > s.th.Positive { return domain.LabelPositive }
    if compound < s.th.Negative { return domain.LabelNegative }
    return domain.LabelNeutral
}

// Score computes the weighted compound for a bundle. Blank texts
// contribute nothing; when only one text is present its weight
// renormalizes to 1.0, and an entirely empty bundle scores exactly 0.
func (s *Scorer) Score(ctx context.Context, b domain.NarrativeBundle) (domain.SentimentResult, error) {
    var sum, wsum float64
    if strings.TrimSpace(b.StatusText) != "" {
        sc, err := s.analyzer.PolarityScores(ctx, b.StatusText)
        if err != nil { return domain.SentimentResult{}, err }
        sum += sc.Compound * statusWeight
        wsum += statusWeight
    }
    if strings.TrimSpace(b.CommentsText) != "" {
        sc, err := s.analyzer.PolarityScores(ctx, b.CommentsText)
        if err != nil { return domain.SentimentResult{}, err }
        sum += sc.Compound * commentsWeight
        wsum += commentsWeight
    }
    compound := 0.0
    if wsum > 0 { compound = sum / wsum }
    risk, positive := Signals(b.StatusText + "\n" + b.CommentsText)
    return domain.SentimentResult{
        Compound:     compound,
        Label:        s.Label(compound),
        RiskFlag:     risk,
        PositiveFlag: positive,
    }, nil
}
