/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "encoding/json"
    "fmt"
    "strings"

    "github.com/ricardofgarcia/jisa/internal/domain"
)

// RenderText formats the report for humans: headline first, then the
// aggregate picture, then per-issue lines.
func RenderText(rep domain.Report) string {
    var b strings.Builder
    fmt.Fprintf(&b, "TL;DR: %s hierarchy sentiment over the last %d days is %s (avg %.3f).\n", rep.RootKey, rep.WindowDays, rep.OverallLabel, rep.OverallAvg)
    b.WriteString("\nExecutive Summary\n")
    fmt.Fprintf(&b, "- Issues analyzed: %d (positive %d / neutral %d / negative %d)\n",
        len(rep.Rows), rep.Counts[domain.LabelPositive], rep.Counts[domain.LabelNeutral], rep.Counts[domain.LabelNegative])
    fmt.Fprintf(&b, "- Trend: %s\n", rep.Trend)
    narr := 0
    for _, r := range rep.Rows {
        if r.HasNarrative { narr++ }
    }
    fmt.Fprintf(&b, "- Recent narrative found on %d of %d issue(s)\n", narr, len(rep.Rows))
    fmt.Fprintf(&b, "- Signals: %d positive marker hit(s), %d risk marker hit(s)\n", rep.PositiveCount, rep.RiskCount)
    if len(rep.RiskKeys) > 0 {
        fmt.Fprintf(&b, "- Risk call-outs: %s\n", strings.Join(rep.RiskKeys, ", "))
    }
    if len(rep.WatchItems) > 0 {
        b.WriteString("- Watch list:\n")
        for _, w := range rep.WatchItems {
            fmt.Fprintf(&b, "    * %s\n", w)
        }
    }
    b.WriteString("\nSupporting information\n")
    for _, r := range rep.Rows {
        fmt.Fprintf(&b, "%s  [%s]  %s\n", r.Key, r.Status, r.Summary)
        if r.Updated != "" {
            fmt.Fprintf(&b, "    updated: %s\n", r.Updated)
        }
        fmt.Fprintf(&b, "    sentiment: %s (%.3f)  signals: +%s/-%s  recent narrative: %s\n",
            r.Sentiment, r.Score, yn(r.PositiveFlag), yn(r.RiskFlag), yesNo(r.HasNarrative))
        if r.Skipped != "" {
            fmt.Fprintf(&b, "    note: %s\n", r.Skipped)
        }
    }
    return b.String()
}

// RenderJSON emits the machine-readable issue rows followed by a short
// human trailer, for piping into other tooling while staying readable.
func RenderJSON(rep domain.Report) (string, error) {
    payload := struct {
        Issues []domain.ReportRow `json:"issues"`
    }{Issues: rep.Rows}
    raw, err := json.MarshalIndent(payload, "", "  ")
    if err != nil { return "", &BuildError{Err: err} }
    var b strings.Builder
    b.Write(raw)
    b.WriteString("\n\n=== Executive Summary ===\n")
    fmt.Fprintf(&b, "root %s: %s overall (avg %.3f), trend %s; %d issue(s), %d risk signal(s)\n",
        rep.RootKey, rep.OverallLabel, rep.OverallAvg, rep.Trend, len(rep.Rows), rep.RiskCount)
    return b.String(), nil
}

func yn(v bool) string {
    if v { return "1" }
    return "0"
}

func yesNo(v bool) string {
    if v { return "yes" }
    return "no"
}
