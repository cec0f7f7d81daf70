/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "fmt"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/rs/zerolog"
    "github.com/spf13/cobra"

    "github.com/ricardofgarcia/jisa/internal/adapters/jira"
    "github.com/ricardofgarcia/jisa/internal/adapters/openai"
    "github.com/ricardofgarcia/jisa/internal/config"
    "github.com/ricardofgarcia/jisa/internal/logger"
    "github.com/ricardofgarcia/jisa/internal/report"
    "github.com/ricardofgarcia/jisa/internal/sentiment"
    "github.com/ricardofgarcia/jisa/internal/services"
)

var reportFlags struct {
    days    int
    depth   int
    timeout time.Duration
    format  string
}

var reportCmd = &cobra.Command{
    Use:   "report <ISSUE-KEY>",
    Short: "Print the sentiment report for an issue hierarchy",
    Long: `Walk the in-progress hierarchy rooted at ISSUE-KEY, score each issue's
recent narrative, and print the report to stdout.

Jira credentials come from JIRA_BASE_URL, JIRA_EMAIL and JIRA_API_TOKEN
(a .env file in the working directory is read if present).`,
    Args: cobra.ExactArgs(1),
    RunE: runReport,
}

func init() {
    f := reportCmd.Flags()
    f.IntVar(&reportFlags.days, "days", 0, "Comment recency window in days (default: WINDOW_DAYS or 7)")
    f.IntVar(&reportFlags.depth, "depth", 0, "Maximum hierarchy depth (default: MAX_DEPTH or 4)")
    f.DurationVar(&reportFlags.timeout, "timeout", 0, "Per-request HTTP timeout (default: HTTP_TIMEOUT or 20s)")
    f.StringVar(&reportFlags.format, "format", "text", "Output format: text or json")
}

func runReport(cmd *cobra.Command, args []string) error {
    cfg := config.Load()
    if reportFlags.depth > 0 { cfg.MaxDepth = reportFlags.depth }
    if reportFlags.timeout > 0 { cfg.HTTPTimeout = reportFlags.timeout }
    if err := cfg.Validate(); err != nil { return err }
    if reportFlags.format != "text" && reportFlags.format != "json" {
        return fmt.Errorf("unknown format %q (want text or json)", reportFlags.format)
    }
    log := logger.New(cfg)

    ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    jc := jira.NewClient(cfg, log)
    analyzer, err := newAnalyzer(cfg, log)
    if err != nil { return err }
    scorer := sentiment.NewScorer(analyzer, sentiment.Thresholds{Positive: cfg.PosThreshold, Negative: cfg.NegThreshold})
    days := reportFlags.days
    if days <= 0 { days = cfg.WindowDays }
    builder := report.New(scorer, days, log)
    svc := services.New(cfg, jc, builder, log)

    rep, err := svc.Run(ctx, args[0], days)
    if err != nil { return err }

    switch reportFlags.format {
    case "json":
        out, err := report.RenderJSON(rep)
        if err != nil { return err }
        fmt.Println(out)
    default:
        fmt.Print(report.RenderText(rep))
    }
    return nil
}

func newAnalyzer(cfg config.Config, log zerolog.Logger) (sentiment.Analyzer, error) {
    switch cfg.SentimentBackend {
    case "", "vader":
        return sentiment.NewVader(), nil
    case "openai":
        if cfg.OpenAIKey == "" { return nil, &config.MissingError{Keys: []string{"OPENAI_API_KEY"}} }
        return openai.NewClient(cfg, log), nil
    default:
        return nil, fmt.Errorf("unknown sentiment backend %q (want vader or openai)", cfg.SentimentBackend)
    }
}
