/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "context"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/spf13/cobra"

    "github.com/ricardofgarcia/jisa/internal/adapters/jira"
    "github.com/ricardofgarcia/jisa/internal/adapters/telegram"
    "github.com/ricardofgarcia/jisa/internal/config"
    httpapi "github.com/ricardofgarcia/jisa/internal/http"
    "github.com/ricardofgarcia/jisa/internal/jobs"
    "github.com/ricardofgarcia/jisa/internal/logger"
    "github.com/ricardofgarcia/jisa/internal/report"
    "github.com/ricardofgarcia/jisa/internal/repo"
    "github.com/ricardofgarcia/jisa/internal/sentiment"
    "github.com/ricardofgarcia/jisa/internal/services"
)

var serveCmd = &cobra.Command{
    Use:   "serve",
    Short: "Run the report service with HTTP admin endpoints and a schedule",
    Long: `Start an HTTP server with /healthz, /admin/last-run and /admin/run,
plus a cron schedule (REPORT_CRON) that builds the report for
REPORT_ROOT_KEY and optionally delivers it to Telegram chats.

Run history is recorded in Postgres when DB_DSN is set.`,
    Args: cobra.NoArgs,
    RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
    cfg := config.Load()
    if err := cfg.Validate(); err != nil { return err }
    log := logger.New(cfg)

    ctx, cancel := context.WithCancel(cmd.Context())
    defer cancel()

    var repository *repo.Repository
    if cfg.DBDSN != "" {
        db := repo.MustOpen(ctx, cfg, log)
        defer db.Close()
        repository = repo.NewRepository(db, log)
    } else {
        log.Warn().Msg("DB_DSN not set; run history disabled")
    }

    jc := jira.NewClient(cfg, log)
    analyzer, err := newAnalyzer(cfg, log)
    if err != nil { return err }
    scorer := sentiment.NewScorer(analyzer, sentiment.Thresholds{Positive: cfg.PosThreshold, Negative: cfg.NegThreshold})
    builder := report.New(scorer, cfg.WindowDays, log)
    svc := services.New(cfg, jc, builder, log)

    digest := jobs.NewDigest(cfg, log, svc, repository, nil)
    if cfg.TelegramToken != "" {
        digest = jobs.NewDigest(cfg, log, svc, repository, telegram.NewClient(cfg, log))
    }

    cron := jobs.NewCron(cfg, log, digest, repository)
    cron.Start()
    defer cron.Stop()

    router := httpapi.NewRouter(cfg, log, digest)

    errCh := make(chan error, 1)
    go func() { errCh <- router.Run(cfg.HTTPAddr) }()
    log.Info().Str("addr", cfg.HTTPAddr).Str("cron", cfg.ReportCron).Msg("serving")

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case <-sigCh:
        log.Info().Msg("shutting down...")
    case err := <-errCh:
        if err != nil { log.Error().Err(err).Msg("http server error"); return err }
    }

    time.Sleep(500 * time.Millisecond)
    return nil
}
