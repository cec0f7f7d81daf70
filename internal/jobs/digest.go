/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package jobs

import (
    "context"

    "github.com/rs/zerolog"

    "github.com/ricardofgarcia/jisa/internal/config"
    "github.com/ricardofgarcia/jisa/internal/domain"
    "github.com/ricardofgarcia/jisa/internal/report"
    "github.com/ricardofgarcia/jisa/internal/repo"
)

type reporter interface {
    Run(ctx context.Context, rootKey string, days int) (domain.Report, error)
}

type sender interface {
    SendMessage(ctx context.Context, chatID int64, text string) error
}

// Digest runs the report pipeline on a schedule or on demand, records
// the run, and optionally delivers the rendered text to chat channels.
type Digest struct {
    cfg  config.Config
    log  zerolog.Logger
    svc  reporter
    repo *repo.Repository
    tg   sender
}

func NewDigest(cfg config.Config, log zerolog.Logger, svc reporter, r *repo.Repository, tg sender) *Digest {
    return &Digest{cfg: cfg, log: log, svc: svc, repo: r, tg: tg}
}

func (d *Digest) RunOnce(ctx context.Context, rootKey string, days int) error {
    var runID int64
    if d.repo != nil {
        id, err := d.repo.StartRun(ctx, rootKey)
        if err != nil { d.log.Warn().Err(err).Msg("run record insert failed") } else { runID = id }
    }
    rep, err := d.svc.Run(ctx, rootKey, days)
    if d.repo != nil && runID != 0 {
        errStr := ""
        if err != nil { errStr = err.Error() }
        if ferr := d.repo.FinishRun(context.Background(), runID, len(rep.Rows), rep.OverallLabel, err == nil, errStr); ferr != nil {
            d.log.Warn().Err(ferr).Msg("run record update failed")
        }
    }
    if err != nil { return err }
    d.log.Info().Str("root", rootKey).Str("overall", rep.OverallLabel).Int("issues", len(rep.Rows)).Msg("digest built")
    d.deliver(ctx, report.RenderText(rep))
    return nil
}

func (d *Digest) LastRun(ctx context.Context) (any, error) {
    if d.repo == nil { return map[string]any{"error": "no database configured"}, nil }
    return d.repo.LastRun(ctx)
}

func (d *Digest) deliver(ctx context.Context, text string) {
    if d.tg == nil || len(d.cfg.TelegramChatIDs) == 0 { return }
    for _, chatID := range d.cfg.TelegramChatIDs {
        for _, chunk := range chunkText(text, 3500) {
            if err := d.tg.SendMessage(ctx, chatID, chunk); err != nil {
                d.log.Warn().Err(err).Int64("chat", chatID).Msg("telegram send failed")
            }
        }
    }
}

// chunkText splits on line boundaries to stay under Telegram's message cap.
func chunkText(s string, max int) []string {
    if len(s) <= max { return []string{s} }
    var out []string
    for len(s) > max {
        cut := max
        for cut > 0 && s[cut-1] != '\n' { cut-- }
        if cut == 0 { cut = max }
        out = append(out, s[:cut])
        s = s[cut:]
    }
    if len(s) > 0 { out = append(out, s) }
    return out
}
