package jobs

import (
    "context"
    "time"

    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"

    "github.com/ricardofgarcia/jisa/internal/config"
    "github.com/ricardofgarcia/jisa/internal/repo"
)

type Cron struct {
    cfg    config.Config
    log    zerolog.Logger
    digest *Digest
    repo   *repo.Repository
    c      *cron.Cron
}

func NewCron(cfg config.Config, log zerolog.Logger, d *Digest, r *repo.Repository) *Cron {
    loc, _ := time.LoadLocation(cfg.TZ)
    c := cron.New(cron.WithLocation(loc), cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)))
    cr := &Cron{cfg: cfg, log: log, digest: d, repo: r, c: c}
    _, _ = c.AddFunc(cfg.ReportCron, cr.scheduled)
    return cr
}

func (cr *Cron) Start(){ cr.c.Start() }
func (cr *Cron) Stop(){ cr.c.Stop() }

func (cr *Cron) scheduled(){
    if cr.cfg.ReportRootKey == "" { cr.log.Warn().Msg("cron: REPORT_ROOT_KEY not set; skipping"); return }
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute); defer cancel()
    const lockKey int64 = 424217
    if cr.repo != nil {
        ok, err := cr.repo.TryAdvisoryLock(ctx, lockKey)
        if err != nil { cr.log.Error().Err(err).Msg("cron: lock error"); return }
        if !ok { cr.log.Info().Msg("cron: already running elsewhere"); return }
        defer func(){ _ = cr.repo.AdvisoryUnlock(context.Background(), lockKey) }()
    }
    cr.log.Info().Str("root", cr.cfg.ReportRootKey).Msg("cron: scheduled report")
    if err := cr.digest.RunOnce(ctx, cr.cfg.ReportRootKey, cr.cfg.WindowDays); err != nil {
        cr.log.Error().Err(err).Msg("cron: report failed")
    }
}
