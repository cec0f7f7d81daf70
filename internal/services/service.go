/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "time"

    "github.com/rs/zerolog"

    "github.com/ricardofgarcia/jisa/internal/adapters/jira"
    "github.com/ricardofgarcia/jisa/internal/collect"
    "github.com/ricardofgarcia/jisa/internal/config"
    "github.com/ricardofgarcia/jisa/internal/domain"
    "github.com/ricardofgarcia/jisa/internal/fields"
    "github.com/ricardofgarcia/jisa/internal/narrative"
    "github.com/ricardofgarcia/jisa/internal/report"
)

// JiraClient is the full client surface the pipeline needs.
type JiraClient interface {
    FetchIssue(ctx context.Context, key string, fieldIDs []string) (map[string]any, error)
    Search(ctx context.Context, jql string, fieldIDs []string, limit int) ([]map[string]any, error)
    Comments(ctx context.Context, key string, limit int) ([]map[string]any, error)
    Fields(ctx context.Context) ([]jira.FieldDef, error)
}

// resolvedFields caches the per-instance custom field ids for the run.
type resolvedFields struct {
    narrative  []string
    parentLink string
    epicLink   string
    done       bool
}

// Service runs the whole pipeline: resolve fields, walk the hierarchy,
// extract narratives, score, aggregate.
type Service struct {
    cfg       config.Config
    jira      JiraClient
    collector *collect.Collector
    extractor *narrative.Extractor
    builder   *report.Builder
    log       zerolog.Logger

    rf  resolvedFields
    now func() time.Time
}

func New(cfg config.Config, jc JiraClient, builder *report.Builder, log zerolog.Logger) *Service {
    return &Service{
        cfg:       cfg,
        jira:      jc,
        collector: collect.New(jc, log),
        extractor: narrative.New(jc, log),
        builder:   builder,
        log:       log,
        now:       time.Now,
    }
}

var issueFields = []string{"summary", "status", "updated", "priority", "assignee"}

// Run produces the report for the hierarchy rooted at rootKey. days
// overrides the configured window when positive.
func (s *Service) Run(ctx context.Context, rootKey string, days int) (domain.Report, error) {
    if days <= 0 { days = s.cfg.WindowDays }
    if err := s.resolveFields(ctx); err != nil { return domain.Report{}, err }

    fetchFields := append(append([]string{}, issueFields...), s.rf.narrative...)
    rootRaw, err := s.jira.FetchIssue(ctx, rootKey, fetchFields)
    if err != nil { return domain.Report{}, err }
    root := recordFromIssue(rootKey, rootRaw)

    keys, err := s.collector.Collect(ctx, rootKey,
        collect.Relations{ParentLink: s.rf.parentLink, EpicLink: s.rf.epicLink},
        collect.Options{MaxDepth: s.cfg.MaxDepth, LinkedFallback: s.cfg.LinkedFallback})
    if err != nil { return domain.Report{}, err }
    s.log.Info().Str("root", rootKey).Int("issues", len(keys)).Msg("hierarchy collected")

    now := s.now()
    bundles := make(map[string]narrative.Result, len(keys))
    var related []domain.IssueRecord
    for _, key := range keys {
        var rec domain.IssueRecord
        if key == rootKey {
            rec = root
        } else {
            raw, err := s.jira.FetchIssue(ctx, key, fetchFields)
            if err != nil {
                s.log.Warn().Err(err).Str("key", key).Msg("issue fetch failed; keeping placeholder row")
                related = append(related, domain.IssueRecord{Key: key})
                bundles[key] = narrative.Result{Skipped: "issue fetch failed"}
                continue
            }
            rec = recordFromIssue(key, raw)
            related = append(related, rec)
        }
        bundles[key] = s.extractor.Extract(ctx, key, rec.Fields, s.rf.narrative, days, now)
    }
    return s.builder.Build(ctx, root, related, bundles)
}

// resolveFields maps human field names to customfield ids once per
// service lifetime. Explicit config overrides skip the catalog lookup.
func (s *Service) resolveFields(ctx context.Context) error {
    if s.rf.done { return nil }
    overridden := s.cfg.StatusSummaryFieldID != "" && s.cfg.ParentLinkFieldID != "" && s.cfg.EpicLinkFieldID != ""
    var defs []jira.FieldDef
    if !overridden {
        var err error
        defs, err = s.jira.Fields(ctx)
        if err != nil { return err }
    }
    if s.cfg.StatusSummaryFieldID != "" {
        s.rf.narrative = []string{s.cfg.StatusSummaryFieldID}
    } else {
        if id, ok := fields.Resolve(defs, "Status Summary"); ok { s.rf.narrative = append(s.rf.narrative, id) }
        if id, ok := fields.Resolve(defs, "Latest Status Summary"); ok && !contains(s.rf.narrative, id) {
            s.rf.narrative = append(s.rf.narrative, id)
        }
    }
    if s.cfg.ParentLinkFieldID != "" {
        s.rf.parentLink = s.cfg.ParentLinkFieldID
    } else if id, ok := fields.Resolve(defs, "Parent Link"); ok {
        s.rf.parentLink = id
    }
    if s.cfg.EpicLinkFieldID != "" {
        s.rf.epicLink = s.cfg.EpicLinkFieldID
    } else if id, ok := fields.Resolve(defs, "Epic Link"); ok {
        s.rf.epicLink = id
    }
    s.log.Debug().Strs("narrative", s.rf.narrative).Str("parent_link", s.rf.parentLink).Str("epic_link", s.rf.epicLink).Msg("fields resolved")
    s.rf.done = true
    return nil
}

func recordFromIssue(key string, raw map[string]any) domain.IssueRecord {
    rec := domain.IssueRecord{Key: key}
    fm, _ := raw["fields"].(map[string]any)
    if fm == nil { return rec }
    rec.Fields = fm
    rec.Summary = toStrAny(fm["summary"])
    if st, ok := fm["status"].(map[string]any); ok {
        rec.StatusName = toStrAny(st["name"])
        if sc, ok := st["statusCategory"].(map[string]any); ok { rec.StatusCategory = toStrAny(sc["name"]) }
    }
    if pr, ok := fm["priority"].(map[string]any); ok { rec.Priority = toStrAny(pr["name"]) }
    if as, ok := fm["assignee"].(map[string]any); ok {
        rec.Assignee = toStrAny(as["displayName"])
        if rec.Assignee == "" { rec.Assignee = toStrAny(as["name"]) }
    }
    if t, ok := parseTimeUTC(toStrAny(fm["updated"])); ok { rec.Updated = &t }
    return rec
}

func toStrAny(v any) string {
    s, _ := v.(string)
    return s
}

var updatedLayouts = []string{
    time.RFC3339Nano,
    time.RFC3339,
    "2006-01-02T15:04:05.000-0700",
    "2006-01-02T15:04:05-0700",
}

func parseTimeUTC(s string) (time.Time, bool) {
    if s == "" { return time.Time{}, false }
    for _, l := range updatedLayouts {
        if t, err := time.Parse(l, s); err == nil { return t.UTC(), true }
    }
    return time.Time{}, false
}

func contains(ss []string, s string) bool {
    for _, v := range ss {
        if v == s { return true }
    }
    return false
}
