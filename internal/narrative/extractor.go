/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package narrative

import (
    "context"
    "strings"
    "time"

    "github.com/rs/zerolog"

    "github.com/ricardofgarcia/jisa/internal/domain"
)

// CommentLister is the slice of the Jira client the extractor needs.
type CommentLister interface {
    Comments(ctx context.Context, key string, limit int) ([]map[string]any, error)
}

// commentCap bounds how many comments are pulled per issue before the
// recency window is even applied.
const commentCap = 200

// Result pairs the extracted narrative with an optional skip reason for
// the report row.
type Result struct {
    Bundle  domain.NarrativeBundle
    Skipped string
}

type Extractor struct {
    jira CommentLister
    log  zerolog.Logger
}

func New(jira CommentLister, log zerolog.Logger) *Extractor {
    return &Extractor{jira: jira, log: log}
}

// Extract pulls the status narrative fields out of rawFields and the
// recent comment bodies for key. Comment retrieval failures degrade the
// result rather than failing the run: the status text survives and the
// row is marked.
func (e *Extractor) Extract(ctx context.Context, key string, rawFields map[string]any, narrativeFieldIDs []string, windowDays int, now time.Time) Result {
    var res Result
    var parts []string
    for _, id := range narrativeFieldIDs {
        fv := domain.NormalizeFieldValue(rawFields[id])
        if fv.Kind == domain.FieldAbsent { continue }
        if t := strings.TrimSpace(fv.Text); t != "" { parts = append(parts, t) }
    }
    res.Bundle.StatusText = strings.Join(parts, "\n")

    comments, err := e.jira.Comments(ctx, key, commentCap)
    if err != nil {
        e.log.Warn().Err(err).Str("key", key).Msg("comment fetch failed; scoring status text only")
        res.Skipped = "comments unavailable"
        return res
    }
    cutoff := now.Add(-time.Duration(windowDays) * 24 * time.Hour)
    var bodies []string
    for _, cm := range comments {
        body, _ := cm["body"].(string)
        if strings.TrimSpace(body) == "" { continue }
        createdRaw, _ := cm["created"].(string)
        created, ok := parseTime(createdRaw)
        if !ok {
            e.log.Debug().Str("key", key).Str("created", createdRaw).Msg("unparsable comment timestamp; dropping")
            continue
        }
        if created.Before(cutoff) { continue }
        bodies = append(bodies, strings.TrimSpace(body))
    }
    res.Bundle.CommentsText = strings.Join(bodies, "\n")
    return res
}

var timeLayouts = []string{
    time.RFC3339Nano,
    time.RFC3339,
    "2006-01-02T15:04:05.000-0700",
    "2006-01-02T15:04:05-0700",
}

var naiveLayouts = []string{
    "2006-01-02T15:04:05.000",
    "2006-01-02T15:04:05",
}

// parseTime accepts the timestamp shapes Jira deployments emit; naive
// stamps are taken as UTC.
func parseTime(s string) (time.Time, bool) {
    s = strings.TrimSpace(s)
    if s == "" { return time.Time{}, false }
    for _, l := range timeLayouts {
        if t, err := time.Parse(l, s); err == nil { return t.UTC(), true }
    }
    for _, l := range naiveLayouts {
        if t, err := time.ParseInLocation(l, s, time.UTC); err == nil { return t, true }
    }
    return time.Time{}, false
}
