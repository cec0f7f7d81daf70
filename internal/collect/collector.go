/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package collect

import (
    "context"
    "fmt"
    "strings"

    "github.com/rs/zerolog"
)

// Searcher is the slice of the Jira client the collector needs.
type Searcher interface {
    Search(ctx context.Context, jql string, fields []string, limit int) ([]map[string]any, error)
}

// UnresolvedFieldError means no relationship field resolved and the
// linked-issues fallback is disabled: traversal cannot proceed.
type UnresolvedFieldError struct{ Names []string }

func (e *UnresolvedFieldError) Error() string {
    return fmt.Sprintf("no relationship field resolved (tried %s); cannot traverse hierarchy", strings.Join(e.Names, ", "))
}

// Relations holds the resolved relationship field ids. Either may be empty.
type Relations struct {
    ParentLink string
    EpicLink   string
}

type Options struct {
    StatusFilter   string // status category, default "In Progress"
    MaxDepth       int
    PageLimit      int // per-query result cap
    LinkedFallback bool
}

func (o Options) withDefaults() Options {
    if o.StatusFilter == "" { o.StatusFilter = "In Progress" }
    if o.MaxDepth <= 0 { o.MaxDepth = 4 }
    if o.PageLimit <= 0 { o.PageLimit = 200 }
    return o
}

type Collector struct {
    jira Searcher
    log  zerolog.Logger
}

func New(jira Searcher, log zerolog.Logger) *Collector {
    return &Collector{jira: jira, log: log}
}

// Collect discovers the in-progress issues related to rootKey. The root
// is always first in the result regardless of its own status. Strategy:
// a parent-link field implies a deep hierarchy and selects breadth-first
// traversal (epic links ride along in each frontier query); an epic link
// alone is a flat one-level relation answered by a single query; with
// neither resolved, a broader linkedIssues query is used as a
// lower-precision fallback when enabled.
func (c *Collector) Collect(ctx context.Context, rootKey string, rel Relations, opts Options) ([]string, error) {
    opts = opts.withDefaults()
    switch {
    case rel.ParentLink != "":
        return c.breadthFirst(ctx, rootKey, rel, opts)
    case rel.EpicLink != "":
        jql := fmt.Sprintf("(%s) AND %s", cfClause(rel.EpicLink, rootKey), statusClause(opts.StatusFilter))
        return c.direct(ctx, rootKey, jql, opts)
    case opts.LinkedFallback:
        c.log.Warn().Str("root", rootKey).Msg("no relationship field resolved; falling back to linkedIssues (may overmatch)")
        jql := fmt.Sprintf("issue in linkedIssues(%q) AND %s", rootKey, statusClause(opts.StatusFilter))
        return c.direct(ctx, rootKey, jql, opts)
    default:
        return nil, &UnresolvedFieldError{Names: []string{"Parent Link", "Epic Link"}}
    }
}

func (c *Collector) direct(ctx context.Context, rootKey, jql string, opts Options) ([]string, error) {
    issues, err := c.jira.Search(ctx, jql, []string{"key"}, opts.PageLimit)
    if err != nil { return nil, err }
    out := []string{rootKey}
    seen := map[string]struct{}{rootKey: {}}
    for _, im := range issues {
        key, _ := im["key"].(string)
        if key == "" { continue }
        if _, ok := seen[key]; ok { continue }
        seen[key] = struct{}{}
        out = append(out, key)
    }
    return out, nil
}

func (c *Collector) breadthFirst(ctx context.Context, rootKey string, rel Relations, opts Options) ([]string, error) {
    type item struct {
        key   string
        depth int
    }
    seen := map[string]struct{}{rootKey: {}}
    out := []string{rootKey}
    frontier := []item{{key: rootKey, depth: 0}}
    for len(frontier) > 0 {
        cur := frontier[0]
        frontier = frontier[1:]
        if cur.depth >= opts.MaxDepth { continue }
        clauses := []string{cfClause(rel.ParentLink, cur.key)}
        if rel.EpicLink != "" { clauses = append(clauses, cfClause(rel.EpicLink, cur.key)) }
        jql := fmt.Sprintf("(%s) AND %s", strings.Join(clauses, " OR "), statusClause(opts.StatusFilter))
        issues, err := c.jira.Search(ctx, jql, []string{"key"}, opts.PageLimit)
        if err != nil { return nil, err }
        for _, im := range issues {
            key, _ := im["key"].(string)
            if key == "" { continue }
            if _, ok := seen[key]; ok { continue }
            seen[key] = struct{}{}
            out = append(out, key)
            frontier = append(frontier, item{key: key, depth: cur.depth + 1})
        }
    }
    return out, nil
}

// cfClause renders a custom-field equality term; Jira's JQL addresses
// custom fields as cf[NNNNN].
func cfClause(fieldID, key string) string {
    n := strings.TrimPrefix(fieldID, "customfield_")
    return fmt.Sprintf("\"cf[%s]\" = %q", n, key)
}

func statusClause(filter string) string {
    return fmt.Sprintf("statusCategory in (%q)", filter)
}
