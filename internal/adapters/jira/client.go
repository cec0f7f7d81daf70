/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"

    "github.com/ricardofgarcia/jisa/internal/config"
    "github.com/rs/zerolog"
)

const (
    searchPageSize  = 50
    commentPageSize = 100
)

// AuthError is a 401 from Jira: the credentials themselves are wrong.
type AuthError struct{ Body string }

func (e *AuthError) Error() string {
    return "jira: unauthorized (401); check JIRA_EMAIL and JIRA_API_TOKEN"
}

// PermissionError is a 403: valid credentials, insufficient access.
type PermissionError struct{ Body string }

func (e *PermissionError) Error() string {
    return "jira: forbidden (403); check permissions and project access"
}

// RequestError covers every other non-2xx status and transport failures.
type RequestError struct {
    Status int
    Body   string
    Err    error
}

func (e *RequestError) Error() string {
    if e.Err != nil { return fmt.Sprintf("jira: request failed: %v", e.Err) }
    return fmt.Sprintf("jira: api status=%d body=%s", e.Status, e.Body)
}

func (e *RequestError) Unwrap() error { return e.Err }

type FieldDef struct {
    ID   string `json:"id"`
    Name string `json:"name"`
}

type Client struct {
    baseURL string
    email   string
    token   string
    apiVer  string
    http    *http.Client
    log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL: strings.TrimRight(cfg.JiraBaseURL, "/"),
        email:   cfg.JiraEmail,
        token:   cfg.JiraAPIToken,
        apiVer:  cfg.JiraAPIVersion,
        http:    &http.Client{ Timeout: cfg.HTTPTimeout },
        log:     log,
    }
}

func (c *Client) apiURL(path string, q url.Values) string {
    if !strings.HasPrefix(path, "/") { path = "/" + path }
    u := c.baseURL + "/rest/api/" + c.apiVer + path
    if len(q) > 0 { u = u + "?" + q.Encode() }
    return u
}

// doJSON issues a single request (no retries) and decodes the response
// into out. Non-2xx statuses map onto the error taxonomy above.
func (c *Client) doJSON(ctx context.Context, method, u string, body any, out any) error {
    if c.baseURL == "" { return &RequestError{Err: errors.New("empty base URL")} }
    var r io.Reader
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil { return &RequestError{Err: err} }
        r = strings.NewReader(string(b))
    }
    req, err := http.NewRequestWithContext(ctx, method, u, r)
    if err != nil { return &RequestError{Err: err} }
    req.Header.Set("Accept", "application/json")
    if body != nil { req.Header.Set("Content-Type", "application/json") }
    req.SetBasicAuth(c.email, c.token)
    resp, err := c.http.Do(req)
    if err != nil { return &RequestError{Err: err} }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(resp.Body)
        trimmed := strings.TrimSpace(string(b))
        switch resp.StatusCode {
        case http.StatusUnauthorized:
            return &AuthError{Body: trimmed}
        case http.StatusForbidden:
            return &PermissionError{Body: trimmed}
        default:
            return &RequestError{Status: resp.StatusCode, Body: trimmed}
        }
    }
    if out == nil { return nil }
    if err := json.NewDecoder(resp.Body).Decode(out); err != nil { return &RequestError{Err: err} }
    return nil
}

// FetchIssue returns the raw field map of a single issue, constrained
// to the requested field subset.
func (c *Client) FetchIssue(ctx context.Context, key string, fields []string) (map[string]any, error) {
    if key == "" { return nil, &RequestError{Err: errors.New("empty issue key")} }
    q := url.Values{}
    if len(fields) > 0 { q.Set("fields", strings.Join(fields, ",")) }
    u := c.apiURL("/issue/"+url.PathEscape(key), q)
    var out map[string]any
    if err := c.doJSON(ctx, http.MethodGet, u, nil, &out); err != nil { return nil, err }
    return out, nil
}

type searchPage struct {
    StartAt    int              `json:"startAt"`
    MaxResults int              `json:"maxResults"`
    Total      int              `json:"total"`
    Issues     []map[string]any `json:"issues"`
}

// Search runs a JQL query and paginates sequentially until limit
// results are collected or the service reports no more.
func (c *Client) Search(ctx context.Context, jql string, fields []string, limit int) ([]map[string]any, error) {
    if jql == "" { return nil, &RequestError{Err: errors.New("empty jql")} }
    if limit <= 0 { limit = searchPageSize }
    var results []map[string]any
    startAt := 0
    for {
        max := searchPageSize
        if rem := limit - len(results); rem < max { max = rem }
        if max <= 0 { break }
        var page searchPage
        if c.apiVer == "3" {
            body := map[string]any{"jql": jql, "startAt": startAt, "maxResults": max, "fields": fields}
            if err := c.doJSON(ctx, http.MethodPost, c.apiURL("/search", nil), body, &page); err != nil { return nil, err }
        } else {
            q := url.Values{}
            q.Set("jql", jql)
            q.Set("startAt", fmt.Sprint(startAt))
            q.Set("maxResults", fmt.Sprint(max))
            if len(fields) > 0 { q.Set("fields", strings.Join(fields, ",")) }
            if err := c.doJSON(ctx, http.MethodGet, c.apiURL("/search", q), nil, &page); err != nil { return nil, err }
        }
        results = append(results, page.Issues...)
        if len(page.Issues) == 0 || len(results) >= limit { break }
        startAt += len(page.Issues)
        if page.Total > 0 && startAt >= page.Total { break }
    }
    if len(results) > limit { results = results[:limit] }
    return results, nil
}

type commentPage struct {
    StartAt    int              `json:"startAt"`
    MaxResults int              `json:"maxResults"`
    Total      int              `json:"total"`
    Comments   []map[string]any `json:"comments"`
}

// Comments returns up to limit raw comments for an issue, paginating
// with a page size capped at 100 and stopping early on a short page.
func (c *Client) Comments(ctx context.Context, key string, limit int) ([]map[string]any, error) {
    if key == "" { return nil, &RequestError{Err: errors.New("empty issue key")} }
    if limit <= 0 { limit = commentPageSize }
    var results []map[string]any
    startAt := 0
    for {
        max := commentPageSize
        if rem := limit - len(results); rem < max { max = rem }
        if max <= 0 { break }
        q := url.Values{}
        q.Set("startAt", fmt.Sprint(startAt))
        q.Set("maxResults", fmt.Sprint(max))
        u := c.apiURL("/issue/"+url.PathEscape(key)+"/comment", q)
        var page commentPage
        if err := c.doJSON(ctx, http.MethodGet, u, nil, &page); err != nil { return nil, err }
        results = append(results, page.Comments...)
        if len(page.Comments) == 0 || len(page.Comments) < max { break }
        if len(results) >= limit { break }
        startAt += len(page.Comments)
        if page.Total > 0 && startAt >= page.Total { break }
    }
    if len(results) > limit { results = results[:limit] }
    return results, nil
}

// Fields lists the service's field definitions; callers cache per run.
func (c *Client) Fields(ctx context.Context) ([]FieldDef, error) {
    var out []FieldDef
    if err := c.doJSON(ctx, http.MethodGet, c.apiURL("/field", nil), nil, &out); err != nil { return nil, err }
    return out, nil
}
