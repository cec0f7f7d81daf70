package jira

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "net/http/httptest"
    "strconv"
    "testing"
    "time"

    "github.com/rs/zerolog"

    "github.com/ricardofgarcia/jisa/internal/config"
)

func testClient(srv *httptest.Server) *Client {
    cfg := config.Config{
        JiraBaseURL:    srv.URL,
        JiraEmail:      "bot@example.com",
        JiraAPIToken:   "token",
        JiraAPIVersion: "2",
        HTTPTimeout:    5 * time.Second,
    }
    return NewClient(cfg, zerolog.Nop())
}

func TestFetchIssue_ProjectsFieldsAndAuth(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/rest/api/2/issue/PROJ-1" {
            t.Errorf("path = %q", r.URL.Path)
        }
        if got := r.URL.Query().Get("fields"); got != "summary,status" {
            t.Errorf("fields param = %q", got)
        }
        if user, pass, ok := r.BasicAuth(); !ok || user != "bot@example.com" || pass != "token" {
            t.Errorf("basic auth = %q %q %v", user, pass, ok)
        }
        _ = json.NewEncoder(w).Encode(map[string]any{
            "key":    "PROJ-1",
            "fields": map[string]any{"summary": "A summary"},
        })
    }))
    defer srv.Close()

    out, err := testClient(srv).FetchIssue(context.Background(), "PROJ-1", []string{"summary", "status"})
    if err != nil { t.Fatal(err) }
    fields, _ := out["fields"].(map[string]any)
    if fields["summary"] != "A summary" { t.Fatalf("unexpected payload: %#v", out) }
}

func TestSearch_PaginatesUntilTotal(t *testing.T) {
    var calls int
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        calls++
        startAt := r.URL.Query().Get("startAt")
        startAtN, _ := strconv.Atoi(startAt)
        page := map[string]any{"total": 70, "startAt": startAtN}
        if startAt == "0" {
            issues := make([]map[string]any, 50)
            for i := range issues { issues[i] = map[string]any{"key": fmt.Sprintf("PROJ-%d", i+1)} }
            page["issues"] = issues
        } else {
            issues := make([]map[string]any, 20)
            for i := range issues { issues[i] = map[string]any{"key": fmt.Sprintf("PROJ-%d", 51+i)} }
            page["issues"] = issues
        }
        _ = json.NewEncoder(w).Encode(page)
    }))
    defer srv.Close()

    got, err := testClient(srv).Search(context.Background(), `project = PROJ`, []string{"key"}, 200)
    if err != nil { t.Fatal(err) }
    if len(got) != 70 { t.Fatalf("got %d issues, want 70", len(got)) }
    if calls != 2 { t.Fatalf("made %d requests, want 2", calls) }
}

func TestSearch_RespectsLimit(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if got := r.URL.Query().Get("maxResults"); got != "10" {
            t.Errorf("maxResults = %q, want 10", got)
        }
        issues := make([]map[string]any, 10)
        for i := range issues { issues[i] = map[string]any{"key": fmt.Sprintf("PROJ-%d", i+1)} }
        _ = json.NewEncoder(w).Encode(map[string]any{"total": 500, "issues": issues})
    }))
    defer srv.Close()

    got, err := testClient(srv).Search(context.Background(), `project = PROJ`, nil, 10)
    if err != nil { t.Fatal(err) }
    if len(got) != 10 { t.Fatalf("got %d issues, want 10", len(got)) }
}

func TestComments_StopsOnShortPage(t *testing.T) {
    var calls int
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        calls++
        _ = json.NewEncoder(w).Encode(map[string]any{
            "total":    3,
            "comments": []map[string]any{{"body": "a"}, {"body": "b"}, {"body": "c"}},
        })
    }))
    defer srv.Close()

    got, err := testClient(srv).Comments(context.Background(), "PROJ-1", 200)
    if err != nil { t.Fatal(err) }
    if len(got) != 3 { t.Fatalf("got %d comments, want 3", len(got)) }
    if calls != 1 { t.Fatalf("made %d requests, want 1", calls) }
}

func TestErrorTaxonomy(t *testing.T) {
    cases := []struct {
        status int
        check  func(error) bool
    }{
        {http.StatusUnauthorized, func(err error) bool { var e *AuthError; return errors.As(err, &e) }},
        {http.StatusForbidden, func(err error) bool { var e *PermissionError; return errors.As(err, &e) }},
        {http.StatusInternalServerError, func(err error) bool {
            var e *RequestError
            return errors.As(err, &e) && e.Status == http.StatusInternalServerError
        }},
    }
    for _, c := range cases {
        srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
            w.WriteHeader(c.status)
            _, _ = w.Write([]byte(`{"errorMessages":["nope"]}`))
        }))
        _, err := testClient(srv).FetchIssue(context.Background(), "PROJ-1", nil)
        srv.Close()
        if err == nil || !c.check(err) {
            t.Errorf("status %d: err = %v, wrong type", c.status, err)
        }
    }
}

func TestFields_DecodesCatalog(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/rest/api/2/field" { t.Errorf("path = %q", r.URL.Path) }
        _, _ = w.Write([]byte(`[{"id":"customfield_10014","name":"Epic Link"},{"id":"summary","name":"Summary"}]`))
    }))
    defer srv.Close()

    defs, err := testClient(srv).Fields(context.Background())
    if err != nil { t.Fatal(err) }
    if len(defs) != 2 || defs[0].ID != "customfield_10014" || defs[0].Name != "Epic Link" {
        t.Fatalf("defs = %#v", defs)
    }
}
