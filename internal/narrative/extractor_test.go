package narrative

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/rs/zerolog"
)

type fakeComments struct {
    comments []map[string]any
    err      error
}

func (f *fakeComments) Comments(context.Context, string, int) ([]map[string]any, error) {
    return f.comments, f.err
}

var now = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC) // window cutoff at Jan 8 with 7 days

func TestExtract_StatusFieldsConcatenated(t *testing.T) {
    e := New(&fakeComments{}, zerolog.Nop())
    raw := map[string]any{
        "customfield_20100": "On track overall.",
        "customfield_20101": map[string]any{"value": "Latest: QA started."},
    }
    res := e.Extract(context.Background(), "PROJ-1", raw, []string{"customfield_20100", "customfield_20101"}, 7, now)
    want := "On track overall.\nLatest: QA started."
    if res.Bundle.StatusText != want {
        t.Fatalf("StatusText = %q, want %q", res.Bundle.StatusText, want)
    }
}

func TestExtract_AbsentAndBlankFieldsDropped(t *testing.T) {
    e := New(&fakeComments{}, zerolog.Nop())
    raw := map[string]any{
        "customfield_20100": "   ",
        "customfield_20101": map[string]any{"other": "shape"},
    }
    res := e.Extract(context.Background(), "PROJ-1", raw, []string{"customfield_20100", "customfield_20101", "customfield_99999"}, 7, now)
    if res.Bundle.StatusText != "" {
        t.Fatalf("StatusText = %q, want empty", res.Bundle.StatusText)
    }
}

func TestExtract_CommentWindowIsInclusiveAtCutoff(t *testing.T) {
    fc := &fakeComments{comments: []map[string]any{
        {"body": "inside window", "created": "2025-01-08T00:00:01.000+0000"},
        {"body": "exactly at cutoff", "created": "2025-01-08T00:00:00.000+0000"},
        {"body": "just outside", "created": "2025-01-07T23:59:59.000+0000"},
    }}
    e := New(fc, zerolog.Nop())
    res := e.Extract(context.Background(), "PROJ-1", nil, nil, 7, now)
    want := "inside window\nexactly at cutoff"
    if res.Bundle.CommentsText != want {
        t.Fatalf("CommentsText = %q, want %q", res.Bundle.CommentsText, want)
    }
}

func TestExtract_NaiveTimestampTakenAsUTC(t *testing.T) {
    fc := &fakeComments{comments: []map[string]any{
        {"body": "naive but recent", "created": "2025-01-14T12:00:00"},
    }}
    e := New(fc, zerolog.Nop())
    res := e.Extract(context.Background(), "PROJ-1", nil, nil, 7, now)
    if res.Bundle.CommentsText != "naive but recent" {
        t.Fatalf("CommentsText = %q", res.Bundle.CommentsText)
    }
}

func TestExtract_UnparsableTimestampDropsComment(t *testing.T) {
    fc := &fakeComments{comments: []map[string]any{
        {"body": "bad stamp", "created": "yesterday-ish"},
        {"body": "no stamp"},
        {"body": "good", "created": "2025-01-14T09:30:00.000+0000"},
    }}
    e := New(fc, zerolog.Nop())
    res := e.Extract(context.Background(), "PROJ-1", nil, nil, 7, now)
    if res.Bundle.CommentsText != "good" {
        t.Fatalf("CommentsText = %q, want only the parsable comment", res.Bundle.CommentsText)
    }
}

func TestExtract_CommentFetchFailureKeepsStatusText(t *testing.T) {
    fc := &fakeComments{err: errors.New("503 from jira")}
    e := New(fc, zerolog.Nop())
    raw := map[string]any{"customfield_20100": "Still going."}
    res := e.Extract(context.Background(), "PROJ-1", raw, []string{"customfield_20100"}, 7, now)
    if res.Bundle.StatusText != "Still going." {
        t.Fatalf("StatusText = %q, want preserved", res.Bundle.StatusText)
    }
    if res.Skipped == "" { t.Fatal("expected a skip reason on comment fetch failure") }
    if res.Bundle.CommentsText != "" { t.Fatalf("CommentsText = %q, want empty", res.Bundle.CommentsText) }
}
