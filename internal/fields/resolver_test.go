package fields

import (
    "testing"

    "github.com/ricardofgarcia/jisa/internal/adapters/jira"
)

var defs = []jira.FieldDef{
    {ID: "summary", Name: "Summary"},
    {ID: "customfield_10014", Name: "Epic Link"},
    {ID: "customfield_10018", Name: "Parent Link"},
    {ID: "customfield_20100", Name: "Status Summary"},
    {ID: "customfield_20101", Name: "Latest Status Summary (rollup)"},
}

func TestResolve_ExactMatchWinsOverContainment(t *testing.T) {
    id, ok := Resolve(defs, "status summary")
    if !ok || id != "customfield_20100" {
        t.Fatalf("Resolve = (%q, %v), want customfield_20100", id, ok)
    }
}

func TestResolve_FallsBackToContainment(t *testing.T) {
    id, ok := Resolve(defs, "Latest Status Summary")
    if !ok || id != "customfield_20101" {
        t.Fatalf("Resolve = (%q, %v), want customfield_20101", id, ok)
    }
}

func TestResolve_CandidateOrder(t *testing.T) {
    id, ok := Resolve(defs, "No Such Field", "Epic Link")
    if !ok || id != "customfield_10014" {
        t.Fatalf("Resolve = (%q, %v), want customfield_10014", id, ok)
    }
}

func TestResolve_AbsentIsNotAnError(t *testing.T) {
    id, ok := Resolve(defs, "Portfolio Link")
    if ok || id != "" {
        t.Fatalf("Resolve = (%q, %v), want (\"\", false)", id, ok)
    }
}

func TestResolve_EmptyCatalog(t *testing.T) {
    if id, ok := Resolve(nil, "Epic Link"); ok || id != "" {
        t.Fatalf("Resolve on empty catalog = (%q, %v)", id, ok)
    }
}
