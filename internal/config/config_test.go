package config

import (
    "errors"
    "strings"
    "testing"
)

func TestValidate_ReportsEveryMissingKey(t *testing.T) {
    err := Config{}.Validate()
    var me *MissingError
    if !errors.As(err, &me) { t.Fatalf("err = %v, want MissingError", err) }
    for _, k := range []string{"JIRA_BASE_URL", "JIRA_EMAIL", "JIRA_API_TOKEN"} {
        if !strings.Contains(err.Error(), k) { t.Errorf("error %q missing %s", err, k) }
    }
}

func TestValidate_CompleteConfigPasses(t *testing.T) {
    cfg := Config{JiraBaseURL: "https://jira.example.com", JiraEmail: "bot@example.com", JiraAPIToken: "t"}
    if err := cfg.Validate(); err != nil { t.Fatal(err) }
}

func TestLoad_Defaults(t *testing.T) {
    cfg := Load()
    if cfg.WindowDays != 7 { t.Errorf("WindowDays = %d, want 7", cfg.WindowDays) }
    if cfg.MaxDepth != 4 { t.Errorf("MaxDepth = %d, want 4", cfg.MaxDepth) }
    if !cfg.LinkedFallback { t.Error("LinkedFallback should default on") }
    if cfg.PosThreshold != 0.05 || cfg.NegThreshold != -0.05 {
        t.Errorf("thresholds = %v/%v, want 0.05/-0.05", cfg.PosThreshold, cfg.NegThreshold)
    }
    if cfg.JiraAPIVersion != "2" { t.Errorf("JiraAPIVersion = %q, want 2", cfg.JiraAPIVersion) }
}
