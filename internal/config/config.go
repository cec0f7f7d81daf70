/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"
)

type Config struct {
    AppEnv   string
    HTTPAddr string

    DBDSN string

    JiraBaseURL    string
    JiraEmail      string
    JiraAPIToken   string
    JiraAPIVersion string

    // Explicit field-id overrides; when set the field resolver is bypassed.
    StatusSummaryFieldID string
    ParentLinkFieldID    string
    EpicLinkFieldID      string

    HTTPTimeout    time.Duration
    WindowDays     int
    MaxDepth       int
    LinkedFallback bool

    SentimentBackend string
    PosThreshold     float64
    NegThreshold     float64

    OpenAIKey     string
    OpenAIModel   string
    OpenAITimeout time.Duration

    TZ            string
    ReportCron    string
    ReportRootKey string

    TelegramToken   string
    TelegramChatIDs []int64
}

func getenv(key, def string) string {
    v := os.Getenv(key)
    if v == "" { return def }
    return v
}

func atoi(key string, def int) int {
    v := os.Getenv(key)
    if v == "" { return def }
    i, err := strconv.Atoi(v)
    if err != nil { return def }
    return i
}

func dur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" { return def }
    d, err := time.ParseDuration(v)
    if err != nil { return def }
    return d
}

func atof(key string, def float64) float64 {
    v := os.Getenv(key)
    if v == "" { return def }
    f, err := strconv.ParseFloat(v, 64)
    if err != nil { return def }
    return f
}

func abool(key string, def bool) bool {
    v := strings.TrimSpace(os.Getenv(key))
    if v == "" { return def }
    b, err := strconv.ParseBool(v)
    if err != nil { return def }
    return b
}

func parseInt64s(csv string) []int64 {
    if csv == "" { return nil }
    parts := strings.Split(csv, ",")
    out := make([]int64, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p == "" { continue }
        n, err := strconv.ParseInt(p, 10, 64)
        if err == nil { out = append(out, n) }
    }
    return out
}

func Load() Config {
    return Config{
        AppEnv:   getenv("APP_ENV", "dev"),
        HTTPAddr: getenv("HTTP_ADDR", ":8080"),

        DBDSN: getenv("DB_DSN", ""),

        JiraBaseURL:    strings.TrimSpace(getenv("JIRA_BASE_URL", "")),
        JiraEmail:      strings.TrimSpace(getenv("JIRA_EMAIL", "")),
        JiraAPIToken:   strings.TrimSpace(getenv("JIRA_API_TOKEN", getenv("JIRA_PASSWORD", ""))),
        JiraAPIVersion: getenv("JIRA_API_VERSION", "2"),

        StatusSummaryFieldID: getenv("JIRA_STATUS_SUMMARY_FIELD_ID", ""),
        ParentLinkFieldID:    getenv("JIRA_PARENT_LINK_FIELD_ID", ""),
        EpicLinkFieldID:      getenv("JIRA_EPIC_LINK_FIELD_ID", ""),

        HTTPTimeout:    dur("HTTP_TIMEOUT", 20*time.Second),
        WindowDays:     atoi("WINDOW_DAYS", 7),
        MaxDepth:       atoi("MAX_DEPTH", 4),
        LinkedFallback: abool("LINKED_ISSUES_FALLBACK", true),

        SentimentBackend: getenv("SENTIMENT_BACKEND", "vader"),
        PosThreshold:     atof("SENTIMENT_POS_THRESHOLD", 0.05),
        NegThreshold:     atof("SENTIMENT_NEG_THRESHOLD", -0.05),

        OpenAIKey:     getenv("OPENAI_API_KEY", ""),
        OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4.1-mini"),
        OpenAITimeout: dur("OPENAI_TIMEOUT", 15*time.Second),

        TZ:            getenv("TZ", "UTC"),
        ReportCron:    getenv("REPORT_CRON", "0 9 * * MON"),
        ReportRootKey: getenv("REPORT_ROOT_KEY", ""),

        TelegramToken:   getenv("TELEGRAM_BOT_TOKEN", ""),
        TelegramChatIDs: parseInt64s(getenv("TELEGRAM_CHAT_IDS", "")),
    }
}

// MissingError reports required configuration keys that were not set.
type MissingError struct{ Keys []string }

func (e *MissingError) Error() string {
    return fmt.Sprintf("missing required config: set %s", strings.Join(e.Keys, ", "))
}

// Validate checks the keys every mode needs before any network call is made.
func (c Config) Validate() error {
    var missing []string
    if c.JiraBaseURL == "" { missing = append(missing, "JIRA_BASE_URL") }
    if c.JiraEmail == "" { missing = append(missing, "JIRA_EMAIL") }
    if c.JiraAPIToken == "" { missing = append(missing, "JIRA_API_TOKEN") }
    if len(missing) > 0 { return &MissingError{Keys: missing} }
    return nil
}
