package domain

import "time"

const (
    LabelPositive = "positive"
    LabelNeutral  = "neutral"
    LabelNegative = "negative"
)

// IssueRecord is one tracked work item as fetched from Jira.
// Never mutated after the fetch; one per issue per run.
type IssueRecord struct {
    Key            string
    Summary        string
    StatusName     string
    StatusCategory string
    Updated        *time.Time
    Priority       string
    Assignee       string
    Fields         map[string]any // raw field map kept for narrative extraction
}

// NarrativeBundle is the per-issue narrative text. Both fields are
// always plain strings; absent data normalizes to "".
type NarrativeBundle struct {
    StatusText   string
    CommentsText string
}

func (b NarrativeBundle) Empty() bool { return b.StatusText == "" && b.CommentsText == "" }

// SentimentResult is a pure function of a NarrativeBundle and a fixed scorer.
type SentimentResult struct {
    Compound     float64
    Label        string
    RiskFlag     bool
    PositiveFlag bool
}

// FieldValueKind tags the shape a Jira custom field value arrived in.
type FieldValueKind int

const (
    FieldAbsent FieldValueKind = iota
    FieldPlainText
    FieldStructured
)

// FieldValue normalizes the string-vs-object-with-value shapes Jira
// returns for custom fields; downstream code only ever branches on Text.
type FieldValue struct {
    Kind FieldValueKind
    Text string
}

func NormalizeFieldValue(v any) FieldValue {
    switch t := v.(type) {
    case string:
        return FieldValue{Kind: FieldPlainText, Text: t}
    case map[string]any:
        if s, ok := t["value"].(string); ok { return FieldValue{Kind: FieldStructured, Text: s} }
    }
    return FieldValue{Kind: FieldAbsent}
}

// ReportRow is the per-issue line of the final report.
type ReportRow struct {
    Key            string  `json:"key"`
    Summary        string  `json:"summary"`
    Status         string  `json:"status"`
    StatusCategory string  `json:"statusCategory"`
    Updated        string  `json:"updated"`
    Sentiment      string  `json:"sentiment"`
    Score          float64 `json:"sentiment_score"`
    HasNarrative   bool    `json:"has_recent_narrative"`
    RiskFlag       bool    `json:"risk_flag"`
    PositiveFlag   bool    `json:"positive_flag"`
    Skipped        string  `json:"skipped_reason,omitempty"`
}

// Report is the terminal artifact of a run.
type Report struct {
    RootKey       string
    WindowDays    int
    OverallLabel  string
    OverallAvg    float64
    Trend         string
    Counts        map[string]int
    RiskCount     int
    PositiveCount int
    RiskKeys      []string
    WatchItems    []string
    Rows          []ReportRow
}
