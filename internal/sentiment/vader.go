package sentiment

import (
    "context"

    "github.com/jonreiter/govader"
)

// Vader is the default Analyzer, backed by the VADER lexicon.
type Vader struct {
    analyzer *govader.SentimentIntensityAnalyzer
}

func NewVader() *Vader {
    return &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *Vader) PolarityScores(_ context.Context, text string) (Scores, error) {
    s := v.analyzer.PolarityScores(text)
    return Scores{
        Negative: s.Negative,
        Neutral:  s.Neutral,
        Positive: s.Positive,
        Compound: s.Compound,
    }, nil
}
