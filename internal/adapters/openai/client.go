/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package openai

import (
    "context"
    "encoding/json"
    "errors"
    "strings"

    openai "github.com/openai/openai-go/v2"
    "github.com/openai/openai-go/v2/option"
    "github.com/openai/openai-go/v2/shared"
    "github.com/ricardofgarcia/jisa/internal/config"
    "github.com/ricardofgarcia/jisa/internal/sentiment"
    "github.com/rs/zerolog"
)

// Client is an LLM-backed sentiment.Analyzer, selected with
// SENTIMENT_BACKEND=openai. Unlike the lexicon backend its scores are
// not strictly deterministic; prefer the default for reproducible runs.
type Client struct {
    key   string
    model string
    cli   openai.Client
    log   zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    model := cfg.OpenAIModel
    if strings.TrimSpace(model) == "" { model = "gpt-4.1-mini" }
    cli := openai.NewClient(option.WithAPIKey(cfg.OpenAIKey))
    return &Client{ key: cfg.OpenAIKey, model: model, cli: cli, log: log }
}

const systemPrompt = "You are a sentiment rater for project-status text. " +
    "Score the user's text and return ONLY a JSON object with keys " +
    "negative, neutral, positive (each in [0,1]) and compound (in [-1,1], " +
    "negative values for negative tone)."

func (c *Client) PolarityScores(ctx context.Context, text string) (sentiment.Scores, error) {
    if strings.TrimSpace(c.key) == "" { return sentiment.Scores{}, errors.New("openai: missing key") }
    params := openai.ChatCompletionNewParams{
        Model: shared.ChatModel(c.model),
        Messages: []openai.ChatCompletionMessageParamUnion{
            openai.SystemMessage(systemPrompt),
            openai.UserMessage(text),
        },
    }
    resp, err := c.cli.Chat.Completions.New(ctx, params)
    if err != nil { return sentiment.Scores{}, err }
    if len(resp.Choices) == 0 { return sentiment.Scores{}, errors.New("openai: no choices") }
    var s sentiment.Scores
    if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &s); err != nil {
        return sentiment.Scores{}, err
    }
    if s.Compound > 1 { s.Compound = 1 }
    if s.Compound < -1 { s.Compound = -1 }
    return s, nil
}
