/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "errors"
    "fmt"
    "os"

    "github.com/joho/godotenv"
    "github.com/spf13/cobra"

    "github.com/ricardofgarcia/jisa/internal/adapters/jira"
    "github.com/ricardofgarcia/jisa/internal/collect"
    "github.com/ricardofgarcia/jisa/internal/config"
    "github.com/ricardofgarcia/jisa/internal/report"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
    Use:   "jisa",
    Short: "Sentiment and risk report for a Jira issue hierarchy",
    Long: "jisa walks the in-progress hierarchy under a Jira issue, scores the\n" +
        "recent status narratives and comments, and prints a sentiment report.",
    CompletionOptions: cobra.CompletionOptions{
        HiddenDefaultCmd: true,
    },
    SilenceUsage:  true,
    SilenceErrors: true,
}

func init() {
    rootCmd.AddCommand(reportCmd)
    rootCmd.AddCommand(serveCmd)
    rootCmd.Version = version
}

// Exit codes tell automation which stage failed: 2 config, 3 gather, 4 aggregate.
func exitCode(err error) int {
    var me *config.MissingError
    if errors.As(err, &me) { return 2 }
    var ae *jira.AuthError
    var pe *jira.PermissionError
    var re *jira.RequestError
    var ue *collect.UnresolvedFieldError
    if errors.As(err, &ae) || errors.As(err, &pe) || errors.As(err, &re) || errors.As(err, &ue) { return 3 }
    var be *report.BuildError
    if errors.As(err, &be) { return 4 }
    return 1
}

func main() {
    _ = godotenv.Load()
    if err := rootCmd.Execute(); err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(exitCode(err))
    }
}
