package logger

import (
    "os"
    "time"

    "github.com/ricardofgarcia/jisa/internal/config"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

// New builds the process logger. Logs go to stderr so the rendered
// report owns stdout in CLI mode.
func New(cfg config.Config) zerolog.Logger {
    if cfg.AppEnv == "dev" {
        output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
        logger := zerolog.New(output).With().Timestamp().Logger()
        log.Logger = logger
        return logger
    }
    zerolog.TimeFieldFormat = time.RFC3339
    logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
    log.Logger = logger
    return logger
}
