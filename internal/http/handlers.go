/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "net/http"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"

    "github.com/ricardofgarcia/jisa/internal/config"
)

type runner interface {
    RunOnce(ctx context.Context, rootKey string, days int) error
    LastRun(ctx context.Context) (any, error)
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    job runner
}

func NewHandlers(cfg config.Config, log zerolog.Logger, job runner) *Handlers {
    return &Handlers{cfg: cfg, log: log, job: job}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) LastRun(c *gin.Context) {
    lr, err := h.job.LastRun(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, lr)
}

func (h *Handlers) RunNow(c *gin.Context) {
    root := c.Query("root")
    if root == "" { root = h.cfg.ReportRootKey }
    if root == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "no root key: pass ?root= or set REPORT_ROOT_KEY"})
        return
    }
    days := h.cfg.WindowDays
    // Run in background detached from the HTTP request to avoid context cancellation
    go func(){ _ = h.job.RunOnce(context.Background(), root, days) }()
    c.JSON(http.StatusAccepted, gin.H{"status": "queued", "root": root})
}
