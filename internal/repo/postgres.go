/* Copyright (c) 2025 Ricardo F. Garcia
 * SPDX-License-Identifier: BSD-3-Clause */
package repo

import (
    "context"
    "errors"
    "time"

    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/rs/zerolog"

    "github.com/ricardofgarcia/jisa/internal/config"
)

type DB struct {
    Pool *pgxpool.Pool
    log  zerolog.Logger
}

func MustOpen(ctx context.Context, cfg config.Config, log zerolog.Logger) *DB {
    pool, err := pgxpool.New(ctx, cfg.DBDSN)
    if err != nil { log.Fatal().Err(err).Msg("db connect failed") }
    ctx2, cancel := context.WithTimeout(ctx, 10*time.Second); defer cancel()
    if err := pool.Ping(ctx2); err != nil { log.Fatal().Err(err).Msg("db ping failed") }
    return &DB{Pool: pool, log: log}
}

func (d *DB) Close() { d.Pool.Close() }

type Repository struct {
    db  *DB
    log zerolog.Logger
}

func NewRepository(d *DB, log zerolog.Logger) *Repository { return &Repository{db: d, log: log} }

func (r *Repository) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok)
    return ok, err
}

func (r *Repository) AdvisoryUnlock(ctx context.Context, key int64) error {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&ok)
    if !ok && err == nil { return errors.New("advisory unlock returned false") }
    return err
}

// Run bookkeeping

func (r *Repository) StartRun(ctx context.Context, rootKey string) (int64, error) {
    const q = `INSERT INTO report_runs(started_at, root_key, success) VALUES(now(), $1, false) RETURNING id`
    var id int64
    if err := r.db.Pool.QueryRow(ctx, q, rootKey).Scan(&id); err != nil { return 0, err }
    return id, nil
}

func (r *Repository) FinishRun(ctx context.Context, id int64, issues int, overall string, success bool, errStr string) error {
    const q = `UPDATE report_runs SET finished_at=now(), issues=$2, overall=$3, success=$4, error=$5 WHERE id=$1`
    _, err := r.db.Pool.Exec(ctx, q, id, issues, overall, success, errStr)
    return err
}

type RunRecord struct {
    StartedAt  time.Time  `json:"started_at"`
    FinishedAt *time.Time `json:"finished_at"`
    RootKey    string     `json:"root_key"`
    Issues     int        `json:"issues"`
    Overall    string     `json:"overall"`
    Success    bool       `json:"success"`
    Error      string     `json:"error"`
}

func (r *Repository) LastRun(ctx context.Context) (*RunRecord, error) {
    const q = `SELECT started_at, finished_at, root_key,
        coalesce(issues,0), coalesce(overall,''), coalesce(success,false), coalesce(error,'')
        FROM report_runs ORDER BY id DESC LIMIT 1`
    row := r.db.Pool.QueryRow(ctx, q)
    rr := &RunRecord{}
    if err := row.Scan(&rr.StartedAt, &rr.FinishedAt, &rr.RootKey, &rr.Issues, &rr.Overall, &rr.Success, &rr.Error); err != nil {
        return nil, err
    }
    return rr, nil
}
