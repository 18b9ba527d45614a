// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

package query

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"sqlrun/plugin/internal/dsn"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresExecutor runs queries through a pgx connection pool.
//
// Postgres reports non-fatal conditions as notices on a side channel.
// With Options.EscalateWarnings set, any WARNING-level notice received
// during the run fails the query instead of being logged and forgotten.
type PostgresExecutor struct{}

// Execute opens a pool, runs sql, and buffers all rows.
func (e *PostgresExecutor) Execute(ctx context.Context, conn dsn.ConnInfo, query string, opts Options) (*ResultSet, error) {
	connStr, err := dsn.NewPostgresBuilder().Build(conn)
	if err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 1

	var mu sync.Mutex
	var warnings []string
	cfg.ConnConfig.OnNotice = func(_ *pgconn.PgConn, n *pgconn.Notice) {
		if n == nil || n.Severity != "WARNING" {
			return
		}
		mu.Lock()
		warnings = append(warnings, n.Message)
		mu.Unlock()
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	pc, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer pc.Release()

	rows, err := pc.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = string(fd.Name)
	}

	rs := &ResultSet{Columns: cols}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = normalizeValue(vals[i])
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	if opts.EscalateWarnings && len(warnings) > 0 {
		return nil, fmt.Errorf("server reported warnings: %s", strings.Join(warnings, "; "))
	}
	return rs, nil
}
