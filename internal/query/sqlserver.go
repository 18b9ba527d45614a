// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

package query

import (
	"context"
	"database/sql"

	"sqlrun/plugin/internal/dsn"

	_ "github.com/microsoft/go-mssqldb"
)

// SQLServerExecutor runs queries through the go-mssqldb driver.
//
// Certificate policy lives in the connection string: with trustservercertificate
// unset the TLS handshake rejects an unverifiable certificate and the
// failure surfaces as an ordinary connection error. There is no separate
// warning channel to suppress, so Options.EscalateWarnings has nothing
// extra to do here.
type SQLServerExecutor struct{}

// Execute opens a connection, runs sql, and buffers all rows.
func (e *SQLServerExecutor) Execute(ctx context.Context, conn dsn.ConnInfo, query string, _ Options) (*ResultSet, error) {
	connStr, err := dsn.NewSQLServerBuilder().Build(conn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	// Single-shot job: one connection, and connect failures surface
	// before the query starts.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &ResultSet{Columns: cols}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = normalizeValue(values[i])
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}
