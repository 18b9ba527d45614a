// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package query abstracts SQL execution behind a small capability
// interface so the job runner's control flow, error-code mapping, and
// tests stay independent of the database client library linked in.
// Implementations connect, run exactly one statement, and buffer the full
// result set before returning; there is no streaming and no retry.
package query

import (
	"context"

	"sqlrun/plugin/internal/dsn"
)

// Options control execution policy for a single run.
type Options struct {
	// EscalateWarnings promotes non-fatal driver notices to hard errors.
	// The runner derives it from the trust-certificate flag: an untrusted
	// connection must not paper over transport warnings.
	EscalateWarnings bool
}

// Row is one result row keyed by column name.
type Row map[string]any

// ResultSet is the fully buffered output of a query: ordered column names
// and the rows in arrival order. It is never mutated after creation.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// Executor runs one SQL statement against a database described by conn
// and returns the buffered rows. Errors carry the driver's message
// verbatim; the caller maps them to protocol codes.
type Executor interface {
	Execute(ctx context.Context, conn dsn.ConnInfo, sql string, opts Options) (*ResultSet, error)
}

// ForDriver returns the executor registered for a driver name.
// An unknown name means the query capability is unavailable.
func ForDriver(driver string) (Executor, error) {
	switch dsn.DetectDBType(driver) {
	case dsn.DBTypeSQLServer:
		return &SQLServerExecutor{}, nil
	case dsn.DBTypePostgreSQL:
		return &PostgresExecutor{}, nil
	default:
		return nil, dsn.NewBuildError("driver", "no query executor for driver \""+driver+"\"", "use sqlserver or postgres")
	}
}

// normalizeValue converts driver-specific scalar representations into
// plain values that serialize cleanly to CSV and JSON.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	default:
		return v
	}
}
