// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package rewrite applies a row-limit clause to SQL text without parsing it.
// The transform is a narrow, anchored pattern match on the leading SELECT
// keyword: a SELECT appearing elsewhere in the statement (subquery, CTE
// body) is never touched. That blind spot is an accepted limitation of the
// clause-injection approach, not something to silently repair.
//
// Transforms are pure. The result is not validated as syntactically
// correct SQL; the database reports that at execution time.
package rewrite

import (
	"fmt"
	"regexp"
)

// Dialect rewrites SQL text to cap the number of returned rows using the
// target database's row-limit syntax.
type Dialect interface {
	// ApplyRowLimit returns sql rewritten to return at most limit rows.
	// A limit of zero or less means unlimited and returns sql unchanged.
	ApplyRowLimit(sql string, limit int) string
}

// ForDriver returns the row-limit dialect for a driver name.
// Unknown names fall back to the SQL Server dialect.
func ForDriver(name string) Dialect {
	if name == "postgres" {
		return Postgres{}
	}
	return SQLServer{}
}

var (
	// Leading SELECT keyword, tolerating leading whitespace. The trailing
	// whitespace is part of the match so an injected clause lands after
	// the keyword's own spacing, leaving inter-token spacing untouched.
	reLeadingSelect = regexp.MustCompile(`(?i)^(\s*select\s+)`)

	// Existing TOP clause immediately after SELECT, with or without
	// parentheses. The bare form requires whitespace before the count and
	// a token boundary after it, so an identifier like "top10col" is not
	// mistaken for a clause. The trailing whitespace belongs to the clause
	// so replacement yields a single space.
	reTopClause = regexp.MustCompile(`(?i)^top(?:\s*\(\s*\d+\s*\)|\s+\d+\b)\s*`)

	// Existing trailing LIMIT clause for the Postgres dialect, with an
	// optional OFFSET tail. Only the count after LIMIT is replaced.
	reTrailingLimit = regexp.MustCompile(`(?i)(\blimit\s+)\d+(\s*(?:offset\s+\d+)?\s*;?\s*)$`)
)

// SQLServer caps rows with a TOP clause injected after the leading SELECT.
type SQLServer struct{}

// ApplyRowLimit injects or replaces a TOP clause.
// An existing "TOP n", "TOP(n)" or "TOP (n)" right after the leading SELECT
// is replaced; otherwise "TOP <limit>" is inserted after the SELECT keyword
// and its following whitespace. Everything else is preserved verbatim.
func (SQLServer) ApplyRowLimit(sql string, limit int) string {
	if limit <= 0 {
		return sql
	}
	loc := reLeadingSelect.FindStringIndex(sql)
	if loc == nil {
		// Not a leading SELECT; nothing to cap.
		return sql
	}
	head, rest := sql[:loc[1]], sql[loc[1]:]
	clause := fmt.Sprintf("TOP %d ", limit)
	if topLoc := reTopClause.FindStringIndex(rest); topLoc != nil {
		return head + clause + rest[topLoc[1]:]
	}
	return head + clause + rest
}

// Postgres caps rows with a trailing LIMIT clause.
type Postgres struct{}

// ApplyRowLimit appends "LIMIT <limit>" to a leading SELECT, or replaces
// the count of an existing trailing LIMIT clause. Like the SQL Server
// dialect, the match is anchored: only the outermost statement is touched.
func (Postgres) ApplyRowLimit(sql string, limit int) string {
	if limit <= 0 {
		return sql
	}
	if !reLeadingSelect.MatchString(sql) {
		return sql
	}
	if reTrailingLimit.MatchString(sql) {
		return reTrailingLimit.ReplaceAllString(sql, fmt.Sprintf("${1}%d${2}", limit))
	}
	return sql + fmt.Sprintf(" LIMIT %d", limit)
}

// ApplyRowLimit applies the SQL Server dialect, the plugin's default.
func ApplyRowLimit(sql string, limit int) string {
	return SQLServer{}.ApplyRowLimit(sql, limit)
}
