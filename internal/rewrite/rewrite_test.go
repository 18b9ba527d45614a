// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rewrite

import (
	"testing"
)

func TestSQLServerApplyRowLimit(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		limit int
		want  string
	}{
		{
			name:  "zero limit leaves SQL unchanged",
			sql:   "SELECT * FROM T",
			limit: 0,
			want:  "SELECT * FROM T",
		},
		{
			name:  "negative limit leaves SQL unchanged",
			sql:   "SELECT TOP 50 * FROM T",
			limit: -1,
			want:  "SELECT TOP 50 * FROM T",
		},
		{
			name:  "injects TOP after SELECT",
			sql:   "SELECT * FROM T",
			limit: 5,
			want:  "SELECT TOP 5 * FROM T",
		},
		{
			name:  "replaces existing TOP without parens",
			sql:   "SELECT TOP 50 * FROM T",
			limit: 100,
			want:  "SELECT TOP 100 * FROM T",
		},
		{
			name:  "replaces existing TOP with parens",
			sql:   "SELECT TOP(50) * FROM T",
			limit: 100,
			want:  "SELECT TOP 100 * FROM T",
		},
		{
			name:  "replaces existing TOP with spaced parens",
			sql:   "SELECT TOP ( 50 ) * FROM T",
			limit: 100,
			want:  "SELECT TOP 100 * FROM T",
		},
		{
			name:  "tolerates leading whitespace and keeps inter-token spacing",
			sql:   "  SELECT  * FROM T",
			limit: 10,
			want:  "  SELECT  TOP 10 * FROM T",
		},
		{
			name:  "case-insensitive keyword and clause",
			sql:   "select top(3) name from users",
			limit: 7,
			want:  "select TOP 7 name from users",
		},
		{
			name:  "SELECT in subquery is not touched",
			sql:   "INSERT INTO A SELECT * FROM B",
			limit: 5,
			want:  "INSERT INTO A SELECT * FROM B",
		},
		{
			name:  "non-SELECT statement unchanged",
			sql:   "UPDATE T SET x = 1",
			limit: 5,
			want:  "UPDATE T SET x = 1",
		},
		{
			name:  "identifier starting with top is not a clause",
			sql:   "SELECT top10col FROM T",
			limit: 5,
			want:  "SELECT TOP 5 top10col FROM T",
		},
		{
			name:  "identifier top alone is not a clause",
			sql:   "SELECT top FROM ratings",
			limit: 5,
			want:  "SELECT TOP 5 top FROM ratings",
		},
		{
			name:  "remainder preserved verbatim",
			sql:   "SELECT TOP 2 a, b  FROM T  WHERE a > 1 ORDER BY b",
			limit: 9,
			want:  "SELECT TOP 9 a, b  FROM T  WHERE a > 1 ORDER BY b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyRowLimit(tt.sql, tt.limit)
			if got != tt.want {
				t.Errorf("ApplyRowLimit(%q, %d) = %q, want %q", tt.sql, tt.limit, got, tt.want)
			}
		})
	}
}

func TestSQLServerNoLimitIsIdentity(t *testing.T) {
	statements := []string{
		"SELECT * FROM T",
		"  select  top (5) * from t  ",
		"WITH cte AS (SELECT 1) SELECT * FROM cte",
		"",
	}
	for _, sql := range statements {
		if got := ApplyRowLimit(sql, 0); got != sql {
			t.Errorf("ApplyRowLimit(%q, 0) = %q, want unchanged", sql, got)
		}
	}
}

func TestPostgresApplyRowLimit(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		limit int
		want  string
	}{
		{
			name:  "zero limit unchanged",
			sql:   "SELECT * FROM t",
			limit: 0,
			want:  "SELECT * FROM t",
		},
		{
			name:  "appends LIMIT",
			sql:   "SELECT * FROM t",
			limit: 5,
			want:  "SELECT * FROM t LIMIT 5",
		},
		{
			name:  "replaces trailing LIMIT",
			sql:   "SELECT * FROM t LIMIT 50",
			limit: 100,
			want:  "SELECT * FROM t LIMIT 100",
		},
		{
			name:  "replaces trailing limit before semicolon",
			sql:   "select * from t limit 50;",
			limit: 10,
			want:  "select * from t limit 10;",
		},
		{
			name:  "replaces LIMIT and keeps OFFSET tail",
			sql:   "SELECT * FROM t LIMIT 50 OFFSET 10",
			limit: 5,
			want:  "SELECT * FROM t LIMIT 5 OFFSET 10",
		},
		{
			name:  "replaces LIMIT with OFFSET and semicolon",
			sql:   "select * from t limit 50 offset 10;",
			limit: 5,
			want:  "select * from t limit 5 offset 10;",
		},
		{
			name:  "non-SELECT unchanged",
			sql:   "DELETE FROM t",
			limit: 5,
			want:  "DELETE FROM t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Postgres{}.ApplyRowLimit(tt.sql, tt.limit)
			if got != tt.want {
				t.Errorf("ApplyRowLimit(%q, %d) = %q, want %q", tt.sql, tt.limit, got, tt.want)
			}
		})
	}
}

func TestForDriver(t *testing.T) {
	if _, ok := ForDriver("postgres").(Postgres); !ok {
		t.Error(`ForDriver("postgres") is not the Postgres dialect`)
	}
	if _, ok := ForDriver("sqlserver").(SQLServer); !ok {
		t.Error(`ForDriver("sqlserver") is not the SQL Server dialect`)
	}
	if _, ok := ForDriver("").(SQLServer); !ok {
		t.Error("ForDriver default is not the SQL Server dialect")
	}
}
