// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

package query

import (
	"testing"
)

func TestForDriver(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantErr bool
	}{
		{name: "sqlserver", driver: "sqlserver"},
		{name: "mssql alias", driver: "mssql"},
		{name: "postgres", driver: "postgres"},
		{name: "unknown driver", driver: "oracle", wantErr: true},
		{name: "empty driver", driver: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, err := ForDriver(tt.driver)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ForDriver(%q) succeeded, want error", tt.driver)
				}
				return
			}
			if err != nil {
				t.Fatalf("ForDriver(%q): %v", tt.driver, err)
			}
			if exec == nil {
				t.Fatalf("ForDriver(%q) returned nil executor", tt.driver)
			}
		})
	}
}

func TestResultSetLen(t *testing.T) {
	var nilSet *ResultSet
	if nilSet.Len() != 0 {
		t.Error("nil ResultSet Len() != 0")
	}
	rs := &ResultSet{
		Columns: []string{"id"},
		Rows:    []Row{{"id": 1}, {"id": 2}},
	}
	if rs.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rs.Len())
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "byte slice becomes string", in: []byte("abc"), want: "abc"},
		{name: "string passes through", in: "x", want: "x"},
		{name: "int passes through", in: int64(7), want: int64(7)},
		{name: "nil stays nil", in: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeValue(tt.in); got != tt.want {
				t.Errorf("normalizeValue(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
