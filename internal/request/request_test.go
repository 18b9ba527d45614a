// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

package request

import (
	stderrors "errors"
	"strings"
	"testing"

	"sqlrun/plugin/internal/errors"
)

const validEnvelope = `{"params": {
	"server": "db.example.com",
	"database": "orders",
	"username": "reporting",
	"password": "hunter2",
	"query": "SELECT * FROM sales"
}}`

func TestParseValidEnvelope(t *testing.T) {
	req, err := Parse(strings.NewReader(validEnvelope))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if req.Server != "db.example.com" || req.Database != "orders" {
		t.Errorf("connection fields = %q/%q", req.Server, req.Database)
	}
	if req.MaxRows != 0 {
		t.Errorf("MaxRows = %d, want 0 (unlimited)", req.MaxRows)
	}
	if req.ExportFormat != FormatCSV {
		t.Errorf("ExportFormat = %q, want default CSV", req.ExportFormat)
	}
	if req.Driver != DriverSQLServer {
		t.Errorf("Driver = %q, want default sqlserver", req.Driver)
	}
	if req.UseEncryption || req.TrustCertificate || req.Debug {
		t.Error("boolean flags should default to false")
	}
}

func TestParseCaseInsensitiveFieldNames(t *testing.T) {
	input := `{"params": {
		"SERVER": "h", "Database": "d", "UserName": "u",
		"PASSWORD": "p", "Query": "SELECT 1",
		"MaxRows": 25, "ExportFormat": "json", "TRUSTCERTIFICATE": "True"
	}}`
	req, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if req.Server != "h" || req.Database != "d" || req.Username != "u" || req.Password != "p" {
		t.Error("case-insensitive lookup failed for required fields")
	}
	if req.MaxRows != 25 {
		t.Errorf("MaxRows = %d, want 25", req.MaxRows)
	}
	if req.ExportFormat != FormatJSON {
		t.Errorf("ExportFormat = %q, want JSON", req.ExportFormat)
	}
	if !req.TrustCertificate {
		t.Error("TrustCertificate = false, want true")
	}
}

func TestParseMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not JSON", input: "this is not json"},
		{name: "empty input", input: ""},
		{name: "missing params object", input: `{"other": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			var e *errors.E
			if !stderrors.As(err, &e) || e.Kind != errors.ParseFailed {
				t.Errorf("error kind = %v, want parse_failed", err)
			}
		})
	}
}

func TestValidationReportsAllMissingFields(t *testing.T) {
	input := `{"params": {"server": "h", "username": "u", "query": "SELECT 1"}}`
	_, err := Parse(strings.NewReader(input))
	if err == nil {
		t.Fatal("Parse succeeded with missing fields")
	}
	var e *errors.E
	if !stderrors.As(err, &e) || e.Kind != errors.ValidationFailed {
		t.Fatalf("error kind = %v, want validation_failed", err)
	}
	msg := e.Description()
	if !strings.Contains(msg, "database") || !strings.Contains(msg, "password") {
		t.Errorf("description %q does not name both missing fields", msg)
	}
	if strings.Contains(msg, "server") || strings.Contains(msg, "username") {
		t.Errorf("description %q names fields that were present", msg)
	}
}

func TestValidationCombinesCoercionAndMissingFields(t *testing.T) {
	input := `{"params": {
		"server": "h", "database": "d", "username": "u",
		"query": "SELECT 1", "maxRows": "lots"}}`
	_, err := Parse(strings.NewReader(input))
	if err == nil {
		t.Fatal("Parse succeeded with a bad maxRows and a missing field")
	}
	var e *errors.E
	if !stderrors.As(err, &e) || e.Kind != errors.ValidationFailed {
		t.Fatalf("error kind = %v, want validation_failed", err)
	}
	msg := e.Description()
	if !strings.Contains(msg, "password") {
		t.Errorf("description %q does not name the missing field", msg)
	}
	if !strings.Contains(msg, "maxRows") {
		t.Errorf("description %q does not report the maxRows defect", msg)
	}
}

func TestBlankFieldsCountAsMissing(t *testing.T) {
	input := `{"params": {
		"server": "  ", "database": "d", "username": "u",
		"password": "p", "query": "SELECT 1"
	}}`
	_, err := Parse(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "server") {
		t.Errorf("blank server not reported as missing: %v", err)
	}
}

func TestTruthyCoercion(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: `true`, want: true},
		{raw: `"true"`, want: true},
		{raw: `"True"`, want: true},
		{raw: `"TRUE"`, want: true},
		{raw: `"1"`, want: true},
		{raw: `"yes"`, want: true},
		{raw: `false`, want: false},
		{raw: `"false"`, want: false},
		{raw: `"0"`, want: false},
		{raw: `""`, want: false},
		{raw: `"on"`, want: false},
		{raw: `null`, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			input := `{"params": {
				"server": "h", "database": "d", "username": "u",
				"password": "p", "query": "q", "debug": ` + tt.raw + `}}`
			req, err := Parse(strings.NewReader(input))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if req.Debug != tt.want {
				t.Errorf("debug=%s coerced to %v, want %v", tt.raw, req.Debug, tt.want)
			}
		})
	}
}

func TestMaxRowsCoercion(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "number", raw: `50`, want: 50},
		{name: "numeric string", raw: `"50"`, want: 50},
		{name: "explicit zero", raw: `0`, want: 0},
		{name: "blank string", raw: `""`, want: 0},
		{name: "negative", raw: `-1`, wantErr: true},
		{name: "fractional", raw: `1.5`, wantErr: true},
		{name: "garbage", raw: `"lots"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := `{"params": {
				"server": "h", "database": "d", "username": "u",
				"password": "p", "query": "q", "maxRows": ` + tt.raw + `}}`
			req, err := Parse(strings.NewReader(input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Parse succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if req.MaxRows != tt.want {
				t.Errorf("MaxRows = %d, want %d", req.MaxRows, tt.want)
			}
		})
	}
}

func TestUnknownExportFormatRejected(t *testing.T) {
	input := `{"params": {
		"server": "h", "database": "d", "username": "u",
		"password": "p", "query": "q", "exportFormat": "xml"}}`
	if _, err := Parse(strings.NewReader(input)); err == nil {
		t.Fatal("Parse accepted unknown export format")
	}
}

func TestUnknownDriverRejected(t *testing.T) {
	input := `{"params": {
		"server": "h", "database": "d", "username": "u",
		"password": "p", "query": "q", "driver": "oracle"}}`
	if _, err := Parse(strings.NewReader(input)); err == nil {
		t.Fatal("Parse accepted unknown driver")
	}
}

func TestRedactedOmitsPassword(t *testing.T) {
	req, err := Parse(strings.NewReader(validEnvelope))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	red := req.Redacted()
	if _, ok := red["password"]; ok {
		t.Error("Redacted() contains a password key")
	}
	for _, v := range red {
		if s, ok := v.(string); ok && strings.Contains(s, "hunter2") {
			t.Errorf("Redacted() leaks the password in %q", s)
		}
	}
}
