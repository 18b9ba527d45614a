// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package request parses the job input envelope into a strongly-typed
// JobRequest. The envelope arrives as loosely-typed JSON: field names may
// be any casing and boolean flags may arrive as strings, so parsing goes
// through one case-insensitive lookup helper and one truthy-coercion rule
// shared by every flag.
package request

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"sqlrun/plugin/internal/errors"
)

// ExportFormat selects the artifact serialization for query results.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "CSV"
	FormatJSON ExportFormat = "JSON"
)

// Driver names accepted by the optional "driver" parameter.
const (
	DriverSQLServer = "sqlserver"
	DriverPostgres  = "postgres"
)

// requiredFields lists the envelope fields that must be non-blank,
// in the order they are reported when missing.
var requiredFields = []string{"server", "database", "username", "password", "query"}

// JobRequest is the parsed input envelope. It is constructed once from the
// envelope and immutable afterwards, except for Query, which the runner may
// rewrite exactly once before execution.
type JobRequest struct {
	Server   string
	Database string
	Username string
	Password string
	Query    string

	// MaxRows caps the result set. Zero means unlimited, whether the
	// field was absent or explicitly zero.
	MaxRows int

	ExportFormat     ExportFormat
	Driver           string
	UseEncryption    bool
	TrustCertificate bool
	Debug            bool
}

// envelope mirrors the top-level input object.
type envelope struct {
	Params map[string]json.RawMessage `json:"params"`
}

// Parse reads the full input stream and decodes the envelope.
// A malformed stream is a parse failure; blank or missing required fields
// are a validation failure reporting every missing field at once.
func Parse(r io.Reader) (*JobRequest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ParseFailed, "reading input", err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(errors.ParseFailed, "input is not well-formed JSON", err)
	}
	if env.Params == nil {
		return nil, errors.New(errors.ParseFailed, "input envelope has no params object")
	}

	p := params(env.Params)
	req := &JobRequest{
		Server:           p.stringValue("server"),
		Database:         p.stringValue("database"),
		Username:         p.stringValue("username"),
		Password:         p.stringValue("password"),
		Query:            p.stringValue("query"),
		Driver:           strings.ToLower(p.stringValue("driver")),
		UseEncryption:    p.boolValue("useEncryption"),
		TrustCertificate: p.boolValue("trustCertificate"),
		Debug:            p.boolValue("debug"),
	}
	if req.Driver == "" {
		req.Driver = DriverSQLServer
	}

	maxRows, maxRowsErr := p.intValue("maxRows")
	req.MaxRows = maxRows

	format, formatErr := parseFormat(p.stringValue("exportFormat"))
	req.ExportFormat = format

	// All validation defects are gathered before reporting so a mixed
	// envelope (bad maxRows and a missing field) still names everything.
	problems := req.problems()
	if maxRowsErr != nil {
		problems = append(problems, "maxRows: "+maxRowsErr.Error())
	}
	if formatErr != nil {
		problems = append(problems, "exportFormat: "+formatErr.Error())
	}
	if len(problems) > 0 {
		return nil, errors.New(errors.ValidationFailed, strings.Join(problems, "; "))
	}
	return req, nil
}

// problems checks all required fields, reporting every missing one in a
// single comma-joined entry, plus any per-field defects.
func (r *JobRequest) problems() []string {
	values := map[string]string{
		"server":   r.Server,
		"database": r.Database,
		"username": r.Username,
		"password": r.Password,
		"query":    r.Query,
	}
	var missing []string
	for _, name := range requiredFields {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	var out []string
	if len(missing) > 0 {
		out = append(out, "missing required parameters: "+strings.Join(missing, ", "))
	}
	if r.MaxRows < 0 {
		out = append(out, "maxRows must not be negative")
	}
	if r.Driver != DriverSQLServer && r.Driver != DriverPostgres {
		out = append(out,
			fmt.Sprintf("unknown driver %q (expected %s or %s)", r.Driver, DriverSQLServer, DriverPostgres))
	}
	return out
}

// Redacted returns a copy of the request safe for the diagnostic channel:
// the password is omitted and the query is truncated.
func (r *JobRequest) Redacted() map[string]any {
	query := r.Query
	if len(query) > 200 {
		query = query[:200] + "..."
	}
	return map[string]any{
		"server":           r.Server,
		"database":         r.Database,
		"username":         r.Username,
		"query":            query,
		"maxRows":          r.MaxRows,
		"exportFormat":     string(r.ExportFormat),
		"driver":           r.Driver,
		"useEncryption":    r.UseEncryption,
		"trustCertificate": r.TrustCertificate,
		"debug":            r.Debug,
	}
}

// params wraps the raw envelope fields with case-insensitive lookup.
type params map[string]json.RawMessage

// lookup finds a field by name ignoring case. When several keys differ only
// by case, the lexicographically smallest key wins, so lookups stay
// deterministic regardless of map iteration order.
func (p params) lookup(name string) (json.RawMessage, bool) {
	if v, ok := p[name]; ok {
		return v, true
	}
	var keys []string
	for k := range p {
		if strings.EqualFold(k, name) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, false
	}
	sort.Strings(keys)
	return p[keys[0]], true
}

// stringValue returns a field as a string. Non-string scalars are rendered
// with their JSON text so numeric server names and the like still work.
func (p params) stringValue(name string) string {
	raw, ok := p.lookup(name)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// boolValue coerces a flag field. JSON true, and the strings "true", "1",
// and "yes" (any casing) accept; everything else, including absence, is
// false.
func (p params) boolValue(name string) bool {
	raw, ok := p.lookup(name)
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// intValue coerces a non-negative integer field arriving as a JSON number
// or a numeric string. Absence and blank strings yield zero.
func (p params) intValue(name string) (int, error) {
	raw, ok := p.lookup(name)
	if !ok {
		return 0, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n != float64(int(n)) {
			return 0, fmt.Errorf("expected an integer, got %v", n)
		}
		return int(n), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("expected an integer, got %s", string(raw))
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("expected an integer, got %q", s)
	}
	return v, nil
}

// parseFormat resolves the export format case-insensitively, defaulting to
// CSV when the field is absent or blank.
func parseFormat(s string) (ExportFormat, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "CSV":
		return FormatCSV, nil
	case "JSON":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected CSV or JSON)", s)
	}
}
