// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package materialize turns a buffered result set into export artifacts
// and the inline payload reported to the host. Every non-empty result is
// written to a uniquely named file; whether the data also travels inline
// depends on the size of its CSV rendering, never the JSON one.
package materialize

import (
	"bytes"
	"crypto/rand"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sqlrun/plugin/internal/query"
	"sqlrun/plugin/internal/request"
)

// InlineLimit is the maximum CSV byte size that still travels inline in
// the data payload. At or above this size the payload carries a pointer
// message and the host fetches the file instead.
const InlineLimit = 1 << 20

// Artifact describes one written export file. The file outlives the
// process; nothing here deletes prior artifacts.
type Artifact struct {
	Format   request.ExportFormat
	FileName string
	FilePath string
	ByteSize int64
}

// Materializer writes export files and builds inline payloads.
// The zero value writes into the current working directory with the real
// clock; tests inject both.
type Materializer struct {
	// OutputDir receives export files. Empty means the process working
	// directory.
	OutputDir string

	// Now supplies the materialization instant for file naming.
	Now func() time.Time

	// randomSuffix supplies the collision-breaking name suffix.
	randomSuffix func() string
}

// New creates a Materializer writing into dir.
func New(dir string) *Materializer {
	return &Materializer{OutputDir: dir}
}

// Materialize serializes rows in the requested format, writes the export
// file for non-empty results, and returns the artifact (nil when no file
// was written) plus the payload mapping for the data message.
//
// server and database are forwarded into the payload for the consumer's
// convenience and carry no added meaning. A file write failure is fatal
// for the run and propagates as an error.
func (m *Materializer) Materialize(rs *query.ResultSet, format request.ExportFormat, server, database string) (*Artifact, map[string]any, error) {
	payload := map[string]any{
		"server":   server,
		"database": database,
		"rowCount": rs.Len(),
		"format":   string(format),
	}
	if rs.Len() == 0 {
		return nil, payload, nil
	}

	csvText, err := encodeCSV(rs)
	if err != nil {
		return nil, nil, fmt.Errorf("serializing rows to CSV: %w", err)
	}

	var content []byte
	switch format {
	case request.FormatJSON:
		content, err = encodeJSON(rs)
		if err != nil {
			return nil, nil, fmt.Errorf("serializing rows to JSON: %w", err)
		}
	default:
		content = csvText
	}

	fileName := m.fileName(format)
	dir := m.OutputDir
	if dir == "" {
		dir = "."
	}
	filePath := filepath.Join(dir, fileName)
	if abs, err := filepath.Abs(filePath); err == nil {
		filePath = abs
	}
	if err := os.WriteFile(filePath, content, 0o644); err != nil {
		return nil, nil, fmt.Errorf("writing export file: %w", err)
	}

	artifact := &Artifact{
		Format:   format,
		FileName: fileName,
		FilePath: filePath,
		ByteSize: int64(len(content)),
	}
	payload["fileName"] = fileName
	payload["filePath"] = filePath

	// The inline decision always evaluates the CSV rendering, independent
	// of the chosen export format. JSON never travels inline.
	if len(csvText) < InlineLimit {
		payload["csv"] = string(csvText)
	} else {
		payload["message"] = fmt.Sprintf(
			"Result set too large to return inline (%d bytes as CSV); full results are in %s",
			len(csvText), fileName)
	}
	return artifact, payload, nil
}

// fileName builds a collision-free export file name:
// query_results_{YYYYMMDD}_{HHmmss}_{milliseconds}_{8-hex-random}.{ext}.
// The timestamp is the materialization instant; the random suffix keeps two
// jobs apart even when their timestamps match to the millisecond.
func (m *Materializer) fileName(format request.ExportFormat) string {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	suffix := m.randomSuffix
	if suffix == nil {
		suffix = randomHex8
	}
	t := now()
	ext := "csv"
	if format == request.FormatJSON {
		ext = "json"
	}
	return fmt.Sprintf("query_results_%s_%s_%03d_%s.%s",
		t.Format("20060102"), t.Format("150405"), t.Nanosecond()/1e6, suffix(), ext)
}

// randomHex8 returns 8 hex characters from a CSPRNG.
func randomHex8() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// Fall back to the clock; uniqueness still holds at nanosecond
		// resolution together with the timestamp in the name.
		return fmt.Sprintf("%08x", time.Now().UnixNano()&0xffffffff)
	}
	return hex.EncodeToString(b[:])
}

// encodeCSV renders the result set as CSV: a header row of column names in
// the executor's stable order, then one line per row. Quoting and escaping
// follow encoding/csv (fields with commas, quotes, or newlines are quoted,
// embedded quotes doubled).
func encodeCSV(rs *query.ResultSet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(rs.Columns); err != nil {
		return nil, err
	}
	record := make([]string, len(rs.Columns))
	for _, row := range rs.Rows {
		for i, col := range rs.Columns {
			record[i] = formatValue(row[col])
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeJSON renders the result set as an array of row objects.
func encodeJSON(rs *query.ResultSet) ([]byte, error) {
	return json.Marshal(rs.Rows)
}

// formatValue renders one scalar for CSV output. Nulls become empty
// fields; timestamps use RFC 3339 so they re-parse unambiguously.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
