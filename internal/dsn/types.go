// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn builds normalized database connection strings from the
// validated job request. Each supported driver has its own builder that
// knows the driver's URL scheme, default port, and encryption knobs.
// Credentials are URL-escaped, so passwords with special characters
// survive the round trip into the driver.
package dsn

import "fmt"

// DBType represents the type of database
type DBType string

const (
	DBTypeSQLServer  DBType = "sqlserver"
	DBTypePostgreSQL DBType = "postgres"
	DBTypeUnknown    DBType = "unknown"
)

// ConnInfo carries the connection fields taken from the job request.
// The Server field may include an explicit ":port"; builders apply the
// driver's default port otherwise.
type ConnInfo struct {
	Server   string
	Database string
	Username string
	Password string

	// UseEncryption asks the driver to encrypt the transport.
	UseEncryption bool
	// TrustCertificate accepts the server certificate without verification.
	// When false, certificate problems are escalated to connection errors.
	TrustCertificate bool
}

// Builder is an interface for database-specific connection string building.
type Builder interface {
	// Build converts connection info to a driver connection string.
	Build(info ConnInfo) (string, error)

	// Masked returns a display form of the connection string with
	// credentials replaced, safe for the diagnostic channel.
	Masked(info ConnInfo) string
}

// BuildError represents an error that occurred while building a connection string.
type BuildError struct {
	Field  string
	Reason string
	Hint   string
}

func (e *BuildError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid connection field %s: %s\nHint: %s", e.Field, e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid connection field %s: %s", e.Field, e.Reason)
}

// NewBuildError creates a new BuildError
func NewBuildError(field, reason, hint string) *BuildError {
	return &BuildError{
		Field:  field,
		Reason: reason,
		Hint:   hint,
	}
}
