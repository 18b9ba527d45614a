// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"net/url"
	"strings"
)

// PostgresBuilder builds pgx connection URLs.
type PostgresBuilder struct{}

// NewPostgresBuilder creates a new PostgreSQL builder
func NewPostgresBuilder() *PostgresBuilder {
	return &PostgresBuilder{}
}

// Build produces a postgres:// URL for pgx.
// The encryption knobs map onto sslmode: encryption off is "disable",
// encryption with a trusted certificate is "require", and encryption with
// certificate verification is "verify-full".
func (b *PostgresBuilder) Build(info ConnInfo) (string, error) {
	host, err := splitHost(info.Server, "5432")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(info.Database) == "" {
		return "", NewBuildError("database", "database name is blank", "provide the target database name")
	}

	q := url.Values{}
	switch {
	case !info.UseEncryption:
		q.Set("sslmode", "disable")
	case info.TrustCertificate:
		q.Set("sslmode", "require")
	default:
		q.Set("sslmode", "verify-full")
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(info.Username, info.Password),
		Host:     host,
		Path:     "/" + info.Database,
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

// Masked returns the connection URL with credentials replaced by "*".
func (b *PostgresBuilder) Masked(info ConnInfo) string {
	masked := info
	masked.Username = "*"
	masked.Password = "*"
	s, err := b.Build(masked)
	if err != nil {
		return "postgres://*:*@" + info.Server
	}
	return s
}
