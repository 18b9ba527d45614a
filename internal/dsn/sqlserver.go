// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"net/url"
	"strings"
)

// SQLServerBuilder builds go-mssqldb connection URLs.
type SQLServerBuilder struct{}

// NewSQLServerBuilder creates a new SQL Server builder
func NewSQLServerBuilder() *SQLServerBuilder {
	return &SQLServerBuilder{}
}

// Build produces a sqlserver:// URL for the go-mssqldb driver.
// Encryption knobs map onto the driver's query parameters: encrypt is
// "true" or "disable" from UseEncryption, and trustservercertificate
// follows TrustCertificate so an untrusted certificate fails the
// connection instead of being silently accepted.
func (b *SQLServerBuilder) Build(info ConnInfo) (string, error) {
	host, err := splitHost(info.Server, "1433")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(info.Database) == "" {
		return "", NewBuildError("database", "database name is blank", "provide the target database name")
	}

	q := url.Values{}
	q.Set("database", info.Database)
	if info.UseEncryption {
		q.Set("encrypt", "true")
	} else {
		q.Set("encrypt", "disable")
	}
	if info.TrustCertificate {
		q.Set("trustservercertificate", "true")
	}

	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(info.Username, info.Password),
		Host:     host,
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

// Masked returns the connection URL with credentials replaced by "*".
func (b *SQLServerBuilder) Masked(info ConnInfo) string {
	masked := info
	masked.Username = "*"
	masked.Password = "*"
	s, err := b.Build(masked)
	if err != nil {
		return "sqlserver://*:*@" + info.Server
	}
	return s
}

// splitHost validates a server field and appends the default port when the
// field carries none. IPv6 literals must already be bracketed.
func splitHost(server, defaultPort string) (string, error) {
	s := strings.TrimSpace(server)
	if s == "" {
		return "", NewBuildError("server", "server is blank", "provide host or host:port")
	}
	// Bracketed IPv6 with or without port passes through untouched.
	if strings.HasPrefix(s, "[") {
		if strings.Contains(s, "]:") {
			return s, nil
		}
		return s + ":" + defaultPort, nil
	}
	if strings.Contains(s, ":") {
		return s, nil
	}
	return s + ":" + defaultPort, nil
}
