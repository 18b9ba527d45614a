// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"strings"
)

// DetectDBType maps a driver name from the job request to a DBType.
func DetectDBType(driver string) DBType {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlserver", "mssql":
		return DBTypeSQLServer
	case "postgres", "postgresql":
		return DBTypePostgreSQL
	}
	return DBTypeUnknown
}

// ForDriver returns the builder for a driver name.
// This is the main entry point for connection string building.
func ForDriver(driver string) (Builder, error) {
	switch DetectDBType(driver) {
	case DBTypeSQLServer:
		return NewSQLServerBuilder(), nil
	case DBTypePostgreSQL:
		return NewPostgresBuilder(), nil
	default:
		return nil, NewBuildError("driver", "unknown driver \""+driver+"\"", "use sqlserver or postgres")
	}
}

// Build resolves the builder for driver and builds the connection string.
func Build(driver string, info ConnInfo) (string, error) {
	b, err := ForDriver(driver)
	if err != nil {
		return "", err
	}
	return b.Build(info)
}
