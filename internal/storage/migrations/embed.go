// Package migrations applies the embedded schema files for both databases.
// Files run in lexical order, so a new migration takes the next numeric
// prefix.
package migrations

import "embed"

// Schema sources, compiled into the binary. PostgreSQL holds raw trade
// events; ClickHouse holds computed group summaries.
var (
	//go:embed postgres/*.sql
	PostgresFS embed.FS

	//go:embed clickhouse/*.sql
	ClickhouseFS embed.FS
)
