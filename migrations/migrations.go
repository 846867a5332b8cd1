// Package migrations embebe el esquema SQL aplicado por cmd/migrate.
package migrations

import "embed"

// FS archivos NNNNNN_nombre.{up,down}.sql.
//
//go:embed *.sql
var FS embed.FS
