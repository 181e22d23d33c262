// Package migrations embeds the SQL applied by the postgres document adapter.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
)

// FS contains the schema migrations, applied in file name order.
//
//go:embed *.sql
var FS embed.FS

// Ordered returns the migration file names sorted by name.
func Ordered() ([]string, error) {
	names, err := fs.Glob(FS, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
