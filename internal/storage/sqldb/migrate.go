package sqldb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies every embedded .sql file for the dialect in name order.
// Statements are idempotent, so running it on every start is safe.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	dir := path.Join("migrations", string(d))
	ents, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return fmt.Errorf("read migrations for %s: %w", d, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && path.Ext(e.Name()) == ".sql" {
			files = append(files, path.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	for _, f := range files {
		b, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		for _, stmt := range splitStatements(string(b)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("exec %s: %w", f, err)
			}
		}
		log.Debug().Str("file", f).Msg("migration applied")
	}
	return nil
}

// splitStatements cuts a script on ';'. The schema files hold no string
// literals or triggers, so no quoting rules are needed.
func splitStatements(script string) []string {
	var out []string
	for _, s := range strings.Split(script, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
