package store

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies every embedded migration for the store's dialect that has
// not been recorded in schema_migrations yet, in filename order. It returns
// the names of the files it applied.
func (s *Store) Migrate(ctx context.Context) ([]string, error) {
	if _, err := s.db.ExecContext(ctx, s.dialect.migrationsTable()); err != nil {
		return nil, fmt.Errorf("create schema_migrations table: %w", err)
	}

	dir := path.Join("migrations", s.dialect.String())
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	var applied []string
	for _, filename := range files {
		var count int
		if err := s.queryRow(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", filename).Scan(&count); err != nil {
			return applied, fmt.Errorf("check migration %s: %w", filename, err)
		}
		if count > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile(path.Join(dir, filename))
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", filename, err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", filename, err)
		}

		sum := sha256.Sum256(content)
		if _, err := s.exec(ctx, "INSERT INTO schema_migrations (filename, checksum) VALUES (?, ?)", filename, hex.EncodeToString(sum[:])); err != nil {
			return applied, fmt.Errorf("record migration %s: %w", filename, err)
		}
		applied = append(applied, filename)
	}

	return applied, nil
}
