// Package filex holds filesystem helpers for locating the local database.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SQLitePath extracts the file path from a SQLite DSN such as
// "file:data/vault.db?_pragma=foreign_keys(1)". In-memory databases report
// false.
func SQLitePath(dsn string) (string, bool) {
	path, _, _ := strings.Cut(dsn, "?")
	path = strings.TrimPrefix(path, "file:")
	if path == "" || strings.HasPrefix(path, ":memory:") {
		return "", false
	}
	if strings.Contains(dsn, "mode=memory") {
		return "", false
	}
	return path, true
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
