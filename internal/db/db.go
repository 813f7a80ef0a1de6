// Package db opens the SQLite database backing client-local state: the
// offline task snapshot and the focus session history. Everything lives
// under the workspace's .dayflow directory.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	stateDirName = ".dayflow"
	dbFileName   = "dayflow.db"
)

type Config struct {
	Workspace string
}

// EnsureWorkspace creates the state directory if missing and returns its
// path. Mode 0700: the directory also holds the session token.
func EnsureWorkspace(workspace string) (string, error) {
	if workspace == "" {
		workspace = "."
	}
	dir := filepath.Join(workspace, stateDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// Open opens the state database, creating it on first use.
func Open(cfg Config) (*sql.DB, error) {
	dir, err := EnsureWorkspace(cfg.Workspace)
	if err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		filepath.Join(dir, dbFileName))
	return sql.Open("sqlite", dsn)
}
