package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open establishes the database connection and runs auto migration.
// When databaseURL is set a Postgres connection is used; otherwise a local
// SQLite file at databasePath (default inklog.db). The returned handle is
// meant to be injected into services rather than held as package state.
func Open(databaseURL, databasePath string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if url := strings.TrimSpace(databaseURL); url != "" {
		dialector = postgres.Open(url)
	} else {
		path := strings.TrimSpace(databasePath)
		if path == "" {
			path = "inklog.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(path)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := gdb.AutoMigrate(
		&User{},
		&UserProfile{},
		&Article{},
		&Comment{},
		&Like{},
	); err != nil {
		return nil, err
	}

	return gdb, nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
