package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"backupphotos/internal/services"
)

// DefaultDBName is the manifest database file name written by device backups.
const DefaultDBName = "Manifest.db"

const (
	filesQuery = "SELECT fileID, relativePath FROM Files"

	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

var errFound = errors.New("manifest found")

// Locate walks backupDir and returns the first file named dbName.
func Locate(backupDir, dbName string) (string, error) {
	if strings.TrimSpace(dbName) == "" {
		dbName = DefaultDBName
	}
	info, err := os.Stat(backupDir)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "manifest", "locate", fmt.Sprintf("backup directory %s", backupDir), err)
	}
	if !info.IsDir() {
		return "", services.Wrap(services.ErrNotFound, "manifest", "locate", fmt.Sprintf("%s is not a directory", backupDir), nil)
	}

	var found string
	walkErr := filepath.WalkDir(backupDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == dbName {
			found = path
			return errFound
		}
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, errFound) {
		return "", services.Wrap(services.ErrNotFound, "manifest", "locate", "walk backup directory", walkErr)
	}
	if found == "" {
		return "", services.Wrap(services.ErrNotFound, "manifest", "locate", fmt.Sprintf("%s not found under %s", dbName, backupDir), nil)
	}
	return found, nil
}

// Load opens the manifest database read-only and reads every Files row in
// table order. NULL relative paths load as empty strings.
func Load(ctx context.Context, path string) (*Index, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "manifest", "load", fmt.Sprintf("manifest %s", path), err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open manifest db: %w", err)
	}
	defer db.Close()

	var entries []Entry
	if err := retryOnBusy(ctx, func() error {
		var readErr error
		entries, readErr = readEntries(ctx, db)
		return readErr
	}); err != nil {
		return nil, services.Wrap(services.ErrValidation, "manifest", "load", fmt.Sprintf("read %s", path), err)
	}

	idx, err := NewIndex(entries)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "manifest", "load", path, err)
	}
	return idx, nil
}

func readEntries(ctx context.Context, db *sql.DB) ([]Entry, error) {
	rows, err := db.QueryContext(ctx, filesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id  string
			rel sql.NullString
		)
		if err := rows.Scan(&id, &rel); err != nil {
			return nil, err
		}
		entries = append(entries, Entry{ID: id, RelativePath: rel.String})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
