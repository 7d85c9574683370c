package testsupport

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// ManifestRow is one Files row written by WriteManifestDB. A nil Path stores
// NULL.
type ManifestRow struct {
	ID   string
	Path *string
}

// Row builds a ManifestRow with a non-NULL relative path.
func Row(id, relativePath string) ManifestRow {
	return ManifestRow{ID: id, Path: &relativePath}
}

// WriteManifestDB creates a manifest database at path with a Files table
// holding rows in the given order.
func WriteManifestDB(t testing.TB, path string, rows ...ManifestRow) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open manifest %s: %v", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE Files (fileID TEXT, domain TEXT, relativePath TEXT, flags INTEGER, file BLOB)`); err != nil {
		t.Fatalf("create Files table: %v", err)
	}
	for _, row := range rows {
		var rel any
		if row.Path != nil {
			rel = *row.Path
		}
		if _, err := db.Exec(`INSERT INTO Files (fileID, domain, relativePath, flags) VALUES (?, 'CameraRollDomain', ?, 1)`, row.ID, rel); err != nil {
			t.Fatalf("insert %s: %v", row.ID, err)
		}
	}
}
