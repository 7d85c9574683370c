package testsupport

import (
	"path/filepath"
	"testing"
)

// WriteBackupFile places a stored file named id in the hashed bucket
// directory a device backup uses (the first two characters of the id).
// It returns the file's path.
func WriteBackupFile(t testing.TB, backupDir, id string, size int64) string {
	t.Helper()

	bucket := id
	if len(bucket) > 2 {
		bucket = bucket[:2]
	}
	path := filepath.Join(backupDir, bucket, id)
	WriteFile(t, path, size)
	return path
}
