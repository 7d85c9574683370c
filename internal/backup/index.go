package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"backupphotos/internal/services"
)

// Index maps stored file names to their containing directory.
type Index struct {
	dirs map[string]string
}

// Walk records, for every regular file in a directory without
// subdirectories, name to directory. Directories that contain other
// directories are traversed but their own files are ignored, so backup
// metadata at the root (the manifest, Info.plist) never shadows a stored file.
// When two buckets hold the same name the lexically last directory wins.
func Walk(ctx context.Context, root string) (*Index, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "backup", "walk", fmt.Sprintf("backup directory %s", root), err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrNotFound, "backup", "walk", fmt.Sprintf("%s is not a directory", root), nil)
	}

	idx := &Index{dirs: make(map[string]string)}
	if err := idx.walkDir(ctx, root); err != nil {
		return nil, err
	}
	return idx, nil
}

func (i *Index) walkDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return services.Wrap(services.ErrTransient, "backup", "walk", fmt.Sprintf("read %s", dir), err)
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].Name() < entries[b].Name() })

	var subdirs []string
	var files []string
	for _, entry := range entries {
		switch {
		case entry.IsDir():
			subdirs = append(subdirs, filepath.Join(dir, entry.Name()))
		case entry.Type().IsRegular():
			files = append(files, entry.Name())
		}
	}
	if len(subdirs) == 0 {
		for _, name := range files {
			i.dirs[name] = dir
		}
		return nil
	}
	for _, sub := range subdirs {
		if err := i.walkDir(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of indexed files.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.dirs)
}

// Lookup returns the directory holding the stored file named id.
func (i *Index) Lookup(id string) (string, bool) {
	if i == nil {
		return "", false
	}
	dir, ok := i.dirs[id]
	return dir, ok
}

// Path returns the full path of the stored file named id.
func (i *Index) Path(id string) (string, bool) {
	dir, ok := i.Lookup(id)
	if !ok {
		return "", false
	}
	return filepath.Join(dir, id), true
}
