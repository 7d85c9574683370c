package manifest

import (
	"errors"
	"fmt"
)

// ErrDuplicateID reports a manifest containing the same identifier twice.
var ErrDuplicateID = errors.New("duplicate manifest identifier")

// Entry is one manifest row.
type Entry struct {
	ID           string `json:"file_id"`
	RelativePath string `json:"relative_path"`
}

// Index is an immutable identifier to relative path mapping that remembers
// load order.
type Index struct {
	entries []Entry
}

// NewIndex copies entries into an index. Identifiers must be unique.
func NewIndex(entries []Entry) (*Index, error) {
	idx := &Index{entries: make([]Entry, 0, len(entries))}
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, exists := seen[entry.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, entry.ID)
		}
		seen[entry.ID] = struct{}{}
		idx.entries = append(idx.entries, entry)
	}
	return idx, nil
}

// Len returns the number of entries.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// Entries returns a copy of the entries in load order.
func (i *Index) Entries() []Entry {
	if i == nil {
		return nil
	}
	out := make([]Entry, len(i.entries))
	copy(out, i.entries)
	return out
}
