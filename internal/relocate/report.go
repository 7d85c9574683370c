package relocate

import (
	"path/filepath"
	"sort"

	"backupphotos/internal/classify"
	"backupphotos/internal/layout"
)

// Kind classifies a successful outcome.
type Kind int

const (
	// KindRelocated is a plain move into the destination directory.
	KindRelocated Kind = iota
	// KindLivePair is a move into the entry's wrapper directory.
	KindLivePair
	// KindSkippedPair leaves a paired file in the backup because neither the
	// wrapper nor its standalone type is wanted.
	KindSkippedPair
)

func (k Kind) String() string {
	switch k {
	case KindRelocated:
		return "relocated"
	case KindLivePair:
		return "relocated-as-live-pair"
	case KindSkippedPair:
		return "skipped-as-duplicate-of-pair"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Outcome records a successfully handled entry.
type Outcome struct {
	Entry       classify.Entry `json:"entry"`
	Kind        Kind           `json:"kind"`
	Source      string         `json:"source"`
	Destination string         `json:"destination"`
	// Path is the final location of the moved file. Empty for skipped pairs.
	Path string `json:"path,omitempty"`
	// StandaloneCopy is set when a wrapped file was also copied into the
	// destination directory.
	StandaloneCopy string `json:"standalone_copy,omitempty"`
}

// NotFoundRecord is a classified entry whose stored file is missing from the
// backup.
type NotFoundRecord struct {
	ID           string            `json:"file_id"`
	RelativePath string            `json:"relative_path"`
	Category     classify.Category `json:"category"`
}

// Failure is an entry whose directory creation, move or copy failed.
type Failure struct {
	Entry       classify.Entry `json:"entry"`
	Destination string         `json:"destination"`
	// Path is where the file sits when it left the backup before the failure.
	Path    string `json:"path,omitempty"`
	Err     error  `json:"-"`
	Message string `json:"error"`
}

// Counts tallies a report for one category.
type Counts struct {
	Relocated int `json:"relocated"`
	LivePairs int `json:"live_pairs"`
	Skipped   int `json:"skipped"`
	NotFound  int `json:"not_found"`
	Failed    int `json:"failed"`
}

// Total returns the number of entries the counts describe.
func (c Counts) Total() int {
	return c.Relocated + c.LivePairs + c.Skipped + c.NotFound + c.Failed
}

// Report is the result of a driver run. Relocated holds every success kind.
type Report struct {
	Relocated []Outcome        `json:"relocated"`
	NotFound  []NotFoundRecord `json:"not_found"`
	Failures  []Failure        `json:"failures"`
}

// Len returns the number of entries accounted for.
func (r Report) Len() int {
	return len(r.Relocated) + len(r.NotFound) + len(r.Failures)
}

// Merge appends other to r.
func (r *Report) Merge(other Report) {
	r.Relocated = append(r.Relocated, other.Relocated...)
	r.NotFound = append(r.NotFound, other.NotFound...)
	r.Failures = append(r.Failures, other.Failures...)
}

// Counts tallies the records that belong to category.
func (r Report) Counts(category classify.Category) Counts {
	var c Counts
	for _, o := range r.Relocated {
		if o.Entry.Category != category {
			continue
		}
		switch o.Kind {
		case KindLivePair:
			c.LivePairs++
		case KindSkippedPair:
			c.Skipped++
		default:
			c.Relocated++
		}
	}
	for _, nf := range r.NotFound {
		if nf.Category == category {
			c.NotFound++
		}
	}
	for _, f := range r.Failures {
		if f.Entry.Category == category {
			c.Failed++
		}
	}
	return c
}

// WrapperDirs returns the distinct wrapper directories files of category were
// moved into, sorted. A destination counts when the resolved directory itself
// is a wrapper (a manifest path inside a ".pvt" folder) or when the entry
// was grouped as a live pair.
func (r Report) WrapperDirs(category classify.Category) []string {
	seen := make(map[string]struct{})
	for _, o := range r.Relocated {
		if o.Entry.Category != category || o.Path == "" {
			continue
		}
		dir := filepath.Dir(o.Path)
		if layout.IsWrapper(filepath.Base(dir)) {
			seen[dir] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for dir := range seen {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out
}
