package classify

import (
	"strings"

	"golang.org/x/text/cases"

	"backupphotos/internal/config"
	"backupphotos/internal/manifest"
	"backupphotos/internal/relpath"
)

// CategoryRule enables a category and lists its relative path prefixes in
// configured order.
type CategoryRule struct {
	Category Category
	Enabled  bool
	Filters  []string
}

// Rules drive a classification run.
type Rules struct {
	// Extensions is the allow-list, compared after case folding.
	Extensions []string
	// Categories must be listed in priority order.
	Categories []CategoryRule
}

// RulesFromConfig derives the rule set from a loaded configuration.
func RulesFromConfig(cfg *config.Config) Rules {
	if cfg == nil {
		return Rules{}
	}
	return Rules{
		Extensions: cfg.Extensions(),
		Categories: []CategoryRule{
			{Category: CameraRoll, Enabled: cfg.CameraRoll.Enabled, Filters: append([]string(nil), cfg.CameraRoll.Filters...)},
			{Category: SMSAttachment, Enabled: cfg.SMS.Enabled, Filters: append([]string(nil), cfg.SMS.Filters...)},
		},
	}
}

// Filters returns the filters configured for c.
func (r Rules) Filters(c Category) []string {
	for _, rule := range r.Categories {
		if rule.Category == c {
			return rule.Filters
		}
	}
	return nil
}

// Enabled reports whether c takes part in classification.
func (r Rules) Enabled(c Category) bool {
	for _, rule := range r.Categories {
		if rule.Category == c {
			return rule.Enabled
		}
	}
	return false
}

// Entry is a classified manifest entry.
type Entry struct {
	manifest.Entry
	Category Category `json:"category"`
	Stem     string   `json:"stem"`
	Paired   bool     `json:"paired"`
}

// Role reports the live photo role of the entry's extension.
func (e Entry) Role() Role {
	return RoleOf(e.RelativePath)
}

// Ambiguity records an entry that matched more than one category.
type Ambiguity struct {
	Entry   manifest.Entry
	Kept    Category
	Also    Category
	Matched string
}

// Result is the outcome of a classification run.
type Result struct {
	lists     map[Category][]Entry
	Stems     StemSets
	Ambiguous []Ambiguity
	Rejected  int
}

// Entries returns the entries classified into c in manifest order.
func (r Result) Entries(c Category) []Entry {
	return r.lists[c]
}

// Len returns the number of entries classified into c.
func (r Result) Len(c Category) int {
	return len(r.lists[c])
}

// Total returns the number of classified entries across all categories.
func (r Result) Total() int {
	total := 0
	for _, list := range r.lists {
		total += len(list)
	}
	return total
}

// Classify partitions index according to rules. Camera roll entries have
// Paired set once every stem is known.
func Classify(index *manifest.Index, rules Rules) Result {
	folder := cases.Fold()
	allowed := make(map[string]struct{}, len(rules.Extensions))
	for _, ext := range rules.Extensions {
		ext = folder.String(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}

	result := Result{
		lists: make(map[Category][]Entry),
		Stems: newStemSets(),
	}
	for _, entry := range index.Entries() {
		if _, ok := allowed[FoldExt(entry.RelativePath)]; !ok {
			result.Rejected++
			continue
		}
		category, matched := firstMatch(entry.RelativePath, rules.Categories)
		if !matched {
			result.Rejected++
			continue
		}
		result.lists[category] = append(result.lists[category], Entry{
			Entry:    entry,
			Category: category,
			Stem:     relpath.Stem(entry.RelativePath),
		})
		if category == CameraRoll {
			result.Stems.add(entry.RelativePath)
		}
		if also, filter, ok := laterMatch(entry.RelativePath, category, rules.Categories); ok {
			result.Ambiguous = append(result.Ambiguous, Ambiguity{Entry: entry, Kept: category, Also: also, Matched: filter})
		}
	}

	camera := result.lists[CameraRoll]
	for i := range camera {
		camera[i].Paired = result.Stems.IsPaired(camera[i].RelativePath)
	}
	return result
}

func firstMatch(relativePath string, rules []CategoryRule) (Category, bool) {
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		if _, ok := matchFilter(relativePath, rule.Filters); ok {
			return rule.Category, true
		}
	}
	return 0, false
}

func laterMatch(relativePath string, kept Category, rules []CategoryRule) (Category, string, bool) {
	seen := false
	for _, rule := range rules {
		if rule.Category == kept {
			seen = true
			continue
		}
		if !seen || !rule.Enabled {
			continue
		}
		if filter, ok := matchFilter(relativePath, rule.Filters); ok {
			return rule.Category, filter, true
		}
	}
	return 0, "", false
}

func matchFilter(relativePath string, filters []string) (string, bool) {
	for _, filter := range filters {
		if strings.HasPrefix(relativePath, filter) {
			return filter, true
		}
	}
	return "", false
}
