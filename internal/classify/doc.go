// Package classify sorts manifest entries into output categories and records
// the live photo stems needed to pair stills with their motion halves.
//
// Classification is pure: it consumes a manifest index and a rule set and
// returns a Result value. An entry is kept when its case-folded extension is
// in the allow-list and its relative path starts with one of an enabled
// category's filters. Categories are tried in priority order (camera roll,
// then message attachments) and the first match wins; an entry that would
// also have matched a later category is reported as ambiguous but still
// belongs only to the first.
package classify
