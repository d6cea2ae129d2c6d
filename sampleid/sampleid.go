// Package sampleid normalizes the sample identifiers that reach the
// pipeline under different naming schemes: free-text metadata labels,
// five-letter reference codes, alignment sample IDs with paired-read
// suffixes, and tree leaf names. Key produces the comparison form used
// to decide whether two identifiers refer to the same sample;
// SanitizeLabel produces the display form written to output artifacts.
package sampleid

import (
	"regexp"
	"strings"
)

var (
	nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]`)
	nonWord  = regexp.MustCompile(`[^A-Za-z0-9_]+`)
	repeated = regexp.MustCompile(`_+`)

	// Exactly _1, _2, _R1 or _R2. Broadening this pattern would change
	// which samples are treated as duplicates, so it stays as-is.
	pairSuffix = regexp.MustCompile(`(_R[12]|_[12])$`)
)

// Key reduces text to its comparison key: every character outside
// [A-Za-z0-9] is removed. The key is only ever used for equality and
// map lookups, never written to output. An empty key matches nothing.
func Key(text string) string {
	return nonAlnum.ReplaceAllString(text, "")
}

// StripPairSuffix removes one trailing paired-read token (_1, _2, _R1
// or _R2) appended by the mapping and merging stages. Any other input
// is returned unchanged.
func StripPairSuffix(text string) string {
	return pairSuffix.ReplaceAllString(text, "")
}

// SanitizeLabel converts text into a display label safe for trees and
// delimited tables: the pair suffix is stripped, every run of
// characters outside [A-Za-z0-9_] becomes a single underscore,
// repeated underscores collapse, and leading or trailing underscores
// are trimmed. An empty result becomes "NA".
func SanitizeLabel(text string) string {
	s := StripPairSuffix(text)
	s = nonWord.ReplaceAllString(s, "_")
	s = repeated.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "NA"
	}

	return s
}
