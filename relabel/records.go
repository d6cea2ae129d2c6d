// Package relabel applies the canonical label mapping to the
// identifier streams produced outside the metadata table: alignment
// position records and tree leaf names.
package relabel

import (
	"strings"

	"github.com/omni2tree/o2tprep/labelmap"
	"github.com/omni2tree/o2tprep/msa"
	"github.com/omni2tree/o2tprep/sampleid"
)

// Records rewrites each record's sample identifier through the lookup.
// Identifiers are pair-suffix stripped before resolution; records
// whose normalized identifier is not bound in the lookup are dropped.
// The returned counts are the distinct normalized identifiers seen
// before and after dropping, for the caller's accounting.
func Records(records []msa.PositionRecord, lookup *labelmap.Lookup) (kept []msa.PositionRecord, before, after int) {
	seen := make(map[string]bool)
	matched := make(map[string]bool)

	for _, record := range records {
		id := sampleid.StripPairSuffix(strings.TrimSpace(record.Label))
		seen[id] = true

		label, ok := lookup.Resolve(id)
		if !ok {
			continue
		}
		matched[id] = true

		record.Label = label
		kept = append(kept, record)
	}

	return kept, len(seen), len(matched)
}
