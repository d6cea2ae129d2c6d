package main

import (
	"strings"

	"github.com/omni2tree/o2tprep/fiveletter"
	"github.com/omni2tree/o2tprep/logging"
	"github.com/omni2tree/o2tprep/metadata"
	"github.com/omni2tree/o2tprep/sampleid"
)

// view is the omni2treeview metadata output: a header, a type row,
// the data rows, and the preferred display label recorded for each
// five-letter code found among the references.
type view struct {
	header    []string
	types     []string
	rows      [][]string
	preferred map[string]string
}

// buildView assembles the visualization metadata. Output columns are
// sample_id (the accession), label (sanitized), source (Reference
// when the label's comparison key is indexed, Readset otherwise),
// then every input column except label and accession in header order,
// with empty cells written as NA.
func buildView(meta *metadata.Table, codes *fiveletter.Index) *view {
	var extraCols []string
	var extraTypes []string
	for i, col := range meta.Header {
		lower := strings.ToLower(col)
		if lower == "label" || lower == "accession" {
			continue
		}
		extraCols = append(extraCols, col)
		extraTypes = append(extraTypes, meta.Types[i])
	}

	v := &view{
		header:    append([]string{"sample_id", "label", "source"}, extraCols...),
		types:     append([]string{"character", "character", "character"}, extraTypes...),
		preferred: make(map[string]string),
	}

	refs := 0
	for _, row := range meta.Rows {
		rawLabel := row.Values[meta.LabelColumn]
		label := sampleid.SanitizeLabel(rawLabel)

		source := "Readset"
		if code, ok := codes.CodeForKey(sampleid.Key(rawLabel)); ok {
			source = "Reference"
			v.preferred[code] = label
			refs++
		}

		out := []string{row.Values[meta.AccessionColumn], label, source}
		for _, col := range extraCols {
			cell := row.Values[col]
			if cell == "" {
				cell = "NA"
			}
			out = append(out, cell)
		}
		v.rows = append(v.rows, out)
	}

	logging.Infof("Prepared visualization metadata rows: %d (%d references, %d readsets)",
		len(v.rows), refs, len(v.rows)-refs)

	return v
}
