package validate

import (
	"github.com/araddon/dateparse"

	"github.com/omni2tree/o2tprep/metadata"
)

// DateWarning counts the values in one date-typed column that no
// known date layout could parse. First holds the first such value.
type DateWarning struct {
	Column string
	Count  int
	First  string
}

// SweepDates checks every non-empty cell in the date-typed columns
// against the known date layouts. Unparsable values never fail the
// run; the caller reports the returned warnings, one per affected
// column, in header order.
func SweepDates(t *metadata.Table) []DateWarning {
	var warnings []DateWarning
	for i, column := range t.Header {
		if i >= len(t.Types) || t.Types[i] != "date" {
			continue
		}

		warning := DateWarning{Column: column}
		for _, row := range t.Rows {
			cell := row.Values[column]
			if cell == "" {
				continue
			}
			if _, err := dateparse.ParseAny(cell); err != nil {
				if warning.Count == 0 {
					warning.First = cell
				}
				warning.Count++
			}
		}
		if warning.Count > 0 {
			warnings = append(warnings, warning)
		}
	}

	return warnings
}
