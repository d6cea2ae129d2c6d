// Package labelmap builds the authoritative map from every identifier
// form a sample may take to its one output label. Downstream
// relabeling consumes the map read-only.
package labelmap

import (
	"strings"

	"github.com/omni2tree/o2tprep/fiveletter"
	"github.com/omni2tree/o2tprep/metadata"
	"github.com/omni2tree/o2tprep/sampleid"
)

// Lookup resolves a normalized sample identifier to its output label.
// It is fully populated by Build and never modified afterwards.
type Lookup struct {
	labels     map[string]string
	collisions int
}

// Resolve returns the output label bound to a candidate identifier.
// Callers are expected to strip the pair suffix before looking up.
func (l *Lookup) Resolve(id string) (string, bool) {
	label, ok := l.labels[id]
	return label, ok
}

// Len reports the number of bound candidate identifiers.
func (l *Lookup) Len() int {
	return len(l.labels)
}

// Collisions reports how many candidate identifiers were discarded
// because they were already bound to a different label.
func (l *Lookup) Collisions() int {
	return l.collisions
}

// Build constructs the candidate->label map from a metadata table. For
// each row, three candidate identifiers resolve to the row's output
// label, each normalized by stripping the pair suffix: the match
// column value itself, its comparison key, and, when the comparison
// key is present in the reference code index, the five-letter code,
// which bridges the taxon-name and short-code namespaces. Insertion is
// first-write-wins: a candidate already bound to a different label is
// discarded and counted as a collision. Rows with an empty match value
// or an empty output label contribute nothing.
//
// The output label comes from the table's label column when one
// exists, otherwise from the match column. A nil codes index disables
// the code candidate rule.
func Build(t *metadata.Table, matchColumn string, codes *fiveletter.Index) (*Lookup, error) {
	if !t.HasColumn(matchColumn) {
		return nil, metadata.MissingColumnError{Column: matchColumn}
	}

	outColumn := t.LabelColumn
	if outColumn == "" {
		outColumn = matchColumn
	}

	l := &Lookup{labels: make(map[string]string)}
	for _, row := range t.Rows {
		match := strings.TrimSpace(row.Values[matchColumn])
		if match == "" {
			continue
		}
		label := strings.TrimSpace(row.Values[outColumn])
		if label == "" {
			continue
		}

		candidates := []string{sampleid.StripPairSuffix(match)}
		if key := sampleid.Key(match); key != "" {
			candidates = append(candidates, sampleid.StripPairSuffix(key))
			if codes != nil {
				if code, ok := codes.CodeForKey(key); ok {
					candidates = append(candidates, sampleid.StripPairSuffix(code))
				}
			}
		}

		for _, candidate := range candidates {
			if candidate == "" {
				continue
			}
			if existing, ok := l.labels[candidate]; ok {
				if existing != label {
					l.collisions++
				}
				continue
			}
			l.labels[candidate] = label
		}
	}

	return l, nil
}
