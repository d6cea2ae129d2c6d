// Package genepick chooses one representative gene name per ortholog
// group from a multiset of observed names.
package genepick

import (
	"regexp"
	"sort"
	"strings"
)

// Observation is one (OG, gene name) row as observed in the input
// table.
type Observation struct {
	OG   string
	Gene string
}

// Choice is the selected gene name for one OG.
type Choice struct {
	OG   string `csv:"OG"`
	Gene string `csv:"gene"`
}

// Conflict records one observed gene name for an OG that carried more
// than one distinct name, alongside the name that won.
type Conflict struct {
	OG          string `csv:"OG"`
	Gene        string `csv:"gene_name"`
	Count       int    `csv:"count"`
	ChosenGene  string `csv:"chosen_gene"`
	ChosenCount int    `csv:"chosen_count"`
}

// Result is the outcome of a selection run.
type Result struct {
	Choices   []Choice
	Conflicts []Conflict
}

// NoValidRowsError reports that no observation survived filtering, so
// there is nothing to select from.
type NoValidRowsError struct{}

func (NoValidRowsError) Error() string {
	return "No valid OG/Gene rows available after filtering"
}

// Matches OG identifiers like "OG12": an alphabetic prefix followed by
// a decimal suffix.
var ogKey = regexp.MustCompile(`^([A-Za-z_]+)([0-9]+)$`)

// Select picks one gene name per OG. The name with the highest
// observation count wins; ties break to the case-insensitively
// smallest name, and names equal under case folding break by raw byte
// order, so the outcome never depends on input order. Unless keepEmpty
// is set, observations with an empty gene name are ignored. OGs that
// carried more than one distinct surviving name additionally produce
// Conflict rows ordered by count descending. Choices come back sorted
// by the natural OG key ("OG9" before "OG10"), with OGs not matching
// the prefix+number shape after all that do, in raw order.
func Select(observations []Observation, keepEmpty bool) (Result, error) {
	counts := make(map[string]map[string]int)
	for _, obs := range observations {
		if !keepEmpty && obs.Gene == "" {
			continue
		}
		genes := counts[obs.OG]
		if genes == nil {
			genes = make(map[string]int)
			counts[obs.OG] = genes
		}
		genes[obs.Gene]++
	}

	if len(counts) == 0 {
		return Result{}, NoValidRowsError{}
	}

	ogs := make([]string, 0, len(counts))
	for og := range counts {
		ogs = append(ogs, og)
	}
	sort.Slice(ogs, func(i, j int) bool { return ogLess(ogs[i], ogs[j]) })

	var res Result
	for _, og := range ogs {
		genes := counts[og]

		names := make([]string, 0, len(genes))
		for name := range genes {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if genes[names[i]] != genes[names[j]] {
				return genes[names[i]] > genes[names[j]]
			}
			return nameLess(names[i], names[j])
		})

		chosen := names[0]
		res.Choices = append(res.Choices, Choice{OG: og, Gene: chosen})

		if len(names) > 1 {
			for _, name := range names {
				res.Conflicts = append(res.Conflicts, Conflict{
					OG:          og,
					Gene:        name,
					Count:       genes[name],
					ChosenGene:  chosen,
					ChosenCount: genes[chosen],
				})
			}
		}
	}

	return res, nil
}

// AmbiguousNameOGs returns the sorted, deduplicated OGs that carry a
// gene name equal to NA or NAN ignoring case. Such names are kept as
// valid gene names, but callers should warn about them because they
// usually signal a missing-value artifact in the source table.
func AmbiguousNameOGs(observations []Observation) []string {
	seen := make(map[string]bool)
	for _, obs := range observations {
		switch strings.ToUpper(obs.Gene) {
		case "NA", "NAN":
			seen[obs.OG] = true
		}
	}

	ogs := make([]string, 0, len(seen))
	for og := range seen {
		ogs = append(ogs, og)
	}
	sort.Strings(ogs)

	return ogs
}

// nameLess orders gene names case-insensitively, falling back to raw
// byte order for names that are equal under case folding.
func nameLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}

	return a < b
}

// ogLess orders OGs by their natural key: prefix, then numeric suffix,
// so "OG9" sorts before "OG10". OGs that do not match the
// prefix+number shape sort after all OGs that do, by raw string.
func ogLess(a, b string) bool {
	ma := ogKey.FindStringSubmatch(a)
	mb := ogKey.FindStringSubmatch(b)

	switch {
	case ma != nil && mb != nil:
		if ma[1] != mb[1] {
			return ma[1] < mb[1]
		}
		na, nb := numeric(ma[2]), numeric(mb[2])
		if na != nb {
			return na < nb
		}
		return a < b
	case ma != nil:
		return true
	case mb != nil:
		return false
	default:
		return a < b
	}
}

// numeric parses a digit-only string, tolerating leading zeros. The
// input is guaranteed to match [0-9]+ by the ogKey pattern.
func numeric(digits string) int {
	n := 0
	for _, d := range digits {
		n = n*10 + int(d-'0')
	}

	return n
}
