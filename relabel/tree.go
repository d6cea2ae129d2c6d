package relabel

import (
	"fmt"
	"strings"

	"github.com/evolbioinfo/gotree/tree"

	"github.com/omni2tree/o2tprep/fiveletter"
	"github.com/omni2tree/o2tprep/sampleid"
)

// EmptyTreeError reports a tree without terminal nodes, which leaves
// nothing to relabel.
type EmptyTreeError struct{}

func (EmptyTreeError) Error() string {
	return "No terminal nodes found in tree"
}

// TreeReport summarizes one tree relabeling pass.
type TreeReport struct {
	Terminals          int
	PairSuffixStripped int
	CodeReplaced       int
}

// Tree rewrites every terminal node name in place, leaving topology
// and branch lengths untouched. Per terminal: the pair suffix is
// stripped, then the remaining name is split on underscores and
// scanned for a token matching a five-letter code. A code token
// resolves to its preferred label when one was recorded, or to the
// sanitized taxon name; names without a code token are sanitized
// directly. Finally, repeated names get _2, _3, ... appended to their
// second and later occurrences, in tip order, so the output labels are
// unique. A nil preferred map is allowed.
func Tree(t *tree.Tree, codes *fiveletter.Index, preferred map[string]string) (TreeReport, error) {
	tips := t.Tips()
	if len(tips) == 0 {
		return TreeReport{}, EmptyTreeError{}
	}

	report := TreeReport{Terminals: len(tips)}
	names := make([]string, len(tips))
	for i, tip := range tips {
		original := tip.Name()
		stripped := sampleid.StripPairSuffix(original)
		if stripped != original {
			report.PairSuffixStripped++
		}

		name := ""
		for _, token := range strings.Split(stripped, "_") {
			taxon, ok := codes.TaxonForCode(token)
			if !ok {
				continue
			}
			if label, ok := preferred[token]; ok {
				name = label
			} else {
				name = sampleid.SanitizeLabel(taxon)
			}
			report.CodeReplaced++
			break
		}
		if name == "" {
			name = sampleid.SanitizeLabel(stripped)
		}

		names[i] = name
	}

	for i, name := range uniqueNames(names) {
		tips[i].SetName(name)
	}

	return report, nil
}

// uniqueNames suffixes the 2nd, 3rd, ... occurrence of a repeated name
// with _2, _3, ... in order.
func uniqueNames(names []string) []string {
	counts := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		counts[name]++
		if counts[name] > 1 {
			name = fmt.Sprintf("%s_%d", name, counts[name])
		}
		out[i] = name
	}

	return out
}
