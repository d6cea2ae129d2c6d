// Package fiveletter indexes the reference table that pairs taxon
// labels with the five-letter codes the alignment stage uses as sample
// identifiers. The index bridges the two namespaces in both
// directions: comparison key of the taxon label -> code, and code ->
// taxon label.
package fiveletter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/omni2tree/o2tprep/sampleid"
)

// DuplicateCodeError reports a five-letter code that appears on more
// than one line of the reference table.
type DuplicateCodeError struct {
	Code string
}

func (e DuplicateCodeError) Error() string {
	return fmt.Sprintf("Duplicated five-letter code: %s", e.Code)
}

// CollidingTaxonError reports two distinct taxon labels that reduce to
// the same comparison key, making their identity ambiguous.
type CollidingTaxonError struct {
	Taxon     string
	Colliding string
}

func (e CollidingTaxonError) Error() string {
	return fmt.Sprintf("Colliding taxon names after alphanumeric cleanup: '%s' and '%s'", e.Taxon, e.Colliding)
}

// Index maps between taxon comparison keys and five-letter codes. It
// is fully populated by Build or BuildPermissive and never modified
// afterwards.
type Index struct {
	codeByKey   map[string]string
	taxonByCode map[string]string
}

// CodeForKey returns the five-letter code registered for a taxon
// comparison key.
func (x *Index) CodeForKey(key string) (string, bool) {
	code, ok := x.codeByKey[key]
	return code, ok
}

// TaxonForCode returns the taxon label registered for a five-letter
// code.
func (x *Index) TaxonForCode(code string) (string, bool) {
	taxon, ok := x.taxonByCode[code]
	return taxon, ok
}

// Len reports the number of indexed (taxon, code) entries.
func (x *Index) Len() int {
	return len(x.taxonByCode)
}

// Keys returns every indexed taxon comparison key, in no particular
// order.
func (x *Index) Keys() []string {
	keys := make([]string, 0, len(x.codeByKey))
	for key := range x.codeByKey {
		keys = append(keys, key)
	}

	return keys
}

// Build constructs the index used for hard validation: a repeated code
// fails with DuplicateCodeError and two taxa sharing a comparison key
// fail with CollidingTaxonError. No partial index is returned on
// error.
func Build(r io.Reader) (*Index, error) {
	return build(r, true)
}

// BuildPermissive constructs the best-effort index used for matching:
// the first occurrence wins for repeated codes and colliding keys, and
// entries whose taxon reduces to an empty comparison key are dropped
// because they can never match anything.
func BuildPermissive(r io.Reader) (*Index, error) {
	return build(r, false)
}

func build(r io.Reader, strict bool) (*Index, error) {
	x := &Index{
		codeByKey:   make(map[string]string),
		taxonByCode: make(map[string]string),
	}

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) != 2 {
			return nil, fmt.Errorf("Invalid five_letter line %d: expected 2 tab-separated columns", lineNo)
		}
		taxon, code := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

		key := sampleid.Key(taxon)
		if strict {
			if _, seen := x.taxonByCode[code]; seen {
				return nil, DuplicateCodeError{Code: code}
			}
			if existingCode, seen := x.codeByKey[key]; seen {
				return nil, CollidingTaxonError{Taxon: taxon, Colliding: x.taxonByCode[existingCode]}
			}
		} else {
			if key == "" {
				continue
			}
			if _, seen := x.taxonByCode[code]; seen {
				continue
			}
			if _, seen := x.codeByKey[key]; seen {
				continue
			}
		}

		x.codeByKey[key] = code
		x.taxonByCode[code] = taxon
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	return x, nil
}
