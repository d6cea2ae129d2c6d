// Package validate runs the metadata gate checks that must pass
// before the expensive pipeline steps are started. Each check is one
// gate; the first failure aborts the run.
package validate

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/omni2tree/o2tprep/fiveletter"
	"github.com/omni2tree/o2tprep/metadata"
	"github.com/omni2tree/o2tprep/sampleid"
)

// validTypes is the strict tag set accepted in the metadata type row.
// The view preparer tolerates a wider set; the validator does not.
var validTypes = map[string]bool{
	"character": true,
	"date":      true,
	"numeric":   true,
	"integer":   true,
}

// InvalidTypeTagError reports unknown tags in the metadata type row.
type InvalidTypeTagError struct {
	Tags []string
}

func (e InvalidTypeTagError) Error() string {
	return fmt.Sprintf("Invalid metadata column types in second row: %s (allowed: character, date, integer, numeric)",
		strings.Join(e.Tags, ", "))
}

// EmptyFieldError reports an empty label or accession cell.
type EmptyFieldError struct {
	Row   int
	Field string
}

func (e EmptyFieldError) Error() string {
	return fmt.Sprintf("Metadata row %d has empty %s", e.Row, e.Field)
}

// ReservedCharacterError reports a comma inside a label or accession
// cell. Commas would break the comma-separated outputs downstream.
type ReservedCharacterError struct {
	Row   int
	Field string
}

func (e ReservedCharacterError) Error() string {
	if e.Field == "accession" {
		return fmt.Sprintf("Metadata row %d accession contains a comma; exactly one accession is required per row", e.Row)
	}

	return fmt.Sprintf("Metadata row %d label contains a comma; labels must not contain commas", e.Row)
}

// ReferenceCoverageError reports reference taxa whose comparison key
// never appears among the metadata labels.
type ReferenceCoverageError struct {
	Taxa []string
}

func (e ReferenceCoverageError) Error() string {
	return "Metadata is missing reference label(s) required by five_letter_taxon.tsv (comparison after alphanumeric cleanup): " +
		strings.Join(e.Taxa, ", ")
}

// ReadsetCoverageError reports consensus readsets absent from the
// metadata label column.
type ReadsetCoverageError struct {
	Names []string
}

func (e ReadsetCoverageError) Error() string {
	return "Metadata label column is missing readset name(s) present in O2T_RESULTS/*_all_cov.txt: " +
		strings.Join(e.Names, ", ")
}

// DuplicateLabelError reports a label that appears on more than one
// metadata row.
type DuplicateLabelError struct {
	Label string
}

func (e DuplicateLabelError) Error() string {
	return fmt.Sprintf("Duplicated label in metadata: %s", e.Label)
}

// DuplicateAccessionError reports an accession that appears on more
// than one metadata row.
type DuplicateAccessionError struct {
	Accession string
}

func (e DuplicateAccessionError) Error() string {
	return fmt.Sprintf("Duplicated accession/sample_id in metadata: %s", e.Accession)
}

// LabelCollisionError reports two distinct labels that become
// indistinguishable after sanitization and alphanumeric cleanup.
type LabelCollisionError struct {
	Label     string
	Colliding string
}

func (e LabelCollisionError) Error() string {
	return fmt.Sprintf("Label collision after alphanumeric normalization: '%s' collides with '%s'", e.Label, e.Colliding)
}

// CheckTypeTags rejects type-row tags outside the strict set.
func CheckTypeTags(t *metadata.Table) error {
	bad := make(map[string]bool)
	for _, tag := range t.Types {
		if !validTypes[tag] {
			bad[tag] = true
		}
	}
	if len(bad) == 0 {
		return nil
	}

	tags := make([]string, 0, len(bad))
	for tag := range bad {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return InvalidTypeTagError{Tags: tags}
}

// CheckFields enforces the per-row label and accession constraints:
// both non-empty, neither containing a comma.
func CheckFields(t *metadata.Table) error {
	for _, row := range t.Rows {
		label := row.Values[t.LabelColumn]
		if label == "" {
			return EmptyFieldError{Row: row.Line, Field: "label"}
		}
		if strings.Contains(label, ",") {
			return ReservedCharacterError{Row: row.Line, Field: "label"}
		}

		accession := row.Values[t.AccessionColumn]
		if accession == "" {
			return EmptyFieldError{Row: row.Line, Field: "accession"}
		}
		if strings.Contains(accession, ",") {
			return ReservedCharacterError{Row: row.Line, Field: "accession"}
		}
	}

	return nil
}

// CheckReferenceCoverage requires every comparison key in the index to
// appear among the metadata label comparison keys. Missing taxa are
// listed in key order.
func CheckReferenceCoverage(t *metadata.Table, codes *fiveletter.Index) error {
	labelKeys := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		labelKeys[sampleid.Key(row.Values[t.LabelColumn])] = true
	}

	keys := codes.Keys()
	sort.Strings(keys)

	var taxa []string
	for _, key := range keys {
		if labelKeys[key] {
			continue
		}
		code, _ := codes.CodeForKey(key)
		taxon, _ := codes.TaxonForCode(code)
		taxa = append(taxa, taxon)
	}
	if len(taxa) > 0 {
		return ReferenceCoverageError{Taxa: taxa}
	}

	return nil
}

// DiscoverReadsets scans a Read2Tree results directory for
// *_all_cov.txt files and returns the deduplicated, sorted readset
// names, each being the filename with the suffix removed. A missing
// path, a non-directory path, or an empty scan is an error.
func DiscoverReadsets(dir string) ([]string, error) {
	const suffix = "_all_cov.txt"

	info, err := os.Stat(dir)
	if err != nil {
		return nil, pfx.Err(err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("O2T_RESULTS path is not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, pfx.Err(err)
	}

	seen := make(map[string]bool)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, suffix) || name == suffix {
			continue
		}
		seen[strings.TrimSuffix(name, suffix)] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("No '*%s' files found in %s", suffix, dir)
	}

	return names, nil
}

// CheckReadsetCoverage requires every discovered readset name to
// appear verbatim in the metadata label column.
func CheckReadsetCoverage(t *metadata.Table, readsets []string) error {
	labels := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		labels[row.Values[t.LabelColumn]] = true
	}

	var missing []string
	for _, name := range readsets {
		if !labels[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return ReadsetCoverageError{Names: missing}
	}

	return nil
}

// CheckOutputConstraints enforces the uniqueness invariants on the
// final table: no duplicated raw label, no duplicated accession, and
// no two labels whose sanitized forms share a comparison key. On
// success it returns how many rows matched the reference index and
// how many did not.
func CheckOutputConstraints(t *metadata.Table, codes *fiveletter.Index) (refs, reads int, err error) {
	seenLabels := make(map[string]bool, len(t.Rows))
	seenAccessions := make(map[string]bool, len(t.Rows))
	seenKeys := make(map[string]string, len(t.Rows))

	for _, row := range t.Rows {
		label := row.Values[t.LabelColumn]
		accession := row.Values[t.AccessionColumn]

		if seenLabels[label] {
			return 0, 0, DuplicateLabelError{Label: label}
		}
		seenLabels[label] = true

		if seenAccessions[accession] {
			return 0, 0, DuplicateAccessionError{Accession: accession}
		}
		seenAccessions[accession] = true

		collisionKey := sampleid.Key(sampleid.SanitizeLabel(label))
		if previous, ok := seenKeys[collisionKey]; ok {
			return 0, 0, LabelCollisionError{Label: label, Colliding: previous}
		}
		seenKeys[collisionKey] = label

		if _, ok := codes.CodeForKey(sampleid.Key(label)); ok {
			refs++
		} else {
			reads++
		}
	}

	return refs, reads, nil
}
