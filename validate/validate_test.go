package validate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/omni2tree/o2tprep/fiveletter"
	"github.com/omni2tree/o2tprep/metadata"
)

func parseTable(t *testing.T, csv string) *metadata.Table {
	t.Helper()

	table, err := metadata.Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}

	return table
}

func buildIndex(t *testing.T, tsv string) *fiveletter.Index {
	t.Helper()

	codes, err := fiveletter.Build(strings.NewReader(tsv))
	if err != nil {
		t.Fatal(err)
	}

	return codes
}

const coveringMetadata = "label,accession,collection_date\n" +
	"character,character,date\n" +
	"Hepatitis C 1a,NC_004102,2021-01-02\n" +
	"reads_55,SRR100,2020-05-06\n"

func TestCheckTypeTags(t *testing.T) {
	if err := CheckTypeTags(parseTable(t, coveringMetadata)); err != nil {
		t.Fatal(err)
	}

	table := parseTable(t, "label,accession,a,b\ncharacter,factor,bogus,factor\nx,y,1,2\n")
	err := CheckTypeTags(table)

	var invalid InvalidTypeTagError
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want InvalidTypeTagError", err)
	}
	if got, want := strings.Join(invalid.Tags, ","), "bogus,factor"; got != want {
		t.Fatalf("Tags = %s, want %s", got, want)
	}
}

func TestCheckFields(t *testing.T) {
	if err := CheckFields(parseTable(t, coveringMetadata)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		csv  string
		want string
	}{
		{
			name: "empty label",
			csv:  "label,accession\ncharacter,character\nx,y\n,z\n",
			want: "Metadata row 4 has empty label",
		},
		{
			name: "comma in label",
			csv:  "label,accession\ncharacter,character\n\"a,b\",y\n",
			want: "Metadata row 3 label contains a comma; labels must not contain commas",
		},
		{
			name: "empty accession",
			csv:  "label,accession\ncharacter,character\nx,\n",
			want: "Metadata row 3 has empty accession",
		},
		{
			name: "comma in accession",
			csv:  "label,accession\ncharacter,character\nx,\"y,z\"\n",
			want: "Metadata row 3 accession contains a comma; exactly one accession is required per row",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := CheckFields(parseTable(t, test.csv))
			if err == nil || err.Error() != test.want {
				t.Fatalf("error = %v, want %s", err, test.want)
			}
		})
	}
}

func TestCheckReferenceCoverage(t *testing.T) {
	table := parseTable(t, coveringMetadata)
	codes := buildIndex(t, "Hepatitis C 1a\ts0001\n")

	if err := CheckReferenceCoverage(table, codes); err != nil {
		t.Fatal(err)
	}

	codes = buildIndex(t, "Hepatitis C 1a\ts0001\nDengue virus 2\ts0002\n")
	err := CheckReferenceCoverage(table, codes)

	var missing ReferenceCoverageError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want ReferenceCoverageError", err)
	}
	if len(missing.Taxa) != 1 || missing.Taxa[0] != "Dengue virus 2" {
		t.Fatalf("Taxa = %v, want [Dengue virus 2]", missing.Taxa)
	}
}

func TestDiscoverReadsets(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"reads_55_all_cov.txt", "reads_54_all_cov.txt", "_all_cov.txt", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub_all_cov.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	names, err := DiscoverReadsets(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.Join(names, ","), "reads_54,reads_55"; got != want {
		t.Fatalf("names = %s, want %s", got, want)
	}
}

func TestDiscoverReadsetsErrors(t *testing.T) {
	if _, err := DiscoverReadsets(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing directory")
	}

	file := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := DiscoverReadsets(file); err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Fatalf("error = %v, want not-a-directory", err)
	}

	if _, err := DiscoverReadsets(t.TempDir()); err == nil || !strings.Contains(err.Error(), "No '*_all_cov.txt' files") {
		t.Fatalf("error = %v, want empty-scan failure", err)
	}
}

func TestCheckReadsetCoverage(t *testing.T) {
	table := parseTable(t, coveringMetadata)

	if err := CheckReadsetCoverage(table, []string{"reads_55"}); err != nil {
		t.Fatal(err)
	}

	err := CheckReadsetCoverage(table, []string{"reads_55", "reads_56"})

	var missing ReadsetCoverageError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want ReadsetCoverageError", err)
	}
	if len(missing.Names) != 1 || missing.Names[0] != "reads_56" {
		t.Fatalf("Names = %v, want [reads_56]", missing.Names)
	}
}

func TestCheckOutputConstraints(t *testing.T) {
	table := parseTable(t, coveringMetadata)
	codes := buildIndex(t, "Hepatitis C 1a\ts0001\n")

	refs, reads, err := CheckOutputConstraints(table, codes)
	if err != nil {
		t.Fatal(err)
	}
	if refs != 1 || reads != 1 {
		t.Fatalf("refs/reads = %d/%d, want 1/1", refs, reads)
	}
}

// The covering fixture passes every gate in the order validatemeta
// runs them.
func TestGatesEndToEnd(t *testing.T) {
	table := parseTable(t, coveringMetadata)
	codes := buildIndex(t, "Hepatitis C 1a\ts0001\n")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "reads_55_all_cov.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := CheckTypeTags(table); err != nil {
		t.Fatal(err)
	}
	if err := CheckFields(table); err != nil {
		t.Fatal(err)
	}
	readsets, err := DiscoverReadsets(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckReferenceCoverage(table, codes); err != nil {
		t.Fatal(err)
	}
	if err := CheckReadsetCoverage(table, readsets); err != nil {
		t.Fatal(err)
	}
	if _, _, err := CheckOutputConstraints(table, codes); err != nil {
		t.Fatal(err)
	}
	if warnings := SweepDates(table); len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
}

func TestCheckOutputConstraintsErrors(t *testing.T) {
	codes := buildIndex(t, "Hepatitis C 1a\ts0001\n")

	tests := []struct {
		name   string
		csv    string
		target error
	}{
		{
			name:   "duplicate label",
			csv:    "label,accession\ncharacter,character\nx,a1\nx,a2\n",
			target: DuplicateLabelError{Label: "x"},
		},
		{
			name:   "duplicate accession",
			csv:    "label,accession\ncharacter,character\nx,a1\ny,a1\n",
			target: DuplicateAccessionError{Accession: "a1"},
		},
		{
			name:   "sanitized collision",
			csv:    "label,accession\ncharacter,character\nStrain 1,a1\nStrain#1,a2\n",
			target: LabelCollisionError{Label: "Strain#1", Colliding: "Strain 1"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := CheckOutputConstraints(parseTable(t, test.csv), codes)
			if err == nil || err.Error() != test.target.Error() {
				t.Fatalf("error = %v, want %v", err, test.target)
			}
		})
	}
}

func TestSweepDates(t *testing.T) {
	table := parseTable(t, "label,accession,collection_date\n"+
		"character,character,date\n"+
		"a,a1,2021-01-02\n"+
		"b,a2,\n"+
		"c,a3,not-a-date\n"+
		"d,a4,also bad\n")

	warnings := SweepDates(table)

	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one entry", warnings)
	}
	if w := warnings[0]; w.Column != "collection_date" || w.Count != 2 || w.First != "not-a-date" {
		t.Fatalf("warning = %+v", w)
	}
}

func TestSweepDatesCleanTable(t *testing.T) {
	if warnings := SweepDates(parseTable(t, coveringMetadata)); len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
}
