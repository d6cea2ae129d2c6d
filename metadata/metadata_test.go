package metadata

import (
	"errors"
	"strings"
	"testing"
)

const curated = `label,accession,collection_date,region
character,character,date,character
Strain One,ACC001,2021-03-04,EU
Strain Two,ACC002,,AS
`

func TestParse(t *testing.T) {
	tbl, err := Parse(strings.NewReader(curated))
	if err != nil {
		t.Fatal(err)
	}

	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	if tbl.LabelColumn != "label" || tbl.AccessionColumn != "accession" {
		t.Fatalf("resolved columns = %q, %q", tbl.LabelColumn, tbl.AccessionColumn)
	}
	if got := tbl.Rows[0].Values["region"]; got != "EU" {
		t.Fatalf("region = %q, want EU", got)
	}
	if tbl.Rows[1].Line != 4 {
		t.Fatalf("second data row line = %d, want 4", tbl.Rows[1].Line)
	}
}

func TestParseResolvesColumnsCaseInsensitively(t *testing.T) {
	in := "Label,ACCESSION\ncharacter,character\nx,y\n"

	tbl, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if tbl.LabelColumn != "Label" || tbl.AccessionColumn != "ACCESSION" {
		t.Fatalf("resolved columns = %q, %q", tbl.LabelColumn, tbl.AccessionColumn)
	}
}

func TestParsePadsShortRows(t *testing.T) {
	in := "label,accession,region\ncharacter,character,character\nStrain,ACC001\n"

	tbl, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Rows[0].Values["region"]; got != "" {
		t.Fatalf("short row not padded, region = %q", got)
	}
}

func TestParseRejectsLongRows(t *testing.T) {
	in := "label,accession\ncharacter,character\nStrain,ACC001,extra\n"

	_, err := Parse(strings.NewReader(in))

	var structural StructuralParseError
	if !errors.As(err, &structural) {
		t.Fatalf("error = %v, want StructuralParseError", err)
	}
	if structural.Row != 3 {
		t.Fatalf("error row = %d, want 3", structural.Row)
	}
}

func TestParseSkipsEmptyRows(t *testing.T) {
	in := "label,accession\ncharacter,character\n,\nStrain,ACC001\n"

	tbl, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("rows = %d, want 1 (all-empty row skipped)", len(tbl.Rows))
	}
}

func TestParseStructureErrors(t *testing.T) {
	for _, v := range []struct {
		name string
		in   string
	}{
		{"too few rows", "label,accession\ncharacter,character\n"},
		{"count mismatch", "label,accession\ncharacter\nx,y\n"},
		{"only empty data", "label,accession\ncharacter,character\n,\n"},
	} {
		var structural StructuralParseError
		if _, err := Parse(strings.NewReader(v.in)); !errors.As(err, &structural) {
			t.Fatalf("%s: error = %v, want StructuralParseError", v.name, err)
		}
	}

	var missing MissingColumnError
	if _, err := Parse(strings.NewReader("label,sample\ncharacter,character\nx,y\n")); !errors.As(err, &missing) {
		t.Fatal("missing accession column not reported")
	}
	if missing.Column != "accession" {
		t.Fatalf("missing column = %q, want accession", missing.Column)
	}
}

func TestParsePlainDropsTypeRow(t *testing.T) {
	in := "label,genotype\ncharacter,factor\nSample A,GT1\n"

	tbl, dropped, err := ParsePlain(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if !dropped {
		t.Fatal("type row not detected")
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0].Values["genotype"] != "GT1" {
		t.Fatalf("rows = %+v", tbl.Rows)
	}
	if tbl.Rows[0].Line != 3 {
		t.Fatalf("data row line = %d, want 3", tbl.Rows[0].Line)
	}
}

func TestParsePlainKeepsDataRow(t *testing.T) {
	// "GT1" is not a type tag, so the first row is data.
	in := "label,genotype\nSample A,GT1\nSample B,GT2\n"

	tbl, dropped, err := ParsePlain(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if dropped {
		t.Fatal("data row misdetected as type row")
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
}

func TestParsePlainKeepsCellsVerbatim(t *testing.T) {
	in := "label,genotype\n Sample A ,GT1\n"

	tbl, _, err := ParsePlain(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Rows[0].Values["label"]; got != " Sample A " {
		t.Fatalf("cell = %q, want verbatim value", got)
	}
}
