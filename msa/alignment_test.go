package msa

import (
	"reflect"
	"strings"
	"testing"
)

func TestReadAlignmentFasta(t *testing.T) {
	in := `>s0001 reference strain
MKT-L
>reads_55_R1
MKTAL
`

	seqs, err := ReadAlignment(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}

	want := []Sequence{
		{Name: "s0001", Seq: "MKT-L"},
		{Name: "reads_55_R1", Seq: "MKTAL"},
	}
	if !reflect.DeepEqual(seqs, want) {
		t.Fatalf("sequences = %+v, want %+v", seqs, want)
	}
}

func TestReadAlignmentFastaMultiline(t *testing.T) {
	in := ">a\nMK\nTAL\n>b\nMKT\nAL\n"

	seqs, err := ReadAlignment(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if seqs[0].Seq != "MKTAL" || seqs[1].Seq != "MKTAL" {
		t.Fatalf("sequences = %+v", seqs)
	}
}

func TestReadAlignmentPhylip(t *testing.T) {
	in := ` 2 10
s0001  MKTAL
reads_55_R1  CNDAL

GGRE-
HHQQP
`

	seqs, err := ReadAlignment(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}

	want := []Sequence{
		{Name: "s0001", Seq: "MKTALGGRE-"},
		{Name: "reads_55_R1", Seq: "CNDALHHQQP"},
	}
	if !reflect.DeepEqual(seqs, want) {
		t.Fatalf("sequences = %+v, want %+v", seqs, want)
	}
}

func TestReadAlignmentPhylipChunked(t *testing.T) {
	// Sequence chunks on the name line are joined.
	in := "1 10\nsample MKTAL GGRE-\n"

	seqs, err := ReadAlignment(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if seqs[0].Seq != "MKTALGGRE-" {
		t.Fatalf("sequence = %q", seqs[0].Seq)
	}
}

func TestReadAlignmentErrors(t *testing.T) {
	for _, v := range []struct {
		name string
		in   string
	}{
		{"empty input", ""},
		{"fasta length mismatch", ">a\nMKTAL\n>b\nMK\n"},
		{"phylip length mismatch", "2 5\na MKTAL\nb MK\n"},
		{"phylip short header", "5\n"},
		{"phylip missing sequences", "3 5\na MKTAL\nb MKTAL\n"},
		{"phylip zero count", "0 0\n"},
	} {
		if _, err := ReadAlignment(strings.NewReader(v.in)); err == nil {
			t.Fatalf("%s: ReadAlignment accepted malformed input", v.name)
		}
	}
}

func TestBuildPositions(t *testing.T) {
	records := BuildPositions([]Sequence{{Name: "a", Seq: "MK"}}, "OG7", "core", "AA")

	want := []PositionRecord{
		{Label: "a", Position: 1, Character: "M", OG: "OG7", Gene: "core", SeqType: "AA"},
		{Label: "a", Position: 2, Character: "K", OG: "OG7", Gene: "core", SeqType: "AA"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Fatalf("records = %+v, want %+v", records, want)
	}
}
