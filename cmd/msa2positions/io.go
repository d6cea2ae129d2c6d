package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/omni2tree/o2tprep"
	"github.com/omni2tree/o2tprep/fiveletter"
	"github.com/omni2tree/o2tprep/logging"
	"github.com/omni2tree/o2tprep/metadata"
	"github.com/omni2tree/o2tprep/msa"
)

// openInput opens a possibly compressed local or gs:// input and
// returns the decompressed reader plus the raw stream for closing.
func openInput(path string) (io.ReadCloser, o2tprep.ReadSeekCloser, error) {
	f, _, err := o2tprep.MaybeOpenSeekerFromGoogleStorage(path, client)
	if err != nil {
		return nil, nil, err
	}

	r, err := o2tprep.MaybeDecompressReadCloser(f)
	if err != nil {
		f.Close()
		return nil, nil, pfx.Err(err)
	}

	return r, f, nil
}

// readOGMapping loads the OG to gene name mapping. The gene column
// may also be named peptide; both are located case-insensitively.
// Later rows win when an OG repeats.
func readOGMapping(path string) (map[string]string, error) {
	r, f, err := openInput(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("OG table not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()
	defer r.Close()

	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("OG table does not contain an 'OG' column")
	}

	ogCol, geneCol, peptideCol := -1, -1, -1
	for i, col := range records[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "og":
			if ogCol < 0 {
				ogCol = i
			}
		case "gene":
			if geneCol < 0 {
				geneCol = i
			}
		case "peptide":
			if peptideCol < 0 {
				peptideCol = i
			}
		}
	}
	if geneCol < 0 {
		geneCol = peptideCol
	}
	if ogCol < 0 {
		return nil, fmt.Errorf("OG table does not contain an 'OG' column")
	}
	if geneCol < 0 {
		return nil, fmt.Errorf("OG table does not contain a 'gene' or 'peptide' column")
	}

	mapping := make(map[string]string, len(records)-1)
	for _, record := range records[1:] {
		mapping[record[ogCol]] = record[geneCol]
	}

	return mapping, nil
}

// readMetadata loads the plain metadata CSV, dropping a detected type
// row, and keeps only the rows matching the optional column filter.
func readMetadata(path, filterColumn, filterValue string) (*metadata.Table, error) {
	r, f, err := openInput(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("Metadata file not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()
	defer r.Close()

	logging.Infof("Loading metadata from %s...", path)
	table, droppedTypeRow, err := metadata.ParsePlain(r)
	if err != nil {
		return nil, err
	}
	if droppedTypeRow {
		logging.Infof("Detected metadata type row, excluding it from matching/filtering")
	}

	if filterColumn != "" && filterValue != "" {
		if !table.HasColumn(filterColumn) {
			return nil, fmt.Errorf("Column %s not found in metadata", filterColumn)
		}

		kept := table.Rows[:0]
		for _, row := range table.Rows {
			if row.Values[filterColumn] == filterValue {
				kept = append(kept, row)
			}
		}
		table.Rows = kept
		logging.Infof("Filtered to %d samples where %s=%s", len(table.Rows), filterColumn, filterValue)
	}

	return table, nil
}

func readFiveLetter(path string) (*fiveletter.Index, error) {
	r, f, err := openInput(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("five_letter file not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()
	defer r.Close()

	return fiveletter.BuildPermissive(r)
}

// readPositions reads one MSA file into position records carrying the
// raw sample identifiers.
func readPositions(path, og, gene, seqType string) ([]msa.PositionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	seqs, err := msa.ReadAlignment(f)
	if err != nil {
		return nil, err
	}

	return msa.BuildPositions(seqs, og, gene, seqType), nil
}

func writeCSV(path string, records interface{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return pfx.Err(err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	if err := gocsv.MarshalFile(records, f); err != nil {
		f.Close()
		return pfx.Err(err)
	}

	return f.Close()
}
