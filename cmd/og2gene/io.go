package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/omni2tree/o2tprep"
	"github.com/omni2tree/o2tprep/genepick"
)

// tableDelimiter maps a recognized filename extension to its
// delimiter, or 0 when the delimiter has to be sniffed from content.
func tableDelimiter(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return '\t'
	case ".csv":
		return ','
	}

	return 0
}

// readObservations loads the OG/Gene columns from the input table,
// located case-insensitively, with every cell trimmed. The input may
// be compressed.
func readObservations(path string) ([]genepick.Observation, error) {
	f, _, err := o2tprep.MaybeOpenSeekerFromGoogleStorage(path, client)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := o2tprep.MaybeDecompressReadCloser(f)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim := tableDelimiter(path)
	if delim == 0 {
		delim = o2tprep.DetermineDelimiter(r)

		// The decompressed reader cannot seek, so rewind the raw
		// stream and decompress again.
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, pfx.Err(err)
		}
		r, err = o2tprep.MaybeDecompressReadCloser(f)
		if err != nil {
			return nil, pfx.Err(err)
		}
	}

	rdr := csv.NewReader(r)
	rdr.Comma = delim

	records, err := rdr.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("Input table does not contain an 'OG' column")
	}

	ogCol, geneCol := -1, -1
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
		}
	}
	if ogCol < 0 {
		return nil, fmt.Errorf("Input table does not contain an 'OG' column")
	}
	if geneCol < 0 {
		return nil, fmt.Errorf("Input table does not contain a 'Gene' column")
	}

	observations := make([]genepick.Observation, 0, len(records)-1)
	for _, record := range records[1:] {
		observations = append(observations, genepick.Observation{
			OG:   strings.TrimSpace(record[ogCol]),
			Gene: strings.TrimSpace(record[geneCol]),
		})
	}

	return observations, nil
}
