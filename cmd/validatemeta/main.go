// validatemeta checks the step 3 metadata against the five-letter
// reference table and the discovered consensus readsets before the
// expensive pipeline steps run. Gates run in a fixed order and the
// first failure aborts the run.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"

	"github.com/omni2tree/o2tprep"
	_ "github.com/omni2tree/o2tprep/buildinfo/buildinfoprint"
	"github.com/omni2tree/o2tprep/fiveletter"
	"github.com/omni2tree/o2tprep/logging"
	"github.com/omni2tree/o2tprep/metadata"
	"github.com/omni2tree/o2tprep/validate"
)

var client *storage.Client

func main() {
	var metadataPath, fiveLetter, o2tResults string
	flag.StringVar(&metadataPath, "metadata", "", "Input metadata CSV. Optionally, may be a google storage URL (gs://)")
	flag.StringVar(&fiveLetter, "five_letter", "", "five_letter_taxon.tsv from step1")
	flag.StringVar(&o2tResults, "o2t_results", "O2T_RESULTS", "Read2Tree output directory containing *_all_cov.txt files")
	flag.Parse()

	if metadataPath == "" || fiveLetter == "" {
		flag.Usage()
		logging.Fatalf("Must specify -metadata and -five_letter")
	}

	metadataPath = o2tprep.ExpandHome(metadataPath)
	fiveLetter = o2tprep.ExpandHome(fiveLetter)
	o2tResults = o2tprep.ExpandHome(o2tResults)

	if strings.HasPrefix(metadataPath, "gs://") || strings.HasPrefix(fiveLetter, "gs://") {
		var err error
		client, err = storage.NewClient(context.Background())
		if err != nil {
			logging.Fatal(err)
		}
	}

	if err := run(metadataPath, fiveLetter, o2tResults); err != nil {
		logging.Fatal(err)
	}

	logging.Infof("validatemeta completed successfully")
}

func run(metadataPath, fiveLetter, o2tResults string) error {
	table, err := readMetadata(metadataPath)
	if err != nil {
		return err
	}

	if err := validate.CheckTypeTags(table); err != nil {
		return err
	}
	if err := validate.CheckFields(table); err != nil {
		return err
	}

	codes, err := readFiveLetter(fiveLetter)
	if err != nil {
		return err
	}

	readsets, err := validate.DiscoverReadsets(o2tResults)
	if err != nil {
		return err
	}
	logging.Infof("Detected %d consensus readset(s) from %s", len(readsets), o2tResults)

	if err := validate.CheckReferenceCoverage(table, codes); err != nil {
		return err
	}
	logging.Infof("Validated metadata coverage for all references in five_letter_taxon.tsv")

	if err := validate.CheckReadsetCoverage(table, readsets); err != nil {
		return err
	}
	logging.Infof("Validated metadata label coverage for all readsets with consensus (_all_cov.txt)")

	refs, reads, err := validate.CheckOutputConstraints(table, codes)
	if err != nil {
		return err
	}
	logging.Infof("Validated metadata output constraints: %d rows (%d references, %d readsets)", len(table.Rows), refs, reads)

	for _, w := range validate.SweepDates(table) {
		logging.Warnf("Column %s contains %d date value(s) that could not be parsed (first: %s)", w.Column, w.Count, w.First)
	}

	return nil
}

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

func readMetadata(path string) (*metadata.Table, error) {
	r, f, err := openInput(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("Metadata file not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()
	defer r.Close()

	table, err := metadata.Parse(r)
	if err != nil {
		return nil, err
	}
	logging.Infof("Loaded metadata rows: %d", len(table.Rows))

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

	codes, err := fiveletter.Build(r)
	if err != nil {
		return nil, err
	}
	logging.Infof("Loaded %d entries from %s", codes.Len(), path)

	return codes, nil
}
