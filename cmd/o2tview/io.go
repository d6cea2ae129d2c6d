package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"
	"github.com/evolbioinfo/gotree/io/newick"

	"github.com/omni2tree/o2tprep"
	"github.com/omni2tree/o2tprep/fiveletter"
	"github.com/omni2tree/o2tprep/logging"
	"github.com/omni2tree/o2tprep/metadata"
	"github.com/omni2tree/o2tprep/relabel"
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

	codes, err := fiveletter.BuildPermissive(r)
	if err != nil {
		return nil, err
	}
	logging.Infof("Loaded %d entries from %s", codes.Len(), path)

	return codes, nil
}

// relabelTree reads the Newick tree, rewrites its terminal names, and
// writes the relabeled tree. Topology and branch lengths are
// untouched.
func relabelTree(inNwk, outNwk string, codes *fiveletter.Index, preferred map[string]string) (relabel.TreeReport, error) {
	r, f, err := openInput(inNwk)
	if err != nil {
		return relabel.TreeReport{}, err
	}
	defer f.Close()
	defer r.Close()

	t, err := newick.NewParser(r).Parse()
	if err != nil {
		return relabel.TreeReport{}, pfx.Err(err)
	}

	report, err := relabel.Tree(t, codes, preferred)
	if err != nil {
		var empty relabel.EmptyTreeError
		if errors.As(err, &empty) {
			return report, fmt.Errorf("%v: %s", err, inNwk)
		}
		return report, err
	}

	if dir := filepath.Dir(outNwk); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return report, pfx.Err(err)
		}
	}
	out, err := os.Create(outNwk)
	if err != nil {
		return report, pfx.Err(err)
	}
	if _, err := out.WriteString(t.Newick() + "\n"); err != nil {
		out.Close()
		return report, pfx.Err(err)
	}
	if err := out.Close(); err != nil {
		return report, pfx.Err(err)
	}

	logging.Infof("Wrote relabeled tree: %s", outNwk)
	if report.PairSuffixStripped > 0 {
		logging.Infof("Removed _1/_2 suffixes from %d terminal name(s)", report.PairSuffixStripped)
	}
	logging.Infof("Replaced %d terminal name(s) using five-letter code mapping", report.CodeReplaced)

	return report, nil
}

func writeViewMetadata(path string, v *view) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return pfx.Err(err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	w := csv.NewWriter(f)
	w.Write(v.header)
	w.Write(v.types)
	for _, row := range v.rows {
		w.Write(row)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return pfx.Err(err)
	}
	if err := f.Close(); err != nil {
		return pfx.Err(err)
	}

	logging.Infof("Wrote visualization metadata: %s", path)

	return nil
}
