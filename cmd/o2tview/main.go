// o2tview prepares the two omni2treeview inputs: a metadata CSV with
// a header and type row (sample_id, label, source, then the remaining
// input columns) and a Newick tree whose five-letter leaf codes are
// replaced by the display labels derived from the metadata.
package main

import (
	"context"
	"flag"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/omni2tree/o2tprep"
	_ "github.com/omni2tree/o2tprep/buildinfo/buildinfoprint"
	"github.com/omni2tree/o2tprep/logging"
)

var client *storage.Client

func main() {
	var metadataPath, fiveLetter, inNwk, outNwk, outMeta string
	flag.StringVar(&metadataPath, "metadata", "", "Input metadata CSV. Optionally, may be a google storage URL (gs://)")
	flag.StringVar(&fiveLetter, "five_letter", "five_letter_taxon.tsv", "five_letter_taxon.tsv from step1")
	flag.StringVar(&inNwk, "in_nwk", "", "Input Newick tree")
	flag.StringVar(&outNwk, "out_nwk", "", "Output relabeled Newick tree")
	flag.StringVar(&outMeta, "out_meta", "", "Output metadata CSV for omni2treeview")
	flag.Parse()

	if metadataPath == "" || inNwk == "" || outNwk == "" || outMeta == "" {
		flag.Usage()
		logging.Fatalf("Must specify -metadata, -in_nwk, -out_nwk, and -out_meta")
	}

	metadataPath = o2tprep.ExpandHome(metadataPath)
	fiveLetter = o2tprep.ExpandHome(fiveLetter)
	inNwk = o2tprep.ExpandHome(inNwk)
	outNwk = o2tprep.ExpandHome(outNwk)
	outMeta = o2tprep.ExpandHome(outMeta)

	if strings.HasPrefix(metadataPath, "gs://") ||
		strings.HasPrefix(fiveLetter, "gs://") ||
		strings.HasPrefix(inNwk, "gs://") {
		var err error
		client, err = storage.NewClient(context.Background())
		if err != nil {
			logging.Fatal(err)
		}
	}

	leaves, rows, err := run(metadataPath, fiveLetter, inNwk, outNwk, outMeta)
	if err != nil {
		logging.Fatal(err)
	}

	logging.Infof("o2tview completed successfully")
	logging.Infof("Tree leaves processed: %d", leaves)
	logging.Infof("Metadata rows written: %d", rows)
}

func run(metadataPath, fiveLetter, inNwk, outNwk, outMeta string) (leaves, rows int, err error) {
	table, err := readMetadata(metadataPath)
	if err != nil {
		return 0, 0, err
	}

	codes, err := readFiveLetter(fiveLetter)
	if err != nil {
		return 0, 0, err
	}

	v := buildView(table, codes)

	report, err := relabelTree(inNwk, outNwk, codes, v.preferred)
	if err != nil {
		return 0, 0, err
	}

	if err := writeViewMetadata(outMeta, v); err != nil {
		return 0, 0, err
	}

	return report.Terminals, len(v.rows), nil
}
