// msa2positions converts a directory of per-OG multiple sequence
// alignments into one long-format position table for entropy
// analysis, one row per (sample, position, character). Sample
// identifiers are normalized and, when metadata is given, rewritten
// to their metadata labels.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/omni2tree/o2tprep"
	_ "github.com/omni2tree/o2tprep/buildinfo/buildinfoprint"
	"github.com/omni2tree/o2tprep/fiveletter"
	"github.com/omni2tree/o2tprep/labelmap"
	"github.com/omni2tree/o2tprep/logging"
	"github.com/omni2tree/o2tprep/msa"
	"github.com/omni2tree/o2tprep/relabel"
	"github.com/omni2tree/o2tprep/sampleid"
)

var client *storage.Client

type options struct {
	msaDir         string
	ogTable        string
	output         string
	seqType        string
	metadata       string
	matchColumn    string
	fiveLetter     string
	filterColumn   string
	filterValue    string
	excludePattern string
	includeAll     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.msaDir, "msa_dir", "", "Directory containing MSA files (e.g., MSA/hepc/AA)")
	flag.StringVar(&opts.ogTable, "og_table", "", "CSV file mapping OG to gene/peptide names. Optionally, may be a google storage URL (gs://)")
	flag.StringVar(&opts.output, "output", "", "Output CSV file for position table")
	flag.StringVar(&opts.seqType, "seq_type", "", "Sequence type: AA (amino acid) or DNA (nucleotide)")
	flag.StringVar(&opts.metadata, "metadata", "", "Optional metadata CSV used for filtering and label mapping")
	flag.StringVar(&opts.matchColumn, "metadata_match_column", "label", "Metadata column used to match MSA samples")
	flag.StringVar(&opts.fiveLetter, "five_letter", "", "five_letter_taxon.tsv used to map cleaned metadata labels to 5-letter sample IDs")
	flag.StringVar(&opts.filterColumn, "filter_column", "", "Column name in metadata to filter by")
	flag.StringVar(&opts.filterValue, "filter_value", "", "Value to filter for in filter_column")
	flag.StringVar(&opts.excludePattern, "exclude_pattern", "", "Substring to exclude from sample IDs (e.g., s0 for reference strains). If not specified, all samples are included.")
	flag.BoolVar(&opts.includeAll, "include_all", false, "Include all samples (override exclude_pattern)")
	flag.Parse()

	if opts.msaDir == "" || opts.ogTable == "" || opts.output == "" || opts.seqType == "" {
		flag.Usage()
		logging.Fatalf("Must specify -msa_dir, -og_table, -output, and -seq_type")
	}
	if opts.seqType != "AA" && opts.seqType != "DNA" {
		flag.Usage()
		logging.Fatalf("-seq_type must be AA or DNA")
	}

	opts.msaDir = o2tprep.ExpandHome(opts.msaDir)
	opts.ogTable = o2tprep.ExpandHome(opts.ogTable)
	opts.output = o2tprep.ExpandHome(opts.output)
	opts.metadata = o2tprep.ExpandHome(opts.metadata)
	opts.fiveLetter = o2tprep.ExpandHome(opts.fiveLetter)

	if strings.HasPrefix(opts.ogTable, "gs://") ||
		strings.HasPrefix(opts.metadata, "gs://") ||
		strings.HasPrefix(opts.fiveLetter, "gs://") {
		var err error
		client, err = storage.NewClient(context.Background())
		if err != nil {
			logging.Fatal(err)
		}
	}

	if info, err := os.Stat(opts.msaDir); err != nil || !info.IsDir() {
		logging.Fatalf("MSA directory not found: %s", opts.msaDir)
	}

	if err := run(opts); err != nil {
		logging.Fatal(err)
	}
}

func run(opts options) error {
	logging.Infof("Loading OG mapping from %s...", opts.ogTable)
	mapping, err := readOGMapping(opts.ogTable)
	if err != nil {
		return err
	}
	logging.Infof("Found %d OG entries", len(mapping))

	var lookup *labelmap.Lookup
	if opts.metadata != "" {
		lookup, err = buildLookup(opts)
		if err != nil {
			return err
		}
	}

	files, err := filepath.Glob(filepath.Join(opts.msaDir, "OG*.fa"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("No OG*.fa files found in %s", opts.msaDir)
	}

	logging.Infof("Processing %d MSA files...", len(files))

	var all []msa.PositionRecord
	for _, file := range files {
		og := strings.TrimSuffix(filepath.Base(file), ".fa")

		gene, ok := mapping[og]
		if !ok {
			logging.Warnf("%s not found in OG mapping table, skipping...", og)
			continue
		}
		logging.Infof("Processing %s (%s)...", og, gene)

		records, err := readPositions(file, og, gene, opts.seqType)
		if err != nil {
			logging.Errorf("Error reading %s: %v", file, err)
			logging.Warnf("No data extracted from %s", file)
			continue
		}

		if opts.excludePattern != "" && !opts.includeAll {
			records = excludeSamples(records, opts.excludePattern)
		}

		if lookup != nil {
			kept, before, after := relabel.Records(records, lookup)
			records = kept
			logging.Infof("Filtered to %d/%d samples using metadata", after, before)
		} else {
			for i := range records {
				records[i].Label = sampleid.StripPairSuffix(strings.TrimSpace(records[i].Label))
			}
		}

		logging.Infof("Extracted %d position records from %d samples", len(records), countSamples(records))
		all = append(all, records...)
	}

	if len(all) == 0 {
		return fmt.Errorf("No data was processed")
	}

	logging.Infof("Combining all position tables...")
	logging.Infof("Saving to %s...", opts.output)
	if err := writeCSV(opts.output, &all); err != nil {
		return err
	}

	genes := make(map[string]bool)
	for _, record := range all {
		genes[record.Gene] = true
	}

	logging.Infof("=== Summary ===")
	logging.Infof("Total records: %d", len(all))
	logging.Infof("Unique samples: %d", countSamples(all))
	logging.Infof("Genes processed: %d", len(genes))
	logging.Infof("Sequence type: %s", opts.seqType)
	logging.Infof("Output saved to: %s", opts.output)

	return nil
}

// buildLookup loads the metadata table, applies the optional row
// filter, and builds the sample-id to label lookup. Matching by label
// requires the five-letter table so reference codes resolve too.
func buildLookup(opts options) (*labelmap.Lookup, error) {
	table, err := readMetadata(opts.metadata, opts.filterColumn, opts.filterValue)
	if err != nil {
		return nil, err
	}

	var codes *fiveletter.Index
	if opts.matchColumn == "label" {
		if opts.fiveLetter == "" {
			return nil, fmt.Errorf("-five_letter is required when matching metadata by label")
		}
		logging.Infof("Loading five-letter mapping from %s...", opts.fiveLetter)
		codes, err = readFiveLetter(opts.fiveLetter)
		if err != nil {
			return nil, err
		}
		logging.Infof("Loaded %d cleaned label -> 5-letter code mappings", codes.Len())
	}

	lookup, err := labelmap.Build(table, opts.matchColumn, codes)
	if err != nil {
		return nil, err
	}
	if lookup.Collisions() > 0 {
		logging.Warnf("%d metadata collisions detected while building ID->label map; kept first occurrence", lookup.Collisions())
	}
	logging.Infof("Prepared %d sample-id mappings from metadata", lookup.Len())

	return lookup, nil
}

func excludeSamples(records []msa.PositionRecord, pattern string) []msa.PositionRecord {
	before := countSamples(records)

	kept := records[:0]
	for _, record := range records {
		if strings.Contains(record.Label, pattern) {
			continue
		}
		kept = append(kept, record)
	}

	logging.Infof("Excluded %d samples matching '%s'", before-countSamples(kept), pattern)

	return kept
}

func countSamples(records []msa.PositionRecord) int {
	seen := make(map[string]bool)
	for _, record := range records {
		seen[record.Label] = true
	}

	return len(seen)
}
