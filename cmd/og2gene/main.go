// og2gene builds the OG-to-gene mapping table for entropy step 1 from
// a Read2Tree OG_genes table. One gene name is selected per OG: the
// most frequent name wins, ties break alphabetically.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/omni2tree/o2tprep"
	_ "github.com/omni2tree/o2tprep/buildinfo/buildinfoprint"
	"github.com/omni2tree/o2tprep/genepick"
	"github.com/omni2tree/o2tprep/logging"
)

var client *storage.Client

func main() {
	var input, output, conflicts string
	var keepEmptyGene bool
	flag.StringVar(&input, "input", "", "Read2Tree OG_genes table (TSV/CSV), e.g. OG_genes.tsv. Optionally, may be a google storage URL (gs://)")
	flag.StringVar(&output, "output", "", "Output CSV for the OG->gene mapping (default: <input_stem>_entropy_step1_og_gene_table.csv next to the input)")
	flag.StringVar(&conflicts, "conflicts", "", "Optional output CSV listing every gene name observed for OGs that carried more than one")
	flag.BoolVar(&keepEmptyGene, "keep_empty_gene", false, "Keep rows with empty gene names (default: drop empty gene values)")
	flag.Parse()

	if input == "" {
		flag.Usage()
		logging.Fatalf("Must specify -input")
	}

	input = o2tprep.ExpandHome(input)
	output = o2tprep.ExpandHome(output)
	conflicts = o2tprep.ExpandHome(conflicts)

	if strings.HasPrefix(input, "gs://") {
		var err error
		client, err = storage.NewClient(context.Background())
		if err != nil {
			logging.Fatal(err)
		}
	}

	if output == "" {
		if strings.HasPrefix(input, "gs://") {
			logging.Fatalf("Must specify -output when -input is a google storage URL")
		}
		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		output = filepath.Join(filepath.Dir(input), stem+"_entropy_step1_og_gene_table.csv")
	}

	if err := run(input, output, conflicts, keepEmptyGene); err != nil {
		logging.Fatal(err)
	}
}

func run(input, output, conflicts string, keepEmptyGene bool) error {
	observations, err := readObservations(input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("Input file not found: %s", input)
		}
		return err
	}

	if ambiguous := genepick.AmbiguousNameOGs(observations); len(ambiguous) > 0 {
		logging.Warnf("Found gene names equal to NA/NAN; treating them as valid gene names (OGs: %s)",
			strings.Join(ambiguous, ", "))
	}

	if !keepEmptyGene {
		empty := 0
		for _, obs := range observations {
			if obs.Gene == "" {
				empty++
			}
		}
		if empty > 0 {
			logging.Warnf("Skipping %d row(s) with empty gene name.", empty)
		}
	}

	result, err := genepick.Select(observations, keepEmptyGene)
	if err != nil {
		return err
	}

	if err := writeCSV(output, &result.Choices); err != nil {
		return err
	}

	uniqueOGs := make(map[string]bool)
	for _, obs := range observations {
		uniqueOGs[obs.OG] = true
	}

	logging.Infof("Saved entropy step 1 OG->gene table: %s", output)
	logging.Infof("OG rows written: %d", len(result.Choices))
	logging.Infof("Unique OGs in input: %d", len(uniqueOGs))

	if len(result.Conflicts) == 0 {
		logging.Infof("No OGs with multiple gene names detected.")
	} else {
		conflictOGs := make(map[string]bool)
		for _, conflict := range result.Conflicts {
			conflictOGs[conflict.OG] = true
		}
		logging.Infof("Detected %d OG(s) with multiple gene names.", len(conflictOGs))
		logging.Infof("Selection rule applied: most frequent gene name; alphabetical tie-break.")
	}

	if conflicts != "" {
		if err := writeCSV(conflicts, &result.Conflicts); err != nil {
			return err
		}
		logging.Infof("Saved gene name conflict table: %s", conflicts)
	}

	return nil
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
