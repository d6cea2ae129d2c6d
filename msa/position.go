package msa

// PositionRecord is one output row of the position table: a single
// alignment column of a single sample. Position is 1-based.
type PositionRecord struct {
	Label     string `csv:"label"`
	Position  int    `csv:"position"`
	Character string `csv:"character"`
	OG        string `csv:"og"`
	Gene      string `csv:"gene"`
	SeqType   string `csv:"seq_type"`
}

// BuildPositions flattens an alignment into per-position records,
// tagging every record with the OG, its selected gene name and the
// sequence type. Labels carry the raw sample identifiers; relabeling
// happens downstream.
func BuildPositions(seqs []Sequence, og, gene, seqType string) []PositionRecord {
	var records []PositionRecord
	for _, s := range seqs {
		position := 0
		for _, char := range s.Seq {
			position++
			records = append(records, PositionRecord{
				Label:     s.Name,
				Position:  position,
				Character: string(char),
				OG:        og,
				Gene:      gene,
				SeqType:   seqType,
			})
		}
	}

	return records
}
