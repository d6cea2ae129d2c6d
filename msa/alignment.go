// Package msa reads the per-OG multiple sequence alignments produced
// by the alignment stage and flattens them into per-position records.
// Files carry a .fa extension but may hold either FASTA or
// relaxed-phylip content, so the reader sniffs the first byte.
package msa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// Sequence is one aligned sequence with its raw sample identifier.
type Sequence struct {
	Name string
	Seq  string
}

// ReadAlignment reads one alignment. Content whose first non-blank
// line starts with '>' is parsed as FASTA; anything else as
// relaxed phylip with a "count length" header line, one name-plus-
// sequence line per sample, and optional interleaved continuation
// blocks. Every sequence must come out the same length, and an
// alignment with no sequences is an error.
func ReadAlignment(r io.Reader) ([]Sequence, error) {
	lines, err := nonBlankLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("alignment is empty")
	}

	var seqs []Sequence
	if strings.HasPrefix(lines[0], ">") {
		seqs, err = readFasta(lines)
	} else {
		seqs, err = readPhylip(lines)
	}
	if err != nil {
		return nil, err
	}

	if len(seqs) == 0 {
		return nil, fmt.Errorf("alignment contains no sequences")
	}
	width := len(seqs[0].Seq)
	for _, s := range seqs {
		if len(s.Seq) != width {
			return nil, fmt.Errorf("sequence %s has length %d, others have %d", s.Name, len(s.Seq), width)
		}
	}

	return seqs, nil
}

func readFasta(lines []string) ([]Sequence, error) {
	var seqs []Sequence
	for _, line := range lines {
		if strings.HasPrefix(line, ">") {
			name := line[1:]
			if fields := strings.Fields(name); len(fields) > 0 {
				name = fields[0]
			} else {
				name = ""
			}
			seqs = append(seqs, Sequence{Name: name})
			continue
		}
		if len(seqs) == 0 {
			return nil, fmt.Errorf("sequence data before the first '>' header")
		}
		seqs[len(seqs)-1].Seq += strings.Join(strings.Fields(line), "")
	}

	return seqs, nil
}

func readPhylip(lines []string) ([]Sequence, error) {
	header := strings.Fields(lines[0])
	if len(header) < 2 {
		return nil, fmt.Errorf("invalid phylip header line: %q", lines[0])
	}
	count, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, fmt.Errorf("invalid phylip sequence count %q", header[0])
	}
	width, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, fmt.Errorf("invalid phylip sequence length %q", header[1])
	}
	if count <= 0 {
		return nil, fmt.Errorf("alignment contains no sequences")
	}

	seqs := make([]Sequence, 0, count)
	continuation := 0
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(seqs) < count {
			// First block: relaxed names, whitespace-separated from
			// the sequence, which may itself be split into chunks.
			seqs = append(seqs, Sequence{
				Name: fields[0],
				Seq:  strings.Join(fields[1:], ""),
			})
			continue
		}

		// Interleaved continuation blocks carry bare sequence chunks
		// in the same order as the first block.
		seqs[continuation%count].Seq += strings.Join(fields, "")
		continuation++
	}

	if len(seqs) != count {
		return nil, fmt.Errorf("phylip alignment has %d sequences, header declares %d", len(seqs), count)
	}
	for _, s := range seqs {
		if len(s.Seq) != width {
			return nil, fmt.Errorf("sequence %s has length %d, header declares %d", s.Name, len(s.Seq), width)
		}
	}

	return seqs, nil
}

func nonBlankLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	return lines, nil
}
