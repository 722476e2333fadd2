// Package seqio reads the sequences to fold from FASTA files.
package seqio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Record is a single FASTA entry
type Record struct {
	// ID is the header line, without the leading ">"
	ID string `json:"id"`

	// Seq is the sequence. Case is kept, lowercase letters pair differently
	Seq string `json:"seq"`
}

// unwantedChars are stripped from sequence lines
var unwantedChars = regexp.MustCompile(`[^A-Za-z]`)

// ReadFASTA reads a FASTA file into its records.
func ReadFASTA(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fasta file: %w", err)
	}
	defer f.Close()

	records, err := ParseFASTA(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ParseFASTA reads FASTA formatted records. Blank lines and ";" comments are
// skipped. Text before the first header is an error.
func ParseFASTA(r io.Reader) ([]Record, error) {
	var records []Record
	var seq strings.Builder

	flush := func() {
		if len(records) > 0 {
			records[len(records)-1].Seq = seq.String()
		}
		seq.Reset()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "", strings.HasPrefix(line, ";"):
			continue
		case strings.HasPrefix(line, ">"):
			flush()
			records = append(records, Record{ID: strings.TrimSpace(line[1:])})
		case len(records) == 0:
			return nil, fmt.Errorf("line %d: sequence before the first '>' header", lineNum)
		default:
			seq.WriteString(unwantedChars.ReplaceAllString(line, ""))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	for _, rec := range records {
		if rec.Seq == "" {
			return nil, fmt.Errorf("no sequence for %q", rec.ID)
		}
	}
	return records, nil
}

// Seqs returns the sequence of each record.
func Seqs(records []Record) []string {
	seqs := make([]string, len(records))
	for i, rec := range records {
		seqs[i] = rec.Seq
	}
	return seqs
}
