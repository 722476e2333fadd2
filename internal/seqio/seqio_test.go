package seqio

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseFASTA(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Record
		wantErr bool
	}{
		{
			"single record",
			">hairpin\nGGGGAAAC\nCCC\n",
			[]Record{{"hairpin", "GGGGAAACCCC"}},
			false,
		},
		{
			"case is kept",
			">toy\naaCUUCGGaa\n",
			[]Record{{"toy", "aaCUUCGGaa"}},
			false,
		},
		{
			"two strands with gaps and comments",
			"; a duplex\n>top strand\nGGG-AAA C\n\n>bottom\r\nGUU*UCC\r\n",
			[]Record{{"top strand", "GGGAAAC"}, {"bottom", "GUUUCC"}},
			false,
		},
		{
			"sequence before a header",
			"GGGG\n>x\nCCCC\n",
			nil,
			true,
		},
		{
			"header without a sequence",
			">x\n>y\nCCCC\n",
			nil,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFASTA(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFASTA() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFASTA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadFASTA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strands.fa")
	if err := os.WriteFile(path, []byte(">a\nGGGAAAC\n>b\nGUCCC\n"), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := ReadFASTA(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := Seqs(records), []string{"GGGAAAC", "GUCCC"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Seqs(ReadFASTA()) = %v, want %v", got, want)
	}

	if _, err := ReadFASTA(filepath.Join(t.TempDir(), "missing.fa")); err == nil {
		t.Error("ReadFASTA() of a missing file returned no error")
	}
}
