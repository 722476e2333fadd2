package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/benrogboe/zetafold/internal/fold"
)

// minBPP is the smallest base pair probability printed
const minBPP = 1e-3

// pairProb is a base pair and its probability
type pairProb struct {
	I int     `json:"i"`
	J int     `json:"j"`
	P float64 `json:"p"`
}

// output is the result of a fold
type output struct {
	// unix
	Time int64 `json:"time"`

	// the strands, concatenated
	Sequence string `json:"sequence"`

	// lengths of each strand
	Strands []int `json:"strands"`

	// name@version of the parameter set
	Params string `json:"params"`

	Circle bool `json:"circle"`

	// partition function and ensemble free energy (kcal/mol)
	Z      float64 `json:"z"`
	DeltaG float64 `json:"deltaG"`

	ExpectedPairs float64 `json:"expectedPairs"`

	MFE fold.Structure `json:"mfe"`

	Samples []fold.Structure `json:"samples,omitempty"`

	// pairs (i < j) with probability of at least minBPP
	BPP []pairProb `json:"bpp,omitempty"`
}

func newOutput(r *fold.Result, mfe fold.Structure, samples []fold.Structure, bpp bool) output {
	out := output{
		Time:          time.Now().Unix(),
		Sequence:      r.Sequence,
		Strands:       r.Strands,
		Params:        r.Model.Params,
		Circle:        r.Circle,
		Z:             r.Z,
		DeltaG:        r.DeltaG(),
		ExpectedPairs: r.ExpectedPairs(),
		MFE:           mfe,
		Samples:       samples,
	}

	if bpp {
		for i := 0; i < r.N(); i++ {
			for j := i + 1; j < r.N(); j++ {
				if p := r.PairProbability(i, j); p >= minBPP {
					out.BPP = append(out.BPP, pairProb{i, j, p})
				}
			}
		}
	}
	return out
}

// print writes a human readable summary
func (o output) print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "sequence\t%s\n", o.Sequence)
	fmt.Fprintf(tw, "params\t%s\n", o.Params)
	fmt.Fprintf(tw, "Z\t%.6g\n", o.Z)
	fmt.Fprintf(tw, "dG\t%.3f kcal/mol\n", o.DeltaG)
	fmt.Fprintf(tw, "pairs\t%.3f\n", o.ExpectedPairs)
	fmt.Fprintf(tw, "mfe\t%s\tp=%.4g\tdG=%.3f\n", o.MFE.DotBracket, o.MFE.Probability, o.MFE.DeltaG)
	for i, s := range o.Samples {
		fmt.Fprintf(tw, "sample %d\t%s\tp=%.4g\tdG=%.3f\n", i+1, s.DotBracket, s.Probability, s.DeltaG)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(o.BPP) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "i\tj\tp\t")
	for _, p := range o.BPP {
		fmt.Fprintf(tw, "%d\t%d\t%.4f\t\n", p.I+1, p.J+1, p.P)
	}
	return tw.Flush()
}

// write the output as JSON
func (o output) write(filename string) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize the output data: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write the results to the file system: %w", err)
	}
	return nil
}
