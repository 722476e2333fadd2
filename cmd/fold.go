package cmd

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/benrogboe/zetafold/internal/fold"
	"github.com/benrogboe/zetafold/internal/seqio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// foldCmd is for computing the partition function of one or more strands
var foldCmd = &cobra.Command{
	Use:   "fold [sequence ...]",
	Short: "Compute the partition function, base pair probabilities and best structure",
	Long: `Compute the partition function of one or more interacting strands.

Each positional argument, or each record in the --in FASTA file, is a strand,
5' to 3'. Uppercase letters pair according to the parameter set's Kd_* values,
identical lowercase letters pair if it has a Kd_matchlowercase (or Kd_BP).

The partition function is computed once from every point on the backbone and
the fold fails if they disagree. The minimum free energy structure is always
reported; --samples draws structures from the Boltzmann ensemble.

With more than one strand, Z only counts structures that hold every strand
together. Some complexes of two or more strands get a different Z depending
on where the backbone is opened (e.g. GGCC GGAC GUCC with minimal@0.1) and
fail with "inconsistent partition function".

Weights aren't rescaled, so Z overflows a float64 at around 100 nucleotides
of stable helix (50 G, AAAA, then 50 C with minimal@0.1) and the fold fails with
"partition function overflow".`,
	Example: `  zetafold fold GGGGAAACCCC
  zetafold fold --params minimal@0.1 --samples 10 GGGAAACCC GGGUUUCCC
  zetafold fold --in strands.fa --circle --bpp --out result.json`,
	Args: cobra.ArbitraryArgs,
	RunE: foldExec,
}

// foldExec runs a fold with the command's flags and settings
func foldExec(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	strands, err := foldInput(cmd, args)
	if err != nil {
		return err
	}

	set, err := resolveParams(ctx, conf.Params)
	if err != nil {
		return err
	}
	model, err := fold.NewModel(set)
	if err != nil {
		return err
	}

	start := time.Now()
	r, err := fold.Fold(ctx, model, strands, fold.Options{Circle: conf.Fold.Circle})
	if err != nil {
		return err
	}
	slog.Debug("partition function", "n", r.N(), "params", set.ID(), "elapsed", time.Since(start))

	mfe, err := r.MFE(ctx)
	if err != nil {
		return err
	}

	var samples []fold.Structure
	if conf.Fold.Samples > 0 {
		seed := conf.Fold.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		slog.Debug("sampling", "n", conf.Fold.Samples, "seed", seed)
		if samples, err = r.Sample(rand.New(rand.NewPCG(seed, seed)), conf.Fold.Samples); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		if err := r.DumpMatrices(w); err != nil {
			return err
		}
	}

	bpp, _ := cmd.Flags().GetBool("bpp")
	out := newOutput(r, mfe, samples, bpp)
	if err := out.print(w); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("out"); path != "" {
		if err := out.write(path); err != nil {
			return err
		}
		slog.Info("wrote results", "out", path)
	}
	return nil
}

// foldInput returns the strands from the --in FASTA file or the arguments
func foldInput(cmd *cobra.Command, args []string) ([]string, error) {
	in, _ := cmd.Flags().GetString("in")
	switch {
	case in != "" && len(args) > 0:
		return nil, fmt.Errorf("pass strands as arguments or with --in, not both")
	case in != "":
		records, err := seqio.ReadFASTA(in)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("no sequences in %s", in)
		}
		return seqio.Seqs(records), nil
	case len(args) > 0:
		return args, nil
	default:
		return nil, fmt.Errorf("no sequence to fold, pass strands as arguments or with --in")
	}
}

func init() {
	foldCmd.Flags().StringP("in", "i", "", "FASTA file with a record per strand")
	foldCmd.Flags().StringP("out", "o", "", "JSON output file")
	foldCmd.Flags().StringP("params", "p", "", "parameter file, or name[@version] of an imported or built-in set")
	foldCmd.Flags().BoolP("circle", "c", false, "ligate the ends of a single strand")
	foldCmd.Flags().IntP("samples", "n", 0, "number of structures to sample from the ensemble")
	foldCmd.Flags().Uint64("seed", 0, "sampler seed (default from the clock)")
	foldCmd.Flags().Bool("bpp", false, "print base pair probabilities")
	foldCmd.Flags().BoolP("verbose", "v", false, "print the dynamic programming matrices")

	// Bind the parameters to viper
	viper.BindPFlag("params", foldCmd.Flags().Lookup("params"))
	viper.BindPFlag("fold.circle", foldCmd.Flags().Lookup("circle"))
	viper.BindPFlag("fold.samples", foldCmd.Flags().Lookup("samples"))
	viper.BindPFlag("fold.seed", foldCmd.Flags().Lookup("seed"))

	RootCmd.AddCommand(foldCmd)
}
