package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/benrogboe/zetafold/internal/fold"
	"github.com/benrogboe/zetafold/internal/params"
	"github.com/benrogboe/zetafold/internal/store"
	"github.com/spf13/cobra"
)

// paramsCmd is for listing, checking and importing parameter sets
var paramsCmd = &cobra.Command{
	Use:                        "params",
	Short:                      "List, show, validate, import and delete parameter sets",
	SuggestionsMinimumDistance: 2,
	Long: `Parameter sets are the Kd and effective molarity values a fold is computed with.

Some sets ship with zetafold. Others can be imported into the registry, after
which they're referenced by name or name@version like the built-in ones.
An imported name@version can't be changed, only deleted.`,
	Aliases: []string{"param", "p"},
}

// paramsListCmd is for listing the built-in and imported sets
var paramsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the built-in and imported parameter sets",
	Args:    cobra.NoArgs,
	RunE:    paramsListExec,
	Aliases: []string{"ls"},
}

// paramsShowCmd is for printing one set
var paramsShowCmd = &cobra.Command{
	Use:     "show [file|name[@version]]",
	Short:   "Print a parameter set",
	Args:    cobra.MaximumNArgs(1),
	RunE:    paramsShowExec,
	Example: "  zetafold params show zetafold@0.1",
}

// paramsValidateCmd is for checking parameter files
var paramsValidateCmd = &cobra.Command{
	Use:   "validate [file ...]",
	Short: "Check that parameter files load and describe a folding model",
	Args:  cobra.MinimumNArgs(1),
	RunE:  paramsValidateExec,
}

// paramsImportCmd is for adding parameter files to the registry
var paramsImportCmd = &cobra.Command{
	Use:     "import [file ...]",
	Short:   "Import parameter files into the registry",
	Args:    cobra.MinimumNArgs(1),
	RunE:    paramsImportExec,
	Aliases: []string{"add"},
	Example: "  zetafold params import my_set_v1.params",
}

// paramsDeleteCmd is for removing a set from the registry
var paramsDeleteCmd = &cobra.Command{
	Use:     "delete [name@version]",
	Short:   "Delete an imported parameter set",
	Args:    cobra.ExactArgs(1),
	RunE:    paramsDeleteExec,
	Aliases: []string{"rm", "remove"},
}

func paramsListExec(cmd *cobra.Command, args []string) error {
	builtins, err := params.Builtins()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tSOURCE")
	for _, s := range builtins {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Version, "built-in")
	}

	s, err := openStore(false)
	if err != nil {
		return err
	}
	if s != nil {
		defer s.Close()
		entries, err := s.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Version, e.Source)
		}
	}
	return tw.Flush()
}

func paramsShowExec(cmd *cobra.Command, args []string) error {
	ref := conf.Params
	if len(args) > 0 {
		ref = args[0]
	}
	set, err := resolveParams(cmd.Context(), ref)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "# %s (%s)\n", set.ID(), set.Source)
	return params.Write(w, set, true)
}

func paramsValidateExec(cmd *cobra.Command, args []string) error {
	var failed int
	for _, path := range args {
		set, warnings, err := params.Load(path)
		if err == nil {
			logWarnings(warnings)
			_, err = fold.NewModel(set)
		}
		if err != nil {
			slog.Error("invalid", "file", path, "err", err)
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s)\n", path, set.ID())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d parameter files are invalid", failed, len(args))
	}
	return nil
}

func paramsImportExec(cmd *cobra.Command, args []string) error {
	// check every file before importing any
	var sets []*params.Set
	for _, path := range args {
		set, warnings, err := params.Load(path)
		if err != nil {
			return err
		}
		logWarnings(warnings)
		if _, err := fold.NewModel(set); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if _, err := params.Builtin(set.ID()); err == nil {
			return fmt.Errorf("%s: %s is a built-in parameter set", path, set.ID())
		}
		sets = append(sets, set)
	}

	s, err := openStore(true)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, set := range sets {
		if err := s.Put(cmd.Context(), set); err != nil {
			return err
		}
		slog.Info("imported", "params", set.ID(), "file", set.Source)
	}
	return nil
}

func paramsDeleteExec(cmd *cobra.Command, args []string) error {
	name, version := params.SplitRef(args[0])
	if version == "" {
		return fmt.Errorf("delete needs a version: %s@<version>", name)
	}

	s, err := openStore(false)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: %s", store.ErrNotFound, args[0])
	}
	defer s.Close()

	if err := s.Delete(cmd.Context(), name, version); err != nil {
		if _, berr := params.Builtin(args[0]); errors.Is(err, store.ErrNotFound) && berr == nil {
			return fmt.Errorf("%s is built-in and can't be deleted", args[0])
		}
		return err
	}
	slog.Info("deleted", "params", args[0])
	return nil
}

// set flags
func init() {
	paramsCmd.AddCommand(paramsListCmd)
	paramsCmd.AddCommand(paramsShowCmd)
	paramsCmd.AddCommand(paramsValidateCmd)
	paramsCmd.AddCommand(paramsImportCmd)
	paramsCmd.AddCommand(paramsDeleteCmd)

	RootCmd.AddCommand(paramsCmd)
}
