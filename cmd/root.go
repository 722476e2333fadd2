// Package cmd is for command line interactions with the zetafold application
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/benrogboe/zetafold/config"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// conf is the app configuration, loaded before any command runs
var conf config.Config

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "zetafold",
	Short: `Compute nucleic acid secondary structure ensembles from loop
effective molarities and base pair dissociation constants`,
	Version:           "0.2.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// setup reads the settings and installs the logger
func setup(cmd *cobra.Command, args []string) error {
	settings, _ := cmd.Flags().GetString("settings")
	if err := config.Setup(viper.GetViper(), settings); err != nil {
		return err
	}

	c, err := config.New()
	if err != nil {
		return err
	}
	conf = c

	level, _ := conf.Level()
	slog.SetDefault(slog.New(
		tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
	slog.Debug("settings loaded", "file", viper.ConfigFileUsed(), "db", conf.DB, "params", conf.Params)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "zetafold:", err)
		os.Exit(1)
	}
}

func init() {
	// settings is an optional settings file that overrides the defaults
	RootCmd.PersistentFlags().StringP("settings", "s", "", "settings file (default "+config.RootSettingsFile+")")
	RootCmd.PersistentFlags().String("db", "", "parameter set registry (SQLite)")
	RootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	viper.BindPFlag("db", RootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("log-level", RootCmd.PersistentFlags().Lookup("log-level"))
}
