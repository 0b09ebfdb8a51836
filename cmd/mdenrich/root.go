package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dgallion1/mdenrich/internal/config"
	"github.com/dgallion1/mdenrich/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app holds state shared by subcommands once the root pre-run has executed.
type app struct {
	logLevel  string
	logFormat string

	cfg config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mdenrich",
		Short: "Organize and enhance Markdown tutorials",
		Long: `mdenrich localizes remote images in Markdown documents and inserts the
learning objectives, prerequisites and FAQ sections a tutorial is missing.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.cfg = config.Load()
			if !cmd.Flags().Changed("log-level") {
				a.logLevel = a.cfg.LogLevel
			}
			if !cmd.Flags().Changed("log-format") {
				a.logFormat = a.cfg.LogFormat
			}
			log, err := logging.New(a.logLevel, a.logFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(
		newOrganizeCmd(a),
		newEnhanceCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mdenrich %s\n", version)
		},
	}
}
