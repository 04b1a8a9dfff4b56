// Package main is the tfgen command line tool. It renders diagram files into
// Terraform configuration and imports Terraform state files as diagrams
// without running the HTTP service.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/terrascope/tfgen/internal/logging"
)

func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the CLI with args, writing results to outW and logs to errW.
func run(outW, errW io.Writer, args []string) error {
	root := newRootCmd(outW, errW)
	root.SetArgs(args)
	return root.Execute()
}

type rootOptions struct {
	logLevel  string
	logFormat string
	logger    *zap.Logger
}

func newRootCmd(outW, errW io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "tfgen",
		Short:         "Generate Terraform configuration from infrastructure diagrams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.NewWithWriter(opts.logLevel, opts.logFormat, errW)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "console", "Log format (json, console)")

	root.AddCommand(
		newGenerateCmd(opts),
		newImportCmd(opts),
		newKindsCmd(),
	)
	return root
}
