package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/terrascope/tfgen/internal/logging"
	"github.com/terrascope/tfgen/internal/parser"
)

type importOptions struct {
	input  string
	format string
}

func newImportCmd(root *rootOptions) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Convert a Terraform state file into a diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, root.logger, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "Terraform state file")
	flags.StringVar(&opts.format, "format", "json", "Output format (json, yaml)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runImport(cmd *cobra.Command, logger *zap.Logger, opts *importOptions) error {
	if opts.format != "json" && opts.format != "yaml" {
		return errors.Errorf("unknown format %q, expected json or yaml", opts.format)
	}

	data, err := os.ReadFile(opts.input)
	if err != nil {
		return errors.Wrap(err, "failed to read state")
	}

	state, err := parser.ParseTfstate(data)
	if err != nil {
		return errors.Wrapf(err, "failed to parse %s", opts.input)
	}

	diagram, warnings := parser.BuildDiagram(state)
	logging.LogWarnings(logger, warnings, zap.String("input", opts.input))

	out := cmd.OutOrStdout()
	if opts.format == "yaml" {
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(diagram); err != nil {
			return errors.Wrap(err, "failed to encode diagram")
		}
		return encoder.Close()
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(diagram), "failed to encode diagram")
}
