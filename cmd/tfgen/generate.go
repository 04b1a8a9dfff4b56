package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/terrascope/tfgen/internal/generator"
	"github.com/terrascope/tfgen/internal/logging"
	"github.com/terrascope/tfgen/internal/parser"
)

type generateOptions struct {
	input         string
	outputDir     string
	region        string
	defaultRegion string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Terraform configuration for a diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root.logger, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "Diagram file (JSON or YAML)")
	flags.StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory for main.tf, variables.tf and outputs.tf; main.tf is printed when empty")
	flags.StringVar(&opts.region, "region", "", "AWS region, overrides the diagram's region")
	flags.StringVar(&opts.defaultRegion, "default-region", generator.DefaultOptions().DefaultRegion, "AWS region used when the diagram names none")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runGenerate(cmd *cobra.Command, logger *zap.Logger, opts *generateOptions) error {
	data, err := os.ReadFile(opts.input)
	if err != nil {
		return errors.Wrap(err, "failed to read diagram")
	}

	diagram, err := parser.ParseDiagram(data)
	if err != nil {
		return errors.Wrapf(err, "failed to parse %s", opts.input)
	}
	if opts.region != "" {
		diagram.Region = opts.region
	}

	doc, err := generator.New(generator.Options{DefaultRegion: opts.defaultRegion}).Generate(*diagram)
	if err != nil {
		return errors.Wrap(err, "failed to generate configuration")
	}
	logging.LogWarnings(logger, doc.Warnings, zap.String("input", opts.input))

	if opts.outputDir == "" {
		_, err := cmd.OutOrStdout().Write([]byte(doc.Main))
		return err
	}

	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", opts.outputDir)
	}
	files := []struct {
		name    string
		content string
	}{
		{"main.tf", doc.Main},
		{"variables.tf", doc.Variables},
		{"outputs.tf", doc.Outputs},
	}
	for _, f := range files {
		if f.content == "" {
			continue
		}
		path := filepath.Join(opts.outputDir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
	}

	logger.Info("Generated Terraform configuration",
		zap.String("output_dir", opts.outputDir),
		zap.Int("resources", doc.Stats.Resources),
		zap.Int("associations", doc.Stats.Associations),
		zap.Int("warnings", len(doc.Warnings)),
	)
	return nil
}
