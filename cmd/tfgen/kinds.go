package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/terrascope/tfgen/internal/generator"
)

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List supported node kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tRESOURCE\tCONNECTS TO")
			for _, info := range generator.KindInfos() {
				targets := strings.Join(info.Associations, ", ")
				if targets == "" {
					targets = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Kind, info.TerraformType, targets)
			}
			return w.Flush()
		},
	}
}
