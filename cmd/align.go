package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/product-compare/internal/compare"
)

var (
	alignFileA  string
	alignFileB  string
	alignFormat string
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Print the aligned specification rows of two bundles",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, b, err := loadBundles(cmd.Context(), alignFileA, alignFileB)
		if err != nil {
			return err
		}
		rows, err := compare.AlignBundles(a, b)
		if err != nil {
			return eris.Wrap(err, "align")
		}
		return writeOutput(cmd.OutOrStdout(), rows, alignFormat)
	},
}

func init() {
	alignCmd.Flags().StringVar(&alignFileA, "a", "", "product A bundle (JSON file)")
	alignCmd.Flags().StringVar(&alignFileB, "b", "", "product B bundle (JSON file)")
	alignCmd.Flags().StringVar(&alignFormat, "format", formatJSON, "output format: json or yaml")
	_ = alignCmd.MarkFlagRequired("a")
	_ = alignCmd.MarkFlagRequired("b")
	rootCmd.AddCommand(alignCmd)
}
