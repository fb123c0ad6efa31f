package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/docal56/sharewillow-onboarding/api"
	"github.com/docal56/sharewillow-onboarding/app"
	"github.com/docal56/sharewillow-onboarding/plan"
)

var (
	benchIndustry string
	benchTeamSize int
	benchJSON     bool
)

var benchmarksCmd = &cobra.Command{
	Use:   "benchmarks",
	Short: "Print the benchmark set for an industry and team size",
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog, err := app.LoadCatalog(cfg.Benchmarks)
		if err != nil {
			return err
		}
		sel := catalog.Lookup(benchIndustry, benchTeamSize)

		if benchJSON {
			return printJSON(cmd.OutOrStdout(), api.ToBenchmarkSetDTO(sel))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s, %s team members\n\n", sel.Industry, sel.Band)
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "METRIC\tLOWER\tMEDIAN\tUPPER\tDIRECTION")
		for _, b := range sel.Set {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				b.DisplayName,
				plan.FormatValue(b.Unit, b.Lower),
				plan.FormatValue(b.Unit, b.Median),
				plan.FormatValue(b.Unit, b.Upper),
				b.Direction(),
			)
		}
		return tw.Flush()
	},
}

func init() {
	benchmarksCmd.Flags().StringVar(&benchIndustry, "industry", "HVAC", "industry name")
	benchmarksCmd.Flags().IntVar(&benchTeamSize, "team-size", 12, "team size")
	benchmarksCmd.Flags().BoolVar(&benchJSON, "json", false, "print JSON")
	rootCmd.AddCommand(benchmarksCmd)
}
