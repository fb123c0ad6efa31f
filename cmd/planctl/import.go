package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docal56/sharewillow-onboarding/api"
	"github.com/docal56/sharewillow-onboarding/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <export.csv|export.xlsx>",
	Short: "Summarize a job export into plan metrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		f, err := os.Open(path)
		if err != nil {
			return eris.Wrap(err, "open export")
		}
		defer f.Close()

		summary, err := importer.Import(f, filepath.Base(path))
		if err != nil {
			return eris.Wrapf(err, "import %s", path)
		}

		zap.L().Info("import complete",
			zap.String("file", path),
			zap.Int("jobs", summary.TotalJobs),
		)
		return printJSON(cmd.OutOrStdout(), api.ToMetricsDTO(summary))
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
