package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docal56/sharewillow-onboarding/api"
	"github.com/docal56/sharewillow-onboarding/app"
)

var (
	calcRequestPath string
	calcMode        string
	calcPolicyID    string
	calcSave        bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate a plan from a JSON request file",
	Long:  "Reads a plan request (the POST /api/plans body) and prints the plan. Flags override the mode, policy and save fields of the file.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		body, err := os.ReadFile(calcRequestPath)
		if err != nil {
			return eris.Wrap(err, "read request")
		}
		req, err := api.ParsePlanRequest(body)
		if err != nil {
			return eris.Wrapf(err, "parse %s", calcRequestPath)
		}
		if calcMode != "" {
			req.Mode = calcMode
		}
		if calcPolicyID != "" {
			req.PolicyID = calcPolicyID
		}
		req.Save = req.Save || calcSave

		h, closeStore, err := app.NewHandler(cmd.Context(), cfg, zap.L())
		if err != nil {
			return err
		}
		defer closeStore()

		resp, err := h.Plan(cmd.Context(), req)
		if err != nil {
			return eris.Wrap(err, "calculate plan")
		}
		for _, w := range resp.Warnings {
			zap.L().Warn("plan warning", zap.String("warning", w))
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

func init() {
	calcCmd.Flags().StringVar(&calcRequestPath, "request", "", "path to a plan request JSON file (required)")
	calcCmd.Flags().StringVar(&calcMode, "mode", "", "override mode: generic or custom")
	calcCmd.Flags().StringVar(&calcPolicyID, "policy", "", "override policy id")
	calcCmd.Flags().BoolVar(&calcSave, "save", false, "record the plan run in the configured store")
	_ = calcCmd.MarkFlagRequired("request")
	rootCmd.AddCommand(calcCmd)
}
