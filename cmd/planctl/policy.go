package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/docal56/sharewillow-onboarding/app"
	"github.com/docal56/sharewillow-onboarding/factory"
	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/docal56/sharewillow-onboarding/plan"
)

var policyFormat string

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and validate plan policies",
}

var policyShowCmd = &cobra.Command{
	Use:   "show [preset]",
	Short: "Print a preset policy, or the configured default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p plan.Policy
		if len(args) == 1 {
			preset, ok := plan.Presets()[args[0]]
			if !ok {
				return eris.Wrapf(generic.ErrPolicyNotFound, "preset %q", args[0])
			}
			p = preset
		} else {
			var err error
			if p, err = app.DefaultPolicy(cfg.Policy); err != nil {
				return err
			}
		}

		pf := factory.NewPolicyFactory()
		var (
			doc string
			err error
		)
		switch policyFormat {
		case "yaml":
			doc, err = pf.MarshalYAML(&p)
		case "json":
			doc, err = pf.MarshalPolicy(&p)
		default:
			return fmt.Errorf("unknown format %q (json or yaml)", policyFormat)
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), doc)
		return err
	},
}

var policyValidateCmd = &cobra.Command{
	Use:   "validate <policy.json|policy.yaml>",
	Short: "Check a policy document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := factory.NewPolicyFactory().LoadFile(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) v%d is valid\n", p.ID, p.Name, p.Version)
		return err
	},
}

func init() {
	policyShowCmd.Flags().StringVar(&policyFormat, "format", "json", "output format: json or yaml")
	policyCmd.AddCommand(policyShowCmd, policyValidateCmd)
	rootCmd.AddCommand(policyCmd)
}
