package main

import (
	"fmt"
	"os"

	"github.com/hupe1980/teamwork/config"
	"github.com/hupe1980/teamwork/model"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a workflow file",
	Long:  `Parses the workflow in --config, checks its fields and verifies that every referenced tool exists.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := config.Load(settings.GetString("config"))
		if err != nil {
			return err
		}

		// tools are only resolved here; nothing calls the provider
		wf, err := f.Build(model.NewMockProvider(), builtinTools(os.Stdin, os.Stderr))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "workflow is valid: %d members, budget %d\n", len(wf.Members()), wf.MaxIterations)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
