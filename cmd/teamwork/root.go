package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settings merges flags and TEAMWORK_* environment variables.
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "teamwork",
	Short: "Teamwork runs hierarchical agent teams",
	Long: `Teamwork drives a team of LLM agents over a task tree: a supervisor
decomposes the request, a planner picks team members and a final boss
answers when the step budget runs out.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return settings.BindPFlags(cmd.Flags())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	settings.SetEnvPrefix("TEAMWORK")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	rootCmd.PersistentFlags().StringP("config", "c", "workflow.yaml", "Workflow definition file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text, json or zap")
}
