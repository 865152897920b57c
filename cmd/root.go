package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subha54820/Scam-Shield/internal/policy"
)

// Version is set at build time.
var Version = "0.1.0"

var policyFile string

var rootCmd = &cobra.Command{
	Use:   "scamshield",
	Short: "Scam Shield — multilingual scam message risk scoring",
	Long: `Scam Shield scores SMS, chat and e-mail text for scam risk.
It detects English, Hindi and Odia messages, matches weighted keyword
lexicons and link heuristics, classifies the scam archetype, and explains
the verdict with localized reasons and safety tips.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyFile, "policy", "", "Path to policy YAML file (default: built-in policy)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("scamshield v%s\n", Version)
	},
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the built-in verdict policy",
	Long:  "Print the embedded default policy YAML, a starting point for a custom --policy file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(policy.DefaultYAML())
		return err
	},
}

func loadPolicy() (*policy.Policy, error) {
	pol, err := policy.Load(policyFile)
	if err != nil {
		return nil, fmt.Errorf("loading policy: %w", err)
	}
	return pol, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
