package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subha54820/Scam-Shield/internal/audit"
	"github.com/subha54820/Scam-Shield/internal/pipeline"
)

var (
	analyzeFile string
	analyzeJSON bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [message text]",
	Short: "Analyze a single message and show the verdict",
	Long: `Score a message for scam risk and display the detected language, keywords,
categories, scam type, reasons, safety tips and policy verdict.
The message is read from the arguments, from --file, or from stdin.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Read the message from a file (- for stdin)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the API response JSON only")
}

func readMessage(args []string, in io.Reader) (string, error) {
	switch {
	case analyzeFile == "-":
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	case analyzeFile != "":
		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return "", fmt.Errorf("reading message file: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readMessage(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	pol, err := loadPolicy()
	if err != nil {
		return err
	}

	// Create pipeline with no-op audit logger
	pipe := pipeline.New(pol, audit.NopLogger())

	result, err := pipe.Process(cmd.Context(), text, pipeline.SourceCLI)
	if err != nil {
		return fmt.Errorf("analyzing message: %w", err)
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(result.BuildResponse())
	}

	a := result.Analysis
	fmt.Fprintf(errOut, "\n=== Scam Analysis ===\n\n")
	fmt.Fprintf(errOut, "Message:  %q\n", pipeline.Preview(text, 120))
	fmt.Fprintf(errOut, "Language: %s\n\n", a.Language)

	// Pretty print the engine result
	analysisJSON, _ := json.MarshalIndent(a, "", "  ")
	fmt.Fprintf(out, "%s\n", analysisJSON)

	// Print decision
	fmt.Fprintf(errOut, "\n=== Verdict ===\n\n")
	fmt.Fprintf(errOut, "  Verdict:    %s\n", result.Verdict())
	fmt.Fprintf(errOut, "  Risk:       %s (%d/100)\n", a.RiskLevel, a.ScamScore)
	fmt.Fprintf(errOut, "  Scam type:  %s\n", a.ScamType)
	if result.Rule.RuleName != "" {
		fmt.Fprintf(errOut, "  Rule:       %s\n", result.Rule.RuleName)
	}
	if result.Rule.Message != "" {
		fmt.Fprintf(errOut, "  Advice:     %s\n", result.Rule.Message)
	}
	fmt.Fprintf(errOut, "\n%s\n\n", a.ExplanationForUser)

	return nil
}
