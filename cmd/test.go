package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subha54820/Scam-Shield/internal/audit"
	"github.com/subha54820/Scam-Shield/internal/pipeline"
	"github.com/subha54820/Scam-Shield/internal/policy"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run built-in test messages against the policy",
	Long:  "Run a suite of scam and benign messages in English, Hindi and Odia to verify scoring and policy behavior.",
	RunE:  runTest,
}

type testCase struct {
	name     string
	message  string
	expected policy.Verdict
}

var testCases = []testCase{
	// Scams with links to throwaway domains
	{
		name:     "otp_phishing_tk",
		message:  "Your OTP is required to verify your account, click here: http://secure-bank.tk/verify",
		expected: policy.VerdictDangerous,
	},
	{
		name:     "lottery_claim_xyz",
		message:  "Congratulations! You have won a lottery. Send your bank details now for urgent cashback at http://claim-prize.xyz/now",
		expected: policy.VerdictDangerous,
	},
	{
		name:     "hindi_otp_xyz",
		message:  "आपका ओटीपी तुरंत भेजें http://abc.xyz/a",
		expected: policy.VerdictDangerous,
	},

	// Scams without links
	{
		name:     "lottery_money_urgency",
		message:  "Congratulations! You have won a lottery. Send your bank details now for urgent cashback.",
		expected: policy.VerdictLikelyScam,
	},
	{
		name:     "credential_request",
		message:  "share otp cvv password and atm pin",
		expected: policy.VerdictLikelyScam,
	},

	// Some red flags
	{
		name:     "pressure_and_credentials",
		message:  "urgent: click here and verify now, share otp cvv password",
		expected: policy.VerdictSuspicious,
	},
	{
		name:     "odia_otp_urgency",
		message:  "ଆପଣଙ୍କ ଓଟିପି ତୁରନ୍ତ ପଠାନ୍ତୁ",
		expected: policy.VerdictSuspicious,
	},

	// Benign
	{
		name:     "benign_lunch",
		message:  "Hi, are we still meeting for lunch tomorrow?",
		expected: policy.VerdictSafe,
	},
	{
		name:     "benign_hindi_greeting",
		message:  "नमस्ते, आप कैसे हैं?",
		expected: policy.VerdictSafe,
	},
	{
		name:     "odia_money_only",
		message:  "ଟଙ୍କା",
		expected: policy.VerdictSafe,
	},
}

func runTest(cmd *cobra.Command, args []string) error {
	pol, err := loadPolicy()
	if err != nil {
		return err
	}

	// Create pipeline
	pipe := pipeline.New(pol, audit.NopLogger())
	out := cmd.ErrOrStderr()

	fmt.Fprintf(out, "\n=== Scam Shield Policy Tests ===\n")
	fmt.Fprintf(out, "Policy: %s (%s)\n\n", pol.PolicyName, pol.Version)

	passed := 0
	failed := 0

	for _, tc := range testCases {
		result, err := pipe.Process(cmd.Context(), tc.message, pipeline.SourceCLI)
		if err != nil {
			return fmt.Errorf("test %s: %w", tc.name, err)
		}
		actual := result.Verdict()

		status := "PASS"
		if actual != tc.expected {
			status = "FAIL"
			failed++
		} else {
			passed++
		}

		fmt.Fprintf(out, "  [%s] %-26s expected=%-12s got=%-12s score=%-3d",
			status, tc.name, tc.expected, actual, result.Analysis.ScamScore)
		if result.Rule.RuleName != "" {
			fmt.Fprintf(out, " rule=%s", result.Rule.RuleName)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "\n  Results: %d passed, %d failed, %d total\n\n",
		passed, failed, len(testCases))

	if failed > 0 {
		return fmt.Errorf("%d test(s) failed", failed)
	}
	return nil
}
