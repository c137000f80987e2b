package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/axiomlogic/axiom/internal/model"
	"github.com/axiomlogic/axiom/internal/pipeline"
)

var (
	verifyTimeout time.Duration
	verifyJSON    bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <file> <assertion>",
	Short: "Verify a plain-language assertion against a contract",
	Long: `Verify checks whether the contract's clause logic supports an
assertion stated in plain language. The resolution streams as it
happens: entities being grounded, conflicts surfacing, and the causal
chain from assertion to verdict.

Verdicts:
  pass       the contract supports the assertion
  warning    supported with caveats, or contradicted only via a bypassed protection
  fail       the contract contradicts the assertion
  ambiguous  an asserted entity could not be found in the document

Example:
  axiom verify contract.txt "Founder keeps vested shares if resignation is for Good Reason"
  axiom verify contract.txt "Company can terminate at will" --json`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", time.Minute, "verification timeout")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "emit the event stream as JSON lines")
	verifyCmd.Flags().StringVar(&llmProvider, "llm", "", "LLM provider for assertion parsing (openai, anthropic, ollama)")
	verifyCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runVerify(cmd *cobra.Command, args []string) error {
	path, assertion := args[0], args[1]
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read contract: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	verifier, doc, err := p.NewVerifier(string(data))
	if err != nil {
		return err
	}

	if verbose && len(doc.StructureProblems) > 0 {
		for _, problem := range doc.StructureProblems {
			fmt.Fprintf(os.Stderr, "⚠ structure: %s\n", problem)
		}
	}

	var result *model.VerificationResult
	for ev := range verifier.Stream(ctx, assertion) {
		if verifyJSON {
			line, err := json.Marshal(ev)
			if err != nil {
				return fmt.Errorf("marshal event: %w", err)
			}
			fmt.Println(string(line))
			if ev.Kind == model.EventComplete {
				result = ev.Result
			}
			continue
		}

		switch ev.Kind {
		case model.EventThinking:
			fmt.Fprintf(os.Stderr, "… %s\n", ev.Message)
		case model.EventEntityFound:
			fmt.Fprintf(os.Stderr, "✓ %s (%s)\n", ev.Entity, ev.Location)
		case model.EventConflict:
			fmt.Fprintf(os.Stderr, "⚠ [%s] %s\n", ev.Severity, ev.Details)
		case model.EventTrace:
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, "Logic trace:")
			for i, step := range ev.Chain {
				fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, step.Label)
				if step.Snippet != "" {
					fmt.Fprintf(os.Stderr, "     %s\n", step.Snippet)
				}
			}
			fmt.Fprintln(os.Stderr)
		case model.EventComplete:
			result = ev.Result
		case model.EventError:
			return fmt.Errorf("verification failed: %s", ev.Message)
		}
	}

	if result == nil {
		return ctx.Err()
	}

	if !verifyJSON {
		fmt.Printf("Verdict:  %s\n", result.Verdict)
		fmt.Printf("Summary:  %s\n", result.Summary)
		fmt.Printf("Expected: %s\n", result.ExpectedOutcome)
		fmt.Printf("Actual:   %s\n", result.ActualOutcome)
	}

	// Non-pass verdicts exit non-zero so scripts can gate on them
	if result.Verdict == model.VerdictFail {
		os.Exit(1)
	}
	return nil
}
