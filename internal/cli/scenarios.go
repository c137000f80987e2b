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
	"github.com/axiomlogic/axiom/internal/scenario"
)

var (
	scenarioTimeout  time.Duration
	scenarioJSON     bool
	scenarioPlaybook string
)

// scenariosCmd represents the scenarios command
var scenariosCmd = &cobra.Command{
	Use:   "scenarios <file>",
	Short: "Stress-test a contract with hypothetical scenarios",
	Long: `Scenarios evaluates hypothetical trigger events against the contract:
the built-in playbook for founder and employment agreements, scenarios
derived from the contract's own clauses, and any YAML playbook you
provide.

Example:
  axiom scenarios contract.txt
  axiom scenarios contract.txt --playbook my-scenarios.yaml
  axiom scenarios add contract.txt "What if I get sick for 6 months?"`,
	Args: cobra.ExactArgs(1),
	RunE: runScenarios,
}

// scenariosAddCmd evaluates one custom scenario question
var scenariosAddCmd = &cobra.Command{
	Use:   "add <file> <question>",
	Short: "Evaluate a custom scenario question",
	Long: `Add structures a free-text "what if" question into a scenario and
evaluates it against the contract.

Example:
  axiom scenarios add contract.txt "What if I get cancer and can't work for 6 months?"`,
	Args: cobra.ExactArgs(2),
	RunE: runScenarioAdd,
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
	scenariosCmd.AddCommand(scenariosAddCmd)

	scenariosCmd.PersistentFlags().DurationVar(&scenarioTimeout, "timeout", 2*time.Minute, "scenario run timeout")
	scenariosCmd.PersistentFlags().BoolVar(&scenarioJSON, "json", false, "emit results as JSON")
	scenariosCmd.PersistentFlags().StringVar(&scenarioPlaybook, "playbook", "", "YAML playbook of additional scenarios")
	scenariosCmd.PersistentFlags().StringVar(&llmProvider, "llm", "", "LLM provider for question structuring (openai, anthropic, ollama)")
	scenariosCmd.PersistentFlags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runScenarios(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), scenarioTimeout)
	defer cancel()

	engine, _, err := buildEngine(args[0])
	if err != nil {
		return err
	}

	results, err := engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("run scenarios: %w", err)
	}

	return printScenarioResults(results)
}

func runScenarioAdd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), scenarioTimeout)
	defer cancel()

	engine, _, err := buildEngine(args[0])
	if err != nil {
		return err
	}

	spec, err := engine.AddCustom(ctx, args[1])
	if err != nil {
		return fmt.Errorf("structure scenario: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Structured scenario: %s\n", spec.Name)
		fmt.Fprintf(os.Stderr, "  Trigger: %s\n\n", spec.TriggerEvent)
	}

	return printScenarioResults([]model.ScenarioResult{engine.Evaluate(spec)})
}

func buildEngine(path string) (*scenario.Engine, *pipeline.Document, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if scenarioPlaybook != "" {
		cfg.Scenario.PlaybookPath = scenarioPlaybook
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read contract: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	return p.NewScenarioEngine(string(data))
}

func printScenarioResults(results []model.ScenarioResult) error {
	if scenarioJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	passed, failed := 0, 0
	for _, r := range results {
		mark := "✓"
		if r.Status == model.ScenarioFail {
			mark = "✗"
			failed++
		} else {
			passed++
		}
		fmt.Printf("%s %s [%s]\n", mark, r.Name, r.SourceType)
		fmt.Printf("  Trigger: %s\n", r.TriggerEvent)
		if r.ActualOutcome != "" {
			fmt.Printf("  Outcome: %s\n", r.ActualOutcome)
		}
		if r.Conflict != "" {
			fmt.Printf("  Conflict: %s\n", r.Conflict)
		}
		fmt.Println()
	}

	fmt.Printf("%d passed, %d failed\n", passed, failed)
	return nil
}
