// Command agent sends queries to the tool-using agent and prints its answers.
// Without arguments it runs two demo queries.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/passagent/passagent-go/internal/agent"
	"github.com/passagent/passagent-go/internal/config"
	"github.com/passagent/passagent-go/internal/crypto"
	"github.com/passagent/passagent-go/internal/tool"
)

const separator = "####################################################"

var demoQueries = []string{
	"What time is it?",
	"Can you generate a secure password for me.",
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(cfg.Logger())

	if !cfg.AgentEnabled() {
		fmt.Fprintln(os.Stderr, "agent: set ORACLE_PROVIDER and the matching API key (OPENAI_API_KEY or ANTHROPIC_API_KEY)")
		os.Exit(1)
	}

	registry, err := tool.NewDefaultRegistry(crypto.GenerationPolicy{
		Length:         cfg.PasswordLength,
		IncludeSpecial: cfg.PasswordSpecial,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "agent: %v\n", err)
		os.Exit(1)
	}

	oracle, err := agent.NewOracle(agent.OracleConfig{
		Provider:    cfg.OracleProvider,
		APIKey:      cfg.OracleAPIKey,
		Model:       cfg.OracleModel,
		Temperature: cfg.OracleTemperature,
		BaseURL:     cfg.OracleBaseURL,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "agent: %v\n", err)
		os.Exit(1)
	}
	exec := agent.NewExecutor(oracle, registry, cfg.AgentMaxSteps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queries := demoQueries
	if len(os.Args) > 1 {
		queries = os.Args[1:]
	}
	code := runQueries(ctx, exec, queries, os.Stdout)
	stop()
	os.Exit(code)
}

type runner interface {
	Run(ctx context.Context, query string) (agent.Result, error)
}

// runQueries answers each query in turn and returns the exit code.
func runQueries(ctx context.Context, r runner, queries []string, stdout io.Writer) int {
	failed := false
	for i, q := range queries {
		if i > 0 {
			fmt.Fprintln(stdout, separator)
		}
		res, err := r.Run(ctx, q)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return 130
			}
			slog.Error("agent run failed", "query", q, "steps", len(res.Steps), "error", err)
			failed = true
			continue
		}
		fmt.Fprintf(stdout, "response: %s\n", res.Answer)
	}
	if failed {
		return 1
	}
	return 0
}
