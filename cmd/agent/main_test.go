package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/passagent/passagent-go/internal/agent"
)

type cannedRunner struct {
	answers map[string]string
	errs    map[string]error
}

func (c cannedRunner) Run(ctx context.Context, query string) (agent.Result, error) {
	if err := c.errs[query]; err != nil {
		return agent.Result{Query: query}, err
	}
	return agent.Result{Query: query, Answer: c.answers[query]}, nil
}

func TestRunQueries_SeparatesDemoRuns(t *testing.T) {
	r := cannedRunner{answers: map[string]string{
		demoQueries[0]: "It is 09:30 AM.",
		demoQueries[1]: "Here it is: aB3!xQ9@mK2z",
	}}
	var out strings.Builder

	if code := runQueries(context.Background(), r, demoQueries, &out); code != 0 {
		t.Fatalf("runQueries() exit code = %d, want 0", code)
	}

	want := "response: It is 09:30 AM.\n" +
		strings.Repeat("#", 52) + "\n" +
		"response: Here it is: aB3!xQ9@mK2z\n"
	if out.String() != want {
		t.Errorf("runQueries() output = %q, want %q", out.String(), want)
	}
}

func TestRunQueries_Failures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "step limit", err: agent.ErrMaxSteps, wantCode: 1},
		{name: "interrupted", err: context.Canceled, wantCode: 130},
		{name: "oracle error", err: errors.New("upstream 500"), wantCode: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := cannedRunner{errs: map[string]error{"q": tt.err}}
			var out strings.Builder

			if code := runQueries(context.Background(), r, []string{"q"}, &out); code != tt.wantCode {
				t.Errorf("runQueries() exit code = %d, want %d", code, tt.wantCode)
			}
			if out.Len() != 0 {
				t.Errorf("runQueries() printed %q for a failed run", out.String())
			}
		})
	}
}
