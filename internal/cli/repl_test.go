package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/agbru/factcalc/internal/config"
	"github.com/agbru/factcalc/internal/orchestration"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// plain strips color sequences so assertions do not depend on the theme.
func plain(b *bytes.Buffer) string { return ansiPattern.ReplaceAllString(b.String(), "") }

func newTestREPL(input string) (*REPL, *bytes.Buffer) {
	cfg := config.AppConfig{
		Timeout:     time.Second,
		MaxTimeout:  10 * time.Second,
		MinParallel: 20,
		GCMode:      "disabled",
	}
	r := NewREPL(cfg, orchestration.Executor{Reporter: orchestration.NullProgressReporter{}})
	var out bytes.Buffer
	r.SetInput(strings.NewReader(input))
	r.SetOutput(&out)
	return r, &out
}

func TestREPL_Commands(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{"bare number", "5\nexit\n", []string{"5! = 120", "Goodbye!"}},
		{"calc with timeout", "calc 10 500\n", []string{"within 500ms", "10! = 3628800"}},
		{"calc timeout", "calc 3000000 1\n", []string{"Computation timed out"}},
		{"calc negative", "calc -3\n", []string{"Error:", "must be non-negative"}},
		{"calc missing", "calc\n", []string{"Usage: calc"}},
		{"unknown", "frobnicate\n", []string{"Unknown command: frobnicate"}},
		{"help", "help\n", []string{"Available commands:", "strategy <name>"}},
		{"eof without newline", "4", []string{"4! = 24", "Goodbye!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, out := newTestREPL(tt.input)
			r.Start(context.Background())
			got := plain(out)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output should contain %q, got:\n%s", want, got)
				}
			}
		})
	}
}

func TestREPL_Settings(t *testing.T) {
	t.Parallel()
	r, out := newTestREPL("timeout 0\nworkers 3\nstrategy coordinated\nstatus\ntimeout 999999\nstrategy bogus\nworkers -1\n")
	r.Start(context.Background())

	cfg := r.Config()
	if cfg.Timeout != 10*time.Second {
		t.Errorf("timeout = %v, want clamp to 10s", cfg.Timeout)
	}
	if cfg.Workers != 3 {
		t.Errorf("workers = %d, want 3", cfg.Workers)
	}
	if cfg.Strategy != "coordinated" {
		t.Errorf("strategy = %q, want coordinated", cfg.Strategy)
	}
	got := plain(out)
	for _, want := range []string{"Timeout set to: 1s", "Workers set to: 3", "Strategy:     coordinated", "Unknown strategy: bogus", "Invalid worker count: -1"} {
		if !strings.Contains(got, want) {
			t.Errorf("output should contain %q, got:\n%s", want, got)
		}
	}
}

func TestREPL_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, out := newTestREPL("5\n")
	r.Start(ctx)
	if strings.Contains(plain(out), "5! =") {
		t.Error("a cancelled session should not run commands")
	}
}
