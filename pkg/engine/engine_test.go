package engine

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/maquette/pkg/store"
)

func newTestEngine() (*Engine, *store.Store) {
	st := store.NewStore()
	return NewEngine(st), st
}

func TestRunEmptyString(t *testing.T) {
	eng, st := newTestEngine()

	value, evalErrs, err := eng.Run("")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if value != "" {
		t.Errorf("expected empty value, got %q", value)
	}
	if st.State().Model.NodeCount() != 1 {
		t.Errorf("empty script should leave only the root, got %d nodes", st.State().Model.NodeCount())
	}
}

func TestRunWhitespaceOnly(t *testing.T) {
	eng, _ := newTestEngine()

	value, evalErrs, err := eng.Run("   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if value != "" {
		t.Errorf("expected empty value, got %q", value)
	}
}

func TestRunValidExpression(t *testing.T) {
	eng, _ := newTestEngine()

	value, evalErrs, err := eng.Run("(+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if value != "3" {
		t.Errorf("expected value %q, got %q", "3", value)
	}
}

func TestRunMultipleExpressions(t *testing.T) {
	eng, _ := newTestEngine()

	source := `
(def x 10)
(def y 20)
(+ x y)
`
	value, evalErrs, err := eng.Run(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if value != "30" {
		t.Errorf("expected value %q, got %q", "30", value)
	}
}

func TestRunSyntaxError(t *testing.T) {
	eng, st := newTestEngine()

	// Unmatched paren is a parse error.
	_, evalErrs, err := eng.Run("(+ 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
	if st.State().Model.NodeCount() != 1 {
		t.Errorf("failed script should not have touched the model, got %d nodes", st.State().Model.NodeCount())
	}
}

func TestRunUndefinedSymbol(t *testing.T) {
	eng, _ := newTestEngine()

	_, evalErrs, err := eng.Run("(no-such-builtin 1 2)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval error for undefined symbol")
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 3, Message: "boom"}
	if !strings.Contains(e.Error(), "line 3") {
		t.Errorf("expected line info in error string, got %q", e.Error())
	}
	e = EvalError{Message: "boom"}
	if e.Error() != "boom" {
		t.Errorf("expected bare message without line info, got %q", e.Error())
	}
}

func TestRunDeterministic(t *testing.T) {
	// Each run gets a fresh sandbox: definitions do not leak between runs.
	eng, _ := newTestEngine()

	if _, evalErrs, err := eng.Run("(def leak 42)"); err != nil || len(evalErrs) > 0 {
		t.Fatalf("setup run failed: %v %v", evalErrs, err)
	}

	_, evalErrs, err := eng.Run("(+ leak 1)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval error: defs must not leak across runs")
	}
}

func TestRunTimeout(t *testing.T) {
	// Test the timeout plumbing directly with a channel that never
	// sends, rather than spinning the interpreter for EvalTimeout.
	eng, st := newTestEngine()
	eng.mu.Lock()
	eng.generation = 1
	eng.mu.Unlock()
	ch := make(chan evalResult) // never sends

	done := make(chan struct{})
	var resultErr error

	go func() {
		defer close(done)
		_, _, resultErr = waitWithTimeout(ch, 1, &eng.mu, &eng.generation)
	}()

	select {
	case <-done:
		if resultErr == nil {
			t.Fatal("expected timeout error, got nil")
		}
		if !strings.Contains(resultErr.Error(), "timed out") {
			t.Errorf("expected timeout error message, got: %v", resultErr)
		}
	case <-time.After(EvalTimeout + 2*time.Second):
		t.Fatal("test itself timed out waiting for evaluation timeout")
	}

	// The timeout must retire the generation so the still-running
	// script's builtins can no longer mutate the store.
	if !eng.superseded(1) {
		t.Fatal("timeout should advance the generation past the zombie script")
	}
	sc := &scriptContext{engine: eng, gen: 1}
	if _, err := sc.dispatch(store.Undo{}); err == nil {
		t.Fatal("expected dispatch from a timed-out script to fail")
	}
	if got := st.State().Model.NodeCount(); got != 1 {
		t.Errorf("timed-out script must not have touched the model, got %d nodes", got)
	}
}

func TestRunGenerationDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2) // current generation is 2

	ch := make(chan evalResult, 1)
	ch <- evalResult{value: "stale"}

	// Pass generation 1 (stale).
	_, _, err := waitWithTimeout(ch, 1, &mu, &gen)
	if err == nil {
		t.Fatal("expected error for stale generation")
	}
	if !strings.Contains(err.Error(), "superseded") {
		t.Errorf("expected superseded error, got: %v", err)
	}
}

func TestSupersededScriptStopsDispatching(t *testing.T) {
	eng, _ := newTestEngine()

	sc := &scriptContext{engine: eng, gen: 1}
	eng.mu.Lock()
	eng.generation = 2 // a newer run has started
	eng.mu.Unlock()

	if _, err := sc.dispatch(store.Undo{}); err == nil {
		t.Fatal("expected dispatch from a superseded script to fail")
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"error on line format", "Error on line 7: unexpected token", 7},
		{"bare line format", "line 12: something broke", 12},
		{"no line info", "something went wrong", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errFromString(tt.input))
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d", len(errs))
			}
			if errs[0].Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", errs[0].Line, tt.wantLine)
			}
			if errs[0].Message == "" {
				t.Error("message should not be empty")
			}
		})
	}
}

// errFromString wraps a string as an error for parse tests.
type stringError string

func (e stringError) Error() string { return string(e) }

func errFromString(s string) error { return stringError(s) }
