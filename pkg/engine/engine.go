// Package engine provides the Lisp scripting console for Maquette.
// It wraps zygomys in a sandboxed environment whose builtins dispatch
// actions into a store — a script can do anything the UI can do, plus
// read the resulting state back.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/maquette/pkg/store"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for Maquette scripting. It is
// safe for concurrent use; each call to Run creates a fresh sandboxed
// environment, and all scripts dispatch into the same store, which
// serializes the actual mutations.
type Engine struct {
	store *store.Store

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an Engine bound to the given store.
func NewEngine(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Run evaluates script source against the engine's store. The string
// result is the printed form of the last expression value.
//
// Return semantics:
//   - On success: returns value + nil errors + nil error
//   - On parse/eval failure: returns "" + eval errors + nil error
//   - On fatal failure (timeout, panic): returns "" + nil + error
//
// Script builtins fail loudly: a reference that does not resolve or an
// action the reducer would reject aborts the script with an EvalError
// instead of silently no-oping, since script authors want feedback.
// Mutations dispatched before the failing form remain applied (and
// undoable) — the script is a stream of actions, not a transaction.
func (e *Engine) Run(source string) (string, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		value, evalErrs, err := e.run(source, gen)
		ch <- evalResult{value: value, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// superseded reports whether a newer Run call has started since gen.
// Builtins consult this before every dispatch so a timed-out script
// cannot keep mutating the store underneath a newer one.
func (e *Engine) superseded(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen != e.generation
}

// run performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) run(source string, gen uint64) (string, []EvalError, error) {
	// Empty source is a valid program with no value.
	if strings.TrimSpace(source) == "" {
		return "", nil, nil
	}

	// Create a fresh sandboxed zygomys environment. Sandbox mode
	// prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, &scriptContext{engine: e, gen: gen})

	processed := preprocessSource(source)

	// Load and compile the source string into bytecode.
	if err := env.LoadString(processed); err != nil {
		return "", parseZygomysError(err), nil
	}

	// Execute the compiled bytecode.
	result, err := env.Run()
	if err != nil {
		return "", parseZygomysError(err), nil
	}

	if result == nil || result == zygo.SexpNull {
		return "", nil, nil
	}
	// Strings print raw: (tree) output would be unreadable quoted.
	if str, ok := result.(*zygo.SexpStr); ok {
		return str.S, nil, nil
	}
	return result.SexpString(nil), nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line number information where the message has it.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	// Fallback: no line info available.
	return []EvalError{{
		Line:    0,
		Col:     0,
		Message: strings.TrimSpace(msg),
	}}
}
