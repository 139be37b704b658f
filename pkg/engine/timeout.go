package engine

import (
	"fmt"
	"sync"
	"time"
)

// EvalTimeout is the hard limit for a single script evaluation.
const EvalTimeout = 5 * time.Second

// evalResult is the internal type used to pass evaluation results
// through channels.
type evalResult struct {
	value  string
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, but returns a timeout
// error if the evaluation exceeds EvalTimeout. It uses a generation
// counter to discard stale results from previous evaluations.
//
// On timeout, the goroutine may still be running. Advancing the
// generation here retires it: its builtins check the counter before
// every dispatch, so a script the caller was told timed out can no
// longer mutate the store, and its eventual result is discarded.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (string, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		// Check if this result is still relevant (not stale).
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			// A newer evaluation was started; discard this result.
			return "", nil, fmt.Errorf("evaluation superseded by newer request")
		}

		return res.value, res.errors, res.err

	case <-timer.C:
		// Retire this generation so the zombie goroutine's builtins
		// stop dispatching. Only bump if no newer run already did.
		mu.Lock()
		if *currentGen == gen {
			*currentGen++
		}
		mu.Unlock()
		return "", nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
