package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/kerf/pkg/studio"
)

// DefaultEvalTimeout bounds a single evaluation when settings leave it unset.
const DefaultEvalTimeout = 5 * time.Second

// evalResult carries one evaluation's output through a channel.
type evalResult struct {
	workspace *studio.Workspace
	errors    []EvalError
	err       error
}

// waitWithTimeout waits for a result from ch, or fails once timeout
// elapses. A result whose generation is no longer current is discarded.
//
// On timeout the goroutine may still be running; the generation check
// discards its result when it eventually completes.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
	timeout time.Duration,
) (*studio.Workspace, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.workspace, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)
	}
}
