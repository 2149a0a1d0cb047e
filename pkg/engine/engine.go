// Package engine evaluates kerf sketch scripts. It wraps zygomys in a
// sandboxed environment and builds a studio.Workspace from user source.
package engine

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/studio"
	zygo "github.com/glycerine/zygomys/zygo"
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

// Engine wraps the zygomys interpreter. It is safe for concurrent use; each
// call to Evaluate creates a fresh sandbox and a fresh workspace.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	settings config.Settings
	log      *slog.Logger
}

// NewEngine creates an Engine with default settings.
func NewEngine() *Engine {
	return NewEngineWithSettings(config.Default())
}

// NewEngineWithSettings creates an Engine whose workspaces use s.
func NewEngineWithSettings(s config.Settings) *Engine {
	return &Engine{settings: s, log: slog.Default()}
}

func (e *Engine) timeout() time.Duration {
	if d := e.settings.EvalTimeout.Duration; d > 0 {
		return d
	}
	return DefaultEvalTimeout
}

// Evaluate runs source and returns the workspace it built.
//
// Return semantics:
//   - On success: returns workspace + nil errors + nil error
//   - On parse/eval failure: returns nil workspace + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*studio.Workspace, []EvalError, error) {
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

		w, evalErrs, err := e.evaluate(source)
		ch <- evalResult{workspace: w, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation, e.timeout())
}

// evaluate performs the zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*studio.Workspace, []EvalError, error) {
	w := studio.New(e.settings, studio.WithLogger(e.log))

	// Empty source is a valid program with an empty workspace.
	if strings.TrimSpace(source) == "" {
		return w, nil, nil
	}

	// Sandbox mode keeps user code away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, w)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	e.log.Debug("script evaluated", "solids", len(w.Scene.Handles()), "planes", len(w.Planes.Planes()))
	return w, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting the line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
