package cmdtree

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Executor runs a unit of work, the seam spec.md §4.6 uses to let a caller
// choose where parsing/postprocessing/handler execution actually happen
// (inline, on a worker pool, on a UI event loop thread, ...).
type Executor interface {
	Execute(fn func())
}

// InlineExecutor runs fn synchronously on the calling goroutine.
type InlineExecutor struct{}

func (InlineExecutor) Execute(fn func()) { fn() }

// GoExecutor runs fn on a new goroutine.
type GoExecutor struct{}

func (GoExecutor) Execute(fn func()) { go fn() }

// runOn dispatches fn through ex and blocks until it completes. This lets a
// multi-stage pipeline route each stage through its own Executor while still
// presenting a single synchronous call site to the stage after it.
func runOn(ex Executor, fn func()) {
	done := make(chan struct{})
	ex.Execute(func() {
		defer close(done)
		fn()
	})
	<-done
}

// Future is a single-assignment result delivered asynchronously, the
// generic rendering of spec.md §4.6's "returns a future, continuation
// dispatched on a caller-supplied executor". A channel-backed struct is the
// idiomatic Go shape here; no future/promise type exists anywhere in the
// retrieved corpus to build on, so this is a deliberate stdlib-only seam.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// NewFuture returns an unresolved Future.
func NewFuture[T any]() *Future[T] { return &Future[T]{done: make(chan struct{})} }

// resolve completes the future exactly once.
func (f *Future[T]) resolve(val T, err error) {
	f.val, f.err = val, err
	close(f.done)
}

// Wait blocks until f resolves or ctx is done, whichever comes first.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done reports whether f has resolved without blocking.
func (f *Future[T]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Preprocessor runs before parsing, e.g. to normalize input or reject a
// sender outright before spending cycles on a parse.
type Preprocessor func(ctx context.Context, sender any, input string) (string, error)

// Postprocessor runs after a successful parse but before the handler,
// typically for cross-cutting checks that need the fully bound
// CommandContext (rate limiting, auditing) rather than just the sender.
type Postprocessor func(cctx *CommandContext, cmd *Command) error

// Coordinator runs the full preprocess -> parse -> postprocess -> (optional
// single-flight mutex) -> handler pipeline spec.md §4.6 describes. Parsing,
// suggestion computation and handler invocation each run on their own named
// executor (any may alias the others); a command's own Executor overrides
// DefaultExecutor for its handler (spec.md §4.6: "runs the handler on its
// configured executor, falling back to default_execution").
type Coordinator struct {
	Tree *Tree

	ParsingExecutor     Executor
	SuggestionsExecutor Executor
	DefaultExecutor     Executor

	Preprocess  Preprocessor
	Postprocess Postprocessor

	parsingMu     *semaphore.Weighted // optional single-flight execution gate
	serializeExec bool
}

// NewCoordinator returns a Coordinator whose three executors all default to
// executor. If serializeExecution is true, handlers run one at a time
// (spec.md §4.6's optional execution mutex), context-aware via
// golang.org/x/sync/semaphore.
func NewCoordinator(tree *Tree, executor Executor, serializeExecution bool) *Coordinator {
	c := &Coordinator{
		Tree:                tree,
		ParsingExecutor:     executor,
		SuggestionsExecutor: executor,
		DefaultExecutor:     executor,
		serializeExec:       serializeExecution,
	}
	if serializeExecution {
		c.parsingMu = semaphore.NewWeighted(1)
	}
	return c
}

func (c *Coordinator) parsingExecutor() Executor {
	if c.ParsingExecutor == nil {
		return InlineExecutor{}
	}
	return c.ParsingExecutor
}

func (c *Coordinator) suggestionsExecutor() Executor {
	if c.SuggestionsExecutor == nil {
		return InlineExecutor{}
	}
	return c.SuggestionsExecutor
}

// handlerExecutor picks cmd's own Executor override, falling back to
// DefaultExecutor (spec.md §4.6).
func (c *Coordinator) handlerExecutor(cmd *Command) Executor {
	if cmd != nil && cmd.Executor != nil {
		return cmd.Executor
	}
	if c.DefaultExecutor == nil {
		return InlineExecutor{}
	}
	return c.DefaultExecutor
}

// Dispatch runs the pipeline for input on sender's behalf and returns a
// Future resolved once the handler (or an earlier pipeline stage) completes.
func (c *Coordinator) Dispatch(ctx context.Context, sender any, input string) *Future[*CommandContext] {
	future := NewFuture[*CommandContext]()
	go func() {
		cctx, err := c.run(ctx, sender, input)
		future.resolve(cctx, err)
	}()
	return future
}

func (c *Coordinator) run(ctx context.Context, sender any, input string) (*CommandContext, error) {
	if c.Preprocess != nil {
		processed, err := c.Preprocess(ctx, sender, input)
		if err != nil {
			return nil, err
		}
		input = processed
	}

	var results *ParseResults
	runOn(c.parsingExecutor(), func() {
		results = c.Tree.parse(ctx, sender, input)
	})

	cmd, err := results.Resolve()
	if err != nil {
		return results.Context, err
	}

	if c.Postprocess != nil {
		if err := c.Postprocess(results.Context, cmd); err != nil {
			return results.Context, err
		}
	}

	if c.parsingMu != nil {
		if err := c.parsingMu.Acquire(ctx, 1); err != nil {
			return results.Context, err
		}
		defer c.parsingMu.Release(1)
	}

	var handlerErr error
	runOn(c.handlerExecutor(cmd), func() {
		handlerErr = cmd.Handler(results.Context)
	})
	if handlerErr != nil {
		if isFrameworkError(handlerErr) {
			return results.Context, handlerErr
		}
		return results.Context, &CommandExecutionError{Err: handlerErr}
	}
	return results.Context, nil
}

// Suggest runs preprocess, then the Suggestion Engine on SuggestionsExecutor,
// returning a Future of the resulting candidate set (spec.md §4.6).
func (c *Coordinator) Suggest(ctx context.Context, sender any, input string, cursor int) *Future[*Suggestions] {
	future := NewFuture[*Suggestions]()
	go func() {
		if c.Preprocess != nil {
			processed, err := c.Preprocess(ctx, sender, input)
			if err != nil {
				future.resolve(nil, err)
				return
			}
			input = processed
		}
		var suggestions *Suggestions
		var err error
		runOn(c.suggestionsExecutor(), func() {
			results := c.Tree.parse(ctx, sender, input)
			suggestions, err = CompletionSuggestionsCursor(ctx, results, cursor)
		})
		future.resolve(suggestions, err)
	}()
	return future
}
