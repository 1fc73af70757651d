package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quidome/capturetime/internal/logging"
)

// ErrCanceled is matched by the error Run returns when its context ends.
var ErrCanceled = errors.New("batch canceled")

// ErrorMode decides what a worker failure does to the rest of the batch.
type ErrorMode int

const (
	// FailFast stops at the first failure and returns it.
	FailFast ErrorMode = iota
	// Collect records the failure, stores a placeholder result and continues.
	Collect
	// Ignore stores a placeholder result and continues.
	Ignore
)

func (m ErrorMode) String() string {
	switch m {
	case Collect:
		return "collect"
	case Ignore:
		return "ignore"
	default:
		return "fail-fast"
	}
}

func ParseErrorMode(s string) (ErrorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fail-fast", "failfast", "":
		return FailFast, nil
	case "collect":
		return Collect, nil
	case "ignore":
		return Ignore, nil
	}
	return FailFast, fmt.Errorf("unknown error mode %q", s)
}

// Worker processes one item. index is the item's position in the input.
type Worker[T, R any] func(ctx context.Context, item T, index int) (R, error)

// ItemError is a worker failure for the item at Index.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Options configures Run.
type Options[T, R any] struct {
	// ChunkSize is the number of items between chunk checkpoints. Zero picks
	// AutoChunkSize.
	ChunkSize int
	// UIBound favors responsiveness over throughput.
	UIBound bool
	// Yield gives the scheduler a turn between chunks. Nil means UIBound.
	Yield *bool

	Pause *PauseToken

	// Priority reorders processing, highest first. Ties keep input order.
	Priority func(T) float64

	ErrorMode ErrorMode

	OnProgress func(Progress)
	// OnItem sees every processed item with its stored result. A panic in it
	// is recovered and logged.
	OnItem func(item T, result R, index int)
	// ProgressInterval bounds OnProgress calls. Zero means
	// DefaultProgressInterval and a negative value reports every item.
	ProgressInterval time.Duration

	// Placeholder produces the result stored for a failed item. Nil stores
	// the zero value.
	Placeholder func(T) R

	Logger *slog.Logger
}

// Result holds one result per input item, in input order.
type Result[R any] struct {
	JobID     string
	Results   []R
	Errors    []*ItemError
	Completed int
}

// Run processes items with worker. The returned error is nil, wraps
// ErrCanceled, or is the first *ItemError under FailFast. The Result is
// populated up to the point Run stopped.
func Run[T, R any](ctx context.Context, items []T, worker Worker[T, R], opts Options[T, R]) (Result[R], error) {
	jobID := uuid.NewString()
	logger := logging.NewComponentLogger(opts.Logger, "batch").With(logging.FieldJobID, jobID)

	total := len(items)
	res := Result[R]{JobID: jobID, Results: make([]R, total)}

	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = AutoChunkSize(total, opts.UIBound)
	}
	yield := opts.UIBound
	if opts.Yield != nil {
		yield = *opts.Yield
	}

	order := processingOrder(items, opts.Priority)
	progress := newProgressEmitter(opts.OnProgress, opts.ProgressInterval)
	start := time.Now()

	logger.Debug("batch started",
		logging.FieldCount, total,
		slog.Int("chunk_size", chunk),
		slog.String("error_mode", opts.ErrorMode.String()),
	)

	for lo := 0; lo < total; lo += chunk {
		if lo > 0 && yield {
			runtime.Gosched()
		}
		if err := checkpoint(ctx, opts.Pause); err != nil {
			return res, canceled(logger, err, res.Completed, total)
		}

		hi := min(lo+chunk, total)
		for _, idx := range order[lo:hi] {
			if err := checkpoint(ctx, opts.Pause); err != nil {
				return res, canceled(logger, err, res.Completed, total)
			}

			item := items[idx]
			out, err := call(ctx, worker, item, idx)
			if err != nil {
				ie := &ItemError{Index: idx, Err: err}
				switch opts.ErrorMode {
				case FailFast:
					logger.Debug("batch aborted", logging.FieldCount, res.Completed, logging.Error(ie))
					return res, ie
				case Collect:
					res.Errors = append(res.Errors, ie)
				}
				out = placeholder(opts.Placeholder, item)
			}
			res.Results[idx] = out
			notify(logger, opts.OnItem, item, out, idx)
			res.Completed++
			progress.emit(snapshot(jobID, res.Completed, total, time.Since(start)))
		}
	}

	progress.final(snapshot(jobID, res.Completed, total, time.Since(start)))
	logger.Debug("batch finished",
		logging.FieldCount, res.Completed,
		slog.Int("errors", len(res.Errors)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// processingOrder returns input indices, stably sorted by descending priority
// when one is given.
func processingOrder[T any](items []T, priority func(T) float64) []int {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	if priority == nil {
		return order
	}
	scores := make([]float64, len(items))
	for i, it := range items {
		scores[i] = priority(it)
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	return order
}

// checkpoint observes cancellation first, then waits out a pause.
func checkpoint(ctx context.Context, pause *PauseToken) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	if pause == nil {
		return nil
	}
	return pause.Wait(ctx)
}

func canceled(logger *slog.Logger, cause error, completed, total int) error {
	logger.Info("batch canceled", logging.FieldCount, completed, slog.Int("total", total))
	return fmt.Errorf("%w: %w", ErrCanceled, cause)
}

func call[T, R any](ctx context.Context, worker Worker[T, R], item T, idx int) (out R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker panic: %v", r)
		}
	}()
	return worker(ctx, item, idx)
}

func placeholder[T, R any](fn func(T) R, item T) R {
	if fn == nil {
		var zero R
		return zero
	}
	return fn(item)
}

func notify[T, R any](logger *slog.Logger, fn func(T, R, int), item T, out R, idx int) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("item callback panicked", slog.Int("index", idx), slog.Any("panic", r))
		}
	}()
	fn(item, out, idx)
}
