// Package engine runs the streaming sculpt loop.
//
// An Engine is bound to two text surfaces (the state being sculpted and the
// instruction input) and a settings store. Each Sculpt call snapshots the
// live state and the current config, sends one request to the configured
// provider, and overwrites the state surface with the accumulated reply
// after every chunk. At most one call runs at a time; triggers that arrive
// while a call is in flight are dropped, as are blank instructions.
//
// Provider failures never escape as panics or returned errors. The engine
// appends ErrorSuffix to whatever the state surface holds at the moment of
// failure and reports the cause in Result.Err. Partial output streamed before
// the failure is kept.
//
//	state := buffer.NewText("func main() {}")
//	instr := buffer.NewText("add a hello world print")
//	eng := engine.New(state, instr, settings.NewMemoryStore())
//
//	res, ok := eng.Sculpt(ctx)
//	if !ok {
//	    return // busy or blank instruction
//	}
//	if res.Err != nil {
//	    log.Printf("sculpt failed: %v", res.Err)
//	}
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/sculpt/buffer"
	"github.com/randalmurphal/sculpt/metrics"
	"github.com/randalmurphal/sculpt/provider"
	"github.com/randalmurphal/sculpt/settings"
	"github.com/randalmurphal/sculpt/tokens"
)

// ErrorSuffix is appended to the state surface when a sculpt fails.
const ErrorSuffix = "\n\n// Error: Failed to connect to provider."

var (
	// ErrIncomplete indicates the provider closed its stream without a
	// completion marker.
	ErrIncomplete = errors.New("stream ended without completion")

	// ErrPanicked indicates a collaborator panicked during a sculpt.
	ErrPanicked = errors.New("sculpt panicked")
)

// Status is the engine's busy flag.
type Status int32

const (
	// StatusIdle means a new sculpt may start.
	StatusIdle Status = iota
	// StatusSculpting means a sculpt is in flight.
	StatusSculpting
)

// String returns the label shown in status bars.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "ready"
	case StatusSculpting:
		return "sculpting"
	default:
		return "unknown"
	}
}

// ClientFactory builds a provider client from a config snapshot.
type ClientFactory func(cfg provider.Config) (provider.Client, error)

// Request is the input of one sculpt as captured at call start.
type Request struct {
	PriorState  string
	Instruction string
}

// Result describes a finished sculpt.
type Result struct {
	// ID correlates log lines for this sculpt.
	ID string

	Request Request
	Config  provider.Config

	// FinalState is the state surface content when the call ended. On
	// failure it ends with ErrorSuffix.
	FinalState string

	// Elapsed is zero on failure.
	Elapsed time.Duration

	// OutputTokens is the last cumulative count the provider reported, or
	// nil if none was reported or the call failed.
	OutputTokens *int

	// TokensPerSecond is nil unless OutputTokens is known and Elapsed > 0.
	TokensPerSecond *float64

	// Err is nil on success.
	Err error
}

// Engine runs sculpts against a pair of text surfaces. It is safe for
// concurrent use; overlapping Sculpt calls are dropped rather than queued.
type Engine struct {
	state       buffer.View
	instruction buffer.View
	store       settings.Store

	factory ClientFactory
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	status atomic.Int32

	mu      sync.Mutex
	snap    Snapshot
	subs    map[int]func(Snapshot)
	nextSub int
}

// New creates an Engine. The store is only read.
func New(state, instruction buffer.View, store settings.Store, opts ...Option) *Engine {
	e := &Engine{
		state:       state,
		instruction: instruction,
		store:       store,
		factory:     provider.New,
		now:         time.Now,
		logger:      slog.Default(),
		subs:        make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(e)
	}
	cfg := store.Get()
	e.snap = Snapshot{Status: StatusIdle, Provider: cfg.Provider, Model: cfg.ResolvedModel()}
	return e
}

// Status reports whether a sculpt is in flight.
func (e *Engine) Status() Status {
	return Status(e.status.Load())
}

// run is the state of one in-flight sculpt.
type run struct {
	id     string
	req    Request
	cfg    provider.Config
	start  time.Time
	logger *slog.Logger
}

// Sculpt runs one sculpt on the calling goroutine and blocks until it ends.
//
// It returns ok == false without side effects when another sculpt is in
// flight or when the effective instruction is blank. Otherwise ok is true
// and the Result reports success or the provider failure; the state surface
// has already been updated either way.
func (e *Engine) Sculpt(ctx context.Context, opts ...SculptOption) (res Result, ok bool) {
	var so sculptOptions
	for _, opt := range opts {
		opt(&so)
	}

	resolve := func() string {
		if so.override {
			return so.instruction
		}
		return e.instruction.Value()
	}

	// A blank trigger must not touch the status, even briefly.
	if blank(resolve()) {
		e.dropBlank()
		return Result{}, false
	}
	if !e.status.CompareAndSwap(int32(StatusIdle), int32(StatusSculpting)) {
		e.metrics.Dropped(metrics.DropBusy)
		e.logger.Debug("sculpt dropped", slog.String("reason", metrics.DropBusy))
		return Result{}, false
	}

	var cur *run
	defer func() {
		p := recover()
		if p != nil {
			if cur != nil {
				res, ok = e.recovered(cur, p), true
			} else {
				e.logger.Error("sculpt aborted before start", slog.Any("panic", p))
				res, ok = Result{}, false
			}
		}
		e.status.Store(int32(StatusIdle))
		if cur != nil {
			e.publish(resultSnapshot(res))
		}
	}()

	// Read again under the guard: a sculpt that finished since the first
	// read may have consumed the instruction.
	instruction := resolve()
	if blank(instruction) {
		e.dropBlank()
		return Result{}, false
	}

	cur = &run{}
	e.begin(cur, instruction)
	return e.stream(ctx, cur), true
}

func blank(instruction string) bool {
	return strings.TrimSpace(instruction) == ""
}

func (e *Engine) dropBlank() {
	e.metrics.Dropped(metrics.DropBlank)
	e.logger.Debug("sculpt dropped", slog.String("reason", metrics.DropBlank))
}

// begin snapshots the inputs of a sculpt into cur and announces it.
func (e *Engine) begin(cur *run, instruction string) {
	e.metrics.Started()
	cur.id = uuid.NewString()
	cur.logger = e.logger.With(slog.String("sculpt_id", cur.id))

	cur.req = Request{PriorState: e.state.Value(), Instruction: instruction}
	cur.cfg = e.store.Get()
	e.instruction.SetValue("")
	cur.start = e.now()

	e.publish(Snapshot{
		Status:   StatusSculpting,
		ID:       cur.id,
		Provider: cur.cfg.Provider,
		Model:    cur.cfg.ResolvedModel(),
	})
	cur.logger.Info("sculpt started",
		slog.Any("config", cur.cfg),
		slog.Int("state_bytes", len(cur.req.PriorState)),
		slog.Int("instruction_bytes", len(instruction)),
	)
}

// stream sends the request and applies chunks until the stream ends.
func (e *Engine) stream(ctx context.Context, cur *run) Result {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	client, err := e.factory(cur.cfg)
	if err != nil {
		return e.fail(cur, err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			cur.logger.Debug("close provider client", slog.Any("error", err))
		}
	}()

	req := provider.NewSculptRequest(cur.cfg, cur.req.PriorState, cur.req.Instruction)
	chunks, err := client.Stream(ctx, req)
	if err != nil {
		return e.fail(cur, err)
	}

	var acc strings.Builder
	var outputTokens *int
	for {
		select {
		case <-ctx.Done():
			return e.fail(cur, interrupted(cur.cfg.Provider, ctx.Err()))

		case chunk, open := <-chunks:
			if !open {
				return e.fail(cur, provider.NewError(cur.cfg.Provider, "stream",
					provider.Classify(provider.ErrStreamInterrupted, ErrIncomplete), false))
			}
			if chunk.Error != nil {
				return e.fail(cur, chunk.Error)
			}
			if chunk.OutputTokens != nil {
				outputTokens = provider.IntPtr(*chunk.OutputTokens)
			}
			if !chunk.Done || chunk.Content != "" {
				acc.WriteString(chunk.Content)
				e.state.SetValue(acc.String())
			}
			if chunk.Done {
				return e.succeed(cur, outputTokens)
			}
		}
	}
}

func (e *Engine) succeed(cur *run, outputTokens *int) Result {
	elapsed := e.now().Sub(cur.start)
	res := Result{
		ID:              cur.id,
		Request:         cur.req,
		Config:          cur.cfg,
		FinalState:      e.state.Value(),
		Elapsed:         elapsed,
		OutputTokens:    outputTokens,
		TokensPerSecond: tokens.RatePtr(outputTokens, elapsed),
	}

	e.metrics.Succeeded(cur.cfg.Provider, elapsed, res.OutputTokens, res.TokensPerSecond)
	attrs := []any{slog.Duration("elapsed", elapsed)}
	if outputTokens != nil {
		attrs = append(attrs, slog.Int("output_tokens", *outputTokens))
	}
	if res.TokensPerSecond != nil {
		attrs = append(attrs, slog.Float64("tokens_per_second", *res.TokensPerSecond))
	}
	cur.logger.Info("sculpt finished", attrs...)
	return res
}

// fail annotates the state surface and reports err. Metrics are discarded.
func (e *Engine) fail(cur *run, err error) Result {
	final := e.state.Value() + ErrorSuffix
	e.state.SetValue(final)

	e.metrics.Failed(cur.cfg.Provider)
	cur.logger.Error("sculpt failed",
		slog.String("provider", cur.cfg.Provider),
		slog.Any("error", err),
	)
	return Result{
		ID:         cur.id,
		Request:    cur.req,
		Config:     cur.cfg,
		FinalState: final,
		Err:        err,
	}
}

// recovered converts a panic into a failed result. If annotating the state
// surface panics as well, the result is returned without touching it again.
func (e *Engine) recovered(cur *run, p any) (res Result) {
	err := fmt.Errorf("%w: %v", ErrPanicked, p)
	res = Result{ID: cur.id, Request: cur.req, Config: cur.cfg, Err: err}
	defer func() {
		if p2 := recover(); p2 != nil {
			cur.logger.Error("sculpt failed", slog.Any("error", err), slog.Any("panic", p2))
		}
	}()
	return e.fail(cur, err)
}

func interrupted(name string, err error) error {
	sentinel := provider.ErrStreamInterrupted
	if errors.Is(err, context.DeadlineExceeded) {
		sentinel = provider.ErrTimeout
	}
	return provider.NewError(name, "stream", provider.Classify(sentinel, err), false)
}
