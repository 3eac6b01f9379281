// Package warmer keeps Lambda execution environments warm.
//
// A scheduled rule sends the function a ping such as
//
//	{"warmer": true, "concurrency": 3}
//
// The invocation that receives it (the root) invokes the same function
// concurrency-1 more times so that that many execution environments are
// initialized at once. Each fanned-out copy holds its environment busy for a
// short delay before returning. Fan-out is one level deep: copies never fan
// out again because the concurrency field is not propagated to them.
package warmer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pricofy/lambda-warmer/internal/domain"
)

// Invoker invokes a remote Lambda function.
type Invoker interface {
	Invoke(ctx context.Context, function string, payload []byte, mode domain.InvocationMode) error
}

// Controller decides whether an event is a warmer ping and handles it.
type Controller struct {
	function string
	invoker  Invoker
	state    *State
	config   Config
	logger   *zap.Logger

	now func() time.Time
}

// New creates a controller for the named function.
//
// The state must outlive the controller's invocations; it is normally created
// once per process with NewState(). A nil logger disables logging.
func New(function string, inv Invoker, state *State, cfg Config, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		function: function,
		invoker:  inv,
		state:    state,
		config:   cfg.withDefaults(),
		logger:   logger,
		now:      time.Now,
	}
}

// State returns the process state used by the controller.
func (c *Controller) State() *State {
	return c.state
}

// Classify decodes event using the controller's configuration without
// touching the process state.
func (c *Controller) Classify(event json.RawMessage) (domain.Ping, bool) {
	return Decode(event, c.config, c.state.InstanceID())
}

// Invoke handles a single event. It returns false if the event is real
// traffic and true once a ping has been handled.
//
// A ping that requests concurrency fails if any fan-out invocation cannot be
// dispatched or if the final, awaited invocation fails.
func (c *Controller) Invoke(ctx context.Context, event json.RawMessage, opts ...Option) (bool, error) {
	cfg := c.config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	ping, ok := Decode(event, cfg, c.state.InstanceID())
	if !ok {
		c.state.MarkAccess(c.now())
		return false, nil
	}

	if cfg.Log {
		c.log(c.record(ping))
	}

	c.state.MarkWarm()

	switch {
	case ping.Concurrency > 1 && !ping.Test:
		if err := c.fanOut(ctx, cfg, ping); err != nil {
			return false, err
		}
		return true, nil
	case ping.InvocationIndex > 1:
		return c.delay(ctx, cfg.Delay)
	default:
		return true, nil
	}
}

// record builds the log record for a ping from the current state.
func (c *Controller) record(ping domain.Ping) domain.Record {
	snap := c.state.Snapshot(c.now())

	return domain.Record{
		Action:              "warmer",
		Function:            c.function,
		InstanceID:          c.state.InstanceID(),
		CorrelationID:       ping.CorrelationID,
		InvocationIndex:     ping.InvocationIndex,
		TotalConcurrency:    ping.TotalConcurrency,
		Warm:                snap.Warm,
		LastAccessed:        snap.LastAccessed,
		LastAccessedSeconds: snap.LastAccessedSeconds,
	}
}

func (c *Controller) log(r domain.Record) {
	c.logger.Info(
		"warmer",
		zap.String("action", r.Action),
		zap.String("function", r.Function),
		zap.String("instanceId", r.InstanceID),
		zap.String("correlationId", r.CorrelationID),
		zap.Int("invocationIndex", r.InvocationIndex),
		zap.Int("totalConcurrency", r.TotalConcurrency),
		zap.Bool("warm", r.Warm),
		zap.Int64p("lastAccessed", r.LastAccessed),
		zap.Float64p("lastAccessedSeconds", r.LastAccessedSeconds),
	)
}

// fanOut invokes copies 2..ping.Concurrency. Every copy except the last is
// dispatched fire-and-forget, concurrently. The last is dispatched only after
// all the others have been accepted, and is awaited.
func (c *Controller) fanOut(ctx context.Context, cfg Config, ping domain.Ping) error {
	last := ping.Concurrency

	g, gctx := errgroup.WithContext(ctx)
	for i := 2; i < last; i++ {
		payload, err := fanOutPayload(cfg, i, last, ping.CorrelationID)
		if err != nil {
			return err
		}

		i := i
		g.Go(func() error {
			return c.dispatch(gctx, i, last, payload, domain.FireAndForget)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	payload, err := fanOutPayload(cfg, last, last, ping.CorrelationID)
	if err != nil {
		return err
	}

	return c.dispatch(ctx, last, last, payload, domain.WaitForCompletion)
}

func (c *Controller) dispatch(ctx context.Context, index, total int, payload []byte, mode domain.InvocationMode) error {
	if err := c.invoker.Invoke(ctx, c.function, payload, mode); err != nil {
		return fmt.Errorf("warmer: fan-out invocation %d of %d (%s): %w", index, total, mode, err)
	}
	return nil
}

// fanOutPayload builds the event sent to the copy at position index.
func fanOutPayload(cfg Config, index, total int, correlationID string) ([]byte, error) {
	payload, err := json.Marshal(map[string]any{
		cfg.FlagField:             true,
		domain.InvocationField:    index,
		domain.ConcurrencyField:   total,
		domain.CorrelationIDField: correlationID,
	})
	if err != nil {
		return nil, fmt.Errorf("warmer: failed to marshal fan-out payload: %w", err)
	}
	return payload, nil
}

// delay keeps a fanned-out copy busy so that its execution environment stays
// allocated while the siblings start.
func (c *Controller) delay(ctx context.Context, d time.Duration) (bool, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
