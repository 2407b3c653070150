// Package dispatch is the message routing core. Every chat submission
// flows sanitize -> rate limit -> dedup -> priority queue -> circuit
// breaker guarded orchestrator call, and the reply travels back to the
// originating caller over a per-request completion handle so concurrent
// callers can never receive each other's replies.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/parlor-chat/parlor/internal/breaker"
	"github.com/parlor-chat/parlor/internal/dedup"
	"github.com/parlor-chat/parlor/internal/gen"
	"github.com/parlor-chat/parlor/internal/metrics"
	"github.com/parlor-chat/parlor/internal/models"
	"github.com/parlor-chat/parlor/internal/orchestrator"
	"github.com/parlor-chat/parlor/internal/queue"
	"github.com/parlor-chat/parlor/internal/ratelimit"
	"github.com/parlor-chat/parlor/internal/sanitize"
)

var (
	// ErrInvalid marks a message rejected by validation. Never queued.
	ErrInvalid = errors.New("dispatch: invalid message")

	// ErrRateLimited marks a submission over the caller's window budget.
	// Rejected before queueing, no side effects.
	ErrRateLimited = errors.New("dispatch: rate limited")

	// ErrShuttingDown marks a submission arriving after drain began.
	ErrShuttingDown = errors.New("dispatch: shutting down")

	// ErrBusy marks a submission rejected because the backlog is full.
	ErrBusy = errors.New("dispatch: queue full")
)

const degradedFallback = "I'm a little overwhelmed right now, but I'll be back shortly. Please try again soon."

type result struct {
	reply models.Reply
	err   error
}

// Request wraps a message queued for dispatch. The completion handle is
// private to the router; the queue itself stays request/response agnostic.
type Request struct {
	ID         string
	Msg        models.Message
	Priority   int
	EnqueuedAt time.Time

	done chan result
}

// Stats is the router's observability snapshot.
type Stats struct {
	QueueDepth   int               `json:"queueDepth"`
	Breakers     map[string]string `json:"breakers"`
	RateWindows  int               `json:"rateWindows"`
	DedupEntries int               `json:"dedupEntries"`
	Processed    uint64            `json:"processed"`
	DedupHits    uint64            `json:"dedupHits"`
	Rejected     uint64            `json:"rejected"`
	Degraded     uint64            `json:"degraded"`
	ShuttingDown bool              `json:"shuttingDown"`
}

// Options tune the router.
type Options struct {
	QueueCapacity int // 0 = unbounded

	// NewBreaker builds the breaker guarding one backend. Overridable in
	// tests to shrink timeouts.
	NewBreaker func() *breaker.Breaker
}

// Router composes the protection layers around the orchestrator.
type Router struct {
	queue   *queue.Queue[*Request]
	limiter *ratelimit.Limiter
	cache   *dedup.Cache
	orch    *orchestrator.Orchestrator
	logger  zerolog.Logger

	newBreaker func() *breaker.Breaker
	breakerMu  sync.Mutex
	breakers   map[string]*breaker.Breaker

	shuttingDown atomic.Bool
	loopDone     chan struct{}

	processed atomic.Uint64
	dedupHits atomic.Uint64
	rejected  atomic.Uint64
	degraded  atomic.Uint64
}

// New creates a router. Call Run to start the consumer loop.
func New(limiter *ratelimit.Limiter, cache *dedup.Cache, orch *orchestrator.Orchestrator, logger zerolog.Logger, optFns ...func(o *Options)) *Router {
	opts := Options{
		QueueCapacity: 1024,
		NewBreaker:    func() *breaker.Breaker { return breaker.New() },
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Router{
		queue:      queue.New[*Request](opts.QueueCapacity),
		limiter:    limiter,
		cache:      cache,
		orch:       orch,
		logger:     logger.With().Str("component", "dispatch").Logger(),
		newBreaker: opts.NewBreaker,
		breakers:   make(map[string]*breaker.Breaker),
		loopDone:   make(chan struct{}),
	}
}

// Receive routes one user message and blocks until its reply is ready.
// priority orders the message against other queued work; user traffic
// normally submits at priority 0.
func (r *Router) Receive(ctx context.Context, msg models.Message, priority int) (models.Reply, error) {
	if r.shuttingDown.Load() {
		r.rejected.Add(1)
		return models.Reply{}, ErrShuttingDown
	}

	if msg.Text == "" {
		r.rejected.Add(1)
		return models.Reply{}, fmt.Errorf("%w: empty text", ErrInvalid)
	}
	if err := sanitize.Validate(msg.Text); err != nil {
		r.rejected.Add(1)
		metrics.MessagesRejected.WithLabelValues("invalid").Inc()
		return models.Reply{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if !r.limiter.Allow(msg.UserID) {
		r.rejected.Add(1)
		metrics.MessagesRejected.WithLabelValues("rate_limited").Inc()
		return models.Reply{}, fmt.Errorf("%w: user %s", ErrRateLimited, msg.UserID)
	}

	if cached, ok := r.cache.Get(msg.UserID, msg.Text); ok {
		r.dedupHits.Add(1)
		metrics.DedupHits.Inc()
		return cached, nil
	}

	req := &Request{
		ID:         ulid.Make().String(),
		Msg:        msg,
		Priority:   priority,
		EnqueuedAt: time.Now().UTC(),
		done:       make(chan result, 1),
	}
	if err := r.queue.Enqueue(req, priority); err != nil {
		r.rejected.Add(1)
		switch {
		case errors.Is(err, queue.ErrFull):
			metrics.MessagesRejected.WithLabelValues("overloaded").Inc()
			return models.Reply{}, fmt.Errorf("%w: %v", ErrBusy, err)
		case errors.Is(err, queue.ErrClosed):
			return models.Reply{}, ErrShuttingDown
		default:
			return models.Reply{}, err
		}
	}
	metrics.QueueDepth.Set(float64(r.queue.Len()))

	select {
	case res := <-req.done:
		return res.reply, res.err
	case <-ctx.Done():
		return models.Reply{}, ctx.Err()
	}
}

// Run is the consumer loop. It exits when ctx ends or when Shutdown has
// closed the queue and the backlog is drained.
func (r *Router) Run(ctx context.Context) {
	defer close(r.loopDone)
	for {
		req, err := r.queue.Dequeue(ctx)
		if err != nil {
			return
		}
		metrics.QueueDepth.Set(float64(r.queue.Len()))
		r.serve(ctx, req)
	}
}

// serve handles one dequeued request: breaker check, orchestrator call,
// breaker bookkeeping, reply caching and completion delivery.
func (r *Router) serve(ctx context.Context, req *Request) {
	backend := r.orch.BackendFor(req.Msg.AgentID)

	var br *breaker.Breaker
	if backend != "" {
		br = r.breakerFor(backend)
		if !br.Allow() {
			r.degraded.Add(1)
			metrics.DegradedReplies.Inc()
			r.logger.Warn().Str("request", req.ID).Str("backend", backend).Msg("breaker open, serving degraded reply")
			req.done <- result{reply: models.Reply{
				Text:      degradedFallback,
				AgentID:   r.orch.ResolveAgentID(req.Msg.AgentID),
				Timestamp: time.Now().UTC(),
			}}
			return
		}
	}

	start := time.Now()
	reply, err := r.orch.HandleMessage(ctx, req.Msg)
	metrics.HandleDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		if br != nil {
			br.RecordSuccess()
		}
		r.cache.Put(req.Msg.UserID, req.Msg.Text, reply)
		r.processed.Add(1)
		req.done <- result{reply: reply}

	case errors.Is(err, gen.ErrUpstream):
		// Fallback reply is deliverable; the failure only feeds the
		// breaker so the backend gets breathing room.
		if br != nil {
			br.RecordFailure()
		}
		r.processed.Add(1)
		req.done <- result{reply: reply}

	default:
		req.done <- result{err: err}
	}

	if br != nil {
		metrics.BreakerState.WithLabelValues(backend).Set(float64(br.State()))
	}
}

// breakerFor returns the breaker guarding a backend, creating it on first
// use. Breakers persist for the process lifetime.
func (r *Router) breakerFor(backend string) *breaker.Breaker {
	r.breakerMu.Lock()
	defer r.breakerMu.Unlock()
	br, ok := r.breakers[backend]
	if !ok {
		br = r.newBreaker()
		r.breakers[backend] = br
	}
	return br
}

// Shutdown stops accepting new submissions, lets the backlog drain and
// waits for the consumer loop, bounded by ctx.
func (r *Router) Shutdown(ctx context.Context) error {
	r.shuttingDown.Store(true)
	r.queue.Close()
	select {
	case <-r.loopDone:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("dispatch: drain interrupted: %w", ctx.Err())
	}
}

// Stats snapshots the router's observability counters.
func (r *Router) Stats() Stats {
	breakers := make(map[string]string)
	r.breakerMu.Lock()
	for name, br := range r.breakers {
		breakers[name] = br.State().String()
	}
	r.breakerMu.Unlock()

	return Stats{
		QueueDepth:   r.queue.Len(),
		Breakers:     breakers,
		RateWindows:  r.limiter.Size(),
		DedupEntries: r.cache.Size(),
		Processed:    r.processed.Load(),
		DedupHits:    r.dedupHits.Load(),
		Rejected:     r.rejected.Load(),
		Degraded:     r.degraded.Load(),
		ShuttingDown: r.shuttingDown.Load(),
	}
}
