package runtime

import (
	"context"
	"time"

	"github.com/aerodash/aerodash/config"
	"golang.org/x/sync/semaphore"
)

// Limits captures the concurrency and display guardrails configured for the
// dashboard server.
type Limits struct {
	// Concurrency caps
	MaxConcurrentRequests int
	MaxConcurrentLoads    int

	// Display bounds
	PreviewRowLimit int
	MinTopN         int
	MaxTopN         int
	DefaultTopN     int

	// Timeouts
	OperationTimeout      time.Duration
	AcquireRequestTimeout time.Duration
}

// NewLimits initializes Limits with sensible fallbacks when values are unset.
func NewLimits(maxConcurrentRequests, maxConcurrentLoads int) Limits {
	if maxConcurrentRequests <= 0 {
		maxConcurrentRequests = config.DefaultMaxConcurrentRequests
	}
	if maxConcurrentLoads <= 0 {
		maxConcurrentLoads = config.DefaultMaxConcurrentLoads
	}

	return Limits{
		MaxConcurrentRequests: maxConcurrentRequests,
		MaxConcurrentLoads:    maxConcurrentLoads,
		PreviewRowLimit:       config.DefaultPreviewRowLimit,
		MinTopN:               config.MinTopN,
		MaxTopN:               config.MaxTopN,
		DefaultTopN:           config.DefaultTopN,
		OperationTimeout:      config.DefaultOperationTimeout,
		AcquireRequestTimeout: config.DefaultAcquireRequestTimeout,
	}
}

// ClampTopN forces a requested top-N into the configured slider range rather
// than rejecting it. Callers apply DefaultTopN for an absent value before
// clamping; an explicit out-of-range value, zero included, snaps to the
// nearest bound.
func (l Limits) ClampTopN(n int) int {
	if n < l.MinTopN {
		return l.MinTopN
	}
	if n > l.MaxTopN {
		return l.MaxTopN
	}
	return n
}

// Controller coordinates runtime semaphores for request and sheet-load
// guardrails.
type Controller struct {
	limits           Limits
	requestSemaphore *semaphore.Weighted
	loadSemaphore    *semaphore.Weighted
}

// NewController constructs a Controller backed by weighted semaphores.
func NewController(limits Limits) *Controller {
	return &Controller{
		limits:           limits,
		requestSemaphore: semaphore.NewWeighted(int64(limits.MaxConcurrentRequests)),
		loadSemaphore:    semaphore.NewWeighted(int64(limits.MaxConcurrentLoads)),
	}
}

// AcquireRequest reserves capacity for an incoming request.
func (c *Controller) AcquireRequest(ctx context.Context) error {
	return c.requestSemaphore.Acquire(ctx, 1)
}

// ReleaseRequest frees previously-acquired request capacity.
func (c *Controller) ReleaseRequest() {
	c.requestSemaphore.Release(1)
}

// AcquireLoad reserves a concurrent sheet-load slot.
func (c *Controller) AcquireLoad(ctx context.Context) error {
	return c.loadSemaphore.Acquire(ctx, 1)
}

// ReleaseLoad frees a sheet-load slot.
func (c *Controller) ReleaseLoad() {
	c.loadSemaphore.Release(1)
}

// LimitsSnapshot exposes the configured guardrails for telemetry and handlers.
func (c *Controller) LimitsSnapshot() Limits {
	return c.limits
}
