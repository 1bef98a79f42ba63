package runtime

import (
	"context"
	"net/http"

	"github.com/aerodash/aerodash/pkg/apierr"
)

// Middleware enforces runtime limits for dashboard requests using the
// Controller. It bounds global concurrency and applies an operation timeout
// to each request.
type Middleware struct {
	ctrl *Controller
}

// NewMiddleware constructs a Middleware bound to the provided Controller.
func NewMiddleware(ctrl *Controller) *Middleware {
	return &Middleware{ctrl: ctrl}
}

// Handler implements chi middleware. It acquires a request slot with a
// bounded wait, applies the operation timeout, and guarantees release.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acquireCtx := r.Context()
		if m.ctrl.limits.AcquireRequestTimeout > 0 {
			var cancel context.CancelFunc
			acquireCtx, cancel = context.WithTimeout(acquireCtx, m.ctrl.limits.AcquireRequestTimeout)
			defer cancel()
		}

		if err := m.ctrl.AcquireRequest(acquireCtx); err != nil {
			e := apierr.Wrapf(apierr.BusyResource, "concurrent request limit reached (max=%d)", m.ctrl.limits.MaxConcurrentRequests)
			http.Error(w, e.Inline(), e.Status())
			return
		}
		defer m.ctrl.ReleaseRequest()

		callCtx := r.Context()
		cancel := func() {}
		if m.ctrl.limits.OperationTimeout > 0 {
			callCtx, cancel = context.WithTimeout(callCtx, m.ctrl.limits.OperationTimeout)
		}
		defer cancel()

		next.ServeHTTP(w, r.WithContext(callCtx))
	})
}
