package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/you-humble/asset-tracker/pkg/logger"
)

type RequestObserver interface {
	ObserveRequest(method, route string, code int, took time.Duration)
}

// RequestContext puts the chi request id into the logger context. It must run
// after chimw.RequestID.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := chimw.GetReqID(ctx); id != "" {
			ctx = logger.ContextWith(ctx, logger.String("request_id", id))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Metrics reports every request under its route pattern, so that ids in the
// path do not create new label values.
func Metrics(obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			obs.ObserveRequest(r.Method, route, code, time.Since(start))
		})
	}
}
