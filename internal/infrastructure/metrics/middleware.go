package metrics

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware returns an HTTP middleware that records request metrics for
// each route.
func Middleware(exporter *PrometheusExporter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := routeName(r)

			exporter.RecordRequest(route)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			exporter.RecordDuration(route, time.Since(start).Seconds())
			if rec.status >= http.StatusInternalServerError {
				exporter.RecordError(route)
			}
		})
	}
}

// routeName prefers the mux route template over the raw path so that
// parameterized routes aggregate under one label.
func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return r.Method + " " + tmpl
		}
	}
	return r.Method + " " + r.URL.Path
}
