package http

import (
	"net/http"

	"loan-risk/logger"
)

type RouterOptions struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
	// Limiter is optional; nil disables rate limiting.
	Limiter *RateLimiter
	// MetricsPath is served by MetricsHandler when both are set.
	MetricsPath    string
	MetricsHandler http.Handler
}

// NewRouter registers the API routes and wraps them in the middleware chain.
func NewRouter(evaluation *EvaluationHandler, health *HealthHandler, opts RouterOptions, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", health.Root)
	mux.HandleFunc("POST /evaluar-situacion/{$}", evaluation.EvaluateSituation)
	mux.HandleFunc("POST /evaluar-situacion", evaluation.EvaluateSituation)

	if opts.MetricsPath != "" && opts.MetricsHandler != nil {
		mux.Handle("GET "+opts.MetricsPath, opts.MetricsHandler)
		mux.Handle(opts.MetricsPath, methodNotAllowed(http.MethodGet))
	}

	// method-less patterns lose to the ones above, so they only see the
	// requests the mux would otherwise answer in plain text
	mux.Handle("/{$}", methodNotAllowed(http.MethodGet))
	mux.Handle("/evaluar-situacion/{$}", methodNotAllowed(http.MethodPost))
	mux.Handle("/evaluar-situacion", methodNotAllowed(http.MethodPost))
	mux.HandleFunc("/", notFound)

	chain := []Middleware{
		RecoveryMiddleware(log),
		RequestIDMiddleware,
		LoggingMiddleware(log),
		CORSMiddleware(opts.AllowedOrigins),
		BodyLimitMiddleware(opts.MaxBodyBytes),
	}
	if opts.Limiter != nil {
		chain = append(chain, RateLimitMiddleware(opts.Limiter, log))
	}

	return Chain(chain...)(mux)
}

func methodNotAllowed(allow string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, http.StatusNotFound, "Not Found")
}
