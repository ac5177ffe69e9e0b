package metrics

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/birozsombor4/rest-api-template/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Account lifecycle

	RegistrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "restapi",
		Name:      "registrations_total",
		Help:      "Total accounts registered.",
	})

	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restapi",
		Name:      "logins_total",
		Help:      "Total login attempts, by outcome.",
	}, []string{"outcome"})

	VerificationEmailsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restapi",
		Name:      "verification_emails_total",
		Help:      "Verification emails sent, by trigger (register, reissue).",
	}, []string{"trigger"})

	UsersVerifiedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "restapi",
		Name:      "users_verified_total",
		Help:      "Users that completed email verification.",
	})

	// Auth middleware

	AuthRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restapi",
		Name:      "auth_rejections_total",
		Help:      "Requests rejected by the bearer-token middleware, by reason.",
	}, []string{"reason"})

	// Avatar store

	AvatarUploadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "restapi",
		Name:      "avatar_uploads_total",
		Help:      "Avatar files stored.",
	})

	// Maintenance

	TokensPurgedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "restapi",
		Name:      "verification_tokens_purged_total",
		Help:      "Dead verification-token rows removed by the cron sweep.",
	})

	// HTTP

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "restapi",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restapi",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		RegistrationsTotal,
		LoginsTotal,
		VerificationEmailsTotal,
		UsersVerifiedTotal,
		AuthRejectionsTotal,
		AvatarUploadsTotal,
		TokensPurgedTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// HealthReporter is satisfied by *health.Checker.
type HealthReporter interface {
	Liveness(ctx context.Context) health.HealthResult
	Readiness(ctx context.Context) health.HealthResult
}

// NewServer serves Prometheus metrics and the health endpoints on a side
// port, away from the public API.
func NewServer(addr string, checker HealthReporter) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
