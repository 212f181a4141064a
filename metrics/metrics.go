// Package metrics exposes Prometheus counters for ledger operations and a
// standalone metrics server.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the operation counters. Counters track successful state
// transitions; rejected operations are visible in request logs instead.
type Metrics struct {
	ItemsRegistered    prometheus.Counter
	ItemsModerated     prometheus.Counter
	ItemsDeactivated   prometheus.Counter
	RolesGranted       prometheus.Counter
	RolesRevoked       prometheus.Counter
	DocumentsCreated   prometheus.Counter
	DocumentsSigned    prometheus.Counter
	DocumentsCompleted prometheus.Counter
	DocumentsRevoked   prometheus.Counter
	FeeWithdrawals     prometheus.Counter
}

// New creates all counters under the given namespace and registers them with
// the default registry.
func New(namespace string) *Metrics {
	return NewWith(namespace, prometheus.DefaultRegisterer)
}

// NewWith registers the counters with an explicit registerer. Tests pass a
// fresh registry so repeated construction does not collide.
func NewWith(namespace string, reg prometheus.Registerer) *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}
	return &Metrics{
		ItemsRegistered:    counter("items_registered_total", "Registry items registered"),
		ItemsModerated:     counter("items_moderated_total", "Curator moderation updates applied"),
		ItemsDeactivated:   counter("items_deactivated_total", "Submitter self-deactivations applied"),
		RolesGranted:       counter("roles_granted_total", "Role grants applied"),
		RolesRevoked:       counter("roles_revoked_total", "Role revocations applied"),
		DocumentsCreated:   counter("documents_created_total", "Attestation documents created"),
		DocumentsSigned:    counter("documents_signed_total", "Document signatures recorded"),
		DocumentsCompleted: counter("documents_completed_total", "Documents reaching completion"),
		DocumentsRevoked:   counter("documents_revoked_total", "Documents revoked by their creator"),
		FeeWithdrawals:     counter("fee_withdrawals_total", "Treasury withdrawals executed"),
	}
}

// MetricsServer serves the Prometheus scrape endpoint on its own listener.
type MetricsServer struct {
	srv *http.Server
}

// NewServer creates a metrics server bound to listenAddr, exposing /metrics.
func NewServer(listenAddr string) (*MetricsServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &MetricsServer{
		srv: &http.Server{Addr: listenAddr, Handler: mux},
	}, nil
}

// ListenAndServe blocks serving scrapes until Shutdown.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
