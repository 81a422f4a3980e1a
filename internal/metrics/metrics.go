// Package metrics registers the Prometheus instruments exported at
// /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alarkhabil_http_requests_total",
		Help: "HTTP requests handled, by path prefix and status class.",
	}, []string{"path", "status"})

	SignatureChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alarkhabil_signature_checks_total",
		Help: "Signed message verifications, by algorithm and outcome.",
	}, []string{"algo", "outcome"})

	InvitesIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alarkhabil_invites_issued_total",
		Help: "Registration invites minted.",
	})

	AccountsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alarkhabil_accounts_created_total",
		Help: "Accounts registered through invite redemption.",
	})
)

// Handler serves the Prometheus exposition endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
