// Package metrics defines and registers all custom Prometheus metrics for the
// groups API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto). HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "groups"

// ── Group metrics ─────────────────────────────────────────────────────────────

// GroupsCreatedTotal counts newly created groups.
// Label:
//   - category: the group category (e.g. "sports", "tech")
var GroupsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of groups created, by category.",
	},
	[]string{"category"},
)

// GroupUpdatesTotal counts update requests that reached the service.
// Label:
//   - result: "success" or "failed"
var GroupUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_total",
		Help:      "Total number of group update requests, by result.",
	},
	[]string{"result"},
)

// AuthorizationDenialsTotal counts requests rejected with 403.
// Label:
//   - route: the matched echo route (e.g. "/api/groups/:id")
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of authorization denials, by route.",
	},
	[]string{"route"},
)

// ListPageSize observes how many items each list response carries.
var ListPageSize = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "list_page_size",
		Help:      "Number of groups returned per list request.",
		Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
