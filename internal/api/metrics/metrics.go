// Package metrics defines all custom Prometheus metrics for the registry
// service. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry at package init;
// the /metrics endpoint and the HTTP middleware are mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "diwan"

// BooksCreatedTotal counts registered books.
// Label:
//   - type: "incoming" or "outgoing"
var BooksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_created_total",
		Help:      "Total number of books registered, by direction.",
	},
	[]string{"type"},
)

// BooksDeletedTotal counts explicit book deletions. Cascade deletions that
// accompany a user removal are not counted individually.
var BooksDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_deleted_total",
		Help:      "Total number of books deleted through the API.",
	},
)

// UsersCreatedTotal counts created accounts, the bootstrap admin included.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
