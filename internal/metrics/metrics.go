// Package metrics exposes Prometheus counters for the bot.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MessagesReceived counts dispatched inbound messages by kind
	MessagesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insurancebot_messages_received_total",
		Help: "Inbound webhook messages by dispatch outcome.",
	}, []string{"kind"})

	// SendsFailed counts failed outbound provider calls by operation
	SendsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insurancebot_sends_failed_total",
		Help: "Outbound provider calls that did not deliver.",
	}, []string{"operation"})

	// SelectionsRecorded counts logged plan selections
	SelectionsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insurancebot_selections_recorded_total",
		Help: "Plan selections written to the selection log.",
	})
)

// Dispatch outcome labels for MessagesReceived
const (
	KindTemplateRequest = "template_request"
	KindPlanSelection   = "plan_selection"
	KindInvalidPlan     = "invalid_plan"
	KindFallback        = "fallback"
	KindIgnored         = "ignored"
)

// Handler serves the Prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
