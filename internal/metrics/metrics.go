// Package metrics exposes Prometheus collectors for the GraphQL server and the notifier.
package metrics

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ActiveSubscribers *prometheus.GaugeVec
	EventsPublished   *prometheus.CounterVec
	EvictedSubscriber *prometheus.CounterVec
	Operations        *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActiveSubscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hackernews",
			Name:      "active_subscribers",
			Help:      "Number of live subscriptions per topic.",
		}, []string{"topic"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackernews",
			Name:      "events_published_total",
			Help:      "Events published per topic.",
		}, []string{"topic"}),
		EvictedSubscriber: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackernews",
			Name:      "subscribers_evicted_total",
			Help:      "Subscribers disconnected because their buffer was full.",
		}, []string{"topic"}),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackernews",
			Name:      "graphql_operations_total",
			Help:      "GraphQL operations by type and name.",
		}, []string{"type", "name"}),
	}
	reg.MustRegister(m.ActiveSubscribers, m.EventsPublished, m.EvictedSubscriber, m.Operations)
	return m
}

func (m *Metrics) SubscriberAdded(topic string) {
	m.ActiveSubscribers.WithLabelValues(topic).Inc()
}

func (m *Metrics) SubscriberRemoved(topic string) {
	m.ActiveSubscribers.WithLabelValues(topic).Dec()
}

func (m *Metrics) EventPublished(topic string) {
	m.EventsPublished.WithLabelValues(topic).Inc()
}

func (m *Metrics) SubscriberEvicted(topic string) {
	m.EvictedSubscriber.WithLabelValues(topic).Inc()
}

// OperationCounter is a gqlgen handler extension counting executed operations.
type OperationCounter struct {
	Metrics *Metrics
}

var _ interface {
	graphql.HandlerExtension
	graphql.OperationInterceptor
} = OperationCounter{}

func (OperationCounter) ExtensionName() string {
	return "OperationCounter"
}

func (OperationCounter) Validate(graphql.ExecutableSchema) error {
	return nil
}

func (c OperationCounter) InterceptOperation(ctx context.Context, next graphql.OperationHandler) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	if opCtx.Operation != nil {
		c.Metrics.Operations.WithLabelValues(string(opCtx.Operation.Operation), operationName(opCtx)).Inc()
	}
	return next(ctx)
}

// operationName prefers the name declared in the document over the request's operationName field.
func operationName(opCtx *graphql.OperationContext) string {
	if opCtx.Operation != nil && opCtx.Operation.Name != "" {
		return opCtx.Operation.Name
	}
	if opCtx.OperationName != "" {
		return opCtx.OperationName
	}
	return "anonymous"
}
