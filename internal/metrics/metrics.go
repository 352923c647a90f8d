// Package metrics holds the process-wide prometheus instruments, exposed
// on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectedClients tracks live websocket bindings in this process.
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connected_clients",
		Help: "Number of currently connected chat clients.",
	})

	// EventsTotal counts inbound realtime events by name, including
	// unknown ones.
	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_events_total",
		Help: "Inbound realtime events processed, by event name.",
	}, []string{"event"})

	// MessagesSaved counts messages persisted through the realtime path.
	MessagesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_saved_total",
		Help: "Chat messages persisted to the store.",
	})

	// FanoutPublished counts broadcast envelopes pushed to the event bus.
	FanoutPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_fanout_published_total",
		Help: "Broadcast envelopes published to the event bus.",
	})
)
