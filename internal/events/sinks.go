package events

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// LogSink scrive ogni evento sul log strutturato
type LogSink struct{}

// NewLogSink crea il sink di log
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Record implementa Sink
func (s *LogSink) Record(ev Event) {
	log.Info().
		Str("session_id", ev.SessionID.String()).
		Str("agent", ev.AgentName).
		Str("action", ev.Action).
		Dur("duration", ev.Duration).
		Bool("success", ev.Success).
		Str("detail", ev.Detail).
		Msg("Orchestration event")
}

// PrometheusSink esporta contatori e durate degli eventi
type PrometheusSink struct {
	eventsTotal   *prometheus.CounterVec
	eventDuration *prometheus.HistogramVec
}

// NewPrometheusSink registra le metriche nel default registry
func NewPrometheusSink(namespace string) *PrometheusSink {
	if namespace == "" {
		namespace = "goestate"
	}

	return &PrometheusSink{
		eventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orchestration_events_total",
				Help:      "Total orchestration events by agent, action and outcome",
			},
			[]string{"agent", "action", "success"},
		),
		eventDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "orchestration_event_duration_milliseconds",
				Help:      "Event duration in milliseconds by agent and action",
				Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 15000, 30000},
			},
			[]string{"agent", "action"},
		),
	}
}

// Record implementa Sink
func (s *PrometheusSink) Record(ev Event) {
	success := "false"
	if ev.Success {
		success = "true"
	}
	s.eventsTotal.WithLabelValues(ev.AgentName, ev.Action, success).Inc()
	s.eventDuration.WithLabelValues(ev.AgentName, ev.Action).
		Observe(float64(ev.Duration.Milliseconds()))
}

// RingSink conserva gli ultimi N eventi per il feed della dashboard
type RingSink struct {
	mu     sync.RWMutex
	buf    []Event
	next   int
	filled bool
}

// NewRingSink crea un ring buffer di capienza fissa
func NewRingSink(capacity int) *RingSink {
	if capacity < 1 {
		capacity = 256
	}
	return &RingSink{buf: make([]Event, capacity)}
}

// Record implementa Sink
func (s *RingSink) Record(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf[s.next] = ev
	s.next = (s.next + 1) % len(s.buf)
	if s.next == 0 {
		s.filled = true
	}
}

// Recent restituisce fino a limit eventi, dal più recente
func (s *RingSink) Recent(limit int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	size := s.next
	if s.filled {
		size = len(s.buf)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Event, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + len(s.buf)) % len(s.buf)
		out = append(out, s.buf[idx])
	}
	return out
}
