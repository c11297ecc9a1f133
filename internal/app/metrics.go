package app

import "github.com/prometheus/client_golang/prometheus"

var (
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_events_total",
			Help: "Total number of session events processed, by event type",
		},
		[]string{"type"},
	)
	liveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "studio_sessions_live",
			Help: "Number of session records currently held in memory",
		},
	)
	liveParticipants = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "studio_participants_live",
			Help: "Number of participants currently joined across all sessions",
		},
	)
)

func init() {
	prometheus.MustRegister(eventsTotal, liveSessions, liveParticipants)
}
