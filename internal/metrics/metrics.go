package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the bot.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Commands      *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	Scans         *prometheus.CounterVec
	ScanDuration  prometheus.Histogram
	Tracked       *prometheus.GaugeVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Commands: f.NewCounterVec(prometheus.CounterOpts{
			Name: "birthday_bot_commands_total",
			Help: "Chat commands handled, by command and outcome",
		}, []string{"command", "outcome"}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "birthday_bot_notifications_total",
			Help: "Birthday notifications dispatched, by record kind, tier and outcome",
		}, []string{"kind", "tier", "outcome"}),
		Scans: f.NewCounterVec(prometheus.CounterOpts{
			Name: "birthday_bot_scans_total",
			Help: "Daily scans, by result (completed or joined an in-flight scan)",
		}, []string{"result"}),
		ScanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "birthday_bot_scan_duration_seconds",
			Help:    "Wall time of a full scan-and-notify cycle",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		Tracked: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "birthday_bot_tracked_identities",
			Help: "Users and groups that have interacted with the bot",
		}, []string{"kind"}),
	}
}

func (m *Metrics) CommandHandled(command, outcome string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(command, outcome).Inc()
}

func (m *Metrics) NotificationDispatched(kind, tier, outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(kind, tier, outcome).Inc()
}

func (m *Metrics) ScanFinished(result string, took time.Duration) {
	if m == nil {
		return
	}
	m.Scans.WithLabelValues(result).Inc()
	if result == "completed" {
		m.ScanDuration.Observe(took.Seconds())
	}
}

func (m *Metrics) SetTracked(users, groups int) {
	if m == nil {
		return
	}
	m.Tracked.WithLabelValues("user").Set(float64(users))
	m.Tracked.WithLabelValues("group").Set(float64(groups))
}
