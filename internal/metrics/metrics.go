// Package metrics exports run metrics in the Prometheus text format. The
// tool is a one-shot CLI, so metrics are written to a textfile for the node
// exporter textfile collector instead of being served.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/sync"
)

// Manager holds the sponsormap collectors.
type Manager struct {
	namespace string
	path      string
	registry  *prometheus.Registry

	tierMembers      *prometheus.GaugeVec
	providerRecords  *prometheus.GaugeVec
	recordsExcluded  *prometheus.CounterVec
	fetchFailures    *prometheus.CounterVec
	conflicts        prometheus.Counter
	patchFailures    prometheus.Counter
	lastRunTimestamp prometheus.Gauge
	lastRunDuration  prometheus.Gauge
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithTextfile sets the path Record writes to. Without it Record only
// updates the collectors.
func WithTextfile(path string) Option {
	return func(m *Manager) {
		m.path = path
	}
}

// WithRegistry uses the given registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates a Manager with its collectors registered.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "sponsormap",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.tierMembers = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "tier_members",
		Help:      "Number of sponsors placed in each tier",
	}, []string{"tier"})

	m.providerRecords = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "provider_records",
		Help:      "Number of records returned by each provider in the last run",
	}, []string{"provider"})

	m.recordsExcluded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "records_excluded_total",
		Help:      "Records excluded by the eligibility rules, by reason",
	}, []string{"reason"})

	m.fetchFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "fetch_failures_total",
		Help:      "Provider fetches that failed",
	}, []string{"provider"})

	m.conflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "duplicate_identities_total",
		Help:      "Duplicate identities resolved by the reconciler",
	})

	m.patchFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "patch_failures_total",
		Help:      "Documents that could not be patched",
	})

	m.lastRunTimestamp = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run started",
	})

	m.lastRunDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "last_run_duration_seconds",
		Help:      "Wall time of the last run",
	})
}

// Registry returns the registry holding the collectors.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Observe updates the collectors from a finished run.
func (m *Manager) Observe(result *sync.Result) {
	if result == nil {
		return
	}

	m.tierMembers.Reset()
	for _, t := range result.Tiers {
		m.tierMembers.WithLabelValues(t.Tier).Set(float64(t.Count))
	}

	for _, p := range result.Providers {
		switch p.Status {
		case sync.StatusOK:
			m.providerRecords.WithLabelValues(p.Source.String()).Set(float64(p.Records))
		case sync.StatusFailed:
			m.providerRecords.WithLabelValues(p.Source.String()).Set(0)
			m.fetchFailures.WithLabelValues(p.Source.String()).Inc()
		}
	}

	for _, reason := range result.Excluded.Reasons() {
		m.recordsExcluded.WithLabelValues(reason.String()).Add(float64(result.Excluded[reason]))
	}

	m.conflicts.Add(float64(len(result.Conflicts)))
	m.patchFailures.Add(float64(len(result.FailedDocuments())))
	m.lastRunTimestamp.Set(float64(result.StartTime.Unix()))
	m.lastRunDuration.Set(result.Duration.Seconds())
}

// Record observes the run and writes the textfile when one is configured.
// It satisfies sync.Recorder.
func (m *Manager) Record(result *sync.Result) error {
	m.Observe(result)
	if m.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(m.path, m.registry); err != nil {
		return errors.WrapIO("write", m.path, err)
	}
	return nil
}

var _ sync.Recorder = (*Manager)(nil)
