// Package observability exposes simulation metrics to Prometheus.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aizikovskyi/bullet/internal/games/bullet"
)

// Metrics bundles the simulation's Prometheus collectors. It observes a
// bullet.Session and can serve /metrics.
type Metrics struct {
	gatherer prometheus.Gatherer

	Ticks     prometheus.Counter
	Spawns    prometheus.Counter
	Deaths    prometheus.Counter
	Runs      *prometheus.CounterVec
	Objects   prometheus.Gauge
	Decisions prometheus.Histogram
	Captures  prometheus.Histogram
}

// NewMetrics registers the simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bullet_ticks_total",
		Help: "Total number of simulation ticks executed.",
	}), "bullet_ticks_total")
	if err != nil {
		return nil, err
	}
	spawns, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bullet_spawns_total",
		Help: "Total number of projectiles created by spawners.",
	}), "bullet_spawns_total")
	if err != nil {
		return nil, err
	}
	deaths, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bullet_deaths_total",
		Help: "Total number of player deaths.",
	}), "bullet_deaths_total")
	if err != nil {
		return nil, err
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bullet_runs_total",
		Help: "Total number of finished runs, labeled by outcome.",
	}, []string{"outcome"})
	if err := reg.Register(runs); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("collector bullet_runs_total already registered with incompatible type")
		}
		runs = existing
	}

	objects, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bullet_objects",
		Help: "Current number of objects on the field.",
	}), "bullet_objects")
	if err != nil {
		return nil, err
	}

	decisions, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bullet_decision_seconds",
		Help:    "Controller decision latency in seconds.",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
	}), "bullet_decision_seconds")
	if err != nil {
		return nil, err
	}
	captures, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bullet_capture_seconds",
		Help:    "Frame capture and compositing time in seconds.",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.025, 0.05},
	}), "bullet_capture_seconds")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:  gatherer,
		Ticks:     ticks,
		Spawns:    spawns,
		Deaths:    deaths,
		Runs:      runs,
		Objects:   objects,
		Decisions: decisions,
		Captures:  captures,
	}, nil
}

// OnStep satisfies bullet.Observer.
func (m *Metrics) OnStep(s *bullet.State, r bullet.StepReport) {
	if m == nil || !r.Tick.Ticked {
		return
	}
	m.Ticks.Inc()
	m.Spawns.Add(float64(r.Tick.Spawned))
	if r.Tick.Died {
		m.Deaths.Inc()
	}
	m.Objects.Set(float64(len(s.Objects)))
	m.Decisions.Observe(r.Decision.Latency.Seconds())
	if r.CaptureTime > 0 {
		m.Captures.Observe(r.CaptureTime.Seconds())
	}
	if r.Outcome != bullet.OutcomeNone {
		m.Runs.WithLabelValues(string(r.Outcome)).Inc()
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (m *Metrics) Handler() http.Handler {
	gatherer := m.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
