// Package metrics measures layout activity: in-process summaries (Energy,
// Stability) and a Prometheus Collector for long-running sessions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/forcegraph/internal/sim"
)

// Collector exports engine activity on its own registry. Attach it to
// every engine with session.WithObserver.
type Collector struct {
	registry *prometheus.Registry

	Ticks       prometheus.Counter
	Reheats     prometheus.Counter
	Loads       prometheus.Counter
	Transitions *prometheus.CounterVec
	Alpha       prometheus.Gauge
	Energy      prometheus.Gauge
	Nodes       prometheus.Gauge
	Links       prometheus.Gauge
	Dropped     prometheus.Counter
}

func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total number of simulation ticks",
		}),
		Reheats: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reheats_total",
			Help:      "Total number of reheats",
		}),
		Loads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Total number of session loads",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Engine state transitions by target state",
		}, []string{"state"}),
		Alpha: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alpha",
			Help:      "Current simulation alpha",
		}),
		Energy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "kinetic_energy",
			Help:      "Kinetic energy of free nodes after the last tick",
		}),
		Nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nodes",
			Help:      "Nodes in the live session",
		}),
		Links: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "links",
			Help:      "Links in the live session",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_links_total",
			Help:      "Links dropped at load for an unknown endpoint",
		}),
	}
	c.registry.MustRegister(
		c.Ticks, c.Reheats, c.Loads, c.Transitions,
		c.Alpha, c.Energy, c.Nodes, c.Links, c.Dropped,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) OnTick(s sim.Snapshot) {
	c.Ticks.Inc()
	c.Alpha.Set(s.Alpha)
	c.Energy.Set(Kinetic(s))
}

func (c *Collector) OnStateChange(_, to sim.State) {
	c.Transitions.WithLabelValues(to.String()).Inc()
}

func (c *Collector) OnReheat(alpha float64) {
	c.Reheats.Inc()
	c.Alpha.Set(alpha)
}

func (c *Collector) OnLoad(nodes, links, dropped int) {
	c.Loads.Inc()
	c.Nodes.Set(float64(nodes))
	c.Links.Set(float64(links))
	c.Dropped.Add(float64(dropped))
}
