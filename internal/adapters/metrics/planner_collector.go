package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PlannerCollector is the concrete Prometheus-backed PlannerMetricsRecorder.
type PlannerCollector struct {
	stepDuration     prometheus.Histogram
	repairIterations *prometheus.CounterVec
	repairOutcomes   *prometheus.CounterVec
	routingDuration  prometheus.Histogram
	routingNotFound  prometheus.Counter
	simulationTicks  prometheus.Histogram
}

// NewPlannerCollector creates a new planner metrics collector
func NewPlannerCollector() *PlannerCollector {
	return &PlannerCollector{
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "step_duration_seconds",
			Help:      "Wall-clock duration of one perceive-plan-act step",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 4.0, 8.0},
		}),
		repairIterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "repair_iterations_total",
				Help:      "Strategy repair fix-point iterations, labeled by triggering failure reason",
			},
			[]string{"reason"},
		),
		repairOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "repair_outcomes_total",
				Help:      "Repair pass outcomes, labeled converged=true/false",
			},
			[]string{"converged"},
		),
		routingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "routing_query_duration_seconds",
			Help:      "Road-graph distance/route query duration",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),
		routingNotFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "routing_query_not_found_total",
			Help:      "Road-graph queries that found no path",
		}),
		simulationTicks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "simulation_ticks",
			Help:      "Forward-simulator ticks consumed per strategy evaluation",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		}),
	}
}

// Register registers all planner metrics with the Prometheus registry
func (c *PlannerCollector) Register() error {
	if Registry == nil {
		return nil
	}

	collectors := []prometheus.Collector{
		c.stepDuration,
		c.repairIterations,
		c.repairOutcomes,
		c.routingDuration,
		c.routingNotFound,
		c.simulationTicks,
	}

	for _, collector := range collectors {
		if err := Registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

func (c *PlannerCollector) RecordStepDuration(seconds float64) {
	c.stepDuration.Observe(seconds)
}

func (c *PlannerCollector) RecordRepairIteration(reason string) {
	c.repairIterations.WithLabelValues(reason).Inc()
}

func (c *PlannerCollector) RecordRepairOutcome(converged bool) {
	label := "false"
	if converged {
		label = "true"
	}
	c.repairOutcomes.WithLabelValues(label).Inc()
}

func (c *PlannerCollector) RecordRoutingQuery(durationSeconds float64, found bool) {
	c.routingDuration.Observe(durationSeconds)
	if !found {
		c.routingNotFound.Inc()
	}
}

func (c *PlannerCollector) RecordSimulationTicks(ticks int) {
	c.simulationTicks.Observe(float64(ticks))
}
