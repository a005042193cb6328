package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "fleetctl"
	// Subsystem for planner/controller metrics
	subsystem = "planner"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalPlannerCollector is the singleton planner metrics collector,
	// set by SetGlobalPlannerCollector() when metrics are enabled
	globalPlannerCollector PlannerMetricsRecorder
)

// PlannerMetricsRecorder defines the interface for recording per-step
// planner events. It is used by internal/application/planner and
// internal/application/repair without creating an import cycle on the
// concrete Prometheus collector.
type PlannerMetricsRecorder interface {
	RecordStepDuration(seconds float64)
	RecordRepairIteration(reason string)
	RecordRepairOutcome(converged bool)
	RecordRoutingQuery(durationSeconds float64, found bool)
	RecordSimulationTicks(ticks int)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalPlannerCollector sets the global planner metrics collector
func SetGlobalPlannerCollector(collector PlannerMetricsRecorder) {
	globalPlannerCollector = collector
}

// RecordStepDuration records the wall-clock time spent on one planning step
func RecordStepDuration(seconds float64) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordStepDuration(seconds)
	}
}

// RecordRepairIteration records one strategy-repair fix-point iteration,
// labeled with the task failure reason that triggered it
func RecordRepairIteration(reason string) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordRepairIteration(reason)
	}
}

// RecordRepairOutcome records whether a repair pass converged within
// RepairMaxIter or was cut off
func RecordRepairOutcome(converged bool) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordRepairOutcome(converged)
	}
}

// RecordRoutingQuery records one road-graph distance/route query
func RecordRoutingQuery(durationSeconds float64, found bool) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordRoutingQuery(durationSeconds, found)
	}
}

// RecordSimulationTicks records how many forward-simulator ticks a
// strategy evaluation consumed
func RecordSimulationTicks(ticks int) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordSimulationTicks(ticks)
	}
}
