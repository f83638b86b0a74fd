// Package metrics provides Prometheus observability metrics for the
// schedule generation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// GenerationRuns counts completed schedule generations.
var GenerationRuns = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "ingaggio",
	Name:      "generation_runs_total",
	Help:      "Count of schedule generations that completed successfully",
})

// GenerationFailures counts failed generations by failure kind
// (capacity, watchdog, invariant, other).
var GenerationFailures = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ingaggio",
	Name:      "generation_failures_total",
	Help:      "Count of schedule generations that failed, by failure kind",
}, []string{"kind"})

// TasksAllocated counts tasks produced by successful generations.
var TasksAllocated = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "ingaggio",
	Name:      "tasks_allocated_total",
	Help:      "Count of tasks produced by successful schedule generations",
})

// SlotsAllocated tracks the slot hours allocated by the most recent
// generation.
var SlotsAllocated = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "ingaggio",
	Name:      "slots_allocated",
	Help:      "Slot hours allocated by the most recent schedule generation",
})

// ChangesetsApplied counts changesets applied to persisted schedules.
var ChangesetsApplied = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "ingaggio",
	Name:      "changesets_applied_total",
	Help:      "Count of changesets applied to schedules",
})
