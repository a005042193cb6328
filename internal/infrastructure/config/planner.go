package config

import "time"

// PlannerConfig tunes the strategy-repair fix-point loop (spec.md §4.J).
type PlannerConfig struct {
	// RepairMaxIter bounds repair iterations per planning pass
	RepairMaxIter int `mapstructure:"repair_max_iter" validate:"required,min=1"`

	// Horizon is the default fast-forward horizon in simulation steps
	Horizon int `mapstructure:"horizon" validate:"required,min=1"`

	// CraftMaxWait is how long a CRAFT_ITEM task waits for inputs/tools before re-checking
	CraftMaxWait int `mapstructure:"craft_max_wait" validate:"required,min=1"`

	// TasksMax is the compile-time-sized per-agent task queue capacity
	TasksMax int `mapstructure:"tasks_max" validate:"required,min=1"`

	// RandomSeed seeds the repair loop's tie-breaking Rng; 0 means derive from wall clock
	RandomSeed int64 `mapstructure:"random_seed"`

	// StepDeadline is the per-perception planning budget (spec.md §5)
	StepDeadline time.Duration `mapstructure:"step_deadline" validate:"required"`
}
