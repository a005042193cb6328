// Package idgen generates short, greppable correlation ids for long-running
// operations (SPEC_FULL.md §2 ambient stack), grounded on the teacher's
// pkg/utils.GenerateContainerID: an operation tag plus an 8-hex-char UUID
// suffix, rather than a bare UUID, so log lines stay readable.
package idgen

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NewMatchID tags one fleet-controller run for the lifetime of a match, e.g.
// "match-scout7-3f2a9c1d".
func NewMatchID(firstAgent string) string {
	return tag("match", firstAgent)
}

// NewStepID tags one planning step, for correlating the repair loop's log
// lines (including a non-convergence warning) back to the step that produced
// them, e.g. "step-42-a3f8e2b1".
func NewStepID(step int32) string {
	return tag("step", strconv.Itoa(int(step)))
}

func tag(operation, entity string) string {
	short := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	if entity == "" {
		return operation + "-" + short
	}
	return operation + "-" + entity + "-" + short
}
