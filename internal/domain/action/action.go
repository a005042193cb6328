// Package action defines the wire-ready action vocabulary the planner emits
// each step, one per agent (spec.md §6): goto/continue, buy, assemble,
// assist_assemble, deliver_job, charge, retrieve, abort. It is a separate
// package from internal/application/planner so the wire adapter can depend
// on the action vocabulary without depending on planning internals.
package action

// Type enumerates the server-level actions an agent can submit per step.
type Type string

const (
	Goto           Type = "goto"
	Continue       Type = "continue"
	Buy            Type = "buy"
	Retrieve       Type = "retrieve"
	Assemble       Type = "assemble"
	AssistAssemble Type = "assist_assemble"
	DeliverJob     Type = "deliver_job"
	Charge         Type = "charge"
	Abort          Type = "abort"
)

// Action is one agent's per-step submission.
type Action struct {
	Type     Type
	Facility string
	Item     string
	Amount   int
	JobID    string
	Agent    string
}

// AbortAction is the submission for an agent with a NONE task head or with
// no action the planner could compute in time.
func AbortAction() Action {
	return Action{Type: Abort}
}
