package situation

import (
	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
	"github.com/andrescamacho/massim-fleetctl/pkg/arena"
)

// diffKind enumerates what a Journal entry records. Kept small and
// fixed-size so Entry satisfies FlatArray's no-pointers requirement.
type diffKind uint8

const (
	// DiffDelivery records a DeliveryBook.Add call: the running tally for
	// one job/item pair grew.
	DiffDelivery diffKind = iota
	// DiffJobPurged records a job leaving the live set (closed or expired).
	DiffJobPurged
	// DiffTaskState records one agent's head task changing TaskState.
	DiffTaskState
)

// Entry is one journal record: a fixed-size value, never holding a pointer
// or slice, so the whole journal is a flat append-only log inside the
// arena rather than a slice of heap-allocated structs.
type Entry struct {
	Step  int32
	Kind  diffKind
	Agent uint8 // only meaningful for DiffTaskState
	JobID uint16
	Item  uint8
	Delta int32
	State strategy.TaskState // only meaningful for DiffTaskState
}

// Journal is a diff log over the per-step DeliveryBook/TaskState changes a
// repair pass or a real step makes to a Situation, backed by the same
// append-only arena every other relocatable snapshot in the planner uses.
// It exists for replay and debugging: given a base Situation and its
// Journal, every intermediate step's bookkeeping state can be reconstructed
// without keeping a full Situation clone per step.
type Journal struct {
	arena   *arena.Arena
	entries arena.FlatArray[Entry]
}

// NewJournal creates an empty Journal with an initial capacity hint in
// entries.
func NewJournal(capacityHint int) *Journal {
	a := arena.New(capacityHint * int(entrySize))
	return &Journal{
		arena:   a,
		entries: arena.NewFlatArray[Entry](a),
	}
}

// entrySize is never computed reflectively; it only documents intent for
// the capacity hint above, the arena itself grows on demand regardless.
const entrySize = 24

// RecordDelivery appends a DiffDelivery entry.
func (j *Journal) RecordDelivery(step int32, jobID uint16, item strategy.ItemStack) {
	j.entries.PushBack(j.arena, Entry{
		Step: step, Kind: DiffDelivery, JobID: jobID,
		Item: item.Item, Delta: int32(item.Amount),
	})
}

// RecordJobPurged appends a DiffJobPurged entry.
func (j *Journal) RecordJobPurged(step int32, jobID uint16) {
	j.entries.PushBack(j.arena, Entry{Step: step, Kind: DiffJobPurged, JobID: jobID})
}

// RecordTaskState appends a DiffTaskState entry.
func (j *Journal) RecordTaskState(step int32, agent int, state strategy.TaskState) {
	j.entries.PushBack(j.arena, Entry{
		Step: step, Kind: DiffTaskState, Agent: uint8(agent), State: state,
	})
}

// Len returns how many entries have been recorded.
func (j *Journal) Len() int {
	return j.entries.Len(j.arena)
}

// At returns the entry at index i.
func (j *Journal) At(i int) Entry {
	return j.entries.At(j.arena, i)
}

// All returns every recorded entry, oldest first.
func (j *Journal) All() []Entry {
	return j.entries.All(j.arena)
}

// Since returns every entry recorded at or after step.
func (j *Journal) Since(step int32) []Entry {
	all := j.entries.All(j.arena)
	for i, e := range all {
		if e.Step >= step {
			return all[i:]
		}
	}
	return nil
}

// Clone deep-copies the journal, independent of the receiver, using the
// same arena-block-copy trick every other snapshot in this package relies
// on.
func (j *Journal) Clone() *Journal {
	cloned := j.arena.Clone()
	return &Journal{arena: &cloned, entries: j.entries}
}

// RecordBookAdd is a convenience wrapper that both mutates book and journals
// the change in one call, the shape FastForward and the repair loop use.
func RecordBookAdd(j *Journal, step int32, book *DeliveryBook, jobID uint16, item strategy.ItemStack) {
	book.Add(jobID, item)
	if j != nil {
		j.RecordDelivery(step, jobID, item)
	}
}
