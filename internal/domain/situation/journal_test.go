package situation

import (
	"testing"

	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
)

func TestJournalRecordsEntriesInOrder(t *testing.T) {
	j := NewJournal(4)
	j.RecordTaskState(1, 0, strategy.StateExecuting)
	j.RecordDelivery(2, 7, strategy.ItemStack{Item: 3, Amount: 5})
	j.RecordJobPurged(3, 7)

	if got := j.Len(); got != 3 {
		t.Fatalf("expected 3 entries, got %d", got)
	}
	if e := j.At(0); e.Kind != DiffTaskState || e.Step != 1 {
		t.Fatalf("entry 0 = %+v", e)
	}
	if e := j.At(1); e.Kind != DiffDelivery || e.JobID != 7 || e.Delta != 5 {
		t.Fatalf("entry 1 = %+v", e)
	}
	if e := j.At(2); e.Kind != DiffJobPurged || e.JobID != 7 {
		t.Fatalf("entry 2 = %+v", e)
	}
}

func TestJournalSinceFiltersByStep(t *testing.T) {
	j := NewJournal(4)
	j.RecordTaskState(1, 0, strategy.StateExecuting)
	j.RecordTaskState(5, 1, strategy.StateExecuting)
	j.RecordTaskState(9, 2, strategy.StateExecuting)

	got := j.Since(5)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries at/after step 5, got %d", len(got))
	}
	if got[0].Agent != 1 || got[1].Agent != 2 {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestJournalCloneIsIndependent(t *testing.T) {
	j := NewJournal(4)
	j.RecordTaskState(1, 0, strategy.StateExecuting)

	clone := j.Clone()
	clone.RecordTaskState(2, 1, strategy.StateExecuting)

	if j.Len() != 1 {
		t.Fatalf("mutating the clone must not affect the original, got len %d", j.Len())
	}
	if clone.Len() != 2 {
		t.Fatalf("clone mutation did not apply, got len %d", clone.Len())
	}
}

func TestRecordBookAddMutatesAndJournals(t *testing.T) {
	j := NewJournal(4)
	var book DeliveryBook
	RecordBookAdd(j, 3, &book, 11, strategy.ItemStack{Item: 2, Amount: 4})

	if got := book.DeliveredAmount(11, 2); got != 4 {
		t.Fatalf("expected book amount 4, got %d", got)
	}
	if j.Len() != 1 {
		t.Fatalf("expected 1 journal entry, got %d", j.Len())
	}
}
