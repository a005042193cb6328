package situation

import (
	"testing"

	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
)

func TestFromPerceptCarriesForwardBookForLiveJobs(t *testing.T) {
	prev := &Situation{
		Jobs: []JobBase{{ID: 7}},
		Book: DeliveryBook{Delivered: []DeliveredEntry{
			{JobID: 7, Item: strategy.ItemStack{Item: 3, Amount: 2}},
			{JobID: 9, Item: strategy.ItemStack{Item: 3, Amount: 1}},
		}},
	}

	p := StepData{Jobs: []JobBase{{ID: 7}}}
	next := FromPercept(p, prev)

	if len(next.Book.Delivered) != 1 {
		t.Fatalf("expected only job 7's row to survive, got %+v", next.Book.Delivered)
	}
	if next.Book.Delivered[0].JobID != 7 {
		t.Fatalf("expected surviving row to belong to job 7, got %d", next.Book.Delivered[0].JobID)
	}
}

func TestFromPerceptFreshStateWithNoPrev(t *testing.T) {
	p := StepData{SimulationStep: 3, TeamMoney: 500}
	s := FromPercept(p, nil)

	if s.SimulationStep != 3 || s.TeamMoney != 500 {
		t.Fatalf("expected fields copied verbatim from percept, got %+v", s)
	}
	if s.Book.Delivered != nil {
		t.Fatalf("expected empty book with no prev situation")
	}
}

func TestDeliveryBookAddAccumulates(t *testing.T) {
	var b DeliveryBook
	b.Add(1, strategy.ItemStack{Item: 5, Amount: 2})
	b.Add(1, strategy.ItemStack{Item: 5, Amount: 3})

	if got := b.DeliveredAmount(1, 5); got != 5 {
		t.Fatalf("expected accumulated amount 5, got %d", got)
	}
}

func TestDeliveryBookPurgeJob(t *testing.T) {
	var b DeliveryBook
	b.Add(1, strategy.ItemStack{Item: 5, Amount: 2})
	b.Add(2, strategy.ItemStack{Item: 5, Amount: 1})

	b.PurgeJob(1)

	if b.DeliveredAmount(1, 5) != 0 {
		t.Fatalf("expected job 1 purged")
	}
	if b.DeliveredAmount(2, 5) != 1 {
		t.Fatalf("expected job 2 to remain")
	}
}

func TestMergeFoldsPerAgentSelvesIntoTheirOwnSlots(t *testing.T) {
	var percepts [strategy.NumAgents]Percept
	percepts[0] = Percept{SimulationStep: 5, TeamMoney: 10, Jobs: []JobBase{{ID: 1}}, AgentIndex: 0, Self: Self{Charge: 80}}
	percepts[3] = Percept{SimulationStep: 5, TeamMoney: 10, AgentIndex: 3, Self: Self{Charge: 55}}

	merged := Merge(percepts)

	if merged.SimulationStep != 5 || merged.TeamMoney != 10 {
		t.Fatalf("expected shared fields taken from percepts[0], got %+v", merged)
	}
	if len(merged.Jobs) != 1 || merged.Jobs[0].ID != 1 {
		t.Fatalf("expected shared job list carried over, got %+v", merged.Jobs)
	}
	if merged.Selves[0].Charge != 80 {
		t.Fatalf("expected agent 0's own Self in slot 0, got %+v", merged.Selves[0])
	}
	if merged.Selves[3].Charge != 55 {
		t.Fatalf("expected agent 3's own Self in slot 3, got %+v", merged.Selves[3])
	}
}

func TestSituationCloneIsIndependent(t *testing.T) {
	s := &Situation{Jobs: []JobBase{{ID: 1}}}
	s.Selves[0].Items = []strategy.ItemStack{{Item: 1, Amount: 1}}

	clone := s.Clone()
	clone.Jobs[0].ID = 99
	clone.Selves[0].Items[0].Amount = 9

	if s.Jobs[0].ID != 1 {
		t.Fatalf("expected original Jobs untouched by clone mutation")
	}
	if s.Selves[0].Items[0].Amount != 1 {
		t.Fatalf("expected original Selves items untouched by clone mutation")
	}
}
