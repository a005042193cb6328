package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/massim-fleetctl/internal/application/repair"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/situation"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/world"
)

const (
	jobExpiryJob     = uint16(5)
	jobExpiryStorage = uint8(40)
	jobExpiryItem    = uint8(7)
)

type jobExpiryContext struct {
	graph *roadgraph.Graph
	world *world.World
	sit   *situation.Situation
	fixed strategy.Strategy
}

func (c *jobExpiryContext) reset() {
	*c = jobExpiryContext{}
}

func (c *jobExpiryContext) aTwoNodeRoadMetresApartWithTheStorageAtTheFarEnd(distMetres int) error {
	g, err := twoNodeGraph(uint32(distMetres))
	if err != nil {
		return err
	}
	c.graph = g
	c.world = testWorld(g, nil)
	c.sit = &situation.Situation{Storages: []situation.Storage{{ID: jobExpiryStorage, Pos: g.Node(1).P}}}
	return nil
}

func (c *jobExpiryContext) aJobAtTheStorageThatExpiresAtStep(end int) error {
	c.sit.Jobs = []situation.JobBase{{
		ID: jobExpiryJob, StorageID: jobExpiryStorage, End: int32(end),
		Required: []strategy.ItemStack{{Item: jobExpiryItem, Amount: 1}},
	}}
	return nil
}

func (c *jobExpiryContext) agentStartsAtTheNearNodeCarryingOfTheJobsItem(amount int) error {
	c.sit.Selves[0].Pos = c.graph.Node(0).P
	c.sit.Selves[0].Charge = 200
	c.sit.Selves[0].Items = []strategy.ItemStack{{Item: jobExpiryItem, Amount: uint8(amount)}}
	return nil
}

func (c *jobExpiryContext) agentsQueueDeliversThatItemToTheJob(agent int) error {
	c.sit.Strategy.Tasks[agent].PushBack(strategy.Task{
		ID: 1, Type: strategy.TaskDeliverItem, WhereID: jobExpiryStorage, JobID: jobExpiryJob,
		Item: strategy.ItemStack{Item: jobExpiryItem, Amount: 1},
	})
	return nil
}

func (c *jobExpiryContext) theOverdueDeliveryPlanIsRepaired() error {
	r := repair.New(c.graph)
	fixed, err := r.Repair(context.Background(), c.world, c.sit, 500, nil)
	c.fixed = fixed
	if err != nil {
		return fmt.Errorf("repair did not converge: %w", err)
	}
	return nil
}

func (c *jobExpiryContext) agentsQueueShouldHaveDeliveryTasks(agent, n int) error {
	if c.fixed.Tasks[agent].Len != n {
		return fmt.Errorf("expected %d tasks, got %d", n, c.fixed.Tasks[agent].Len)
	}
	return nil
}

// InitializeJobExpiryScenario registers the job_expiry.feature steps.
func InitializeJobExpiryScenario(sc *godog.ScenarioContext) {
	c := &jobExpiryContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^a two-node road (\d+) metres apart with the storage at the far end$`, c.aTwoNodeRoadMetresApartWithTheStorageAtTheFarEnd)
	sc.Step(`^a job at the storage that expires at step (\d+)$`, c.aJobAtTheStorageThatExpiresAtStep)
	sc.Step(`^agent 0 starts at the near node carrying (\d+) of the job's item$`, c.agentStartsAtTheNearNodeCarryingOfTheJobsItem)
	sc.Step(`^agent (\d+)'s queue delivers that item to the job$`, c.agentsQueueDeliversThatItemToTheJob)
	sc.Step(`^the overdue-delivery plan is repaired$`, c.theOverdueDeliveryPlanIsRepaired)
	sc.Step(`^agent (\d+)'s queue should have (\d+) delivery tasks$`, c.agentsQueueShouldHaveDeliveryTasks)
}
