package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/simulate"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/situation"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/world"
)

const buyDeliverItem = uint8(9)
const buyDeliverJob = uint16(1)

type buyAndDeliverContext struct {
	graph *roadgraph.Graph
	world *world.World
	sit   *situation.Situation
	out   *situation.Situation
}

func (c *buyAndDeliverContext) reset() {
	*c = buyAndDeliverContext{}
}

func (c *buyAndDeliverContext) aShopStockingItemAtCost(item, cost int) error {
	if c.graph == nil {
		g, err := twoNodeGraph(100)
		if err != nil {
			return err
		}
		c.graph = g
		c.world = testWorld(g, nil)
		c.sit = &situation.Situation{}
	}
	c.sit.Shops = []situation.Shop{{
		ID:  10,
		Pos: c.graph.Node(0).P,
		Items: []situation.ShopItem{
			{Item: uint8(item), Amount: 5, Cost: int32(cost)},
		},
	}}
	return nil
}

func (c *buyAndDeliverContext) aStorageFacilityColocatedWithTheAgent() error {
	c.sit.Storages = []situation.Storage{{ID: 20, Pos: c.graph.Node(0).P}}
	c.sit.Selves[0].Pos = c.graph.Node(0).P
	c.sit.Selves[0].FacilityIn = 20
	return nil
}

func (c *buyAndDeliverContext) aJobRequiringOfItemWithReward(amount, item, reward int) error {
	c.sit.Jobs = []situation.JobBase{{
		ID: buyDeliverJob, StorageID: 20, End: 1000, Reward: int32(reward),
		Required: []strategy.ItemStack{{Item: uint8(item), Amount: uint8(amount)}},
	}}
	return nil
}

func (c *buyAndDeliverContext) teamMoneyStartsAt(money int) error {
	c.sit.TeamMoney = int32(money)
	return nil
}

func (c *buyAndDeliverContext) agentsQueueBuysItemThenDeliversItToTheJob(agent int) error {
	c.sit.Strategy.Tasks[agent].PushBack(strategy.Task{
		ID: 1, Type: strategy.TaskBuyItem, WhereID: 10,
		Item: strategy.ItemStack{Item: buyDeliverItem, Amount: 1},
	})
	c.sit.Strategy.Tasks[agent].PushBack(strategy.Task{
		ID: 2, Type: strategy.TaskDeliverItem, WhereID: 20, JobID: buyDeliverJob,
		Item: strategy.ItemStack{Item: buyDeliverItem, Amount: 1},
	})
	return nil
}

func (c *buyAndDeliverContext) thePlanIsFastForwarded() error {
	sim := simulate.New(c.graph)
	c.out = sim.FastForward(c.world, c.sit, 10)
	return nil
}

func (c *buyAndDeliverContext) teamMoneyShouldBe(money int) error {
	if c.out.TeamMoney != int32(money) {
		return fmt.Errorf("expected team money %d, got %d", money, c.out.TeamMoney)
	}
	return nil
}

func (c *buyAndDeliverContext) theJobsDeliveredAmountOfItemShouldBe(item, amount int) error {
	got := c.out.Book.DeliveredAmount(buyDeliverJob, uint8(item))
	if got != int32(amount) {
		return fmt.Errorf("expected delivered amount %d, got %d", amount, got)
	}
	return nil
}

func (c *buyAndDeliverContext) theJobShouldNoLongerBeInTheLiveJobList() error {
	for _, j := range c.out.Jobs {
		if j.ID == buyDeliverJob {
			return fmt.Errorf("expected job %d to be closed and removed, still present", buyDeliverJob)
		}
	}
	return nil
}

// InitializeBuyAndDeliverScenario registers the buy_and_deliver.feature steps.
func InitializeBuyAndDeliverScenario(sc *godog.ScenarioContext) {
	c := &buyAndDeliverContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^a shop stocking item (\d+) at cost (\d+)$`, c.aShopStockingItemAtCost)
	sc.Step(`^a storage facility co-located with the agent$`, c.aStorageFacilityColocatedWithTheAgent)
	sc.Step(`^a job requiring (\d+) of item (\d+) with reward (\d+)$`, c.aJobRequiringOfItemWithReward)
	sc.Step(`^team money starts at (\d+)$`, c.teamMoneyStartsAt)
	sc.Step(`^agent (\d+)'s queue buys item \d+ then delivers it to the job$`, c.agentsQueueBuysItemThenDeliversItToTheJob)
	sc.Step(`^the buy-then-deliver plan is fast-forwarded$`, c.thePlanIsFastForwarded)
	sc.Step(`^team money should be (\d+)$`, c.teamMoneyShouldBe)
	sc.Step(`^the job's delivered amount of item (\d+) should be (\d+)$`, c.theJobsDeliveredAmountOfItemShouldBe)
	sc.Step(`^the job should no longer be in the live job list$`, c.theJobShouldNoLongerBeInTheLiveJobList)
}
