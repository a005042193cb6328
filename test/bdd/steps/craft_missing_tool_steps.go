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

type craftMissingToolContext struct {
	graph *roadgraph.Graph
	world *world.World
	sit   *situation.Situation
	fixed strategy.Strategy
}

func (c *craftMissingToolContext) reset() {
	*c = craftMissingToolContext{}
}

func (c *craftMissingToolContext) itemNeedsItemBAndToolWithNoCapablePeer() error {
	g, err := twoNodeGraph(100)
	if err != nil {
		return err
	}
	c.graph = g
	c.world = craftWorld(g, false)
	c.sit = &situation.Situation{Workshops: []situation.Workshop{{ID: craftWorkshop, Pos: g.Node(1).P}}}
	return nil
}

func (c *craftMissingToolContext) agentTheCrafterHoldsItemB(amount int) error {
	c.sit.Selves[0].Pos = c.graph.Node(1).P
	c.sit.Selves[0].FacilityIn = craftWorkshop
	c.sit.Selves[0].Items = []strategy.ItemStack{{Item: itemB, Amount: uint8(amount)}}
	return nil
}

func (c *craftMissingToolContext) agentsQueueIsToCraftItemAAtTheWorkshop() error {
	c.sit.Strategy.Tasks[0].PushBack(strategy.Task{
		ID: 1, Type: strategy.TaskCraftItem, WhereID: craftWorkshop,
		Item: strategy.ItemStack{Item: itemA, Amount: 1},
	})
	return nil
}

func (c *craftMissingToolContext) theCraftWithoutHelperPlanIsRepaired() error {
	r := repair.New(c.graph)
	fixed, err := r.Repair(context.Background(), c.world, c.sit, 500, nil)
	c.fixed = fixed
	if err != nil {
		return fmt.Errorf("repair did not converge: %w", err)
	}
	return nil
}

func (c *craftMissingToolContext) agentsQueueShouldHaveCraftTasks(agent, n int) error {
	if c.fixed.Tasks[agent].Len != n {
		return fmt.Errorf("expected %d tasks, got %d", n, c.fixed.Tasks[agent].Len)
	}
	return nil
}

// InitializeCraftMissingToolScenario registers the craft_missing_tool.feature steps.
func InitializeCraftMissingToolScenario(sc *godog.ScenarioContext) {
	c := &craftMissingToolContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^item A needs 2 item B and tool 1, with no teammate carrying tool 1$`, c.itemNeedsItemBAndToolWithNoCapablePeer)
	sc.Step(`^the unassisted crafter, agent 0, holds (\d+) item B$`, c.agentTheCrafterHoldsItemB)
	sc.Step(`^agent 0's queue is to craft item A at the workshop$`, c.agentsQueueIsToCraftItemAAtTheWorkshop)
	sc.Step(`^the craft-without-helper plan is repaired$`, c.theCraftWithoutHelperPlanIsRepaired)
	sc.Step(`^agent (\d+)'s queue should have (\d+) craft tasks$`, c.agentsQueueShouldHaveCraftTasks)
}
