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

const (
	craftWorkshop = uint8(30)
	itemA         = uint8(1)
	itemB         = uint8(2)
	tool1         = uint8(3)
)

// craftWorld returns a World with two roles: role 0 has no tools (assigned
// to every agent slot by default) and role 1 carries tool1, assigned to
// agent 2 only — mirroring the crafter/helper split in spec.md scenario 3.
func craftWorld(g *roadgraph.Graph, includeHelper bool) *world.World {
	items := []world.Item{
		{ID: itemA, Volume: 1, Assembled: true,
			Consumed: []strategy.ItemStack{{Item: itemB, Amount: 2}},
			Tools:    []uint8{tool1},
		},
	}
	roles := []world.Role{
		{ID: 0, Speed: 50, BatteryMax: 200, LoadMax: 10},
	}
	var agentRole [strategy.NumAgents]uint8
	if includeHelper {
		roles = append(roles, world.Role{ID: 1, Speed: 50, BatteryMax: 200, LoadMax: 10, Tools: map[uint8]bool{tool1: true}})
		agentRole[2] = 1
	}
	return world.Build(items, roles, agentRole, g, 1, 1000, 500)
}

type craftWithAssistContext struct {
	graph *roadgraph.Graph
	world *world.World
	sit   *situation.Situation
	out   *situation.Situation
}

func (c *craftWithAssistContext) reset() {
	*c = craftWithAssistContext{}
}

func (c *craftWithAssistContext) itemIsAssembledFromItemAndRequiresTool() error {
	g, err := twoNodeGraph(100)
	if err != nil {
		return err
	}
	c.graph = g
	c.world = craftWorld(g, true)
	c.sit = &situation.Situation{Workshops: []situation.Workshop{{ID: craftWorkshop, Pos: g.Node(1).P}}}
	return nil
}

// agentTheCrafterHoldsItemB starts the crafter one hop away from the
// workshop, so it arrives and runs its CRAFT_ITEM check only after the
// already-present helper has staged as an assistant.
func (c *craftWithAssistContext) agentTheCrafterHoldsItemB(amount int) error {
	c.sit.Selves[0].Pos = c.graph.Node(0).P
	c.sit.Selves[0].Charge = 200
	c.sit.Selves[0].Items = []strategy.ItemStack{{Item: itemB, Amount: uint8(amount)}}
	c.sit.Strategy.Tasks[0].PushBack(strategy.Task{
		ID: 1, Type: strategy.TaskCraftItem, WhereID: craftWorkshop,
		Item: strategy.ItemStack{Item: itemA, Amount: 1},
	})
	return nil
}

func (c *craftWithAssistContext) agentAssistsAgentAtTheWorkshop(helper, crafter int) error {
	c.sit.Selves[helper].Pos = c.graph.Node(1).P
	c.sit.Selves[helper].FacilityIn = craftWorkshop
	c.sit.Strategy.Tasks[helper].PushBack(strategy.Task{
		ID: 2, Type: strategy.TaskCraftAssist, WhereID: craftWorkshop, CrafterID: uint8(crafter),
	})
	return nil
}

func (c *craftWithAssistContext) thePlanIsFastForwardedForAssist() error {
	sim := simulate.New(c.graph)
	c.out = sim.FastForward(c.world, c.sit, 10)
	return nil
}

func (c *craftWithAssistContext) agentsInventoryShouldGainItemA(agent, amount int) error {
	for _, it := range c.out.Selves[agent].Items {
		if it.Item == itemA && int(it.Amount) == amount {
			return nil
		}
	}
	return fmt.Errorf("expected agent %d to hold %d of item A, got %+v", agent, amount, c.out.Selves[agent].Items)
}

func (c *craftWithAssistContext) agentsInventoryShouldNotHoldItemB(agent int) error {
	for _, it := range c.out.Selves[agent].Items {
		if it.Item == itemB && it.Amount > 0 {
			return fmt.Errorf("expected agent %d to have spent item B, still holds %d", agent, it.Amount)
		}
	}
	return nil
}

func (c *craftWithAssistContext) agentsCraftTaskShouldSucceed(agent int) error {
	res := c.out.Strategy.Tasks[agent].Slots[0].Result
	if res.Err != strategy.Success {
		return fmt.Errorf("expected agent %d's task to succeed, got %v", agent, res.Err)
	}
	return nil
}

// InitializeCraftWithAssistScenario registers the craft_with_assist.feature steps.
func InitializeCraftWithAssistScenario(sc *godog.ScenarioContext) {
	c := &craftWithAssistContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^item A is assembled from 2 item B and requires tool 1$`, c.itemIsAssembledFromItemAndRequiresTool)
	sc.Step(`^agent 0, the crafter, holds (\d+) item B$`, c.agentTheCrafterHoldsItemB)
	sc.Step(`^agent (\d+) assists agent (\d+) at the workshop$`, c.agentAssistsAgentAtTheWorkshop)
	sc.Step(`^the craft plan is fast-forwarded$`, c.thePlanIsFastForwardedForAssist)
	sc.Step(`^agent (\d+)'s inventory should gain (\d+) item A$`, c.agentsInventoryShouldGainItemA)
	sc.Step(`^agent (\d+)'s inventory should no longer hold item B$`, c.agentsInventoryShouldNotHoldItemB)
	sc.Step(`^agent (\d+)'s craft task should succeed$`, c.agentsCraftTaskShouldSucceed)
}
