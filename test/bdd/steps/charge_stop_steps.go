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

type chargeStopContext struct {
	graph *roadgraph.Graph
	world *world.World
	sit   *situation.Situation
	fixed strategy.Strategy
	err   error
}

func (c *chargeStopContext) reset() {
	*c = chargeStopContext{}
}

func (c *chargeStopContext) aThreeNodeRoadChainWithHopMetres(hop int) error {
	g, err := threeNodeChain(uint32(hop))
	if err != nil {
		return err
	}
	c.graph = g
	c.world = testWorld(g, nil)
	c.sit = &situation.Situation{}
	return nil
}

func (c *chargeStopContext) aChargingStationAtTheMidpoint() error {
	c.sit.ChargingStations = []situation.ChargingStation{
		{ID: 1, Pos: c.graph.Node(1).P, Rate: 100},
	}
	return nil
}

func (c *chargeStopContext) agentIsAtTheStartNodeWithCharge(agent, charge int) error {
	c.sit.Selves[agent].Pos = c.graph.Node(0).P
	c.sit.Selves[agent].Charge = int32(charge)
	return nil
}

func (c *chargeStopContext) agentsQueueIsTheStorageAtTheFarNode(agent int, taskName string) error {
	if taskName != "VISIT" {
		return fmt.Errorf("unsupported task kind %q", taskName)
	}
	c.sit.Storages = []situation.Storage{{ID: 2, Pos: c.graph.Node(2).P}}
	c.sit.Strategy.Tasks[agent].PushBack(strategy.Task{ID: 1, Type: strategy.TaskVisit, WhereID: 2})
	return nil
}

func (c *chargeStopContext) thePlanIsRepaired() error {
	r := repair.New(c.graph)
	c.fixed, c.err = r.Repair(context.Background(), c.world, c.sit, 500, nil)
	return nil
}

func (c *chargeStopContext) agentsQueueShouldHaveTasks(agent, n int) error {
	if c.err != nil {
		return fmt.Errorf("repair did not converge: %w", c.err)
	}
	if c.fixed.Tasks[agent].Len != n {
		return fmt.Errorf("expected %d tasks, got %d", n, c.fixed.Tasks[agent].Len)
	}
	return nil
}

func (c *chargeStopContext) agentsFirstTaskShouldBe(agent int, kind string) error {
	got := c.fixed.Tasks[agent].Slots[0].Task.Type.String()
	if got != kind {
		return fmt.Errorf("expected first task %q, got %q", kind, got)
	}
	return nil
}

// InitializeChargeStopScenario registers the charge_stop.feature steps.
func InitializeChargeStopScenario(sc *godog.ScenarioContext) {
	c := &chargeStopContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^a three-node road chain with (\d+) metre hops$`, c.aThreeNodeRoadChainWithHopMetres)
	sc.Step(`^a charging station at the midpoint$`, c.aChargingStationAtTheMidpoint)
	sc.Step(`^agent (\d+) is at the start node with charge (\d+)$`, c.agentIsAtTheStartNodeWithCharge)
	sc.Step(`^agent (\d+)'s queue is "([^"]*)" the storage at the far node$`, c.agentsQueueIsTheStorageAtTheFarNode)
	sc.Step(`^the plan is repaired$`, c.thePlanIsRepaired)
	sc.Step(`^agent (\d+)'s queue should have (\d+) tasks$`, c.agentsQueueShouldHaveTasks)
	sc.Step(`^agent (\d+)'s first task should be "([^"]*)"$`, c.agentsFirstTaskShouldBe)
}
