package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
)

type snapTieBreakContext struct {
	graph  *roadgraph.Graph
	query  roadgraph.Pos
	result roadgraph.GraphPosition
}

func (c *snapTieBreakContext) reset() {
	*c = snapTieBreakContext{}
}

func (c *snapTieBreakContext) aRoadNetworkWhereNodeSitsExactlyOnEdgesPillarPoint() error {
	g, err := tieBreakGraph()
	if err != nil {
		return err
	}
	c.graph = g
	return nil
}

func (c *snapTieBreakContext) theQueryPositionIsNodeOneSOwnCoordinates() error {
	c.query = c.graph.Node(1).P
	return nil
}

func (c *snapTieBreakContext) thePositionIsSnapped() error {
	c.result = c.graph.Snap(c.query)
	return nil
}

func (c *snapTieBreakContext) theSnappedResultShouldBeAPointOnAnEdgeNotOnNodeOne() error {
	if c.result.IsNode() {
		return fmt.Errorf("expected the edge to win the tie, got node %d", c.result.ID)
	}
	return nil
}

// InitializeSnapTieBreakScenario registers the snap_tie_break.feature steps.
func InitializeSnapTieBreakScenario(sc *godog.ScenarioContext) {
	c := &snapTieBreakContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^a road network where node 1 sits exactly on edge 0-2's pillar point$`, c.aRoadNetworkWhereNodeSitsExactlyOnEdgesPillarPoint)
	sc.Step(`^the query position is node 1's own coordinates$`, c.theQueryPositionIsNodeOneSOwnCoordinates)
	sc.Step(`^the position is snapped$`, c.thePositionIsSnapped)
	sc.Step(`^the snapped result should be a point on an edge, not on node 1$`, c.theSnappedResultShouldBeAPointOnAnEdgeNotOnNodeOne)
}
