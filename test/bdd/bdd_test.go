package bdd

import (
	"testing"

	"github.com/andrescamacho/massim-fleetctl/test/bdd/steps"
	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	steps.InitializeChargeStopScenario(sc)
	steps.InitializeBuyAndDeliverScenario(sc)
	steps.InitializeCraftWithAssistScenario(sc)
	steps.InitializeCraftMissingToolScenario(sc)
	steps.InitializeJobExpiryScenario(sc)
	steps.InitializeSnapTieBreakScenario(sc)
}
