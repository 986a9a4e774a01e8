// Command warehousesim runs a single warehouse simulation: it builds
// a plan, generates demand, assigns and paths robots tick by tick
// through the simulation kernel, and writes the resulting history to
// the configured output file.
//
// Grounded on the teacher's cmd/mapfhet/main.go (a flag-driven single
// binary wiring the library packages together) and
// tools/gen_instances/main.go's flag-parsing idiom.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bpeeters/warehousesim/internal/assignment"
	"github.com/bpeeters/warehousesim/internal/config"
	"github.com/bpeeters/warehousesim/internal/demand"
	"github.com/bpeeters/warehousesim/internal/grid"
	"github.com/bpeeters/warehousesim/internal/history"
	"github.com/bpeeters/warehousesim/internal/ilp"
	"github.com/bpeeters/warehousesim/internal/pathengine"
	"github.com/bpeeters/warehousesim/internal/simkernel"
	"github.com/bpeeters/warehousesim/internal/timegraph"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML settings file (optional; defaults are used otherwise)")
		planKind   = flag.String("plan", "rectangle", "rectangle|middle-terminals")
		xSize      = flag.Int("x", 10, "plan width")
		ySize      = flag.Int("y", 10, "plan height")
		padding    = flag.Int("padding", 1, "middle-terminals: border padding")
		interval   = flag.Int("interval", 3, "middle-terminals: hole spacing")
		totalTime  = flag.Int("total-time", 0, "override total_time from config/default")
		nrRobots   = flag.Int("nr-robots", 0, "override nr_robots from config/default")
		nrRequests = flag.Int("nr-requests", 0, "override nr_requests from config/default")
		method     = flag.String("assignment-method", "", "single|multiple (empty: greedy only)")
		horizon    = flag.Bool("ilp-horizon", false, "use the receding-horizon ILP path engine instead of greedy reservation")
		output     = flag.String("output", "", "override output_file from config/default")
	)
	flag.Parse()

	settings := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("warehousesim: %v", err)
		}
		settings = loaded
	}
	if *totalTime > 0 {
		settings.TotalTime = *totalTime
	}
	if *nrRobots > 0 {
		settings.NrRobots = *nrRobots
	}
	if *nrRequests > 0 {
		settings.NrRequests = *nrRequests
	}
	if *method != "" {
		settings.AssignmentMethod = config.AssignmentMethod(*method)
	}
	if *output != "" {
		settings.OutputFile = *output
	}

	var plan grid.Plan
	switch *planKind {
	case "middle-terminals":
		plan = grid.NewMiddleTerminals(*xSize, *ySize, *padding, *interval)
	default:
		plan = grid.NewOneThreeRectangle(*xSize, *ySize)
	}
	generator := demand.NewUniform(settings.Seed)

	baseEngine := assignment.Engine(assignment.GreedyMakespan{Plan: plan})
	if settings.AssignmentMethod == config.Single || settings.AssignmentMethod == config.Multiple {
		bridge := ilp.NewBridge(ilp.Settings{SolverPath: settings.SolverPath, ModelPath: settings.ModelPath})
		switch settings.AssignmentMethod {
		case config.Single:
			baseEngine = &assignment.SingleVehicleILP{Plan: plan, Bridge: bridge, Base: baseEngine}
		case config.Multiple:
			baseEngine = &assignment.MultiVehicleILP{Plan: plan, Bridge: bridge}
		}
	}

	var engine pathengine.Engine
	if *horizon {
		bridge := ilp.NewBridge(ilp.Settings{SolverPath: settings.SolverPath, ModelPath: settings.ModelPath})
		engine = pathengine.NewILPHorizon(plan, bridge, baseEngine, 5)
	} else {
		graph := timegraph.New(plan, settings.TotalTime+1)
		engine = pathengine.NewGreedyReservation(plan, graph, baseEngine, settings.NrRobots)
	}

	kernel := simkernel.New(simkernel.Config{
		Plan:       plan,
		Demand:     generator,
		Engine:     engine,
		TotalTime:  settings.TotalTime,
		NrRobots:   settings.NrRobots,
		NrRequests: settings.NrRequests,
		Seed:       settings.Seed,
	})

	hist, err := kernel.Run(context.Background())
	stats := history.Compute(hist)
	fmt.Printf("makespan=%d total_parcel_distance=%d\n", stats.Makespan, stats.TotalParcelDistance)
	for r, travel := range stats.RobotTravel {
		fmt.Printf("robot %d travel=%d\n", r, travel)
	}

	if settings.OutputFile != "" {
		f, openErr := os.Create(settings.OutputFile)
		if openErr != nil {
			log.Fatalf("warehousesim: open output file: %v", openErr)
		}
		defer f.Close()
		if writeErr := history.WriteHistory(f, plan, settings.NrRobots, hist); writeErr != nil {
			log.Fatalf("warehousesim: write output file: %v", writeErr)
		}
	}

	if err != nil {
		log.Fatalf("warehousesim: simulation aborted: %v", err)
	}
}
