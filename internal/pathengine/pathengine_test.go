package pathengine

import (
	"testing"

	"github.com/bpeeters/warehousesim/internal/assignment"
	"github.com/bpeeters/warehousesim/internal/demand"
	"github.com/bpeeters/warehousesim/internal/grid"
	"github.com/bpeeters/warehousesim/internal/model"
	"github.com/bpeeters/warehousesim/internal/timegraph"
	"github.com/stretchr/testify/require"
)

// newSingleRobotHistory seeds a history with one robot at `start` and
// one pending request.
func newSingleRobotHistory(start grid.Vertex, req demand.Request) *model.History {
	return model.NewHistory(model.State{
		Robots:   []model.RobotState{{RobotID: 0, Vertex: model.VertexPtr(start)}},
		Requests: map[int]demand.Request{req.ID: req},
	})
}

func TestGreedyReservationDeliversTightPath(t *testing.T) {
	plan := grid.NewOneThreeRectangle(3, 3)
	graph := timegraph.New(plan, 10)
	engine := NewGreedyReservation(plan, graph, assignment.GreedyMakespan{Plan: plan}, 1)

	req := demand.Request{ID: 0, From: grid.Vertex{X: 0, Y: 1}, To: grid.Vertex{X: 2, Y: 1}}
	h := newSingleRobotHistory(req.From, req)

	for h.Time() < 10 {
		if len(h.Last().Requests) == 0 {
			break
		}
		instr, err := engine.Step(h)
		require.NoError(t, err)
		h.Append(applyForTest(h.Last(), instr))
	}

	require.Empty(t, h.Last().Requests, "the single request should have been delivered")
}

func TestGreedyReservationNeverEmitsRobotRemovalMidTask(t *testing.T) {
	plan := grid.NewOneThreeRectangle(3, 3)
	graph := timegraph.New(plan, 10)
	engine := NewGreedyReservation(plan, graph, assignment.GreedyMakespan{Plan: plan}, 1)

	req := demand.Request{ID: 0, From: grid.Vertex{X: 0, Y: 1}, To: grid.Vertex{X: 2, Y: 1}}
	h := newSingleRobotHistory(req.From, req)

	for i := 0; i < 6 && len(h.Last().Requests) > 0; i++ {
		instr, err := engine.Step(h)
		require.NoError(t, err)
		require.Empty(t, instr.RobotRemovals, "a robot mid-delivery must never be told to leave the floor")
		h.Append(applyForTest(h.Last(), instr))
	}
}

// applyForTest is a minimal, test-only instruction applier: it trusts
// the engine's output is internally consistent (simkernel owns real
// validation) and exists only to drive the state machine forward
// across ticks for these engine-level tests.
func applyForTest(prev model.State, instr model.Instructions) model.State {
	next := prev.Clone()
	for _, m := range instr.Moves {
		next.Robots[m.RobotID] = model.RobotState{RobotID: m.RobotID, Vertex: model.VertexPtr(m.Vertex), ParcelID: prev.Robots[m.RobotID].ParcelID}
	}
	for _, p := range instr.Placements {
		next.Robots[p.RobotID] = model.RobotState{RobotID: p.RobotID, Vertex: model.VertexPtr(p.Vertex), ParcelID: model.IntPtr(p.ParcelID)}
	}
	for _, r := range instr.Removals {
		next.Robots[r.RobotID] = model.RobotState{RobotID: r.RobotID, Vertex: model.VertexPtr(r.Vertex)}
		delete(next.Requests, r.ParcelID)
	}
	for _, rr := range instr.RobotRemovals {
		next.Robots[rr.RobotID] = model.RobotState{RobotID: rr.RobotID}
	}
	return next
}
