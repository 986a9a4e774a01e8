package simkernel

import (
	"context"
	"testing"

	"github.com/bpeeters/warehousesim/internal/demand"
	"github.com/bpeeters/warehousesim/internal/grid"
	"github.com/bpeeters/warehousesim/internal/model"
	"github.com/stretchr/testify/require"
)

// stubEngine replays a fixed sequence of instruction batches,
// ignoring the history it's handed; each Step call consumes the next
// entry.
type stubEngine struct {
	batches []model.Instructions
	calls   int
}

func (s *stubEngine) Step(h *model.History) (model.Instructions, error) {
	if s.calls >= len(s.batches) {
		return model.Instructions{}, nil
	}
	b := s.batches[s.calls]
	s.calls++
	return b, nil
}

func newKernel(t *testing.T, plan grid.Plan, nrRobots int, engine *stubEngine) *Kernel {
	t.Helper()
	return New(Config{
		Plan:       plan,
		Demand:     demand.NewUniform(1),
		Engine:     engine,
		TotalTime:  len(engine.batches) + 1,
		NrRobots:   nrRobots,
		NrRequests: 1,
		Seed:       7,
	})
}

func TestApplyMoveRejectsNonAdjacentStep(t *testing.T) {
	plan := grid.NewOneThreeRectangle(3, 3)
	k := newKernel(t, plan, 1, &stubEngine{})
	k.history = model.NewHistory(model.State{
		Robots:   []model.RobotState{{RobotID: 0, Vertex: model.VertexPtr(grid.Vertex{X: 0, Y: 0})}},
		Requests: map[int]demand.Request{},
	})
	k.step = 1

	_, err := k.applyInstructions(k.history.Last(), model.Instructions{
		Moves: []model.Move{{RobotID: 0, Vertex: grid.Vertex{X: 2, Y: 2}}},
	})
	require.Error(t, err)
	var illegal *IllegalInstructionError
	require.ErrorAs(t, err, &illegal)
	require.Equal(t, KindMove, illegal.Kind)
}

func TestApplyMoveRejectsDestinationCollision(t *testing.T) {
	plan := grid.NewOneThreeRectangle(3, 3)
	k := newKernel(t, plan, 2, &stubEngine{})
	k.history = model.NewHistory(model.State{
		Robots: []model.RobotState{
			{RobotID: 0, Vertex: model.VertexPtr(grid.Vertex{X: 0, Y: 0})},
			{RobotID: 1, Vertex: model.VertexPtr(grid.Vertex{X: 0, Y: 2})},
		},
		Requests: map[int]demand.Request{},
	})
	k.step = 1

	_, err := k.applyInstructions(k.history.Last(), model.Instructions{
		Moves: []model.Move{
			{RobotID: 0, Vertex: grid.Vertex{X: 0, Y: 1}},
			{RobotID: 1, Vertex: grid.Vertex{X: 0, Y: 1}},
		},
	})
	require.Error(t, err)
	var illegal *IllegalInstructionError
	require.ErrorAs(t, err, &illegal)
	require.Equal(t, KindMove, illegal.Kind)
}

func TestApplyMoveRejectsReverseSwap(t *testing.T) {
	plan := grid.NewOneThreeRectangle(3, 3)
	k := newKernel(t, plan, 2, &stubEngine{})
	a, b := grid.Vertex{X: 0, Y: 0}, grid.Vertex{X: 0, Y: 1}
	k.history = model.NewHistory(model.State{
		Robots: []model.RobotState{
			{RobotID: 0, Vertex: model.VertexPtr(a)},
			{RobotID: 1, Vertex: model.VertexPtr(b)},
		},
		Requests: map[int]demand.Request{},
	})
	k.step = 1

	_, err := k.applyInstructions(k.history.Last(), model.Instructions{
		Moves: []model.Move{
			{RobotID: 0, Vertex: b},
			{RobotID: 1, Vertex: a},
		},
	})
	require.Error(t, err, "a reverse-swap move must be rejected")
}

func TestApplyRemovalRejectsWhenNotCarrying(t *testing.T) {
	plan := grid.NewOneThreeRectangle(3, 3)
	k := newKernel(t, plan, 1, &stubEngine{})
	v := grid.Vertex{X: 0, Y: 0}
	k.history = model.NewHistory(model.State{
		Robots:   []model.RobotState{{RobotID: 0, Vertex: model.VertexPtr(v)}},
		Requests: map[int]demand.Request{0: {ID: 0, From: v, To: v}},
	})
	k.step = 1

	_, err := k.applyInstructions(k.history.Last(), model.Instructions{
		Removals: []model.Removal{{RobotID: 0, ParcelID: 0, Vertex: v}},
	})
	require.Error(t, err)
	var illegal *IllegalInstructionError
	require.ErrorAs(t, err, &illegal)
	require.Equal(t, KindRemoval, illegal.Kind)
}

func TestRunStopsWhenRequestsEmptied(t *testing.T) {
	plan := grid.NewOneThreeRectangle(3, 3)
	k := newKernel(t, plan, 1, &stubEngine{})
	k.config.NrRequests = 0

	hist, err := k.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, hist.Time(), "with zero requests the run should stop immediately after the initial state")
}
