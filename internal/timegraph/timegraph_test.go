package timegraph

import (
	"testing"

	"github.com/bpeeters/warehousesim/internal/grid"
	"github.com/bpeeters/warehousesim/internal/model"
	"github.com/stretchr/testify/require"
)

func TestFindPathExactHorizonSucceeds(t *testing.T) {
	plan := grid.NewOneThreeRectangle(3, 3)
	tg := New(plan, 10)

	from := grid.Vertex{X: 0, Y: 1}
	to := grid.Vertex{X: 2, Y: 1}

	path, ok := tg.FindPath(0, from, to)
	require.True(t, ok)
	require.Equal(t, from, path.Nodes[0])
	require.Equal(t, to, path.Nodes[len(path.Nodes)-1])
	require.Equal(t, from.Manhattan(to), path.Length())
}

func TestFindPathFailsWhenGoalBlocked(t *testing.T) {
	plan := grid.NewOneThreeRectangle(3, 3)
	tg := New(plan, maxSearchSteps+1)

	from := grid.Vertex{X: 0, Y: 1}
	to := grid.Vertex{X: 2, Y: 1}

	// Reserve `to` at every tick the search can reach before it gives
	// up, by removing a path that parks there longer than that.
	block := model.Path{StartTime: 0, Nodes: make([]grid.Vertex, maxSearchSteps+2)}
	for i := range block.Nodes {
		block.Nodes[i] = to
	}
	tg.RemovePath(block)

	_, ok := tg.FindPath(0, from, to)
	require.False(t, ok)
}

func TestRemovePathEvictsThreeLayerWindow(t *testing.T) {
	plan := grid.NewOneThreeRectangle(3, 3)
	tg := New(plan, 10)

	path := model.Path{StartTime: 2, Nodes: []grid.Vertex{{X: 0, Y: 1}, {X: 1, Y: 1}}}
	tg.RemovePath(path)

	require.False(t, tg.free(1, grid.Vertex{X: 0, Y: 1}), "t-1 should evict the first node")
	require.False(t, tg.free(2, grid.Vertex{X: 0, Y: 1}), "t should evict the first node")
	require.False(t, tg.free(3, grid.Vertex{X: 0, Y: 1}), "t+1 should evict the first node")
	require.False(t, tg.free(3, grid.Vertex{X: 1, Y: 1}), "t should evict the second node")
	require.False(t, tg.free(4, grid.Vertex{X: 1, Y: 1}), "t+1 should evict the second node")
}

func TestRemovePathIsIdempotent(t *testing.T) {
	plan := grid.NewOneThreeRectangle(3, 3)
	tg := New(plan, 10)

	path := model.Path{StartTime: 1, Nodes: []grid.Vertex{{X: 0, Y: 1}, {X: 1, Y: 1}}}
	tg.RemovePath(path)
	tg.RemovePath(path)

	require.False(t, tg.free(1, grid.Vertex{X: 0, Y: 1}))
}

func TestCleanFrontIsIdempotentAtSameTime(t *testing.T) {
	plan := grid.NewOneThreeRectangle(3, 3)
	tg := New(plan, 10)

	tg.CleanFront(2)
	require.Equal(t, 2, tg.EarliestTime())
	tg.CleanFront(2)
	require.Equal(t, 2, tg.EarliestTime())
}

func TestFindPathExtendsHorizonTransparently(t *testing.T) {
	plan := grid.NewOneThreeRectangle(3, 3)
	tg := New(plan, 1) // deliberately tiny initial capacity

	from := grid.Vertex{X: 0, Y: 1}
	to := grid.Vertex{X: 2, Y: 1}

	path, ok := tg.FindPath(0, from, to)
	require.True(t, ok)
	require.GreaterOrEqual(t, path.EndTime(), 0)
}
