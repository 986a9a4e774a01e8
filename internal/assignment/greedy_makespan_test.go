package assignment

import (
	"testing"

	"github.com/bpeeters/warehousesim/internal/demand"
	"github.com/bpeeters/warehousesim/internal/grid"
	"github.com/stretchr/testify/require"
)

func TestGreedyMakespanDistributesLoad(t *testing.T) {
	plan := grid.NewOneThreeRectangle(5, 5)
	g := GreedyMakespan{Plan: plan}

	requests := []demand.Request{
		{ID: 0, From: grid.Vertex{X: 0, Y: 0}, To: grid.Vertex{X: 0, Y: 1}},
		{ID: 1, From: grid.Vertex{X: 0, Y: 0}, To: grid.Vertex{X: 0, Y: 1}},
		{ID: 2, From: grid.Vertex{X: 0, Y: 0}, To: grid.Vertex{X: 0, Y: 1}},
	}
	availability := []Availability{
		{Time: 0, Vertex: grid.Vertex{X: 0, Y: 0}},
		{Time: 0, Vertex: grid.Vertex{X: 0, Y: 0}},
	}

	assign := g.CalculateAssignment(requests, availability)
	require.Len(t, assign, 2)

	total := len(assign[0]) + len(assign[1])
	require.Equal(t, 3, total)

	lo, hi := len(assign[0]), len(assign[1])
	if lo > hi {
		lo, hi = hi, lo
	}
	require.Equal(t, 1, lo)
	require.Equal(t, 2, hi)
}

func TestGreedyMakespanIsDeterministic(t *testing.T) {
	plan := grid.NewOneThreeRectangle(5, 5)
	g := GreedyMakespan{Plan: plan}

	requests := []demand.Request{
		{ID: 0, From: grid.Vertex{X: 0, Y: 1}, To: grid.Vertex{X: 3, Y: 1}},
		{ID: 1, From: grid.Vertex{X: 0, Y: 2}, To: grid.Vertex{X: 3, Y: 2}},
	}
	availability := []Availability{
		{Time: 0, Vertex: grid.Vertex{X: 0, Y: 0}},
	}

	a := g.CalculateAssignment(requests, availability)
	b := g.CalculateAssignment(requests, availability)
	require.Equal(t, a, b)
}

func TestGreedyMakespanTolerateMoreRobotsThanRequests(t *testing.T) {
	plan := grid.NewOneThreeRectangle(5, 5)
	g := GreedyMakespan{Plan: plan}

	requests := []demand.Request{
		{ID: 0, From: grid.Vertex{X: 0, Y: 1}, To: grid.Vertex{X: 3, Y: 1}},
	}
	availability := []Availability{
		{Time: 0, Vertex: grid.Vertex{X: 0, Y: 0}},
		{Time: 0, Vertex: grid.Vertex{X: 0, Y: 0}},
		{Time: 0, Vertex: grid.Vertex{X: 0, Y: 0}},
	}

	assign := g.CalculateAssignment(requests, availability)
	require.Len(t, assign, 3)

	empty := 0
	for _, q := range assign {
		if len(q) == 0 {
			empty++
		}
	}
	require.Equal(t, 2, empty)
}
