package history

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bpeeters/warehousesim/internal/demand"
	"github.com/bpeeters/warehousesim/internal/grid"
	"github.com/bpeeters/warehousesim/internal/model"
	"github.com/stretchr/testify/require"
)

func TestComputeMakespanAndParcelDistance(t *testing.T) {
	req := demand.Request{ID: 0, From: grid.Vertex{X: 0, Y: 0}, To: grid.Vertex{X: 2, Y: 0}}

	h := model.NewHistory(model.State{
		Robots:   []model.RobotState{{RobotID: 0, Vertex: model.VertexPtr(req.From)}},
		Requests: map[int]demand.Request{0: req},
	})
	h.Append(model.State{
		Robots:   []model.RobotState{{RobotID: 0, Vertex: model.VertexPtr(grid.Vertex{X: 1, Y: 0}), ParcelID: model.IntPtr(0)}},
		Requests: map[int]demand.Request{0: req},
	})
	h.Append(model.State{
		Robots:   []model.RobotState{{RobotID: 0, Vertex: model.VertexPtr(grid.Vertex{X: 2, Y: 0})}},
		Requests: map[int]demand.Request{},
	})

	stats := Compute(h)
	require.Equal(t, 2, stats.Makespan)
	require.Equal(t, req.Distance(), stats.TotalParcelDistance)
	require.Equal(t, []int{2}, stats.RobotTravel)
}

func TestWriteHistoryProducesTaggedSections(t *testing.T) {
	plan := grid.NewOneThreeRectangle(2, 2)
	h := model.NewHistory(model.State{
		Robots:   []model.RobotState{{RobotID: 0, Vertex: model.VertexPtr(grid.Vertex{X: 0, Y: 0})}},
		Requests: map[int]demand.Request{},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, plan, 1, h))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "# Number of robots\n1\n###\n"))
	require.Contains(t, out, "# Vertices\n")
	require.Contains(t, out, "# Sources\n")
	require.Contains(t, out, "# Terminals\n")
	require.Contains(t, out, "# Robot positions\n0,-1,0,0\n###\n")
}
