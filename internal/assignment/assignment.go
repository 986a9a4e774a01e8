// Package assignment maps pending requests onto robots subject to
// availability (time, location), producing an ordered task queue per
// robot.
package assignment

import (
	"github.com/bpeeters/warehousesim/internal/demand"
	"github.com/bpeeters/warehousesim/internal/grid"
)

// Availability is a robot's (time-when-next-free, vertex-where-next-free)
// pair, as computed by the Path Engine.
type Availability struct {
	Time   int
	Vertex grid.Vertex
}

// Engine converts (requests, availabilities) into a partition:
// assignment[r] is robot r's ordered task queue of request ids. Every
// request must appear in exactly one queue; R > N (more robots than
// requests) is tolerated via empty queues. Implementations must be
// deterministic under identical inputs.
type Engine interface {
	CalculateAssignment(requests []demand.Request, availability []Availability) [][]int
	Name() string
}
