// Package model holds the shared world data types that the planner
// and the simulation kernel both operate on: paths, robot states,
// per-tick states, and instruction batches.
package model

import "github.com/bpeeters/warehousesim/internal/grid"

// TimedVertex is a (vertex, time) pair.
type TimedVertex struct {
	V grid.Vertex
	T int
}

// Path is an explicit, time-indexed sequence of vertices a robot
// intends to traverse. Nodes has length >= 2; consecutive vertices
// are equal (staying put) or Manhattan-adjacent.
type Path struct {
	StartTime int
	Nodes     []grid.Vertex
}

// EndTime is StartTime + len(Nodes) - 1.
func (p Path) EndTime() int {
	return p.StartTime + len(p.Nodes) - 1
}

// Length is the number of steps the path takes to traverse, i.e.
// len(Nodes) - 1.
func (p Path) Length() int {
	return len(p.Nodes) - 1
}

// At returns the vertex the path occupies at absolute time t.
func (p Path) At(t int) grid.Vertex {
	return p.Nodes[t-p.StartTime]
}

// Kind distinguishes the two legs of a task.
type Kind int

const (
	// Pickup is the leg from a robot's current vertex to a request's
	// source.
	Pickup Kind = iota
	// Delivery is the leg from a request's source to its terminal,
	// carrying the parcel.
	Delivery
)

func (k Kind) String() string {
	if k == Pickup {
		return "Pickup"
	}
	return "Delivery"
}

// TaggedPath is a Path tagged with which leg of the task it performs.
type TaggedPath struct {
	Kind Kind
	Path Path
}
