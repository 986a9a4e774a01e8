package model

import "github.com/bpeeters/warehousesim/internal/grid"

// Move instructs robot RobotID to step to Vertex (Manhattan-adjacent
// to its previous vertex, or equal to it for a deliberate wait).
type Move struct {
	RobotID int
	Vertex  grid.Vertex
}

// Placement instructs robot RobotID, already standing at Vertex, to
// pick up parcel ParcelID.
type Placement struct {
	RobotID  int
	ParcelID int
	Vertex   grid.Vertex
}

// Removal instructs robot RobotID, standing at Vertex and carrying
// ParcelID, to set the parcel down (fulfilling its request).
type Removal struct {
	RobotID  int
	ParcelID int
	Vertex   grid.Vertex
}

// RobotRemoval instructs robot RobotID, standing at Vertex, to leave
// the floor (go off-floor).
type RobotRemoval struct {
	RobotID int
	Vertex  grid.Vertex
}

// Instructions is one step's batch, processed by the simulation
// kernel in a fixed order: Moves, then Placements, then Removals,
// then RobotRemovals.
type Instructions struct {
	Moves         []Move
	Placements    []Placement
	Removals      []Removal
	RobotRemovals []RobotRemoval
}
