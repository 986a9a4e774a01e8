package model

import "github.com/bpeeters/warehousesim/internal/grid"

// RobotState is the tuple (robot_id, vertex, parcel_id). Vertex is
// nil when the robot is off-floor; a robot carrying a parcel must
// occupy a vertex (ParcelID != nil implies Vertex != nil).
type RobotState struct {
	RobotID  int
	Vertex   *grid.Vertex
	ParcelID *int
}

// OnFloor reports whether the robot currently occupies a vertex.
func (r RobotState) OnFloor() bool {
	return r.Vertex != nil
}

// Carrying reports whether the robot currently carries a parcel.
func (r RobotState) Carrying() bool {
	return r.ParcelID != nil
}

// Clone returns a deep copy of the RobotState (the pointer fields are
// copied, not aliased).
func (r RobotState) Clone() RobotState {
	out := RobotState{RobotID: r.RobotID}
	if r.Vertex != nil {
		v := *r.Vertex
		out.Vertex = &v
	}
	if r.ParcelID != nil {
		p := *r.ParcelID
		out.ParcelID = &p
	}
	return out
}

// VertexPtr is a small convenience constructor used throughout the
// planner and kernel to take the address of a vertex value.
func VertexPtr(v grid.Vertex) *grid.Vertex {
	return &v
}

// IntPtr takes the address of an int value.
func IntPtr(n int) *int {
	return &n
}
