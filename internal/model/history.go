package model

import "github.com/bpeeters/warehousesim/internal/demand"

// State is the world at a single discrete time: an ordered sequence
// of RobotStates indexed by robot id, and a mapping from request id
// to Request for all still-unfulfilled requests.
type State struct {
	Robots   []RobotState
	Requests map[int]demand.Request
}

// Clone returns a deep copy of the state suitable for mutation into
// the next tick.
func (s State) Clone() State {
	robots := make([]RobotState, len(s.Robots))
	for i, r := range s.Robots {
		robots[i] = r.Clone()
	}
	requests := make(map[int]demand.Request, len(s.Requests))
	for id, r := range s.Requests {
		requests[id] = r
	}
	return State{Robots: robots, Requests: requests}
}

// RobotState looks up a single robot's state by id.
func (s State) RobotState(id int) RobotState {
	return s.Robots[id]
}

// History is an append-only, ordered sequence of States indexed by
// time t >= 0 (t=0 is the initial state).
type History struct {
	states []State
}

// NewHistory seeds a History with the initial state at t=0.
func NewHistory(initial State) *History {
	return &History{states: []State{initial}}
}

// Append adds a new State to the end of the history. The caller is
// responsible for ensuring States are appended in time order; History
// never mutates a past entry.
func (h *History) Append(s State) {
	h.states = append(h.states, s)
}

// Last returns the most recently appended state.
func (h *History) Last() State {
	return h.states[len(h.states)-1]
}

// Prev returns the state immediately before Last, or the zero State
// if Last is the only entry.
func (h *History) Prev() (State, bool) {
	if len(h.states) < 2 {
		return State{}, false
	}
	return h.states[len(h.states)-2], true
}

// LastRobotState returns robot r's state at the most recent tick.
func (h *History) LastRobotState(r int) RobotState {
	return h.Last().RobotState(r)
}

// Time is the index of the most recently appended state.
func (h *History) Time() int {
	return len(h.states) - 1
}

// At returns the state at absolute time t.
func (h *History) At(t int) State {
	return h.states[t]
}

// States returns the full accumulated sequence of states. Callers
// must not mutate the returned slice's elements' maps/slices in
// place; treat it as read-only.
func (h *History) States() []State {
	return h.states
}
