// Package pathengine converts a per-robot task assignment into a
// per-step instruction batch: it runs each robot through a small state
// machine (Idle / Pickup / Delivery / OffFloor), reserving cells on the
// Time Graph as paths are found and emitting Move/Placement/Removal/
// RobotRemoval instructions.
//
// Grounded on original_source's
// algorithm/path/greedy_shortest_paths/mod.rs (per-robot task state
// machine, instruction emission) and .../path/ilp/mod.rs (the
// alternative receding-horizon ILP stepper, in ilp_horizon.go).
package pathengine

import (
	"fmt"

	"github.com/bpeeters/warehousesim/internal/assignment"
	"github.com/bpeeters/warehousesim/internal/demand"
	"github.com/bpeeters/warehousesim/internal/grid"
	"github.com/bpeeters/warehousesim/internal/model"
	"github.com/bpeeters/warehousesim/internal/timegraph"
)

// Engine produces one step's instruction batch given the history
// accumulated so far. Implementations own their own reservation and
// assignment state across calls. A non-nil error is a planner
// failure (spec section 7): the caller must abort the run rather
// than apply a partial or empty batch.
type Engine interface {
	Step(h *model.History) (model.Instructions, error)
}

// NoSolutionError reports that the path engine could not find any
// path satisfying current reservations. RequestID is -1 when the
// failure is horizon-wide rather than attributable to one request
// (e.g. an ILP solver timeout).
type NoSolutionError struct {
	RequestID int
	Reason    string
}

func (e *NoSolutionError) Error() string {
	if e.RequestID < 0 {
		return fmt.Sprintf("pathengine: no solution: %s", e.Reason)
	}
	return fmt.Sprintf("pathengine: no solution for request %d: %s", e.RequestID, e.Reason)
}

// task is a robot's current work item: the request it is servicing
// and, once reserved, the leg it is currently executing. A nil path
// means the leg has not yet been reserved (or the previous leg just
// finished and the next one is pending reservation).
type task struct {
	requestID int
	path      *model.TaggedPath
}

// GreedyReservation is Variant A's path engine: requests are handed
// out to idle robots in queue order, and each leg is reserved on the
// Time Graph via earliest-arrival search as soon as the robot is free
// to start it.
//
// Grounded on original_source's GreedyShortestPaths. Two corrections
// relative to that source (see DESIGN.md): queues are drained FIFO,
// not via a stack pop (the original's `Vec::pop` would execute a
// robot's queue in reverse of the order the assignment engine
// produced it in); and assignment recomputation excludes requests
// already bound to an active task, instead of recomputing over every
// still-pending request unconditionally (which could hand an
// in-flight request to a second robot).
type GreedyReservation struct {
	plan   grid.Plan
	graph  *timegraph.TimeGraph
	engine assignment.Engine

	time int

	queues       [][]int
	active       []*task
	everSeen     map[int]struct{}
	boundRequest map[int]struct{}
}

// NewGreedyReservation constructs the path engine for nrRobots robots
// operating over plan, reserving on graph and assigning via engine.
func NewGreedyReservation(plan grid.Plan, graph *timegraph.TimeGraph, engine assignment.Engine, nrRobots int) *GreedyReservation {
	return &GreedyReservation{
		plan:         plan,
		graph:        graph,
		engine:       engine,
		time:         0,
		queues:       make([][]int, nrRobots),
		active:       make([]*task, nrRobots),
		everSeen:     make(map[int]struct{}),
		boundRequest: make(map[int]struct{}),
	}
}

// Step implements Engine. g.time is set to the time index of the
// state about to be produced (the history's current time plus one),
// matching original_source's GreedyShortestPaths::next_step, whose
// internal `self.time` runs one tick ahead of history.time() for the
// same reason: a path reserved "starting now" must occupy that
// about-to-be-produced state's vertex.
func (g *GreedyReservation) Step(h *model.History) (model.Instructions, error) {
	g.time = h.Time() + 1
	g.graph.CleanFront(g.time)

	state := h.Last()
	if g.hasNewRequests(state) {
		g.recomputeAssignment(state)
	}
	g.advanceTasks(state)

	var instructions model.Instructions
	for r := range state.Robots {
		if state.Robots[r].Vertex == nil {
			continue
		}
		g.emitInstruction(r, state, &instructions)
	}
	return instructions, nil
}

func (g *GreedyReservation) hasNewRequests(state model.State) bool {
	for id := range state.Requests {
		if _, ok := g.everSeen[id]; !ok {
			return true
		}
	}
	return false
}

// recomputeAssignment reassigns every currently-pending request that
// is not already bound to some robot's active task, replacing each
// robot's queue with the freshly computed partition.
func (g *GreedyReservation) recomputeAssignment(state model.State) {
	for id := range state.Requests {
		g.everSeen[id] = struct{}{}
	}

	pending := make([]demand.Request, 0, len(state.Requests))
	for id, req := range state.Requests {
		if _, bound := g.boundRequest[id]; bound {
			continue
		}
		pending = append(pending, req)
	}

	availability := g.availability(state)
	g.queues = g.engine.CalculateAssignment(pending, availability)
}

// availability computes each robot's (time-when-next-free,
// vertex-where-next-free), per spec section 4.4: robots with no
// active task are free now at their current vertex; busy robots are
// free at their active leg's end_time + 2 (the placement/removal is
// issued at end_time and the leg is retired the tick after), standing
// at that leg's last node.
func (g *GreedyReservation) availability(state model.State) []assignment.Availability {
	out := make([]assignment.Availability, len(state.Robots))
	for r, robot := range state.Robots {
		if g.active[r] == nil || g.active[r].path == nil {
			v := grid.Vertex{}
			if robot.Vertex != nil {
				v = *robot.Vertex
			}
			out[r] = assignment.Availability{Time: g.time, Vertex: v}
			continue
		}
		p := g.active[r].path.Path
		out[r] = assignment.Availability{
			Time:   p.StartTime + len(p.Nodes) - 1 + 2,
			Vertex: p.Nodes[len(p.Nodes)-1],
		}
	}
	return out
}

// advanceTasks pops newly-queued requests into idle robots, reserves
// the next leg for any robot whose task has no active path yet, and
// retires legs whose end_time has elapsed.
func (g *GreedyReservation) advanceTasks(state model.State) {
	for r := range state.Robots {
		if state.Robots[r].Vertex == nil {
			continue
		}

		if g.active[r] == nil && len(g.queues[r]) > 0 {
			reqID := g.queues[r][0]
			g.queues[r] = g.queues[r][1:]
			g.active[r] = &task{requestID: reqID}
			g.boundRequest[reqID] = struct{}{}
		}

		t := g.active[r]
		if t == nil {
			continue
		}

		current := *state.Robots[r].Vertex
		switch {
		case t.path == nil:
			g.reserveLeg(r, t, state, current)
		case t.path.Kind == model.Pickup && g.time > t.path.Path.EndTime():
			t.path = nil
		case t.path.Kind == model.Delivery && g.time > t.path.Path.EndTime():
			delete(g.boundRequest, t.requestID)
			g.active[r] = nil
		}
	}
}

func (g *GreedyReservation) reserveLeg(r int, t *task, state model.State, current grid.Vertex) {
	req, ok := state.Requests[t.requestID]
	if !ok {
		// Already delivered by an earlier instruction this run (can
		// happen if the request map lags one tick behind); drop the
		// task rather than search for a nonsensical leg.
		delete(g.boundRequest, t.requestID)
		g.active[r] = nil
		return
	}

	if current == req.From {
		path, found := g.graph.FindPath(g.time+1, req.From, req.To)
		if !found {
			return
		}
		g.graph.RemovePath(path)
		t.path = &model.TaggedPath{Kind: model.Delivery, Path: path}
		return
	}

	path, found := g.graph.FindPath(g.time, current, req.From)
	if !found {
		return
	}
	g.graph.RemovePath(path)
	t.path = &model.TaggedPath{Kind: model.Pickup, Path: path}
}

// emitInstruction appends this tick's instruction for robot r, per
// spec section 4.5 step 5.
func (g *GreedyReservation) emitInstruction(r int, state model.State, instructions *model.Instructions) {
	t := g.active[r]
	if t == nil || t.path == nil {
		return
	}

	previous := *state.Robots[r].Vertex
	p := t.path.Path

	if g.time == p.EndTime() {
		switch t.path.Kind {
		case model.Pickup:
			instructions.Placements = append(instructions.Placements, model.Placement{
				RobotID: r, ParcelID: t.requestID, Vertex: previous,
			})
		case model.Delivery:
			instructions.Removals = append(instructions.Removals, model.Removal{
				RobotID: r, ParcelID: t.requestID, Vertex: previous,
			})
		}
		return
	}

	// A Delivery leg reserved while the robot already stood on the
	// source starts one tick later; that tick picks the parcel up.
	if t.path.Kind == model.Delivery && g.time < p.StartTime && state.Robots[r].ParcelID == nil {
		instructions.Placements = append(instructions.Placements, model.Placement{
			RobotID: r, ParcelID: t.requestID, Vertex: previous,
		})
		return
	}

	next := p.Nodes[1+g.time-p.StartTime]
	if next != previous {
		instructions.Moves = append(instructions.Moves, model.Move{RobotID: r, Vertex: next})
	}
}
