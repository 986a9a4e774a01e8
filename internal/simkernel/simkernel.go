// Package simkernel owns the History, drives the per-tick step loop,
// and validates and atomically applies each step's instruction batch
// -- the simulation kernel (C6). Grounded on the teacher's
// internal/sim/simulator.go for the Config/Run shape, and on
// original_source's simulation/simulation.rs for state-transition
// semantics (Simulation::new_state's three-pass clone-then-apply
// order and used-vertex bookkeeping), extended with the full illegal-
// instruction taxonomy and RobotRemoval handling the original's
// unfinished new_state never implemented.
package simkernel

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/bpeeters/warehousesim/internal/demand"
	"github.com/bpeeters/warehousesim/internal/grid"
	"github.com/bpeeters/warehousesim/internal/model"
	"github.com/bpeeters/warehousesim/internal/pathengine"
)

// Config configures one simulation run.
type Config struct {
	Plan    grid.Plan
	Demand  demand.Generator
	Engine  pathengine.Engine

	TotalTime  int
	NrRobots   int
	NrRequests int

	// Seed drives the initial robot placement's sampling-without-
	// replacement draw. It is independent of the Demand generator's
	// own seed so that changing one does not perturb the other.
	Seed int64
}

// Kernel drives a single simulation run to completion, producing a
// History; statistics are derived from it by history.Compute.
type Kernel struct {
	config Config
	rng    *rand.Rand

	history *model.History
	step    int
}

// New constructs a Kernel from Config. It does not sample the initial
// state; call Run to do that and execute the step loop.
func New(config Config) *Kernel {
	return &Kernel{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Run initializes the History and drives the step loop to completion:
// while the current state's request map is non-empty and time <
// TotalTime, it asks the Path Engine for an instruction batch,
// validates and applies it, and appends the result. It returns the
// accumulated History even on error, per spec section 7 ("the caller
// receives the History accumulated so far plus the error").
func (k *Kernel) Run(ctx context.Context) (*model.History, error) {
	k.history = model.NewHistory(k.initialState())

	for len(k.history.Last().Requests) > 0 && k.history.Time() < k.config.TotalTime {
		select {
		case <-ctx.Done():
			return k.history, ctx.Err()
		default:
		}

		instructions, err := k.config.Engine.Step(k.history)
		if err != nil {
			return k.history, err
		}

		k.step = k.history.Time() + 1
		next, err := k.applyInstructions(k.history.Last(), instructions)
		if err != nil {
			return k.history, err
		}
		k.history.Append(next)
	}

	return k.history, nil
}

// initialState samples NrRobots start vertices uniformly without
// replacement from the plan's full vertex set, producing RobotStates
// with parcel_id=nil, and seeds the request map via the Demand
// generator with dense 0-based ids.
func (k *Kernel) initialState() model.State {
	vertices := k.config.Plan.Vertices()
	perm := k.rng.Perm(len(vertices))

	robots := make([]model.RobotState, k.config.NrRobots)
	for r := 0; r < k.config.NrRobots; r++ {
		v := vertices[perm[r%len(perm)]]
		robots[r] = model.RobotState{RobotID: r, Vertex: model.VertexPtr(v)}
	}

	requests := k.config.Demand.Generate(k.config.Plan, k.config.NrRequests)
	requestMap := make(map[int]demand.Request, len(requests))
	for _, req := range requests {
		requestMap[req.ID] = req
	}

	return model.State{Robots: robots, Requests: requestMap}
}

// applyInstructions clones the previous state and applies one step's
// batch in the fixed order Moves, Placements, Removals, RobotRemovals
// (spec section 4.6), validating each instruction against the
// previous state and the set of vertices already claimed this step.
// The first validation failure aborts the whole batch.
func (k *Kernel) applyInstructions(prev model.State, instr model.Instructions) (model.State, error) {
	next := prev.Clone()
	used := make(map[grid.Vertex]struct{})
	vacating := vacatingRobots(prev, instr)

	for _, m := range instr.Moves {
		if err := k.applyMove(prev, next, used, vacating, m); err != nil {
			return model.State{}, err
		}
	}
	for _, p := range instr.Placements {
		if err := k.applyPlacement(prev, next, used, vacating, p); err != nil {
			return model.State{}, err
		}
	}
	for _, rm := range instr.Removals {
		if err := k.applyRemoval(prev, next, used, rm); err != nil {
			return model.State{}, err
		}
	}
	for _, rr := range instr.RobotRemovals {
		if err := k.applyRobotRemoval(prev, next, used, rr); err != nil {
			return model.State{}, err
		}
	}

	return next, nil
}

// vacatingRobots determines, from the whole batch, which robots leave
// their previous vertex this step: a Move to a different vertex, or a
// RobotRemoval. This must be known up front rather than discovered as
// instructions are processed in order, since a Move that depends on
// its occupant vacating may be listed before that occupant's own Move
// in the batch (spec section 4.6's validation rule judges the whole
// step, not instruction-processing order).
func vacatingRobots(prev model.State, instr model.Instructions) map[int]struct{} {
	out := make(map[int]struct{})
	for _, m := range instr.Moves {
		robot := prev.RobotState(m.RobotID)
		if robot.Vertex != nil && *robot.Vertex != m.Vertex {
			out[m.RobotID] = struct{}{}
		}
	}
	for _, rr := range instr.RobotRemovals {
		out[rr.RobotID] = struct{}{}
	}
	return out
}

// reserve marks v and the robot's previous vertex as used this step,
// so a later instruction in the same batch (including a reverse-swap
// Move) sees both as claimed.
func reserve(used map[grid.Vertex]struct{}, prevVertex *grid.Vertex, v grid.Vertex) {
	used[v] = struct{}{}
	if prevVertex != nil {
		used[*prevVertex] = struct{}{}
	}
}

func (k *Kernel) applyMove(prev, next model.State, used map[grid.Vertex]struct{}, vacating map[int]struct{}, m model.Move) error {
	robot := prev.RobotState(m.RobotID)
	if robot.Vertex == nil {
		return k.illegal(KindMove, m.RobotID, "robot was off-floor")
	}
	if !robot.Vertex.Adjacent(m.Vertex) && *robot.Vertex != m.Vertex {
		return k.illegal(KindMove, m.RobotID, fmt.Sprintf("%s is not adjacent to %s", m.Vertex, *robot.Vertex))
	}
	if _, claimed := used[m.Vertex]; claimed {
		return k.illegal(KindMove, m.RobotID, fmt.Sprintf("%s already reserved this step", m.Vertex))
	}
	if occupant, willStay := k.occupantWillStay(prev, vacating, m.Vertex, m.RobotID); willStay {
		return k.illegal(KindMove, m.RobotID, fmt.Sprintf("%s is robot %d's vertex and it will not vacate", m.Vertex, occupant))
	}

	next.Robots[m.RobotID] = model.RobotState{RobotID: m.RobotID, Vertex: model.VertexPtr(m.Vertex), ParcelID: robot.ParcelID}
	reserve(used, robot.Vertex, m.Vertex)
	return nil
}

func (k *Kernel) applyPlacement(prev, next model.State, used map[grid.Vertex]struct{}, vacating map[int]struct{}, p model.Placement) error {
	robot := prev.RobotState(p.RobotID)
	if robot.Vertex == nil || *robot.Vertex != p.Vertex {
		return k.illegal(KindPlacement, p.RobotID, fmt.Sprintf("robot not at %s", p.Vertex))
	}
	if _, stillPresent := prev.Requests[p.ParcelID]; !stillPresent {
		return k.illegal(KindPlacement, p.RobotID, fmt.Sprintf("request %d already removed", p.ParcelID))
	}
	if _, claimed := used[p.Vertex]; claimed {
		return k.illegal(KindPlacement, p.RobotID, fmt.Sprintf("%s already reserved this step", p.Vertex))
	}
	if occupant, willStay := k.occupantWillStay(prev, vacating, p.Vertex, p.RobotID); willStay {
		return k.illegal(KindPlacement, p.RobotID, fmt.Sprintf("%s was occupied by robot %d last step", p.Vertex, occupant))
	}

	next.Robots[p.RobotID] = model.RobotState{RobotID: p.RobotID, Vertex: model.VertexPtr(p.Vertex), ParcelID: model.IntPtr(p.ParcelID)}
	reserve(used, robot.Vertex, p.Vertex)
	return nil
}

func (k *Kernel) applyRemoval(prev, next model.State, used map[grid.Vertex]struct{}, r model.Removal) error {
	if !k.config.Plan.Contains(r.Vertex) {
		return k.illegal(KindRemoval, r.RobotID, fmt.Sprintf("%s is outside the plan", r.Vertex))
	}
	robot := prev.RobotState(r.RobotID)
	if robot.Vertex == nil || *robot.Vertex != r.Vertex {
		return k.illegal(KindRemoval, r.RobotID, fmt.Sprintf("robot not at %s", r.Vertex))
	}
	if robot.ParcelID == nil || *robot.ParcelID != r.ParcelID {
		return k.illegal(KindRemoval, r.RobotID, fmt.Sprintf("robot not carrying parcel %d", r.ParcelID))
	}

	next.Robots[r.RobotID] = model.RobotState{RobotID: r.RobotID, Vertex: model.VertexPtr(r.Vertex)}
	delete(next.Requests, r.ParcelID)
	if robot.Vertex != nil {
		used[*robot.Vertex] = struct{}{}
	}
	return nil
}

func (k *Kernel) applyRobotRemoval(prev, next model.State, used map[grid.Vertex]struct{}, rr model.RobotRemoval) error {
	robot := prev.RobotState(rr.RobotID)
	if robot.Vertex == nil || *robot.Vertex != rr.Vertex {
		return k.illegal(KindRobotRemoval, rr.RobotID, fmt.Sprintf("robot not at %s", rr.Vertex))
	}

	next.Robots[rr.RobotID] = model.RobotState{RobotID: rr.RobotID}
	if robot.Vertex != nil {
		used[*robot.Vertex] = struct{}{}
	}
	return nil
}

// occupantWillStay reports whether v was occupied, in the previous
// state, by a robot other than excludeRobot that is not in vacating
// (the precomputed set of robots this whole batch relocates or
// removes). This judges the batch as a whole rather than in
// instruction-processing order, so a legitimate first half of a
// non-swap vertex exchange is not rejected merely because its
// partner's own Move instruction happens to be listed later.
func (k *Kernel) occupantWillStay(prev model.State, vacating map[int]struct{}, v grid.Vertex, excludeRobot int) (int, bool) {
	for _, robot := range prev.Robots {
		if robot.RobotID == excludeRobot || robot.Vertex == nil {
			continue
		}
		if *robot.Vertex != v {
			continue
		}
		if _, leaving := vacating[robot.RobotID]; leaving {
			continue
		}
		return robot.RobotID, true
	}
	return 0, false
}

func (k *Kernel) illegal(kind InstructionKind, robotID int, reason string) error {
	return &IllegalInstructionError{Step: k.step, Kind: kind, RobotID: robotID, Reason: reason}
}
