// Package history derives run-level statistics from a completed
// model.History and renders the plain-text output format consumed by
// downstream tooling -- the History & Statistics component (C7).
//
// Grounded on original_source's simulation/state.rs, plan/mod.rs, and
// simulation/settings.rs `write` methods for the output grammar, and
// on simulation/simulation.rs's `History::calculate_statistics` (an
// empty stub in the original) for where makespan/travel derivation
// belongs.
package history

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bpeeters/warehousesim/internal/grid"
	"github.com/bpeeters/warehousesim/internal/model"
)

// Statistics summarizes a completed run: the tick at which the
// request map first emptied (makespan), the total Manhattan distance
// traveled by parcels between pickup and drop-off, and each robot's
// own total travel distance.
type Statistics struct {
	Makespan            int
	TotalParcelDistance int
	RobotTravel         []int
}

// Compute derives Statistics from a full History. Makespan is the
// index of the first state whose request map is empty (the run may
// continue to be recorded past that point only if the caller kept
// stepping, which the simulation kernel never does); parcel distance
// sums each request's Manhattan endpoint distance once, at the tick
// it was fulfilled, inferred from a Removal's absence in the request
// map from one state to the next; per-robot travel sums the Manhattan
// distance between consecutive on-floor positions.
func Compute(h *model.History) Statistics {
	states := h.States()

	stats := Statistics{Makespan: len(states) - 1}
	for t, s := range states {
		if len(s.Requests) == 0 {
			stats.Makespan = t
			break
		}
	}

	if len(states) == 0 {
		return stats
	}
	stats.RobotTravel = make([]int, len(states[0].Robots))

	fulfilled := make(map[int]struct{})
	for t := 1; t < len(states); t++ {
		prev, cur := states[t-1], states[t]
		for id, req := range prev.Requests {
			if _, stillThere := cur.Requests[id]; !stillThere {
				if _, already := fulfilled[id]; !already {
					stats.TotalParcelDistance += req.Distance()
					fulfilled[id] = struct{}{}
				}
			}
		}
		for r := range cur.Robots {
			if prev.Robots[r].Vertex == nil || cur.Robots[r].Vertex == nil {
				continue
			}
			stats.RobotTravel[r] += prev.Robots[r].Vertex.Manhattan(*cur.Robots[r].Vertex)
		}
	}

	return stats
}

// WritePlan writes the `# Vertices` / `# Sources` / `# Terminals`
// sections, each a `###`-terminated block of comma-separated
// coordinates, per spec section 6.
func WritePlan(w io.Writer, plan grid.Plan) error {
	bw := bufio.NewWriter(w)
	writeVertexBlock(bw, "# Vertices", plan.Vertices())
	writeVertexBlock(bw, "# Sources", plan.Sources())
	writeVertexBlock(bw, "# Terminals", plan.Terminals())
	return bw.Flush()
}

func writeVertexBlock(w *bufio.Writer, header string, vs []grid.Vertex) {
	fmt.Fprintln(w, header)
	for _, v := range vs {
		fmt.Fprintf(w, "%d,%d\n", v.X, v.Y)
	}
	fmt.Fprintln(w, "###")
}

// WriteHeader writes the `# Number of robots` section that precedes
// WritePlan in the output file.
func WriteHeader(w io.Writer, nrRobots int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# Number of robots")
	fmt.Fprintln(bw, nrRobots)
	fmt.Fprintln(bw, "###")
	return bw.Flush()
}

// WriteState appends one `# Robot positions` block: one
// `robot_id,parcel_id,x,y` line per on-floor robot, using -1 for a
// robot not carrying a parcel (spec section 6). Off-floor robots have
// no position and get no line, so the block is shorter in states
// where some robot has left the floor.
func WriteState(w io.Writer, s model.State) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# Robot positions")
	for _, robot := range s.Robots {
		if robot.Vertex == nil {
			continue
		}
		parcel := -1
		if robot.ParcelID != nil {
			parcel = *robot.ParcelID
		}
		fmt.Fprintf(bw, "%d,%d,%d,%d\n", robot.RobotID, parcel, robot.Vertex.X, robot.Vertex.Y)
	}
	fmt.Fprintln(bw, "###")
	return bw.Flush()
}

// WriteHistory writes the full output file: the header, the plan,
// then one robot-positions block per appended state, in order.
func WriteHistory(w io.Writer, plan grid.Plan, nrRobots int, h *model.History) error {
	if err := WriteHeader(w, nrRobots); err != nil {
		return err
	}
	if err := WritePlan(w, plan); err != nil {
		return err
	}
	for _, s := range h.States() {
		if err := WriteState(w, s); err != nil {
			return err
		}
	}
	return nil
}
