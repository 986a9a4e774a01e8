package ilp

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/bpeeters/warehousesim/internal/grid"
)

// Sections is the parsed form of a solver's tagged stdout: three
// named sections (first choice, transitions, last choice) plus an
// objective value and an optional mip-gap, per spec section 6.
type Sections struct {
	FirstRequest []int
	Transitions  [][2]int
	LastRequest  []int
	Objective    float64
	MipGap       float64
}

// section tags bracket each part of the solver's output, emitted by
// the `.run` driver file's `display` statements.
const (
	tagFirstRequest = "# First_Request"
	tagTransition   = "# Transition"
	tagLastRequest  = "# Last_Request"
	tagObjective    = "# Objective"
	tagMipGap       = "# MipGap"
)

// ParseSections parses the tagged stdout produced by a single-vehicle
// or multi-vehicle ILP solve. Grounded on original_source's
// parse_ampl_output (which splits `;`-delimited segments tagged
// First_Request/Transition/Last_Request); here the tags are explicit
// comment markers written by WriteRunFile, giving a stable,
// unambiguous grammar instead of positional text-splitting.
func ParseSections(output []byte) (Sections, error) {
	var out Sections
	scanner := bufio.NewScanner(strings.NewReader(string(output)))

	section := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case tagFirstRequest, tagTransition, tagLastRequest, tagObjective, tagMipGap:
			section = line
			continue
		}

		switch section {
		case tagFirstRequest:
			id, err := strconv.Atoi(line)
			if err != nil {
				return out, fmt.Errorf("ilp: parse First_Request entry %q: %w", line, err)
			}
			out.FirstRequest = append(out.FirstRequest, id)
		case tagTransition:
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return out, fmt.Errorf("ilp: malformed Transition line %q", line)
			}
			from, err1 := strconv.Atoi(fields[0])
			to, err2 := strconv.Atoi(fields[1])
			if err1 != nil || err2 != nil {
				return out, fmt.Errorf("ilp: parse Transition entry %q", line)
			}
			out.Transitions = append(out.Transitions, [2]int{from, to})
		case tagLastRequest:
			id, err := strconv.Atoi(line)
			if err != nil {
				return out, fmt.Errorf("ilp: parse Last_Request entry %q: %w", line, err)
			}
			out.LastRequest = append(out.LastRequest, id)
		case tagObjective:
			v, err := strconv.ParseFloat(line, 64)
			if err != nil {
				return out, fmt.Errorf("ilp: parse Objective %q: %w", line, err)
			}
			out.Objective = v
		case tagMipGap:
			v, err := strconv.ParseFloat(line, 64)
			if err != nil {
				return out, fmt.Errorf("ilp: parse MipGap %q: %w", line, err)
			}
			out.MipGap = v
		}
	}
	return out, scanner.Err()
}

// ReconstructOrder walks the from->to adjacency described by
// Transitions starting at the single FirstRequest entry, stopping at
// the single LastRequest entry, to recover the full visiting
// permutation. Grounded on original_source's
// reconstruct_request_order.
func ReconstructOrder(sections Sections) []int {
	if len(sections.FirstRequest) == 0 {
		return nil
	}
	next := make(map[int]int, len(sections.Transitions))
	for _, tr := range sections.Transitions {
		next[tr[0]] = tr[1]
	}

	last := -1
	if len(sections.LastRequest) > 0 {
		last = sections.LastRequest[0]
	}

	order := []int{sections.FirstRequest[0]}
	cur := sections.FirstRequest[0]
	for cur != last {
		n, ok := next[cur]
		if !ok {
			break
		}
		order = append(order, n)
		cur = n
	}
	return order
}

// WriteSingleVehicleData renders the `.dat` file for the
// single-vehicle TSP-style ordering problem: one robot, a start
// vertex's implicit anchor cost, and pairwise request-to-request
// transition costs.
func WriteSingleVehicleData(requestIDs []int, startCost, endCost map[int]int, transitionCost map[[2]int]int) string {
	var b strings.Builder
	fmt.Fprintln(&b, "set REQUESTS :=")
	for _, id := range requestIDs {
		fmt.Fprintf(&b, "  %d,\n", id)
	}
	fmt.Fprintln(&b, ";")

	fmt.Fprintln(&b, "param start_cost default 0 :=")
	for id, cost := range startCost {
		fmt.Fprintf(&b, "  %d %d\n", id, cost)
	}
	fmt.Fprintln(&b, ";")

	fmt.Fprintln(&b, "param end_cost default 0 :=")
	for id, cost := range endCost {
		fmt.Fprintf(&b, "  %d %d\n", id, cost)
	}
	fmt.Fprintln(&b, ";")

	fmt.Fprintln(&b, "param transition_cost :=")
	for pair, cost := range transitionCost {
		fmt.Fprintf(&b, "  %d %d %d\n", pair[0], pair[1], cost)
	}
	fmt.Fprintln(&b, ";")

	return b.String()
}

// locationToken renders a vertex as an AMPL-safe set element: AMPL
// identifiers can't contain commas, so "x,y" becomes "Lx_y".
func locationToken(v grid.Vertex) string {
	return fmt.Sprintf("L%d_%d", v.X, v.Y)
}

// parseLocationToken is locationToken's inverse.
func parseLocationToken(tok string) (grid.Vertex, error) {
	var v grid.Vertex
	if _, err := fmt.Sscanf(tok, "L%d_%d", &v.X, &v.Y); err != nil {
		return v, fmt.Errorf("ilp: parse location token %q: %w", tok, err)
	}
	return v, nil
}

// WriteHorizonData renders the `.dat` file for the receding-horizon
// step problem (spec section 4.5's alternative ILP-based stepper):
// one set of candidate vertices per robot (its K-step ball
// neighborhood) and the cost of occupying each, toward that robot's
// current goal.
func WriteHorizonData(ball map[int][]grid.Vertex, cost map[int]map[grid.Vertex]int) string {
	var b strings.Builder

	robots := make([]int, 0, len(ball))
	for r := range ball {
		robots = append(robots, r)
	}
	sortInts(robots)

	fmt.Fprintln(&b, "set ROBOTS :=")
	for _, r := range robots {
		fmt.Fprintf(&b, "  %d,\n", r)
	}
	fmt.Fprintln(&b, ";")

	seen := make(map[string]struct{})
	fmt.Fprintln(&b, "set LOCATIONS :=")
	for _, r := range robots {
		for _, v := range ball[r] {
			tok := locationToken(v)
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			fmt.Fprintf(&b, "  %s,\n", tok)
		}
	}
	fmt.Fprintln(&b, ";")

	for _, r := range robots {
		fmt.Fprintf(&b, "set ROBOT_LOCATIONS[%d] :=\n", r)
		for _, v := range ball[r] {
			fmt.Fprintf(&b, "  %s,\n", locationToken(v))
		}
		fmt.Fprintln(&b, ";")
	}

	fmt.Fprintln(&b, "param cost :=")
	for _, r := range robots {
		for _, v := range ball[r] {
			fmt.Fprintf(&b, "  %d %s %d\n", r, locationToken(v), cost[r][v])
		}
	}
	fmt.Fprintln(&b, ";")

	return b.String()
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

// WriteHorizonRunFile renders the `.run` driver file for the
// receding-horizon problem, emitting a tagged `# Position` section
// ParseHorizonSections expects: one `robot location` line per robot
// naming the vertex it occupies at the first step of the solved
// horizon.
func WriteHorizonRunFile(modelPath, dataPath string, timeLimitSeconds int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "model '%s';\n", modelPath)
	fmt.Fprintf(&b, "data '%s';\n", dataPath)
	fmt.Fprintln(&b, "option show_stats 0;")
	fmt.Fprintf(&b, "option solver_options 'timelim=%d';\n", timeLimitSeconds)
	fmt.Fprintln(&b, "solve;")
	fmt.Fprintln(&b, "option omit_zero_rows 1;")
	fmt.Fprintln(&b, "print '# Position';")
	fmt.Fprintln(&b, "display Chosen_Location;")
	fmt.Fprintln(&b, "print '# Objective';")
	fmt.Fprintln(&b, "display total_cost;")
	return b.String()
}

// HorizonSections is the parsed form of a receding-horizon solve's
// tagged stdout: the chosen first-tick vertex per robot, plus the
// objective value.
type HorizonSections struct {
	Positions map[int]grid.Vertex
	Objective float64
}

// ParseHorizonSections parses the `# Position` / `# Objective`
// tagged stdout produced by WriteHorizonRunFile.
func ParseHorizonSections(output []byte) (HorizonSections, error) {
	out := HorizonSections{Positions: make(map[int]grid.Vertex)}
	scanner := bufio.NewScanner(strings.NewReader(string(output)))

	section := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case "# Position", "# Objective":
			section = line
			continue
		}

		switch section {
		case "# Position":
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return out, fmt.Errorf("ilp: malformed Position line %q", line)
			}
			robot, err := strconv.Atoi(fields[0])
			if err != nil {
				return out, fmt.Errorf("ilp: parse Position robot %q: %w", line, err)
			}
			v, err := parseLocationToken(fields[1])
			if err != nil {
				return out, err
			}
			out.Positions[robot] = v
		case "# Objective":
			v, err := strconv.ParseFloat(line, 64)
			if err != nil {
				return out, fmt.Errorf("ilp: parse Objective %q: %w", line, err)
			}
			out.Objective = v
		}
	}
	return out, scanner.Err()
}

// WriteRunFile renders the `.run` driver file invoking modelPath
// against dataPath with a wall-clock-limited solve, emitting the
// tagged sections ParseSections expects.
func WriteRunFile(modelPath, dataPath string, timeLimitSeconds int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "model '%s';\n", modelPath)
	fmt.Fprintf(&b, "data '%s';\n", dataPath)
	fmt.Fprintln(&b, "option show_stats 0;")
	fmt.Fprintf(&b, "option solver_options 'timelim=%d';\n", timeLimitSeconds)
	fmt.Fprintln(&b, "solve;")
	fmt.Fprintln(&b, "option omit_zero_rows 1;")
	fmt.Fprintln(&b, "print '# First_Request';")
	fmt.Fprintln(&b, "display First_Request;")
	fmt.Fprintln(&b, "print '# Transition';")
	fmt.Fprintln(&b, "display Transition;")
	fmt.Fprintln(&b, "print '# Last_Request';")
	fmt.Fprintln(&b, "display Last_Request;")
	fmt.Fprintln(&b, "print '# Objective';")
	fmt.Fprintln(&b, "display total_cost;")
	fmt.Fprintln(&b, "print '# MipGap';")
	fmt.Fprintln(&b, "display solve_result_num;")
	return b.String()
}
