package assignment

import (
	"container/heap"
	"sort"

	"github.com/bpeeters/warehousesim/internal/demand"
	"github.com/bpeeters/warehousesim/internal/grid"
)

// GreedyMakespan is Variant A: a min-priority queue keyed by each
// robot's running end time. Requests are processed in ascending id
// order; each is appended to whichever robot currently has the
// smallest end time, and that robot's key advances by the
// pick-up/travel/drop-off cost.
//
// Grounded on original_source's
// algorithm/assignment/greedy_makespan.rs. That Rust implementation
// iterates requests via a HashMap with no order guarantee; this port
// explicitly sorts by ascending request id first, since spec requires
// deterministic, reproducible assignment (see DESIGN.md).
type GreedyMakespan struct {
	Plan grid.Plan
}

func (g GreedyMakespan) Name() string { return "GreedyMakespan" }

type robotKey struct {
	endTime int
	robotID int
	index   int
}

type robotHeap []*robotKey

func (h robotHeap) Len() int { return len(h) }
func (h robotHeap) Less(i, j int) bool {
	if h[i].endTime != h[j].endTime {
		return h[i].endTime < h[j].endTime
	}
	return h[i].robotID < h[j].robotID
}
func (h robotHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *robotHeap) Push(x any) {
	k := x.(*robotKey)
	k.index = len(*h)
	*h = append(*h, k)
}
func (h *robotHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// CalculateAssignment implements Engine.
func (g GreedyMakespan) CalculateAssignment(requests []demand.Request, availability []Availability) [][]int {
	assignment := make([][]int, len(availability))

	keys := make([]*robotKey, len(availability))
	h := &robotHeap{}
	heap.Init(h)
	for r, a := range availability {
		k := &robotKey{endTime: a.Time, robotID: r}
		keys[r] = k
		heap.Push(h, k)
	}

	ordered := make([]demand.Request, len(requests))
	copy(ordered, requests)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	for _, req := range ordered {
		if h.Len() == 0 {
			break
		}
		top := (*h)[0]
		assignment[top.robotID] = append(assignment[top.robotID], req.ID)

		travel := g.Plan.PathLength(req.From, req.To)
		top.endTime += 1 + travel + 1
		heap.Fix(h, top.index)
	}

	return assignment
}
