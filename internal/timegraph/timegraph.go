// Package timegraph implements the time-expanded reservation graph:
// a deque of per-tick free-vertex layers supporting earliest-arrival
// A* search, idempotent path removal, and forward compaction as the
// simulation clock advances.
//
// Grounded on original_source's
// algorithm/path/greedy_shortest_paths/time_graph.rs: the layered
// VecDeque<FnvHashSet<Vertex>> representation, the three-layer
// eviction window on removePath, and the A* success condition that
// requires the goal to still be free one tick after arrival (so the
// placement/removal action has somewhere to stand).
package timegraph

import (
	"container/heap"

	"github.com/bpeeters/warehousesim/internal/grid"
	"github.com/bpeeters/warehousesim/internal/model"
)

const extendChunk = 50

// maxSearchSteps bounds how many search nodes FindPath pops before
// giving up; a permanently-blocked goal (e.g. a
// stationary robot parked on it forever) would otherwise loop
// indefinitely. Not part of the original contract, but findPath's
// stated failure mode ("fails by returning nothing") covers it.
const maxSearchSteps = 4096

// TimeGraph is a layered reservation structure over a Plan's
// vertices. Layer i corresponds to absolute time earliestTime + i.
type TimeGraph struct {
	plan         grid.Plan
	layers       []map[grid.Vertex]struct{}
	earliestTime int
}

// New constructs a TimeGraph over plan with initialCapacity+1 layers,
// each initially containing every vertex in the plan (all free).
// Panics if the plan has no sources or no terminals: that is a
// construction-time invariant violation, not a runtime condition.
func New(plan grid.Plan, initialCapacity int) *TimeGraph {
	if len(plan.Sources()) < 1 || len(plan.Terminals()) < 1 {
		panic("timegraph: plan must have at least one source and one terminal")
	}
	tg := &TimeGraph{plan: plan, earliestTime: 0}
	tg.appendLayers(initialCapacity + 1)
	return tg
}

func (tg *TimeGraph) appendLayers(n int) {
	vertices := tg.plan.Vertices()
	for i := 0; i < n; i++ {
		layer := make(map[grid.Vertex]struct{}, len(vertices))
		for _, v := range vertices {
			layer[v] = struct{}{}
		}
		tg.layers = append(tg.layers, layer)
	}
}

// Extend appends k fresh layers, each fully free, at the tail.
func (tg *TimeGraph) Extend(k int) {
	tg.appendLayers(k)
}

// CleanFront discards the prefix of layers before newEarliest and
// advances earliestTime. A call where newEarliest <= the current
// earliestTime is a no-op, keeping repeated calls at the same time
// idempotent.
func (tg *TimeGraph) CleanFront(newEarliest int) {
	if newEarliest <= tg.earliestTime {
		return
	}
	drop := newEarliest - tg.earliestTime
	if drop > len(tg.layers) {
		drop = len(tg.layers)
	}
	tg.layers = tg.layers[drop:]
	tg.earliestTime = newEarliest
}

// EarliestTime returns the absolute time of layer 0.
func (tg *TimeGraph) EarliestTime() int {
	return tg.earliestTime
}

func (tg *TimeGraph) index(t int) int {
	return t - tg.earliestTime
}

func (tg *TimeGraph) ensureIndex(idx int) {
	for idx >= len(tg.layers)-1 {
		tg.Extend(extendChunk)
	}
}

func (tg *TimeGraph) layerAt(idx int) map[grid.Vertex]struct{} {
	if idx < 0 || idx >= len(tg.layers) {
		return nil
	}
	return tg.layers[idx]
}

// free reports whether v is free at absolute time t.
func (tg *TimeGraph) free(t int, v grid.Vertex) bool {
	layer := tg.layerAt(tg.index(t))
	if layer == nil {
		return false
	}
	_, ok := layer[v]
	return ok
}

// RemovePath evicts every node of path from the layers at t-1, t, and
// t+1 (when those layers exist), for each (time, vertex) pair on the
// path. This is the three-layer window that simultaneously enforces
// collision-freedom and swap-freedom (see spec design notes).
// Idempotent: removing an already-absent vertex is a silent no-op.
func (tg *TimeGraph) RemovePath(path model.Path) {
	for i, v := range path.Nodes {
		t := path.StartTime + i
		for _, dt := range [3]int{-1, 0, 1} {
			layer := tg.layerAt(tg.index(t + dt))
			if layer == nil {
				continue
			}
			delete(layer, v)
		}
	}
}

// astarNode is a (vertex, time) search node.
type astarNode struct {
	v      grid.Vertex
	t      int
	g      int
	f      int
	parent *astarNode
	seq    int
	index  int
}

type astarHeap []*astarNode

func (h astarHeap) Len() int { return len(h) }
func (h astarHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h astarHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *astarHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

type searchKey struct {
	v grid.Vertex
	t int
}

// FindPath runs earliest-arrival A* from (from, startTime) to to.
// Successors of (v, t) are {u, t+1 : u in Neighbors(v) union {v}, u
// free at t+1}. Search succeeds when a popped node has vertex == to
// and to remains free one tick further (so the robot can stand on the
// goal for the placement/removal action). Returns false if no path is
// found within the search horizon.
func (tg *TimeGraph) FindPath(startTime int, from, to grid.Vertex) (model.Path, bool) {
	startIdx := tg.index(startTime)
	tg.ensureIndex(startIdx)

	open := &astarHeap{}
	heap.Init(open)

	seq := 0
	push := func(v grid.Vertex, t, g, f int, parent *astarNode) *astarNode {
		n := &astarNode{v: v, t: t, g: g, f: f, parent: parent, seq: seq}
		seq++
		heap.Push(open, n)
		return n
	}

	best := make(map[searchKey]int)
	push(from, startTime, 0, tg.plan.PathLength(from, to), nil)
	best[searchKey{from, startTime}] = 0

	steps := 0
	for open.Len() > 0 && steps < maxSearchSteps {
		steps++
		cur := heap.Pop(open).(*astarNode)
		key := searchKey{cur.v, cur.t}
		if g, ok := best[key]; ok && g < cur.g {
			continue
		}

		if cur.v == to && tg.free(cur.t+1, to) {
			return reconstruct(cur), true
		}

		nextT := cur.t + 1
		nextIdx := tg.index(nextT)
		tg.ensureIndex(nextIdx)

		candidates := make([]grid.Vertex, 0, 5)
		candidates = append(candidates, cur.v)
		candidates = append(candidates, tg.plan.Neighbors(cur.v)...)

		for _, u := range candidates {
			if !tg.free(nextT, u) {
				continue
			}
			g := cur.g + 1
			nk := searchKey{u, nextT}
			if prevG, ok := best[nk]; ok && prevG <= g {
				continue
			}
			best[nk] = g
			f := g + tg.plan.PathLength(u, to)
			push(u, nextT, g, f, cur)
		}
	}

	return model.Path{}, false
}

func reconstruct(n *astarNode) model.Path {
	var nodes []grid.Vertex
	start := 0
	for cur := n; cur != nil; cur = cur.parent {
		nodes = append([]grid.Vertex{cur.v}, nodes...)
		start = cur.t
	}
	return model.Path{StartTime: start, Nodes: nodes}
}
