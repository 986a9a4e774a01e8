package grid

// Plan is immutable warehouse geometry: the total vertex set, the
// source and terminal subsets, neighbor lookups, containment, and a
// shortest-path-length oracle. Implementations are safe to share
// across goroutines once constructed.
type Plan interface {
	Vertices() []Vertex
	Sources() []Vertex
	Terminals() []Vertex
	Neighbors(v Vertex) []Vertex
	Contains(v Vertex) bool
	Edges() []Edge
	// PathLength returns a shortest-path-length estimate between a and
	// b. It is always >= Manhattan(a, b).
	PathLength(a, b Vertex) int
	// Ball returns every vertex reachable from v within r lattice
	// steps while staying inside Contains.
	Ball(v Vertex, r int) []Vertex
}

// neighborsOf computes the 4-connected neighbors of v that satisfy
// contains, in a fixed deterministic order (right, up, left, down).
func neighborsOf(v Vertex, contains func(Vertex) bool) []Vertex {
	candidates := [4]Vertex{
		{X: v.X + 1, Y: v.Y},
		{X: v.X, Y: v.Y + 1},
		{X: v.X - 1, Y: v.Y},
		{X: v.X, Y: v.Y - 1},
	}
	out := make([]Vertex, 0, 4)
	for _, c := range candidates {
		if contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// ballOf performs a bounded BFS from v over neighbors, returning every
// vertex within r steps (inclusive of v itself).
func ballOf(v Vertex, r int, neighbors func(Vertex) []Vertex) []Vertex {
	if r < 0 {
		return nil
	}
	visited := map[Vertex]int{v: 0}
	queue := []Vertex{v}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := visited[cur]
		if d == r {
			continue
		}
		for _, n := range neighbors(cur) {
			if _, seen := visited[n]; seen {
				continue
			}
			visited[n] = d + 1
			queue = append(queue, n)
		}
	}
	out := make([]Vertex, 0, len(visited))
	for v := range visited {
		out = append(out, v)
	}
	return out
}

func dedupVertices(vs []Vertex) []Vertex {
	seen := make(map[Vertex]struct{}, len(vs))
	out := make([]Vertex, 0, len(vs))
	for _, v := range vs {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
