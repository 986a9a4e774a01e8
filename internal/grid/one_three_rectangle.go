package grid

// OneThreeRectangle is an open rectangle whose sources are the
// interior-left column and whose terminals are the interior top,
// bottom, and right rows, corners excluded from both sets.
//
// Ported from original_source's OneThreeRectangle plan.
type OneThreeRectangle struct {
	xSize, ySize int
	oracle       distanceOracle

	vertices []Vertex
	edges    []Edge
}

// NewOneThreeRectangle builds a rectangle of xSize by ySize cells.
// Both dimensions must be strictly positive.
func NewOneThreeRectangle(xSize, ySize int) *OneThreeRectangle {
	if xSize <= 0 || ySize <= 0 {
		panic("grid: OneThreeRectangle requires positive dimensions")
	}
	p := &OneThreeRectangle{xSize: xSize, ySize: ySize}
	p.vertices = p.computeVertices()
	p.edges = edgesFrom(p.vertices, p.Neighbors)
	return p
}

func (p *OneThreeRectangle) Contains(v Vertex) bool {
	return v.X >= 0 && v.X < p.xSize && v.Y >= 0 && v.Y < p.ySize
}

func (p *OneThreeRectangle) computeVertices() []Vertex {
	out := make([]Vertex, 0, p.xSize*p.ySize)
	for x := 0; x < p.xSize; x++ {
		for y := 0; y < p.ySize; y++ {
			out = append(out, Vertex{X: x, Y: y})
		}
	}
	return out
}

func (p *OneThreeRectangle) Vertices() []Vertex {
	return p.vertices
}

// Sources is the interior-left column, corners excluded.
func (p *OneThreeRectangle) Sources() []Vertex {
	out := make([]Vertex, 0, p.ySize)
	for y := 1; y < p.ySize-1; y++ {
		out = append(out, Vertex{X: 0, Y: y})
	}
	return out
}

// Terminals is the union of the interior top row, interior bottom
// row, and interior right column, corners excluded.
func (p *OneThreeRectangle) Terminals() []Vertex {
	out := make([]Vertex, 0, 2*p.xSize+p.ySize)
	for x := 1; x < p.xSize-1; x++ {
		out = append(out, Vertex{X: x, Y: p.ySize - 1})
		out = append(out, Vertex{X: x, Y: 0})
	}
	for y := 1; y < p.ySize-1; y++ {
		out = append(out, Vertex{X: p.xSize - 1, Y: y})
	}
	return dedupVertices(out)
}

func (p *OneThreeRectangle) Neighbors(v Vertex) []Vertex {
	return neighborsOf(v, p.Contains)
}

func (p *OneThreeRectangle) Edges() []Edge {
	return p.edges
}

func (p *OneThreeRectangle) PathLength(a, b Vertex) int {
	return p.oracle.pathLength(p.vertices, p.edges, a, b)
}

func (p *OneThreeRectangle) Ball(v Vertex, r int) []Vertex {
	return ballOf(v, r, p.Neighbors)
}

func edgesFrom(vertices []Vertex, neighbors func(Vertex) []Vertex) []Edge {
	seen := make(map[string]struct{})
	out := make([]Edge, 0, len(vertices)*2)
	for _, v := range vertices {
		for _, n := range neighbors(v) {
			e := Edge{A: v, B: n}
			k := e.Key()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}
