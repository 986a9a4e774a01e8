package grid

// MiddleTerminals is a rectangle minus a periodic set of "hole"
// vertices inside a padded interior; terminals are the 4-neighbors of
// each hole, sources are the interior-left column.
//
// Ported from original_source's MiddleTerminals plan. The original
// Rust `contains` had an unparenthesized `&&`/`||` precedence bug
// around the periodicity check; this implementation instead
// parenthesizes the evidently-intended semantics directly (see
// DESIGN.md).
type MiddleTerminals struct {
	xSize, ySize, padding, interval int
	holeList                        []Vertex
	holeSet                         map[Vertex]struct{}
	oracle                          distanceOracle

	vertices []Vertex
	edges    []Edge
}

// NewMiddleTerminals builds a padded rectangle with holes spaced
// `interval` cells apart inside a `padding`-cell border.
func NewMiddleTerminals(xSize, ySize, padding, interval int) *MiddleTerminals {
	if padding*2 >= xSize || padding*2 >= ySize {
		panic("grid: MiddleTerminals padding too large for dimensions")
	}
	if interval <= 1 {
		panic("grid: MiddleTerminals interval must be > 1")
	}
	p := &MiddleTerminals{xSize: xSize, ySize: ySize, padding: padding, interval: interval}
	p.holeList = p.holes()
	p.holeSet = make(map[Vertex]struct{}, len(p.holeList))
	for _, h := range p.holeList {
		p.holeSet[h] = struct{}{}
	}
	p.vertices = p.computeVertices()
	p.edges = edgesFrom(p.vertices, p.Neighbors)
	return p
}

func (p *MiddleTerminals) holes() []Vertex {
	var out []Vertex
	for x := p.padding; x <= p.xSize-p.padding; x += p.interval {
		for y := p.padding; y <= p.ySize-p.padding; y += p.interval {
			out = append(out, Vertex{X: x, Y: y})
		}
	}
	return out
}

func (p *MiddleTerminals) inBounds(v Vertex) bool {
	return v.X >= 0 && v.X < p.xSize && v.Y >= 0 && v.Y < p.ySize
}

func (p *MiddleTerminals) isHole(v Vertex) bool {
	_, ok := p.holeSet[v]
	return ok
}

func (p *MiddleTerminals) Contains(v Vertex) bool {
	return p.inBounds(v) && !p.isHole(v)
}

func (p *MiddleTerminals) computeVertices() []Vertex {
	out := make([]Vertex, 0, p.xSize*p.ySize)
	for x := 0; x < p.xSize; x++ {
		for y := 0; y < p.ySize; y++ {
			v := Vertex{X: x, Y: y}
			if p.Contains(v) {
				out = append(out, v)
			}
		}
	}
	return out
}

func (p *MiddleTerminals) Vertices() []Vertex {
	return p.vertices
}

// Sources is the interior-left column strictly between the padding
// bounds (original_source's middle_terminals.rs filters `padding < y`,
// excluding y == padding itself).
func (p *MiddleTerminals) Sources() []Vertex {
	out := make([]Vertex, 0, p.ySize)
	for y := p.padding + 1; y < p.ySize-p.padding; y++ {
		v := Vertex{X: 0, Y: y}
		if p.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// Terminals is the set of contained 4-neighbors of every hole. Ranges
// over the deterministically ordered holeList, not holeSet, so the
// result (and anything indexing into it, e.g. demand.Uniform) is
// stable across runs with the same plan.
func (p *MiddleTerminals) Terminals() []Vertex {
	var out []Vertex
	for _, h := range p.holeList {
		for _, n := range neighborsOf(h, p.inBounds) {
			if p.Contains(n) {
				out = append(out, n)
			}
		}
	}
	return dedupVertices(out)
}

func (p *MiddleTerminals) Neighbors(v Vertex) []Vertex {
	return neighborsOf(v, p.Contains)
}

func (p *MiddleTerminals) Edges() []Edge {
	return p.edges
}

func (p *MiddleTerminals) PathLength(a, b Vertex) int {
	return p.oracle.pathLength(p.vertices, p.edges, a, b)
}

func (p *MiddleTerminals) Ball(v Vertex, r int) []Vertex {
	return ballOf(v, r, p.Neighbors)
}
