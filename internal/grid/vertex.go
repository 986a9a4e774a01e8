// Package grid defines the warehouse lattice: vertices, edges, and the
// Plan geometries robots and requests live on.
package grid

import "fmt"

// Vertex is a lattice cell identified by non-negative integer coordinates.
type Vertex struct {
	X, Y int
}

// Manhattan returns the L1 distance between v and other.
func (v Vertex) Manhattan(other Vertex) int {
	return absInt(v.X-other.X) + absInt(v.Y-other.Y)
}

// Adjacent reports whether v and other are Manhattan-adjacent (distance 1).
func (v Vertex) Adjacent(other Vertex) bool {
	return v.Manhattan(other) == 1
}

func (v Vertex) String() string {
	return fmt.Sprintf("%d,%d", v.X, v.Y)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Edge is an unordered pair of adjacent vertices; hash/equality is
// order-independent via Key.
type Edge struct {
	A, B Vertex
}

// Key returns a canonical, order-independent identifier for the edge.
func (e Edge) Key() string {
	a, b := e.A, e.B
	if less(b, a) {
		a, b = b, a
	}
	return a.String() + "|" + b.String()
}

func less(a, b Vertex) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}
