package grid

import "testing"

func TestOneThreeRectangleSourcesTerminals(t *testing.T) {
	p := NewOneThreeRectangle(3, 3)

	sources := p.Sources()
	if len(sources) != 1 || sources[0] != (Vertex{X: 0, Y: 1}) {
		t.Fatalf("Sources() = %v, want [{0 1}]", sources)
	}

	terminals := p.Terminals()
	want := map[Vertex]bool{
		{X: 1, Y: 0}: true,
		{X: 1, Y: 2}: true,
		{X: 2, Y: 1}: true,
	}
	if len(terminals) != len(want) {
		t.Fatalf("Terminals() = %v, want %d entries", terminals, len(want))
	}
	for _, v := range terminals {
		if !want[v] {
			t.Errorf("unexpected terminal %v", v)
		}
	}
}

func TestOneThreeRectangleNeighborsCorner(t *testing.T) {
	p := NewOneThreeRectangle(3, 3)

	got := p.Neighbors(Vertex{X: 0, Y: 0})
	want := map[Vertex]bool{{X: 1, Y: 0}: true, {X: 0, Y: 1}: true}
	if len(got) != len(want) {
		t.Fatalf("Neighbors(0,0) = %v, want 2 entries", got)
	}
	for _, v := range got {
		if !want[v] {
			t.Errorf("unexpected neighbor %v", v)
		}
	}
}

func TestOneThreeRectanglePathLengthAtLeastManhattan(t *testing.T) {
	p := NewOneThreeRectangle(5, 5)
	a, b := Vertex{X: 0, Y: 0}, Vertex{X: 4, Y: 4}
	if got := p.PathLength(a, b); got < a.Manhattan(b) {
		t.Errorf("PathLength(%v, %v) = %d, want >= Manhattan %d", a, b, got, a.Manhattan(b))
	}
}

func TestOneThreeRectangleBall(t *testing.T) {
	p := NewOneThreeRectangle(5, 5)
	ball := p.Ball(Vertex{X: 2, Y: 2}, 1)
	if len(ball) != 5 {
		t.Fatalf("Ball(center, 1) has %d vertices, want 5", len(ball))
	}
}

func TestMiddleTerminalsTerminalsAreHoleNeighbors(t *testing.T) {
	p := NewMiddleTerminals(9, 9, 1, 3)
	terminals := p.Terminals()
	if len(terminals) == 0 {
		t.Fatal("expected at least one terminal")
	}
	for _, term := range terminals {
		if p.isHole(term) {
			t.Errorf("terminal %v must not itself be a hole", term)
		}
		adjacentToHole := false
		for _, n := range neighborsOf(term, p.inBounds) {
			if p.isHole(n) {
				adjacentToHole = true
				break
			}
		}
		if !adjacentToHole {
			t.Errorf("terminal %v is not adjacent to any hole", term)
		}
	}
}

func TestMiddleTerminalsSourcesWithinPadding(t *testing.T) {
	p := NewMiddleTerminals(9, 9, 1, 3)
	for _, s := range p.Sources() {
		if s.X != 0 {
			t.Errorf("source %v not on interior-left column", s)
		}
		if s.Y < p.padding || s.Y >= p.ySize-p.padding {
			t.Errorf("source %v outside padding bounds", s)
		}
	}
}
