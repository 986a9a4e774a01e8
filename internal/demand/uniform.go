// Package demand generates stochastic source/terminal request pairs
// for a simulation run.
package demand

import (
	"math/rand"

	"github.com/bpeeters/warehousesim/internal/grid"
)

// Request is an immutable (from, to) pair, from a source and to a
// terminal, keyed by a stable integer id across its lifetime.
type Request struct {
	ID   int
	From grid.Vertex
	To   grid.Vertex
}

// Distance returns the Manhattan distance between the request's
// endpoints.
func (r Request) Distance() int {
	return r.From.Manhattan(r.To)
}

// Generator produces an indexed collection of requests, deterministic
// under a seed.
type Generator interface {
	Generate(plan grid.Plan, nrRequests int) []Request
}

// Uniform samples each request's source and terminal independently
// and uniformly at random. Ported from original_source's
// simulation/demand/uniform.rs Demand implementation: same seed, same
// plan, same count always yields the identical sequence.
type Uniform struct {
	rng *rand.Rand
}

// NewUniform creates a Uniform generator seeded deterministically.
func NewUniform(seed int64) *Uniform {
	return &Uniform{rng: rand.New(rand.NewSource(seed))}
}

// Generate produces exactly nrRequests requests with dense 0-based
// ids, sampling source and terminal independently per request. It
// returns nil when the plan has no sources or no terminals.
func (u *Uniform) Generate(plan grid.Plan, nrRequests int) []Request {
	sources := plan.Sources()
	terminals := plan.Terminals()
	if len(sources) == 0 || len(terminals) == 0 {
		return nil
	}

	out := make([]Request, 0, nrRequests)
	for i := 0; i < nrRequests; i++ {
		from := sources[u.rng.Intn(len(sources))]
		to := terminals[u.rng.Intn(len(terminals))]
		out = append(out, Request{ID: i, From: from, To: to})
	}
	return out
}
