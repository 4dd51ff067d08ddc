package progress

import "sync"

// Gate serializes selections against their async results. Each new
// date/branch selection takes the next generation; a result is applied only
// if its generation still matches the latest issued one, so a slow fetch for
// a superseded selection is discarded instead of displayed.
type Gate struct {
	mu     sync.Mutex
	latest uint64
}

// Next issues a new generation, superseding all prior ones.
func (g *Gate) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest++
	return g.latest
}

// Accept reports whether a result carrying gen is still current.
func (g *Gate) Accept(gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return gen == g.latest
}
