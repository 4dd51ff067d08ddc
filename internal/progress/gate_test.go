package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateAcceptsLatestGeneration(t *testing.T) {
	var g Gate

	gen := g.Next()
	assert.True(t, g.Accept(gen))
}

func TestGateDiscardsSupersededGeneration(t *testing.T) {
	var g Gate

	stale := g.Next()
	latest := g.Next()

	assert.False(t, g.Accept(stale), "a superseded selection's result must be discarded")
	assert.True(t, g.Accept(latest))
}

func TestGateGenerationsAreMonotonic(t *testing.T) {
	var g Gate

	prev := g.Next()
	for i := 0; i < 10; i++ {
		next := g.Next()
		assert.Greater(t, next, prev)
		prev = next
	}
}
