package network

import (
	"math/rand/v2"

	"github.com/matzehuels/boolnet/pkg/errors"
	"github.com/matzehuels/boolnet/pkg/rule"
)

// Generator builds random networks from a seeded source.
// A Generator is not safe for concurrent use.
type Generator struct {
	reg *rule.Registry
	rng *rand.Rand
}

// NewGenerator returns a generator whose output is fully determined by seed.
// Generated networks use reg's default rule.
func NewGenerator(reg *rule.Registry, seed uint64) *Generator {
	return NewGeneratorFromSource(reg, rand.NewPCG(seed, 0))
}

// NewGeneratorFromSource returns a generator drawing from src.
func NewGeneratorFromSource(reg *rule.Registry, src rand.Source) *Generator {
	return &Generator{reg: reg, rng: rand.New(src)}
}

// Generate builds a network of numNodes nodes with uniformly random states.
// Each node gets exactly maxConnections distinct neighbors chosen uniformly
// without replacement from [0, numNodes) by a partial Fisher-Yates shuffle.
// A node may list itself.
//
// minConnections is validated but otherwise unused: out-degree is always
// maxConnections. Returns an INVALID_CONFIG error if any argument is
// negative, if maxConnections > numNodes, or if minConnections >
// maxConnections.
func (g *Generator) Generate(numNodes, minConnections, maxConnections int) (*Network, error) {
	if numNodes < 0 || minConnections < 0 || maxConnections < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"generation parameters must not be negative (nodes=%d, min=%d, max=%d)",
			numNodes, minConnections, maxConnections)
	}
	if maxConnections > numNodes {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"maxConnections %d exceeds node count %d", maxConnections, numNodes)
	}
	if minConnections > maxConnections {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"minConnections %d exceeds maxConnections %d", minConnections, maxConnections)
	}

	states := make([]bool, numNodes)
	adj := make([][]int, numNodes)

	// The pool stays shuffled between nodes; any permutation is a valid start.
	pool := make([]int, numNodes)
	for i := range pool {
		pool[i] = i
	}

	for node := range numNodes {
		states[node] = g.rng.IntN(2) == 1
		neighbors := make([]int, maxConnections)
		for i := range maxConnections {
			j := i + g.rng.IntN(numNodes-i)
			neighbors[i] = pool[j]
			pool[i], pool[j] = pool[j], pool[i]
		}
		adj[node] = neighbors
	}

	return build(g.reg.DefaultName(), g.reg.Default(), states, adj), nil
}
