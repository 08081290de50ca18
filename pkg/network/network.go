package network

import (
	"slices"

	"github.com/matzehuels/boolnet/pkg/errors"
	"github.com/matzehuels/boolnet/pkg/rule"
)

// Node is the construction and inspection form of a single network node.
type Node struct {
	State     bool
	Neighbors []int
}

// Network is a Boolean network: node states, adjacency lists, and the rule
// that evolves them. The zero value is not usable - use New or a Generator.
type Network struct {
	states []bool
	next   []bool
	adj    [][]int
	rule   string
	eval   rule.Evaluator
}

// New builds a network from nodes, resolving ruleName in reg.
// Returns an UnknownEvaluatorError if the rule is not registered, or an
// INVALID_INPUT error if any neighbor index is outside [0, len(nodes)).
// The neighbor slices are copied; nodes may be reused by the caller.
func New(reg *rule.Registry, ruleName string, nodes []Node) (*Network, error) {
	eval, err := reg.Lookup(ruleName)
	if err != nil {
		return nil, err
	}
	n := len(nodes)
	states := make([]bool, n)
	adj := make([][]int, n)
	for i, nd := range nodes {
		for _, j := range nd.Neighbors {
			if j < 0 || j >= n {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"node %d: neighbor index %d out of range [0, %d)", i, j, n)
			}
		}
		states[i] = nd.State
		adj[i] = slices.Clone(nd.Neighbors)
		if adj[i] == nil {
			adj[i] = []int{}
		}
	}
	return build(ruleName, eval, states, adj), nil
}

// build assembles a network from already validated parts, taking ownership.
func build(ruleName string, eval rule.Evaluator, states []bool, adj [][]int) *Network {
	return &Network{
		states: states,
		next:   make([]bool, len(states)),
		adj:    adj,
		rule:   ruleName,
		eval:   eval,
	}
}

// Len returns the number of nodes.
func (n *Network) Len() int { return len(n.states) }

// State returns the current state of node i.
func (n *Network) State(i int) bool { return n.states[i] }

// States returns a copy of all node states in index order.
func (n *Network) States() []bool { return slices.Clone(n.states) }

// Neighbors returns a copy of node i's neighbor indices.
func (n *Network) Neighbors(i int) []int { return slices.Clone(n.adj[i]) }

// Degree returns the number of neighbors of node i.
func (n *Network) Degree(i int) int { return len(n.adj[i]) }

// EdgeCount returns the total number of neighbor entries across all nodes.
func (n *Network) EdgeCount() int {
	total := 0
	for _, a := range n.adj {
		total += len(a)
	}
	return total
}

// Rule returns the name of the network's rule.
func (n *Network) Rule() string { return n.rule }

// Evaluator returns the resolved rule.
func (n *Network) Evaluator() rule.Evaluator { return n.eval }

// Nodes returns a deep copy of the network as Node values.
func (n *Network) Nodes() []Node {
	out := make([]Node, len(n.states))
	for i := range out {
		out[i] = Node{State: n.states[i], Neighbors: slices.Clone(n.adj[i])}
	}
	return out
}

// Clone returns an independent copy. Adjacency is shared because it is
// never mutated after construction.
func (n *Network) Clone() *Network {
	return build(n.rule, n.eval, slices.Clone(n.states), n.adj)
}

// Equal reports whether both networks have the same rule, states and
// adjacency lists (order-sensitive).
func (n *Network) Equal(o *Network) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.rule != o.rule || !slices.Equal(n.states, o.states) || len(n.adj) != len(o.adj) {
		return false
	}
	for i := range n.adj {
		if !slices.Equal(n.adj[i], o.adj[i]) {
			return false
		}
	}
	return true
}
