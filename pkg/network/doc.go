// Package network provides the in-memory Boolean network, its random
// generator, and the synchronous step engine.
//
// # Model
//
// A [Network] is an ordered sequence of nodes. Each node has a boolean
// state and a directed, ordered list of neighbor indices into the same
// sequence. Indices are 0-based, position-stable, and always in [0, Len()).
// Self-references and repeated neighbors are allowed. Every network carries
// the name of the rule that evolves it; the rule is resolved against a
// [rule.Registry] once, when the network is built.
//
// Networks are created wholesale by [New], by [Generator.Generate], or by the
// codec package. None of these exposes a partially built value: on error the
// caller gets nil and whatever network it already held is untouched.
// Adjacency and rule are immutable after construction; only [Stepper.Step]
// changes node states.
//
// # Stepping
//
// [Stepper.Step] advances one generation. Every node's next state is
// computed from the previous generation only, into a second buffer that is
// swapped in after all nodes are evaluated, so the result never depends on
// evaluation order:
//
//	net, _ := network.New(rule.Builtin(), "xor", []network.Node{
//	    {State: true, Neighbors: []int{1}},
//	    {State: false, Neighbors: []int{2}},
//	    {State: false, Neighbors: []int{0}},
//	})
//	network.NewStepper().Step(net)
//	fmt.Println(net.States()) // [true false true]
//
// With [WithWorkers], disjoint node ranges are evaluated concurrently. The
// result is identical to the sequential path.
//
// # Concurrency
//
// A Network is not safe for concurrent mutation. Callers that share a
// network between goroutines must synchronize Step against readers (the
// session package does this).
package network
