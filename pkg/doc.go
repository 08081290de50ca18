// Package pkg provides the core libraries for boolnet, a simulator for
// discrete-time synchronous Boolean networks.
//
// # Overview
//
// A network is a fixed set of nodes. Each node holds one bit and reads an
// ordered list of neighbor nodes. One generation updates every node at once:
// the new state folds the node's previous state with its neighbors' previous
// states using the network's rule. The pkg directory is organized into:
//
//  1. [rule] - Update rules (xor, and, or) and the name registry
//  2. [network] - The network model, the random generator and the stepper
//  3. [codec] - The line-based text format
//  4. [session] - A network plus its generation counter, and session stores
//  5. [render] - State lines and Graphviz node-link diagrams
//
// Supporting packages are [errors], [config], [cache], [observability] and
// [buildinfo].
//
// # Data Flow
//
//	text file / generator
//	         ↓
//	    [codec] or [network.Generator]
//	         ↓
//	    [network.Network]  →  [network.Stepper] (one or more generations)
//	         ↓
//	    [codec] text, [render] state line, [render/nodelink] DOT/SVG
//
// # Quick Start
//
//	reg := rule.Builtin()
//	n, _ := codec.ReadFile("networks/basic.txt", reg)
//	st := network.NewStepper()
//	_ = st.Run(ctx, n, 10, func(gen int, n *network.Network) error {
//	    fmt.Println(render.States(n, "1", "0"))
//	    return nil
//	})
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test ./pkg/codec -update          # Regenerate golden files
//
// Store tests run against redis when BOOLNET_TEST_REDIS_ADDR is set.
//
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/boolnet/pkg/render/nodelink
package pkg
