// Package codec reads and writes Boolean networks in the boolnet text format.
//
// # Format
//
// The format is line oriented. Indices in the file are 1-based; they are
// converted to the 0-based indices of [network.Network] on read and back on
// write.
//
//	3            node count N
//	xor          rule name
//	1: 1         state of node 1 (0 or 1), one line per node
//	2: 0
//	3: 0
//	----------   section boundary (ten '-')
//	1: 2         neighbors of node 1, comma separated
//	2: 3
//	3: 1, 2
//
// Whitespace around tokens is insignificant and blank lines are ignored.
// A node without neighbors has nothing after its ':'. Anything after the
// N-th neighbor line is ignored.
//
// # Reading
//
// [Read], [Unmarshal] and [ReadFile] validate the whole input before a
// network is returned. The rule name is checked against the registry before
// any node line is read. Scanning failures are reported as
// [errors.FormatError] values carrying the 1-based line number, the kind of
// failure, expected and actual tokens, and the offending line:
//
//	net, err := codec.ReadFile("networks/basic.txt", rule.Builtin())
//	var fe *errors.FormatError
//	if stderrors.As(err, &fe) {
//	    fmt.Println(fe.Line, fe.Kind, fe.Expected, fe.Actual)
//	}
//
// # Writing
//
// [Marshal], [Write] and [WriteFile] produce output that [Read] accepts and
// that reproduces the network exactly. Output is deterministic: marshalling
// the same network twice yields identical bytes.
//
// [errors.FormatError]: github.com/matzehuels/boolnet/pkg/errors.FormatError
package codec
