// Package rule provides the named per-node transition rules of a Boolean
// network and the immutable registry that resolves them.
//
// # Rules
//
// A rule computes a node's next state from its own current state and the
// current states of its neighbors. The built-in rules fold the node's own
// state together with every neighbor state:
//
//   - xor: parity of all states
//   - and: true only if every state is true
//   - or: true if any state is true
//
// All three are associative and commutative, so the order in which neighbors
// are listed never changes the result.
//
// # Registry
//
// A [Registry] is built once with [NewRegistry] and never changes afterwards.
// [Builtin] returns the process-wide registry of the rules above, with "xor"
// as the default. Lookups are exact, case-sensitive matches; a miss returns
// an [errors.UnknownEvaluatorError] and is never silently defaulted.
//
//	reg := rule.Builtin()
//	eval, err := reg.Lookup("and")
//	if err != nil {
//	    return err
//	}
//	next := eval.Next(true, []bool{true, false}) // false
//
// Registries are safe for concurrent use.
//
// [errors.UnknownEvaluatorError]: github.com/matzehuels/boolnet/pkg/errors.UnknownEvaluatorError
package rule
