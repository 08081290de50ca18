package rule

import "fmt"

// Evaluator computes a node's next state. Implementations must be pure:
// the result depends only on the arguments, and neighbors must not be
// retained or modified.
type Evaluator interface {
	Name() string
	Next(self bool, neighbors []bool) bool
}

// Kind enumerates the built-in rules.
type Kind int

const (
	// Xor is the parity of the node's state and all neighbor states.
	Xor Kind = iota
	// And is the conjunction of the node's state and all neighbor states.
	And
	// Or is the disjunction of the node's state and all neighbor states.
	Or
)

var kindNames = [...]string{
	Xor: "xor",
	And: "and",
	Or:  "or",
}

// Kinds lists the built-in rules in declaration order.
var Kinds = []Kind{Xor, And, Or}

// Name returns the registry name of the rule.
func (k Kind) Name() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// String implements fmt.Stringer.
func (k Kind) String() string { return k.Name() }

// Next folds self with every neighbor state using the rule's operator.
func (k Kind) Next(self bool, neighbors []bool) bool {
	state := self
	switch k {
	case Xor:
		for _, s := range neighbors {
			state = state != s
		}
	case And:
		for _, s := range neighbors {
			if !s {
				return false
			}
		}
	case Or:
		for _, s := range neighbors {
			if s {
				return true
			}
		}
	default:
		panic(fmt.Sprintf("rule: unknown kind %d", int(k)))
	}
	return state
}

var _ Evaluator = Xor
