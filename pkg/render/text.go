package render

import (
	"strings"

	"github.com/matzehuels/boolnet/pkg/network"
)

// States renders one token per node in index order: on for true, off for false.
func States(n *network.Network, on, off string) string {
	var b strings.Builder
	b.Grow(n.Len() * max(len(on), len(off)))
	for i := range n.Len() {
		if n.State(i) {
			b.WriteString(on)
		} else {
			b.WriteString(off)
		}
	}
	return b.String()
}

// Grid renders the token line wrapped every width nodes, one row per line
// with no trailing newline. A width below 1 renders a single row.
func Grid(n *network.Network, on, off string, width int) string {
	if width < 1 || n.Len() <= width {
		return States(n, on, off)
	}
	var b strings.Builder
	for i := range n.Len() {
		if i > 0 && i%width == 0 {
			b.WriteByte('\n')
		}
		if n.State(i) {
			b.WriteString(on)
		} else {
			b.WriteString(off)
		}
	}
	return b.String()
}

// Counts returns how many nodes are on and off.
func Counts(n *network.Network) (on, off int) {
	for i := range n.Len() {
		if n.State(i) {
			on++
		}
	}
	return on, n.Len() - on
}
