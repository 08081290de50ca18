package render

import (
	"testing"

	"github.com/matzehuels/boolnet/pkg/network"
	"github.com/matzehuels/boolnet/pkg/rule"
)

func statesNetwork(t *testing.T, states ...bool) *network.Network {
	t.Helper()
	nodes := make([]network.Node, len(states))
	for i, s := range states {
		nodes[i] = network.Node{State: s}
	}
	n, err := network.New(rule.Builtin(), "xor", nodes)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestStates(t *testing.T) {
	n := statesNetwork(t, true, false, false, true)

	tests := []struct {
		on, off string
		want    string
	}{
		{"#", ".", "#..#"},
		{" ", "0", " 00 "},
		{"on ", "off ", "on off off on "},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := States(n, tt.on, tt.off); got != tt.want {
			t.Errorf("States(%q, %q) = %q, want %q", tt.on, tt.off, got, tt.want)
		}
	}

	if got := States(statesNetwork(t), "#", "."); got != "" {
		t.Errorf("States(empty) = %q, want empty", got)
	}
}

func TestGrid(t *testing.T) {
	n := statesNetwork(t, true, false, true, true, false)

	tests := []struct {
		width int
		want  string
	}{
		{0, "#.##."},
		{5, "#.##."},
		{10, "#.##."},
		{2, "#.\n##\n."},
		{3, "#.#\n#."},
		{1, "#\n.\n#\n#\n."},
	}
	for _, tt := range tests {
		if got := Grid(n, "#", ".", tt.width); got != tt.want {
			t.Errorf("Grid(width=%d) = %q, want %q", tt.width, got, tt.want)
		}
	}
}

func TestCounts(t *testing.T) {
	on, off := Counts(statesNetwork(t, true, false, true, true, false))
	if on != 3 || off != 2 {
		t.Errorf("Counts() = %d, %d, want 3, 2", on, off)
	}
}
