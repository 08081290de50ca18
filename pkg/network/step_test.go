package network

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/boolnet/pkg/rule"
)

func TestStepXorRing(t *testing.T) {
	n := ring(t, "xor", true, false, false)

	NewStepper().Step(n)

	if got, want := n.States(), []bool{true, false, true}; !slices.Equal(got, want) {
		t.Errorf("States() = %v, want %v", got, want)
	}
	for i, want := range []int{1, 2, 0} {
		if got := n.Neighbors(i); !slices.Equal(got, []int{want}) {
			t.Errorf("Neighbors(%d) = %v after step, want [%d]", i, got, want)
		}
	}
	if n.Rule() != "xor" {
		t.Errorf("Rule() = %q after step", n.Rule())
	}
}

func TestStepReadsPriorGeneration(t *testing.T) {
	// Chain 0<-1<-2: with in-place updates node 1 would see node 0's new state.
	nodes := []Node{
		{State: true, Neighbors: []int{2}},
		{State: false, Neighbors: []int{0}},
		{State: false, Neighbors: []int{1}},
	}
	n, err := New(rule.Builtin(), "or", nodes)
	if err != nil {
		t.Fatal(err)
	}

	NewStepper().Step(n)

	if got, want := n.States(), []bool{true, true, false}; !slices.Equal(got, want) {
		t.Errorf("States() = %v, want %v", got, want)
	}
}

func TestStepRules(t *testing.T) {
	tests := []struct {
		rule   string
		states []bool
		want   []bool
	}{
		{"and", []bool{true, true, false}, []bool{true, false, false}},
		{"or", []bool{true, false, false}, []bool{true, false, true}},
		{"xor", []bool{true, true, true}, []bool{false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			n := ring(t, tt.rule, tt.states...)
			NewStepper().Step(n)
			if got := n.States(); !slices.Equal(got, tt.want) {
				t.Errorf("States() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStepDeterministic(t *testing.T) {
	a, _ := NewGenerator(rule.Builtin(), 11).Generate(200, 0, 3)
	b := a.Clone()

	s := NewStepper()
	for range 10 {
		s.Step(a)
		s.Step(b)
	}
	if !a.Equal(b) {
		t.Error("stepping identical networks diverged")
	}
}

func TestStepParallelMatchesSequential(t *testing.T) {
	for _, name := range rule.Builtin().Names() {
		t.Run(name, func(t *testing.T) {
			base, err := NewGenerator(rule.Builtin(), 99).Generate(5000, 1, 3)
			if err != nil {
				t.Fatal(err)
			}
			seqNet, err := New(rule.Builtin(), name, base.Nodes())
			if err != nil {
				t.Fatal(err)
			}
			parNet := seqNet.Clone()

			seq := NewStepper()
			par := NewStepper(WithWorkers(4))
			for gen := range 5 {
				seq.Step(seqNet)
				par.Step(parNet)
				if !seqNet.Equal(parNet) {
					t.Fatalf("generation %d: parallel step diverged from sequential", gen+1)
				}
			}
		})
	}
}

func TestWithWorkers(t *testing.T) {
	if NewStepper().Workers() != 1 {
		t.Error("default workers should be 1")
	}
	if NewStepper(WithWorkers(3)).Workers() != 3 {
		t.Error("WithWorkers(3) not applied")
	}
	if NewStepper(WithWorkers(0)).Workers() < 1 {
		t.Error("WithWorkers(0) should select GOMAXPROCS")
	}
}

func TestStepEmptyNetwork(t *testing.T) {
	n, err := New(rule.Builtin(), "xor", nil)
	if err != nil {
		t.Fatal(err)
	}
	NewStepper(WithWorkers(4)).Step(n)
	if n.Len() != 0 {
		t.Errorf("Len() = %d, want 0", n.Len())
	}
}

func TestRun(t *testing.T) {
	n := ring(t, "xor", true, false, false)
	var gens []int

	err := NewStepper().Run(context.Background(), n, 3, func(gen int, _ *Network) error {
		gens = append(gens, gen)
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !slices.Equal(gens, []int{1, 2, 3}) {
		t.Errorf("observed generations %v, want [1 2 3]", gens)
	}

	want := ring(t, "xor", true, false, false)
	s := NewStepper()
	for range 3 {
		s.Step(want)
	}
	if !n.Equal(want) {
		t.Errorf("Run(3) = %v, want %v", n.States(), want.States())
	}
}

func TestRunStops(t *testing.T) {
	t.Run("observer error", func(t *testing.T) {
		stop := errors.New("stop")
		n := ring(t, "xor", true, false)
		calls := 0
		err := NewStepper().Run(context.Background(), n, 10, func(int, *Network) error {
			calls++
			if calls == 2 {
				return stop
			}
			return nil
		})
		if !errors.Is(err, stop) || calls != 2 {
			t.Errorf("Run() = %v after %d calls, want stop after 2", err, calls)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		n := ring(t, "xor", true, false)
		if err := NewStepper().Run(ctx, n, 5, nil); !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
		if !slices.Equal(n.States(), []bool{true, false}) {
			t.Error("cancelled run should not step")
		}
	})
}
