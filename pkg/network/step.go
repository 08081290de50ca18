package network

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest node range handed to a worker. Smaller networks
// are stepped sequentially.
const minChunk = 1024

// Stepper advances networks by whole generations.
// A Stepper holds no per-network state and may be shared.
type Stepper struct {
	workers int
}

// StepOption configures a Stepper.
type StepOption func(*Stepper)

// WithWorkers sets how many goroutines evaluate nodes during a step.
// Values below 1 select runtime.GOMAXPROCS(0). The default is 1.
func WithWorkers(k int) StepOption {
	return func(s *Stepper) {
		if k < 1 {
			k = runtime.GOMAXPROCS(0)
		}
		s.workers = k
	}
}

// NewStepper creates a Stepper. Without options it evaluates sequentially.
func NewStepper(opts ...StepOption) *Stepper {
	s := &Stepper{workers: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Workers returns the configured worker count.
func (s *Stepper) Workers() int { return s.workers }

// Step advances n by one generation. Each node's next state is computed
// from the pre-step states only; the new generation becomes visible in a
// single buffer swap once every node has been evaluated.
func (s *Stepper) Step(n *Network) {
	total := len(n.states)
	if len(n.next) != total {
		n.next = make([]bool, total)
	}

	chunks := s.workers
	if limit := total / minChunk; chunks > limit {
		chunks = limit
	}
	if chunks <= 1 {
		n.evalRange(0, total)
	} else {
		var g errgroup.Group
		size := (total + chunks - 1) / chunks
		for lo := 0; lo < total; lo += size {
			hi := min(lo+size, total)
			g.Go(func() error {
				n.evalRange(lo, hi)
				return nil
			})
		}
		_ = g.Wait()
	}

	n.states, n.next = n.next, n.states
}

// Run advances n by generations steps. If observe is non-nil it is called
// after every step with the 1-based generation number; a non-nil return
// stops the run and is returned. Cancellation of ctx is checked between
// generations, never inside one.
func (s *Stepper) Run(ctx context.Context, n *Network, generations int, observe func(gen int, n *Network) error) error {
	for gen := 1; gen <= generations; gen++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Step(n)
		if observe != nil {
			if err := observe(gen, n); err != nil {
				return err
			}
		}
	}
	return nil
}

// evalRange writes next[i] for i in [lo, hi), reading only from states.
func (n *Network) evalRange(lo, hi int) {
	var buf []bool
	for i := lo; i < hi; i++ {
		buf = buf[:0]
		for _, j := range n.adj[i] {
			buf = append(buf, n.states[j])
		}
		n.next[i] = n.eval.Next(n.states[i], buf)
	}
}
