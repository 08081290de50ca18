// Package session holds a caller's live Boolean network and persists it.
//
// A [Session] owns one [network.Network] at a time. Generating or loading a
// network builds the candidate in isolation and swaps it in only on success,
// so a failed operation leaves the previous network and generation counter
// as they were:
//
//	s := session.New(rule.Builtin())
//	if err := s.LoadFile(ctx, "networks/basic.txt"); err != nil {
//	    // s still holds whatever it held before
//	}
//	err := s.Step(ctx, 10)
//
// Sessions are persisted as [Record] values through a [Store]. Three
// backends exist:
//   - memory: In-process storage for tests and the HTTP server default
//   - file: JSON files for CLI applications
//   - redis: Redis-backed storage shared between server instances
//
// [Restore] rebuilds a session from a record.
package session

import (
	"bytes"
	"cmp"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/boolnet/pkg/codec"
	"github.com/matzehuels/boolnet/pkg/errors"
	"github.com/matzehuels/boolnet/pkg/network"
	"github.com/matzehuels/boolnet/pkg/observability"
	"github.com/matzehuels/boolnet/pkg/rule"
)

// Session is a live network plus its generation counter.
// All methods are safe for concurrent use.
type Session struct {
	mu      sync.RWMutex
	id      string
	reg     *rule.Registry
	stepper *network.Stepper
	net     *network.Network
	gen     uint64
	created time.Time
	updated time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session ID instead of generating a new UUID.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithStepper sets the stepper used by Step.
func WithStepper(st *network.Stepper) Option {
	return func(s *Session) { s.stepper = st }
}

// New creates an empty session that resolves rule names in reg.
func New(reg *rule.Registry, opts ...Option) *Session {
	now := time.Now().UTC()
	s := &Session{
		id:      uuid.NewString(),
		reg:     reg,
		created: now,
		updated: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.stepper == nil {
		s.stepper = network.NewStepper()
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Registry returns the rule registry the session resolves names in.
func (s *Session) Registry() *rule.Registry { return s.reg }

// Generation returns the number of steps applied since the current network
// was generated or loaded.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Empty reports whether the session holds no network.
func (s *Session) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.net == nil
}

// Generate replaces the network with a random one drawn from g.
// On error the current network is kept.
func (s *Session) Generate(ctx context.Context, g *network.Generator, numNodes, minConnections, maxConnections int) error {
	start := time.Now()
	n, err := g.Generate(numNodes, minConnections, maxConnections)
	observability.Simulation().OnGenerate(ctx, numNodes, time.Since(start), err)
	if err != nil {
		return err
	}
	s.replace(n)
	return nil
}

// Load replaces the network with one parsed from r. source names the input
// for instrumentation. On error the current network is kept.
func (s *Session) Load(ctx context.Context, r io.Reader, source string) error {
	start := time.Now()
	n, err := codec.Read(r, s.reg)
	nodes := 0
	if n != nil {
		nodes = n.Len()
	}
	observability.Simulation().OnLoad(ctx, source, nodes, time.Since(start), err)
	if err != nil {
		return err
	}
	s.replace(n)
	return nil
}

// LoadFile replaces the network with the one stored at path.
func (s *Session) LoadFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		observability.Simulation().OnLoad(ctx, path, 0, 0, err)
		return errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return s.Load(ctx, f, path)
}

// Replace installs a copy of n and resets the generation counter.
func (s *Session) Replace(n *network.Network) {
	s.replace(n.Clone())
}

func (s *Session) replace(n *network.Network) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.net = n
	s.gen = 0
	s.updated = time.Now().UTC()
}

// Step advances the network by k generations. Cancellation is checked
// between generations; generations completed before it remain applied.
func (s *Session) Step(ctx context.Context, k int) error {
	if k < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "step count %d is negative", k)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.net == nil {
		return errEmpty()
	}

	hooks := observability.Simulation()
	last := time.Now()
	defer func() { s.updated = time.Now().UTC() }()
	return s.stepper.Run(ctx, s.net, k, func(int, *network.Network) error {
		s.gen++
		hooks.OnStep(ctx, s.gen, s.net.Len(), time.Since(last))
		last = time.Now()
		return nil
	})
}

// Network returns a copy of the current network.
func (s *Session) Network() (*network.Network, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.net == nil {
		return nil, errEmpty()
	}
	return s.net.Clone(), nil
}

// Text returns the current network in the text format.
func (s *Session) Text() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.net == nil {
		return nil, errEmpty()
	}
	return codec.Marshal(s.net), nil
}

// Export writes the current network to path in the text format.
func (s *Session) Export(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.net == nil {
		return errEmpty()
	}
	return codec.WriteFile(path, s.net)
}

// Record returns the persisted form of the session.
func (s *Session) Record() (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.net == nil {
		return nil, errEmpty()
	}
	return &Record{
		ID:         s.id,
		Text:       string(codec.Marshal(s.net)),
		Generation: s.gen,
		CreatedAt:  s.created,
		UpdatedAt:  s.updated,
	}, nil
}

func errEmpty() error {
	return errors.New(errors.ErrCodeNotFound, "session has no network")
}

// Record is the stored form of a session.
type Record struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Generation uint64    `json:"generation"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Restore rebuilds a session from rec, parsing its text with reg. Parse
// failures keep the codec's error code.
func Restore(reg *rule.Registry, rec *Record, opts ...Option) (*Session, error) {
	if rec == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil record")
	}
	n, err := codec.Read(bytes.NewReader([]byte(rec.Text)), reg)
	if err != nil {
		return nil, errors.Wrap(cmp.Or(errors.GetCode(err), errors.ErrCodeInvalidFormat), err, "restore session %s", rec.ID)
	}
	s := New(reg, append([]Option{WithID(rec.ID)}, opts...)...)
	s.net = n
	s.gen = rec.Generation
	if !rec.CreatedAt.IsZero() {
		s.created = rec.CreatedAt
	}
	if !rec.UpdatedAt.IsZero() {
		s.updated = rec.UpdatedAt
	}
	return s, nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a record by ID.
	// Returns nil, nil if the record doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// Set stores a record under rec.ID.
	Set(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the stored IDs in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// Save snapshots s into store.
func Save(ctx context.Context, store Store, s *Session) error {
	rec, err := s.Record()
	if err != nil {
		return err
	}
	return store.Set(ctx, rec)
}

// Open fetches id from store and restores it. A missing record is NOT_FOUND.
func Open(ctx context.Context, store Store, reg *rule.Registry, id string, opts ...Option) (*Session, error) {
	rec, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "session %s not found", id)
	}
	return Restore(reg, rec, opts...)
}
