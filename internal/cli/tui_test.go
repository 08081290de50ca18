package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/boolnet/pkg/rule"
	"github.com/matzehuels/boolnet/pkg/session"
)

const ringText = "3\nxor\n1: 1\n2: 0\n3: 0\n----------\n1: 2\n2: 3\n3: 1\n"

func ringSession(t *testing.T) *session.Session {
	t.Helper()
	s := session.New(rule.Builtin())
	if err := s.Load(context.Background(), strings.NewReader(ringText), "test"); err != nil {
		t.Fatal(err)
	}
	return s
}

func keyRunes(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func update(t *testing.T, m StepModel, msg tea.Msg) (StepModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(StepModel)
	if !ok {
		t.Fatalf("Update returned %T, want StepModel", next)
	}
	return sm, cmd
}

func TestStepModelSteps(t *testing.T) {
	s := ringSession(t)
	m, err := NewStepModel(context.Background(), s, "#", ".")
	if err != nil {
		t.Fatal(err)
	}

	m, _ = update(t, m, keyRunes("n"))
	if got := s.Generation(); got != 1 {
		t.Errorf("generation after n = %d, want 1", got)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, keyRunes("f"))
	if got := s.Generation(); got != 2+fastForwardSteps {
		t.Errorf("generation = %d, want %d", got, 2+fastForwardSteps)
	}

	m, _ = update(t, m, keyRunes("r"))
	if got := s.Generation(); got != 0 {
		t.Errorf("generation after reset = %d, want 0", got)
	}
	n, _ := s.Network()
	if !n.Equal(m.initial) {
		t.Error("reset should restore the initial network")
	}
}

func TestStepModelQuit(t *testing.T) {
	m, err := NewStepModel(context.Background(), ringSession(t), "#", ".")
	if err != nil {
		t.Fatal(err)
	}

	for _, msg := range []tea.KeyMsg{keyRunes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := update(t, m, msg)
		if cmd == nil {
			t.Fatalf("%s should return a command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should quit", msg)
		}
	}
}

func TestStepModelPlay(t *testing.T) {
	s := ringSession(t)
	m, _ := NewStepModel(context.Background(), s, "#", ".")

	m, cmd := update(t, m, keyRunes("p"))
	if !m.playing || cmd == nil {
		t.Fatal("p should start playing and schedule a tick")
	}

	m, cmd = update(t, m, tickMsg{})
	if s.Generation() != 1 || cmd == nil {
		t.Errorf("tick while playing: generation %d, cmd %v", s.Generation(), cmd)
	}

	m, _ = update(t, m, keyRunes("p"))
	_, cmd = update(t, m, tickMsg{})
	if s.Generation() != 1 || cmd != nil {
		t.Error("tick while paused should not step or reschedule")
	}
}

func TestStepModelSpeed(t *testing.T) {
	m, _ := NewStepModel(context.Background(), ringSession(t), "#", ".")
	m, _ = update(t, m, keyRunes("+"))
	if m.interval != defaultPlayInterval/2 {
		t.Errorf("interval after + = %s", m.interval)
	}
	m, _ = update(t, m, keyRunes("-"))
	m, _ = update(t, m, keyRunes("-"))
	if m.interval != defaultPlayInterval*2 {
		t.Errorf("interval after - - = %s", m.interval)
	}
}

func TestStepModelView(t *testing.T) {
	m, _ := NewStepModel(context.Background(), ringSession(t), "#", ".")
	view := m.View()
	for _, want := range []string{"Boolean Network", "xor", "gen", "paused"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 2, Height: 10})
	if m.width != 2 {
		t.Errorf("width = %d, want 2", m.width)
	}
}

func TestStepModelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, _ := NewStepModel(ctx, ringSession(t), "#", ".")

	m, _ = update(t, m, keyRunes("n"))
	if m.err == nil {
		t.Fatal("step with cancelled context should record the error")
	}
	if !strings.Contains(m.View(), "context canceled") {
		t.Error("View() should show the step error")
	}
}

func TestNewStepModelEmptySession(t *testing.T) {
	if _, err := NewStepModel(context.Background(), session.New(rule.Builtin()), "#", "."); err == nil {
		t.Error("NewStepModel should fail for an empty session")
	}
}
