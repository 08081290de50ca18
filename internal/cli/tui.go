package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boolnet/pkg/network"
	"github.com/matzehuels/boolnet/pkg/render"
	"github.com/matzehuels/boolnet/pkg/session"
)

var (
	tuiOnStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	tuiOffStyle = lipgloss.NewStyle().Foreground(colorDim)
	tuiErrStyle = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	defaultPlayInterval = 200 * time.Millisecond
	fastForwardSteps    = 10
)

// =============================================================================
// StepModel - Interactive step-through
// =============================================================================

type tickMsg struct{}

// StepModel is the bubbletea model for stepping a session by key press.
type StepModel struct {
	ctx      context.Context
	sess     *session.Session
	initial  *network.Network
	on, off  string
	wrap     int // fixed wrap width; zero follows the terminal
	width    int
	playing  bool
	interval time.Duration
	err      error
}

// NewStepModel creates a step model over s. Reset returns to the network s
// holds now.
func NewStepModel(ctx context.Context, s *session.Session, on, off string) (StepModel, error) {
	initial, err := s.Network()
	if err != nil {
		return StepModel{}, err
	}
	return StepModel{
		ctx:      ctx,
		sess:     s,
		initial:  initial,
		on:       on,
		off:      off,
		interval: defaultPlayInterval,
	}, nil
}

func (m StepModel) Init() tea.Cmd {
	return nil
}

func (m StepModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m StepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space", "enter", "n", "right", "l":
			m.step(1)
		case "f":
			m.step(fastForwardSteps)
		case "r":
			m.sess.Replace(m.initial)
			m.err = nil
		case "p":
			m.playing = !m.playing
			if m.playing {
				return m, m.tick()
			}
		case "+":
			m.interval = max(m.interval/2, 10*time.Millisecond)
		case "-":
			m.interval = min(m.interval*2, 5*time.Second)
		}
	case tickMsg:
		if !m.playing {
			return m, nil
		}
		m.step(1)
		if m.err != nil {
			m.playing = false
			return m, nil
		}
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m *StepModel) step(k int) {
	m.err = m.sess.Step(m.ctx, k)
}

func (m StepModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Boolean Network"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space step  f +10  p play  +/- speed  r reset  q quit"))
	b.WriteString("\n\n")

	n, err := m.sess.Network()
	if err != nil {
		b.WriteString(tuiErrStyle.Render(err.Error()))
		return b.String()
	}

	width := m.wrap
	if width == 0 && m.width > 0 {
		width = m.width / max(lipgloss.Width(m.on), lipgloss.Width(m.off), 1)
	}
	b.WriteString(render.Grid(n, tuiOnStyle.Render(m.on), tuiOffStyle.Render(m.off), width))
	b.WriteString("\n\n")

	on, off := render.Counts(n)
	status := "paused"
	if m.playing {
		status = fmt.Sprintf("playing every %s", m.interval)
	}
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s  %s %s  %s",
		StyleDim.Render("gen"), StyleNumber.Render(fmt.Sprint(m.sess.Generation())),
		StyleDim.Render("rule"), StyleValue.Render(n.Rule()),
		StyleDim.Render("on"), StyleNumber.Render(fmt.Sprint(on)),
		StyleDim.Render("off"), StyleNumber.Render(fmt.Sprint(off)),
		StyleDim.Render(status))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(tuiErrStyle.Render(m.err.Error()))
	}
	return b.String()
}

// =============================================================================
// Command
// =============================================================================

func (c *CLI) interactiveCommand() *cobra.Command {
	var (
		display  displayOpts
		generate bool
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:     "interactive [file]",
		Aliases: []string{"tui"},
		Short:   "Step through a network interactively",
		Long: `Open a terminal view of a network and advance it one generation per key
press. With --generate a random network is created from the configured
generation parameters instead of reading a file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			display.resolve(cmd, c)
			ctx := cmd.Context()

			var s *session.Session
			if generate {
				if !cmd.Flags().Changed("seed") {
					seed = c.cfg.Network.Seed
				}
				g, _ := c.newGenerator(seed)
				s = c.newSession()
				cfg := c.cfg.Network
				if err := s.Generate(ctx, g, cfg.Nodes, cfg.MinConnections, cfg.MaxConnections); err != nil {
					return err
				}
			} else {
				var err error
				if s, err = c.load(ctx, inputPath(args)); err != nil {
					return err
				}
			}

			model, err := NewStepModel(ctx, s, display.on, display.off)
			if err != nil {
				return err
			}
			model.wrap = display.width
			p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(c.in), tea.WithOutput(c.out))
			_, err = p.Run()
			return err
		},
	}

	display.register(cmd)
	cmd.Flags().BoolVarP(&generate, "generate", "g", false, "start from a random network")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed with --generate (0 = random)")
	return cmd
}
