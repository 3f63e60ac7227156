package cli

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/spencrmartin/brainmap/internal/adapter"
	"github.com/spencrmartin/brainmap/internal/client"
	"github.com/spencrmartin/brainmap/internal/config"
	"github.com/spencrmartin/brainmap/internal/layout"
	"github.com/spencrmartin/brainmap/internal/render"
	"github.com/spencrmartin/brainmap/internal/zoom"
)

var watchMode string

var watchCmd = &cobra.Command{
	Use:   "watch <snapshot.json>",
	Short: "Watch the simulation converge in an interactive terminal view",
	Long: `Watch runs the live frame loop over a snapshot and renders each
frame as a terminal grid: one glyph per node, colored by project.
It is a demo consumer of the frame stream, the same contract the
WebSocket broadcaster serves.

Keys: r reheats the simulation, q quits.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchMode, "mode", "m", "", "layout mode: flat or universe (default from env)")
}

// watchTheme holds the color scheme for the watch display.
type watchTheme struct {
	Header lipgloss.Color
	Dim    lipgloss.Color
	Glow   lipgloss.Color
}

var defaultWatchTheme = watchTheme{
	Header: lipgloss.Color("#5FAFD7"), // light blue
	Dim:    lipgloss.Color("#6C6C6C"), // dim gray
	Glow:   lipgloss.Color("#FFD700"), // gold
}

// frameMsg carries one rendered frame into the tea loop.
type frameMsg render.Frame

// watchModel is the bubbletea model for the live graph view.
type watchModel struct {
	frames   <-chan render.Frame
	sim      *layout.Simulation
	cfg      layout.Config
	theme    watchTheme
	progress progress.Model

	frame  render.Frame
	width  int
	height int
	quit   bool
}

func newWatchModel(frames <-chan render.Frame, sim *layout.Simulation, cfg layout.Config) watchModel {
	return watchModel{
		frames:   frames,
		sim:      sim,
		cfg:      cfg,
		theme:    defaultWatchTheme,
		progress: progress.New(progress.WithDefaultBlend(), progress.WithWidth(30)),
		width:    80,
		height:   24,
	}
}

// waitForFrame blocks on the frame channel as a command so Update
// never stalls the tea loop.
func waitForFrame(frames <-chan render.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return tea.Quit()
		}
		return frameMsg(f)
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(
		waitForFrame(m.frames),
		m.progress.Init(),
	)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quit = true
			return m, tea.Quit
		case "r":
			m.sim.Reheat(layout.DragAlpha)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case frameMsg:
		m.frame = render.Frame(msg)
		return m, waitForFrame(m.frames)

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m watchModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m watchModel) renderContent() string {
	headerStyle := lipgloss.NewStyle().Foreground(m.theme.Header)
	dimStyle := lipgloss.NewStyle().Foreground(m.theme.Dim)

	header := headerStyle.Render(fmt.Sprintf("[%s]", m.frame.State)) +
		fmt.Sprintf(" frame %d  nodes %d  links %d  hulls %d  ",
			m.frame.Seq, len(m.frame.Nodes), len(m.frame.Links), len(m.frame.Hulls)) +
		m.progress.ViewAs(convergence(m.frame.Alpha, m.cfg.AlphaMin))

	hint := dimStyle.Render("r: reheat  q: quit")

	return header + "\n" + m.renderGrid() + "\n" + hint + "\n"
}

// renderGrid projects node positions onto the terminal cell grid.
func (m watchModel) renderGrid() string {
	cols := m.width
	rows := m.height - 3 // header + hint + padding
	if cols < 10 || rows < 5 {
		return "(terminal too small)"
	}

	type cell struct {
		glyph string
		style lipgloss.Style
	}
	grid := make([]*cell, cols*rows)

	glowStyle := lipgloss.NewStyle().Foreground(m.theme.Glow).Bold(true)
	for _, n := range m.frame.Nodes {
		cx := int(n.X / m.cfg.Width * float64(cols-1))
		cy := int(n.Y / m.cfg.Height * float64(rows-1))
		if cx < 0 || cx >= cols || cy < 0 || cy >= rows {
			continue
		}
		c := &cell{glyph: "●"}
		switch {
		case n.Glow > 0:
			c.style = glowStyle
		case n.Highlight != "":
			c.style = lipgloss.NewStyle().Foreground(lipgloss.Color(n.Highlight))
		default:
			c.style = lipgloss.NewStyle()
		}
		grid[cy*cols+cx] = c
	}

	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if c := grid[y*cols+x]; c != nil {
				b.WriteString(c.style.Render(c.glyph))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	snap, err := client.LoadFile(args[0])
	if err != nil {
		return err
	}
	graph, err := adapter.New(logger).Adapt(snap)
	if err != nil {
		return fmt.Errorf("adapt snapshot: %w", err)
	}

	layoutCfg, err := cfg.LayoutConfig()
	if err != nil {
		return err
	}

	mode := cfg.Mode
	if watchMode != "" {
		mode = layout.Mode(watchMode)
	}

	// Frames flow tick loop -> channel -> tea loop; a full channel
	// drops the frame so rendering lag never stalls the simulation.
	frames := make(chan render.Frame, 2)
	renderer := render.RendererFunc(func(f render.Frame) {
		select {
		case frames <- f:
		default:
		}
	})

	zoomCtrl := zoom.NewController(1.0, nil)
	sync := render.NewSync(graph, nil, zoomCtrl, renderer, nil)

	engine := layout.NewEngine(layoutCfg, logger, nil)
	sim, err := engine.Start(graph.Nodes, graph.Links, mode, sync.OnTick)
	if err != nil {
		return err
	}
	defer engine.Stop()

	p := tea.NewProgram(newWatchModel(frames, sim, layoutCfg))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("watch UI error: %w", err)
	}
	return nil
}
