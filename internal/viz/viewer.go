package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/flowsynth/internal/analysis"
	"github.com/san-kum/flowsynth/internal/augment"
	"github.com/san-kum/flowsynth/internal/field"
)

const playInterval = time.Second / 10

var componentNames = []string{"u", "v", "speed"}

type tickMsg time.Time

// Viewer is a Bubble Tea model that pages through the time slices of a run.
type Viewer struct {
	title    string
	pair     *field.Pair
	speed    *field.Field
	sensors  []augment.Coord
	series   []float64
	t        int
	comp     int
	cmap     int
	playing  bool
	showHelp bool
	width    int
	height   int
}

// NewViewer builds a viewer over p. Sensors are in the original frame.
func NewViewer(title string, p *field.Pair, sensors []augment.Coord) Viewer {
	v := Viewer{
		title:   title,
		pair:    p,
		sensors: sensors,
		width:   80,
		height:  24,
	}
	if !p.Scalar() {
		v.speed = p.Magnitude()
	}
	if len(sensors) > 0 {
		if s, err := analysis.Probe(p.U, sensors[0]); err == nil {
			v.series = s
		}
	}
	return v
}

func (v Viewer) Init() tea.Cmd { return nil }

func tick() tea.Cmd {
	return tea.Tick(playInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
	case tickMsg:
		if !v.playing {
			return v, nil
		}
		v.t = (v.t + 1) % max(v.frames(), 1)
		return v, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return v, tea.Quit
		case "right", "l":
			v.t = min(v.t+1, max(v.frames()-1, 0))
		case "left", "h":
			v.t = max(v.t-1, 0)
		case "home", "g":
			v.t = 0
		case "end", "G":
			v.t = max(v.frames()-1, 0)
		case " ":
			v.playing = !v.playing
			if v.playing {
				return v, tick()
			}
		case "c":
			v.comp = (v.comp + 1) % v.components()
		case "m":
			v.cmap = (v.cmap + 1) % len(Colormaps)
		case "?":
			v.showHelp = !v.showHelp
		}
	}
	return v, nil
}

func (v Viewer) frames() int { return v.pair.U.T }

func (v Viewer) components() int {
	if v.pair.Scalar() {
		return 1
	}
	return len(componentNames)
}

// Frame is the current time index.
func (v Viewer) Frame() int { return v.t }

// Component names the field being displayed.
func (v Viewer) Component() string { return componentNames[v.comp] }

func (v Viewer) current() *field.Field {
	switch v.comp {
	case 1:
		return v.pair.V
	case 2:
		return v.speed
	}
	return v.pair.U
}

func (v Viewer) View() string {
	f := v.current()
	cm := Colormaps[v.cmap]

	opts := HeatmapOptions{
		MaxWidth:  max(v.width-50, 16),
		MaxHeight: max(v.height-4, 8),
		Colormap:  cm,
	}
	mapView := lipgloss.NewStyle().Padding(1, 2).Render(Heatmap(f, v.t, v.sensors, opts))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(v.title)) + "\n")
	if v.playing {
		s.WriteString(statusStyle.Render("PLAYING") + "\n\n")
	} else {
		s.WriteString(pausedStyle.Render("PAUSED") + "\n\n")
	}

	n := v.frames()
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d/%d", v.t+1, n)) + "\n")
	if n > 1 {
		s.WriteString(ProgressBar(float64(v.t)/float64(n-1), 24) + "\n")
	}
	s.WriteString(labelStyle.Render("Component") + valueStyle.Render(v.Component()) + "\n")
	s.WriteString(labelStyle.Render("Colormap") + valueStyle.Render(cm.Name) + "\n")

	if n > 0 {
		slice := &field.Field{T: 1, Nx: f.Nx, Ny: f.Ny, Data: f.Slice(v.t)}
		st := analysis.Stats(slice)
		s.WriteString(labelStyle.Render("Min") + valueStyle.Render(fmt.Sprintf("%.4g", st.Min)) + "\n")
		s.WriteString(labelStyle.Render("Max") + valueStyle.Render(fmt.Sprintf("%.4g", st.Max)) + "\n")
		s.WriteString(labelStyle.Render("Mean") + valueStyle.Render(fmt.Sprintf("%.4g", st.Mean)) + "\n")
	}

	if len(v.series) > 1 {
		chart := asciigraph.Plot(v.series,
			asciigraph.Height(4), asciigraph.Width(30),
			asciigraph.Caption(fmt.Sprintf("u at sensor %s", v.sensors[0])))
		s.WriteString(graphStyle.Render(chart) + "\n")
		s.WriteString(Sparkline(v.series[:v.t+1], 30) + "\n")
	}

	s.WriteString(helpStyle.Render("←→:Step SP:Play C:Component M:Colormap ?:Help Q:Quit"))
	body := lipgloss.JoinHorizontal(lipgloss.Top, mapView, panelStyle.Render(s.String()))

	if v.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  ←/h  →/l  - Previous/next slice     ║
║  g / G     - First/last slice        ║
║  Space     - Play/Pause              ║
║  C         - Cycle u, v, speed       ║
║  M         - Cycle colormap          ║
║  ?         - Toggle this help        ║
║  Q         - Quit                    ║
╚══════════════════════════════════════╝
` + "\n" + body
	}
	return body
}

// Run starts an interactive viewer on the terminal.
func Run(v Viewer) error {
	_, err := tea.NewProgram(v, tea.WithAltScreen()).Run()
	return err
}
