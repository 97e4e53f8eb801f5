package main

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/buoy-ui/buoy/internal/config"
	"github.com/buoy-ui/buoy/pkg/anchor"
	"github.com/buoy-ui/buoy/pkg/geom"
)

func playCmd() *cobra.Command {
	var scenarioPath string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Interactive placement playground",
		Long: `Explore the positioning pipeline in the terminal.

The playground draws the boundary, the trigger, and the floating element
to scale, recomputing the placement as you move the trigger around. Use
it to see where flip takes over near an edge, how shift clamps, and how
the arrow tracks the trigger.

Scenario presets come from the same YAML format as 'buoy bench', from
playground.scenarios in buoy.json, or from a built-in set.

Keys:
  arrows, hjkl   move the trigger
  p              cycle the requested placement
  f, s, z, a     toggle flip, shift, size, arrow
  tab            next scenario preset
  q, esc         quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(scenarioPath)
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenarios", "", "YAML scenario file (default: buoy.json setting, then built-in set)")

	return cmd
}

func runPlay(scenarioPath string) error {
	if scenarioPath == "" {
		if cfg, err := config.LoadFromWorkingDir(); err == nil {
			scenarioPath = cfg.ScenariosPath()
		}
	}
	scenarios, err := loadScenarios(scenarioPath)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newPlayModel(scenarios), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// playPlacements is the cycling order for the p key.
var playPlacements = []string{
	"bottom", "bottom-start", "bottom-end",
	"top", "top-start", "top-end",
	"right", "right-start", "right-end",
	"left", "left-start", "left-end",
}

// playStep is how far one keypress moves the trigger, in boundary pixels.
const playStep = 16

var (
	playTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	playLabelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	playValueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	playHintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	playTriggerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	playFloatingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	playArrowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	playBoxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

type playModel struct {
	scenarios []benchScenario
	current   int

	trigger      geom.Rect
	floating     geom.Size
	boundary     geom.Rect
	placementIdx int
	offset       float64
	skidding     float64
	flip         bool
	shift        bool
	size         bool
	arrow        bool

	width  int
	height int

	result anchor.Result
}

func newPlayModel(scenarios []benchScenario) playModel {
	m := playModel{scenarios: scenarios, width: 80, height: 24}
	m.loadScenario(0)
	return m
}

func (m *playModel) loadScenario(idx int) {
	sc := &m.scenarios[idx]
	m.current = idx
	m.trigger = geom.Rect{
		Left: sc.Trigger.Left, Top: sc.Trigger.Top,
		Width: sc.Trigger.Width, Height: sc.Trigger.Height,
	}
	m.floating = geom.Size{Width: sc.Floating.Width, Height: sc.Floating.Height}
	m.boundary = geom.Rect{Width: sc.Boundary.Width, Height: sc.Boundary.Height}
	m.offset = sc.Offset
	m.skidding = sc.Skidding
	m.flip = sc.Flip
	m.shift = sc.Shift
	m.size = sc.Size
	m.arrow = sc.Arrow
	m.placementIdx = placementIndex(sc.Placement)
	m.recompute()
}

// placementIndex maps a scenario token onto the cycling list.
func placementIndex(token string) int {
	want := anchor.ParsePlacement(token).String()
	for i, p := range playPlacements {
		if p == want {
			return i
		}
	}
	return 0
}

func (m *playModel) config() anchor.Config {
	return anchor.Config{
		Placement: anchor.ParsePlacement(playPlacements[m.placementIdx]),
		Offset:    m.offset,
		Skidding:  m.skidding,
		Flip:      m.flip,
		Shift:     m.shift,
		Size:      m.size,
		Arrow:     m.arrow,
		ArrowSize: geom.Size{Width: 12, Height: 6},
		Boundary:  m.boundary,
	}
}

func (m *playModel) recompute() {
	floating := geom.Rect{Width: m.floating.Width, Height: m.floating.Height}
	m.result = anchor.Compute(m.trigger, floating, m.config())
}

func (m *playModel) moveTrigger(dx, dy float64) {
	m.trigger.Left = geom.Clamp(m.trigger.Left+dx, 0, m.boundary.Width-m.trigger.Width)
	m.trigger.Top = geom.Clamp(m.trigger.Top+dy, 0, m.boundary.Height-m.trigger.Height)
	m.recompute()
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.moveTrigger(-playStep, 0)
		case "right", "l":
			m.moveTrigger(playStep, 0)
		case "up", "k":
			m.moveTrigger(0, -playStep)
		case "down", "j":
			m.moveTrigger(0, playStep)
		case "p":
			m.placementIdx = (m.placementIdx + 1) % len(playPlacements)
			m.recompute()
		case "f":
			m.flip = !m.flip
			m.recompute()
		case "s":
			m.shift = !m.shift
			m.recompute()
		case "z":
			m.size = !m.size
			m.recompute()
		case "a":
			m.arrow = !m.arrow
			m.recompute()
		case "tab":
			m.loadScenario((m.current + 1) % len(m.scenarios))
		}
		return m, nil
	}
	return m, nil
}

func (m playModel) View() string {
	const sidebarWidth = 32

	mapW := m.width - sidebarWidth - 9
	if mapW < 20 {
		mapW = 20
	}
	if mapW > 96 {
		mapW = 96
	}
	mapH := m.height - 4
	if mapH < 10 {
		mapH = 10
	}
	if mapH > 36 {
		mapH = 36
	}

	mapBox := playBoxStyle.Render(m.renderMap(mapW, mapH))
	sidebar := playBoxStyle.Width(sidebarWidth).Render(m.renderSidebar())
	body := lipgloss.JoinHorizontal(lipgloss.Top, mapBox, " ", sidebar)

	hints := playHintStyle.Render("  arrows/hjkl:move  p:placement  f:flip  s:shift  z:size  a:arrow  tab:scenario  q:quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, hints)
}

// renderMap draws the boundary to scale with the trigger, the floating
// element, and the arrow.
func (m playModel) renderMap(mapW, mapH int) string {
	grid := make([][]rune, mapH)
	for y := range grid {
		grid[y] = make([]rune, mapW)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	scaleX := m.boundary.Width / float64(mapW)
	scaleY := m.boundary.Height / float64(mapH)

	if !m.result.Hidden {
		fillGrid(grid, m.floatingRect(), scaleX, scaleY, '░')
		if m.result.Arrow != nil {
			arrowRect := geom.Rect{
				Left:   m.result.X + m.result.Arrow.X,
				Top:    m.result.Y + m.result.Arrow.Y,
				Width:  12,
				Height: 6,
			}
			fillGrid(grid, arrowRect, scaleX, scaleY, '◆')
		}
	}
	fillGrid(grid, m.trigger, scaleX, scaleY, '█')

	var sb strings.Builder
	for y, row := range grid {
		if y > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(styleMapRow(string(row)))
	}
	return sb.String()
}

// floatingRect is the floating element at its computed position, shrunk to
// the size limits when those are in play.
func (m playModel) floatingRect() geom.Rect {
	w, h := m.floating.Width, m.floating.Height
	if m.result.Limits != nil {
		w = math.Min(w, m.result.Limits.MaxWidth)
		h = math.Min(h, m.result.Limits.MaxHeight)
	}
	return geom.Rect{Left: m.result.X, Top: m.result.Y, Width: w, Height: h}
}

func fillGrid(grid [][]rune, r geom.Rect, scaleX, scaleY float64, ch rune) {
	x0 := int(r.Left / scaleX)
	y0 := int(r.Top / scaleY)
	x1 := int((r.Left + r.Width) / scaleX)
	y1 := int((r.Top + r.Height) / scaleY)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	for y := y0; y < y1; y++ {
		if y < 0 || y >= len(grid) {
			continue
		}
		for x := x0; x < x1; x++ {
			if x < 0 || x >= len(grid[y]) {
				continue
			}
			grid[y][x] = ch
		}
	}
}

// styleMapRow colors runs of map characters. Consecutive cells of the same
// kind share one escape sequence.
func styleMapRow(row string) string {
	style := func(r rune) (lipgloss.Style, bool) {
		switch r {
		case '█':
			return playTriggerStyle, true
		case '░':
			return playFloatingStyle, true
		case '◆':
			return playArrowStyle, true
		}
		return lipgloss.Style{}, false
	}

	var sb strings.Builder
	runes := []rune(row)
	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && runes[j] == runes[i] {
			j++
		}
		run := string(runes[i:j])
		if st, ok := style(runes[i]); ok {
			sb.WriteString(st.Render(run))
		} else {
			sb.WriteString(run)
		}
		i = j
	}
	return sb.String()
}

func (m playModel) renderSidebar() string {
	sc := m.scenarios[m.current]
	res := m.result

	resolved := res.Placement.String()
	if res.Flipped {
		resolved += " (flipped)"
	}
	hidden := "no"
	if res.Hidden {
		hidden = "yes"
	}

	var b strings.Builder
	b.WriteString(playTitleStyle.Render("Buoy Playground"))
	b.WriteString("\n\n")
	writePlayRow(&b, "Scenario", fmt.Sprintf("%s (%d/%d)", sc.Name, m.current+1, len(m.scenarios)))
	writePlayRow(&b, "Requested", playPlacements[m.placementIdx])
	writePlayRow(&b, "Resolved", resolved)
	writePlayRow(&b, "Trigger", fmt.Sprintf("%.0f,%.0f %gx%g", m.trigger.Left, m.trigger.Top, m.trigger.Width, m.trigger.Height))
	writePlayRow(&b, "Floating", fmt.Sprintf("%.0f,%.0f %gx%g", res.X, res.Y, m.floating.Width, m.floating.Height))
	if res.Arrow != nil {
		writePlayRow(&b, "Arrow", fmt.Sprintf("%.0f,%.0f", res.Arrow.X, res.Arrow.Y))
	}
	if res.Limits != nil {
		writePlayRow(&b, "Limits", fmt.Sprintf("%.0fx%.0f", res.Limits.MaxWidth, res.Limits.MaxHeight))
	}
	writePlayRow(&b, "Hidden", hidden)
	b.WriteString("\n")
	writePlayRow(&b, "Flip [f]", onOff(m.flip))
	writePlayRow(&b, "Shift [s]", onOff(m.shift))
	writePlayRow(&b, "Size [z]", onOff(m.size))
	writePlayRow(&b, "Arrow [a]", onOff(m.arrow))
	return b.String()
}

func writePlayRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%s %s\n",
		playLabelStyle.Render(fmt.Sprintf("%-10s", label)),
		playValueStyle.Render(value))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
