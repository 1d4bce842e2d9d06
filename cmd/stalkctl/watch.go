package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/stalkbot/pkg/motion"
)

type WatchCommand struct {
	Demo string `long:"demo" choice:"left" choice:"right" description:"Run the blind demonstration for a side instead of a detected approach"`
	Hold bool   `long:"hold" description:"Stay clamped after the approach"`
}

// The watch screen stacks a status row, the framed chart, the legend and a
// framed tail of log lines. Everything but the chart has a fixed height.
const (
	statusRows   = 1
	legendRows   = 1
	tailLines    = 4
	frameRows    = 2 // top and bottom border of a framed pane
	borderCols   = 2
	frameCols    = borderCols + 2 // plus one column of padding each side
	fixedRows    = statusRows + legendRows + tailLines + frameRows
	minChartCols = 32
	minChartRows = 8
	logBuffer    = 64
)

// Axis series of the commanded tool offset since the last joint move.
const (
	seriesX = "x"
	seriesY = "y"
	seriesZ = "z"
)

var axisColors = map[string]string{
	seriesX: "196", // red
	seriesY: "46",  // green
	seriesZ: "51",  // cyan
}

var paneStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

// lineWriter forwards each write as one log line, dropping lines when the
// view falls behind.
type lineWriter chan string

func (w lineWriter) Write(p []byte) (int, error) {
	line := string(bytes.TrimRight(p, "\n"))
	select {
	case w <- line:
	default:
	}
	return len(p), nil
}

type watchModel struct {
	title    string
	events   <-chan motion.Event
	logs     lineWriter
	done     chan error
	chart    *streamlinechart.Model
	width    int
	height   int
	tail     []string
	step     string
	offset   [3]float64
	result   error
	finished bool
	quitting bool
}

type eventMsg motion.Event
type logMsg string
type doneMsg struct{ err error }

func waitForEvent(ch <-chan motion.Event) tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-ch)
	}
}

func waitForLog(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ch)
	}
}

func waitForDone(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: <-ch}
	}
}

// note keeps the last tailLines messages; multi-line messages count once
// per line.
func (m *watchModel) note(msg string) {
	m.tail = append(m.tail, strings.Split(msg, "\n")...)
	if n := len(m.tail) - tailLines; n > 0 {
		m.tail = m.tail[n:]
	}
}

// chartArea is what is left of a w x h terminal for the chart plot.
func chartArea(w, h int) (cols, rows int) {
	if w == 0 || h == 0 {
		return 80, 20
	}
	return max(w-frameCols, minChartCols), max(h-fixedRows-frameRows, minChartRows)
}

// apply accumulates a relative step into the plotted offset. A joint move
// lands on a named configuration and resets the offset.
func (m *watchModel) apply(ev motion.Event) {
	if ev.Err != nil {
		return
	}
	if ev.Joints != nil {
		m.offset = [3]float64{}
	} else {
		d := ev.Delta.Translation
		m.offset[0] += d.X
		m.offset[1] += d.Y
		m.offset[2] += d.Z
	}
	m.chart.PushDataSet(seriesX, m.offset[0])
	m.chart.PushDataSet(seriesY, m.offset[1])
	m.chart.PushDataSet(seriesZ, m.offset[2])
	m.chart.DrawAll()
}

func newWatchModel(title string, events <-chan motion.Event, logs lineWriter, done chan error) watchModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-300, 300),
	)
	for _, name := range []string{seriesX, seriesY, seriesZ} {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(axisColors[name]))
		chart.SetDataSetStyles(name, runes.ThinLineStyle, style)
	}
	return watchModel{
		title:  title,
		events: events,
		logs:   logs,
		done:   done,
		chart:  &chart,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.events),
		waitForLog(m.logs),
		waitForDone(m.done),
	)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chart.Resize(chartArea(m.width, m.height))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case eventMsg:
		ev := motion.Event(msg)
		m.step = fmt.Sprintf("%s %d/%d %s", ev.Phase, ev.Index, ev.Total, ev.Intent)
		m.apply(ev)
		return m, waitForEvent(m.events)

	case logMsg:
		m.note(string(msg))
		return m, waitForLog(m.logs)

	case doneMsg:
		m.finished = true
		m.result = msg.err
		if msg.err != nil {
			m.note(renderFailure(msg.err))
		} else {
			m.note(successStyle.Render("Sequence complete. Press 'q' to quit."))
		}
		return m, nil
	}

	return m, nil
}

func (m watchModel) View() string {
	if m.quitting {
		return "Watch stopped.\n"
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(m.title))
	if m.step != "" {
		sb.WriteString(dimStyle.Render("  " + m.step))
	}
	sb.WriteString("\n")
	sb.WriteString(paneStyle.Render(m.chart.View()))
	sb.WriteString("\n")
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	tail := dimStyle.Render("Press 'q' to quit")
	if len(m.tail) > 0 {
		tail = strings.Join(m.tail, "\n")
	}
	sb.WriteString(paneStyle.
		Width(max(m.width-borderCols, minChartCols)).
		Height(tailLines).
		Render(tail))
	sb.WriteString("\n")
	return sb.String()
}

func renderLegend() string {
	var items []string
	for _, name := range []string{seriesX, seriesY, seriesZ} {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(axisColors[name])).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+name+" mm")
	}
	return strings.Join(items, "  ")
}

func (c *WatchCommand) Execute(args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	logs := make(lineWriter, logBuffer)
	r, err := connect(ctx, logs)
	if err != nil {
		return err
	}

	title := "stalkctl watch - approach"
	if c.Demo != "" {
		title = "stalkctl watch - " + c.Demo + " demo"
	}

	done := make(chan error, 1)
	go func() {
		done <- c.run(ctx, r)
	}()

	p := tea.NewProgram(newWatchModel(title, r.seq.Events(), logs, done), tea.WithAltScreen())
	final, err := p.Run()
	cancel()
	if err != nil {
		return fmt.Errorf("run watch view: %w", err)
	}
	if wm, ok := final.(watchModel); ok && wm.finished {
		return wm.result
	}
	return nil
}

func (c *WatchCommand) run(ctx context.Context, r *rig) error {
	if c.Demo != "" {
		return r.seq.Demo(ctx, motion.Side(c.Demo))
	}

	_, state, err := r.seq.Approach(ctx, r.perception(), r.cfg.PerceptionTimeout())
	if err != nil {
		return err
	}
	if c.Hold {
		return nil
	}
	return r.seq.ExecuteReverse(ctx, state)
}
