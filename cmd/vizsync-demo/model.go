package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hupe1980/vizsync"
	"github.com/hupe1980/vizsync/bus"
	"github.com/hupe1980/vizsync/internal/resource"
	"github.com/hupe1980/vizsync/loader"
	"github.com/hupe1980/vizsync/model"
	"github.com/hupe1980/vizsync/timecursor"
	"github.com/hupe1980/vizsync/view"
)

// brushSpan is the half-width of a keyboard brush as a fraction of the axis
// domain.
const brushSpan = 0.1

type loadMsg struct {
	res loader.Result
}

type prefetchMsg struct{}

// playMsg and playStopMsg carry the playback session that produced them so
// ticks of a stopped session are ignored.
type playMsg struct{ session int }

type playStopMsg struct{ session int }

type demoModel struct {
	c       *vizsync.Coordinator
	metrics *vizsync.BasicMetricsCollector
	rc      *resource.Controller

	main  *view.Binding
	mini  *view.Binding
	table *selectionTable

	// fetcher serves the active pack and options. It is dropped on every
	// data change.
	fetcher *loader.Fetcher

	player     *timecursor.Player
	playing    bool
	session    int
	playCtx    context.Context
	playCancel context.CancelFunc

	axis, row     int
	width, height int
	help          help.Model
	status        string
}

func newModel(c *vizsync.Coordinator, metrics *vizsync.BasicMetricsCollector, rc *resource.Controller, interval time.Duration) (*demoModel, error) {
	main, err := c.Bind("main")
	if err != nil {
		return nil, err
	}
	mini, err := c.Bind("mini", view.WithSubset())
	if err != nil {
		return nil, err
	}
	table, err := newSelectionTable(c.Bus())
	if err != nil {
		return nil, err
	}
	m := &demoModel{
		c:       c,
		metrics: metrics,
		rc:      rc,
		main:    main,
		mini:    mini,
		table:   table,
		player:  timecursor.NewPlayer(interval),
		help:    help.New(),
	}
	if _, err := bus.On(c.Bus(), bus.DataChanged, func(uint64, bus.DataChange) { m.fetcher = nil }); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *demoModel) frameFetcher() *loader.Fetcher {
	if m.fetcher == nil {
		m.fetcher = loader.NewFetcher(m.c.Source(), loader.WithResourceController(m.rc))
	}
	return m.fetcher
}

func (m *demoModel) Init() tea.Cmd {
	return nil
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case loadMsg:
		if !m.c.ApplyLoad(msg.res) {
			if msg.res.Err != nil {
				m.status = fmt.Sprintf("load %d failed: %v", msg.res.Ticket.Index, msg.res.Err)
			}
		}
		m.clampFocus()
		return m, nil
	case prefetchMsg:
		return m, nil
	case playMsg:
		if !m.playing || msg.session != m.session {
			return m, nil
		}
		m.c.StepTime(1)
		m.clampFocus()
		return m, m.nextTick()
	case playStopMsg:
		if msg.session == m.session {
			m.stopPlayback()
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *demoModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.status = ""
	switch {
	case key.Matches(msg, keys.Quit):
		m.stopPlayback()
		return tea.Quit
	case key.Matches(msg, keys.AxisLeft):
		m.moveAxis(-1)
	case key.Matches(msg, keys.AxisRight):
		m.moveAxis(1)
	case key.Matches(msg, keys.RowUp):
		m.moveRow(-1)
	case key.Matches(msg, keys.RowDown):
		m.moveRow(1)
	case key.Matches(msg, keys.Brush):
		m.brushFocused()
	case key.Matches(msg, keys.ClearBrush):
		if dim, ok := m.focusedDim(); ok {
			m.c.ClearAxisFilter(dim)
		}
	case key.Matches(msg, keys.DragLeft):
		m.dragFocused(-1)
	case key.Matches(msg, keys.DragRight):
		m.dragFocused(1)
	case key.Matches(msg, keys.Click):
		if r, ok := m.focusedRow(); ok {
			m.c.Click(r.Key, false)
		}
	case key.Matches(msg, keys.ClickAdd):
		if r, ok := m.focusedRow(); ok {
			m.c.Click(r.Key, true)
		}
	case key.Matches(msg, keys.AddMode):
		m.c.ToggleAddMode()
	case key.Matches(msg, keys.Clear):
		m.c.ClearHighlight()
		m.c.ClearSelection()
	case key.Matches(msg, keys.PrevTime):
		return m.requestStep(-1)
	case key.Matches(msg, keys.NextTime):
		return m.requestStep(1)
	case key.Matches(msg, keys.Play):
		return m.togglePlayback()
	}
	m.clampFocus()
	return nil
}

func (m *demoModel) focusedDim() (string, bool) {
	dims := m.main.Dimensions()
	if m.axis < 0 || m.axis >= len(dims) {
		return "", false
	}
	return dims[m.axis], true
}

func (m *demoModel) focusedRow() (model.Row, bool) {
	rows := m.main.Visible()
	if m.row < 0 || m.row >= len(rows) {
		return model.Row{}, false
	}
	return rows[m.row], true
}

func (m *demoModel) moveAxis(delta int) {
	m.axis += delta
	m.clampFocus()
}

// moveRow moves the row focus and highlights the focused row.
func (m *demoModel) moveRow(delta int) {
	m.row += delta
	m.clampFocus()
	if r, ok := m.focusedRow(); ok {
		m.c.HighlightKeys(r.Key)
	}
}

func (m *demoModel) clampFocus() {
	m.axis = clampIndex(m.axis, len(m.main.Dimensions()))
	m.row = clampIndex(m.row, len(m.main.Visible()))
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// brushFocused runs a full range gesture around the focused row's value on
// the focused axis.
func (m *demoModel) brushFocused() {
	dim, ok := m.focusedDim()
	if !ok {
		return
	}
	r, ok := m.focusedRow()
	if !ok {
		return
	}
	v, _ := r.Value(dim)
	low, high := m.main.Domain(dim)
	span := (high - low) * brushSpan

	if err := m.c.BeginBrush(dim); err != nil {
		m.status = err.Error()
		return
	}
	if err := m.c.MoveBrush(dim, v-span, v+span); err != nil {
		m.c.CancelBrush(dim)
		m.status = err.Error()
		return
	}
	m.c.EndBrush(dim)
	m.row = 0
}

// dragFocused drags the focused axis past its neighbour in direction dir.
func (m *demoModel) dragFocused(dir int) {
	dim, ok := m.focusedDim()
	if !ok {
		return
	}
	dims := m.c.Dimensions()
	pos, _ := m.c.AxisPosition(dim)
	step := m.c.ViewOptions().LayoutWidth() / float64(len(dims))

	if err := m.c.BeginDrag(dim); err != nil {
		m.status = err.Error()
		return
	}
	if _, err := m.c.DragTo(pos + float64(dir)*1.5*step); err != nil {
		m.c.AbortDrag()
		m.status = err.Error()
		return
	}
	if err := m.c.EndDrag(true); err != nil {
		m.status = err.Error()
		return
	}
	for i, d := range m.c.Dimensions() {
		if d == dim {
			m.axis = i
		}
	}
}

// requestStep loads the neighbouring frame asynchronously and warms the
// frames around it.
func (m *demoModel) requestStep(delta int) tea.Cmd {
	n := len(m.c.TimeLabels())
	if n == 0 {
		return nil
	}
	next := ((m.c.Index()+delta)%n + n) % n
	t, err := m.c.RequestFrame(next)
	if err != nil {
		m.status = err.Error()
		return nil
	}

	f := m.frameFetcher()
	ctx := context.Background()
	load := func() tea.Msg {
		return loadMsg{res: f.Fetch(ctx, t)}
	}
	var around []int
	for _, i := range []int{next - 1, next + 1} {
		if i >= 0 && i < n {
			around = append(around, i)
		}
	}
	prefetch := func() tea.Msg {
		_ = f.Prefetch(ctx, around, 2)
		return prefetchMsg{}
	}
	return tea.Batch(load, prefetch)
}

func (m *demoModel) togglePlayback() tea.Cmd {
	if m.playing {
		m.stopPlayback()
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.playing = true
	m.session++
	m.playCtx, m.playCancel = ctx, cancel
	m.player.Reset()
	return m.nextTick()
}

func (m *demoModel) stopPlayback() {
	if m.playCancel != nil {
		m.playCancel()
		m.playCtx, m.playCancel = nil, nil
	}
	m.playing = false
}

// nextTick waits for the player's next tick off the update loop. The cursor
// itself is only stepped in Update.
func (m *demoModel) nextTick() tea.Cmd {
	ctx, p, session := m.playCtx, m.player, m.session
	if ctx == nil {
		return nil
	}
	return func() tea.Msg {
		if err := p.Next(ctx); err != nil {
			return playStopMsg{session: session}
		}
		return playMsg{session: session}
	}
}
