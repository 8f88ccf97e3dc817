package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/clens/internal/config"
	"github.com/user/clens/internal/csvdata"
	"github.com/user/clens/internal/find"
	"github.com/user/clens/internal/input"
	"github.com/user/clens/internal/view"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Lines not available to data rows: table header, status bar, input line.
const chromeRows = 3

// How often the frame re-syncs with a background scan still in flight.
const refreshInterval = 100 * time.Millisecond

// ModelOptions configures a new Model.
type ModelOptions struct {
	Filename string // display name (the path the user gave)
	Path     string // effective path to read
	Comma    byte
	Debug    bool
}

// Model is the application frame loop: each update renders the current
// window, translates one key into a control, applies it to the view and
// finder, then re-syncs view state from finder progress.
type Model struct {
	reader  *csvdata.Reader
	view    *view.RowsView
	finder  *find.Finder
	handler *input.Handler

	textInput textinput.Model
	cfg       *config.Config
	table     *table
	printer   *message.Printer

	filename string
	debug    bool

	width  int
	height int

	colsRendered       int
	firstFoundScrolled bool

	statusStyle lipgloss.Style
	helpStyle   lipgloss.Style

	err error
}

// NewModel opens the effective path and builds the frame loop state.
func NewModel(opts ModelOptions) (*Model, error) {
	reader, err := csvdata.Open(opts.Path, opts.Comma)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Prompt = ""

	return &Model{
		reader:    reader,
		view:      view.New(reader, 24),
		handler:   input.NewHandler(),
		textInput: ti,
		cfg:       cfg,
		table:     newTable(reader.Headers(), cfg),
		printer:   message.NewPrinter(language.English),
		filename:  opts.Filename,
		debug:     opts.Debug,
		width:     80,
		height:    24,
		statusStyle: lipgloss.NewStyle().
			Background(lipgloss.Color(cfg.Theme.StatusBar)).
			Foreground(lipgloss.Color(cfg.Theme.StatusBarText)),
		helpStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.RowNumbers)),
	}, nil
}

// Err returns the error that ended the session, if any.
func (m *Model) Err() error {
	return m.err
}

// Close releases the reader.
func (m *Model) Close() error {
	return m.reader.Close()
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.SetNumRows(msg.Height - chromeRows)
		return m, nil

	case tickMsg:
		if m.err != nil {
			return m, tea.Quit
		}
		m.sync()
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.handler.Mode() != input.ModeDefault {
		switch msg.String() {
		case "enter":
			c := m.handler.Commit(m.textInput.Value())
			m.textInput.Blur()
			m.textInput.SetValue("")
			return m, m.apply(c)
		case "esc":
			c := m.handler.Cancel()
			m.textInput.Blur()
			m.textInput.SetValue("")
			return m, m.apply(c)
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		m.apply(m.handler.Buffer(m.textInput.Value()))
		return m, cmd
	}

	c := m.handler.Key(msg.String())
	if m.handler.Mode() != input.ModeDefault {
		m.textInput.SetValue("")
		m.textInput.Focus()
		m.apply(c)
		return m, textinput.Blink
	}
	return m, m.apply(c)
}

// apply dispatches one control, then re-syncs with the finder. The control
// set is closed; everything not listed is view-local scrolling handled by
// HandleControl.
func (m *Model) apply(c input.Control) tea.Cmd {
	if err := m.view.HandleControl(c); err != nil {
		m.err = err
		return tea.Quit
	}

	switch c.Kind {
	case input.Quit:
		return tea.Quit

	case input.ScrollToNextFound:
		if m.finder != nil && !m.view.IsFilter() {
			if rec, ok := m.finder.Next(); ok {
				m.scrollToFound(rec)
			}
		}

	case input.ScrollToPrevFound:
		if m.finder != nil && !m.view.IsFilter() {
			if rec, ok := m.finder.Prev(); ok {
				m.scrollToFound(rec)
			}
		}

	case input.Find:
		m.finder = find.New(m.reader, c.Text, find.ModeFind)
		m.firstFoundScrolled = false
		m.view.ResetFilter()

	case input.Filter:
		m.finder = find.New(m.reader, c.Text, find.ModeFilter)
		m.view.SetRowsFrom(0)
		m.view.SetFilter(m.finder)

	case input.BufferContent:
		// The buffer is rendered from the text input itself.

	case input.BufferReset:
		if m.finder != nil {
			m.finder = nil
			m.view.ResetFilter()
			m.view.ClearSelected()
		}
	}

	m.sync()
	return nil
}

// sync re-aligns view state with finder progress: scroll to the first
// result once one exists, drop the cursor when it leaves the view so the
// next jump anchors near the viewport, and keep the filter window fed as
// the match set grows.
func (m *Model) sync() {
	f := m.finder
	if f == nil {
		return
	}

	if m.view.IsFilter() {
		m.view.SetFilter(f)
		return
	}

	if !m.firstFoundScrolled && f.Count() > 0 {
		// Row hint 0 so this always lands on the first result.
		f.SetRowHint(0)
		if rec, ok := f.Next(); ok {
			m.scrollToFound(rec)
		}
		m.firstFoundScrolled = true
	}

	if row, ok := f.CursorRowIndex(); ok {
		if !m.view.InView(row) {
			f.ResetCursor()
		}
	}

	f.SetRowHint(m.view.RowsFrom())
}

// scrollToFound makes a found record visible, moving rows and columns only
// when the record is outside what is currently rendered.
func (m *Model) scrollToFound(rec find.FoundRecord) {
	if !m.view.InView(rec.RowIndex) {
		m.view.SetRowsFrom(rec.RowIndex)
	}
	last := m.view.ColsFrom() + m.colsRendered
	if rec.Column < m.view.ColsFrom() || rec.Column >= last {
		m.view.SetColsFrom(rec.Column)
	}
	m.view.SetSelected(rec.RowIndex)
}

// View implements tea.Model
func (m *Model) View() string {
	rows, err := m.view.Rows()
	if err != nil {
		m.err = err
		return fmt.Sprintf("Error: %v", err)
	}

	selected, hasSelected := m.view.Selected()
	content, rendered := m.table.render(
		rows, m.view.ColsFrom(), m.width, m.view.NumRows(), selected, hasSelected)
	m.colsRendered = rendered

	var b strings.Builder
	b.WriteString(content)
	b.WriteString(m.statusStyle.Width(m.width).Render(m.statusLine(len(rows))))
	b.WriteString("\n")
	b.WriteString(m.inputLine())
	return b.String()
}

func (m *Model) statusLine(visible int) string {
	var parts []string
	parts = append(parts, " "+m.filename)

	if total, ok := m.view.TotalLineNumbers(); ok {
		parts = append(parts, m.printer.Sprintf("%d rows", total))
	} else if approx, ok := m.view.TotalLineNumbersApprox(); ok {
		parts = append(parts, m.printer.Sprintf("~%d rows", approx))
	}

	if m.view.IsFilter() {
		parts = append(parts, fmt.Sprintf("filtered %d-%d/%d",
			m.view.RowsFrom()+1, m.view.RowsFrom()+visible, m.finder.Count()))
	} else {
		parts = append(parts, fmt.Sprintf("row %d", m.view.RowsFrom()+1))
	}

	if f := m.finder; f != nil {
		state := fmt.Sprintf("/%s [%d]", f.Pattern(), f.Count())
		if !f.Done() {
			state += "…"
		}
		parts = append(parts, state)
	}

	if m.debug {
		if d, ok := m.view.Elapsed(); ok {
			parts = append(parts, fmt.Sprintf("fetch %.1fms", float64(d.Microseconds())/1000.0))
		}
		if f := m.finder; f != nil {
			parts = append(parts, fmt.Sprintf("scan %.1fms", float64(f.Elapsed().Microseconds())/1000.0))
		}
	}

	return strings.Join(parts, "  ")
}

func (m *Model) inputLine() string {
	switch m.handler.Mode() {
	case input.ModeFind:
		return "/" + m.textInput.View()
	case input.ModeFilter:
		return "&" + m.textInput.View()
	case input.ModeGoto:
		return ":" + m.textInput.View()
	}
	help := "j/k:scroll  h/l:columns  g/G:top/bottom  /:find  &:filter  n/N:next/prev  ::goto  q:quit"
	return m.helpStyle.Render(help)
}
