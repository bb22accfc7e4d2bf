// Package tui implements the full-screen contact browser.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/rolodex/internal/contact"
)

// CursorMarker is the prefix shown on the selected contact row.
const CursorMarker = "▸ "

// headerHeight is the number of lines used by the title line.
const headerHeight = 1

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// errBadQuery is returned by ParseQuery for input without a field=value shape.
var errBadQuery = errors.New("search must look like field=value")

// Model is the Bubble Tea model for browsing a contact store.
// All store access happens in Update and View, on the Bubble Tea goroutine.
type Model struct {
	store     *contact.Store
	title     string
	shown     []contact.Person
	cursor    int
	query     string // active filter, "" when showing everything
	searching bool
	searchErr error
	input     textinput.Model
	help      help.Model
	keys      browseKeys
	width     int
	height    int
}

// NewModel creates a browser over store. title labels the header, typically
// the file the contacts came from.
func NewModel(store *contact.Store, title string) Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "name=Ada Lovelace"

	return Model{
		store: store,
		title: title,
		shown: store.All(),
		input: ti,
		help:  help.New(),
		keys:  BrowseKeyMap(),
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles window size and key messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 2
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if len(m.shown) > 0 {
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.shown) - 1
			}
		}

	case key.Matches(msg, m.keys.Down):
		if len(m.shown) > 0 {
			m.cursor++
			if m.cursor >= len(m.shown) {
				m.cursor = 0
			}
		}

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchErr = nil
		m.input.SetValue(m.query)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		m.query = ""
		m.searchErr = nil
		m.shown = m.store.All()
		m.cursor = 0
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sk := SearchKeyMap()
	switch {
	case key.Matches(msg, sk.Submit):
		m.searching = false
		m.input.Blur()
		m.applyQuery(m.input.Value())
		return m, nil

	case key.Matches(msg, sk.Cancel):
		m.searching = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyQuery filters the list by q. An empty query shows everything; a
// malformed one leaves the list as it was and records the error.
func (m *Model) applyQuery(q string) {
	if strings.TrimSpace(q) == "" {
		m.query = ""
		m.searchErr = nil
		m.shown = m.store.All()
		m.cursor = 0
		return
	}

	field, value, err := ParseQuery(q)
	if err != nil {
		m.searchErr = err
		return
	}
	m.query = q
	m.searchErr = nil
	m.shown = m.store.Search(field, value)
	m.cursor = 0
}

// ParseQuery splits "field=value" at the first '='. Field and value are kept
// exactly as typed, so an unknown or wrong-case field or a stray space simply
// matches nothing.
func ParseQuery(q string) (contact.Field, string, error) {
	rawField, value, ok := strings.Cut(q, "=")
	if !ok || rawField == "" {
		return "", "", errBadQuery
	}
	field, _ := contact.ParseField(rawField)
	return field, value, nil
}

// Selected returns the contact under the cursor, or false if the list is empty.
func (m Model) Selected() (contact.Person, bool) {
	if m.cursor < 0 || m.cursor >= len(m.shown) {
		return contact.Person{}, false
	}
	return m.shown[m.cursor], true
}

// contentHeight returns the usable height for pane content,
// accounting for header, border chrome and the help bar.
func (m Model) contentHeight() int {
	h := m.height - headerHeight - borderChrome - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// View renders the header, the list and detail panes, and the help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	leftStyle := ListBorder().
		Width(leftWidth - borderChrome).
		Height(contentHeight)
	rightStyle := DetailBorder().
		Width(rightWidth - borderChrome).
		Height(contentHeight)

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Render(m.viewList(contentHeight)),
		rightStyle.Render(m.viewDetail()),
	)

	return lipgloss.JoinVertical(lipgloss.Left, m.viewHeader(), panes, m.viewFooter())
}

func (m Model) viewHeader() string {
	header := headerText.Render(m.title)
	count := fmt.Sprintf(" %d of %d contacts", len(m.shown), m.store.Len())
	if m.query != "" {
		count += " matching " + strconv.Quote(m.query)
	}
	return header + mutedText.Render(count)
}

func (m Model) viewFooter() string {
	switch {
	case m.searching:
		return m.input.View()
	case m.searchErr != nil:
		return errorText.Render(m.searchErr.Error())
	default:
		return m.help.View(m.keys)
	}
}

// viewList renders contact names, scrolled so the cursor stays visible.
func (m Model) viewList(height int) string {
	if len(m.shown) == 0 {
		if m.store.Len() == 0 {
			return "No contacts available."
		}
		return "No matching contacts found."
	}

	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := start + height
	if end > len(m.shown) {
		end = len(m.shown)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		name := m.shown[i].Name
		if name == "" {
			name = mutedText.Render("(no name)")
		}
		if i == m.cursor {
			b.WriteString(cursorText.Render(CursorMarker + name))
		} else {
			b.WriteString("  " + name)
		}
	}
	return b.String()
}

func (m Model) viewDetail() string {
	p, ok := m.Selected()
	if !ok {
		return ""
	}
	rows := []struct{ label, value string }{
		{"Name", p.Name},
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Address", p.Address},
		{"Age", strconv.Itoa(p.Age)},
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = labelText.Render(r.label) + r.value
	}
	return strings.Join(lines, "\n")
}
