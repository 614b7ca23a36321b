package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/contactbook/internal/form"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// statusBarHeight is the number of lines reserved for the status line.
const statusBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// listHeaderHeight is the title line plus the blank line under it.
const listHeaderHeight = 2

// Model is the root Bubble Tea model for the address book.
// It re-reads the store after every mutation instead of patching its own copy.
type Model struct {
	store   ContactStore
	checker *form.Checker
	path    string

	list  listState
	form  formState
	focus Focus
	mode  Mode

	notice    string
	status    string
	statusErr bool

	width  int
	height int
	help   help.Model
}

// Option configures a Model.
type Option func(*Model)

// WithPath sets the persistence file path shown in the status line.
func WithPath(path string) Option {
	return func(m *Model) {
		m.path = path
	}
}

// WithChecker replaces the input checker.
func WithChecker(c *form.Checker) Option {
	return func(m *Model) {
		if c != nil {
			m.checker = c
		}
	}
}

// NewModel creates a Model over store with the form focused on the name field.
func NewModel(store ContactStore, opts ...Option) Model {
	m := Model{
		store:   store,
		checker: form.NewChecker(),
		list:    newListState(store.List()),
		form:    newFormState(),
		focus:   FocusForm,
		help:    help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.form, _ = m.form.focus()
	if err := store.Err(); err != nil {
		m.setStatus(fmt.Sprintf("Could not load contacts: %v", err), true)
	}
	return m
}

// Init starts the cursor blink in the focused field.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages with mode- and focus-based routing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		_, formWidth := PaneWidths(msg.Width)
		m.form = m.form.setWidth(formWidth - borderChrome)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other input housekeeping.
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// handleKey processes key messages with global, notice, and pane routing.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, quitKey) {
		return m, tea.Quit
	}

	if m.mode == ModeNotice {
		if key.Matches(msg, NoticeKeyMap().Dismiss) {
			m.mode = ModeNormal
			m.notice = ""
		}
		return m, nil
	}

	if m.focus == FocusForm {
		return m.handleFormKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := FormKeyMap()
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, keys.Tab), key.Matches(msg, keys.Back):
		return m.focusList(), nil
	case key.Matches(msg, keys.Next):
		if m.form.onLastField() {
			return m.focusList(), nil
		}
		m.form, cmd = m.form.next()
		return m, cmd
	case key.Matches(msg, keys.Prev):
		m.form, cmd = m.form.prev()
		return m, cmd
	}

	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := ListKeyMap()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		m.list = m.list.up()
	case key.Matches(msg, keys.Down):
		m.list = m.list.down()
	case key.Matches(msg, keys.Load):
		if r, ok := m.list.Selected(); ok {
			m.form = m.form.fill(r)
			return m.focusForm()
		}
	case key.Matches(msg, keys.Add):
		return m.add(), nil
	case key.Matches(msg, keys.Edit):
		return m.edit(), nil
	case key.Matches(msg, keys.Delete):
		return m.delete(), nil
	case key.Matches(msg, keys.Clear):
		m.form = m.form.clear()
		m.list.selected = noSelection
		m.setStatus("", false)
	case key.Matches(msg, keys.Tab):
		return m.focusForm()
	}
	return m, nil
}

// add appends the form contents as a new contact.
func (m Model) add() Model {
	r, err := m.checker.Record(m.form.Input())
	if err != nil {
		return m.showNotice(err)
	}
	m.store.Add(r)
	m.list = m.list.sync(m.store.List())
	m.form = m.form.clear()
	return m.reportSave("Added " + r.Name)
}

// edit replaces the selected contact with the form contents.
func (m Model) edit() Model {
	if err := form.Selection("edit", m.list.selected, len(m.list.contacts)); err != nil {
		return m.showNotice(err)
	}
	r, err := m.checker.Record(m.form.Input())
	if err != nil {
		return m.showNotice(err)
	}
	// Nothing to write unless an earlier save left the file behind.
	if current, _ := m.list.Selected(); r.Equal(current) && m.store.Err() == nil {
		m.form = m.form.clear()
		m.setStatus("No changes to "+r.Name, false)
		return m
	}
	if err := m.store.Edit(m.list.selected, r); err != nil {
		return m.showNotice(err)
	}
	m.list = m.list.sync(m.store.List())
	m.form = m.form.clear()
	return m.reportSave("Updated " + r.Name)
}

// delete removes the selected contact.
func (m Model) delete() Model {
	if err := form.Selection("delete", m.list.selected, len(m.list.contacts)); err != nil {
		return m.showNotice(err)
	}
	removed, _ := m.list.Selected()
	if err := m.store.Delete(m.list.selected); err != nil {
		return m.showNotice(err)
	}
	m.list = m.list.sync(m.store.List())
	m.list.selected = noSelection
	m.form = m.form.clear()
	return m.reportSave("Deleted " + removed.Name)
}

// reportSave shows done on success, or the store's save error.
func (m Model) reportSave(done string) Model {
	if err := m.store.Err(); err != nil {
		m.setStatus(fmt.Sprintf("Save failed: %v", err), true)
		return m
	}
	m.setStatus(done, false)
	return m
}

func (m Model) showNotice(err error) Model {
	m.mode = ModeNotice
	m.notice = err.Error()
	return m
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m Model) focusList() Model {
	m.focus = FocusList
	m.form = m.form.blur()
	return m
}

func (m Model) focusForm() (Model, tea.Cmd) {
	m.focus = FocusForm
	var cmd tea.Cmd
	m.form, cmd = m.form.focus()
	return m, cmd
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome, the status line, and the help bar.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - statusBarHeight - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// View renders the two-pane layout, or the notice over it, with status and help bars.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	listWidth, formWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	var body string
	if m.mode == ModeNotice {
		body = lipgloss.Place(m.width, contentHeight+borderChrome,
			lipgloss.Center, lipgloss.Center, m.viewNotice())
	} else {
		var listStyle, formStyle lipgloss.Style
		if m.focus == FocusList {
			listStyle = FocusedBorder()
			formStyle = UnfocusedBorder()
		} else {
			listStyle = UnfocusedBorder()
			formStyle = FocusedBorder()
		}

		listStyle = listStyle.
			Width(listWidth - borderChrome).
			Height(contentHeight)
		formStyle = formStyle.
			Width(formWidth - borderChrome).
			Height(contentHeight)

		listPane := listStyle.Render(m.viewList(listWidth-borderChrome, contentHeight))
		formPane := formStyle.Render(m.form.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, listPane, formPane)
	}

	helpView := m.help.View(HelpBindings(m.mode, m.focus))
	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewStatus(), helpView)
}

func (m Model) viewList(width, height int) string {
	title := labelText.Render(fmt.Sprintf("Contacts (%d)", len(m.list.contacts)))
	rows := height - listHeaderHeight
	if rows < 1 {
		rows = 1
	}
	return title + "\n\n" + m.list.View(width, rows)
}

func (m Model) viewNotice() string {
	return NoticeBox().Render(
		statusError.Bold(true).Render("Error") + "\n\n" + m.notice + "\n\n" + mutedText.Render("[Enter] OK"),
	)
}

func (m Model) viewStatus() string {
	switch {
	case m.status == "" && m.path != "":
		return mutedText.Render(m.path)
	case m.statusErr:
		return statusError.Render(m.status)
	default:
		return statusOK.Render(m.status)
	}
}
