package ui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contactbook/internal/contact"
)

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}

// fakeStore is an in-memory ContactStore. Setting saveErr makes every
// mutation report a failed save while still applying the change.
type fakeStore struct {
	contacts []contact.Record
	saveErr  error
	err      error
}

func newFakeStore(rs ...contact.Record) *fakeStore {
	return &fakeStore{contacts: rs}
}

func (f *fakeStore) List() []contact.Record { return slices.Clone(f.contacts) }

func (f *fakeStore) Add(r contact.Record) {
	f.contacts = append(f.contacts, r)
	f.err = f.saveErr
}

func (f *fakeStore) Edit(i int, r contact.Record) error {
	if i < 0 || i >= len(f.contacts) {
		return fmt.Errorf("edit %d: out of range", i)
	}
	f.contacts[i] = r
	f.err = f.saveErr
	return nil
}

func (f *fakeStore) Delete(i int) error {
	if i < 0 || i >= len(f.contacts) {
		return fmt.Errorf("delete %d: out of range", i)
	}
	f.contacts = slices.Delete(f.contacts, i, i+1)
	f.err = f.saveErr
	return nil
}

func (f *fakeStore) Err() error { return f.err }

var (
	ann = contact.New("Ann", "555-1", "a@x.com")
	bob = contact.New("Bob", "555-2", "b@x.com")
)

func newSizedModel(s ContactStore, w, h int) Model {
	m := NewModel(s)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(Model)
}

// send applies each message in order and returns the resulting model.
func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	upKey    = tea.KeyMsg{Type: tea.KeyUp}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
	ctrlCKey = tea.KeyMsg{Type: tea.KeyCtrlC}
)

// fillForm types a full contact into the form, ending with focus on the list.
func fillForm(m Model, r contact.Record) Model {
	return send(m,
		runes(r.Name), enterKey,
		runes(r.PhoneNumber), enterKey,
		runes(r.Email), enterKey,
	)
}
