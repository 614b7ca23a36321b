package ui

import (
	"fmt"
	"strings"

	"github.com/smileynet/contactbook/internal/contact"
)

// CursorMarker is the prefix shown on the selected contact row.
const CursorMarker = "▸ "

// noSelection is the selection index when no row is selected.
const noSelection = -1

// listState mirrors the store's contacts and tracks the selected row.
type listState struct {
	contacts []contact.Record
	selected int
}

func newListState(contacts []contact.Record) listState {
	return listState{contacts: contacts, selected: noSelection}
}

// sync replaces the mirrored contacts with a fresh store snapshot,
// dropping the selection if it no longer points at a row.
func (ls listState) sync(contacts []contact.Record) listState {
	ls.contacts = contacts
	if ls.selected >= len(ls.contacts) {
		ls.selected = noSelection
	}
	return ls
}

// up moves the selection up, wrapping to the last row.
func (ls listState) up() listState {
	if len(ls.contacts) == 0 {
		return ls
	}
	if ls.selected <= 0 {
		ls.selected = len(ls.contacts) - 1
	} else {
		ls.selected--
	}
	return ls
}

// down moves the selection down, wrapping to the first row.
func (ls listState) down() listState {
	if len(ls.contacts) == 0 {
		return ls
	}
	if ls.selected < 0 || ls.selected >= len(ls.contacts)-1 {
		ls.selected = 0
	} else {
		ls.selected++
	}
	return ls
}

// Selected returns the selected contact, if any.
func (ls listState) Selected() (contact.Record, bool) {
	if ls.selected < 0 || ls.selected >= len(ls.contacts) {
		return contact.Record{}, false
	}
	return ls.contacts[ls.selected], true
}

// View renders the contact rows, scrolled so the selection stays visible.
func (ls listState) View(width, height int) string {
	if len(ls.contacts) == 0 {
		return mutedText.Render("No contacts yet\n\nFill in the form, then press a to add")
	}

	start := 0
	if height > 0 && ls.selected >= height {
		start = ls.selected - height + 1
	}
	end := len(ls.contacts)
	if height > 0 && end-start > height {
		end = start + height
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		line := fmt.Sprintf("%d. %s", i+1, ls.contacts[i])
		if i == ls.selected {
			b.WriteString(selectedRow.Render(CursorMarker + line))
		} else {
			b.WriteString("  " + line)
		}
	}
	return b.String()
}
