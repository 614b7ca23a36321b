package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/smileynet/contactbook/internal/contact"
)

func TestListState_DownUpWrap(t *testing.T) {
	ls := newListState([]contact.Record{ann, bob})

	tests := []struct {
		name string
		move func(listState) listState
		want int
	}{
		{"down from none", listState.down, 0},
		{"down", listState.down, 1},
		{"down wraps", listState.down, 0},
		{"up wraps", listState.up, 1},
		{"up", listState.up, 0},
	}
	for _, tt := range tests {
		ls = tt.move(ls)
		if ls.selected != tt.want {
			t.Errorf("%s: selected = %d, want %d", tt.name, ls.selected, tt.want)
		}
	}
}

func TestListState_UpFromNoneSelectsLast(t *testing.T) {
	ls := newListState([]contact.Record{ann, bob}).up()

	if ls.selected != 1 {
		t.Errorf("selected = %d, want 1", ls.selected)
	}
}

func TestListState_MovesOnEmptyList(t *testing.T) {
	ls := newListState(nil).down().up()

	if ls.selected != noSelection {
		t.Errorf("selected = %d, want none", ls.selected)
	}
}

func TestListState_Selected(t *testing.T) {
	ls := newListState([]contact.Record{ann, bob})

	if _, ok := ls.Selected(); ok {
		t.Error("Selected() ok = true with nothing selected")
	}

	ls = ls.down().down()
	got, ok := ls.Selected()
	if !ok || got != bob {
		t.Errorf("Selected() = %v, %v, want %v, true", got, ok, bob)
	}
}

func TestListState_SyncDropsStaleSelection(t *testing.T) {
	// Given: the last of two rows is selected
	ls := newListState([]contact.Record{ann, bob}).down().down()

	// When: the store shrinks to one row
	ls = ls.sync([]contact.Record{ann})

	// Then: the selection is dropped
	if ls.selected != noSelection {
		t.Errorf("selected = %d, want none", ls.selected)
	}
}

func TestListState_SyncKeepsValidSelection(t *testing.T) {
	ls := newListState([]contact.Record{ann, bob}).down()

	ls = ls.sync([]contact.Record{ann, bob, ann})

	if ls.selected != 0 {
		t.Errorf("selected = %d, want 0", ls.selected)
	}
}

func TestListState_ViewEmpty(t *testing.T) {
	view := newListState(nil).View(40, 10)

	if !containsPlainText(view, "No contacts yet") {
		t.Errorf("View() = %q, want empty hint", stripANSI(view))
	}
}

func TestListState_ViewNumbersRows(t *testing.T) {
	view := stripANSI(newListState([]contact.Record{ann, bob}).View(60, 10))

	lines := strings.Split(view, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2: %q", len(lines), view)
	}
	if lines[0] != "  1. Ann - 555-1 - a@x.com" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "  2. Bob - 555-2 - b@x.com" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestListState_ViewScrollsToSelection(t *testing.T) {
	var rs []contact.Record
	for i := 0; i < 10; i++ {
		rs = append(rs, contact.New(fmt.Sprintf("P%d", i), "1", "e"))
	}
	ls := newListState(rs)
	for i := 0; i < 6; i++ {
		ls = ls.down()
	}

	view := stripANSI(ls.View(60, 3))

	if strings.Count(view, "\n") != 2 {
		t.Errorf("view should have 3 rows: %q", view)
	}
	if !strings.Contains(view, CursorMarker+"6. P5") {
		t.Errorf("selected row not visible: %q", view)
	}
	if strings.Contains(view, "1. P0") {
		t.Errorf("first row should be scrolled off: %q", view)
	}
}
