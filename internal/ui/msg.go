// Package ui implements the two-pane terminal front end for the address
// book: the contact list on the left, the entry form on the right.
//
// All store calls happen synchronously inside Update, so the store is only
// ever touched from the Bubble Tea event loop.
package ui

import "github.com/smileynet/contactbook/internal/contact"

// Focus represents which pane has keyboard focus.
type Focus int

const (
	FocusList Focus = iota // Contact list has focus; action keys are live.
	FocusForm              // Entry form has focus; keys go to the text fields.
)

// Mode represents whether a modal notice is blocking input.
type Mode int

const (
	ModeNormal Mode = iota // Panes accept input.
	ModeNotice             // A notice is shown and must be dismissed first.
)

// ContactStore is the store surface the UI drives.
type ContactStore interface {
	List() []contact.Record
	Add(r contact.Record)
	Edit(i int, r contact.Record) error
	Delete(i int) error
	Err() error
}
