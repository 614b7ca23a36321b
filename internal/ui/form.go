package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contactbook/internal/contact"
	"github.com/smileynet/contactbook/internal/form"
)

const (
	fieldName = iota
	fieldPhone
	fieldEmail
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Phone", "Email"}

// labelWidth is the column width of the field labels, including the colon and gap.
const labelWidth = len("Email: ") + 1

// formState holds the three text inputs and which one is active.
type formState struct {
	inputs [fieldCount]textinput.Model
	active int
}

func newFormState() formState {
	var fs formState
	for i := range fs.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = strings.ToLower(fieldLabels[i])
		// Unlimited so fill never cuts a stored value; form.Checker
		// enforces form.MaxFieldLen on submit.
		ti.CharLimit = 0
		fs.inputs[i] = ti
	}
	return fs
}

// focus gives keyboard focus to the active input.
func (fs formState) focus() (formState, tea.Cmd) {
	var cmd tea.Cmd
	for i := range fs.inputs {
		if i == fs.active {
			cmd = fs.inputs[i].Focus()
		} else {
			fs.inputs[i].Blur()
		}
	}
	return fs, cmd
}

// blur removes keyboard focus from every input.
func (fs formState) blur() formState {
	for i := range fs.inputs {
		fs.inputs[i].Blur()
	}
	return fs
}

func (fs formState) next() (formState, tea.Cmd) {
	fs.active = (fs.active + 1) % fieldCount
	return fs.focus()
}

func (fs formState) prev() (formState, tea.Cmd) {
	fs.active = (fs.active + fieldCount - 1) % fieldCount
	return fs.focus()
}

// onLastField reports whether the active input is the last one.
func (fs formState) onLastField() bool {
	return fs.active == fieldCount-1
}

// Update forwards msg to the active input.
func (fs formState) Update(msg tea.Msg) (formState, tea.Cmd) {
	var cmd tea.Cmd
	fs.inputs[fs.active], cmd = fs.inputs[fs.active].Update(msg)
	return fs, cmd
}

// Input returns the current field values.
func (fs formState) Input() form.Input {
	return form.Input{
		Name:  fs.inputs[fieldName].Value(),
		Phone: fs.inputs[fieldPhone].Value(),
		Email: fs.inputs[fieldEmail].Value(),
	}
}

// clear empties every field and moves back to the first one.
func (fs formState) clear() formState {
	for i := range fs.inputs {
		fs.inputs[i].Reset()
	}
	fs.active = fieldName
	return fs
}

// fill copies r into the fields.
func (fs formState) fill(r contact.Record) formState {
	fs.inputs[fieldName].SetValue(r.Name)
	fs.inputs[fieldPhone].SetValue(r.PhoneNumber)
	fs.inputs[fieldEmail].SetValue(r.Email)
	fs.active = fieldName
	return fs
}

// setWidth sizes the inputs to fit a pane of the given inner width.
func (fs formState) setWidth(width int) formState {
	w := width - labelWidth - 1
	if w < 1 {
		w = 1
	}
	for i := range fs.inputs {
		fs.inputs[i].Width = w
	}
	return fs
}

// View renders the labeled fields and an action hint.
func (fs formState) View() string {
	var b strings.Builder
	b.WriteString(labelText.Render("Contact"))
	b.WriteString("\n\n")
	for i, in := range fs.inputs {
		label := fieldLabels[i] + ":"
		b.WriteString(labelText.Render(label + strings.Repeat(" ", labelWidth-len(label))))
		b.WriteString(in.View())
		b.WriteByte('\n')
	}
	b.WriteString("\n")
	b.WriteString(mutedText.Render("tab to list, then a add · e save · d delete"))
	return b.String()
}
