package ui

import "github.com/charmbracelet/bubbles/help"

// HelpBindings returns the help.KeyMap for the current mode and focus,
// providing context-aware help bar content.
func HelpBindings(mode Mode, focus Focus) help.KeyMap {
	if mode == ModeNotice {
		return NoticeKeyMap()
	}
	if focus == FocusForm {
		return FormKeyMap()
	}
	return ListKeyMap()
}
