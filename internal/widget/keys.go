package widget

// Focus is where keyboard input is currently directed.
type Focus int

const (
	FocusNone Focus = iota
	FocusTaskInput
	FocusOtherInput
)

// IsTextField reports whether keys typed with this focus are text input.
func (f Focus) IsTextField() bool {
	return f == FocusTaskInput || f == FocusOtherInput
}

// Shortcut maps a global key press to a command. Space toggles the timer
// unless a text field has focus; enter in the task entry submits text.
func Shortcut(key string, focus Focus, text string) (Command, bool) {
	switch key {
	case " ", "space":
		if focus.IsTextField() {
			return Command{}, false
		}
		return Command{Kind: ToggleTimer}, true
	case "enter":
		if focus != FocusTaskInput {
			return Command{}, false
		}
		return Command{Kind: AddTask, Text: text}, true
	}
	return Command{}, false
}
