// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

// RephraseCompleted carries the outcome of one rephrase call back to the form.
type RephraseCompleted struct {
	Result string
	Err    error
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewForm is the prompt optimisation form.
	ViewForm ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewForm:
		return "form"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
