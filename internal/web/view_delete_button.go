package web

// DeleteButtonView holds data for the delete button template fragment
type DeleteButtonView struct {
	URL    string // e.g., "/tasks/1792314000000"
	Target string // element replaced by the response
	Label  string
}
