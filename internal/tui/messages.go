package tui

// loadedMsg reports the end of a full reload. errMsg is the first store
// error, if any.
type loadedMsg struct {
	errMsg string
}

// mutatedMsg reports the end of a complete or delete request.
type mutatedMsg struct {
	status string
	errMsg string
}

type tickMsg struct{}
