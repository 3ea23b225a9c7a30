package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is a screen the root model can switch to.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel carries the terminal size every screen lays itself out against.
type CommonModel struct {
	Width  int
	Height int
}

// BackMsg asks the root model to leave the current screen.
type BackMsg struct{}

func Back() tea.Msg { return BackMsg{} }
