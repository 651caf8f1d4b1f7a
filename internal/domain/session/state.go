package session

import (
	"time"

	"user-console/internal/domain/user"
)

// Theme is the console color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme returns ThemeDark for "dark" and ThemeLight for anything else.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// FlashKind is the severity of a toast message.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot toast shown on the next rendered page.
type Flash struct {
	Kind  FlashKind `json:"kind"`
	Title string    `json:"title"`
	Text  string    `json:"text"`
}

// State is everything the console remembers about one browser session.
type State struct {
	ID        string          `json:"id"`
	Loaded    bool            `json:"loaded"`
	Directory *user.Directory `json:"users,omitempty"`
	View      user.ViewState  `json:"view"`
	Theme     Theme           `json:"theme"`
	Flash     *Flash          `json:"flash,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// New creates an empty, not yet loaded session.
func New(id string, mode user.ViewMode, theme Theme) *State {
	return &State{
		ID:    id,
		View:  user.DefaultViewState(mode),
		Theme: theme,
	}
}

// SetUsers installs a freshly fetched list and marks the session loaded.
func (s *State) SetUsers(users []user.User) {
	s.Directory = user.NewDirectory(users)
	s.Loaded = true
}

// Unload forgets the list so the next visit fetches it again.
func (s *State) Unload() {
	s.Directory = nil
	s.Loaded = false
}

// Success queues a success toast.
func (s *State) Success(title, text string) {
	s.Flash = &Flash{Kind: FlashSuccess, Title: title, Text: text}
}

// Failure queues an error toast.
func (s *State) Failure(title, text string) {
	s.Flash = &Flash{Kind: FlashError, Title: title, Text: text}
}

// PopFlash returns the pending toast, if any, and clears it.
func (s *State) PopFlash() *Flash {
	f := s.Flash
	s.Flash = nil
	return f
}

// ToggleTheme switches between light and dark.
func (s *State) ToggleTheme() {
	if s.Theme == ThemeDark {
		s.Theme = ThemeLight
		return
	}
	s.Theme = ThemeDark
}
