package tui

import (
	"github.com/romdeck/romdeck/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PlatformsLoadedMsg signals that the platform list has been loaded
type PlatformsLoadedMsg struct {
	Platforms []domain.Platform
}

// PageFetchedMsg signals that a gallery page fetch finished. Fetched is false
// when the request was skipped (in flight or exhausted).
type PageFetchedMsg struct {
	PlatformID int
	Fetched    bool
}

// PlatformResetMsg signals that the gallery was rebound to a platform
type PlatformResetMsg struct {
	PlatformID int
}

// FilterAppliedMsg signals that the active filter changed
type FilterAppliedMsg struct{}

// RomLaunchedMsg signals that a rom was downloaded and handed to the emulator
type RomLaunchedMsg struct {
	Rom  domain.Rom
	Path string
}

// RomsDeletedMsg signals that the selected roms were removed on the server
type RomsDeletedMsg struct {
	Count int
}

// RomUploadedMsg signals that a rom file finished uploading
type RomUploadedMsg struct {
	FileName string
}

// ScanTriggeredMsg signals that a rescan signal was sent
type ScanTriggeredMsg struct {
	PlatformID int
}

// NotificationMsg carries a toast from any service into the view
type NotificationMsg struct {
	Notification domain.Notification
}

// ClearNotificationMsg removes the current toast
type ClearNotificationMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// TickMsg is a general tick message for animations
type TickMsg struct{}
