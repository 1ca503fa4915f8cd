package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/romdeck/romdeck/internal/domain"
)

// ProgramNotifier bridges service-side notifications into the running
// program's message loop. Safe to hand out before the program starts;
// notifications sent until then are dropped.
type ProgramNotifier struct {
	program *tea.Program
}

// NewProgramNotifier creates a notifier with no program attached yet
func NewProgramNotifier() *ProgramNotifier {
	return &ProgramNotifier{}
}

// Attach binds the running program
func (n *ProgramNotifier) Attach(p *tea.Program) {
	n.program = p
}

// Notify implements domain.Notifier
func (n *ProgramNotifier) Notify(notification domain.Notification) {
	if n.program == nil {
		return
	}
	n.program.Send(NotificationMsg{Notification: notification})
}

var _ domain.Notifier = (*ProgramNotifier)(nil)
