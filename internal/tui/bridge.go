package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuidoro/internal/session"
)

// EventMsg carries an orchestrator event into the Bubble Tea loop.
type EventMsg struct {
	Event session.Event
}

// Bridge forwards orchestrator events to a program. Events emitted before a
// program is attached are held so startup restoration is not lost.
type Bridge struct {
	mu      sync.Mutex
	program *tea.Program
	pending []session.Event
}

// NewBridge returns a bridge with no program attached.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Emit is passed to session.New.
func (b *Bridge) Emit(ev session.Event) {
	b.mu.Lock()
	p := b.program
	if p == nil {
		b.pending = append(b.pending, ev)
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	p.Send(EventMsg{Event: ev})
}

// Attach routes future events to p and returns the held ones.
func (b *Bridge) Attach(p *tea.Program) []session.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = p
	pending := b.pending
	b.pending = nil
	return pending
}
