// Package status holds the observable status surface shared by the install
// and launch operations, and the Outcome each operation returns.
package status

import (
	"slices"
	"sync"
)

// Kind tags how an operation ended.
type Kind int

const (
	Succeeded Kind = iota
	Failed
	Cancelled
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	case NotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Outcome is the result of an install or launch. Message is the text that
// was last shown on the status surface for it.
type Outcome struct {
	Kind    Kind
	Message string
}

func Success(msg string) Outcome { return Outcome{Kind: Succeeded, Message: msg} }
func Failure(msg string) Outcome { return Outcome{Kind: Failed, Message: msg} }
func Cancel(msg string) Outcome  { return Outcome{Kind: Cancelled, Message: msg} }
func Missing(msg string) Outcome { return Outcome{Kind: NotFound, Message: msg} }

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool { return o.Kind == Succeeded }

func (o Outcome) String() string { return o.Kind.String() + ": " + o.Message }

// Snapshot is a copy of the board state handed to observers.
type Snapshot struct {
	Text            string
	InstallEnabled  bool
	SteamRunEnabled bool
}

// Board is the status text plus the install and steam-run flags. Observers
// are called synchronously, in subscription order, after every change.
type Board struct {
	mu        sync.Mutex
	state     Snapshot
	observers []func(Snapshot)
}

// NewBoard returns a board with installs enabled and steam run disabled.
func NewBoard() *Board {
	return &Board{state: Snapshot{InstallEnabled: true}}
}

// Subscribe registers fn for every subsequent change.
func (b *Board) Subscribe(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	b.observers = append(b.observers, fn)
	b.mu.Unlock()
}

// Snapshot returns the current state.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// SetText updates the status text.
func (b *Board) SetText(text string) {
	b.update(func(s *Snapshot) { s.Text = text })
}

// SetInstallEnabled updates the install flag.
func (b *Board) SetInstallEnabled(enabled bool) {
	b.update(func(s *Snapshot) { s.InstallEnabled = enabled })
}

// SetSteamRunEnabled updates the steam-run flag.
func (b *Board) SetSteamRunEnabled(enabled bool) {
	b.update(func(s *Snapshot) { s.SteamRunEnabled = enabled })
}

func (b *Board) update(mutate func(*Snapshot)) {
	b.mu.Lock()
	before := b.state
	mutate(&b.state)
	after := b.state
	observers := slices.Clone(b.observers)
	b.mu.Unlock()

	if before == after {
		return
	}
	for _, fn := range observers {
		fn(after)
	}
}
