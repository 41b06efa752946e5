package role

import "sync"

// Kind classifies what a key press asks for.
type Kind int

const (
	// None means the key has no effect in the current state.
	None Kind = iota
	// Moved means the menu highlight changed.  Already applied.
	Moved
	// Enter asks to start a session for To.  Pending until Commit.
	Enter
	// Leave asks to tear the session down and return to the menu.
	// Pending until Commit.
	Leave
	// Terminate asks the process to exit.
	Terminate
)

func (k Kind) String() string {
	switch k {
	case Moved:
		return "moved"
	case Enter:
		return "enter"
	case Leave:
		return "leave"
	case Terminate:
		return "terminate"
	default:
		return "none"
	}
}

// Transition is the result of Handle.
type Transition struct {
	Kind Kind
	From Role
	To   Role
}

// Machine holds the current role and the menu highlight.  It is safe
// for concurrent use, but is normally driven from a single loop.
type Machine struct {
	mu      sync.Mutex
	current Role
	index   int
	options []string
}

// NewMachine returns a machine in Unselected with the first option
// highlighted.
func NewMachine() *Machine {
	return &Machine{options: Options}
}

// Role returns the committed role.
func (m *Machine) Role() Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Index returns the highlighted menu index.
func (m *Machine) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// Options returns the menu entries.
func (m *Machine) Options() []string {
	return m.options
}

// Handle maps a key to a transition.  It is defined for every
// (role, key) pair.  Moved transitions are applied immediately; Enter
// and Leave only take effect once committed.
func (m *Machine) Handle(k Key) Transition {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := Transition{Kind: None, From: m.current, To: m.current}

	if m.current == Unselected {
		switch k {
		case KeyUp, KeyDown:
			dir := Down
			if k == KeyUp {
				dir = Up
			}
			next := MoveSelection(m.index, dir, len(m.options))
			if next != m.index {
				m.index = next
				t.Kind = Moved
			}
		case KeyConfirm:
			if r := SelectRole(m.index); r != Unselected {
				t.Kind = Enter
				t.To = r
			} else {
				t.Kind = Terminate
			}
		case KeyQuit:
			t.Kind = Terminate
		case KeyBack, KeyNone:
		}
		return t
	}

	// Server or Client: only back/quit do anything.  Quit returns to
	// the menu; terminating from inside a role is not offered.
	switch k {
	case KeyBack, KeyQuit:
		t.Kind = Leave
		t.To = Unselected
	case KeyUp, KeyDown, KeyConfirm, KeyNone:
	}
	return t
}

// Commit applies a pending Enter or Leave transition.  It is ignored
// if the machine moved on since t was produced, so a stale transition
// can never switch Server to Client directly.
func (m *Machine) Commit(t Transition) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.From != m.current {
		return false
	}
	switch t.Kind {
	case Enter:
		if t.From != Unselected || t.To == Unselected {
			return false
		}
	case Leave:
		if t.To != Unselected {
			return false
		}
	default:
		return false
	}
	m.current = t.To
	return true
}

// Reset forces Unselected with the first option highlighted.  Used when
// a session ends on its own.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Unselected
	m.index = 0
}
