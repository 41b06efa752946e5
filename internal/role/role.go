// Package role implements the role-selection state machine: the menu
// that decides whether the process acts as a server, a client, or
// nothing yet.
//
// The machine is pure.  It never touches the network; callers run the
// side effects a Transition asks for and then Commit it.
package role

// Role is the process's current mode.  The zero value is Unselected.
type Role int

const (
	Unselected Role = iota
	Server
	Client
)

func (r Role) String() string {
	switch r {
	case Unselected:
		return "unselected"
	case Server:
		return "server"
	case Client:
		return "client"
	default:
		return "unknown"
	}
}

// Key is a discrete input event, already mapped from raw terminal keys.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyConfirm
	KeyBack
	KeyQuit
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyConfirm:
		return "confirm"
	case KeyBack:
		return "back"
	case KeyQuit:
		return "quit"
	default:
		return "none"
	}
}

// Direction is the sign of a menu movement.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// Options is the ordered menu shown while Unselected.
var Options = []string{"Server", "Client", "Quit"} //nolint:gochecknoglobals

// SelectRole maps a menu index to a role.  0 is Server, 1 is Client,
// everything else (Quit, negative, out of range) is Unselected.
func SelectRole(index int) Role {
	switch index {
	case 0:
		return Server
	case 1:
		return Client
	default:
		return Unselected
	}
}

// MoveSelection moves index one step in dir and clamps the result to
// [0, count-1].  It never wraps.  A count of zero or less yields 0.
func MoveSelection(index int, dir Direction, count int) int {
	if count <= 0 {
		return 0
	}
	next := clamp(index, count)
	switch {
	case dir < 0:
		next--
	case dir > 0:
		next++
	}
	return clamp(next, count)
}

func clamp(i, count int) int {
	if i < 0 {
		return 0
	}
	if i > count-1 {
		return count - 1
	}
	return i
}
