package role

import "testing"

func TestMachine_DownConfirmEntersClient(t *testing.T) {
	m := NewMachine()

	if tr := m.Handle(KeyDown); tr.Kind != Moved {
		t.Fatalf("down: kind = %v, want moved", tr.Kind)
	}
	tr := m.Handle(KeyConfirm)
	if tr.Kind != Enter || tr.To != Client {
		t.Fatalf("confirm: got %+v, want enter client", tr)
	}
	if m.Role() != Unselected {
		t.Fatal("role must not change before Commit")
	}
	if !m.Commit(tr) {
		t.Fatal("commit rejected")
	}
	if m.Role() != Client {
		t.Errorf("role = %v, want client", m.Role())
	}
}

func TestMachine_ConfirmQuitTerminates(t *testing.T) {
	m := NewMachine()
	m.Handle(KeyDown)
	m.Handle(KeyDown)
	if m.Index() != 2 {
		t.Fatalf("index = %d, want 2", m.Index())
	}
	if tr := m.Handle(KeyConfirm); tr.Kind != Terminate {
		t.Errorf("kind = %v, want terminate", tr.Kind)
	}
}

func TestMachine_ClampedMovesAreNone(t *testing.T) {
	m := NewMachine()
	if tr := m.Handle(KeyUp); tr.Kind != None {
		t.Errorf("up at top: kind = %v, want none", tr.Kind)
	}
	for i := 0; i < 5; i++ {
		m.Handle(KeyDown)
	}
	if m.Index() != len(Options)-1 {
		t.Errorf("index = %d, want %d", m.Index(), len(Options)-1)
	}
}

// TestMachine_Totality walks every (role, key) pair and checks the
// expected transition kind.
func TestMachine_Totality(t *testing.T) {
	keys := []Key{KeyNone, KeyUp, KeyDown, KeyConfirm, KeyBack, KeyQuit}

	for _, r := range []Role{Server, Client} {
		for _, k := range keys {
			m := NewMachine()
			m.current = r
			tr := m.Handle(k)

			want := None
			if k == KeyBack || k == KeyQuit {
				want = Leave
			}
			if tr.Kind != want {
				t.Errorf("%v/%v: kind = %v, want %v", r, k, tr.Kind, want)
			}
			if tr.Kind == Leave && tr.To != Unselected {
				t.Errorf("%v/%v: leave must target unselected", r, k)
			}
		}
	}

	m := NewMachine()
	for _, k := range []Key{KeyNone, KeyBack} {
		if tr := m.Handle(k); tr.Kind != None {
			t.Errorf("unselected/%v: kind = %v, want none", k, tr.Kind)
		}
	}
	if tr := m.Handle(KeyQuit); tr.Kind != Terminate {
		t.Errorf("unselected/quit: kind = %v, want terminate", tr.Kind)
	}
}

func TestMachine_LeaveCommit(t *testing.T) {
	m := NewMachine()
	m.Commit(m.Handle(KeyConfirm))
	if m.Role() != Server {
		t.Fatalf("role = %v, want server", m.Role())
	}

	tr := m.Handle(KeyBack)
	if !m.Commit(tr) {
		t.Fatal("leave commit rejected")
	}
	if m.Role() != Unselected {
		t.Errorf("role = %v, want unselected", m.Role())
	}
}

func TestMachine_StaleCommitRejected(t *testing.T) {
	m := NewMachine()
	toServer := m.Handle(KeyConfirm)
	m.Commit(toServer)

	// Replaying the same Enter once Server is active must not apply.
	if m.Commit(toServer) {
		t.Error("stale enter should be rejected")
	}

	// A forged Server -> Client transition is never valid.
	if m.Commit(Transition{Kind: Enter, From: Server, To: Client}) {
		t.Error("direct server -> client must be rejected")
	}
	if m.Commit(Transition{Kind: Moved, From: Server, To: Unselected}) {
		t.Error("non-pending kinds must be rejected")
	}
	if m.Role() != Server {
		t.Errorf("role = %v, want server", m.Role())
	}
}

func TestMachine_Reset(t *testing.T) {
	m := NewMachine()
	m.Handle(KeyDown)
	m.Commit(m.Handle(KeyConfirm))

	m.Reset()
	if m.Role() != Unselected || m.Index() != 0 {
		t.Errorf("after reset: role=%v index=%d", m.Role(), m.Index())
	}
}
