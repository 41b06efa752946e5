package role

import "testing"

func TestSelectRole(t *testing.T) {
	tests := []struct {
		index int
		want  Role
	}{
		{0, Server},
		{1, Client},
		{2, Unselected},
		{3, Unselected},
		{-1, Unselected},
		{1 << 30, Unselected},
	}
	for _, tt := range tests {
		if got := SelectRole(tt.index); got != tt.want {
			t.Errorf("SelectRole(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestMoveSelection(t *testing.T) {
	tests := []struct {
		name  string
		index int
		dir   Direction
		count int
		want  int
	}{
		{"down from top", 0, Down, 3, 1},
		{"up from top clamps", 0, Up, 3, 0},
		{"down at bottom clamps", 2, Down, 3, 2},
		{"up from bottom", 2, Up, 3, 1},
		{"negative start", -5, Down, 3, 1},
		{"start past end", 10, Up, 3, 1},
		{"single option", 0, Down, 1, 0},
		{"no options", 4, Down, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MoveSelection(tt.index, tt.dir, tt.count); got != tt.want {
				t.Errorf("MoveSelection(%d, %d, %d) = %d, want %d",
					tt.index, tt.dir, tt.count, got, tt.want)
			}
		})
	}
}

// TestMoveSelection_Bounds checks the result stays in range for every
// small start index and option count.
func TestMoveSelection_Bounds(t *testing.T) {
	for count := 1; count <= 6; count++ {
		for start := -3; start <= count+3; start++ {
			for _, dir := range []Direction{Up, Down} {
				got := MoveSelection(start, dir, count)
				if got < 0 || got > count-1 {
					t.Fatalf("MoveSelection(%d, %d, %d) = %d out of [0,%d]",
						start, dir, count, got, count-1)
				}
			}
		}
	}
}

func TestRoleString(t *testing.T) {
	if Server.String() != "server" || Client.String() != "client" || Unselected.String() != "unselected" {
		t.Error("unexpected role names")
	}
	if Role(42).String() != "unknown" {
		t.Error("out-of-range role should be unknown")
	}
}
