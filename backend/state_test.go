package backend

import "testing"

func TestCellStateJoin(t *testing.T) {
	tests := []struct {
		a, b, want CellState
	}{
		{Known(3), Known(3), Known(3)},
		{Known(3), Known(4), Unknown},
		{Known(3), Unknown, Unknown},
		{Unknown, Known(3), Unknown},
		{Unknown, Unknown, Unknown},
	}
	for _, tt := range tests {
		if got := tt.a.Join(tt.b); got != tt.want {
			t.Errorf("%s join %s = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCellStateAdd(t *testing.T) {
	if got := Known(250).Add(10); got != Known(4) {
		t.Errorf("Known(250).Add(10) = %s, want 4", got)
	}
	if got := Unknown.Add(1); got != Unknown {
		t.Errorf("Unknown.Add(1) = %s", got)
	}
	if !Known(0).IsZero() || Unknown.IsZero() || Known(1).IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		op   byte
		x, y byte
		want byte
	}{
		{'+', 200, 100, 44},
		{'-', 3, 5, 254},
		{'*', 16, 17, 16},
		{'/', 7, 2, 3},
		{'/', 7, 0, 0},
		{'%', 7, 3, 1},
		{'%', 7, 0, 7},
		{'=', 4, 4, 1},
		{'=', 4, 5, 0},
		{'&', 2, 0, 0},
		{'&', 2, 9, 1},
		{'|', 0, 0, 0},
		{'|', 0, 9, 1},
	}
	for _, tt := range tests {
		got, ok := Fold(tt.op, tt.x, tt.y)
		if !ok || got != tt.want {
			t.Errorf("Fold(%c, %d, %d) = %d, %v, want %d", tt.op, tt.x, tt.y, got, ok, tt.want)
		}
	}
	if _, ok := Fold('^', 1, 2); ok {
		t.Error("Fold accepted an unknown operator")
	}
}
