package core

import "testing"

func TestInputWithAndHas(t *testing.T) {
	var in Input
	for _, c := range Controls {
		if in.Has(c) {
			t.Fatalf("zero Input should not have %s", c)
		}
		pressed := in.With(c, true)
		if !pressed.Has(c) {
			t.Errorf("With(%s, true).Has(%s) = false", c, c)
		}
		if !in.IsZero() {
			t.Fatalf("With must not mutate the receiver")
		}
		if pressed.With(c, false) != in {
			t.Errorf("With(%s, false) should restore the zero value", c)
		}
	}
}

func TestInputString(t *testing.T) {
	tests := []struct {
		in   Input
		want string
	}{
		{Input{}, "none"},
		{Input{Left: true}, "left"},
		{Input{RotateCW: true, Hold: true}, "rotate_cw+hold"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestActionLinesCleared(t *testing.T) {
	if ActionClear4.LinesCleared() != 4 {
		t.Errorf("ActionClear4.LinesCleared() = %d, expected 4", ActionClear4.LinesCleared())
	}
	if ActionTouch.LinesCleared() != 0 {
		t.Error("ActionTouch should not count as a clear")
	}
}
