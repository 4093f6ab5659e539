package damage

import "testing"

func TestSquare_ElevenByEleven(t *testing.T) {
	r := Square(250, 250, 5)
	if r.Width() != 11 || r.Height() != 11 {
		t.Fatalf("expected 11x11, got %dx%d", r.Width(), r.Height())
	}
	if !r.Contains(245, 245) || !r.Contains(255, 255) {
		t.Fatalf("expected corners to be inside %v", r)
	}
	if r.Contains(256, 250) {
		t.Fatalf("expected max edge to be exclusive")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name  string
		in    Rect
		w, h  int
		want  Rect
		empty bool
	}{
		{name: "inside", in: Square(10, 10, 5), w: 100, h: 100, want: Rect{5, 5, 16, 16}},
		{name: "top left corner", in: Square(0, 0, 5), w: 100, h: 100, want: Rect{0, 0, 6, 6}},
		{name: "bottom right corner", in: Square(99, 99, 5), w: 100, h: 100, want: Rect{94, 94, 100, 100}},
		{name: "fully outside", in: Square(-20, -20, 5), w: 100, h: 100, want: Rect{0, 0, 0, 0}, empty: true},
		{name: "past far edge", in: Square(120, 50, 5), w: 100, h: 100, want: Rect{100, 45, 100, 56}, empty: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Clamp(tt.w, tt.h)
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
			if got.Empty() != tt.empty {
				t.Fatalf("expected empty=%v, got %v", tt.empty, got.Empty())
			}
		})
	}
}

func TestUnionIgnoresEmpty(t *testing.T) {
	a := Rect{1, 1, 3, 3}
	if got := a.Union(Rect{}); got != a {
		t.Fatalf("expected %+v, got %+v", a, got)
	}
	if got := (Rect{}).Union(a); got != a {
		t.Fatalf("expected %+v, got %+v", a, got)
	}
}

func TestArea_CountsOverlapOnce(t *testing.T) {
	rects := []Rect{Square(250, 250, 5), Square(255, 255, 5)}
	// 121 + 121 - 6*6 overlap
	if got := Area(rects); got != 206 {
		t.Fatalf("expected area 206, got %d", got)
	}
}
