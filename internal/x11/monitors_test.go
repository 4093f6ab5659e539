package x11

import "testing"

func TestCenterIn(t *testing.T) {
	tests := []struct {
		name         string
		area         Monitor
		w, h         int
		wantX, wantY int
	}{
		{"centered", Monitor{Width: 1920, Height: 1080}, 500, 500, 710, 290},
		{"second monitor", Monitor{X: 1920, Width: 1280, Height: 1024}, 500, 500, 2310, 262},
		{"too large", Monitor{X: 10, Y: 20, Width: 300, Height: 200}, 500, 500, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := centerIn(tt.area, tt.w, tt.h)
			if x != tt.wantX || y != tt.wantY {
				t.Fatalf("centerIn = (%d,%d), want (%d,%d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestIntersect(t *testing.T) {
	mon := Monitor{Name: "DP-1", Width: 1920, Height: 1080}
	work := Monitor{Y: 32, Width: 3840, Height: 1048}

	got := intersect(mon, work)
	if got.Name != "DP-1" || got.Y != 32 || got.Width != 1920 || got.Height != 1048 {
		t.Fatalf("unexpected intersection %+v", got)
	}

	disjoint := Monitor{X: 5000, Width: 10, Height: 10}
	if got := intersect(mon, disjoint); got != mon {
		t.Fatalf("expected disjoint work area to be ignored, got %+v", got)
	}
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Width: 1920, Height: 1080},
		{ID: 1, X: 1920, Width: 1280, Height: 1024},
	}
	if m := monitorAt(monitors, 2000, 10); m == nil || m.ID != 1 {
		t.Fatalf("expected second monitor, got %+v", m)
	}
	if m := monitorAt(monitors, 1920, 1030); m != nil {
		t.Fatalf("expected no monitor below the second one, got %+v", m)
	}
}

func TestChannel16(t *testing.T) {
	if channel16(0xFF) != 0xFFFF || channel16(0x1280) != 0x8080 || channel16(0) != 0 {
		t.Fatalf("unexpected channel widening")
	}
}
