package damage

import "fmt"

// Rect is an axis-aligned region in buffer coordinates. Max is exclusive.
type Rect struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

// Square returns the (2*radius+1)-sided square centered on (cx, cy).
func Square(cx, cy, radius int) Rect {
	return Rect{
		MinX: cx - radius,
		MinY: cy - radius,
		MaxX: cx + radius + 1,
		MaxY: cy + radius + 1,
	}
}

// Pixel returns the 1x1 rect covering (x, y).
func Pixel(x, y int) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + 1, MaxY: y + 1}
}

// Clamp restricts r to [0,width]x[0,height].
func (r Rect) Clamp(width, height int) Rect {
	return Rect{
		MinX: clamp(r.MinX, 0, width),
		MinY: clamp(r.MinY, 0, height),
		MaxX: clamp(r.MaxX, 0, width),
		MaxY: clamp(r.MaxY, 0, height),
	}
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Width returns the horizontal extent, or 0 for an empty rect.
func (r Rect) Width() int {
	if r.Empty() {
		return 0
	}
	return r.MaxX - r.MinX
}

// Height returns the vertical extent, or 0 for an empty rect.
func (r Rect) Height() int {
	if r.Empty() {
		return 0
	}
	return r.MaxY - r.MinY
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}

// Union returns the smallest rect covering both r and o. Empty operands are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		MinX: min(r.MinX, o.MinX),
		MinY: min(r.MinY, o.MinY),
		MaxX: max(r.MaxX, o.MaxX),
		MaxY: max(r.MaxY, o.MaxY),
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.MinX, r.MinY, r.Width(), r.Height())
}

// Bounds returns the union of all rects, or an empty rect.
func Bounds(rects []Rect) Rect {
	var out Rect
	for _, r := range rects {
		out = out.Union(r)
	}
	return out
}

// Area returns the number of distinct pixels covered by rects.
// Overlapping rects are only counted once.
func Area(rects []Rect) int {
	b := Bounds(rects)
	if b.Empty() {
		return 0
	}
	n := 0
	for y := b.MinY; y < b.MaxY; y++ {
		for x := b.MinX; x < b.MaxX; x++ {
			for _, r := range rects {
				if r.Contains(x, y) {
					n++
					break
				}
			}
		}
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
