package swcursor

import (
	"fmt"

	"github.com/1broseidon/swcursor/internal/damage"
	"github.com/1broseidon/swcursor/internal/pixbuf"
)

// Strategy draws and erases one cursor footprint. Both operations return
// the clamped rect they touched; an empty rect means nothing was written.
type Strategy interface {
	Name() string
	Draw(buf *pixbuf.Buffer, x, y int, mask uint32) (damage.Rect, error)
	Erase(buf *pixbuf.Buffer, x, y int, mask uint32) (damage.Rect, error)
}

// XORSquare XORs mask into a (2*Radius+1)-sided square. Erasing applies
// the same XOR again, which restores the pixels whatever else was drawn
// over them in between.
type XORSquare struct {
	Radius int
}

func (s XORSquare) Name() string { return "xor" }

func (s XORSquare) Draw(buf *pixbuf.Buffer, x, y int, mask uint32) (damage.Rect, error) {
	return s.apply(buf, x, y, mask)
}

func (s XORSquare) Erase(buf *pixbuf.Buffer, x, y int, mask uint32) (damage.Rect, error) {
	return s.apply(buf, x, y, mask)
}

func (s XORSquare) apply(buf *pixbuf.Buffer, x, y int, mask uint32) (damage.Rect, error) {
	r := damage.Square(x, y, s.Radius).Clamp(buf.Width(), buf.Height())
	if r.Empty() {
		return damage.Rect{}, nil
	}
	for py := r.MinY; py < r.MaxY; py++ {
		for px := r.MinX; px < r.MaxX; px++ {
			if err := buf.Xor(px, py, mask); err != nil {
				return damage.Rect{}, err
			}
		}
	}
	return r, nil
}

// MaskToggle ORs mask into a single pixel and clears it with AND-NOT.
// Erase is only exact while no other cursor shares the pixel.
type MaskToggle struct{}

func (MaskToggle) Name() string { return "mask-toggle" }

func (MaskToggle) Draw(buf *pixbuf.Buffer, x, y int, mask uint32) (damage.Rect, error) {
	if !buf.InBounds(x, y) {
		return damage.Rect{}, nil
	}
	if err := buf.Or(x, y, mask); err != nil {
		return damage.Rect{}, err
	}
	return damage.Pixel(x, y), nil
}

func (MaskToggle) Erase(buf *pixbuf.Buffer, x, y int, mask uint32) (damage.Rect, error) {
	if !buf.InBounds(x, y) {
		return damage.Rect{}, nil
	}
	if err := buf.AndNot(x, y, mask); err != nil {
		return damage.Rect{}, err
	}
	return damage.Pixel(x, y), nil
}

// StrategyByName resolves a configured strategy name.
func StrategyByName(name string, radius int) (Strategy, error) {
	switch name {
	case "", "xor":
		return XORSquare{Radius: radius}, nil
	case "mask-toggle":
		return MaskToggle{}, nil
	default:
		return nil, fmt.Errorf("unknown cursor strategy %q", name)
	}
}
