package x11

import (
	"errors"
	"testing"

	"github.com/1broseidon/swcursor/internal/damage"
)

type put struct {
	r      damage.Rect
	notify bool
}

func recordingSurface(puts *[]put, err error) *Surface {
	return &Surface{put: func(r damage.Rect, notify bool) error {
		*puts = append(*puts, put{r: r, notify: notify})
		return err
	}}
}

func TestSurface_CommitCopiesDamage(t *testing.T) {
	var puts []put
	s := recordingSurface(&puts, nil)

	a := damage.Square(10, 10, 5)
	b := damage.Square(20, 20, 5)
	_ = s.Attach()
	_ = s.Damage(a)
	_ = s.Damage(damage.Rect{})
	_ = s.Damage(b)
	if err := s.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if len(puts) != 2 || puts[0].r != a || puts[1].r != b {
		t.Fatalf("unexpected puts %+v", puts)
	}
	if puts[0].notify || puts[1].notify {
		t.Fatalf("expected no completion request without a frame")
	}

	// Damage does not leak into the next commit.
	puts = nil
	if err := s.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(puts) != 0 {
		t.Fatalf("expected empty commit to copy nothing, got %+v", puts)
	}
}

func TestSurface_FrameNotifiesOnLastCopy(t *testing.T) {
	var puts []put
	s := recordingSurface(&puts, nil)

	_ = s.Damage(damage.Pixel(1, 1))
	_ = s.Damage(damage.Pixel(2, 2))
	_ = s.Frame()
	_ = s.Commit()

	if len(puts) != 2 || puts[0].notify || !puts[1].notify {
		t.Fatalf("expected completion on the last copy only, got %+v", puts)
	}
}

func TestSurface_FrameWithoutDamageCopiesOnePixel(t *testing.T) {
	var puts []put
	s := recordingSurface(&puts, nil)

	_ = s.Frame()
	_ = s.Commit()

	if len(puts) != 1 || puts[0].r != damage.Pixel(0, 0) || !puts[0].notify {
		t.Fatalf("expected one notifying pixel copy, got %+v", puts)
	}
}

func TestSurface_CommitStopsOnError(t *testing.T) {
	var puts []put
	boom := errors.New("bad match")
	s := recordingSurface(&puts, boom)

	_ = s.Damage(damage.Pixel(1, 1))
	_ = s.Damage(damage.Pixel(2, 2))
	if err := s.Commit(); !errors.Is(err, boom) {
		t.Fatalf("expected put error, got %v", err)
	}
	if len(puts) != 1 {
		t.Fatalf("expected to stop after first failure, got %d puts", len(puts))
	}
}
