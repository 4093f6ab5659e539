package wayland

import (
	"fmt"

	"github.com/1broseidon/swcursor/internal/pixbuf"
)

// formatXRGB8888 is wl_shm.format.xrgb8888.
const formatXRGB8888 = 1

// poolLayout places the window buffer and the pointer image back to back
// in one shm pool.
type poolLayout struct {
	width, height int
	cursorSize    int
}

func (l poolLayout) windowBytes() int { return l.width * l.height * pixbuf.BytesPerPixel }
func (l poolLayout) cursorBytes() int { return l.cursorSize * l.cursorSize * pixbuf.BytesPerPixel }
func (l poolLayout) cursorOffset() int { return l.windowBytes() }
func (l poolLayout) size() int { return l.windowBytes() + l.cursorBytes() }

// split views mem as the window buffer followed by the cursor image.
func (l poolLayout) split(mem []byte) (window, cursor *pixbuf.Buffer, err error) {
	if len(mem) < l.size() {
		return nil, nil, fmt.Errorf("pool of %d bytes, need %d", len(mem), l.size())
	}
	window, err = pixbuf.Wrap(mem[:l.windowBytes()], l.width, l.height)
	if err != nil {
		return nil, nil, fmt.Errorf("window buffer: %w", err)
	}
	cursor, err = pixbuf.Wrap(mem[l.cursorOffset():l.size()], l.cursorSize, l.cursorSize)
	if err != nil {
		return nil, nil, fmt.Errorf("cursor image: %w", err)
	}
	return window, cursor, nil
}
