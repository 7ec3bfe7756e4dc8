package regionselect

import (
	"context"
	"fmt"
	"log"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"xrandream/src/geometry"
	"xrandream/src/overlay"
)

// XC_crosshair glyph index in the standard X cursor font.
const crosshairGlyph = 34

const escapeKeysym = 0xff1b

// x11Selector implements a click-drag rubber band on the root window: grab
// the pointer with a crosshair cursor, track press/motion/release, draw a
// live border via the overlay strips, commit on release, cancel on Escape.
type x11Selector struct{}

func (s *x11Selector) Select(ctx context.Context) (geometry.Rect, bool, error) {
	c, err := xgb.NewConn()
	if err != nil {
		return geometry.Rect{}, false, fmt.Errorf("connect to X server: %w", err)
	}
	defer c.Close()

	screen := xproto.Setup(c).DefaultScreen(c)
	root := screen.Root

	cursor, err := crosshairCursor(c)
	if err != nil {
		log.Printf("regionselect: crosshair cursor unavailable: %v", err)
		cursor = xproto.CursorNone
	}

	if err := grab(c, root, cursor); err != nil {
		return geometry.Rect{}, false, err
	}
	defer ungrab(c)

	escape, err := escapeKeycode(c)
	if err != nil {
		log.Printf("regionselect: keymap lookup failed, Escape disabled: %v", err)
	}

	// Unblock WaitForEvent when the caller gives up.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()

	return s.track(ctx, c, escape)
}

// track consumes grabbed input events until release or cancel.
func (s *x11Selector) track(ctx context.Context, c *xgb.Conn, escape xproto.Keycode) (geometry.Rect, bool, error) {
	var (
		begin    geometry.Point
		current  geometry.Point
		dragging bool
		band     overlay.Outline
	)
	defer func() {
		if band != nil {
			band.Destroy()
		}
	}()

	for {
		ev, xerr := c.WaitForEvent()
		if ev == nil && xerr == nil {
			if ctx.Err() != nil {
				return geometry.Rect{}, false, ctx.Err()
			}
			return geometry.Rect{}, false, fmt.Errorf("X connection closed during selection")
		}
		if xerr != nil {
			log.Printf("regionselect: X error: %v", xerr)
			continue
		}

		switch e := ev.(type) {
		case xproto.ButtonPressEvent:
			begin = geometry.Point{X: int(e.RootX), Y: int(e.RootY)}
			current = begin
			dragging = true
		case xproto.MotionNotifyEvent:
			if !dragging {
				continue
			}
			current = geometry.Point{X: int(e.RootX), Y: int(e.RootY)}
			r := geometry.RectFromPoints(begin, current)
			if r.Empty() {
				continue
			}
			if band == nil {
				b, err := overlay.NewX11Outline(r)
				if err != nil {
					log.Printf("regionselect: rubber band unavailable: %v", err)
				} else {
					band = b
				}
				continue
			}
			if err := band.Move(r); err != nil {
				log.Printf("regionselect: rubber band move failed: %v", err)
			}
		case xproto.ButtonReleaseEvent:
			if !dragging {
				continue
			}
			current = geometry.Point{X: int(e.RootX), Y: int(e.RootY)}
			r := geometry.RectFromPoints(begin, current)
			if r.Empty() {
				// A click without a drag selects nothing.
				return geometry.Rect{}, true, nil
			}
			log.Printf("regionselect: selected %s", r)
			return r, false, nil
		case xproto.KeyPressEvent:
			if escape != 0 && e.Detail == escape {
				log.Printf("regionselect: cancelled with Escape")
				return geometry.Rect{}, true, nil
			}
		}
	}
}

func grab(c *xgb.Conn, root xproto.Window, cursor xproto.Cursor) error {
	const mask = uint16(xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskPointerMotion)

	reply, err := xproto.GrabPointer(c, false, root, mask,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, cursor, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return fmt.Errorf("grab pointer: %w", err)
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("grab pointer: status %d (another grab active?)", reply.Status)
	}

	kreply, err := xproto.GrabKeyboard(c, false, root, xproto.TimeCurrentTime,
		xproto.GrabModeAsync, xproto.GrabModeAsync).Reply()
	if err != nil || kreply.Status != xproto.GrabStatusSuccess {
		// Selection still works without Escape handling.
		log.Printf("regionselect: keyboard grab failed (err=%v)", err)
	}
	return nil
}

func ungrab(c *xgb.Conn) {
	xproto.UngrabPointer(c, xproto.TimeCurrentTime)
	xproto.UngrabKeyboard(c, xproto.TimeCurrentTime)
}

func crosshairCursor(c *xgb.Conn) (xproto.Cursor, error) {
	fid, err := xproto.NewFontId(c)
	if err != nil {
		return 0, err
	}
	if err := xproto.OpenFontChecked(c, fid, uint16(len("cursor")), "cursor").Check(); err != nil {
		return 0, err
	}
	defer xproto.CloseFont(c, fid)

	cid, err := xproto.NewCursorId(c)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateGlyphCursorChecked(c, cid, fid, fid,
		crosshairGlyph, crosshairGlyph+1,
		0, 0, 0, 0xffff, 0xffff, 0xffff).Check()
	if err != nil {
		return 0, err
	}
	return cid, nil
}

// escapeKeycode resolves the keycode bound to XK_Escape in the current
// keymap instead of assuming the usual 9.
func escapeKeycode(c *xgb.Conn) (xproto.Keycode, error) {
	setup := xproto.Setup(c)
	first := setup.MinKeycode
	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)

	reply, err := xproto.GetKeyboardMapping(c, first, count).Reply()
	if err != nil {
		return 0, err
	}
	per := int(reply.KeysymsPerKeycode)
	for i := 0; i < int(count); i++ {
		for j := 0; j < per; j++ {
			if reply.Keysyms[i*per+j] == escapeKeysym {
				return first + xproto.Keycode(i), nil
			}
		}
	}
	return 0, fmt.Errorf("XK_Escape not found in keymap")
}
