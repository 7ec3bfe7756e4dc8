package overlay

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"xrandream/src/geometry"
)

// borderWidth matches the 3px outline the original UI drew around shared
// regions.
const borderWidth = 3

// NewX11Outline draws a red border around r using four thin
// override-redirect windows (top, bottom, left, right). Strip windows
// avoid the SHAPE extension while leaving the interior fully click-through.
func NewX11Outline(r geometry.Rect) (Outline, error) {
	c, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}

	o := &x11Outline{conn: c}
	if err := o.create(r); err != nil {
		c.Close()
		return nil, err
	}
	return o, nil
}

type x11Outline struct {
	conn *xgb.Conn
	wins [4]xproto.Window
}

func (o *x11Outline) create(r geometry.Rect) error {
	screen := xproto.Setup(o.conn).DefaultScreen(o.conn)

	pixel, err := redPixel(o.conn, screen)
	if err != nil {
		pixel = screen.WhitePixel
	}

	for i, strip := range strips(r) {
		wid, err := xproto.NewWindowId(o.conn)
		if err != nil {
			return fmt.Errorf("allocate window id: %w", err)
		}
		err = xproto.CreateWindowChecked(o.conn, xproto.WindowClassCopyFromParent,
			wid, screen.Root,
			int16(strip.X), int16(strip.Y), uint16(strip.Width), uint16(strip.Height),
			0, xproto.WindowClassInputOutput, screen.RootVisual,
			xproto.CwBackPixel|xproto.CwOverrideRedirect,
			[]uint32{pixel, 1}).Check()
		if err != nil {
			return fmt.Errorf("create outline window: %w", err)
		}
		if err := xproto.MapWindowChecked(o.conn, wid).Check(); err != nil {
			return fmt.Errorf("map outline window: %w", err)
		}
		o.wins[i] = wid
	}
	return nil
}

func (o *x11Outline) Move(r geometry.Rect) error {
	for i, strip := range strips(r) {
		err := xproto.ConfigureWindowChecked(o.conn, o.wins[i],
			xproto.ConfigWindowX|xproto.ConfigWindowY|
				xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
			[]uint32{
				uint32(strip.X), uint32(strip.Y),
				uint32(strip.Width), uint32(strip.Height),
			}).Check()
		if err != nil {
			return fmt.Errorf("move outline window: %w", err)
		}
	}
	return nil
}

func (o *x11Outline) Destroy() {
	for _, wid := range o.wins {
		if wid != 0 {
			xproto.DestroyWindow(o.conn, wid)
		}
	}
	o.conn.Close()
}

// strips returns the four border rectangles for a region, ordered top,
// bottom, left, right. Degenerate regions collapse to 1px strips so X
// never sees a zero-sized window.
func strips(r geometry.Rect) [4]geometry.Rect {
	w := max(r.Width, 1)
	h := max(r.Height, 1)
	side := max(h-2*borderWidth, 1)
	return [4]geometry.Rect{
		{X: r.X, Y: r.Y, Width: w, Height: borderWidth},
		{X: r.X, Y: r.Y + h - borderWidth, Width: w, Height: borderWidth},
		{X: r.X, Y: r.Y + borderWidth, Width: borderWidth, Height: side},
		{X: r.X + w - borderWidth, Y: r.Y + borderWidth, Width: borderWidth, Height: side},
	}
}

func redPixel(c *xgb.Conn, screen *xproto.ScreenInfo) (uint32, error) {
	reply, err := xproto.AllocColor(c, screen.DefaultColormap, 0xffff, 0, 0).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Pixel, nil
}
