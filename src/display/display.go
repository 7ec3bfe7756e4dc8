package display

import (
	"fmt"
	"log"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xinerama"
	"github.com/kbinani/screenshot"

	"xrandream/src/geometry"
)

// Screen describes one physical display head.
type Screen struct {
	ID      int
	Primary bool
	Rect    geometry.Rect
}

// All enumerates display heads via Xinerama, falling back to the
// screenshot library when the X query fails (e.g. Xinerama disabled).
func All() ([]Screen, error) {
	screens, err := queryXinerama()
	if err == nil && len(screens) > 0 {
		return screens, nil
	}
	if err != nil {
		log.Printf("display: xinerama query failed, using fallback: %v", err)
	}
	return fallbackScreens()
}

// Primary returns the bounds of the primary display, the coordinate space
// all presets are computed in.
func Primary() (geometry.Rect, error) {
	screens, err := All()
	if err != nil {
		return geometry.Rect{}, err
	}
	for _, s := range screens {
		if s.Primary {
			return s.Rect, nil
		}
	}
	if len(screens) > 0 {
		return screens[0].Rect, nil
	}
	return geometry.Rect{}, fmt.Errorf("no active displays found")
}

func queryXinerama() ([]Screen, error) {
	c, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	defer c.Close()

	if err := xinerama.Init(c); err != nil {
		return nil, fmt.Errorf("init xinerama: %w", err)
	}
	reply, err := xinerama.QueryScreens(c).Reply()
	if err != nil {
		return nil, fmt.Errorf("query screens: %w", err)
	}
	if reply.Number == 0 {
		return nil, fmt.Errorf("xinerama reported no screens")
	}

	screens := make([]Screen, 0, reply.Number)
	for i := 0; i < int(reply.Number); i++ {
		info := reply.ScreenInfo[i]
		screens = append(screens, Screen{
			ID:      i,
			Primary: i == 0,
			Rect: geometry.Rect{
				X:      int(info.XOrg),
				Y:      int(info.YOrg),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}
	return screens, nil
}

func fallbackScreens() ([]Screen, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays found")
	}
	screens := make([]Screen, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		screens = append(screens, Screen{
			ID:      i,
			Primary: i == 0,
			Rect: geometry.Rect{
				X:      b.Min.X,
				Y:      b.Min.Y,
				Width:  b.Dx(),
				Height: b.Dy(),
			},
		})
	}
	return screens, nil
}
