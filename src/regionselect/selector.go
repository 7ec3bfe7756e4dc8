package regionselect

import (
	"context"

	"xrandream/src/geometry"
)

// Selector defines a synchronous region-selection API owned by the event
// loop. The call is blocking and MUST be invoked only from the single
// event-loop goroutine. Returns (region, cancelled, error). If cancelled
// is true, region is undefined and err is nil.
type Selector interface {
	Select(ctx context.Context) (geometry.Rect, bool, error)
}

// New returns the X11 rubber-band implementation.
func New() Selector {
	return &x11Selector{}
}
