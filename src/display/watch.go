package display

import (
	"context"
	"fmt"
	"log"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"

	"xrandream/src/geometry"
)

// Watch subscribes to RandR screen-change events and invokes fn with the
// new primary screen bounds whenever the head configuration changes
// (resolution switch, monitor plugged/unplugged). It blocks until ctx is
// cancelled or the X connection drops.
func Watch(ctx context.Context, fn func(geometry.Rect)) error {
	c, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("connect to X server: %w", err)
	}
	defer c.Close()

	if err := randr.Init(c); err != nil {
		return fmt.Errorf("init randr: %w", err)
	}

	root := xproto.Setup(c).DefaultScreen(c).Root
	err = randr.SelectInputChecked(c, root, randr.NotifyMaskScreenChange).Check()
	if err != nil {
		return fmt.Errorf("select randr input: %w", err)
	}

	// WaitForEvent blocks with no ctx hook; closing the connection from a
	// watcher goroutine unblocks it.
	go func() {
		<-ctx.Done()
		c.Close()
	}()

	for {
		ev, xerr := c.WaitForEvent()
		if ev == nil && xerr == nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("X connection closed")
		}
		if xerr != nil {
			log.Printf("display: X error while watching: %v", xerr)
			continue
		}
		if _, ok := ev.(randr.ScreenChangeNotifyEvent); !ok {
			continue
		}
		primary, err := Primary()
		if err != nil {
			log.Printf("display: screen changed but query failed: %v", err)
			continue
		}
		log.Printf("display: screen changed, primary now %s", primary)
		fn(primary)
	}
}
