package session

// A session executes one user command against the virtual-monitor manager
// and reports the result to a target. The resident event loop and the
// run-once/CLI fallback paths share this dispatch so wire verbs and local
// flags behave identically.

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"xrandream/src/geometry"
	"xrandream/src/regionselect"
	"xrandream/src/singleinstance"
	"xrandream/src/vdisplay"
)

// ErrSelectionCancelled is returned when the user aborts the interactive
// region selection (Escape or an empty drag).
var ErrSelectionCancelled = errors.New("region selection cancelled")

// ResultTarget receives the outcome of a command.
type ResultTarget interface {
	OnSuccess(summary string)
	OnFailure(err error)
}

// Runner executes protocol requests against a manager.
type Runner struct {
	Mgr      *vdisplay.Manager
	Selector regionselect.Selector
	Deadline time.Duration
}

func (r *Runner) deadline() time.Duration {
	if r.Deadline <= 0 {
		return 10 * time.Second
	}
	return r.Deadline
}

// Execute dispatches one request. The returned summary is the payload
// delivered to the requester (region geometry or status listing).
func (r *Runner) Execute(ctx context.Context, req singleinstance.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.deadline())
	defer cancel()

	switch req.Verb {
	case singleinstance.VerbEnable:
		region, err := r.Mgr.Enable(ctx, req.Area)
		if err != nil {
			return "", err
		}
		return region.String(), nil

	case singleinstance.VerbDisable:
		return "", r.Mgr.Disable(ctx, req.Area)

	case singleinstance.VerbToggle:
		enabled, region, err := r.Mgr.Toggle(ctx, req.Area)
		if err != nil {
			return "", err
		}
		if !enabled {
			return fmt.Sprintf("%s disabled", req.Area), nil
		}
		return region.String(), nil

	case singleinstance.VerbRegion:
		return r.selectRegion(ctx)

	case singleinstance.VerbSet:
		return r.setRegion(ctx, req.Region)

	case singleinstance.VerbList:
		return FormatSnapshot(r.Mgr.Snapshot()), nil

	case singleinstance.VerbClear:
		removed, err := r.Mgr.Clear(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("cleared %d", removed), nil
	}
	return "", fmt.Errorf("unknown verb %q", req.Verb)
}

// selectRegion runs the interactive rubber-band flow. If select_region is
// already active it is toggled off instead.
func (r *Runner) selectRegion(ctx context.Context) (string, error) {
	if r.Mgr.Active(geometry.AreaSelectRegion) {
		if err := r.Mgr.Disable(ctx, geometry.AreaSelectRegion); err != nil {
			return "", err
		}
		return "select_region disabled", nil
	}
	if r.Selector == nil {
		return "", errors.New("interactive selection unavailable")
	}

	region, cancelled, err := r.Selector.Select(ctx)
	if err != nil {
		return "", fmt.Errorf("region selection: %w", err)
	}
	if cancelled {
		log.Printf("session: region selection cancelled")
		return "", ErrSelectionCancelled
	}
	return r.setRegion(ctx, region)
}

// setRegion enables select_region at an explicit geometry, replacing any
// previous interactive region.
func (r *Runner) setRegion(ctx context.Context, region geometry.Rect) (string, error) {
	if r.Mgr.Active(geometry.AreaSelectRegion) {
		if err := r.Mgr.Disable(ctx, geometry.AreaSelectRegion); err != nil {
			return "", err
		}
	}
	if err := r.Mgr.EnableRegion(ctx, region); err != nil {
		return "", err
	}
	region = region.Clamp(r.Mgr.Screen())
	return region.String(), nil
}

// FormatSnapshot renders the enabled areas one per line as "area WxH+X+Y".
// An empty snapshot renders as "no active areas".
func FormatSnapshot(statuses []vdisplay.Status) string {
	if len(statuses) == 0 {
		return "no active areas"
	}
	var b strings.Builder
	for i, st := range statuses {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s", st.Area, st.Region)
	}
	return b.String()
}
