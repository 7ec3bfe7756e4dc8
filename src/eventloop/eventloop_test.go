package eventloop

import (
	"context"
	"errors"
	"testing"
	"time"

	"xrandream/src/geometry"
	"xrandream/src/session"
	"xrandream/src/singleinstance"
	"xrandream/src/vdisplay"
	"xrandream/src/xrandr"
)

type fakeXrandr struct{}

func (fakeXrandr) ListMonitors(ctx context.Context) ([]xrandr.Monitor, error) { return nil, nil }
func (fakeXrandr) SetMonitor(ctx context.Context, name string, r geometry.Rect) error {
	return nil
}
func (fakeXrandr) DelMonitor(ctx context.Context, name string) error { return nil }

type fakeSelector struct {
	region    geometry.Rect
	cancelled bool
}

func (f *fakeSelector) Select(ctx context.Context) (geometry.Rect, bool, error) {
	return f.region, f.cancelled, nil
}

type fakeServer struct {
	conns chan singleinstance.Conn
}

func (f *fakeServer) Start(ctx context.Context) error { return nil }
func (f *fakeServer) Port() int                       { return 0 }
func (f *fakeServer) Next(ctx context.Context) (singleinstance.Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case c := <-f.conns:
		return c, nil
	}
}
func (f *fakeServer) Close() error { return nil }

type fakeConn struct {
	req     singleinstance.Request
	success chan string
	failure chan string
}

func newFakeConn(req singleinstance.Request) *fakeConn {
	return &fakeConn{req: req, success: make(chan string, 1), failure: make(chan string, 1)}
}

func (c *fakeConn) Request() singleinstance.Request { return c.req }
func (c *fakeConn) RespondSuccess(payload string) error {
	c.success <- payload
	return nil
}
func (c *fakeConn) RespondError(msg string) error {
	c.failure <- msg
	return nil
}
func (c *fakeConn) Close() error { return nil }

type recordingTarget struct {
	success chan string
	failure chan error
}

func newRecordingTarget() *recordingTarget {
	return &recordingTarget{success: make(chan string, 1), failure: make(chan error, 1)}
}

func (t *recordingTarget) OnSuccess(summary string) { t.success <- summary }
func (t *recordingTarget) OnFailure(err error)      { t.failure <- err }

func startLoop(t *testing.T, sel *fakeSelector) (*Loop, *fakeServer, context.CancelFunc) {
	t.Helper()
	screen := geometry.Rect{Width: 1920, Height: 1080}
	runner := &session.Runner{
		Mgr:      vdisplay.New(fakeXrandr{}, "XRD-", screen, nil),
		Deadline: 5 * time.Second,
	}
	if sel != nil {
		runner.Selector = sel
	}

	loop := New(runner, nil)
	srv := &fakeServer{conns: make(chan singleinstance.Conn, 4)}
	loop.UseServer(srv)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = loop.Run(ctx) }()
	return loop, srv, cancel
}

func TestLoopHandlesDelegatedEnable(t *testing.T) {
	_, srv, cancel := startLoop(t, nil)
	defer cancel()

	conn := newFakeConn(singleinstance.Request{Verb: singleinstance.VerbEnable, Area: "left_half"})
	srv.conns <- conn

	select {
	case payload := <-conn.success:
		if payload != "960x1080+0+0" {
			t.Errorf("unexpected payload %q", payload)
		}
	case msg := <-conn.failure:
		t.Fatalf("unexpected failure: %s", msg)
	case <-time.After(5 * time.Second):
		t.Fatal("no response")
	}
}

func TestLoopDispatchToggleAndList(t *testing.T) {
	loop, _, cancel := startLoop(t, nil)
	defer cancel()

	target := newRecordingTarget()
	loop.Dispatch(singleinstance.Request{Verb: singleinstance.VerbToggle, Area: "right_half"}, target)
	select {
	case out := <-target.success:
		if out != "960x1080+960+0" {
			t.Errorf("unexpected toggle result %q", out)
		}
	case err := <-target.failure:
		t.Fatalf("toggle failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no toggle result")
	}

	listTarget := newRecordingTarget()
	loop.Dispatch(singleinstance.Request{Verb: singleinstance.VerbList}, listTarget)
	select {
	case out := <-listTarget.success:
		if out != "right_half 960x1080+960+0" {
			t.Errorf("unexpected listing %q", out)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no listing")
	}
}

func TestLoopRegionSelection(t *testing.T) {
	sel := &fakeSelector{region: geometry.Rect{X: 100, Y: 50, Width: 400, Height: 300}}
	loop, _, cancel := startLoop(t, sel)
	defer cancel()

	target := newRecordingTarget()
	loop.Dispatch(singleinstance.Request{Verb: singleinstance.VerbRegion}, target)
	select {
	case out := <-target.success:
		if out != "400x300+100+50" {
			t.Errorf("unexpected region %q", out)
		}
	case err := <-target.failure:
		t.Fatalf("region failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no region result")
	}
}

func TestLoopRegionCancelled(t *testing.T) {
	loop, _, cancel := startLoop(t, &fakeSelector{cancelled: true})
	defer cancel()

	target := newRecordingTarget()
	loop.Dispatch(singleinstance.Request{Verb: singleinstance.VerbRegion}, target)
	select {
	case err := <-target.failure:
		if !errors.Is(err, session.ErrSelectionCancelled) {
			t.Errorf("expected ErrSelectionCancelled, got %v", err)
		}
	case out := <-target.success:
		t.Fatalf("unexpected success: %q", out)
	case <-time.After(5 * time.Second):
		t.Fatal("no result")
	}
}

func TestLoopDisplayChangeReapplies(t *testing.T) {
	loop, _, cancel := startLoop(t, nil)
	defer cancel()

	target := newRecordingTarget()
	loop.Dispatch(singleinstance.Request{Verb: singleinstance.VerbEnable, Area: "left_half"}, target)
	select {
	case <-target.success:
	case err := <-target.failure:
		t.Fatalf("enable failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no enable result")
	}

	loop.NotifyDisplayChange(geometry.Rect{Width: 1280, Height: 720})

	// Poll the listing until the reapply lands.
	deadline := time.Now().Add(5 * time.Second)
	for {
		listTarget := newRecordingTarget()
		loop.Dispatch(singleinstance.Request{Verb: singleinstance.VerbList}, listTarget)
		select {
		case out := <-listTarget.success:
			if out == "left_half 640x720+0+0" {
				return
			}
			if time.Now().After(deadline) {
				t.Fatalf("reapply never landed, last listing %q", out)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("no listing")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
