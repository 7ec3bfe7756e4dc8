package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"xrandream/src/config"
	"xrandream/src/geometry"
	"xrandream/src/hotkey"
	"xrandream/src/session"
	"xrandream/src/singleinstance"
	"xrandream/src/tray"
	"xrandream/src/worker"
)

// ErrBusy is reported to requesters while a display operation is in
// flight.
var ErrBusy = errors.New("busy, please retry")

// Loop is the single-threaded coordinator of the resident process. All
// virtual-monitor mutations funnel through it: delegated TCP requests,
// the global hotkey, tray and control-window clicks, and display change
// notifications.
type Loop struct {
	runner         *session.Runner
	pool           *worker.Pool
	srv            singleinstance.Server
	busy           bool
	results        chan result
	hotkeyCh       chan struct{}
	displayCh      chan geometry.Rect
	cmdCh          chan command
	defaultTooltip string
	deadline       time.Duration

	ctx           context.Context
	pendingScreen *geometry.Rect
}

type result struct {
	summary string
	err     error
	target  session.ResultTarget
	cancel  context.CancelFunc
}

type command struct {
	req    singleinstance.Request
	target session.ResultTarget
}

// New creates an event loop around the shared command runner. If cfg is
// nil or cfg.ApplyDeadlineSec <= 0, a 10s deadline is used.
func New(runner *session.Runner, cfg *config.Config) *Loop {
	deadlineSec := 10
	if cfg != nil && cfg.ApplyDeadlineSec > 0 {
		deadlineSec = cfg.ApplyDeadlineSec
	}
	deadline := time.Duration(deadlineSec) * time.Second
	runner.Deadline = deadline

	return &Loop{
		runner:         runner,
		pool:           worker.New(0),
		results:        make(chan result, 1),
		hotkeyCh:       make(chan struct{}, 4),
		displayCh:      make(chan geometry.Rect, 4),
		cmdCh:          make(chan command, 4),
		defaultTooltip: "XranDream",
		deadline:       deadline,
	}
}

// SetDefaultTooltip optionally sets the tray tooltip base text.
func (l *Loop) SetDefaultTooltip(tt string) { l.defaultTooltip = tt }

func (l *Loop) setBusy(b bool) {
	l.busy = b
	if b {
		tray.UpdateTooltip("XranDream: applying...")
	} else {
		tray.UpdateTooltip(l.defaultTooltip)
	}
}

// StartHotkey registers the global hotkey and posts events into the loop.
func (l *Loop) StartHotkey(combo string) {
	if combo == "" {
		return
	}
	hotkey.Listen(combo, func() {
		select {
		case l.hotkeyCh <- struct{}{}:
		default:
		}
	})
}

// NotifyDisplayChange posts new primary-screen bounds into the loop, for
// the RandR watcher goroutine.
func (l *Loop) NotifyDisplayChange(screen geometry.Rect) {
	select {
	case l.displayCh <- screen:
	default:
	}
}

// Dispatch posts a command from the tray or control window. The result is
// delivered to target from the loop goroutine.
func (l *Loop) Dispatch(req singleinstance.Request, target session.ResultTarget) {
	select {
	case l.cmdCh <- command{req: req, target: target}:
	default:
		target.OnFailure(ErrBusy)
	}
}

// Run starts the singleinstance server and processes requests until ctx
// is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if l.srv == nil {
		l.srv = singleinstance.NewServer()
	}
	if err := l.srv.Start(ctx); err != nil {
		return err
	}
	l.ctx = ctx
	if p := l.srv.Port(); p > 0 {
		log.Printf("Resident listening on 127.0.0.1:%d", p)
		tray.SetAboutExtra(fmt.Sprintf("Resident TCP port: %d", p))
	}
	defer l.pool.Close()

	// Accept loop in background to avoid blocking result handling.
	reqCh := make(chan singleinstance.Conn, 4)
	go func() {
		for {
			conn, err := l.srv.Next(ctx)
			if err != nil {
				close(reqCh)
				return
			}
			reqCh <- conn
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.hotkeyCh:
			l.handleHotkey(ctx)
		case screen := <-l.displayCh:
			l.handleDisplayChange(ctx, screen)
		case cmd := <-l.cmdCh:
			l.execute(ctx, cmd.req, cmd.target)
		case conn, ok := <-reqCh:
			if !ok {
				return nil
			}
			l.execute(ctx, conn.Request(), session.DelegatedTarget{Conn: conn})
		case res := <-l.results:
			l.handleResult(res)
		}
	}
}

// UseServer injects a server, for tests.
func (l *Loop) UseServer(srv singleinstance.Server) { l.srv = srv }

// execute dispatches one request. LIST never touches xrandr and answers
// immediately even while busy. REGION blocks the loop on the interactive
// selection, then applies through the pool like everything else.
func (l *Loop) execute(ctx context.Context, req singleinstance.Request, target session.ResultTarget) {
	if req.Verb == singleinstance.VerbList {
		target.OnSuccess(session.FormatSnapshot(l.runner.Mgr.Snapshot()))
		return
	}

	if l.busy {
		target.OnFailure(ErrBusy)
		return
	}

	if req.Verb == singleinstance.VerbRegion {
		l.handleRegion(ctx, target)
		return
	}

	l.submit(ctx, req, target)
}

// handleRegion runs the rubber-band selection inline. The loop is
// deliberately blocked while the user drags; every other trigger is
// rejected as busy by the X server grab anyway.
func (l *Loop) handleRegion(ctx context.Context, target session.ResultTarget) {
	if l.runner.Mgr.Active(geometry.AreaSelectRegion) {
		l.submit(ctx, singleinstance.Request{Verb: singleinstance.VerbDisable, Area: geometry.AreaSelectRegion}, target)
		return
	}
	if l.runner.Selector == nil {
		target.OnFailure(errors.New("interactive selection unavailable"))
		return
	}

	region, cancelled, err := l.runner.Selector.Select(ctx)
	if err != nil {
		target.OnFailure(fmt.Errorf("region selection: %w", err))
		return
	}
	if cancelled {
		target.OnFailure(session.ErrSelectionCancelled)
		return
	}

	l.submit(ctx, singleinstance.Request{Verb: singleinstance.VerbSet, Region: region}, target)
}

func (l *Loop) submit(ctx context.Context, req singleinstance.Request, target session.ResultTarget) {
	jobCtx, cancel := context.WithTimeout(ctx, l.deadline)
	l.setBusy(true)
	submitted := l.pool.Submit(jobCtx, func(taskCtx context.Context) (string, error) {
		return l.runner.Execute(taskCtx, req)
	}, func(summary string, err error) {
		l.results <- result{summary: summary, err: err, target: target, cancel: cancel}
	})
	if !submitted {
		cancel()
		l.setBusy(false)
		target.OnFailure(ErrBusy)
	}
}

func (l *Loop) handleResult(res result) {
	defer func() {
		l.setBusy(false)
		if res.cancel != nil {
			res.cancel()
		}
		if s := l.pendingScreen; s != nil {
			l.pendingScreen = nil
			l.handleDisplayChange(l.ctx, *s)
		}
	}()
	if res.err != nil {
		log.Printf("eventloop: request failed: %v", res.err)
		res.target.OnFailure(res.err)
		return
	}
	res.target.OnSuccess(res.summary)
}

func (l *Loop) handleHotkey(ctx context.Context) {
	log.Printf("eventloop: hotkey pressed")
	l.execute(ctx, singleinstance.Request{Verb: singleinstance.VerbRegion},
		session.NotifyTarget{Title: "XranDream region"})
}

// handleDisplayChange recreates active virtual monitors for the new
// screen bounds. Runs through the pool so it serializes with user
// commands.
func (l *Loop) handleDisplayChange(ctx context.Context, screen geometry.Rect) {
	if l.busy {
		// Remember the latest bounds; the reapply runs once the current
		// operation finishes.
		l.pendingScreen = &screen
		return
	}
	log.Printf("eventloop: display change, new screen %s", screen)
	jobCtx, cancel := context.WithTimeout(ctx, l.deadline)
	l.setBusy(true)
	submitted := l.pool.Submit(jobCtx, func(taskCtx context.Context) (string, error) {
		return "", l.runner.Mgr.Reapply(taskCtx, screen)
	}, func(summary string, err error) {
		l.results <- result{summary: summary, err: err, target: logTarget{}, cancel: cancel}
	})
	if !submitted {
		cancel()
		l.setBusy(false)
		l.pendingScreen = &screen
	}
}

// logTarget swallows success and logs failure, for internally triggered
// operations with no requester.
type logTarget struct{}

func (logTarget) OnSuccess(string) {}

func (logTarget) OnFailure(err error) {
	log.Printf("eventloop: reapply failed: %v", err)
}

// Deadline returns the configured apply deadline for this loop.
func (l *Loop) Deadline() time.Duration { return l.deadline }
