package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"xrandream/src/config"
	"xrandream/src/display"
	"xrandream/src/eventloop"
	"xrandream/src/geometry"
	"xrandream/src/logutil"
	"xrandream/src/overlay"
	"xrandream/src/regionselect"
	"xrandream/src/session"
	"xrandream/src/singleinstance"
	"xrandream/src/tray"
	"xrandream/src/ui"
	"xrandream/src/vdisplay"
	"xrandream/src/xrandr"
)

// normalizeFlagDashes maps GNU-style --flag to Go's -flag for the flags
// this binary accepts.
func normalizeFlagDashes() {
	known := []string{"toggle", "select-region", "clear", "list", "window", "hotkey", "prefix"}
	for i := 1; i < len(os.Args); i++ {
		arg := os.Args[i]
		for _, name := range known {
			long := "--" + name
			if arg == long || strings.HasPrefix(arg, long+"=") {
				os.Args[i] = arg[1:]
				break
			}
		}
	}
}

func main() {
	toggleArea := flag.String("toggle", "", "Toggle a preset area and exit (e.g. left_half)")
	selectRegion := flag.Bool("select-region", false, "Interactively select a region to share and exit")
	clearAll := flag.Bool("clear", false, "Remove all virtual monitors and exit")
	list := flag.Bool("list", false, "List active areas and exit")
	window := flag.Bool("window", false, "Show the control window")
	hotkeyFlag := flag.String("hotkey", "", "Override the global hotkey (e.g. Ctrl+Alt+S)")
	prefixFlag := flag.String("prefix", "", "Override the virtual monitor name prefix")
	normalizeFlagDashes()
	flag.Parse()

	opts := config.LoadOptions{
		MonitorPrefixOverride: *prefixFlag,
		HotkeyOverride:        *hotkeyFlag,
	}

	// Run-once modes delegate to a resident when one exists so state
	// stays in one process; otherwise they apply directly and exit.
	if req, ok := runOnceRequest(*toggleArea, *selectRegion, *clearAll, *list); ok {
		// Load .env early so SINGLEINSTANCE_PORT_* are applied before the
		// delegation scan.
		cfg, err := config.LoadWithOptions(opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		logutil.Setup(cfg.EnableFileLogging)
		os.Exit(runOnce(cfg, req))
	}

	// Load .env early so SINGLEINSTANCE_PORT_* are available for pre-flight
	_, _ = config.Load()
	// ---------- SINGLE-INSTANCE PRE-FLIGHT ----------
	startPort, _ := singleinstance.PortRange()
	addr := fmt.Sprintf("127.0.0.1:%d", startPort)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("Pre-flight: port %d busy, resident already exists", startPort)
		fmt.Printf("one is already running on port %d\n", startPort)
		os.Exit(1)
	}
	// We claimed the port; release it so the event loop can re-bind.
	_ = listener.Close()
	log.Printf("Pre-flight: port %d free, we are the resident", startPort)
	// ------------------------------------------------

	cfg, err := config.LoadWithOptions(opts)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logutil.Setup(cfg.EnableFileLogging)

	runner, err := newSessionRunner(cfg, true)
	if err != nil {
		log.Fatalf("Startup failed: %v", err)
	}

	log.Printf("XranDream initialized")
	log.Printf("Monitor prefix: %s", cfg.MonitorPrefix)
	log.Printf("Hotkey: %s", cfg.Hotkey)
	log.Printf("Apply deadline: %ds", cfg.ApplyDeadlineSec)

	loop := eventloop.New(runner, cfg)
	loop.SetDefaultTooltip(fmt.Sprintf("XranDream - Press %s to select a region", cfg.Hotkey))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tray and window clicks post into the loop; results surface as
	// notifications.
	notify := session.NotifyTarget{Title: "XranDream"}
	callbacks := struct {
		toggle       func(string)
		selectRegion func()
		clear        func()
		quit         func()
	}{
		toggle: func(area string) {
			loop.Dispatch(singleinstance.Request{Verb: singleinstance.VerbToggle, Area: area}, notify)
		},
		selectRegion: func() {
			loop.Dispatch(singleinstance.Request{Verb: singleinstance.VerbRegion}, notify)
		},
		clear: func() {
			loop.Dispatch(singleinstance.Request{Verb: singleinstance.VerbClear}, notify)
		},
		quit: func() { cancel() },
	}

	var win *ui.Window
	if *window || cfg.ShowWindow {
		win = ui.New(ui.Callbacks{
			OnToggle:       callbacks.toggle,
			OnSelectRegion: callbacks.selectRegion,
			OnClear:        callbacks.clear,
			OnQuit:         callbacks.quit,
		})
	}

	// Mirror manager state into the tray checkmarks and the window.
	runner.Mgr.SetListener(func(area string, enabled bool, _ geometry.Rect) {
		tray.SetChecked(area, enabled)
		if win != nil {
			win.SetChecked(area, enabled)
		}
	})
	for _, st := range runner.Mgr.Snapshot() {
		tray.SetChecked(st.Area, true)
		if win != nil {
			win.SetChecked(st.Area, true)
		}
	}

	go tray.Run(tray.Callbacks{
		OnToggle:       callbacks.toggle,
		OnSelectRegion: callbacks.selectRegion,
		OnClear:        callbacks.clear,
		OnQuit:         callbacks.quit,
	})
	defer tray.Quit()

	loop.StartHotkey(cfg.Hotkey)

	// React to resolution changes by recreating active monitors.
	go func() {
		if err := display.Watch(ctx, loop.NotifyDisplayChange); err != nil {
			log.Printf("Display watch unavailable: %v", err)
		}
	}()

	// Handle SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	if win != nil {
		// Fyne owns the main goroutine; the loop moves to a worker.
		go func() {
			defer win.Quit()
			if err := loop.Run(ctx); err != nil {
				log.Printf("event loop stopped: %v", err)
			}
		}()
		win.ShowAndRun()
		cancel()
		return
	}

	if err := loop.Run(ctx); err != nil {
		log.Printf("event loop stopped: %v", err)
	}
}

// runOnceRequest maps the run-once flags to a protocol request. At most
// one mode may be set.
func runOnceRequest(toggleArea string, selectRegion, clearAll, list bool) (singleinstance.Request, bool) {
	modes := 0
	var req singleinstance.Request
	if toggleArea != "" {
		modes++
		req = singleinstance.Request{Verb: singleinstance.VerbToggle, Area: toggleArea}
	}
	if selectRegion {
		modes++
		req = singleinstance.Request{Verb: singleinstance.VerbRegion}
	}
	if clearAll {
		modes++
		req = singleinstance.Request{Verb: singleinstance.VerbClear}
	}
	if list {
		modes++
		req = singleinstance.Request{Verb: singleinstance.VerbList}
	}
	if modes > 1 {
		fmt.Fprintln(os.Stderr, "error: --toggle, --select-region, --clear and --list are mutually exclusive")
		os.Exit(2)
	}
	return req, modes == 1
}

// runOnce delegates the request to a resident if present, otherwise
// applies it directly against the X server. Returns the process exit
// code.
func runOnce(cfg *config.Config, req singleinstance.Request) int {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ApplyDeadlineSec)*time.Second)
	defer cancel()

	return handleRunOnceWithDelegation(ctx, singleinstance.NewClient(), req, func() int {
		runner, err := newSessionRunner(cfg, false)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return 1
		}
		summary, err := runner.Execute(ctx, req)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return 1
		}
		if summary != "" {
			fmt.Println(summary)
		}
		return 0
	})
}

// handleRunOnceWithDelegation prefers the resident; fallback runs the
// command standalone when no resident answers.
func handleRunOnceWithDelegation(ctx context.Context, client singleinstance.Client, req singleinstance.Request, fallback func() int) int {
	delegated, payload, err := client.Send(ctx, req)
	if delegated {
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return 1
		}
		log.Printf("Delegated to resident")
		if payload != "" {
			fmt.Println(payload)
		}
		return 0
	}
	if err != nil {
		log.Printf("Delegation error: %v; falling back to standalone", err)
	} else {
		log.Printf("No resident detected, running standalone")
	}
	return fallback()
}

// newSessionRunner wires the xrandr client, the manager and the selector.
// Outlines are only drawn by the resident; a run-once process exits
// immediately and would take its outline windows with it.
func newSessionRunner(cfg *config.Config, resident bool) (*session.Runner, error) {
	xr := xrandr.NewRunner(cfg.XrandrPath, time.Duration(cfg.ApplyDeadlineSec)*time.Second)
	if err := xr.Check(); err != nil {
		return nil, fmt.Errorf("xrandr not usable: %w", err)
	}

	screen, err := display.Primary()
	if err != nil {
		return nil, fmt.Errorf("query primary screen: %w", err)
	}
	log.Printf("Primary screen: %s", screen)

	outlines := overlay.Disabled
	if resident && cfg.Outlines {
		outlines = overlay.NewX11Outline
	}

	mgr := vdisplay.New(xr, cfg.MonitorPrefix, screen, outlines)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ApplyDeadlineSec)*time.Second)
	defer cancel()
	if adopted, err := mgr.Adopt(ctx); err != nil {
		log.Printf("Adopt failed: %v", err)
	} else if adopted > 0 {
		log.Printf("Adopted %d leftover virtual monitor(s)", adopted)
	}

	return &session.Runner{
		Mgr:      mgr,
		Selector: regionselect.New(),
		Deadline: time.Duration(cfg.ApplyDeadlineSec) * time.Second,
	}, nil
}
