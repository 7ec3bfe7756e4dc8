package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"xrandream/src/config"
	"xrandream/src/display"
	"xrandream/src/geometry"
	"xrandream/src/overlay"
	"xrandream/src/regionselect"
	"xrandream/src/screenshot"
	"xrandream/src/session"
	"xrandream/src/singleinstance"
	"xrandream/src/vdisplay"
	"xrandream/src/xrandr"
)

type cliOptions struct {
	jsonOutput bool
	verbose    bool
	prefix     string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(os.Args)
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"xrandream-cli"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "xrandream-cli",
		Short:         "Manage virtual monitors for screen sharing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	root.PersistentFlags().StringVar(&opts.prefix, "prefix", "", "Override the virtual monitor name prefix")

	root.AddCommand(&cobra.Command{
		Use:   "enable <area>",
		Short: "Create the virtual monitor for a preset area",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(*opts, singleinstance.Request{Verb: singleinstance.VerbEnable, Area: args[0]})
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "disable <area>",
		Short: "Remove the virtual monitor for an area",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(*opts, singleinstance.Request{Verb: singleinstance.VerbDisable, Area: args[0]})
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "toggle <area>",
		Short: "Flip a preset area on or off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(*opts, singleinstance.Request{Verb: singleinstance.VerbToggle, Area: args[0]})
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "select",
		Short: "Interactively select a region to share",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(*opts, singleinstance.Request{Verb: singleinstance.VerbRegion})
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "set <x> <y> <width> <height>",
		Short: "Share an explicit rectangle",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			region, err := parseRect(args)
			if err != nil {
				return err
			}
			return runRequest(*opts, singleinstance.Request{
				Verb:   singleinstance.VerbSet,
				Area:   geometry.AreaSelectRegion,
				Region: region,
			})
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List active areas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(*opts, singleinstance.Request{Verb: singleinstance.VerbList})
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all virtual monitors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(*opts, singleinstance.Request{Verb: singleinstance.VerbClear})
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "snapshot <area> <file.png>",
		Short: "Save a PNG preview of what an area shares",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(*opts, args[0], args[1])
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "areas",
		Short: "List the preset area names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, area := range geometry.Presets() {
				fmt.Println(area)
			}
			fmt.Println(geometry.AreaSelectRegion)
			return nil
		},
	})

	return root
}

func parseRect(args []string) (geometry.Rect, error) {
	vals := make([]int, 4)
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return geometry.Rect{}, fmt.Errorf("invalid coordinate %q", a)
		}
		vals[i] = n
	}
	return geometry.Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

func runRequest(opts cliOptions, req singleinstance.Request) error {
	// Configure logging BEFORE any other operations.
	if !opts.verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
		fmt.Fprintf(os.Stderr, "[verbose] Sending %s\n", req.Verb)
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{MonitorPrefixOverride: opts.prefix})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ApplyDeadlineSec)*time.Second)
	defer cancel()

	startTime := time.Now()
	payload, err := execute(ctx, cfg, req, opts.verbose)
	elapsed := time.Since(startTime)
	if err != nil {
		return err
	}

	return outputResult(req, payload, elapsed, opts.jsonOutput)
}

// execute delegates to a resident when one answers the PING handshake,
// otherwise applies the request directly against the X server.
func execute(ctx context.Context, cfg *config.Config, req singleinstance.Request, verbose bool) (string, error) {
	client := singleinstance.NewClient()
	delegated, payload, err := client.Send(ctx, req)
	if delegated {
		if verbose {
			fmt.Fprintf(os.Stderr, "[verbose] Delegated to resident\n")
		}
		return payload, err
	}
	if err != nil {
		log.Printf("Delegation error: %v; falling back to standalone", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] No resident, applying directly\n")
	}

	xr := xrandr.NewRunner(cfg.XrandrPath, time.Duration(cfg.ApplyDeadlineSec)*time.Second)
	if err := xr.Check(); err != nil {
		return "", fmt.Errorf("xrandr not usable: %w", err)
	}
	screen, err := display.Primary()
	if err != nil {
		return "", fmt.Errorf("query primary screen: %w", err)
	}

	mgr := vdisplay.New(xr, cfg.MonitorPrefix, screen, overlay.Disabled)
	if _, err := mgr.Adopt(ctx); err != nil {
		log.Printf("Adopt failed: %v", err)
	}

	runner := &session.Runner{
		Mgr:      mgr,
		Selector: regionselect.New(),
		Deadline: time.Duration(cfg.ApplyDeadlineSec) * time.Second,
	}
	return runner.Execute(ctx, req)
}

// runSnapshot captures the pixels a preset area currently shares and
// writes them as PNG. It reads the screen directly, so it works with or
// without a resident.
func runSnapshot(opts cliOptions, area, path string) error {
	if !opts.verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}

	if !geometry.IsPreset(area) {
		return fmt.Errorf("unknown area %q", area)
	}
	screen, err := display.Primary()
	if err != nil {
		return fmt.Errorf("query primary screen: %w", err)
	}
	region, _ := geometry.PresetRegion(area, screen)

	data, err := screenshot.CaptureRegion(region)
	if err != nil {
		return fmt.Errorf("capture %s: %w", area, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("%s %s -> %s (%d bytes)\n", area, region, path, len(data))
	return nil
}

type commandResult struct {
	Command   string  `json:"command"`
	Area      string  `json:"area,omitempty"`
	Payload   string  `json:"payload"`
	Timestamp string  `json:"timestamp"`
	Duration  float64 `json:"duration_seconds"`
}

func outputResult(req singleinstance.Request, payload string, elapsed time.Duration, jsonOutput bool) error {
	if jsonOutput {
		result := commandResult{
			Command:   req.Verb,
			Area:      req.Area,
			Payload:   payload,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Duration:  elapsed.Seconds(),
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
		return nil
	}

	if payload != "" {
		fmt.Println(payload)
	}
	return nil
}
