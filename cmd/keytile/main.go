package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/keytile/internal/config"
	"github.com/1broseidon/keytile/internal/daemon"
	"github.com/1broseidon/keytile/internal/ipc"
	"github.com/1broseidon/keytile/internal/platform"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: keytile daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: keytile daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "invoke":
		os.Exit(runInvoke(os.Args[2:]))
	case "cancel":
		os.Exit(runCancel(os.Args[2:]))
	case "place":
		os.Exit(runPlace(os.Args[2:]))
	case "keys":
		os.Exit(runKeys(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: keytile <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the keytile daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  monitors            List detected monitors")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  invoke              Open a placement session for the focused window")
	fmt.Fprintln(w, "  cancel              Dismiss the active placement session")
	fmt.Fprintln(w, "  place               Snap a window to a grid span without a session")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  keys                Print the grid key layout for the configured grid")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print effective configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'keytile <command> --help' for command-specific options.")
}

func runDaemon() {
	cfgPath, err := config.DefaultConfigPath()
	if err != nil {
		log.Fatalf("Failed to resolve config path: %v", err)
	}
	cfg, err := config.LoadFromPath(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (hotkey: %s, grid: %dx%d, gap: %dpx)",
		cfg.Hotkey, cfg.Grid.Columns, cfg.Grid.Rows, cfg.Grid.Gap)

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	d, err := daemon.New(cfg, cfgPath, backend)
	if err != nil {
		log.Fatalf("Failed to initialize daemon: %v", err)
	}
	defer d.Shutdown()

	if err := d.RegisterHotkey(); err != nil {
		log.Fatalf("Failed to register hotkey: %v", err)
	}
	log.Printf("Hotkey registered: %s", cfg.Hotkey)

	ipcServer, err := ipc.NewServer(d)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	log.Println("keytile daemon started successfully")

	// Watch the config file so edits apply without a restart. SIGHUP
	// remains available as an explicit reload trigger.
	var updates <-chan *config.Config
	watcher, err := config.NewWatcher(cfgPath)
	if err != nil {
		log.Printf("Warning: config watching disabled: %v", err)
	} else {
		watcherCtx, watcherCancel := context.WithCancel(context.Background())
		defer watcherCancel()
		go watcher.Start(watcherCtx)
		updates = watcher.Updates()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					if err := d.ReloadConfig(); err != nil {
						log.Printf("Config reload failed: %v", err)
					}
				case os.Interrupt, syscall.SIGTERM:
					log.Println("Shutting down keytile daemon...")
					ipcServer.Stop()
					d.Shutdown()
					os.Exit(0)
				}
			case newCfg := <-updates:
				if err := d.ApplyConfig(newCfg); err != nil {
					log.Printf("Config update failed: %v", err)
				}
			}
		}
	}()

	log.Println("Entering event loop...")
	backend.EventLoop()
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: keytile status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("hotkey:         %s\n", status.Hotkey)
	fmt.Printf("session_active: %v\n", status.Session.Active)
	if status.Session.Active {
		fmt.Printf("session_phase:  %s\n", status.Session.Phase)
		fmt.Printf("monitor:        %s (%d of %d)\n",
			status.Session.MonitorName, status.Session.MonitorIndex+1, status.Session.MonitorCount)
	}
	fmt.Printf("grid:           %dx%d\n", status.Session.Grid.Columns, status.Session.Grid.Rows)
	return 0
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: keytile monitors [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List detected monitors with bounds and work areas.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "monitors takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	for _, m := range data.Monitors {
		primary := ""
		if m.Primary {
			primary = " (primary)"
		}
		fmt.Printf("%d: %s%s\n", m.ID, m.Name, primary)
		fmt.Printf("   bounds: %dx%d+%d+%d\n", m.Bounds.Width, m.Bounds.Height, m.Bounds.X, m.Bounds.Y)
		fmt.Printf("   work:   %dx%d+%d+%d\n", m.WorkArea.Width, m.WorkArea.Height, m.WorkArea.X, m.WorkArea.Y)
	}
	return 0
}

func runInvoke(args []string) int {
	fs := flag.NewFlagSet("invoke", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: keytile invoke")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a placement session for the focused window, as the hotkey would.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "invoke takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.Invoke(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runCancel(args []string) int {
	fs := flag.NewFlagSet("cancel", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: keytile cancel")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Dismiss the active placement session without moving any window.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "cancel takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.Cancel(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runPlace(args []string) int {
	fs := flag.NewFlagSet("place", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	window := fs.Uint("window", 0, "X11 window ID (default: focused window)")
	monitor := fs.Int("monitor", -1, "Monitor index (default: window's monitor)")
	minRow := fs.Int("min-row", 0, "Top row of the span (0-based)")
	maxRow := fs.Int("max-row", -1, "Bottom row of the span (default: min-row)")
	minCol := fs.Int("min-col", 0, "Left column of the span (0-based)")
	maxCol := fs.Int("max-col", -1, "Right column of the span (default: min-col)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: keytile place [--window ID] [--monitor N] --min-row R --min-col C [--max-row R] [--max-col C]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Snap a window to a rectangular grid span without an interactive session.")
		fmt.Fprintln(os.Stderr, "Rows and columns are 0-based and inclusive.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "place takes flag arguments only")
		fs.Usage()
		return 2
	}

	if *maxRow < 0 {
		*maxRow = *minRow
	}
	if *maxCol < 0 {
		*maxCol = *minCol
	}

	client := ipc.NewClient()
	result, err := client.Place(ipc.PlacePayload{
		Window:  uint32(*window),
		Monitor: *monitor,
		MinRow:  *minRow,
		MaxRow:  *maxRow,
		MinCol:  *minCol,
		MaxCol:  *maxCol,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("placed 0x%x at %dx%d+%d+%d\n",
		result.Window, result.Rect.Width, result.Rect.Height, result.Rect.X, result.Rect.Y)
	return 0
}
