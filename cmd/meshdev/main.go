// meshdev drives a self-organizing wireless mesh device from the command
// line. It configures the device from a TOML file plus flag overrides,
// activates it, and logs mesh events until interrupted. With -script it
// instead hands control to a JavaScript file that talks to the device
// through the "mesh" module.
//
// Usage:
//
//	meshdev [flags]
//	meshdev -script setup.js
//
// Flags:
//
//	-config string
//	    Path to configuration file (default "~/.meshdev/config.toml")
//	-script string
//	    JavaScript file to run instead of the daemon loop
//	-ssid string
//	    Router SSID (overrides config)
//	-password string
//	    Router password (overrides config)
//	-channel int
//	    Router channel (overrides config)
//	-v
//	    Enable verbose logging
//	-version
//	    Print version and exit
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-mesh/meshdev/lib/core"
	"github.com/go-mesh/meshdev/lib/device"
	"github.com/go-mesh/meshdev/lib/mesh"
	"github.com/go-mesh/meshdev/lib/metrics"
	"github.com/go-mesh/meshdev/lib/sched"
	"github.com/go-mesh/meshdev/lib/script"
	"github.com/go-mesh/meshdev/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	defaultConfigPath := filepath.Join(homeDir, ".meshdev", "config.toml")

	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	scriptPath := flag.String("script", "", "JavaScript file to run instead of the daemon loop")
	ssid := flag.String("ssid", "", "Router SSID (overrides config)")
	password := flag.String("password", "", "Router password (overrides config)")
	channel := flag.Int("channel", 0, "Router channel (overrides config)")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "meshdev - wireless mesh device controller\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  meshdev [flags]             Run the mesh daemon\n")
		fmt.Fprintf(os.Stderr, "  meshdev -script file.js     Run a control script\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("meshdev version %s\n", version.Full())
		return 0
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}
	if *ssid != "" {
		cfg.Router.SSID = *ssid
	}
	if *password != "" {
		cfg.Router.Password = *password
	}
	if *channel != 0 {
		cfg.Router.Channel = *channel
	}

	if cfg.Metrics.Enabled {
		go func() {
			logger.Info("metrics listener starting", "addr", cfg.Metrics.Listen)
			if err := http.ListenAndServe(cfg.Metrics.Listen, metrics.Handler()); err != nil {
				logger.Error("metrics listener failed", "error", err)
			}
		}()
	}

	if *scriptPath == "" {
		*scriptPath = cfg.Script.Path
	}
	if *scriptPath != "" {
		return runScript(logger, cfg, *scriptPath)
	}
	return runDaemon(logger, cfg)
}

// configure pushes the file configuration into the device.
func configure(d *device.Device, cfg *core.Config) error {
	var opts device.SetOptions
	if cfg.Router.SSID != "" {
		opts.SSID = &cfg.Router.SSID
	}
	if cfg.Router.Password != "" {
		opts.Password = &cfg.Router.Password
	}
	if cfg.Router.Channel != 0 {
		opts.Channel = &cfg.Router.Channel
	}
	if cfg.Mesh.APPassword != "" {
		opts.APPassword = &cfg.Mesh.APPassword
	}
	opts.PowerSave = &cfg.Power.Save
	if err := d.Set(opts); err != nil {
		return err
	}

	if cfg.Mesh.MaxLayer != 0 {
		topo, err := cfg.Topology()
		if err != nil {
			return err
		}
		if err := d.SetTopology(topo, cfg.Mesh.MaxLayer); err != nil {
			return err
		}
	}
	return nil
}

// runDaemon activates the device and logs mesh events until a shutdown
// signal arrives.
func runDaemon(logger *slog.Logger, cfg *core.Config) int {
	loop := sched.NewLoop(sched.DefaultQueueSize)
	defer loop.Close()

	stack := mesh.NewSimStack()
	defer stack.Close()

	d := device.GetOrCreate(stack, loop)
	if err := configure(d, cfg); err != nil {
		logger.Error("failed to configure device", "error", err)
		return 1
	}

	d.RegisterEventHandler(func(ev device.Event) {
		logger.Info("mesh event", "event", ev.Value())
	})

	if err := d.Activate(); err != nil {
		logger.Error("failed to activate mesh", "error", err)
		return 1
	}
	defer d.Deactivate()

	logger.Info("meshdev started", "ssid", cfg.Router.SSID, "version", version.Version)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("received signal, shutting down", "signal", sig)
	return 0
}

// runScript binds the device into a JavaScript runtime and executes the
// given file. The device is torn down when the script finishes.
func runScript(logger *slog.Logger, cfg *core.Config, path string) int {
	code, err := os.ReadFile(path)
	if err != nil {
		logger.Error("failed to read script", "error", err)
		return 1
	}

	rt := script.NewRuntime()
	defer rt.Close()

	stack := mesh.NewSimStack()
	defer stack.Close()

	d := device.GetOrCreate(stack, script.NewLoopScheduler(rt))
	defer d.Deactivate()
	if err := configure(d, cfg); err != nil {
		logger.Error("failed to configure device", "error", err)
		return 1
	}
	script.Register(rt.Registry(), d)

	if _, err := rt.RunScript(filepath.Base(path), string(code)); err != nil {
		logger.Error("script failed", "error", err)
		return 1
	}
	return 0
}
