package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"nmea-reader/internal/config"
	"nmea-reader/internal/gps"
	"nmea-reader/internal/metrics"
	"nmea-reader/internal/udp"
	"nmea-reader/internal/web"
)

func main() {
	var (
		configPath    string
		summarizePath string
		listPorts     bool
		quiet         bool
	)
	flag.StringVar(&configPath, "config", "./nmea-reader.yaml", "Path to YAML config (defaults apply when missing)")
	flag.StringVar(&summarizePath, "summarize", "", "Print a summary of a capture file and exit")
	flag.BoolVar(&listPorts, "list-ports", false, "List serial ports and exit")
	flag.BoolVar(&quiet, "quiet", false, "Do not print decoded sentences to stdout")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [port [baud]]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if listPorts {
		ports, err := gps.ListPorts()
		if err != nil {
			log.Fatalf("list ports failed: %v", err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}
	if summarizePath != "" {
		if err := printCaptureSummary(os.Stdout, summarizePath); err != nil {
			log.Fatalf("summarize failed: %v", err)
		}
		return
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := applyArgs(&cfg, flag.Args()); err != nil {
		log.Fatalf("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	logs := web.NewLogBuffer(2000)
	if err := setupLogging(cfg.Log, os.Stderr, logs); err != nil {
		log.Fatalf("logging setup failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()
	svc := gps.New(gpsConfig(cfg.GPS), m)

	if !quiet {
		svc.Subscribe(newConsolePrinter(os.Stdout))
	}

	status := web.NewStatus()
	status.SetGPS(svc)

	if cfg.Forward.UDPDest != "" {
		fwd, err := udp.NewForwarder(cfg.Forward.UDPDest)
		if err != nil {
			log.Fatalf("udp forwarder init failed: %v", err)
		}
		defer fwd.Close()
		svc.Subscribe(fwd)
		status.SetForward(fwd)
		log.WithField("dest", cfg.Forward.UDPDest).Info("udp forward enabled")
	}

	var hub *web.Hub
	if cfg.Web.Listen != "" {
		hub = web.NewHub()
		svc.Subscribe(hub)
		status.SetStream(hub)
	}

	printBanner(cfg.GPS)

	if err := svc.Start(ctx); err != nil {
		log.Fatalf("gps start failed: %v", err)
	}
	defer svc.Close()

	if cfg.Web.Listen != "" {
		deps := web.Deps{Status: status, Logs: logs, Hub: hub, Metrics: m.Handler()}
		go func() {
			log.WithField("listen", cfg.Web.Listen).Info("web enabled")
			err := web.Serve(ctx, cfg.Web.Listen, deps)
			if err != nil && ctx.Err() == nil {
				log.Errorf("web server stopped: %v", err)
				cancel()
			}
		}()
	}

	select {
	case <-ctx.Done():
	case <-svc.Done():
		log.Info("gps source finished")
	}
	log.Info("nmea-reader stopping")
}

func gpsConfig(c config.GPSConfig) gps.Config {
	out := gps.Config{
		Source:      c.Source,
		Device:      c.Device,
		Baud:        c.Baud,
		GPSDAddr:    c.GPSDAddr,
		ReplayPath:  c.Replay.Path,
		ReplaySpeed: c.Replay.Speed,
		ReplayLoop:  c.Replay.Loop,
	}
	if c.Record.Enable {
		out.RecordPath = c.Record.Path
	}
	return out
}

func printBanner(c config.GPSConfig) {
	fmt.Println("=== NMEA GPS Reader ===")
	switch c.Source {
	case "gpsd":
		fmt.Printf("gpsd: %s\n", c.GPSDAddr)
	case "replay":
		fmt.Printf("Replay: %s (speed %gx)\n", c.Replay.Path, c.Replay.Speed)
	default:
		port := c.Device
		if port == "" {
			port = "(auto-detect)"
		}
		fmt.Printf("Port: %s\n", port)
		fmt.Printf("Baud: %d\n", c.Baud)
	}
	fmt.Println("Press Ctrl+C to exit.")
	fmt.Println()
}
