package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ritzau/mindmap/pkg/config"
	"github.com/ritzau/mindmap/pkg/dataset"
	"github.com/ritzau/mindmap/pkg/graph"
	"github.com/ritzau/mindmap/pkg/interact"
	"github.com/ritzau/mindmap/pkg/logging"
	"github.com/ritzau/mindmap/pkg/output"
	"github.com/ritzau/mindmap/pkg/pipeline"
	"github.com/ritzau/mindmap/pkg/render"
	"github.com/ritzau/mindmap/pkg/scene"
	"github.com/ritzau/mindmap/pkg/stats"
	"github.com/ritzau/mindmap/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("mindmap", pflag.ExitOnError)
	flags.String("config", config.DefaultFile, "Path to a TOML config file")
	flags.String("dataset", "data.json", "Dataset file (.json or .js) or directory of contributor files")
	flags.String("anchor", scene.DefaultAnchor, "Label pinned at the centre of the map")
	flags.Bool("web", false, "Start web server instead of printing to console")
	flags.Int("port", 8080, "Port for web server (only used with --web)")
	flags.Bool("watch", false, "Reload when the dataset changes (only used with --web)")
	flags.Bool("open", false, "Open a browser once the server is up")
	flags.String("render", "", "Write a snapshot to this .svg or .png file and exit")
	flags.String("merge", "", "Merge the dataset directory into this consolidated file and exit")
	flags.String("sort", "", "Word table order: word, appearances or connections")
	flags.Int("width", 1280, "Viewport width")
	flags.Int("height", 800, "Viewport height")
	flags.Float64("distance", 120, "Minimum distance between node centres")
	flags.Int("iterations", 50, "Relaxation passes")
	flags.String("verbosity", "", "Log level: trace, debug, info, warn or error")
	flags.CountP("verbose", "v", "Increase verbosity (-v debug, -vv trace)")
	flags.String("log-format", "text", "Log format: text or json")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := configureLogging(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case cfg.Merge != "":
		err = runMerge(cfg)
	case cfg.Render != "":
		err = runRender(cfg)
	case cfg.WebMode:
		err = runWeb(ctx, cfg)
	default:
		err = runReport(cfg)
	}
	if err != nil {
		logging.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func configureLogging(cfg *config.Config) error {
	level := logging.VerbosityLevel(cfg.VerboseCnt)
	if cfg.Verbosity != "" {
		parsed, err := logging.ParseLevel(cfg.Verbosity)
		if err != nil {
			return err
		}
		level = parsed
	}
	logging.Configure(os.Stderr, level, cfg.LogFormat == "json")
	return nil
}

func sceneOptions(cfg *config.Config) scene.Options {
	return scene.Options{
		Anchor:          cfg.Anchor,
		Width:           float64(cfg.Width),
		Height:          float64(cfg.Height),
		MinNodeDistance: cfg.Distance,
		Iterations:      cfg.Iterations,
	}
}

func runReport(cfg *config.Config) error {
	key, err := stats.ParseSortKey(cfg.Sort)
	if err != nil {
		return err
	}

	records, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return err
	}

	summary := stats.Summarize(records, graph.Aggregate(records))
	output.PrintSummary(os.Stdout, cfg.Dataset, summary, key)
	return nil
}

func runMerge(cfg *config.Config) error {
	records, report, err := dataset.Merge(cfg.Dataset)
	if err != nil {
		return err
	}
	if err := dataset.Write(cfg.Merge, records); err != nil {
		return err
	}
	output.PrintMergeReport(os.Stdout, cfg.Dataset, cfg.Merge, report)
	return nil
}

func runRender(cfg *config.Config) error {
	var write func(f *os.File, cmds []render.Command) error
	switch strings.ToLower(filepath.Ext(cfg.Render)) {
	case ".svg":
		write = func(f *os.File, cmds []render.Command) error { return render.WriteSVG(f, cmds, cfg.Width, cfg.Height) }
	case ".png":
		write = func(f *os.File, cmds []render.Command) error { return render.WritePNG(f, cmds, cfg.Width, cfg.Height) }
	default:
		return fmt.Errorf("unsupported snapshot format %q: use .svg or .png", filepath.Ext(cfg.Render))
	}

	records, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return err
	}
	s, err := scene.Build(records, sceneOptions(cfg))
	if err != nil {
		return err
	}

	cmds := render.Render(s, render.View{
		Camera: interact.DefaultCamera(),
		Width:  float64(cfg.Width),
		Height: float64(cfg.Height),
	})

	f, err := os.Create(cfg.Render)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", cfg.Render, err)
	}
	if err := write(f, cmds); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", cfg.Render, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Render, err)
	}

	logging.Info("snapshot written", "path", cfg.Render, "nodes", s.Positions.Len(), "commands", len(cmds))
	return nil
}

func runWeb(ctx context.Context, cfg *config.Config) error {
	server := web.NewServer()
	runner := pipeline.NewRunner(cfg.Dataset, sceneOptions(cfg), server.Publisher(), server)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx, cfg.Port)
	}()

	// A failed first load is published to clients; the server keeps running
	// so a watched dataset can still be fixed
	if _, err := runner.Run(ctx, "initial load"); err != nil && !cfg.Watch {
		return err
	}

	if cfg.Watch {
		if err := runner.Watch(ctx); err != nil {
			return err
		}
	}

	if cfg.OpenBrowser {
		// Wait a moment for server to start
		time.Sleep(500 * time.Millisecond)
		openBrowser(fmt.Sprintf("http://localhost:%d", cfg.Port))
	}

	err := <-serverErr
	if errors.Is(ctx.Err(), context.Canceled) {
		logging.Info("shutting down")
	}
	return err
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		logging.Warn("cannot open browser", "platform", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		logging.Warn("failed to open browser", "error", err)
	}
}
