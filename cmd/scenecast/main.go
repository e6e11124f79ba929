// Package main provides the CLI entry point for scenecast.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/scenecast/pkg/adapters/codecselect"
	"github.com/user/scenecast/pkg/adapters/ffmpegenc"
	"github.com/user/scenecast/pkg/adapters/filesink"
	"github.com/user/scenecast/pkg/adapters/ggrenderer"
	"github.com/user/scenecast/pkg/adapters/logger"
	"github.com/user/scenecast/pkg/adapters/mediaprobe"
	"github.com/user/scenecast/pkg/adapters/nullsink"
	"github.com/user/scenecast/pkg/adapters/osfilesystem"
	"github.com/user/scenecast/pkg/adapters/sysclock"
	"github.com/user/scenecast/pkg/composer"
	"github.com/user/scenecast/pkg/config"
	"github.com/user/scenecast/pkg/frame"
	"github.com/user/scenecast/pkg/ports"
	"github.com/user/scenecast/pkg/scene"
	"github.com/user/scenecast/pkg/storyboard"
	"github.com/user/scenecast/pkg/summarizer"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:        "scenecast",
		Usage:       l10n.T("Compose scene scripts into short vertical videos"),
		Description: l10n.T("scenecast turns a YAML scene script into a portrait video. Each scene is painted and held on screen while the capture pipeline samples and encodes it."),
		Version:     version,
		Commands: []*cli.Command{
			composeCommand(),
			storyboardCommand(),
			codecsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func composeCommand() *cli.Command {
	return &cli.Command{
		Name:      "compose",
		Usage:     l10n.T("Compose a scene script into a video"),
		ArgsUsage: "<script.yaml>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output file path (default: the published file name)")},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("Config file path (YAML)")},
			&cli.Float64Flag{Name: "fps", Usage: l10n.T("Capture rate in frames per second")},
			&cli.IntFlag{Name: "settle-delay", Usage: l10n.T("Extra hold after each scene in milliseconds")},
			&cli.IntFlag{Name: "quality", Aliases: []string{"q"}, Usage: l10n.T("Video quality (CRF 0-63, lower is better)")},
			&cli.IntFlag{Name: "bitrate", Usage: l10n.T("Target bitrate in kbps (0 = codec default)")},
			&cli.StringSliceFlag{Name: "codec", Usage: l10n.T("Codec preference order (hevc, h264, mjpeg)")},
			&cli.StringFlag{Name: "ffmpeg-path", Usage: l10n.T("Path to the ffmpeg executable (falls back to PATH)")},
			&cli.StringFlag{Name: "summary", Usage: l10n.T("Write a markdown run summary to this path")},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Enable debug output")},
			&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output")},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: l10n.T("Log level (debug, info, warn, error)")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output")},
		},
		Action: runCompose,
	}
}

func runCompose(c *cli.Context) error {
	script := c.Args().First()
	if script == "" {
		return cli.Exit(l10n.T("compose needs a scene script path"), 2)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// Create logger
	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Interrupted, shutting down...")
		cancel()
	}()

	if cfg.FFmpegPath != "" {
		ffmpegenc.SetBinaryPath(cfg.FFmpegPath)
	}

	// Create adapters
	fs := osfilesystem.New()
	scenes, err := loadScript(fs, script)
	if err != nil {
		return err
	}

	renderer, err := ggrenderer.New()
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	// Create debug sink
	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	prefs, err := cfg.Preferences()
	if err != nil {
		return err
	}

	comp, err := composer.New(composer.Options{
		Renderer:    renderer,
		Selector:    codecselect.New(log),
		Clock:       sysclock.New(),
		Logger:      log,
		Sink:        sink,
		FPS:         cfg.FPS,
		SettleDelay: cfg.SettleDelay(),
		Quality:     cfg.Quality,
		Bitrate:     cfg.Bitrate,
		Preferences: prefs,
	})
	if err != nil {
		return err
	}
	defer comp.Close()

	// Degrade to a static contact sheet when no encoder works here
	capability := comp.Capability()
	if !comp.CanEncode() {
		log.Warn("No usable video codec, falling back to a static storyboard")
		return composeStoryboard(c, cfg, fs, renderer, log, script, scenes, capability)
	}

	res, err := comp.Generate(ctx, scenes)
	if err != nil {
		return err
	}

	outPath := c.String("output")
	if outPath == "" {
		outPath = res.FileName()
	}
	if err := fs.WriteFile(outPath, res.Data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	// Probe our own output as a sanity check
	if info, err := mediaprobe.Detect(res.Data); err != nil {
		log.Warn("Output probe failed: %s", err)
	} else {
		log.Debug("Output verified: %s in %s container", info.Codec, info.Container)
	}

	log.Info("Output saved to %s", outPath)

	if path := c.String("summary"); path != "" {
		st := comp.Status()
		sum := summarizer.NewBuilder().
			WithScript(script, len(scenes), int(scene.TotalDuration(scenes).Milliseconds())).
			WithSettings(settingsFrom(cfg)).
			WithOutput(videoOutputInfo(outPath, st.Run, len(res.Data))).
			WithCapability(capabilityRows(capability)).
			Build()
		if err := writeSummary(path, sum); err != nil {
			return err
		}
		log.Info("Summary written to %s", path)
	}
	return nil
}

// composeStoryboard is the degraded compose path: same script, same
// summary plumbing, but a contact sheet instead of a video.
func composeStoryboard(c *cli.Context, cfg config.Config, fs ports.FileSystem, renderer ports.Renderer, log ports.Logger, script string, scenes []scene.Scene, capability []ports.CodecSupport) error {
	outPath := c.String("output")
	if outPath == "" {
		outPath = "storyboard.png"
	}

	data, err := storyboard.New(renderer, log, storyboard.DefaultOptions()).Build(scenes)
	if err != nil {
		return err
	}
	if err := fs.WriteFile(outPath, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info("Storyboard saved to %s", outPath)

	if path := c.String("summary"); path != "" {
		sum := summarizer.NewBuilder().
			WithScript(script, len(scenes), int(scene.TotalDuration(scenes).Milliseconds())).
			WithSettings(settingsFrom(cfg)).
			WithOutput(summarizer.OutputInfo{
				Path:      outPath,
				MediaType: storyboard.MediaType,
				FileSize:  int64(len(data)),
			}).
			WithFallback(true).
			WithCapability(capabilityRows(capability)).
			Build()
		if err := writeSummary(path, sum); err != nil {
			return err
		}
		log.Info("Summary written to %s", path)
	}
	return nil
}

func storyboardCommand() *cli.Command {
	return &cli.Command{
		Name:      "storyboard",
		Usage:     l10n.T("Render a scene script as a static contact sheet"),
		ArgsUsage: "<script.yaml>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "storyboard.png", Usage: l10n.T("Output PNG file path")},
			&cli.IntFlag{Name: "columns", Usage: l10n.T("Number of grid columns")},
			&cli.IntFlag{Name: "cell-width", Usage: l10n.T("Thumbnail width in pixels")},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: l10n.T("Log level (debug, info, warn, error)")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output")},
		},
		Action: runStoryboard,
	}
}

func runStoryboard(c *cli.Context) error {
	script := c.Args().First()
	if script == "" {
		return cli.Exit(l10n.T("storyboard needs a scene script path"), 2)
	}

	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(c.String("log-level")))
	}

	fs := osfilesystem.New()
	scenes, err := loadScript(fs, script)
	if err != nil {
		return err
	}

	renderer, err := ggrenderer.New()
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	opts := storyboard.DefaultOptions()
	if c.IsSet("columns") {
		opts.Columns = c.Int("columns")
	}
	if c.IsSet("cell-width") {
		opts.CellWidth = c.Int("cell-width")
	}

	data, err := storyboard.New(renderer, log, opts).Build(scenes)
	if err != nil {
		return err
	}

	outPath := c.String("output")
	if err := fs.WriteFile(outPath, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info("Storyboard saved to %s", outPath)
	return nil
}

func codecsCommand() *cli.Command {
	return &cli.Command{
		Name:  "codecs",
		Usage: l10n.T("Show runtime codec support"),
		Action: func(c *cli.Context) error {
			support := codecselect.New(logger.NewNoop()).Probe()

			rows := make([][]string, 0, len(support))
			for _, s := range support {
				state := l10n.T("yes")
				if !s.Supported {
					state = l10n.T("no")
				}
				rows = append(rows, []string{string(s.Codec), s.Container, state, s.Detail})
			}

			headers := []string{l10n.T("Codec"), l10n.T("Container"), l10n.T("Available"), l10n.T("Detail")}
			fmt.Println(renderTable(headers, rows))
			return nil
		},
	}
}

// loadConfig builds the effective config from the optional config file
// and flag overrides, then validates it.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if c.IsSet("fps") {
		cfg.FPS = c.Float64("fps")
	}
	if c.IsSet("settle-delay") {
		cfg.SettleDelayMs = c.Int("settle-delay")
	}
	if c.IsSet("quality") {
		cfg.Quality = c.Int("quality")
	}
	if c.IsSet("bitrate") {
		cfg.Bitrate = c.Int("bitrate")
	}
	if c.IsSet("codec") {
		cfg.Codecs = c.StringSlice("codec")
	}
	if c.IsSet("ffmpeg-path") {
		cfg.FFmpegPath = c.String("ffmpeg-path")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func loadScript(fs ports.FileSystem, path string) ([]scene.Scene, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return scene.ParseList(data)
}

func settingsFrom(cfg config.Config) summarizer.Settings {
	return summarizer.Settings{
		FPS:           cfg.FPS,
		SettleDelayMs: cfg.SettleDelayMs,
		Quality:       cfg.Quality,
		Bitrate:       cfg.Bitrate,
		Preference:    cfg.Codecs,
	}
}

func videoOutputInfo(path string, run *composer.RunInfo, size int) summarizer.OutputInfo {
	info := summarizer.OutputInfo{
		Path:     path,
		FileSize: int64(size),
		Width:    frame.Width,
		Height:   frame.Height,
	}
	if run != nil {
		info.Codec = string(run.Codec)
		info.Container = run.Container
		info.MediaType = run.MediaType
		info.FrameCount = run.Frames
		info.DurationMs = run.DurationMs
	}
	return info
}

func capabilityRows(support []ports.CodecSupport) []summarizer.CodecSupportInfo {
	rows := make([]summarizer.CodecSupportInfo, 0, len(support))
	for _, s := range support {
		rows = append(rows, summarizer.CodecSupportInfo{
			Codec:     string(s.Codec),
			Container: s.Container,
			Supported: s.Supported,
			Detail:    s.Detail,
		})
	}
	return rows
}

func writeSummary(path string, sum *summarizer.Summary) error {
	formatter := summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(l10n.T),
		summarizer.WithVersion(version),
	)
	return summarizer.NewWriter(formatter).Write(path, sum)
}
