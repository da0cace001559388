// Package main provides the moshbrosh command-line datamosher.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/moshbrosh/config"
	"github.com/opd-ai/moshbrosh/internal/pipeline"
	"github.com/opd-ai/moshbrosh/motion"
	"github.com/opd-ai/moshbrosh/videoio"
)

// CLI configuration
type CLIConfig struct {
	input      string
	output     string
	configFile string

	moshFrame   int
	duration    int
	blockSize   int
	searchRange int
	blendPct    float64

	strategy        string
	searchStep      int
	maxDisplacement int
	workers         int

	frameDuration time.Duration
	timeout       time.Duration

	logLevel  string
	logFormat string
	quiet     bool
	help      bool

	// set records the flags given on the command line.
	set map[string]bool
}

// parseCLIFlags parses args into a CLIConfig using fs.
func parseCLIFlags(fs *flag.FlagSet, args []string) (*CLIConfig, error) {
	cli := &CLIConfig{set: make(map[string]bool)}
	defaults := config.Default()

	// I/O
	fs.StringVar(&cli.input, "i", "", "Input clip: PNG directory, .webp or .mpg")
	fs.StringVar(&cli.output, "o", "", "Output: PNG directory or .webp")
	fs.StringVar(&cli.configFile, "config", "", "YAML configuration file")

	// Mosh parameters
	fs.IntVar(&cli.moshFrame, "f", defaults.MoshStart, "First moshed frame")
	fs.IntVar(&cli.duration, "d", defaults.Duration, "Number of moshed frames")
	fs.IntVar(&cli.blockSize, "b", defaults.BlockSize, "Block size in pixels")
	fs.IntVar(&cli.searchRange, "s", defaults.SearchRange, "Motion search range in pixels")
	fs.Float64Var(&cli.blendPct, "m", defaults.Blend*100, "Blend percent (0-100)")

	// Estimator tuning
	fs.StringVar(&cli.strategy, "strategy", defaults.Strategy.String(), "Motion estimator (sad, gradient)")
	fs.IntVar(&cli.searchStep, "step", defaults.SearchStep, "SAD candidate spacing")
	fs.IntVar(&cli.maxDisplacement, "max-displacement", defaults.MaxDisplacement, "Gradient vector clamp")
	fs.IntVar(&cli.workers, "workers", 0, "Estimation workers (0 = GOMAXPROCS)")

	// Output timing
	fs.DurationVar(&cli.frameDuration, "frame-duration", videoio.DefaultFrameDuration, "Frame duration for animated output")
	fs.DurationVar(&cli.timeout, "timeout", 30*time.Minute, "Overall run timeout")

	// Logging
	fs.StringVar(&cli.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&cli.logFormat, "log-format", "text", "Log format (text, json)")
	fs.BoolVar(&cli.quiet, "quiet", false, "Suppress the run report")

	// Help
	fs.BoolVar(&cli.help, "help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { cli.set[f.Name] = true })
	return cli, nil
}

// printUsage prints the usage information.
func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "MoshBrosh Datamosher")
	fmt.Fprintln(w, "====================")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Replaces a run of frames with block motion accumulated onto the")
	fmt.Fprintln(w, "frame before it, producing the smeared datamosh look.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s -i <input> -o <output> [options]\n", fs.Name())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintf(w, "  # Mosh 30 frames starting at frame 10\n")
	fmt.Fprintf(w, "  %s -i frames/ -o moshed/\n", fs.Name())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  # Gradient estimator, half blend, animated output\n")
	fmt.Fprintf(w, "  %s -i clip.mpg -o moshed.webp -strategy gradient -m 50\n", fs.Name())
}

// validateCLIConfig validates the CLI configuration.
func validateCLIConfig(cli *CLIConfig) error {
	if cli.input == "" {
		return fmt.Errorf("input path is required (-i)")
	}

	if cli.output == "" {
		return fmt.Errorf("output path is required (-o)")
	}

	if cli.blendPct < 0 || cli.blendPct > 100 {
		return fmt.Errorf("blend must be between 0 and 100")
	}

	if _, err := motion.ParseStrategy(cli.strategy); err != nil {
		return err
	}

	if _, err := logrus.ParseLevel(cli.logLevel); err != nil {
		return fmt.Errorf("invalid log level %q", cli.logLevel)
	}

	switch strings.ToLower(cli.logFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", cli.logFormat)
	}

	if cli.frameDuration <= 0 {
		return fmt.Errorf("frame duration must be positive")
	}

	if cli.timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return nil
}

// createMoshConfig builds the engine configuration: the config file (or the
// defaults) with every explicitly given flag applied on top.
func createMoshConfig(cli *CLIConfig) (config.Config, error) {
	cfg := config.Default()
	if cli.configFile != "" {
		loaded, err := config.Load(cli.configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	overrides := map[string]func() error{
		"f": func() error { cfg.MoshStart = cli.moshFrame; return nil },
		"d": func() error { cfg.Duration = cli.duration; return nil },
		"b": func() error { cfg.BlockSize = cli.blockSize; return nil },
		"s": func() error { cfg.SearchRange = cli.searchRange; return nil },
		"m": func() error {
			blend, err := config.BlendFromPercent(cli.blendPct)
			cfg.Blend = blend
			return err
		},
		"strategy": func() error {
			s, err := motion.ParseStrategy(cli.strategy)
			cfg.Strategy = s
			return err
		},
		"step":             func() error { cfg.SearchStep = cli.searchStep; return nil },
		"max-displacement": func() error { cfg.MaxDisplacement = cli.maxDisplacement; return nil },
		"workers":          func() error { cfg.Workers = cli.workers; return nil },
	}
	for name, apply := range overrides {
		if !cli.set[name] {
			continue
		}
		if err := apply(); err != nil {
			return config.Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// createPipelineConfig converts CLI configuration to a pipeline configuration.
func createPipelineConfig(cli *CLIConfig) (*pipeline.PipelineConfig, error) {
	mosh, err := createMoshConfig(cli)
	if err != nil {
		return nil, err
	}
	return &pipeline.PipelineConfig{
		InputPath:      cli.input,
		OutputPath:     cli.output,
		FrameDuration:  cli.frameDuration,
		Mosh:           mosh,
		OverallTimeout: cli.timeout,
		VerboseOutput:  !cli.quiet,
	}, nil
}

// setupLogging configures the global logrus logger.
func setupLogging(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)
	if strings.ToLower(format) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// setupSignalHandling cancels the run on interrupt.
func setupSignalHandling(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	go func() {
		sig := <-sigChan
		fmt.Fprintf(os.Stderr, "\n🛑 Received signal %v, stopping...\n", sig)
		cancel()
	}()
}

// run is main without the process exit, returning the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("moshbrosh", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cli, err := parseCLIFlags(fs, args)
	if err != nil {
		return 2
	}

	if cli.help {
		printUsage(stdout, fs)
		return 0
	}

	if err := validateCLIConfig(cli); err != nil {
		fmt.Fprintf(stderr, "❌ Configuration error: %v\n", err)
		fmt.Fprintf(stderr, "Use -help for usage information.\n")
		return 1
	}

	if err := setupLogging(cli.logLevel, cli.logFormat); err != nil {
		fmt.Fprintf(stderr, "❌ Logging setup failed: %v\n", err)
		return 1
	}

	pipelineConfig, err := createPipelineConfig(cli)
	if err != nil {
		fmt.Fprintf(stderr, "❌ Invalid configuration: %v\n", err)
		return 1
	}
	pipelineConfig.ReportOutput = stdout

	runner := pipeline.NewRunner(pipelineConfig)
	if err := runner.ValidateConfiguration(); err != nil {
		fmt.Fprintf(stderr, "❌ Invalid configuration: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	results, err := runner.Run(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "\n❌ Mosh failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "\n🎉 Wrote %d frames to %s (%d moshed, %v)\n",
		results.FramesWritten, cli.output, results.FramesMoshed, results.ExecutionTime)
	return 0
}

// main is the entry point for the datamosher.
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
