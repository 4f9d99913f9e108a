package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lbphist/internal/algorithms"
	"lbphist/internal/algorithms/lbphist"
	"lbphist/internal/config"
	"lbphist/internal/lbp"
	"lbphist/internal/logger"
	"lbphist/internal/opencv/conversion"
	"lbphist/internal/report"
	"lbphist/internal/services"
	"lbphist/internal/shutdown"
)

const (
	AppName    = "lbphist"
	AppVersion = "1.0.0"
)

type options struct {
	configPath     string
	maxTransitions int
	ignoreRest     bool
	min            float64
	keying         string
	workers        int
	logLevel       string
	sum            bool
	outDir         string
	plotDir        string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] image...\n\nHistograms uniform LBP codes of pre-encoded 8-bit images.\n\n", AppName)
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "JSON config file")
	fs.IntVar(&opts.maxTransitions, "max-transitions", 2, "uniformity threshold (circular bit transitions)")
	fs.BoolVar(&opts.ignoreRest, "ignore-rest", true, "drop non-uniform codes instead of collapsing them into one bin")
	fs.Float64Var(&opts.min, "min", 0, "accepted for compatibility; has no effect")
	fs.StringVar(&opts.keying, "keying", "pattern", "bin keying: pattern or sequential")
	fs.IntVar(&opts.workers, "workers", 4, "images processed concurrently")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.BoolVar(&opts.sum, "sum", false, "sum all images into a single feature vector")
	fs.StringVar(&opts.outDir, "out", "", "write one CSV per result into this directory instead of stdout")
	fs.StringVar(&opts.plotDir, "plot", "", "write one bar chart PNG per result into this directory")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := buildConfig(fs, opts)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", AppName, err)
		return 2
	}

	level, _ := logger.ParseLevel(cfg.GetLogLevel())
	log := logger.NewConsoleLogger(level)

	if err := extract(cfg, fs.Args(), opts, log, stdout); err != nil {
		log.Error(AppName, err, nil)
		return 1
	}
	return 0
}

// buildConfig layers explicitly set flags over the config file, which in
// turn overrides the defaults.
func buildConfig(fs *flag.FlagSet, opts options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-transitions":
			cfg.MaxTransitions = &opts.maxTransitions
		case "ignore-rest":
			cfg.IgnoreRest = &opts.ignoreRest
		case "min":
			cfg.Min = &opts.min
		case "keying":
			cfg.BinKeying = &opts.keying
		case "workers":
			cfg.Workers = &opts.workers
		case "log-level":
			cfg.LogLevel = &opts.logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func extract(cfg *config.Config, paths []string, opts options, log logger.Logger, stdout io.Writer) error {
	params, err := cfg.ToParams()
	if err != nil {
		return err
	}

	manager := algorithms.NewManager(log)
	name := manager.GetCurrentExtractor()
	if err := manager.SetParameters(name, lbphist.ParamsToMap(params)); err != nil {
		return err
	}

	extractor, err := manager.GetExtractor(name)
	if err != nil {
		return err
	}
	keys, err := extractor.BinKeys(manager.GetParameters(name))
	if err != nil {
		return err
	}

	shutdownManager := shutdown.NewManager(context.Background(), log, 5*time.Second)
	service := services.NewExtractionService(manager, conversion.LoadChannels, cfg.GetWorkers(), log)
	shutdownManager.Register(service)
	shutdownManager.Listen()
	defer shutdownManager.Shutdown()

	ctx := shutdownManager.Context()

	if opts.sum {
		dst := make(lbp.FeatureVector, len(keys))
		if err := service.ExtractAccumulated(ctx, paths, dst); err != nil {
			return err
		}
		return emit("sum", keys, dst, opts, stdout)
	}

	results, err := service.ExtractFiles(ctx, paths)
	if err != nil {
		return err
	}
	for _, r := range results {
		if err := emit(r.Path, keys, r.Vector, opts, stdout); err != nil {
			return err
		}
	}
	return nil
}

func emit(label string, keys []int, vec lbp.FeatureVector, opts options, stdout io.Writer) error {
	base := strings.TrimSuffix(filepath.Base(label), filepath.Ext(label))

	if opts.outDir != "" {
		f, err := os.Create(filepath.Join(opts.outDir, base+".csv"))
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := report.WriteCSV(f, keys, vec); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(stdout, "# %s\n", label)
		if err := report.WriteCSV(stdout, keys, vec); err != nil {
			return err
		}
	}

	if opts.plotDir != "" {
		if err := report.SavePlot(filepath.Join(opts.plotDir, base+".png"), label, keys, vec); err != nil {
			return err
		}
	}
	return nil
}
