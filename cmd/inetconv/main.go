// inetconv converts IP addresses between the textual and binary forms used by
// the MySQL/MariaDB INET functions and exports the results to CSV, Parquet
// or MaxMind DB files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/maxmind/inetconv/internal/config"
	"github.com/maxmind/inetconv/internal/convert"
	"github.com/maxmind/inetconv/internal/source"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		configPath string
		quiet      bool
		verbose    bool
		showHelp   bool
		showVer    bool
	)

	fs := flag.NewFlagSet("inetconv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configPath, "config", "", "Path to TOML or YAML configuration file")
	fs.BoolVar(&quiet, "quiet", false, "Only log warnings and errors")
	fs.BoolVar(&verbose, "verbose", false, "Log every rejected input")
	fs.BoolVar(&showHelp, "help", false, "Show usage information")
	fs.BoolVar(&showVer, "version", false, "Show version information")
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if showVer {
		fmt.Fprintf(stdout, "inetconv version %s\n", version)
		return 0
	}
	if showHelp {
		usage(stdout)
		return 0
	}

	if configPath == "" {
		if fs.NArg() == 0 {
			fmt.Fprint(stderr, "Error: config file path required\n\n")
			usage(stderr)
			return 1
		}
		configPath = fs.Arg(0)
	}

	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelWarn
	case verbose:
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	stats, err := convertFile(configPath, logger)
	if err != nil {
		logger.Error("conversion failed", "config", configPath, "error", err)
		return 1
	}
	if !quiet {
		fmt.Fprintf(stdout, "Converted %d rows (%d rejected, %d skipped)\n",
			stats.Rows, stats.Rejected, stats.Skipped)
	}
	return 0
}

func convertFile(configPath string, logger *slog.Logger) (convert.Stats, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return convert.Stats{}, err
	}

	src, err := source.Open(cfg.Input)
	if err != nil {
		return convert.Stats{}, err
	}
	defer src.Close()

	out, err := convert.NewOutput(cfg)
	if err != nil {
		return convert.Stats{}, err
	}

	c, err := convert.New(cfg, out, logger)
	if err != nil {
		return convert.Stats{}, errors.Join(err, out.Abort())
	}

	start := time.Now()
	logger.Info(
		"converting",
		"input", cfg.Input.Path,
		"format", cfg.Input.Format,
		"output", cfg.Output.Format,
		"columns", len(cfg.Columns),
	)
	stats, err := c.Convert(src.Records())
	if err != nil {
		return stats, errors.Join(err, out.Abort())
	}
	if err := out.Close(); err != nil {
		return stats, fmt.Errorf("finishing output: %w", err)
	}
	logger.Info("done", "rows", stats.Rows, "duration", time.Since(start))
	return stats, nil
}

func usage(w io.Writer) {
	fmt.Fprint(w, `inetconv - Convert IP addresses with the MySQL/MariaDB INET functions

USAGE:
    inetconv [OPTIONS] <config-file>
    inetconv --config <config-file> [OPTIONS]

OPTIONS:
    --config <file>    Path to TOML or YAML configuration file
    --quiet            Only log warnings and errors, no summary
    --verbose          Log every rejected input with the reason
    --help             Show this help message
    --version          Show version information

EXAMPLES:
    # Basic usage with config file
    inetconv config.toml

    # Using explicit flag
    inetconv --config config.yaml

    # See why inputs were rejected
    inetconv --verbose config.toml

FUNCTIONS:
    inet_aton, inet_ntoa, inet6_aton, inet6_ntoa, is_ipv4, is_ipv6,
    is_ipv4_compat, is_ipv4_mapped, canonical

`)
}
