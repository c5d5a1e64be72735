package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/df07/go-halide/pkg/storage"
)

// envPrefix namespaces every environment variable the CLI reads
const envPrefix = "HALIDE_"

// Config holds the settings for one CLI render
type Config struct {
	Scene      string
	Width      int // 0 keeps the scene default
	Samples    int // 0 keeps the scene default
	Depth      int // 0 keeps the scene default
	Seed       int64
	Workers    int // 0 selects the physical core count
	OutDir     string
	Format     string // "png" or "ppm"
	Gamma      bool
	Thumbnail  int // Thumbnail width in pixels, 0 disables
	MotionBlur bool
	S3         storage.S3Config
}

func defaultConfig() Config {
	return Config{
		Scene:  "default",
		Seed:   42,
		OutDir: "output",
		Format: "png",
		Gamma:  true,
	}
}

// loadConfig layers built-in defaults, a .env file, HALIDE_* variables and flags,
// each overriding the one before. The boolean reports -help.
func loadConfig(args []string, envFile string, output io.Writer) (Config, bool, error) {
	// godotenv never overwrites variables that are already set
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, false, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := defaultConfig()
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, false, err
	}

	cfg, help, err := parseFlags(args, cfg, output)
	if err != nil || help {
		return cfg, help, err
	}

	return cfg, false, cfg.Validate()
}

// applyEnv overrides cfg with any HALIDE_* variables that are set
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := lookup(envPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(envPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	str("SCENE", &cfg.Scene)
	integer("WIDTH", &cfg.Width)
	integer("SAMPLES", &cfg.Samples)
	integer("DEPTH", &cfg.Depth)
	integer("WORKERS", &cfg.Workers)
	integer("THUMBNAIL", &cfg.Thumbnail)
	str("OUT", &cfg.OutDir)
	str("FORMAT", &cfg.Format)
	boolean("GAMMA", &cfg.Gamma)
	boolean("MOTION", &cfg.MotionBlur)

	if v, ok := lookup(envPrefix + "SEED"); ok {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSEED: %w", envPrefix, err))
		} else {
			cfg.Seed = seed
		}
	}

	str("S3_BUCKET", &cfg.S3.Bucket)
	str("S3_REGION", &cfg.S3.Region)
	str("S3_ENDPOINT", &cfg.S3.Endpoint)
	str("S3_ACCESS_KEY", &cfg.S3.AccessKey)
	str("S3_SECRET_KEY", &cfg.S3.SecretKey)
	str("S3_PREFIX", &cfg.S3.Prefix)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %w", errors.Join(errs...))
	}
	return nil
}

// newFlagSet binds every CLI flag to cfg, using its current values as defaults
func newFlagSet(cfg *Config, output io.Writer) (*flag.FlagSet, *bool) {
	flags := flag.NewFlagSet("halide", flag.ContinueOnError)
	flags.SetOutput(output)
	flags.Usage = func() {} // run prints the full help itself

	flags.StringVar(&cfg.Scene, "scene", cfg.Scene, "Scene name (see -help for the list)")
	flags.IntVar(&cfg.Width, "width", cfg.Width, "Image width in pixels (0 = scene default)")
	flags.IntVar(&cfg.Samples, "samples", cfg.Samples, "Samples per pixel (0 = scene default)")
	flags.IntVar(&cfg.Depth, "depth", cfg.Depth, "Maximum ray bounce depth (0 = scene default)")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for sampling and scene generation")
	flags.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of parallel workers (0 = physical cores)")
	flags.StringVar(&cfg.OutDir, "out", cfg.OutDir, "Output directory")
	flags.StringVar(&cfg.Format, "format", cfg.Format, "Output format: png or ppm")
	flags.BoolVar(&cfg.Gamma, "gamma", cfg.Gamma, "Apply gamma 2 encoding")
	flags.IntVar(&cfg.Thumbnail, "thumbnail", cfg.Thumbnail, "Also write a PNG thumbnail this many pixels wide (0 = off)")
	flags.BoolVar(&cfg.MotionBlur, "motion", cfg.MotionBlur, "Enable motion blur in scenes that support it")
	flags.StringVar(&cfg.S3.Bucket, "s3-bucket", cfg.S3.Bucket, "Upload outputs to this S3 bucket")
	help := flags.Bool("help", false, "Show help information")

	return flags, help
}

// parseFlags overrides cfg with command line flags; cfg supplies the flag defaults
func parseFlags(args []string, cfg Config, output io.Writer) (Config, bool, error) {
	flags, help := newFlagSet(&cfg, output)

	if err := flags.Parse(args); err != nil {
		return cfg, false, err
	}
	if flags.NArg() > 0 {
		return cfg, false, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}

	cfg.Format = strings.ToLower(cfg.Format)
	return cfg, *help, nil
}

// Validate rejects settings that cannot produce an image
func (c Config) Validate() error {
	if c.Scene == "" {
		return fmt.Errorf("scene name must not be empty")
	}
	if c.Format != "png" && c.Format != "ppm" {
		return fmt.Errorf("unsupported format %q (use png or ppm)", c.Format)
	}
	if c.Width < 0 || c.Samples < 0 || c.Depth < 0 || c.Workers < 0 || c.Thumbnail < 0 {
		return fmt.Errorf("width, samples, depth, workers and thumbnail must not be negative")
	}
	return nil
}
