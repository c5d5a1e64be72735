package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/nfnt/resize"

	"github.com/df07/go-halide/pkg/renderer"
	"github.com/df07/go-halide/pkg/scene"
	"github.com/df07/go-halide/pkg/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one CLI render and returns only I/O or configuration errors
func run(args []string, stdout io.Writer) error {
	cfg, help, err := loadConfig(args, ".env", stdout)
	if errors.Is(err, flag.ErrHelp) || help {
		printHelp(stdout)
		return nil
	}
	if err != nil {
		return err
	}

	logger := log.New(stdout, "", 0)
	logger.Println("Starting Halide raytracer...")
	if info, err := renderer.GetSystemInfo(); err == nil {
		logger.Printf("System: %s\n", info)
	}

	selectedScene, err := createScene(cfg)
	if err != nil {
		return err
	}

	// Build the BVH with the render seed so the whole run is reproducible
	if err := selectedScene.Preprocess(rand.New(rand.NewSource(cfg.Seed))); err != nil {
		return fmt.Errorf("failed to preprocess scene: %w", err)
	}
	treeStats := selectedScene.Stats()
	logger.Printf("Scene %q: %d primitives, %d materials, BVH %d nodes (max depth %d, avg leaf depth %.1f)\n",
		cfg.Scene, selectedScene.GetPrimitiveCount(), selectedScene.Arena.Len(),
		treeStats.TotalNodes, treeStats.MaxDepth, treeStats.AvgDepth)

	raytracer := renderer.NewRaytracer(selectedScene, samplingConfig(cfg, selectedScene), logger)
	raytracer.SetWorkers(cfg.Workers)
	raytracer.SetSeed(cfg.Seed)

	frame, stats, err := raytracer.Render()
	if err != nil {
		return err
	}
	logger.Printf("Render completed in %v: %d pixels, %d samples, mean pixel variance %.4g\n",
		stats.Elapsed, stats.TotalPixels, stats.TotalSamples, stats.MeanPixelVariance)

	timestamp := time.Now().Format("20060102_150405")
	outputs, err := writeOutputs(frame, cfg, timestamp)
	if err != nil {
		return err
	}
	for _, out := range outputs {
		logger.Printf("Render saved as %s\n", out.Path)
	}

	if cfg.S3.Enabled() {
		uploader, err := storage.NewS3Uploader(cfg.S3, logger)
		if err != nil {
			return err
		}
		for _, out := range outputs {
			name := filepath.ToSlash(filepath.Join(cfg.Scene, filepath.Base(out.Path)))
			if _, err := uploader.UploadImage(context.Background(), name, out.Data, out.ContentType); err != nil {
				return err
			}
		}
	}

	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Halide Raytracer")
	fmt.Fprintln(w, "Usage: halide [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	cfg := defaultConfig()
	flags, _ := newFlagSet(&cfg, w)
	flags.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Fprintf(w, "  %-12s %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables HALIDE_<OPTION> (e.g. HALIDE_SAMPLES, HALIDE_S3_BUCKET) and a .env file")
	fmt.Fprintln(w, "set defaults that flags override.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output will be saved to <out>/<scene>/render_<timestamp>.<format>")
}

// createScene builds the configured scene with the CLI width applied
func createScene(cfg Config) (*scene.Scene, error) {
	opts := scene.Options{MotionBlur: cfg.MotionBlur, Seed: cfg.Seed}
	return scene.NewScene(cfg.Scene, opts, renderer.CameraConfig{Width: cfg.Width})
}

// samplingConfig applies CLI overrides to the scene's recommended sampling
func samplingConfig(cfg Config, s *scene.Scene) renderer.SamplingConfig {
	sampling := s.SamplingConfig
	if cfg.Samples > 0 {
		sampling.SamplesPerPixel = cfg.Samples
	}
	if cfg.Depth > 0 {
		sampling.MaxDepth = cfg.Depth
	}
	return sampling
}

// outputFile is one encoded image written to disk
type outputFile struct {
	Path        string
	Data        []byte
	ContentType string
}

// writeOutputs encodes the frame (and optional thumbnail) into <out>/<scene>/
func writeOutputs(frame *renderer.Frame, cfg Config, timestamp string) ([]outputFile, error) {
	outputDir := filepath.Join(cfg.OutDir, cfg.Scene)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}

	data, err := encodeFrame(frame, cfg.Format, cfg.Gamma)
	if err != nil {
		return nil, err
	}
	outputs := []outputFile{{
		Path:        filepath.Join(outputDir, fmt.Sprintf("render_%s.%s", timestamp, cfg.Format)),
		Data:        data,
		ContentType: storage.ContentType(cfg.Format),
	}}

	if cfg.Thumbnail > 0 {
		var buf bytes.Buffer
		if err := png.Encode(&buf, makeThumbnail(frame.ToRGBA(cfg.Gamma), cfg.Thumbnail)); err != nil {
			return nil, fmt.Errorf("error encoding thumbnail: %w", err)
		}
		outputs = append(outputs, outputFile{
			Path:        filepath.Join(outputDir, fmt.Sprintf("render_%s_thumb.png", timestamp)),
			Data:        buf.Bytes(),
			ContentType: storage.ContentType("png"),
		})
	}

	for _, out := range outputs {
		if err := os.WriteFile(out.Path, out.Data, 0644); err != nil {
			return nil, fmt.Errorf("error saving %s: %w", out.Path, err)
		}
	}
	return outputs, nil
}

// encodeFrame serializes the frame as PNG or P3 PPM
func encodeFrame(frame *renderer.Frame, format string, gamma bool) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, frame.ToRGBA(gamma)); err != nil {
			return nil, fmt.Errorf("error encoding PNG: %w", err)
		}
	case "ppm":
		if err := frame.WritePPM(&buf, gamma); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return buf.Bytes(), nil
}

// makeThumbnail scales img to width pixels, keeping the aspect ratio
func makeThumbnail(img image.Image, width int) image.Image {
	if width >= img.Bounds().Dx() {
		return img
	}
	return resize.Resize(uint(width), 0, img, resize.Lanczos3)
}
