package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/df07/go-halide/pkg/renderer"
)

// consoleBuffer bounds the log lines kept for one render
const consoleBuffer = 256

var renderCounter atomic.Int64

// RenderRequest represents a render request from the client
type RenderRequest struct {
	sceneParams
	Samples int    // 0 keeps the scene default
	Depth   int    // -1 keeps the scene default
	Workers int    // 0 selects the physical core count
	Format  string // "png" or "json"
}

// Stats represents render statistics
type Stats struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	SamplesPerPixel  int     `json:"samplesPerPixel"`
	MaxDepth         int     `json:"maxDepth"`
	Workers          int     `json:"workers"`
	Primitives       int     `json:"primitives"`
	BVHNodes         int     `json:"bvhNodes"`
	BVHDepth         int     `json:"bvhDepth"`
	ElapsedMs        int64   `json:"elapsedMs"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	PixelVariance    float64 `json:"pixelVariance"` // Mean per-pixel luminance variance
}

// RenderResponse is the JSON form of a finished render
type RenderResponse struct {
	Scene     string           `json:"scene"`
	ImageData string           `json:"imageData"` // Base64 encoded PNG
	Stats     Stats            `json:"stats"`
	Console   []ConsoleMessage `json:"console"`
}

// handleRender renders one frame and returns it as PNG or JSON
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sceneObj, err := createScene(req.sceneParams)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	renderID := fmt.Sprintf("render-%d", renderCounter.Add(1))
	consoleChan := make(chan ConsoleMessage, consoleBuffer)
	logger := NewWebLogger(renderID, consoleChan)

	if err := sceneObj.Preprocess(rand.New(rand.NewSource(req.Seed))); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	treeStats := sceneObj.Stats()
	logger.Printf("Scene %q: %d primitives, BVH %d nodes (max depth %d)\n",
		req.Scene, sceneObj.GetPrimitiveCount(), treeStats.TotalNodes, treeStats.MaxDepth)

	sampling := sceneObj.SamplingConfig
	if req.Samples > 0 {
		sampling.SamplesPerPixel = req.Samples
	}
	if req.Depth >= 0 {
		sampling.MaxDepth = req.Depth
	}

	raytracer := renderer.NewRaytracer(sceneObj, sampling, logger)
	raytracer.SetWorkers(req.Workers)
	raytracer.SetSeed(req.Seed)

	frame, renderStats, err := raytracer.Render()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Render error: "+err.Error())
		return
	}
	if r.Context().Err() != nil {
		log.Printf("[%s] client disconnected before the render finished", renderID)
		return
	}

	img := frame.ToRGBA(true)

	if req.Format == "png" {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to encode image: "+err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
		return
	}

	imageData, err := imageToBase64PNG(img)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode image: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, RenderResponse{
		Scene:     req.Scene,
		ImageData: imageData,
		Stats: Stats{
			Width:            frame.Width(),
			Height:           frame.Height(),
			TotalPixels:      renderStats.TotalPixels,
			TotalSamples:     renderStats.TotalSamples,
			SamplesPerPixel:  renderStats.SamplesPerPixel,
			MaxDepth:         sampling.MaxDepth,
			Workers:          renderStats.Workers,
			Primitives:       sceneObj.GetPrimitiveCount(),
			BVHNodes:         treeStats.TotalNodes,
			BVHDepth:         treeStats.MaxDepth,
			ElapsedMs:        renderStats.Elapsed.Milliseconds(),
			SamplesPerSecond: renderStats.SamplesPerSecond(),
			PixelVariance:    renderStats.MeanPixelVariance,
		},
		Console: drainConsole(consoleChan),
	})
}

// parseRenderRequest parses request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	params, err := parseSceneParams(values)
	if err != nil {
		return nil, err
	}
	req := &RenderRequest{sceneParams: params}

	if req.Samples, err = parseIntParam(values, "samples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", -1, 0, maxDepth); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(values, "workers", 0, 1, 256); err != nil {
		return nil, err
	}

	req.Format = values.Get("format")
	switch req.Format {
	case "":
		req.Format = "png"
	case "png", "json":
	default:
		return nil, fmt.Errorf("format must be png or json, got: %s", req.Format)
	}

	// Performance warning
	if req.Width > 800 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	start := time.Now()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	if elapsed := time.Since(start); elapsed > time.Second {
		log.Printf("PNG encoding took %v", elapsed)
	}
	return encoded, nil
}
