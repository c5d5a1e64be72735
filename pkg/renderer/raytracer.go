package renderer

import (
	"fmt"
	"math"
	"time"

	"github.com/df07/go-halide/pkg/core"
	"github.com/df07/go-halide/pkg/geometry"
	"github.com/df07/go-halide/pkg/material"
)

// ShadowAcneEpsilon is the minimum hit distance for every ray, so a surface
// never re-intersects itself at the scatter origin
const ShadowAcneEpsilon = 0.001

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Validate reports configurations that cannot produce an image
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("samples per pixel must be at least 1, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// Scene interface to avoid circular imports
type Scene interface {
	World() geometry.Hittable
	Materials() *material.Arena
	Camera() *Camera
	BackgroundColors() (topColor, bottomColor core.Vec3)
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene     Scene
	world     geometry.Hittable
	materials *material.Arena
	camera    *Camera
	config    SamplingConfig
	workers   int
	seed      int64
	logger    core.Logger
}

// NewRaytracer creates a new raytracer for a preprocessed scene
func NewRaytracer(scene Scene, config SamplingConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		scene:     scene,
		world:     scene.World(),
		materials: scene.Materials(),
		camera:    scene.Camera(),
		config:    config,
		seed:      42, // Deterministic unless overridden
		logger:    logger,
	}
}

// SetWorkers sets the worker count; 0 selects DefaultWorkerCount
func (rt *Raytracer) SetWorkers(workers int) {
	rt.workers = workers
}

// SetSeed sets the seed every row sampler is derived from
func (rt *Raytracer) SetSeed(seed int64) {
	rt.seed = seed
}

// backgroundGradient returns a gradient color based on ray direction
func (rt *Raytracer) backgroundGradient(r core.Ray) core.Vec3 {
	topColor, bottomColor := rt.scene.BackgroundColors()

	// Normalize the ray direction to get consistent results
	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return bottomColor.Multiply(1.0 - t).Add(topColor.Multiply(t))
}

// RayColor returns the radiance carried back along r after at most depth bounces
func (rt *Raytracer) RayColor(r core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := rt.world.Hit(r, core.NewInterval(ShadowAcneEpsilon, math.Inf(1)))
	if !isHit {
		return rt.backgroundGradient(r)
	}

	mat, ok := rt.materials.Get(hit.Material)
	if !ok {
		return core.Vec3{}
	}

	scatter, didScatter := mat.Scatter(r, hit.Interaction(), sampler)
	if !didScatter {
		return core.Vec3{} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(rt.RayColor(scatter.Scattered, depth-1, sampler))
}

// SamplePixel returns the average radiance over SamplesPerPixel jittered rays through pixel (i, j)
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) core.Vec3 {
	stats := rt.samplePixelStats(i, j, sampler)
	return stats.GetColor()
}

func (rt *Raytracer) samplePixelStats(i, j int, sampler core.Sampler) PixelStats {
	var stats PixelStats
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		ray := rt.camera.GetRay(i, j, sampler)
		stats.AddSample(rt.RayColor(ray, rt.config.MaxDepth, sampler))
	}
	return stats
}

// Render renders the whole frame in parallel and blocks until every row is done
func (rt *Raytracer) Render() (*Frame, RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("invalid sampling config: %w", err)
	}

	start := time.Now()
	width, height := rt.camera.Width(), rt.camera.Height()
	frame := NewFrame(width, height)

	pool := NewWorkerPool(rt, frame, rt.workers)
	pool.Start()

	for row := 0; row < height; row++ {
		pool.SubmitTask(RowTask{Row: row, Seed: RowSeed(rt.seed, row)})
	}

	rt.logger.Printf("Rendering %dx%d, %d spp, depth %d on %d workers\n",
		width, height, rt.config.SamplesPerPixel, rt.config.MaxDepth, pool.GetNumWorkers())

	// Report progress roughly every tenth of the image
	step := height / 10
	if step < 1 {
		step = 1
	}

	var varianceSum float64
	stats := RenderStats{
		TotalPixels:     width * height,
		SamplesPerPixel: rt.config.SamplesPerPixel,
		Workers:         pool.GetNumWorkers(),
	}
	for done := 1; done <= height; done++ {
		result, _ := pool.GetResult()
		stats.TotalSamples += result.Samples
		varianceSum += result.VarianceSum
		stats.Rows++
		if remaining := height - done; remaining%step == 0 {
			rt.logger.Printf("Lines remaining: %d\n", remaining)
		}
	}

	pool.Stop()
	stats.Elapsed = time.Since(start)
	stats.MeanPixelVariance = varianceSum / float64(stats.TotalPixels)

	rt.logger.Printf("Done in %v (%.0f samples/sec, mean pixel variance %.4g)\n",
		stats.Elapsed, stats.SamplesPerSecond(), stats.MeanPixelVariance)
	return frame, stats, nil
}
