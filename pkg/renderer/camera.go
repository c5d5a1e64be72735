package renderer

import (
	"math"

	"github.com/df07/go-halide/pkg/core"
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center        core.Vec3 // Camera position (look-from)
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // Up direction (usually (0,1,0))
	Width         int       // Image width in pixels
	AspectRatio   float64   // Aspect ratio (width/height)
	VFov          float64   // Vertical field of view in degrees
	DefocusAngle  float64   // Cone angle of rays through each pixel, in degrees (0 = pinhole)
	FocusDistance float64   // Distance to the plane of perfect focus (0 = auto-calculate)
}

// MergeCameraConfig merges a partial camera config into a base config.
// Only non-zero values in the override config will replace values in the base config.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base

	if override.Center != (core.Vec3{}) {
		result.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.DefocusAngle != 0 {
		result.DefocusAngle = override.DefocusAngle
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}

	return result
}

// Camera generates rays for rendering with configurable position and orientation
type Camera struct {
	config        CameraConfig
	width, height int
	center        core.Vec3
	pixel00       core.Vec3 // Location of pixel (0, 0)
	pixelDeltaU   core.Vec3 // Offset to pixel to the right
	pixelDeltaV   core.Vec3 // Offset to pixel below
	u, v, w       core.Vec3 // Camera frame basis vectors
	defocusDiskU  core.Vec3 // Defocus disk horizontal radius
	defocusDiskV  core.Vec3 // Defocus disk vertical radius
	focusDistance float64
}

// NewCamera creates a camera with the given configuration
func NewCamera(config CameraConfig) *Camera {
	width := config.Width
	if width < 1 {
		width = 1
	}
	aspectRatio := config.AspectRatio
	if aspectRatio <= 0 {
		aspectRatio = 1.0
	}
	height := int(float64(width) / aspectRatio)
	if height < 1 {
		height = 1
	}

	// Auto-calculate focus distance if not specified
	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.LookAt.Subtract(config.Center).Length()
	}
	if focusDistance <= 0 {
		focusDistance = 1.0
	}

	// Viewport dimensions at the focus plane
	theta := config.VFov * math.Pi / 180.0
	viewportHeight := 2 * math.Tan(theta/2) * focusDistance
	viewportWidth := viewportHeight * float64(width) / float64(height)

	// Orthonormal basis: w points backwards, u right, v up
	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w)
	if u.NearZero() {
		// Up is missing or parallel to the view direction
		u = fallbackUp(w).Cross(w)
	}
	u = u.Normalize()
	v := w.Cross(u)

	// Image rows run top to bottom, so the vertical edge points down
	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Negate().Multiply(viewportHeight)

	pixelDeltaU := viewportU.Divide(float64(width))
	pixelDeltaV := viewportV.Divide(float64(height))

	viewportUpperLeft := config.Center.
		Subtract(w.Multiply(focusDistance)).
		Subtract(viewportU.Divide(2)).
		Subtract(viewportV.Divide(2))
	pixel00 := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5))

	defocusRadius := focusDistance * math.Tan(config.DefocusAngle*math.Pi/360.0)

	return &Camera{
		config:        config,
		width:         width,
		height:        height,
		center:        config.Center,
		pixel00:       pixel00,
		pixelDeltaU:   pixelDeltaU,
		pixelDeltaV:   pixelDeltaV,
		u:             u,
		v:             v,
		w:             w,
		defocusDiskU:  u.Multiply(defocusRadius),
		defocusDiskV:  v.Multiply(defocusRadius),
		focusDistance: focusDistance,
	}
}

// fallbackUp picks the world axis least aligned with w
func fallbackUp(w core.Vec3) core.Vec3 {
	if math.Abs(w.Y) < 0.9 {
		return core.NewVec3(0, 1, 0)
	}
	return core.NewVec3(0, 0, -1)
}

// Width returns the image width in pixels
func (c *Camera) Width() int {
	return c.width
}

// Height returns the image height in pixels
func (c *Camera) Height() int {
	return c.height
}

// Center returns the camera position
func (c *Camera) Center() core.Vec3 {
	return c.center
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// FocusDistance returns the resolved focus distance
func (c *Camera) FocusDistance() float64 {
	return c.focusDistance
}

// GetCameraForward returns the direction the camera is looking
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// GetRay returns a ray through a random point of pixel (i, j), where i is the
// column and j the row counted from the top. The origin is sampled from the
// defocus disk and the time uniformly from the shutter interval.
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	offset := sampler.Get2D()
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i) + offset.X - 0.5)).
		Add(c.pixelDeltaV.Multiply(float64(j) + offset.Y - 0.5))

	origin := c.center
	if c.config.DefocusAngle > 0 {
		origin = c.defocusDiskSample(sampler)
	}

	return core.NewRayAtTime(origin, pixelSample.Subtract(origin), sampler.Get1D())
}

// GetCenterRay returns the pinhole ray through the center of pixel (i, j) at time 0
func (c *Camera) GetCenterRay(i, j int) core.Ray {
	pixelCenter := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i))).
		Add(c.pixelDeltaV.Multiply(float64(j)))
	return core.NewRay(c.center, pixelCenter.Subtract(c.center))
}

func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Vec3 {
	p := core.RandomInUnitDisk(sampler)
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}
