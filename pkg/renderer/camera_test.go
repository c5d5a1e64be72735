package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-halide/pkg/core"
)

func testCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       3,
		AspectRatio: 1.0,
		VFov:        90.0,
	}
}

func TestCameraGetCameraForward(t *testing.T) {
	config := testCameraConfig()
	config.Center = core.NewVec3(1, 2, 3)
	config.LookAt = core.NewVec3(1, 2, -7)
	camera := NewCamera(config)

	forward := camera.GetCameraForward()
	expected := core.NewVec3(0, 0, -1)
	if forward.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected forward direction %v, got %v", expected, forward)
	}
}

func TestCameraImageHeight(t *testing.T) {
	tests := []struct {
		name           string
		width          int
		aspectRatio    float64
		expectedHeight int
	}{
		{"16:9", 400, 16.0 / 9.0, 225},
		{"square", 100, 1.0, 100},
		{"very wide clamps to 1", 10, 100.0, 1},
		{"zero aspect defaults to square", 50, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testCameraConfig()
			config.Width = tt.width
			config.AspectRatio = tt.aspectRatio
			camera := NewCamera(config)
			if camera.Height() != tt.expectedHeight {
				t.Errorf("Expected height %d, got %d", tt.expectedHeight, camera.Height())
			}
		})
	}
}

func TestCameraCenterRay(t *testing.T) {
	camera := NewCamera(testCameraConfig())

	// The middle pixel of a 3x3 image looks straight ahead
	ray := camera.GetCenterRay(1, 1)
	direction := ray.Direction.Normalize()
	if direction.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Expected center ray along -z, got %v", direction)
	}

	// Row 0 is the top of the image and column 0 the left
	topLeft := camera.GetCenterRay(0, 0).Direction
	if topLeft.X >= 0 || topLeft.Y <= 0 {
		t.Errorf("Expected top-left ray to point left and up, got %v", topLeft)
	}

	// 90 degree vertical FOV: the viewport spans [-1, 1] at focus distance 1,
	// so the top-left pixel center sits at (-2/3, 2/3, -1)
	if topLeft.Subtract(core.NewVec3(-2.0/3.0, 2.0/3.0, -1)).Length() > 1e-9 {
		t.Errorf("Expected top-left direction (-2/3, 2/3, -1), got %v", topLeft)
	}
}

func TestCameraGetRay_PinholeJitter(t *testing.T) {
	camera := NewCamera(testCameraConfig())
	sampler := core.NewSeededSampler(42)
	center := camera.GetCenterRay(1, 1).Direction

	for i := 0; i < 200; i++ {
		ray := camera.GetRay(1, 1, sampler)
		if !ray.Origin.Equals(camera.Center()) {
			t.Fatalf("Pinhole camera ray should start at the center, got %v", ray.Origin)
		}
		if ray.Time < 0 || ray.Time >= 1 {
			t.Fatalf("Ray time %f outside [0, 1)", ray.Time)
		}
		// Jitter stays within half a pixel (pixel size is 2/3 here)
		offset := ray.Direction.Subtract(center)
		if math.Abs(offset.X) > 1.0/3.0+1e-9 || math.Abs(offset.Y) > 1.0/3.0+1e-9 || math.Abs(offset.Z) > 1e-9 {
			t.Fatalf("Jittered direction %v strays outside the pixel", ray.Direction)
		}
	}
}

func TestCameraGetRay_Defocus(t *testing.T) {
	config := testCameraConfig()
	config.DefocusAngle = 10.0
	config.FocusDistance = 4.0
	camera := NewCamera(config)
	sampler := core.NewSeededSampler(7)

	radius := 4.0 * math.Tan(5.0*math.Pi/180.0)
	moved := false
	for i := 0; i < 200; i++ {
		ray := camera.GetRay(1, 1, sampler)
		if ray.Origin.Z != 0 {
			t.Fatalf("Defocus origin should lie in the lens plane, got %v", ray.Origin)
		}
		if ray.Origin.Length() > radius+1e-9 {
			t.Fatalf("Defocus origin %v outside lens radius %f", ray.Origin, radius)
		}
		if !ray.Origin.Equals(camera.Center()) {
			moved = true
		}
	}
	if !moved {
		t.Error("Expected defocus to move ray origins off the center")
	}
}

func TestCameraAutoFocusDistance(t *testing.T) {
	config := testCameraConfig()
	config.LookAt = core.NewVec3(0, 0, -5)

	if d := NewCamera(config).FocusDistance(); math.Abs(d-5) > 1e-12 {
		t.Errorf("Expected auto focus distance 5, got %f", d)
	}

	config.FocusDistance = 2.5
	if d := NewCamera(config).FocusDistance(); d != 2.5 {
		t.Errorf("Expected explicit focus distance 2.5, got %f", d)
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := CameraConfig{
		Center:       core.NewVec3(0, 0, 0),
		LookAt:       core.NewVec3(0, 0, -1),
		Up:           core.NewVec3(0, 1, 0),
		Width:        400,
		AspectRatio:  16.0 / 9.0,
		VFov:         40.0,
		DefocusAngle: 0.6,
	}

	merged := MergeCameraConfig(base, CameraConfig{Width: 800, VFov: 20})

	if merged.Width != 800 || merged.VFov != 20 {
		t.Errorf("Override fields not applied: %+v", merged)
	}
	if merged.AspectRatio != base.AspectRatio || merged.DefocusAngle != base.DefocusAngle {
		t.Errorf("Zero override fields should keep base values: %+v", merged)
	}
	if !merged.LookAt.Equals(base.LookAt) || !merged.Up.Equals(base.Up) {
		t.Errorf("Zero vectors should keep base values: %+v", merged)
	}
}

func TestCamera_UpParallelToView(t *testing.T) {
	tests := []struct {
		name   string
		lookAt core.Vec3
		up     core.Vec3
	}{
		{"up along view", core.NewVec3(0, 0, -1), core.NewVec3(0, 0, -1)},
		{"up opposite view", core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1)},
		{"looking straight down", core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)},
		{"zero up", core.NewVec3(0, 0, -1), core.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testCameraConfig()
			config.LookAt = tt.lookAt
			config.Up = tt.up
			camera := NewCamera(config)

			for j := 0; j < camera.Height(); j++ {
				for i := 0; i < camera.Width(); i++ {
					d := camera.GetCenterRay(i, j).Direction
					if math.IsNaN(d.X) || math.IsNaN(d.Y) || math.IsNaN(d.Z) || d.NearZero() {
						t.Fatalf("Pixel (%d, %d) has invalid direction %v", i, j, d)
					}
				}
			}

			center := camera.GetCenterRay(1, 1).Direction.Normalize()
			if center.Subtract(tt.lookAt.Normalize()).Length() > 1e-9 {
				t.Errorf("Center ray should point at LookAt, got %v", center)
			}
		})
	}
}
