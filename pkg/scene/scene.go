package scene

import (
	"math/rand"

	"github.com/df07/go-halide/pkg/core"
	"github.com/df07/go-halide/pkg/geometry"
	"github.com/df07/go-halide/pkg/material"
	"github.com/df07/go-halide/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	Arena          *material.Arena     // Materials referenced by Objects
	Objects        []geometry.Hittable // Objects in the scene
	TopColor       core.Vec3           // Sky color straight up
	BottomColor    core.Vec3           // Sky color straight down

	world  geometry.Hittable // BVH over Objects, built by Preprocess
	built  bool
}

// newScene creates an empty scene with the shared sky
func newScene(name string, cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig) *Scene {
	return &Scene{
		Name:           name,
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
		Arena:          material.NewArena(),
		Objects:        make([]geometry.Hittable, 0),
		TopColor:       core.NewVec3(0.5, 0.7, 1.0), // Blue sky
		BottomColor:    core.NewVec3(1.0, 1.0, 1.0), // White horizon
	}
}

// applyOverrides merges optional camera overrides into defaults
func applyOverrides(defaults renderer.CameraConfig, overrides []renderer.CameraConfig) renderer.CameraConfig {
	if len(overrides) > 0 {
		return renderer.MergeCameraConfig(defaults, overrides[0])
	}
	return defaults
}

// AddMaterial stores a material in the scene arena
func (s *Scene) AddMaterial(m material.Material) material.Handle {
	return s.Arena.Add(m)
}

// AddSphere adds a stationary sphere
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Handle) {
	s.Objects = append(s.Objects, geometry.FromSphere(geometry.NewSphere(center, radius, mat)))
}

// AddMovingSphere adds a sphere travelling from center0 to center1 over the shutter interval
func (s *Scene) AddMovingSphere(center0, center1 core.Vec3, radius float64, mat material.Handle) {
	s.Objects = append(s.Objects, geometry.FromSphere(geometry.NewMovingSphere(center0, center1, radius, mat)))
}

// Preprocess builds the acceleration structure over Objects.
// It runs once; later calls keep the existing tree. A nil random uses a fixed seed.
func (s *Scene) Preprocess(random *rand.Rand) error {
	if s.built {
		return nil
	}
	s.world = geometry.NewBVH(s.Objects, random)
	s.built = true
	return nil
}

// World returns the BVH root, building it with the default seed if needed
func (s *Scene) World() geometry.Hittable {
	if !s.built {
		_ = s.Preprocess(nil)
	}
	return s.world
}

// Materials returns the material arena
func (s *Scene) Materials() *material.Arena {
	return s.Arena
}

// Camera builds the camera from the current CameraConfig
func (s *Scene) Camera() *renderer.Camera {
	return renderer.NewCamera(s.CameraConfig)
}

// BackgroundColors returns the sky gradient endpoints
func (s *Scene) BackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.TopColor, s.BottomColor
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, object := range s.Objects {
		count += countPrimitives(object)
	}
	return count
}

// countPrimitives counts spheres under a hittable, descending into lists and BVH nodes
func countPrimitives(h geometry.Hittable) int {
	switch h.Kind() {
	case geometry.KindList:
		count := 0
		for _, object := range h.List().Objects() {
			count += countPrimitives(object)
		}
		return count
	case geometry.KindBVH:
		node := h.BVH()
		if node.Left() == node.Right() {
			return countPrimitives(node.Left())
		}
		return countPrimitives(node.Left()) + countPrimitives(node.Right())
	default:
		return 1
	}
}

// Stats returns statistics for the built tree
func (s *Scene) Stats() geometry.TreeStats {
	return geometry.Stats(s.World())
}
