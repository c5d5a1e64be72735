package scene

import (
	"github.com/df07/go-halide/pkg/core"
	"github.com/df07/go-halide/pkg/material"
	"github.com/df07/go-halide/pkg/renderer"
)

// NewDefaultScene creates a default scene with three spheres on a large ground sphere
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	// Default camera configuration
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(-2, 2, 1), // Above and to the left of the group
		LookAt:        core.NewVec3(0, 0, -1), // Look at the center sphere
		Up:            core.NewVec3(0, 1, 0),  // Standard up direction
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0, // Narrow field of view frames the three spheres
		DefocusAngle:  10.0, // Strong depth of field blur
		FocusDistance: 3.4,
	}

	cameraConfig := applyOverrides(defaultCameraConfig, cameraOverrides)

	samplingConfig := renderer.SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}

	s := newScene("default", cameraConfig, samplingConfig)

	// Create materials
	ground := s.AddMaterial(material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)))
	center := s.AddMaterial(material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5)))
	glass := s.AddMaterial(material.NewDielectric(1.5))
	bubble := s.AddMaterial(material.NewDielectric(1.0 / 1.5)) // Air inside glass
	gold := s.AddMaterial(material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 1.0))

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, ground)
	s.AddSphere(core.NewVec3(0, 0, -1.2), 0.5, center)

	// Hollow glass sphere: an air bubble inside a glass shell
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.4, bubble)

	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, gold)

	return s
}
