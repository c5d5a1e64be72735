package scene

import (
	"github.com/df07/go-halide/pkg/core"
	"github.com/df07/go-halide/pkg/material"
	"github.com/df07/go-halide/pkg/renderer"
)

// NewGlassScene creates a row of dielectric spheres in front of colored diffuse markers
func NewGlassScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(0, 1, 3),
		LookAt:      core.NewVec3(0, 0.4, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        35.0,
	}

	cameraConfig := applyOverrides(defaultCameraConfig, cameraOverrides)

	samplingConfig := renderer.SamplingConfig{
		SamplesPerPixel: 200, // Caustic noise needs more samples
		MaxDepth:        50,
	}

	s := newScene("glass", cameraConfig, samplingConfig)

	ground := s.AddMaterial(material.NewLambertian(core.NewVec3(0.6, 0.6, 0.6)))
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, ground)

	glass := s.AddMaterial(material.NewDielectric(1.5))
	air := s.AddMaterial(material.NewDielectric(1.0 / 1.5))
	diamond := s.AddMaterial(material.NewDielectric(2.4))
	water := s.AddMaterial(material.NewDielectric(1.33))

	// Solid glass, hollow glass, diamond and water from left to right
	s.AddSphere(core.NewVec3(-1.65, 0.5, -1), 0.5, glass)

	s.AddSphere(core.NewVec3(-0.55, 0.5, -1), 0.5, glass)
	s.AddSphere(core.NewVec3(-0.55, 0.5, -1), 0.45, air)

	s.AddSphere(core.NewVec3(0.55, 0.5, -1), 0.5, diamond)
	s.AddSphere(core.NewVec3(1.65, 0.5, -1), 0.5, water)

	// Markers behind the row make the refraction visible
	markers := []core.Vec3{
		core.NewVec3(0.9, 0.2, 0.2),
		core.NewVec3(0.2, 0.8, 0.3),
		core.NewVec3(0.2, 0.3, 0.9),
		core.NewVec3(0.9, 0.8, 0.2),
	}
	for i, albedo := range markers {
		mat := s.AddMaterial(material.NewLambertian(albedo))
		x := -1.65 + 1.1*float64(i)
		s.AddSphere(core.NewVec3(x, 0.25, -3), 0.25, mat)
	}

	return s
}
