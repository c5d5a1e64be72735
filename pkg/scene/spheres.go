package scene

import (
	"math/rand"

	"github.com/df07/go-halide/pkg/core"
	"github.com/df07/go-halide/pkg/material"
	"github.com/df07/go-halide/pkg/renderer"
)

// NewSpheresScene creates a field of small random spheres around three large ones.
// With opts.MotionBlur the small diffuse spheres bounce upwards during the exposure.
func NewSpheresScene(opts Options, cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		DefocusAngle:  0.6,
		FocusDistance: 10.0,
	}

	cameraConfig := applyOverrides(defaultCameraConfig, cameraOverrides)

	samplingConfig := renderer.SamplingConfig{
		SamplesPerPixel: 50, // Many objects, keep the default render affordable
		MaxDepth:        50,
	}

	s := newScene("spheres", cameraConfig, samplingConfig)
	random := rand.New(rand.NewSource(opts.Seed))

	ground := s.AddMaterial(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, ground)

	// Shared glass material for every small glass sphere
	glass := s.AddMaterial(material.NewDielectric(1.5))

	randomRange := func(lo, hi float64) float64 {
		return lo + (hi-lo)*random.Float64()
	}
	randomColor := func(lo, hi float64) core.Vec3 {
		return core.NewVec3(randomRange(lo, hi), randomRange(lo, hi), randomRange(lo, hi))
	}

	// Keep the small spheres clear of the large metal sphere
	clearing := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())

			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				// Diffuse
				albedo := randomColor(0, 1).MultiplyVec(randomColor(0, 1))
				mat := s.AddMaterial(material.NewLambertian(albedo))
				if opts.MotionBlur {
					end := center.Add(core.NewVec3(0, randomRange(0, 0.5), 0))
					s.AddMovingSphere(center, end, 0.2, mat)
				} else {
					s.AddSphere(center, 0.2, mat)
				}
			case chooseMat < 0.95:
				// Metal
				mat := s.AddMaterial(material.NewMetal(randomColor(0.5, 1), randomRange(0, 0.5)))
				s.AddSphere(center, 0.2, mat)
			default:
				s.AddSphere(center, 0.2, glass)
			}
		}
	}

	s.AddSphere(core.NewVec3(0, 1, 0), 1.0, glass)

	brown := s.AddMaterial(material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1)))
	s.AddSphere(core.NewVec3(-4, 1, 0), 1.0, brown)

	mirror := s.AddMaterial(material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0))
	s.AddSphere(core.NewVec3(4, 1, 0), 1.0, mirror)

	return s
}
