package material

import (
	"fmt"

	"github.com/df07/go-halide/pkg/core"
)

// Kind identifies which scattering model a Material uses
type Kind uint8

const (
	KindLambertian Kind = iota
	KindMetal
	KindDielectric
)

// String returns the lowercase model name
func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Material is a closed set of surface models selected by Kind.
// Only the fields used by the selected model are meaningful.
type Material struct {
	Kind            Kind
	Albedo          core.Vec3 // Lambertian and metal base color
	Fuzz            float64   // Metal roughness in [0,1]
	RefractiveIndex float64   // Dielectric index of refraction
}

// Interaction is the part of a hit record a material needs to scatter
type Interaction struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit normal facing against the incoming ray
	FrontFace bool      // Whether ray hit the outside of the surface
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// Scatter dispatches to the scattering model selected by Kind.
// The boolean is false when the ray is absorbed.
func (m Material) Scatter(rayIn core.Ray, hit Interaction, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case KindLambertian:
		return m.scatterLambertian(rayIn, hit, sampler)
	case KindMetal:
		return m.scatterMetal(rayIn, hit, sampler)
	case KindDielectric:
		return m.scatterDielectric(rayIn, hit, sampler)
	}
	panic(fmt.Sprintf("material: unknown material kind %d", m.Kind))
}

// Describe returns the model name and its parameters, for inspection output
func (m Material) Describe() (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	switch m.Kind {
	case KindLambertian:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = hexColor(m.Albedo)
	case KindMetal:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = hexColor(m.Albedo)
		properties["fuzz"] = m.Fuzz
	case KindDielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
	}
	return m.Kind.String(), properties
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}
