package material

// Handle is a stable index into an Arena
type Handle int32

// NoMaterial marks a primitive without a material; hits on it render black
const NoMaterial Handle = -1

// Arena owns every material of a scene. Primitives refer to materials by
// Handle, so many primitives can share one material without pointers.
// An Arena is filled during scene construction and only read while rendering.
type Arena struct {
	materials []Material
}

// NewArena creates an empty arena
func NewArena() *Arena {
	return &Arena{}
}

// Add stores a material and returns its handle
func (a *Arena) Add(m Material) Handle {
	a.materials = append(a.materials, m)
	return Handle(len(a.materials) - 1)
}

// Get returns the material for h. The boolean is false for NoMaterial or an unknown handle.
func (a *Arena) Get(h Handle) (Material, bool) {
	if a == nil || h < 0 || int(h) >= len(a.materials) {
		return Material{}, false
	}
	return a.materials[h], true
}

// Len returns the number of stored materials
func (a *Arena) Len() int {
	if a == nil {
		return 0
	}
	return len(a.materials)
}

