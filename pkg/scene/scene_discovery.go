package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-halide/pkg/renderer"
)

// DefaultGridSize is the sphere grid edge length used when a scene is built by name
const DefaultGridSize = 20

// Options carries scene parameters that are not part of the camera
type Options struct {
	MotionBlur bool  // Small diffuse spheres move during the exposure
	Seed       int64 // Seed for randomly generated scene content
}

// SceneInfo represents a built-in scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Random      bool   `json:"random"`      // Content depends on Options.Seed
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type sceneBuilder func(opts Options, overrides []renderer.CameraConfig) *Scene

type registeredScene struct {
	info  SceneInfo
	build sceneBuilder
}

var registry = map[string]registeredScene{
	"default": {
		info: SceneInfo{
			Description: "Diffuse, hollow glass and fuzzy gold spheres on a ground sphere",
			Group:       "Basics",
		},
		build: func(_ Options, overrides []renderer.CameraConfig) *Scene {
			return NewDefaultScene(overrides...)
		},
	},
	"glass": {
		info: SceneInfo{
			Description: "Glass, air bubble, diamond and water spheres over colored markers",
			Group:       "Basics",
		},
		build: func(_ Options, overrides []renderer.CameraConfig) *Scene {
			return NewGlassScene(overrides...)
		},
	},
	"spheres": {
		info: SceneInfo{
			Description: "Hundreds of random small spheres around three large ones",
			Group:       "Showcase",
			Random:      true,
		},
		build: func(opts Options, overrides []renderer.CameraConfig) *Scene {
			return NewSpheresScene(opts, overrides...)
		},
	},
	"spheregrid": {
		info: SceneInfo{
			Description: fmt.Sprintf("%dx%d grid of rainbow-colored metallic spheres", DefaultGridSize, DefaultGridSize),
			Group:       "Showcase",
		},
		build: func(_ Options, overrides []renderer.CameraConfig) *Scene {
			return NewSphereGridScene(DefaultGridSize, overrides...)
		},
	},
}

// NewScene builds the named scene. Unknown names are an error.
func NewScene(name string, opts Options, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	entry, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(SceneNames(), ", "))
	}
	return entry.build(opts, cameraOverrides), nil
}

// SceneNames returns the IDs of all built-in scenes in sorted order
func SceneNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListScenes returns metadata for all built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(registry))
	for _, name := range SceneNames() {
		info := registry[name].info
		info.ID = name
		info.Name = titleCase(name)
		info.DisplayName = info.Name
		scenes = append(scenes, info)
	}
	return scenes
}

// ListAllScenes returns the built-in scenes grouped by category, groups in alphabetical order
func ListAllScenes() ScenesResponse {
	var response ScenesResponse

	groupMap := make(map[string][]SceneInfo)
	for _, info := range ListScenes() {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	groupNames := make([]string, 0, len(groupMap))
	for groupName := range groupMap {
		groupNames = append(groupNames, groupName)
	}
	sort.Strings(groupNames)

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
