package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-halide/pkg/core"
	"github.com/df07/go-halide/pkg/geometry"
	"github.com/df07/go-halide/pkg/renderer"
	"github.com/df07/go-halide/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// inspectPixel casts the unjittered ray through a pixel center and returns the nearest hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) (geometry.HitRecord, bool) {
	ray := sceneObj.Camera().GetCenterRay(pixelX, pixelY)
	return sceneObj.World().Hit(ray, core.NewInterval(renderer.ShadowAcneEpsilon, math.Inf(1)))
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	params, err := parseSceneParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := createScene(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	camera := sceneObj.Camera()
	if pixelX < 0 || pixelX >= camera.Width() || pixelY < 0 || pixelY >= camera.Height() {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	hit, ok := inspectPixel(sceneObj, pixelX, pixelY)
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	response := InspectResponse{
		Hit:       true,
		Point:     [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:    [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:  hit.T,
		FrontFace: hit.FrontFace,
	}
	if mat, found := sceneObj.Materials().Get(hit.Material); found {
		response.MaterialType, response.Properties = mat.Describe()
	} else {
		response.MaterialType = "none"
	}

	writeJSON(w, http.StatusOK, response)
}
