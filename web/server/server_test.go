package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/df07/go-halide/pkg/scene"
)

func get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["status"] != "ok" {
		t.Errorf("Unexpected health body %q (err %v)", rec.Body.String(), err)
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var response scene.ScenesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	found := map[string]bool{}
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			found[info.ID] = true
		}
	}
	for _, name := range scene.SceneNames() {
		if !found[name] {
			t.Errorf("Scene %q missing from /api/scenes", name)
		}
	}
}

func TestHandleSceneConfig(t *testing.T) {
	rec := get(t, "/api/scene-config?scene=default")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Scene    string         `json:"scene"`
		Defaults map[string]int `json:"defaults"`
		Camera   struct {
			Center        [3]float64 `json:"center"`
			Forward       [3]float64 `json:"forward"`
			FocusDistance float64    `json:"focusDistance"`
			VFov          float64    `json:"vfov"`
		} `json:"camera"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body.Scene != "default" || body.Defaults["samplesPerPixel"] != 100 || body.Defaults["maxDepth"] != 50 {
		t.Errorf("Unexpected scene config: %+v", body)
	}
	if body.Camera.Center != [3]float64{-2, 2, 1} || body.Camera.FocusDistance != 3.4 || body.Camera.VFov != 20 {
		t.Errorf("Unexpected camera config: %+v", body.Camera)
	}
	// Forward points from (-2,2,1) toward (0,0,-1)
	if body.Camera.Forward[0] <= 0 || body.Camera.Forward[1] >= 0 || body.Camera.Forward[2] >= 0 {
		t.Errorf("Unexpected forward direction %v", body.Camera.Forward)
	}

	if rec := get(t, "/api/scene-config?scene=cornell"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scene, got %d", rec.Code)
	}
}

func TestHandleRender_PNG(t *testing.T) {
	rec := get(t, "/api/render?scene=default&width=32&samples=1&depth=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("Response is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 18 {
		t.Errorf("Expected 32x18 image, got %v", img.Bounds())
	}
}

func TestHandleRender_JSON(t *testing.T) {
	rec := get(t, "/api/render?scene=default&width=32&samples=2&depth=4&workers=2&format=json")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response RenderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	if response.Stats.TotalPixels != 32*18 || response.Stats.TotalSamples != 32*18*2 {
		t.Errorf("Unexpected stats: %+v", response.Stats)
	}
	if response.Stats.MaxDepth != 4 || response.Stats.Workers != 2 || response.Stats.Primitives != 5 {
		t.Errorf("Unexpected render settings: %+v", response.Stats)
	}
	if response.Stats.PixelVariance < 0 {
		t.Errorf("Pixel variance must not be negative, got %f", response.Stats.PixelVariance)
	}

	data, err := base64.StdEncoding.DecodeString(response.ImageData)
	if err != nil {
		t.Fatalf("Image is not base64: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("Image is not a PNG: %v", err)
	}

	var console strings.Builder
	for _, msg := range response.Console {
		console.WriteString(msg.Message)
	}
	for _, want := range []string{"Lines remaining: 0", "Done in"} {
		if !strings.Contains(console.String(), want) {
			t.Errorf("Console missing %q:\n%s", want, console.String())
		}
	}
}

func TestHandleRender_Deterministic(t *testing.T) {
	path := "/api/render?scene=spheres&width=24&samples=2&depth=5&seed=7"
	first := get(t, path+"&workers=1")
	second := get(t, path+"&workers=4")
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("Render failed: %d %d", first.Code, second.Code)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("Same seed should give identical images regardless of worker count")
	}
}

func TestHandleRender_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown scene", "scene=dragon"},
		{"width too small", "width=2"},
		{"width not a number", "width=wide"},
		{"samples out of range", "samples=0"},
		{"negative depth", "depth=-1"},
		{"bad seed", "seed=abc"},
		{"bad format", "format=gif"},
		{"bad motion", "motion=maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, "/api/render?"+tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400 for %s, got %d", tt.query, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("Expected JSON error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestParseRenderRequest_Defaults(t *testing.T) {
	req, err := parseRenderRequest(url.Values{})
	if err != nil {
		t.Fatalf("parseRenderRequest failed: %v", err)
	}
	if req.Scene != "default" || req.Width != 400 || req.Seed != 42 {
		t.Errorf("Unexpected scene defaults: %+v", req.sceneParams)
	}
	if req.Samples != 0 || req.Depth != -1 || req.Workers != 0 || req.Format != "png" {
		t.Errorf("Unexpected render defaults: %+v", req)
	}
}

func TestHandleInspect(t *testing.T) {
	// The default camera looks straight at the diffuse center sphere
	rec := get(t, "/api/inspect?scene=default&width=32&x=16&y=9")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if !response.Hit {
		t.Fatal("Expected the center ray to hit")
	}
	if response.MaterialType != "lambertian" {
		t.Errorf("Expected lambertian material, got %q", response.MaterialType)
	}
	if !response.FrontFace || response.Distance <= 0 {
		t.Errorf("Unexpected hit: %+v", response)
	}
	if response.Properties["color"] == nil {
		t.Errorf("Expected material properties, got %v", response.Properties)
	}
}

func TestHandleInspect_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing x", "y=1"},
		{"bad y", "x=1&y=top"},
		{"x out of bounds", "width=32&x=32&y=0"},
		{"y out of bounds", "width=32&x=0&y=18"},
		{"negative x", "x=-1&y=0"},
		{"unknown scene", "scene=dragon&x=0&y=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := get(t, "/api/inspect?"+tt.query); rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400 for %s, got %d", tt.query, rec.Code)
			}
		})
	}
}

func TestParseIntParam(t *testing.T) {
	values := url.Values{"n": {"5"}, "big": {"500"}, "bad": {"x"}}

	if v, err := parseIntParam(values, "n", 1, 1, 10); err != nil || v != 5 {
		t.Errorf("Expected 5, got %d (err %v)", v, err)
	}
	if v, err := parseIntParam(values, "missing", 3, 1, 10); err != nil || v != 3 {
		t.Errorf("Expected default 3, got %d (err %v)", v, err)
	}
	if _, err := parseIntParam(values, "big", 1, 1, 10); err == nil {
		t.Error("Expected range error")
	}
	if _, err := parseIntParam(values, "bad", 1, 1, 10); err == nil {
		t.Error("Expected parse error")
	}
}
