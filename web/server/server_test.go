package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func newTestServer() *Server {
	return NewServer(0, "../../scenes")
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("Invalid JSON %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(), "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	response := decode[scene.ScenesResponse](t, rec)
	if len(response.Groups) < 2 {
		t.Fatalf("Expected built-in and file groups, got %+v", response.Groups)
	}
	if response.Groups[0].Name != scene.BuiltinGroup {
		t.Errorf("Expected built-in scenes first, got %q", response.Groups[0].Name)
	}
	if len(response.Groups[0].Scenes) != len(scene.Names()) {
		t.Errorf("Expected %d built-in scenes, got %d", len(scene.Names()), len(response.Groups[0].Scenes))
	}

	found := false
	for _, g := range response.Groups[1:] {
		for _, info := range g.Scenes {
			if info.ID == "file:tabletop" {
				found = true
			}
		}
	}
	if !found {
		t.Error("Expected file:tabletop to be listed")
	}
}

func TestHandleSceneConfig(t *testing.T) {
	s := newTestServer()

	rec := get(t, s, "/api/scene-config?scene=spheres&width=40&height=20")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[map[string]any](t, rec)
	defaults := body["defaults"].(map[string]any)
	if defaults["width"] != float64(40) || defaults["height"] != float64(20) {
		t.Errorf("Expected size override 40x20, got %v x %v", defaults["width"], defaults["height"])
	}
	if _, ok := body["limits"].(map[string]any); !ok {
		t.Error("Expected limits in response")
	}

	for _, target := range []string{
		"/api/scene-config?scene=nonexistent",
		"/api/scene-config?width=abc",
		"/api/scene-config?height=1",
	} {
		if rec := get(t, s, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestParseRenderRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		check   func(*RenderRequest) bool
		wantErr bool
	}{
		{"defaults", "", func(r *RenderRequest) bool {
			return r.Scene == DefaultScene && r.Width == 0 && r.SamplesPerPixel == 1 && r.MaxPasses == 1 && !r.Fresnel && r.ErrorPolicy == renderer.FailFast
		}, false},
		{"all set", "scene=csg&width=64&height=48&samplesPerPixel=8&maxPasses=3&maxDepth=7&fresnel=true&errorPolicy=paint-magenta", func(r *RenderRequest) bool {
			return r.Scene == "csg" && r.Width == 64 && r.Height == 48 && r.SamplesPerPixel == 8 &&
				r.MaxPasses == 3 && r.MaxDepth == 7 && r.Fresnel && r.ErrorPolicy == renderer.PaintMagenta
		}, false},
		{"width too small", "width=2", nil, true},
		{"samples not a number", "samplesPerPixel=lots", nil, true},
		{"too many passes", "maxPasses=1000", nil, true},
		{"bad fresnel", "fresnel=maybe", nil, true},
		{"bad policy", "errorPolicy=ignore", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			req, err := parseRenderRequest(values)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got %+v", req)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !tt.check(req) {
				t.Errorf("Unexpected request %+v", req)
			}
		})
	}
}

func TestRenderRequest_Config(t *testing.T) {
	req := &RenderRequest{SamplesPerPixel: 4, MaxPasses: 2, Fresnel: true, ErrorPolicy: renderer.PaintMagenta}
	config := req.Config()
	if config.TileSize != DefaultTileSize || config.SamplesPerPixel != 4 || config.MaxPasses != 2 ||
		!config.Fresnel || config.ErrorPolicy != renderer.PaintMagenta {
		t.Errorf("Unexpected config %+v", config)
	}
	if config.MaxDepth != renderer.DefaultConfig().MaxDepth {
		t.Errorf("Expected default depth, got %d", config.MaxDepth)
	}
	req.MaxDepth = 9
	if got := req.Config().MaxDepth; got != 9 {
		t.Errorf("Expected depth 9, got %d", got)
	}
}

// sseEvents returns the event names of an SSE body in order, without the
// console lines that may be interleaved anywhere
func sseEvents(body string) []string {
	var events []string
	for line := range strings.SplitSeq(body, "\n") {
		if name, ok := strings.CutPrefix(line, "event: "); ok && name != "console" {
			events = append(events, name)
		}
	}
	return events
}

func TestHandleRender_StreamsTilesAndPasses(t *testing.T) {
	rec := get(t, newTestServer(), "/api/render?scene=spheres&width=40&height=20&samplesPerPixel=2&maxPasses=2")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected event stream, got %q", ct)
	}
	events := sseEvents(rec.Body.String())
	if len(events) == 0 || events[0] != "start" || events[len(events)-1] != "complete" {
		t.Fatalf("Expected start ... complete, got %v", events)
	}

	counts := map[string]int{}
	for _, e := range events {
		counts[e]++
	}
	// 40x20 with 32 pixel tiles is 2 tiles per pass
	if counts["passComplete"] != 2 {
		t.Errorf("Expected 2 passes, got %d", counts["passComplete"])
	}
	if counts["tile"] != 4 {
		t.Errorf("Expected 4 tile events, got %d", counts["tile"])
	}
	if counts["error"] != 0 {
		t.Errorf("Unexpected error events in %s", rec.Body.String())
	}

	for line := range strings.SplitSeq(rec.Body.String(), "\n") {
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok || !strings.Contains(data, `"isLast":true`) {
			continue
		}
		var update PassUpdate
		if err := json.Unmarshal([]byte(data), &update); err != nil {
			t.Fatal(err)
		}
		if update.TotalPixels != 800 || update.MaxSamples != 2 || update.ImageData == "" || update.RenderID == "" {
			t.Errorf("Unexpected final pass %+v", update)
		}
	}
}

func TestHandleRender_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"unknown scene", "/api/render?scene=nonexistent"},
		{"invalid parameter", "/api/render?maxPasses=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(), tt.target)
			events := sseEvents(rec.Body.String())
			if len(events) != 1 || events[0] != "error" {
				t.Errorf("Expected a single error event, got %v", events)
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	s := newTestServer()

	rec := get(t, s, "/api/inspect?scene=spheres&width=40&height=20&x=20&y=15")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	response := decode[InspectResponse](t, rec)
	if !strings.HasPrefix(response.Color, "#") || len(response.Color) != 7 {
		t.Errorf("Expected hex color, got %q", response.Color)
	}
	if response.Hit {
		if response.GeometryType == "" || response.Distance <= 0 || response.Material == nil {
			t.Errorf("Incomplete hit report %+v", response)
		}
	}

	for _, target := range []string{
		"/api/inspect?scene=spheres&width=40&height=20",
		"/api/inspect?scene=spheres&width=40&height=20&x=40&y=0",
		"/api/inspect?scene=nonexistent&x=0&y=0",
	} {
		if rec := get(t, s, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestMaterialInfo(t *testing.T) {
	info := materialInfo(scene.DefaultWorld().Arena.Get(scene.DefaultWorld().Objects[0]).Material)
	if info["color"] != "#ccff99" {
		t.Errorf("Expected #ccff99, got %v", info["color"])
	}
	if info["diffuse"] != 0.7 {
		t.Errorf("Expected diffuse 0.7, got %v", info["diffuse"])
	}
	if _, ok := info["pattern"]; ok {
		t.Error("Unexpected pattern for a plain material")
	}
}
