package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const (
	// DefaultTileSize is the tile edge used for web renders
	DefaultTileSize = 32

	// DefaultScene is rendered when a request names no scene
	DefaultScene = "spheres"

	minDimension = 8
	maxDimension = 2000
	maxSamples   = 1024
	maxPasses    = 64
	maxDepth     = 50
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
	mux       *http.ServeMux
}

// NewServer creates a new web server. Scene files are listed from scenesDir.
func NewServer(port int, scenesDir string) *Server {
	s := &Server{port: port, scenesDir: scenesDir, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/scenes", s.handleScenes)
	s.mux.HandleFunc("GET /api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("GET /api/render", s.handleRender)
	s.mux.HandleFunc("GET /api/inspect", s.handleInspect)
	return s
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on the configured port until the server fails
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("Starting web server on http://localhost%s", addr)
	return srv.ListenAndServe()
}

// SceneRequest holds the parameters shared by every scene endpoint
type SceneRequest struct {
	Scene  string `json:"scene"`
	Width  int    `json:"width"`  // 0 keeps the scene's width
	Height int    `json:"height"` // 0 keeps the scene's height
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	SceneRequest
	SamplesPerPixel int                  `json:"samplesPerPixel"`
	MaxPasses       int                  `json:"maxPasses"`
	MaxDepth        int                  `json:"maxDepth"` // 0 keeps the scene's depth
	Fresnel         bool                 `json:"fresnel"`
	ErrorPolicy     renderer.ErrorPolicy `json:"-"`
}

// Config converts the request into renderer settings
func (req *RenderRequest) Config() renderer.Config {
	config := renderer.DefaultConfig()
	config.TileSize = DefaultTileSize
	config.SamplesPerPixel = req.SamplesPerPixel
	config.MaxPasses = req.MaxPasses
	config.Fresnel = req.Fresnel
	config.ErrorPolicy = req.ErrorPolicy
	if req.MaxDepth > 0 {
		config.MaxDepth = req.MaxDepth
	}
	return config
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and the scene files on disk
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir, serverLogger{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the camera and depth defaults of a scene together
// with the parameter limits the render endpoint accepts
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	req := &SceneRequest{}
	if err := parseCommonSceneParams(r.URL.Query(), req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sceneObj, err := s.createScene(req, serverLogger{})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	depth := sceneObj.MaxDepth
	if depth == 0 {
		depth = renderer.DefaultConfig().MaxDepth
	}
	cfg := sceneObj.CameraConfig
	response := map[string]any{
		"scene": req.Scene,
		"defaults": map[string]any{
			"width":           cfg.Width,
			"height":          cfg.Height,
			"vfov":            cfg.VFov,
			"maxDepth":        depth,
			"samplesPerPixel": 1,
			"maxPasses":       1,
			"primitiveCount":  sceneObj.World.PrimitiveCount(),
		},
		"limits": map[string]any{
			"width":           map[string]int{"min": minDimension, "max": maxDimension},
			"height":          map[string]int{"min": minDimension, "max": maxDimension},
			"samplesPerPixel": map[string]int{"min": 1, "max": maxSamples},
			"maxPasses":       map[string]int{"min": 1, "max": maxPasses},
			"maxDepth":        map[string]int{"min": 0, "max": maxDepth},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// createScene resolves the requested scene with any size override applied
func (s *Server) createScene(req *SceneRequest, logger core.Logger) (*scene.Scene, error) {
	override := geometry.CameraConfig{Width: req.Width, Height: req.Height}
	return loaders.ResolveScene(req.Scene, s.scenesDir, logger, override)
}

// parseCommonSceneParams reads the scene name and optional image size
func parseCommonSceneParams(values url.Values, req *SceneRequest) error {
	req.Scene = values.Get("scene")
	if req.Scene == "" {
		req.Scene = DefaultScene
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, minDimension, maxDimension); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(values, "height", 0, minDimension, maxDimension); err != nil {
		return err
	}
	return nil
}

// parseRenderRequest parses and validates render parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := parseCommonSceneParams(values, &req.SceneRequest); err != nil {
		return nil, err
	}

	var err error
	if req.SamplesPerPixel, err = parseIntParam(values, "samplesPerPixel", 1, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(values, "maxPasses", 1, 1, maxPasses); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "maxDepth", 0, 0, maxDepth); err != nil {
		return nil, err
	}
	if req.Fresnel, err = parseBoolParam(values, "fresnel"); err != nil {
		return nil, err
	}
	req.ErrorPolicy = renderer.FailFast
	if policy := values.Get("errorPolicy"); policy != "" {
		if req.ErrorPolicy, err = renderer.ParseErrorPolicy(policy); err != nil {
			return nil, err
		}
	}

	if req.Width*req.Height > 800*600 && req.SamplesPerPixel > 16 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
	}
	return parsed, nil
}

// parseBoolParam parses an optional boolean parameter; absent means false
func parseBoolParam(values url.Values, key string) (bool, error) {
	value := values.Get(key)
	if value == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// serverLogger sends scene loading messages to the server log
type serverLogger struct{}

func (serverLogger) Printf(format string, args ...any) {
	log.Printf(format, args...)
}
