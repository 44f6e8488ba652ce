package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ServerConfig controls where the server listens and what it may render
type ServerConfig struct {
	Port      int
	StaticDir string // Served at "/"
	ScenesDir string // Scene files listed under "json:<name>"; empty searches scenes/ and ../scenes/
	MaxWidth  int
	MaxHeight int
}

// DefaultServerConfig returns sensible default values
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:      8080,
		StaticDir: "static/",
		ScenesDir: "",
		MaxWidth:  2000,
		MaxHeight: 2000,
	}
}

// Server handles web requests for the raytracer
type Server struct {
	config ServerConfig
	mux    *http.ServeMux
}

// NewServer creates a new web server
func NewServer(config ServerConfig) *Server {
	s := &Server{config: config, mux: http.NewServeMux()}

	s.mux.Handle("/", http.FileServer(http.Dir(config.StaticDir)))
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	return s
}

// Handler returns the request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// SceneRequest holds the parameters shared by render and inspect requests
type SceneRequest struct {
	Scene  string `json:"scene"`  // Builtin name or "json:<file name>"
	Width  int    `json:"width"`  // Image width for builtin scenes
	Height int    `json:"height"` // Image height for builtin scenes
	BVH    bool   `json:"bvh"`    // Rebuild the tree as a BVH before rendering
}

// healthResponse is the body of /api/health
type healthResponse struct {
	Status string               `json:"status"`
	System *renderer.SystemInfo `json:"system,omitempty"`
}

// handleHealth provides a health check endpoint with host details
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{Status: "ok"}
	if info, err := renderer.GetSystemInfo(); err == nil {
		response.System = &info
	}
	writeJSON(w, http.StatusOK, response)
}

// handleScenes lists builtin and file scenes grouped by category
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.config.ScenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// parseSceneParams parses the scene, size and bvh query parameters
func (s *Server) parseSceneParams(r *http.Request) (*SceneRequest, error) {
	values := r.URL.Query()
	req := &SceneRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 1, s.config.MaxWidth); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 300, 1, s.config.MaxHeight); err != nil {
		return nil, err
	}
	if req.BVH, err = parseBoolParam(values, "bvh", true); err != nil {
		return nil, err
	}
	return req, nil
}

// createScene builds the requested scene and prepares its tree for rendering
func (s *Server) createScene(req *SceneRequest, logger core.Logger) (*scene.Scene, error) {
	var sceneObj *scene.Scene

	if name, ok := strings.CutPrefix(req.Scene, "json:"); ok {
		path, err := s.findSceneFile(name)
		if err != nil {
			return nil, err
		}
		if sceneObj, err = loaders.ReadScene(path, logger); err != nil {
			return nil, err
		}
		// Scene files carry their own image size, which the query limits never saw
		if c := sceneObj.Camera; c != nil && (c.Width() > s.config.MaxWidth || c.Height() > s.config.MaxHeight) {
			return nil, fmt.Errorf("scene file %q is %dx%d, larger than the %dx%d limit",
				name, c.Width(), c.Height(), s.config.MaxWidth, s.config.MaxHeight)
		}
	} else {
		var err error
		if sceneObj, err = scene.ByName(req.Scene, req.Width, req.Height); err != nil {
			return nil, err
		}
	}

	sceneObj.Preprocess(req.BVH)
	return sceneObj, nil
}

// findSceneFile resolves a scene file ID through the listing so that only
// discovered files can be opened
func (s *Server) findSceneFile(name string) (string, error) {
	files, err := scene.ListJSONScenes(s.config.ScenesDir)
	if err != nil {
		return "", err
	}
	for _, info := range files {
		if info.ID == "json:"+name {
			return info.FilePath, nil
		}
	}
	return "", fmt.Errorf("%w: scene file %q", scene.ErrUnknownScene, name)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
