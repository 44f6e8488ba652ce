package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	SceneRequest
	Workers int  `json:"workers"` // 0 = one per logical CPU
	Depth   int  `json:"depth"`   // Reflection/refraction depth limit
	Overlay bool `json:"overlay"` // Outline tree bounds on the image
	Stream  bool `json:"stream"`  // Stream console output and the result via SSE
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderResult is the payload of the "complete" SSE event
type RenderResult struct {
	ImageData      string  `json:"imageData"` // Base64 encoded PNG
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	ElapsedMs      int64   `json:"elapsedMs"`
	TotalPixels    int     `json:"totalPixels"`
	RenderedPixels int     `json:"renderedPixels"`
	Workers        int     `json:"workers"`
	FailedChunks   int     `json:"failedChunks"`
	ShapeCount     int     `json:"shapeCount"`
	Luminance      float64 `json:"luminance"`
}

// handleRender renders a scene and returns it as a PNG, or as an SSE stream
// of console messages followed by the encoded image when stream=true
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	if req.Stream {
		s.handleRenderStream(w, r, req)
		return
	}

	logger := core.NewDefaultLogger()
	sceneObj, err := s.createScene(&req.SceneRequest, logger)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	img, _, err := s.renderImage(r.Context(), sceneObj, req, logger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := renderer.EncodePNG(&buf, img); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// renderImage renders the scene and applies the optional overlay
func (s *Server) renderImage(ctx context.Context, sceneObj *scene.Scene, req *RenderRequest, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	config := renderer.DefaultRenderConfig()
	config.NumWorkers = req.Workers
	config.DepthLimit = req.Depth

	raytracer := renderer.NewRenderer(sceneObj, config, logger)
	canvas := raytracer.NewCanvas()
	stats, err := raytracer.RenderScene(ctx, canvas)
	if err != nil {
		return nil, stats, err
	}

	img := canvas.Image()
	if req.Overlay {
		drawn := renderer.DrawBoundsOverlay(img, sceneObj)
		logger.Printf("Overlay: %d bounding boxes drawn\n", drawn)
	}
	return img, stats, nil
}

// handleRenderStream runs a render while streaming its log output over SSE
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request, req *RenderRequest) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	// Single writer goroutine; every event goes through sseEventChan
	sseEventChan := make(chan SSEEvent, 100)
	var writerDone sync.WaitGroup
	writerDone.Add(1)
	go func() {
		defer writerDone.Done()
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()

	consoleChan, webLogger := s.setupConsoleLogging()
	var consoleDone sync.WaitGroup
	consoleDone.Add(1)
	go func() {
		defer consoleDone.Done()
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	startTime := time.Now()
	result, renderErr := s.runStreamRender(ctx, req, webLogger)

	// The logger is no longer used once the render returns
	close(consoleChan)
	consoleDone.Wait()

	if renderErr != nil {
		s.handleError(ctx, sseEventChan, renderErr.Error())
	} else {
		result.ElapsedMs = time.Since(startTime).Milliseconds()
		if data, err := json.Marshal(result); err != nil {
			s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode result: %v", err))
		} else {
			select {
			case sseEventChan <- SSEEvent{Type: "complete", Data: string(data)}:
			case <-ctx.Done():
			}
		}
	}

	close(sseEventChan)
	writerDone.Wait()
}

func (s *Server) runStreamRender(ctx context.Context, req *RenderRequest, logger core.Logger) (RenderResult, error) {
	sceneObj, err := s.createScene(&req.SceneRequest, logger)
	if err != nil {
		return RenderResult{}, err
	}

	img, stats, err := s.renderImage(ctx, sceneObj, req, logger)
	if err != nil {
		return RenderResult{}, fmt.Errorf("Rendering failed: %w", err)
	}

	imageData, err := s.imageToBase64PNG(img)
	if err != nil {
		return RenderResult{}, fmt.Errorf("failed to encode image: %w", err)
	}

	return RenderResult{
		ImageData:      imageData,
		Width:          img.Bounds().Dx(),
		Height:         img.Bounds().Dy(),
		TotalPixels:    stats.TotalPixels,
		RenderedPixels: stats.RenderedPixels,
		Workers:        stats.Workers,
		FailedChunks:   stats.FailedChunks,
		ShapeCount:     len(sceneObj.Tree.Shapes()),
		Luminance:      renderer.CalculateAverageLuminance(img),
	}, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents writes events until the channel is closed or the client goes away
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
			// Keep draining so the logger never sees a full channel
		}
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	sceneReq, err := s.parseSceneParams(r)
	if err != nil {
		return nil, err
	}
	req := &RenderRequest{SceneRequest: *sceneReq}

	values := r.URL.Query()
	if req.Workers, err = parseIntParam(values, "workers", 0, 0, 256); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", integrator.DefaultDepthLimit, 0, 64); err != nil {
		return nil, err
	}
	if req.Overlay, err = parseBoolParam(values, "overlay", false); err != nil {
		return nil, err
	}
	if req.Stream, err = parseBoolParam(values, "stream", false); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Depth > integrator.DefaultDepthLimit {
		log.Printf("Render warning: Large image with deep recursion may render slowly")
	}

	return req, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img *image.RGBA) (string, error) {
	var buf bytes.Buffer
	if err := renderer.EncodePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}

func sceneErrorStatus(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
