package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/google/uuid"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`  // Current tile number in this pass (1-based)
	TotalTiles  int    `json:"totalTiles"`  // Total number of tiles in the image
	TotalPasses int    `json:"totalPasses"` // Total number of passes planned
}

// PassUpdate summarizes a finished pass
type PassUpdate struct {
	RenderID       string  `json:"renderId"`
	PassNumber     int     `json:"passNumber"`
	TotalPasses    int     `json:"totalPasses"`
	ElapsedMs      int64   `json:"elapsedMs"`
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MaxSamples     int     `json:"maxSamples"`
	ErrorPixels    int     `json:"errorPixels"`
	PrimitiveCount int     `json:"primitiveCount"`
	ImageData      string  `json:"imageData"` // Base64 encoded PNG of the whole image
	IsLast         bool    `json:"isLast"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "start", "console", "tile", "passComplete", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	ID        string
	Scene     *scene.Scene
	Raytracer *renderer.ProgressiveRaytracer
	Passes    int
}

// handleRender handles progressive rendering with real-time tile streaming via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	renderID := uuid.NewString()
	consoleChan := make(chan ConsoleMessage, 50)
	webLogger := NewWebLogger(renderID, consoleChan)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()
	defer func() {
		close(consoleChan)
		<-consoleDone
	}()

	pipeline, err := s.setupRenderingPipeline(renderID, req, webLogger)
	if err != nil {
		sendEvent(ctx, sseEventChan, "error", err.Error())
		return
	}
	start, _ := json.Marshal(map[string]any{
		"renderId":    renderID,
		"scene":       pipeline.Scene.Name,
		"width":       pipeline.Scene.Camera.HSize,
		"height":      pipeline.Scene.Camera.VSize,
		"totalPasses": pipeline.Passes,
	})
	sendEvent(ctx, sseEventChan, "start", string(start))

	startTime := time.Now()
	passChan, tileChan, errChan := pipeline.Raytracer.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: true})
	handleRenderingEvents(ctx, sseEventChan, pipeline, passChan, tileChan, errChan, startTime)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents is the only writer of the response body
func writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for event := range sseEventChan {
		if ctx.Err() != nil {
			// Client gone; keep draining so senders never block
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards log lines as console events, dropping them
// when the event queue is full
func streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for msg := range consoleChan {
		data, err := json.Marshal(msg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}
		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
		}
	}
}

// setupRenderingPipeline creates the scene and raytracer for a request
func (s *Server) setupRenderingPipeline(renderID string, req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.createScene(&req.SceneRequest, logger)
	if err != nil {
		return nil, err
	}

	config := req.Config()
	if req.MaxDepth == 0 && sceneObj.MaxDepth > 0 {
		config.MaxDepth = sceneObj.MaxDepth
	}
	raytracer, err := renderer.NewProgressiveRaytracer(sceneObj.World, sceneObj.Camera, config, logger)
	if err != nil {
		return nil, err
	}
	return &RenderingPipeline{
		ID:        renderID,
		Scene:     sceneObj,
		Raytracer: raytracer,
		Passes:    min(config.MaxPasses, config.SamplesPerPixel),
	}, nil
}

// handleRenderingEvents turns renderer output into SSE events until every
// channel is drained
func handleRenderingEvents(ctx context.Context, sseEventChan chan<- SSEEvent, pipeline *RenderingPipeline,
	passChan <-chan renderer.PassResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	startTime time.Time) {

	for passChan != nil || tileChan != nil || errChan != nil {
		select {
		case result, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			handlePassComplete(ctx, sseEventChan, pipeline, result, startTime)

		case tile, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			handleTileUpdate(ctx, sseEventChan, tile)

		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			if ctx.Err() == nil {
				sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("Rendering failed: %v", err))
			}
			drain(passChan, tileChan, errChan)
			return

		case <-ctx.Done():
			drain(passChan, tileChan, errChan)
			return
		}
	}

	sendEvent(ctx, sseEventChan, "complete", "Rendering completed")
}

// drain waits for the renderer to close its channels so nothing logs after
// the handler returns. Nil channels are skipped.
func drain(passChan <-chan renderer.PassResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error) {
	if errChan != nil {
		for range errChan {
		}
	}
	if passChan != nil {
		for range passChan {
		}
	}
	if tileChan != nil {
		for range tileChan {
		}
	}
}

// handlePassComplete sends the pass summary with the full image
func handlePassComplete(ctx context.Context, sseEventChan chan<- SSEEvent, pipeline *RenderingPipeline, result renderer.PassResult, startTime time.Time) {
	imageData, err := imageToBase64PNG(result.Image)
	if err != nil {
		log.Printf("Error encoding pass %d image: %v", result.PassNumber, err)
		return
	}

	update := PassUpdate{
		RenderID:       pipeline.ID,
		PassNumber:     result.PassNumber,
		TotalPasses:    pipeline.Passes,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		TotalPixels:    result.Stats.TotalPixels,
		TotalSamples:   result.Stats.TotalSamples,
		AverageSamples: result.Stats.AverageSamples,
		MaxSamples:     result.Stats.MaxSamples,
		ErrorPixels:    result.Stats.ErrorPixels,
		PrimitiveCount: pipeline.Scene.World.PrimitiveCount(),
		ImageData:      imageData,
		IsLast:         result.IsLast,
	}
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling pass update: %v", err)
		return
	}
	sendEvent(ctx, sseEventChan, "passComplete", string(data))
}

// handleTileUpdate sends one finished tile
func handleTileUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, tile renderer.TileCompletionResult) {
	tileData, err := imageToBase64PNG(tile.TileImage)
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", tile.TileX, tile.TileY, err)
		return
	}

	update := TileUpdate{
		TileX:       tile.TileX,
		TileY:       tile.TileY,
		ImageData:   tileData,
		PassNumber:  tile.PassNumber,
		TileNumber:  tile.TileNumber,
		TotalTiles:  tile.TotalTiles,
		TotalPasses: tile.TotalPasses,
	}
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling tile update: %v", err)
		return
	}
	sendEvent(ctx, sseEventChan, "tile", string(data))
}

// sendEvent queues an event unless the client has gone away
func sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType, data string) {
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: data}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
