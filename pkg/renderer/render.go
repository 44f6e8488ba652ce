package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// RenderConfig contains rendering configuration
type RenderConfig struct {
	NumWorkers int // Worker goroutines; 0 means one per logical CPU
	DepthLimit int // Reflection/refraction depth
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		NumWorkers: 0,
		DepthLimit: integrator.DefaultDepthLimit,
	}
}

// Renderer drives an integrator over every pixel of a scene's camera. The scene
// is only read while rendering.
type Renderer struct {
	scene      *scene.Scene
	config     RenderConfig
	integrator integrator.Integrator
	logger     core.Logger
}

// NewRenderer creates a renderer using the Whitted integrator
func NewRenderer(s *scene.Scene, config RenderConfig, logger core.Logger) *Renderer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Renderer{
		scene:      s,
		config:     config,
		integrator: integrator.NewWhittedIntegrator(config.DepthLimit),
		logger:     logger,
	}
}

// SetIntegrator replaces the integrator
func (r *Renderer) SetIntegrator(i integrator.Integrator) {
	r.integrator = i
}

// NewCanvas creates a canvas matching the scene camera, with a depth buffer
func (r *Renderer) NewCanvas() *Canvas {
	return NewCanvasWithDepth(r.scene.Camera.Width(), r.scene.Camera.Height())
}

func (r *Renderer) checkCanvas(canvas *Canvas) error {
	if r.scene.Camera == nil {
		return errors.New("scene has no camera")
	}
	if canvas.Width() != r.scene.Camera.Width() || canvas.Height() != r.scene.Camera.Height() {
		return fmt.Errorf("canvas is %dx%d but camera is %dx%d",
			canvas.Width(), canvas.Height(), r.scene.Camera.Width(), r.scene.Camera.Height())
	}
	return nil
}

// renderRange returns the pixel loop shared by the threaded and unthreaded paths.
// Cancellation is checked at the start of every row.
func (r *Renderer) renderRange(canvas *Canvas) chunkFunc {
	width := canvas.Width()
	camera := r.scene.Camera
	depthIntegrator, traceDepth := r.integrator.(integrator.DepthIntegrator)
	traceDepth = traceDepth && canvas.HasDepth()

	return func(ctx context.Context, pr PixelRange, written *int) error {
		for i := pr.Start; i < pr.End; i++ {
			x, y := i%width, i/width
			if x == 0 || i == pr.Start {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			ray := camera.RayForPixel(x, y)
			switch {
			case traceDepth:
				color, depth, hit := depthIntegrator.RayColorDepth(ray, r.scene)
				canvas.SetIndex(i, color)
				if hit {
					canvas.SetDepth(i, depth)
				}
			case canvas.HasDepth():
				canvas.SetIndex(i, r.integrator.RayColor(ray, r.scene))
				if d, ok := integrator.NearestHit(r.scene, ray); ok {
					canvas.SetDepth(i, d)
				}
			default:
				canvas.SetIndex(i, r.integrator.RayColor(ray, r.scene))
			}
			*written++
		}
		return nil
	}
}

// RenderScene renders every pixel of canvas in parallel. The pixel range is split
// into one contiguous chunk per worker; the coordinating goroutine waits for all of
// them and then renders the remainder itself. Failed chunks are logged as a
// partial render and returned joined together.
func (r *Renderer) RenderScene(ctx context.Context, canvas *Canvas) (RenderStats, error) {
	startTime := time.Now()
	if err := r.checkCanvas(canvas); err != nil {
		return RenderStats{}, err
	}

	numWorkers := r.config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}

	chunks, remainder := PartitionPixels(canvas.Len(), numWorkers)
	stats := RenderStats{
		TotalPixels:     canvas.Len(),
		Workers:         numWorkers,
		Chunks:          len(chunks),
		RemainderPixels: remainder.Len(),
	}

	render := r.renderRange(canvas)
	var errs []error

	if len(chunks) > 0 {
		pool := NewWorkerPool(ctx, render, numWorkers, len(chunks))
		pool.Start()
		for i, chunk := range chunks {
			pool.SubmitTask(ChunkTask{TaskID: i, Range: chunk})
		}

		for range chunks {
			result, ok := pool.GetResult()
			if !ok {
				break
			}
			stats.RenderedPixels += result.Pixels
			if result.Err != nil {
				stats.FailedChunks++
				errs = append(errs, result.Err)
			}
		}
		pool.Stop()
	}

	if remainder.Len() > 0 {
		written, err := safeRender(ctx, render, remainder)
		stats.RenderedPixels += written
		if err != nil {
			stats.FailedChunks++
			errs = append(errs, fmt.Errorf("remainder: %w", err))
		}
	}

	stats.Duration = time.Since(startTime)

	if len(errs) > 0 {
		r.logger.Printf("Warning: partial render, %d of %d pixels written (%d of %d chunks failed)\n",
			stats.RenderedPixels, stats.TotalPixels, stats.FailedChunks, stats.Chunks)
		return stats, errors.Join(errs...)
	}

	r.logger.Printf("Rendered %s\n", stats)
	return stats, nil
}

// RenderSceneUnthreaded renders every pixel on the calling goroutine
func (r *Renderer) RenderSceneUnthreaded(canvas *Canvas) (RenderStats, error) {
	startTime := time.Now()
	if err := r.checkCanvas(canvas); err != nil {
		return RenderStats{}, err
	}

	all := PixelRange{Start: 0, End: canvas.Len()}
	written, err := safeRender(context.Background(), r.renderRange(canvas), all)

	return RenderStats{
		TotalPixels:     canvas.Len(),
		RenderedPixels:  written,
		Workers:         1,
		RemainderPixels: all.Len(),
		Duration:        time.Since(startTime),
	}, err
}
