package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "default", "Builtin scene name, scene file name under scenes/, or path to a .json/.obj file")
	width := flag.Int("width", 400, "Image width for builtin and OBJ scenes")
	height := flag.Int("height", 300, "Image height for builtin and OBJ scenes")
	workers := flag.Int("workers", 0, "Number of render workers (0 = one per logical CPU)")
	serial := flag.Bool("serial", false, "Render on the calling goroutine only")
	useBVH := flag.Bool("bvh", true, "Rebuild the scene tree as a bounding volume hierarchy")
	depth := flag.Int("depth", integrator.DefaultDepthLimit, "Reflection/refraction depth limit")
	overlay := flag.Bool("overlay", false, "Outline the scene tree bounds on the output image")
	out := flag.String("out", "", "Output path; a .ppm extension writes plain PPM (default output/<scene>/render_<timestamp>.png)")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	logger := core.NewDefaultLogger()

	if *list {
		if err := printScenes(); err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Starting Whitted Raytracer...")
	if info, err := renderer.GetSystemInfo(); err == nil {
		logger.Printf("System: %s\n", info)
	}

	selectedScene, err := createScene(*sceneType, *width, *height, logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	buildStart := time.Now()
	selectedScene.Preprocess(*useBVH)
	stats := selectedScene.Tree.Stats()
	logger.Printf("Scene tree: %d shapes, %d nodes, %d leaves, max depth %d (built in %v, bvh=%v)\n",
		stats.Shapes, stats.Nodes, stats.Leaves, stats.MaxDepth, time.Since(buildStart), *useBVH)

	config := renderer.DefaultRenderConfig()
	config.NumWorkers = *workers
	config.DepthLimit = *depth
	r := renderer.NewRenderer(selectedScene, config, logger)
	canvas := r.NewCanvas()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var renderStats renderer.RenderStats
	if *serial {
		renderStats, err = r.RenderSceneUnthreaded(canvas)
	} else {
		renderStats, err = r.RenderScene(ctx, canvas)
	}
	if err != nil {
		// A partial image is still written so failed regions can be inspected
		fmt.Printf("Render error: %v\n", err)
	}
	fmt.Printf("Render completed in %v (%d/%d pixels)\n",
		renderStats.Duration, renderStats.RenderedPixels, renderStats.TotalPixels)

	filename := *out
	if filename == "" {
		outputDir := createOutputDir(*sceneType)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			fmt.Printf("Error creating output directory: %v\n", err)
			os.Exit(1)
		}
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	}

	if err := saveImage(canvas, selectedScene, filename, *overlay); err != nil {
		fmt.Printf("Error saving image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", filename)
}

func printHelp() {
	fmt.Println("Whitted Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Builtin scenes:")
	for _, info := range scene.ListBuiltinScenes() {
		fmt.Printf("  %-12s - %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
}

func printScenes() error {
	response, err := scene.ListAllScenes("")
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Printf("%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Printf("  %-24s %s\n", info.ID, info.Description)
		}
	}
	return nil
}

// saveImage picks the output format from the file extension. The overlay is
// only drawn on PNG output.
func saveImage(canvas *renderer.Canvas, s *scene.Scene, filename string, overlay bool) error {
	if strings.EqualFold(filepath.Ext(filename), ".ppm") {
		return canvas.SavePPM(filename)
	}
	return savePNG(canvas, s, filename, overlay)
}

func savePNG(canvas *renderer.Canvas, s *scene.Scene, filename string, overlay bool) error {
	if !overlay {
		return canvas.SavePNG(filename)
	}

	img := canvas.Image()
	renderer.DrawBoundsOverlay(img, s)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := renderer.EncodePNG(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// createScene resolves a scene argument: JSON and OBJ paths first, then scene
// files by name, then builtin scenes
func createScene(sceneType string, width, height int, logger core.Logger) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("no scene given")
	}

	switch strings.ToLower(filepath.Ext(sceneType)) {
	case ".json":
		logger.Printf("Loading scene file %s...\n", sceneType)
		return loaders.ReadScene(sceneType, logger)
	case ".obj":
		logger.Printf("Loading mesh %s...\n", sceneType)
		return createObjScene(sceneType, width, height, logger)
	}

	if s := tryLoadJSONScene(sceneType, logger); s != nil {
		return s, nil
	}

	logger.Printf("Using %s scene...\n", sceneType)
	return scene.ByName(sceneType, width, height)
}

// tryLoadJSONScene looks for scenes/<name>.json and returns nil if it is absent or invalid
func tryLoadJSONScene(name string, logger core.Logger) *scene.Scene {
	path := filepath.Join("scenes", name+".json")
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	s, err := loaders.ReadScene(path, logger)
	if err != nil {
		logger.Printf("Warning: %v\n", err)
		return nil
	}
	logger.Printf("Loaded scene file %s\n", path)
	return s
}

// createObjScene frames a single OBJ mesh with a camera above and in front of it
func createObjScene(path string, width, height int, logger core.Logger) (*scene.Scene, error) {
	mesh, err := loaders.ReadObj(path, logger)
	if err != nil {
		return nil, err
	}

	bounds := mesh.Node(mesh.Root()).Bounds
	if !bounds.IsValid() {
		return nil, fmt.Errorf("%s: mesh has no triangles", path)
	}

	center := bounds.Center()
	radius := math.Max(bounds.Size().Length()/2, core.Epsilon)
	from := center.Add(core.NewVec3(0, radius, -3*radius))

	camera, err := geometry.NewCameraFromConfig(geometry.CameraConfig{
		From:   from,
		To:     center,
		Up:     core.NewVec3(0, 1, 0),
		Width:  width,
		Height: height,
		FOV:    math.Pi / 3,
	})
	if err != nil {
		logger.Printf("Warning: %v (rectified)\n", err)
	}

	light := lights.NewWhiteLight(center.Add(core.NewVec3(-4*radius, 6*radius, -6*radius)))
	s := scene.NewScene(camera, light)
	s.AddTree(mesh)
	return s, nil
}

// createOutputDir returns output/<base>, where base is the scene name or the
// file name without its extension
func createOutputDir(sceneType string) string {
	base := strings.TrimSuffix(filepath.Base(sceneType), filepath.Ext(sceneType))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "scene"
	}
	return filepath.Join("output", base)
}
