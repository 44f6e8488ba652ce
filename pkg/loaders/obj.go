package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ObjData is the geometry read from an OBJ file: vertex positions and
// triangulated faces as zero-based indices
type ObjData struct {
	Vertices []core.Vec3
	Faces    [][3]int
	Ignored  int // Faces with fewer than three vertices
}

// ReadObj loads an OBJ file into a tree of triangles
func ReadObj(path string, logger core.Logger) (*scene.Tree, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	startTime := time.Now()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	tree, err := ParseObj(file, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Printf("Loaded OBJ %s: %d triangles in %v\n", path, len(tree.Shapes()), time.Since(startTime))
	return tree, nil
}

// ParseObj reads OBJ content and builds a tree of triangles. Degenerate faces are dropped.
func ParseObj(r io.Reader, logger core.Logger) (*scene.Tree, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	data, err := ParseObjData(r)
	if err != nil {
		return nil, err
	}
	if data.Ignored > 0 {
		logger.Printf("Ignoring %d face(s) with fewer than 3 vertices\n", data.Ignored)
	}

	tree, skipped, err := scene.NewMeshTree(data.Vertices, data.Faces)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		logger.Printf("Skipped %d degenerate triangle(s)\n", skipped)
	}
	return tree, nil
}

// ParseObjData reads v and f records. Faces may use the v, v/vt, v//vn and v/vt/vn
// forms and negative (relative) indices; polygons are fan-triangulated.
// Every other record is ignored.
func ParseObjData(r io.Reader) (*ObjData, error) {
	data := &ObjData{}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseObjVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			data.Vertices = append(data.Vertices, v)

		case "f":
			indices := make([]int, 0, len(fields)-1)
			for _, token := range fields[1:] {
				idx, err := parseObjIndex(token, len(data.Vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				indices = append(indices, idx)
			}
			if len(indices) < 3 {
				data.Ignored++
				continue
			}
			for i := 1; i+1 < len(indices); i++ {
				data.Faces = append(data.Faces, [3]int{indices[0], indices[i], indices[i+1]})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	return data, nil
}

func parseObjVertex(fields []string) (core.Vec3, error) {
	// An optional fourth (w) component is accepted and ignored
	if len(fields) < 3 || len(fields) > 4 {
		return core.Vec3{}, fmt.Errorf("%w: vertex needs 3 coordinates, got %d", ErrMalformedArray, len(fields))
	}
	var coords [3]float64
	for i := range coords {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid vertex coordinate %q: %w", fields[i], err)
		}
		coords[i] = f
	}
	return core.NewVec3(coords[0], coords[1], coords[2]), nil
}

// parseObjIndex converts a 1-based (or negative, relative) face token into a zero-based vertex index
func parseObjIndex(token string, vertexCount int) (int, error) {
	if slash := strings.IndexByte(token, '/'); slash >= 0 {
		token = token[:slash]
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q: %w", token, err)
	}

	var idx int
	switch {
	case n > 0:
		idx = n - 1
	case n < 0:
		idx = vertexCount + n
	default:
		return 0, fmt.Errorf("face index 0 is not valid")
	}

	if idx < 0 || idx >= vertexCount {
		return 0, fmt.Errorf("face index %d out of range (%d vertices defined)", n, vertexCount)
	}
	return idx, nil
}
