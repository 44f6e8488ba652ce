package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

const squareObj = `# unit square
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1 2 3 4
`

func TestParseObjData_FanTriangulation(t *testing.T) {
	data, err := ParseObjData(strings.NewReader(squareObj))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(data.Vertices) != 4 {
		t.Errorf("Expected 4 vertices, got %d", len(data.Vertices))
	}
	expected := [][3]int{{0, 1, 2}, {0, 2, 3}}
	if len(data.Faces) != len(expected) {
		t.Fatalf("Expected %d faces, got %d", len(expected), len(data.Faces))
	}
	for i, f := range expected {
		if data.Faces[i] != f {
			t.Errorf("Face %d: expected %v, got %v", i, f, data.Faces[i])
		}
	}
}

func TestParseObjData_IndexForms(t *testing.T) {
	tests := []struct {
		name     string
		face     string
		expected [3]int
	}{
		{"Plain", "f 1 2 3", [3]int{0, 1, 2}},
		{"Texture", "f 1/1 2/2 3/3", [3]int{0, 1, 2}},
		{"Normal only", "f 1//1 2//1 3//1", [3]int{0, 1, 2}},
		{"Full", "f 2/1/1 3/2/1 4/3/1", [3]int{1, 2, 3}},
		{"Negative", "f -3 -2 -1", [3]int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\n" + tt.face + "\n"
			data, err := ParseObjData(strings.NewReader(input))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(data.Faces) != 1 || data.Faces[0] != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, data.Faces)
			}
		})
	}
}

func TestParseObjData_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"Index past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"Forward reference", "v 0 0 0\nf 1 2 3\nv 1 0 0\nv 0 1 0\n"},
		{"Bad index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 two 3\n"},
		{"Short vertex", "v 0 0\n"},
		{"Bad coordinate", "v 0 zero 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseObjData(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestParseObj_BuildsTriangles(t *testing.T) {
	input := squareObj + "v 2 0 0\nv 3 0 0\nf 1 5 6\nf 1 2\n"
	logger := &recordingLogger{}

	tree, err := ParseObj(strings.NewReader(input), logger)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	shapes := tree.Shapes()
	if len(shapes) != 2 {
		t.Fatalf("Expected 2 triangles (collinear face dropped), got %d", len(shapes))
	}
	for _, s := range shapes {
		if s.Kind() != geometry.KindTriangle {
			t.Errorf("Expected triangle, got %v", s.Kind())
		}
	}
	if !logger.contains("degenerate") || !logger.contains("fewer than 3") {
		t.Errorf("Expected skipped faces to be logged, got %v", logger.messages)
	}

	// A ray down the z axis through the square hits exactly one triangle
	ray := core.NewRay(core.NewVec3(0.75, 0.25, -1), core.NewVec3(0, 0, 1))
	hits := 0
	for _, x := range tree.Intersect(ray, nil) {
		hits += x.Count
	}
	if hits != 1 {
		t.Errorf("Expected 1 hit, got %d", hits)
	}
}

func TestReadObj(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.obj")
	if err := os.WriteFile(path, []byte(squareObj), 0o644); err != nil {
		t.Fatalf("Failed to write OBJ: %v", err)
	}

	tree, err := ReadObj(path, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(tree.Shapes()) != 2 {
		t.Errorf("Expected 2 triangles, got %d", len(tree.Shapes()))
	}

	if _, err := ReadObj(filepath.Join(t.TempDir(), "missing.obj"), nil); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
