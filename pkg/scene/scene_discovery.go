package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownScene is returned when a builtin scene name is not registered
var ErrUnknownScene = errors.New("unknown scene")

const builtinGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the scene file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// Builder constructs a builtin scene for a given image size
type Builder func(width, height int) *Scene

type builtin struct {
	info  SceneInfo
	build Builder
}

var builtins = map[string]builtin{
	"default": {
		info:  SceneInfo{Name: "Default Scene", Description: "Two reference spheres on a checkered floor"},
		build: NewDefaultScene,
	},
	"glass": {
		info:  SceneInfo{Name: "Glass", Description: "Refraction, reflection and Fresnel blending"},
		build: NewGlassScene,
	},
	"spheregrid": {
		info:  SceneInfo{Name: "Sphere Grid", Description: fmt.Sprintf("%dx%d grid of spheres for BVH stress", SphereGridSize, SphereGridSize)},
		build: NewSphereGridScene,
	},
	"cornell": {
		info:  SceneInfo{Name: "Cornell Box", Description: "Plane walls with a cube and a mirror sphere"},
		build: NewCornellScene,
	},
	"pyramid": {
		info:  SceneInfo{Name: "Triangle Meshes", Description: "Pyramid and icosahedron meshes grafted as subtrees"},
		build: NewPyramidScene,
	},
}

// Names returns the builtin scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName builds a builtin scene
func ByName(name string, width, height int) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return b.build(width, height), nil
}

// ListBuiltinScenes returns metadata for every builtin scene
func ListBuiltinScenes() []SceneInfo {
	var scenes []SceneInfo
	for _, name := range Names() {
		info := builtins[name].info
		info.ID = name
		info.DisplayName = info.Name
		info.Group = builtinGroup
		info.Type = "builtin"
		scenes = append(scenes, info)
	}
	return scenes
}

// ListJSONScenes scans dir for JSON scene files. An empty dir tries "scenes" and "../scenes".
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	scenesDir := dir
	if scenesDir == "" {
		for _, path := range []string{"scenes", "../scenes"} {
			if _, err := os.Stat(path); err == nil {
				scenesDir = path
				break
			}
		}
	}

	if scenesDir == "" {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(scenesDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseJSONMetadata(filePath)
		if err != nil {
			// Skip unreadable files; the loader reports the detail when the scene is opened
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseJSONMetadata reads the optional name/description/group fields of a scene file
func ParseJSONMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          fmt.Sprintf("json:%s", nameWithoutExt),
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        "json",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return sceneInfo, err
	}

	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return sceneInfo, fmt.Errorf("%s: %w", filePath, err)
	}

	if header.Name != "" {
		sceneInfo.Name = header.Name
		sceneInfo.DisplayName = header.Name
	}
	if header.Group != "" {
		sceneInfo.Group = header.Group
	}
	sceneInfo.Description = header.Description

	return sceneInfo, nil
}

// ListAllScenes returns both builtin and file scenes, grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListJSONScenes(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	allScenes := append(ListBuiltinScenes(), fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if group, exists := groupMap[builtinGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: group})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
