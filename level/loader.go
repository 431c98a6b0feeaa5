package level

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gopkg.in/yaml.v3"

	"mazepath"
)

// Load reads a level file. The format follows the extension: .yaml/.yml,
// .json, or .geojson. The result is validated before it is returned.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level: %w", err)
	}

	var t *Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		t, err = decodeYAML(data)
	case ".json":
		t, err = decodeJSON(data)
	case ".geojson":
		t, err = decodeGeoJSON(data)
	default:
		return nil, fmt.Errorf("level format %q: %w", ext, mazepath.ErrInvalidArgument)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Save writes t as YAML or JSON depending on the extension of path.
func Save(path string, t *Table) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(t)
	case ".json":
		data, err = json.MarshalIndent(t, "", "  ")
	default:
		return fmt.Errorf("level format %q: %w", ext, mazepath.ErrInvalidArgument)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func decodeYAML(data []byte) (*Table, error) {
	var t Table
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

func decodeJSON(data []byte) (*Table, error) {
	var t Table
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// decodeGeoJSON builds a level from a FeatureCollection. Every LineString is
// an edge between its first and last coordinates; coordinates that coincide
// are the same node. A Point or LineString feature with the property
// "start": true marks the start node or start edge. Without markers the
// first node and first edge are used.
func decodeGeoJSON(data []byte) (*Table, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}

	t := &Table{}
	if name, ok := fc.ExtraMembers["name"].(string); ok {
		t.Name = name
	}

	vertexToIdx := make(map[orb.Point]int)
	node := func(p orb.Point) int {
		if i, exists := vertexToIdx[p]; exists {
			return i
		}
		i := len(t.Coords)
		vertexToIdx[p] = i
		t.Coords = append(t.Coords, Coord{X: p.X(), Y: p.Y()})
		return i
	}

	startNode, startEdge := -1, -1
	for i, f := range fc.Features {
		marked := f.Properties.MustBool("start", false)

		switch g := f.Geometry.(type) {
		case orb.Point:
			n := node(g)
			if marked {
				startNode = n
			}
		case orb.LineString:
			if len(g) < 2 {
				return nil, fmt.Errorf("feature %d: line string needs 2 coordinates: %w", i, mazepath.ErrInvalidArgument)
			}
			e := mazepath.Edge{A: node(g[0]), B: node(g[len(g)-1])}
			if marked {
				startEdge = len(t.Connections)
			}
			t.Connections = append(t.Connections, e)
		case nil:
			return nil, fmt.Errorf("feature %d: missing geometry: %w", i, mazepath.ErrInvalidArgument)
		default:
			return nil, fmt.Errorf("feature %d: geometry %s: %w", i, f.Geometry.GeoJSONType(), mazepath.ErrInvalidArgument)
		}
	}

	if len(t.Connections) == 0 {
		return nil, fmt.Errorf("no line strings: %w", mazepath.ErrInvalidArgument)
	}
	if startEdge < 0 {
		startEdge = 0
	}
	t.StartOn = t.Connections[startEdge]
	if startNode < 0 {
		startNode = t.StartOn.A
	}
	t.Start = startNode

	return t, nil
}
