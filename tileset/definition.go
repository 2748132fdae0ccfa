package tileset

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/terrains/grid"
)

var ErrInvalidDefinition = errors.New("tileset: invalid definition")

// Definition is the YAML form of a tile set.
type Definition struct {
	Shape       ShapeName       `yaml:"shape"`
	TerrainSets []TerrainSetDef `yaml:"terrain_sets"`
	Sources     []SourceDef     `yaml:"sources"`
}

type TerrainSetDef struct {
	Mode     TerrainMode  `yaml:"mode"`
	Terrains []TerrainDef `yaml:"terrains"`
}

type TerrainDef struct {
	Name  string     `yaml:"name"`
	Color *YAMLColor `yaml:"color"`
}

type SourceDef struct {
	ID    int       `yaml:"id"`
	Kind  string    `yaml:"kind"`
	Tiles []TileDef `yaml:"tiles"`
}

type TileDef struct {
	Coords       [2]int           `yaml:"coords"`
	Alternatives []AlternativeDef `yaml:"alternatives"`
}

type AlternativeDef struct {
	ID          int            `yaml:"id"`
	TerrainSet  *int           `yaml:"terrain_set"`
	Probability *float64       `yaml:"probability"`
	Peering     map[string]int `yaml:"peering"`
}

func LoadFile(filename string) (*TileSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("tileset: load %s: %w", filename, err)
	}
	ts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("tileset: %s: %w", filename, err)
	}
	return ts, nil
}

func Parse(data []byte) (*TileSet, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return def.Build()
}

func (d Definition) Build() (*TileSet, error) {
	ts := New(d.Shape.Shape)
	for _, set := range d.TerrainSets {
		terrains := make([]Terrain, 0, len(set.Terrains))
		for _, t := range set.Terrains {
			terrain := Terrain{Name: t.Name}
			if t.Color != nil {
				terrain.Color = t.Color.Color
			}
			terrains = append(terrains, terrain)
		}
		ts.AddTerrainSet(set.Mode, terrains...)
	}

	for _, src := range d.Sources {
		kind, err := parseKind(src.Kind)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", src.ID, err)
		}
		for _, tile := range src.Tiles {
			for _, alt := range tile.Alternatives {
				ref := TileRef{SourceID: src.ID, Coords: grid.C(tile.Coords[0], tile.Coords[1]), Alternative: alt.ID}
				t, err := d.buildTile(ts, kind, ref, alt)
				if err != nil {
					return nil, fmt.Errorf("tile %s: %w", ref, err)
				}
				if err := ts.AddTile(t); err != nil {
					return nil, err
				}
			}
		}
	}
	return ts, nil
}

func (d Definition) buildTile(ts *TileSet, kind TileKind, ref TileRef, alt AlternativeDef) (Tile, error) {
	terrainSet := -1
	if alt.TerrainSet != nil {
		terrainSet = *alt.TerrainSet
	}
	t := NewTile(kind, ref, terrainSet)
	if alt.Probability != nil {
		if *alt.Probability <= 0 {
			return Tile{}, fmt.Errorf("%w: probability %v must be positive", ErrInvalidDefinition, *alt.Probability)
		}
		t.Probability = *alt.Probability
	}
	if terrainSet >= ts.TerrainSetCount() {
		return Tile{}, fmt.Errorf("%w: terrain set %d out of range", ErrInvalidDefinition, terrainSet)
	}
	if len(alt.Peering) > 0 && terrainSet < 0 {
		return Tile{}, fmt.Errorf("%w: peering bits without a terrain set", ErrInvalidDefinition)
	}
	for name, terrain := range alt.Peering {
		bit, err := grid.ParseNeighbor(name)
		if err != nil {
			return Tile{}, err
		}
		if !ts.Shape().IsValidPeeringBit(bit) {
			return Tile{}, fmt.Errorf("%w: %s is not a peering bit of %s tiles", ErrInvalidDefinition, bit, ts.Shape())
		}
		if terrain < NoTerrain || terrain >= ts.TerrainCount(terrainSet) {
			return Tile{}, fmt.Errorf("%w: terrain %d out of range on %s", ErrInvalidDefinition, terrain, bit)
		}
		t.Terrains[bit] = terrain
	}
	return t, nil
}

func parseKind(s string) (TileKind, error) {
	switch strings.ToLower(s) {
	case "", "atlas":
		return TileAtlas, nil
	case "scene":
		return TileScene, nil
	}
	return TileMissing, fmt.Errorf("%w: unknown source kind %q", ErrInvalidDefinition, s)
}

type ShapeName struct {
	grid.Shape
}

func (s *ShapeName) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("shape must be a string")
	}
	shape, err := grid.ParseShape(value.Value)
	if err != nil {
		return err
	}
	s.Shape = shape
	return nil
}

func (m *TerrainMode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("terrain mode must be a string")
	}
	key := strings.ToLower(strings.TrimSpace(value.Value))
	for i, name := range modeNames {
		if name == key {
			*m = TerrainMode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown terrain mode %q", value.Value)
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	rgba, err := ParseHexColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = rgba
	return nil
}

// ParseHexColor reads "#rrggbb" or "#rrggbbaa".
func ParseHexColor(v string) (color.RGBA, error) {
	s := strings.TrimPrefix(v, "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color format: %s", v)
	}
	var parts [4]uint8
	parts[3] = 255
	for i := 0; i < len(s)/2; i++ {
		p, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color format: %s", v)
		}
		parts[i] = uint8(p)
	}
	return color.RGBA{R: parts[0], G: parts[1], B: parts[2], A: parts[3]}, nil
}
