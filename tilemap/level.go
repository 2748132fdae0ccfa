package tilemap

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/tileset"
)

// Level is the JSON form of a map.
type Level struct {
	TileSet string      `json:"tileset,omitempty"`
	Layers  []LayerData `json:"layers"`
}

type LayerData struct {
	Name  string     `json:"name,omitempty"`
	Cells []CellData `json:"cells"`
}

type CellData struct {
	X    int             `json:"x"`
	Y    int             `json:"y"`
	Tile tileset.TileRef `json:"tile"`
}

func (m *Map) Level(tileSet string) *Level {
	lvl := &Level{TileSet: tileSet, Layers: make([]LayerData, len(m.layers))}
	for i := range m.layers {
		cells := m.UsedCells(i)
		lvl.Layers[i].Cells = make([]CellData, 0, len(cells))
		for _, c := range cells {
			lvl.Layers[i].Cells = append(lvl.Layers[i].Cells, CellData{X: c.X, Y: c.Y, Tile: m.layers[i][c]})
		}
	}
	return lvl
}

func FromLevel(lvl *Level) *Map {
	m := New(len(lvl.Layers))
	for i, layer := range lvl.Layers {
		for _, cell := range layer.Cells {
			m.SetCell(i, grid.C(cell.X, cell.Y), cell.Tile)
		}
	}
	return m
}

func LoadFile(path string) (*Map, *Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if len(lvl.Layers) == 0 {
		lvl.Layers = []LayerData{{}}
	}
	return FromLevel(&lvl), &lvl, nil
}

func (m *Map) SaveFile(path, tileSet string) error {
	data, err := json.MarshalIndent(m.Level(tileSet), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal level: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write level: %w", err)
	}
	return nil
}
