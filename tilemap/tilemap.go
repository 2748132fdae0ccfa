// Package tilemap is an in-memory layered tile map with JSON level files.
package tilemap

import (
	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/tileset"
)

type Map struct {
	layers []map[grid.Coords]tileset.TileRef
}

func New(layers int) *Map {
	m := &Map{}
	for i := 0; i < layers; i++ {
		m.AddLayer()
	}
	return m
}

func (m *Map) AddLayer() int {
	m.layers = append(m.layers, make(map[grid.Coords]tileset.TileRef))
	return len(m.layers) - 1
}

func (m *Map) LayerCount() int {
	return len(m.layers)
}

func (m *Map) validLayer(layer int) bool {
	return layer >= 0 && layer < len(m.layers)
}

// Cell returns the tile in a cell, or tileset.EmptyRef.
func (m *Map) Cell(layer int, c grid.Coords) tileset.TileRef {
	if !m.validLayer(layer) {
		return tileset.EmptyRef
	}
	if ref, ok := m.layers[layer][c]; ok {
		return ref
	}
	return tileset.EmptyRef
}

// SetCell places a tile; the empty tile clears the cell.
func (m *Map) SetCell(layer int, c grid.Coords, ref tileset.TileRef) {
	if !m.validLayer(layer) {
		return
	}
	if ref.IsEmpty() {
		delete(m.layers[layer], c)
		return
	}
	m.layers[layer][c] = ref
}

// UsedCells lists the non-empty cells of a layer in coordinate order.
func (m *Map) UsedCells(layer int) []grid.Coords {
	if !m.validLayer(layer) {
		return nil
	}
	cells := make([]grid.Coords, 0, len(m.layers[layer]))
	for c := range m.layers[layer] {
		cells = append(cells, c)
	}
	grid.SortCoords(cells)
	return cells
}

// Apply writes a batch of tiles and returns what the cells held before, so
// the batch can be undone by applying the returned map.
func (m *Map) Apply(layer int, tiles map[grid.Coords]tileset.TileRef) map[grid.Coords]tileset.TileRef {
	if !m.validLayer(layer) {
		return nil
	}
	prev := make(map[grid.Coords]tileset.TileRef, len(tiles))
	for c, ref := range tiles {
		prev[c] = m.Cell(layer, c)
		m.SetCell(layer, c, ref)
	}
	return prev
}

func (m *Map) Clone() *Map {
	out := &Map{layers: make([]map[grid.Coords]tileset.TileRef, len(m.layers))}
	for i, layer := range m.layers {
		out.layers[i] = make(map[grid.Coords]tileset.TileRef, len(layer))
		for c, ref := range layer {
			out.layers[i][c] = ref
		}
	}
	return out
}
