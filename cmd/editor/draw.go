package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.org/x/image/colornames"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/terrain"
	"github.com/milk9111/terrains/tileset"
)

// Used for terrains the tile set gives no color.
var fallbackColors = []color.RGBA{
	colornames.Forestgreen,
	colornames.Steelblue,
	colornames.Sandybrown,
	colornames.Slategray,
	colornames.Indianred,
	colornames.Goldenrod,
	colornames.Mediumpurple,
	colornames.Teal,
}

// Marker position of each peering bit, relative to the cell center in
// cell units.
var bitOffsets = [grid.NeighborCount][2]float64{
	grid.RightSide:         {0.375, 0},
	grid.RightCorner:       {0.375, 0},
	grid.BottomRightSide:   {0.25, 0.25},
	grid.BottomRightCorner: {0.375, 0.375},
	grid.BottomSide:        {0, 0.375},
	grid.BottomCorner:      {0, 0.375},
	grid.BottomLeftSide:    {-0.25, 0.25},
	grid.BottomLeftCorner:  {-0.375, 0.375},
	grid.LeftSide:          {-0.375, 0},
	grid.LeftCorner:        {-0.375, 0},
	grid.TopLeftSide:       {-0.25, -0.25},
	grid.TopLeftCorner:     {-0.375, -0.375},
	grid.TopSide:           {0, -0.375},
	grid.TopCorner:         {0, -0.375},
	grid.TopRightSide:      {0.25, -0.25},
	grid.TopRightCorner:    {0.375, -0.375},
}

func (g *EditorGame) terrainColor(set, t int) color.Color {
	if info, ok := g.tiles.Terrain(set, t); ok && info.Color != nil {
		return info.Color
	}
	if t < 0 {
		return colornames.Dimgray
	}
	return fallbackColors[t%len(fallbackColors)]
}

func (g *EditorGame) fillRect(screen *ebiten.Image, wx, wy, w, h float64, col color.Color, alpha float32) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w*g.zoom, h*g.zoom)
	op.GeoM.Translate(wx*g.zoom+g.panX, wy*g.zoom+g.panY)
	op.ColorScale.ScaleWithColor(col)
	op.ColorScale.ScaleAlpha(alpha)
	screen.DrawImage(g.pixel, op)
}

// drawPattern draws a cell as its dominant terrain with one marker per
// peering bit.
func (g *EditorGame) drawPattern(screen *ebiten.Image, c grid.Coords, set int, p terrain.Pattern, alpha float32) {
	size := float64(g.layout.cellSize)
	x, y := g.layout.origin(c)
	inset := size / 8
	g.fillRect(screen, x+inset, y+inset, size-2*inset, size-2*inset, g.terrainColor(set, dominantTerrain(p)), alpha)

	marker := size / 5
	for i, bit := range g.catalog.Bits(set) {
		t := p.At(i)
		if t == tileset.NoTerrain {
			continue
		}
		off := bitOffsets[bit]
		mx := x + size/2 + off[0]*size - marker/2
		my := y + size/2 + off[1]*size - marker/2
		g.fillRect(screen, mx, my, marker, marker, g.terrainColor(set, t), alpha)
	}
}

func (g *EditorGame) Draw(screen *ebiten.Image) {
	if g.pixel == nil {
		g.pixel = ebiten.NewImage(1, 1)
		g.pixel.Fill(color.White)
	}
	size := float64(g.layout.cellSize)

	for layer := 0; layer < g.level.LayerCount(); layer++ {
		alpha := float32(1)
		if layer != g.currentLayer {
			alpha = 0.35
		}
		for _, c := range g.level.UsedCells(layer) {
			ref := g.level.Cell(layer, c)
			v, ok := g.catalog.Lookup(ref)
			if !ok {
				x, y := g.layout.origin(c)
				g.fillRect(screen, x+1, y+1, size-2, size-2, colornames.Gray, alpha)
				continue
			}
			g.drawPattern(screen, c, v.TerrainSet, v.Pattern, alpha)
		}
	}

	preview := []grid.Coords{g.hover}
	if g.currentTool == ToolLine && g.lineStart != nil {
		preview = g.layout.shape.Line(*g.lineStart, g.hover)
	}
	for _, c := range preview {
		if pat, ok := g.brush.pattern(); ok && g.currentTool != ToolErase && g.currentTool != ToolPicker {
			g.drawPattern(screen, c, g.brush.terrainSet, pat, 0.5)
			continue
		}
		x, y := g.layout.origin(c)
		g.fillRect(screen, x, y, size, size, colornames.White, 0.2)
	}

	pat := "-"
	if p, ok := g.brush.pattern(); ok {
		pat = fmt.Sprintf("%v (%d/%d)", p, g.brush.paletteIndex+1, len(g.brush.palette))
	}
	h := screen.Bounds().Dy()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Tool: %s  Layer: %d  Set: %d  Terrain: %d  Pattern: %s",
		g.currentTool, g.currentLayer, g.brush.terrainSet, g.brush.terrain, pat), 10, h-40)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Cell: %s  %s", g.hover, g.status), 10, h-24)

	g.ui.Draw(screen)
}
