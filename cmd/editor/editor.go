package main

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/ebitenui/ebitenui"
	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/terrain"
	"github.com/milk9111/terrains/tilemap"
	"github.com/milk9111/terrains/tileset"
)

// EditorGame is the Ebiten game for the terrain editor.
type EditorGame struct {
	tileSetPath string
	tiles       *tileset.TileSet
	catalog     *terrain.Catalog
	painter     *terrain.Painter
	watcher     *tileset.Watcher

	level        *tilemap.Map
	currentLayer int
	savePath     string

	brush       brushState
	currentTool Tool
	lineStart   *grid.Coords
	lastCell    *grid.Coords
	isPainting  bool
	history     history

	layout    cellLayout
	zoom      float64
	panX      float64
	panY      float64
	isPanning bool
	lastPanX  int
	lastPanY  int
	pixel     *ebiten.Image
	hover     grid.Coords
	status    string
	seed      int64

	ui          *ebitenui.UI
	toolBar     *ToolBar
	clipboardOK bool
}

func NewEditorGame(tileSetPath string, ts *tileset.TileSet, level *tilemap.Map, savePath string, cellSize int, seed int64) *EditorGame {
	logger := slog.Default()
	catalog := terrain.NewCatalog(ts, logger)
	g := &EditorGame{
		tileSetPath: tileSetPath,
		tiles:       ts,
		catalog:     catalog,
		level:       level,
		savePath:    savePath,
		layout:      cellLayout{shape: ts.Shape(), cellSize: cellSize},
		zoom:        1,
		panX:        40,
		panY:        40,
		history:     history{maxUndo: 100},
		seed:        seed,
	}
	g.painter = terrain.NewPainter(catalog, level, 0, terrain.Options{Seed: seed, Logger: logger})
	g.brush.refresh(catalog)
	g.ui, g.toolBar = buildEditorUI(g.setTool, g.Undo, g.saveFromUI, ToolBrush)
	return g
}

func (g *EditorGame) setTool(t Tool) {
	g.currentTool = t
	g.lineStart = nil
}

// selectTool switches tools from the keyboard and keeps the tool bar in sync.
func (g *EditorGame) selectTool(t Tool) {
	g.setTool(t)
	g.toolBar.SetTool(t)
}

func (g *EditorGame) saveFromUI() {
	if err := g.Save(); err != nil {
		log.Printf("Failed to save level: %v", err)
		g.status = "save failed"
	}
}

func (g *EditorGame) setLevel(level *tilemap.Map, currentLayer int) {
	g.level = level
	g.currentLayer = currentLayer
	g.seed++
	g.painter = terrain.NewPainter(g.catalog, level, currentLayer, terrain.Options{Seed: g.seed, Logger: slog.Default()})
}

func (g *EditorGame) pushUndo() {
	g.history.push(g.level, g.currentLayer)
}

func (g *EditorGame) Undo() {
	snapshot, ok := g.history.pop()
	if !ok {
		return
	}
	g.setLevel(snapshot.level, snapshot.currentLayer)
	g.status = "undo"
}

// reloadTileSet rebuilds the catalog from the tile set on disk.
func (g *EditorGame) reloadTileSet() {
	ts, err := tileset.Load(g.tileSetPath)
	if err != nil {
		log.Printf("Failed to reload tile set: %v", err)
		g.status = "tile set reload failed"
		return
	}
	if ts.Shape() != g.tiles.Shape() {
		log.Printf("Tile set shape changed from %s to %s, restart the editor", g.tiles.Shape(), ts.Shape())
		return
	}
	g.tiles = ts
	g.catalog.Rebuild(ts)
	g.brush.refresh(g.catalog)
	g.status = "tile set reloaded"
	log.Printf("Reloaded tile set %s", g.tileSetPath)
}

func (g *EditorGame) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case _, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reloadTileSet()
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("Watch error: %v", err)
			}
		default:
			return
		}
	}
}

func (g *EditorGame) Save() error {
	if err := g.level.SaveFile(g.savePath, g.tileSetPath); err != nil {
		return err
	}
	log.Printf("Saved level to %s", g.savePath)
	g.status = "saved " + g.savePath
	return nil
}

// apply writes a paint result to the current layer.
func (g *EditorGame) apply(res *terrain.PaintResult, err error) {
	if err != nil {
		log.Printf("Paint failed: %v", err)
		g.status = err.Error()
		return
	}
	g.level.Apply(g.currentLayer, res.Tiles)
	if len(res.Unresolved) > 0 {
		g.status = fmt.Sprintf("%d cells without a matching tile", len(res.Unresolved))
	}
}

func (g *EditorGame) strokeCells(cell grid.Coords) []grid.Coords {
	if g.lastCell == nil {
		return []grid.Coords{cell}
	}
	return g.layout.shape.Line(*g.lastCell, cell)
}

func (g *EditorGame) paintAt(cell grid.Coords) {
	switch g.currentTool {
	case ToolBrush:
		pat, ok := g.brush.pattern()
		if !ok {
			g.status = "no pattern for terrain"
			return
		}
		g.apply(g.painter.PaintCells(g.strokeCells(cell), g.brush.terrainSet, pat))
	case ToolErase:
		g.apply(g.painter.Erase(g.strokeCells(cell), g.brush.terrainSet))
	}
	c := cell
	g.lastCell = &c
}

// copyPattern puts the pattern of the hovered tile on the clipboard.
func (g *EditorGame) copyPattern() {
	if !g.clipboardOK {
		return
	}
	v, ok := g.painter.VariantAt(g.hover)
	if !ok {
		g.status = "no terrain tile to copy"
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(v.Pattern.String()))
	g.status = "copied " + v.Pattern.String()
}

// pastePattern selects the pattern on the clipboard as the brush.
func (g *EditorGame) pastePattern() {
	if !g.clipboardOK {
		return
	}
	p, err := terrain.ParsePattern(string(clipboard.Read(clipboard.FmtText)))
	if err != nil {
		g.status = "clipboard holds no pattern"
		return
	}
	if !g.catalog.Has(g.brush.terrainSet, p) {
		g.status = "no tile for pattern " + p.String()
		return
	}
	g.brush.selectPattern(g.catalog, g.brush.terrainSet, p)
	g.selectTool(ToolBrush)
	g.status = "pasted " + p.String()
}

func (g *EditorGame) handleKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyZ):
		g.Undo()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.saveFromUI()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copyPattern()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV):
		g.pastePattern()
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		g.selectTool(ToolBrush)
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.selectTool(ToolErase)
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.selectTool(ToolLine)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.selectTool(ToolPicker)
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		step := 1
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			step = -1
		}
		g.brush.cycle(step)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		g.brush.terrainSet++
		g.brush.refresh(g.catalog)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		if g.brush.terrainSet > 0 {
			g.brush.terrainSet--
		}
		g.brush.refresh(g.catalog)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		if g.currentLayer+1 >= g.level.LayerCount() {
			g.level.AddLayer()
		}
		g.currentLayer++
		g.painter.SetLayer(g.currentLayer)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		if g.currentLayer > 0 {
			g.currentLayer--
			g.painter.SetLayer(g.currentLayer)
		}
	}

	for i := 0; i < 9; i++ {
		if inpututil.IsKeyJustPressed(ebiten.Key1 + ebiten.Key(i)) {
			if i < g.catalog.TerrainCount(g.brush.terrainSet) {
				g.brush.terrain = i
				g.brush.refresh(g.catalog)
			}
		}
	}
}

func (g *EditorGame) Update() error {
	g.ui.Update()
	g.pollWatcher()
	g.handleKeys()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
		g.isPanning = true
		g.lastPanX, g.lastPanY = ebiten.CursorPosition()
	}
	if g.isPanning && ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		cx, cy := ebiten.CursorPosition()
		g.panX += float64(cx - g.lastPanX)
		g.panY += float64(cy - g.lastPanY)
		g.lastPanX, g.lastPanY = cx, cy
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle) {
		g.isPanning = false
	}

	// Zoom centered on the cursor.
	if _, wy := ebiten.Wheel(); wy != 0 {
		cx, cy := ebiten.CursorPosition()
		oldZoom := g.zoom
		if wy > 0 {
			g.zoom *= 1.1
		} else {
			g.zoom /= 1.1
		}
		g.zoom = min(max(g.zoom, 0.25), 4.0)
		if g.zoom != oldZoom {
			worldX := (float64(cx) - g.panX) / oldZoom
			worldY := (float64(cy) - g.panY) / oldZoom
			g.panX = float64(cx) - worldX*g.zoom
			g.panY = float64(cy) - worldY*g.zoom
		}
	}

	sx, sy := ebiten.CursorPosition()
	cell := g.layout.cellAt((float64(sx)-g.panX)/g.zoom, (float64(sy)-g.panY)/g.zoom)
	g.hover = cell

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.isPainting = false
		g.lastCell = nil
	}
	if ebuiinput.UIHovered {
		return nil
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !(g.isPainting && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)) {
		return nil
	}

	switch g.currentTool {
	case ToolBrush, ToolErase:
		if !g.isPainting {
			g.pushUndo()
			g.isPainting = true
		}
		if g.lastCell == nil || *g.lastCell != cell {
			g.paintAt(cell)
		}
	case ToolLine:
		if g.lineStart == nil {
			c := cell
			g.lineStart = &c
			return nil
		}
		pat, ok := g.brush.pattern()
		if !ok {
			g.status = "no pattern for terrain"
			g.lineStart = nil
			return nil
		}
		g.pushUndo()
		g.apply(g.painter.PaintLine(*g.lineStart, cell, g.brush.terrainSet, pat))
		g.lineStart = nil
	case ToolPicker:
		v, ok := g.painter.VariantAt(cell)
		if !ok {
			g.status = "no terrain tile here"
			return nil
		}
		g.brush.selectPattern(g.catalog, v.TerrainSet, v.Pattern)
		g.selectTool(ToolBrush)
		g.status = "picked " + v.Pattern.String()
	}
	return nil
}

func (g *EditorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
