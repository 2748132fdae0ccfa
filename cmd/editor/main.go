package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"

	"github.com/milk9111/terrains/tilemap"
	"github.com/milk9111/terrains/tileset"
)

func main() {
	tileSetPath := flag.String("tileset", "grass_water", "Tile set definition (YAML file or built-in name)")
	levelPath := flag.String("level", "level.json", "Level file to load and save")
	layers := flag.Int("layers", 1, "Layer count for a new level")
	cellSize := flag.Int("cell", 32, "Cell size in pixels")
	seed := flag.Int64("seed", 0, "Random seed; 0 picks one from the clock")
	watch := flag.Bool("watch", true, "Reload the tile set when it changes on disk")
	flag.Parse()

	log.Println("Editor starting...")
	ts, err := tileset.Load(*tileSetPath)
	if err != nil {
		log.Fatalf("Failed to load tile set: %v", err)
	}

	level, lvl, err := tilemap.LoadFile(*levelPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("Level %s not found, starting a new one", *levelPath)
		level = tilemap.New(max(*layers, 1))
	case err != nil:
		log.Fatalf("Failed to load level %s: %v", *levelPath, err)
	case lvl.TileSet != "" && lvl.TileSet != *tileSetPath:
		log.Printf("Level was saved with tile set %s, editing with %s", lvl.TileSet, *tileSetPath)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	game := NewEditorGame(*tileSetPath, ts, level, *levelPath, *cellSize, *seed)
	if *watch && tileset.OnDisk(*tileSetPath) {
		w, err := tileset.NewWatcher(*tileSetPath)
		if err != nil {
			log.Printf("Failed to watch tile set: %v", err)
		} else {
			defer w.Close()
			game.watcher = w
		}
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard unavailable: %v", err)
	} else {
		game.clipboardOK = true
	}

	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowTitle("Terrain Editor")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
