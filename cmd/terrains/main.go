// Command terrains paints terrains onto a tile map stored in SQLite.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/milk9111/terrains/mapstore"
	"github.com/milk9111/terrains/terrain"
	"github.com/milk9111/terrains/tileset"
)

var (
	tileSetPath string
	dbPath      string
	seed        int64
	verbose     bool
	terrainSet  int
	layer       int

	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

var rootCmd = &cobra.Command{
	Use:   "terrains",
	Short: "Paint terrains onto tile maps",
	Long: `Paint terrains onto a layered tile map. Painted cells get a tile whose
peering bits match the brush; neighboring tiles are re-solved so the
terrains line up.

Examples:
  terrains catalog --tileset tiles.yaml
  terrains paint --tileset tiles.yaml --db map.db --terrain 0 --rect 0,0:9,9
  terrains revert 4b1d2c1e-0e9c-4f0a-9d55-1f6f1c7f5b55`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&tileSetPath, "tileset", "t", "grass_water", "Tile set definition (YAML file or built-in name)")
	f.StringVar(&dbPath, "db", "map.db", "Map database (SQLite)")
	f.Int64Var(&seed, "seed", 0, "Random seed; 0 picks one from the clock")
	f.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	f.IntVarP(&terrainSet, "terrain-set", "s", 0, "Terrain set to paint with")
	f.IntVarP(&layer, "layer", "l", 0, "Map layer to paint on")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// workspace bundles what most commands need: the tile set, its catalog and
// the map store.
type workspace struct {
	tiles   *tileset.TileSet
	catalog *terrain.Catalog
	store   *mapstore.Store
}

func openWorkspace(withStore bool) (*workspace, error) {
	ts, err := tileset.Load(tileSetPath)
	if err != nil {
		return nil, err
	}
	ws := &workspace{tiles: ts, catalog: terrain.NewCatalog(ts, logger)}
	if !withStore {
		return ws, nil
	}
	ws.store, err = mapstore.Open(dbPath, logger)
	if err != nil {
		return nil, err
	}
	if err := ws.store.EnsureLayers(layer + 1); err != nil {
		ws.store.Close()
		return nil, err
	}
	return ws, nil
}

func (ws *workspace) Close() {
	if ws.store != nil {
		if err := ws.store.Close(); err != nil {
			logger.Error("close store", "err", err)
		}
	}
}

func (ws *workspace) painter() *terrain.Painter {
	s := seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	logger.Debug("painter", "seed", s, "layer", layer, "terrain_set", terrainSet)
	return terrain.NewPainter(ws.catalog, ws.store, layer, terrain.Options{Seed: s, Logger: logger})
}

// commit writes a paint result to the store as one revertible operation.
func (ws *workspace) commit(cmd *cobra.Command, res *terrain.PaintResult, description string) error {
	if len(res.Tiles) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to change")
		return nil
	}
	id, err := ws.store.Apply(layer, res.Tiles, description)
	if err != nil {
		return err
	}
	if len(res.Unresolved) > 0 {
		logger.Warn("some cells had no matching pattern", "cells", len(res.Unresolved))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s cells written (%s pulled in), operation %s\n",
		description,
		humanize.Comma(int64(len(res.Tiles))),
		humanize.Comma(int64(len(res.Pulled))),
		id)
	return nil
}
