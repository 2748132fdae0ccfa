package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/terrains/terrain"
	"github.com/milk9111/terrains/tileset"
)

var (
	paintSel     selection
	paintTerrain int
	paintPattern string
	eraseSel     selection
)

func init() {
	paintCmd := &cobra.Command{
		Use:   "paint",
		Short: "Paint a terrain or pattern onto cells",
		Long: `Paint a terrain onto the selected cells. With --terrain the brush uses the
tile pattern that best matches the terrain; --pattern sets every peering bit
explicitly, in the terrain set's bit order.

Examples:
  terrains paint --terrain 1 --cell 3,4 --cell 3,5
  terrains paint --terrain 0 --rect 0,0:7,7
  terrains paint --pattern 0,0,1,1,1,0,0,0 --line 0,0:10,4`,
		RunE: runPaint,
	}
	addSelectionFlags(paintCmd, &paintSel)
	paintCmd.Flags().IntVar(&paintTerrain, "terrain", tileset.NoTerrain, "Terrain to paint")
	paintCmd.Flags().StringVar(&paintPattern, "pattern", "", "Explicit pattern, comma separated terrain ids")
	paintCmd.MarkFlagsMutuallyExclusive("terrain", "pattern")
	paintCmd.MarkFlagsOneRequired("terrain", "pattern")

	eraseCmd := &cobra.Command{
		Use:   "erase",
		Short: "Remove terrain from cells and adapt their neighbors",
		RunE:  runErase,
	}
	addSelectionFlags(eraseCmd, &eraseSel)

	rootCmd.AddCommand(paintCmd, eraseCmd)
}

func addSelectionFlags(cmd *cobra.Command, sel *selection) {
	cmd.Flags().StringArrayVar(&sel.cells, "cell", nil, "Cell 'x,y' (repeatable)")
	cmd.Flags().StringArrayVar(&sel.rects, "rect", nil, "Rectangle 'x0,y0:x1,y1' (repeatable)")
	cmd.Flags().StringArrayVar(&sel.lines, "line", nil, "Line 'x0,y0:x1,y1' following the grid shape (repeatable)")
}

func runPaint(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(true)
	if err != nil {
		return err
	}
	defer ws.Close()

	cells, err := paintSel.resolve(ws.catalog.Shape())
	if err != nil {
		return err
	}

	var pat terrain.Pattern
	if paintPattern != "" {
		pat, err = terrain.ParsePattern(paintPattern)
		if err != nil {
			return err
		}
	} else {
		if paintTerrain < 0 || paintTerrain >= ws.catalog.TerrainCount(terrainSet) {
			return fmt.Errorf("terrain %d out of range for terrain set %d", paintTerrain, terrainSet)
		}
		pat = patternFor(ws.catalog, terrainSet, paintTerrain)
	}
	logger.Debug("paint", "cells", len(cells), "pattern", pat.String())

	res, err := ws.painter().PaintCells(cells, terrainSet, pat)
	if err != nil {
		return err
	}
	return ws.commit(cmd, res, "paint")
}

func runErase(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(true)
	if err != nil {
		return err
	}
	defer ws.Close()

	cells, err := eraseSel.resolve(ws.catalog.Shape())
	if err != nil {
		return err
	}
	res, err := ws.painter().Erase(cells, terrainSet)
	if err != nil {
		return err
	}
	return ws.commit(cmd, res, "erase")
}
