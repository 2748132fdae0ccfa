package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/milk9111/terrains/terrain"
	"github.com/milk9111/terrains/tileset"
)

var catalogAll bool

func init() {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the terrain patterns the tile set provides",
		RunE:  runCatalog,
	}
	catalogCmd.Flags().BoolVar(&catalogAll, "all", false, "List every terrain set instead of --terrain-set")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(false)
	if err != nil {
		return err
	}
	defer ws.Close()

	sets := []int{terrainSet}
	if catalogAll {
		sets = sets[:0]
		for i := 0; i < ws.catalog.TerrainSetCount(); i++ {
			sets = append(sets, i)
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "tile set %s: shape %s, %s terrain sets\n",
		tileSetPath, ws.catalog.Shape(), humanize.Comma(int64(ws.catalog.TerrainSetCount())))
	for _, set := range sets {
		if err := printTerrainSet(out, ws, set); err != nil {
			return err
		}
	}
	return nil
}

func printTerrainSet(out io.Writer, ws *workspace, set int) error {
	ts, ok := ws.tiles.TerrainSet(set)
	if !ok {
		return fmt.Errorf("%w: %d", terrain.ErrInvalidTerrainSet, set)
	}
	patterns := ws.catalog.Patterns(set)
	fmt.Fprintf(out, "\nterrain set %d (%s): %s patterns, bits %v\n",
		set, ts.Mode, humanize.Comma(int64(len(patterns))), ws.catalog.Bits(set))

	for t := 0; t < ws.catalog.TerrainCount(set); t++ {
		info, _ := ws.tiles.Terrain(set, t)
		fmt.Fprintf(out, "  terrain %d %q\n", t, info.Name)
		for _, p := range ws.catalog.PatternsForTerrain(set, t) {
			printPattern(out, ws, set, p)
		}
	}
	fmt.Fprintln(out, "  empty")
	printPattern(out, ws, set, terrain.EmptyPattern(len(ws.catalog.Bits(set))))
	return nil
}

func printPattern(out io.Writer, ws *workspace, set int, p terrain.Pattern) {
	variants := ws.catalog.Variants(set, p)
	total := 0.0
	for _, v := range variants {
		total += v.Probability
	}
	refs := make([]tileset.TileRef, len(variants))
	for i, v := range variants {
		refs[i] = v.Ref
	}
	fmt.Fprintf(out, "    %v  %d variants, weight %s  %v\n", p, len(variants), humanize.Ftoa(total), refs)
}
