package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/terrains/brush"
	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/terrain"
)

var (
	genRect    string
	genConfig  string
	genTerrain int
	genUniform bool
)

func init() {
	genCmd := &cobra.Command{
		Use:   "generate",
		Short: "Paint a generated terrain layout",
	}
	genCmd.PersistentFlags().StringVar(&genRect, "rect", "0,0:31,31", "Area to generate 'x0,y0:x1,y1'")
	genCmd.PersistentFlags().BoolVar(&genUniform, "uniform", false, "Paint uniform patterns even when no tile has them")

	noiseCmd := &cobra.Command{
		Use:   "noise",
		Short: "Fill the area from simplex noise bands",
		Long: `Fill the area from layered simplex noise. The optional YAML config sets
seed, frequency, octaves, persistence and the bands mapping noise values to
terrains:

  frequency: 0.1
  octaves: 3
  bands:
    - {below: 0.4, terrain: -1}
    - {below: 0.7, terrain: 0}
    - {below: 1.0, terrain: 1}`,
		RunE: runNoise,
	}
	noiseCmd.Flags().StringVar(&genConfig, "config", "", "Noise config (YAML)")

	scriptCmd := &cobra.Command{
		Use:   "script <file.tengo>",
		Short: "Run a tengo brush script over the area",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().IntVar(&genTerrain, "terrain", 0, "Terrain for cells the script leaves unset")

	genCmd.AddCommand(noiseCmd, scriptCmd)
	rootCmd.AddCommand(genCmd)
}

func loadNoiseConfig(path string) (brush.NoiseConfig, error) {
	cfg := brush.DefaultNoiseConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read noise config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal noise config %s: %w", path, err)
	}
	return cfg, nil
}

func runNoise(cmd *cobra.Command, args []string) error {
	a, b, err := parseSpan(genRect)
	if err != nil {
		return err
	}
	cfg, err := loadNoiseConfig(genConfig)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = seed
	}
	return paintGenerated(cmd, "generate noise", brush.Noise(cfg, a, b))
}

func runScript(cmd *cobra.Command, args []string) error {
	a, b, err := parseSpan(genRect)
	if err != nil {
		return err
	}
	s, err := brush.LoadScript(args[0])
	if err != nil {
		return err
	}
	ws, err := openWorkspace(false)
	if err != nil {
		return err
	}
	origin := grid.C(min(a.X, b.X), min(a.Y, b.Y))
	cells, err := s.Run(cmd.Context(), brush.ScriptParams{
		Shape:        ws.catalog.Shape(),
		Width:        abs(a.X-b.X) + 1,
		Height:       abs(a.Y-b.Y) + 1,
		TerrainCount: ws.catalog.TerrainCount(terrainSet),
		Terrain:      genTerrain,
		Origin:       origin,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", s.Path(), err)
	}
	return paintGenerated(cmd, "generate script", cells)
}

func paintGenerated(cmd *cobra.Command, description string, cells map[grid.Coords]int) error {
	ws, err := openWorkspace(true)
	if err != nil {
		return err
	}
	defer ws.Close()

	var toPaint map[grid.Coords]terrain.Pattern
	if genUniform {
		toPaint = brush.Uniform(len(ws.catalog.Bits(terrainSet)), cells)
	} else {
		toPaint = brushPatterns(ws.catalog, terrainSet, cells)
	}
	res, err := ws.painter().Paint(toPaint, terrainSet)
	if err != nil {
		return err
	}
	return ws.commit(cmd, res, description)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
