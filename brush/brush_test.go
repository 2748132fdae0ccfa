package brush

import (
	"context"
	"errors"
	"testing"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/tileset"
)

func TestRect(t *testing.T) {
	cases := []struct {
		name string
		a, b grid.Coords
		want int
	}{
		{"single", grid.C(2, 2), grid.C(2, 2), 1},
		{"row", grid.C(0, 0), grid.C(3, 0), 4},
		{"swapped corners", grid.C(1, 1), grid.C(-1, -1), 9},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Rect(c.a, c.b)
			if len(got) != c.want {
				t.Fatalf("expected %d cells, got %d", c.want, len(got))
			}
			seen := grid.NewCellSet(got...)
			if seen.Len() != c.want || !seen.Has(c.a) || !seen.Has(c.b) {
				t.Fatalf("rect missing corners or has duplicates: %v", got)
			}
		})
	}
}

func TestUniformAndSplit(t *testing.T) {
	cells := map[grid.Coords]int{
		grid.C(0, 0): 1,
		grid.C(1, 0): 1,
		grid.C(2, 0): tileset.NoTerrain,
	}
	patterns := Uniform(8, cells)
	if p := patterns[grid.C(1, 0)]; p.Len() != 8 || p.Count(1) != 8 {
		t.Fatalf("expected all-1 pattern, got %v", p)
	}
	if p := patterns[grid.C(2, 0)]; !p.IsEmpty() {
		t.Fatalf("expected empty pattern, got %v", p)
	}

	groups := Split(cells)
	if len(groups[1]) != 2 || groups[1][0] != grid.C(0, 0) {
		t.Fatalf("unexpected groups %v", groups)
	}
}

func TestNoiseIsDeterministicPerSeed(t *testing.T) {
	cfg := DefaultNoiseConfig()
	cfg.Seed = 7
	a := Noise(cfg, grid.C(0, 0), grid.C(15, 15))
	b := Noise(cfg, grid.C(0, 0), grid.C(15, 15))
	if len(a) != 256 {
		t.Fatalf("expected 256 cells, got %d", len(a))
	}
	for c, v := range a {
		if b[c] != v {
			t.Fatalf("cell %v differs between runs", c)
		}
		if v != tileset.NoTerrain && v != 0 {
			t.Fatalf("cell %v has terrain %d outside the bands", c, v)
		}
	}
}

func TestNoiseSingleBand(t *testing.T) {
	cfg := NoiseConfig{Seed: 3, Frequency: 0.1, Octaves: 2, Persistence: 0.5, Bands: []Band{{Below: 0, Terrain: 2}}}
	for c, v := range Noise(cfg, grid.C(0, 0), grid.C(4, 4)) {
		if v != 2 {
			t.Fatalf("cell %v: expected last band terrain, got %d", c, v)
		}
	}
}

const rowScript = `
for x := 0; x < width; x++ {
	cells = append(cells, {x: x, y: 0, terrain: 1})
}
diag := line(0, 1, 2, 3)
for i := 0; i < len(diag); i++ {
	p := diag[i]
	cells = append(cells, {x: p[0], y: p[1]})
}
`

func TestScriptRun(t *testing.T) {
	s, err := NewScript([]byte(rowScript))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got, err := s.Run(context.Background(), ScriptParams{
		Shape:        grid.ShapeSquare,
		Width:        3,
		Height:       1,
		TerrainCount: 2,
		Terrain:      0,
		Origin:       grid.C(10, 10),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := map[grid.Coords]int{
		grid.C(10, 10): 1,
		grid.C(11, 10): 1,
		grid.C(12, 10): 1,
		grid.C(10, 11): 0,
		grid.C(11, 12): 0,
		grid.C(12, 13): 0,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d cells, got %v", len(want), got)
	}
	for c, v := range want {
		if got[c] != v {
			t.Fatalf("cell %v: expected %d, got %d (all %v)", c, v, got[c], got)
		}
	}

	// Reruns start from an empty cells array.
	again, err := s.Run(context.Background(), ScriptParams{Shape: grid.ShapeSquare, Width: 1, TerrainCount: 2})
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if len(again) != 4 {
		t.Fatalf("expected 4 cells on rerun, got %v", again)
	}
}

func TestScriptRejectsBadOutput(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"not an array", `cells = 5`},
		{"not a map", `cells = append(cells, 3)`},
		{"missing y", `cells = append(cells, {x: 1})`},
		{"terrain out of range", `cells = append(cells, {x: 1, y: 1, terrain: terrain_count})`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := NewScript([]byte(c.src))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			_, err = s.Run(context.Background(), ScriptParams{Shape: grid.ShapeSquare, TerrainCount: 2})
			if !errors.Is(err, ErrScriptOutput) {
				t.Fatalf("expected ErrScriptOutput, got %v", err)
			}
		})
	}
}

func TestScriptCompileError(t *testing.T) {
	if _, err := NewScript([]byte(`cells = append(`)); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestBuiltinScripts(t *testing.T) {
	names := BuiltinScripts()
	if len(names) != 2 || names[0] != "island" || names[1] != "river" {
		t.Fatalf("unexpected builtin scripts %v", names)
	}
	cases := []struct {
		name      string
		wantWater bool
	}{
		{"island", true},
		{"scripts/river.tengo", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := LoadScript(c.name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			cells, err := s.Run(context.Background(), ScriptParams{Shape: grid.ShapeSquare, Width: 12, Height: 9, TerrainCount: 2})
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			water := 0
			for cell, v := range cells {
				if cell.X < 0 || cell.X >= 12 || cell.Y < 0 || cell.Y >= 9 {
					t.Fatalf("cell %v outside the area", cell)
				}
				if v == 1 {
					water++
				}
			}
			if (water > 0) != c.wantWater {
				t.Fatalf("expected water %v, got %d water cells", c.wantWater, water)
			}
		})
	}
	if _, err := LoadScript("missing"); err == nil {
		t.Fatalf("expected error for an unknown script")
	}
}
