package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/mapstore"
	"github.com/milk9111/terrains/tileset"
)

const grassYAML = `
shape: square
terrain_sets:
  - mode: corners_and_sides
    terrains:
      - {name: grass, color: "#3cb043"}
sources:
  - id: 0
    kind: atlas
    tiles:
      - coords: [0, 0]
        alternatives:
          - id: 0
            terrain_set: 0
            peering: {right_side: 0, bottom_right_corner: 0, bottom_side: 0, bottom_left_corner: 0,
                      left_side: 0, top_left_corner: 0, top_side: 0, top_right_corner: 0}
`

func TestParseCoords(t *testing.T) {
	cases := []struct {
		in      string
		want    grid.Coords
		wantErr bool
	}{
		{"3,4", grid.C(3, 4), false},
		{" -2 , 7 ", grid.C(-2, 7), false},
		{"3", grid.Coords{}, true},
		{"a,1", grid.Coords{}, true},
		{"1,2,3", grid.Coords{}, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := parseCoords(c.in)
			if (err != nil) != c.wantErr {
				t.Fatalf("expected error %v, got %v", c.wantErr, err)
			}
			if got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestParseSpan(t *testing.T) {
	a, b, err := parseSpan("0,1:4,-3")
	if err != nil || a != grid.C(0, 1) || b != grid.C(4, -3) {
		t.Fatalf("unexpected span %v %v %v", a, b, err)
	}
	if _, _, err := parseSpan("0,1"); err == nil {
		t.Fatalf("expected error for a span without a colon")
	}
}

func TestSelectionResolve(t *testing.T) {
	sel := selection{
		cells: []string{"0,0"},
		rects: []string{"0,0:1,1"},
		lines: []string{"5,0:7,0"},
	}
	cells, err := sel.resolve(grid.ShapeSquare)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(cells) != 7 {
		t.Fatalf("expected 7 distinct cells, got %v", cells)
	}
	if _, err := (selection{}).resolve(grid.ShapeSquare); err == nil {
		t.Fatalf("expected error for an empty selection")
	}
}

func TestPaintAndRevertCommands(t *testing.T) {
	dir := t.TempDir()
	tsPath := filepath.Join(dir, "tiles.yaml")
	if err := os.WriteFile(tsPath, []byte(grassYAML), 0o644); err != nil {
		t.Fatalf("write tileset: %v", err)
	}
	db := filepath.Join(dir, "map.db")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"paint", "--tileset", tsPath, "--db", db, "--seed", "5", "--terrain", "0", "--rect", "0,0:1,1"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("paint: %v", err)
	}
	if !strings.Contains(out.String(), "operation") {
		t.Fatalf("expected an operation id in %q", out.String())
	}

	store, err := mapstore.Open(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	cells, err := store.UsedCells(0)
	if err != nil {
		t.Fatalf("used cells: %v", err)
	}
	if len(cells) != 4 {
		t.Fatalf("expected the 4 painted cells, got %v", cells)
	}
	grass := tileset.TileRef{SourceID: 0, Coords: grid.C(0, 0), Alternative: 0}
	if got := store.Cell(0, grid.C(1, 1)); got != grass {
		t.Fatalf("expected grass, got %v", got)
	}

	ops, err := store.Operations()
	if err != nil || len(ops) != 1 {
		t.Fatalf("expected one operation, got %v %v", ops, err)
	}

	rootCmd.SetArgs([]string{"revert", "--tileset", tsPath, "--db", db, ops[0].ID})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("revert: %v", err)
	}
	cells, err = store.UsedCells(0)
	if err != nil {
		t.Fatalf("used cells: %v", err)
	}
	if len(cells) != 0 {
		t.Fatalf("expected revert to clear the map, got %v", cells)
	}
}
