package brush

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/tileset"
)

var ErrScriptOutput = errors.New("brush: bad script output")

// Script is a tengo brush. The script reads `width`, `height`,
// `terrain_count`, `terrain` and `shape`, may call `line(x0, y0, x1, y1)`
// and `rect(x0, y0, x1, y1)`, and appends `{x, y, terrain}` maps to the
// `cells` array. Cells without a terrain take `terrain`.
type Script struct {
	path     string
	compiled *tengo.Compiled
}

type ScriptParams struct {
	Shape        grid.Shape
	Width        int
	Height       int
	TerrainCount int
	// Terrain is the default for cells the script leaves unset.
	Terrain int
	// Origin offsets every emitted cell.
	Origin grid.Coords
}

// LoadScript reads a script from disk, falling back to the built-in
// scripts ("island", "scripts/river.tengo").
func LoadScript(path string) (*Script, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if data, berr := ScriptsFS.ReadFile(cleanScriptPath(path)); berr == nil {
			b, err = data, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := NewScript(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.path = path
	return s, nil
}

func NewScript(src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	_ = script.Add("width", 0)
	_ = script.Add("height", 0)
	_ = script.Add("terrain_count", 0)
	_ = script.Add("terrain", 0)
	_ = script.Add("shape", "")
	_ = script.Add("cells", []any{})
	_ = script.Add("line", &tengo.UserFunction{Name: "line"})
	_ = script.Add("rect", &tengo.UserFunction{Name: "rect"})

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &Script{compiled: compiled}, nil
}

func (s *Script) Path() string { return s.path }

// Run executes the script and returns the terrain of every emitted cell.
// Later entries for the same cell win. A Script is not safe for concurrent
// use.
func (s *Script) Run(ctx context.Context, p ScriptParams) (map[grid.Coords]int, error) {
	if s == nil || s.compiled == nil {
		return nil, fmt.Errorf("nil script")
	}
	c := s.compiled
	if err := c.Set("width", p.Width); err != nil {
		return nil, err
	}
	if err := c.Set("height", p.Height); err != nil {
		return nil, err
	}
	if err := c.Set("terrain_count", p.TerrainCount); err != nil {
		return nil, err
	}
	if err := c.Set("terrain", p.Terrain); err != nil {
		return nil, err
	}
	if err := c.Set("shape", p.Shape.String()); err != nil {
		return nil, err
	}
	if err := c.Set("cells", &tengo.Array{}); err != nil {
		return nil, err
	}
	if err := c.Set("line", lineFunc(p.Shape)); err != nil {
		return nil, err
	}
	if err := c.Set("rect", &tengo.UserFunction{Name: "rect", Value: rectFunc}); err != nil {
		return nil, err
	}
	if err := c.RunContext(ctx); err != nil {
		return nil, err
	}

	arr, ok := c.Get("cells").Object().(*tengo.Array)
	if !ok {
		return nil, fmt.Errorf("%w: cells is %s", ErrScriptOutput, c.Get("cells").ValueType())
	}
	out := make(map[grid.Coords]int, len(arr.Value))
	for i, item := range arr.Value {
		entry, ok := objectToAny(item).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: cells[%d] is not a map", ErrScriptOutput, i)
		}
		x, okX := entry["x"].(int)
		y, okY := entry["y"].(int)
		if !okX || !okY {
			return nil, fmt.Errorf("%w: cells[%d] needs integer x and y", ErrScriptOutput, i)
		}
		t := p.Terrain
		if v, ok := entry["terrain"]; ok {
			n, ok := v.(int)
			if !ok || n < tileset.NoTerrain || n >= p.TerrainCount {
				return nil, fmt.Errorf("%w: cells[%d] terrain %v", ErrScriptOutput, i, v)
			}
			t = n
		}
		out[p.Origin.Add(grid.C(x, y))] = t
	}
	return out, nil
}

func lineFunc(shape grid.Shape) *tengo.UserFunction {
	return &tengo.UserFunction{Name: "line", Value: func(args ...tengo.Object) (tengo.Object, error) {
		a, b, err := cornerArgs(args)
		if err != nil {
			return nil, err
		}
		return coordsArray(shape.Line(a, b)), nil
	}}
}

func rectFunc(args ...tengo.Object) (tengo.Object, error) {
	a, b, err := cornerArgs(args)
	if err != nil {
		return nil, err
	}
	return coordsArray(Rect(a, b)), nil
}

func cornerArgs(args []tengo.Object) (grid.Coords, grid.Coords, error) {
	if len(args) != 4 {
		return grid.Coords{}, grid.Coords{}, tengo.ErrWrongNumArguments
	}
	var v [4]int
	for i, arg := range args {
		n, ok := tengo.ToInt(arg)
		if !ok {
			return grid.Coords{}, grid.Coords{}, tengo.ErrInvalidArgumentType{
				Name:     fmt.Sprintf("arg %d", i),
				Expected: "int",
				Found:    arg.TypeName(),
			}
		}
		v[i] = n
	}
	return grid.C(v[0], v[1]), grid.C(v[2], v[3]), nil
}

func coordsArray(cells []grid.Coords) *tengo.Array {
	out := make([]tengo.Object, 0, len(cells))
	for _, c := range cells {
		out = append(out, &tengo.Array{Value: []tengo.Object{
			&tengo.Int{Value: int64(c.X)},
			&tengo.Int{Value: int64(c.Y)},
		}})
	}
	return &tengo.Array{Value: out}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
