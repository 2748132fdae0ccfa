package tileset

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed builtin/*.yaml
var BuiltinFS embed.FS

// Load reads a tile set from disk, falling back to the built-in sets. A
// built-in set may be named "roads", "roads.yaml" or "builtin/roads.yaml".
func Load(name string) (*TileSet, error) {
	ts, err := LoadFile(name)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return ts, err
	}
	data, berr := BuiltinFS.ReadFile(cleanBuiltinPath(name))
	if berr != nil {
		return nil, err
	}
	ts, err = Parse(data)
	if err != nil {
		return nil, fmt.Errorf("tileset: builtin %s: %w", name, err)
	}
	return ts, nil
}

// Builtins lists the names of the built-in tile sets.
func Builtins() []string {
	entries, err := fs.ReadDir(BuiltinFS, "builtin")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// OnDisk reports whether a tile set name refers to a file rather than a
// built-in set.
func OnDisk(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

func cleanBuiltinPath(name string) string {
	s := strings.ReplaceAll(name, "\\", "/")
	s = strings.TrimPrefix(s, "builtin:")
	s = strings.TrimPrefix(s, "builtin/")
	if path.Ext(s) == "" {
		s += ".yaml"
	}
	return "builtin/" + s
}
