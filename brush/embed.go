package brush

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// BuiltinScripts lists the names of the built-in brush scripts.
func BuiltinScripts() []string {
	entries, err := fs.ReadDir(ScriptsFS, "scripts")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".tengo"))
	}
	sort.Strings(names)
	return names
}

func cleanScriptPath(name string) string {
	s := strings.ReplaceAll(name, "\\", "/")
	if after, ok := strings.CutPrefix(s, "brush/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	if path.Ext(s) == "" {
		s += ".tengo"
	}
	return "scripts/" + s
}
