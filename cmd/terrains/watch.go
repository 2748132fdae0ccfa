package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/milk9111/terrains/tileset"
)

func init() {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the pattern catalog whenever the tile set changes",
		RunE:  runWatch,
	}
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !tileset.OnDisk(tileSetPath) {
		return fmt.Errorf("%s is not a file on disk (built-in sets: %v)", tileSetPath, tileset.Builtins())
	}
	ws, err := openWorkspace(false)
	if err != nil {
		return err
	}
	defer ws.Close()

	w, err := tileset.NewWatcher(tileSetPath)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logCatalog(ws)
	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			ts, err := tileset.Load(tileSetPath)
			if err != nil {
				logger.Error("reload tile set", "file", name, "err", err)
				continue
			}
			ws.tiles = ts
			ws.catalog.Rebuild(ts)
			logCatalog(ws)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch", "err", err)
		}
	}
}

func logCatalog(ws *workspace) {
	for set := 0; set < ws.catalog.TerrainSetCount(); set++ {
		logger.Info("catalog",
			"terrain_set", set,
			"terrains", ws.catalog.TerrainCount(set),
			"patterns", len(ws.catalog.Patterns(set)))
	}
}
