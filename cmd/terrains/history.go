package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/milk9111/terrains/tilemap"
)

func init() {
	revertCmd := &cobra.Command{
		Use:   "revert <operation-id>",
		Short: "Restore the cells an operation changed",
		Args:  cobra.ExactArgs(1),
		RunE:  runRevert,
	}
	opsCmd := &cobra.Command{
		Use:   "ops",
		Short: "List journaled operations",
		RunE:  runOps,
	}
	importCmd := &cobra.Command{
		Use:   "import <level.json>",
		Short: "Load a JSON level into the map database",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
	exportCmd := &cobra.Command{
		Use:   "export <level.json>",
		Short: "Write the map database to a JSON level",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	rootCmd.AddCommand(revertCmd, opsCmd, importCmd, exportCmd)
}

func runRevert(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid operation id: %w", err)
	}
	ws, err := openWorkspace(true)
	if err != nil {
		return err
	}
	defer ws.Close()

	if err := ws.store.Revert(id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "reverted %s\n", id)
	return nil
}

func runOps(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(true)
	if err != nil {
		return err
	}
	defer ws.Close()

	ops, err := ws.store.Operations()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, op := range ops {
		state := ""
		if op.Reverted {
			state = " (reverted)"
		}
		fmt.Fprintf(out, "%s  layer %d  %-16s %s cells  %s%s\n",
			op.ID, op.Layer, op.Description,
			humanize.Comma(int64(op.Cells)),
			humanize.Time(time.Unix(0, op.CreatedAt)),
			state)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	m, lvl, err := tilemap.LoadFile(args[0])
	if err != nil {
		return err
	}
	if lvl.TileSet != "" && lvl.TileSet != tileSetPath {
		logger.Warn("level was saved with another tile set", "level", lvl.TileSet, "tileset", tileSetPath)
	}
	ws, err := openWorkspace(true)
	if err != nil {
		return err
	}
	defer ws.Close()

	if err := ws.store.Import(m); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d layers from %s\n", m.LayerCount(), args[0])
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(true)
	if err != nil {
		return err
	}
	defer ws.Close()

	m, err := ws.store.Export()
	if err != nil {
		return err
	}
	if err := m.SaveFile(args[0], tileSetPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d layers to %s\n", m.LayerCount(), args[0])
	return nil
}
