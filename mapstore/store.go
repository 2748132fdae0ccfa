// Package mapstore keeps a layered tile map in SQLite. Every batch of
// changes is journaled under an operation id so it can be reverted.
package mapstore

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/tilemap"
	"github.com/milk9111/terrains/tileset"
)

var (
	ErrUnknownOperation = errors.New("mapstore: unknown operation")
	ErrAlreadyReverted  = errors.New("mapstore: operation already reverted")
	ErrInvalidLayer     = errors.New("mapstore: invalid layer")

	// ErrSuperseded rejects reverting an operation whose cells a later,
	// still applied operation changed again.
	ErrSuperseded = errors.New("mapstore: operation superseded")
)

// Store implements the tile-map view the terrain painter reads.
type Store struct {
	conn *sqlx.DB
	log  *slog.Logger
}

type Operation struct {
	ID          string `db:"id"`
	Layer       int    `db:"layer"`
	Description string `db:"description"`
	CreatedAt   int64  `db:"created_at"`
	Cells       int    `db:"cells"`
	Reverted    bool   `db:"reverted"`
}

type cellRow struct {
	X           int `db:"x"`
	Y           int `db:"y"`
	SourceID    int `db:"source_id"`
	AtlasX      int `db:"atlas_x"`
	AtlasY      int `db:"atlas_y"`
	Alternative int `db:"alternative"`
}

func (r cellRow) ref() tileset.TileRef {
	return tileset.TileRef{SourceID: r.SourceID, Coords: grid.C(r.AtlasX, r.AtlasY), Alternative: r.Alternative}
}

// Open opens or creates a store at the given path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn, log: logger}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS layers (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS cells (
		layer INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		source_id INTEGER NOT NULL,
		atlas_x INTEGER NOT NULL,
		atlas_y INTEGER NOT NULL,
		alternative INTEGER NOT NULL,
		PRIMARY KEY (layer, x, y)
	);

	CREATE TABLE IF NOT EXISTS operations (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		layer INTEGER NOT NULL,
		description TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		reverted INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS operation_cells (
		op_id TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		source_id INTEGER NOT NULL,
		atlas_x INTEGER NOT NULL,
		atlas_y INTEGER NOT NULL,
		alternative INTEGER NOT NULL,
		PRIMARY KEY (op_id, x, y)
	);

	CREATE INDEX IF NOT EXISTS idx_cells_layer ON cells(layer);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// EnsureLayers creates layers until the map has at least n.
func (s *Store) EnsureLayers(n int) error {
	for i := s.LayerCount(); i < n; i++ {
		if _, err := s.conn.Exec("INSERT INTO layers (id) VALUES (?)", i); err != nil {
			return fmt.Errorf("add layer %d: %w", i, err)
		}
	}
	return nil
}

func (s *Store) LayerCount() int {
	var n int
	if err := s.conn.Get(&n, "SELECT COUNT(*) FROM layers"); err != nil {
		s.log.Error("mapstore: count layers", "err", err)
		return 0
	}
	return n
}

// Cell returns the tile in a cell. Query failures are logged and read as
// an empty cell.
func (s *Store) Cell(layer int, c grid.Coords) tileset.TileRef {
	var row cellRow
	err := s.conn.Get(&row,
		"SELECT x, y, source_id, atlas_x, atlas_y, alternative FROM cells WHERE layer = ? AND x = ? AND y = ?",
		layer, c.X, c.Y,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return tileset.EmptyRef
	}
	if err != nil {
		s.log.Error("mapstore: read cell", "layer", layer, "cell", c.String(), "err", err)
		return tileset.EmptyRef
	}
	return row.ref()
}

func (s *Store) UsedCells(layer int) ([]grid.Coords, error) {
	var rows []cellRow
	err := s.conn.Select(&rows,
		"SELECT x, y, source_id, atlas_x, atlas_y, alternative FROM cells WHERE layer = ? ORDER BY x, y",
		layer,
	)
	if err != nil {
		return nil, fmt.Errorf("used cells: %w", err)
	}
	out := make([]grid.Coords, len(rows))
	for i, r := range rows {
		out[i] = grid.C(r.X, r.Y)
	}
	return out, nil
}

// Apply writes a batch of tiles and journals what the cells held before.
func (s *Store) Apply(layer int, tiles map[grid.Coords]tileset.TileRef, description string) (uuid.UUID, error) {
	if layer < 0 || layer >= s.LayerCount() {
		return uuid.Nil, fmt.Errorf("%w: %d", ErrInvalidLayer, layer)
	}
	id := uuid.New()

	tx, err := s.conn.Beginx()
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO operations (id, layer, description, created_at) VALUES (?, ?, ?, ?)",
		id.String(), layer, description, time.Now().UnixNano(),
	); err != nil {
		return uuid.Nil, fmt.Errorf("journal operation: %w", err)
	}

	cells := make([]grid.Coords, 0, len(tiles))
	for c := range tiles {
		cells = append(cells, c)
	}
	grid.SortCoords(cells)

	for _, c := range cells {
		prev := tileset.EmptyRef
		var row cellRow
		err := tx.Get(&row,
			"SELECT x, y, source_id, atlas_x, atlas_y, alternative FROM cells WHERE layer = ? AND x = ? AND y = ?",
			layer, c.X, c.Y,
		)
		switch {
		case err == nil:
			prev = row.ref()
		case !errors.Is(err, sql.ErrNoRows):
			return uuid.Nil, fmt.Errorf("read %v: %w", c, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO operation_cells (op_id, x, y, source_id, atlas_x, atlas_y, alternative) VALUES (?, ?, ?, ?, ?, ?, ?)",
			id.String(), c.X, c.Y, prev.SourceID, prev.Coords.X, prev.Coords.Y, prev.Alternative,
		); err != nil {
			return uuid.Nil, fmt.Errorf("journal %v: %w", c, err)
		}
		if err := writeCell(tx, layer, c, tiles[c]); err != nil {
			return uuid.Nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func writeCell(tx *sqlx.Tx, layer int, c grid.Coords, ref tileset.TileRef) error {
	if ref.IsEmpty() {
		if _, err := tx.Exec("DELETE FROM cells WHERE layer = ? AND x = ? AND y = ?", layer, c.X, c.Y); err != nil {
			return fmt.Errorf("clear %v: %w", c, err)
		}
		return nil
	}
	_, err := tx.Exec(
		"INSERT OR REPLACE INTO cells (layer, x, y, source_id, atlas_x, atlas_y, alternative) VALUES (?, ?, ?, ?, ?, ?, ?)",
		layer, c.X, c.Y, ref.SourceID, ref.Coords.X, ref.Coords.Y, ref.Alternative,
	)
	if err != nil {
		return fmt.Errorf("write %v: %w", c, err)
	}
	return nil
}

// Revert restores the cells an operation changed. Operations must be
// reverted newest first wherever they overlap.
func (s *Store) Revert(id uuid.UUID) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var op Operation
	err = tx.Get(&op, "SELECT id, layer, description, created_at, reverted, 0 AS cells FROM operations WHERE id = ?", id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrUnknownOperation, id)
	}
	if err != nil {
		return fmt.Errorf("read operation: %w", err)
	}
	if op.Reverted {
		return fmt.Errorf("%w: %s", ErrAlreadyReverted, id)
	}

	var later int
	if err := tx.Get(&later, `
		SELECT COUNT(*) FROM operation_cells c
		JOIN operations o ON o.id = c.op_id
		WHERE o.reverted = 0 AND o.layer = ?
			AND o.seq > (SELECT seq FROM operations WHERE id = ?)
			AND EXISTS (SELECT 1 FROM operation_cells p WHERE p.op_id = ? AND p.x = c.x AND p.y = c.y)`,
		op.Layer, id.String(), id.String(),
	); err != nil {
		return fmt.Errorf("check later operations: %w", err)
	}
	if later > 0 {
		return fmt.Errorf("%w: %s (%d cells changed since)", ErrSuperseded, id, later)
	}

	var rows []cellRow
	if err := tx.Select(&rows,
		"SELECT x, y, source_id, atlas_x, atlas_y, alternative FROM operation_cells WHERE op_id = ?",
		id.String(),
	); err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	for _, r := range rows {
		if err := writeCell(tx, op.Layer, grid.C(r.X, r.Y), r.ref()); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("UPDATE operations SET reverted = 1 WHERE id = ?", id.String()); err != nil {
		return fmt.Errorf("mark reverted: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Info("mapstore: reverted operation", "id", id.String(), "cells", len(rows))
	return nil
}

// Operations lists journaled operations, oldest first.
func (s *Store) Operations() ([]Operation, error) {
	var ops []Operation
	err := s.conn.Select(&ops, `
		SELECT o.id, o.layer, o.description, o.created_at, o.reverted,
			(SELECT COUNT(*) FROM operation_cells c WHERE c.op_id = o.id) AS cells
		FROM operations o ORDER BY o.seq`)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	return ops, nil
}

// Import copies every layer of a map into the store in one operation per
// layer.
func (s *Store) Import(m *tilemap.Map) error {
	if err := s.EnsureLayers(m.LayerCount()); err != nil {
		return err
	}
	for layer := 0; layer < m.LayerCount(); layer++ {
		tiles := make(map[grid.Coords]tileset.TileRef)
		for _, c := range m.UsedCells(layer) {
			tiles[c] = m.Cell(layer, c)
		}
		if len(tiles) == 0 {
			continue
		}
		if _, err := s.Apply(layer, tiles, "import"); err != nil {
			return fmt.Errorf("import layer %d: %w", layer, err)
		}
	}
	return nil
}

// Export reads the whole store into an in-memory map.
func (s *Store) Export() (*tilemap.Map, error) {
	m := tilemap.New(s.LayerCount())
	for layer := 0; layer < m.LayerCount(); layer++ {
		var rows []cellRow
		if err := s.conn.Select(&rows,
			"SELECT x, y, source_id, atlas_x, atlas_y, alternative FROM cells WHERE layer = ?",
			layer,
		); err != nil {
			return nil, fmt.Errorf("export layer %d: %w", layer, err)
		}
		for _, r := range rows {
			m.SetCell(layer, grid.C(r.X, r.Y), r.ref())
		}
	}
	return m, nil
}
