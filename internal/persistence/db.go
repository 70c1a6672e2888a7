// Package persistence provides SQLite-based grove state storage. The stored
// save timestamp is what drives offline catch-up on the next start.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/grove/internal/engine"
	"github.com/talgya/grove/internal/grove"
	"github.com/talgya/grove/internal/species"
	"github.com/talgya/grove/internal/world"
)

// DB wraps a SQLite connection for grove state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trees (
		id TEXT PRIMARY KEY,
		species TEXT NOT NULL,
		pos_x INTEGER NOT NULL,
		pos_z INTEGER NOT NULL,
		stage INTEGER NOT NULL,
		progress REAL NOT NULL,
		watered INTEGER NOT NULL,
		fertilized INTEGER NOT NULL,
		pruned INTEGER NOT NULL,
		total_growth_time REAL NOT NULL,
		has_harvest INTEGER NOT NULL,
		cooldown_elapsed REAL NOT NULL,
		cooldown_total REAL NOT NULL,
		ready INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS grove_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type treeRow struct {
	ID              string  `db:"id"`
	Species         string  `db:"species"`
	PosX            int     `db:"pos_x"`
	PosZ            int     `db:"pos_z"`
	Stage           int     `db:"stage"`
	Progress        float64 `db:"progress"`
	Watered         int     `db:"watered"`
	Fertilized      int     `db:"fertilized"`
	Pruned          int     `db:"pruned"`
	TotalGrowthTime float64 `db:"total_growth_time"`
	HasHarvest      int     `db:"has_harvest"`
	CooldownElapsed float64 `db:"cooldown_elapsed"`
	CooldownTotal   float64 `db:"cooldown_total"`
	Ready           int     `db:"ready"`
}

// SaveTrees writes the whole population to the database (full replace).
func (db *DB) SaveTrees(trees []*grove.Tree) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM trees"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO trees
		(id, species, pos_x, pos_z, stage, progress, watered, fertilized, pruned,
		 total_growth_time, has_harvest, cooldown_elapsed, cooldown_total, ready)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range trees {
		row := treeRow{
			ID:              t.ID.String(),
			Species:         string(t.Species),
			PosX:            t.Pos.X,
			PosZ:            t.Pos.Z,
			Stage:           int(t.Stage),
			Progress:        t.Progress,
			Watered:         boolInt(t.Watered),
			Fertilized:      boolInt(t.Fertilized),
			Pruned:          boolInt(t.Pruned),
			TotalGrowthTime: t.TotalGrowthTime,
		}
		if t.Harvest != nil {
			row.HasHarvest = 1
			row.CooldownElapsed = t.Harvest.CooldownElapsed
			row.CooldownTotal = t.Harvest.CooldownTotal
			row.Ready = boolInt(t.Harvest.Ready)
		}
		_, err := stmt.Exec(
			row.ID, row.Species, row.PosX, row.PosZ, row.Stage, row.Progress,
			row.Watered, row.Fertilized, row.Pruned, row.TotalGrowthTime,
			row.HasHarvest, row.CooldownElapsed, row.CooldownTotal, row.Ready,
		)
		if err != nil {
			return fmt.Errorf("insert tree %s: %w", row.ID, err)
		}
	}

	return tx.Commit()
}

// LoadTrees reads the saved population. The harvest facet's stored resource
// list is not persisted — it is a verbatim species snapshot, re-derived from
// the catalog on attach.
func (db *DB) LoadTrees() ([]*grove.Tree, error) {
	var rows []treeRow
	if err := db.conn.Select(&rows, "SELECT * FROM trees"); err != nil {
		return nil, fmt.Errorf("load trees: %w", err)
	}

	trees := make([]*grove.Tree, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			slog.Warn("skipping tree with bad id", "id", row.ID, "error", err)
			continue
		}
		t := &grove.Tree{
			ID:              id,
			Species:         species.ID(row.Species),
			Pos:             world.GridPos{X: row.PosX, Z: row.PosZ},
			Stage:           grove.Stage(row.Stage),
			Progress:        row.Progress,
			Watered:         row.Watered != 0,
			Fertilized:      row.Fertilized != 0,
			Pruned:          row.Pruned != 0,
			TotalGrowthTime: row.TotalGrowthTime,
		}
		if row.HasHarvest != 0 {
			t.Harvest = &grove.Harvestable{
				CooldownElapsed: row.CooldownElapsed,
				CooldownTotal:   row.CooldownTotal,
				Ready:           row.Ready != 0,
			}
		}
		trees = append(trees, t)
	}
	return trees, nil
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
			e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecentEvents returns the most recent N events.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// SaveMeta stores a key-value pair in grove metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO grove_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM grove_meta WHERE key = ?", key)
	return value, err
}

// HasState reports whether a saved population exists.
func (db *DB) HasState() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM trees"); err != nil {
		return false
	}
	return count > 0
}

// SaveState performs a full save of the simulation and stamps the save time.
func (db *DB) SaveState(sim *engine.Simulation) error {
	trees := sim.TreeList()
	slog.Info("saving grove state", "trees", len(trees))

	if err := db.SaveTrees(trees); err != nil {
		return fmt.Errorf("save trees: %w", err)
	}
	if err := db.SaveEvents(sim.DrainEvents()); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta("last_tick", fmt.Sprintf("%d", sim.CurrentTick())); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta("saved_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}

// ElapsedSinceSave returns wall seconds since the last save, 0 when no save
// timestamp exists or it cannot be parsed.
func (db *DB) ElapsedSinceSave() float64 {
	raw, err := db.GetMeta("saved_at")
	if err != nil {
		return 0
	}
	savedAt, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		slog.Warn("bad saved_at timestamp", "value", raw, "error", err)
		return 0
	}
	elapsed := time.Since(savedAt).Seconds()
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
