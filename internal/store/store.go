package store

import (
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/intelligrit/room-index/internal/model"
)

// Store is an in-memory DuckDB view of one index, used for summaries.
type Store struct {
	DB *sql.DB
}

// DaySummary describes the free rooms of one day.
type DaySummary struct {
	Day         string
	FreeRooms   int
	FreeMinutes int
}

// BuildingSummary describes the rooms of one building.
type BuildingSummary struct {
	Building string
	Rooms    int
	Seats    int
}

// New opens an in-memory DuckDB database.
func New() (*Store, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}

	s := &Store{DB: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS buildings (
			id INTEGER NOT NULL,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id INTEGER NOT NULL,
			name TEXT NOT NULL,
			building INTEGER NOT NULL,
			capacity INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS days (
			day TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS free_spans (
			day TEXT NOT NULL,
			room_id INTEGER NOT NULL,
			from_min INTEGER NOT NULL,
			to_min INTEGER NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// LoadIndex replaces the database content with idx.
func (s *Store) LoadIndex(idx *model.Index) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, tbl := range []string{"buildings", "rooms", "days", "free_spans"} {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", tbl)); err != nil {
			return fmt.Errorf("clearing %s: %w", tbl, err)
		}
	}

	for id, b := range idx.Buildings {
		if _, err := tx.Exec("INSERT INTO buildings (id, name) VALUES (?, ?)", id, b.Name); err != nil {
			return fmt.Errorf("inserting building %d: %w", id, err)
		}
	}

	for id, r := range idx.Rooms {
		if _, err := tx.Exec("INSERT INTO rooms (id, name, building, capacity) VALUES (?, ?, ?, ?)",
			id, r.Name, r.Building, r.Capacity); err != nil {
			return fmt.Errorf("inserting room %d: %w", id, err)
		}
	}

	stmt, err := tx.Prepare("INSERT INTO free_spans (day, room_id, from_min, to_min) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for day, rooms := range idx.Available {
		if _, err := tx.Exec("INSERT INTO days (day) VALUES (?)", day); err != nil {
			return fmt.Errorf("inserting day %s: %w", day, err)
		}
		for id, spans := range rooms {
			for _, sp := range spans {
				if _, err := stmt.Exec(day, id, sp.Start(), sp.End()); err != nil {
					return fmt.Errorf("inserting span for room %d on %s: %w", id, day, err)
				}
			}
		}
	}

	return tx.Commit()
}

// DaySummaries returns per-day free room counts and free minutes, ordered by day.
func (s *Store) DaySummaries() ([]DaySummary, error) {
	rows, err := s.DB.Query(`
		SELECT d.day,
			CAST(COUNT(DISTINCT f.room_id) AS BIGINT),
			CAST(COALESCE(SUM(f.to_min - f.from_min), 0) AS BIGINT)
		FROM days d
		LEFT JOIN free_spans f ON f.day = d.day
		GROUP BY d.day
		ORDER BY d.day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DaySummary
	for rows.Next() {
		var ds DaySummary
		if err := rows.Scan(&ds.Day, &ds.FreeRooms, &ds.FreeMinutes); err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

// BuildingSummaries returns room counts and known seats per building.
// Rooms without a building are reported under an empty building name.
func (s *Store) BuildingSummaries() ([]BuildingSummary, error) {
	rows, err := s.DB.Query(`
		SELECT COALESCE(b.name, ''),
			CAST(COUNT(*) AS BIGINT),
			CAST(COALESCE(SUM(CASE WHEN r.capacity > 0 THEN r.capacity ELSE 0 END), 0) AS BIGINT)
		FROM rooms r
		LEFT JOIN buildings b ON b.id = r.building
		GROUP BY b.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BuildingSummary
	for rows.Next() {
		var bs BuildingSummary
		if err := rows.Scan(&bs.Building, &bs.Rooms, &bs.Seats); err != nil {
			return nil, err
		}
		out = append(out, bs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Building < out[j].Building })
	return out, nil
}
