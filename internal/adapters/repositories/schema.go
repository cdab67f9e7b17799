package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"garage-spot-service/internal/domain"
	"os"
	"strconv"
	"strings"
)

// Dialect selects the placeholder style of the SQL driver in use.
type Dialect int

const (
	// SQLite placeholders: ?
	SQLite Dialect = iota
	// Postgres placeholders: $1, $2, ...
	Postgres
)

// ParseDialect maps a DB_DRIVER value onto a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		return SQLite, nil
	case "pgx", "postgres":
		return Postgres, nil
	default:
		return 0, fmt.Errorf("parse dialect: unknown driver %q", driver)
	}
}

// rebind rewrites ? placeholders for the dialect.
func (d Dialect) rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Initialize the trucks schema. The DDL is valid for both SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTrucksQuery := `
	CREATE TABLE IF NOT EXISTS trucks (
		truck_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		serial TEXT NOT NULL DEFAULT '',
		spot TEXT NULL,
		length DOUBLE PRECISION NOT NULL,
		full_length DOUBLE PRECISION NULL
	);
	`

	createSpotIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trucks_spot
	ON trucks(spot);
	`

	statements := []string{
		createTrucksQuery,
		createSpotIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type TruckSeed struct {
	TruckID    string   `json:"truck_id"`
	Name       string   `json:"name"`
	Color      string   `json:"color"`
	Serial     string   `json:"serial"`
	Spot       *string  `json:"spot"`
	Length     float64  `json:"length"`
	FullLength *float64 `json:"full_length"`
}

func (s TruckSeed) truck() *domain.Truck {
	return &domain.Truck{
		TruckID:    strings.TrimSpace(s.TruckID),
		Name:       s.Name,
		Color:      s.Color,
		Serial:     s.Serial,
		Spot:       s.Spot,
		Length:     s.Length,
		FullLength: s.FullLength,
	}
}

// ReadSeed parses and validates a JSON array of trucks.
func ReadSeed(jsonPath string) ([]*domain.Truck, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed trucks: read %q: %w", jsonPath, err)
	}

	var data []TruckSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed trucks: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(data))
	trucks := make([]*domain.Truck, 0, len(data))
	for i, item := range data {
		t := item.truck()
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("seed trucks: item at index %d: %w", i+1, err)
		}
		if _, dup := seen[t.TruckID]; dup {
			return nil, fmt.Errorf("seed trucks: duplicate truck_id %q at index %d", t.TruckID, i+1)
		}
		seen[t.TruckID] = struct{}{}
		trucks = append(trucks, t)
	}
	return trucks, nil
}

// Populate the trucks table from a JSON file. Existing rows are overwritten.
func SeedFromJSON(ctx context.Context, db *sql.DB, dialect Dialect, jsonPath string) (int, error) {
	trucks, err := ReadSeed(jsonPath)
	if err != nil {
		return 0, err
	}
	if err := upsertTrucks(ctx, db, dialect, trucks); err != nil {
		return 0, err
	}
	return len(trucks), nil
}

// SeedIfEmpty seeds only a fresh trucks table, so restarts keep committed spots.
func SeedIfEmpty(ctx context.Context, db *sql.DB, dialect Dialect, jsonPath string) (int, error) {
	if db == nil {
		return 0, errors.New("seed trucks: DB is nil")
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trucks;").Scan(&count); err != nil {
		return 0, fmt.Errorf("seed trucks: count rows: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	return SeedFromJSON(ctx, db, dialect, jsonPath)
}

func upsertTrucks(ctx context.Context, db *sql.DB, dialect Dialect, trucks []*domain.Truck) error {
	if db == nil {
		return errors.New("seed trucks: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed trucks: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := dialect.rebind(`
	INSERT INTO trucks (
		truck_id,
		name,
		color,
		serial,
		spot,
		length,
		full_length
	)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (truck_id) DO UPDATE
	SET name = EXCLUDED.name,
		color = EXCLUDED.color,
		serial = EXCLUDED.serial,
		spot = EXCLUDED.spot,
		length = EXCLUDED.length,
		full_length = EXCLUDED.full_length;
	`)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed trucks: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trucks {
		if _, err := stmt.ExecContext(ctx, t.TruckID, t.Name, t.Color, t.Serial, t.Spot, t.Length, t.FullLength); err != nil {
			return fmt.Errorf("seed trucks: insert truck_id=%s: %w", t.TruckID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed trucks: commit tx: %w", err)
	}

	return nil
}
