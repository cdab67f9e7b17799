package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"garage-spot-service/internal/domain"
	"garage-spot-service/internal/platform/obs"
	"strings"
)

var ErrUnknownTruck = errors.New("unknown truck")

// SQL-backed implementation of the TruckRepository port.
type SQLTruckRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLTruckRepository(db *sql.DB, dialect Dialect) *SQLTruckRepository {
	return &SQLTruckRepository{DB: db, Dialect: dialect}
}

// Return all trucks stored in the database.
func (s *SQLTruckRepository) ListTrucks(ctx context.Context) (_ []*domain.Truck, err error) {
	defer obs.Time(ctx, "trucks.ListTrucks")(&err)

	if s.DB == nil {
		return nil, errors.New("sql truck repository: DB is nil")
	}

	query := `
	SELECT
		truck_id,
		name,
		color,
		serial,
		spot,
		length,
		full_length
	FROM trucks
	ORDER BY truck_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trucks: query trucks table: %w", err)
	}
	defer rows.Close()

	trucks := make([]*domain.Truck, 0, 64)
	for rows.Next() {
		var (
			t          domain.Truck
			spot       sql.NullString
			fullLength sql.NullFloat64
		)
		if err := rows.Scan(&t.TruckID, &t.Name, &t.Color, &t.Serial, &spot, &t.Length, &fullLength); err != nil {
			return nil, fmt.Errorf("list trucks: scan row: %w", err)
		}
		if spot.Valid {
			t.Spot = &spot.String
		}
		if fullLength.Valid {
			t.FullLength = &fullLength.Float64
		}
		trucks = append(trucks, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trucks: row iteration: %w", err)
	}

	return trucks, nil
}

// Persist a batch of spot moves in one transaction. An unknown truck id
// rolls back the whole batch.
func (s *SQLTruckRepository) UpdateSpots(ctx context.Context, changes []domain.SpotChange) (err error) {
	defer obs.Time(ctx, "trucks.UpdateSpots")(&err)

	if s.DB == nil {
		return errors.New("sql truck repository: DB is nil")
	}

	if len(changes) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update spots: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.rebind(`
	UPDATE trucks
	SET spot = ?
	WHERE truck_id = ?;
	`))
	if err != nil {
		return fmt.Errorf("update spots: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, c := range changes {
		id := strings.TrimSpace(c.TruckID)
		if id == "" {
			return errors.New("update spots: empty truck id")
		}

		res, err := stmt.ExecContext(ctx, c.NewSpot, id)
		if err != nil {
			return fmt.Errorf("update spots truck_id=%s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update spots truck_id=%s: rows affected: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("update spots truck_id=%s: %w", id, ErrUnknownTruck)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update spots commit: %w", err)
	}

	return nil
}
