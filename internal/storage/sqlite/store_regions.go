package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodrescuehub/foodrescue/internal/storage"
)

// CreateRegion inserts one region record.
func (s *Store) CreateRegion(ctx context.Context, region storage.Region) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(region.ID) == "" {
		return fmt.Errorf("region id is required")
	}
	if strings.TrimSpace(region.Name) == "" {
		return fmt.Errorf("region name is required")
	}
	now := time.Now().UTC()
	createdAt := region.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := region.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO regions (
		   id, name, center_latitude, center_longitude,
		   radius_miles, truck_capacity_pounds, active,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		region.ID,
		region.Name,
		region.CenterLatitude,
		region.CenterLongitude,
		region.RadiusMiles,
		region.TruckCapacityPounds,
		boolToInt(region.Active),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create region: %w", err)
	}
	return nil
}

// GetRegion returns one region by ID.
func (s *Store) GetRegion(ctx context.Context, id string) (storage.Region, error) {
	if err := ctx.Err(); err != nil {
		return storage.Region{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Region{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, center_latitude, center_longitude,
		        radius_miles, truck_capacity_pounds, active,
		        created_at, updated_at
		   FROM regions
		  WHERE id = ?`,
		id,
	)
	region, err := scanRegion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Region{}, storage.ErrNotFound
		}
		return storage.Region{}, fmt.Errorf("get region: %w", err)
	}
	return region, nil
}

// ListActiveRegions returns active regions ordered by name.
func (s *Store) ListActiveRegions(ctx context.Context) ([]storage.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, center_latitude, center_longitude,
		        radius_miles, truck_capacity_pounds, active,
		        created_at, updated_at
		   FROM regions
		  WHERE active = 1
		  ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	var regions []storage.Region
	for rows.Next() {
		region, err := scanRegion(rows)
		if err != nil {
			return nil, fmt.Errorf("list regions: %w", err)
		}
		regions = append(regions, region)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return regions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegion(row rowScanner) (storage.Region, error) {
	var region storage.Region
	var active int
	var createdAt, updatedAt int64
	err := row.Scan(
		&region.ID,
		&region.Name,
		&region.CenterLatitude,
		&region.CenterLongitude,
		&region.RadiusMiles,
		&region.TruckCapacityPounds,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return storage.Region{}, err
	}
	region.Active = active != 0
	region.CreatedAt = fromMillis(createdAt)
	region.UpdatedAt = fromMillis(updatedAt)
	return region, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
