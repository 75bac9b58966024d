package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foodrescuehub/foodrescue/internal/storage"
)

// ClearPlatformData deletes all platform records in FK-safe order inside one
// transaction. Operator accounts and sessions are preserved.
func (s *Store) ClearPlatformData(ctx context.Context, keepCategories bool) (storage.ClearCounts, error) {
	if err := ctx.Err(); err != nil {
		return storage.ClearCounts{}, err
	}
	if err := s.ready(); err != nil {
		return storage.ClearCounts{}, err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.ClearCounts{}, fmt.Errorf("clear platform data: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var counts storage.ClearCounts
	steps := []struct {
		table string
		count *int
	}{
		{"notifications", &counts.Notifications},
		{"route_stop_donations", nil},
		{"route_stops", &counts.RouteStops},
		{"routes", &counts.Routes},
		{"donations", &counts.Donations},
		{"grocery_stores", &counts.GroceryStores},
		{"food_banks", &counts.FoodBanks},
		{"regions", &counts.Regions},
	}
	if !keepCategories {
		steps = append(steps, struct {
			table string
			count *int
		}{"food_categories", &counts.Categories})
	}

	for _, step := range steps {
		if err := clearTable(ctx, tx, step.table, step.count); err != nil {
			return storage.ClearCounts{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return storage.ClearCounts{}, fmt.Errorf("clear platform data: %w", err)
	}
	return counts, nil
}

func clearTable(ctx context.Context, tx *sql.Tx, table string, count *int) error {
	if count != nil {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(count); err != nil {
			return fmt.Errorf("count %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	return nil
}
