package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/foodrescuehub/foodrescue/internal/storage"
)

// UpsertCategory inserts a category or refreshes its attributes. It reports
// whether a new row was created.
func (s *Store) UpsertCategory(ctx context.Context, category storage.FoodCategory) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := s.ready(); err != nil {
		return false, err
	}
	if strings.TrimSpace(category.Name) == "" {
		return false, fmt.Errorf("category name is required")
	}

	var existing int
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM food_categories WHERE name = ?`,
		category.Name,
	).Scan(&existing)
	if err != nil {
		return false, fmt.Errorf("upsert category: %w", err)
	}

	if existing > 0 {
		_, err = s.sqlDB.ExecContext(
			ctx,
			`UPDATE food_categories
			    SET display_name = ?, requires_refrigeration = ?, shelf_life_days = ?
			  WHERE name = ?`,
			category.DisplayName,
			boolToInt(category.RequiresRefrigeration),
			category.ShelfLifeDays,
			category.Name,
		)
		if err != nil {
			return false, fmt.Errorf("upsert category: %w", err)
		}
		return false, nil
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO food_categories (name, display_name, requires_refrigeration, shelf_life_days)
		 VALUES (?, ?, ?, ?)`,
		category.Name,
		category.DisplayName,
		boolToInt(category.RequiresRefrigeration),
		category.ShelfLifeDays,
	)
	if err != nil {
		return false, fmt.Errorf("upsert category: %w", err)
	}
	return true, nil
}

// GetCategory returns one category by name.
func (s *Store) GetCategory(ctx context.Context, name string) (storage.FoodCategory, error) {
	if err := ctx.Err(); err != nil {
		return storage.FoodCategory{}, err
	}
	if err := s.ready(); err != nil {
		return storage.FoodCategory{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT name, display_name, requires_refrigeration, shelf_life_days
		   FROM food_categories
		  WHERE name = ?`,
		name,
	)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.FoodCategory{}, storage.ErrNotFound
		}
		return storage.FoodCategory{}, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]storage.FoodCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT name, display_name, requires_refrigeration, shelf_life_days
		   FROM food_categories
		  ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []storage.FoodCategory
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func scanCategory(row rowScanner) (storage.FoodCategory, error) {
	var category storage.FoodCategory
	var refrigeration int
	err := row.Scan(
		&category.Name,
		&category.DisplayName,
		&refrigeration,
		&category.ShelfLifeDays,
	)
	if err != nil {
		return storage.FoodCategory{}, err
	}
	category.RequiresRefrigeration = refrigeration != 0
	return category, nil
}
