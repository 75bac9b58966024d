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

// CreateFoodBank inserts one food bank record.
func (s *Store) CreateFoodBank(ctx context.Context, bank storage.FoodBank) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(bank.ID) == "" {
		return fmt.Errorf("food bank id is required")
	}
	if strings.TrimSpace(bank.RegionID) == "" {
		return fmt.Errorf("region id is required")
	}
	if strings.TrimSpace(bank.Name) == "" {
		return fmt.Errorf("food bank name is required")
	}
	now := time.Now().UTC()
	createdAt := bank.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := bank.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO food_banks (
		   id, region_id, name, contact_person, email, phone, address,
		   latitude, longitude, daily_need_pounds, storage_capacity_pounds,
		   can_self_pickup, open_time, close_time, operating_days, active,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bank.ID,
		bank.RegionID,
		bank.Name,
		bank.ContactPerson,
		bank.Email,
		bank.Phone,
		bank.Address,
		bank.Latitude,
		bank.Longitude,
		bank.DailyNeedPounds,
		bank.StorageCapacityPounds,
		boolToInt(bank.CanSelfPickup),
		bank.OpenTime,
		bank.CloseTime,
		bank.OperatingDays,
		boolToInt(bank.Active),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create food bank: %w", err)
	}
	return nil
}

// GetFoodBank returns one food bank by ID.
func (s *Store) GetFoodBank(ctx context.Context, id string) (storage.FoodBank, error) {
	if err := ctx.Err(); err != nil {
		return storage.FoodBank{}, err
	}
	if err := s.ready(); err != nil {
		return storage.FoodBank{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, selectFoodBank+` WHERE id = ?`, id)
	bank, err := scanFoodBank(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.FoodBank{}, storage.ErrNotFound
		}
		return storage.FoodBank{}, fmt.Errorf("get food bank: %w", err)
	}
	return bank, nil
}

// ListFoodBanks returns active food banks in a region ordered by name.
func (s *Store) ListFoodBanks(ctx context.Context, regionID string) ([]storage.FoodBank, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		selectFoodBank+` WHERE region_id = ? AND active = 1 ORDER BY name ASC`,
		regionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list food banks: %w", err)
	}
	defer rows.Close()

	var banks []storage.FoodBank
	for rows.Next() {
		bank, err := scanFoodBank(rows)
		if err != nil {
			return nil, fmt.Errorf("list food banks: %w", err)
		}
		banks = append(banks, bank)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list food banks: %w", err)
	}
	return banks, nil
}

// CountActiveFoodBanks counts active food banks across all regions.
func (s *Store) CountActiveFoodBanks(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.ready(); err != nil {
		return 0, err
	}
	var count int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM food_banks WHERE active = 1`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count food banks: %w", err)
	}
	return count, nil
}

// CreateGroceryStore inserts one grocery store record.
func (s *Store) CreateGroceryStore(ctx context.Context, grocery storage.GroceryStore) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(grocery.ID) == "" {
		return fmt.Errorf("grocery store id is required")
	}
	if strings.TrimSpace(grocery.RegionID) == "" {
		return fmt.Errorf("region id is required")
	}
	if strings.TrimSpace(grocery.Name) == "" {
		return fmt.Errorf("grocery store name is required")
	}
	now := time.Now().UTC()
	createdAt := grocery.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := grocery.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO grocery_stores (
		   id, region_id, name, contact_person, email, phone, address,
		   latitude, longitude, pickup_window_start, pickup_window_end,
		   pickup_days, active, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		grocery.ID,
		grocery.RegionID,
		grocery.Name,
		grocery.ContactPerson,
		grocery.Email,
		grocery.Phone,
		grocery.Address,
		grocery.Latitude,
		grocery.Longitude,
		grocery.PickupWindowStart,
		grocery.PickupWindowEnd,
		grocery.PickupDays,
		boolToInt(grocery.Active),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create grocery store: %w", err)
	}
	return nil
}

// GetGroceryStore returns one grocery store by ID.
func (s *Store) GetGroceryStore(ctx context.Context, id string) (storage.GroceryStore, error) {
	if err := ctx.Err(); err != nil {
		return storage.GroceryStore{}, err
	}
	if err := s.ready(); err != nil {
		return storage.GroceryStore{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, selectGroceryStore+` WHERE id = ?`, id)
	grocery, err := scanGroceryStore(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.GroceryStore{}, storage.ErrNotFound
		}
		return storage.GroceryStore{}, fmt.Errorf("get grocery store: %w", err)
	}
	return grocery, nil
}

// ListGroceryStores returns active grocery stores in a region ordered by name.
func (s *Store) ListGroceryStores(ctx context.Context, regionID string) ([]storage.GroceryStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		selectGroceryStore+` WHERE region_id = ? AND active = 1 ORDER BY name ASC`,
		regionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list grocery stores: %w", err)
	}
	defer rows.Close()

	var stores []storage.GroceryStore
	for rows.Next() {
		grocery, err := scanGroceryStore(rows)
		if err != nil {
			return nil, fmt.Errorf("list grocery stores: %w", err)
		}
		stores = append(stores, grocery)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list grocery stores: %w", err)
	}
	return stores, nil
}

// CountActiveGroceryStores counts active grocery stores across all regions.
func (s *Store) CountActiveGroceryStores(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.ready(); err != nil {
		return 0, err
	}
	var count int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM grocery_stores WHERE active = 1`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count grocery stores: %w", err)
	}
	return count, nil
}

const selectFoodBank = `SELECT id, region_id, name, contact_person, email, phone, address,
       latitude, longitude, daily_need_pounds, storage_capacity_pounds,
       can_self_pickup, open_time, close_time, operating_days, active,
       created_at, updated_at
  FROM food_banks`

const selectGroceryStore = `SELECT id, region_id, name, contact_person, email, phone, address,
       latitude, longitude, pickup_window_start, pickup_window_end,
       pickup_days, active, created_at, updated_at
  FROM grocery_stores`

func scanFoodBank(row rowScanner) (storage.FoodBank, error) {
	var bank storage.FoodBank
	var canSelfPickup, active int
	var createdAt, updatedAt int64
	err := row.Scan(
		&bank.ID,
		&bank.RegionID,
		&bank.Name,
		&bank.ContactPerson,
		&bank.Email,
		&bank.Phone,
		&bank.Address,
		&bank.Latitude,
		&bank.Longitude,
		&bank.DailyNeedPounds,
		&bank.StorageCapacityPounds,
		&canSelfPickup,
		&bank.OpenTime,
		&bank.CloseTime,
		&bank.OperatingDays,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return storage.FoodBank{}, err
	}
	bank.CanSelfPickup = canSelfPickup != 0
	bank.Active = active != 0
	bank.CreatedAt = fromMillis(createdAt)
	bank.UpdatedAt = fromMillis(updatedAt)
	return bank, nil
}

func scanGroceryStore(row rowScanner) (storage.GroceryStore, error) {
	var grocery storage.GroceryStore
	var active int
	var createdAt, updatedAt int64
	err := row.Scan(
		&grocery.ID,
		&grocery.RegionID,
		&grocery.Name,
		&grocery.ContactPerson,
		&grocery.Email,
		&grocery.Phone,
		&grocery.Address,
		&grocery.Latitude,
		&grocery.Longitude,
		&grocery.PickupWindowStart,
		&grocery.PickupWindowEnd,
		&grocery.PickupDays,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return storage.GroceryStore{}, err
	}
	grocery.Active = active != 0
	grocery.CreatedAt = fromMillis(createdAt)
	grocery.UpdatedAt = fromMillis(updatedAt)
	return grocery, nil
}
