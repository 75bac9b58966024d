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

// CreateDonation inserts one donation record.
func (s *Store) CreateDonation(ctx context.Context, donation storage.Donation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(donation.ID) == "" {
		return fmt.Errorf("donation id is required")
	}
	if strings.TrimSpace(donation.StoreID) == "" {
		return fmt.Errorf("store id is required")
	}
	if donation.QuantityPounds <= 0 {
		return fmt.Errorf("quantity must be greater than zero")
	}
	status := donation.Status
	if status == "" {
		status = storage.DonationPending
	}
	now := time.Now().UTC()
	createdAt := donation.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := donation.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO donations (
		   id, store_id, category, description, quantity_pounds,
		   expiration_date, sell_by_date, proposed_pickup_at,
		   confirmed_pickup_at, actual_pickup_at, status,
		   from_email, email_content, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		donation.ID,
		donation.StoreID,
		donation.Category,
		donation.Description,
		donation.QuantityPounds,
		toNullMillis(donation.ExpirationDate),
		toNullMillis(donation.SellByDate),
		toNullMillis(donation.ProposedPickupAt),
		toNullMillis(donation.ConfirmedPickupAt),
		toNullMillis(donation.ActualPickupAt),
		string(status),
		boolToInt(donation.FromEmail),
		donation.EmailContent,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create donation: %w", err)
	}
	return nil
}

// GetDonation returns one donation by ID.
func (s *Store) GetDonation(ctx context.Context, id string) (storage.Donation, error) {
	if err := ctx.Err(); err != nil {
		return storage.Donation{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Donation{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, selectDonation+` WHERE id = ?`, id)
	donation, err := scanDonation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Donation{}, storage.ErrNotFound
		}
		return storage.Donation{}, fmt.Errorf("get donation: %w", err)
	}
	return donation, nil
}

// ListDonations returns donations matching the filter, newest first.
func (s *Store) ListDonations(ctx context.Context, filter storage.DonationFilter) ([]storage.Donation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	query := selectDonation
	var clauses []string
	var args []any

	if filter.RegionID != "" {
		clauses = append(clauses, `store_id IN (SELECT id FROM grocery_stores WHERE region_id = ?)`)
		args = append(args, filter.RegionID)
	}
	if filter.StoreID != "" {
		clauses = append(clauses, `store_id = ?`)
		args = append(args, filter.StoreID)
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		clauses = append(clauses, `status IN (`+strings.Join(placeholders, ", ")+`)`)
	}
	if !filter.CreatedAfter.IsZero() {
		clauses = append(clauses, `created_at >= ?`)
		args = append(args, toMillis(filter.CreatedAfter))
	}
	if filter.FromEmail != nil {
		clauses = append(clauses, `from_email = ?`)
		args = append(args, boolToInt(*filter.FromEmail))
	}
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	var donations []storage.Donation
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("list donations: %w", err)
		}
		donations = append(donations, donation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return donations, nil
}

// UpdateDonationStatus moves a donation through its lifecycle.
func (s *Store) UpdateDonationStatus(ctx context.Context, id string, status storage.DonationStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE donations SET status = ?, updated_at = ? WHERE id = ?`,
		string(status),
		toMillis(time.Now().UTC()),
		id,
	)
	if err != nil {
		return fmt.Errorf("update donation status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update donation status: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpdateDonationSchedule sets a donation's status and confirmed pickup time in
// one write.
func (s *Store) UpdateDonationSchedule(ctx context.Context, id string, status storage.DonationStatus, confirmedPickupAt *time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE donations SET status = ?, confirmed_pickup_at = ?, updated_at = ? WHERE id = ?`,
		string(status),
		toNullMillis(confirmedPickupAt),
		toMillis(time.Now().UTC()),
		id,
	)
	if err != nil {
		return fmt.Errorf("update donation schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update donation schedule: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// RegionAnalytics aggregates donation and route activity for a region within
// the half-open interval [start, end).
func (s *Store) RegionAnalytics(ctx context.Context, regionID string, start, end time.Time) (storage.RegionAnalytics, error) {
	if err := ctx.Err(); err != nil {
		return storage.RegionAnalytics{}, err
	}
	if err := s.ready(); err != nil {
		return storage.RegionAnalytics{}, err
	}

	var analytics storage.RegionAnalytics
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*), COALESCE(SUM(quantity_pounds), 0)
		   FROM donations
		  WHERE store_id IN (SELECT id FROM grocery_stores WHERE region_id = ?)
		    AND created_at >= ? AND created_at < ?`,
		regionID,
		toMillis(start),
		toMillis(end),
	).Scan(&analytics.DonationCount, &analytics.TotalPounds)
	if err != nil {
		return storage.RegionAnalytics{}, fmt.Errorf("region analytics: %w", err)
	}

	err = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*)
		   FROM routes
		  WHERE region_id = ? AND status = ?
		    AND scheduled_date >= ? AND scheduled_date < ?`,
		regionID,
		string(storage.RouteCompleted),
		toMillis(start),
		toMillis(end),
	).Scan(&analytics.CompletedRoutes)
	if err != nil {
		return storage.RegionAnalytics{}, fmt.Errorf("region analytics: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT category, COALESCE(SUM(quantity_pounds), 0), COUNT(*)
		   FROM donations
		  WHERE store_id IN (SELECT id FROM grocery_stores WHERE region_id = ?)
		    AND created_at >= ? AND created_at < ?
		  GROUP BY category
		  ORDER BY SUM(quantity_pounds) DESC`,
		regionID,
		toMillis(start),
		toMillis(end),
	)
	if err != nil {
		return storage.RegionAnalytics{}, fmt.Errorf("region analytics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var weight storage.CategoryWeight
		if err := rows.Scan(&weight.Category, &weight.TotalPounds, &weight.Count); err != nil {
			return storage.RegionAnalytics{}, fmt.Errorf("region analytics: %w", err)
		}
		analytics.CategoryBreakdown = append(analytics.CategoryBreakdown, weight)
	}
	if err := rows.Err(); err != nil {
		return storage.RegionAnalytics{}, fmt.Errorf("region analytics: %w", err)
	}
	return analytics, nil
}

const selectDonation = `SELECT id, store_id, category, description, quantity_pounds,
       expiration_date, sell_by_date, proposed_pickup_at,
       confirmed_pickup_at, actual_pickup_at, status,
       from_email, email_content, created_at, updated_at
  FROM donations`

func scanDonation(row rowScanner) (storage.Donation, error) {
	var donation storage.Donation
	var expiration, sellBy, proposed, confirmed, actual sql.NullInt64
	var status string
	var fromEmail int
	var createdAt, updatedAt int64
	err := row.Scan(
		&donation.ID,
		&donation.StoreID,
		&donation.Category,
		&donation.Description,
		&donation.QuantityPounds,
		&expiration,
		&sellBy,
		&proposed,
		&confirmed,
		&actual,
		&status,
		&fromEmail,
		&donation.EmailContent,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return storage.Donation{}, err
	}
	donation.ExpirationDate = fromNullMillis(expiration)
	donation.SellByDate = fromNullMillis(sellBy)
	donation.ProposedPickupAt = fromNullMillis(proposed)
	donation.ConfirmedPickupAt = fromNullMillis(confirmed)
	donation.ActualPickupAt = fromNullMillis(actual)
	donation.Status = storage.DonationStatus(status)
	donation.FromEmail = fromEmail != 0
	donation.CreatedAt = fromMillis(createdAt)
	donation.UpdatedAt = fromMillis(updatedAt)
	return donation, nil
}
