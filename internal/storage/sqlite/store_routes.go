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

// CreateRoute inserts one route record.
func (s *Store) CreateRoute(ctx context.Context, route storage.Route) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(route.ID) == "" {
		return fmt.Errorf("route id is required")
	}
	if strings.TrimSpace(route.RegionID) == "" {
		return fmt.Errorf("region id is required")
	}
	status := route.Status
	if status == "" {
		status = storage.RoutePlanned
	}
	now := time.Now().UTC()
	createdAt := route.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := route.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO routes (
		   id, region_id, scheduled_date, start_time, end_time,
		   driver_team, truck_id, total_distance_miles,
		   estimated_duration_minutes, status, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		route.ID,
		route.RegionID,
		toMillis(route.ScheduledDate),
		route.StartTime,
		route.EndTime,
		route.DriverTeam,
		route.TruckID,
		route.TotalDistanceMiles,
		route.EstimatedDurationMinutes,
		string(status),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create route: %w", err)
	}
	return nil
}

// GetRoute returns one route by ID.
func (s *Store) GetRoute(ctx context.Context, id string) (storage.Route, error) {
	if err := ctx.Err(); err != nil {
		return storage.Route{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Route{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, selectRoute+` WHERE id = ?`, id)
	route, err := scanRoute(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Route{}, storage.ErrNotFound
		}
		return storage.Route{}, fmt.Errorf("get route: %w", err)
	}
	return route, nil
}

// ListRoutes returns a region's routes scheduled on or after from, optionally
// narrowed to a status set, soonest first.
func (s *Store) ListRoutes(ctx context.Context, regionID string, from time.Time, statuses []storage.RouteStatus) ([]storage.Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	query := selectRoute + ` WHERE region_id = ? AND scheduled_date >= ?`
	args := []any{regionID, toMillis(from)}
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += ` AND status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY scheduled_date ASC, id ASC`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	var routes []storage.Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("list routes: %w", err)
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

// UpdateRouteStatus moves a route through execution.
func (s *Store) UpdateRouteStatus(ctx context.Context, id string, status storage.RouteStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE routes SET status = ?, updated_at = ? WHERE id = ?`,
		string(status),
		toMillis(time.Now().UTC()),
		id,
	)
	if err != nil {
		return fmt.Errorf("update route status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update route status: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateRouteStop inserts one stop and its donation links.
func (s *Store) CreateRouteStop(ctx context.Context, stop storage.RouteStop) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(stop.ID) == "" {
		return fmt.Errorf("stop id is required")
	}
	if strings.TrimSpace(stop.RouteID) == "" {
		return fmt.Errorf("route id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create route stop: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO route_stops (
		   id, route_id, stop_order, stop_type, store_id, food_bank_id,
		   estimated_arrival_at, actual_arrival_at,
		   estimated_duration_minutes, confirmed, confirmed_at,
		   confirmed_by_email, notes
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stop.ID,
		stop.RouteID,
		stop.StopOrder,
		string(stop.Type),
		stop.StoreID,
		stop.FoodBankID,
		toMillis(stop.EstimatedArrivalAt),
		toNullMillis(stop.ActualArrivalAt),
		stop.EstimatedDurationMinutes,
		boolToInt(stop.Confirmed),
		toNullMillis(stop.ConfirmedAt),
		stop.ConfirmedByEmail,
		stop.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create route stop: %w", err)
	}
	for _, donationID := range stop.DonationIDs {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO route_stop_donations (stop_id, donation_id) VALUES (?, ?)`,
			stop.ID,
			donationID,
		)
		if err != nil {
			return fmt.Errorf("link donation %s: %w", donationID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create route stop: %w", err)
	}
	return nil
}

// GetRouteStop returns one stop by ID with its donation links.
func (s *Store) GetRouteStop(ctx context.Context, id string) (storage.RouteStop, error) {
	if err := ctx.Err(); err != nil {
		return storage.RouteStop{}, err
	}
	if err := s.ready(); err != nil {
		return storage.RouteStop{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, selectRouteStop+` WHERE id = ?`, id)
	stop, err := scanRouteStop(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.RouteStop{}, storage.ErrNotFound
		}
		return storage.RouteStop{}, fmt.Errorf("get route stop: %w", err)
	}
	if err := s.attachDonationIDs(ctx, &stop); err != nil {
		return storage.RouteStop{}, err
	}
	return stop, nil
}

// ListRouteStops returns a route's stops in visit order.
func (s *Store) ListRouteStops(ctx context.Context, routeID string) ([]storage.RouteStop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		selectRouteStop+` WHERE route_id = ? ORDER BY stop_order ASC`,
		routeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list route stops: %w", err)
	}
	defer rows.Close()

	var stops []storage.RouteStop
	for rows.Next() {
		stop, err := scanRouteStop(rows)
		if err != nil {
			return nil, fmt.Errorf("list route stops: %w", err)
		}
		stops = append(stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list route stops: %w", err)
	}
	for i := range stops {
		if err := s.attachDonationIDs(ctx, &stops[i]); err != nil {
			return nil, err
		}
	}
	return stops, nil
}

// ConfirmRouteStop marks a stop confirmed by the given responder.
func (s *Store) ConfirmRouteStop(ctx context.Context, id string, confirmedAt time.Time, byEmail, notes string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE route_stops
		    SET confirmed = 1, confirmed_at = ?, confirmed_by_email = ?,
		        notes = CASE WHEN ? = '' THEN notes ELSE ? END
		  WHERE id = ?`,
		toMillis(confirmedAt),
		byEmail,
		notes,
		notes,
		id,
	)
	if err != nil {
		return fmt.Errorf("confirm route stop: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("confirm route stop: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetRouteStopNotes replaces a stop's notes.
func (s *Store) SetRouteStopNotes(ctx context.Context, id string, notes string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE route_stops SET notes = ? WHERE id = ?`,
		notes,
		id,
	)
	if err != nil {
		return fmt.Errorf("set route stop notes: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set route stop notes: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// FindStopForDonation returns the pickup stop a donation is linked to.
func (s *Store) FindStopForDonation(ctx context.Context, donationID string) (storage.RouteStop, error) {
	if err := ctx.Err(); err != nil {
		return storage.RouteStop{}, err
	}
	if err := s.ready(); err != nil {
		return storage.RouteStop{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		selectRouteStop+`
		 WHERE id IN (SELECT stop_id FROM route_stop_donations WHERE donation_id = ?)
		   AND stop_type = ?
		 ORDER BY estimated_arrival_at DESC
		 LIMIT 1`,
		donationID,
		string(storage.StopPickup),
	)
	stop, err := scanRouteStop(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.RouteStop{}, storage.ErrNotFound
		}
		return storage.RouteStop{}, fmt.Errorf("find stop for donation: %w", err)
	}
	if err := s.attachDonationIDs(ctx, &stop); err != nil {
		return storage.RouteStop{}, err
	}
	return stop, nil
}

func (s *Store) attachDonationIDs(ctx context.Context, stop *storage.RouteStop) error {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT donation_id FROM route_stop_donations WHERE stop_id = ? ORDER BY donation_id ASC`,
		stop.ID,
	)
	if err != nil {
		return fmt.Errorf("list stop donations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var donationID string
		if err := rows.Scan(&donationID); err != nil {
			return fmt.Errorf("list stop donations: %w", err)
		}
		stop.DonationIDs = append(stop.DonationIDs, donationID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list stop donations: %w", err)
	}
	return nil
}

const selectRoute = `SELECT id, region_id, scheduled_date, start_time, end_time,
       driver_team, truck_id, total_distance_miles,
       estimated_duration_minutes, status, created_at, updated_at
  FROM routes`

const selectRouteStop = `SELECT id, route_id, stop_order, stop_type, store_id, food_bank_id,
       estimated_arrival_at, actual_arrival_at,
       estimated_duration_minutes, confirmed, confirmed_at,
       confirmed_by_email, notes
  FROM route_stops`

func scanRoute(row rowScanner) (storage.Route, error) {
	var route storage.Route
	var scheduledDate, createdAt, updatedAt int64
	var status string
	err := row.Scan(
		&route.ID,
		&route.RegionID,
		&scheduledDate,
		&route.StartTime,
		&route.EndTime,
		&route.DriverTeam,
		&route.TruckID,
		&route.TotalDistanceMiles,
		&route.EstimatedDurationMinutes,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return storage.Route{}, err
	}
	route.ScheduledDate = fromMillis(scheduledDate)
	route.Status = storage.RouteStatus(status)
	route.CreatedAt = fromMillis(createdAt)
	route.UpdatedAt = fromMillis(updatedAt)
	return route, nil
}

func scanRouteStop(row rowScanner) (storage.RouteStop, error) {
	var stop storage.RouteStop
	var stopType string
	var estimatedArrival int64
	var actualArrival, confirmedAt sql.NullInt64
	var confirmed int
	err := row.Scan(
		&stop.ID,
		&stop.RouteID,
		&stop.StopOrder,
		&stopType,
		&stop.StoreID,
		&stop.FoodBankID,
		&estimatedArrival,
		&actualArrival,
		&stop.EstimatedDurationMinutes,
		&confirmed,
		&confirmedAt,
		&stop.ConfirmedByEmail,
		&stop.Notes,
	)
	if err != nil {
		return storage.RouteStop{}, err
	}
	stop.Type = storage.StopType(stopType)
	stop.EstimatedArrivalAt = fromMillis(estimatedArrival)
	stop.ActualArrivalAt = fromNullMillis(actualArrival)
	stop.Confirmed = confirmed != 0
	stop.ConfirmedAt = fromNullMillis(confirmedAt)
	return stop, nil
}
