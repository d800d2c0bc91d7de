package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/haulplan/eld-backend/internal/models"
)

// TripRepository handles database operations for the trips table
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create stores a planned trip
func (r *TripRepository) Create(trip *models.Trip) error {
	query := `
		INSERT INTO trips (
			id, driver_name, carrier_name, main_office, vehicle_number,
			current_lat, current_lon, pickup_lat, pickup_lon, dropoff_lat, dropoff_lon,
			current_cycle_used, weekly_mode, status,
			total_distance_miles, total_duration_hours, compliant, plan
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
		RETURNING created_at
	`

	// Generate ID if not provided
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.Status == "" {
		trip.Status = models.TripStatusPlanned
	}

	err := r.db.QueryRow(
		query,
		trip.ID, trip.DriverName, trip.CarrierName, trip.MainOffice, trip.VehicleNumber,
		trip.CurrentLat, trip.CurrentLon, trip.PickupLat, trip.PickupLon, trip.DropoffLat, trip.DropoffLon,
		trip.CurrentCycleUsed, trip.WeeklyMode, trip.Status,
		trip.TotalDistance, trip.TotalDuration, trip.Compliant, trip.Plan,
	).Scan(&trip.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	return nil
}

// GetByID retrieves a stored trip with its full plan document
func (r *TripRepository) GetByID(tripID string) (*models.Trip, error) {
	query := `
		SELECT id, driver_name, carrier_name, main_office, vehicle_number,
			   current_lat, current_lon, pickup_lat, pickup_lon, dropoff_lat, dropoff_lon,
			   current_cycle_used, weekly_mode, status,
			   total_distance_miles, total_duration_hours, compliant, plan, created_at
		FROM trips
		WHERE id = $1
	`

	return r.scanTrip(r.db.QueryRow(query, tripID))
}

// List returns condensed trip records, newest first
func (r *TripRepository) List(limit, offset int) ([]models.TripListItem, error) {
	query := `
		SELECT id, driver_name, carrier_name,
			   total_distance_miles, total_duration_hours, compliant, created_at
		FROM trips
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := []models.TripListItem{}
	for rows.Next() {
		var item models.TripListItem
		if err := rows.Scan(
			&item.ID, &item.DriverName, &item.CarrierName,
			&item.TotalDistance, &item.TotalDuration, &item.Compliant, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trip row: %w", err)
		}
		trips = append(trips, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trip rows: %w", err)
	}

	return trips, nil
}

// Delete removes a stored trip
func (r *TripRepository) Delete(tripID string) error {
	result, err := r.db.Exec(`DELETE FROM trips WHERE id = $1`, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return models.ErrTripNotFound
	}

	return nil
}

// DeleteOlderThan removes trips created before the cutoff and reports how
// many rows were purged
func (r *TripRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM trips WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge trips: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check purge result: %w", err)
	}

	return affected, nil
}

// Count returns the number of stored trips
func (r *TripRepository) Count() (int64, error) {
	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM trips`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}
	return count, nil
}

func (r *TripRepository) scanTrip(row tripScanner) (*models.Trip, error) {
	trip := &models.Trip{}

	err := row.Scan(
		&trip.ID, &trip.DriverName, &trip.CarrierName, &trip.MainOffice, &trip.VehicleNumber,
		&trip.CurrentLat, &trip.CurrentLon, &trip.PickupLat, &trip.PickupLon, &trip.DropoffLat, &trip.DropoffLon,
		&trip.CurrentCycleUsed, &trip.WeeklyMode, &trip.Status,
		&trip.TotalDistance, &trip.TotalDuration, &trip.Compliant, &trip.Plan, &trip.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to scan trip: %w", err)
	}

	return trip, nil
}

type tripScanner interface {
	Scan(dest ...interface{}) error
}
