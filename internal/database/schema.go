package database

import "fmt"

// InitSchema creates the trips table and its indexes if they do not exist.
// The plan column stores the full computed plan as JSONB so a stored trip
// replays without recomputation.
func InitSchema(db DB) error {
	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS trips (
		id UUID PRIMARY KEY,
		driver_name TEXT NOT NULL DEFAULT '',
		carrier_name TEXT NOT NULL DEFAULT '',
		main_office TEXT NOT NULL DEFAULT '',
		vehicle_number TEXT NOT NULL DEFAULT '',
		current_lat DOUBLE PRECISION NOT NULL,
		current_lon DOUBLE PRECISION NOT NULL,
		pickup_lat DOUBLE PRECISION NOT NULL,
		pickup_lon DOUBLE PRECISION NOT NULL,
		dropoff_lat DOUBLE PRECISION NOT NULL,
		dropoff_lon DOUBLE PRECISION NOT NULL,
		current_cycle_used DOUBLE PRECISION NOT NULL DEFAULT 0,
		weekly_mode TEXT NOT NULL DEFAULT '70/8',
		status TEXT NOT NULL DEFAULT 'planned',
		total_distance_miles DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_duration_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
		compliant BOOLEAN NOT NULL DEFAULT true,
		plan JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`

	createCreatedAtIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trips_created_at ON trips (created_at DESC);`

	statements := []string{
		createTripsQuery,
		createCreatedAtIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	return nil
}
