package hos

import (
	"github.com/haulplan/eld-backend/internal/models"
)

// BuildLegs normalizes the routing provider's raw figures and the three
// trip waypoints into the ordered, typed legs the schedule consumes. The
// figures must carry exactly one entry per leg: current→pickup, then
// pickup→dropoff.
func BuildLegs(current, pickup, dropoff models.Coordinate, figures []models.LegFigures) ([]models.RouteLeg, error) {
	if len(figures) < 2 {
		return nil, models.ErrInsufficientInput
	}

	legs := []models.RouteLeg{
		{
			Kind:          models.LegToPickup,
			Start:         current,
			End:           pickup,
			DistanceMiles: figures[0].DistanceMiles,
			DurationHours: figures[0].DurationHours,
			Description:   "Current Location to Pickup",
		},
		{
			Kind:          models.LegToDropoff,
			Start:         pickup,
			End:           dropoff,
			DistanceMiles: figures[1].DistanceMiles,
			DurationHours: figures[1].DurationHours,
			Description:   "Pickup to Dropoff",
		},
	}

	for _, leg := range legs {
		if leg.DistanceMiles < 0 {
			return nil, models.NewValidationError("route leg distance must be >= 0")
		}
	}

	return legs, nil
}
