package hos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulplan/eld-backend/internal/models"
)

func TestBuildLegs_MapsFiguresToRoute(t *testing.T) {
	legs, err := BuildLegs(testCurrent, testPickup, testDropoff, []models.LegFigures{
		{DistanceMiles: 120, DurationHours: 2.1},
		{DistanceMiles: 480, DurationHours: 7.9},
	})
	require.NoError(t, err)
	require.Len(t, legs, 2)

	assert.Equal(t, models.LegToPickup, legs[0].Kind)
	assert.Equal(t, testCurrent, legs[0].Start)
	assert.Equal(t, testPickup, legs[0].End)
	assert.Equal(t, 120.0, legs[0].DistanceMiles)
	assert.Equal(t, 2.1, legs[0].DurationHours)
	assert.Equal(t, "Current Location to Pickup", legs[0].Description)

	assert.Equal(t, models.LegToDropoff, legs[1].Kind)
	assert.Equal(t, testPickup, legs[1].Start)
	assert.Equal(t, testDropoff, legs[1].End)
	assert.Equal(t, "Pickup to Dropoff", legs[1].Description)
}

func TestBuildLegs_InsufficientFigures(t *testing.T) {
	_, err := BuildLegs(testCurrent, testPickup, testDropoff, []models.LegFigures{
		{DistanceMiles: 120},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInsufficientInput))

	_, err = BuildLegs(testCurrent, testPickup, testDropoff, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInsufficientInput))
}

func TestBuildLegs_NegativeDistanceRejected(t *testing.T) {
	_, err := BuildLegs(testCurrent, testPickup, testDropoff, []models.LegFigures{
		{DistanceMiles: -10},
		{DistanceMiles: 300},
	})
	require.Error(t, err)

	var vErr *models.ValidationError
	assert.True(t, errors.As(err, &vErr))
}
