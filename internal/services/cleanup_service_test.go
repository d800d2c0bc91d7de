package services

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulplan/eld-backend/internal/database"
)

func TestPurgeExpiredTrips(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := database.NewTripRepository(&mockDatabase{db: db})
	service := NewCleanupService(repo, "", 90, testLogger())

	mock.ExpectExec("DELETE FROM trips").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 7))

	purged, err := service.PurgeExpiredTrips()
	require.NoError(t, err)
	assert.Equal(t, int64(7), purged)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeExpiredTrips_DatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := database.NewTripRepository(&mockDatabase{db: db})
	service := NewCleanupService(repo, "", 90, testLogger())

	mock.ExpectExec("DELETE FROM trips").
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(fmt.Errorf("connection lost"))

	_, err = service.PurgeExpiredTrips()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to purge expired trips")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunCleanupNow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := database.NewTripRepository(&mockDatabase{db: db})
	service := NewCleanupService(repo, "", 30, testLogger())

	mock.ExpectExec("DELETE FROM trips").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	purged, err := service.RunCleanupNow()
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanupService_StartStop(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := database.NewTripRepository(&mockDatabase{db: db})
	service := NewCleanupService(repo, "", 90, testLogger())

	require.NoError(t, service.Start())
	service.Stop()
}
