package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/flickmobile/navigation-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFavorite(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)

	deviceID := uuid.New()
	favoriteID := uuid.New()

	rows := sqlmock.NewRows([]string{
		"id", "device_id", "name", "label", "latitude", "longitude", "created_at", "updated_at",
	}).AddRow(favoriteID, deviceID, "Home", "home", 52.52, 13.405, time.Now(), time.Now())

	mock.ExpectQuery("INSERT INTO favorite_places").
		WithArgs(sqlmock.AnyArg(), deviceID, "Home", "home", 52.52, 13.405, sqlmock.AnyArg()).
		WillReturnRows(rows)

	favorite, err := repo.CreateFavorite(deviceID, &models.FavoriteRequest{
		Name:      "Home",
		Label:     "home",
		Latitude:  52.52,
		Longitude: 13.405,
	})

	require.NoError(t, err)
	assert.Equal(t, favoriteID, favorite.ID)
	assert.Equal(t, "home", favorite.Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFavoriteNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)

	mock.ExpectExec("UPDATE favorite_places").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateFavorite(uuid.New(), uuid.New(), &models.FavoriteRequest{Name: "Work", Label: "work"})

	assert.ErrorIs(t, err, ErrFavoriteNotFound)
}

func TestDeleteFavorite(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)

	favoriteID := uuid.New()
	deviceID := uuid.New()

	mock.ExpectExec("DELETE FROM favorite_places").
		WithArgs(favoriteID, deviceID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DeleteFavorite(favoriteID, deviceID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFavorites(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)

	deviceID := uuid.New()
	rows := sqlmock.NewRows([]string{
		"id", "device_id", "name", "label", "latitude", "longitude", "created_at", "updated_at",
	}).
		AddRow(uuid.New(), deviceID, "Home", "home", 52.52, 13.405, time.Now(), time.Now()).
		AddRow(uuid.New(), deviceID, "Gym", "other", 52.50, 13.42, time.Now(), time.Now())

	mock.ExpectQuery("SELECT id, device_id, name, label").
		WithArgs(deviceID).
		WillReturnRows(rows)

	favorites, err := repo.ListFavorites(deviceID)

	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, "Home", favorites[0].Name)
}
