package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/citypages/directory-api/internal/models"
)

func newBusinessRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func businessRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"place_id", "title", "category", "city", "address", "phone", "website", "email", "description", "featured", "owner_id", "status", "created_at", "updated_at"})
}

func TestBusinessRepositoryCreateAssignsPlaceID(t *testing.T) {
	db, mock, cleanup := newBusinessRepoMock(t)
	defer cleanup()

	repo := NewBusinessRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO businesses")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	business := &models.Business{Title: "Corner Cafe", Category: "cafe", City: "Porto"}
	require.NoError(t, repo.Create(context.Background(), business))
	require.NotEmpty(t, business.PlaceID)
	require.Equal(t, models.BusinessStatusActive, business.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessRepositoryCreateNormalizesEmptyOwner(t *testing.T) {
	db, mock, cleanup := newBusinessRepoMock(t)
	defer cleanup()

	repo := NewBusinessRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO businesses")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	empty := " "
	business := &models.Business{Title: "Corner Cafe", Category: "cafe", City: "Porto", OwnerID: &empty}
	require.NoError(t, repo.Create(context.Background(), business))
	require.Nil(t, business.OwnerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newBusinessRepoMock(t)
	defer cleanup()

	repo := NewBusinessRepository(db)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT place_id, title")).
		WithArgs("cafe", "%corner%").
		WillReturnRows(businessRows().AddRow("place-1", "Corner Cafe", "cafe", "Porto", "", "", "", "", "", false, nil, "ACTIVE", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("cafe", "%corner%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	businesses, total, err := repo.List(context.Background(), models.BusinessFilter{Category: "cafe", Search: "Corner"})
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessRepositoryUpdateClearsOwner(t *testing.T) {
	db, mock, cleanup := newBusinessRepoMock(t)
	defer cleanup()

	repo := NewBusinessRepository(db)
	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE businesses SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT place_id, title")).
		WithArgs("place-1").
		WillReturnRows(businessRows().AddRow("place-1", "Corner Cafe", "cafe", "Porto", "", "", "", "", "", false, nil, "ACTIVE", now, now))

	business, err := repo.Update(context.Background(), "place-1", UpdateBusinessParams{OwnerSet: true, OwnerID: nil})
	require.NoError(t, err)
	require.Nil(t, business.OwnerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessRepositoryUpdateUnknownID(t *testing.T) {
	db, mock, cleanup := newBusinessRepoMock(t)
	defer cleanup()

	repo := NewBusinessRepository(db)
	title := "New Name"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE businesses SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), "missing", UpdateBusinessParams{Title: &title})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessRepositoryDeleteUnknownID(t *testing.T) {
	db, mock, cleanup := newBusinessRepoMock(t)
	defer cleanup()

	repo := NewBusinessRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM businesses")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessRepositoryCategories(t *testing.T) {
	db, mock, cleanup := newBusinessRepoMock(t)
	defer cleanup()

	repo := NewBusinessRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT category, COUNT(*)")).
		WithArgs("ACTIVE").
		WillReturnRows(sqlmock.NewRows([]string{"category", "count"}).AddRow("cafe", 3).AddRow("gym", 1))

	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Equal(t, "cafe", categories[0].Category)
	require.NoError(t, mock.ExpectationsWereMet())
}
