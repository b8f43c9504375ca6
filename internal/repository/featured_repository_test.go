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

func newFeaturedRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func featuredRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "business_id", "user_id", "message", "status", "admin_message", "reviewed_by", "created_at", "reviewed_at"})
}

func TestFeaturedRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newFeaturedRepoMock(t)
	defer cleanup()

	repo := NewFeaturedRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO featured_requests")).
		WithArgs("place-1", "user-1", nil, "PENDING", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	request := &models.FeaturedRequest{BusinessID: "place-1", UserID: "user-1"}
	require.NoError(t, repo.Create(context.Background(), request))
	require.Equal(t, int64(11), request.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeaturedRepositoryPendingExists(t *testing.T) {
	db, mock, cleanup := newFeaturedRepoMock(t)
	defer cleanup()

	repo := NewFeaturedRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("place-1", "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.PendingExists(context.Background(), "place-1")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeaturedRepositoryApproveSetsFlag(t *testing.T) {
	db, mock, cleanup := newFeaturedRepoMock(t)
	defer cleanup()

	repo := NewFeaturedRepository(db)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(4)).
		WillReturnRows(featuredRows().AddRow(int64(4), "place-1", "user-1", nil, "PENDING", nil, nil, now, nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE featured_requests SET status")).
		WithArgs(int64(4), "APPROVED", nil, "admin-1", now, "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE businesses SET featured = TRUE")).
		WithArgs("place-1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	request, err := repo.Approve(context.Background(), ResolveFeaturedParams{ID: 4, ReviewedBy: "admin-1", ReviewedAt: now})
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusApproved, request.Status)
	require.NotNil(t, request.ReviewedBy)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeaturedRepositoryApproveAlreadyResolved(t *testing.T) {
	db, mock, cleanup := newFeaturedRepoMock(t)
	defer cleanup()

	repo := NewFeaturedRepository(db)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(4)).
		WillReturnRows(featuredRows().AddRow(int64(4), "place-1", "user-1", nil, "REJECTED", nil, "admin-0", now, now))
	mock.ExpectRollback()

	_, err := repo.Approve(context.Background(), ResolveFeaturedParams{ID: 4, ReviewedBy: "admin-1", ReviewedAt: now})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeaturedRepositoryRejectGuarded(t *testing.T) {
	db, mock, cleanup := newFeaturedRepoMock(t)
	defer cleanup()

	repo := NewFeaturedRepository(db)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE featured_requests SET status")).
		WithArgs(int64(9), "REJECTED", nil, "admin-1", now, "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Reject(context.Background(), ResolveFeaturedParams{ID: 9, ReviewedBy: "admin-1", ReviewedAt: now})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
