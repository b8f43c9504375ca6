package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citypages/directory-api/internal/dto"
	"github.com/citypages/directory-api/internal/models"
	"github.com/citypages/directory-api/internal/repository"
	appErrors "github.com/citypages/directory-api/pkg/errors"
)

type mockFeaturedRepo struct {
	requests     map[int64]*models.FeaturedRequest
	created      []*models.FeaturedRequest
	pending      bool
	approveErr   error
	rejectErr    error
	approveCalls int
	rejectCalls  int
}

func (m *mockFeaturedRepo) Create(_ context.Context, request *models.FeaturedRequest) error {
	request.ID = int64(len(m.created) + 1)
	m.created = append(m.created, request)
	return nil
}

func (m *mockFeaturedRepo) GetByID(_ context.Context, id int64) (*models.FeaturedRequest, error) {
	request, ok := m.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return request, nil
}

func (m *mockFeaturedRepo) PendingExists(_ context.Context, _ string) (bool, error) {
	return m.pending, nil
}

func (m *mockFeaturedRepo) List(_ context.Context, _ models.FeaturedRequestFilter) ([]models.FeaturedRequest, error) {
	var out []models.FeaturedRequest
	for _, request := range m.requests {
		out = append(out, *request)
	}
	return out, nil
}

func (m *mockFeaturedRepo) Approve(_ context.Context, params repository.ResolveFeaturedParams) (*models.FeaturedRequest, error) {
	m.approveCalls++
	if m.approveErr != nil {
		return nil, m.approveErr
	}
	request := m.requests[params.ID]
	request.Status = models.ReviewStatusApproved
	return request, nil
}

func (m *mockFeaturedRepo) Reject(_ context.Context, params repository.ResolveFeaturedParams) (*models.FeaturedRequest, error) {
	m.rejectCalls++
	if m.rejectErr != nil {
		return nil, m.rejectErr
	}
	request := m.requests[params.ID]
	request.Status = models.ReviewStatusRejected
	return request, nil
}

func ownedBusiness(owner string, featured bool) *models.Business {
	return &models.Business{PlaceID: "place-1", Title: "Corner Cafe", OwnerID: &owner, Featured: featured}
}

func TestFeaturedServiceSubmitUnknownBusiness(t *testing.T) {
	repo := &mockFeaturedRepo{requests: map[int64]*models.FeaturedRequest{}}
	svc := NewFeaturedService(repo, &stubBusinessReader{}, nil, nil, nil, nil)

	_, err := svc.Submit(context.Background(), dto.CreateFeaturedRequest{BusinessID: "missing"}, userActor())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestFeaturedServiceSubmitRequiresOwnership(t *testing.T) {
	repo := &mockFeaturedRepo{requests: map[int64]*models.FeaturedRequest{}}
	businesses := &stubBusinessReader{businesses: map[string]*models.Business{
		"place-1": ownedBusiness("someone-else", false),
	}}
	svc := NewFeaturedService(repo, businesses, nil, nil, nil, nil)

	_, err := svc.Submit(context.Background(), dto.CreateFeaturedRequest{BusinessID: "place-1"}, userActor())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Empty(t, repo.created)
}

func TestFeaturedServiceSubmitAlreadyFeatured(t *testing.T) {
	repo := &mockFeaturedRepo{requests: map[int64]*models.FeaturedRequest{}}
	businesses := &stubBusinessReader{businesses: map[string]*models.Business{
		"place-1": ownedBusiness("user-1", true),
	}}
	svc := NewFeaturedService(repo, businesses, nil, nil, nil, nil)

	_, err := svc.Submit(context.Background(), dto.CreateFeaturedRequest{BusinessID: "place-1"}, userActor())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
}

func TestFeaturedServiceSubmitDuplicatePending(t *testing.T) {
	repo := &mockFeaturedRepo{requests: map[int64]*models.FeaturedRequest{}, pending: true}
	businesses := &stubBusinessReader{businesses: map[string]*models.Business{
		"place-1": ownedBusiness("user-1", false),
	}}
	svc := NewFeaturedService(repo, businesses, nil, nil, nil, nil)

	_, err := svc.Submit(context.Background(), dto.CreateFeaturedRequest{BusinessID: "place-1"}, userActor())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Empty(t, repo.created)
}

func TestFeaturedServiceSubmitCreatesPendingRequest(t *testing.T) {
	repo := &mockFeaturedRepo{requests: map[int64]*models.FeaturedRequest{}}
	businesses := &stubBusinessReader{businesses: map[string]*models.Business{
		"place-1": ownedBusiness("user-1", false),
	}}
	audit := &stubAuditLogger{}
	svc := NewFeaturedService(repo, businesses, audit, nil, nil, nil)

	request, err := svc.Submit(context.Background(), dto.CreateFeaturedRequest{BusinessID: "place-1", Message: "  weekend spotlight  "}, userActor())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusPending, request.Status)
	require.NotNil(t, request.Message)
	assert.Equal(t, "weekend spotlight", *request.Message)
	require.Len(t, audit.logs, 1)
}

func TestFeaturedServiceReviewRejectsUnknownStatus(t *testing.T) {
	repo := &mockFeaturedRepo{requests: map[int64]*models.FeaturedRequest{}}
	svc := NewFeaturedService(repo, &stubBusinessReader{}, nil, nil, nil, nil)

	_, err := svc.Review(context.Background(), 1, dto.ReviewFeaturedRequest{Status: "MAYBE"}, adminActor())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestFeaturedServiceReviewApproveInvalidatesCache(t *testing.T) {
	repo := &mockFeaturedRepo{requests: map[int64]*models.FeaturedRequest{
		5: {ID: 5, BusinessID: "place-1", UserID: "user-1", Status: models.ReviewStatusPending},
	}}
	cache := &stubInvalidator{}
	svc := NewFeaturedService(repo, &stubBusinessReader{}, nil, cache, nil, nil)

	request, err := svc.Review(context.Background(), 5, dto.ReviewFeaturedRequest{Status: "approved"}, adminActor())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, request.Status)
	assert.Equal(t, 1, repo.approveCalls)
	assert.Equal(t, 1, cache.calls)
}

func TestFeaturedServiceReviewRejectSkipsCache(t *testing.T) {
	repo := &mockFeaturedRepo{requests: map[int64]*models.FeaturedRequest{
		5: {ID: 5, BusinessID: "place-1", UserID: "user-1", Status: models.ReviewStatusPending},
	}}
	cache := &stubInvalidator{}
	svc := NewFeaturedService(repo, &stubBusinessReader{}, nil, cache, nil, nil)

	request, err := svc.Review(context.Background(), 5, dto.ReviewFeaturedRequest{Status: "REJECTED"}, adminActor())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusRejected, request.Status)
	assert.Equal(t, 1, repo.rejectCalls)
	assert.Zero(t, cache.calls)
}

func TestFeaturedServiceReviewAlreadyResolved(t *testing.T) {
	repo := &mockFeaturedRepo{
		requests: map[int64]*models.FeaturedRequest{
			5: {ID: 5, BusinessID: "place-1", UserID: "user-1", Status: models.ReviewStatusApproved},
		},
		approveErr: sql.ErrNoRows,
	}
	svc := NewFeaturedService(repo, &stubBusinessReader{}, nil, nil, nil, nil)

	_, err := svc.Review(context.Background(), 5, dto.ReviewFeaturedRequest{Status: "APPROVED"}, adminActor())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestFeaturedServiceReviewUnknownRequest(t *testing.T) {
	repo := &mockFeaturedRepo{requests: map[int64]*models.FeaturedRequest{}}
	svc := NewFeaturedService(repo, &stubBusinessReader{}, nil, nil, nil, nil)

	_, err := svc.Review(context.Background(), 404, dto.ReviewFeaturedRequest{Status: "APPROVED"}, adminActor())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Zero(t, repo.approveCalls)
}
