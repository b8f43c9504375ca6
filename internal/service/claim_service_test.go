package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citypages/directory-api/internal/dto"
	"github.com/citypages/directory-api/internal/models"
	"github.com/citypages/directory-api/internal/repository"
	appErrors "github.com/citypages/directory-api/pkg/errors"
)

type mockClaimRepo struct {
	claims       map[int64]*models.OwnershipClaim
	created      []*models.OwnershipClaim
	approveErr   error
	rejectErr    error
	approveCalls int
	rejectCalls  int
	lastParams   repository.ResolveClaimParams
}

func (m *mockClaimRepo) Create(_ context.Context, claim *models.OwnershipClaim) error {
	claim.ID = int64(len(m.created) + 1)
	m.created = append(m.created, claim)
	return nil
}

func (m *mockClaimRepo) GetByID(_ context.Context, id int64) (*models.OwnershipClaim, error) {
	claim, ok := m.claims[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return claim, nil
}

func (m *mockClaimRepo) List(_ context.Context, _ models.ClaimFilter) ([]models.OwnershipClaim, error) {
	var out []models.OwnershipClaim
	for _, claim := range m.claims {
		out = append(out, *claim)
	}
	return out, nil
}

func (m *mockClaimRepo) Approve(_ context.Context, params repository.ResolveClaimParams) (*models.OwnershipClaim, *models.Business, error) {
	m.approveCalls++
	m.lastParams = params
	if m.approveErr != nil {
		return nil, nil, m.approveErr
	}
	claim := m.claims[params.ID]
	claim.Status = models.ReviewStatusApproved
	owner := claim.UserID
	business := &models.Business{PlaceID: claim.BusinessID, OwnerID: &owner}
	return claim, business, nil
}

func (m *mockClaimRepo) Reject(_ context.Context, params repository.ResolveClaimParams) (*models.OwnershipClaim, error) {
	m.rejectCalls++
	m.lastParams = params
	if m.rejectErr != nil {
		return nil, m.rejectErr
	}
	claim := m.claims[params.ID]
	claim.Status = models.ReviewStatusRejected
	return claim, nil
}

type stubBusinessReader struct {
	businesses map[string]*models.Business
}

func (s *stubBusinessReader) GetByPlaceID(_ context.Context, placeID string) (*models.Business, error) {
	business, ok := s.businesses[placeID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return business, nil
}

type stubAuditLogger struct {
	logs []*models.AuditLog
	err  error
}

func (s *stubAuditLogger) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	if s.err != nil {
		return s.err
	}
	s.logs = append(s.logs, log)
	return nil
}

type stubInvalidator struct {
	calls int
}

func (s *stubInvalidator) InvalidateListings(_ context.Context) {
	s.calls++
}

func adminActor() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin, Email: "admin@example.com"}
}

func userActor() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-1", Role: models.RoleUser, Email: "user@example.com"}
}

func TestClaimServiceSubmitRejectsShortMessage(t *testing.T) {
	repo := &mockClaimRepo{claims: map[int64]*models.OwnershipClaim{}}
	svc := NewClaimService(repo, &stubBusinessReader{}, nil, nil, 20, nil, nil)

	_, err := svc.Submit(context.Background(), dto.CreateClaimRequest{BusinessID: "place-1", Message: "too short"}, userActor())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestClaimServiceSubmitUnknownBusiness(t *testing.T) {
	repo := &mockClaimRepo{claims: map[int64]*models.OwnershipClaim{}}
	svc := NewClaimService(repo, &stubBusinessReader{}, nil, nil, 20, nil, nil)

	_, err := svc.Submit(context.Background(), dto.CreateClaimRequest{BusinessID: "missing", Message: "I am the long-time owner of this establishment."}, userActor())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestClaimServiceSubmitCreatesPendingClaim(t *testing.T) {
	repo := &mockClaimRepo{claims: map[int64]*models.OwnershipClaim{}}
	businesses := &stubBusinessReader{businesses: map[string]*models.Business{
		"place-1": {PlaceID: "place-1", Title: "Corner Cafe"},
	}}
	audit := &stubAuditLogger{}
	svc := NewClaimService(repo, businesses, audit, nil, 20, nil, nil)

	claim, err := svc.Submit(context.Background(), dto.CreateClaimRequest{BusinessID: "place-1", Message: "  I am the long-time owner of this establishment.  "}, userActor())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusPending, claim.Status)
	assert.Equal(t, "user-1", claim.UserID)
	assert.Equal(t, "I am the long-time owner of this establishment.", claim.Message)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionClaimCreate, audit.logs[0].Action)
}

func TestClaimServiceApproveTransfersOwnership(t *testing.T) {
	repo := &mockClaimRepo{claims: map[int64]*models.OwnershipClaim{
		7: {ID: 7, UserID: "user-1", BusinessID: "place-1", Status: models.ReviewStatusPending},
	}}
	cache := &stubInvalidator{}
	audit := &stubAuditLogger{}
	svc := NewClaimService(repo, &stubBusinessReader{}, audit, cache, 20, nil, nil)

	result, err := svc.Approve(context.Background(), 7, dto.ResolveClaimRequest{AdminMessage: "verified in person"}, adminActor())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, result.Claim.Status)
	require.NotNil(t, result.Business.OwnerID)
	assert.Equal(t, "user-1", *result.Business.OwnerID)
	assert.Equal(t, "admin-1", repo.lastParams.ReviewedBy)
	require.NotNil(t, repo.lastParams.AdminMessage)
	assert.Equal(t, "verified in person", *repo.lastParams.AdminMessage)
	assert.Equal(t, 1, cache.calls)
	require.Len(t, audit.logs, 1)
}

func TestClaimServiceApproveUnknownClaim(t *testing.T) {
	repo := &mockClaimRepo{claims: map[int64]*models.OwnershipClaim{}}
	svc := NewClaimService(repo, &stubBusinessReader{}, nil, nil, 20, nil, nil)

	_, err := svc.Approve(context.Background(), 99, dto.ResolveClaimRequest{}, adminActor())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Zero(t, repo.approveCalls)
}

func TestClaimServiceApproveAlreadyResolved(t *testing.T) {
	repo := &mockClaimRepo{
		claims: map[int64]*models.OwnershipClaim{
			7: {ID: 7, UserID: "user-1", BusinessID: "place-1", Status: models.ReviewStatusApproved},
		},
		approveErr: sql.ErrNoRows,
	}
	svc := NewClaimService(repo, &stubBusinessReader{}, nil, nil, 20, nil, nil)

	_, err := svc.Approve(context.Background(), 7, dto.ResolveClaimRequest{}, adminActor())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestClaimServiceRejectLeavesBusinessAlone(t *testing.T) {
	repo := &mockClaimRepo{claims: map[int64]*models.OwnershipClaim{
		3: {ID: 3, UserID: "user-1", BusinessID: "place-1", Status: models.ReviewStatusPending},
	}}
	cache := &stubInvalidator{}
	svc := NewClaimService(repo, &stubBusinessReader{}, nil, cache, 20, nil, nil)

	claim, err := svc.Reject(context.Background(), 3, dto.ResolveClaimRequest{}, adminActor())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusRejected, claim.Status)
	assert.Nil(t, repo.lastParams.AdminMessage)
	assert.Zero(t, cache.calls)
}

func TestClaimServiceAuditFailureDoesNotFailOperation(t *testing.T) {
	repo := &mockClaimRepo{claims: map[int64]*models.OwnershipClaim{}}
	businesses := &stubBusinessReader{businesses: map[string]*models.Business{
		"place-1": {PlaceID: "place-1"},
	}}
	audit := &stubAuditLogger{err: errors.New("audit store down")}
	svc := NewClaimService(repo, businesses, audit, nil, 20, nil, nil)

	_, err := svc.Submit(context.Background(), dto.CreateClaimRequest{BusinessID: "place-1", Message: "I am the long-time owner of this establishment."}, userActor())
	require.NoError(t, err)
}
