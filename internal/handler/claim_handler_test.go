package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citypages/directory-api/internal/dto"
	"github.com/citypages/directory-api/internal/models"
	appErrors "github.com/citypages/directory-api/pkg/errors"
)

type claimServiceMock struct {
	submitResp    *models.OwnershipClaim
	submitErr     error
	mineResp      []models.OwnershipClaim
	mineErr       error
	allResp       []models.OwnershipClaim
	allErr        error
	approveResp   *dto.ClaimApprovalResponse
	approveErr    error
	rejectResp    *models.OwnershipClaim
	rejectErr     error
	lastFilter    models.ClaimFilter
	lastResolveID int64
	approveCalled bool
	rejectCalled  bool
}

func (m *claimServiceMock) Submit(ctx context.Context, req dto.CreateClaimRequest, actor *models.JWTClaims) (*models.OwnershipClaim, error) {
	return m.submitResp, m.submitErr
}

func (m *claimServiceMock) ListForUser(ctx context.Context, userID string) ([]models.OwnershipClaim, error) {
	return m.mineResp, m.mineErr
}

func (m *claimServiceMock) ListForAdmin(ctx context.Context, filter models.ClaimFilter) ([]models.OwnershipClaim, error) {
	m.lastFilter = filter
	return m.allResp, m.allErr
}

func (m *claimServiceMock) Approve(ctx context.Context, id int64, req dto.ResolveClaimRequest, actor *models.JWTClaims) (*dto.ClaimApprovalResponse, error) {
	m.approveCalled = true
	m.lastResolveID = id
	return m.approveResp, m.approveErr
}

func (m *claimServiceMock) Reject(ctx context.Context, id int64, req dto.ResolveClaimRequest, actor *models.JWTClaims) (*models.OwnershipClaim, error) {
	m.rejectCalled = true
	m.lastResolveID = id
	return m.rejectResp, m.rejectErr
}

func TestClaimHandlerCreate(t *testing.T) {
	mockSvc := &claimServiceMock{submitResp: &models.OwnershipClaim{ID: 1, Status: models.ReviewStatusPending}}
	handler := NewClaimHandler(mockSvc)

	payload, _ := json.Marshal(dto.CreateClaimRequest{BusinessID: "place-1", Message: "I have run this cafe since 2019."})
	c, w := adminContext(t, http.MethodPost, "/ownership-claims", payload)

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestClaimHandlerCreateWithoutClaims(t *testing.T) {
	handler := NewClaimHandler(&claimServiceMock{})

	payload, _ := json.Marshal(dto.CreateClaimRequest{BusinessID: "place-1", Message: "I have run this cafe since 2019."})
	c, w := adminContext(t, http.MethodPost, "/ownership-claims", payload)
	c.Keys = nil

	handler.Create(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClaimHandlerListAllParsesStatuses(t *testing.T) {
	mockSvc := &claimServiceMock{}
	handler := NewClaimHandler(mockSvc)

	c, w := adminContext(t, http.MethodGet, "/admin/ownership-claims?status=pending,%20approved&business_id=place-1", nil)

	handler.ListAll(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.ReviewStatus{models.ReviewStatusPending, models.ReviewStatusApproved}, mockSvc.lastFilter.Status)
	assert.Equal(t, "place-1", mockSvc.lastFilter.BusinessID)
}

func TestClaimHandlerApprove(t *testing.T) {
	mockSvc := &claimServiceMock{approveResp: &dto.ClaimApprovalResponse{
		Claim:    &models.OwnershipClaim{ID: 7, Status: models.ReviewStatusApproved},
		Business: &models.Business{PlaceID: "place-1"},
	}}
	handler := NewClaimHandler(mockSvc)

	c, w := adminContext(t, http.MethodPost, "/admin/ownership-claims/7/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	handler.Approve(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.approveCalled)
	assert.Equal(t, int64(7), mockSvc.lastResolveID)
}

func TestClaimHandlerApproveNonNumericID(t *testing.T) {
	mockSvc := &claimServiceMock{}
	handler := NewClaimHandler(mockSvc)

	c, w := adminContext(t, http.MethodPost, "/admin/ownership-claims/abc/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Approve(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.approveCalled)
}

func TestClaimHandlerApproveConflictPassesThrough(t *testing.T) {
	mockSvc := &claimServiceMock{approveErr: appErrors.Clone(appErrors.ErrInvalidState, "claim has already been resolved")}
	handler := NewClaimHandler(mockSvc)

	c, w := adminContext(t, http.MethodPost, "/admin/ownership-claims/7/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	handler.Approve(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrInvalidState.Code, envelope.Error.Code)
}

func TestClaimHandlerRejectWithNote(t *testing.T) {
	mockSvc := &claimServiceMock{rejectResp: &models.OwnershipClaim{ID: 3, Status: models.ReviewStatusRejected}}
	handler := NewClaimHandler(mockSvc)

	payload, _ := json.Marshal(dto.ResolveClaimRequest{AdminMessage: "insufficient proof"})
	c, w := adminContext(t, http.MethodPost, "/admin/ownership-claims/3/reject", payload)
	c.Params = gin.Params{{Key: "id", Value: "3"}}

	handler.Reject(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.rejectCalled)
}
