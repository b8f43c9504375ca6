package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/citypages/directory-api/internal/dto"
	"github.com/citypages/directory-api/internal/models"
	"github.com/citypages/directory-api/internal/repository"
	appErrors "github.com/citypages/directory-api/pkg/errors"
)

type claimRepository interface {
	Create(ctx context.Context, claim *models.OwnershipClaim) error
	GetByID(ctx context.Context, id int64) (*models.OwnershipClaim, error)
	List(ctx context.Context, filter models.ClaimFilter) ([]models.OwnershipClaim, error)
	Approve(ctx context.Context, params repository.ResolveClaimParams) (*models.OwnershipClaim, *models.Business, error)
	Reject(ctx context.Context, params repository.ResolveClaimParams) (*models.OwnershipClaim, error)
}

type claimBusinessReader interface {
	GetByPlaceID(ctx context.Context, placeID string) (*models.Business, error)
}

// ClaimService runs the ownership-claim workflow: users submit claims on
// listings, admins approve or reject them, and an approval transfers
// ownership of the business to the claimant.
type ClaimService struct {
	repo       claimRepository
	businesses claimBusinessReader
	audit      auditLogger
	cache      directoryInvalidator
	minMessage int
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewClaimService constructs the service. minMessage is the shortest
// acceptable claim justification.
func NewClaimService(repo claimRepository, businesses claimBusinessReader, audit auditLogger, cache directoryInvalidator, minMessage int, validate *validator.Validate, logger *zap.Logger) *ClaimService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ClaimService{
		repo:       repo,
		businesses: businesses,
		audit:      audit,
		cache:      cache,
		minMessage: minMessage,
		validator:  validate,
		logger:     logger,
	}
}

// Submit files a new claim for the authenticated user. The claim starts
// PENDING regardless of who submits it.
func (s *ClaimService) Submit(ctx context.Context, req dto.CreateClaimRequest, actor *models.JWTClaims) (*models.OwnershipClaim, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid claim payload")
	}
	message := strings.TrimSpace(req.Message)
	if len(message) < s.minMessage {
		return nil, appErrors.Clone(appErrors.ErrValidation, "claim message is too short")
	}

	if _, err := s.businesses.GetByPlaceID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "business not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load business")
	}

	claim := &models.OwnershipClaim{
		UserID:     actor.UserID,
		BusinessID: req.BusinessID,
		Message:    message,
		Status:     models.ReviewStatusPending,
	}
	if err := s.repo.Create(ctx, claim); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create claim")
	}

	s.emitAudit(ctx, actor, models.AuditActionClaimCreate, claim)
	return claim, nil
}

// ListForUser returns the caller's own claims, newest first.
func (s *ClaimService) ListForUser(ctx context.Context, userID string) ([]models.OwnershipClaim, error) {
	claims, err := s.repo.List(ctx, models.ClaimFilter{UserID: userID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list claims")
	}
	return claims, nil
}

// ListForAdmin returns claims across all users, optionally filtered by
// status.
func (s *ClaimService) ListForAdmin(ctx context.Context, filter models.ClaimFilter) ([]models.OwnershipClaim, error) {
	claims, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list claims")
	}
	return claims, nil
}

// Approve resolves a pending claim in the claimant's favor. The approval and
// the ownership transfer commit together; once a claim is resolved, any
// further decision attempt fails with a conflict.
func (s *ClaimService) Approve(ctx context.Context, id int64, req dto.ResolveClaimRequest, actor *models.JWTClaims) (*dto.ClaimApprovalResponse, error) {
	params, err := s.resolveParams(ctx, id, req.AdminMessage, actor)
	if err != nil {
		return nil, err
	}

	claim, business, err := s.repo.Approve(ctx, params)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "claim has already been resolved")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve claim")
	}

	s.invalidate(ctx)
	s.emitAudit(ctx, actor, models.AuditActionClaimReview, claim)
	return &dto.ClaimApprovalResponse{Claim: claim, Business: business}, nil
}

// Reject resolves a pending claim against the claimant. The business is
// never touched.
func (s *ClaimService) Reject(ctx context.Context, id int64, req dto.ResolveClaimRequest, actor *models.JWTClaims) (*models.OwnershipClaim, error) {
	params, err := s.resolveParams(ctx, id, req.AdminMessage, actor)
	if err != nil {
		return nil, err
	}

	claim, err := s.repo.Reject(ctx, params)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "claim has already been resolved")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject claim")
	}

	s.emitAudit(ctx, actor, models.AuditActionClaimReview, claim)
	return claim, nil
}

// resolveParams loads the claim once so a missing id reads as 404 rather
// than competing with the already-resolved conflict.
func (s *ClaimService) resolveParams(ctx context.Context, id int64, adminMessage string, actor *models.JWTClaims) (repository.ResolveClaimParams, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ResolveClaimParams{}, appErrors.Clone(appErrors.ErrNotFound, "claim not found")
		}
		return repository.ResolveClaimParams{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load claim")
	}

	params := repository.ResolveClaimParams{
		ID:         id,
		ReviewedBy: actor.UserID,
		ReviewedAt: time.Now().UTC(),
	}
	if note := strings.TrimSpace(adminMessage); note != "" {
		params.AdminMessage = &note
	}
	return params, nil
}

func (s *ClaimService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateListings(ctx)
	}
}

func (s *ClaimService) emitAudit(ctx context.Context, actor *models.JWTClaims, action string, claim *models.OwnershipClaim) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		Action:    action,
		Resource:  "ownership_claim",
		IPAddress: "system",
		UserAgent: "claim-service",
	}
	if actor != nil {
		log.UserID = &actor.UserID
	}
	if claim != nil {
		resourceID := claim.BusinessID
		log.ResourceID = &resourceID
		if raw, err := json.Marshal(claim); err == nil {
			log.NewValues = raw
		}
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}
