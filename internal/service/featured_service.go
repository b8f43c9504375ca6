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

type featuredRepository interface {
	Create(ctx context.Context, request *models.FeaturedRequest) error
	GetByID(ctx context.Context, id int64) (*models.FeaturedRequest, error)
	PendingExists(ctx context.Context, businessID string) (bool, error)
	List(ctx context.Context, filter models.FeaturedRequestFilter) ([]models.FeaturedRequest, error)
	Approve(ctx context.Context, params repository.ResolveFeaturedParams) (*models.FeaturedRequest, error)
	Reject(ctx context.Context, params repository.ResolveFeaturedParams) (*models.FeaturedRequest, error)
}

// FeaturedService runs the promotion workflow: owners ask for their listing
// to be featured, admins review, and an approval flips the business's
// featured flag atomically with the decision.
type FeaturedService struct {
	repo       featuredRepository
	businesses claimBusinessReader
	audit      auditLogger
	cache      directoryInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewFeaturedService constructs the service.
func NewFeaturedService(repo featuredRepository, businesses claimBusinessReader, audit auditLogger, cache directoryInvalidator, validate *validator.Validate, logger *zap.Logger) *FeaturedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FeaturedService{
		repo:       repo,
		businesses: businesses,
		audit:      audit,
		cache:      cache,
		validator:  validate,
		logger:     logger,
	}
}

// Submit files a promotion request after checking eligibility. The listing
// must exist, must belong to the caller, must not already be featured, and
// must not already have a pending request.
func (s *FeaturedService) Submit(ctx context.Context, req dto.CreateFeaturedRequest, actor *models.JWTClaims) (*models.FeaturedRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid featured request payload")
	}

	business, err := s.businesses.GetByPlaceID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "business not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load business")
	}
	if business.OwnerID == nil || *business.OwnerID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only the business owner may request promotion")
	}
	if business.Featured {
		return nil, appErrors.Clone(appErrors.ErrValidation, "business is already featured")
	}

	pending, err := s.repo.PendingExists(ctx, req.BusinessID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending requests")
	}
	if pending {
		return nil, appErrors.Clone(appErrors.ErrValidation, "business already has a pending featured request")
	}

	request := &models.FeaturedRequest{
		BusinessID: req.BusinessID,
		UserID:     actor.UserID,
		Status:     models.ReviewStatusPending,
	}
	if message := strings.TrimSpace(req.Message); message != "" {
		request.Message = &message
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create featured request")
	}

	s.emitAudit(ctx, actor, models.AuditActionFeaturedCreate, request)
	return request, nil
}

// ListForUser returns the caller's own requests, newest first.
func (s *FeaturedService) ListForUser(ctx context.Context, userID string) ([]models.FeaturedRequest, error) {
	requests, err := s.repo.List(ctx, models.FeaturedRequestFilter{UserID: userID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list featured requests")
	}
	return requests, nil
}

// ListForAdmin returns requests across all users, optionally filtered.
func (s *FeaturedService) ListForAdmin(ctx context.Context, filter models.FeaturedRequestFilter) ([]models.FeaturedRequest, error) {
	requests, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list featured requests")
	}
	return requests, nil
}

// Review resolves a pending request. An APPROVED decision sets the business
// featured in the same transaction as the status change; a resolved request
// rejects any later decision with a conflict.
func (s *FeaturedService) Review(ctx context.Context, id int64, req dto.ReviewFeaturedRequest, actor *models.JWTClaims) (*models.FeaturedRequest, error) {
	status := models.ReviewStatus(strings.ToUpper(strings.TrimSpace(string(req.Status))))
	if status != models.ReviewStatusApproved && status != models.ReviewStatusRejected {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be APPROVED or REJECTED")
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "featured request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load featured request")
	}

	params := repository.ResolveFeaturedParams{
		ID:         id,
		ReviewedBy: actor.UserID,
		ReviewedAt: time.Now().UTC(),
	}
	if note := strings.TrimSpace(req.AdminMessage); note != "" {
		params.AdminMessage = &note
	}

	var (
		request *models.FeaturedRequest
		err     error
	)
	if status == models.ReviewStatusApproved {
		request, err = s.repo.Approve(ctx, params)
	} else {
		request, err = s.repo.Reject(ctx, params)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "featured request has already been resolved")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to review featured request")
	}

	if status == models.ReviewStatusApproved {
		s.invalidate(ctx)
	}
	s.emitAudit(ctx, actor, models.AuditActionFeaturedReview, request)
	return request, nil
}

func (s *FeaturedService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateListings(ctx)
	}
}

func (s *FeaturedService) emitAudit(ctx context.Context, actor *models.JWTClaims, action string, request *models.FeaturedRequest) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		Action:    action,
		Resource:  "featured_request",
		IPAddress: "system",
		UserAgent: "featured-service",
	}
	if actor != nil {
		log.UserID = &actor.UserID
	}
	if request != nil {
		resourceID := request.BusinessID
		log.ResourceID = &resourceID
		if raw, err := json.Marshal(request); err == nil {
			log.NewValues = raw
		}
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}
