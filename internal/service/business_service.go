package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/citypages/directory-api/internal/dto"
	"github.com/citypages/directory-api/internal/models"
	"github.com/citypages/directory-api/internal/repository"
	appErrors "github.com/citypages/directory-api/pkg/errors"
)

type businessStore interface {
	Create(ctx context.Context, business *models.Business) error
	GetByPlaceID(ctx context.Context, placeID string) (*models.Business, error)
	List(ctx context.Context, filter models.BusinessFilter) ([]models.Business, int, error)
	Update(ctx context.Context, placeID string, params repository.UpdateBusinessParams) (*models.Business, error)
	SetFeatured(ctx context.Context, placeID string, featured bool) (*models.Business, error)
	Delete(ctx context.Context, placeID string) error
}

type directoryInvalidator interface {
	InvalidateListings(ctx context.Context)
}

// BusinessService manages directory listings for the admin surface.
type BusinessService struct {
	repo      businessStore
	audit     auditLogger
	cache     directoryInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBusinessService constructs the service.
func NewBusinessService(repo businessStore, audit auditLogger, cache directoryInvalidator, validate *validator.Validate, logger *zap.Logger) *BusinessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BusinessService{repo: repo, audit: audit, cache: cache, validator: validate, logger: logger}
}

// Create persists a new listing with a fresh place id.
func (s *BusinessService) Create(ctx context.Context, req dto.CreateBusinessRequest, actor *models.JWTClaims) (*models.Business, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid business payload")
	}

	business := &models.Business{
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		City:        strings.TrimSpace(req.City),
		Address:     req.Address,
		Phone:       req.Phone,
		Website:     req.Website,
		Email:       req.Email,
		Description: req.Description,
		Status:      models.BusinessStatusActive,
	}
	if owner := strings.TrimSpace(req.OwnerID); owner != "" {
		business.OwnerID = &owner
	}

	if err := s.repo.Create(ctx, business); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create business")
	}

	s.invalidate(ctx)
	s.emitAudit(ctx, actor, models.AuditActionBusinessCreate, business.PlaceID, business)
	return business, nil
}

// Get returns a single listing.
func (s *BusinessService) Get(ctx context.Context, placeID string) (*models.Business, error) {
	business, err := s.repo.GetByPlaceID(ctx, placeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "business not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load business")
	}
	return business, nil
}

// Update applies a partial update. An empty-string owner id clears the
// reference instead of reaching the store as a dangling foreign key.
func (s *BusinessService) Update(ctx context.Context, placeID string, req dto.UpdateBusinessRequest, actor *models.JWTClaims) (*models.Business, error) {
	params := repository.UpdateBusinessParams{
		Title:       req.Title,
		Category:    req.Category,
		City:        req.City,
		Address:     req.Address,
		Phone:       req.Phone,
		Website:     req.Website,
		Email:       req.Email,
		Description: req.Description,
		Featured:    req.Featured,
	}
	if req.OwnerID != nil {
		params.OwnerSet = true
		if owner := strings.TrimSpace(*req.OwnerID); owner != "" {
			params.OwnerID = &owner
		}
	}
	if req.Status != nil {
		status := models.BusinessStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		if status != models.BusinessStatusActive && status != models.BusinessStatusInactive {
			return nil, appErrors.Clone(appErrors.ErrValidation, "status must be ACTIVE or INACTIVE")
		}
		params.Status = &status
	}

	business, err := s.repo.Update(ctx, placeID, params)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "business not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update business")
	}

	s.invalidate(ctx)
	s.emitAudit(ctx, actor, models.AuditActionBusinessUpdate, placeID, business)
	return business, nil
}

// SetFeatured flips the featured flag directly, independent of the
// featured-request workflow.
func (s *BusinessService) SetFeatured(ctx context.Context, placeID string, featured bool, actor *models.JWTClaims) (*models.Business, error) {
	business, err := s.repo.SetFeatured(ctx, placeID, featured)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "business not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle featured flag")
	}
	s.invalidate(ctx)
	s.emitAudit(ctx, actor, models.AuditActionBusinessUpdate, placeID, business)
	return business, nil
}

// Delete removes a single listing.
func (s *BusinessService) Delete(ctx context.Context, placeID string, actor *models.JWTClaims) error {
	if err := s.repo.Delete(ctx, placeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "business not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete business")
	}
	s.invalidate(ctx)
	s.emitAudit(ctx, actor, models.AuditActionBusinessDelete, placeID, nil)
	return nil
}

// BulkDelete removes each listed id independently. A missing id counts as a
// per-item failure and never aborts the batch.
func (s *BusinessService) BulkDelete(ctx context.Context, req dto.BulkDeleteBusinessesRequest, actor *models.JWTClaims) (*models.BulkOperationResult, error) {
	result, err := ApplyBatch(ctx, req.BusinessIDs, func(ctx context.Context, placeID string) error {
		if err := s.repo.Delete(ctx, placeID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errors.New("business not found")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.emitAudit(ctx, actor, models.AuditActionBusinessBulkDel, "", result)
	return result, nil
}

func (s *BusinessService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateListings(ctx)
	}
}

func (s *BusinessService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, resourceID string, payload interface{}) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		Action:    action,
		Resource:  "business",
		IPAddress: "system",
		UserAgent: "business-service",
	}
	if actor != nil {
		log.UserID = &actor.UserID
	}
	if resourceID != "" {
		log.ResourceID = &resourceID
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			log.NewValues = raw
		}
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}
