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
	appErrors "github.com/citypages/directory-api/pkg/errors"
)

type socialRepository interface {
	Create(ctx context.Context, link *models.SocialMediaLink) error
	GetByID(ctx context.Context, id int64) (*models.SocialMediaLink, error)
	List(ctx context.Context, activeOnly bool) ([]models.SocialMediaLink, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Toggle(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// SocialService manages the site-wide social links, including the admin
// bulk actions.
type SocialService struct {
	repo      socialRepository
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSocialService constructs the service.
func NewSocialService(repo socialRepository, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *SocialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SocialService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// Create adds a new link, inactive links stay hidden from the public list.
func (s *SocialService) Create(ctx context.Context, req dto.CreateSocialLinkRequest, actor *models.JWTClaims) (*models.SocialMediaLink, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid social link payload")
	}
	link := &models.SocialMediaLink{
		Platform:  strings.ToLower(strings.TrimSpace(req.Platform)),
		URL:       strings.TrimSpace(req.URL),
		Label:     strings.TrimSpace(req.Label),
		Active:    true,
		SortOrder: req.SortOrder,
	}
	if err := s.repo.Create(ctx, link); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create social link")
	}
	return link, nil
}

// List returns links; activeOnly hides deactivated ones for public callers.
func (s *SocialService) List(ctx context.Context, activeOnly bool) ([]models.SocialMediaLink, error) {
	links, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list social links")
	}
	return links, nil
}

// Delete removes a single link.
func (s *SocialService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "social link not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete social link")
	}
	return nil
}

// BulkAction applies one recognised action to every id with per-item
// isolation. An unknown action or an empty id list fails the whole call
// before any link is touched.
func (s *SocialService) BulkAction(ctx context.Context, req dto.SocialBulkActionRequest, actor *models.JWTClaims) (*models.BulkOperationResult, error) {
	if !models.ValidSocialBulkAction(req.Action) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown bulk action")
	}

	result, err := ApplyBatch(ctx, req.LinkIDs, func(ctx context.Context, id int64) error {
		var opErr error
		switch req.Action {
		case models.SocialActionActivate:
			opErr = s.repo.SetActive(ctx, id, true)
		case models.SocialActionDeactivate:
			opErr = s.repo.SetActive(ctx, id, false)
		case models.SocialActionToggle:
			opErr = s.repo.Toggle(ctx, id)
		case models.SocialActionDelete:
			opErr = s.repo.Delete(ctx, id)
		}
		if errors.Is(opErr, sql.ErrNoRows) {
			return errors.New("link not found")
		}
		return opErr
	})
	if err != nil {
		return nil, err
	}

	s.emitAudit(ctx, actor, req, result)
	return result, nil
}

func (s *SocialService) emitAudit(ctx context.Context, actor *models.JWTClaims, req dto.SocialBulkActionRequest, result *models.BulkOperationResult) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		Action:    models.AuditActionSocialBulkAction,
		Resource:  "social_media_link",
		IPAddress: "system",
		UserAgent: "social-service",
	}
	if actor != nil {
		log.UserID = &actor.UserID
	}
	payload := map[string]interface{}{"action": req.Action, "result": result}
	if raw, err := json.Marshal(payload); err == nil {
		log.NewValues = raw
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}
