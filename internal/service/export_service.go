package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/citypages/directory-api/internal/dto"
	"github.com/citypages/directory-api/internal/models"
	"github.com/citypages/directory-api/internal/repository"
	appErrors "github.com/citypages/directory-api/pkg/errors"
	"github.com/citypages/directory-api/pkg/export"
	"github.com/citypages/directory-api/pkg/jobs"
	"github.com/citypages/directory-api/pkg/storage"
)

type exportRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ExportJob, error)
}

type exportClaimReader interface {
	List(ctx context.Context, filter models.ClaimFilter) ([]models.OwnershipClaim, error)
}

type exportEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// ExportService queues dataset exports, renders them in the background, and
// hands finished files out through signed URLs.
type ExportService struct {
	repo       exportRepository
	businesses directoryBusinessReader
	claims     exportClaimReader
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	storage    *storage.LocalStorage
	signer     *storage.SignedURLSigner
	queue      exportEnqueuer
	logger     *zap.Logger
}

// NewExportService constructs the service. Attach the queue afterwards with
// SetQueue; the queue handler needs the service and the service needs the
// queue.
func NewExportService(repo exportRepository, businesses directoryBusinessReader, claims exportClaimReader, store *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repo:       repo,
		businesses: businesses,
		claims:     claims,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		storage:    store,
		signer:     signer,
		logger:     logger,
	}
}

// SetQueue wires the background queue used for processing.
func (s *ExportService) SetQueue(queue exportEnqueuer) {
	s.queue = queue
}

// Enqueue records a new export job and schedules it.
func (s *ExportService) Enqueue(ctx context.Context, req dto.CreateExportRequest, actor *models.JWTClaims) (*models.ExportJob, error) {
	if req.Kind != models.ExportKindBusinesses && req.Kind != models.ExportKindClaims {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown export kind")
	}
	if req.Format != models.ExportFormatCSV && req.Format != models.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown export format")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export queue is not running")
	}

	job := &models.ExportJob{
		ID:   uuid.NewString(),
		Kind: req.Kind,
		Params: models.ExportJobParams{
			Format:   req.Format,
			Category: strings.TrimSpace(req.Category),
			City:     strings.TrimSpace(req.City),
			Status:   strings.ToUpper(strings.TrimSpace(req.Status)),
		},
		Status:    models.ExportStatusQueued,
		CreatedBy: actor.UserID,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Kind)}); err != nil {
		s.markFailed(ctx, job.ID, "queue is full")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export job")
	}
	return job, nil
}

// Get returns job status for polling.
func (s *ExportService) Get(ctx context.Context, id string) (*models.ExportJob, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	return job, nil
}

// RequeuePending re-enqueues jobs left QUEUED by a previous process.
func (s *ExportService) RequeuePending(ctx context.Context, limit int) error {
	if s.queue == nil {
		return nil
	}
	pending, err := s.repo.ListQueued(ctx, limit)
	if err != nil {
		return fmt.Errorf("list queued export jobs: %w", err)
	}
	for _, job := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Kind)}); err != nil {
			s.logger.Warn("failed to requeue export job", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
	return nil
}

// Process is the queue handler. It renders the dataset, stores the file, and
// records the signed download token on the job row.
func (s *ExportService) Process(ctx context.Context, job jobs.Job) error {
	record, err := s.repo.GetByID(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", job.ID, err)
	}
	if record.Status == models.ExportStatusFinished {
		return nil
	}

	processing := models.ExportStatusProcessing
	if err := s.repo.Update(ctx, record.ID, repository.UpdateExportJobParams{Status: &processing}); err != nil {
		return fmt.Errorf("mark export job processing: %w", err)
	}

	token, err := s.render(ctx, record)
	if err != nil {
		s.markFailed(ctx, record.ID, err.Error())
		return err
	}

	finished := models.ExportStatusFinished
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, record.ID, repository.UpdateExportJobParams{
		Status:     &finished,
		ResultURL:  &token,
		FinishedAt: &now,
	}); err != nil {
		return fmt.Errorf("finish export job: %w", err)
	}
	return nil
}

// ResolveDownload validates a signed token and returns the stored file path.
func (s *ExportService) ResolveDownload(token string) (string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	return s.storage.Path(relPath), nil
}

func (s *ExportService) render(ctx context.Context, job *models.ExportJob) (string, error) {
	var dataset export.Dataset
	var err error
	switch job.Kind {
	case models.ExportKindBusinesses:
		dataset, err = s.businessDataset(ctx, job.Params)
	case models.ExportKindClaims:
		dataset, err = s.claimDataset(ctx, job.Params)
	default:
		err = fmt.Errorf("unknown export kind %q", job.Kind)
	}
	if err != nil {
		return "", err
	}

	var payload []byte
	filename := fmt.Sprintf("%s-%s.%s", job.Kind, job.ID, job.Params.Format)
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, fmt.Sprintf("Directory export: %s", job.Kind))
	default:
		err = fmt.Errorf("unknown export format %q", job.Params.Format)
	}
	if err != nil {
		return "", err
	}

	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return "", fmt.Errorf("store export file: %w", err)
	}

	token, _, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return "", fmt.Errorf("sign export url: %w", err)
	}
	return token, nil
}

func (s *ExportService) businessDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, error) {
	filter := models.BusinessFilter{
		Category: params.Category,
		City:     params.City,
		Page:     1,
		PageSize: 10000,
	}
	if params.Status != "" {
		status := models.BusinessStatus(params.Status)
		filter.Status = &status
	}
	listings, _, err := s.businesses.List(ctx, filter)
	if err != nil {
		return export.Dataset{}, fmt.Errorf("load businesses for export: %w", err)
	}

	dataset := export.Dataset{
		Headers: []string{"place_id", "title", "category", "city", "featured", "owner_id", "status", "created_at"},
	}
	for _, b := range listings {
		owner := ""
		if b.OwnerID != nil {
			owner = *b.OwnerID
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"place_id":   b.PlaceID,
			"title":      b.Title,
			"category":   b.Category,
			"city":       b.City,
			"featured":   strconv.FormatBool(b.Featured),
			"owner_id":   owner,
			"status":     string(b.Status),
			"created_at": b.CreatedAt.Format(time.RFC3339),
		})
	}
	return dataset, nil
}

func (s *ExportService) claimDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, error) {
	filter := models.ClaimFilter{Limit: 10000}
	if params.Status != "" {
		filter.Status = []models.ReviewStatus{models.ReviewStatus(params.Status)}
	}
	claims, err := s.claims.List(ctx, filter)
	if err != nil {
		return export.Dataset{}, fmt.Errorf("load claims for export: %w", err)
	}

	dataset := export.Dataset{
		Headers: []string{"id", "business_id", "user_id", "status", "reviewed_by", "created_at"},
	}
	for _, c := range claims {
		reviewedBy := ""
		if c.ReviewedBy != nil {
			reviewedBy = *c.ReviewedBy
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"id":          strconv.FormatInt(c.ID, 10),
			"business_id": c.BusinessID,
			"user_id":     c.UserID,
			"status":      string(c.Status),
			"reviewed_by": reviewedBy,
			"created_at":  c.CreatedAt.Format(time.RFC3339),
		})
	}
	return dataset, nil
}

func (s *ExportService) markFailed(ctx context.Context, id, message string) {
	failed := models.ExportStatusFailed
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, id, repository.UpdateExportJobParams{
		Status:       &failed,
		ErrorMessage: &message,
		FinishedAt:   &now,
	}); err != nil {
		s.logger.Warn("failed to mark export job failed", zap.String("job_id", id), zap.Error(err))
	}
}
