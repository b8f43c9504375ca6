package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citypages/directory-api/internal/dto"
	"github.com/citypages/directory-api/internal/models"
	"github.com/citypages/directory-api/internal/repository"
	appErrors "github.com/citypages/directory-api/pkg/errors"
	"github.com/citypages/directory-api/pkg/jobs"
	"github.com/citypages/directory-api/pkg/storage"
)

type mockExportRepo struct {
	jobs    map[string]*models.ExportJob
	updates []repository.UpdateExportJobParams
}

func (m *mockExportRepo) Create(_ context.Context, job *models.ExportJob) error {
	if m.jobs == nil {
		m.jobs = map[string]*models.ExportJob{}
	}
	m.jobs[job.ID] = job
	return nil
}

func (m *mockExportRepo) GetByID(_ context.Context, id string) (*models.ExportJob, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return job, nil
}

func (m *mockExportRepo) Update(_ context.Context, id string, params repository.UpdateExportJobParams) error {
	m.updates = append(m.updates, params)
	job, ok := m.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (m *mockExportRepo) ListQueued(_ context.Context, _ int) ([]models.ExportJob, error) {
	var out []models.ExportJob
	for _, job := range m.jobs {
		if job.Status == models.ExportStatusQueued {
			out = append(out, *job)
		}
	}
	return out, nil
}

type stubQueue struct {
	enqueued []jobs.Job
	err      error
}

func (s *stubQueue) Enqueue(job jobs.Job) error {
	if s.err != nil {
		return s.err
	}
	s.enqueued = append(s.enqueued, job)
	return nil
}

type stubClaimLister struct {
	claims []models.OwnershipClaim
}

func (s *stubClaimLister) List(_ context.Context, _ models.ClaimFilter) ([]models.OwnershipClaim, error) {
	return s.claims, nil
}

func newExportFixture(t *testing.T, repo *mockExportRepo, businesses *mockDirectoryRepo) (*ExportService, *stubQueue) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	svc := NewExportService(repo, businesses, &stubClaimLister{}, store, signer, nil)
	queue := &stubQueue{}
	svc.SetQueue(queue)
	return svc, queue
}

func TestExportServiceEnqueueRejectsUnknownKind(t *testing.T) {
	svc, _ := newExportFixture(t, &mockExportRepo{}, &mockDirectoryRepo{})

	_, err := svc.Enqueue(context.Background(), dto.CreateExportRequest{Kind: "invoices", Format: models.ExportFormatCSV}, adminActor())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportServiceEnqueueRejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportFixture(t, &mockExportRepo{}, &mockDirectoryRepo{})

	_, err := svc.Enqueue(context.Background(), dto.CreateExportRequest{Kind: models.ExportKindBusinesses, Format: "xlsx"}, adminActor())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportServiceEnqueueCreatesQueuedJob(t *testing.T) {
	repo := &mockExportRepo{}
	svc, queue := newExportFixture(t, repo, &mockDirectoryRepo{})

	job, err := svc.Enqueue(context.Background(), dto.CreateExportRequest{
		Kind:   models.ExportKindBusinesses,
		Format: models.ExportFormatCSV,
		City:   " Porto ",
	}, adminActor())
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	assert.Equal(t, "Porto", job.Params.City)
	assert.Equal(t, "admin-1", job.CreatedBy)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, job.ID, queue.enqueued[0].ID)
}

func TestExportServiceEnqueueFailureMarksJobFailed(t *testing.T) {
	repo := &mockExportRepo{}
	svc, queue := newExportFixture(t, repo, &mockDirectoryRepo{})
	queue.err = errors.New("queue full")

	_, err := svc.Enqueue(context.Background(), dto.CreateExportRequest{
		Kind:   models.ExportKindBusinesses,
		Format: models.ExportFormatCSV,
	}, adminActor())
	require.Error(t, err)
	require.Len(t, repo.jobs, 1)
	for _, job := range repo.jobs {
		assert.Equal(t, models.ExportStatusFailed, job.Status)
		require.NotNil(t, job.ErrorMessage)
	}
}

func TestExportServiceProcessRendersCSV(t *testing.T) {
	owner := "user-1"
	businesses := &mockDirectoryRepo{businesses: map[string]*models.Business{
		"place-1": {PlaceID: "place-1", Title: "Corner Cafe", Category: "cafe", City: "Porto", OwnerID: &owner, Status: models.BusinessStatusActive},
	}}
	repo := &mockExportRepo{jobs: map[string]*models.ExportJob{
		"job-1": {
			ID:     "job-1",
			Kind:   models.ExportKindBusinesses,
			Params: models.ExportJobParams{Format: models.ExportFormatCSV},
			Status: models.ExportStatusQueued,
		},
	}}
	svc, _ := newExportFixture(t, repo, businesses)

	require.NoError(t, svc.Process(context.Background(), jobs.Job{ID: "job-1"}))

	job := repo.jobs["job-1"]
	assert.Equal(t, models.ExportStatusFinished, job.Status)
	require.NotNil(t, job.ResultURL)
	require.NotNil(t, job.FinishedAt)

	path, err := svc.ResolveDownload(*job.ResultURL)
	require.NoError(t, err)
	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "place_id,"))
	assert.Contains(t, string(payload), "Corner Cafe")
}

func TestExportServiceProcessSkipsFinishedJob(t *testing.T) {
	repo := &mockExportRepo{jobs: map[string]*models.ExportJob{
		"job-1": {ID: "job-1", Kind: models.ExportKindBusinesses, Status: models.ExportStatusFinished},
	}}
	svc, _ := newExportFixture(t, repo, &mockDirectoryRepo{})

	require.NoError(t, svc.Process(context.Background(), jobs.Job{ID: "job-1"}))
	assert.Empty(t, repo.updates)
}

func TestExportServiceResolveDownloadRejectsBadToken(t *testing.T) {
	svc, _ := newExportFixture(t, &mockExportRepo{}, &mockDirectoryRepo{})

	_, err := svc.ResolveDownload("not-a-token")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestExportServiceRequeuePending(t *testing.T) {
	repo := &mockExportRepo{jobs: map[string]*models.ExportJob{
		"job-1": {ID: "job-1", Kind: models.ExportKindBusinesses, Status: models.ExportStatusQueued},
		"job-2": {ID: "job-2", Kind: models.ExportKindClaims, Status: models.ExportStatusFinished},
	}}
	svc, queue := newExportFixture(t, repo, &mockDirectoryRepo{})

	require.NoError(t, svc.RequeuePending(context.Background(), 10))
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "job-1", queue.enqueued[0].ID)
}
