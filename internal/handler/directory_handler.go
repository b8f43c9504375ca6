package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/citypages/directory-api/internal/dto"
	"github.com/citypages/directory-api/internal/models"
	"github.com/citypages/directory-api/pkg/response"
)

type directoryService interface {
	List(ctx context.Context, query dto.BusinessListQuery) (*dto.BusinessListResponse, error)
	Get(ctx context.Context, placeID string) (*models.Business, error)
	Categories(ctx context.Context) ([]models.CategoryCount, error)
	Cities(ctx context.Context) ([]models.CityCount, error)
}

// DirectoryHandler serves the public read side of the directory.
type DirectoryHandler struct {
	service directoryService
}

// NewDirectoryHandler constructs the handler.
func NewDirectoryHandler(service directoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// List godoc
// @Summary Search active listings
// @Tags Directory
// @Produce json
// @Param category query string false "Category filter"
// @Param city query string false "City filter"
// @Param q query string false "Free text search"
// @Param featured query bool false "Featured only"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /businesses [get]
func (h *DirectoryHandler) List(c *gin.Context) {
	query := dto.BusinessListQuery{
		Category: strings.TrimSpace(c.Query("category")),
		City:     strings.TrimSpace(c.Query("city")),
		Search:   strings.TrimSpace(c.Query("q")),
	}
	if raw := c.Query("featured"); raw != "" {
		if featured, err := strconv.ParseBool(raw); err == nil {
			query.Featured = &featured
		}
	}
	if raw := c.Query("page"); raw != "" {
		query.Page, _ = strconv.Atoi(raw)
	}
	if raw := c.Query("page_size"); raw != "" {
		query.PageSize, _ = strconv.Atoi(raw)
	}

	result, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Businesses, result.Pagination)
}

// Get godoc
// @Summary Get one listing
// @Tags Directory
// @Produce json
// @Param id path string true "Place ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /businesses/{id} [get]
func (h *DirectoryHandler) Get(c *gin.Context) {
	business, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var meta map[string]interface{}
	if claims := claimsFromContext(c); claims != nil && business.OwnerID != nil && *business.OwnerID == claims.UserID {
		meta = map[string]interface{}{"viewer_is_owner": true}
	}
	response.JSON(c, http.StatusOK, business, nil, meta)
}

// Categories godoc
// @Summary List categories with listing counts
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func (h *DirectoryHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// Cities godoc
// @Summary List cities with listing counts
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cities [get]
func (h *DirectoryHandler) Cities(c *gin.Context) {
	cities, err := h.service.Cities(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cities, nil)
}
