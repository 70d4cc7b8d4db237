package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/santhokumarp/salonhub/internal/model"
	"github.com/santhokumarp/salonhub/internal/repository"
)

// CatalogHandler serves the service catalog: public read access plus the
// admin CRUD surface.
type CatalogHandler struct {
	Services *repository.ServiceRepo
}

func NewCatalogHandler(s *repository.ServiceRepo) *CatalogHandler {
	return &CatalogHandler{Services: s}
}

type serviceResp struct {
	ID          uint64 `json:"id"`
	CategoryID  uint64 `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PricePaise  int64  `json:"price_paise"`
	DurationMin int    `json:"duration_min"`
	IsActive    bool   `json:"is_active"`
}

func toServiceResp(s model.Service) serviceResp {
	return serviceResp{
		ID:          s.ID,
		CategoryID:  s.CategoryID,
		Name:        s.Name,
		Description: s.Description,
		PricePaise:  s.PricePaise,
		DurationMin: s.DurationMin,
		IsActive:    s.IsActive,
	}
}

type categoryResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ListCategories is the public category listing.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cats, err := h.Services.ListCategories(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]categoryResp, 0, len(cats))
	for _, cat := range cats {
		out = append(out, categoryResp{ID: cat.ID, Name: cat.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": out})
}

// ListServices is the public catalog listing. Customers only ever see
// active services; admins use the admin listing for the full set.
func (h *CatalogHandler) ListServices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	services, err := h.Services.List(ctx, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]serviceResp, 0, len(services))
	for _, s := range services {
		out = append(out, toServiceResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"services": out})
}

// ---- admin ----

type categoryReq struct {
	Name string `json:"name"`
}

// CreateCategory adds a catalog category.
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Services.CreateCategory(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": strings.TrimSpace(req.Name)})
}

type serviceReq struct {
	CategoryID  uint64 `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PricePaise  int64  `json:"price_paise"`
	DurationMin int    `json:"duration_min"`
	IsActive    *bool  `json:"is_active"`
}

func (r serviceReq) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name required"
	}
	if r.CategoryID == 0 {
		return "category_id required"
	}
	if r.PricePaise < 0 {
		return "price_paise must not be negative"
	}
	if r.DurationMin <= 0 {
		return "duration_min must be positive"
	}
	return ""
}

// CreateService adds a catalog service.
func (h *CatalogHandler) CreateService(c echo.Context) error {
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := model.Service{
		CategoryID:  req.CategoryID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		PricePaise:  req.PricePaise,
		DurationMin: req.DurationMin,
		IsActive:    active,
	}
	if err := h.Services.Create(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toServiceResp(s))
}

// UpdateService rewrites a service. Deactivation is the supported way to
// retire a service; existing booking lines keep their snapshots either way.
func (h *CatalogHandler) UpdateService(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Services.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	existing.CategoryID = req.CategoryID
	existing.Name = strings.TrimSpace(req.Name)
	existing.Description = req.Description
	existing.PricePaise = req.PricePaise
	existing.DurationMin = req.DurationMin
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	if err := h.Services.Update(ctx, existing); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toServiceResp(existing))
}

// ListAllServices is the admin listing including inactive services.
func (h *CatalogHandler) ListAllServices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	services, err := h.Services.List(ctx, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]serviceResp, 0, len(services))
	for _, s := range services {
		out = append(out, toServiceResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"services": out})
}
