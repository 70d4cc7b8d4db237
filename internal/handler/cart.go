package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/santhokumarp/salonhub/internal/booking"
	"github.com/santhokumarp/salonhub/internal/middleware"
	"github.com/santhokumarp/salonhub/internal/model"
	"github.com/santhokumarp/salonhub/internal/repository"
)

// CartHandler serves the customer's service cart. Listings carry the same
// billing breakdown checkout will snapshot, at the configured tax rate.
type CartHandler struct {
	Cart       *repository.CartRepo
	Services   *repository.ServiceRepo
	TaxPercent int
}

func NewCartHandler(cart *repository.CartRepo, services *repository.ServiceRepo, taxPercent int) *CartHandler {
	return &CartHandler{Cart: cart, Services: services, TaxPercent: taxPercent}
}

type addCartReq struct {
	ServiceID uint64 `json:"service_id"`
}

type cartLineResp struct {
	ItemID      uint64 `json:"item_id"`
	ServiceID   uint64 `json:"service_id"`
	ServiceName string `json:"service_name"`
	PricePaise  int64  `json:"price_paise"`
	DurationMin int    `json:"duration_min"`
	Quantity    int    `json:"quantity"`
}

// Add puts a service in the caller's cart, bumping the quantity when the
// service is already there. Inactive services cannot be added.
func (h *CartHandler) Add(c echo.Context) error {
	var req addCartReq
	if err := c.Bind(&req); err != nil || req.ServiceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	svc, err := h.Services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !svc.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service is not active"})
	}

	if err := h.Cart.AddOrIncrement(ctx, middleware.UserID(c), req.ServiceID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add failed"})
	}
	return h.list(c, ctx, http.StatusCreated)
}

// List returns the caller's cart with live catalog details, the total
// duration and the billing breakdown checkout would produce right now.
func (h *CartHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	return h.list(c, ctx, http.StatusOK)
}

// Remove deletes one line from the caller's cart.
func (h *CartHandler) Remove(c echo.Context) error {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || itemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cart.Remove(ctx, middleware.UserID(c), itemID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove failed"})
	}
	return h.list(c, ctx, http.StatusOK)
}

func (h *CartHandler) list(c echo.Context, ctx context.Context, status int) error {
	lines, err := h.Cart.ListByUser(ctx, middleware.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]cartLineResp, 0, len(lines))
	totalMin := 0
	for _, l := range lines {
		out = append(out, cartLineResp{
			ItemID:      l.ItemID,
			ServiceID:   l.ServiceID,
			ServiceName: l.ServiceName,
			PricePaise:  l.PricePaise,
			DurationMin: l.DurationMin,
			Quantity:    l.Quantity,
		})
		totalMin += l.DurationMin * l.Quantity
	}
	totals := cartTotals(lines, h.TaxPercent)
	return c.JSON(status, echo.Map{
		"items":              out,
		"total_duration_min": totalMin,
		"base_total_paise":   totals.BasePaise,
		"tax_percent":        totals.TaxPercent,
		"tax_amount_paise":   totals.TaxPaise,
		"grand_total_paise":  totals.GrandPaise,
	})
}

// cartTotals prices the cart exactly the way checkout will, quantities
// included.
func cartTotals(lines []repository.CartLine, taxPercent int) booking.Totals {
	bl := make([]model.BookingLine, 0, len(lines))
	for _, l := range lines {
		bl = append(bl, model.BookingLine{
			ServiceID:   l.ServiceID,
			ServiceName: l.ServiceName,
			PricePaise:  l.PricePaise,
			DurationMin: l.DurationMin,
			Quantity:    l.Quantity,
		})
	}
	return booking.ComputeTotals(bl, taxPercent)
}
