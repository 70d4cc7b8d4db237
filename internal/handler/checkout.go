package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/santhokumarp/salonhub/internal/booking"
	"github.com/santhokumarp/salonhub/internal/middleware"
	"github.com/santhokumarp/salonhub/internal/model"
	"github.com/santhokumarp/salonhub/internal/queue"
	"github.com/santhokumarp/salonhub/internal/repository"
	queue_publisher "github.com/santhokumarp/salonhub/internal/service"
)

// CheckoutHandler serves the customer booking surface: checkout, booking
// history and cancellation.
type CheckoutHandler struct {
	Engine    *booking.Engine
	Lifecycle *booking.Lifecycle
	Bookings  *repository.BookingRepo
	Services  *repository.ServiceRepo
}

func NewCheckoutHandler(e *booking.Engine, lc *booking.Lifecycle, b *repository.BookingRepo, s *repository.ServiceRepo) *CheckoutHandler {
	return &CheckoutHandler{Engine: e, Lifecycle: lc, Bookings: b, Services: s}
}

type checkoutService struct {
	ServiceID uint64 `json:"service_id"`
	Quantity  int    `json:"quantity"` // defaults to 1
}

type checkoutReq struct {
	StartSlotID uint64            `json:"start_slot_id"`
	Services    []checkoutService `json:"services"` // optional; empty means "use my cart"
}

// Checkout books a contiguous run of slots starting at the requested slot.
// An explicit services list bypasses the cart; otherwise the cart is
// snapshotted and cleared atomically with the booking.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	var req checkoutReq
	if err := c.Bind(&req); err != nil || req.StartSlotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_slot_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	lines, err := h.resolveLines(ctx, req.Services)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		if e, ok := err.(validationError); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": string(e)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	res, err := h.Engine.Checkout(ctx, middleware.UserID(c), req.StartSlotID, lines)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSlotNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		case errors.Is(err, booking.ErrSlotUnavailable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot not available"})
		case errors.Is(err, booking.ErrInsufficientCapacity):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "not enough consecutive slots for the selected services"})
		case errors.Is(err, booking.ErrSlotSetIncomplete):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "required slots are not available"})
		case errors.Is(err, booking.ErrCartEmpty):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart is empty"})
		}
		log.Printf("checkout: transaction failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":        res.Booking.ID,
		"status":            res.Booking.Status,
		"date":              res.Date,
		"start_time":        res.StartTime,
		"end_time":          res.EndTime,
		"slot_ids":          res.SlotIDs,
		"base_total_paise":  res.Booking.BaseTotalPaise,
		"tax_percent":       res.Booking.TaxPercent,
		"tax_amount_paise":  res.Booking.TaxAmountPaise,
		"grand_total_paise": res.Booking.GrandTotalPaise,
	})
}

type validationError string

func (e validationError) Error() string { return string(e) }

// resolveLines turns the requested services into snapshot lines, folding
// repeated ids into one line per service. An empty list returns nil,
// which tells the engine to read the cart instead.
func (h *CheckoutHandler) resolveLines(ctx context.Context, reqs []checkoutService) ([]model.BookingLine, error) {
	ids, quantities := foldServices(reqs)
	if len(ids) == 0 {
		return nil, nil
	}
	lines := make([]model.BookingLine, 0, len(ids))
	for _, id := range ids {
		svc, err := h.Services.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !svc.IsActive {
			return nil, validationError("service is not active")
		}
		lines = append(lines, model.BookingLine{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			PricePaise:  svc.PricePaise,
			DurationMin: svc.DurationMin,
			Quantity:    quantities[id],
		})
	}
	return lines, nil
}

// foldServices collapses the request into one quantity per service id,
// preserving first-seen order. Zero ids are dropped and missing or
// non-positive quantities count as 1.
func foldServices(reqs []checkoutService) ([]uint64, map[uint64]int) {
	ids := make([]uint64, 0, len(reqs))
	quantities := make(map[uint64]int, len(reqs))
	for _, s := range reqs {
		if s.ServiceID == 0 {
			continue
		}
		q := s.Quantity
		if q < 1 {
			q = 1
		}
		if _, seen := quantities[s.ServiceID]; !seen {
			ids = append(ids, s.ServiceID)
		}
		quantities[s.ServiceID] += q
	}
	return ids, quantities
}

// Latest returns the caller's most recent booking with its lines.
func (h *CheckoutHandler) Latest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	detail, err := h.Bookings.LatestByUser(ctx, middleware.UserID(c))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no bookings yet"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, detail)
}

// History returns the caller's bookings, newest first. Admins see every
// booking.
func (h *CheckoutHandler) History(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		details []repository.BookingDetail
		err     error
	)
	if middleware.Role(c) == model.RoleAdmin {
		details, err = h.Bookings.ListAll(ctx)
	} else {
		details, err = h.Bookings.ListByUser(ctx, middleware.UserID(c))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// Cancel cancels a pending or confirmed booking and releases its slots.
// Customers may only cancel their own bookings.
func (h *CheckoutHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	isAdmin := middleware.Role(c) == model.RoleAdmin
	_, err = h.Lifecycle.Cancel(ctx, id, middleware.UserID(c), isAdmin)
	if err != nil {
		switch {
		case err == sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, booking.ErrInvalidTransition):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking can no longer be cancelled"})
		}
		log.Printf("cancel booking %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	detail, err := h.Bookings.GetDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	publishDecision(detail)
	return c.JSON(http.StatusOK, detail)
}

// publishDecision sends a notification event for a booking status change.
// Delivery is best-effort; failures are logged by the publisher and
// ignored here.
func publishDecision(d repository.BookingDetail) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishBookingDecision(ctx, queue.BookingDecisionEvent{
		BookingID:       d.ID,
		UserID:          d.UserID,
		UserEmail:       d.UserEmail,
		Status:          d.Status,
		AdminNote:       d.AdminNote,
		Date:            d.Date,
		StartTime:       d.StartTime,
		EndTime:         d.EndTime,
		GrandTotalPaise: d.GrandTotalPaise,
		DecidedAt:       time.Now().UTC().Format(time.RFC3339),
	})
}
