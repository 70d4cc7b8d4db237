package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/santhokumarp/salonhub/internal/booking"
	"github.com/santhokumarp/salonhub/internal/repository"
)

// AdminBookingHandler serves the admin decision surface: listing, accept,
// decline and the reporting read-model.
type AdminBookingHandler struct {
	Lifecycle *booking.Lifecycle
	Bookings  *repository.BookingRepo
}

func NewAdminBookingHandler(lc *booking.Lifecycle, b *repository.BookingRepo) *AdminBookingHandler {
	return &AdminBookingHandler{Lifecycle: lc, Bookings: b}
}

type decisionReq struct {
	BookingID uint64 `json:"booking_id"`
	Note      string `json:"note"`
}

// List returns every booking, newest first.
func (h *AdminBookingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	details, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// Accept confirms a pending booking.
func (h *AdminBookingHandler) Accept(c echo.Context) error {
	return h.decide(c, true)
}

// Decline rejects a pending booking and releases its slots.
func (h *AdminBookingHandler) Decline(c echo.Context) error {
	return h.decide(c, false)
}

func (h *AdminBookingHandler) decide(c echo.Context, accept bool) error {
	var req decisionReq
	if err := c.Bind(&req); err != nil || req.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var err error
	if accept {
		_, err = h.Lifecycle.Accept(ctx, req.BookingID, req.Note)
	} else {
		_, err = h.Lifecycle.Decline(ctx, req.BookingID, req.Note)
	}
	if err != nil {
		switch {
		case err == sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, booking.ErrInvalidTransition):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is not pending"})
		}
		log.Printf("admin decision on booking %d: %v", req.BookingID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decision failed"})
	}

	detail, err := h.Bookings.GetDetail(ctx, req.BookingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	publishDecision(detail)
	return c.JSON(http.StatusOK, detail)
}

// Stats returns booking counts per status and realized revenue. The lazy
// completion sweep runs first so confirmed bookings whose slot has passed
// are counted as completed.
func (h *AdminBookingHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if n, err := h.Lifecycle.CompleteDue(ctx, time.Now().UTC()); err != nil {
		log.Printf("stats: completion sweep failed: %v", err)
	} else if n > 0 {
		log.Printf("stats: completed %d past bookings", n)
	}

	stats, err := h.Bookings.GetStats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, stats)
}
