package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/santhokumarp/salonhub/internal/config"
	"github.com/santhokumarp/salonhub/internal/model"
	"github.com/santhokumarp/salonhub/internal/repository"
	"github.com/santhokumarp/salonhub/internal/scheduler"
)

// SlotsHandler serves public slot availability: the per-date listing and
// the forward calendar of bookable dates.
type SlotsHandler struct {
	Cfg      config.Config
	Slots    *repository.SlotRepo
	Schedule *repository.ScheduleRepo
}

func NewSlotsHandler(cfg config.Config, s *repository.SlotRepo, sch *repository.ScheduleRepo) *SlotsHandler {
	return &SlotsHandler{Cfg: cfg, Slots: s, Schedule: sch}
}

// ListByDate returns the available slots for one date. Holidays are
// rejected up front so a stale instance row can never advertise a closed
// day.
func (h *SlotsHandler) ListByDate(c echo.Context) error {
	date, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	holiday, err := h.Schedule.IsHoliday(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if holiday {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking not allowed on holidays"})
	}

	slots, err := h.Slots.ListAvailableByDate(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"date": model.DateKey(date), "slots": slots})
}

// AvailableDates returns the bookable dates over the forward horizon.
// Dates inside the rolling window are judged by materialized instances;
// beyond the window, where no instances exist yet, a date counts as
// bookable when the calendar is open and at least one active template is
// configured.
func (h *SlotsHandler) AvailableDates(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	holidays, err := h.Schedule.ListHolidays(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	days, err := h.Schedule.ListWorkingDays(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	templates, err := h.Schedule.ListTemplates(ctx, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	pol := scheduler.NewPolicy(holidays, days)

	now := time.Now().UTC()
	horizon := h.Cfg.HorizonDays
	counts, err := h.Slots.AvailableCountsByDate(ctx, now, now.AddDate(0, 0, horizon-1))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	dates := make([]string, 0, horizon)
	for i := 0; i < horizon; i++ {
		d := now.AddDate(0, 0, i)
		if pol.IsClosed(d) {
			continue
		}
		key := model.DateKey(d)
		if i < h.Cfg.WindowDays {
			if counts[key] > 0 {
				dates = append(dates, key)
			}
			continue
		}
		if len(templates) > 0 {
			dates = append(dates, key)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"dates": dates})
}
