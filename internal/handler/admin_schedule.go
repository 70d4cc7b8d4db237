package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/santhokumarp/salonhub/internal/model"
	"github.com/santhokumarp/salonhub/internal/repository"
	"github.com/santhokumarp/salonhub/internal/scheduler"
)

// ScheduleHandler serves the admin schedule surface: slot templates,
// holidays and the weekly working-day rules. Mutations that change what
// should exist in the rolling window run the generator sweep synchronously
// so the admin sees the effect immediately.
type ScheduleHandler struct {
	Schedule  *repository.ScheduleRepo
	Slots     *repository.SlotRepo
	Generator *scheduler.Generator
}

func NewScheduleHandler(sch *repository.ScheduleRepo, slots *repository.SlotRepo, gen *scheduler.Generator) *ScheduleHandler {
	return &ScheduleHandler{Schedule: sch, Slots: slots, Generator: gen}
}

// sweep runs the generator after a schedule mutation. Failures are logged,
// not surfaced: the mutation itself already committed and the timer sweep
// will realign instances shortly.
func (h *ScheduleHandler) sweep(ctx context.Context) {
	if err := h.Generator.Sweep(ctx); err != nil {
		log.Printf("schedule: post-update sweep failed: %v", err)
	}
}

// ---- slot templates ----

type templateReq struct {
	StartTime string `json:"start_time"` // HH:MM or HH:MM:SS
	EndTime   string `json:"end_time"`
	IsActive  *bool  `json:"is_active"`
}

type templateResp struct {
	ID          uint64 `json:"id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	DurationMin int    `json:"duration_min"`
	IsActive    bool   `json:"is_active"`
}

func toTemplateResp(t model.SlotTemplate) templateResp {
	return templateResp{
		ID:          t.ID,
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
		DurationMin: t.DurationMinutes(),
		IsActive:    t.IsActive,
	}
}

func (r templateReq) window() (start, end int, ok bool) {
	start, ok = model.ClockMinutes(r.StartTime)
	if !ok {
		return 0, 0, false
	}
	end, ok = model.ClockMinutes(r.EndTime)
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// ListTemplates returns every template, active or not.
func (h *ScheduleHandler) ListTemplates(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	templates, err := h.Schedule.ListTemplates(ctx, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]templateResp, 0, len(templates))
	for _, t := range templates {
		out = append(out, toTemplateResp(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"templates": out})
}

// CreateTemplate adds a daily time window and materializes its instances
// for the rolling window before responding.
func (h *ScheduleHandler) CreateTemplate(c echo.Context) error {
	var req templateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	start, end, ok := req.window()
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time and end_time must be HH:MM[:SS]"})
	}
	if end <= start {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	t := model.SlotTemplate{StartTime: req.StartTime, EndTime: req.EndTime, IsActive: active}
	if err := h.Schedule.CreateTemplate(ctx, &t); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "template with this window already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	h.sweep(ctx)
	return c.JSON(http.StatusCreated, toTemplateResp(t))
}

// UpdateTemplate rewrites a template's window or active flag, then
// realigns the rolling window.
func (h *ScheduleHandler) UpdateTemplate(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req templateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	start, end, ok := req.window()
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time and end_time must be HH:MM[:SS]"})
	}
	if end <= start {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	t, err := h.Schedule.GetTemplate(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "template not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	t.StartTime = req.StartTime
	t.EndTime = req.EndTime
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if err := h.Schedule.UpdateTemplate(ctx, t); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "template with this window already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.sweep(ctx)
	return c.JSON(http.StatusOK, toTemplateResp(t))
}

// DeleteTemplate removes a template, refusing while any non-blocked
// instance still references it. Deactivation is the safe alternative.
func (h *ScheduleHandler) DeleteTemplate(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	live, err := h.Slots.HasNonBlockedByTemplate(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if live {
		return c.JSON(http.StatusConflict, echo.Map{"error": "template has live slot instances; deactivate it instead"})
	}
	if err := h.Schedule.DeleteTemplate(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "template not found"})
		}
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "template slots are referenced by booking history; deactivate it instead"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.sweep(ctx)
	return c.JSON(http.StatusOK, echo.Map{"message": "template deleted"})
}

// ---- holidays ----

type holidayReq struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Reason string `json:"reason"`
}

type holidayResp struct {
	ID     uint64 `json:"id"`
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

func toHolidayResp(hol model.Holiday) holidayResp {
	return holidayResp{ID: hol.ID, Date: model.DateKey(hol.Date), Reason: hol.Reason}
}

// ListHolidays returns configured holidays in date order.
func (h *ScheduleHandler) ListHolidays(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	holidays, err := h.Schedule.ListHolidays(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]holidayResp, 0, len(holidays))
	for _, hol := range holidays {
		out = append(out, toHolidayResp(hol))
	}
	return c.JSON(http.StatusOK, echo.Map{"holidays": out})
}

// CreateHoliday marks a date as closed and blocks its window instances.
func (h *ScheduleHandler) CreateHoliday(c echo.Context) error {
	var req holidayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	hol := model.Holiday{Date: date, Reason: req.Reason}
	if err := h.Schedule.CreateHoliday(ctx, &hol); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "holiday already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	h.sweep(ctx)
	return c.JSON(http.StatusCreated, toHolidayResp(hol))
}

// DeleteHoliday reopens a date; its blocked instances return to available
// on the sweep.
func (h *ScheduleHandler) DeleteHoliday(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Schedule.DeleteHoliday(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "holiday not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.sweep(ctx)
	return c.JSON(http.StatusOK, echo.Map{"message": "holiday deleted"})
}

// ---- working days ----

type workingDayReq struct {
	Weekday   *int  `json:"weekday"` // 0=Monday .. 6=Sunday
	IsWorking *bool `json:"is_working"`
}

// ListWorkingDays returns the weekly rules.
func (h *ScheduleHandler) ListWorkingDays(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	days, err := h.Schedule.ListWorkingDays(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	type dayResp struct {
		Weekday   int  `json:"weekday"`
		IsWorking bool `json:"is_working"`
	}
	out := make([]dayResp, 0, len(days))
	for _, d := range days {
		out = append(out, dayResp{Weekday: d.Weekday, IsWorking: d.IsWorking})
	}
	return c.JSON(http.StatusOK, echo.Map{"working_days": out})
}

// UpsertWorkingDay sets the rule for one weekday and realigns the window.
func (h *ScheduleHandler) UpsertWorkingDay(c echo.Context) error {
	var req workingDayReq
	if err := c.Bind(&req); err != nil || req.Weekday == nil || req.IsWorking == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "weekday and is_working required"})
	}
	if *req.Weekday < 0 || *req.Weekday > 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "weekday must be 0 (Monday) to 6 (Sunday)"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Schedule.UpsertWorkingDay(ctx, *req.Weekday, *req.IsWorking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	h.sweep(ctx)
	return c.JSON(http.StatusOK, echo.Map{"weekday": *req.Weekday, "is_working": *req.IsWorking})
}
