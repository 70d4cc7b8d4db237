package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/santhokumarp/salonhub/internal/model"
)

// ScheduleRepo provides access to the tables that define the recurring
// schedule: slot_templates, working_days and holidays. Slot instances live
// in their own repository; this one only covers the rules the rolling
// generator and the calendar policy read.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo returns a ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *ScheduleRepo) DB() *sql.DB { return r.db }

// ---- slot templates ----

// CreateTemplate inserts a slot template. The (start_time, end_time) pair
// is unique; duplicates surface as ErrConflict.
func (r *ScheduleRepo) CreateTemplate(ctx context.Context, t *model.SlotTemplate) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO slot_templates (start_time, end_time, is_active) VALUES (?, ?, ?)`,
		t.StartTime, t.EndTime, t.IsActive)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// UpdateTemplate rewrites a template's window and active flag.
func (r *ScheduleRepo) UpdateTemplate(ctx context.Context, t model.SlotTemplate) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE slot_templates SET start_time=?, end_time=?, is_active=? WHERE id=?`,
		t.StartTime, t.EndTime, t.IsActive, t.ID)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrConflict
	}
	return err
}

// DeleteTemplate removes a template together with its remaining blocked
// instances. Nothing cascades in the schema, so the instance rows must go
// first or the template delete hits the foreign key. The caller must have
// verified that no non-blocked instance still references the template.
func (r *ScheduleRepo) DeleteTemplate(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM slot_instances WHERE template_id = ? AND status = 'blocked'`, id); err != nil {
		// 1451: an instance is still referenced by a booking's history.
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM slot_templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetTemplate returns one template by id. sql.ErrNoRows on miss.
func (r *ScheduleRepo) GetTemplate(ctx context.Context, id uint64) (model.SlotTemplate, error) {
	var t model.SlotTemplate
	err := r.db.QueryRowContext(ctx,
		`SELECT id, TIME_FORMAT(start_time, '%H:%i:%s'), TIME_FORMAT(end_time, '%H:%i:%s'), is_active
		 FROM slot_templates WHERE id=?`, id).
		Scan(&t.ID, &t.StartTime, &t.EndTime, &t.IsActive)
	return t, err
}

// ListTemplates returns all templates ordered by start_time. The ordering
// matters: the allocation engine's forward scan assumes it.
func (r *ScheduleRepo) ListTemplates(ctx context.Context, activeOnly bool) ([]model.SlotTemplate, error) {
	q := `SELECT id, TIME_FORMAT(start_time, '%H:%i:%s'), TIME_FORMAT(end_time, '%H:%i:%s'), is_active
	      FROM slot_templates`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	templates := make([]model.SlotTemplate, 0)
	for rows.Next() {
		var t model.SlotTemplate
		if err := rows.Scan(&t.ID, &t.StartTime, &t.EndTime, &t.IsActive); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// ---- working days ----

// UpsertWorkingDay creates or updates the rule for one weekday
// (0=Monday .. 6=Sunday).
func (r *ScheduleRepo) UpsertWorkingDay(ctx context.Context, weekday int, isWorking bool) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO working_days (weekday, is_working) VALUES (?, ?)
		 ON DUPLICATE KEY UPDATE is_working = VALUES(is_working)`,
		weekday, isWorking)
	return err
}

// ListWorkingDays returns every configured weekday rule. Weekdays without
// a row default to working when the policy is evaluated.
func (r *ScheduleRepo) ListWorkingDays(ctx context.Context) ([]model.WorkingDay, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, weekday, is_working FROM working_days ORDER BY weekday`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	days := make([]model.WorkingDay, 0)
	for rows.Next() {
		var d model.WorkingDay
		if err := rows.Scan(&d.ID, &d.Weekday, &d.IsWorking); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// ---- holidays ----

// CreateHoliday inserts a holiday date. Duplicate dates surface as
// ErrConflict.
func (r *ScheduleRepo) CreateHoliday(ctx context.Context, h *model.Holiday) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO holidays (holiday_date, reason) VALUES (?, ?)`,
		model.DateKey(h.Date), h.Reason)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// DeleteHoliday removes a holiday by id. sql.ErrNoRows when absent.
func (r *ScheduleRepo) DeleteHoliday(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListHolidays returns all holidays ordered by date.
func (r *ScheduleRepo) ListHolidays(ctx context.Context) ([]model.Holiday, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, holiday_date, reason FROM holidays ORDER BY holiday_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	holidays := make([]model.Holiday, 0)
	for rows.Next() {
		var h model.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Reason); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// IsHoliday reports whether the given date appears in the holiday set.
func (r *ScheduleRepo) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM holidays WHERE holiday_date = ? LIMIT 1`, model.DateKey(date)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
