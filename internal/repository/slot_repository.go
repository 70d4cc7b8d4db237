package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/santhokumarp/salonhub/internal/model"
)

// SlotRepo provides access to slot_instances, the only contended table in
// the system. Every read-then-transition sequence must go through the Tx
// methods while holding row locks; multi-row locks are always acquired in
// ascending id order so concurrent checkouts cannot deadlock.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo returns a SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *SlotRepo) DB() *sql.DB { return r.db }

const slotColumns = `id, template_id, slot_date, status, reserved_by, reserved_until, booked_by, booked_service_id`

func scanSlot(row interface{ Scan(...interface{}) error }) (model.SlotInstance, error) {
	var (
		s             model.SlotInstance
		reservedBy    sql.NullInt64
		reservedUntil sql.NullTime
		bookedBy      sql.NullInt64
		bookedService sql.NullInt64
	)
	err := row.Scan(&s.ID, &s.TemplateID, &s.Date, &s.Status, &reservedBy, &reservedUntil, &bookedBy, &bookedService)
	if err != nil {
		return s, err
	}
	if reservedBy.Valid {
		v := uint64(reservedBy.Int64)
		s.ReservedBy = &v
	}
	if reservedUntil.Valid {
		t := reservedUntil.Time
		s.ReservedUntil = &t
	}
	if bookedBy.Valid {
		v := uint64(bookedBy.Int64)
		s.BookedBy = &v
	}
	if bookedService.Valid {
		v := uint64(bookedService.Int64)
		s.BookedServiceID = &v
	}
	return s, nil
}

// GetByIDForUpdateTx locks a single slot instance row and returns its
// current state. sql.ErrNoRows when the instance does not exist.
func (r *SlotRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.SlotInstance, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM slot_instances WHERE id = ? FOR UPDATE`, id)
	return scanSlot(row)
}

// ListByTemplatesAndDateForUpdateTx locks and returns every instance of
// the given templates on one date. Rows come back ordered by id ascending,
// which is also the lock acquisition order.
func (r *SlotRepo) ListByTemplatesAndDateForUpdateTx(ctx context.Context, tx *sql.Tx, templateIDs []uint64, date time.Time) ([]model.SlotInstance, error) {
	if len(templateIDs) == 0 {
		return []model.SlotInstance{}, nil
	}
	placeholders := make([]string, 0, len(templateIDs))
	args := make([]interface{}, 0, len(templateIDs)+1)
	for _, id := range templateIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	args = append(args, model.DateKey(date))
	q := `SELECT ` + slotColumns + ` FROM slot_instances
	      WHERE template_id IN (` + strings.Join(placeholders, ",") + `) AND slot_date = ?
	      ORDER BY id ASC FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]model.SlotInstance, 0, len(templateIDs))
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// ListByIDsForUpdateTx locks and returns the given instances. Rows come
// back ordered by id ascending, which is also the lock acquisition order.
func (r *SlotRepo) ListByIDsForUpdateTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]model.SlotInstance, error) {
	if len(ids) == 0 {
		return []model.SlotInstance{}, nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT ` + slotColumns + ` FROM slot_instances
	      WHERE id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY id ASC FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]model.SlotInstance, 0, len(ids))
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// MarkBookedTx transitions the given instances to booked, stamping the
// booking actor and the primary service. The caller must already hold the
// row locks.
func (r *SlotRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, ids []uint64, userID uint64, serviceID uint64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(ids))
	args := []interface{}{userID, serviceID}
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE slot_instances
		 SET status = 'booked', booked_by = ?, booked_service_id = ?, reserved_by = NULL, reserved_until = NULL
		 WHERE id IN (`+strings.Join(placeholders, ",")+`)`, args...)
	return err
}

// ReleaseTx returns the given instances to available, clearing every
// reservation and booking actor field. Used by admin decline and by
// booking cancellation.
func (r *SlotRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE slot_instances
		 SET status = 'available', reserved_by = NULL, reserved_until = NULL, booked_by = NULL, booked_service_id = NULL
		 WHERE id IN (`+strings.Join(placeholders, ",")+`)`, args...)
	return err
}

// ListThrough returns every slot instance whose date is on or before the
// given end date, ordered by date then id. The rolling generator feeds
// this into its planner: it covers both the stale past and the current
// window.
func (r *SlotRepo) ListThrough(ctx context.Context, end time.Time) ([]model.SlotInstance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+slotColumns+` FROM slot_instances WHERE slot_date <= ? ORDER BY slot_date, id`,
		model.DateKey(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]model.SlotInstance, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// CreateBulk inserts instances for (template, date) pairs in one
// statement. Actor fields start NULL; only status varies by calendar
// policy.
func (r *SlotRepo) CreateBulk(ctx context.Context, slots []model.SlotInstance) error {
	if len(slots) == 0 {
		return nil
	}
	query := `INSERT INTO slot_instances (template_id, slot_date, status) VALUES `
	args := make([]interface{}, 0, len(slots)*3)
	for i, s := range slots {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, s.TemplateID, model.DateKey(s.Date), s.Status)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// DeleteByIDs removes instances by id. The generator only deletes
// instances whose date has fallen out of the rolling window and that are
// not booked.
func (r *SlotRepo) DeleteByIDs(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM slot_instances WHERE id IN (`+strings.Join(placeholders, ",")+`)`, args...)
	return err
}

// RefreshStatus realigns instances to a new status and clears any stale
// reservation fields. Booked rows are excluded in the WHERE clause as a
// second line of defense; the planner never selects them.
func (r *SlotRepo) RefreshStatus(ctx context.Context, ids []uint64, status string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(ids))
	args := []interface{}{status}
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE slot_instances
		 SET status = ?, reserved_by = NULL, reserved_until = NULL
		 WHERE id IN (`+strings.Join(placeholders, ",")+`) AND status <> 'booked'`, args...)
	return err
}

// SlotView is a slot instance joined with its template window, shaped for
// the public availability listing.
type SlotView struct {
	ID        uint64 `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
}

// ListAvailableByDate returns the available instances on one date with
// their template windows, ordered by start time.
func (r *SlotRepo) ListAvailableByDate(ctx context.Context, date time.Time) ([]SlotView, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT si.id, si.slot_date,
		        TIME_FORMAT(st.start_time, '%H:%i:%s'), TIME_FORMAT(st.end_time, '%H:%i:%s'),
		        si.status
		 FROM slot_instances si
		 JOIN slot_templates st ON st.id = si.template_id
		 WHERE si.slot_date = ? AND si.status = 'available'
		 ORDER BY st.start_time`, model.DateKey(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	views := make([]SlotView, 0)
	for rows.Next() {
		var (
			v SlotView
			d time.Time
		)
		if err := rows.Scan(&v.ID, &d, &v.StartTime, &v.EndTime, &v.Status); err != nil {
			return nil, err
		}
		v.Date = model.DateKey(d)
		views = append(views, v)
	}
	return views, rows.Err()
}

// AvailableCountsByDate returns, for each date in [from, to], the number
// of available instances. Dates with zero rows are simply absent.
func (r *SlotRepo) AvailableCountsByDate(ctx context.Context, from, to time.Time) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT slot_date, COUNT(*) FROM slot_instances
		 WHERE slot_date BETWEEN ? AND ? AND status = 'available'
		 GROUP BY slot_date`, model.DateKey(from), model.DateKey(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var (
			d time.Time
			n int
		)
		if err := rows.Scan(&d, &n); err != nil {
			return nil, err
		}
		counts[model.DateKey(d)] = n
	}
	return counts, rows.Err()
}

// HasNonBlockedByTemplate reports whether any instance of the template is
// in a state other than blocked. Templates with live instances must not be
// deleted.
func (r *SlotRepo) HasNonBlockedByTemplate(ctx context.Context, templateID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM slot_instances WHERE template_id = ? AND status <> 'blocked' LIMIT 1`,
		templateID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
