package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/santhokumarp/salonhub/internal/model"
)

// BookingRepo provides access to bookings and booking_lines. Bookings are
// the aggregate created by checkout; lines snapshot catalog data at
// booking time and are never rewritten from the live catalog afterwards.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a booking within the scope of an existing transaction
// and populates the generated ID and timestamps. The caller must commit
// or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, start_slot_id, status, admin_note, base_total_paise, tax_percent, tax_amount_paise, grand_total_paise)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.StartSlotID, b.Status, b.AdminNote, b.BaseTotalPaise, b.TaxPercent, b.TaxAmountPaise, b.GrandTotalPaise)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM bookings WHERE id = ?`, b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

// CreateLinesBulkTx inserts the booking's service snapshots in a single
// statement. Passing an empty slice has no effect and returns nil.
func (r *BookingRepo) CreateLinesBulkTx(ctx context.Context, tx *sql.Tx, lines []model.BookingLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `INSERT INTO booking_lines (booking_id, service_id, service_name, price_paise, duration_min, quantity) VALUES `
	args := make([]interface{}, 0, len(lines)*6)
	for i, l := range lines {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, l.BookingID, l.ServiceID, l.ServiceName, l.PricePaise, l.DurationMin, l.Quantity)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// CreateSlotLinksTx records the exact slot instances a booking occupies.
// Decline and cancellation release from these rows instead of recomputing
// the run, so template edits after checkout cannot strand a booked
// instance.
func (r *BookingRepo) CreateSlotLinksTx(ctx context.Context, tx *sql.Tx, bookingID uint64, slotIDs []uint64) error {
	if len(slotIDs) == 0 {
		return nil
	}
	query := `INSERT INTO booking_slots (booking_id, slot_id) VALUES `
	args := make([]interface{}, 0, len(slotIDs)*2)
	for i, id := range slotIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, bookingID, id)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// SlotIDsByBookingTx returns the booking's recorded slot ids in ascending
// order, which is also the lock acquisition order on release.
func (r *BookingRepo) SlotIDsByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT slot_id FROM booking_slots WHERE booking_id = ? ORDER BY slot_id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReferencedSlotIDs returns the ids of slot instances some booking still
// points at, either as its start slot or through booking_slots. These rows
// back history reads and carry restricting foreign keys, so the rolling
// generator must never delete them.
func (r *BookingRepo) ReferencedSlotIDs(ctx context.Context) (map[uint64]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT start_slot_id FROM bookings UNION SELECT slot_id FROM booking_slots`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make(map[uint64]bool)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// GetByIDForUpdateTx locks a booking row and returns it. sql.ErrNoRows on
// miss. Admin accept/decline and cancellation go through this so two
// concurrent decisions on the same booking serialize.
func (r *BookingRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	var (
		b    model.Booking
		note sql.NullString
	)
	err := tx.QueryRowContext(ctx,
		`SELECT id, user_id, start_slot_id, status, admin_note, base_total_paise, tax_percent, tax_amount_paise, grand_total_paise, created_at, updated_at
		 FROM bookings WHERE id = ? FOR UPDATE`, id).
		Scan(&b.ID, &b.UserID, &b.StartSlotID, &b.Status, &note, &b.BaseTotalPaise, &b.TaxPercent, &b.TaxAmountPaise, &b.GrandTotalPaise, &b.CreatedAt, &b.UpdatedAt)
	if note.Valid {
		b.AdminNote = note.String
	}
	return b, err
}

// UpdateStatusTx rewrites a booking's status (and admin note) inside the
// transaction.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status, note string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, admin_note = ? WHERE id = ?`, status, note, id)
	return err
}

// BookingDetail is a booking joined with its lines, start-slot window and
// owning user, shaped for history and admin listings.
type BookingDetail struct {
	ID              uint64       `json:"id"`
	UserID          uint64       `json:"user_id"`
	UserEmail       string       `json:"user_email"`
	Status          string       `json:"status"`
	AdminNote       string       `json:"admin_note,omitempty"`
	Date            string       `json:"date"`
	StartTime       string       `json:"start_time"`
	EndTime         string       `json:"end_time"`
	BaseTotalPaise  int64        `json:"base_total_paise"`
	TaxPercent      int          `json:"tax_percent"`
	TaxAmountPaise  int64        `json:"tax_amount_paise"`
	GrandTotalPaise int64        `json:"grand_total_paise"`
	CreatedAt       time.Time    `json:"created_at"`
	Lines           []DetailLine `json:"services"`
}

// DetailLine is one snapshot line inside a BookingDetail.
type DetailLine struct {
	ServiceID   uint64 `json:"service_id"`
	ServiceName string `json:"service_name"`
	PricePaise  int64  `json:"price_paise"`
	DurationMin int    `json:"duration_min"`
	Quantity    int    `json:"quantity"`
}

const detailQuery = `SELECT b.id, b.user_id, u.email, b.status, b.admin_note,
       si.slot_date, TIME_FORMAT(st.start_time, '%H:%i:%s'), TIME_FORMAT(st.end_time, '%H:%i:%s'),
       b.base_total_paise, b.tax_percent, b.tax_amount_paise, b.grand_total_paise, b.created_at
  FROM bookings b
  JOIN users u ON u.id = b.user_id
  JOIN slot_instances si ON si.id = b.start_slot_id
  JOIN slot_templates st ON st.id = si.template_id`

func scanDetail(rows *sql.Rows) (BookingDetail, error) {
	var (
		d    BookingDetail
		note sql.NullString
		date time.Time
	)
	err := rows.Scan(&d.ID, &d.UserID, &d.UserEmail, &d.Status, &note,
		&date, &d.StartTime, &d.EndTime,
		&d.BaseTotalPaise, &d.TaxPercent, &d.TaxAmountPaise, &d.GrandTotalPaise, &d.CreatedAt)
	if err != nil {
		return d, err
	}
	if note.Valid {
		d.AdminNote = note.String
	}
	d.Date = model.DateKey(date)
	d.Lines = []DetailLine{}
	return d, nil
}

// listDetails runs a detail query and populates the lines of every
// returned booking in one follow-up query.
func (r *BookingRepo) listDetails(ctx context.Context, where string, args ...interface{}) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailQuery+" "+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	lineRows, err := r.db.QueryContext(ctx,
		`SELECT booking_id, service_id, service_name, price_paise, duration_min, quantity
		 FROM booking_lines WHERE booking_id IN (`+strings.Join(placeholders, ",")+`) ORDER BY booking_id, id`,
		ids...)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var (
			bid uint64
			l   DetailLine
		)
		if err := lineRows.Scan(&bid, &l.ServiceID, &l.ServiceName, &l.PricePaise, &l.DurationMin, &l.Quantity); err != nil {
			return nil, err
		}
		if idx, ok := index[bid]; ok {
			details[idx].Lines = append(details[idx].Lines, l)
		}
	}
	return details, lineRows.Err()
}

// GetDetail returns one booking with lines and slot window. sql.ErrNoRows
// when the booking does not exist.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (BookingDetail, error) {
	details, err := r.listDetails(ctx, `WHERE b.id = ?`, id)
	if err != nil {
		return BookingDetail{}, err
	}
	if len(details) == 0 {
		return BookingDetail{}, sql.ErrNoRows
	}
	return details[0], nil
}

// LatestByUser returns the caller's most recent booking. sql.ErrNoRows
// when the user has none.
func (r *BookingRepo) LatestByUser(ctx context.Context, userID uint64) (BookingDetail, error) {
	details, err := r.listDetails(ctx, `WHERE b.user_id = ? ORDER BY b.created_at DESC, b.id DESC LIMIT 1`, userID)
	if err != nil {
		return BookingDetail{}, err
	}
	if len(details) == 0 {
		return BookingDetail{}, sql.ErrNoRows
	}
	return details[0], nil
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	return r.listDetails(ctx, `WHERE b.user_id = ? ORDER BY b.created_at DESC, b.id DESC`, userID)
}

// ListAll returns every booking, newest first. Admin-only.
func (r *BookingRepo) ListAll(ctx context.Context) ([]BookingDetail, error) {
	return r.listDetails(ctx, `ORDER BY b.created_at DESC, b.id DESC`)
}

// ListConfirmedDue returns the ids of confirmed bookings whose start-slot
// end time is already in the past at the given instant. The completion
// sweep flips these to completed.
func (r *BookingRepo) ListConfirmedDue(ctx context.Context, now time.Time) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id
		 FROM bookings b
		 JOIN slot_instances si ON si.id = b.start_slot_id
		 JOIN slot_templates st ON st.id = si.template_id
		 WHERE b.status = 'confirmed'
		   AND TIMESTAMP(si.slot_date, st.end_time) < ?`,
		now.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkCompleted flips the given bookings to completed. The status guard
// keeps the sweep idempotent against concurrent runs.
func (r *BookingRepo) MarkCompleted(ctx context.Context, ids []uint64) error {
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
		`UPDATE bookings SET status = 'completed'
		 WHERE id IN (`+strings.Join(placeholders, ",")+`) AND status = 'confirmed'`, args...)
	return err
}

// Stats is the reporting read-model for the admin dashboard: booking
// counts per status plus realized revenue (confirmed + completed).
type Stats struct {
	CountsByStatus map[string]int `json:"counts_by_status"`
	RevenuePaise   int64          `json:"revenue_paise"`
}

// GetStats aggregates booking counts and revenue.
func (r *BookingRepo) GetStats(ctx context.Context) (Stats, error) {
	stats := Stats{CountsByStatus: make(map[string]int)}
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return stats, err
		}
		stats.CountsByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}
	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(grand_total_paise), 0) FROM bookings WHERE status IN ('confirmed', 'completed')`).
		Scan(&stats.RevenuePaise)
	return stats, err
}
