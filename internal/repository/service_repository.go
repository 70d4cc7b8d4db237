package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/santhokumarp/salonhub/internal/model"
)

// ServiceRepo provides access to the catalog tables: service_categories
// and services. Prices are stored in paise; durations in minutes.
type ServiceRepo struct {
	db *sql.DB
}

// NewServiceRepo returns a ServiceRepo bound to the given database.
func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *ServiceRepo) DB() *sql.DB { return r.db }

// CreateCategory inserts a category and returns its ID. Duplicate names
// surface as ErrConflict.
func (r *ServiceRepo) CreateCategory(ctx context.Context, name string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO service_categories (name) VALUES (?)`, name)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListCategories returns all categories ordered by name.
func (r *ServiceRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM service_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cats := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Create inserts a service row and populates the generated ID.
func (r *ServiceRepo) Create(ctx context.Context, s *model.Service) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO services (category_id, name, description, price_paise, duration_min, is_active)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.CategoryID, s.Name, s.Description, s.PricePaise, s.DurationMin, s.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// Update rewrites the mutable columns of a service. It returns
// sql.ErrNoRows when the service does not exist.
func (r *ServiceRepo) Update(ctx context.Context, s model.Service) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE services SET category_id=?, name=?, description=?, price_paise=?, duration_min=?, is_active=?
		 WHERE id=?`,
		s.CategoryID, s.Name, s.Description, s.PricePaise, s.DurationMin, s.IsActive, s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Verify existence: RowsAffected is 0 for no-op updates too.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM services WHERE id=?`, s.ID).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns a single service. sql.ErrNoRows on miss.
func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (model.Service, error) {
	var s model.Service
	err := r.db.QueryRowContext(ctx,
		`SELECT id, category_id, name, description, price_paise, duration_min, is_active, created_at, updated_at
		 FROM services WHERE id=?`, id).
		Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.PricePaise, &s.DurationMin, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// List returns services, optionally restricted to active ones, ordered by
// category then name for stable catalog output.
func (r *ServiceRepo) List(ctx context.Context, activeOnly bool) ([]model.Service, error) {
	q := `SELECT id, category_id, name, description, price_paise, duration_min, is_active, created_at, updated_at
	      FROM services`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY category_id, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	services := make([]model.Service, 0)
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.PricePaise, &s.DurationMin, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}
