package model

import "time"

// Category groups services in the catalog (e.g. Hair, Facial, Beard).
type Category struct {
	ID   uint64 // service_categories.id
	Name string // service_categories.name (unique)
}

// Service is a bookable catalog entry. Price is stored in paise so all
// billing arithmetic stays integral. DurationMin drives how many
// contiguous slots a booking for this service consumes.
type Service struct {
	ID          uint64    // services.id
	CategoryID  uint64    // services.category_id
	Name        string    // services.name
	Description string    // services.description
	PricePaise  int64     // services.price_paise
	DurationMin int       // services.duration_min
	IsActive    bool      // services.is_active
	CreatedAt   time.Time // services.created_at
	UpdatedAt   time.Time // services.updated_at
}
