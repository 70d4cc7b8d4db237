package model

// CartItem is an ephemeral (user, service) line with a quantity. The pair
// is unique; adding the same service again increments the quantity. The
// cart is cleared when checkout succeeds.
type CartItem struct {
	ID        uint64 // cart_items.id
	UserID    uint64 // cart_items.user_id
	ServiceID uint64 // cart_items.service_id
	Quantity  int    // cart_items.quantity
}
