package cart

import (
	"time"

	"github.com/google/uuid"
)

// Item is one selected product with its quantity. Unit prices are carried in
// minor currency units.
type Item struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	ImageURL       *string   `json:"image_url,omitempty"`
	FileURL        string    `json:"file_url"`
}

// Cart is the session-scoped selection prior to purchase commitment. Items
// keep insertion order; product ids are unique within the slice.
type Cart struct {
	SessionID uuid.UUID `json:"session_id"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCart returns an empty cart for the session.
func NewCart(sessionID uuid.UUID) *Cart {
	return &Cart{SessionID: sessionID}
}

// Subtotal is the sum of unit price times quantity, recomputed on demand.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.UnitPriceCents * int64(item.Quantity)
	}
	return total
}

// Count is the sum of quantities across items.
func (c *Cart) Count() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// add increments the quantity when the product is already present, otherwise
// appends it with quantity 1.
func (c *Cart) add(item Item) {
	if i := c.indexOf(item.ProductID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	item.Quantity = 1
	c.Items = append(c.Items, item)
}

// remove deletes the entry; absent ids are a no-op.
func (c *Cart) remove(productID uuid.UUID) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// setQuantity clamps to a floor of 1. Dropping below 1 via a decrement click
// must not silently delete the line; removal is its own operation.
func (c *Cart) setQuantity(productID uuid.UUID, quantity int) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	if quantity < 1 {
		quantity = 1
	}
	c.Items[i].Quantity = quantity
	return true
}
