package cart

import (
	"github.com/google/uuid"

	"github.com/smartstore/backend/internal/domain/shared"
)

// Entry is one (product, quantity) pair in a user's cart.
// Quantity is always >= 1; a product appears at most once per cart.
type Entry struct {
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:2"`
	Quantity  int       `json:"quantity" gorm:"not null"`
}

// Cart is the per-user collection of entries. It exists only as an
// in-memory aggregate; persistence stores the entry set keyed by user.
type Cart struct {
	UserID  uuid.UUID
	Entries []Entry
}

// New creates an empty cart for a user
func New(userID uuid.UUID) *Cart {
	return &Cart{
		UserID:  userID,
		Entries: make([]Entry, 0),
	}
}

// Load builds a cart from persisted entries
func Load(userID uuid.UUID, entries []Entry) *Cart {
	if entries == nil {
		entries = make([]Entry, 0)
	}
	return &Cart{UserID: userID, Entries: entries}
}

// IsEmpty returns true if the cart has no entries
func (c *Cart) IsEmpty() bool {
	return len(c.Entries) == 0
}

// Add merges quantity into an existing entry or appends a new one
func (c *Cart) Add(productID uuid.UUID, quantity int) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	for idx := range c.Entries {
		if c.Entries[idx].ProductID == productID {
			c.Entries[idx].Quantity += quantity
			return nil
		}
	}

	c.Entries = append(c.Entries, Entry{ProductID: productID, Quantity: quantity})
	return nil
}

// SetQuantity sets the quantity for a product; zero or less removes the entry
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	if quantity <= 0 {
		c.Remove(productID)
		return nil
	}

	for idx := range c.Entries {
		if c.Entries[idx].ProductID == productID {
			c.Entries[idx].Quantity = quantity
			return nil
		}
	}

	c.Entries = append(c.Entries, Entry{ProductID: productID, Quantity: quantity})
	return nil
}

// Remove deletes the entry for a product if present
func (c *Cart) Remove(productID uuid.UUID) {
	for idx := range c.Entries {
		if c.Entries[idx].ProductID == productID {
			c.Entries = append(c.Entries[:idx], c.Entries[idx+1:]...)
			return
		}
	}
}

// Clear removes all entries
func (c *Cart) Clear() {
	c.Entries = c.Entries[:0]
}

// Quantity returns the quantity for a product, zero if absent
func (c *Cart) Quantity(productID uuid.UUID) int {
	for _, e := range c.Entries {
		if e.ProductID == productID {
			return e.Quantity
		}
	}
	return 0
}
