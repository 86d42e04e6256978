package models

import "time"

// DefaultMenuImage is used when a menu item is created without an image URL.
const DefaultMenuImage = "https://images.unsplash.com/photo-1529006557810-274b9b2fc783?w=400"

// MenuItem is one entry on the menu, stored under "menu:<id>".
type MenuItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MenuItemUpdate carries partial updates for an existing menu item.
// Nil fields are left unchanged.
type MenuItemUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Available   *bool    `json:"available,omitempty"`
}
