package models

import "time"

// SocialMedia holds the restaurant's social media handles.
type SocialMedia struct {
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
}

// Settings is the storefront configuration, stored under "settings:general".
type Settings struct {
	RestaurantName string      `json:"restaurantName"`
	WhatsappNumber string      `json:"whatsappNumber"`
	Phone          string      `json:"phone"`
	Address        string      `json:"address"`
	OpeningHours   string      `json:"openingHours"`
	DeliveryFee    float64     `json:"deliveryFee"`
	IsOpen         bool        `json:"isOpen"`
	SocialMedia    SocialMedia `json:"socialMedia"`
	UpdatedAt      *time.Time  `json:"updatedAt,omitempty"`
}

// DefaultSettings returns the compiled-in storefront settings served
// when none have been saved yet.
func DefaultSettings() Settings {
	return Settings{
		RestaurantName: "TRAFFIC SHAWARMA",
		WhatsappNumber: "+233200172160",
		Phone:          "+233246801890",
		Address:        "Madina Junction, Near Total Filling Station, Accra",
		OpeningHours:   "Mon-Sat: 10:00 AM - 10:00 PM, Sun: 12:00 PM - 9:00 PM",
		DeliveryFee:    10,
		IsOpen:         true,
	}
}
