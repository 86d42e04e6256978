package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trafficshawarma/storefront/internal/models"
)

// defaultMenuItems is the starter menu loaded by SeedMenu. Items carry
// stable ids so reseeding overwrites rather than duplicates.
var defaultMenuItems = []models.MenuItem{
	{
		Name:        "Classic Chicken Shawarma",
		Description: "Succulent grilled chicken wrapped in fresh pita with crispy veggies and our signature sauce",
		Price:       25.00,
		Category:    "chicken",
		Image:       "https://images.unsplash.com/photo-1529006557810-274b9b2fc783?w=400",
	},
	{
		Name:        "Spicy Beef Shawarma",
		Description: "Tender marinated beef with fresh tomatoes, lettuce, and homemade garlic sauce",
		Price:       30.00,
		Category:    "beef",
		Image:       "https://images.unsplash.com/photo-1534352956036-cd81e27dd615?w=400",
	},
	{
		Name:        "Supreme Special Shawarma",
		Description: "Premium combo of chicken & beef with extra toppings, cheese, and spicy sauce",
		Price:       40.00,
		Category:    "special",
		Image:       "https://images.unsplash.com/photo-1565299624946-b28f40a0ae38?w=400",
	},
	{
		Name:        "Loaded Chicken Shawarma",
		Description: "Extra chicken with double cheese, jalapeños, and premium sauces",
		Price:       35.00,
		Category:    "chicken",
		Image:       "https://images.unsplash.com/photo-1529006557810-274b9b2fc783?w=400",
	},
	{
		Name:        "Deluxe Beef Shawarma",
		Description: "Premium beef cuts with caramelized onions, pepper jack cheese, and special spicy mayo",
		Price:       38.00,
		Category:    "beef",
		Image:       "https://images.unsplash.com/photo-1534352956036-cd81e27dd615?w=400",
	},
	{
		Name:        "Veggie Supreme Shawarma",
		Description: "Fresh vegetables, hummus, falafel, and tahini sauce in warm pita",
		Price:       22.00,
		Category:    "special",
		Image:       "https://images.unsplash.com/photo-1505253304499-671c55fb57fe?w=400",
	},
	{
		Name:        "Traffic Friday Special",
		Description: "Buy 3 Shawarmas, Get 1 FREE! Limited time offer",
		Price:       100.00,
		Category:    "combo",
		Image:       "https://images.unsplash.com/photo-1529006557810-274b9b2fc783?w=400",
	},
	{
		Name:        "Mega Combo",
		Description: "Any 2 shawarmas + 2 drinks + fries",
		Price:       75.00,
		Category:    "combo",
		Image:       "https://images.unsplash.com/photo-1565299624946-b28f40a0ae38?w=400",
	},
	{
		Name:        "Family Pack",
		Description: "5 shawarmas of your choice + 4 drinks + 2 large fries",
		Price:       150.00,
		Category:    "combo",
		Image:       "https://images.unsplash.com/photo-1529006557810-274b9b2fc783?w=400",
	},
	{
		Name:        "Extra Cheese",
		Description: "Add melted cheese to any shawarma",
		Price:       3.00,
		Category:    "extras",
		Image:       "https://images.unsplash.com/photo-1486297678162-eb2a19b0a32d?w=400",
	},
	{
		Name:        "Extra Meat",
		Description: "Double your protein",
		Price:       8.00,
		Category:    "extras",
		Image:       "https://images.unsplash.com/photo-1529692236671-f1f6cf9683ba?w=400",
	},
	{
		Name:        "Fries",
		Description: "Crispy golden fries",
		Price:       10.00,
		Category:    "extras",
		Image:       "https://images.unsplash.com/photo-1573080496219-bb080dd4f877?w=400",
	},
	{
		Name:        "Soft Drink",
		Description: "Coca-Cola, Sprite, or Fanta",
		Price:       5.00,
		Category:    "drinks",
		Image:       "https://images.unsplash.com/photo-1581636625402-29b2a704ef13?w=400",
	},
	{
		Name:        "Fresh Juice",
		Description: "Orange or Pineapple",
		Price:       8.00,
		Category:    "drinks",
		Image:       "https://images.unsplash.com/photo-1600271886742-f049cd451bba?w=400",
	},
}

// SeedMenu loads the starter menu into the store. Returns the number
// of items written and the number that failed.
func (s *MenuService) SeedMenu(ctx context.Context) (successful, failed int, err error) {
	for i, item := range defaultMenuItems {
		item.ID = fmt.Sprintf("menu_seed_%02d", i+1)
		item.Available = true

		if _, createErr := s.Create(ctx, item); createErr != nil {
			s.logger.Error("failed to seed menu item",
				slog.String("name", item.Name),
				slog.Any("error", createErr))
			failed++
			continue
		}
		successful++
	}

	s.logger.Info("menu seeded",
		slog.Int("successful", successful),
		slog.Int("failed", failed))

	return successful, failed, nil
}
