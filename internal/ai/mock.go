package ai

import "github.com/amoylab/lokal/internal/database"

// fallbackDeals keep the feed populated in demo mode when generation fails
func fallbackDeals() []*database.DealView {
	return []*database.DealView{
		{
			ID:           "mock-1",
			BusinessID:   "mock-biz-1",
			BusinessName: "Lokal Pizza Demo",
			Title:        "Buy 1 Slice Get 1 Free",
			Description:  "Welcome to Lokal! This is a demo deal shown while AI deals are unavailable.",
			Discount:     "BOGO",
			Category:     "food",
			Distance:     "0.1 miles",
			ImageURL:     "https://images.unsplash.com/photo-1513104890138-7c749659a591?auto=format&fit=crop&w=800&q=80",
			Code:         "DEMO2024",
			Expiry:       "2025-12-31",
			Website:      "https://google.com",
			IsActive:     true,
		},
		{
			ID:           "mock-2",
			BusinessID:   "mock-biz-2",
			BusinessName: "City Coffee Roasters",
			Title:        "Free Pastry with Latte",
			Description:  "Start your morning right. Get a free croissant with any large drink.",
			Discount:     "FREE GIFT",
			Category:     "food",
			Distance:     "0.3 miles",
			ImageURL:     "https://images.unsplash.com/photo-1509042239860-f550ce710b93?auto=format&fit=crop&w=800&q=80",
			Code:         "COFFEE",
			Expiry:       "2025-12-31",
			Website:      "https://google.com",
			IsActive:     true,
		},
		{
			ID:           "mock-3",
			BusinessID:   "mock-biz-3",
			BusinessName: "Urban Outfitters Demo",
			Title:        "20% Off Summer Collection",
			Description:  "Flash sale on all summer items. In-store only.",
			Discount:     "20% OFF",
			Category:     "retail",
			Distance:     "0.5 miles",
			ImageURL:     "https://images.unsplash.com/photo-1441986300917-64674bd600d8?auto=format&fit=crop&w=800&q=80",
			Code:         "SUMMER20",
			Expiry:       "2025-12-31",
			Website:      "https://google.com",
			IsActive:     true,
		},
	}
}
