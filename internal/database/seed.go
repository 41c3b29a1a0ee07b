package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/amoylab/lokal/internal/common/cnst"
)

var seedBusinesses = []struct {
	name     string
	category cnst.Category
	kind     string
	deal     Deal
}{
	{"Lokal Pizza Demo", cnst.CategoryFood, "Pizzeria", Deal{Title: "Buy One Get One Pizza", Discount: "BOGO", Code: "DEMO2024", Expiry: "Ends Sunday"}},
	{"City Coffee Roasters", cnst.CategoryFood, "Cafe", Deal{Title: "Free Pastry with Coffee", Discount: "FREE GIFT", Code: "COFFEE", Expiry: "Today only"}},
	{"Urban Outfitters Demo", cnst.CategoryRetail, "Clothing", Deal{Title: "Summer Sale", Discount: "20% OFF", Code: "SUMMER20", Expiry: "Aug 31"}},
	{"Main Street Books", cnst.CategoryRetail, "Bookstore", Deal{Title: "Second Book Half Price", Discount: "50% OFF", Code: "READMORE", Expiry: "This month"}},
	{"Sparkle Car Wash", cnst.CategoryService, "Car wash", Deal{Title: "Premium Wash Upgrade", Discount: "$5 OFF", Code: "SHINE5", Expiry: "Weekdays"}},
}

// SeedTestBusinesses inserts the demo businesses under the given ids, one
// deal each. Existing ids are left untouched so the call can be repeated.
func SeedTestBusinesses(ctx context.Context, db Database, ids []string) (int, error) {
	created := 0
	for i, id := range ids {
		if i >= len(seedBusinesses) {
			break
		}
		_, err := db.GetBusiness(ctx, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return created, err
		}

		seed := seedBusinesses[i]
		err = db.Transaction(ctx, func(ctx context.Context) error {
			business := &Business{
				ID:       id,
				Name:     seed.name,
				Category: string(seed.category),
				Type:     seed.kind,
				City:     "Demo City",
				IsActive: true,
			}
			if err := db.CreateBusiness(ctx, business); err != nil {
				return err
			}
			deal := seed.deal
			deal.BusinessID = id
			deal.Category = string(seed.category)
			deal.Description = fmt.Sprintf("%s at %s", deal.Title, seed.name)
			deal.IsActive = true
			return db.CreateDeal(ctx, &deal)
		})
		if err != nil {
			return created, fmt.Errorf("failed to seed business %s: %w", id, err)
		}
		created++
	}
	return created, nil
}
