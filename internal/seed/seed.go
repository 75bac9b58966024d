// Package seed loads the fixed food category set and the Metro Atlanta demo
// fixtures used for local development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foodrescuehub/foodrescue/internal/storage"
)

// Categories is the platform's food category set. Category names are stable
// keys referenced by donations and the intake classifier.
func Categories() []storage.FoodCategory {
	return []storage.FoodCategory{
		{Name: "produce", DisplayName: "Fresh Produce", RequiresRefrigeration: true, ShelfLifeDays: 3},
		{Name: "dairy", DisplayName: "Dairy Products", RequiresRefrigeration: true, ShelfLifeDays: 7},
		{Name: "meat", DisplayName: "Meat & Poultry", RequiresRefrigeration: true, ShelfLifeDays: 2},
		{Name: "seafood", DisplayName: "Seafood", RequiresRefrigeration: true, ShelfLifeDays: 1},
		{Name: "bakery", DisplayName: "Bakery Items", RequiresRefrigeration: false, ShelfLifeDays: 2},
		{Name: "frozen", DisplayName: "Frozen Foods", RequiresRefrigeration: true, ShelfLifeDays: 30},
		{Name: "pantry", DisplayName: "Pantry Staples", RequiresRefrigeration: false, ShelfLifeDays: 365},
		{Name: "beverages", DisplayName: "Beverages", RequiresRefrigeration: false, ShelfLifeDays: 90},
		{Name: "prepared", DisplayName: "Prepared Foods", RequiresRefrigeration: true, ShelfLifeDays: 1},
		{Name: "other", DisplayName: "Other", RequiresRefrigeration: false, ShelfLifeDays: 7},
	}
}

// EnsureCategories upserts the fixed category set and reports how many rows
// were newly created.
func EnsureCategories(ctx context.Context, store storage.CategoryStore) (int, error) {
	created := 0
	for _, category := range Categories() {
		wasCreated, err := store.UpsertCategory(ctx, category)
		if err != nil {
			return created, fmt.Errorf("seed category %s: %w", category.Name, err)
		}
		if wasCreated {
			created++
		}
	}
	return created, nil
}

// SampleCounts reports what LoadSampleData created.
type SampleCounts struct {
	Regions       int
	FoodBanks     int
	GroceryStores int
	Donations     int
}

// LoadSampleData loads the Metro Atlanta demo fixtures. Fixture IDs are
// stable slugs so repeated runs skip records that already exist. Categories
// are ensured first since donations reference them.
func LoadSampleData(ctx context.Context, store storage.Store, now time.Time) (SampleCounts, error) {
	var counts SampleCounts

	if _, err := EnsureCategories(ctx, store); err != nil {
		return counts, err
	}

	region := storage.Region{
		ID:                  "region-metro-atlanta",
		Name:                "Metro Atlanta Food Hub",
		CenterLatitude:      33.7490,
		CenterLongitude:     -84.3880,
		RadiusMiles:         35,
		TruckCapacityPounds: 2000,
		Active:              true,
	}
	created, err := createIgnoringDuplicates(store.CreateRegion(ctx, region))
	if err != nil {
		return counts, fmt.Errorf("seed region: %w", err)
	}
	if created {
		counts.Regions++
	}

	banks := []storage.FoodBank{
		{
			ID: "bank-atlanta-community", RegionID: region.ID,
			Name: "Atlanta Community Food Bank", ContactPerson: "Sarah Johnson",
			Email: "sarah@atlantafoodbank.org", Phone: "(404) 555-0101",
			Address:  "732 Joseph E Lowery Blvd NW, Atlanta, GA 30318",
			Latitude: 33.7701, Longitude: -84.4092,
			DailyNeedPounds: 500, StorageCapacityPounds: 2000,
			CanSelfPickup: true, Active: true,
		},
		{
			ID: "bank-north-fulton", RegionID: region.ID,
			Name: "North Fulton Community Charities", ContactPerson: "Michael Chen",
			Email: "michael@nfcchelp.org", Phone: "(770) 555-0102",
			Address:  "11270 Elkins Rd, Roswell, GA 30076",
			Latitude: 34.0232, Longitude: -84.3616,
			DailyNeedPounds: 300, StorageCapacityPounds: 1200,
			Active: true,
		},
		{
			ID: "bank-dekalb-pantry", RegionID: region.ID,
			Name: "DeKalb County Food Pantry", ContactPerson: "Lisa Rodriguez",
			Email: "lisa@dekalbfood.org", Phone: "(404) 555-0103",
			Address:  "2801 E Point St, East Point, GA 30344",
			Latitude: 33.6746, Longitude: -84.4392,
			DailyNeedPounds: 400, StorageCapacityPounds: 1500,
			CanSelfPickup: true, Active: true,
		},
	}
	for _, bank := range banks {
		created, err := createIgnoringDuplicates(store.CreateFoodBank(ctx, bank))
		if err != nil {
			return counts, fmt.Errorf("seed food bank %s: %w", bank.ID, err)
		}
		if created {
			counts.FoodBanks++
		}
	}

	stores := []storage.GroceryStore{
		{
			ID: "store-kroger-midtown", RegionID: region.ID,
			Name: "Kroger - Midtown", ContactPerson: "David Wilson",
			Email: "david.wilson@kroger.com", Phone: "(404) 555-0201",
			Address:  "950 W Peachtree St NW, Atlanta, GA 30309",
			Latitude: 33.7840, Longitude: -84.3907,
			Active: true,
		},
		{
			ID: "store-publix-buckhead", RegionID: region.ID,
			Name: "Publix - Buckhead", ContactPerson: "Amanda Taylor",
			Email: "amanda.taylor@publix.com", Phone: "(404) 555-0202",
			Address:  "3637 Peachtree Rd NE, Atlanta, GA 30319",
			Latitude: 33.8429, Longitude: -84.3733,
			Active: true,
		},
		{
			ID: "store-wholefoods-pcm", RegionID: region.ID,
			Name: "Whole Foods - Ponce City Market", ContactPerson: "Robert Martinez",
			Email: "robert.martinez@wholefoods.com", Phone: "(404) 555-0203",
			Address:  "650 North Ave NE, Atlanta, GA 30308",
			Latitude: 33.7725, Longitude: -84.3656,
			Active: true,
		},
		{
			ID: "store-freshmarket-roswell", RegionID: region.ID,
			Name: "Fresh Market - Roswell", ContactPerson: "Jennifer Kim",
			Email: "jennifer.kim@freshmarket.com", Phone: "(770) 555-0204",
			Address:  "1205 Woodstock Rd, Roswell, GA 30075",
			Latitude: 34.0313, Longitude: -84.3445,
			Active: true,
		},
	}
	for _, grocery := range stores {
		created, err := createIgnoringDuplicates(store.CreateGroceryStore(ctx, grocery))
		if err != nil {
			return counts, fmt.Errorf("seed grocery store %s: %w", grocery.ID, err)
		}
		if created {
			counts.GroceryStores++
		}
	}

	day := func(offset int) *time.Time {
		d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
		return &d
	}
	donations := []storage.Donation{
		{
			ID: "donation-kroger-produce", StoreID: "store-kroger-midtown",
			Category:    "produce",
			Description: "Mixed fresh vegetables - slightly wilted lettuce, tomatoes, carrots",
			QuantityPounds: 45.5, ExpirationDate: day(2),
			Status: storage.DonationPending,
		},
		{
			ID: "donation-kroger-bakery", StoreID: "store-kroger-midtown",
			Category:    "bakery",
			Description: "Day-old bread, pastries, and muffins",
			QuantityPounds: 12.3, SellByDate: day(1),
			Status: storage.DonationPending,
		},
		{
			ID: "donation-publix-dairy", StoreID: "store-publix-buckhead",
			Category:    "dairy",
			Description: "Milk, yogurt, and cheese approaching expiration",
			QuantityPounds: 23.7, ExpirationDate: day(3),
			Status: storage.DonationConfirmed,
		},
		{
			ID: "donation-wholefoods-prepared", StoreID: "store-wholefoods-pcm",
			Category:    "prepared",
			Description: "Prepared salads and sandwiches from deli counter",
			QuantityPounds: 18.2, ExpirationDate: day(0),
			Status: storage.DonationConfirmed,
		},
		{
			ID: "donation-freshmarket-meat", StoreID: "store-freshmarket-roswell",
			Category:    "meat",
			Description: "Ground beef and chicken approaching sell-by date",
			QuantityPounds: 31.8, SellByDate: day(1),
			Status: storage.DonationPending,
		},
	}
	for _, donation := range donations {
		created, err := createIgnoringDuplicates(store.CreateDonation(ctx, donation))
		if err != nil {
			return counts, fmt.Errorf("seed donation %s: %w", donation.ID, err)
		}
		if created {
			counts.Donations++
		}
	}

	return counts, nil
}

func createIgnoringDuplicates(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrAlreadyExists) {
		return false, nil
	}
	return false, err
}
