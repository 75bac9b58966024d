package storage

import (
	"context"
	"time"
)

// RegionStore persists regions.
type RegionStore interface {
	CreateRegion(ctx context.Context, region Region) error
	GetRegion(ctx context.Context, id string) (Region, error)
	ListActiveRegions(ctx context.Context) ([]Region, error)
}

// PartnerStore persists the food banks and grocery stores of a region.
type PartnerStore interface {
	CreateFoodBank(ctx context.Context, bank FoodBank) error
	GetFoodBank(ctx context.Context, id string) (FoodBank, error)
	ListFoodBanks(ctx context.Context, regionID string) ([]FoodBank, error)
	CountActiveFoodBanks(ctx context.Context) (int, error)

	CreateGroceryStore(ctx context.Context, store GroceryStore) error
	GetGroceryStore(ctx context.Context, id string) (GroceryStore, error)
	ListGroceryStores(ctx context.Context, regionID string) ([]GroceryStore, error)
	CountActiveGroceryStores(ctx context.Context) (int, error)
}

// CategoryStore persists food categories.
type CategoryStore interface {
	UpsertCategory(ctx context.Context, category FoodCategory) (created bool, err error)
	GetCategory(ctx context.Context, name string) (FoodCategory, error)
	ListCategories(ctx context.Context) ([]FoodCategory, error)
}

// DonationStore persists donations.
type DonationStore interface {
	CreateDonation(ctx context.Context, donation Donation) error
	GetDonation(ctx context.Context, id string) (Donation, error)
	ListDonations(ctx context.Context, filter DonationFilter) ([]Donation, error)
	UpdateDonationStatus(ctx context.Context, id string, status DonationStatus) error
	UpdateDonationSchedule(ctx context.Context, id string, status DonationStatus, confirmedPickupAt *time.Time) error
	RegionAnalytics(ctx context.Context, regionID string, start, end time.Time) (RegionAnalytics, error)
}

// RouteStore persists delivery routes and their ordered stops.
type RouteStore interface {
	CreateRoute(ctx context.Context, route Route) error
	GetRoute(ctx context.Context, id string) (Route, error)
	ListRoutes(ctx context.Context, regionID string, from time.Time, statuses []RouteStatus) ([]Route, error)
	UpdateRouteStatus(ctx context.Context, id string, status RouteStatus) error

	CreateRouteStop(ctx context.Context, stop RouteStop) error
	GetRouteStop(ctx context.Context, id string) (RouteStop, error)
	ListRouteStops(ctx context.Context, routeID string) ([]RouteStop, error)
	ConfirmRouteStop(ctx context.Context, id string, confirmedAt time.Time, byEmail, notes string) error
	SetRouteStopNotes(ctx context.Context, id string, notes string) error
	FindStopForDonation(ctx context.Context, donationID string) (RouteStop, error)
}

// NotificationStore persists outbound schedule emails.
type NotificationStore interface {
	CreateNotification(ctx context.Context, notification Notification) error
	MarkNotificationSent(ctx context.Context, id string, sentAt time.Time) error
	RecordNotificationResponse(ctx context.Context, stopID, response string) error
	ListNotificationsForStop(ctx context.Context, stopID string) ([]Notification, error)
}

// OperatorStore persists staff accounts and their sessions.
type OperatorStore interface {
	CreateOperator(ctx context.Context, operator Operator) error
	GetOperator(ctx context.Context, username string) (Operator, error)

	SaveSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

// ClearCounts reports how many rows a data reset removed per table.
type ClearCounts struct {
	Notifications int
	RouteStops    int
	Routes        int
	Donations     int
	GroceryStores int
	FoodBanks     int
	Regions       int
	Categories    int
}

// MaintenanceStore supports destructive admin operations.
type MaintenanceStore interface {
	// ClearPlatformData removes all regions, partners, donations, routes,
	// and notifications. Categories survive when keepCategories is set.
	// Operator accounts are never touched.
	ClearPlatformData(ctx context.Context, keepCategories bool) (ClearCounts, error)
}

// Store is the full persistence surface of the platform.
type Store interface {
	RegionStore
	PartnerStore
	CategoryStore
	DonationStore
	RouteStore
	NotificationStore
	OperatorStore
	MaintenanceStore
}
