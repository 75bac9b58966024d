// Package storage defines persistence contracts for food rescue platform state.
package storage

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// DonationStatus tracks a donation through its pickup lifecycle.
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationConfirmed DonationStatus = "confirmed"
	DonationPickedUp  DonationStatus = "picked_up"
	DonationDelivered DonationStatus = "delivered"
	DonationCancelled DonationStatus = "cancelled"
)

// RouteStatus tracks a delivery route through execution.
type RouteStatus string

const (
	RoutePlanned    RouteStatus = "planned"
	RouteInProgress RouteStatus = "in_progress"
	RouteCompleted  RouteStatus = "completed"
	RouteCancelled  RouteStatus = "cancelled"
)

// StopType distinguishes pickup stops at stores from delivery stops at banks.
type StopType string

const (
	StopPickup   StopType = "pickup"
	StopDelivery StopType = "delivery"
)

// NotificationType labels outbound schedule emails.
type NotificationType string

const (
	NotifyPickupProposal       NotificationType = "pickup_proposal"
	NotifyDeliveryProposal     NotificationType = "delivery_proposal"
	NotifyPickupConfirmation   NotificationType = "pickup_confirmation"
	NotifyDeliveryConfirmation NotificationType = "delivery_confirmation"
	NotifyScheduleChange       NotificationType = "schedule_change"
	NotifyCancellation         NotificationType = "cancellation"
)

// Region is a service area with a dispatch center and one shared truck.
type Region struct {
	ID                  string
	Name                string
	CenterLatitude      float64
	CenterLongitude     float64
	RadiusMiles         int
	TruckCapacityPounds int
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// FoodBank receives deliveries within a region.
type FoodBank struct {
	ID                    string
	RegionID              string
	Name                  string
	ContactPerson         string
	Email                 string
	Phone                 string
	Address               string
	Latitude              float64
	Longitude             float64
	DailyNeedPounds       int
	StorageCapacityPounds int
	CanSelfPickup         bool
	OpenTime              string
	CloseTime             string
	OperatingDays         string
	Active                bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// GroceryStore donates surplus food within a region.
type GroceryStore struct {
	ID                string
	RegionID          string
	Name              string
	ContactPerson     string
	Email             string
	Phone             string
	Address           string
	Latitude          float64
	Longitude         float64
	PickupWindowStart string
	PickupWindowEnd   string
	PickupDays        string
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FoodCategory classifies donated items. Name is the unique key.
type FoodCategory struct {
	Name                  string
	DisplayName           string
	RequiresRefrigeration bool
	ShelfLifeDays         int
}

// Donation is one offer of surplus food from a grocery store.
type Donation struct {
	ID                string
	StoreID           string
	Category          string
	Description       string
	QuantityPounds    float64
	ExpirationDate    *time.Time
	SellByDate        *time.Time
	ProposedPickupAt  *time.Time
	ConfirmedPickupAt *time.Time
	ActualPickupAt    *time.Time
	Status            DonationStatus
	FromEmail         bool
	EmailContent      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Route is one scheduled truck run through a region.
type Route struct {
	ID                       string
	RegionID                 string
	ScheduledDate            time.Time
	StartTime                string
	EndTime                  string
	DriverTeam               string
	TruckID                  string
	TotalDistanceMiles       float64
	EstimatedDurationMinutes int
	Status                   RouteStatus
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// RouteStop is one ordered pickup or delivery on a route.
type RouteStop struct {
	ID                       string
	RouteID                  string
	StopOrder                int
	Type                     StopType
	StoreID                  string
	FoodBankID               string
	DonationIDs              []string
	EstimatedArrivalAt       time.Time
	ActualArrivalAt          *time.Time
	EstimatedDurationMinutes int
	Confirmed                bool
	ConfirmedAt              *time.Time
	ConfirmedByEmail         string
	Notes                    string
}

// Notification records one outbound schedule email and any response.
type Notification struct {
	ID               string
	Type             NotificationType
	RecipientEmail   string
	Subject          string
	Body             string
	StopID           string
	DonationID       string
	Sent             bool
	SentAt           *time.Time
	ResponseReceived bool
	ResponseContent  string
	CreatedAt        time.Time
}

// Operator is a staff account allowed into the operator surface.
type Operator struct {
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is one live operator browser session.
type Session struct {
	ID        string
	Username  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// CategoryWeight is one row of the analytics category breakdown.
type CategoryWeight struct {
	Category    string
	TotalPounds float64
	Count       int
}

// RegionAnalytics aggregates donation activity for a date range.
type RegionAnalytics struct {
	DonationCount     int
	TotalPounds       float64
	CompletedRoutes   int
	CategoryBreakdown []CategoryWeight
}

// DonationFilter narrows donation listings. Zero fields match everything.
type DonationFilter struct {
	RegionID     string
	StoreID      string
	Statuses     []DonationStatus
	CreatedAfter time.Time
	FromEmail    *bool
	Limit        int
}
