// Package routing plans pickup and delivery routes for a region's truck.
//
// Sequencing uses nearest-neighbor ordering from the region's dispatch
// center; allocation spreads donations across food banks weighted by daily
// need and remaining storage capacity. Good enough for a single four-hour
// truck window; a solver can replace the heuristics if regions outgrow it.
package routing

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/foodrescuehub/foodrescue/internal/geo"
	"github.com/foodrescuehub/foodrescue/internal/storage"
)

const (
	// averageSpeedMPH approximates urban truck speed.
	averageSpeedMPH = 25
	// travelBufferMinutes pads each leg for parking and loading dock delays.
	travelBufferMinutes = 5
	// minTravelMinutes floors any leg estimate.
	minTravelMinutes = 5
	// workWindowHours is the truck's daily operating window (08:00-12:00).
	workWindowHours = 4
	// dayStartHour is when the truck leaves the dispatch center.
	dayStartHour = 8
	// selfPickupBonusPounds is the donation size above which a self-pickup
	// capable bank gets an allocation bonus.
	selfPickupBonusPounds = 50
)

// PickupVisit is one planned stop at a grocery store.
type PickupVisit struct {
	Store           storage.GroceryStore
	Donations       []storage.Donation
	ArrivalAt       time.Time
	TravelMinutes   int
	DurationMinutes int
	TotalPounds     float64
}

// DeliveryVisit is one planned stop at a food bank.
type DeliveryVisit struct {
	Bank            storage.FoodBank
	Donations       []storage.Donation
	ArrivalAt       time.Time
	TravelMinutes   int
	DurationMinutes int
	TotalPounds     float64
}

// Plan is a full route proposal for one day.
type Plan struct {
	TargetDate           time.Time
	Pickups              []PickupVisit
	Deliveries           []DeliveryVisit
	TotalPounds          float64
	TotalDistanceMiles   float64
	TotalDurationMinutes int
	CompletionAt         time.Time
	WithinCapacity       bool
	WithinTimeLimit      bool
	EfficiencyScore      float64
}

// Optimizer plans routes for one region.
type Optimizer struct {
	region storage.Region
}

// NewOptimizer builds an optimizer for the given region.
func NewOptimizer(region storage.Region) *Optimizer {
	return &Optimizer{region: region}
}

// Plan builds a route plan covering donations on targetDate. stores must
// contain every donation's grocery store; banks are the candidate delivery
// targets.
func (o *Optimizer) Plan(donations []storage.Donation, stores map[string]storage.GroceryStore, banks []storage.FoodBank, targetDate time.Time) (Plan, error) {
	if len(donations) == 0 {
		return Plan{}, fmt.Errorf("no donations to route")
	}
	for _, donation := range donations {
		if _, ok := stores[donation.StoreID]; !ok {
			return Plan{}, fmt.Errorf("donation %s references unknown store %s", donation.ID, donation.StoreID)
		}
	}

	start := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), dayStartHour, 0, 0, 0, time.UTC)
	center := geo.Point{Latitude: o.region.CenterLatitude, Longitude: o.region.CenterLongitude}

	pickups, afterPickups, position, pickupMiles := o.sequencePickups(donations, stores, center, start)
	allocation := o.allocate(donations, banks)

	banksByID := make(map[string]storage.FoodBank, len(banks))
	for _, bank := range banks {
		banksByID[bank.ID] = bank
	}
	deliveries, completion, deliveryMiles := o.sequenceDeliveries(allocation, banksByID, position, afterPickups)

	plan := Plan{
		TargetDate:         start,
		Pickups:            pickups,
		Deliveries:         deliveries,
		TotalDistanceMiles: pickupMiles + deliveryMiles,
		CompletionAt:       completion,
	}
	for _, pickup := range pickups {
		plan.TotalPounds += pickup.TotalPounds
		plan.TotalDurationMinutes += pickup.TravelMinutes + pickup.DurationMinutes
	}
	for _, delivery := range deliveries {
		plan.TotalDurationMinutes += delivery.TravelMinutes + delivery.DurationMinutes
	}
	plan.WithinCapacity = plan.TotalPounds <= float64(o.region.TruckCapacityPounds)
	plan.WithinTimeLimit = plan.TotalDurationMinutes <= workWindowHours*60
	plan.EfficiencyScore = o.efficiencyScore(plan)
	return plan, nil
}

// sequencePickups orders store visits nearest-neighbor from the center and
// stamps arrival times.
func (o *Optimizer) sequencePickups(donations []storage.Donation, stores map[string]storage.GroceryStore, from geo.Point, start time.Time) ([]PickupVisit, time.Time, geo.Point, float64) {
	byStore := make(map[string][]storage.Donation)
	for _, donation := range donations {
		byStore[donation.StoreID] = append(byStore[donation.StoreID], donation)
	}

	remaining := make([]string, 0, len(byStore))
	for storeID := range byStore {
		remaining = append(remaining, storeID)
	}
	sort.Strings(remaining)

	var visits []PickupVisit
	var totalMiles float64
	position := from
	clock := start

	for len(remaining) > 0 {
		nearestIdx := 0
		nearestMiles := math.Inf(1)
		for i, storeID := range remaining {
			store := stores[storeID]
			miles := geo.Miles(position, geo.Point{Latitude: store.Latitude, Longitude: store.Longitude})
			if miles < nearestMiles {
				nearestMiles = miles
				nearestIdx = i
			}
		}

		storeID := remaining[nearestIdx]
		remaining = append(remaining[:nearestIdx], remaining[nearestIdx+1:]...)
		store := stores[storeID]
		batch := byStore[storeID]

		travel := travelMinutes(nearestMiles)
		duration := pickupDurationMinutes(batch)
		clock = clock.Add(time.Duration(travel) * time.Minute)

		var pounds float64
		for _, donation := range batch {
			pounds += donation.QuantityPounds
		}

		visits = append(visits, PickupVisit{
			Store:           store,
			Donations:       batch,
			ArrivalAt:       clock,
			TravelMinutes:   travel,
			DurationMinutes: duration,
			TotalPounds:     pounds,
		})

		totalMiles += nearestMiles
		position = geo.Point{Latitude: store.Latitude, Longitude: store.Longitude}
		clock = clock.Add(time.Duration(duration) * time.Minute)
	}

	return visits, clock, position, totalMiles
}

// allocate assigns donations to banks weighted by need share and remaining
// capacity, most urgent donations first.
func (o *Optimizer) allocate(donations []storage.Donation, banks []storage.FoodBank) map[string][]storage.Donation {
	if len(banks) == 0 {
		return nil
	}

	var totalNeed float64
	for _, bank := range banks {
		totalNeed += float64(bank.DailyNeedPounds)
	}

	sorted := make([]storage.Donation, len(donations))
	copy(sorted, donations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return expiryOrDistantFuture(sorted[i]).Before(expiryOrDistantFuture(sorted[j]))
	})

	allocation := make(map[string][]storage.Donation)
	currentPounds := make(map[string]float64)

	for _, donation := range sorted {
		best := -1
		bestScore := -1.0
		for i, bank := range banks {
			remaining := float64(bank.StorageCapacityPounds) - currentPounds[bank.ID]
			if remaining < donation.QuantityPounds {
				continue
			}

			needRatio := 0.0
			if totalNeed > 0 {
				needRatio = float64(bank.DailyNeedPounds) / totalNeed
			}
			utilization := currentPounds[bank.ID] / float64(bank.StorageCapacityPounds)
			score := needRatio * (1 - utilization)
			if bank.CanSelfPickup && donation.QuantityPounds > selfPickupBonusPounds {
				score *= 1.2
			}
			if score > bestScore {
				bestScore = score
				best = i
			}
		}
		if best >= 0 {
			bank := banks[best]
			allocation[bank.ID] = append(allocation[bank.ID], donation)
			currentPounds[bank.ID] += donation.QuantityPounds
		}
	}
	return allocationByBank(allocation, banks)
}

// allocationByBank drops empty entries and keys the result by bank, keeping
// the caller's bank ordering stable.
func allocationByBank(allocation map[string][]storage.Donation, banks []storage.FoodBank) map[string][]storage.Donation {
	out := make(map[string][]storage.Donation, len(allocation))
	for _, bank := range banks {
		if batch := allocation[bank.ID]; len(batch) > 0 {
			out[bank.ID] = batch
		}
	}
	return out
}

// sequenceDeliveries orders bank visits nearest-neighbor from the last pickup.
func (o *Optimizer) sequenceDeliveries(allocation map[string][]storage.Donation, banks map[string]storage.FoodBank, position geo.Point, start time.Time) ([]DeliveryVisit, time.Time, float64) {
	var remaining []string
	for bankID := range allocation {
		remaining = append(remaining, bankID)
	}
	sort.Strings(remaining)

	var visits []DeliveryVisit
	var totalMiles float64
	clock := start

	for len(remaining) > 0 {
		nearestIdx := 0
		nearestMiles := math.Inf(1)
		for i, bankID := range remaining {
			bank := banks[bankID]
			miles := geo.Miles(position, geo.Point{Latitude: bank.Latitude, Longitude: bank.Longitude})
			if miles < nearestMiles {
				nearestMiles = miles
				nearestIdx = i
			}
		}

		bankID := remaining[nearestIdx]
		remaining = append(remaining[:nearestIdx], remaining[nearestIdx+1:]...)
		bank := banks[bankID]
		batch := allocation[bankID]

		travel := travelMinutes(nearestMiles)
		duration := deliveryDurationMinutes(batch)
		clock = clock.Add(time.Duration(travel) * time.Minute)

		var pounds float64
		for _, donation := range batch {
			pounds += donation.QuantityPounds
		}

		visits = append(visits, DeliveryVisit{
			Bank:            bank,
			Donations:       batch,
			ArrivalAt:       clock,
			TravelMinutes:   travel,
			DurationMinutes: duration,
			TotalPounds:     pounds,
		})

		totalMiles += nearestMiles
		position = geo.Point{Latitude: bank.Latitude, Longitude: bank.Longitude}
		clock = clock.Add(time.Duration(duration) * time.Minute)
	}

	return visits, clock, totalMiles
}

// efficiencyScore grades a plan 0-100 on stop spread, capacity use, and time use.
func (o *Optimizer) efficiencyScore(plan Plan) float64 {
	totalStops := len(plan.Pickups) + len(plan.Deliveries)
	if totalStops == 0 {
		return 0
	}

	distanceScore := math.Min(100, 1000/math.Max(1, float64(totalStops*5)))
	capacityScore := math.Min(100, plan.TotalPounds/float64(o.region.TruckCapacityPounds)*100)
	timeScore := math.Min(100, float64(plan.TotalDurationMinutes)/(workWindowHours*60)*100)

	score := distanceScore*0.3 + capacityScore*0.4 + timeScore*0.3
	return math.Round(score*10) / 10
}

// travelMinutes converts a leg distance to minutes at urban speed with floor
// and buffer.
func travelMinutes(miles float64) int {
	minutes := int(miles / averageSpeedMPH * 60)
	if minutes+travelBufferMinutes < minTravelMinutes {
		return minTravelMinutes
	}
	return minutes + travelBufferMinutes
}

// pickupDurationMinutes estimates a store visit: base time plus per-item and
// per-pound handling.
func pickupDurationMinutes(donations []storage.Donation) int {
	var pounds float64
	for _, donation := range donations {
		pounds += donation.QuantityPounds
	}
	minutes := 10 + len(donations)*2 + int(pounds*0.5)
	if minutes < 15 {
		return 15
	}
	return minutes
}

// deliveryDurationMinutes estimates a bank visit: base, per-item, per-pound,
// plus unloading and paperwork.
func deliveryDurationMinutes(donations []storage.Donation) int {
	var pounds float64
	for _, donation := range donations {
		pounds += donation.QuantityPounds
	}
	minutes := 15 + len(donations)*3 + int(pounds*0.8) + 10
	if minutes < 20 {
		return 20
	}
	return minutes
}

func expiryOrDistantFuture(donation storage.Donation) time.Time {
	if donation.ExpirationDate != nil {
		return *donation.ExpirationDate
	}
	return time.Now().UTC().AddDate(1, 0, 0)
}
