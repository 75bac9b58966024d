package intake

import (
	"sort"
	"time"

	"github.com/foodrescuehub/foodrescue/internal/storage"
)

const (
	// urgentExpiryDays marks donations expiring within this many days as urgent.
	urgentExpiryDays = 2
	// urgentSellByDays marks donations past sell-by within this many days as urgent.
	urgentSellByDays = 1
	// pickupDayStartHour is the hour trucks start rolling.
	pickupDayStartHour = 8
	// travelGapMinutes spaces consecutive proposed pickups apart.
	travelGapMinutes = 30
)

// PickupProposal suggests one store visit covering a batch of donations.
type PickupProposal struct {
	StoreID                  string
	Donations                []storage.Donation
	SuggestedAt              time.Time
	EstimatedDurationMinutes int
	TotalPounds              float64
	Urgent                   bool
}

// Schedule is the proposed pickup plan for a batch of donations.
type Schedule struct {
	UrgentPickups            []PickupProposal
	RegularPickups           []PickupProposal
	TotalPounds              float64
	EstimatedDurationMinutes int
}

// Proposals returns urgent then regular pickups as one slice.
func (s Schedule) Proposals() []PickupProposal {
	out := make([]PickupProposal, 0, len(s.UrgentPickups)+len(s.RegularPickups))
	out = append(out, s.UrgentPickups...)
	out = append(out, s.RegularPickups...)
	return out
}

// GeneratePickupSchedule splits donations by urgency and proposes pickup
// slots: urgent batches go out tomorrow morning, the rest the day after.
func GeneratePickupSchedule(donations []storage.Donation, now time.Time) Schedule {
	if len(donations) == 0 {
		return Schedule{}
	}

	var urgent, regular []storage.Donation
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, donation := range donations {
		if isUrgent(donation, today) {
			urgent = append(urgent, donation)
		} else {
			regular = append(regular, donation)
		}
	}

	schedule := Schedule{
		UrgentPickups:  proposePickups(urgent, dayStart(now).AddDate(0, 0, 1), true),
		RegularPickups: proposePickups(regular, dayStart(now).AddDate(0, 0, 2), false),
	}
	for _, donation := range donations {
		schedule.TotalPounds += donation.QuantityPounds
	}
	schedule.EstimatedDurationMinutes = estimateTotalDuration(donations)
	return schedule
}

func isUrgent(donation storage.Donation, today time.Time) bool {
	if donation.ExpirationDate != nil {
		days := int(donation.ExpirationDate.Sub(today).Hours() / 24)
		if days <= urgentExpiryDays {
			return true
		}
	}
	if donation.SellByDate != nil {
		days := int(donation.SellByDate.Sub(today).Hours() / 24)
		if days <= urgentSellByDays {
			return true
		}
	}
	return false
}

func dayStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), pickupDayStartHour, 0, 0, 0, time.UTC)
}

// proposePickups groups donations by store and spaces the visits out by
// estimated duration plus travel.
func proposePickups(donations []storage.Donation, baseTime time.Time, urgent bool) []PickupProposal {
	if len(donations) == 0 {
		return nil
	}

	byStore := make(map[string][]storage.Donation)
	var storeOrder []string
	for _, donation := range donations {
		if _, seen := byStore[donation.StoreID]; !seen {
			storeOrder = append(storeOrder, donation.StoreID)
		}
		byStore[donation.StoreID] = append(byStore[donation.StoreID], donation)
	}
	sort.Strings(storeOrder)

	var proposals []PickupProposal
	slot := baseTime
	for _, storeID := range storeOrder {
		batch := byStore[storeID]
		var pounds float64
		for _, donation := range batch {
			pounds += donation.QuantityPounds
		}
		duration := clampDuration(int(pounds * 2))

		proposals = append(proposals, PickupProposal{
			StoreID:                  storeID,
			Donations:                batch,
			SuggestedAt:              slot,
			EstimatedDurationMinutes: duration,
			TotalPounds:              pounds,
			Urgent:                   urgent,
		})
		slot = slot.Add(time.Duration(duration+travelGapMinutes) * time.Minute)
	}
	return proposals
}

// clampDuration keeps a visit estimate within the 15-60 minute window.
func clampDuration(minutes int) int {
	if minutes < 15 {
		return 15
	}
	if minutes > 60 {
		return 60
	}
	return minutes
}

// estimateTotalDuration sums per-store base time, weight handling, and travel
// between stores.
func estimateTotalDuration(donations []storage.Donation) int {
	stores := make(map[string]bool)
	var pounds float64
	for _, donation := range donations {
		stores[donation.StoreID] = true
		pounds += donation.QuantityPounds
	}
	if len(stores) == 0 {
		return 0
	}
	base := len(stores) * 20
	weight := pounds * 1.5
	travel := (len(stores) - 1) * 15
	return base + int(weight) + travel
}
