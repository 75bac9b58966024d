package routing

import (
	"context"
	"fmt"

	"github.com/foodrescuehub/foodrescue/internal/platform/id"
	"github.com/foodrescuehub/foodrescue/internal/storage"
)

// SaveRoute persists a plan as a planned route with ordered stops, pickups
// first. Donation IDs travel with each stop so confirmations can resolve back
// to the originating donations.
func SaveRoute(ctx context.Context, store storage.RouteStore, regionID string, plan Plan, driverTeam, truckID string) (storage.Route, error) {
	route := storage.Route{
		ID:                       id.MustNewID(),
		RegionID:                 regionID,
		ScheduledDate:            plan.TargetDate,
		StartTime:                plan.TargetDate.Format("15:04"),
		EndTime:                  plan.CompletionAt.Format("15:04"),
		DriverTeam:               driverTeam,
		TruckID:                  truckID,
		TotalDistanceMiles:       plan.TotalDistanceMiles,
		EstimatedDurationMinutes: plan.TotalDurationMinutes,
		Status:                   storage.RoutePlanned,
	}
	if err := store.CreateRoute(ctx, route); err != nil {
		return storage.Route{}, fmt.Errorf("create route: %w", err)
	}

	order := 1
	for _, pickup := range plan.Pickups {
		stop := storage.RouteStop{
			ID:                       id.MustNewID(),
			RouteID:                  route.ID,
			StopOrder:                order,
			Type:                     storage.StopPickup,
			StoreID:                  pickup.Store.ID,
			DonationIDs:              donationIDs(pickup.Donations),
			EstimatedArrivalAt:       pickup.ArrivalAt,
			EstimatedDurationMinutes: pickup.DurationMinutes,
		}
		if err := store.CreateRouteStop(ctx, stop); err != nil {
			return storage.Route{}, fmt.Errorf("create pickup stop %d: %w", order, err)
		}
		order++
	}
	for _, delivery := range plan.Deliveries {
		stop := storage.RouteStop{
			ID:                       id.MustNewID(),
			RouteID:                  route.ID,
			StopOrder:                order,
			Type:                     storage.StopDelivery,
			FoodBankID:               delivery.Bank.ID,
			DonationIDs:              donationIDs(delivery.Donations),
			EstimatedArrivalAt:       delivery.ArrivalAt,
			EstimatedDurationMinutes: delivery.DurationMinutes,
		}
		if err := store.CreateRouteStop(ctx, stop); err != nil {
			return storage.Route{}, fmt.Errorf("create delivery stop %d: %w", order, err)
		}
		order++
	}
	return route, nil
}

// MarkDonationsRouted flips routed donations to confirmed with their planned
// pickup time.
func MarkDonationsRouted(ctx context.Context, store storage.DonationStore, plan Plan) error {
	for _, pickup := range plan.Pickups {
		for _, donation := range pickup.Donations {
			arrival := pickup.ArrivalAt
			if err := store.UpdateDonationSchedule(ctx, donation.ID, storage.DonationConfirmed, &arrival); err != nil {
				return fmt.Errorf("update donation %s: %w", donation.ID, err)
			}
		}
	}
	return nil
}

func donationIDs(donations []storage.Donation) []string {
	ids := make([]string, len(donations))
	for i, donation := range donations {
		ids[i] = donation.ID
	}
	return ids
}
