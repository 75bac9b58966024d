package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/foodrescuehub/foodrescue/internal/intake"
	"github.com/foodrescuehub/foodrescue/internal/storage"
)

// PickupProposalEmail builds the first contact sent to a store after its
// donation email is processed, proposing a pickup slot.
func PickupProposalEmail(store storage.GroceryStore, proposal intake.PickupProposal) (subject, body string) {
	subject = fmt.Sprintf("Pickup Proposal - %s", proposal.SuggestedAt.Format("2006-01-02"))

	var items strings.Builder
	for _, donation := range proposal.Donations {
		fmt.Fprintf(&items, "- %s: %s (%.1f lbs)\n", donation.Category, donation.Description, donation.QuantityPounds)
	}

	urgency := ""
	if proposal.Urgent {
		urgency = "\nThese items are flagged urgent due to approaching expiration, so we have proposed the earliest available slot.\n"
	}

	body = fmt.Sprintf(`Dear %s,

Thank you for your donation! We have proposed a pickup time for the items below:

PROPOSED PICKUP:
- Store: %s
- Date: %s
- Time: %s
- Estimated Duration: %d minutes

ITEMS:
%s
Total Weight: %.1f lbs
%s
Please reply to this email with:
- "CONFIRMED" if the proposed time works for you
- "RESCHEDULE" with alternative times if needed

Best regards,
Food Rescue Hub Team`,
		store.ContactPerson,
		store.Name,
		proposal.SuggestedAt.Format("Monday, January 2, 2006"),
		proposal.SuggestedAt.Format("3:04 PM"),
		proposal.EstimatedDurationMinutes,
		items.String(),
		proposal.TotalPounds,
		urgency,
	)
	return subject, body
}

// PickupConfirmationEmail builds the confirmation request sent to a grocery
// store ahead of a scheduled pickup.
func PickupConfirmationEmail(baseURL string, route storage.Route, stop storage.RouteStop, store storage.GroceryStore, donations []storage.Donation) (subject, body string) {
	subject = fmt.Sprintf("Pickup Confirmation Required - %s", route.ScheduledDate.Format("2006-01-02"))

	var items strings.Builder
	var totalPounds float64
	for _, donation := range donations {
		fmt.Fprintf(&items, "- %s: %s (%.1f lbs)\n", donation.Category, donation.Description, donation.QuantityPounds)
		totalPounds += donation.QuantityPounds
	}

	body = fmt.Sprintf(`Dear %s,

We have scheduled a pickup from your store for the following items:

PICKUP DETAILS:
- Store: %s
- Date: %s
- Estimated Arrival Time: %s
- Estimated Duration: %d minutes
- Driver Team: %s
- Truck: %s

ITEMS TO PICKUP:
%s
Total Weight: %.1f lbs

CONFIRMATION REQUIRED:
Please confirm this pickup time by replying to this email with:
- "CONFIRMED" if the time works for you
- "RESCHEDULE" with alternative times if needed
- Any special instructions for our driver team

You can also confirm online: %s/api/stops/%s/confirm

Our volunteer drivers will arrive with proper refrigerated storage and will handle all items with care.

Thank you for helping reduce food waste in our community!

Best regards,
Food Rescue Hub Team

Route ID: %s
Stop ID: %s`,
		store.ContactPerson,
		store.Name,
		route.ScheduledDate.Format("Monday, January 2, 2006"),
		stop.EstimatedArrivalAt.Format("3:04 PM"),
		stop.EstimatedDurationMinutes,
		route.DriverTeam,
		route.TruckID,
		items.String(),
		totalPounds,
		baseURL, stop.ID,
		route.ID,
		stop.ID,
	)
	return subject, body
}

// DeliveryConfirmationEmail builds the confirmation request sent to a food
// bank ahead of a scheduled delivery. Items are rolled up by category.
func DeliveryConfirmationEmail(route storage.Route, stop storage.RouteStop, bank storage.FoodBank, donations []storage.Donation) (subject, body string) {
	subject = fmt.Sprintf("Delivery Schedule Confirmation - %s", route.ScheduledDate.Format("2006-01-02"))

	byCategory := make(map[string]float64)
	var totalPounds float64
	for _, donation := range donations {
		byCategory[donation.Category] += donation.QuantityPounds
		totalPounds += donation.QuantityPounds
	}
	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var items strings.Builder
	for _, category := range categories {
		fmt.Fprintf(&items, "- %s: %.1f lbs\n", category, byCategory[category])
	}

	body = fmt.Sprintf(`Dear %s,

We have scheduled a food delivery to your food bank:

DELIVERY DETAILS:
- Food Bank: %s
- Date: %s
- Estimated Arrival Time: %s
- Estimated Duration: %d minutes
- Driver Team: %s
- Truck: %s

FOOD ITEMS TO DELIVER:
%s
Total Weight: %.1f lbs

CONFIRMATION REQUIRED:
Please confirm this delivery time by replying to this email with:
- "CONFIRMED" if the time works for you
- "RESCHEDULE" with alternative times if needed
- Any special receiving instructions

Please ensure you have adequate storage space and staff available to receive the delivery.

RECEIVING INSTRUCTIONS:
- Our team will arrive with proper refrigerated storage
- Please have staff available to help unload
- Refrigerated items should be stored immediately
- We'll provide a delivery receipt for your records

Thank you for serving our community!

Best regards,
Food Rescue Hub Team

Route ID: %s
Stop ID: %s`,
		bank.ContactPerson,
		bank.Name,
		route.ScheduledDate.Format("Monday, January 2, 2006"),
		stop.EstimatedArrivalAt.Format("3:04 PM"),
		stop.EstimatedDurationMinutes,
		route.DriverTeam,
		route.TruckID,
		items.String(),
		totalPounds,
		route.ID,
		stop.ID,
	)
	return subject, body
}

// ScheduleChangeEmail builds the notice sent when a planned stop has to move.
func ScheduleChangeEmail(route storage.Route, stop storage.RouteStop, contactPerson, reason string) (subject, body string) {
	subject = fmt.Sprintf("Schedule Change Notification - %s", route.ScheduledDate.Format("2006-01-02"))

	action := "delivery"
	if stop.Type == storage.StopPickup {
		action = "pickup"
	}

	body = fmt.Sprintf(`Dear %s,

This is an important notification regarding a schedule change for your %s appointment.

ORIGINAL SCHEDULE:
- Date: %s
- Time: %s

CHANGE REASON:
%s

NEW SCHEDULE:
We will contact you shortly with the updated schedule information.

IMMEDIATE ACTION REQUIRED:
Please confirm your availability for alternative times by replying to this email or calling us directly.

We apologize for any inconvenience this may cause and appreciate your flexibility in helping us serve the community.

Thank you for your understanding.

Best regards,
Food Rescue Hub Team

Route ID: %s`,
		contactPerson,
		action,
		route.ScheduledDate.Format("Monday, January 2, 2006"),
		stop.EstimatedArrivalAt.Format("3:04 PM"),
		reason,
		route.ID,
	)
	return subject, body
}
