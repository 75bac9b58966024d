package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/foodrescuehub/foodrescue/internal/intake"
	"github.com/foodrescuehub/foodrescue/internal/platform/id"
	"github.com/foodrescuehub/foodrescue/internal/storage"
)

// Store is the persistence surface the workflow needs.
type Store interface {
	storage.RouteStore
	storage.NotificationStore
	GetGroceryStore(ctx context.Context, id string) (storage.GroceryStore, error)
	GetFoodBank(ctx context.Context, id string) (storage.FoodBank, error)
	GetDonation(ctx context.Context, id string) (storage.Donation, error)
}

// Stats summarizes one notification pass over a route.
type Stats struct {
	Sent   int
	Failed int
	Total  int
}

// Outcome classifies a processed email response.
type Outcome string

const (
	OutcomeConfirmed           Outcome = "confirmed"
	OutcomeRescheduleRequested Outcome = "reschedule_requested"
	OutcomeRecorded            Outcome = "response_recorded"
)

// RouteConfirmations reports confirmation progress for a route.
type RouteConfirmations struct {
	RouteID             string
	TotalStops          int
	ConfirmedStops      int
	PendingStops        int
	ConfirmationRate    float64
	ConfirmedPickups    int
	TotalPickups        int
	ConfirmedDeliveries int
	TotalDeliveries     int
	ReadyForExecution   bool
}

// Workflow drives the confirmation loop for planned routes.
type Workflow struct {
	store   Store
	mailer  Mailer
	baseURL string
	logger  *log.Logger
}

// NewWorkflow wires a workflow over the given store and mail transport.
// baseURL is used for confirmation links in outbound email.
func NewWorkflow(store Store, mailer Mailer, baseURL string, logger *log.Logger) *Workflow {
	if logger == nil {
		logger = log.Default()
	}
	return &Workflow{store: store, mailer: mailer, baseURL: baseURL, logger: logger}
}

// SendPickupProposals emails each proposed store visit in a pickup schedule.
// One notification row is recorded per donation so a reply can be traced back
// to the items it covers.
func (w *Workflow) SendPickupProposals(ctx context.Context, schedule intake.Schedule) (Stats, error) {
	var stats Stats
	for _, proposal := range schedule.Proposals() {
		stats.Total++

		store, err := w.store.GetGroceryStore(ctx, proposal.StoreID)
		if err != nil {
			w.logger.Printf("pickup proposal: store %s: %v", proposal.StoreID, err)
			stats.Failed++
			continue
		}

		subject, body := PickupProposalEmail(store, proposal)
		recorded := make([]string, 0, len(proposal.Donations))
		for _, donation := range proposal.Donations {
			notification := storage.Notification{
				ID:             id.MustNewID(),
				Type:           storage.NotifyPickupProposal,
				RecipientEmail: store.Email,
				Subject:        subject,
				Body:           body,
				DonationID:     donation.ID,
			}
			if err := w.store.CreateNotification(ctx, notification); err != nil {
				w.logger.Printf("pickup proposal: donation %s: record: %v", donation.ID, err)
				recorded = nil
				break
			}
			recorded = append(recorded, notification.ID)
		}
		if len(recorded) == 0 {
			stats.Failed++
			continue
		}

		if err := w.mailer.Send(ctx, store.Email, subject, body); err != nil {
			w.logger.Printf("pickup proposal: store %s: send: %v", store.ID, err)
			stats.Failed++
			continue
		}
		sentAt := time.Now().UTC()
		for _, notificationID := range recorded {
			if err := w.store.MarkNotificationSent(ctx, notificationID, sentAt); err != nil {
				w.logger.Printf("pickup proposal: notification %s: mark sent: %v", notificationID, err)
			}
		}
		stats.Sent++
	}
	return stats, nil
}

// SendPickupConfirmations emails every grocery store on the route asking them
// to confirm their pickup slot.
func (w *Workflow) SendPickupConfirmations(ctx context.Context, routeID string) (Stats, error) {
	route, stops, err := w.routeStops(ctx, routeID)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, stop := range stops {
		if stop.Type != storage.StopPickup {
			continue
		}
		stats.Total++

		store, err := w.store.GetGroceryStore(ctx, stop.StoreID)
		if err != nil {
			w.logger.Printf("pickup confirmation: stop %s: load store: %v", stop.ID, err)
			stats.Failed++
			continue
		}
		donations, err := w.stopDonations(ctx, stop)
		if err != nil {
			w.logger.Printf("pickup confirmation: stop %s: %v", stop.ID, err)
			stats.Failed++
			continue
		}

		subject, body := PickupConfirmationEmail(w.baseURL, route, stop, store, donations)
		if err := w.deliver(ctx, storage.NotifyPickupConfirmation, store.Email, subject, body, stop.ID); err != nil {
			w.logger.Printf("pickup confirmation: stop %s: %v", stop.ID, err)
			stats.Failed++
			continue
		}
		stats.Sent++
	}
	return stats, nil
}

// SendDeliveryConfirmations emails every food bank on the route asking them to
// confirm their delivery slot.
func (w *Workflow) SendDeliveryConfirmations(ctx context.Context, routeID string) (Stats, error) {
	route, stops, err := w.routeStops(ctx, routeID)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, stop := range stops {
		if stop.Type != storage.StopDelivery {
			continue
		}
		stats.Total++

		bank, err := w.store.GetFoodBank(ctx, stop.FoodBankID)
		if err != nil {
			w.logger.Printf("delivery confirmation: stop %s: load bank: %v", stop.ID, err)
			stats.Failed++
			continue
		}
		donations, err := w.stopDonations(ctx, stop)
		if err != nil {
			w.logger.Printf("delivery confirmation: stop %s: %v", stop.ID, err)
			stats.Failed++
			continue
		}

		subject, body := DeliveryConfirmationEmail(route, stop, bank, donations)
		if err := w.deliver(ctx, storage.NotifyDeliveryConfirmation, bank.Email, subject, body, stop.ID); err != nil {
			w.logger.Printf("delivery confirmation: stop %s: %v", stop.ID, err)
			stats.Failed++
			continue
		}
		stats.Sent++
	}
	return stats, nil
}

// SendScheduleChanges notifies every party on the route that the schedule
// moved and why.
func (w *Workflow) SendScheduleChanges(ctx context.Context, routeID, reason string) (Stats, error) {
	route, stops, err := w.routeStops(ctx, routeID)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, stop := range stops {
		stats.Total++

		var email, contact string
		if stop.Type == storage.StopPickup {
			store, err := w.store.GetGroceryStore(ctx, stop.StoreID)
			if err != nil {
				w.logger.Printf("schedule change: stop %s: %v", stop.ID, err)
				stats.Failed++
				continue
			}
			email, contact = store.Email, store.ContactPerson
		} else {
			bank, err := w.store.GetFoodBank(ctx, stop.FoodBankID)
			if err != nil {
				w.logger.Printf("schedule change: stop %s: %v", stop.ID, err)
				stats.Failed++
				continue
			}
			email, contact = bank.Email, bank.ContactPerson
		}

		subject, body := ScheduleChangeEmail(route, stop, contact, reason)
		if err := w.deliver(ctx, storage.NotifyScheduleChange, email, subject, body, stop.ID); err != nil {
			w.logger.Printf("schedule change: stop %s: %v", stop.ID, err)
			stats.Failed++
			continue
		}
		stats.Sent++
	}
	return stats, nil
}

// ProcessResponse applies a partner's email reply to its stop. A reply
// containing "confirmed" confirms the stop; "reschedule" flags it for manual
// review; anything else is recorded on the stop's notes.
func (w *Workflow) ProcessResponse(ctx context.Context, stopID, fromEmail, response string) (Outcome, error) {
	stop, err := w.store.GetRouteStop(ctx, stopID)
	if err != nil {
		return "", fmt.Errorf("load stop %s: %w", stopID, err)
	}

	lower := strings.ToLower(strings.TrimSpace(response))
	switch {
	case strings.Contains(lower, "confirmed"):
		now := time.Now().UTC()
		if err := w.store.ConfirmRouteStop(ctx, stop.ID, now, fromEmail, ""); err != nil {
			return "", fmt.Errorf("confirm stop %s: %w", stop.ID, err)
		}
		if err := w.store.RecordNotificationResponse(ctx, stop.ID, response); err != nil {
			return "", fmt.Errorf("record response for stop %s: %w", stop.ID, err)
		}
		return OutcomeConfirmed, nil

	case strings.Contains(lower, "reschedule"):
		notes := "Reschedule requested: " + response
		if err := w.store.SetRouteStopNotes(ctx, stop.ID, notes); err != nil {
			return "", fmt.Errorf("note stop %s: %w", stop.ID, err)
		}
		return OutcomeRescheduleRequested, nil

	default:
		notes := "Response received: " + response
		if err := w.store.SetRouteStopNotes(ctx, stop.ID, notes); err != nil {
			return "", fmt.Errorf("note stop %s: %w", stop.ID, err)
		}
		return OutcomeRecorded, nil
	}
}

// ConfirmationStatus reports how many stops on the route have confirmed. A
// route is ready for execution once every stop is confirmed.
func (w *Workflow) ConfirmationStatus(ctx context.Context, routeID string) (RouteConfirmations, error) {
	_, stops, err := w.routeStops(ctx, routeID)
	if err != nil {
		return RouteConfirmations{}, err
	}

	status := RouteConfirmations{RouteID: routeID, TotalStops: len(stops)}
	for _, stop := range stops {
		if stop.Type == storage.StopPickup {
			status.TotalPickups++
			if stop.Confirmed {
				status.ConfirmedPickups++
			}
		} else {
			status.TotalDeliveries++
			if stop.Confirmed {
				status.ConfirmedDeliveries++
			}
		}
		if stop.Confirmed {
			status.ConfirmedStops++
		}
	}
	status.PendingStops = status.TotalStops - status.ConfirmedStops
	if status.TotalStops > 0 {
		status.ConfirmationRate = float64(status.ConfirmedStops) / float64(status.TotalStops) * 100
	}
	status.ReadyForExecution = status.TotalStops > 0 && status.PendingStops == 0
	return status, nil
}

func (w *Workflow) routeStops(ctx context.Context, routeID string) (storage.Route, []storage.RouteStop, error) {
	route, err := w.store.GetRoute(ctx, routeID)
	if err != nil {
		return storage.Route{}, nil, fmt.Errorf("load route %s: %w", routeID, err)
	}
	stops, err := w.store.ListRouteStops(ctx, routeID)
	if err != nil {
		return storage.Route{}, nil, fmt.Errorf("list stops for route %s: %w", routeID, err)
	}
	return route, stops, nil
}

func (w *Workflow) stopDonations(ctx context.Context, stop storage.RouteStop) ([]storage.Donation, error) {
	donations := make([]storage.Donation, 0, len(stop.DonationIDs))
	for _, donationID := range stop.DonationIDs {
		donation, err := w.store.GetDonation(ctx, donationID)
		if err != nil {
			return nil, fmt.Errorf("load donation %s: %w", donationID, err)
		}
		donations = append(donations, donation)
	}
	return donations, nil
}

// deliver records the notification, sends the email, and marks it sent.
func (w *Workflow) deliver(ctx context.Context, kind storage.NotificationType, to, subject, body, stopID string) error {
	notification := storage.Notification{
		ID:             id.MustNewID(),
		Type:           kind,
		RecipientEmail: to,
		Subject:        subject,
		Body:           body,
		StopID:         stopID,
	}
	if err := w.store.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	if err := w.mailer.Send(ctx, to, subject, body); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	if err := w.store.MarkNotificationSent(ctx, notification.ID, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	return nil
}
