package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/foodrescuehub/foodrescue/internal/intake"
	"github.com/foodrescuehub/foodrescue/internal/storage"
)

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type recordingMailer struct {
	sent []sentEmail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

type fakeStore struct {
	route         storage.Route
	stops         map[string]*storage.RouteStop
	stopOrder     []string
	stores        map[string]storage.GroceryStore
	banks         map[string]storage.FoodBank
	donations     map[string]storage.Donation
	notifications []storage.Notification
	responses     map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stops:     make(map[string]*storage.RouteStop),
		stores:    make(map[string]storage.GroceryStore),
		banks:     make(map[string]storage.FoodBank),
		donations: make(map[string]storage.Donation),
		responses: make(map[string]string),
	}
}

func (s *fakeStore) CreateRoute(context.Context, storage.Route) error { return nil }

func (s *fakeStore) GetRoute(_ context.Context, id string) (storage.Route, error) {
	if s.route.ID != id {
		return storage.Route{}, storage.ErrNotFound
	}
	return s.route, nil
}

func (s *fakeStore) ListRoutes(context.Context, string, time.Time, []storage.RouteStatus) ([]storage.Route, error) {
	return nil, nil
}

func (s *fakeStore) UpdateRouteStatus(context.Context, string, storage.RouteStatus) error {
	return nil
}

func (s *fakeStore) CreateRouteStop(_ context.Context, stop storage.RouteStop) error {
	s.stops[stop.ID] = &stop
	s.stopOrder = append(s.stopOrder, stop.ID)
	return nil
}

func (s *fakeStore) GetRouteStop(_ context.Context, id string) (storage.RouteStop, error) {
	stop, ok := s.stops[id]
	if !ok {
		return storage.RouteStop{}, storage.ErrNotFound
	}
	return *stop, nil
}

func (s *fakeStore) ListRouteStops(_ context.Context, routeID string) ([]storage.RouteStop, error) {
	var out []storage.RouteStop
	for _, id := range s.stopOrder {
		if s.stops[id].RouteID == routeID {
			out = append(out, *s.stops[id])
		}
	}
	return out, nil
}

func (s *fakeStore) ConfirmRouteStop(_ context.Context, id string, confirmedAt time.Time, byEmail, notes string) error {
	stop, ok := s.stops[id]
	if !ok {
		return storage.ErrNotFound
	}
	stop.Confirmed = true
	stop.ConfirmedAt = &confirmedAt
	stop.ConfirmedByEmail = byEmail
	if notes != "" {
		stop.Notes = notes
	}
	return nil
}

func (s *fakeStore) SetRouteStopNotes(_ context.Context, id, notes string) error {
	stop, ok := s.stops[id]
	if !ok {
		return storage.ErrNotFound
	}
	stop.Notes = notes
	return nil
}

func (s *fakeStore) FindStopForDonation(context.Context, string) (storage.RouteStop, error) {
	return storage.RouteStop{}, storage.ErrNotFound
}

func (s *fakeStore) CreateNotification(_ context.Context, notification storage.Notification) error {
	s.notifications = append(s.notifications, notification)
	return nil
}

func (s *fakeStore) MarkNotificationSent(_ context.Context, id string, sentAt time.Time) error {
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Sent = true
			s.notifications[i].SentAt = &sentAt
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *fakeStore) RecordNotificationResponse(_ context.Context, stopID, response string) error {
	s.responses[stopID] = response
	return nil
}

func (s *fakeStore) ListNotificationsForStop(_ context.Context, stopID string) ([]storage.Notification, error) {
	var out []storage.Notification
	for _, n := range s.notifications {
		if n.StopID == stopID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeStore) GetGroceryStore(_ context.Context, id string) (storage.GroceryStore, error) {
	store, ok := s.stores[id]
	if !ok {
		return storage.GroceryStore{}, storage.ErrNotFound
	}
	return store, nil
}

func (s *fakeStore) GetFoodBank(_ context.Context, id string) (storage.FoodBank, error) {
	bank, ok := s.banks[id]
	if !ok {
		return storage.FoodBank{}, storage.ErrNotFound
	}
	return bank, nil
}

func (s *fakeStore) GetDonation(_ context.Context, id string) (storage.Donation, error) {
	donation, ok := s.donations[id]
	if !ok {
		return storage.Donation{}, storage.ErrNotFound
	}
	return donation, nil
}

func seedRoute(s *fakeStore) {
	arrival := time.Date(2024, 11, 12, 8, 20, 0, 0, time.UTC)
	s.route = storage.Route{
		ID:            "route-1",
		RegionID:      "region-atl",
		ScheduledDate: time.Date(2024, 11, 12, 8, 0, 0, 0, time.UTC),
		DriverTeam:    "Team A",
		TruckID:       "TRUCK-1",
		Status:        storage.RoutePlanned,
	}
	s.stores["store-1"] = storage.GroceryStore{
		ID: "store-1", Name: "Fresh Market Midtown", ContactPerson: "Sarah Johnson",
		Email: "sarah@freshmarket.example",
	}
	s.banks["bank-1"] = storage.FoodBank{
		ID: "bank-1", Name: "Atlanta Community Food Bank", ContactPerson: "Mike Chen",
		Email: "mike@acfb.example",
	}
	s.donations["don-1"] = storage.Donation{
		ID: "don-1", StoreID: "store-1", Category: "produce",
		Description: "fresh produce", QuantityPounds: 25,
	}
	_ = s.CreateRouteStop(context.Background(), storage.RouteStop{
		ID: "stop-pickup", RouteID: "route-1", StopOrder: 1,
		Type: storage.StopPickup, StoreID: "store-1",
		DonationIDs: []string{"don-1"}, EstimatedArrivalAt: arrival,
		EstimatedDurationMinutes: 20,
	})
	_ = s.CreateRouteStop(context.Background(), storage.RouteStop{
		ID: "stop-delivery", RouteID: "route-1", StopOrder: 2,
		Type: storage.StopDelivery, FoodBankID: "bank-1",
		DonationIDs: []string{"don-1"}, EstimatedArrivalAt: arrival.Add(time.Hour),
		EstimatedDurationMinutes: 30,
	})
}

func TestSendPickupConfirmations(t *testing.T) {
	store := newFakeStore()
	seedRoute(store)
	mailer := &recordingMailer{}
	workflow := NewWorkflow(store, mailer, "http://localhost:8000", nil)

	stats, err := workflow.SendPickupConfirmations(context.Background(), "route-1")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if stats.Sent != 1 || stats.Failed != 0 || stats.Total != 1 {
		t.Fatalf("stats = %+v, want 1 sent", stats)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(mailer.sent))
	}

	email := mailer.sent[0]
	if email.To != "sarah@freshmarket.example" {
		t.Fatalf("recipient = %s", email.To)
	}
	if !strings.Contains(email.Subject, "Pickup Confirmation Required") {
		t.Fatalf("subject = %q", email.Subject)
	}
	for _, want := range []string{"Sarah Johnson", "Fresh Market Midtown", "25.0 lbs", "CONFIRMED", "RESCHEDULE", "/api/stops/stop-pickup/confirm"} {
		if !strings.Contains(email.Body, want) {
			t.Fatalf("body missing %q:\n%s", want, email.Body)
		}
	}

	notifications, _ := store.ListNotificationsForStop(context.Background(), "stop-pickup")
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications))
	}
	if notifications[0].Type != storage.NotifyPickupConfirmation {
		t.Fatalf("notification type = %s", notifications[0].Type)
	}
	if !notifications[0].Sent || notifications[0].SentAt == nil {
		t.Fatal("notification not marked sent")
	}
}

func TestSendDeliveryConfirmationsRollsUpCategories(t *testing.T) {
	store := newFakeStore()
	seedRoute(store)
	mailer := &recordingMailer{}
	workflow := NewWorkflow(store, mailer, "http://localhost:8000", nil)

	stats, err := workflow.SendDeliveryConfirmations(context.Background(), "route-1")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if stats.Sent != 1 {
		t.Fatalf("stats = %+v, want 1 sent", stats)
	}

	email := mailer.sent[0]
	if email.To != "mike@acfb.example" {
		t.Fatalf("recipient = %s", email.To)
	}
	if !strings.Contains(email.Body, "- produce: 25.0 lbs") {
		t.Fatalf("body missing category rollup:\n%s", email.Body)
	}
}

func TestSendConfirmationsCountsFailures(t *testing.T) {
	store := newFakeStore()
	seedRoute(store)
	delete(store.stores, "store-1")
	workflow := NewWorkflow(store, &recordingMailer{}, "http://localhost:8000", nil)

	stats, err := workflow.SendPickupConfirmations(context.Background(), "route-1")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if stats.Failed != 1 || stats.Sent != 0 {
		t.Fatalf("stats = %+v, want 1 failed", stats)
	}
}

func TestProcessResponseConfirms(t *testing.T) {
	store := newFakeStore()
	seedRoute(store)
	workflow := NewWorkflow(store, &recordingMailer{}, "http://localhost:8000", nil)

	outcome, err := workflow.ProcessResponse(context.Background(), "stop-pickup", "sarah@freshmarket.example", "CONFIRMED - see you then!")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != OutcomeConfirmed {
		t.Fatalf("outcome = %s, want confirmed", outcome)
	}

	stop := store.stops["stop-pickup"]
	if !stop.Confirmed || stop.ConfirmedAt == nil {
		t.Fatal("stop not confirmed")
	}
	if stop.ConfirmedByEmail != "sarah@freshmarket.example" {
		t.Fatalf("confirmed by = %s", stop.ConfirmedByEmail)
	}
	if store.responses["stop-pickup"] == "" {
		t.Fatal("response not recorded on notification")
	}
}

func TestProcessResponseReschedule(t *testing.T) {
	store := newFakeStore()
	seedRoute(store)
	workflow := NewWorkflow(store, &recordingMailer{}, "http://localhost:8000", nil)

	outcome, err := workflow.ProcessResponse(context.Background(), "stop-delivery", "mike@acfb.example", "Please RESCHEDULE to Thursday")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != OutcomeRescheduleRequested {
		t.Fatalf("outcome = %s, want reschedule_requested", outcome)
	}
	stop := store.stops["stop-delivery"]
	if stop.Confirmed {
		t.Fatal("reschedule must not confirm the stop")
	}
	if !strings.HasPrefix(stop.Notes, "Reschedule requested:") {
		t.Fatalf("notes = %q", stop.Notes)
	}
}

func TestProcessResponseGeneric(t *testing.T) {
	store := newFakeStore()
	seedRoute(store)
	workflow := NewWorkflow(store, &recordingMailer{}, "http://localhost:8000", nil)

	outcome, err := workflow.ProcessResponse(context.Background(), "stop-pickup", "", "thanks for the heads up")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != OutcomeRecorded {
		t.Fatalf("outcome = %s, want response_recorded", outcome)
	}
	if !strings.HasPrefix(store.stops["stop-pickup"].Notes, "Response received:") {
		t.Fatalf("notes = %q", store.stops["stop-pickup"].Notes)
	}
}

func TestProcessResponseUnknownStop(t *testing.T) {
	store := newFakeStore()
	seedRoute(store)
	workflow := NewWorkflow(store, &recordingMailer{}, "http://localhost:8000", nil)

	if _, err := workflow.ProcessResponse(context.Background(), "nope", "", "CONFIRMED"); err == nil {
		t.Fatal("expected error for unknown stop")
	}
}

func TestConfirmationStatus(t *testing.T) {
	store := newFakeStore()
	seedRoute(store)
	workflow := NewWorkflow(store, &recordingMailer{}, "http://localhost:8000", nil)
	ctx := context.Background()

	status, err := workflow.ConfirmationStatus(ctx, "route-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.TotalStops != 2 || status.ConfirmedStops != 0 || status.PendingStops != 2 {
		t.Fatalf("status = %+v", status)
	}
	if status.ReadyForExecution {
		t.Fatal("route with pending stops must not be ready")
	}

	if _, err := workflow.ProcessResponse(ctx, "stop-pickup", "", "confirmed"); err != nil {
		t.Fatalf("confirm pickup: %v", err)
	}
	status, _ = workflow.ConfirmationStatus(ctx, "route-1")
	if status.ConfirmationRate != 50 {
		t.Fatalf("rate = %f, want 50", status.ConfirmationRate)
	}

	if _, err := workflow.ProcessResponse(ctx, "stop-delivery", "", "confirmed"); err != nil {
		t.Fatalf("confirm delivery: %v", err)
	}
	status, _ = workflow.ConfirmationStatus(ctx, "route-1")
	if !status.ReadyForExecution {
		t.Fatal("fully confirmed route must be ready")
	}
	if status.ConfirmedPickups != 1 || status.ConfirmedDeliveries != 1 {
		t.Fatalf("status = %+v", status)
	}
}

func TestSendPickupProposals(t *testing.T) {
	store := newFakeStore()
	seedRoute(store)
	mailer := &recordingMailer{}
	workflow := NewWorkflow(store, mailer, "http://localhost:8000", nil)

	now := time.Date(2024, 11, 10, 14, 0, 0, 0, time.UTC)
	schedule := intake.GeneratePickupSchedule([]storage.Donation{store.donations["don-1"]}, now)

	stats, err := workflow.SendPickupProposals(context.Background(), schedule)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if stats.Sent != 1 || stats.Failed != 0 || stats.Total != 1 {
		t.Fatalf("stats = %+v, want 1 sent", stats)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(mailer.sent))
	}

	email := mailer.sent[0]
	if email.To != "sarah@freshmarket.example" {
		t.Fatalf("recipient = %s", email.To)
	}
	if !strings.Contains(email.Subject, "Pickup Proposal") {
		t.Fatalf("subject = %q", email.Subject)
	}
	for _, want := range []string{"Sarah Johnson", "Fresh Market Midtown", "fresh produce", "25.0 lbs", "CONFIRMED", "RESCHEDULE"} {
		if !strings.Contains(email.Body, want) {
			t.Fatalf("body missing %q:\n%s", want, email.Body)
		}
	}

	if len(store.notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(store.notifications))
	}
	notification := store.notifications[0]
	if notification.Type != storage.NotifyPickupProposal {
		t.Fatalf("notification type = %s", notification.Type)
	}
	if notification.DonationID != "don-1" {
		t.Fatalf("donation id = %s", notification.DonationID)
	}
	if !notification.Sent || notification.SentAt == nil {
		t.Fatal("notification not marked sent")
	}
}

func TestSendPickupProposalsUnknownStore(t *testing.T) {
	store := newFakeStore()
	workflow := NewWorkflow(store, &recordingMailer{}, "http://localhost:8000", nil)

	now := time.Date(2024, 11, 10, 14, 0, 0, 0, time.UTC)
	schedule := intake.GeneratePickupSchedule([]storage.Donation{
		{ID: "don-x", StoreID: "store-missing", Category: "bakery", QuantityPounds: 10},
	}, now)

	stats, err := workflow.SendPickupProposals(context.Background(), schedule)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if stats.Failed != 1 || stats.Sent != 0 {
		t.Fatalf("stats = %+v, want 1 failed", stats)
	}
}

func TestSendScheduleChanges(t *testing.T) {
	store := newFakeStore()
	seedRoute(store)
	mailer := &recordingMailer{}
	workflow := NewWorkflow(store, mailer, "http://localhost:8000", nil)

	stats, err := workflow.SendScheduleChanges(context.Background(), "route-1", "Truck maintenance")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if stats.Sent != 2 || stats.Total != 2 {
		t.Fatalf("stats = %+v, want 2 sent", stats)
	}
	for _, email := range mailer.sent {
		if !strings.Contains(email.Body, "Truck maintenance") {
			t.Fatalf("body missing reason:\n%s", email.Body)
		}
		if !strings.Contains(email.Subject, "Schedule Change Notification") {
			t.Fatalf("subject = %q", email.Subject)
		}
	}
}
