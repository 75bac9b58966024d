package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/foodrescuehub/foodrescue/internal/intake"
	"github.com/foodrescuehub/foodrescue/internal/platform/id"
	"github.com/foodrescuehub/foodrescue/internal/routing"
	"github.com/foodrescuehub/foodrescue/internal/storage"
	"github.com/foodrescuehub/foodrescue/internal/web/templates"
)

const (
	defaultDriverTeam = "Rescue Team 1"
	defaultTruckID    = "truck-1"
)

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", templates.Login{Next: r.URL.Query().Get("next")})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	next := r.PostFormValue("next")

	operator, err := h.store.GetOperator(r.Context(), username)
	if err != nil || !VerifyPassword(operator.PasswordHash, password) {
		h.renderWithStatus(w, http.StatusUnauthorized, "login.html", templates.Login{
			Error: "invalid username or password",
			Next:  next,
		})
		return
	}
	if err := h.startSession(w, r, operator.Username); err != nil {
		h.storeError(w, r, "start session", err)
		return
	}
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.endSession(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) newRegionForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "form.html", templates.FormPage{
		Title:  "New region",
		Action: "/regions/new",
		Errors: map[string]string{},
		Values: map[string]string{},
	})
}

func (h *Handler) createRegion(w http.ResponseWriter, r *http.Request) {
	form := regionForm{
		Name:                strings.TrimSpace(r.PostFormValue("name")),
		CenterLatitude:      strings.TrimSpace(r.PostFormValue("center_latitude")),
		CenterLongitude:     strings.TrimSpace(r.PostFormValue("center_longitude")),
		RadiusMiles:         strings.TrimSpace(r.PostFormValue("radius_miles")),
		TruckCapacityPounds: strings.TrimSpace(r.PostFormValue("truck_capacity_pounds")),
	}
	if errs := fieldErrors(form.Validate()); len(errs) > 0 {
		h.renderWithStatus(w, http.StatusUnprocessableEntity, "form.html", templates.FormPage{
			Title:  "New region",
			Action: "/regions/new",
			Errors: errs,
			Values: formValues(r,
				"name", "center_latitude", "center_longitude", "radius_miles", "truck_capacity_pounds"),
		})
		return
	}

	latitude, _ := strconv.ParseFloat(form.CenterLatitude, 64)
	longitude, _ := strconv.ParseFloat(form.CenterLongitude, 64)
	radius, _ := strconv.Atoi(form.RadiusMiles)
	capacity, _ := strconv.Atoi(form.TruckCapacityPounds)

	region := storage.Region{
		ID:                  id.MustNewID(),
		Name:                form.Name,
		CenterLatitude:      latitude,
		CenterLongitude:     longitude,
		RadiusMiles:         radius,
		TruckCapacityPounds: capacity,
		Active:              true,
	}
	if err := h.store.CreateRegion(r.Context(), region); err != nil {
		h.storeError(w, r, "create region", err)
		return
	}
	http.Redirect(w, r, "/regions/"+region.ID, http.StatusSeeOther)
}

func (h *Handler) newFoodBankForm(w http.ResponseWriter, r *http.Request) {
	region, err := h.store.GetRegion(r.Context(), r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load region", err)
		return
	}
	h.render(w, "form.html", templates.FormPage{
		Title:  "New food bank",
		Action: "/regions/" + region.ID + "/food-banks/new",
		Region: region,
		Errors: map[string]string{},
		Values: map[string]string{},
	})
}

func (h *Handler) createFoodBank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	region, err := h.store.GetRegion(ctx, r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load region", err)
		return
	}

	form := partnerFormFromRequest(r)
	form.ForBank = true
	if errs := fieldErrors(form.Validate()); len(errs) > 0 {
		h.renderPartnerErrors(w, r, "New food bank", "/regions/"+region.ID+"/food-banks/new", region, errs)
		return
	}

	need, _ := strconv.Atoi(form.DailyNeedPounds)
	capacity, _ := strconv.Atoi(form.StorageCapacityPounds)
	latitude, _ := strconv.ParseFloat(form.Latitude, 64)
	longitude, _ := strconv.ParseFloat(form.Longitude, 64)

	bank := storage.FoodBank{
		ID:                    id.MustNewID(),
		RegionID:              region.ID,
		Name:                  form.Name,
		ContactPerson:         form.ContactPerson,
		Email:                 form.Email,
		Phone:                 form.Phone,
		Address:               form.Address,
		Latitude:              latitude,
		Longitude:             longitude,
		DailyNeedPounds:       need,
		StorageCapacityPounds: capacity,
		CanSelfPickup:         form.CanSelfPickup,
		OpenTime:              "08:00",
		CloseTime:             "16:00",
		OperatingDays:         "mon,tue,wed,thu,fri",
		Active:                true,
	}
	if err := h.store.CreateFoodBank(ctx, bank); err != nil {
		h.storeError(w, r, "create food bank", err)
		return
	}
	http.Redirect(w, r, "/regions/"+region.ID, http.StatusSeeOther)
}

func (h *Handler) newGroceryStoreForm(w http.ResponseWriter, r *http.Request) {
	region, err := h.store.GetRegion(r.Context(), r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load region", err)
		return
	}
	h.render(w, "form.html", templates.FormPage{
		Title:  "New grocery store",
		Action: "/regions/" + region.ID + "/stores/new",
		Region: region,
		Errors: map[string]string{},
		Values: map[string]string{},
	})
}

func (h *Handler) createGroceryStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	region, err := h.store.GetRegion(ctx, r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load region", err)
		return
	}

	form := partnerFormFromRequest(r)
	if errs := fieldErrors(form.Validate()); len(errs) > 0 {
		h.renderPartnerErrors(w, r, "New grocery store", "/regions/"+region.ID+"/stores/new", region, errs)
		return
	}

	latitude, _ := strconv.ParseFloat(form.Latitude, 64)
	longitude, _ := strconv.ParseFloat(form.Longitude, 64)

	store := storage.GroceryStore{
		ID:                id.MustNewID(),
		RegionID:          region.ID,
		Name:              form.Name,
		ContactPerson:     form.ContactPerson,
		Email:             form.Email,
		Phone:             form.Phone,
		Address:           form.Address,
		Latitude:          latitude,
		Longitude:         longitude,
		PickupWindowStart: "09:00",
		PickupWindowEnd:   "17:00",
		PickupDays:        "mon,tue,wed,thu,fri,sat",
		Active:            true,
	}
	if err := h.store.CreateGroceryStore(ctx, store); err != nil {
		h.storeError(w, r, "create grocery store", err)
		return
	}
	http.Redirect(w, r, "/regions/"+region.ID, http.StatusSeeOther)
}

func partnerFormFromRequest(r *http.Request) partnerForm {
	return partnerForm{
		Name:                  strings.TrimSpace(r.PostFormValue("name")),
		ContactPerson:         strings.TrimSpace(r.PostFormValue("contact_person")),
		Email:                 strings.TrimSpace(r.PostFormValue("email")),
		Phone:                 strings.TrimSpace(r.PostFormValue("phone")),
		Address:               strings.TrimSpace(r.PostFormValue("address")),
		Latitude:              strings.TrimSpace(r.PostFormValue("latitude")),
		Longitude:             strings.TrimSpace(r.PostFormValue("longitude")),
		DailyNeedPounds:       strings.TrimSpace(r.PostFormValue("daily_need_pounds")),
		StorageCapacityPounds: strings.TrimSpace(r.PostFormValue("storage_capacity_pounds")),
		CanSelfPickup:         r.PostFormValue("can_self_pickup") == "1",
	}
}

func (h *Handler) renderPartnerErrors(w http.ResponseWriter, r *http.Request, title, action string, region storage.Region, errs map[string]string) {
	h.renderWithStatus(w, http.StatusUnprocessableEntity, "form.html", templates.FormPage{
		Title:  title,
		Action: action,
		Region: region,
		Errors: errs,
		Values: formValues(r,
			"name", "contact_person", "email", "phone", "address",
			"latitude", "longitude", "daily_need_pounds", "storage_capacity_pounds"),
	})
}

// routeBoard shows pending donations split by urgency plus planned routes.
func (h *Handler) routeBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	region, err := h.store.GetRegion(ctx, r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load region", err)
		return
	}
	pending, err := h.store.ListDonations(ctx, storage.DonationFilter{
		RegionID: region.ID,
		Statuses: []storage.DonationStatus{storage.DonationPending},
	})
	if err != nil {
		h.storeError(w, r, "list pending donations", err)
		return
	}
	now := h.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	routes, err := h.store.ListRoutes(ctx, region.ID, today, nil)
	if err != nil {
		h.storeError(w, r, "list routes", err)
		return
	}

	schedule := intake.GeneratePickupSchedule(pending, now)
	var urgent, regular []storage.Donation
	for _, proposal := range schedule.UrgentPickups {
		urgent = append(urgent, proposal.Donations...)
	}
	for _, proposal := range schedule.RegularPickups {
		regular = append(regular, proposal.Donations...)
	}

	h.render(w, "routes_board.html", templates.RouteBoard{
		Region:  region,
		Urgent:  urgent,
		Regular: regular,
		Routes:  routes,
	})
}

func (h *Handler) newRouteForm(w http.ResponseWriter, r *http.Request) {
	region, err := h.store.GetRegion(r.Context(), r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load region", err)
		return
	}
	h.render(w, "form.html", templates.FormPage{
		Title:  "New route",
		Action: "/regions/" + region.ID + "/routes/new",
		Region: region,
		Errors: map[string]string{},
		Values: map[string]string{},
	})
}

// createRoute makes an empty planned route shell for manual scheduling.
func (h *Handler) createRoute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	region, err := h.store.GetRegion(ctx, r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load region", err)
		return
	}

	form := routeForm{
		ScheduledDate: strings.TrimSpace(r.PostFormValue("scheduled_date")),
		DriverTeam:    strings.TrimSpace(r.PostFormValue("driver_team")),
		TruckID:       strings.TrimSpace(r.PostFormValue("truck_id")),
	}
	if errs := fieldErrors(form.Validate()); len(errs) > 0 {
		h.renderWithStatus(w, http.StatusUnprocessableEntity, "form.html", templates.FormPage{
			Title:  "New route",
			Action: "/regions/" + region.ID + "/routes/new",
			Region: region,
			Errors: errs,
			Values: formValues(r, "scheduled_date", "driver_team", "truck_id"),
		})
		return
	}

	scheduled := parseDate(form.ScheduledDate)
	truckID := form.TruckID
	if truckID == "" {
		truckID = defaultTruckID
	}
	route := storage.Route{
		ID:            id.MustNewID(),
		RegionID:      region.ID,
		ScheduledDate: *scheduled,
		StartTime:     "08:00",
		EndTime:       "12:00",
		DriverTeam:    form.DriverTeam,
		TruckID:       truckID,
		Status:        storage.RoutePlanned,
	}
	if err := h.store.CreateRoute(ctx, route); err != nil {
		h.storeError(w, r, "create route", err)
		return
	}
	http.Redirect(w, r, "/routes/"+route.ID, http.StatusSeeOther)
}

// optimizeRoutes plans tomorrow's route over pending donations, persists it,
// and kicks off the confirmation emails.
func (h *Handler) optimizeRoutes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	region, err := h.store.GetRegion(ctx, r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load region", err)
		return
	}
	pending, err := h.store.ListDonations(ctx, storage.DonationFilter{
		RegionID: region.ID,
		Statuses: []storage.DonationStatus{storage.DonationPending},
	})
	if err != nil {
		h.storeError(w, r, "list pending donations", err)
		return
	}
	if len(pending) == 0 {
		http.Redirect(w, r, "/regions/"+region.ID+"/routes", http.StatusSeeOther)
		return
	}

	storeList, err := h.store.ListGroceryStores(ctx, region.ID)
	if err != nil {
		h.storeError(w, r, "list grocery stores", err)
		return
	}
	storesByID := make(map[string]storage.GroceryStore, len(storeList))
	for _, store := range storeList {
		storesByID[store.ID] = store
	}
	banks, err := h.store.ListFoodBanks(ctx, region.ID)
	if err != nil {
		h.storeError(w, r, "list food banks", err)
		return
	}

	plan, err := routing.NewOptimizer(region).Plan(pending, storesByID, banks, h.now().AddDate(0, 0, 1))
	if err != nil {
		h.logger.Printf("optimize region %s: %v", region.ID, err)
		http.Error(w, "route optimization failed", http.StatusConflict)
		return
	}

	driverTeam := strings.TrimSpace(r.PostFormValue("driver_team"))
	if driverTeam == "" {
		driverTeam = defaultDriverTeam
	}
	truckID := strings.TrimSpace(r.PostFormValue("truck_id"))
	if truckID == "" {
		truckID = defaultTruckID
	}

	route, err := routing.SaveRoute(ctx, h.store, region.ID, plan, driverTeam, truckID)
	if err != nil {
		h.storeError(w, r, "save route", err)
		return
	}
	if err := routing.MarkDonationsRouted(ctx, h.store, plan); err != nil {
		h.storeError(w, r, "mark donations routed", err)
		return
	}

	pickupStats, err := h.workflow.SendPickupConfirmations(ctx, route.ID)
	if err != nil {
		h.logger.Printf("pickup confirmations for route %s: %v", route.ID, err)
	}
	deliveryStats, err := h.workflow.SendDeliveryConfirmations(ctx, route.ID)
	if err != nil {
		h.logger.Printf("delivery confirmations for route %s: %v", route.ID, err)
	}
	h.logger.Printf("route %s planned: %d stops, %.1f lbs, confirmations sent %d/%d",
		route.ID, len(plan.Pickups)+len(plan.Deliveries), plan.TotalPounds,
		pickupStats.Sent+deliveryStats.Sent, pickupStats.Total+deliveryStats.Total)

	http.Redirect(w, r, "/routes/"+route.ID, http.StatusSeeOther)
}

// routeDetail shows a route's ordered stops with resolved location names.
func (h *Handler) routeDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	route, err := h.store.GetRoute(ctx, r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load route", err)
		return
	}
	stops, err := h.store.ListRouteStops(ctx, route.ID)
	if err != nil {
		h.storeError(w, r, "list route stops", err)
		return
	}

	views := make([]templates.RouteStopView, 0, len(stops))
	for _, stop := range stops {
		view := templates.RouteStopView{Stop: stop, Pickup: stop.Type == storage.StopPickup}
		if view.Pickup {
			store, err := h.store.GetGroceryStore(ctx, stop.StoreID)
			if err != nil {
				h.storeError(w, r, "load stop store", err)
				return
			}
			view.LocationName = store.Name
		} else {
			bank, err := h.store.GetFoodBank(ctx, stop.FoodBankID)
			if err != nil {
				h.storeError(w, r, "load stop bank", err)
				return
			}
			view.LocationName = bank.Name
		}
		views = append(views, view)
	}

	h.render(w, "route.html", templates.RouteDetail{
		Route:      route,
		Stops:      views,
		TotalStops: len(views),
	})
}

// routeConfirmations shows confirmation progress for a route.
func (h *Handler) routeConfirmations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	route, err := h.store.GetRoute(ctx, r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load route", err)
		return
	}
	status, err := h.workflow.ConfirmationStatus(ctx, route.ID)
	if err != nil {
		h.storeError(w, r, "confirmation status", err)
		return
	}

	h.render(w, "confirmations.html", templates.Confirmations{
		Route:               route,
		TotalStops:          status.TotalStops,
		ConfirmedStops:      status.ConfirmedStops,
		PendingStops:        status.PendingStops,
		ConfirmationRate:    status.ConfirmationRate,
		ConfirmedPickups:    status.ConfirmedPickups,
		TotalPickups:        status.TotalPickups,
		ConfirmedDeliveries: status.ConfirmedDeliveries,
		TotalDeliveries:     status.TotalDeliveries,
		ReadyForExecution:   status.ReadyForExecution,
	})
}

// intakePage serves the manual email intake form.
func (h *Handler) intakePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	region, err := h.store.GetRegion(ctx, r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load region", err)
		return
	}
	stores, err := h.store.ListGroceryStores(ctx, region.ID)
	if err != nil {
		h.storeError(w, r, "list grocery stores", err)
		return
	}

	h.render(w, "intake.html", templates.IntakeForm{
		Region: region,
		Stores: stores,
		Errors: map[string]string{},
	})
}

// processIntake extracts donation items from a pasted partner email and saves
// them as pending donations.
func (h *Handler) processIntake(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	region, err := h.store.GetRegion(ctx, r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load region", err)
		return
	}
	stores, err := h.store.ListGroceryStores(ctx, region.ID)
	if err != nil {
		h.storeError(w, r, "list grocery stores", err)
		return
	}

	form := intakeForm{
		StoreID:      strings.TrimSpace(r.PostFormValue("store_id")),
		EmailContent: strings.TrimSpace(r.PostFormValue("email_content")),
	}
	errs := fieldErrors(form.Validate())
	if len(errs) == 0 {
		store, err := h.store.GetGroceryStore(ctx, form.StoreID)
		if err != nil || store.RegionID != region.ID {
			errs["store_id"] = "unknown store for this region"
		}
	}
	if len(errs) > 0 {
		h.renderWithStatus(w, http.StatusUnprocessableEntity, "intake.html", templates.IntakeForm{
			Region: region,
			Stores: stores,
			Errors: errs,
		})
		return
	}

	items := intake.ExtractItems(form.EmailContent, h.now())
	created := make([]storage.Donation, 0, len(items))
	for _, item := range items {
		donation := storage.Donation{
			ID:             id.MustNewID(),
			StoreID:        form.StoreID,
			Category:       item.Category,
			Description:    item.Description,
			QuantityPounds: item.QuantityPounds,
			ExpirationDate: item.ExpirationDate,
			SellByDate:     item.SellByDate,
			Status:         storage.DonationPending,
			FromEmail:      true,
			EmailContent:   form.EmailContent,
		}
		if err := h.store.CreateDonation(ctx, donation); err != nil {
			h.storeError(w, r, "create donation", err)
			return
		}
		created = append(created, donation)
	}

	if len(created) > 0 {
		schedule := intake.GeneratePickupSchedule(created, h.now())
		stats, err := h.workflow.SendPickupProposals(ctx, schedule)
		if err != nil {
			h.logger.Printf("pickup proposals for store %s: %v", form.StoreID, err)
		} else {
			h.logger.Printf("intake for store %s: %d donations, proposals sent %d/%d",
				form.StoreID, len(created), stats.Sent, stats.Total)
		}
	}

	h.render(w, "intake.html", templates.IntakeForm{
		Region:  region,
		Stores:  stores,
		Errors:  map[string]string{},
		Created: created,
	})
}

// regionAnalytics shows the trailing 30 days of rescue activity.
func (h *Handler) regionAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	region, err := h.store.GetRegion(ctx, r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load region", err)
		return
	}

	end := h.now()
	start := end.AddDate(0, 0, -30)
	summary, err := h.store.RegionAnalytics(ctx, region.ID, start, end)
	if err != nil {
		h.storeError(w, r, "region analytics", err)
		return
	}

	var topWeight float64
	for _, row := range summary.CategoryBreakdown {
		if row.TotalPounds > topWeight {
			topWeight = row.TotalPounds
		}
	}

	h.render(w, "analytics.html", templates.Analytics{
		Region:    region,
		Start:     start,
		End:       end,
		Summary:   summary,
		TopWeight: topWeight,
	})
}
