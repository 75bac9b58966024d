package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/foodrescuehub/foodrescue/internal/platform/id"
	"github.com/foodrescuehub/foodrescue/internal/storage"
	"github.com/foodrescuehub/foodrescue/internal/web/templates"
)

// home is the public landing page with platform-wide counts.
func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regions, err := h.store.ListActiveRegions(ctx)
	if err != nil {
		h.storeError(w, r, "list regions", err)
		return
	}
	banks, err := h.store.CountActiveFoodBanks(ctx)
	if err != nil {
		h.storeError(w, r, "count food banks", err)
		return
	}
	stores, err := h.store.CountActiveGroceryStores(ctx)
	if err != nil {
		h.storeError(w, r, "count grocery stores", err)
		return
	}
	recent, err := h.store.ListDonations(ctx, storage.DonationFilter{
		CreatedAfter: h.now().AddDate(0, 0, -7),
	})
	if err != nil {
		h.storeError(w, r, "list recent donations", err)
		return
	}

	h.render(w, "home.html", templates.Home{
		Regions:        regions,
		FoodBanks:      banks,
		GroceryStores:  stores,
		RecentDonation: len(recent),
	})
}

// regionDetail is the region dashboard: partners, pending donations, and
// upcoming routes.
func (h *Handler) regionDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	region, err := h.store.GetRegion(ctx, r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load region", err)
		return
	}
	banks, err := h.store.ListFoodBanks(ctx, region.ID)
	if err != nil {
		h.storeError(w, r, "list food banks", err)
		return
	}
	stores, err := h.store.ListGroceryStores(ctx, region.ID)
	if err != nil {
		h.storeError(w, r, "list grocery stores", err)
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
	routes, err := h.store.ListRoutes(ctx, region.ID, today, []storage.RouteStatus{
		storage.RoutePlanned, storage.RouteInProgress,
	})
	if err != nil {
		h.storeError(w, r, "list routes", err)
		return
	}

	storeNames := make(map[string]string, len(stores))
	for _, store := range stores {
		storeNames[store.ID] = store.Name
	}

	h.render(w, "region.html", templates.RegionDetail{
		Region:           region,
		FoodBanks:        banks,
		GroceryStores:    stores,
		PendingDonations: pending,
		UpcomingRoutes:   routes,
		StoreNames:       storeNames,
	})
}

// donateForm serves the public donation form for one store. Mobile browsers
// get a reduced form.
func (h *Handler) donateForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	store, err := h.store.GetGroceryStore(ctx, r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load grocery store", err)
		return
	}
	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		h.storeError(w, r, "list categories", err)
		return
	}

	h.render(w, "donate.html", templates.DonateForm{
		Store:      store,
		Categories: categories,
		Mobile:     isMobile(r.UserAgent()),
		Errors:     map[string]string{},
		Values:     map[string]string{},
	})
}

// createDonation accepts a public donation submission.
func (h *Handler) createDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	store, err := h.store.GetGroceryStore(ctx, r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load grocery store", err)
		return
	}

	form := donationForm{
		Category:       r.PostFormValue("category"),
		Description:    strings.TrimSpace(r.PostFormValue("description")),
		QuantityPounds: strings.TrimSpace(r.PostFormValue("quantity_pounds")),
		ExpirationDate: r.PostFormValue("expiration_date"),
		SellByDate:     r.PostFormValue("sell_by_date"),
	}
	errs := fieldErrors(form.Validate())
	if len(errs) == 0 {
		if _, err := h.store.GetCategory(ctx, form.Category); err != nil {
			errs["category"] = "unknown category"
		}
	}
	if len(errs) > 0 {
		h.renderDonateErrors(w, r, store, errs)
		return
	}

	donation := storage.Donation{
		ID:             id.MustNewID(),
		StoreID:        store.ID,
		Category:       form.Category,
		Description:    form.Description,
		QuantityPounds: form.Pounds(),
		ExpirationDate: parseDate(form.ExpirationDate),
		SellByDate:     parseDate(form.SellByDate),
		Status:         storage.DonationPending,
	}
	if err := h.store.CreateDonation(ctx, donation); err != nil {
		h.storeError(w, r, "create donation", err)
		return
	}
	http.Redirect(w, r, "/donations/"+donation.ID, http.StatusSeeOther)
}

func (h *Handler) renderDonateErrors(w http.ResponseWriter, r *http.Request, store storage.GroceryStore, errs map[string]string) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.storeError(w, r, "list categories", err)
		return
	}
	h.renderWithStatus(w, http.StatusUnprocessableEntity, "donate.html", templates.DonateForm{
		Store:      store,
		Categories: categories,
		Mobile:     isMobile(r.UserAgent()),
		Errors:     errs,
		Values: formValues(r,
			"category", "description", "quantity_pounds", "expiration_date", "sell_by_date"),
	})
}

// donationDetail is the public tracking page for one donation.
func (h *Handler) donationDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	donation, err := h.store.GetDonation(ctx, r.PathValue("id"))
	if err != nil {
		h.storeError(w, r, "load donation", err)
		return
	}
	store, err := h.store.GetGroceryStore(ctx, donation.StoreID)
	if err != nil {
		h.storeError(w, r, "load grocery store", err)
		return
	}

	h.render(w, "donation.html", templates.DonationDetail{
		Donation: donation,
		Store:    store,
	})
}

// isMobile is a coarse user-agent check, enough to pick the reduced form.
func isMobile(userAgent string) bool {
	return strings.Contains(userAgent, "Mobi") || strings.Contains(userAgent, "Android")
}
