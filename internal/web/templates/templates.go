// Package templates renders the HTML surface from embedded templates.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/foodrescuehub/foodrescue/internal/storage"
)

//go:embed templates/*.html
var templatesFS embed.FS

var printer = message.NewPrinter(language.AmericanEnglish)

var funcs = template.FuncMap{
	"pounds": func(value float64) string {
		return printer.Sprintf("%.1f lbs", value)
	},
	"count": func(value int) string {
		return printer.Sprintf("%d", value)
	},
	"date": func(value time.Time) string {
		return value.Format("Monday, January 2, 2006")
	},
	"clock": func(value time.Time) string {
		return value.Format("3:04 PM")
	},
	"deref": func(value *time.Time) time.Time {
		if value == nil {
			return time.Time{}
		}
		return *value
	},
	"dateptr": func(value *time.Time) string {
		if value == nil {
			return "-"
		}
		return value.Format("Jan 2, 2006")
	},
}

var pages = template.Must(template.New("pages").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))

// Render writes one named page template.
func Render(w io.Writer, name string, data any) error {
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// Home is the landing page view model.
type Home struct {
	Regions        []storage.Region
	FoodBanks      int
	GroceryStores  int
	RecentDonation int
}

// RegionDetail backs the region dashboard.
type RegionDetail struct {
	Region           storage.Region
	FoodBanks        []storage.FoodBank
	GroceryStores    []storage.GroceryStore
	PendingDonations []storage.Donation
	UpcomingRoutes   []storage.Route
	StoreNames       map[string]string
}

// DonateForm backs the donation form page.
type DonateForm struct {
	Store      storage.GroceryStore
	Categories []storage.FoodCategory
	Mobile     bool
	Errors     map[string]string
	Values     map[string]string
}

// DonationDetail backs the public tracking page.
type DonationDetail struct {
	Donation storage.Donation
	Store    storage.GroceryStore
}

// RouteBoard backs the route planning board.
type RouteBoard struct {
	Region  storage.Region
	Urgent  []storage.Donation
	Regular []storage.Donation
	Routes  []storage.Route
}

// RouteDetail backs the route page.
type RouteDetail struct {
	Route      storage.Route
	Stops      []RouteStopView
	TotalStops int
}

// RouteStopView is one stop row with its resolved location name.
type RouteStopView struct {
	Stop         storage.RouteStop
	LocationName string
	Pickup       bool
}

// Confirmations backs the confirmation status page.
type Confirmations struct {
	Route               storage.Route
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

// IntakeForm backs the manual email intake page.
type IntakeForm struct {
	Region  storage.Region
	Stores  []storage.GroceryStore
	Errors  map[string]string
	Created []storage.Donation
}

// Analytics backs the 30-day region analytics page.
type Analytics struct {
	Region    storage.Region
	Start     time.Time
	End       time.Time
	Summary   storage.RegionAnalytics
	TopWeight float64
}

// Login backs the operator login page.
type Login struct {
	Error string
	Next  string
}

// FormPage backs the simple create forms (region, food bank, grocery store,
// route shell).
type FormPage struct {
	Title  string
	Action string
	Region storage.Region
	Errors map[string]string
	Values map[string]string
}
