package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// formValues snapshots submitted fields so a failed form can re-render with
// the operator's input intact.
func formValues(r *http.Request, fields ...string) map[string]string {
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		values[field] = strings.TrimSpace(r.PostFormValue(field))
	}
	return values
}

// fieldErrors flattens a validation error into per-field messages keyed by
// form field name.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}
	if err != nil {
		out["form"] = err.Error()
	}
	return out
}

// donationForm is the public donation submission.
type donationForm struct {
	Category       string `json:"category"`
	Description    string `json:"description"`
	QuantityPounds string `json:"quantity_pounds"`
	ExpirationDate string `json:"expiration_date"`
	SellByDate     string `json:"sell_by_date"`
}

func (f donationForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Category, validation.Required),
		validation.Field(&f.Description, validation.Required, validation.Length(3, 500)),
		validation.Field(&f.QuantityPounds, validation.Required, is.Float, validation.By(positiveFloat)),
		validation.Field(&f.ExpirationDate, validation.Date("2006-01-02")),
		validation.Field(&f.SellByDate, validation.Date("2006-01-02")),
	)
}

// Pounds returns the parsed quantity. Call after Validate.
func (f donationForm) Pounds() float64 {
	pounds, _ := strconv.ParseFloat(f.QuantityPounds, 64)
	return pounds
}

// regionForm creates a new service region.
type regionForm struct {
	Name                string `json:"name"`
	CenterLatitude      string `json:"center_latitude"`
	CenterLongitude     string `json:"center_longitude"`
	RadiusMiles         string `json:"radius_miles"`
	TruckCapacityPounds string `json:"truck_capacity_pounds"`
}

func (f regionForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(2, 120)),
		validation.Field(&f.CenterLatitude, validation.Required, is.Latitude),
		validation.Field(&f.CenterLongitude, validation.Required, is.Longitude),
		validation.Field(&f.RadiusMiles, validation.Required, is.Int, validation.By(positiveInt)),
		validation.Field(&f.TruckCapacityPounds, validation.Required, is.Int, validation.By(positiveInt)),
	)
}

// partnerForm creates a food bank or grocery store. The bank-only fields are
// validated when ForBank is set.
type partnerForm struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Latitude      string `json:"latitude"`
	Longitude     string `json:"longitude"`

	ForBank               bool   `json:"-"`
	DailyNeedPounds       string `json:"daily_need_pounds"`
	StorageCapacityPounds string `json:"storage_capacity_pounds"`
	CanSelfPickup         bool   `json:"-"`
}

func (f partnerForm) Validate() error {
	fields := []*validation.FieldRules{
		validation.Field(&f.Name, validation.Required, validation.Length(2, 120)),
		validation.Field(&f.ContactPerson, validation.Required),
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Latitude, validation.Required, is.Latitude),
		validation.Field(&f.Longitude, validation.Required, is.Longitude),
	}
	if f.ForBank {
		fields = append(fields,
			validation.Field(&f.DailyNeedPounds, validation.Required, is.Int, validation.By(positiveInt)),
			validation.Field(&f.StorageCapacityPounds, validation.Required, is.Int, validation.By(positiveInt)),
		)
	}
	return validation.ValidateStruct(&f, fields...)
}

// routeForm creates an empty planned route shell.
type routeForm struct {
	ScheduledDate string `json:"scheduled_date"`
	DriverTeam    string `json:"driver_team"`
	TruckID       string `json:"truck_id"`
}

func (f routeForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ScheduledDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&f.DriverTeam, validation.Required),
	)
}

// intakeForm is the manual email intake submission.
type intakeForm struct {
	StoreID      string `json:"store_id"`
	EmailContent string `json:"email_content"`
}

func (f intakeForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.StoreID, validation.Required),
		validation.Field(&f.EmailContent, validation.Required, validation.Length(10, 0)),
	)
}

func positiveFloat(value any) error {
	s, _ := value.(string)
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil || parsed <= 0 {
		return errors.New("must be a positive number")
	}
	return nil
}

func positiveInt(value any) error {
	s, _ := value.(string)
	parsed, err := strconv.Atoi(s)
	if err != nil || parsed <= 0 {
		return errors.New("must be a positive whole number")
	}
	return nil
}

// parseDate parses an optional HTML date input into a UTC timestamp.
func parseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return nil
	}
	return &parsed
}
