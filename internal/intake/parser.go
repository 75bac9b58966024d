// Package intake extracts donation line items from free-form partner emails.
//
// Extraction is pattern based: the common phrasings grocery store contacts use
// ("10 lbs fresh produce expires 12/25", "Dairy products - 5 pounds - sell by
// 12/20") are matched directly, and anything unrecognized falls back to a
// single manual-review item so no email is silently dropped.
package intake

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Item is one extracted donation line.
type Item struct {
	Description    string
	QuantityPounds float64
	Category       string
	ExpirationDate *time.Time
	SellByDate     *time.Time
	ManualReview   bool
}

var (
	// quantityFirst matches "10 lbs fresh produce expires 12/25".
	quantityFirst = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:lb|lbs|pounds?)\s+([a-z][^,.\n-]*?)(?:\s+(?:expires?|exp|expiration)\s+(\d{1,2}/\d{1,2}(?:/\d{2,4})?))?(?:[,.\n]|$)`)
	// descriptionFirst matches "Dairy products - 5 pounds - sell by 12/20".
	descriptionFirst = regexp.MustCompile(`(?i)([^-\n]+?)\s*-\s*(\d+(?:\.\d+)?)\s*(?:lb|lbs|pounds?)\s*(?:-\s*(?:sell\s+by|expires?)\s+(\d{1,2}/\d{1,2}(?:/\d{2,4})?))?`)
)

// categoryKeywords maps category names to the description keywords that select them.
var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"produce", []string{"produce", "vegetables", "fruits", "lettuce", "tomato", "apple", "banana", "carrot", "onion", "potato", "fresh", "organic"}},
	{"dairy", []string{"milk", "cheese", "yogurt", "butter", "cream", "dairy"}},
	{"meat", []string{"meat", "beef", "chicken", "pork", "turkey", "ham", "sausage", "ground"}},
	{"seafood", []string{"fish", "salmon", "tuna", "shrimp", "seafood", "crab"}},
	{"bakery", []string{"bread", "rolls", "bakery", "pastry", "cake", "cookies", "muffins"}},
	{"frozen", []string{"frozen", "ice cream", "frozen food"}},
	{"pantry", []string{"canned", "pasta", "rice", "cereal", "sauce", "soup", "beans"}},
	{"beverages", []string{"juice", "soda", "water", "beverage", "drink"}},
	{"prepared", []string{"deli", "prepared", "sandwich", "salad", "hot food", "cooked"}},
}

// ExtractItems parses donation line items out of an email body. now anchors
// year-less date forms. When nothing matches, a single manual-review item is
// returned so the donation still reaches an operator.
func ExtractItems(emailContent string, now time.Time) []Item {
	var items []Item

	for _, match := range quantityFirst.FindAllStringSubmatch(emailContent, -1) {
		item, ok := buildItem(match[2], match[1], match[3], now)
		if ok {
			items = append(items, item)
		}
	}
	for _, match := range descriptionFirst.FindAllStringSubmatch(emailContent, -1) {
		item, ok := buildItem(match[1], match[2], match[3], now)
		if ok {
			items = append(items, item)
		}
	}

	if len(items) == 0 {
		items = append(items, Item{
			Description:    "Mixed food items (requires manual review)",
			QuantityPounds: 1.0,
			Category:       "other",
			ManualReview:   true,
		})
	}
	return items
}

func buildItem(description, quantity, dateStr string, now time.Time) (Item, bool) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Item{}, false
	}
	pounds, err := strconv.ParseFloat(strings.TrimSpace(quantity), 64)
	if err != nil || pounds <= 0 {
		return Item{}, false
	}

	item := Item{
		Description:    description,
		QuantityPounds: pounds,
		Category:       Categorize(description),
	}
	if date, ok := ParseDate(dateStr, now); ok {
		item.ExpirationDate = &date
		item.SellByDate = &date
	}
	return item, true
}

// Categorize picks a category name from description keywords, falling back to
// "other".
func Categorize(description string) string {
	lower := strings.ToLower(description)
	for _, group := range categoryKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				return group.name
			}
		}
	}
	return "other"
}

// dateFormats lists accepted date layouts, most specific first.
var dateFormats = []string{"1/2/2006", "1/2/06", "1/2", "2006-01-02"}

// ParseDate parses partner-supplied dates. Year-less forms assume the current
// year, rolling to next year when the date has already passed.
func ParseDate(dateStr string, now time.Time) (time.Time, bool) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		parsed, err := time.ParseInLocation(format, dateStr, time.UTC)
		if err != nil {
			continue
		}
		if format == "1/2" {
			parsed = time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			if parsed.Before(today) {
				parsed = parsed.AddDate(1, 0, 0)
			}
		}
		return parsed, true
	}
	return time.Time{}, false
}
