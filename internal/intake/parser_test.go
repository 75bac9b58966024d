package intake

import (
	"testing"
	"time"
)

var parseNow = time.Date(2024, 11, 10, 9, 30, 0, 0, time.UTC)

func TestExtractItemsQuantityFirst(t *testing.T) {
	items := ExtractItems("We have 10 lbs fresh produce expires 12/25, please pick up.", parseNow)

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(items), items)
	}
	item := items[0]
	if item.QuantityPounds != 10 {
		t.Fatalf("quantity = %f, want 10", item.QuantityPounds)
	}
	if item.Category != "produce" {
		t.Fatalf("category = %q, want produce", item.Category)
	}
	if item.ExpirationDate == nil {
		t.Fatal("expected expiration date")
	}
	want := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)
	if !item.ExpirationDate.Equal(want) {
		t.Fatalf("expiration = %v, want %v", item.ExpirationDate, want)
	}
}

func TestExtractItemsDescriptionFirst(t *testing.T) {
	items := ExtractItems("Dairy products - 5 pounds - sell by 12/20", parseNow)

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(items), items)
	}
	item := items[0]
	if item.Category != "dairy" {
		t.Fatalf("category = %q, want dairy", item.Category)
	}
	if item.QuantityPounds != 5 {
		t.Fatalf("quantity = %f, want 5", item.QuantityPounds)
	}
	if item.SellByDate == nil {
		t.Fatal("expected sell-by date")
	}
}

func TestExtractItemsMultipleLines(t *testing.T) {
	email := "20 lbs bread\n15.5 lbs chicken expires 11/14\n"
	items := ExtractItems(email, parseNow)

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].Category != "bakery" {
		t.Fatalf("first category = %q, want bakery", items[0].Category)
	}
	if items[1].Category != "meat" {
		t.Fatalf("second category = %q, want meat", items[1].Category)
	}
	if items[1].QuantityPounds != 15.5 {
		t.Fatalf("second quantity = %f, want 15.5", items[1].QuantityPounds)
	}
}

func TestExtractItemsFallsBackToManualReview(t *testing.T) {
	items := ExtractItems("Hi team, we might have something for you next week!", parseNow)

	if len(items) != 1 {
		t.Fatalf("expected fallback item, got %d", len(items))
	}
	if !items[0].ManualReview {
		t.Fatal("expected manual review flag")
	}
	if items[0].Category != "other" {
		t.Fatalf("category = %q, want other", items[0].Category)
	}
	if items[0].QuantityPounds != 1.0 {
		t.Fatalf("quantity = %f, want 1.0", items[0].QuantityPounds)
	}
}

func TestCategorize(t *testing.T) {
	cases := map[string]string{
		"slightly wilted lettuce and tomatoes": "produce",
		"milk and yogurt":                      "dairy",
		"ground beef":                          "meat",
		"salmon fillets":                       "seafood",
		"day-old muffins":                      "bakery",
		"frozen dinners":                       "frozen",
		"canned soup":                          "pantry",
		"orange juice":                         "beverages",
		"deli sandwiches":                      "prepared",
		"unmarked boxes":                       "other",
	}
	for description, want := range cases {
		if got := Categorize(description); got != want {
			t.Fatalf("Categorize(%q) = %q, want %q", description, got, want)
		}
	}
}

func TestParseDateFormats(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
	}{
		{"12/25/2024", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"12/25/24", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"2024-12-25", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		// Year-less future date stays in the current year.
		{"12/25", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		// Year-less past date rolls into next year.
		{"1/15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.input, parseNow)
		if !ok {
			t.Fatalf("ParseDate(%q) failed", tc.input)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, ok := ParseDate("soon", parseNow); ok {
		t.Fatal("expected parse failure")
	}
	if _, ok := ParseDate("", parseNow); ok {
		t.Fatal("expected parse failure for empty input")
	}
}
