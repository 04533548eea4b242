package ingestion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func TestLoadRestaurants(t *testing.T) {
	path := writeCSV(t, "restaurants.csv", `google_maps_link,category,area,price_level,outdoor_seating,live_music,is_open_24_7
https://maps.google.com/?cid=1,Cafe,Clifton,moderate,True,False,
https://maps.google.com/?cid=2,Bakery,Saddar,inexpensive,garbage,1,True
,Dhaba,Korangi,inexpensive,,,
`)

	restaurants, err := LoadRestaurants(path)
	if err != nil {
		t.Fatalf("LoadRestaurants failed: %v", err)
	}

	// The row without a google_maps_link has no join key and is skipped
	if len(restaurants) != 2 {
		t.Fatalf("Expected 2 restaurants, got %d", len(restaurants))
	}

	cafe, ok := restaurants["https://maps.google.com/?cid=1"]
	if !ok {
		t.Fatal("Expected cafe keyed by its maps link")
	}
	if cafe.Category != "Cafe" || cafe.Area != "Clifton" || cafe.PriceLevel != "moderate" {
		t.Errorf("Unexpected cafe features: %+v", cafe)
	}
	if !cafe.OutdoorSeating {
		t.Error("Expected outdoor_seating 'True' to parse as true")
	}
	if cafe.LiveMusic {
		t.Error("Expected live_music 'False' to parse as false")
	}
	if cafe.IsOpen247 {
		t.Error("Expected empty is_open_24_7 to default to false")
	}

	bakery := restaurants["https://maps.google.com/?cid=2"]
	if bakery.OutdoorSeating {
		t.Error("Expected unparsable outdoor_seating to default to false")
	}
	if !bakery.LiveMusic {
		t.Error("Expected live_music '1' to parse as true")
	}
	if !bakery.IsOpen247 {
		t.Error("Expected is_open_24_7 'True' to parse as true")
	}
}

func TestLoadRestaurants_MissingFile(t *testing.T) {
	_, err := LoadRestaurants(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to open restaurants file") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoadReviews(t *testing.T) {
	path := writeCSV(t, "reviews.csv", `google_maps_link,text
https://maps.google.com/?cid=1,Great coffee and quiet seating
https://maps.google.com/?cid=1,
https://maps.google.com/?cid=999,Unknown place but tasty parathas
`)

	reviews, err := LoadReviews(path)
	if err != nil {
		t.Fatalf("LoadReviews failed: %v", err)
	}

	// Empty-text rows survive loading so the join can count them
	if len(reviews) != 3 {
		t.Fatalf("Expected 3 raw reviews, got %d", len(reviews))
	}
	if reviews[0].Text != "Great coffee and quiet seating" {
		t.Errorf("Unexpected review text: %s", reviews[0].Text)
	}
	if reviews[1].Text != "" {
		t.Errorf("Expected empty text preserved, got: %s", reviews[1].Text)
	}
}

func TestJoinReviews(t *testing.T) {
	restaurants, err := LoadRestaurants(writeCSV(t, "restaurants.csv", `google_maps_link,category,area,price_level,outdoor_seating
https://maps.google.com/?cid=1,Cafe,Clifton,moderate,True
`))
	if err != nil {
		t.Fatalf("LoadRestaurants failed: %v", err)
	}

	reviews := []RawReview{
		{GoogleMapsLink: "https://maps.google.com/?cid=1", Text: "Great coffee and quiet seating"},
		{GoogleMapsLink: "https://maps.google.com/?cid=1", Text: "   "},
		{GoogleMapsLink: "https://maps.google.com/?cid=999", Text: "Unknown place but tasty parathas"},
	}

	records := JoinReviews(reviews, restaurants)

	// Whitespace-only review dropped, unknown link kept with zero features
	if len(records) != 2 {
		t.Fatalf("Expected 2 joined records, got %d", len(records))
	}

	if records[0].Features.Category != "Cafe" {
		t.Errorf("Expected joined features, got %+v", records[0].Features)
	}
	if !records[0].Features.OutdoorSeating {
		t.Error("Expected outdoor seating carried through the join")
	}

	if records[1].Features.Category != "" {
		t.Errorf("Expected zero-value features for unknown restaurant, got %+v", records[1].Features)
	}
	if records[1].Text != "Unknown place but tasty parathas" {
		t.Errorf("Unexpected review text: %s", records[1].Text)
	}
}
