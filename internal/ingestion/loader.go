package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/AghaSalikAli/Taste-Karachi/internal/models"
	"github.com/rs/zerolog/log"
)

// RawReview is one row of the reviews file before the restaurant join.
type RawReview struct {
	GoogleMapsLink string
	Text           string
}

// ReviewRecord is a review joined with its restaurant's features. Reviews
// without a matching restaurant keep zero-valued features, mirroring a left
// join with the missing booleans defaulted to false.
type ReviewRecord struct {
	Text     string
	Features models.RestaurantFeatures
}

// LoadRestaurants reads the restaurants file into a features map keyed by
// google_maps_link.
func LoadRestaurants(path string) (map[string]models.RestaurantFeatures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open restaurants file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read restaurants header: %w", err)
	}
	cols := indexColumns(header)

	restaurants := make(map[string]models.RestaurantFeatures)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read restaurants file: %w", err)
		}

		get := fieldGetter(row, cols)
		link := get("google_maps_link")
		if link == "" {
			continue
		}
		restaurants[link] = featuresFromRow(get)
	}

	return restaurants, nil
}

// LoadReviews reads the reviews file. Rows are kept even when the text is
// empty; the join drops them so the dropped count can be reported.
func LoadReviews(path string) ([]RawReview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reviews file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read reviews header: %w", err)
	}
	cols := indexColumns(header)

	var reviews []RawReview
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read reviews file: %w", err)
		}

		get := fieldGetter(row, cols)
		reviews = append(reviews, RawReview{
			GoogleMapsLink: get("google_maps_link"),
			Text:           get("text"),
		})
	}

	return reviews, nil
}

// JoinReviews left-joins reviews to restaurant features and drops records
// with empty review text.
func JoinReviews(reviews []RawReview, restaurants map[string]models.RestaurantFeatures) []ReviewRecord {
	records := make([]ReviewRecord, 0, len(reviews))
	dropped := 0

	for _, review := range reviews {
		if strings.TrimSpace(review.Text) == "" {
			dropped++
			continue
		}
		records = append(records, ReviewRecord{
			Text:     review.Text,
			Features: restaurants[review.GoogleMapsLink],
		})
	}

	if dropped > 0 {
		log.Info().Int("dropped", dropped).Msg("Dropped reviews with empty text")
	}

	return records
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	return cols
}

func fieldGetter(row []string, cols map[string]int) func(string) string {
	return func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
}

func featuresFromRow(get func(string) string) models.RestaurantFeatures {
	return models.RestaurantFeatures{
		Category:              get("category"),
		Area:                  get("area"),
		PriceLevel:            get("price_level"),
		DineIn:                parseBool(get("dine_in")),
		Takeout:               parseBool(get("takeout")),
		Delivery:              parseBool(get("delivery")),
		Reservable:            parseBool(get("reservable")),
		ServesBreakfast:       parseBool(get("serves_breakfast")),
		ServesLunch:           parseBool(get("serves_lunch")),
		ServesDinner:          parseBool(get("serves_dinner")),
		ServesCoffee:          parseBool(get("serves_coffee")),
		ServesDessert:         parseBool(get("serves_dessert")),
		OutdoorSeating:        parseBool(get("outdoor_seating")),
		LiveMusic:             parseBool(get("live_music")),
		GoodForChildren:       parseBool(get("good_for_children")),
		GoodForGroups:         parseBool(get("good_for_groups")),
		GoodForWatchingSports: parseBool(get("good_for_watching_sports")),
		Restroom:              parseBool(get("restroom")),
		ParkingFreeLot:        parseBool(get("parking_free_lot")),
		ParkingFreeStreet:     parseBool(get("parking_free_street")),
		AcceptsDebitCards:     parseBool(get("accepts_debit_cards")),
		AcceptsCashOnly:       parseBool(get("accepts_cash_only")),
		WheelchairAccessible:  parseBool(get("wheelchair_accessible")),
		IsOpen247:             parseBool(get("is_open_24_7")),
		OpenAfterMidnight:     parseBool(get("open_after_midnight")),
		IsClosedAnyDay:        parseBool(get("is_closed_any_day")),
	}
}

// parseBool treats missing or unparsable values as false, the way the
// source data's empty cells are meant to read.
func parseBool(value string) bool {
	if value == "" {
		return false
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return parsed
}
