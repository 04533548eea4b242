package models

// RestaurantFeatures is the shared feature vocabulary: three categorical
// identity fields plus the boolean amenity/operation flags. The same field
// names travel through requests, review metadata and the prediction payload.
type RestaurantFeatures struct {
	Category   string `json:"category"`
	Area       string `json:"area"`
	PriceLevel string `json:"price_level"`

	DineIn                bool `json:"dine_in"`
	Takeout               bool `json:"takeout"`
	Delivery              bool `json:"delivery"`
	Reservable            bool `json:"reservable"`
	ServesBreakfast       bool `json:"serves_breakfast"`
	ServesLunch           bool `json:"serves_lunch"`
	ServesDinner          bool `json:"serves_dinner"`
	ServesCoffee          bool `json:"serves_coffee"`
	ServesDessert         bool `json:"serves_dessert"`
	OutdoorSeating        bool `json:"outdoor_seating"`
	LiveMusic             bool `json:"live_music"`
	GoodForChildren       bool `json:"good_for_children"`
	GoodForGroups         bool `json:"good_for_groups"`
	GoodForWatchingSports bool `json:"good_for_watching_sports"`
	Restroom              bool `json:"restroom"`
	ParkingFreeLot        bool `json:"parking_free_lot"`
	ParkingFreeStreet     bool `json:"parking_free_street"`
	AcceptsDebitCards     bool `json:"accepts_debit_cards"`
	AcceptsCashOnly       bool `json:"accepts_cash_only"`
	WheelchairAccessible  bool `json:"wheelchair_accessible"`
	IsOpen247             bool `json:"is_open_24_7"`
	OpenAfterMidnight     bool `json:"open_after_midnight"`
	IsClosedAnyDay        bool `json:"is_closed_any_day"`
}

// BoolFields returns the boolean flags keyed by their wire names, used for
// review metadata and the model-server payload.
func (f RestaurantFeatures) BoolFields() map[string]bool {
	return map[string]bool{
		"dine_in":                  f.DineIn,
		"takeout":                  f.Takeout,
		"delivery":                 f.Delivery,
		"reservable":               f.Reservable,
		"serves_breakfast":         f.ServesBreakfast,
		"serves_lunch":             f.ServesLunch,
		"serves_dinner":            f.ServesDinner,
		"serves_coffee":            f.ServesCoffee,
		"serves_dessert":           f.ServesDessert,
		"outdoor_seating":          f.OutdoorSeating,
		"live_music":               f.LiveMusic,
		"good_for_children":        f.GoodForChildren,
		"good_for_groups":          f.GoodForGroups,
		"good_for_watching_sports": f.GoodForWatchingSports,
		"restroom":                 f.Restroom,
		"parking_free_lot":         f.ParkingFreeLot,
		"parking_free_street":      f.ParkingFreeStreet,
		"accepts_debit_cards":      f.AcceptsDebitCards,
		"accepts_cash_only":        f.AcceptsCashOnly,
		"wheelchair_accessible":    f.WheelchairAccessible,
		"is_open_24_7":             f.IsOpen247,
		"open_after_midnight":      f.OpenAfterMidnight,
		"is_closed_any_day":        f.IsClosedAnyDay,
	}
}

// Metadata returns the full metadata record stored alongside a review.
func (f RestaurantFeatures) Metadata() map[string]any {
	metadata := map[string]any{
		"category":    f.Category,
		"area":        f.Area,
		"price_level": f.PriceLevel,
	}
	for name, value := range f.BoolFields() {
		metadata[name] = value
	}
	return metadata
}
