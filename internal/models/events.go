package models

// ReviewEvent is one restaurant review arriving on the ingestion stream.
// ID is optional; the consumer derives a stable one from the stream entry
// when it is absent.
type ReviewEvent struct {
	ID       string             `json:"id,omitempty"`
	Text     string             `json:"text"`
	Features RestaurantFeatures `json:"features"`
}
