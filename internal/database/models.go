package database

// Review is one stored customer review with the restaurant attributes it was
// ingested with.
type Review struct {
	ID       string
	Content  string
	Metadata map[string]any
	Distance float64
}

// Condition matches one metadata field. Bool values compare against the
// field cast to boolean, everything else compares as text.
type Condition struct {
	Field string
	Value any
}

// Filter is a conjunction of conditions; empty means unfiltered.
type Filter []Condition
