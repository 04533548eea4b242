package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/rs/zerolog"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

// Summary aggregates scoring results for the summary output format.
type Summary struct {
	Total         int     `json:"total"`
	Succeeded     int     `json:"succeeded"`
	Failed        int     `json:"failed"`
	AverageRating float64 `json:"average_rating"`
	MinRating     float64 `json:"min_rating"`
	MaxRating     float64 `json:"max_rating"`
}

// Writer emits results either one JSON object per line or as a single
// aggregate summary written on Close.
type Writer struct {
	out     io.Writer
	format  string
	logger  *zerolog.Logger
	encoder *json.Encoder

	total     int
	succeeded int
	failed    int
	ratingSum float64
	minRating float64
	maxRating float64
}

func NewWriter(out io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	switch format {
	case FormatJSONL, FormatSummary:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	return &Writer{
		out:       out,
		format:    format,
		logger:    logger,
		encoder:   json.NewEncoder(out),
		minRating: math.Inf(1),
		maxRating: math.Inf(-1),
	}, nil
}

func (w *Writer) Write(result Result) error {
	if w.format == FormatJSONL {
		return w.encoder.Encode(result)
	}

	w.total++
	if result.Error != "" {
		w.failed++
		return nil
	}
	w.succeeded++
	w.ratingSum += result.PredictedRating
	w.minRating = math.Min(w.minRating, result.PredictedRating)
	w.maxRating = math.Max(w.maxRating, result.PredictedRating)
	return nil
}

// Close flushes the aggregate for the summary format. It is a no-op for
// jsonl, which writes eagerly.
func (w *Writer) Close() error {
	if w.format != FormatSummary {
		return nil
	}

	summary := Summary{
		Total:     w.total,
		Succeeded: w.succeeded,
		Failed:    w.failed,
	}
	if w.succeeded > 0 {
		summary.AverageRating = w.ratingSum / float64(w.succeeded)
		summary.MinRating = w.minRating
		summary.MaxRating = w.maxRating
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if _, err := w.out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
