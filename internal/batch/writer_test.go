package batch

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriter_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer

	_, err := NewWriter(&buf, "xml", newTestLogger())
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported output format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWriter_JSONL(t *testing.T) {
	var buf bytes.Buffer

	writer, err := NewWriter(&buf, FormatJSONL, newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	results := []Result{
		{LineNumber: 1, Category: "Cafe", Area: "Clifton", PriceLevel: "moderate", PredictedRating: 4.2},
		{LineNumber: 2, Category: "Bakery", Error: "category, area and price_level are required"},
	}
	for _, result := range results {
		if err := writer.Write(result); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 output lines, got %d", len(lines))
	}

	var first Result
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("Failed to parse first line: %v", err)
	}
	if first.PredictedRating != 4.2 {
		t.Errorf("rating: %v, want: 4.2", first.PredictedRating)
	}

	var second Result
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("Failed to parse second line: %v", err)
	}
	if second.Error == "" {
		t.Error("Expected error carried through to output")
	}
}

func TestWriter_Summary(t *testing.T) {
	var buf bytes.Buffer

	writer, err := NewWriter(&buf, FormatSummary, newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	results := []Result{
		{LineNumber: 1, PredictedRating: 4.0},
		{LineNumber: 2, PredictedRating: 2.0},
		{LineNumber: 3, Error: "failed to parse record"},
	}
	for _, result := range results {
		if err := writer.Write(result); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	// Nothing written until Close for the summary format
	if buf.Len() != 0 {
		t.Errorf("Expected no output before Close, got: %s", buf.String())
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	var summary Summary
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("Failed to parse summary: %v", err)
	}

	if summary.Total != 3 {
		t.Errorf("total: %d, want: 3", summary.Total)
	}
	if summary.Succeeded != 2 {
		t.Errorf("succeeded: %d, want: 2", summary.Succeeded)
	}
	if summary.Failed != 1 {
		t.Errorf("failed: %d, want: 1", summary.Failed)
	}
	if summary.AverageRating != 3.0 {
		t.Errorf("average: %v, want: 3.0", summary.AverageRating)
	}
	if summary.MinRating != 2.0 {
		t.Errorf("min: %v, want: 2.0", summary.MinRating)
	}
	if summary.MaxRating != 4.0 {
		t.Errorf("max: %v, want: 4.0", summary.MaxRating)
	}
}

func TestWriter_EmptySummary(t *testing.T) {
	var buf bytes.Buffer

	writer, err := NewWriter(&buf, FormatSummary, newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// All-zero aggregate, never Inf from the min/max seeds
	var summary Summary
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("Failed to parse summary: %v", err)
	}
	if summary.Total != 0 || summary.MinRating != 0 || summary.MaxRating != 0 {
		t.Errorf("Expected zeroed summary, got: %+v", summary)
	}
}
