package batch

import (
	"context"
	"sync"

	"github.com/AghaSalikAli/Taste-Karachi/internal/predictor"
	"github.com/rs/zerolog"
)

// Result is the outcome of scoring one input record.
type Result struct {
	LineNumber      int     `json:"line_number"`
	Category        string  `json:"category"`
	Area            string  `json:"area"`
	PriceLevel      string  `json:"price_level"`
	PredictedRating float64 `json:"predicted_rating"`
	Error           string  `json:"error,omitempty"`
}

type Processor struct {
	predictor *predictor.Predictor
	workers   int
	logger    *zerolog.Logger
}

func NewProcessor(ratingPredictor *predictor.Predictor, workers int, logger *zerolog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		predictor: ratingPredictor,
		workers:   workers,
		logger:    logger,
	}
}

// Process scores records on a fixed worker pool. The result channel closes
// once every record is handled; cancelling ctx stops dispatching new work
// but lets in-flight predictions finish.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan Result {
	jobs := make(chan InputRecord)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range jobs {
				results <- p.processRecord(ctx, record)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, record := range records {
			select {
			case jobs <- record:
			case <-ctx.Done():
				p.logger.Warn().Msg("Processing cancelled, skipping remaining records")
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (p *Processor) processRecord(ctx context.Context, record InputRecord) Result {
	result := Result{
		LineNumber: record.LineNumber,
		Category:   record.Request.Category,
		Area:       record.Request.Area,
		PriceLevel: record.Request.PriceLevel,
	}

	if record.Error != nil {
		result.Error = record.Error.Error()
		return result
	}

	rating, err := p.predictor.Predict(ctx, record.Request)
	if err != nil {
		p.logger.Error().Int("line", record.LineNumber).Err(err).Msg("Prediction failed")
		result.Error = err.Error()
		return result
	}

	result.PredictedRating = rating
	return result
}
