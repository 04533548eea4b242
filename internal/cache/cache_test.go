package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/AghaSalikAli/Taste-Karachi/internal/models"
)

func TestKey_DefaultsMatchExplicitValues(t *testing.T) {
	implicit := Key(models.RestaurantFeatures{})
	explicit := Key(models.RestaurantFeatures{
		Category:   "restaurant",
		Area:       "Karachi",
		PriceLevel: "moderate",
	})

	if implicit != explicit {
		t.Errorf("Expected defaulted and explicit features to share a key:\n%s\n%s", implicit, explicit)
	}
	if !strings.HasPrefix(implicit, "advice:") {
		t.Errorf("Expected advice: prefix, got: %s", implicit)
	}
}

func TestKey_DistinguishesRetrievalFields(t *testing.T) {
	base := models.RestaurantFeatures{
		Category:   "Cafe",
		Area:       "Clifton",
		PriceLevel: "moderate",
	}

	tests := []struct {
		name   string
		mutate func(f models.RestaurantFeatures) models.RestaurantFeatures
	}{
		{"category", func(f models.RestaurantFeatures) models.RestaurantFeatures {
			f.Category = "Bakery"
			return f
		}},
		{"area", func(f models.RestaurantFeatures) models.RestaurantFeatures {
			f.Area = "Saddar"
			return f
		}},
		{"price level", func(f models.RestaurantFeatures) models.RestaurantFeatures {
			f.PriceLevel = "expensive"
			return f
		}},
		{"outdoor seating", func(f models.RestaurantFeatures) models.RestaurantFeatures {
			f.OutdoorSeating = true
			return f
		}},
		{"open 24/7", func(f models.RestaurantFeatures) models.RestaurantFeatures {
			f.IsOpen247 = true
			return f
		}},
		{"live music", func(f models.RestaurantFeatures) models.RestaurantFeatures {
			f.LiveMusic = true
			return f
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if Key(base) == Key(test.mutate(base)) {
				t.Errorf("Expected %s to change the cache key", test.name)
			}
		})
	}
}

func TestKey_IgnoresNonRetrievalFields(t *testing.T) {
	base := models.RestaurantFeatures{
		Category:   "Cafe",
		Area:       "Clifton",
		PriceLevel: "moderate",
	}
	withExtras := base
	withExtras.ServesCoffee = true
	withExtras.GoodForGroups = true
	withExtras.WheelchairAccessible = true

	// Fields that never reach the retrieval filter share the cached advice
	if Key(base) != Key(withExtras) {
		t.Error("Expected non-retrieval fields to leave the cache key unchanged")
	}
}

func TestAdviceCache_NilSafety(t *testing.T) {
	ctx := context.Background()
	features := models.RestaurantFeatures{Category: "Cafe", Area: "Clifton", PriceLevel: "moderate"}

	var nilCache *AdviceCache
	if _, ok := nilCache.Get(ctx, features); ok {
		t.Error("Expected nil cache to miss")
	}
	if err := nilCache.Set(ctx, features, CachedAdvice{Advice: "advice"}); err != nil {
		t.Errorf("Expected nil cache Set to be a no-op, got: %v", err)
	}

	// Same for a cache built without a Redis client
	clientless := NewAdviceCache(nil, 0, nil)
	if _, ok := clientless.Get(ctx, features); ok {
		t.Error("Expected clientless cache to miss")
	}
	if err := clientless.Set(ctx, features, CachedAdvice{Advice: "advice"}); err != nil {
		t.Errorf("Expected clientless cache Set to be a no-op, got: %v", err)
	}
}
