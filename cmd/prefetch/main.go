package main

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"flex_reviews/internal/adapters/observability"
	"flex_reviews/internal/adapters/places"
	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/app"
	"flex_reviews/internal/shared"
)

// prefetch warms the Places details cache for the configured place IDs so
// the API never burns request quota on a cold start.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.PlacesBase).
		Int("workers", cfg.PrefetchWorkers).
		Int("places", len(cfg.PlaceIDs)).
		Msg("prefetch starting")

	client := places.New(cfg.PlacesBase, cfg.PlacesKey, 5)
	if !client.Configured() {
		log.Fatal().Msg("GOOGLE_PLACES_API_KEY is required for prefetch")
	}
	if len(cfg.PlaceIDs) == 0 {
		log.Fatal().Msg("GOOGLE_PLACE_IDS is empty; nothing to prefetch")
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ttl := int(cfg.CacheTTL.Seconds())
	sem := semaphore.NewWeighted(int64(cfg.PrefetchWorkers))
	var wg sync.WaitGroup

	for _, id := range cfg.PlaceIDs {
		id := id

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(placeID string) {
			defer wg.Done()
			defer sem.Release(int64(1))

			place, err := client.PlaceDetails(ctx, placeID)
			if err != nil {
				log.Warn().Str("place", placeID).Err(err).Msg("prefetch failed")
				return
			}
			if err := cache.Set(ctx, app.PlaceCacheKey(placeID), place, ttl); err != nil {
				log.Warn().Str("place", placeID).Err(err).Msg("cache write failed")
				return
			}
			log.Info().Str("place", placeID).Int("reviews", len(place.Reviews)).Msg("prefetch ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("prefetch completed")
}
