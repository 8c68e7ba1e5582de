// Package core - Core Business Logic
// Daily quote: one AI-generated quote per calendar day, cached in Redis so
// every user sees the same quote and the generator is hit at most once a day.
package core

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"misimuslim/pkg/logger"
	"misimuslim/pkg/models"
	"misimuslim/pkg/utils"
)

// QuoteGenerator produces the daily quote content
type QuoteGenerator interface {
	DailyQuote(ctx context.Context) (*models.Quote, error)
}

// QuoteService defines daily quote operations
type QuoteService interface {
	Today(ctx context.Context) (*models.Quote, error)
}

type quoteService struct {
	generator QuoteGenerator
	cache     *redis.Client
	now       func() time.Time

	mu       sync.Mutex
	fallback *models.Quote // last good quote, survives cache outages
}

// NewQuoteService creates a quote service. cache may be nil.
func NewQuoteService(generator QuoteGenerator, cache *redis.Client) QuoteService {
	return &quoteService{generator: generator, cache: cache, now: time.Now}
}

// Today returns the quote for the current date, generating it on first
// request of the day. When both the cache and the generator are down, the
// last successfully generated quote is served rather than an error.
func (s *quoteService) Today(ctx context.Context) (*models.Quote, error) {
	date := s.now().Format("2006-01-02")
	cacheKey := "quote:" + date

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var quote models.Quote
			if json.Unmarshal(cached, &quote) == nil {
				return &quote, nil
			}
		} else if err != redis.Nil {
			logger.Warnf("Quote cache read failed: %v", err)
		}
	}

	quote, err := s.generator.DailyQuote(ctx)
	if err != nil {
		s.mu.Lock()
		fallback := s.fallback
		s.mu.Unlock()
		if fallback != nil {
			logger.Warnf("Quote generation failed, serving previous quote: %v", err)
			return fallback, nil
		}
		return nil, err
	}
	quote.Date = date

	s.mu.Lock()
	s.fallback = quote
	s.mu.Unlock()

	if s.cache != nil {
		if data, err := json.Marshal(quote); err == nil {
			// The write gets its own deadline so a slow cache cannot hold
			// the request hostage. Expire after 48h so stale days age out.
			writeCtx, cancel := utils.WithTimeout(context.Background())
			if err := s.cache.Set(writeCtx, cacheKey, data, 48*time.Hour).Err(); err != nil {
				logger.Warnf("Quote cache write failed: %v", err)
			}
			cancel()
		}
	}
	return quote, nil
}
