package service

import (
	"context"
	"encoding/json"
	"go-cms-app/internal/data"
	"go-cms-app/internal/logger"
	"sync"
	"time"
)

const statsCacheKey = "dashboard:stats"

// DashboardService serves the dashboard counters through a short-lived cache.
type DashboardService struct {
	articles ArticleRepository
	cache    Cache
	ttl      time.Duration
	log      logger.Logger

	// mu orders cache writes against invalidations; generation counts
	// invalidations so counts read before one are never cached after it.
	mu         sync.Mutex
	generation uint64
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(articles ArticleRepository, cache Cache, ttl time.Duration, log logger.Logger) *DashboardService {
	return &DashboardService{articles: articles, cache: cache, ttl: ttl, log: log}
}

// Stats returns the number of categories, articles and published articles.
func (s *DashboardService) Stats(ctx context.Context) (*data.Stats, error) {
	if cached, err := s.cache.Get(statsCacheKey); err != nil {
		s.log.Error(err, "Failed to read dashboard stats from cache")
	} else if cached != nil {
		var stats data.Stats
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
	}

	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	stats, err := s.articles.Stats(ctx)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(stats)
	if err != nil {
		return stats, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		s.log.Debug("Dashboard stats changed while reading, not caching")
		return stats, nil
	}
	if err := s.cache.Set(statsCacheKey, encoded, s.ttl); err != nil {
		s.log.Error(err, "Failed to cache dashboard stats")
	}
	return stats, nil
}

// Invalidate drops the cached counters.
func (s *DashboardService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if err := s.cache.Delete(statsCacheKey); err != nil {
		s.log.Error(err, "Failed to invalidate dashboard stats")
	}
}
