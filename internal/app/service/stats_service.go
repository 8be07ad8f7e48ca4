package service

import (
	"context"
	"encoding/json"

	"poi_network/internal/domain/repository"
	"poi_network/internal/platform/config"
	"poi_network/internal/platform/logger"

	"github.com/redis/go-redis/v9"
)

const statsCacheKey = "stats:overview"

type Stats struct {
	TotalProblems    int `json:"total_problems"`
	TotalSolutions   int `json:"total_solutions"`
	TotalUsers       int `json:"total_users"`
	PendingSolutions int `json:"pending_solutions"`
}

// StatsService aggregates marketplace totals, with a short-TTL redis cache in
// front of the cross-table counts. The cache is best-effort: redis being down
// never fails the request.
type StatsService struct {
	problemRepo  repository.ProblemRepository
	solutionRepo repository.SolutionRepository
	userRepo     repository.UserRepository
	rdb          *redis.Client // Optional
}

func NewStatsService(
	problemRepo repository.ProblemRepository,
	solutionRepo repository.SolutionRepository,
	userRepo repository.UserRepository,
	rdb *redis.Client,
) *StatsService {
	return &StatsService{
		problemRepo:  problemRepo,
		solutionRepo: solutionRepo,
		userRepo:     userRepo,
		rdb:          rdb,
	}
}

func (s *StatsService) GetStats(ctx context.Context) (*Stats, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	stats := &Stats{}
	var err error
	if stats.TotalProblems, err = s.problemRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalSolutions, err = s.solutionRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingSolutions, err = s.solutionRepo.CountPending(ctx); err != nil {
		return nil, err
	}

	s.toCache(ctx, stats)
	return stats, nil
}

func (s *StatsService) fromCache(ctx context.Context) *Stats {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	stats := &Stats{}
	if err := json.Unmarshal(raw, stats); err != nil {
		return nil
	}
	return stats
}

func (s *StatsService) toCache(ctx context.Context, stats *Stats) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, statsCacheKey, raw, config.AppConfig.StatsCacheTTL).Err(); err != nil {
		logger.Log.WithError(err).Warn("stats cache write failed")
	}
}
