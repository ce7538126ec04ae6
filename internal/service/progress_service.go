package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/windfall/lingo_practice/internal/client"
	"github.com/windfall/lingo_practice/internal/errors"
	"github.com/windfall/lingo_practice/internal/repository"
)

const (
	progressCacheKey   = "progress:report"
	recentSessionLimit = 10
	snippetLimit       = 50
)

// ProgressReport is the overall practice report.
type ProgressReport struct {
	TotalScripts          int                         `json:"total_scripts"`
	TotalSentences        int                         `json:"total_sentences"`
	TotalPracticeSessions int                         `json:"total_practice_sessions"`
	AvgTranslationScore   float64                     `json:"avg_translation_score"`
	AvgPronunciationScore float64                     `json:"avg_pronunciation_score"`
	RecentSessions        []*repository.RecentSession `json:"recent_sessions"`
}

// ProgressService aggregates practice statistics, cached in Redis between
// writes.
type ProgressService struct {
	practices repository.PracticeRepository
	cache     *client.RedisClient
	cacheTTL  time.Duration
	log       zerolog.Logger
}

// NewProgressService creates a new progress service. The cache may be nil,
// in which case every report hits the database.
func NewProgressService(practices repository.PracticeRepository, cache *client.RedisClient, cacheTTL time.Duration, log zerolog.Logger) *ProgressService {
	return &ProgressService{
		practices: practices,
		cache:     cache,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

// Report returns practice totals, average scores (2-decimal rounding) and
// the most recent sessions with text snippets.
func (s *ProgressService) Report(ctx context.Context) (*ProgressReport, error) {
	if s.cache != nil {
		var cached ProgressReport
		err := s.cache.GetJSON(ctx, progressCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if err != client.ErrCacheMiss {
			s.log.Warn().Err(err).Msg("Progress cache read failed")
		}
	}

	stats, err := s.practices.Stats(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load progress stats", err)
	}

	recent, err := s.practices.Recent(ctx, recentSessionLimit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load recent sessions", err)
	}
	if recent == nil {
		recent = []*repository.RecentSession{}
	}
	for _, session := range recent {
		session.SentenceText = snippet(session.SentenceText)
		session.UserTranslation = snippet(session.UserTranslation)
	}

	report := &ProgressReport{
		TotalScripts:          stats.TotalScripts,
		TotalSentences:        stats.TotalSentences,
		TotalPracticeSessions: stats.TotalPracticeSessions,
		AvgTranslationScore:   round2(stats.AvgTranslationScore),
		AvgPronunciationScore: round2(stats.AvgPronunciationScore),
		RecentSessions:        recent,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, progressCacheKey, report, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("Progress cache write failed")
		}
	}
	return report, nil
}

// Invalidate drops the cached report. Called after practice writes so the
// next report reflects them.
func (s *ProgressService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, progressCacheKey); err != nil {
		s.log.Warn().Err(err).Msg("Progress cache invalidation failed")
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func snippet(s string) string {
	runes := []rune(s)
	if len(runes) <= snippetLimit {
		return s
	}
	return string(runes[:snippetLimit]) + "..."
}
