package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/windfall/lingo_practice/internal/client"
)

// PracticeSession is one scored attempt at a sentence: a translation
// submission, later enriched with a pronunciation result.
type PracticeSession struct {
	ID                 uuid.UUID `json:"id"`
	SentenceID         uuid.UUID `json:"sentence_id"`
	UserTranslation    string    `json:"user_translation"`
	TranslationScore   float64   `json:"translation_score"`
	PronunciationText  *string   `json:"pronunciation_text"`
	PronunciationScore *float64  `json:"pronunciation_score"`
	PracticeDate       time.Time `json:"practice_date"`
}

// ProgressStats are whole-database practice aggregates.
type ProgressStats struct {
	TotalScripts          int     `json:"total_scripts"`
	TotalSentences        int     `json:"total_sentences"`
	TotalPracticeSessions int     `json:"total_practice_sessions"`
	AvgTranslationScore   float64 `json:"avg_translation_score"`
	AvgPronunciationScore float64 `json:"avg_pronunciation_score"`
}

// RecentSession is one row of the recent-practice report.
type RecentSession struct {
	ID                 uuid.UUID `json:"id"`
	SentenceText       string    `json:"sentence_text"`
	UserTranslation    string    `json:"user_translation"`
	TranslationScore   float64   `json:"translation_score"`
	PronunciationScore *float64  `json:"pronunciation_score"`
	PracticeDate       time.Time `json:"practice_date"`
}

type PracticeRepository interface {
	Create(ctx context.Context, sentenceID uuid.UUID, userTranslation string, translationScore float64) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*PracticeSession, error)
	RecordPronunciation(ctx context.Context, id uuid.UUID, pronunciationText string, score float64) error
	Stats(ctx context.Context) (*ProgressStats, error)
	Recent(ctx context.Context, limit int) ([]*RecentSession, error)
}

type PostgresPracticeRepository struct {
	db *client.PostgresClient
}

func NewPostgresPracticeRepository(db *client.PostgresClient) *PostgresPracticeRepository {
	return &PostgresPracticeRepository{db: db}
}

func (r *PostgresPracticeRepository) Create(ctx context.Context, sentenceID uuid.UUID, userTranslation string, translationScore float64) (uuid.UUID, error) {
	if r.db == nil || r.db.Pool == nil {
		return uuid.Nil, fmt.Errorf("database not configured")
	}

	var id uuid.UUID
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO practice_sessions (sentence_id, user_translation, translation_score)
		VALUES ($1, $2, $3)
		RETURNING id
	`, sentenceID, userTranslation, translationScore).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create practice session: %w", err)
	}
	return id, nil
}

func (r *PostgresPracticeRepository) Get(ctx context.Context, id uuid.UUID) (*PracticeSession, error) {
	if r.db == nil || r.db.Pool == nil {
		return nil, fmt.Errorf("database not configured")
	}

	var p PracticeSession
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, sentence_id, user_translation, translation_score,
		       pronunciation_text, pronunciation_score, practice_date
		FROM practice_sessions
		WHERE id = $1
	`, id).Scan(
		&p.ID,
		&p.SentenceID,
		&p.UserTranslation,
		&p.TranslationScore,
		&p.PronunciationText,
		&p.PronunciationScore,
		&p.PracticeDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get practice session: %w", err)
	}
	return &p, nil
}

func (r *PostgresPracticeRepository) RecordPronunciation(ctx context.Context, id uuid.UUID, pronunciationText string, score float64) error {
	if r.db == nil || r.db.Pool == nil {
		return fmt.Errorf("database not configured")
	}

	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE practice_sessions
		SET pronunciation_text = $1, pronunciation_score = $2
		WHERE id = $3
	`, pronunciationText, score, id)
	if err != nil {
		return fmt.Errorf("failed to record pronunciation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("practice session %s not found", id)
	}
	return nil
}

func (r *PostgresPracticeRepository) Stats(ctx context.Context) (*ProgressStats, error) {
	if r.db == nil || r.db.Pool == nil {
		return nil, fmt.Errorf("database not configured")
	}

	var stats ProgressStats
	err := r.db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM scripts),
			(SELECT COUNT(*) FROM sentences),
			(SELECT COUNT(*) FROM practice_sessions),
			COALESCE((SELECT AVG(translation_score) FROM practice_sessions), 0),
			COALESCE((SELECT AVG(pronunciation_score) FROM practice_sessions WHERE pronunciation_score IS NOT NULL), 0)
	`).Scan(
		&stats.TotalScripts,
		&stats.TotalSentences,
		&stats.TotalPracticeSessions,
		&stats.AvgTranslationScore,
		&stats.AvgPronunciationScore,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress stats: %w", err)
	}
	return &stats, nil
}

func (r *PostgresPracticeRepository) Recent(ctx context.Context, limit int) ([]*RecentSession, error) {
	if r.db == nil || r.db.Pool == nil {
		return nil, fmt.Errorf("database not configured")
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT p.id, se.original_text, p.user_translation, p.translation_score,
		       p.pronunciation_score, p.practice_date
		FROM practice_sessions p
		JOIN sentences se ON se.id = p.sentence_id
		ORDER BY p.practice_date DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*RecentSession
	for rows.Next() {
		var s RecentSession
		if err := rows.Scan(&s.ID, &s.SentenceText, &s.UserTranslation, &s.TranslationScore, &s.PronunciationScore, &s.PracticeDate); err != nil {
			return nil, fmt.Errorf("failed to scan recent session: %w", err)
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}
