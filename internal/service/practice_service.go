package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/windfall/lingo_practice/internal/errors"
	"github.com/windfall/lingo_practice/internal/repository"
	"github.com/windfall/lingo_practice/internal/text"
)

// feedbackThreshold gates AI feedback: strong translations get none.
const feedbackThreshold = 0.8

// TranslationResult is the scored outcome of a translation submission.
type TranslationResult struct {
	OriginalText     string    `json:"original_text"`
	ModelTranslation *string   `json:"model_translation"`
	UserTranslation  string    `json:"user_translation"`
	SimilarityScore  float64   `json:"similarity_score"`
	AIFeedback       *string   `json:"ai_feedback"`
	PracticeID       uuid.UUID `json:"practice_id"`
}

// PronunciationResult is the word-level outcome of a pronunciation
// submission.
type PronunciationResult struct {
	ExpectedWords      []string `json:"expected_words"`
	ActualWords        []string `json:"actual_words"`
	Matched            []string `json:"matched"`
	Missed             []string `json:"missed"`
	Extra              []string `json:"extra"`
	PronunciationScore float64  `json:"pronunciation_score"`
	UserTranslation    string   `json:"user_translation"`
	PronunciationText  string   `json:"pronunciation_text"`
}

// PracticeService scores translation and pronunciation attempts.
type PracticeService struct {
	scripts   repository.ScriptRepository
	practices repository.PracticeRepository
	feedback  FeedbackProvider
	progress  *ProgressService
	log       zerolog.Logger
}

// NewPracticeService creates a new practice service. The feedback provider
// may be nil, in which case no AI feedback is attached.
func NewPracticeService(
	scripts repository.ScriptRepository,
	practices repository.PracticeRepository,
	feedback FeedbackProvider,
	progress *ProgressService,
	log zerolog.Logger,
) *PracticeService {
	return &PracticeService{
		scripts:   scripts,
		practices: practices,
		feedback:  feedback,
		progress:  progress,
		log:       log,
	}
}

// Translate scores a user translation against the sentence's model
// translation (falling back to the original text when none exists) and
// records the attempt.
func (s *PracticeService) Translate(ctx context.Context, sentenceID uuid.UUID, userTranslation string) (*TranslationResult, error) {
	if strings.TrimSpace(userTranslation) == "" {
		return nil, errors.Validation("user_translation is required")
	}

	sentence, err := s.scripts.GetSentence(ctx, sentenceID)
	if err != nil {
		return nil, errors.NotFound("sentence")
	}

	reference := sentence.OriginalText
	if sentence.ModelTranslation != nil && *sentence.ModelTranslation != "" {
		reference = *sentence.ModelTranslation
	}
	similarity := text.Ratio(strings.ToLower(reference), strings.ToLower(userTranslation))

	var aiFeedback *string
	if s.feedback != nil && similarity < feedbackThreshold && sentence.ModelTranslation != nil && *sentence.ModelTranslation != "" {
		msg, err := s.feedback.TranslationFeedback(ctx, *sentence.ModelTranslation, userTranslation)
		if err != nil {
			s.log.Warn().Err(err).Str("sentence_id", sentenceID.String()).Msg("AI feedback failed")
			msg = "AI feedback unavailable"
		}
		if msg != "" {
			aiFeedback = &msg
		}
	}

	practiceID, err := s.practices.Create(ctx, sentenceID, userTranslation, similarity)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to record practice session", err)
	}

	if s.progress != nil {
		s.progress.Invalidate(ctx)
	}

	s.log.Info().
		Str("practice_id", practiceID.String()).
		Float64("similarity", similarity).
		Msg("Translation scored")

	return &TranslationResult{
		OriginalText:     sentence.OriginalText,
		ModelTranslation: sentence.ModelTranslation,
		UserTranslation:  userTranslation,
		SimilarityScore:  similarity,
		AIFeedback:       aiFeedback,
		PracticeID:       practiceID,
	}, nil
}

// Pronunciation scores a spoken transcript against the stored user
// translation of an earlier attempt and records the result.
func (s *PracticeService) Pronunciation(ctx context.Context, practiceID uuid.UUID, pronunciationText string) (*PronunciationResult, error) {
	if strings.TrimSpace(pronunciationText) == "" {
		return nil, errors.Validation("practice_id and pronunciation_text are required")
	}

	practice, err := s.practices.Get(ctx, practiceID)
	if err != nil {
		return nil, errors.NotFound("practice session")
	}

	expected := strings.TrimSpace(practice.UserTranslation)
	actual := strings.TrimSpace(pronunciationText)
	diff := text.DiffWords(expected, actual)

	if err := s.practices.RecordPronunciation(ctx, practiceID, actual, diff.Score); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to record pronunciation", err)
	}

	if s.progress != nil {
		s.progress.Invalidate(ctx)
	}

	s.log.Info().
		Str("practice_id", practiceID.String()).
		Float64("score", diff.Score).
		Int("matched", len(diff.Matched)).
		Int("missed", len(diff.Missed)).
		Int("extra", len(diff.Extra)).
		Msg("Pronunciation scored")

	return &PronunciationResult{
		ExpectedWords:      diff.ExpectedWords,
		ActualWords:        diff.ActualWords,
		Matched:            diff.Matched,
		Missed:             diff.Missed,
		Extra:              diff.Extra,
		PronunciationScore: diff.Score,
		UserTranslation:    expected,
		PronunciationText:  actual,
	}, nil
}
