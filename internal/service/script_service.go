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

const searchResultLimit = 20

// CreateScriptResult is returned after a script has been split and stored.
type CreateScriptResult struct {
	Message                string    `json:"message"`
	ScriptID               uuid.UUID `json:"script_id"`
	SentencesCount         int       `json:"sentences_count"`
	AutoTranslation        bool      `json:"auto_translation"`
	AutoTranslationMessage string    `json:"auto_translation_message"`
}

// ScriptDetail is a script with its content reassembled from sentences.
type ScriptDetail struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
}

// ScriptService manages scripts and their sentences.
type ScriptService struct {
	repo       repository.ScriptRepository
	translator Translator
	log        zerolog.Logger
}

// NewScriptService creates a new script service. The translator may be nil,
// in which case sentences are stored without model translations.
func NewScriptService(repo repository.ScriptRepository, translator Translator, log zerolog.Logger) *ScriptService {
	return &ScriptService{
		repo:       repo,
		translator: translator,
		log:        log,
	}
}

// Create splits content into sentences, auto-translates each, and stores the
// script. Title and content must be non-empty.
func (s *ScriptService) Create(ctx context.Context, title, content string) (*CreateScriptResult, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, errors.Validation("Title and content are required")
	}

	sentences := s.splitAndTranslate(ctx, content)

	scriptID, err := s.repo.Create(ctx, title, sentences)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to create script", err)
	}

	s.log.Info().
		Str("script_id", scriptID.String()).
		Int("sentences", len(sentences)).
		Msg("Script created")

	result := &CreateScriptResult{
		Message:         "Script created successfully",
		ScriptID:        scriptID,
		SentencesCount:  len(sentences),
		AutoTranslation: s.translator != nil,
	}
	if result.AutoTranslation {
		result.AutoTranslationMessage = "All sentences were automatically translated."
	}
	return result, nil
}

// List returns all scripts with sentence counts.
func (s *ScriptService) List(ctx context.Context) ([]*repository.Script, error) {
	scripts, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list scripts", err)
	}
	if scripts == nil {
		scripts = []*repository.Script{}
	}
	return scripts, nil
}

// Get returns a script with its content joined back from sentences.
func (s *ScriptService) Get(ctx context.Context, id uuid.UUID) (*ScriptDetail, error) {
	script, sentences, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("script")
	}

	lines := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		lines = append(lines, sentence.OriginalText)
	}

	return &ScriptDetail{
		ID:      script.ID,
		Title:   script.Title,
		Content: strings.Join(lines, "\n"),
	}, nil
}

// Update changes the title and/or replaces the content. Nil fields are left
// untouched; new content is re-split and re-translated.
func (s *ScriptService) Update(ctx context.Context, id uuid.UUID, title, content *string) error {
	if title != nil && strings.TrimSpace(*title) != "" {
		if err := s.repo.UpdateTitle(ctx, id, *title); err != nil {
			return errors.NotFound("script")
		}
	}
	if content != nil {
		sentences := s.splitAndTranslate(ctx, *content)
		if err := s.repo.ReplaceSentences(ctx, id, sentences); err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to replace sentences", err)
		}
	}
	return nil
}

// Delete removes a script and, by cascade, its sentences and practice
// history.
func (s *ScriptService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NotFound("script")
	}
	return nil
}

// Sentences returns the script's sentences in practice order. Mode "random"
// shuffles; any other mode is sequential. An empty result is valid and means
// the script has no content.
func (s *ScriptService) Sentences(ctx context.Context, scriptID uuid.UUID, mode string) ([]*repository.Sentence, error) {
	sentences, err := s.repo.ListSentences(ctx, scriptID, mode == "random")
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load sentences", err)
	}
	if sentences == nil {
		sentences = []*repository.Sentence{}
	}
	return sentences, nil
}

// SetModelTranslation stores a reference translation for a sentence.
func (s *ScriptService) SetModelTranslation(ctx context.Context, sentenceID uuid.UUID, translation string) error {
	if strings.TrimSpace(translation) == "" {
		return errors.Validation("model_translation is required")
	}
	if err := s.repo.SetModelTranslation(ctx, sentenceID, translation); err != nil {
		return errors.NotFound("sentence")
	}
	return nil
}

// Search finds sentences containing the query text. An empty query returns
// an empty result without touching storage.
func (s *ScriptService) Search(ctx context.Context, query string) ([]*repository.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return []*repository.SearchHit{}, nil
	}
	hits, err := s.repo.Search(ctx, query, searchResultLimit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to search sentences", err)
	}
	if hits == nil {
		hits = []*repository.SearchHit{}
	}
	return hits, nil
}

func (s *ScriptService) splitAndTranslate(ctx context.Context, content string) []repository.NewSentence {
	parts := text.SplitSentences(content)
	sentences := make([]repository.NewSentence, 0, len(parts))
	for _, part := range parts {
		var translation string
		if s.translator != nil {
			var err error
			translation, err = s.translator.Translate(ctx, part)
			if err != nil {
				s.log.Warn().Err(err).Str("sentence", part).Msg("Auto-translation failed")
				translation = ""
			}
		}
		sentences = append(sentences, repository.NewSentence{
			OriginalText:     part,
			ModelTranslation: strings.TrimSpace(translation),
		})
	}
	return sentences
}
