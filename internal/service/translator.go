package service

import "context"

// Translator produces a reference translation for a source sentence.
// Implementations are best-effort: script creation tolerates per-sentence
// failures and leaves the model translation empty.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// FeedbackProvider produces brief teacher feedback comparing a student
// translation against the model translation.
type FeedbackProvider interface {
	TranslationFeedback(ctx context.Context, modelTranslation, userTranslation string) (string, error)
}

// StaticTranslator is a deterministic Translator for tests and offline
// development: it returns the mapped translation, or empty when unmapped.
type StaticTranslator struct {
	Translations map[string]string
}

func (t *StaticTranslator) Translate(ctx context.Context, text string) (string, error) {
	if t.Translations == nil {
		return "", nil
	}
	return t.Translations[text], nil
}
