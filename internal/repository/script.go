package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/windfall/lingo_practice/internal/client"
)

// Script is a body of source-language text decomposed into sentences.
type Script struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"created_at"`
	SentencesCount int       `json:"sentences_count"`
}

// Sentence is one practiceable unit of a script.
type Sentence struct {
	ID               uuid.UUID `json:"id"`
	ScriptID         uuid.UUID `json:"script_id"`
	OriginalText     string    `json:"original_text"`
	OrderIndex       int       `json:"order_index"`
	Difficulty       string    `json:"difficulty"`
	ModelTranslation *string   `json:"model_translation"`
}

// NewSentence is the insert shape for a sentence; the order index is the
// position in the slice.
type NewSentence struct {
	OriginalText     string
	ModelTranslation string
}

// SearchHit is a sentence search result with its owning script title.
type SearchHit struct {
	ID           uuid.UUID `json:"id"`
	OriginalText string    `json:"original_text"`
	ScriptTitle  string    `json:"script_title"`
	OrderIndex   int       `json:"order_index"`
}

type ScriptRepository interface {
	Create(ctx context.Context, title string, sentences []NewSentence) (uuid.UUID, error)
	List(ctx context.Context) ([]*Script, error)
	Get(ctx context.Context, id uuid.UUID) (*Script, []*Sentence, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	ReplaceSentences(ctx context.Context, id uuid.UUID, sentences []NewSentence) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListSentences(ctx context.Context, scriptID uuid.UUID, randomOrder bool) ([]*Sentence, error)
	GetSentence(ctx context.Context, id uuid.UUID) (*Sentence, error)
	SetModelTranslation(ctx context.Context, sentenceID uuid.UUID, translation string) error
	Search(ctx context.Context, query string, limit int) ([]*SearchHit, error)
}

type PostgresScriptRepository struct {
	db *client.PostgresClient
}

func NewPostgresScriptRepository(db *client.PostgresClient) *PostgresScriptRepository {
	return &PostgresScriptRepository{db: db}
}

func (r *PostgresScriptRepository) Create(ctx context.Context, title string, sentences []NewSentence) (uuid.UUID, error) {
	if r.db == nil || r.db.Pool == nil {
		return uuid.Nil, fmt.Errorf("database not configured")
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var scriptID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO scripts (title) VALUES ($1) RETURNING id`,
		title,
	).Scan(&scriptID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create script: %w", err)
	}

	for i, s := range sentences {
		_, err = tx.Exec(ctx,
			`INSERT INTO sentences (script_id, original_text, order_index, model_translation)
			 VALUES ($1, $2, $3, NULLIF($4, ''))`,
			scriptID, s.OriginalText, i, s.ModelTranslation,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert sentence %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit script: %w", err)
	}
	return scriptID, nil
}

func (r *PostgresScriptRepository) List(ctx context.Context) ([]*Script, error) {
	if r.db == nil || r.db.Pool == nil {
		return nil, fmt.Errorf("database not configured")
	}

	query := `
		SELECT s.id, s.title, s.created_at, COUNT(se.id)
		FROM scripts s
		LEFT JOIN sentences se ON se.script_id = s.id
		GROUP BY s.id, s.title, s.created_at
		ORDER BY s.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}
	defer rows.Close()

	var scripts []*Script
	for rows.Next() {
		var s Script
		if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt, &s.SentencesCount); err != nil {
			return nil, fmt.Errorf("failed to scan script: %w", err)
		}
		scripts = append(scripts, &s)
	}
	return scripts, rows.Err()
}

func (r *PostgresScriptRepository) Get(ctx context.Context, id uuid.UUID) (*Script, []*Sentence, error) {
	if r.db == nil || r.db.Pool == nil {
		return nil, nil, fmt.Errorf("database not configured")
	}

	var s Script
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, title, created_at FROM scripts WHERE id = $1`, id,
	).Scan(&s.ID, &s.Title, &s.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get script: %w", err)
	}

	sentences, err := r.ListSentences(ctx, id, false)
	if err != nil {
		return nil, nil, err
	}
	s.SentencesCount = len(sentences)
	return &s, sentences, nil
}

func (r *PostgresScriptRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	if r.db == nil || r.db.Pool == nil {
		return fmt.Errorf("database not configured")
	}

	tag, err := r.db.Pool.Exec(ctx, `UPDATE scripts SET title = $1 WHERE id = $2`, title, id)
	if err != nil {
		return fmt.Errorf("failed to update script title: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("script %s not found", id)
	}
	return nil
}

func (r *PostgresScriptRepository) ReplaceSentences(ctx context.Context, id uuid.UUID, sentences []NewSentence) error {
	if r.db == nil || r.db.Pool == nil {
		return fmt.Errorf("database not configured")
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sentences WHERE script_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear sentences: %w", err)
	}

	for i, s := range sentences {
		_, err = tx.Exec(ctx,
			`INSERT INTO sentences (script_id, original_text, order_index, model_translation)
			 VALUES ($1, $2, $3, NULLIF($4, ''))`,
			id, s.OriginalText, i, s.ModelTranslation,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sentence %d: %w", i, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresScriptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil || r.db.Pool == nil {
		return fmt.Errorf("database not configured")
	}

	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM scripts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete script: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("script %s not found", id)
	}
	return nil
}

func (r *PostgresScriptRepository) ListSentences(ctx context.Context, scriptID uuid.UUID, randomOrder bool) ([]*Sentence, error) {
	if r.db == nil || r.db.Pool == nil {
		return nil, fmt.Errorf("database not configured")
	}

	order := "order_index"
	if randomOrder {
		order = "random()"
	}
	query := fmt.Sprintf(`
		SELECT id, script_id, original_text, order_index, difficulty, model_translation
		FROM sentences
		WHERE script_id = $1
		ORDER BY %s
	`, order)

	rows, err := r.db.Pool.Query(ctx, query, scriptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sentences: %w", err)
	}
	defer rows.Close()

	var sentences []*Sentence
	for rows.Next() {
		var s Sentence
		if err := rows.Scan(&s.ID, &s.ScriptID, &s.OriginalText, &s.OrderIndex, &s.Difficulty, &s.ModelTranslation); err != nil {
			return nil, fmt.Errorf("failed to scan sentence: %w", err)
		}
		sentences = append(sentences, &s)
	}
	return sentences, rows.Err()
}

func (r *PostgresScriptRepository) GetSentence(ctx context.Context, id uuid.UUID) (*Sentence, error) {
	if r.db == nil || r.db.Pool == nil {
		return nil, fmt.Errorf("database not configured")
	}

	var s Sentence
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, script_id, original_text, order_index, difficulty, model_translation
		FROM sentences
		WHERE id = $1
	`, id).Scan(&s.ID, &s.ScriptID, &s.OriginalText, &s.OrderIndex, &s.Difficulty, &s.ModelTranslation)
	if err != nil {
		return nil, fmt.Errorf("failed to get sentence: %w", err)
	}
	return &s, nil
}

func (r *PostgresScriptRepository) SetModelTranslation(ctx context.Context, sentenceID uuid.UUID, translation string) error {
	if r.db == nil || r.db.Pool == nil {
		return fmt.Errorf("database not configured")
	}

	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE sentences SET model_translation = $1 WHERE id = $2`,
		translation, sentenceID,
	)
	if err != nil {
		return fmt.Errorf("failed to set model translation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sentence %s not found", sentenceID)
	}
	return nil
}

func (r *PostgresScriptRepository) Search(ctx context.Context, query string, limit int) ([]*SearchHit, error) {
	if r.db == nil || r.db.Pool == nil {
		return nil, fmt.Errorf("database not configured")
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT se.id, se.original_text, s.title, se.order_index
		FROM sentences se
		JOIN scripts s ON s.id = se.script_id
		WHERE se.original_text ILIKE '%' || $1 || '%'
		ORDER BY s.created_at DESC, se.order_index
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search sentences: %w", err)
	}
	defer rows.Close()

	var hits []*SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.ID, &h.OriginalText, &h.ScriptTitle, &h.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan search hit: %w", err)
		}
		hits = append(hits, &h)
	}
	return hits, rows.Err()
}
