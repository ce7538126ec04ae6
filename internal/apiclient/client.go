package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/windfall/lingo_practice/internal/errors"
)

// ScriptSummary is one entry of the script list.
type ScriptSummary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	SentencesCount int    `json:"sentences_count"`
	CreatedAt      string `json:"created_at"`
}

// Sentence is one practiceable unit as served by the backend. Identifiers
// are opaque strings; the client never parses them.
type Sentence struct {
	ID               string `json:"id"`
	OriginalText     string `json:"original_text"`
	OrderIndex       int    `json:"order_index"`
	Difficulty       string `json:"difficulty"`
	ModelTranslation string `json:"model_translation"`
}

// CreateScriptResult reports the outcome of script creation.
type CreateScriptResult struct {
	ScriptID               string `json:"script_id"`
	SentencesCount         int    `json:"sentences_count"`
	AutoTranslation        bool   `json:"auto_translation"`
	AutoTranslationMessage string `json:"auto_translation_message"`
}

// TranslationResult is the scored outcome of a translation submission.
type TranslationResult struct {
	PracticeID       string  `json:"practice_id"`
	OriginalText     string  `json:"original_text"`
	UserTranslation  string  `json:"user_translation"`
	ModelTranslation string  `json:"model_translation"`
	SimilarityScore  float64 `json:"similarity_score"`
	AIFeedback       string  `json:"ai_feedback"`
}

// PronunciationResult is the word-level outcome of a pronunciation
// submission.
type PronunciationResult struct {
	PronunciationScore float64  `json:"pronunciation_score"`
	ExpectedWords      []string `json:"expected_words"`
	ActualWords        []string `json:"actual_words"`
	Matched            []string `json:"matched"`
	Missed             []string `json:"missed"`
	Extra              []string `json:"extra"`
	UserTranslation    string   `json:"user_translation"`
	PronunciationText  string   `json:"pronunciation_text"`
}

// RecentSession is one row of the progress report.
type RecentSession struct {
	ID                 string   `json:"id"`
	SentenceText       string   `json:"sentence_text"`
	UserTranslation    string   `json:"user_translation"`
	TranslationScore   float64  `json:"translation_score"`
	PronunciationScore *float64 `json:"pronunciation_score"`
	PracticeDate       string   `json:"practice_date"`
}

// ProgressReport is the aggregated practice report.
type ProgressReport struct {
	TotalScripts          int             `json:"total_scripts"`
	TotalSentences        int             `json:"total_sentences"`
	TotalPracticeSessions int             `json:"total_practice_sessions"`
	AvgTranslationScore   float64         `json:"avg_translation_score"`
	AvgPronunciationScore float64         `json:"avg_pronunciation_score"`
	RecentSessions        []RecentSession `json:"recent_sessions"`
}

// SearchHit is one sentence search result.
type SearchHit struct {
	ScriptTitle  string `json:"script_title"`
	OriginalText string `json:"original_text"`
	OrderIndex   int    `json:"order_index"`
}

// Client issues the practice API's JSON requests. Pure transport and
// (de)serialization; it holds no practice state and never retries.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// New creates a new API client against the given base URL.
func New(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// ListScripts fetches all scripts with sentence counts.
func (c *Client) ListScripts(ctx context.Context) ([]ScriptSummary, error) {
	var scripts []ScriptSummary
	if err := c.do(ctx, http.MethodGet, "/api/scripts", nil, &scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}

// CreateScript submits a new script. Title and content are checked
// client-side so an empty form never issues a request.
func (c *Client) CreateScript(ctx context.Context, title, content string) (*CreateScriptResult, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, errors.Validation("title and content are required")
	}

	body := map[string]string{"title": title, "content": content}
	var result CreateScriptResult
	if err := c.do(ctx, http.MethodPost, "/api/scripts", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchSentences loads a script's sentences in practice order. The mode
// string is forwarded verbatim; an empty result is valid and means the
// script has no content.
func (c *Client) FetchSentences(ctx context.Context, scriptID, mode string) ([]Sentence, error) {
	path := fmt.Sprintf("/api/scripts/%s/sentences?mode=%s", url.PathEscape(scriptID), url.QueryEscape(mode))
	var sentences []Sentence
	if err := c.do(ctx, http.MethodGet, path, nil, &sentences); err != nil {
		return nil, err
	}
	return sentences, nil
}

// SubmitTranslation scores a user translation for a sentence.
func (c *Client) SubmitTranslation(ctx context.Context, sentenceID, userTranslation string) (*TranslationResult, error) {
	body := map[string]string{
		"sentence_id":      sentenceID,
		"user_translation": userTranslation,
	}
	var result TranslationResult
	if err := c.do(ctx, http.MethodPost, "/api/practice/translate", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitPronunciation scores a spoken transcript against the practice
// attempt identified by practiceID.
func (c *Client) SubmitPronunciation(ctx context.Context, practiceID, pronunciationText string) (*PronunciationResult, error) {
	body := map[string]string{
		"practice_id":        practiceID,
		"pronunciation_text": pronunciationText,
	}
	var result PronunciationResult
	if err := c.do(ctx, http.MethodPost, "/api/practice/pronunciation", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetModelTranslation stores a reference translation for a sentence.
func (c *Client) SetModelTranslation(ctx context.Context, sentenceID, translation string) (bool, error) {
	path := fmt.Sprintf("/api/sentence/%s/model_translation", url.PathEscape(sentenceID))
	body := map[string]string{"model_translation": translation}
	var result struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		return false, err
	}
	return result.Success, nil
}

// FetchProgress loads the aggregated practice report.
func (c *Client) FetchProgress(ctx context.Context) (*ProgressReport, error) {
	var report ProgressReport
	if err := c.do(ctx, http.MethodGet, "/api/progress", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SearchSentences finds sentences containing the query text.
func (c *Client) SearchSentences(ctx context.Context, query string) ([]SearchHit, error) {
	path := "/api/sentences/search?q=" + url.QueryEscape(query)
	var hits []SearchHit
	if err := c.do(ctx, http.MethodGet, path, nil, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

// do issues one request. Transport failures and non-2xx statuses without an
// application error payload map to NETWORK_ERROR; an {"error": ...} payload
// maps to BACKEND_ERROR. The caller sees exactly one of: decoded response,
// AppError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.InternalWrap("failed to encode request", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.InternalWrap("failed to create request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Network("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Error != "" {
			c.log.Debug().Int("status", resp.StatusCode).Str("error", errBody.Error).Str("path", path).Msg("Backend error")
			return errors.Backend(errBody.Error)
		}
		return errors.New(errors.ErrNetwork, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Network("failed to decode response", err)
	}
	return nil
}
