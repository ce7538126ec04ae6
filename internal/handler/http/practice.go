package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/windfall/lingo_practice/internal/service"
	"github.com/windfall/lingo_practice/pkg/response"
)

// PracticeHandler handles translation and pronunciation scoring endpoints.
type PracticeHandler struct {
	log             zerolog.Logger
	practiceService *service.PracticeService
}

// NewPracticeHandler creates a new practice handler.
func NewPracticeHandler(log zerolog.Logger, practiceService *service.PracticeService) *PracticeHandler {
	return &PracticeHandler{
		log:             log,
		practiceService: practiceService,
	}
}

// Translate handles POST /api/practice/translate
//
// Request: { "sentence_id": "...", "user_translation": "..." }
// Response: { original_text, model_translation, user_translation,
// similarity_score, ai_feedback, practice_id }
func (h *PracticeHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SentenceID      string `json:"sentence_id"`
		UserTranslation string `json:"user_translation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	sentenceID, err := uuid.Parse(req.SentenceID)
	if err != nil {
		response.BadRequest(w, "sentence_id is required")
		return
	}

	result, err := h.practiceService.Translate(r.Context(), sentenceID, req.UserTranslation)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// Pronunciation handles POST /api/practice/pronunciation
//
// Request: { "practice_id": "...", "pronunciation_text": "..." }
// Response: { expected_words, actual_words, matched, missed, extra,
// pronunciation_score, user_translation, pronunciation_text }
func (h *PracticeHandler) Pronunciation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PracticeID        string `json:"practice_id"`
		PronunciationText string `json:"pronunciation_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	practiceID, err := uuid.Parse(req.PracticeID)
	if err != nil || req.PronunciationText == "" {
		response.BadRequest(w, "practice_id and pronunciation_text are required")
		return
	}

	result, err := h.practiceService.Pronunciation(r.Context(), practiceID, req.PronunciationText)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}
