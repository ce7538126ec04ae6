package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/windfall/lingo_practice/internal/errors"
	"github.com/windfall/lingo_practice/internal/service"
	"github.com/windfall/lingo_practice/pkg/response"
)

// ScriptHandler handles script and sentence management endpoints.
type ScriptHandler struct {
	log           zerolog.Logger
	scriptService *service.ScriptService
}

// NewScriptHandler creates a new script handler.
func NewScriptHandler(log zerolog.Logger, scriptService *service.ScriptService) *ScriptHandler {
	return &ScriptHandler{
		log:           log,
		scriptService: scriptService,
	}
}

// List handles GET /api/scripts
func (h *ScriptHandler) List(w http.ResponseWriter, r *http.Request) {
	scripts, err := h.scriptService.List(r.Context())
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, scripts)
}

// Create handles POST /api/scripts
//
// Request: { "title": "...", "content": "..." }
func (h *ScriptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	result, err := h.scriptService.Create(r.Context(), req.Title, req.Content)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// Get handles GET /api/scripts/{scriptID}
func (h *ScriptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.scriptID(w, r)
	if !ok {
		return
	}

	detail, err := h.scriptService.Get(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, detail)
}

// Update handles PUT /api/scripts/{scriptID}
//
// Request: { "title"?: "...", "content"?: "..." } — absent fields are left
// untouched; new content is re-split and re-translated.
func (h *ScriptHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.scriptID(w, r)
	if !ok {
		return
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.scriptService.Update(r.Context(), id, req.Title, req.Content); err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Delete handles DELETE /api/scripts/{scriptID}
func (h *ScriptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.scriptID(w, r)
	if !ok {
		return
	}

	if err := h.scriptService.Delete(r.Context(), id); err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Sentences handles GET /api/scripts/{scriptID}/sentences?mode=
// The mode string is forwarded by clients verbatim; anything other than
// "random" means sequential order. An empty list is a valid response.
func (h *ScriptHandler) Sentences(w http.ResponseWriter, r *http.Request) {
	id, ok := h.scriptID(w, r)
	if !ok {
		return
	}

	mode := r.URL.Query().Get("mode")
	sentences, err := h.scriptService.Sentences(r.Context(), id, mode)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sentences)
}

// SetModelTranslation handles POST /api/sentence/{sentenceID}/model_translation
//
// Request: { "model_translation": "..." }
func (h *ScriptHandler) SetModelTranslation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sentenceID"))
	if err != nil {
		response.AppError(w, errors.NotFound("sentence"))
		return
	}

	var req struct {
		ModelTranslation string `json:"model_translation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.scriptService.SetModelTranslation(r.Context(), id, req.ModelTranslation); err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"model_translation": req.ModelTranslation,
	})
}

// Search handles GET /api/sentences/search?q=
func (h *ScriptHandler) Search(w http.ResponseWriter, r *http.Request) {
	hits, err := h.scriptService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, hits)
}

func (h *ScriptHandler) scriptID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "scriptID"))
	if err != nil {
		response.AppError(w, errors.NotFound("script"))
		return uuid.Nil, false
	}
	return id, true
}
