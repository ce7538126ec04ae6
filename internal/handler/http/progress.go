package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/windfall/lingo_practice/internal/service"
	"github.com/windfall/lingo_practice/pkg/response"
)

// ProgressHandler serves the aggregated practice report.
type ProgressHandler struct {
	log             zerolog.Logger
	progressService *service.ProgressService
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(log zerolog.Logger, progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:             log,
		progressService: progressService,
	}
}

// Report handles GET /api/progress
func (h *ProgressHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.progressService.Report(r.Context())
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}
