package handlers

import (
	"net/http"

	"sierras-backend/internal/repositories"
	"sierras-backend/pkg/utils"
)

type LogAccionHandler struct {
	Repo *repositories.LogAccionRepository
}

func NewLogAccionHandler(repo *repositories.LogAccionRepository) *LogAccionHandler {
	return &LogAccionHandler{Repo: repo}
}

// List returns recent audit entries, newest first
func (h *LogAccionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if n := queryInt(r, "limit"); n != nil {
		limit = *n
	}

	entries, err := h.Repo.List(r.Context(), limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, entries)
}
