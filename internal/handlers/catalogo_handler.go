package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"sierras-backend/internal/cache"
	"sierras-backend/internal/repositories"
)

// CatalogoHandler serves the lookup tables. Lists are cached in Redis
// because every form in the UI requests them.
type CatalogoHandler struct {
	Repo *repositories.CatalogoRepository
}

func NewCatalogoHandler(repo *repositories.CatalogoRepository) *CatalogoHandler {
	return &CatalogoHandler{Repo: repo}
}

func (h *CatalogoHandler) serveCached(w http.ResponseWriter, r *http.Request, key string, fetch func(ctx context.Context) (interface{}, error)) {
	if data, ok := cache.GetCached(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	items, err := fetch(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data, err := json.Marshal(items)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	cache.SetCached(r.Context(), key, data, cache.CatalogoTTL)

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (h *CatalogoHandler) ListEstadosSierra(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, cache.EstadosSierraKey, func(ctx context.Context) (interface{}, error) {
		return h.Repo.ListEstadosSierra(ctx)
	})
}

func (h *CatalogoHandler) ListTiposSierra(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, cache.TiposSierraKey, func(ctx context.Context) (interface{}, error) {
		return h.Repo.ListTiposSierra(ctx)
	})
}

func (h *CatalogoHandler) ListTiposAfilado(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, cache.TiposAfiladoKey, func(ctx context.Context) (interface{}, error) {
		return h.Repo.ListTiposAfilado(ctx)
	})
}
