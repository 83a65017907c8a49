package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

const defaultListLimit = 50

// AnalysesCreate stores a new analysis record and echoes it back with its
// assigned identifier.
func (a *App) AnalysesCreate(w http.ResponseWriter, r *http.Request) {
	var rec domain.StoredAnalysis
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(rec.ImageName) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "image_name is required")
		return
	}
	if strings.TrimSpace(rec.AnalysisType) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "analysis_type is required")
		return
	}
	stored, err := a.Repo.Create(r.Context(), &rec)
	if err != nil {
		a.Logger.Error().Err(err).Msg("analyses: create failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store analysis")
		return
	}
	a.json(w, http.StatusCreated, stored)
}

// AnalysesList returns recent records, optionally filtered by analysis_type.
func (a *App) AnalysesList(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	analysisType := r.URL.Query().Get("analysis_type")
	items, err := a.Repo.List(r.Context(), analysisType, limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("analyses: list failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list analyses")
		return
	}
	if items == nil {
		items = []domain.StoredAnalysis{}
	}
	a.json(w, http.StatusOK, items)
}

// AnalysesGet returns one record by id.
func (a *App) AnalysesGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := a.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "analysis not found")
			return
		}
		a.Logger.Error().Err(err).Str("id", id).Msg("analyses: get failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load analysis")
		return
	}
	a.json(w, http.StatusOK, rec)
}

// AnalysesSearch matches records by image name.
func (a *App) AnalysesSearch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if strings.TrimSpace(name) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}
	items, err := a.Repo.SearchByName(r.Context(), name)
	if err != nil {
		a.Logger.Error().Err(err).Str("name", name).Msg("analyses: search failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to search analyses")
		return
	}
	if items == nil {
		items = []domain.StoredAnalysis{}
	}
	a.json(w, http.StatusOK, items)
}

// AnalysesUpdate overwrites descriptions/metadata of a stored record.
func (a *App) AnalysesUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var rec domain.StoredAnalysis
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	updated, err := a.Repo.Update(r.Context(), id, &rec)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "analysis not found")
			return
		}
		a.Logger.Error().Err(err).Str("id", id).Msg("analyses: update failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update analysis")
		return
	}
	a.json(w, http.StatusOK, updated)
}

// AnalysesDelete removes a stored record.
func (a *App) AnalysesDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "analysis not found")
			return
		}
		a.Logger.Error().Err(err).Str("id", id).Msg("analyses: delete failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete analysis")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
