package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cricstats/cricsheet-data/internal/api/respond"
	"github.com/cricstats/cricsheet-data/internal/cache"
	"github.com/cricstats/cricsheet-data/internal/report"
)

// ListReports returns the registered report names.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"reports": report.Names(),
	})
}

// GetReport runs one canned season report:
// GET /api/v1/reports/{name}?season=2019
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	season := r.URL.Query().Get("season")
	if season == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_SEASON", "season query parameter is required")
		return
	}

	key := "report:" + name + ":" + season
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLReport, true)
		return
	}

	result, err := report.Run(r.Context(), h.pool, name, season)
	if err != nil {
		if _, known := report.Registry[name]; !known {
			respond.WriteError(w, http.StatusNotFound, "UNKNOWN_REPORT", err.Error())
			return
		}
		respond.WriteError(w, http.StatusInternalServerError, "REPORT_FAILED", err.Error())
		return
	}

	data, err := json.Marshal(map[string]interface{}{
		"report": result.Name,
		"season": result.Season,
		"rows":   result.Maps(),
	})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", err.Error())
		return
	}

	etag := h.cache.Set(key, data, cache.TTLReport)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, cache.TTLReport, false)
}
