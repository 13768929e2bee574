package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type directoryResponse struct {
	Items []summaryDTO `json:"items"`
	pageMeta
}

// ListProfiles pages the public creator directory.
func (a *App) ListProfiles(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 0)
	search := r.URL.Query().Get("q")

	result, err := a.Directory.ListProfiles(r.Context(), page, pageSize, search)
	if err != nil {
		a.error(w, r, err)
		return
	}
	items := make([]summaryDTO, 0, len(result.Items))
	for _, s := range result.Items {
		items = append(items, toSummaryDTO(s))
	}
	a.json(w, http.StatusOK, directoryResponse{
		Items: items,
		pageMeta: pageMeta{
			TotalCount: result.TotalCount,
			TotalPages: result.TotalPages,
			Page:       result.Page,
			PageSize:   result.PageSize,
		},
	})
}

// GetProfile returns the public view of one creator by handle.
func (a *App) GetProfile(w http.ResponseWriter, r *http.Request) {
	summary, err := a.Directory.GetByHandle(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toSummaryDTO(*summary))
}
