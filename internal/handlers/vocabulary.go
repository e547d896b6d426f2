package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"aprende/internal/service"
	"aprende/internal/storage"
)

// VocabularyHandler handles HTTP requests for the vocabulary list.
type VocabularyHandler struct {
	vocabularyService service.VocabularyService
}

// NewVocabularyHandler creates a new VocabularyHandler.
func NewVocabularyHandler(vocabularyService service.VocabularyService) *VocabularyHandler {
	return &VocabularyHandler{vocabularyService: vocabularyService}
}

// List returns vocabulary items.
// Query parameters: q (search), sortBy, sortOrder, limit, offset.
func (h *VocabularyHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filter := storage.VocabularyFilter{
		Search:    query.Get("q"),
		SortBy:    query.Get("sortBy"),
		SortOrder: query.Get("sortOrder"),
	}

	var ok bool
	if filter.Limit, ok = intParam(w, r, "limit"); !ok {
		return
	}
	if filter.Offset, ok = intParam(w, r, "offset"); !ok {
		return
	}

	items, err := h.vocabularyService.List(ctx, filter)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to fetch vocabulary", false)
		return
	}

	if items == nil {
		items = []storage.VocabularyItem{}
	}
	writeJSON(ctx, w, http.StatusOK, items)
}

// Create inserts one item and returns it.
func (h *VocabularyHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input service.AddVocabularyInput
	if !decodeBody(w, r, &input) {
		return
	}

	item, err := h.vocabularyService.Add(ctx, input)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to add vocabulary", false)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, item)
}

// Delete removes one item.
func (h *VocabularyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.vocabularyService.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(ctx, w, err, "Failed to delete vocabulary", false)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Review marks one item as reviewed now and returns it.
func (h *VocabularyHandler) Review(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	item, err := h.vocabularyService.MarkReviewed(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to update vocabulary", false)
		return
	}

	writeJSON(ctx, w, http.StatusOK, item)
}

// intParam parses an optional integer query parameter. Absent means 0.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return n, true
}
