package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"hanzi/internal/codec"
	"hanzi/internal/domain"
	"hanzi/internal/service"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 8 << 20

// VocabularyHandler handles the vocabulary REST API
type VocabularyHandler struct {
	svc *service.VocabularyService
}

// NewVocabularyHandler creates a new vocabulary handler
func NewVocabularyHandler(svc *service.VocabularyService) *VocabularyHandler {
	return &VocabularyHandler{svc: svc}
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StatusResponse acknowledges a write that returns no record
type StatusResponse struct {
	Status string `json:"status"`
}

var statusOK = StatusResponse{Status: "ok"}

// RegisterRoutes adds every API route to mux
func (h *VocabularyHandler) RegisterRoutes(mux *http.ServeMux) {
	// Characters
	mux.HandleFunc("GET /characters", h.ListCharacters)
	mux.HandleFunc("POST /characters", h.CreateCharacter)
	mux.HandleFunc("GET /characters/{ref}", h.GetCharacter)
	mux.HandleFunc("PUT /characters/{ref}", h.UpdateCharacter)
	mux.HandleFunc("DELETE /characters/{ref}", h.DeleteCharacter)

	// Batches
	mux.HandleFunc("GET /batches", h.ListBatches)
	mux.HandleFunc("POST /batches", h.CreateBatches)
	mux.HandleFunc("PUT /batches/{id}", h.UpdateBatch)
	mux.HandleFunc("DELETE /batches/{id}", h.DeleteBatch)

	// Groups
	mux.HandleFunc("GET /groups", h.ListGroups)
	mux.HandleFunc("POST /groups", h.CreateGroups)
	mux.HandleFunc("PUT /groups/{id}", h.UpdateGroup)
	mux.HandleFunc("DELETE /groups/{id}", h.DeleteGroup)

	// Tags and settings
	mux.HandleFunc("GET /tags", h.ListTags)
	mux.HandleFunc("GET /settings/{key}", h.GetSetting)
	mux.HandleFunc("PUT /settings/{key}", h.SetSetting)
	mux.HandleFunc("GET /settings/last_reviewed", h.GetLastReviewed)
	mux.HandleFunc("PUT /settings/last_reviewed", h.SetLastReviewed)
	mux.HandleFunc("GET /last_reviewed", h.GetLastReviewed)
	mux.HandleFunc("PUT /last_reviewed", h.SetLastReviewed)

	// Export
	mux.HandleFunc("GET /export", h.Export)

	mux.HandleFunc("GET /healthz", h.Health)
}

// ============================================================================
// Characters
// ============================================================================

// ListCharacters returns all characters
func (h *VocabularyHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	chars, err := h.svc.ListCharacters(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list characters", err)
		return
	}

	h.writeJSON(w, chars, http.StatusOK)
}

// GetCharacter returns one character by id or text form
func (h *VocabularyHandler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCharacter(r.Context(), r.PathValue("ref"))
	if err != nil {
		h.writeServiceError(w, "Failed to get character", err)
		return
	}

	h.writeJSON(w, c, http.StatusOK)
}

// CreateCharacter creates a character and returns the stored record
func (h *VocabularyHandler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var in domain.CharacterInput
	if !h.decodeBody(w, r, &in) {
		return
	}

	c, err := h.svc.CreateCharacter(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, "Failed to create character", err)
		return
	}

	h.writeJSON(w, c, http.StatusCreated)
}

// UpdateCharacter overwrites a character by id
func (h *VocabularyHandler) UpdateCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "ref")
	if !ok {
		return
	}

	var in domain.CharacterInput
	if !h.decodeBody(w, r, &in) {
		return
	}

	if err := h.svc.UpdateCharacter(r.Context(), id, in); err != nil {
		h.writeServiceError(w, "Failed to update character", err)
		return
	}

	h.writeJSON(w, statusOK, http.StatusOK)
}

// DeleteCharacter deletes a character by id
func (h *VocabularyHandler) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "ref")
	if !ok {
		return
	}

	if err := h.svc.DeleteCharacter(r.Context(), id); err != nil {
		h.writeServiceError(w, "Failed to delete character", err)
		return
	}

	h.writeJSON(w, statusOK, http.StatusOK)
}

// ============================================================================
// Batches
// ============================================================================

// ListBatches returns all batches
func (h *VocabularyHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.svc.ListBatches(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list batches", err)
		return
	}

	h.writeJSON(w, batches, http.StatusOK)
}

// CreateBatches appends one batch for an object body, or replaces every
// batch for an array body
func (h *VocabularyHandler) CreateBatches(w http.ResponseWriter, r *http.Request) {
	inputs, isList, ok := h.decodeCollections(w, r)
	if !ok {
		return
	}

	if isList {
		batches, err := h.svc.ReplaceBatches(r.Context(), inputs)
		if err != nil {
			h.writeServiceError(w, "Failed to replace batches", err)
			return
		}
		h.writeJSON(w, batches, http.StatusOK)
		return
	}

	b, err := h.svc.CreateBatch(r.Context(), inputs[0])
	if err != nil {
		h.writeServiceError(w, "Failed to create batch", err)
		return
	}

	h.writeJSON(w, b, http.StatusCreated)
}

// UpdateBatch rewrites a batch by id
func (h *VocabularyHandler) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var in domain.CollectionInput
	if !h.decodeBody(w, r, &in) {
		return
	}

	if err := h.svc.UpdateBatch(r.Context(), id, in); err != nil {
		h.writeServiceError(w, "Failed to update batch", err)
		return
	}

	h.writeJSON(w, statusOK, http.StatusOK)
}

// DeleteBatch deletes a batch by id
func (h *VocabularyHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteBatch(r.Context(), id); err != nil {
		h.writeServiceError(w, "Failed to delete batch", err)
		return
	}

	h.writeJSON(w, statusOK, http.StatusOK)
}

// ============================================================================
// Groups
// ============================================================================

// ListGroups returns all groups
func (h *VocabularyHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.ListGroups(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list groups", err)
		return
	}

	h.writeJSON(w, groups, http.StatusOK)
}

// CreateGroups inserts one group per object in the body
func (h *VocabularyHandler) CreateGroups(w http.ResponseWriter, r *http.Request) {
	inputs, isList, ok := h.decodeCollections(w, r)
	if !ok {
		return
	}

	groups, err := h.svc.CreateGroups(r.Context(), inputs)
	if err != nil {
		h.writeServiceError(w, "Failed to create groups", err)
		return
	}

	if !isList && len(groups) == 1 {
		h.writeJSON(w, groups[0], http.StatusCreated)
		return
	}
	h.writeJSON(w, groups, http.StatusCreated)
}

// UpdateGroup rewrites a group by id
func (h *VocabularyHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var in domain.CollectionInput
	if !h.decodeBody(w, r, &in) {
		return
	}

	if err := h.svc.UpdateGroup(r.Context(), id, in); err != nil {
		h.writeServiceError(w, "Failed to update group", err)
		return
	}

	h.writeJSON(w, statusOK, http.StatusOK)
}

// DeleteGroup deletes a group by id
func (h *VocabularyHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteGroup(r.Context(), id); err != nil {
		h.writeServiceError(w, "Failed to delete group", err)
		return
	}

	h.writeJSON(w, statusOK, http.StatusOK)
}

// ============================================================================
// Tags and settings
// ============================================================================

// ListTags returns every known tag name
func (h *VocabularyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListTags(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list tags", err)
		return
	}

	h.writeJSON(w, tags, http.StatusOK)
}

// GetSetting returns {"value": ...}; an unset key reads as ""
func (h *VocabularyHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	h.getSetting(w, r, r.PathValue("key"))
}

// SetSetting stores the body's value under key
func (h *VocabularyHandler) SetSetting(w http.ResponseWriter, r *http.Request) {
	h.setSetting(w, r, r.PathValue("key"))
}

// GetLastReviewed returns the last reviewed character reference
func (h *VocabularyHandler) GetLastReviewed(w http.ResponseWriter, r *http.Request) {
	h.getSetting(w, r, domain.LastReviewedKey)
}

// SetLastReviewed stores the last reviewed character reference
func (h *VocabularyHandler) SetLastReviewed(w http.ResponseWriter, r *http.Request) {
	h.setSetting(w, r, domain.LastReviewedKey)
}

func (h *VocabularyHandler) getSetting(w http.ResponseWriter, r *http.Request, key string) {
	value, err := h.svc.GetSetting(r.Context(), key)
	if err != nil {
		h.writeServiceError(w, "Failed to get setting", err)
		return
	}

	h.writeJSON(w, domain.SettingValue{Value: value}, http.StatusOK)
}

func (h *VocabularyHandler) setSetting(w http.ResponseWriter, r *http.Request, key string) {
	var body domain.SettingValue
	if !h.decodeBody(w, r, &body) {
		return
	}

	if err := h.svc.SetSetting(r.Context(), key, body.Value); err != nil {
		h.writeServiceError(w, "Failed to set setting", err)
		return
	}

	h.writeJSON(w, body, http.StatusOK)
}

// ============================================================================
// Export and health
// ============================================================================

// Export downloads the full export document; ?format=yaml selects YAML
func (h *VocabularyHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	exporter, err := codec.NewExporter(format)
	if err != nil {
		h.writeError(w, "Invalid format", err.Error(), http.StatusBadRequest)
		return
	}

	// Buffer so a failed export still gets a proper error status.
	var buf bytes.Buffer
	if _, err := h.svc.ExportTo(r.Context(), format, &buf); err != nil {
		h.writeServiceError(w, "Failed to export", err)
		return
	}

	contentType := "application/json"
	if exporter.Format() == "yaml" {
		contentType = "application/x-yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=hanzi-export.%s", exporter.Format()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Failed to write export: %v", err)
	}
}

// Health reports that the server is up and the store answers
func (h *VocabularyHandler) Health(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.ListTags(r.Context()); err != nil {
		h.writeError(w, "unhealthy", err.Error(), http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, statusOK, http.StatusOK)
}

// ============================================================================
// Helpers
// ============================================================================

// decodeBody reads a JSON body into v. An empty body leaves v zero so
// absent fields default to "".
func (h *VocabularyHandler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return true
	}
	if err := json.Unmarshal(data, v); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *VocabularyHandler) decodeCollections(w http.ResponseWriter, r *http.Request) ([]domain.CollectionInput, bool, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return nil, false, false
	}

	inputs, isList, err := domain.ParseCollectionInputs(data)
	if err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return nil, false, false
	}
	return inputs, isList, true
}

func (h *VocabularyHandler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.writeError(w, "Invalid id", fmt.Sprintf("%q is not a numeric id", raw), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeServiceError maps domain errors to status codes and logs the rest.
func (h *VocabularyHandler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, "not found", "", http.StatusNotFound)
	case errors.Is(err, domain.ErrDuplicateCharacter):
		h.writeError(w, "duplicate character", err.Error(), http.StatusConflict)
	default:
		log.Printf("%s: %v", msg, err)
		h.writeError(w, msg, err.Error(), http.StatusInternalServerError)
	}
}

func (h *VocabularyHandler) writeJSON(w http.ResponseWriter, data any, statusCode int) {
	writeJSON(w, data, statusCode)
}

func (h *VocabularyHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeError(w, error, details, statusCode)
}

func writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, ErrorResponse{
		Error:   error,
		Details: details,
	}, statusCode)
}
