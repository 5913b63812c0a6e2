package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"famcare/internal/codec"
	"famcare/internal/domain"
	"famcare/internal/provider"
	"famcare/internal/repository"
)

// maxUploadBytes caps multipart uploads (photos and short recordings)
const maxUploadBytes = 25 << 20

// Handlers contains all HTTP handlers
type Handlers struct {
	provider *provider.Provider
}

// NewHandlers creates new handlers
func NewHandlers(p *provider.Provider) *Handlers {
	return &Handlers{provider: p}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "famcare",
		"backend": h.provider.Backend().String(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// CreateEvent records a new medical event
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateMedicalEventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := h.provider.CreateEvent(r.Context(), input)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respond(w, http.StatusCreated, event)
}

// GetEvent returns one event by id
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.provider.GetEventByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if event == nil {
		respondError(w, http.StatusNotFound, "Event not found")
		return
	}

	respond(w, http.StatusOK, event)
}

// ListEvents returns events matching the query-parameter filters
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	filters, err := filtersFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.provider.ListEvents(r.Context(), filters)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respond(w, http.StatusOK, events)
}

// UpdateEvent applies a partial update to an event
func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var patch domain.MedicalEventPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := h.provider.UpdateEvent(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respond(w, http.StatusOK, event)
}

// DeleteEvent removes an event. Idempotent: deleting an absent event
// still returns 204.
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.provider.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LinkPhoto attaches a photo reference to an event
func (h *Handlers) LinkPhoto(w http.ResponseWriter, r *http.Request) {
	var input domain.LinkPhotoInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	input.EventID = chi.URLParam(r, "id")

	photo, err := h.provider.LinkPhoto(r.Context(), input)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respond(w, http.StatusCreated, photo)
}

// ListEventPhotos returns an event's photo links
func (h *Handlers) ListEventPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.provider.ListPhotosByEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respond(w, http.StatusOK, photos)
}

// UnlinkPhoto removes a photo link
func (h *Handlers) UnlinkPhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.provider.UnlinkPhoto(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddRecording attaches an audio recording to an event
func (h *Handlers) AddRecording(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateRecordingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	input.EventID = chi.URLParam(r, "id")

	rec, err := h.provider.AddRecording(r.Context(), input)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respond(w, http.StatusCreated, rec)
}

// ListEventRecordings returns an event's recordings
func (h *Handlers) ListEventRecordings(w http.ResponseWriter, r *http.Request) {
	recs, err := h.provider.ListRecordingsByEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respond(w, http.StatusOK, recs)
}

// DeleteRecording removes a recording link
func (h *Handlers) DeleteRecording(w http.ResponseWriter, r *http.Request) {
	if err := h.provider.DeleteRecording(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadFile stores a multipart file for an event and returns its URL.
// The caller links the returned URL as a photo or recording afterwards.
func (h *Handlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	event, err := h.provider.GetEventByID(r.Context(), eventID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if event == nil {
		respondError(w, http.StatusNotFound, "Event not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	result, err := h.provider.UploadPhoto(r.Context(), eventID, header.Filename, file)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respond(w, http.StatusCreated, map[string]string{
		"url":      result.URL,
		"fileName": result.FileName,
	})
}

// ExportArchive streams every event with its links in the requested
// format (json or yaml)
func (h *Handlers) ExportArchive(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	c := codec.ForFormat(format)
	if c == nil {
		respondError(w, http.StatusBadRequest, "Unknown export format: "+format)
		return
	}

	archive, err := h.provider.ExportArchive(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if c.Format() == "yaml" {
		w.Header().Set("Content-Type", "application/yaml")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="famcare-export.`+c.Format()+`"`)
	if err := c.Export(archive, w); err != nil {
		log.Printf("export: %v", err)
	}
}

// ImportArchive parses an uploaded archive and creates its records.
// Invalid records are skipped and reported in the result counts.
func (h *Handlers) ImportArchive(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	c := codec.ForFormat(format)
	if c == nil {
		respondError(w, http.StatusBadRequest, "Unknown import format: "+format)
		return
	}

	archive, err := c.Parse(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.provider.ImportArchive(r.Context(), archive)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respond(w, http.StatusOK, result)
}

// ListMembers returns the family members
func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.provider.Members(r.Context()))
}

// ListEventTypes returns the closed set of valid event types
func (h *Handlers) ListEventTypes(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, domain.EventTypes)
}

// filtersFromQuery builds event filters from query parameters. Boolean
// parameters must parse; anything else is a 400.
func filtersFromQuery(r *http.Request) (*domain.EventFilters, error) {
	q := r.URL.Query()
	filters := &domain.EventFilters{
		PatientID: q.Get("patientId"),
		Type:      q.Get("type"),
		From:      q.Get("from"),
		To:        q.Get("to"),
	}

	for param, dst := range map[string]**bool{
		"isapreReimbursed":    &filters.IsapreReimbursed,
		"insuranceReimbursed": &filters.InsuranceReimbursed,
	} {
		switch q.Get(param) {
		case "":
		case "true":
			v := true
			*dst = &v
		case "false":
			v := false
			*dst = &v
		default:
			return nil, errors.New("invalid " + param + " parameter, want true or false")
		}
	}

	if filters.IsZero() {
		return nil, nil
	}
	return filters, nil
}

// respondDomainError maps provider and repository errors to HTTP codes.
// Backend failures pass their message through unchanged.
func respondDomainError(w http.ResponseWriter, err error) {
	var verr *provider.InvalidInputError
	if errors.As(err, &verr) {
		respond(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Validation failed",
			"details": verr.Result.Errors,
		})
		return
	}
	if repository.IsNotFound(err) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]string{"error": message})
}
