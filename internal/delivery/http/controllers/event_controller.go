package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"

	"devevents/internal/delivery/http/helpers"
	"devevents/internal/domain"
)

// slugRegex matches a URL-safe slug: lowercase alphanumeric runs separated by single hyphens.
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// maxMultipartMemory is how much of a multipart body is held in memory before
// spilling to disk.
const maxMultipartMemory = 8 << 20

// maxSubmissionBytes caps the whole multipart submission. It is intentionally
// well above the image size limit so oversized images reach the pipeline's own
// check and get a precise error instead of a generic body-too-large failure.
const maxSubmissionBytes = 32 << 20

type EventController struct {
	Logger    *slog.Logger
	Events    domain.EventService
	Ingestion domain.IngestionService
}

func NewEventController(logger *slog.Logger, events domain.EventService, ingestion domain.IngestionService) *EventController {
	return &EventController{
		Logger:    logger,
		Events:    events,
		Ingestion: ingestion,
	}
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEvents godoc
// @Summary List all events
// @Description Returns all events ordered by event date ascending.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains the events"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Events.ListEvents(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to fetch events")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEventSuccessResponse is the success response envelope for GET /events/{slug} (200).
type GetEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetEventBySlug godoc
// @Summary Get an event by slug
// @Description Returns a single event. The slug must contain only lowercase letters, numbers, and hyphens.
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.GetEventSuccessResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug} [get]
func (c *EventController) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if !slugRegex.MatchString(slug) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest,
			"slug must contain only lowercase letters, numbers, and hyphens")
		return
	}
	event, err := c.Events.GetEventBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to fetch event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// SimilarEvents godoc
// @Summary List similar events
// @Description Returns events that share the source event's first tag, excluding the source event. Always returns a (possibly empty) list.
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains the similar events"
// @Router /events/{slug}/similar [get]
func (c *EventController) SimilarEvents(w http.ResponseWriter, r *http.Request) {
	// Fail-soft by contract: junk slugs simply match nothing.
	events := c.Events.SimilarEvents(r.Context(), r.PathValue("slug"))
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// CreateEventSuccessResponse is the success response envelope for POST /events (201).
type CreateEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates an event from a multipart form. Expects the event fields, tags and agenda as JSON-encoded string arrays, and exactly one image file (max 5 MB) which is uploaded to the image CDN.
// @Tags events
// @Accept mpfd
// @Produce json
// @Param title formData string true "Event title"
// @Param description formData string true "Event description"
// @Param overview formData string true "Event overview"
// @Param venue formData string true "Venue"
// @Param location formData string true "Location"
// @Param date formData string true "Event date (normalized to YYYY-MM-DD)"
// @Param time formData string true "Event time"
// @Param mode formData string true "online, offline, or hybrid"
// @Param audience formData string true "Target audience"
// @Param organizer formData string true "Organizer"
// @Param tags formData string true "JSON array of tags"
// @Param agenda formData string true "JSON array of agenda items"
// @Param image formData file true "Event image"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slug already exists)"
// @Failure 502 {object} helpers.APIResponse "error.code: upload_failed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	input := &domain.CreateEventInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Overview:    r.FormValue("overview"),
		Venue:       r.FormValue("venue"),
		Location:    r.FormValue("location"),
		Date:        r.FormValue("date"),
		Time:        r.FormValue("time"),
		Mode:        r.FormValue("mode"),
		Audience:    r.FormValue("audience"),
		Organizer:   r.FormValue("organizer"),
	}
	// Image is resolved by the ingestion pipeline, never taken from the form.
	if v := r.FormValue("tags"); v != "" {
		if err := json.Unmarshal([]byte(v), &input.Tags); err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "tags must be a JSON array of strings")
			return
		}
	}
	if v := r.FormValue("agenda"); v != "" {
		if err := json.Unmarshal([]byte(v), &input.Agenda); err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "agenda must be a JSON array of strings")
			return
		}
	}

	var image *domain.EventImage
	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// The pipeline reports the missing image as a validation failure.
	case err != nil:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid image upload: "+err.Error())
		return
	default:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "failed to read image: "+err.Error())
			return
		}
		image = &domain.EventImage{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	event, err := c.Ingestion.CreateEventFromSubmission(r.Context(), input, image)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrSlugTaken):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
		case errors.Is(err, domain.ErrUpload):
			c.Logger.ErrorContext(r.Context(), "image upload failed", "path", r.URL.Path, "err", err)
			helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeUploadFailed, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "event creation failed")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}
